// Package tui содержит компоненты для текстового пользовательского интерфейса
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/go-jukebox/internal/tui/app"
)

// App представляет основное TUI приложение
type App struct {
	deps app.Deps
}

// NewApp создает новый экземпляр TUI приложения
func NewApp(deps app.Deps) *App {
	return &App{deps: deps}
}

// Model создает главную модель приложения
func (tuiApp *App) Model() *app.MainModel {
	return app.NewMainModel(tuiApp.deps)
}

// Run запускает TUI приложение
func (tuiApp *App) Run() error {
	p := tea.NewProgram(tuiApp.Model(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
