// Package app содержит основную логику TUI приложения
package app

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/go-jukebox/internal/playback"
	"github.com/hazadus/go-jukebox/internal/player"
	"github.com/hazadus/go-jukebox/internal/theme"
	"github.com/hazadus/go-jukebox/internal/track"
	"github.com/hazadus/go-jukebox/internal/tui/editor"
	tuiPlayer "github.com/hazadus/go-jukebox/internal/tui/player"
	"github.com/hazadus/go-jukebox/internal/tui/styles"
	"github.com/hazadus/go-jukebox/internal/tui/tracklist"
)

const (
	volumeStep = 0.1
	seekStep   = 0.05
)

// ScreenType определяет тип текущего экрана
type ScreenType int

// Константы для типов экранов
const (
	// TracklistScreen - экран списка треков
	TracklistScreen ScreenType = iota
	// EditorScreen - форма добавления трека
	EditorScreen
)

// Feed источник событий медиаплеера
type Feed interface {
	Progress() <-chan player.Status
	Done() <-chan bool
}

// Importer добавляет и удаляет треки вместе с файлами
type Importer interface {
	editor.Importer
	Remove(ctx context.Context, id string, purge bool) (*track.Track, error)
}

// Deps зависимости главной модели
type Deps struct {
	Store      *track.Store
	Controller *playback.Controller
	Importer   Importer
	Feed       Feed // может быть nil
	Theme      *theme.Preference
	Sorter     *track.Sorter
	SortField  track.SortField
	SortOrder  track.SortOrder
	Purge      bool // удалять файл из медиатеки вместе с треком
}

// opResultMsg результат команды контроллера
type opResultMsg struct {
	err error
}

// feedMsg обновление прогресса от плеера
type feedMsg struct {
	status player.Status
	err    error
}

// endedMsg трек доиграл, контроллер выбрал следующий
type endedMsg struct {
	err error
}

// removedMsg результат удаления трека
type removedMsg struct {
	track *track.Track
	err   error
}

// MainModel представляет главную модель TUI
type MainModel struct {
	deps           Deps
	styles         *styles.Styles
	currentScreen  ScreenType
	tracklistModel *tracklist.Model
	playerModel    *tuiPlayer.Model
	editorModel    *editor.Model
	notice         string
	width          int
	height         int
}

// NewMainModel создает новую главную модель
func NewMainModel(deps Deps) *MainModel {
	st := styles.New(deps.Theme.IsLight())
	if deps.Sorter == nil {
		deps.Sorter = track.NewSorter(track.DefaultLocale)
	}

	state := deps.Controller.State()
	tracklistModel := tracklist.NewModel(&st, deps.Sorter, deps.SortField, deps.SortOrder)
	tracklistModel.SetTracks(deps.Store.All())
	if state.Track != nil {
		tracklistModel.SetCurrent(state.Track.ID)
	}

	return &MainModel{
		deps:           deps,
		styles:         &st,
		currentScreen:  TracklistScreen,
		tracklistModel: tracklistModel,
		playerModel:    tuiPlayer.NewModel(&st, state),
	}
}

// Init инициализирует модель
func (m *MainModel) Init() tea.Cmd {
	return tea.Batch(
		m.tracklistModel.Init(),
		m.listenForState(),
		m.listenForFeed(),
	)
}

// Update обрабатывает сообщения
func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.acceptsGlobalKeys() {
			if cmd, handled := m.handleGlobalKey(msg); handled {
				return m, cmd
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.playerModel.Update(msg)
		m.tracklistModel.Update(msg)
		if m.editorModel != nil {
			m.editorModel.Update(msg)
		}
		return m, nil

	case tuiPlayer.StateMsg:
		m.playerModel.Update(msg)
		if msg.State.Track != nil {
			m.tracklistModel.SetCurrent(msg.State.Track.ID)
		} else {
			m.tracklistModel.SetCurrent("")
		}
		return m, m.listenForState()

	case feedMsg:
		m.playerModel.Update(tuiPlayer.StatusMsg{Status: msg.status})
		if msg.err != nil {
			m.playerModel.Update(tuiPlayer.ErrorMsg{Err: msg.err})
		}
		return m, m.listenForFeed()

	case endedMsg:
		if msg.err != nil {
			m.playerModel.Update(tuiPlayer.ErrorMsg{Err: msg.err})
		}
		return m, m.listenForFeed()

	case opResultMsg:
		if msg.err != nil {
			m.playerModel.Update(tuiPlayer.ErrorMsg{Err: msg.err})
		}
		return m, nil

	case tracklist.PlayMsg:
		return m, m.run(func() error { return m.deps.Controller.PlayID(msg.ID) })

	case tracklist.DeleteMsg:
		return m, m.remove(msg.ID)

	case removedMsg:
		switch {
		case msg.err != nil:
			m.notice = fmt.Sprintf("❌ Ошибка удаления: %v", msg.err)
		case msg.track == nil:
			m.notice = "Трек уже удален"
		default:
			m.notice = fmt.Sprintf("🗑️  Удален трек «%s»", msg.track.Name)
		}
		m.tracklistModel.SetTracks(m.deps.Store.All())
		return m, nil

	case tracklist.AddMsg:
		m.currentScreen = EditorScreen
		m.editorModel = editor.NewModel(m.styles, m.deps.Importer)
		if m.width > 0 {
			m.editorModel.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		}
		m.notice = ""
		return m, m.editorModel.Init()

	case editor.GoBackMsg:
		m.currentScreen = TracklistScreen
		m.editorModel = nil
		return m, nil

	case editor.TrackAddedMsg:
		m.currentScreen = TracklistScreen
		m.editorModel = nil
		m.notice = fmt.Sprintf("✅ Добавлен трек «%s»", msg.Track.Name)
		m.tracklistModel.SetTracks(m.deps.Store.All())
		return m, nil
	}

	// Передаем сообщение активной модели
	var cmd tea.Cmd
	switch m.currentScreen {
	case TracklistScreen:
		m.tracklistModel, cmd = m.tracklistModel.Update(msg)
	case EditorScreen:
		if m.editorModel != nil {
			m.editorModel, cmd = m.editorModel.Update(msg)
		}
	}
	return m, cmd
}

// acceptsGlobalKeys сообщает, что клавиши не нужны активному полю ввода
func (m *MainModel) acceptsGlobalKeys() bool {
	return m.currentScreen == TracklistScreen &&
		!m.tracklistModel.Searching() &&
		!m.tracklistModel.Confirming()
}

func (m *MainModel) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	c := m.deps.Controller

	switch msg.String() {
	case "q":
		return tea.Quit, true

	case " ":
		return m.run(c.TogglePlayPause), true

	case "n":
		return m.run(c.Next), true

	case "p":
		return m.run(c.Previous), true

	case "r":
		c.CycleRepeatMode()
		return nil, true

	case "x":
		c.ToggleShuffle()
		return nil, true

	case "+", "=":
		c.SetVolume(playback.StepVolume(c.State().Volume, volumeStep))
		return nil, true

	case "-":
		c.SetVolume(playback.StepVolume(c.State().Volume, -volumeStep))
		return nil, true

	case "right", "left":
		step := seekStep
		if msg.String() == "left" {
			step = -seekStep
		}
		fraction := c.State().Progress.Fraction + step
		return m.run(func() error { return c.Seek(fraction) }), true

	case "t":
		m.toggleTheme()
		return nil, true
	}

	return nil, false
}

// toggleTheme переключает и сохраняет тему
func (m *MainModel) toggleTheme() {
	light, err := m.deps.Theme.Toggle()
	if err != nil {
		m.notice = fmt.Sprintf("❌ Не удалось сохранить тему: %v", err)
		return
	}
	*m.styles = styles.New(light)
	m.tracklistModel.Restyle()
	m.playerModel.Restyle()
	m.notice = ""
}

// run выполняет операцию контроллера вне цикла обработки сообщений
func (m *MainModel) run(op func() error) tea.Cmd {
	return func() tea.Msg {
		return opResultMsg{err: op()}
	}
}

// remove удаляет трек и сообщает об этом контроллеру
func (m *MainModel) remove(id string) tea.Cmd {
	importer, controller, purge := m.deps.Importer, m.deps.Controller, m.deps.Purge
	return func() tea.Msg {
		removed, err := importer.Remove(context.Background(), id, purge)
		if removed != nil {
			controller.OnRemoved(id)
		}
		return removedMsg{track: removed, err: err}
	}
}

// listenForState ждет следующий снимок состояния контроллера
func (m *MainModel) listenForState() tea.Cmd {
	changes := m.deps.Controller.Changes()
	return func() tea.Msg {
		state, ok := <-changes
		if !ok {
			return nil
		}
		return tuiPlayer.StateMsg{State: state}
	}
}

// listenForFeed слушает прогресс и окончание трека от плеера
func (m *MainModel) listenForFeed() tea.Cmd {
	feed, controller := m.deps.Feed, m.deps.Controller
	if feed == nil {
		return nil
	}

	return func() tea.Msg {
		select {
		case status, ok := <-feed.Progress():
			if !ok {
				return nil
			}
			if status.Stalled() {
				controller.OnStartFailed(player.ErrStalled)
				return feedMsg{status: status, err: player.ErrStalled}
			}
			controller.OnTimeUpdate(status.Current, status.Total)
			return feedMsg{status: status}

		case _, ok := <-feed.Done():
			if !ok {
				return nil
			}
			return endedMsg{err: controller.OnEnded()}
		}
	}
}

// View отображает интерфейс
func (m *MainModel) View() string {
	var b strings.Builder

	switch m.currentScreen {
	case TracklistScreen:
		b.WriteString(m.tracklistModel.View())
	case EditorScreen:
		if m.editorModel != nil {
			b.WriteString(m.editorModel.View())
		} else {
			b.WriteString("Ошибка: модель редактора не инициализирована")
		}
	default:
		return "Неизвестный экран"
	}

	b.WriteString("\n\n")
	b.WriteString(m.playerModel.View())
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString(m.notice)
		b.WriteString("\n")
	}

	if m.currentScreen == TracklistScreen {
		b.WriteString(m.styles.Help.Render(
			"enter: играть • пробел: пауза • n/p: след./пред. • ←/→: перемотка • +/-: громкость\n" +
				"r: повтор • x: перемешать • s/o: сортировка • /: поиск • a: добавить • d: удалить • t: тема • q: выход"))
	}

	return b.String()
}

// CurrentScreen возвращает активный экран
func (m *MainModel) CurrentScreen() ScreenType {
	return m.currentScreen
}
