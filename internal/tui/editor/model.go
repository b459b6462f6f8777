// Package editor содержит форму добавления трека для TUI
package editor

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/go-jukebox/internal/media"
	"github.com/hazadus/go-jukebox/internal/metadata"
	"github.com/hazadus/go-jukebox/internal/track"
	"github.com/hazadus/go-jukebox/internal/tui/styles"
)

// Importer добавляет файл в плейлист
type Importer interface {
	ImportFile(ctx context.Context, filePath string, opts media.ImportOptions) (*media.ImportResult, error)
}

// TrackAddedMsg отправляется когда трек успешно добавлен
type TrackAddedMsg struct {
	Track track.Track
}

// GoBackMsg отправляется при отмене добавления
type GoBackMsg struct{}

// savedMsg результат фонового добавления
type savedMsg struct {
	result *media.ImportResult
	err    error
}

// fieldType определяет тип поля формы
type fieldType int

const (
	pathField fieldType = iota
	nameField
	artistField
	numFields
)

var labels = []string{"Файл:", "Название:", "Исполнитель:"}

// Model представляет модель формы добавления трека
type Model struct {
	styles     *styles.Styles
	importer   Importer
	extractor  *metadata.Extractor
	inputs     []textinput.Model
	focusIndex int
	saving     bool
	err        string
}

// NewModel создает форму добавления трека
func NewModel(st *styles.Styles, importer Importer) *Model {
	inputs := make([]textinput.Model, numFields)

	inputs[pathField] = textinput.New()
	inputs[pathField].Placeholder = "/путь/к/файлу.mp3"

	inputs[nameField] = textinput.New()
	inputs[nameField].Placeholder = "Введите название трека"

	inputs[artistField] = textinput.New()
	inputs[artistField].Placeholder = "Введите исполнителя"

	m := &Model{
		styles:    st,
		importer:  importer,
		extractor: metadata.NewExtractor(),
		inputs:    inputs,
	}
	m.focus()
	return m
}

// Init инициализирует модель
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Value возвращает значение поля формы
func (m *Model) Value(field fieldType) string {
	return m.inputs[field].Value()
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.saving {
			return m, nil
		}

		switch msg.String() {
		case "esc":
			return m, func() tea.Msg {
				return GoBackMsg{}
			}

		case "ctrl+s":
			return m, m.save()

		case "tab", "shift+tab", "enter", "up", "down":
			s := msg.String()

			if s == "enter" && m.focusIndex == len(m.inputs) {
				// Enter на кнопке Добавить
				return m, m.save()
			}

			leaving := m.focusIndex
			if s == "up" || s == "shift+tab" {
				m.focusIndex--
			} else {
				m.focusIndex++
			}

			if m.focusIndex > len(m.inputs) {
				m.focusIndex = 0
			} else if m.focusIndex < 0 {
				m.focusIndex = len(m.inputs)
			}

			if leaving == int(pathField) {
				m.autofill()
			}

			return m, m.focus()
		}

	case savedMsg:
		m.saving = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		added := msg.result.Track
		return m, func() tea.Msg {
			return TrackAddedMsg{Track: added}
		}

	case tea.WindowSizeMsg:
		for i := range m.inputs {
			m.inputs[i].Width = msg.Width - 20
		}
		return m, nil
	}

	if m.focusIndex < len(m.inputs) {
		var cmd tea.Cmd
		m.inputs[m.focusIndex], cmd = m.inputs[m.focusIndex].Update(msg)
		return m, cmd
	}

	return m, nil
}

// focus переносит фокус на текущее поле
func (m *Model) focus() tea.Cmd {
	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		if i == m.focusIndex {
			cmds[i] = m.inputs[i].Focus()
			m.inputs[i].PromptStyle = m.styles.Focused
			m.inputs[i].TextStyle = m.styles.Focused
		} else {
			m.inputs[i].Blur()
			m.inputs[i].PromptStyle = m.styles.Blurred
			m.inputs[i].TextStyle = m.styles.Blurred
		}
	}
	return tea.Batch(cmds...)
}

// autofill заполняет пустые поля из тегов и имени файла
func (m *Model) autofill() {
	path := strings.TrimSpace(m.inputs[pathField].Value())
	if path == "" {
		return
	}
	meta := m.extractor.ExtractFromFile(path)
	if m.inputs[nameField].Value() == "" {
		m.inputs[nameField].SetValue(meta.Title)
	}
	if m.inputs[artistField].Value() == "" {
		m.inputs[artistField].SetValue(meta.Artist)
	}
}

// save добавляет трек в фоне
func (m *Model) save() tea.Cmd {
	path := strings.TrimSpace(m.inputs[pathField].Value())
	if path == "" {
		m.err = "Укажите путь к файлу"
		return nil
	}

	opts := media.ImportOptions{
		Name:   strings.TrimSpace(m.inputs[nameField].Value()),
		Artist: strings.TrimSpace(m.inputs[artistField].Value()),
		Copy:   true,
	}
	m.err = ""
	m.saving = true

	importer := m.importer
	return func() tea.Msg {
		result, err := importer.ImportFile(context.Background(), path, opts)
		return savedMsg{result: result, err: err}
	}
}

// View отображает модель
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Добавление трека"))
	b.WriteString("\n\n")

	for i, input := range m.inputs {
		b.WriteString(m.styles.Label.Render(labels[i]))
		b.WriteString(" ")
		b.WriteString(input.View())
		b.WriteString("\n\n")
	}

	button := "[ Добавить ]"
	if m.focusIndex == len(m.inputs) {
		b.WriteString(m.styles.Focused.Render(button))
	} else {
		b.WriteString(m.styles.Blurred.Render(button))
	}
	b.WriteString("\n\n")

	if m.saving {
		b.WriteString(m.styles.Muted.Render("⏳ Копирование файла..."))
		b.WriteString("\n")
	}

	if m.err != "" {
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("❌ %s", m.err)))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Help.Render("Tab/Enter: следующее поле • Shift+Tab: предыдущее поле • Ctrl+S: добавить • Esc: отмена"))

	return b.String()
}
