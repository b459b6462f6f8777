// Package player содержит панель "сейчас играет" для TUI
package player

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/go-jukebox/internal/playback"
	"github.com/hazadus/go-jukebox/internal/player"
	"github.com/hazadus/go-jukebox/internal/streaming"
	"github.com/hazadus/go-jukebox/internal/tui/styles"
)

// StateMsg содержит новое состояние контроллера воспроизведения
type StateMsg struct {
	State playback.State
}

// StatusMsg содержит диагностику плеера
type StatusMsg struct {
	Status player.Status
}

// ErrorMsg сообщает об ошибке воспроизведения
type ErrorMsg struct {
	Err error
}

// Model представляет панель воспроизведения
type Model struct {
	styles      *styles.Styles
	state       playback.State
	status      player.Status
	progressBar progress.Model
	err         error
	width       int
}

// NewModel создает панель воспроизведения
func NewModel(st *styles.Styles, state playback.State) *Model {
	m := &Model{
		styles: st,
		state:  state,
	}
	m.Restyle()
	return m
}

// Restyle пересоздает прогресс-бар в цветах текущей темы
func (m *Model) Restyle() {
	width := 40
	if m.progressBar.Width > 0 {
		width = m.progressBar.Width
	}
	m.progressBar = progress.New(
		progress.WithGradient(m.styles.Palette.ProgressFrom, m.styles.Palette.ProgressTo),
		progress.WithoutPercentage(),
	)
	m.progressBar.Width = width
}

// State возвращает последнее отображаемое состояние
func (m *Model) State() playback.State {
	return m.state
}

// Err возвращает последнюю ошибку воспроизведения
func (m *Model) Err() error {
	return m.err
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progressBar.Width = min(60, msg.Width-20)

	case StateMsg:
		// Смена трека сбрасывает ошибку предыдущего
		if msg.State.IsPlaying || trackID(msg.State) != trackID(m.state) {
			m.err = nil
		}
		m.state = msg.State

	case StatusMsg:
		m.status = msg.Status

	case ErrorMsg:
		m.err = msg.Err
	}

	return m, nil
}

// View отображает панель
func (m *Model) View() string {
	var b strings.Builder

	if m.state.Track == nil {
		b.WriteString(m.styles.Muted.Render("⏹️  Ничего не воспроизводится"))
	} else {
		icon := "⏸️"
		if m.state.IsPlaying {
			icon = "▶️"
		}
		b.WriteString(fmt.Sprintf("%s %s · %s\n",
			icon,
			m.styles.Playing.Render(m.state.Track.Name),
			m.state.Track.Artist))

		p := m.state.Progress
		b.WriteString(fmt.Sprintf("%s %s / %s",
			m.progressBar.ViewAs(p.Fraction),
			p.Elapsed,
			p.Total))
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("%s %s · %s %s · %s",
		repeatIcon(m.state.RepeatMode),
		repeatLabel(m.state.RepeatMode),
		volumeIcon(m.state.Volume),
		fmt.Sprintf("%d%%", int(m.state.Volume*100+0.5)),
		formatStatus(m.state.IsPlaying))))

	if m.state.IsPlaying && m.status.StuckCount > 0 {
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render("📡 " + streaming.GetStreamStatus(m.status.StuckCount)))
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render("❌ " + m.err.Error()))
	}

	return m.styles.Panel.Render(b.String())
}

func trackID(s playback.State) string {
	if s.Track == nil {
		return ""
	}
	return s.Track.ID
}

func formatStatus(isPlaying bool) string {
	if isPlaying {
		return "Воспроизведение"
	}
	return "Пауза"
}

func repeatIcon(mode playback.RepeatMode) string {
	switch mode {
	case playback.RepeatOne:
		return "🔂"
	case playback.Shuffle:
		return "🔀"
	default:
		return "🔁"
	}
}

func repeatLabel(mode playback.RepeatMode) string {
	switch mode {
	case playback.RepeatOne:
		return "повтор трека"
	case playback.Shuffle:
		return "случайный порядок"
	default:
		return "по порядку"
	}
}

func volumeIcon(volume float64) string {
	switch playback.VolumeLevel(volume) {
	case playback.Mute:
		return "🔇"
	case playback.Low:
		return "🔉"
	default:
		return "🔊"
	}
}
