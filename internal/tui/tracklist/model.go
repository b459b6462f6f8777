// Package tracklist содержит модель экрана списка треков для TUI
package tracklist

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/go-jukebox/internal/track"
	"github.com/hazadus/go-jukebox/internal/tui/styles"
	"github.com/hazadus/go-jukebox/internal/utils"
)

const (
	nameWidth   = 36
	artistWidth = 24
)

// PlayMsg отправляется при выборе трека для воспроизведения
type PlayMsg struct {
	ID string
}

// DeleteMsg отправляется после подтверждения удаления трека
type DeleteMsg struct {
	ID string
}

// AddMsg отправляется для перехода к форме добавления трека
type AddMsg struct{}

// SortChangedMsg отправляется при смене сортировки
type SortChangedMsg struct {
	Field track.SortField
	Order track.SortOrder
}

// trackItem реализует интерфейс list.Item для трека
type trackItem struct {
	track track.Track
}

func (i trackItem) FilterValue() string {
	return i.track.Name + " " + i.track.Artist
}

// trackItemDelegate реализует отображение элементов списка
type trackItemDelegate struct {
	styles    *styles.Styles
	currentID *string
}

func (d trackItemDelegate) Height() int                             { return 1 }
func (d trackItemDelegate) Spacing() int                            { return 0 }
func (d trackItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d trackItemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(trackItem)
	if !ok {
		return
	}

	marker := " "
	if i.track.ID == *d.currentID {
		marker = "♪"
	}

	// Номер | Название | Исполнитель | Дата добавления
	str := fmt.Sprintf("%s %-4d %s %s %s",
		marker,
		index+1,
		utils.PadRight(i.track.Name, nameWidth),
		utils.PadRight(i.track.Artist, artistWidth),
		i.track.AddedDate())

	fn := d.styles.Item.Render
	if index == m.Index() {
		fn = func(s ...string) string {
			return d.styles.SelectedItem.Render("> " + strings.Join(s, " "))
		}
	} else if i.track.ID == *d.currentID {
		fn = func(s ...string) string {
			return d.styles.Item.Inherit(d.styles.Playing).Render(strings.Join(s, " "))
		}
	}

	fmt.Fprint(w, fn(str))
}

// Model представляет модель экрана списка треков
type Model struct {
	list      list.Model
	search    textinput.Model
	searching bool
	styles    *styles.Styles
	sorter    *track.Sorter
	field     track.SortField
	order     track.SortOrder
	tracks    []track.Track
	result    track.SearchResult
	currentID string
	pending   *track.Track // трек, ожидающий подтверждения удаления
}

// NewModel создает новую модель списка треков
func NewModel(st *styles.Styles, sorter *track.Sorter, field track.SortField, order track.SortOrder) *Model {
	m := &Model{
		styles: st,
		sorter: sorter,
		field:  field,
		order:  order,
	}

	l := list.New(nil, trackItemDelegate{styles: st, currentID: &m.currentID}, 0, 0)
	l.SetShowStatusBar(false)
	l.SetShowTitle(true)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.Styles.Title = st.Title
	m.list = l

	search := textinput.New()
	search.Prompt = "🔍 "
	search.Placeholder = "название или исполнитель"
	m.search = search

	m.updateTitle()
	return m
}

// Init инициализирует модель
func (m *Model) Init() tea.Cmd {
	return nil
}

// SetTracks заменяет треки (в порядке добавления) и пересчитывает отображение
func (m *Model) SetTracks(tracks []track.Track) {
	m.tracks = tracks
	m.refresh()
}

// SetCurrent отмечает воспроизводимый трек
func (m *Model) SetCurrent(id string) {
	m.currentID = id
}

// Restyle применяет стили после смены темы
func (m *Model) Restyle() {
	m.list.Styles.Title = m.styles.Title
}

// Searching сообщает, что фокус находится в строке поиска
func (m *Model) Searching() bool {
	return m.searching
}

// Confirming сообщает, что ожидается подтверждение удаления
func (m *Model) Confirming() bool {
	return m.pending != nil
}

// Visible возвращает треки в порядке отображения
func (m *Model) Visible() []track.Track {
	items := m.list.Items()
	result := make([]track.Track, 0, len(items))
	for _, item := range items {
		if ti, ok := item.(trackItem); ok {
			result = append(result, ti.track)
		}
	}
	return result
}

// Sort возвращает текущую сортировку
func (m *Model) Sort() (track.SortField, track.SortOrder) {
	return m.field, m.order
}

// refresh сортирует треки. Результаты поиска показываются в порядке добавления.
func (m *Model) refresh() {
	m.result = track.Search(m.tracks, m.search.Value())
	visible := m.result.Matches
	if !m.result.Active {
		visible = m.sorter.Sort(m.tracks, m.field, m.order)
	}

	items := make([]list.Item, len(visible))
	for i, t := range visible {
		items[i] = trackItem{track: t}
	}
	m.list.SetItems(items)
	m.updateTitle()
}

func (m *Model) updateTitle() {
	arrow := "↓"
	if m.order == track.Ascending {
		arrow = "↑"
	}
	m.list.Title = fmt.Sprintf("Плейлист · %d · сортировка: %s %s", len(m.tracks), sortLabel(m.field), arrow)
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 12) // Оставляем место для панели воспроизведения и справки
		m.search.Width = msg.Width - 10
		return m, nil

	case tea.KeyMsg:
		if m.pending != nil {
			return m.updateConfirm(msg)
		}
		if m.searching {
			return m.updateSearch(msg)
		}

		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(trackItem); ok {
				return m, func() tea.Msg {
					return PlayMsg{ID: item.track.ID}
				}
			}
			return m, nil

		case "d", "delete":
			if item, ok := m.list.SelectedItem().(trackItem); ok {
				selected := item.track
				m.pending = &selected
			}
			return m, nil

		case "a":
			return m, func() tea.Msg { return AddMsg{} }

		case "s":
			m.field = m.field.Next()
			m.refresh()
			return m, m.sortChanged()

		case "o":
			m.order = m.order.Toggle()
			m.refresh()
			return m, m.sortChanged()

		case "/":
			m.searching = true
			return m, m.search.Focus()

		case "esc":
			if m.result.Active {
				m.search.SetValue("")
				m.refresh()
			}
			return m, nil
		}
	}

	// Обновляем список
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) updateSearch(msg tea.KeyMsg) (*Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.refresh()
	return m, cmd
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (*Model, tea.Cmd) {
	pending := m.pending
	m.pending = nil
	switch msg.String() {
	case "y", "Y", "enter":
		return m, func() tea.Msg { return DeleteMsg{ID: pending.ID} }
	}
	return m, nil
}

func (m *Model) sortChanged() tea.Cmd {
	field, order := m.field, m.order
	return func() tea.Msg {
		return SortChangedMsg{Field: field, Order: order}
	}
}

// View отображает модель
func (m *Model) View() string {
	var b strings.Builder

	switch {
	case len(m.tracks) == 0:
		b.WriteString(m.styles.Title.Render("Плейлист пуст"))
		b.WriteString("\n\n")
		b.WriteString(m.styles.Help.Render("Нажмите a, чтобы добавить первый трек"))
	case m.result.Active && len(m.result.Matches) == 0:
		b.WriteString(m.styles.Title.Render(fmt.Sprintf("Ничего не найдено по запросу «%s»", m.result.Term)))
	default:
		b.WriteString(m.styles.Header.Render(fmt.Sprintf("  %-4s %s %s %s",
			"#",
			utils.PadRight("Название", nameWidth),
			utils.PadRight("Исполнитель", artistWidth),
			"Добавлен")))
		b.WriteString("\n")
		b.WriteString(m.list.View())
	}

	if m.searching || m.result.Active {
		b.WriteString("\n")
		b.WriteString(m.search.View())
	}

	if m.pending != nil {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("Удалить «%s»? (y/n)", m.pending.Name)))
	}

	return b.String()
}

func sortLabel(field track.SortField) string {
	switch field {
	case track.SortByName:
		return "название"
	case track.SortByArtist:
		return "исполнитель"
	default:
		return "дата"
	}
}
