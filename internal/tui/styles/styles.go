// Package styles содержит светлую и темную палитры интерфейса
package styles

import "github.com/charmbracelet/lipgloss"

// Palette цвета темы
type Palette struct {
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Error     lipgloss.Color
	Success   lipgloss.Color
	Highlight lipgloss.Color
	// Градиент прогресс-бара
	ProgressFrom string
	ProgressTo   string
}

var (
	darkPalette = Palette{
		Accent:       lipgloss.Color("170"),
		Text:         lipgloss.Color("252"),
		Muted:        lipgloss.Color("241"),
		Error:        lipgloss.Color("196"),
		Success:      lipgloss.Color("46"),
		Highlight:    lipgloss.Color("212"),
		ProgressFrom: "#5A56E0",
		ProgressTo:   "#EE6FF8",
	}
	lightPalette = Palette{
		Accent:       lipgloss.Color("#7D56F4"),
		Text:         lipgloss.Color("#1A1A1A"),
		Muted:        lipgloss.Color("#6C6C6C"),
		Error:        lipgloss.Color("#D70000"),
		Success:      lipgloss.Color("#008700"),
		Highlight:    lipgloss.Color("#AF00AF"),
		ProgressFrom: "#0087D7",
		ProgressTo:   "#7D56F4",
	}
)

// Styles стили компонентов интерфейса
type Styles struct {
	Light   bool
	Palette Palette

	Title        lipgloss.Style
	Header       lipgloss.Style
	Item         lipgloss.Style
	SelectedItem lipgloss.Style
	Playing      lipgloss.Style
	Muted        lipgloss.Style
	Help         lipgloss.Style
	Label        lipgloss.Style
	Focused      lipgloss.Style
	Blurred      lipgloss.Style
	Error        lipgloss.Style
	Success      lipgloss.Style
	Panel        lipgloss.Style
}

// New создает стили для светлой или темной темы
func New(light bool) Styles {
	p := darkPalette
	if light {
		p = lightPalette
	}

	return Styles{
		Light:        light,
		Palette:      p,
		Title:        lipgloss.NewStyle().Bold(true).Foreground(p.Accent).MarginLeft(2),
		Header:       lipgloss.NewStyle().Bold(true).Foreground(p.Muted).PaddingLeft(4),
		Item:         lipgloss.NewStyle().Foreground(p.Text).PaddingLeft(4),
		SelectedItem: lipgloss.NewStyle().Foreground(p.Accent).PaddingLeft(2),
		Playing:      lipgloss.NewStyle().Foreground(p.Highlight).Bold(true),
		Muted:        lipgloss.NewStyle().Foreground(p.Muted),
		Help:         lipgloss.NewStyle().Foreground(p.Muted).PaddingLeft(4).PaddingBottom(1),
		Label:        lipgloss.NewStyle().Foreground(p.Muted).Width(15),
		Focused:      lipgloss.NewStyle().Foreground(p.Accent),
		Blurred:      lipgloss.NewStyle().Foreground(p.Muted),
		Error:        lipgloss.NewStyle().Foreground(p.Error).Bold(true),
		Success:      lipgloss.NewStyle().Foreground(p.Success),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Accent).
			Padding(0, 2),
	}
}
