package tui

import "github.com/charmbracelet/lipgloss"

// ColorSchemeKey is the preference key the selected scheme is stored under
const ColorSchemeKey = "color-scheme"

// Theme is a named set of styles
type Theme struct {
	Name string

	selected lipgloss.Style
	dimmed   lipgloss.Style
	title    lipgloss.Style
	errText  lipgloss.Style
	border   lipgloss.Style
	overlay  lipgloss.Color
	accent   lipgloss.Color
	states   map[string]lipgloss.Style
}

var lightTheme = Theme{
	Name: "light",
	selected: lipgloss.NewStyle().
		Background(lipgloss.Color("153")).
		Foreground(lipgloss.Color("16")),
	dimmed: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("25")),
	errText: lipgloss.NewStyle().
		Foreground(lipgloss.Color("160")),
	border: lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("250")),
	overlay: lipgloss.Color("255"),
	accent:  lipgloss.Color("33"),
	states: map[string]lipgloss.Style{
		"Done":            lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
		"Not done":        lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
		"Doing right now": lipgloss.NewStyle().Foreground(lipgloss.Color("166")),
	},
}

var darkTheme = Theme{
	Name: "dark",
	selected: lipgloss.NewStyle().
		Background(lipgloss.Color("62")).
		Foreground(lipgloss.Color("230")),
	dimmed: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("111")),
	errText: lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")),
	border: lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")),
	overlay: lipgloss.Color("235"),
	accent:  lipgloss.Color("63"),
	states: map[string]lipgloss.Style{
		"Done":            lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		"Not done":        lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		"Doing right now": lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	},
}

// ThemeFor returns the theme with the given name, light when unknown
func ThemeFor(name string) Theme {
	if name == darkTheme.Name {
		return darkTheme
	}
	return lightTheme
}

func (t Theme) toggled() Theme {
	if t.Name == darkTheme.Name {
		return lightTheme
	}
	return darkTheme
}

func (t Theme) stateStyle(state string) lipgloss.Style {
	if s, ok := t.states[state]; ok {
		return s
	}
	return t.dimmed
}
