// Package themes holds the TUI color schemes.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	ActiveTab     lipgloss.Style
	InactiveTab   lipgloss.Style
	Box           lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusInfo    lipgloss.Style
	Selected      lipgloss.Style
	Primary       lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Income        lipgloss.Color
	Expense       lipgloss.Color
	Debt          lipgloss.Color
	Warning       lipgloss.Color
}

// Default is the default theme.
var Default = build(palette{
	primary: "#7c3aed",
	text:    "#fafafa",
	muted:   "#737373",
	border:  "#404040",
	income:  "#10b981",
	expense: "#ef4444",
	debt:    "#f97316",
	warning: "#f59e0b",
	info:    "#3b82f6",
})

// Light suits terminals with a light background.
var Light = build(palette{
	primary: "#6d28d9",
	text:    "#171717",
	muted:   "#525252",
	border:  "#d4d4d4",
	income:  "#047857",
	expense: "#b91c1c",
	debt:    "#c2410c",
	warning: "#b45309",
	info:    "#1d4ed8",
})

// ByName returns the named theme, falling back to Default.
func ByName(name string) Theme {
	if name == "light" {
		return Light
	}
	return Default
}

type palette struct {
	primary, text, muted, border string
	income, expense, debt        string
	warning, info                string
}

func build(p palette) Theme {
	text := lipgloss.Color(p.text)
	return Theme{
		Primary: lipgloss.Color(p.primary),
		Muted:   lipgloss.Color(p.muted),
		Border:  lipgloss.Color(p.border),
		Income:  lipgloss.Color(p.income),
		Expense: lipgloss.Color(p.expense),
		Debt:    lipgloss.Color(p.debt),
		Warning: lipgloss.Color(p.warning),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.primary)),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.muted)),
		Normal: lipgloss.NewStyle().
			Foreground(text),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(text),
		ActiveTab: lipgloss.NewStyle().
			Bold(true).
			Foreground(text).
			Background(lipgloss.Color(p.primary)).
			Padding(0, 2),
		InactiveTab: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.muted)).
			Padding(0, 2),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.border)).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(p.primary)).
			Foreground(text).
			Bold(true),

		StatusSuccess: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.income)).
			Bold(true),
		StatusWarning: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.warning)).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.expense)).
			Bold(true),
		StatusInfo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.info)).
			Bold(true),
	}
}
