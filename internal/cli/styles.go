package cli

import (
	"github.com/charmbracelet/lipgloss"

	"expenses/internal/analytics"
	"expenses/internal/core"
)

var (
	SuccessColor = lipgloss.Color("#4ECDC4")
	WarningColor = lipgloss.Color("#FFE66D")
	ErrorColor   = lipgloss.Color("#FF6B6B")
	SubtleColor  = lipgloss.Color("#666666")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			MarginBottom(1)

	SuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ErrorColor)
	SubtleStyle  = lipgloss.NewStyle().Foreground(SubtleColor)

	TableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
)

// CategoryStyle colors text with the category's chart color.
func CategoryStyle(c core.Category) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(analytics.CategoryColor(c)))
}

func FormatTitle(s string) string {
	return TitleStyle.Render(s)
}
