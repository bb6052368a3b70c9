package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			PaddingBottom(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			PaddingTop(1)

	replyBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62"))
)

func replyHeader() string {
	return headerStyle.Render("Generated Reply:")
}

func replyFooter() string {
	return footerStyle.Render("ctrl+y: copy to clipboard  pgup/pgdn: scroll")
}

// wrapReply soft-wraps the reply to the viewport width.
func wrapReply(text string, width int) string {
	if width <= 0 {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}
