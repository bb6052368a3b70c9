package tui

import (
	"fmt"

	"replyterm/internal/model"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			PaddingBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	focusedLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true)

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 2).
			MarginTop(1)

	disabledButtonStyle = buttonStyle.
				Foreground(lipgloss.Color("243")).
				Background(lipgloss.Color("236"))
)

func fieldLabel(text string, focused bool) string {
	if focused {
		return focusedLabelStyle.Render(text)
	}
	return labelStyle.Render(text)
}

func toneLine(t model.Tone) string {
	return labelStyle.Render(fmt.Sprintf("Tone (Optional): %s", t.Label())) +
		footerStyle.UnsetPaddingTop().Render("  ctrl+t: change")
}

func generateButton(enabled bool) string {
	if enabled {
		return buttonStyle.Render("Generate Reply")
	}
	return disabledButtonStyle.Render("Generate Reply")
}

func formFooter() string {
	return footerStyle.Render("ctrl+s: generate  tab: next field  ctrl+t: tone  ctrl+c: quit")
}
