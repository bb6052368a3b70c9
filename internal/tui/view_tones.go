package tui

import (
	"replyterm/internal/model"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

// toneItem wraps model.Tone for the picker.
type toneItem struct {
	model.Tone
}

var toneHints = map[model.Tone]string{
	model.ToneNone:         "Let the service decide",
	model.ToneProfessional: "Polite and businesslike",
	model.ToneFriendly:     "Warm and personal",
	model.ToneSarcastic:    "Dry, with an edge",
	model.ToneCasual:       "Relaxed and short",
	model.ToneEmotional:    "Heartfelt",
}

func (t toneItem) FilterValue() string { return t.Label() }
func (t toneItem) Title() string       { return t.Label() }
func (t toneItem) Description() string { return toneHints[t.Tone] }

var footerStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("241")).
	PaddingTop(1)

func tonesFooter() string {
	return footerStyle.Render("enter: select  esc: back  ctrl+c: quit")
}

func toneItems() []list.Item {
	items := make([]list.Item, len(model.Tones))
	for i, t := range model.Tones {
		items[i] = toneItem{t}
	}
	return items
}

// toneIndex is the list position of t, 0 when unknown.
func toneIndex(t model.Tone) int {
	for i, x := range model.Tones {
		if x == t {
			return i
		}
	}
	return 0
}
