package tui

import (
	"context"
	"strings"
	"time"

	"replyterm/internal/model"
	"replyterm/internal/reply"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type viewState int

const (
	viewForm  viewState = iota // draft form plus result area
	viewTones                  // tone picker
)

type focusField int

const (
	focusEmail focusField = iota
	focusHints
)

const emailRows = 8

type AppModel struct {
	// Core state
	ctrl   *reply.Controller
	copied chan reply.ClipboardEvent
	tone   model.Tone
	status string

	view  viewState
	focus focusField

	// Sub-models
	emailInput    textarea.Model
	hintsInput    textinput.Model
	toneList      list.Model
	replyViewport viewport.Model
	spinner       spinner.Model

	// Layout
	width, height int
}

func NewAppModel(ctrl *reply.Controller) AppModel {
	ta := textarea.New()
	ta.Placeholder = "Paste the email you want to answer"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(emailRows)
	ta.Focus()

	ti := textinput.New()
	ti.Placeholder = "e.g. accept the invite, ask to move it to 3pm"

	tl := list.New(toneItems(), list.NewDefaultDelegate(), 0, 0)
	tl.Title = "Tone"
	tl.SetShowHelp(false)
	tl.SetFilteringEnabled(false)
	// Esc goes back to the form instead of quitting.
	tl.KeyMap.Quit.SetKeys("q")

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	copied := make(chan reply.ClipboardEvent, 1)
	ctrl.OnCopy(func(ev reply.ClipboardEvent) {
		select {
		case copied <- ev:
		default:
		}
	})

	return AppModel{
		ctrl:          ctrl,
		copied:        copied,
		view:          viewForm,
		focus:         focusEmail,
		emailInput:    ta,
		hintsInput:    ti,
		toneList:      tl,
		replyViewport: viewport.New(0, 0),
		spinner:       sp,
	}
}

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.waitForCopy())
}

// draft snapshots the form.
func (m *AppModel) draft() model.Draft {
	return model.Draft{
		EmailContent: m.emailInput.Value(),
		Tone:         m.tone,
		ReplyHints:   m.hintsInput.Value(),
	}
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.emailInput.SetWidth(msg.Width - 2)
		m.hintsInput.Width = msg.Width - 4
		m.toneList.SetSize(msg.Width, msg.Height-4)
		m.replyViewport.Width = msg.Width - 2
		// title, labels, inputs, button and footers take roughly this much
		m.replyViewport.Height = max(3, msg.Height-emailRows-16)
		m.refreshReply()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case replyResolvedMsg:
		m.refreshReply()
		return m, nil

	case spinner.TickMsg:
		if !reply.IsInFlight(m.ctrl.State()) {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case copiedMsg:
		m.status = "Copied to clipboard"
		return m, tea.Batch(clearStatusAfter(2*time.Second), m.waitForCopy())

	case statusMsg:
		if string(msg) == "" {
			m.status = ""
		}
		return m, nil
	}

	// Delegate to active sub-model
	var cmd tea.Cmd
	switch m.view {
	case viewForm:
		cmd = m.updateFocused(msg)
	case viewTones:
		m.toneList, cmd = m.toneList.Update(msg)
	}
	return m, cmd
}

func (m *AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Global keys
	switch key {
	case "ctrl+c":
		return m, tea.Quit
	}

	switch m.view {
	case viewTones:
		switch key {
		case "q":
			return m, tea.Quit
		case "esc":
			m.view = viewForm
			return m, nil
		case "enter":
			if sel, ok := m.toneList.SelectedItem().(toneItem); ok {
				m.tone = sel.Tone
			}
			m.view = viewForm
			return m, nil
		}
		var cmd tea.Cmd
		m.toneList, cmd = m.toneList.Update(msg)
		return m, cmd

	case viewForm:
		switch key {
		case "ctrl+s", "alt+enter":
			return m.submit()
		case "ctrl+y":
			m.ctrl.CopyReply()
			return m, nil
		case "ctrl+t":
			m.toneList.Select(toneIndex(m.tone))
			m.view = viewTones
			return m, nil
		case "tab", "shift+tab":
			return m, m.toggleFocus()
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.replyViewport, cmd = m.replyViewport.Update(msg)
			return m, cmd
		}
		return m, m.updateFocused(msg)
	}

	return m, nil
}

// submit starts a request when the controller allows one. The button is
// disabled otherwise, so a rejected submit is silent.
func (m *AppModel) submit() (tea.Model, tea.Cmd) {
	resolve, ok := m.ctrl.Begin(m.draft())
	if !ok {
		return m, nil
	}
	m.status = ""
	return m, tea.Batch(m.spinner.Tick, generateCmd(resolve))
}

func (m *AppModel) toggleFocus() tea.Cmd {
	if m.focus == focusEmail {
		m.focus = focusHints
		m.emailInput.Blur()
		return m.hintsInput.Focus()
	}
	m.focus = focusEmail
	m.hintsInput.Blur()
	return m.emailInput.Focus()
}

func (m *AppModel) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focus {
	case focusEmail:
		m.emailInput, cmd = m.emailInput.Update(msg)
	case focusHints:
		m.hintsInput, cmd = m.hintsInput.Update(msg)
	}
	return cmd
}

// refreshReply loads the current reply, if any, into the viewport.
func (m *AppModel) refreshReply() {
	s, ok := m.ctrl.State().(reply.Succeeded)
	if !ok {
		return
	}
	m.replyViewport.SetContent(wrapReply(s.Reply, m.replyViewport.Width))
	m.replyViewport.GotoTop()
}

// Commands

func generateCmd(resolve reply.Resolve) tea.Cmd {
	return func() tea.Msg {
		return replyResolvedMsg{state: resolve(context.Background())}
	}
}

func (m *AppModel) waitForCopy() tea.Cmd {
	return func() tea.Msg {
		return copiedMsg(<-m.copied)
	}
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return statusMsg("")
	})
}

// View renders the form and whatever the current request state calls for.
func (m *AppModel) View() string {
	if m.view == viewTones {
		return m.toneList.View() + "\n" + tonesFooter()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Email Reply Generator"))
	b.WriteString("\n")

	b.WriteString(fieldLabel("Email Content", m.focus == focusEmail))
	b.WriteString("\n")
	b.WriteString(m.emailInput.View())
	b.WriteString("\n\n")

	b.WriteString(toneLine(m.tone))
	b.WriteString("\n\n")

	b.WriteString(fieldLabel("Reply Hints (Optional)", m.focus == focusHints))
	b.WriteString("\n")
	b.WriteString(m.hintsInput.View())
	b.WriteString("\n")

	state := m.ctrl.State()
	if reply.IsInFlight(state) {
		b.WriteString("\n")
		b.WriteString(m.spinner.View())
		b.WriteString(" Generating reply...")
	} else {
		b.WriteString(generateButton(m.ctrl.CanSubmit(m.draft())))
	}
	b.WriteString("\n")

	switch s := state.(type) {
	case reply.Failed:
		b.WriteString(errorStyle.Render(s.Message))
		b.WriteString("\n")
	case reply.Succeeded:
		if s.Reply != "" {
			b.WriteString("\n")
			b.WriteString(replyHeader())
			b.WriteString("\n")
			b.WriteString(replyBoxStyle.Render(m.replyViewport.View()))
			b.WriteString("\n")
			b.WriteString(replyFooter())
		}
	}

	b.WriteString(formFooter())
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.status)
	}

	return b.String()
}
