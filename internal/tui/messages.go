package tui

import "replyterm/internal/reply"

// Async message types for Bubble Tea commands.

type replyResolvedMsg struct {
	state reply.State // always Succeeded or Failed
}

type copiedMsg reply.ClipboardEvent

type statusMsg string
