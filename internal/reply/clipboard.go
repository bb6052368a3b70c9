package reply

import (
	"time"

	"github.com/atotto/clipboard"
)

// Clipboard accepts a string and makes it the active clipboard content.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard writes to the host clipboard.
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// ClipboardEvent signals that a reply was copied. It is never stored.
type ClipboardEvent struct {
	Text string
	At   time.Time
}
