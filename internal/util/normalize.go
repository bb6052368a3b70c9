package util

import (
	"io"
	"net/mail"
	"strings"
)

// EmailText prepares pasted or piped email text for submission.
//   - A full RFC 5322 message (headers, blank line, body) is reduced to its body
//   - CRLF line endings become LF
//   - Trailing blank lines are dropped
//
// Plain text without headers passes through apart from line endings.
// sender is the lowercased From address when headers were present.
func EmailText(raw string) (body, sender string) {
	text := strings.ReplaceAll(raw, "\r\n", "\n")

	if msg, err := mail.ReadMessage(strings.NewReader(text)); err == nil && msg.Header.Get("From") != "" {
		if b, err := io.ReadAll(msg.Body); err == nil {
			text = string(b)
			sender = senderAddress(msg.Header.Get("From"))
		}
	}

	return strings.TrimRight(text, "\n \t"), sender
}

// senderAddress extracts the address from a From header. A list falls back
// to its first parsable entry. Returns "" when nothing parses.
func senderAddress(from string) string {
	addr, err := mail.ParseAddress(from)
	if err != nil {
		for _, p := range strings.Split(from, ",") {
			if a, e := mail.ParseAddress(strings.TrimSpace(p)); e == nil {
				addr = a
				break
			}
		}
	}
	if addr == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(addr.Address))
}
