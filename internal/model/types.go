package model

import (
	"fmt"
	"strings"
)

// Tone is the optional register the reply should be written in.
// The zero value means no preference.
type Tone string

const (
	ToneNone         Tone = ""
	ToneProfessional Tone = "professional"
	ToneFriendly     Tone = "friendly"
	ToneSarcastic    Tone = "sarcastic"
	ToneCasual       Tone = "casual"
	ToneEmotional    Tone = "emotional"
)

// Tones lists every selectable tone in menu order, starting with "none".
var Tones = []Tone{
	ToneNone,
	ToneProfessional,
	ToneFriendly,
	ToneSarcastic,
	ToneCasual,
	ToneEmotional,
}

// Label is the human-facing name shown in pickers.
func (t Tone) Label() string {
	if t == ToneNone {
		return "None"
	}
	s := string(t)
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseTone accepts a tone name case-insensitively. "" and "none" map to ToneNone.
func ParseTone(s string) (Tone, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "none" {
		return ToneNone, nil
	}
	for _, t := range Tones {
		if string(t) == s {
			return t, nil
		}
	}
	return ToneNone, fmt.Errorf("unknown tone %q", s)
}

// Draft is the user-edited form content that has not been submitted yet.
type Draft struct {
	EmailContent string
	Tone         Tone
	ReplyHints   string // free text steering the reply, may be empty
}

// Submittable reports whether the draft carries the one required field.
func (d Draft) Submittable() bool {
	return d.EmailContent != ""
}
