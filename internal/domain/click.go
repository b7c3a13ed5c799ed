package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultReferrer = "direct"
	UnknownValue    = "unknown"

	maxClickFieldLen = 512
)

type ClickEvent struct {
	LinkID    uuid.UUID
	Timestamp time.Time
	Referrer  string
	Device    string
	Browser   string
	Location  string
}

// ClickInput is what a visitor supplies when a click is recorded. Empty
// fields receive defaults in Event.
type ClickInput struct {
	At       time.Time
	Referrer string
	Device   string
	Browser  string
	Location string
}

// Event builds the event to append; now is used when the input has no visit time.
func (in ClickInput) Event(now time.Time) ClickEvent {
	at := in.At
	if at.IsZero() {
		at = now
	}

	return ClickEvent{
		Timestamp: at.UTC(),
		Referrer:  clickField(in.Referrer, DefaultReferrer),
		Device:    clickField(in.Device, UnknownValue),
		Browser:   clickField(in.Browser, UnknownValue),
		Location:  clickField(in.Location, UnknownValue),
	}
}

// HasValue reports whether a recorded field carries real data rather than
// an empty string or the "unknown" placeholder.
func HasValue(s string) bool {
	s = strings.TrimSpace(s)

	return s != "" && !strings.EqualFold(s, UnknownValue)
}

func clickField(v, def string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}

	if len(v) > maxClickFieldLen {
		v = strings.ToValidUTF8(v[:maxClickFieldLen], "")
	}

	return v
}
