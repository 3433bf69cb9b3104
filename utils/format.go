package utils

import (
	"fmt"
	"strings"
	"time"
)

// MessageType selects the colour a CLI message is printed with.
type MessageType int

// The message types used across the CLI application.
const (
	DefaultMessage MessageType = iota
	SuccessMessage
	ErrorMessage
	StatusMessage
)

// ANSI colours of the message types.
const (
	DefaultColor = "\x1b[0m"
	StatusColor  = "\x1b[36m"
	SuccessColor = "\x1b[32m"
	ErrorColor   = "\x1b[31m"
)

var messageColors = map[MessageType]string{
	DefaultMessage: DefaultColor,
	SuccessMessage: SuccessColor,
	ErrorMessage:   ErrorColor,
	StatusMessage:  StatusColor,
}

// DecorateText wraps s in the colour of its message type. Unknown types
// leave s untouched.
func DecorateText(s string, msgType MessageType) string {
	c, ok := messageColors[msgType]
	if !ok {
		return s
	}
	return c + s + DefaultColor
}

// FormatTime formats a duration as days, hours, minutes and seconds,
// leaving out the leading units that are zero: 1m 0.50s, 2h 0m 3.00s.
func FormatTime(d time.Duration) string {
	units := []struct {
		n      int64
		suffix string
	}{
		{int64(d / (24 * time.Hour)), "d"},
		{int64(d/time.Hour) % 24, "h"},
		{int64(d/time.Minute) % 60, "m"},
	}
	var b strings.Builder
	for _, u := range units {
		if u.n == 0 && b.Len() == 0 {
			continue
		}
		fmt.Fprintf(&b, "%d%s ", u.n, u.suffix)
	}
	fmt.Fprintf(&b, "%.2fs", (d % time.Minute).Seconds())
	return b.String()
}

// Count formats n followed by noun, adding an s unless n is one:
// "1 shape", "12 shapes".
func Count(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
