package notify

import (
	"context"
	"fmt"
	"io"
	"os"

	"staymate/internal/models"
)

// TerminalChannel prints notification events as colored lines, intended for
// the live watch mode.
type TerminalChannel struct {
	writer io.Writer
	color  bool
}

// NewTerminalChannel creates a terminal channel writing to stderr.
func NewTerminalChannel(color bool) *TerminalChannel {
	return &TerminalChannel{writer: os.Stderr, color: color}
}

// NewTerminalChannelWriter creates a terminal channel with a custom writer.
func NewTerminalChannelWriter(w io.Writer, color bool) *TerminalChannel {
	return &TerminalChannel{writer: w, color: color}
}

// Name returns the name of the channel.
func (t *TerminalChannel) Name() string {
	return "terminal"
}

// IsEnabled reports whether the channel is active. Terminal output is always
// available.
func (t *TerminalChannel) IsEnabled() bool {
	return true
}

// Send prints the event.
func (t *TerminalChannel) Send(_ context.Context, event models.NotificationEvent) error {
	tag, color := eventTag(event.Kind)
	line := fmt.Sprintf("[%s] %s  %s (%s)",
		event.Timestamp.Format("15:04:05"), tag, event.Message, event.DateRange)

	if t.color {
		line = color + line + "\033[0m"
	}

	_, err := fmt.Fprintln(t.writer, line)
	return err
}

func eventTag(kind models.EventKind) (tag, color string) {
	switch kind {
	case models.EventBookingRequest:
		return "REQUEST ", "\033[33m" // yellow
	case models.EventBookingAccepted:
		return "ACCEPTED", "\033[32m" // green
	case models.EventBookingDeclined:
		return "DECLINED", "\033[31m" // red
	}
	return string(kind), ""
}
