package notify

import (
	"context"
	"fmt"
	"io"
)

// ConsoleNotifier is the degraded delivery mode used when no mail
// transport is configured: it enumerates the same per-slot summary on
// the given writer. This is a supported mode, not an error path.
type ConsoleNotifier struct {
	out io.Writer
}

// NewConsole creates a console notifier writing to out.
func NewConsole(out io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{out: out}
}

func (n *ConsoleNotifier) Notify(_ context.Context, s Summary) error {
	for _, slot := range s.Slots {
		if _, err := fmt.Fprintf(n.out, "  %s @ %s - %s (%d spots) - %s\n",
			slot.Date, slot.Time, slot.Session, slot.Capacity, slot.BookURL); err != nil {
			return err
		}
	}
	return nil
}
