// Package notify renders and delivers the new-slot report. Delivery is a
// boundary concern: the pipeline hands over a Summary and does not care
// whether it goes out via SendGrid, SMTP, or the console.
package notify

import (
	"context"

	"surfwatch/internal/model"
)

// Summary is the new-slot report handed to a Notifier: the slots in
// chronological order plus the configured range bounds for display.
type Summary struct {
	Slots []model.Slot
	Range model.DateRange
}

// Notifier delivers one Summary to the configured recipients.
type Notifier interface {
	Notify(ctx context.Context, s Summary) error
}
