package model

import (
	"strings"
	"time"
)

// KeySeparator joins the identity components of a slot key. It is part of
// the persisted state format and must not change between runs.
const KeySeparator = "|"

// UnknownSession is the placeholder used when the upstream record carries
// no item name.
const UnknownSession = "Unknown"

// DateLayout is the YYYY-MM-DD layout used for configuration bounds,
// slot dates, and upstream request paths.
const DateLayout = "2006-01-02"

// TimeLayout is the 12-hour clock layout used for the Time field; Go's
// "3" verb omits the leading zero.
const TimeLayout = "3:04 PM"

// Slot is a single bookable session instance resolved from an upstream
// availability record.
type Slot struct {
	// Date is the calendar date in YYYY-MM-DD form.
	Date string `json:"date"`

	// Time is the local start time in 12-hour form without a leading
	// zero (e.g. "9:00 AM").
	Time string `json:"time"`

	// SortKey is the full ISO-8601 start timestamp. It is used only for
	// chronological ordering, never for identity.
	SortKey string `json:"sort_key"`

	// Session is the human-readable session name, or UnknownSession.
	Session string `json:"session"`

	// Capacity is the number of bookable spots remaining.
	Capacity int `json:"capacity"`

	// BookURL is the absolute booking URL. Empty string means the source
	// offered no link; consumers must treat that as a valid row.
	BookURL string `json:"book_url"`
}

// Key returns the identity of the slot for diffing purposes. Two slots are
// the same entity iff their keys are equal; Capacity and BookURL are
// deliberately excluded, so a capacity change alone is never "new".
func (s Slot) Key() string {
	return s.Date + KeySeparator + s.Time + KeySeparator + s.Session
}

// Keys returns the identity keys of the given slots, in order.
func Keys(slots []Slot) []string {
	keys := make([]string, 0, len(slots))
	for _, s := range slots {
		keys = append(keys, s.Key())
	}
	return keys
}

// SplitKey breaks an identity key back into its date, time, and session
// components. Session names may themselves contain the separator, so
// only the first two splits are positional.
func SplitKey(key string) (date, tod, session string, ok bool) {
	parts := strings.SplitN(key, KeySeparator, 3)
	if len(parts) != 3 {
		return "", "", "", false
	}
	return parts[0], parts[1], parts[2], true
}

// StateRecord is the persisted previous-state snapshot. It is fully
// overwritten on every run; there is no historical memory beyond the
// latest snapshot.
type StateRecord struct {
	SeenSlots []string  `json:"seen_slots"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DateRange is an inclusive range of calendar dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Days returns every calendar date from Start to End inclusive. An
// inverted range yields nil. The sequence depends only on the bounds,
// never on the wall clock.
func (r DateRange) Days() []time.Time {
	if r.End.Before(r.Start) {
		return nil
	}
	var days []time.Time
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// String renders the range for logs and report headers.
func (r DateRange) String() string {
	return r.Start.Format(DateLayout) + " - " + r.End.Format(DateLayout)
}
