package availability

import (
	"errors"
	"time"

	appLog "surfwatch/internal/log"
	"surfwatch/internal/model"
)

// startAtLayouts are the timestamp forms seen in upstream start_at
// values: RFC 3339, numeric offsets without a colon, and naive local
// times in older fixture payloads.
var startAtLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
}

// Normalize filters one batch of raw records down to bookable ones and
// maps each into a Slot. Records with an unparseable start timestamp are
// logged and skipped; the batch keeps going.
//
// The result is NOT sorted; SlotsInRange sorts the merged range as one
// global ordering.
func Normalize(raw []Raw, baseURL string) []model.Slot {
	var slots []model.Slot
	for _, rec := range raw {
		if !rec.IsBookable {
			continue
		}

		start, err := parseStartAt(rec.StartAt)
		if err != nil {
			appLog.Error("availability record skipped", err, "start_at", rec.StartAt)
			continue
		}

		session := rec.Item.Name
		if session == "" {
			session = model.UnknownSession
		}

		capacity := 0
		if rec.BookableCapacity != nil {
			capacity = *rec.BookableCapacity
		}

		// Empty string, not a null marker: downstream treats it as a
		// valid row with no link.
		bookURL := ""
		if rec.BookURL != "" {
			bookURL = baseURL + rec.BookURL
		}

		slots = append(slots, model.Slot{
			Date:     rec.StartAt[:len(model.DateLayout)],
			Time:     start.Format(model.TimeLayout),
			SortKey:  rec.StartAt,
			Session:  session,
			Capacity: capacity,
			BookURL:  bookURL,
		})
	}
	return slots
}

func parseStartAt(v string) (time.Time, error) {
	if len(v) < len(model.DateLayout) {
		return time.Time{}, errors.New("start_at missing or too short")
	}
	for _, layout := range startAtLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("start_at is not an ISO-8601 timestamp")
}
