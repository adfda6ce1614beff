package state

import "surfwatch/internal/model"

// Diff returns exactly the current slots whose identity key is absent
// from previous, preserving the current list's chronological order.
//
// Keys present in previous but missing from current produce no output:
// removal detection is out of scope, the system is additions-only.
func Diff(current []model.Slot, previous map[string]struct{}) []model.Slot {
	var fresh []model.Slot
	for _, slot := range current {
		if _, seen := previous[slot.Key()]; !seen {
			fresh = append(fresh, slot)
		}
	}
	return fresh
}
