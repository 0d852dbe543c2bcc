package booking

import (
	"fmt"
	"time"
)

// slotStepMinutes is the interval between offered time slots.
const slotStepMinutes = 30

// maxSlotRows caps slot output at the platform's interactive-list row limit.
const maxSlotRows = 10

// dayPartWindow is a half-open [start, end) window in minutes since midnight.
// End-exclusive: morning's last slot is 11:30, evening's is 20:30.
type dayPartWindow struct {
	startMin int
	endMin   int
}

var dayPartWindows = map[Period]dayPartWindow{
	PeriodMorning:   {10 * 60, 12 * 60},
	PeriodAfternoon: {12 * 60, 17 * 60},
	PeriodEvening:   {17 * 60, 21 * 60},
}

// SlotCandidate is one offered time slot. Generated, never persisted.
type SlotCandidate struct {
	ID          string // time_<hh:mm>_<date>_<serviceId> navigation token
	Title       string // 12-hour display form
	Description string
}

// GenerateSlots produces the candidate slots for a day-part on a date,
// in chronological order, truncated to the platform row ceiling. Real
// staff availability is not checked here; pending requests are reviewed
// by staff before confirmation.
func GenerateSlots(period Period, date, serviceID string) []SlotCandidate {
	window, ok := dayPartWindows[period]
	if !ok {
		return nil
	}
	var slots []SlotCandidate
	for m := window.startMin; m < window.endMin; m += slotStepMinutes {
		if len(slots) == maxSlotRows {
			break
		}
		hhmm := fmt.Sprintf("%02d:%02d", m/60, m%60)
		slots = append(slots, SlotCandidate{
			ID:          TimeToken(hhmm, date, serviceID),
			Title:       clockDisplay(m),
			Description: "Available",
		})
	}
	return slots
}

// clockDisplay renders minutes since midnight as "3:04 PM".
func clockDisplay(minutes int) string {
	t := time.Date(2000, 1, 1, minutes/60, minutes%60, 0, 0, time.UTC)
	return t.Format("3:04 PM")
}
