// Package availability derives per-slot remaining capacity from the booking
// state. The calculator functions are pure; the service adds lookups,
// caching and the calendar view.
package availability

import (
	"activity-booking-service/internal/domain/activity"
	"activity-booking-service/internal/domain/availability"
	"activity-booking-service/internal/domain/booking"
)

// Calculate returns one entry per slot of a, in slot order, for date.
// Bookings of other activities or dates and cancelled bookings are ignored.
// Remaining capacity is clamped at zero, so overbooked slots report full.
func Calculate(a *activity.Activity, bookings []booking.Booking, date string) []availability.SlotAvailability {
	held := make(map[string]int, len(a.TimeSlots))
	for i := range bookings {
		b := &bookings[i]
		if b.ActivityID != a.ID || b.Date != date {
			continue
		}
		held[b.SlotID] += b.HeldParticipants()
	}

	out := make([]availability.SlotAvailability, 0, len(a.TimeSlots))
	for _, slot := range a.TimeSlots {
		current := held[slot.ID]
		remaining := slot.MaxCapacity - current
		if remaining < 0 {
			remaining = 0
		}
		out = append(out, availability.SlotAvailability{
			SlotID:            slot.ID,
			Label:             slot.Label,
			StartTime:         slot.StartTime,
			EndTime:           slot.EndTime,
			MaxCapacity:       slot.MaxCapacity,
			CurrentBookings:   current,
			RemainingCapacity: remaining,
			IsAvailable:       remaining > 0 && a.IsActive,
		})
	}
	return out
}

// Summarize aggregates a full slot list. Pass the unfiltered list.
func Summarize(slots []availability.SlotAvailability) availability.Summary {
	sum := availability.Summary{TotalSlots: len(slots)}
	for i := range slots {
		s := &slots[i]
		if s.IsAvailable {
			sum.AvailableSlots++
		}
		if s.IsFull() {
			sum.FullyBookedSlots++
		}
		sum.TotalCapacity += s.MaxCapacity
		sum.TotalBookings += s.CurrentBookings
	}
	return sum
}

// FilterByParticipants keeps the slots that can still take n participants.
// n <= 0 keeps everything.
func FilterByParticipants(slots []availability.SlotAvailability, n int) []availability.SlotAvailability {
	out := make([]availability.SlotAvailability, 0, len(slots))
	for _, s := range slots {
		if n > 0 && (!s.IsAvailable || s.RemainingCapacity < n) {
			continue
		}
		out = append(out, s)
	}
	return out
}
