// Package availability holds the read model of per-date slot capacity.
package availability

// SlotAvailability is the state of one slot on one date.
type SlotAvailability struct {
	SlotID            string `json:"slot_id"`
	Label             string `json:"label,omitempty"`
	StartTime         string `json:"start_time"`
	EndTime           string `json:"end_time"`
	MaxCapacity       int    `json:"max_capacity"`
	CurrentBookings   int    `json:"current_bookings"`
	RemainingCapacity int    `json:"remaining_capacity"`
	IsAvailable       bool   `json:"is_available"`
}

// IsFull reports whether no capacity is left.
func (s *SlotAvailability) IsFull() bool {
	return s.RemainingCapacity == 0
}

// OccupancyRate returns booked participants as a percentage of capacity,
// capped at 100.
func (s *SlotAvailability) OccupancyRate() float64 {
	if s.MaxCapacity == 0 {
		return 0
	}
	rate := float64(s.CurrentBookings) / float64(s.MaxCapacity) * 100
	if rate > 100 {
		return 100
	}
	return rate
}

// Summary aggregates a whole date, regardless of any participants filter.
type Summary struct {
	TotalSlots       int `json:"total_slots"`
	AvailableSlots   int `json:"available_slots"`
	FullyBookedSlots int `json:"fully_booked_slots"`
	TotalCapacity    int `json:"total_capacity"`
	TotalBookings    int `json:"total_bookings"`
}

// DateAvailability is the payload of the per-date availability endpoint.
type DateAvailability struct {
	ActivityID   string             `json:"activity_id"`
	ActivityName string             `json:"activity_name"`
	Date         string             `json:"date"`
	Participants *int               `json:"participants,omitempty"`
	Slots        []SlotAvailability `json:"slots"`
	Summary      Summary            `json:"summary"`
}

// CalendarDay is one date of the calendar endpoint.
type CalendarDay struct {
	Date    string  `json:"date"`
	Summary Summary `json:"summary"`
}

// Calendar is the payload of the date-range calendar endpoint.
type Calendar struct {
	ActivityID string        `json:"activity_id"`
	From       string        `json:"from"`
	To         string        `json:"to"`
	Recurrence string        `json:"recurrence,omitempty"`
	Days       []CalendarDay `json:"days"`
}
