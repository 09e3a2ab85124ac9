package availability

import (
	"fmt"
	"time"

	xerrors "activity-booking-service/internal/pkg/errors"

	"github.com/teambition/rrule-go"
)

const (
	dateLayout = "2006-01-02"

	// MaxCalendarDays bounds the calendar range, both ends included.
	MaxCalendarDays = 62
)

// ParseRecurrence validates an RRULE body such as "FREQ=WEEKLY;BYDAY=SA,SU".
func ParseRecurrence(rule string) (*rrule.RRule, error) {
	r, err := rrule.StrToRRule(rule)
	if err != nil {
		return nil, xerrors.Invalid("invalid recurrence: %v", err)
	}
	return r, nil
}

// parseRange checks that from and to are real calendar dates with
// from <= to and at most MaxCalendarDays between them.
func parseRange(from, to string) (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, from)
	if err != nil {
		return time.Time{}, time.Time{}, xerrors.Invalid("invalid from date %q", from)
	}
	end, err := time.Parse(dateLayout, to)
	if err != nil {
		return time.Time{}, time.Time{}, xerrors.Invalid("invalid to date %q", to)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, xerrors.Invalid("from must not be after to")
	}
	if days := int(end.Sub(start).Hours()/24) + 1; days > MaxCalendarDays {
		return time.Time{}, time.Time{}, xerrors.Invalid("date range spans %d days, maximum is %d", days, MaxCalendarDays)
	}
	return start, end, nil
}

// occurrences lists the dates in [start, end] on which the activity runs.
// Without a recurrence the activity runs every day.
func occurrences(recurrence *string, start, end time.Time) ([]string, error) {
	var (
		r   *rrule.RRule
		err error
	)
	if recurrence != nil && *recurrence != "" {
		r, err = ParseRecurrence(*recurrence)
		if err != nil {
			return nil, err
		}
		r.DTStart(start)
	} else {
		r, err = rrule.NewRRule(rrule.ROption{Freq: rrule.DAILY, Dtstart: start, Until: end})
		if err != nil {
			return nil, fmt.Errorf("failed to build daily rule: %w", err)
		}
	}

	times := r.Between(start, end, true)
	out := make([]string, 0, len(times))
	for _, t := range times {
		out = append(out, t.Format(dateLayout))
	}
	return out, nil
}
