package booking

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// DayWindowUTC converts a client-local calendar date plus UTC offset into the
// absolute UTC window covering that local day. offsetMinutes is the number of
// minutes local time is ahead of UTC, so local midnight falls offsetMinutes
// before UTC midnight of the same calendar date.
func DayWindowUTC(date string, offsetMinutes int) (time.Time, time.Time, error) {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid date %q", ErrValidation, date)
	}
	start := day.Add(-time.Duration(offsetMinutes) * time.Minute)
	return start, start.Add(24 * time.Hour), nil
}

// LocalWeekday returns the weekday of the client-local calendar date.
func LocalWeekday(date string) (time.Weekday, error) {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid date %q", ErrValidation, date)
	}
	return day.Weekday(), nil
}

// CandidateStarts emits candidate start instants at stepMinutes granularity
// spanning [workStartMin, workEndMin) minutes from local midnight on the given
// date, expressed in UTC. Returns an empty sequence when the working window is
// empty (resource off that day). Pure; all arithmetic in whole minutes.
func CandidateStarts(date string, offsetMinutes, stepMinutes, workStartMin, workEndMin int) ([]time.Time, error) {
	if stepMinutes <= 0 {
		return nil, fmt.Errorf("%w: step must be positive, got %d", ErrValidation, stepMinutes)
	}
	dayStart, _, err := DayWindowUTC(date, offsetMinutes)
	if err != nil {
		return nil, err
	}
	if workEndMin <= workStartMin {
		return nil, nil
	}

	var starts []time.Time
	for m := workStartMin; m < workEndMin; m += stepMinutes {
		starts = append(starts, dayStart.Add(time.Duration(m)*time.Minute))
	}
	return starts, nil
}
