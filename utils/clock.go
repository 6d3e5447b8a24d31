package utils

import "time"

// Clock allows injecting time into services and repositories.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// SystemClock returns a clock backed by time.Now in UTC.
func SystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

type fixedClock struct {
	now time.Time
}

// FixedClock returns a clock pinned to one instant (useful for tests).
func FixedClock(t time.Time) Clock {
	return fixedClock{now: t.UTC()}
}

func (f fixedClock) Now() time.Time {
	return f.now
}
