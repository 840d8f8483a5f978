// Package clock supplies the current time to code that needs to know what
// day it is, so that "today" can be pinned in tests.
package clock

import (
	"sync"
	"time"

	"github.com/phrazzld/oneline-api/internal/domain"
)

// Clock reports the current instant.
type Clock interface {
	Now() time.Time
}

// System is the wall clock.
type System struct{}

// Now returns time.Now().
func (System) Now() time.Time { return time.Now() }

// Fixed is a settable clock for tests.
type Fixed struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixed returns a Fixed clock stopped at now.
func NewFixed(now time.Time) *Fixed {
	return &Fixed{now: now}
}

// AtDate returns a Fixed clock stopped at noon UTC on d.
func AtDate(d domain.Date) *Fixed {
	return NewFixed(d.Time(time.UTC).Add(12 * time.Hour))
}

// Now returns the stored instant.
func (f *Fixed) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Set moves the clock to t.
func (f *Fixed) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = t
}

// Advance moves the clock forward by d.
func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// Today returns the calendar date of c.Now() in loc. A nil loc means
// time.Local. The date is evaluated on every call, so a long-lived session
// that crosses midnight moves to the next day.
func Today(c Clock, loc *time.Location) domain.Date {
	if loc == nil {
		loc = time.Local
	}
	return domain.DateOf(c.Now().In(loc))
}
