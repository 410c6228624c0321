// Package clock implements the in-game calendar. It converts elapsed
// real time into in-game minutes at a configurable speed and tracks the
// 1-based day index the simulation consumes. The engine itself never
// reads wall-clock time.
package clock

import "time"

// MinutesPerDay is the length of one in-game day.
const MinutesPerDay = 24 * 60

// Tick is one unit of simulation time delivered to the engine.
type Tick struct {
	// DeltaHours is the in-game time elapsed since the previous tick.
	DeltaHours float64

	// Day is the 1-based in-game day the tick falls on.
	Day int
}

// Calendar accumulates in-game time. It is not safe for concurrent use;
// the driving loop owns it.
type Calendar struct {
	minutesPerSecond float64
	elapsedMinutes   float64
}

// New creates a calendar running at the given in-game minutes per real
// second. Non-positive speeds are clamped to a stopped clock.
func New(minutesPerSecond float64) *Calendar {
	if minutesPerSecond < 0 {
		minutesPerSecond = 0
	}
	return &Calendar{minutesPerSecond: minutesPerSecond}
}

// Advance consumes a real-time interval and returns the corresponding
// simulation tick.
func (c *Calendar) Advance(real time.Duration) Tick {
	delta := c.minutesPerSecond * real.Seconds()
	c.elapsedMinutes += delta
	return Tick{DeltaHours: delta / 60, Day: c.Day()}
}

// Day returns the current 1-based day index.
func (c *Calendar) Day() int {
	return 1 + int(c.elapsedMinutes/MinutesPerDay)
}

// Phase returns how far the current day has progressed, in [0,1).
// Presentation uses it for the day-night cycle; the engine never sees it.
func (c *Calendar) Phase() float64 {
	day := c.elapsedMinutes / MinutesPerDay
	return day - float64(int(day))
}
