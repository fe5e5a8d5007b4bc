package tick

import (
	"math"
	"time"
)

// Tick is a reading of a 32-bit free-running counter.
type Tick uint32

// MaxHorizon is the furthest distance, in ticks, a deadline may lie ahead of
// the current reading and still be ordered correctly.
const MaxHorizon = math.MaxInt32

// Diff returns a - b reinterpreted as a signed 32-bit value.
// A negative result means a is before b, even across a wraparound.
func Diff(a, b Tick) int32 {
	return int32(a - b)
}

// IsDue reports whether deadline is at or before now.
func IsDue(deadline, now Tick) bool {
	return Diff(deadline, now) <= 0
}

// Add returns t advanced by n ticks, wrapping at 2^32.
func Add(t Tick, n int32) Tick {
	return t + Tick(n)
}

// Advance returns the first deadline on the grid deadline + k*interval (k >= 1)
// that lies strictly after now, and the number of grid points skipped on the
// way (k - 1). If deadline is not yet due it is returned unchanged.
//
// A non-positive interval yields now itself, so the next comparison against a
// later reading is immediately due.
func Advance(deadline, now Tick, interval int32) (next Tick, missed uint32) {
	if !IsDue(deadline, now) {
		return deadline, 0
	}
	if interval <= 0 {
		return now, 0
	}

	// overdue <= 2^31 and interval < 2^31, so steps*interval cannot overflow.
	overdue := uint32(now - deadline)
	step := uint32(interval)
	steps := overdue/step + 1

	return deadline + Tick(steps*step), steps - 1
}

// Duration converts a tick count to a time.Duration in the given timebase.
func Duration(n int64, micros bool) time.Duration {
	if micros {
		return time.Duration(n) * time.Microsecond
	}
	return time.Duration(n) * time.Millisecond
}

// Ticks converts d to a tick count in the given timebase, truncating toward zero.
func Ticks(d time.Duration, micros bool) int64 {
	if micros {
		return d.Microseconds()
	}
	return d.Milliseconds()
}
