package tick

import "time"

// Source supplies the current counter readings. Both reads must be free of
// side effects and increase monotonically modulo 2^32.
type Source interface {
	// Millis returns the millisecond counter.
	Millis() Tick

	// Micros returns the microsecond counter.
	Micros() Tick
}

// Read returns the reading of src in the selected timebase.
func Read(src Source, micros bool) Tick {
	if micros {
		return src.Micros()
	}
	return src.Millis()
}

// SystemSource implements Source using the monotonic clock. Both counters
// start at zero when the source is created.
type SystemSource struct {
	start time.Time
}

// NewSystemSource creates a SystemSource starting now.
func NewSystemSource() *SystemSource {
	return &SystemSource{start: time.Now()}
}

// Millis returns milliseconds elapsed since creation, modulo 2^32.
func (s *SystemSource) Millis() Tick {
	return Tick(uint32(time.Since(s.start).Milliseconds()))
}

// Micros returns microseconds elapsed since creation, modulo 2^32.
func (s *SystemSource) Micros() Tick {
	return Tick(uint32(time.Since(s.start).Microseconds()))
}

// OffsetSource shifts every reading of another Source by fixed offsets.
type OffsetSource struct {
	Source
	MillisOffset Tick
	MicrosOffset Tick
}

// NewOffsetSource wraps src so its readings start at the given values
// instead of src's current ones.
func NewOffsetSource(src Source, millisStart, microsStart Tick) *OffsetSource {
	return &OffsetSource{
		Source:       src,
		MillisOffset: millisStart - src.Millis(),
		MicrosOffset: microsStart - src.Micros(),
	}
}

// Millis returns the shifted millisecond reading.
func (o *OffsetSource) Millis() Tick {
	return o.Source.Millis() + o.MillisOffset
}

// Micros returns the shifted microsecond reading.
func (o *OffsetSource) Micros() Tick {
	return o.Source.Micros() + o.MicrosOffset
}
