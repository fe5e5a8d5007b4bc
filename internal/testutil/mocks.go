package testutil

import (
	"bytes"
	"sync"
	"time"

	"github.com/vnykmshr/ticktask/pkg/tick"
)

// ManualSource implements tick.Source with counters that only move when told to.
// Millis and Micros are independent so timebase mix-ups stay observable.
type ManualSource struct {
	mu     sync.Mutex
	millis tick.Tick
	micros tick.Tick
}

// NewManualSource creates a ManualSource with both counters at start.
func NewManualSource(start tick.Tick) *ManualSource {
	return &ManualSource{millis: start, micros: start}
}

// Millis returns the millisecond counter.
func (m *ManualSource) Millis() tick.Tick {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.millis
}

// Micros returns the microsecond counter.
func (m *ManualSource) Micros() tick.Tick {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.micros
}

// Advance moves both counters forward by n ticks of their own unit, wrapping at 2^32.
func (m *ManualSource) Advance(n uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.millis += tick.Tick(n)
	m.micros += tick.Tick(n)
}

// SetMillis sets the millisecond counter.
func (m *ManualSource) SetMillis(v tick.Tick) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.millis = v
}

// SetMicros sets the microsecond counter.
func (m *ManualSource) SetMicros(v tick.Tick) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.micros = v
}

// MockClock provides a controllable wall clock for code that takes a
// func() time.Time.
type MockClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewMockClock creates a new MockClock starting at the given time.
// If zero time is provided, uses current time.
func NewMockClock(start time.Time) *MockClock {
	if start.IsZero() {
		start = time.Now()
	}
	return &MockClock{now: start}
}

// Now returns the current mock time.
func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the mock clock forward by the given duration.
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// MockWriter is a test writer that records everything written to it,
// typically used as the destination of a slog handler.
type MockWriter struct {
	mu         sync.Mutex
	buf        bytes.Buffer
	writeCount int
}

// NewMockWriter creates a new MockWriter.
func NewMockWriter() *MockWriter {
	return &MockWriter{}
}

// Write implements io.Writer.
func (mw *MockWriter) Write(p []byte) (int, error) {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	mw.writeCount++
	return mw.buf.Write(p)
}

// String returns the current buffer contents.
func (mw *MockWriter) String() string {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	return mw.buf.String()
}

// WriteCount returns the number of Write calls.
func (mw *MockWriter) WriteCount() int {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	return mw.writeCount
}

// Reset clears the buffer and the write counter.
func (mw *MockWriter) Reset() {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	mw.buf.Reset()
	mw.writeCount = 0
}
