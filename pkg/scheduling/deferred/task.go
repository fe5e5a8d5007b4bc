package deferred

import (
	"log/slog"

	"github.com/vnykmshr/ticktask/pkg/common/validation"
	"github.com/vnykmshr/ticktask/pkg/tick"
)

// Kind names the arming operation, as reported in logs and metrics.
type Kind string

const (
	KindIn    Kind = "in"
	KindAt    Kind = "at"
	KindEvery Kind = "every"
)

// Stats holds counters accumulated by Poll.
type Stats struct {
	// Fired is the number of times the task came due.
	Fired uint64

	// Missed is the number of periodic firings skipped while catching up
	// after a late poll.
	Missed uint64
}

// Task is a single deferred callback with its own deadline and timebase.
type Task struct {
	callback Callback
	context  any

	active   bool
	periodic bool
	micros   bool
	interval int32
	deadline tick.Tick

	source tick.Source
	logger *slog.Logger
	name   string
	stats  Stats
}

// New creates an inactive Task bound to cb. A nil cb is allowed; polling such
// a task updates its schedule but invokes nothing.
func New(cb Callback, opts ...Option) *Task {
	t := &Task{
		callback: cb,
		source:   defaultSource,
		logger:   defaultLogger,
		name:     "task",
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// CheckInterval reports why interval would be rejected by CallIn or CallEvery.
func CheckInterval(interval int32) error {
	return validation.ValidateNonNegative("deferred", "interval", int64(interval))
}

// CheckTarget reports why target would be rejected by CallAt when the counter
// reads now.
func CheckTarget(target, now tick.Tick) error {
	return validation.ValidateForward("deferred", "target", uint32(target), int64(tick.Diff(target, now)))
}

// CallIn arms a one-shot firing interval ticks from now.
// It returns false, changing nothing, if interval is negative.
func (t *Task) CallIn(interval int32) bool {
	return t.callIn(interval, t.context)
}

// CallInWith is CallIn that also sets the context passed to a WithContext callback.
// A rejected call keeps the previous context.
func (t *Task) CallInWith(interval int32, ctx any) bool {
	return t.callIn(interval, ctx)
}

// CallAt arms a one-shot firing when the counter reaches target.
// It returns false, changing nothing, if target is already past or lies
// MaxHorizon+1 or more ticks ahead.
func (t *Task) CallAt(target tick.Tick) bool {
	return t.callAt(target, t.context)
}

// CallAtWith is CallAt that also sets the context passed to a WithContext callback.
// A rejected call keeps the previous context.
func (t *Task) CallAtWith(target tick.Tick, ctx any) bool {
	return t.callAt(target, ctx)
}

// CallEvery arms a periodic firing every interval ticks, the first one
// interval ticks from now. It returns false, changing nothing, if interval is
// negative. A zero interval makes the task due on every poll.
func (t *Task) CallEvery(interval int32) bool {
	return t.callEvery(interval, t.context)
}

// CallEveryWith is CallEvery that also sets the context passed to a WithContext callback.
// A rejected call keeps the previous context.
func (t *Task) CallEveryWith(interval int32, ctx any) bool {
	return t.callEvery(interval, ctx)
}

func (t *Task) callIn(interval int32, ctx any) bool {
	if err := CheckInterval(interval); err != nil {
		t.reject(KindIn, err)
		return false
	}
	t.arm(KindIn, tick.Add(t.now(), interval), false, ctx)
	return true
}

func (t *Task) callAt(target tick.Tick, ctx any) bool {
	if err := CheckTarget(target, t.now()); err != nil {
		t.reject(KindAt, err)
		return false
	}
	t.arm(KindAt, target, false, ctx)
	return true
}

func (t *Task) callEvery(interval int32, ctx any) bool {
	if err := CheckInterval(interval); err != nil {
		t.reject(KindEvery, err)
		return false
	}
	t.interval = interval
	t.arm(KindEvery, tick.Add(t.now(), interval), true, ctx)
	return true
}

func (t *Task) arm(kind Kind, deadline tick.Tick, periodic bool, ctx any) {
	t.context = ctx
	t.deadline = deadline
	t.periodic = periodic
	t.active = true

	t.logger.Debug("task armed",
		slog.String("task", t.name),
		slog.String("kind", string(kind)),
		slog.Uint64("deadline", uint64(deadline)),
		slog.Bool("micros", t.micros))
}

func (t *Task) reject(kind Kind, err error) {
	t.logger.Debug("task arming rejected",
		slog.String("task", t.name),
		slog.String("kind", string(kind)),
		slog.Any("error", err))
}

// UseMillis selects the millisecond counter for subsequent calls.
// A pending deadline is not converted.
func (t *Task) UseMillis() {
	t.micros = false
}

// UseMicros selects the microsecond counter for subsequent calls.
// A pending deadline is not converted.
func (t *Task) UseMicros() {
	t.micros = true
}

// Poll runs the callback if the task is active and its deadline has been
// reached, and reports whether it was due. It is cheap when the task is not due.
//
// A one-shot task is deactivated before its callback runs, so the callback may
// re-arm it. A periodic task moves its deadline forward by whole intervals to
// the first grid point after now before the callback runs.
func (t *Task) Poll() bool {
	if !t.active {
		return false
	}

	now := t.now()
	if !tick.IsDue(t.deadline, now) {
		return false
	}

	if t.periodic {
		next, missed := tick.Advance(t.deadline, now, t.interval)
		t.deadline = next
		if missed > 0 {
			t.stats.Missed += uint64(missed)
			t.logger.Debug("periodic task caught up",
				slog.String("task", t.name),
				slog.Uint64("missed", uint64(missed)),
				slog.Uint64("deadline", uint64(next)))
		}
	} else {
		t.active = false
	}

	t.stats.Fired++
	if t.callback != nil {
		t.callback.invoke(t.context)
	}
	return true
}

// Remaining returns the ticks left until the task is due, 0 if it is already
// due, or -1 if it is not active.
func (t *Task) Remaining() int32 {
	if !t.active {
		return -1
	}
	if d := tick.Diff(t.deadline, t.now()); d > 0 {
		return d
	}
	return 0
}

// Cancel deactivates the task. The deadline, interval and context are kept
// until the task is armed again.
func (t *Task) Cancel() {
	t.active = false
}

// Active reports whether a deadline is pending.
func (t *Task) Active() bool { return t.active }

// Periodic reports whether the task was last armed with CallEvery.
func (t *Task) Periodic() bool { return t.periodic }

// Micros reports whether the task reads the microsecond counter.
func (t *Task) Micros() bool { return t.micros }

// Interval returns the interval stored by the last CallEvery.
func (t *Task) Interval() int32 { return t.interval }

// Deadline returns the stored deadline. It is stale when the task is inactive.
func (t *Task) Deadline() tick.Tick { return t.deadline }

// Context returns the context passed to a WithContext callback.
func (t *Task) Context() any { return t.context }

// Name returns the name used in log records.
func (t *Task) Name() string { return t.name }

// Stats returns the counters accumulated by Poll.
func (t *Task) Stats() Stats { return t.stats }

// Now returns the current reading of the task's counter.
func (t *Task) Now() tick.Tick { return t.now() }

func (t *Task) now() tick.Tick {
	return tick.Read(t.source, t.micros)
}
