package metrics

import (
	"github.com/vnykmshr/ticktask/pkg/scheduling/deferred"
	"github.com/vnykmshr/ticktask/pkg/tick"
)

// Task wraps a deferred.Task with Prometheus metrics collection.
// Metric series are labelled with the wrapped task's Name.
type Task struct {
	task     *deferred.Task
	name     string
	registry *Registry
	enabled  bool
}

// NewTask wraps task, recording into the registry selected by cfg.
func NewTask(task *deferred.Task, cfg Config) *Task {
	return &Task{
		task:     task,
		name:     task.Name(),
		registry: cfg.Resolve(),
		enabled:  cfg.Enabled,
	}
}

// Unwrap returns the wrapped task.
func (mt *Task) Unwrap() *deferred.Task {
	return mt.task
}

// CallIn arms a one-shot firing interval ticks from now.
func (mt *Task) CallIn(interval int32) bool {
	return mt.record(deferred.KindIn, mt.task.CallIn(interval))
}

// CallInWith is CallIn that also sets the callback context.
func (mt *Task) CallInWith(interval int32, ctx any) bool {
	return mt.record(deferred.KindIn, mt.task.CallInWith(interval, ctx))
}

// CallAt arms a one-shot firing at target.
func (mt *Task) CallAt(target tick.Tick) bool {
	return mt.record(deferred.KindAt, mt.task.CallAt(target))
}

// CallAtWith is CallAt that also sets the callback context.
func (mt *Task) CallAtWith(target tick.Tick, ctx any) bool {
	return mt.record(deferred.KindAt, mt.task.CallAtWith(target, ctx))
}

// CallEvery arms a periodic firing every interval ticks.
func (mt *Task) CallEvery(interval int32) bool {
	return mt.record(deferred.KindEvery, mt.task.CallEvery(interval))
}

// CallEveryWith is CallEvery that also sets the callback context.
func (mt *Task) CallEveryWith(interval int32, ctx any) bool {
	return mt.record(deferred.KindEvery, mt.task.CallEveryWith(interval, ctx))
}

func (mt *Task) record(kind deferred.Kind, ok bool) bool {
	if !mt.enabled {
		return ok
	}
	if ok {
		mt.registry.TasksArmed.WithLabelValues(mt.name, string(kind)).Inc()
	} else {
		mt.registry.TasksRejected.WithLabelValues(mt.name, string(kind)).Inc()
	}
	return ok
}

// Poll polls the wrapped task and records firings and catch-up misses.
func (mt *Task) Poll() bool {
	if !mt.enabled {
		return mt.task.Poll()
	}

	before := mt.task.Stats().Missed
	fired := mt.task.Poll()
	if fired {
		mt.registry.TasksFired.WithLabelValues(mt.name).Inc()
		if missed := mt.task.Stats().Missed - before; missed > 0 {
			mt.registry.TasksMissed.WithLabelValues(mt.name).Add(float64(missed))
		}
	}
	return fired
}

// Remaining returns the ticks left until due and updates the remaining gauge.
func (mt *Task) Remaining() int32 {
	remaining := mt.task.Remaining()
	if mt.enabled {
		mt.registry.TaskRemaining.WithLabelValues(mt.name).Set(float64(remaining))
	}
	return remaining
}

// Cancel deactivates the wrapped task.
func (mt *Task) Cancel() {
	mt.task.Cancel()
}

// UseMillis selects the millisecond counter.
func (mt *Task) UseMillis() {
	mt.task.UseMillis()
}

// UseMicros selects the microsecond counter.
func (mt *Task) UseMicros() {
	mt.task.UseMicros()
}

// Micros reports whether the wrapped task reads the microsecond counter.
func (mt *Task) Micros() bool {
	return mt.task.Micros()
}

// Active reports whether the wrapped task has a pending deadline.
func (mt *Task) Active() bool {
	return mt.task.Active()
}

// EnableMetrics enables metrics collection.
func (mt *Task) EnableMetrics(config Config) error {
	mt.enabled = config.Enabled
	mt.registry = config.Resolve()
	return nil
}

// DisableMetrics disables metrics collection.
func (mt *Task) DisableMetrics() {
	mt.enabled = false
}

// MetricsEnabled returns true if metrics are currently enabled.
func (mt *Task) MetricsEnabled() bool {
	return mt.enabled
}
