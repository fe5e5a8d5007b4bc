package loop

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	tterrors "github.com/vnykmshr/ticktask/pkg/common/errors"
	"github.com/vnykmshr/ticktask/pkg/metrics"
	"github.com/vnykmshr/ticktask/pkg/tick"
)

// ErrRunning is returned by Run when the Runner is already running.
// It wraps ErrClosed from pkg/common/errors.
var ErrRunning = fmt.Errorf("loop already running: %w", tterrors.ErrClosed)

// Pollable is the part of a deferred task the Runner needs.
// *deferred.Task and *metrics.Task both satisfy it.
type Pollable interface {
	Poll() bool
	Remaining() int32
	Micros() bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics records loop metrics into the registry selected by cfg.
func WithMetrics(cfg metrics.Config) Option {
	return func(r *Runner) {
		if cfg.Enabled {
			r.registry = cfg.Resolve()
		}
	}
}

// Runner polls a fixed set of tasks from a single goroutine.
type Runner struct {
	name    string
	maxIdle time.Duration
	minIdle time.Duration

	tasks    []Pollable
	logger   *slog.Logger
	registry *metrics.Registry
	running  atomic.Bool
}

// New creates a Runner from cfg.
func New(cfg Config, opts ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Runner{
		name:    cfg.Name,
		maxIdle: cfg.MaxIdle,
		minIdle: cfg.MinIdle,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Add appends a task to the set polled on every pass.
func (r *Runner) Add(p Pollable) {
	r.tasks = append(r.tasks, p)
	if r.registry != nil {
		r.registry.LoopTasks.WithLabelValues(r.name).Set(float64(len(r.tasks)))
	}
}

// Len returns the number of tasks.
func (r *Runner) Len() int {
	return len(r.tasks)
}

// PollOnce polls every task once, in insertion order, and returns how many
// of them fired.
func (r *Runner) PollOnce() int {
	fired := 0
	for _, t := range r.tasks {
		if t.Poll() {
			fired++
		}
	}

	if r.registry != nil {
		r.registry.LoopPolls.WithLabelValues(r.name).Inc()
		if fired > 0 {
			r.registry.LoopFired.WithLabelValues(r.name).Add(float64(fired))
		}
	}
	return fired
}

// NextIdle returns how long the loop may wait before the earliest active task
// is due, clamped to [MinIdle, MaxIdle]. It is MaxIdle when no task is active.
func (r *Runner) NextIdle() time.Duration {
	idle := r.maxIdle
	for _, t := range r.tasks {
		remaining := t.Remaining()
		if remaining < 0 {
			continue
		}
		if d := tick.Duration(int64(remaining), t.Micros()); d < idle {
			idle = d
		}
	}
	if idle < r.minIdle {
		idle = r.minIdle
	}
	return idle
}

// Run polls and idles until ctx is done, then returns ctx.Err().
func (r *Runner) Run(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer r.running.Store(false)

	r.logger.Info("loop started",
		slog.String("loop", r.name),
		slog.Int("tasks", len(r.tasks)),
		slog.Duration("max_idle", r.maxIdle))

	timer := time.NewTimer(r.maxIdle)
	defer timer.Stop()

	for {
		r.PollOnce()

		idle := r.NextIdle()
		if r.registry != nil {
			r.registry.LoopIdle.WithLabelValues(r.name).Observe(idle.Seconds())
		}

		if idle <= 0 {
			if err := ctx.Err(); err != nil {
				return r.stopped(err)
			}
			continue
		}

		timer.Reset(idle)
		select {
		case <-ctx.Done():
			return r.stopped(ctx.Err())
		case <-timer.C:
		}
	}
}

func (r *Runner) stopped(err error) error {
	r.logger.Info("loop stopped", slog.String("loop", r.name), slog.Any("reason", err))
	return err
}
