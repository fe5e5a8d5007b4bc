package deferred

import (
	"io"
	"log/slog"

	"github.com/vnykmshr/ticktask/pkg/tick"
)

// defaultSource is shared so that CallAt targets computed from one default
// task mean the same instant to another.
var defaultSource = tick.NewSystemSource()

// defaultLogger writes nothing.
var defaultLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Option configures a Task.
type Option func(*Task)

// WithSource sets the counter source. A nil source is ignored.
func WithSource(src tick.Source) Option {
	return func(t *Task) {
		if src != nil {
			t.source = src
		}
	}
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Task) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithName sets the name reported in log records.
func WithName(name string) Option {
	return func(t *Task) {
		t.name = name
	}
}

// WithMicros starts the task on the microsecond counter.
func WithMicros() Option {
	return func(t *Task) {
		t.micros = true
	}
}
