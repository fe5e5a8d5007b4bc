package cronplan

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	tterrors "github.com/vnykmshr/ticktask/pkg/common/errors"
	"github.com/vnykmshr/ticktask/pkg/common/validation"
	"github.com/vnykmshr/ticktask/pkg/scheduling/deferred"
	"github.com/vnykmshr/ticktask/pkg/tick"
)

var parser = cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Option configures a Plan.
type Option func(*Plan)

// WithClock sets the wall-clock source. A nil clock is ignored.
func WithClock(now func() time.Time) Option {
	return func(p *Plan) {
		if now != nil {
			p.now = now
		}
	}
}

// WithLocation evaluates the expression in loc instead of time.Local.
func WithLocation(loc *time.Location) Option {
	return func(p *Plan) {
		if loc != nil {
			p.location = loc
		}
	}
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Plan) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithTaskOptions passes opts to the underlying deferred.Task.
func WithTaskOptions(opts ...deferred.Option) Option {
	return func(p *Plan) {
		p.taskOpts = append(p.taskOpts, opts...)
	}
}

// Plan re-arms a deferred.Task at each occurrence of a cron schedule.
type Plan struct {
	expr     string
	schedule cron.Schedule
	callback deferred.Callback
	task     *deferred.Task

	now      func() time.Time
	location *time.Location
	logger   *slog.Logger
	taskOpts []deferred.Option

	next time.Time
	err  error
}

// New parses expr and creates an unarmed Plan that runs cb at each occurrence.
func New(expr string, cb deferred.Callback, opts ...Option) (*Plan, error) {
	if err := validation.ValidateNotEmpty("cronplan", "expression", expr); err != nil {
		return nil, err
	}

	schedule, err := parser.Parse(expr)
	if err != nil {
		return nil, tterrors.NewValidationError("cronplan", "expression", expr, "invalid cron expression").
			WithHint("use five fields, an optional leading seconds field, or a descriptor such as @hourly").
			WithCause(err)
	}

	p := &Plan{
		expr:     expr,
		schedule: schedule,
		callback: cb,
		now:      time.Now,
		location: time.Local,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.task = deferred.New(deferred.WithContext(p.fire), p.taskOpts...)
	return p, nil
}

// Arm arms the task for the first occurrence after now.
func (p *Plan) Arm(now time.Time) error {
	return p.armAfter(now, now)
}

// Fired re-arms the task for the first occurrence after both now and the
// occurrence it last fired for. The Plan calls it before running the callback.
func (p *Plan) Fired(now time.Time) error {
	from := now
	if from.Before(p.next) {
		from = p.next
	}
	return p.armAfter(from, now)
}

func (p *Plan) armAfter(from, now time.Time) error {
	next := p.schedule.Next(from.In(p.location))
	if next.IsZero() {
		return p.fail(tterrors.NewOperationError("cronplan", "arm", fmt.Errorf("no occurrence after %v", from)).
			WithContext(fmt.Sprintf("expression %q", p.expr)))
	}

	distance := tick.Ticks(next.Sub(now), p.task.Micros())
	if distance < 0 {
		distance = 0
	}
	if distance > tick.MaxHorizon {
		return p.fail(tterrors.NewValidationError("cronplan", "next", next, "outside schedulable horizon").
			WithHint("choose a schedule whose occurrences are closer together, or use the millisecond timebase").
			WithCause(tterrors.ErrOutsideHorizon))
	}

	if !p.task.CallAt(tick.Add(p.task.Now(), int32(distance))) {
		return p.fail(tterrors.NewOperationError("cronplan", "arm", tterrors.ErrOutsideHorizon).
			WithContext(fmt.Sprintf("expression %q", p.expr)))
	}

	p.next = next
	p.err = nil
	p.logger.Debug("cron plan armed",
		slog.String("expression", p.expr),
		slog.Time("next", next),
		slog.Int64("ticks", distance))
	return nil
}

func (p *Plan) fail(err error) error {
	p.err = err
	p.logger.Warn("cron plan not armed",
		slog.String("expression", p.expr),
		slog.Any("error", err))
	return err
}

func (p *Plan) fire(ctx any) {
	// Re-arm before the callback so it can Stop the plan.
	_ = p.Fired(p.now())
	deferred.Call(p.callback, ctx)
}

// Stop cancels the pending firing. Arm resumes the plan.
func (p *Plan) Stop() {
	p.task.Cancel()
}

// Task returns the task to poll.
func (p *Plan) Task() *deferred.Task { return p.task }

// Next returns the occurrence the task is armed for. It is the zero time
// before the first successful Arm.
func (p *Plan) Next() time.Time { return p.next }

// Expression returns the cron expression the Plan was built from.
func (p *Plan) Expression() string { return p.expr }

// Err returns the error from the most recent arming attempt, or nil.
func (p *Plan) Err() error { return p.err }
