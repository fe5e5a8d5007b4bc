// Package cronplan arms a deferred task from a cron expression.
//
// The tick counter only measures relative time, so a Plan reads wall-clock
// time from a clock function, finds the next occurrence of its schedule and
// arms the task with CallAt at the equivalent tick. When the task fires the
// Plan re-arms it for the following occurrence before running the callback.
//
//	plan, err := cronplan.New("*/5 * * * * *", deferred.Plain(report))
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := plan.Arm(time.Now()); err != nil {
//		log.Fatal(err)
//	}
//	runner.Add(plan.Task())
//
// Expressions use the standard five fields with an optional leading seconds
// field, and descriptors such as "@hourly". An occurrence further away than
// the task's horizon (about 24.8 days in milliseconds, 35.8 minutes in
// microseconds) cannot be armed and Arm returns an error wrapping
// errors.ErrOutsideHorizon.
package cronplan
