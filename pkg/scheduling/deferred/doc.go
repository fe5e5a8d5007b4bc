/*
Package deferred provides a deferred-call primitive for single-threaded control
loops that only have a free-running, wrapping tick counter to tell time.

A Task binds one callback and, once armed, reports on every Poll whether its
deadline has been reached. When it has, the callback runs synchronously inside
Poll. Nothing runs in the background: the owner of the Task decides how often to
poll, and the callback is never invoked before its deadline.

Basic usage:

	blink := deferred.New(deferred.Plain(func() {
		led.Toggle()
	}))
	blink.CallEvery(250) // every 250 ms

	for {
		// do other stuff
		blink.Poll()
	}

Arming:

	task.CallIn(500)          // once, 500 ticks from now
	task.CallAt(target)       // once, at an absolute counter value
	task.CallEvery(100)       // every 100 ticks, starting 100 ticks from now

Each call returns false, and leaves the task untouched, when the request cannot
be represented: a negative interval, or a CallAt target that is already past or
2^31 ticks or more ahead. CheckInterval and CheckTarget return the reason as an
error.

Callbacks:

A Task is bound to exactly one callback shape for its lifetime. Plain takes no
arguments. WithContext receives an opaque value supplied with CallInWith,
CallAtWith or CallEveryWith; the value is passed through unchanged and is never
retained beyond the task's own reference to it.

	report := deferred.New(deferred.WithContext(func(ctx any) {
		ctx.(*Sensor).Sample()
	}))
	report.CallEveryWith(1000, sensorA)

Periodic catch-up:

If polling falls behind, a periodic task fires once and moves its deadline to the
next point on its original grid that is still in the future. Skipped firings are
counted in Stats().Missed rather than replayed.

Timebase:

Tasks read milliseconds by default; UseMicros switches a single task to the
microsecond counter. The pending deadline is not converted when the timebase
changes, so switching an armed task makes it fire far too early or far too late.
Re-arm after switching.

Concurrency:

A Task is not safe for concurrent use and uses no locks or atomics. Calling Poll
on the same task from inside its own callback recurses and must be avoided.
Distinct tasks share no state and can be polled in any order.
*/
package deferred
