/*
Package ticktask provides deferred and periodic callbacks driven by polling a
32-bit wrapping tick counter.

A task is armed with a deadline and polled from the host's main loop; when the
counter reaches the deadline the callback runs on the polling goroutine. There
are no timers, goroutines or locks in the core, and the counter may wrap
around 2^32 freely.

Core (pkg/tick, pkg/scheduling/deferred):
  - tick: wrap-safe counter arithmetic and tick sources (system clock, Redis TIME)
  - deferred: one-shot and periodic tasks with millisecond or microsecond timebase

Host integration (pkg/scheduling):
  - loop: polls a set of tasks and idles until the next one is due
  - cronplan: re-arms a task at each occurrence of a cron expression

Observability (pkg/metrics):
  - Prometheus counters and gauges for tasks and loops

Example usage:

	import (
		"github.com/vnykmshr/ticktask/pkg/scheduling/deferred"
	)

	blink := deferred.New(deferred.Plain(toggleLED))
	blink.CallEvery(500) // every 500ms

	for {
		blink.Poll()
	}
*/
package ticktask
