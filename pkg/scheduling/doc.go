// Package scheduling groups the task scheduling packages of ticktask.
//
//   - deferred: a single callback armed to run at a tick deadline
//   - loop: a host loop that polls many tasks and sleeps between passes
//   - cronplan: cron expressions on top of deferred tasks
//
// Deferred Task:
//
// A task is armed relative to now, at an absolute tick, or periodically, and
// fires when polled at or after its deadline:
//
//	task := deferred.New(deferred.Plain(func() { fmt.Println("fired") }))
//	task.CallIn(250)    // once, 250ms from now
//	task.CallEvery(100) // instead: every 100ms
//
//	for task.Active() {
//		task.Poll()
//	}
//
// A periodic task polled late fires once and skips the periods it missed, so its
// deadline always stays on the original grid.
//
// Host Loop:
//
// The loop polls every task in insertion order and waits for the earliest
// remaining deadline, bounded by its configured idle range:
//
//	runner, _ := loop.New(loop.DefaultConfig())
//	runner.Add(task)
//	err := runner.Run(ctx) // returns ctx.Err()
//
// Cron Plans:
//
//	plan, _ := cronplan.New("0 */5 * * * *", deferred.Plain(report))
//	plan.Arm(time.Now())
//	runner.Add(plan.Task())
//
// All packages are single-goroutine: a task is armed and polled from the
// goroutine that owns it. Run blocks that goroutine.
package scheduling
