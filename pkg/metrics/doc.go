// Package metrics provides Prometheus instrumentation for ticktask components.
//
// # Overview
//
// Instrumentation is opt-in and never touches the core scheduling code. A
// deferred.Task is wrapped in a metrics.Task, which has the same arming and
// polling methods and records what happened:
//
//	blink := deferred.New(deferred.Plain(toggle), deferred.WithName("blink"))
//	task := metrics.NewTask(blink, metrics.DefaultConfig())
//	task.CallEvery(250)
//
//	for {
//		task.Poll()
//	}
//
// The host loop in package loop records its own metrics when built with
// loop.WithMetrics.
//
// Expose them via HTTP:
//
//	http.Handle("/metrics", promhttp.Handler())
//
// # Custom Registry
//
// Use a custom Prometheus registry for isolation:
//
//	registry := prometheus.NewRegistry()
//	task := metrics.NewTask(blink, metrics.Config{Enabled: true, Registry: registry})
//
// Components sharing a registerer share one Registry, so wrapping many tasks
// with the same Config does not register duplicate collectors.
//
// # Available Metrics
//
// ## Task Metrics
//
//   - ticktask_task_armed_total{task,kind}: accepted CallIn/CallAt/CallEvery calls
//   - ticktask_task_rejected_total{task,kind}: rejected arming calls
//   - ticktask_task_fired_total{task}: polls on which the task was due
//   - ticktask_task_missed_total{task}: periodic firings skipped by catch-up
//   - ticktask_task_remaining_ticks{task}: last value returned by Remaining
//
// ## Loop Metrics
//
//   - ticktask_loop_polls_total{loop}: passes over all tasks
//   - ticktask_loop_fired_total{loop}: callbacks run by the loop
//   - ticktask_loop_idle_seconds{loop}: idle time between passes
//   - ticktask_loop_tasks{loop}: number of tasks polled
//
// # Runtime Control
//
// Components implementing the Instrumentable interface support runtime control:
//
//	task.DisableMetrics()
//	task.EnableMetrics(config)
//	enabled := task.MetricsEnabled()
package metrics
