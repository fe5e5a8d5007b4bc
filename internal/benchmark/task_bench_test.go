package benchmark

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnykmshr/ticktask/internal/testutil"
	"github.com/vnykmshr/ticktask/pkg/metrics"
	"github.com/vnykmshr/ticktask/pkg/scheduling/deferred"
	"github.com/vnykmshr/ticktask/pkg/scheduling/loop"
	"github.com/vnykmshr/ticktask/pkg/tick"
)

// BenchmarkPollNotDue measures the common path: polling a task that is not due.
func BenchmarkPollNotDue(b *testing.B) {
	clock := testutil.NewManualSource(0)
	task := deferred.New(deferred.Plain(func() {}), deferred.WithSource(clock))
	task.CallEvery(1000)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = task.Poll()
	}
}

// BenchmarkPollDue measures a periodic task that fires on every poll.
func BenchmarkPollDue(b *testing.B) {
	clock := testutil.NewManualSource(0)
	task := deferred.New(deferred.Plain(func() {}), deferred.WithSource(clock))
	task.CallEvery(1)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		clock.Advance(1)
		_ = task.Poll()
	}
}

// BenchmarkPollSystemSource includes the cost of reading the monotonic clock.
func BenchmarkPollSystemSource(b *testing.B) {
	for _, micros := range []bool{false, true} {
		name := "millis"
		opts := []deferred.Option{deferred.WithSource(tick.NewSystemSource())}
		if micros {
			name = "micros"
			opts = append(opts, deferred.WithMicros())
		}

		b.Run(name, func(b *testing.B) {
			task := deferred.New(nil, opts...)
			task.CallIn(tick.MaxHorizon)

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = task.Poll()
			}
		})
	}
}

// BenchmarkAdvance measures catch-up after long gaps.
func BenchmarkAdvance(b *testing.B) {
	gaps := []uint32{1, 1_000, 1_000_000}

	for _, gap := range gaps {
		b.Run(fmt.Sprintf("gap-%d", gap), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, _ = tick.Advance(0, tick.Tick(gap), 7)
			}
		})
	}
}

// BenchmarkMetricsPoll measures the overhead of the metrics wrapper.
func BenchmarkMetricsPoll(b *testing.B) {
	clock := testutil.NewManualSource(0)
	task := metrics.NewTask(deferred.New(nil, deferred.WithSource(clock)),
		metrics.Config{Enabled: true, Registry: prometheus.NewRegistry()})
	task.CallEvery(1)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		clock.Advance(1)
		_ = task.Poll()
	}
}

// BenchmarkLoopPollOnce measures one pass over many tasks.
func BenchmarkLoopPollOnce(b *testing.B) {
	sizes := []int{1, 16, 256}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("tasks-%d", size), func(b *testing.B) {
			clock := testutil.NewManualSource(0)
			runner, err := loop.New(loop.DefaultConfig())
			if err != nil {
				b.Fatalf("failed to create loop: %v", err)
			}
			for i := 0; i < size; i++ {
				task := deferred.New(nil, deferred.WithSource(clock))
				task.CallEvery(int32(i + 1))
				runner.Add(task)
			}

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				clock.Advance(1)
				_ = runner.PollOnce()
				_ = runner.NextIdle()
			}
		})
	}
}
