package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vnykmshr/ticktask/internal/testutil"
	"github.com/vnykmshr/ticktask/pkg/scheduling/deferred"
)

func newTestTask(t *testing.T, name string) (*Task, *testutil.ManualSource, *Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	clock := testutil.NewManualSource(0)
	task := NewTask(
		deferred.New(nil, deferred.WithSource(clock), deferred.WithName(name)),
		Config{Enabled: true, Registry: reg},
	)
	return task, clock, ForRegisterer(reg)
}

func TestTask_ArmingMetrics(t *testing.T) {
	task, clock, r := newTestTask(t, "arm")

	testutil.AssertTrue(t, task.CallIn(10), "CallIn should succeed")
	testutil.AssertTrue(t, task.CallInWith(10, 1), "CallInWith should succeed")
	testutil.AssertTrue(t, task.CallAt(clock.Millis()), "CallAt should succeed")
	testutil.AssertTrue(t, task.CallAtWith(clock.Millis()+5, 2), "CallAtWith should succeed")
	testutil.AssertTrue(t, task.CallEveryWith(10, 3), "CallEveryWith should succeed")
	testutil.AssertEqual(t, task.CallEvery(-1), false)
	testutil.AssertEqual(t, task.CallAt(clock.Millis()-1), false)

	testutil.AssertEqual(t, promtest.ToFloat64(r.TasksArmed.WithLabelValues("arm", "in")), 2.0)
	testutil.AssertEqual(t, promtest.ToFloat64(r.TasksArmed.WithLabelValues("arm", "at")), 2.0)
	testutil.AssertEqual(t, promtest.ToFloat64(r.TasksArmed.WithLabelValues("arm", "every")), 1.0)
	testutil.AssertEqual(t, promtest.ToFloat64(r.TasksRejected.WithLabelValues("arm", "every")), 1.0)
	testutil.AssertEqual(t, promtest.ToFloat64(r.TasksRejected.WithLabelValues("arm", "at")), 1.0)
}

func TestTask_PollMetrics(t *testing.T) {
	task, clock, r := newTestTask(t, "poll")

	task.CallEvery(100)
	testutil.AssertEqual(t, task.Poll(), false)

	clock.Advance(100)
	testutil.AssertEqual(t, task.Poll(), true)

	clock.Advance(450)
	testutil.AssertEqual(t, task.Poll(), true)

	testutil.AssertEqual(t, promtest.ToFloat64(r.TasksFired.WithLabelValues("poll")), 2.0)
	testutil.AssertEqual(t, promtest.ToFloat64(r.TasksMissed.WithLabelValues("poll")), 3.0)

	testutil.AssertEqual(t, task.Remaining(), int32(50))
	testutil.AssertEqual(t, promtest.ToFloat64(r.TaskRemaining.WithLabelValues("poll")), 50.0)

	task.Cancel()
	testutil.AssertEqual(t, task.Active(), false)
	testutil.AssertEqual(t, task.Remaining(), int32(-1))
	testutil.AssertEqual(t, promtest.ToFloat64(r.TaskRemaining.WithLabelValues("poll")), -1.0)
}

func TestTask_Timebase(t *testing.T) {
	task, _, _ := newTestTask(t, "timebase")

	task.UseMicros()
	testutil.AssertEqual(t, task.Micros(), true)
	testutil.AssertEqual(t, task.Unwrap().Micros(), true)
	task.UseMillis()
	testutil.AssertEqual(t, task.Micros(), false)
}

func TestTask_EnableDisable(t *testing.T) {
	task, clock, r := newTestTask(t, "toggle")
	var _ Instrumentable = task

	testutil.AssertEqual(t, task.MetricsEnabled(), true)

	task.DisableMetrics()
	testutil.AssertEqual(t, task.MetricsEnabled(), false)
	task.CallIn(0)
	clock.Advance(1)
	task.Poll()
	testutil.AssertEqual(t, promtest.ToFloat64(r.TasksFired.WithLabelValues("toggle")), 0.0)

	other := prometheus.NewRegistry()
	testutil.AssertNoError(t, task.EnableMetrics(Config{Enabled: true, Registry: other}))
	testutil.AssertEqual(t, task.MetricsEnabled(), true)
	task.CallIn(0)
	task.Poll()

	testutil.AssertEqual(t, promtest.ToFloat64(ForRegisterer(other).TasksFired.WithLabelValues("toggle")), 1.0)
	testutil.AssertEqual(t, promtest.ToFloat64(r.TasksFired.WithLabelValues("toggle")), 0.0)
}

func TestForRegisterer_Shared(t *testing.T) {
	reg := prometheus.NewRegistry()

	a := ForRegisterer(reg)
	b := ForRegisterer(reg)
	if a != b {
		t.Fatal("ForRegisterer should return the same Registry for one registerer")
	}

	// Wrapping two tasks on one registerer must not panic on duplicate registration.
	clock := testutil.NewManualSource(0)
	NewTask(deferred.New(nil, deferred.WithSource(clock)), Config{Enabled: true, Registry: reg})
	NewTask(deferred.New(nil, deferred.WithSource(clock)), Config{Enabled: true, Registry: reg})
}

func TestNewRegistryFromConfig(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRegistryFromConfig(Config{
		Registry:  reg,
		Namespace: "firmware",
		Labels:    prometheus.Labels{"board": "uno"},
	})

	r.TasksFired.WithLabelValues("x").Inc()

	seen := gatheredLabels(t, reg, "firmware_task_fired_total")
	testutil.AssertEqual(t, seen["board"], "uno")
	testutil.AssertEqual(t, seen["task"], "x")

	if NewRegistryFromConfig(Config{Registry: reg, Namespace: "firmware", Labels: prometheus.Labels{"board": "uno"}}) != r {
		t.Error("a second call with the same config should return the same Registry")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	testutil.AssertEqual(t, cfg.Enabled, true)
	testutil.AssertEqual(t, cfg.Namespace, "ticktask")
	if cfg.Resolve() != DefaultRegistry {
		t.Error("default config should resolve to DefaultRegistry")
	}
	if (Config{}).Resolve() != DefaultRegistry {
		t.Error("nil registry should resolve to DefaultRegistry")
	}
}

func gatheredLabels(t *testing.T, reg *prometheus.Registry, name string) map[string]string {
	t.Helper()
	families, err := reg.Gather()
	testutil.AssertNoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		seen := map[string]string{}
		for _, l := range mf.GetMetric()[0].GetLabel() {
			seen[l.GetName()] = l.GetValue()
		}
		return seen
	}
	t.Fatalf("%s not gathered", name)
	return nil
}

func TestNewTask_HonorsNamespaceAndLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	clock := testutil.NewManualSource(0)
	task := NewTask(
		deferred.New(nil, deferred.WithSource(clock), deferred.WithName("ns")),
		Config{Enabled: true, Registry: reg, Namespace: "custom", Labels: prometheus.Labels{"env": "t"}},
	)

	testutil.AssertTrue(t, task.CallIn(0), "CallIn(0) should succeed")

	seen := gatheredLabels(t, reg, "custom_task_armed_total")
	testutil.AssertEqual(t, seen["env"], "t")
	testutil.AssertEqual(t, seen["task"], "ns")
	testutil.AssertEqual(t, seen["kind"], "in")
}

func TestResolve_SharedPerConfig(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := Config{Registry: reg, Namespace: "firmware", Labels: prometheus.Labels{"board": "uno", "rev": "3"}}
	b := Config{Registry: reg, Namespace: "firmware", Labels: prometheus.Labels{"rev": "3", "board": "uno"}}

	if a.Resolve() != b.Resolve() {
		t.Error("equal configs should resolve to one Registry")
	}
	if a.Resolve() == ForRegisterer(reg) {
		t.Error("a custom namespace should not share the default Registry")
	}
	if (Config{Registry: reg, Namespace: Namespace}).Resolve() != ForRegisterer(reg) {
		t.Error("the default namespace without labels should share ForRegisterer")
	}
}

func TestNewRegistryFromConfig_DefaultDoesNotPanic(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("NewRegistryFromConfig(DefaultConfig()) panicked: %v", r)
		}
	}()

	if NewRegistryFromConfig(DefaultConfig()) != DefaultRegistry {
		t.Error("default config should yield DefaultRegistry")
	}
}
