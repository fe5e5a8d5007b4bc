// Package metrics provides Prometheus instrumentation for ticktask components.
package metrics

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace is the default namespace of every ticktask metric.
const Namespace = "ticktask"

// Registry holds all metric instances for ticktask components.
type Registry struct {
	// Deferred task metrics
	TasksArmed    *prometheus.CounterVec
	TasksRejected *prometheus.CounterVec
	TasksFired    *prometheus.CounterVec
	TasksMissed   *prometheus.CounterVec
	TaskRemaining *prometheus.GaugeVec

	// Host loop metrics
	LoopPolls *prometheus.CounterVec
	LoopFired *prometheus.CounterVec
	LoopIdle  *prometheus.HistogramVec
	LoopTasks *prometheus.GaugeVec
}

// DefaultRegistry is the default metrics registry used by ticktask components.
var DefaultRegistry *Registry

// registryKey identifies a Registry by where it registers and how its series
// are named. labels is the canonical "k=v,..." form of the const labels.
type registryKey struct {
	reg       prometheus.Registerer
	namespace string
	labels    string
}

var (
	registriesMu sync.Mutex
	registries   = make(map[registryKey]*Registry)
)

func init() {
	DefaultRegistry = registryFor(prometheus.DefaultRegisterer, Namespace, nil)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
// Registering twice with the same registerer panics; use ForRegisterer to share.
func NewRegistry(reg prometheus.Registerer) *Registry {
	return newRegistry(reg, Namespace, nil)
}

// ForRegisterer returns the Registry bound to reg with the default namespace
// and no const labels, creating it on first use.
func ForRegisterer(reg prometheus.Registerer) *Registry {
	return registryFor(reg, Namespace, nil)
}

// NewRegistryFromConfig returns the registry for the Registry, Namespace and
// Labels of cfg, creating it on first use. A nil cfg.Registry selects
// prometheus.DefaultRegisterer and an empty Namespace selects "ticktask".
//
// Two configs on one registerer that differ only in label values share metric
// names; they must use the same label names.
func NewRegistryFromConfig(cfg Config) *Registry {
	reg := cfg.Registry
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = Namespace
	}
	return registryFor(reg, namespace, cfg.Labels)
}

func registryFor(reg prometheus.Registerer, namespace string, labels prometheus.Labels) *Registry {
	key := registryKey{reg: reg, namespace: namespace, labels: canonicalLabels(labels)}

	registriesMu.Lock()
	defer registriesMu.Unlock()

	if r, ok := registries[key]; ok {
		return r
	}
	r := newRegistry(reg, namespace, labels)
	registries[key] = r
	return r
}

func canonicalLabels(labels prometheus.Labels) string {
	if len(labels) == 0 {
		return ""
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(strconv.Quote(labels[k]))
	}
	return b.String()
}

func newRegistry(reg prometheus.Registerer, namespace string, labels prometheus.Labels) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		TasksArmed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   namespace,
				Subsystem:   "task",
				Name:        "armed_total",
				Help:        "Total number of accepted arming calls",
				ConstLabels: labels,
			},
			[]string{"task", "kind"},
		),

		TasksRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   namespace,
				Subsystem:   "task",
				Name:        "rejected_total",
				Help:        "Total number of rejected arming calls",
				ConstLabels: labels,
			},
			[]string{"task", "kind"},
		),

		TasksFired: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   namespace,
				Subsystem:   "task",
				Name:        "fired_total",
				Help:        "Total number of times a task came due",
				ConstLabels: labels,
			},
			[]string{"task"},
		),

		TasksMissed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   namespace,
				Subsystem:   "task",
				Name:        "missed_total",
				Help:        "Total number of periodic firings skipped by catch-up",
				ConstLabels: labels,
			},
			[]string{"task"},
		),

		TaskRemaining: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   namespace,
				Subsystem:   "task",
				Name:        "remaining_ticks",
				Help:        "Ticks left until the task is due, -1 when inactive",
				ConstLabels: labels,
			},
			[]string{"task"},
		),

		LoopPolls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   namespace,
				Subsystem:   "loop",
				Name:        "polls_total",
				Help:        "Total number of passes over all tasks",
				ConstLabels: labels,
			},
			[]string{"loop"},
		),

		LoopFired: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   namespace,
				Subsystem:   "loop",
				Name:        "fired_total",
				Help:        "Total number of callbacks run by the loop",
				ConstLabels: labels,
			},
			[]string{"loop"},
		),

		LoopIdle: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   namespace,
				Subsystem:   "loop",
				Name:        "idle_seconds",
				Help:        "Time spent idle between passes",
				Buckets:     []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
				ConstLabels: labels,
			},
			[]string{"loop"},
		),

		LoopTasks: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   namespace,
				Subsystem:   "loop",
				Name:        "tasks",
				Help:        "Number of tasks polled by the loop",
				ConstLabels: labels,
			},
			[]string{"loop"},
		),
	}
}
