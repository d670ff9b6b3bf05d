package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterWorkoutsLogged *prometheus.CounterVec
	CounterWeightsLogged  prometheus.Counter
	CounterBackups        *prometheus.CounterVec
	CounterBackupsPruned  prometheus.Counter
	CounterToolCalls      *prometheus.CounterVec

	// gauges
	GaugeProfileWorkouts prometheus.Gauge
	GaugeProfileWeights  prometheus.Gauge

	// histograms
	HistProfileSaveDuration prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("fitlog", "test", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("fitlog", "test", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterWorkoutsLogged := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "workouts_logged",
		Help:      "The total number of logged workouts",
	}, []string{"exercise_type"})
	counterWeightsLogged := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "weights_logged",
		Help:      "The total number of logged weight measurements",
	})
	counterBackups := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "backups",
		Help:      "The total number of profile backups, by result",
	}, []string{"result"})
	counterBackupsPruned := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "backups_pruned",
		Help:      "The total number of removed old backups",
	})
	counterToolCalls := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "mcp_tool_calls",
		Help:      "The total number of mcp tool calls",
	}, []string{"tool", "status"})

	gaugeProfileWorkouts := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "profile_workouts",
		Help:      "Number of workouts in the saved profile",
	})
	gaugeProfileWeights := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "profile_weights",
		Help:      "Number of weight entries in the saved profile",
	})

	histProfileSaveDuration := factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			Name:      "profile_save_duration_seconds",
			Help:      "Duration of a single profile save in seconds",
		},
	)

	return &Manager{
		CounterWorkoutsLogged:   counterWorkoutsLogged,
		CounterWeightsLogged:    counterWeightsLogged,
		CounterBackups:          counterBackups,
		CounterBackupsPruned:    counterBackupsPruned,
		CounterToolCalls:        counterToolCalls,
		GaugeProfileWorkouts:    gaugeProfileWorkouts,
		GaugeProfileWeights:     gaugeProfileWeights,
		HistProfileSaveDuration: histProfileSaveDuration,
	}
}
