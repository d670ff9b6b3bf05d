package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager(t *testing.T) {
	m, reg := NewTestManagerAndRegistry()

	m.CounterWorkoutsLogged.WithLabelValues("Running").Inc()
	m.CounterWorkoutsLogged.WithLabelValues("Running").Inc()
	m.CounterWorkoutsLogged.WithLabelValues("Yoga").Inc()
	m.CounterWeightsLogged.Inc()
	m.GaugeProfileWorkouts.Set(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CounterWorkoutsLogged.WithLabelValues("Running")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterWeightsLogged))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.GaugeProfileWorkouts))

	count, err := testutil.GatherAndCount(reg, "fitlog_test_workouts_logged")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestWriteTextfile(t *testing.T) {
	m, reg := NewTestManagerAndRegistry()
	m.CounterBackups.WithLabelValues("ok").Inc()

	require.NoError(t, WriteTextfile("", reg))

	path := filepath.Join(t.TempDir(), "fitlog.prom")
	require.NoError(t, WriteTextfile(path, reg))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(content), `fitlog_test_backups{result="ok"} 1`))
}
