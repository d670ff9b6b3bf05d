package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/2beens/fitlog/internal/fitness"
	"github.com/2beens/fitlog/internal/fitness/store"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	goleak.VerifyTestMain(m)
}

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.Local)

type testEnv struct {
	dir        string
	dataDir    string
	configPath string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	env := &testEnv{
		dir:        dir,
		dataDir:    filepath.Join(dir, "data"),
		configPath: filepath.Join(dir, "config.toml"),
	}

	cfg := fmt.Sprintf(`[development]
data_directory = %q
backup_frequency = "daily"
max_backups = 2
log_level = "error"
logs_path = ""
metrics_textfile = %q
`, env.dataDir, filepath.Join(dir, "fitlog.prom"))
	require.NoError(t, os.WriteFile(env.configPath, []byte(cfg), 0o600))

	return env
}

func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCommand(&rootOptions{
		out: &out,
		now: func() time.Time { return testNow },
	})
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append(args, "--config", e.configPath))

	err := cmd.Execute()
	return out.String(), err
}

func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	require.NoError(t, err, "fitlog %s", strings.Join(args, " "))
	return out
}

func TestVersionCommand(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, "fitlog 0.1.0 (commit: unknown)\n", env.mustRun(t, "version"))
}

func TestWorkoutCommand(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "workout", "--type", "run", "--duration", "30", "--calories", "300")
	assert.Equal(t, "Logged Running workout: 30m, 300 kcal\n", out)

	out = env.mustRun(t, "workout", "--type", "rowing", "--duration", "90", "--date", "2024-06-14")
	assert.Contains(t, out, "Logged Rowing workout: 1h 30m\n")
	assert.Contains(t, out, "note: Rowing is not one of the configured workout types")

	raw, err := os.ReadFile(filepath.Join(env.dataDir, "fitness_profile.json"))
	require.NoError(t, err)

	var doc struct {
		Workouts []struct {
			ExerciseType    string `json:"exercise_type"`
			DurationMinutes int    `json:"duration_minutes"`
			CaloriesBurned  *int   `json:"calories_burned"`
		} `json:"workouts"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Len(t, doc.Workouts, 2)
	assert.Equal(t, "Running", doc.Workouts[0].ExerciseType)
	require.NotNil(t, doc.Workouts[0].CaloriesBurned)
	assert.Equal(t, 300, *doc.Workouts[0].CaloriesBurned)
	assert.Equal(t, 90, doc.Workouts[1].DurationMinutes)
	assert.Nil(t, doc.Workouts[1].CaloriesBurned)

	// the first write takes the daily backup, the second one is not due yet
	matches, err := filepath.Glob(filepath.Join(env.dataDir, "backup_*.json"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	prom, err := os.ReadFile(filepath.Join(env.dir, "fitlog.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(prom), `fitlog_cli_workouts_logged{exercise_type="Rowing"} 1`)
}

func TestWorkoutCommand_Invalid(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "workout", "--duration", "30")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"type" not set`)

	_, err = env.run(t, "workout", "--type", "run", "--duration", "-5")
	assert.Error(t, err)

	_, err = env.run(t, "workout", "--type", "run", "--date", "yesterday")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid date [yesterday]")

	_, err = os.Stat(filepath.Join(env.dataDir, "fitness_profile.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWeightCommand(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, "Logged weight: 80.5 kg\n", env.mustRun(t, "weight", "80.5"))
	assert.Equal(t, "Logged weight: 172.0 lbs\n", env.mustRun(t, "weight", "172", "--unit", "LBS"))

	_, err := env.run(t, "weight", "heavy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid weight value [heavy]")

	_, err = env.run(t, "weight", "80", "--unit", "stone")
	assert.Error(t, err)

	_, err = env.run(t, "weight", "-3")
	assert.Error(t, err)

	for _, value := range []string{"NaN", "+Inf", "0"} {
		_, err = env.run(t, "weight", value)
		assert.ErrorIs(t, err, fitness.ErrInvalidEntry, "weight %s", value)
	}

	_, err = env.run(t, "weight")
	assert.Error(t, err)
}

func seedProfile(t *testing.T, env *testEnv) {
	t.Helper()
	env.mustRun(t, "workout", "--type", "run", "--duration", "30", "--calories", "300")
	env.mustRun(t, "workout", "--type", "yoga", "--duration", "45", "--date", "2024-06-14")
	env.mustRun(t, "weight", "80.5", "--date", "2024-06-01")
	env.mustRun(t, "weight", "79.5")
}

func TestStatsCommand(t *testing.T) {
	env := newTestEnv(t)
	seedProfile(t, env)

	out := env.mustRun(t, "stats")
	assert.Contains(t, out, "Fitness overview, last week (7 days)")
	assert.Contains(t, out, "Running")
	assert.Contains(t, out, "Yoga")
	assert.Contains(t, out, "1h 15m")

	out = env.mustRun(t, "stats", "--period", "year", "--weeks", "2")
	assert.Contains(t, out, "Fitness overview, last year (365 days)")

	_, err := env.run(t, "stats", "--period", "decade")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid period [decade]")
}

func TestTrendCommand(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, "not enough weight entries\n", env.mustRun(t, "trend"))

	seedProfile(t, env)
	assert.Equal(t, "decreasing, -1.0 kg over 14 days (2 entries)\n", env.mustRun(t, "trend", "--days", "30"))
}

func TestInsightsCommand(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "insights")
	assert.Equal(t, "Insights\n"+
		"  - No workouts logged in the past week\n"+
		"  - Try to workout more regularly for better results\n", out)

	seedProfile(t, env)
	out = env.mustRun(t, "insights")
	assert.Equal(t, "Insights\n"+
		"  - Weight trending down by 1.0 kg over 14 days\n"+
		"  - Try to workout more regularly for better results\n"+
		"  - Most frequent exercise: Running (1 times)\n", out)
}

func TestHistoryCommand(t *testing.T) {
	env := newTestEnv(t)
	seedProfile(t, env)

	out := env.mustRun(t, "history")
	assert.Contains(t, out, "Running")
	assert.Contains(t, out, "Yoga")
	assert.Contains(t, out, "Total: 2")

	out = env.mustRun(t, "history", "--type", "yoga")
	assert.NotContains(t, out, "Running")
	assert.Contains(t, out, "Total: 1")

	out = env.mustRun(t, "history", "--from", "2024-06-01", "--to", "2024-06-14")
	assert.Contains(t, out, "Yoga")
	assert.NotContains(t, out, "Running")

	_, err := env.run(t, "history", "--from", "last week")
	assert.Error(t, err)
}

func TestExportCommand(t *testing.T) {
	env := newTestEnv(t)
	seedProfile(t, env)

	out := env.mustRun(t, "export", "--out", "-")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "date,exercise_type,duration_minutes,calories_burned,notes", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "2024-06-15,Running,30,300,"))
	assert.True(t, strings.HasPrefix(lines[2], "2024-06-14,Yoga,45,,"))

	weightsPath := filepath.Join(env.dir, "weights.json")
	out = env.mustRun(t, "export", "--kind", "weights", "--format", "json", "--out", weightsPath)
	assert.Equal(t, "Exported weights to "+weightsPath+"\n", out)

	raw, err := os.ReadFile(weightsPath)
	require.NoError(t, err)
	var weights []map[string]any
	require.NoError(t, json.Unmarshal(raw, &weights))
	assert.Len(t, weights, 2)

	_, err = env.run(t, "export", "--format", "xml")
	assert.Error(t, err)
	_, err = env.run(t, "export", "--kind", "meals")
	assert.Error(t, err)
}

func TestBackupCommands(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "backup")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to backup")

	assert.Equal(t, "No backups yet\n", env.mustRun(t, "backup", "list"))

	seedProfile(t, env)

	out := env.mustRun(t, "backup", "--name", "pre-marathon")
	assert.Contains(t, out, "Backup created: "+filepath.Join(env.dataDir, "backup_pre-marathon.json"))

	out = env.mustRun(t, "backup", "list")
	assert.Contains(t, out, "backup_20240615_120000")
	assert.Contains(t, out, "backup_pre-marathon")

	archivePath := filepath.Join(env.dir, "all.tar.gz")
	out = env.mustRun(t, "backup", "archive", "--out", archivePath)
	assert.True(t, strings.HasPrefix(out, "Archived 3 files to "+archivePath), out)

	fi, err := os.Stat(archivePath)
	require.NoError(t, err)
	assert.Positive(t, fi.Size())
}

func TestBackupArchive_NothingToArchive(t *testing.T) {
	env := newTestEnv(t)

	archivePath := filepath.Join(env.dir, "empty.tar.gz")
	_, err := env.run(t, "backup", "archive", "--out", archivePath)
	require.ErrorIs(t, err, store.ErrNothingToBackup)

	_, err = os.Stat(archivePath)
	assert.ErrorIs(t, err, os.ErrNotExist)

	// an existing file is left as it was
	require.NoError(t, os.WriteFile(archivePath, []byte("previous archive"), 0o600))
	_, err = env.run(t, "backup", "archive", "--out", archivePath)
	require.ErrorIs(t, err, store.ErrNothingToBackup)

	content, err := os.ReadFile(archivePath)
	require.NoError(t, err)
	assert.Equal(t, "previous archive", string(content))

	leftovers, err := filepath.Glob(filepath.Join(env.dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestTraceFile(t *testing.T) {
	env := newTestEnv(t)

	traceFile := filepath.Join(env.dir, "traces.json")
	f, err := os.OpenFile(env.configPath, os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	_, err = fmt.Fprintf(f, "trace_file = %q\n", traceFile)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	env.mustRun(t, "weight", "80.5")

	raw, err := os.ReadFile(traceFile)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"Name":"report.logWeight"`)
	assert.Contains(t, string(raw), `"Name":"store.save"`)
	assert.Contains(t, string(raw), "fitlog-cli")
}

func TestUnknownEnv(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "insights", "--env", "staging")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown env: staging")
}
