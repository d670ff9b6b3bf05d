package fitness_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/2beens/fitlog/internal/fitness"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int {
	return &i
}

func TestWorkoutEntry_Create(t *testing.T) {
	w := fitness.NewWorkoutEntry(time.Now(), "Running", 30, intPtr(300), "")
	assert.Equal(t, "Running", w.ExerciseType)
	assert.Equal(t, 30, w.DurationMinutes)
	assert.Equal(t, 300, w.Calories())
	assert.NotEmpty(t, w.ID)
	assert.NoError(t, w.Validate())
}

func TestWorkoutEntry_JSON(t *testing.T) {
	date := time.Date(2023, 4, 15, 10, 30, 0, 0, time.UTC)
	w := fitness.NewWorkoutEntry(date, "Cycling", 45, nil, "easy ride")

	raw, err := json.Marshal(w)
	require.NoError(t, err)

	var restored fitness.WorkoutEntry
	require.NoError(t, json.Unmarshal(raw, &restored))
	assert.Equal(t, w.ExerciseType, restored.ExerciseType)
	assert.Equal(t, w.DurationMinutes, restored.DurationMinutes)
	assert.True(t, w.Date.Equal(restored.Date))
	assert.Nil(t, restored.CaloriesBurned)
	assert.Equal(t, 0, restored.Calories())
	assert.Equal(t, "easy ride", restored.Notes)
}

func TestWorkoutEntry_DecodeNaiveTimestamp(t *testing.T) {
	raw := `{"date": "2023-04-15T10:30:00", "exercise_type": "Yoga", "duration_minutes": 20, "calories_burned": 80, "notes": ""}`

	var w fitness.WorkoutEntry
	require.NoError(t, json.Unmarshal([]byte(raw), &w))
	assert.True(t, time.Date(2023, 4, 15, 10, 30, 0, 0, time.Local).Equal(w.Date))
	assert.Equal(t, 80, w.Calories())
	assert.Empty(t, w.ID)
}

func TestWorkoutEntry_Validate(t *testing.T) {
	now := time.Now()
	for name, w := range map[string]fitness.WorkoutEntry{
		"empty_type":        {Date: now, ExerciseType: "  ", DurationMinutes: 10},
		"negative_duration": {Date: now, ExerciseType: "Yoga", DurationMinutes: -1},
		"negative_calories": {Date: now, ExerciseType: "Yoga", CaloriesBurned: intPtr(-5)},
		"no_date":           {ExerciseType: "Yoga", DurationMinutes: 10},
	} {
		t.Run(name, func(t *testing.T) {
			err := w.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, fitness.ErrInvalidEntry))
		})
	}
}

func TestWeightEntry(t *testing.T) {
	w := fitness.NewWeightEntry(time.Now(), 70.5, fitness.WeightUnitKilograms)
	assert.Equal(t, 70.5, w.Weight)
	assert.Equal(t, fitness.WeightUnitKilograms, w.Unit)
	assert.NoError(t, w.Validate())

	for _, weight := range []float64{0, -70, math.NaN(), math.Inf(1), math.Inf(-1)} {
		w.Weight = weight
		assert.ErrorIs(t, w.Validate(), fitness.ErrInvalidEntry, "weight %v", weight)
	}

	w.Weight = 150
	w.Unit = "stone"
	assert.ErrorIs(t, w.Validate(), fitness.ErrInvalidEntry)
}

func TestWeightEntry_DecodeDefaultsUnit(t *testing.T) {
	var w fitness.WeightEntry
	require.NoError(t, json.Unmarshal([]byte(`{"date": "2024-01-02T08:00:00+01:00", "weight": 81.2}`), &w))
	assert.Equal(t, fitness.WeightUnitKilograms, w.Unit)
	assert.Equal(t, 81.2, w.Weight)
}

func TestParseWeightUnit(t *testing.T) {
	u, err := fitness.ParseWeightUnit("LBS")
	require.NoError(t, err)
	assert.Equal(t, fitness.WeightUnitPounds, u)

	u, err = fitness.ParseWeightUnit("")
	require.NoError(t, err)
	assert.Equal(t, fitness.WeightUnitKilograms, u)

	_, err = fitness.ParseWeightUnit("stone")
	assert.ErrorIs(t, err, fitness.ErrInvalidEntry)
}

func TestProfile_AddAndRecent(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	profile := fitness.NewProfile()

	profile.AddWorkout(fitness.NewWorkoutEntry(now.Add(-2*fitness.Day), "Swimming", 60, nil, ""))
	profile.AddWorkout(fitness.NewWorkoutEntry(now.Add(-10*fitness.Day), "Running", 30, nil, ""))
	profile.AddWeight(fitness.NewWeightEntry(now.Add(-1*fitness.Day), 80, fitness.WeightUnitKilograms))
	profile.AddWeight(fitness.NewWeightEntry(now.Add(-40*fitness.Day), 82, fitness.WeightUnitKilograms))

	require.Len(t, profile.Workouts, 2)
	require.Len(t, profile.WeightHistory, 2)

	recent := profile.RecentWorkouts(now, 7)
	require.Len(t, recent, 1)
	assert.Equal(t, "Swimming", recent[0].ExerciseType)

	// the cutoff itself is inclusive
	assert.Len(t, profile.RecentWorkouts(now, 10), 2)
	assert.Len(t, profile.RecentWeights(now, 30), 1)
}

func TestProfile_JSONShape(t *testing.T) {
	raw, err := json.Marshal(fitness.NewProfile())
	require.NoError(t, err)
	assert.JSONEq(t, `{"workouts": [], "weight_history": []}`, string(raw))
}

func TestParseWorkoutType(t *testing.T) {
	assert.Equal(t, "Running", fitness.ParseWorkoutType("run"))
	assert.Equal(t, "Running", fitness.ParseWorkoutType("RUNNING"))
	assert.Equal(t, "Strength Training", fitness.ParseWorkoutType("gym"))
	assert.Equal(t, "Walking", fitness.ParseWorkoutType(" walk "))
	assert.Equal(t, "Rock Climbing", fitness.ParseWorkoutType("rock CLIMBING"))
	assert.Equal(t, "", fitness.ParseWorkoutType(""))
	assert.Equal(t, "Cross-Fit", fitness.ParseWorkoutType("cross-fit"))
	assert.Equal(t, "5K Run", fitness.ParseWorkoutType("5k run"))
	assert.Equal(t, "Farmer'S Walk", fitness.ParseWorkoutType("farmer's   walk"))
	assert.Equal(t, "Ćwiczenia", fitness.ParseWorkoutType("ĆWICZENIA"))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0m", fitness.FormatDuration(0))
	assert.Equal(t, "45m", fitness.FormatDuration(45))
	assert.Equal(t, "1h", fitness.FormatDuration(60))
	assert.Equal(t, "1h 30m", fitness.FormatDuration(90))
	assert.Equal(t, "2h 5m", fitness.FormatDuration(125))
}

func TestParseDate(t *testing.T) {
	d, err := fitness.ParseDate("2024-05-01")
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local).Equal(d))

	d, err = fitness.ParseDate("2024-05-01T10:00:00Z")
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC).Equal(d))

	_, err = fitness.ParseDate("01/05/2024")
	assert.Error(t, err)
}
