package fitness

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidEntry = errors.New("invalid entry")

// WorkoutEntry is a single logged workout session.
type WorkoutEntry struct {
	ID              string    `json:"id,omitempty"`
	Date            time.Time `json:"date"`
	ExerciseType    string    `json:"exercise_type"`
	DurationMinutes int       `json:"duration_minutes"`
	// CaloriesBurned is nil when the calories were not recorded
	CaloriesBurned *int   `json:"calories_burned"`
	Notes          string `json:"notes"`
}

func NewWorkoutEntry(date time.Time, exerciseType string, durationMinutes int, calories *int, notes string) WorkoutEntry {
	return WorkoutEntry{
		ID:              uuid.NewString(),
		Date:            date,
		ExerciseType:    exerciseType,
		DurationMinutes: durationMinutes,
		CaloriesBurned:  calories,
		Notes:           notes,
	}
}

// Calories returns the burned calories, or 0 when not recorded.
func (w WorkoutEntry) Calories() int {
	if w.CaloriesBurned == nil {
		return 0
	}
	return *w.CaloriesBurned
}

func (w WorkoutEntry) Validate() error {
	if strings.TrimSpace(w.ExerciseType) == "" {
		return fmt.Errorf("%w: exercise type is empty", ErrInvalidEntry)
	}
	if w.DurationMinutes < 0 {
		return fmt.Errorf("%w: duration must not be negative, got %d", ErrInvalidEntry, w.DurationMinutes)
	}
	if w.CaloriesBurned != nil && *w.CaloriesBurned < 0 {
		return fmt.Errorf("%w: calories must not be negative, got %d", ErrInvalidEntry, *w.CaloriesBurned)
	}
	if w.Date.IsZero() {
		return fmt.Errorf("%w: date is not set", ErrInvalidEntry)
	}
	return nil
}

func (w *WorkoutEntry) UnmarshalJSON(data []byte) error {
	type workoutAlias WorkoutEntry
	aux := &struct {
		Date string `json:"date"`
		*workoutAlias
	}{
		workoutAlias: (*workoutAlias)(w),
	}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	date, err := ParseDate(aux.Date)
	if err != nil {
		return fmt.Errorf("workout date: %w", err)
	}
	w.Date = date
	return nil
}
