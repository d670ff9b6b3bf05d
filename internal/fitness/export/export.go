package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/2beens/fitlog/internal/fitness"
)

// Format can be one of:
//   - csv
//   - json
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Kind selects which part of the profile is exported.
type Kind string

const (
	KindWorkouts Kind = "workouts"
	KindWeights  Kind = "weights"
)

var (
	workoutsHeader = []string{"date", "exercise_type", "duration_minutes", "calories_burned", "notes"}
	weightsHeader  = []string{"date", "weight", "unit"}
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON:
		return f, nil
	case "":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", s)
	}
}

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindWorkouts, KindWeights:
		return k, nil
	case "":
		return KindWorkouts, nil
	default:
		return "", fmt.Errorf("unsupported export kind: %s", s)
	}
}

// DefaultFileName returns e.g. workouts_export.csv
func DefaultFileName(kind Kind, format Format) string {
	return fmt.Sprintf("%s_export.%s", kind, format)
}

// Write exports the given kind of entries from the profile in the given format.
func Write(w io.Writer, profile *fitness.Profile, kind Kind, format Format, dateLayout string) error {
	switch format {
	case FormatCSV:
		if kind == KindWeights {
			return WriteWeightsCSV(w, profile.WeightHistory, dateLayout)
		}
		return WriteWorkoutsCSV(w, profile.Workouts, dateLayout)
	case FormatJSON:
		if kind == KindWeights {
			return WriteJSON(w, profile.WeightHistory)
		}
		return WriteJSON(w, profile.Workouts)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

// WriteWorkoutsCSV writes one row per workout. Missing calories are left empty.
func WriteWorkoutsCSV(w io.Writer, workouts []fitness.WorkoutEntry, dateLayout string) error {
	csvWriter := csv.NewWriter(w)
	if err := csvWriter.Write(workoutsHeader); err != nil {
		return err
	}

	for _, workout := range workouts {
		calories := ""
		if workout.CaloriesBurned != nil {
			calories = strconv.Itoa(*workout.CaloriesBurned)
		}
		record := []string{
			workout.Date.Format(dateLayout),
			workout.ExerciseType,
			strconv.Itoa(workout.DurationMinutes),
			calories,
			workout.Notes,
		}
		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("write workout %s: %w", workout.ID, err)
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

func WriteWeightsCSV(w io.Writer, weights []fitness.WeightEntry, dateLayout string) error {
	csvWriter := csv.NewWriter(w)
	if err := csvWriter.Write(weightsHeader); err != nil {
		return err
	}

	for _, weight := range weights {
		record := []string{
			weight.Date.Format(dateLayout),
			strconv.FormatFloat(weight.Weight, 'f', -1, 64),
			weight.Unit.String(),
		}
		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("write weight %s: %w", weight.ID, err)
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
