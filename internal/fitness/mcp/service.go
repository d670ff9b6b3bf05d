package mcp

import (
	"context"
	"strings"
	"time"

	"github.com/2beens/fitlog/internal/fitness"
	"github.com/2beens/fitlog/internal/fitness/analytics"
)

// reportService provides analytics reports and entry logging (for dependency injection and testing).
type reportService interface {
	Now() time.Time
	Frequency(ctx context.Context, days int) (map[string]int, error)
	WeeklySummary(ctx context.Context, weeks int) ([]analytics.WeekSummary, error)
	WeightTrend(ctx context.Context, days int) (analytics.WeightTrend, error)
	Consistency(ctx context.Context, days int) (float64, error)
	Insights(ctx context.Context) ([]string, error)
	ListWorkouts(ctx context.Context, from, to time.Time, exerciseType string) ([]fitness.WorkoutEntry, error)
	LogWorkout(ctx context.Context, entry fitness.WorkoutEntry) error
	LogWeight(ctx context.Context, entry fitness.WeightEntry) error
}

// contextService provides fitness context data (reports, workouts) and logs new entries.
// Used by Handler for testability.
type contextService interface {
	GetWorkoutFrequency(ctx context.Context, days int) (map[string]int, error)
	GetWeeklySummary(ctx context.Context, weeks int) ([]analytics.WeekSummary, error)
	GetWeightTrend(ctx context.Context, days int) (analytics.WeightTrend, error)
	GetConsistencyScore(ctx context.Context, days int) (*ConsistencyScore, error)
	GetInsights(ctx context.Context) ([]string, error)
	ListWorkouts(ctx context.Context, from, to time.Time, exerciseType string) ([]fitness.WorkoutEntry, error)
	LogWorkout(ctx context.Context, params LogWorkoutParams) (*fitness.WorkoutEntry, error)
	LogWeight(ctx context.Context, weight float64, unit string) (*fitness.WeightEntry, error)
}

// ConsistencyScore is the consistency score with a rating, using the same
// thresholds as the insights.
type ConsistencyScore struct {
	Score      float64 `json:"score"`
	WindowDays int     `json:"window_days"`
	Rating     string  `json:"rating"`
}

type LogWorkoutParams struct {
	ExerciseType    string
	DurationMinutes int
	CaloriesBurned  *int
	Notes           string
	// Date defaults to now when zero
	Date time.Time
}

// ContextService holds dependencies and implements the fitness context business logic.
type ContextService struct {
	reports     reportService
	defaultUnit fitness.WeightUnit
}

// NewContextService builds a ContextService. Weights logged without a unit get defaultUnit.
func NewContextService(reports reportService, defaultUnit fitness.WeightUnit) *ContextService {
	if !defaultUnit.IsValid() {
		defaultUnit = fitness.WeightUnitKilograms
	}
	return &ContextService{
		reports:     reports,
		defaultUnit: defaultUnit,
	}
}

// GetWorkoutFrequency returns the workout count per exercise type for the last days.
func (s *ContextService) GetWorkoutFrequency(ctx context.Context, days int) (map[string]int, error) {
	return s.reports.Frequency(ctx, days)
}

// GetWeeklySummary returns per-week totals, most recent week first.
func (s *ContextService) GetWeeklySummary(ctx context.Context, weeks int) ([]analytics.WeekSummary, error) {
	return s.reports.WeeklySummary(ctx, weeks)
}

func (s *ContextService) GetWeightTrend(ctx context.Context, days int) (analytics.WeightTrend, error) {
	return s.reports.WeightTrend(ctx, days)
}

func (s *ContextService) GetConsistencyScore(ctx context.Context, days int) (*ConsistencyScore, error) {
	if days <= 0 {
		days = analytics.DefaultConsistencyDays
	}
	score, err := s.reports.Consistency(ctx, days)
	if err != nil {
		return nil, err
	}
	return &ConsistencyScore{
		Score:      score,
		WindowDays: days,
		Rating:     consistencyRating(score),
	}, nil
}

func consistencyRating(score float64) string {
	switch {
	case score >= analytics.ConsistencyExcellent:
		return "excellent"
	case score >= analytics.ConsistencyGood:
		return "good"
	default:
		return "needs_improvement"
	}
}

func (s *ContextService) GetInsights(ctx context.Context) ([]string, error) {
	return s.reports.Insights(ctx)
}

// ListWorkouts returns workouts logged within the given time range, optionally of a single type.
func (s *ContextService) ListWorkouts(ctx context.Context, from, to time.Time, exerciseType string) ([]fitness.WorkoutEntry, error) {
	return s.reports.ListWorkouts(ctx, from, to, exerciseType)
}

// LogWorkout normalizes the exercise type and stores a new workout.
func (s *ContextService) LogWorkout(ctx context.Context, params LogWorkoutParams) (*fitness.WorkoutEntry, error) {
	date := params.Date
	if date.IsZero() {
		date = s.reports.Now()
	}
	entry := fitness.NewWorkoutEntry(
		date,
		fitness.ParseWorkoutType(params.ExerciseType),
		params.DurationMinutes,
		params.CaloriesBurned,
		strings.TrimSpace(params.Notes),
	)
	if err := s.reports.LogWorkout(ctx, entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// LogWeight stores a new weight measurement taken now.
func (s *ContextService) LogWeight(ctx context.Context, weight float64, unit string) (*fitness.WeightEntry, error) {
	weightUnit := s.defaultUnit
	if strings.TrimSpace(unit) != "" {
		parsed, err := fitness.ParseWeightUnit(unit)
		if err != nil {
			return nil, err
		}
		weightUnit = parsed
	}

	entry := fitness.NewWeightEntry(s.reports.Now(), weight, weightUnit)
	if err := s.reports.LogWeight(ctx, entry); err != nil {
		return nil, err
	}
	return &entry, nil
}
