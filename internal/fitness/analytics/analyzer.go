package analytics

import (
	"time"

	"github.com/2beens/fitlog/internal/fitness"
)

const (
	DefaultFrequencyDays   = 30
	DefaultSummaryWeeks    = 4
	DefaultTrendDays       = 90
	DefaultConsistencyDays = 30
)

// Analyzer computes derived statistics over a single profile.
// It never mutates the profile, and all results depend only on
// the profile contents and the passed in "now" time.
type Analyzer struct {
	profile *fitness.Profile
}

func NewAnalyzer(profile *fitness.Profile) *Analyzer {
	if profile == nil {
		profile = fitness.NewProfile()
	}
	return &Analyzer{
		profile: profile,
	}
}

// CategoryCount is the number of workouts of a single exercise type.
type CategoryCount struct {
	ExerciseType string `json:"exercise_type"`
	Count        int    `json:"count"`
}

// WorkoutFrequency counts workouts per exercise type for the last windowDays days.
func (a *Analyzer) WorkoutFrequency(now time.Time, windowDays int) map[string]int {
	counts := a.orderedFrequency(now, windowDays)
	frequency := make(map[string]int, len(counts))
	for _, c := range counts {
		frequency[c.ExerciseType] = c.Count
	}
	return frequency
}

// orderedFrequency is like WorkoutFrequency, but keeps the exercise types
// in the order of their first occurrence in the profile
func (a *Analyzer) orderedFrequency(now time.Time, windowDays int) []CategoryCount {
	recent := a.profile.RecentWorkouts(now, windowDays)

	index := make(map[string]int)
	var counts []CategoryCount
	for _, w := range recent {
		i, ok := index[w.ExerciseType]
		if !ok {
			i = len(counts)
			index[w.ExerciseType] = i
			counts = append(counts, CategoryCount{ExerciseType: w.ExerciseType})
		}
		counts[i].Count++
	}
	return counts
}

// WeekSummary holds the totals for one 7 day bucket.
type WeekSummary struct {
	WeekStart     time.Time `json:"week_start"`
	WorkoutsCount int       `json:"workouts_count"`
	TotalDuration int       `json:"total_duration"`
	TotalCalories int       `json:"total_calories"`
	AvgDuration   float64   `json:"avg_duration"`
}

// WeeklySummary splits the last weeksBack weeks into 7 day buckets.
// Bucket i covers [now - (i+1) weeks, now - i weeks), so the first
// returned bucket is the most recent one.
func (a *Analyzer) WeeklySummary(now time.Time, weeksBack int) []WeekSummary {
	summaries := make([]WeekSummary, 0, max(weeksBack, 0))
	for week := 0; week < weeksBack; week++ {
		start := now.Add(-time.Duration(week+1) * fitness.Week)
		end := now.Add(-time.Duration(week) * fitness.Week)

		summary := WeekSummary{
			WeekStart: start,
		}
		for _, w := range a.profile.Workouts {
			if w.Date.Before(start) || !w.Date.Before(end) {
				continue
			}
			summary.WorkoutsCount++
			summary.TotalDuration += w.DurationMinutes
			summary.TotalCalories += w.Calories()
		}
		if summary.WorkoutsCount > 0 {
			summary.AvgDuration = float64(summary.TotalDuration) / float64(summary.WorkoutsCount)
		}

		summaries = append(summaries, summary)
	}
	return summaries
}

// Period is one of the overview periods: week, month or year.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

func (p Period) IsValid() bool {
	switch p {
	case PeriodWeek, PeriodMonth, PeriodYear:
		return true
	default:
		return false
	}
}

// Days returns the window length for the period, 0 for an unknown period.
func (p Period) Days() int {
	switch p {
	case PeriodWeek:
		return 7
	case PeriodMonth:
		return 30
	case PeriodYear:
		return 365
	default:
		return 0
	}
}

type Overview struct {
	Period           Period          `json:"period"`
	Days             int             `json:"days"`
	TotalWorkouts    int             `json:"total_workouts"`
	TotalDuration    int             `json:"total_duration"`
	TotalCalories    int             `json:"total_calories"`
	Frequency        []CategoryCount `json:"frequency"`
	ConsistencyScore float64         `json:"consistency_score"`
	WeightTrend      WeightTrend     `json:"weight_trend"`
}

// Overview gathers the totals and scores for a whole period.
func (a *Analyzer) Overview(now time.Time, period Period) Overview {
	days := period.Days()
	overview := Overview{
		Period:           period,
		Days:             days,
		Frequency:        a.orderedFrequency(now, days),
		ConsistencyScore: a.WorkoutConsistencyScore(now, days),
		WeightTrend:      a.WeightTrend(now, days),
	}

	for _, w := range a.profile.RecentWorkouts(now, days) {
		overview.TotalWorkouts++
		overview.TotalDuration += w.DurationMinutes
		overview.TotalCalories += w.Calories()
	}

	return overview
}
