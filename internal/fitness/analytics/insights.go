package analytics

import (
	"fmt"
	"math"
	"time"

	"github.com/2beens/fitlog/internal/fitness"
)

const (
	insightsRecentDays = 7
	insightsWindowDays = 30

	greatActivityWorkouts = 3
)

// Consistency score thresholds for the excellent and good ratings.
const (
	ConsistencyExcellent = 0.7
	ConsistencyGood      = 0.4
)

// PerformanceInsights composes short human readable remarks, always in this order:
// last week's activity, the 30 day weight trend, the 30 day consistency and the
// most frequent exercise. Some of them are skipped when there is nothing to say.
func (a *Analyzer) PerformanceInsights(now time.Time) []string {
	var insights []string

	recent := a.profile.RecentWorkouts(now, insightsRecentDays)
	if len(recent) == 0 {
		insights = append(insights, "No workouts logged in the past week")
	} else if len(recent) >= greatActivityWorkouts {
		insights = append(insights, "Great activity level this week!")
	}

	trend := a.WeightTrend(now, insightsWindowDays)
	unit := trend.Unit
	if unit == "" {
		unit = fitness.WeightUnitKilograms
	}
	switch trend.Trend {
	case TrendDecreasing:
		insights = append(insights, fmt.Sprintf(
			"Weight trending down by %.1f %s over %d days", math.Abs(trend.Change), unit, trend.PeriodDays,
		))
	case TrendIncreasing:
		// increasing keeps the sign and does not mention the period
		insights = append(insights, fmt.Sprintf("Weight trending up by %.1f %s", trend.Change, unit))
	}

	consistency := a.WorkoutConsistencyScore(now, insightsWindowDays)
	switch {
	case consistency >= ConsistencyExcellent:
		insights = append(insights, "Excellent workout consistency!")
	case consistency >= ConsistencyGood:
		insights = append(insights, "Good workout routine, try to be more consistent")
	default:
		insights = append(insights, "Try to workout more regularly for better results")
	}

	if top, ok := mostFrequent(a.orderedFrequency(now, insightsWindowDays)); ok {
		insights = append(insights, fmt.Sprintf("Most frequent exercise: %s (%d times)", top.ExerciseType, top.Count))
	}

	return insights
}

// mostFrequent returns the first exercise type reaching the highest count
func mostFrequent(counts []CategoryCount) (CategoryCount, bool) {
	if len(counts) == 0 {
		return CategoryCount{}, false
	}
	top := counts[0]
	for _, c := range counts[1:] {
		if c.Count > top.Count {
			top = c
		}
	}
	return top, true
}
