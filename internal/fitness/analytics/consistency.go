package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/2beens/fitlog/internal/fitness"
)

// minGapPenalty is the lowest multiplier uneven spacing can apply,
// so clustering never takes away more than half of the base score
const minGapPenalty = 0.5

// WorkoutConsistencyScore rates the last windowDays days between 0 and 1.
// The base score is the fraction of days with at least one workout. When there
// is more than one such day, the score is reduced by the variance of the gaps
// between workout days, relative to the ideal (evenly spaced) gap.
func (a *Analyzer) WorkoutConsistencyScore(now time.Time, windowDays int) float64 {
	recent := a.profile.RecentWorkouts(now, windowDays)
	if len(recent) == 0 {
		return 0
	}

	days := distinctWorkoutDays(recent)
	workoutDays := float64(len(days))
	totalDays := float64(windowDays)

	consistency := workoutDays / totalDays

	if len(days) > 1 {
		gaps := make([]float64, 0, len(days)-1)
		for i := 1; i < len(days); i++ {
			gaps = append(gaps, float64(days[i].Sub(days[i-1])/fitness.Day))
		}

		avgGap := mean(gaps)
		idealGap := totalDays / workoutDays

		var gapVariance float64
		for _, gap := range gaps {
			gapVariance += (gap - avgGap) * (gap - avgGap)
		}
		gapVariance /= float64(len(gaps))

		consistency *= math.Max(minGapPenalty, 1-gapVariance/(idealGap*idealGap))
	}

	return math.Min(1, consistency)
}

// distinctWorkoutDays returns the sorted calendar dates (as UTC midnights) on
// which at least one workout happened. The calendar date is taken in the
// workout timestamp's own location.
func distinctWorkoutDays(workouts []fitness.WorkoutEntry) []time.Time {
	seen := make(map[time.Time]struct{})
	var days []time.Time
	for _, w := range workouts {
		y, m, d := w.Date.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}

	sort.Slice(days, func(i, j int) bool {
		return days[i].Before(days[j])
	})

	return days
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
