package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/2beens/fitlog/internal/fitness"
)

// TrendDirection can be one of:
//   - insufficient_data
//   - stable
//   - increasing
//   - decreasing
type TrendDirection string

const (
	TrendInsufficientData TrendDirection = "insufficient_data"
	TrendStable           TrendDirection = "stable"
	TrendIncreasing       TrendDirection = "increasing"
	TrendDecreasing       TrendDirection = "decreasing"
)

func (t TrendDirection) String() string {
	return string(t)
}

// significantWeightChange is in whatever unit the entries are logged in.
// Units are not normalized, mixed kg/lbs histories give misleading trends.
const significantWeightChange = 0.5

type WeightTrend struct {
	Trend      TrendDirection `json:"trend"`
	Change     float64        `json:"change"`
	PeriodDays int            `json:"period_days"`
	DataPoints int            `json:"data_points"`
	// Unit is taken from the latest weight entry in the window
	Unit fitness.WeightUnit `json:"unit,omitempty"`
}

// WeightTrend compares the first and the last weight entries
// logged within the last windowDays days.
func (a *Analyzer) WeightTrend(now time.Time, windowDays int) WeightTrend {
	recent := a.profile.RecentWeights(now, windowDays)
	if len(recent) < 2 {
		return WeightTrend{
			Trend:  TrendInsufficientData,
			Change: 0,
		}
	}

	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Date.Before(recent[j].Date)
	})
	first := recent[0]
	last := recent[len(recent)-1]

	change := last.Weight - first.Weight
	trend := TrendStable
	if math.Abs(change) > significantWeightChange {
		if change > 0 {
			trend = TrendIncreasing
		} else {
			trend = TrendDecreasing
		}
	}

	return WeightTrend{
		Trend:      trend,
		Change:     roundTo(change, 1),
		PeriodDays: int(last.Date.Sub(first.Date) / fitness.Day),
		DataPoints: len(recent),
		Unit:       last.Unit,
	}
}

func roundTo(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}
