package report

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/2beens/fitlog/internal/cache"
	"github.com/2beens/fitlog/internal/fitness"
	"github.com/2beens/fitlog/internal/fitness/analytics"
	"github.com/2beens/fitlog/internal/telemetry/metrics"
	"github.com/2beens/fitlog/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=report_test

type ProfileRepo interface {
	Load(ctx context.Context) (*fitness.Profile, error)
	Save(ctx context.Context, profile *fitness.Profile) error
}

type ServiceParams struct {
	Repo     ProfileRepo
	Cache    cache.Cache
	CacheTTL time.Duration
	Metrics  *metrics.Manager
	// Clock defaults to time.Now
	Clock func() time.Time
}

// Service runs analytics over the stored profile and appends new entries to it.
// Computed reports are cached as JSON until the next write or the ttl expires.
type Service struct {
	repo     ProfileRepo
	cache    cache.Cache
	cacheTTL time.Duration
	metrics  *metrics.Manager
	now      func() time.Time

	// serializes load-append-save cycles
	writeMutex sync.Mutex
}

func NewService(params ServiceParams) *Service {
	reportCache := params.Cache
	if reportCache == nil {
		reportCache = cache.Noop{}
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		repo:     params.Repo,
		cache:    reportCache,
		cacheTTL: params.CacheTTL,
		metrics:  params.Metrics,
		now:      clock,
	}
}

func (s *Service) Now() time.Time {
	return s.now()
}

// Profile returns the whole stored profile.
func (s *Service) Profile(ctx context.Context) (*fitness.Profile, error) {
	return s.repo.Load(ctx)
}

func (s *Service) Frequency(ctx context.Context, days int) (_ map[string]int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "report.frequency")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	days = orDefault(days, analytics.DefaultFrequencyDays)
	span.SetAttributes(attribute.Int("days", days))

	return cachedReport(ctx, s, fmt.Sprintf("frequency:%d", days), func(a *analytics.Analyzer, now time.Time) map[string]int {
		return a.WorkoutFrequency(now, days)
	})
}

func (s *Service) WeeklySummary(ctx context.Context, weeks int) (_ []analytics.WeekSummary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "report.weeklySummary")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	weeks = orDefault(weeks, analytics.DefaultSummaryWeeks)
	span.SetAttributes(attribute.Int("weeks", weeks))

	return cachedReport(ctx, s, fmt.Sprintf("weekly:%d", weeks), func(a *analytics.Analyzer, now time.Time) []analytics.WeekSummary {
		return a.WeeklySummary(now, weeks)
	})
}

func (s *Service) WeightTrend(ctx context.Context, days int) (_ analytics.WeightTrend, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "report.weightTrend")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	days = orDefault(days, analytics.DefaultTrendDays)
	span.SetAttributes(attribute.Int("days", days))

	return cachedReport(ctx, s, fmt.Sprintf("trend:%d", days), func(a *analytics.Analyzer, now time.Time) analytics.WeightTrend {
		return a.WeightTrend(now, days)
	})
}

func (s *Service) Consistency(ctx context.Context, days int) (_ float64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "report.consistency")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	days = orDefault(days, analytics.DefaultConsistencyDays)
	span.SetAttributes(attribute.Int("days", days))

	return cachedReport(ctx, s, fmt.Sprintf("consistency:%d", days), func(a *analytics.Analyzer, now time.Time) float64 {
		return a.WorkoutConsistencyScore(now, days)
	})
}

func (s *Service) Insights(ctx context.Context) (_ []string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "report.insights")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return cachedReport(ctx, s, "insights", func(a *analytics.Analyzer, now time.Time) []string {
		return a.PerformanceInsights(now)
	})
}

func (s *Service) Overview(ctx context.Context, period analytics.Period) (_ analytics.Overview, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "report.overview")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if period == "" {
		period = analytics.PeriodWeek
	}
	if !period.IsValid() {
		return analytics.Overview{}, fmt.Errorf("unknown period: %s", period)
	}
	span.SetAttributes(attribute.String("period", string(period)))

	return cachedReport(ctx, s, "overview:"+string(period), func(a *analytics.Analyzer, now time.Time) analytics.Overview {
		return a.Overview(now, period)
	})
}

// ListWorkouts returns the workouts within [from, to], oldest first.
// Zero from or to leaves that side unbounded, empty exercise type matches all.
func (s *Service) ListWorkouts(ctx context.Context, from, to time.Time, exerciseType string) (_ []fitness.WorkoutEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "report.listWorkouts")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	profile, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	exerciseType = strings.TrimSpace(exerciseType)
	normalizedType := fitness.ParseWorkoutType(exerciseType)

	workouts := []fitness.WorkoutEntry{}
	for _, w := range profile.Workouts {
		if !inRange(w.Date, from, to) {
			continue
		}
		if exerciseType != "" &&
			!strings.EqualFold(w.ExerciseType, exerciseType) &&
			!strings.EqualFold(w.ExerciseType, normalizedType) {
			continue
		}
		workouts = append(workouts, w)
	}
	sort.SliceStable(workouts, func(i, j int) bool {
		return workouts[i].Date.Before(workouts[j].Date)
	})

	span.SetAttributes(attribute.Int("workouts", len(workouts)))
	return workouts, nil
}

// ListWeights returns the weight entries within [from, to], oldest first.
func (s *Service) ListWeights(ctx context.Context, from, to time.Time) (_ []fitness.WeightEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "report.listWeights")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	profile, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	weights := []fitness.WeightEntry{}
	for _, w := range profile.WeightHistory {
		if inRange(w.Date, from, to) {
			weights = append(weights, w)
		}
	}
	sort.SliceStable(weights, func(i, j int) bool {
		return weights[i].Date.Before(weights[j].Date)
	})

	return weights, nil
}

func (s *Service) LogWorkout(ctx context.Context, entry fitness.WorkoutEntry) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "report.logWorkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := entry.Validate(); err != nil {
		return err
	}

	if err := s.update(ctx, func(p *fitness.Profile) { p.AddWorkout(entry) }); err != nil {
		return err
	}

	s.metrics.CounterWorkoutsLogged.WithLabelValues(entry.ExerciseType).Inc()
	log.Debugf("report: workout [%s] logged: %s, %d min", entry.ID, entry.ExerciseType, entry.DurationMinutes)

	return nil
}

func (s *Service) LogWeight(ctx context.Context, entry fitness.WeightEntry) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "report.logWeight")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := entry.Validate(); err != nil {
		return err
	}

	if err := s.update(ctx, func(p *fitness.Profile) { p.AddWeight(entry) }); err != nil {
		return err
	}

	s.metrics.CounterWeightsLogged.Inc()
	log.Debugf("report: weight [%s] logged: %.1f %s", entry.ID, entry.Weight, entry.Unit)

	return nil
}

func (s *Service) update(ctx context.Context, apply func(p *fitness.Profile)) error {
	s.writeMutex.Lock()
	defer s.writeMutex.Unlock()

	profile, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}

	apply(profile)

	if err := s.repo.Save(ctx, profile); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	s.cache.Clear()
	return nil
}

// cachedReport returns the cached report under key, or computes it over a
// freshly loaded profile and caches its JSON encoding.
func cachedReport[T any](
	ctx context.Context,
	s *Service,
	key string,
	compute func(a *analytics.Analyzer, now time.Time) T,
) (T, error) {
	var report T

	if raw, found := s.cache.Get(key); found {
		err := json.Unmarshal(raw, &report)
		if err == nil {
			log.Tracef("report: cache hit [%s]", key)
			return report, nil
		}
		log.Warnf("report: decode cached [%s]: %s", key, err)
	}

	profile, err := s.repo.Load(ctx)
	if err != nil {
		return report, fmt.Errorf("load profile: %w", err)
	}

	report = compute(analytics.NewAnalyzer(profile), s.now())

	if s.cacheTTL > 0 {
		raw, err := json.Marshal(report)
		if err != nil {
			log.Errorf("report: encode [%s] for cache: %s", key, err)
			return report, nil
		}
		s.cache.Set(key, raw, s.cacheTTL)
	}

	return report, nil
}

func orDefault(value, def int) int {
	if value <= 0 {
		return def
	}
	return value
}

func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && t.After(to) {
		return false
	}
	return true
}
