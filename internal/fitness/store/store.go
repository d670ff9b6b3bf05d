package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/2beens/fitlog/internal/fitness"
	"github.com/2beens/fitlog/internal/telemetry/metrics"
	"github.com/2beens/fitlog/internal/telemetry/tracing"
	"github.com/2beens/fitlog/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	// json file holding the whole profile, saved within the data dir
	profileFileName = "fitness_profile.json"
)

var (
	ErrCorruptProfile  = errors.New("corrupt profile")
	ErrNothingToBackup = errors.New("nothing to backup")
)

// Store keeps the profile as a single JSON document on disk,
// rewritten as a whole on every save.
type Store struct {
	dataDir string
	metrics *metrics.Manager
	mutex   sync.RWMutex
}

func New(dataDir string, metricsManager *metrics.Manager) (*Store, error) {
	if dataDir == "" {
		return nil, errors.New("data dir cannot be empty")
	}

	dataDir, err := pkg.ExpandHome(dataDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	log.Debugf("store: using data dir [%s]", dataDir)

	return &Store{
		dataDir: dataDir,
		metrics: metricsManager,
	}, nil
}

func (s *Store) DataDir() string {
	return s.dataDir
}

func (s *Store) ProfilePath() string {
	return filepath.Join(s.dataDir, profileFileName)
}

// Load reads the profile from disk. A missing file is not an error,
// it just means nothing was logged yet, so an empty profile is returned.
func (s *Store) Load(ctx context.Context) (_ *fitness.Profile, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "store.load")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	data, err := os.ReadFile(s.ProfilePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Debugf("store: no profile at [%s] yet", s.ProfilePath())
			return fitness.NewProfile(), nil
		}
		return nil, fmt.Errorf("read profile: %w", err)
	}

	profile := fitness.NewProfile()
	if err := json.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrCorruptProfile, s.ProfilePath(), err)
	}
	if profile.Workouts == nil {
		profile.Workouts = []fitness.WorkoutEntry{}
	}
	if profile.WeightHistory == nil {
		profile.WeightHistory = []fitness.WeightEntry{}
	}

	span.SetAttributes(
		attribute.Int("profile.workouts", len(profile.Workouts)),
		attribute.Int("profile.weights", len(profile.WeightHistory)),
	)
	log.Tracef("store: loaded %d workouts, %d weights", len(profile.Workouts), len(profile.WeightHistory))

	return profile, nil
}

// Save rewrites the profile document. The document is written to a temp
// file first and renamed, so a failed save never leaves a truncated profile.
func (s *Store) Save(ctx context.Context, profile *fitness.Profile) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "store.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if profile == nil {
		return errors.New("profile is nil")
	}

	start := time.Now()

	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	tmp, err := os.CreateTemp(s.dataDir, profileFileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp profile file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			if rmErr := os.Remove(tmpPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				log.Errorf("store: remove temp profile file [%s]: %s", tmpPath, rmErr)
			}
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write profile: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync profile: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close profile: %w", err)
	}
	if err := os.Rename(tmpPath, s.ProfilePath()); err != nil {
		return fmt.Errorf("replace profile: %w", err)
	}

	s.metrics.HistProfileSaveDuration.Observe(time.Since(start).Seconds())
	s.metrics.GaugeProfileWorkouts.Set(float64(len(profile.Workouts)))
	s.metrics.GaugeProfileWeights.Set(float64(len(profile.WeightHistory)))

	span.SetAttributes(attribute.Int("profile.size", len(data)))
	log.Debugf("store: profile saved, %d workouts, %d weights", len(profile.Workouts), len(profile.WeightHistory))

	return nil
}
