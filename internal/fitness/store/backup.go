package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/2beens/fitlog/internal/telemetry/tracing"
	"github.com/2beens/fitlog/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

const (
	backupPrefix     = "backup_"
	backupExt        = ".json"
	backupTimeLayout = "20060102_150405"
)

type BackupFrequency string

const (
	BackupDaily   BackupFrequency = "daily"
	BackupWeekly  BackupFrequency = "weekly"
	BackupMonthly BackupFrequency = "monthly"
	BackupNever   BackupFrequency = "never"
)

func ParseBackupFrequency(s string) (BackupFrequency, error) {
	switch f := BackupFrequency(strings.ToLower(strings.TrimSpace(s))); f {
	case BackupDaily, BackupWeekly, BackupMonthly, BackupNever:
		return f, nil
	case "":
		return BackupWeekly, nil
	default:
		return "", fmt.Errorf("unknown backup frequency: %s", s)
	}
}

// Interval returns the max age of the newest backup before a new one is due.
// Zero means backups are never taken automatically.
func (f BackupFrequency) Interval() time.Duration {
	switch f {
	case BackupDaily:
		return 24 * time.Hour
	case BackupWeekly:
		return 7 * 24 * time.Hour
	case BackupMonthly:
		return 30 * 24 * time.Hour
	default:
		return 0
	}
}

type BackupInfo struct {
	Name      string
	Path      string
	Size      int64
	CreatedAt time.Time
}

// BackupName returns the default backup name for the given time, in local time.
func BackupName(t time.Time) string {
	return backupPrefix + t.Local().Format(backupTimeLayout)
}

// Backup copies the profile document into the data dir. An empty name
// falls back to the timestamped default one, other names get the backup
// prefix so that they are listed and pruned like the scheduled ones.
func (s *Store) Backup(ctx context.Context, now time.Time, name string) (_ *BackupInfo, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "store.backup")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
		result := "ok"
		if err != nil {
			result = "error"
		}
		s.metrics.CounterBackups.WithLabelValues(result).Inc()
	}()

	name = strings.TrimSuffix(strings.TrimSpace(name), backupExt)
	if name == "" {
		name = BackupName(now)
	}
	if strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("invalid backup name: %s", name)
	}
	if !strings.HasPrefix(name, backupPrefix) {
		name = backupPrefix + name
	}
	span.SetAttributes(attribute.String("backup.name", name))

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	exists, err := pkg.PathExists(s.ProfilePath(), false)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNothingToBackup
	}

	path := filepath.Join(s.dataDir, name+backupExt)
	size, err := pkg.CopyFile(s.ProfilePath(), path)
	if err != nil {
		return nil, fmt.Errorf("copy profile to [%s]: %w", path, err)
	}

	log.Debugf("store: backup [%s] created, %d bytes", path, size)

	return &BackupInfo{
		Name:      name,
		Path:      path,
		Size:      size,
		CreatedAt: now,
	}, nil
}

// ListBackups returns the backups found in the data dir, oldest first.
// Backups are ordered by the time in their name, and by modification
// time when the name carries none.
func (s *Store) ListBackups(ctx context.Context) (_ []BackupInfo, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "store.listBackups")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.listBackups()
}

func (s *Store) listBackups() ([]BackupInfo, error) {
	dirEntries, err := os.ReadDir(s.dataDir)
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}

	var backups []BackupInfo
	for _, entry := range dirEntries {
		fileName := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(fileName, backupPrefix) || !strings.HasSuffix(fileName, backupExt) {
			continue
		}

		fi, err := entry.Info()
		if err != nil {
			// removed in the meantime
			continue
		}

		name := strings.TrimSuffix(fileName, backupExt)
		createdAt := fi.ModTime()
		if t, err := time.ParseInLocation(backupTimeLayout, strings.TrimPrefix(name, backupPrefix), time.Local); err == nil {
			createdAt = t
		}

		backups = append(backups, BackupInfo{
			Name:      name,
			Path:      filepath.Join(s.dataDir, fileName),
			Size:      fi.Size(),
			CreatedAt: createdAt,
		})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].CreatedAt.Equal(backups[j].CreatedAt) {
			return backups[i].Name < backups[j].Name
		}
		return backups[i].CreatedAt.Before(backups[j].CreatedAt)
	})

	return backups, nil
}

// PruneBackups removes the oldest backups so that at most maxBackups remain.
// maxBackups <= 0 disables pruning. Removal continues past single failures.
func (s *Store) PruneBackups(ctx context.Context, maxBackups int) (_ []string, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "store.pruneBackups")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if maxBackups <= 0 {
		return nil, nil
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	backups, err := s.listBackups()
	if err != nil {
		return nil, err
	}
	if len(backups) <= maxBackups {
		return nil, nil
	}

	var removed []string
	for _, b := range backups[:len(backups)-maxBackups] {
		if rmErr := os.Remove(b.Path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			err = multierr.Append(err, fmt.Errorf("remove backup %s: %w", b.Name, rmErr))
			continue
		}
		removed = append(removed, b.Name)
		s.metrics.CounterBackupsPruned.Inc()
		log.Debugf("store: old backup [%s] removed", b.Name)
	}

	span.SetAttributes(attribute.Int("backups.removed", len(removed)))

	return removed, err
}

// BackupIfDue creates a backup when none exists yet, or when the newest one
// is older than the frequency interval. Returns nil info when nothing was done.
func (s *Store) BackupIfDue(ctx context.Context, now time.Time, frequency BackupFrequency) (*BackupInfo, error) {
	interval := frequency.Interval()
	if interval == 0 {
		return nil, nil
	}

	backups, err := s.ListBackups(ctx)
	if err != nil {
		return nil, err
	}
	if len(backups) > 0 {
		newest := backups[len(backups)-1]
		if now.Sub(newest.CreatedAt) < interval {
			return nil, nil
		}
	}

	info, err := s.Backup(ctx, now, "")
	if errors.Is(err, ErrNothingToBackup) {
		return nil, nil
	}
	return info, err
}

// Archive writes the profile and all backups as a tar.gz stream.
func (s *Store) Archive(ctx context.Context, w io.Writer) (_ int, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "store.archive")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var files []string
	exists, err := pkg.PathExists(s.ProfilePath(), false)
	if err != nil {
		return 0, err
	}
	if exists {
		files = append(files, s.ProfilePath())
	}

	backups, err := s.listBackups()
	if err != nil {
		return 0, err
	}
	for _, b := range backups {
		files = append(files, b.Path)
	}

	if len(files) == 0 {
		return 0, ErrNothingToBackup
	}

	if err := pkg.Compress(files, w); err != nil {
		return 0, fmt.Errorf("compress: %w", err)
	}

	return len(files), nil
}
