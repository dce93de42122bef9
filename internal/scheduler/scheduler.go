package scheduler

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"runtime/debug"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/thinkscotty/newscast/internal/models"
)

// ClipStore is the part of the database the janitor needs.
type ClipStore interface {
	ClipsToPrune(cutoff time.Time) ([]models.Clip, error)
	DeleteClip(id int64) error
}

// Janitor periodically removes clip files that are expired or superseded by
// a newer clip for the same company.
type Janitor struct {
	store     ClipStore
	schedule  string
	retention time.Duration
	now       func() time.Time

	mu   sync.Mutex // held while a sweep runs
	cron *cron.Cron
}

func New(store ClipStore, schedule string, retention time.Duration) *Janitor {
	return &Janitor{
		store:     store,
		schedule:  schedule,
		retention: retention,
		now:       time.Now,
	}
}

// Run sweeps once at startup, then on the configured schedule until ctx is done.
func (j *Janitor) Run(ctx context.Context) error {
	j.cron = cron.New()
	if _, err := j.cron.AddFunc(j.schedule, func() { j.safeSweep(ctx) }); err != nil {
		return fmt.Errorf("invalid janitor schedule %q: %w", j.schedule, err)
	}

	slog.Info("Clip janitor started", "schedule", j.schedule, "retention", j.retention)
	j.safeSweep(ctx)
	j.cron.Start()

	<-ctx.Done()
	<-j.cron.Stop().Done()
	slog.Info("Clip janitor stopped")
	return nil
}

func (j *Janitor) safeSweep(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic in clip janitor", "panic", r, "stack", string(debug.Stack()))
		}
	}()
	if _, err := j.Sweep(ctx); err != nil {
		slog.Error("Clip sweep failed", "error", err)
	}
}

// Sweep deletes prunable clip files and their index rows and returns how many
// clips were removed. Overlapping sweeps are skipped.
func (j *Janitor) Sweep(ctx context.Context) (int, error) {
	if !j.mu.TryLock() {
		slog.Debug("Clip sweep already running, skipping")
		return 0, nil
	}
	defer j.mu.Unlock()

	clips, err := j.store.ClipsToPrune(j.now().Add(-j.retention))
	if err != nil {
		return 0, fmt.Errorf("list prunable clips: %w", err)
	}

	removed := 0
	for _, c := range clips {
		if ctx.Err() != nil {
			break
		}
		if err := os.Remove(c.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("Failed to remove clip file", "path", c.Path, "error", err)
			continue
		}
		if err := j.store.DeleteClip(c.ID); err != nil {
			slog.Warn("Failed to delete clip row", "id", c.ID, "error", err)
			continue
		}
		removed++
	}

	if removed > 0 {
		slog.Info("Pruned clips", "count", removed)
	}
	return removed, nil
}
