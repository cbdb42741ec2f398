package rollup

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/campuspulse/campuspulse/internal/feedback"
	"github.com/campuspulse/campuspulse/internal/models"
	"github.com/campuspulse/campuspulse/internal/store"
)

// Worker periodically pre-aggregates the previous day's responses into the
// analytics_rollups table that the annual-trend query reads. It is the only
// writer of that table.
type Worker struct {
	store     store.FeedbackStore
	scheduler *gocron.Scheduler
	now       func() time.Time
	newID     func() string
}

func NewWorker(schedule string, st store.FeedbackStore) (*Worker, error) {
	w := &Worker{
		store:     st,
		scheduler: gocron.NewScheduler(time.UTC),
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}

	if _, err := w.scheduler.Cron(schedule).Do(func() {
		if err := w.RunOnce(); err != nil {
			logger.Error.Printf("Rollup run failed: %v", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("failed to schedule rollup job: %w", err)
	}

	return w, nil
}

func (w *Worker) Start() {
	w.scheduler.StartAsync()
}

func (w *Worker) Stop() {
	w.scheduler.Stop()
}

// RunOnce aggregates the 24 hours ending at the current day boundary:
// average numeric rating over the window plus the overall completion rate
// (submitted accesses over issued accesses). Days without responses write
// no row.
func (w *Worker) RunOnce() error {
	now := w.now().UTC()
	dayEnd := now.Truncate(24 * time.Hour)
	dayStart := dayEnd.Add(-24 * time.Hour)

	snapshots, err := w.store.ListSnapshots(store.SnapshotFilter{
		From: dayStart.Unix(),
		To:   dayEnd.Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to scan snapshots for rollup: %w", err)
	}

	var sum float64
	var count int64
	for _, snap := range snapshots {
		if score, ok := feedback.ParseScore(snap.ResponseValue); ok {
			sum += score
			count++
		}
	}
	if count == 0 {
		logger.Info.Printf("No numeric responses between %s and %s, skipping rollup", dayStart, dayEnd)
		return nil
	}

	total, submitted, err := w.store.CountFormAccesses()
	if err != nil {
		return fmt.Errorf("failed to count form accesses: %w", err)
	}
	var completion float64
	if total > 0 {
		completion = float64(submitted) / float64(total)
	}

	entry := models.AnalyticsRollup{
		ID:             w.newID(),
		CalculatedAt:   now.Unix(),
		AverageRating:  feedback.Round2(sum / float64(count)),
		CompletionRate: feedback.Round2(completion),
		ResponseCount:  count,
	}
	if err := w.store.InsertRollup(entry); err != nil {
		return fmt.Errorf("failed to write rollup: %w", err)
	}

	logger.Info.Printf("Rollup recorded: avg=%.2f completion=%.2f over %d responses", entry.AverageRating, entry.CompletionRate, count)
	return nil
}
