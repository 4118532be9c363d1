package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/academic-calendar-api/internal/models"
	"github.com/noah-isme/academic-calendar-api/pkg/jobs"
	"github.com/noah-isme/academic-calendar-api/pkg/logger"
)

const summaryWarmJobType = "summary_warm"

type warmQueue interface {
	Enqueue(job jobs.Job) (bool, error)
}

type summaryComputer interface {
	TermSummary(ctx context.Context, calendarID string) (*models.TermSummaryResult, error)
}

// SummaryWarmer invalidates a calendar's cached aggregations after a write
// and recomputes its term summary in the background.
type SummaryWarmer struct {
	cache  *CacheService
	queue  warmQueue
	logger *zap.Logger
}

// NewSummaryWarmer constructs a warmer. A nil queue only invalidates.
func NewSummaryWarmer(cache *CacheService, queue warmQueue, logger *zap.Logger) *SummaryWarmer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummaryWarmer{cache: cache, queue: queue, logger: logger}
}

// Refresh evicts cached results of the calendar and schedules a warm-up.
// Failures are logged and never returned.
func (w *SummaryWarmer) Refresh(ctx context.Context, calendarID string) {
	if w == nil {
		return
	}
	log := logger.With(ctx, w.logger, calendarID)
	if err := w.cache.InvalidateCalendar(ctx, calendarID); err != nil {
		log.Warn("summary cache invalidation failed", zap.Error(err))
	}
	if w.queue == nil || !w.cache.Enabled() {
		return
	}
	queued, err := w.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    summaryWarmJobType,
		Key:     calendarID,
		Payload: calendarID,
	})
	if err != nil {
		log.Warn("summary warm-up not scheduled", zap.Error(err))
		return
	}
	if !queued {
		log.Debug("summary warm-up already pending")
	}
}

// SummaryWarmWorker recomputes term summaries for queued calendars.
type SummaryWarmWorker struct {
	aggregations summaryComputer
	logger       *zap.Logger
}

// NewSummaryWarmWorker constructs the worker.
func NewSummaryWarmWorker(aggregations summaryComputer, logger *zap.Logger) *SummaryWarmWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummaryWarmWorker{aggregations: aggregations, logger: logger}
}

// Handle processes a queued warm-up job.
func (w *SummaryWarmWorker) Handle(ctx context.Context, job jobs.Job) error {
	calendarID, ok := job.Payload.(string)
	if !ok || calendarID == "" {
		return fmt.Errorf("summary warm job %s has no calendar id", job.ID)
	}
	result, err := w.aggregations.TermSummary(ctx, calendarID)
	if err != nil {
		return fmt.Errorf("warm term summary: %w", err)
	}
	w.logger.Debug("term summary warmed",
		zap.String("calendar_id", calendarID),
		zap.Int("terms", len(result.TermSummaries)),
		zap.Int("attempt", job.Attempt),
	)
	return nil
}
