package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-calendar-api/internal/models"
	"github.com/noah-isme/academic-calendar-api/pkg/jobs"
)

type warmQueueStub struct {
	jobs    []jobs.Job
	pending map[string]bool
	err     error
}

func (q *warmQueueStub) Enqueue(job jobs.Job) (bool, error) {
	if q.err != nil {
		return false, q.err
	}
	if q.pending == nil {
		q.pending = map[string]bool{}
	}
	if q.pending[job.Key] {
		return false, nil
	}
	q.pending[job.Key] = true
	q.jobs = append(q.jobs, job)
	return true, nil
}

type summaryComputerStub struct {
	calls []string
	err   error
}

func (s *summaryComputerStub) TermSummary(ctx context.Context, calendarID string) (*models.TermSummaryResult, error) {
	s.calls = append(s.calls, calendarID)
	if s.err != nil {
		return nil, s.err
	}
	return &models.TermSummaryResult{}, nil
}

func TestSummaryWarmerRefreshInvalidatesAndEnqueues(t *testing.T) {
	repo := newStubCacheRepo()
	cache := NewCacheService(repo, nil, time.Minute, nil, true)
	queue := &warmQueueStub{}
	warmer := NewSummaryWarmer(cache, queue, nil)

	warmer.Refresh(context.Background(), "cal-1")
	warmer.Refresh(context.Background(), "cal-1")

	require.Len(t, queue.jobs, 1)
	assert.Equal(t, "cal-1", queue.jobs[0].Key)
	assert.Equal(t, "cal-1", queue.jobs[0].Payload)
	assert.Equal(t, summaryWarmJobType, queue.jobs[0].Type)

	key, ok := cache.CalendarKey(context.Background(), "cal-1", "summary")
	require.True(t, ok)
	assert.Equal(t, "calendar:cal-1:v2:summary", key)
}

func TestSummaryWarmerSkipsQueueWhenCacheDisabled(t *testing.T) {
	queue := &warmQueueStub{}
	warmer := NewSummaryWarmer(NewCacheService(nil, nil, 0, nil, false), queue, nil)

	warmer.Refresh(context.Background(), "cal-1")
	assert.Empty(t, queue.jobs)

	var nilWarmer *SummaryWarmer
	assert.NotPanics(t, func() { nilWarmer.Refresh(context.Background(), "cal-1") })
}

func TestSummaryWarmerToleratesQueueErrors(t *testing.T) {
	queue := &warmQueueStub{err: errors.New("queue summary_warmer not started")}
	warmer := NewSummaryWarmer(NewCacheService(newStubCacheRepo(), nil, 0, nil, true), queue, nil)

	assert.NotPanics(t, func() { warmer.Refresh(context.Background(), "cal-1") })
}

func TestSummaryWarmWorkerHandle(t *testing.T) {
	computer := &summaryComputerStub{}
	worker := NewSummaryWarmWorker(computer, nil)

	require.NoError(t, worker.Handle(context.Background(), jobs.Job{ID: "job-1", Payload: "cal-1"}))
	assert.Equal(t, []string{"cal-1"}, computer.calls)

	assert.Error(t, worker.Handle(context.Background(), jobs.Job{ID: "job-2"}))

	computer.err = errors.New("boom")
	assert.Error(t, worker.Handle(context.Background(), jobs.Job{ID: "job-3", Payload: "cal-1"}))
}

func TestSummaryWarmerWithQueue(t *testing.T) {
	computer := &summaryComputerStub{}
	worker := NewSummaryWarmWorker(computer, nil)
	queue := jobs.NewQueue("summary_warmer", worker.Handle, jobs.QueueConfig{Workers: 1})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	queue.Start(ctx)
	defer queue.Stop()

	warmer := NewSummaryWarmer(NewCacheService(newStubCacheRepo(), nil, 0, nil, true), queue, nil)
	warmer.Refresh(ctx, "cal-1")

	assert.Eventually(t, func() bool { return queue.Pending() == 0 }, time.Second, 10*time.Millisecond)
}
