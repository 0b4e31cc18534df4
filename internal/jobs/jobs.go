package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"weather-outfit/pkg/logger"
)

const (
	DefaultTimeout   = 90 * time.Second
	DefaultRetention = 10 * time.Minute
)

type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// Job is a snapshot of a deferred computation.
type Job[T any] struct {
	ID         string
	Status     Status
	Value      T
	Err        error
	CreatedAt  time.Time
	FinishedAt time.Time
}

// Store runs deferred work in the background and keeps finished jobs around
// until the retention period has passed.
type Store[T any] struct {
	timeout   time.Duration
	retention time.Duration
	l         *logger.Logger
	now       func() time.Time

	mu   sync.RWMutex
	jobs map[string]*Job[T]
	wg   sync.WaitGroup
}

func NewStore[T any](timeout, retention time.Duration, l *logger.Logger) *Store[T] {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Store[T]{
		timeout:   timeout,
		retention: retention,
		l:         l,
		now:       time.Now,
		jobs:      make(map[string]*Job[T]),
	}
}

// Submit starts fn and returns the job id at once. fn runs detached from ctx's
// cancellation but keeps its values, bounded by the job timeout.
func (s *Store[T]) Submit(ctx context.Context, fn func(ctx context.Context) (T, error)) string {
	id := uuid.NewString()

	s.mu.Lock()
	s.jobs[id] = &Job[T]{ID: id, Status: StatusPending, CreatedAt: s.now()}
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		jobCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		value, err := fn(jobCtx)
		s.finish(id, value, err)
	}()

	return id
}

func (s *Store[T]) finish(id string, value T, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return
	}
	job.FinishedAt = s.now()
	if err != nil {
		job.Status = StatusFailed
		job.Err = err
		s.l.Warning("deferred job failed", map[string]any{"job": id, "err": err.Error()})
		return
	}
	job.Status = StatusDone
	job.Value = value
}

func (s *Store[T]) Get(id string) (Job[T], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return Job[T]{}, false
	}
	return *job, true
}

// Sweep drops finished jobs older than the retention period and returns how
// many were removed. Pending jobs are never dropped.
func (s *Store[T]) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.retention)
	removed := 0
	for id, job := range s.jobs {
		if job.Status != StatusPending && job.FinishedAt.Before(cutoff) {
			delete(s.jobs, id)
			removed++
		}
	}
	return removed
}

// RunSweeper sweeps every interval until ctx is done.
func (s *Store[T]) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = s.retention / 2
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.l.Debug("swept finished jobs", map[string]any{"removed": n})
			}
		}
	}
}

func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

// Wait blocks until every submitted job has finished.
func (s *Store[T]) Wait() {
	s.wg.Wait()
}
