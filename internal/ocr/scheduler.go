package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ActionRecognize is the only job action workers understand.
const ActionRecognize = "recognize"

var (
	// ErrNoWorkers is returned by AddJob when no worker has been added.
	ErrNoWorkers = errors.New("scheduler has no workers")

	// ErrSchedulerClosed is returned once Terminate has been called.
	ErrSchedulerClosed = errors.New("scheduler terminated")
)

type jobResult struct {
	res Result
	err error
}

type job struct {
	id     string
	action string
	image  []byte
	ctx    context.Context
	done   chan jobResult
}

// Scheduler queues recognition jobs across its workers.
type Scheduler struct {
	logger *slog.Logger

	mu      sync.Mutex
	workers map[string]Worker
	queue   []*job
	running int
	closed  bool

	wake chan struct{}
	stop chan struct{}
	wg   sync.WaitGroup
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithSchedulerLogger sets the scheduler's logger.
func WithSchedulerLogger(l *slog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewScheduler returns a scheduler with no workers.
func NewScheduler(opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		logger:  slog.Default(),
		workers: make(map[string]Worker),
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// AddWorker attaches w and starts pulling jobs for it. It returns the
// worker's ID. w should already be set up; jobs run on a worker that is not
// initialized fail with ErrNotInitialized.
func (s *Scheduler) AddWorker(w Worker) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", ErrSchedulerClosed
	}

	id := uuid.NewString()
	s.workers[id] = w
	s.wg.Add(1)
	go s.loop(id, w)

	s.logger.Info("worker added", "worker_id", id, "workers", len(s.workers))
	return id, nil
}

// Workers returns the number of attached workers.
func (s *Scheduler) Workers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.workers)
}

// QueueLen returns the number of jobs waiting for a worker.
func (s *Scheduler) QueueLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Running returns the number of jobs currently executing.
func (s *Scheduler) Running() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// AddJob enqueues a job and waits for its result. If ctx is done while the
// job is still queued, the job is withdrawn; if it is already running, the
// result is discarded.
func (s *Scheduler) AddJob(ctx context.Context, action string, image []byte) (Result, error) {
	if action != ActionRecognize {
		return Result{}, fmt.Errorf("unsupported job action: %q", action)
	}

	j := &job{
		id:     uuid.NewString(),
		action: action,
		image:  image,
		ctx:    ctx,
		done:   make(chan jobResult, 1),
	}

	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return Result{}, ErrSchedulerClosed
	case len(s.workers) == 0:
		s.mu.Unlock()
		return Result{}, ErrNoWorkers
	}
	s.queue = append(s.queue, j)
	queued := len(s.queue)
	s.mu.Unlock()
	s.signal()

	s.logger.Debug("job queued", "job_id", j.id, "queue_len", queued)

	select {
	case r := <-j.done:
		return r.res, r.err
	case <-ctx.Done():
		s.withdraw(j)
		return Result{}, ctx.Err()
	}
}

// Terminate stops every worker and fails queued jobs with ErrSchedulerClosed.
// Running jobs finish first.
func (s *Scheduler) Terminate() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	pending := s.queue
	s.queue = nil
	close(s.stop)
	s.mu.Unlock()

	for _, j := range pending {
		j.done <- jobResult{err: ErrSchedulerClosed}
	}
	s.wg.Wait()

	var errs []error
	s.mu.Lock()
	for id, w := range s.workers {
		if err := w.Terminate(); err != nil {
			errs = append(errs, fmt.Errorf("terminate worker %s: %w", id, err))
		}
	}
	s.mu.Unlock()
	return errors.Join(errs...)
}

func (s *Scheduler) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// next pops the oldest queued job and marks it running.
func (s *Scheduler) next() *job {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || len(s.queue) == 0 {
		return nil
	}
	j := s.queue[0]
	s.queue[0] = nil
	s.queue = s.queue[1:]
	s.running++
	if len(s.queue) > 0 {
		s.signal()
	}
	return j
}

func (s *Scheduler) withdraw(j *job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, q := range s.queue {
		if q == j {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			return
		}
	}
}

func (s *Scheduler) loop(workerID string, w Worker) {
	defer s.wg.Done()
	for {
		j := s.next()
		if j == nil {
			select {
			case <-s.stop:
				return
			case <-s.wake:
				continue
			}
		}
		s.run(workerID, w, j)
	}
}

func (s *Scheduler) run(workerID string, w Worker, j *job) {
	defer func() {
		s.mu.Lock()
		s.running--
		s.mu.Unlock()
	}()

	if err := j.ctx.Err(); err != nil {
		j.done <- jobResult{err: err}
		return
	}

	start := time.Now()
	text, err := w.Recognize(j.ctx, j.image)
	dur := time.Since(start)

	if err != nil {
		s.logger.Error("job failed",
			"job_id", j.id,
			"worker_id", workerID,
			"duration_ms", dur.Milliseconds(),
			"error", err,
		)
		j.done <- jobResult{err: fmt.Errorf("%w: job %s: %w", ErrRecognitionFailed, j.id, err)}
		return
	}

	s.logger.Debug("job done",
		"job_id", j.id,
		"worker_id", workerID,
		"duration_ms", dur.Milliseconds(),
		"text_bytes", len(text),
	)
	j.done <- jobResult{res: Result{JobID: j.id, WorkerID: workerID, Text: text}}
}
