// Package scheduler runs one-shot tasks after a delay, in process.
//
// Pending tasks live only in memory: anything not yet started when the
// process exits is lost.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var ErrShutdown = errors.New("scheduler is shut down")

// Task is the deferred work. ctx is cancelled when the task times out or
// the scheduler is forced to stop.
type Task func(ctx context.Context)

// Handle identifies a scheduled task and cancels it.
type Handle struct {
	ID  string
	Key string

	s *Scheduler
}

// Cancel stops the task if it has not started. It reports whether it did.
func (h Handle) Cancel() bool {
	if h.s == nil {
		return false
	}
	return h.s.cancel(h.ID)
}

type entry struct {
	key   string
	timer *time.Timer
}

type Scheduler struct {
	log         logrus.FieldLogger
	taskTimeout time.Duration

	ctx    context.Context
	stop   context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
	tasks  map[string]*entry
}

type Option func(*Scheduler)

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Scheduler) { s.log = log }
}

// WithTaskTimeout bounds each task run. Zero means no limit.
func WithTaskTimeout(d time.Duration) Option {
	return func(s *Scheduler) { s.taskTimeout = d }
}

func New(opts ...Option) *Scheduler {
	ctx, stop := context.WithCancel(context.Background())
	s := &Scheduler{
		log:   logrus.StandardLogger(),
		ctx:   ctx,
		stop:  stop,
		tasks: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule runs task once after delay on its own goroutine. Negative delays
// run immediately. After Shutdown the task is dropped and the returned
// handle is inert.
func (s *Scheduler) Schedule(key string, delay time.Duration, task Task) Handle {
	if delay < 0 {
		delay = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	if s.closed {
		s.log.WithFields(logrus.Fields{"task_id": id, "key": key}).Warn("task dropped, scheduler is shut down")
		return Handle{ID: id, Key: key}
	}

	s.wg.Add(1)
	e := &entry{key: key}
	e.timer = time.AfterFunc(delay, func() { s.run(id, key, task) })
	s.tasks[id] = e

	s.log.WithFields(logrus.Fields{"task_id": id, "key": key, "delay": delay.String()}).Debug("task scheduled")
	return Handle{ID: id, Key: key, s: s}
}

// run owns the WaitGroup slot only if it is the one that removes the entry.
func (s *Scheduler) run(id, key string, task Task) {
	s.mu.Lock()
	_, ok := s.tasks[id]
	delete(s.tasks, id)
	s.mu.Unlock()
	if !ok {
		return
	}
	defer s.wg.Done()

	log := s.log.WithFields(logrus.Fields{"task_id": id, "key": key})
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("task panicked")
		}
	}()

	ctx := s.ctx
	if s.taskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.taskTimeout)
		defer cancel()
	}

	start := time.Now()
	task(ctx)
	log.WithField("elapsed", time.Since(start).String()).Debug("task finished")
}

func (s *Scheduler) cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.tasks[id]
	if !ok {
		return false
	}
	s.drop(id, e)
	return true
}

// drop must be called with mu held.
func (s *Scheduler) drop(id string, e *entry) {
	e.timer.Stop()
	delete(s.tasks, id)
	s.wg.Done()
}

// CancelKey cancels every pending task scheduled under key and returns how many.
func (s *Scheduler) CancelKey(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, e := range s.tasks {
		if e.key == key {
			s.drop(id, e)
			n++
		}
	}
	return n
}

// Pending returns the number of tasks scheduled but not yet started.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Shutdown drops pending tasks and waits for running ones. If ctx expires
// first the running tasks' context is cancelled and ctx.Err() is returned.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrShutdown
	}
	s.closed = true
	dropped := len(s.tasks)
	for id, e := range s.tasks {
		s.drop(id, e)
	}
	s.mu.Unlock()

	if dropped > 0 {
		s.log.WithField("dropped", dropped).Warn("pending tasks discarded on shutdown")
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.stop()
		return nil
	case <-ctx.Done():
		s.stop()
		return ctx.Err()
	}
}
