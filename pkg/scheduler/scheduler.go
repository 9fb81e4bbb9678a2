package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/fadedpez/cardlab/internal/logging"
	"github.com/fadedpez/cardlab/internal/types"
)

// Task represents a scheduled task
type Task struct {
	Name     string
	Interval time.Duration
	Fn       func(context.Context) error
}

// Scheduler runs tasks at fixed intervals. A task runs once on start, then
// on every tick; runs of the same task never overlap.
type Scheduler struct {
	logger  *logging.Logger
	tasks   []*Task
	running bool
	mutex   sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	runs    map[string]int
}

// NewScheduler creates a new scheduler
func NewScheduler(logger *logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.Discard
	}
	return &Scheduler{
		logger: logger,
		tasks:  make([]*Task, 0),
		runs:   make(map[string]int),
	}
}

// AddTask adds a task to the scheduler. Tasks added after Start are not run.
func (s *Scheduler) AddTask(name string, interval time.Duration, fn func(context.Context) error) error {
	if interval <= 0 {
		return types.Errorf(types.ErrConfiguration, "task %s needs a positive interval, got %s", name, interval)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.tasks = append(s.tasks, &Task{
		Name:     name,
		Interval: interval,
		Fn:       fn,
	})
	return nil
}

// Start starts every task in its own goroutine
func (s *Scheduler) Start(ctx context.Context) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.running {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true

	for _, task := range s.tasks {
		s.wg.Add(1)
		go s.runTask(ctx, task)
	}

	s.logger.Info("Scheduler started with %d tasks", len(s.tasks))
}

// Stop cancels all tasks and waits for running ones to return
func (s *Scheduler) Stop() {
	s.mutex.Lock()
	if !s.running {
		s.mutex.Unlock()
		return
	}
	s.cancel()
	s.running = false
	s.mutex.Unlock()

	s.wg.Wait()
	s.logger.Info("Scheduler stopped")
}

// Wait blocks until every task has returned
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// Runs returns how many times the named task has run
func (s *Scheduler) Runs(name string) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.runs[name]
}

func (s *Scheduler) execute(ctx context.Context, task *Task) {
	start := time.Now()
	err := task.Fn(ctx)

	s.mutex.Lock()
	s.runs[task.Name]++
	s.mutex.Unlock()

	if err != nil {
		s.logger.Error("Error running task %s: %v", task.Name, err)
		return
	}
	s.logger.Debug("Task %s finished in %s", task.Name, time.Since(start).Round(time.Millisecond))
}

// runTask runs a task at the specified interval
func (s *Scheduler) runTask(ctx context.Context, task *Task) {
	defer s.wg.Done()

	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	s.logger.Info("Running task %s immediately on startup", task.Name)
	s.execute(ctx, task)

	for {
		select {
		case <-ticker.C:
			s.logger.Info("Running scheduled task: %s", task.Name)
			s.execute(ctx, task)
		case <-ctx.Done():
			s.logger.Info("Task %s stopped", task.Name)
			return
		}
	}
}
