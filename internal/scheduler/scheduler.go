// Package scheduler runs named tasks on fixed intervals from a frame loop.
// Tasks run synchronously inside Tick; nothing runs between ticks.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// TaskFunc performs one run of a task. now is the frame time.
type TaskFunc func(now time.Duration) error

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Option configures task registration.
type Option func(*config)

type config struct {
	delayed bool
	logged  bool
}

// Delayed makes the first run wait one interval instead of running on the
// first tick.
func Delayed() Option {
	return func(c *config) {
		c.delayed = true
	}
}

// Logged adds debug logging to the task.
func Logged() Option {
	return func(c *config) {
		c.logged = true
	}
}

type task struct {
	name     string
	interval time.Duration
	next     time.Duration
	fn       TaskFunc
	logged   bool
	runs     int
	attr     metric.MeasurementOption
}

// Scheduler polls its tasks in registration order.
type Scheduler struct {
	tasks  []*task
	byName map[string]*task
	logger Logger

	// OTEL metrics
	runCounter metric.Int64Counter
	errCounter metric.Int64Counter
	durations  metric.Float64Histogram
}

// New creates a Scheduler with the given logger.
// Uses the global OTel meter for metrics (no-op if not configured).
func New(logger Logger) (*Scheduler, error) {
	s := &Scheduler{
		byName: make(map[string]*task),
		logger: logger,
	}

	m := meter()

	var err error

	s.runCounter, err = m.Int64Counter(
		"scheduler.task.runs",
		metric.WithDescription("Total task runs"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating runs counter: %w", err)
	}

	s.errCounter, err = m.Int64Counter(
		"scheduler.task.errors",
		metric.WithDescription("Total task runs that returned an error"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating errors counter: %w", err)
	}

	s.durations, err = m.Float64Histogram(
		"scheduler.task.duration",
		metric.WithDescription("Task run duration"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	return s, nil
}

// Register adds a task. Registering a name twice replaces the earlier task
// but keeps its position.
func (s *Scheduler) Register(name string, interval time.Duration, fn TaskFunc, opts ...Option) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	t := &task{
		name:     name,
		interval: interval,
		fn:       fn,
		logged:   cfg.logged,
		attr:     metric.WithAttributes(attribute.String("task", name)),
	}
	if cfg.delayed {
		t.next = interval
	}

	if old, ok := s.byName[name]; ok {
		*old = *t
		return
	}
	s.byName[name] = t
	s.tasks = append(s.tasks, t)
}

// HasTask returns true if a task is registered under name.
func (s *Scheduler) HasTask(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Runs returns how many times name has run.
func (s *Scheduler) Runs(name string) int {
	if t, ok := s.byName[name]; ok {
		return t.runs
	}
	return 0
}

// Next returns when name is next due.
func (s *Scheduler) Next(name string) (time.Duration, bool) {
	t, ok := s.byName[name]
	if !ok {
		return 0, false
	}
	return t.next, true
}

// Trigger makes name due on the next tick.
func (s *Scheduler) Trigger(name string) error {
	t, ok := s.byName[name]
	if !ok {
		return fmt.Errorf("unknown task: %s", name)
	}
	t.next = 0
	return nil
}

// Tick runs every due task and returns their names in run order.
// A task is due when now has reached its next time; its next time then
// moves to now plus its interval, whether or not the run fails.
func (s *Scheduler) Tick(now time.Duration) []string {
	var ran []string
	for _, t := range s.tasks {
		if now < t.next {
			continue
		}
		t.next = now + t.interval
		s.run(t, now)
		ran = append(ran, t.name)
	}
	return ran
}

func (s *Scheduler) run(t *task, now time.Duration) {
	ctx := context.Background()
	start := time.Now()
	if t.logged && s.logger != nil {
		s.logger.Debug("running task", "task", t.name, "frameTime", now)
	}

	err := t.fn(now)
	elapsed := time.Since(start)
	t.runs++

	s.runCounter.Add(ctx, 1, t.attr)
	s.durations.Record(ctx, float64(elapsed.Microseconds())/1000, t.attr)

	if err != nil {
		s.errCounter.Add(ctx, 1, t.attr)
		if s.logger != nil {
			s.logger.Error("task failed", "task", t.name, "duration", elapsed, "error", err)
		}
		return
	}
	if t.logged && s.logger != nil {
		s.logger.Debug("task complete", "task", t.name, "duration", elapsed)
	}
}
