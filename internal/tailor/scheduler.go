package tailor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/resfit/resfit/internal/ai"
	"github.com/resfit/resfit/internal/document"
	"github.com/resfit/resfit/internal/logger"
)

const (
	// DefaultConcurrency bounds simultaneous section completions.
	DefaultConcurrency = 3
	// DefaultSectionTimeout bounds one section's completion.
	DefaultSectionTimeout = 2 * time.Minute
)

// Notifier receives human-readable progress messages.
type Notifier func(message string)

// Outcome is the terminal state of one task: tailored data, a not-relevant
// verdict (nil Data) or a failure. A failed section never fails the run.
type Outcome struct {
	Task Task
	Data any
	Err  error
}

// Scheduler runs tailoring tasks concurrently under a weighted semaphore, so
// waiting sections are admitted in submission order as slots free up.
type Scheduler struct {
	completer ai.Completer
	limit     int64
	timeout   time.Duration
	logger    *zap.Logger
	notify    Notifier
}

// Options tune the scheduler. Zero values pick the defaults.
type Options struct {
	Concurrency    int
	SectionTimeout time.Duration
	Logger         *zap.Logger
	Notify         Notifier
}

func NewScheduler(completer ai.Completer, opts Options) (*Scheduler, error) {
	if completer == nil {
		return nil, errors.New("tailor: completer is required")
	}

	limit := opts.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	timeout := opts.SectionTimeout
	if timeout <= 0 {
		timeout = DefaultSectionTimeout
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	notify := opts.Notify
	if notify == nil {
		notify = func(string) {}
	}

	return &Scheduler{
		completer: completer,
		limit:     int64(limit),
		timeout:   timeout,
		logger:    log,
		notify:    notify,
	}, nil
}

// Run tailors every task against the job posting and returns one outcome per
// task, in task order. It returns an error only when no work could start;
// individual section failures land in their outcomes.
func (s *Scheduler) Run(ctx context.Context, tasks []Task, job *document.JobPosting) ([]Outcome, error) {
	if job == nil {
		return nil, errors.New("tailor: job posting is required")
	}
	jobJSON, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("encoding job posting: %w", err)
	}

	s.notify(fmt.Sprintf("Tailoring %d sections (max %d concurrent)...", len(tasks), s.limit))

	sem := semaphore.NewWeighted(s.limit)
	outcomes := make([]Outcome, len(tasks))

	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcomes[i] = s.runTask(ctx, task, jobJSON, sem)
		}()
	}
	wg.Wait()

	return outcomes, nil
}

func (s *Scheduler) runTask(ctx context.Context, task Task, jobJSON []byte, sem *semaphore.Weighted) Outcome {
	outcome := Outcome{Task: task}

	if err := sem.Acquire(ctx, 1); err != nil {
		outcome.Err = fmt.Errorf("section %s not started: %w", task.Name, err)
		return outcome
	}
	defer sem.Release(1)

	log := logger.With(s.logger, logger.SectionField(task.Name))
	log.Info("tailoring section")

	taskCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	tag := strings.ToUpper(task.Name)
	user := fmt.Sprintf("<%s>\n%s\n</%s>\n\n<JOB_DESCRIPTION>\n%s\n</JOB_DESCRIPTION>",
		tag, task.payload, tag, jobJSON)

	raw, err := s.completer.Complete(taskCtx, ai.Request{
		System: task.system,
		User:   user,
		Schema: task.schema,
	})
	if err != nil {
		outcome.Err = fmt.Errorf("tailoring section %s: %w", task.Name, err)
		log.Warn("section tailoring failed, omitting it", zap.Error(err))
		s.notify(fmt.Sprintf("Section %q failed and will be omitted.", task.Name))
		return outcome
	}

	data, err := task.decode(raw)
	if err != nil {
		outcome.Err = fmt.Errorf("tailoring section %s: %w", task.Name, err)
		log.Warn("section result unreadable, omitting it", zap.Error(err))
		s.notify(fmt.Sprintf("Section %q failed and will be omitted.", task.Name))
		return outcome
	}

	if data == nil {
		log.Info("section judged not relevant, skipping")
		s.notify(fmt.Sprintf("Section %q is not relevant to this job, skipping.", task.Name))
		return outcome
	}

	log.Info("section tailored and included")
	s.notify(fmt.Sprintf("Section %q tailored and included.", task.Name))
	outcome.Data = data
	return outcome
}
