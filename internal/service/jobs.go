package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/llm-exam-tester/backend/internal/domain/exam"
	"github.com/llm-exam-tester/backend/internal/domain/run"
	"github.com/llm-exam-tester/backend/internal/id"
	"github.com/llm-exam-tester/backend/internal/store"
	"github.com/llm-exam-tester/backend/internal/worker"
)

var ErrJobNotFound = errors.New("job not found")

type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// Job is a snapshot of one asynchronous run.
type Job struct {
	ID         string
	Model      string
	Status     JobStatus
	Progress   Progress
	RunID      string
	Error      string
	CreatedAt  time.Time
	FinishedAt time.Time
}

// Done reports whether the job has reached a terminal status.
func (j Job) Done() bool {
	return j.Status == JobCompleted || j.Status == JobFailed
}

type jobOutcome struct {
	report *run.Report
	err    error
}

type jobEntry struct {
	job  Job
	subs []chan Progress
	done chan struct{}
}

// JobService runs exams in the background on a worker pool and persists
// each finished run. It owns job state so the store stays a pure
// persistence layer.
type JobService struct {
	runner *Runner
	store  store.Store
	logger *slog.Logger
	pool   *worker.Pool[jobOutcome]

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.RWMutex
	jobs      map[string]*jobEntry
	collected chan struct{}
}

// NewJobService starts workers goroutines executing runs.
func NewJobService(r *Runner, s store.Store, logger *slog.Logger, workers int) *JobService {
	ctx, cancel := context.WithCancel(context.Background())
	js := &JobService{
		runner:    r,
		store:     s,
		logger:    logger,
		pool:      worker.NewPool[jobOutcome](workers, 64),
		ctx:       ctx,
		cancel:    cancel,
		jobs:      make(map[string]*jobEntry),
		collected: make(chan struct{}),
	}
	go js.collect()
	return js
}

// Submit queues a run of e against model and returns the queued job.
func (js *JobService) Submit(model string, e *exam.Exam) (Job, error) {
	entry := &jobEntry{
		job: Job{
			ID:        id.GenerateID(),
			Model:     model,
			Status:    JobQueued,
			Progress:  Progress{Model: model, Total: e.Len(), Status: "Queued"},
			CreatedAt: time.Now(),
		},
		done: make(chan struct{}),
	}
	queued := entry.job
	jobID := queued.ID

	js.mu.Lock()
	js.jobs[jobID] = entry
	js.mu.Unlock()

	err := js.pool.Submit(jobID, func() jobOutcome {
		js.setStatus(jobID, JobRunning)
		report, err := js.runner.Run(js.ctx, model, e, ProgressFunc(func(p Progress) {
			js.publish(jobID, p)
		}))
		return jobOutcome{report: report, err: err}
	})
	if err != nil {
		js.mu.Lock()
		delete(js.jobs, jobID)
		js.mu.Unlock()
		return Job{}, err
	}

	js.logger.Info("job queued", "job_id", jobID, "model", model)
	return queued, nil
}

// Get returns the current snapshot of a job.
func (js *JobService) Get(jobID string) (Job, error) {
	js.mu.RLock()
	defer js.mu.RUnlock()
	entry, ok := js.jobs[jobID]
	if !ok {
		return Job{}, ErrJobNotFound
	}
	return entry.job, nil
}

// Subscribe returns a channel receiving the job's progress events. The
// channel is closed when the job finishes; it is closed immediately for a
// job that is already done. Slow subscribers miss events rather than
// stalling the run. The returned func unsubscribes.
func (js *JobService) Subscribe(jobID string) (<-chan Progress, func(), error) {
	js.mu.Lock()
	defer js.mu.Unlock()

	entry, ok := js.jobs[jobID]
	if !ok {
		return nil, nil, ErrJobNotFound
	}

	ch := make(chan Progress, 16)
	if entry.job.Done() {
		close(ch)
		return ch, func() {}, nil
	}
	entry.subs = append(entry.subs, ch)

	unsubscribe := func() {
		js.mu.Lock()
		defer js.mu.Unlock()
		for i, sub := range entry.subs {
			if sub == ch {
				entry.subs = append(entry.subs[:i], entry.subs[i+1:]...)
				close(ch)
				return
			}
		}
	}
	return ch, unsubscribe, nil
}

// Wait blocks until the job finishes or ctx is done.
func (js *JobService) Wait(ctx context.Context, jobID string) (Job, error) {
	js.mu.RLock()
	entry, ok := js.jobs[jobID]
	js.mu.RUnlock()
	if !ok {
		return Job{}, ErrJobNotFound
	}

	select {
	case <-entry.done:
		return js.Get(jobID)
	case <-ctx.Done():
		return Job{}, ctx.Err()
	}
}

// Close cancels running jobs, drains the pool and waits until every
// outcome has been recorded.
func (js *JobService) Close() {
	js.cancel()
	js.pool.Close()
	<-js.collected
}

func (js *JobService) setStatus(jobID string, status JobStatus) {
	js.mu.Lock()
	defer js.mu.Unlock()
	if entry, ok := js.jobs[jobID]; ok {
		entry.job.Status = status
		entry.job.Progress.Status = "Running"
	}
}

func (js *JobService) publish(jobID string, p Progress) {
	js.mu.Lock()
	defer js.mu.Unlock()
	entry, ok := js.jobs[jobID]
	if !ok {
		return
	}
	entry.job.Progress = p
	for _, sub := range entry.subs {
		select {
		case sub <- p:
		default:
		}
	}
}

// collect persists finished runs and settles job status.
// It uses context.Background so a shutdown never drops a completed run.
func (js *JobService) collect() {
	defer close(js.collected)

	for res := range js.pool.Results() {
		out := res.Output
		log := js.logger.With("job_id", res.JobID)

		err := out.err
		if err == nil {
			err = js.store.AppendRun(context.Background(), out.report)
		}
		if err != nil {
			log.Error("job failed", "error", err)
		} else {
			log.Info("job completed", "run_id", out.report.ID, "score", out.report.Score)
		}

		js.finish(res.JobID, out.report, err)
	}
}

func (js *JobService) finish(jobID string, report *run.Report, err error) {
	js.mu.Lock()
	defer js.mu.Unlock()

	entry, ok := js.jobs[jobID]
	if !ok {
		return
	}
	entry.job.FinishedAt = time.Now()
	if err != nil {
		entry.job.Status = JobFailed
		entry.job.Error = err.Error()
		entry.job.Progress.Status = "Failed"
	} else {
		entry.job.Status = JobCompleted
		entry.job.RunID = report.ID
		entry.job.Progress.Status = "Completed"
	}

	for _, sub := range entry.subs {
		close(sub)
	}
	entry.subs = nil
	close(entry.done)
}
