package printer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobStatus is the lifecycle state of a queued print job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusPrinting  JobStatus = "printing"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Job is one encoded payload waiting for, or after, delivery.
type Job struct {
	ID        string    `json:"id"`
	PrinterID string    `json:"printer_id"`
	Payload   []byte    `json:"-"`
	Size      int       `json:"size"`
	Retries   int       `json:"retries"`
	Status    JobStatus `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Queue delivers jobs to printers in order, retrying failures up to a
// limit before marking the job failed.
type Queue struct {
	jobs       []*Job
	mu         sync.Mutex
	pool       *Pool
	manager    *Manager
	log        *zap.Logger
	maxRetries int
	onUpdate   func(Job)
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

// NewQueue creates a queue and starts its delivery worker.
func NewQueue(pool *Pool, manager *Manager, maxRetries int, log *zap.Logger) *Queue {
	ctx, cancel := context.WithCancel(context.Background())

	q := &Queue{
		pool:       pool,
		manager:    manager,
		log:        log,
		maxRetries: maxRetries,
		ctx:        ctx,
		cancel:     cancel,
	}

	q.wg.Add(1)
	go q.worker()

	return q
}

// OnUpdate registers a callback fired with a snapshot of a job after
// every status change. Set it before the first Enqueue.
func (q *Queue) OnUpdate(callback func(Job)) {
	q.mu.Lock()
	q.onUpdate = callback
	q.mu.Unlock()
}

// notify must be called with q.mu held.
func (q *Queue) notify(job *Job) {
	if q.onUpdate == nil {
		return
	}
	cp := *job
	cp.Payload = nil
	go q.onUpdate(cp)
}

// Enqueue adds an encoded payload for delivery and returns the job ID.
func (q *Queue) Enqueue(printerID string, payload []byte) string {
	q.mu.Lock()
	defer q.mu.Unlock()

	job := &Job{
		ID:        uuid.New().String(),
		PrinterID: printerID,
		Payload:   payload,
		Size:      len(payload),
		Status:    StatusQueued,
		CreatedAt: time.Now(),
	}
	q.jobs = append(q.jobs, job)
	q.notify(job)

	q.log.Info("job enqueued",
		zap.String("job_id", job.ID),
		zap.String("printer_id", printerID),
		zap.Int("bytes", job.Size))

	return job.ID
}

func (q *Queue) worker() {
	defer q.wg.Done()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-q.ctx.Done():
			return
		case <-ticker.C:
			q.processNext()
		}
	}
}

func (q *Queue) processNext() {
	q.mu.Lock()
	var job *Job
	for _, j := range q.jobs {
		if j.Status == StatusQueued {
			job = j
			job.Status = StatusPrinting
			q.notify(job)
			break
		}
	}
	q.mu.Unlock()

	if job == nil {
		return
	}

	err := q.deliver(job)

	q.mu.Lock()
	defer q.mu.Unlock()

	if err != nil {
		job.Retries++
		job.Error = err.Error()

		if job.Retries >= q.maxRetries {
			job.Status = StatusFailed
			q.notify(job)
			q.log.Error("job failed",
				zap.String("job_id", job.ID),
				zap.Int("retries", job.Retries),
				zap.Error(err))
		} else {
			job.Status = StatusQueued
			q.notify(job)
			q.log.Warn("job retrying",
				zap.String("job_id", job.ID),
				zap.Int("attempt", job.Retries),
				zap.Int("max", q.maxRetries),
				zap.Error(err))
		}
		return
	}

	job.Status = StatusCompleted
	job.Error = ""
	q.notify(job)
	q.log.Info("job completed", zap.String("job_id", job.ID))
}

func (q *Queue) deliver(job *Job) error {
	if !q.pool.IsConnected(job.PrinterID) {
		pr := q.manager.Get(job.PrinterID)
		if pr == nil {
			return fmt.Errorf("printer not found: %s", job.PrinterID)
		}
		if err := q.pool.Connect(pr); err != nil {
			return fmt.Errorf("failed to connect to printer: %w", err)
		}
	}

	return q.pool.Send(job.PrinterID, job.Payload)
}

// Job returns a copy of the job with the given ID, or nil.
func (q *Queue) Job(jobID string) *Job {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, job := range q.jobs {
		if job.ID == jobID {
			cp := *job
			return &cp
		}
	}
	return nil
}

// Jobs returns copies of every tracked job.
func (q *Queue) Jobs() []*Job {
	q.mu.Lock()
	defer q.mu.Unlock()

	jobs := make([]*Job, len(q.jobs))
	for i, job := range q.jobs {
		cp := *job
		jobs[i] = &cp
	}
	return jobs
}

// ClearCompleted drops completed jobs from the history.
func (q *Queue) ClearCompleted() {
	q.mu.Lock()
	defer q.mu.Unlock()

	kept := q.jobs[:0]
	for _, job := range q.jobs {
		if job.Status != StatusCompleted {
			kept = append(kept, job)
		}
	}
	q.jobs = kept
}

// Stop halts the delivery worker and waits for it to exit.
func (q *Queue) Stop() {
	q.cancel()
	q.wg.Wait()
}
