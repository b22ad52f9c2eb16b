// Package jobs defines the asynchronous import job model and the
// publisher/consumer/store abstractions over it. The only job type today is
// the CSV statement import; everything else in the pipeline runs
// synchronously inside the request.
package jobs

import (
	"context"
	"time"
)

// JobType represents the type of job to be executed.
type JobType string

const (
	JobTypeImportStatement JobType = "import_statement"
)

// JobStatus represents the current status of a job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusRetrying  JobStatus = "retrying"
)

// ImportStatementJob carries one CSV statement upload through the worker.
// CSV holds the raw request body; Imported/Skipped are filled in by the
// worker on completion.
type ImportStatementJob struct {
	JobID     string    `json:"job_id"`
	UserID    string    `json:"user_id"`
	AccountID string    `json:"account_id"`
	CSV       []byte    `json:"-"`
	Status    JobStatus `json:"status"`

	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`

	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Error      string `json:"error,omitempty"`
	RetryCount int    `json:"retry_count"`
	MaxRetries int    `json:"max_retries"`
}

// Job is the generic interface over all job types.
type Job interface {
	GetID() string
	GetType() JobType
	GetStatus() JobStatus
}

func (j *ImportStatementJob) GetID() string        { return j.JobID }
func (j *ImportStatementJob) GetType() JobType     { return JobTypeImportStatement }
func (j *ImportStatementJob) GetStatus() JobStatus { return j.Status }

// Publisher enqueues jobs. The abstraction leaves room for an external
// queue later; today there is only the in-memory implementation.
type Publisher interface {
	PublishImport(ctx context.Context, job *ImportStatementJob) error
	Close() error
}

// Consumer drains the queue, calling the handler for each job.
type Consumer interface {
	Start(ctx context.Context, handler JobHandler) error
	Stop(ctx context.Context) error
}

// JobHandler processes one job; a returned error triggers a retry.
type JobHandler func(ctx context.Context, job Job) error

// JobStore tracks job state so clients can poll import progress.
type JobStore interface {
	SaveJob(ctx context.Context, job *ImportStatementJob) error
	GetJob(ctx context.Context, jobID string) (*ImportStatementJob, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]*ImportStatementJob, error)
}

// JobFilter restricts ListJobs output.
type JobFilter struct {
	UserID string
	Status JobStatus
	Limit  int
	Offset int
}
