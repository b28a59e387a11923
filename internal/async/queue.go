package async

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Law-sys/subcontractor-pre-qual/constants"
)

// Job is the smallest useful unit. Extend as needed later (priority, retry, etc).
type Job struct {
	FileID       uuid.UUID              `json:"file_id"`
	SubmissionID uuid.UUID              `json:"submission_id"`
	DocumentType constants.DocumentType `json:"document_type"`
	Force        bool                   `json:"force,omitempty"` // enqueue even if deduplicated
	SubmittedAt  time.Time              `json:"submitted_at"`
	TraceID      string                 `json:"trace_id,omitempty"`
}

// Queue hands analysis jobs from the API/ingest side to workers.
type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	// Subscribe delivers jobs to handler until ctx is cancelled, then drains.
	Subscribe(ctx context.Context, handler func(context.Context, Job) error) error
	Shutdown(ctx context.Context)
}
