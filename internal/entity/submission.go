package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/Law-sys/subcontractor-pre-qual/constants"
)

// Submission is one contractor's pre-qualification package.
type Submission struct {
	ID             uuid.UUID       `json:"id"`
	ContractorName string          `json:"contractor_name"`
	FormData       json.RawMessage `json:"form_data,omitempty"`
	Score          *ScoreBreakdown `json:"score,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// DocumentFile represents an uploaded document for data transfer between layers.
type DocumentFile struct {
	ID           uuid.UUID              `json:"id"`
	SubmissionID uuid.UUID              `json:"submission_id"`
	DocumentType constants.DocumentType `json:"document_type"`
	SourcePath   string                 `json:"source_path"`
	Filename     string                 `json:"filename"`
	FileExt      string                 `json:"file_ext"`
	FileSize     int64                  `json:"file_size"`
	ContentHash  string                 `json:"content_hash"`
	UploadedAt   time.Time              `json:"uploaded_at"`
}

// AnalysisJob tracks one document's trip through the pipeline.
type AnalysisJob struct {
	ID           uuid.UUID           `json:"id"`
	FileID       uuid.UUID           `json:"file_id"`
	SubmissionID uuid.UUID           `json:"submission_id"`
	Format       string              `json:"format"`
	Status       constants.JobStatus `json:"status"`
	StartedAt    time.Time           `json:"started_at"`
	FinishedAt   *time.Time          `json:"finished_at,omitempty"`
	ErrorMessage string              `json:"error_message,omitempty"`
	Confidence   float64             `json:"confidence,omitempty"`
	ResultJSON   json.RawMessage     `json:"result_json,omitempty"`
}
