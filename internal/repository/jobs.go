package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Law-sys/subcontractor-pre-qual/constants"
	"github.com/Law-sys/subcontractor-pre-qual/internal/common"
	"github.com/Law-sys/subcontractor-pre-qual/internal/entity"
)

// AnalysisJobRepository tracks the lifecycle of document analysis runs.
type AnalysisJobRepository interface {
	Start(ctx context.Context, fileID, submissionID uuid.UUID, format string) (*entity.AnalysisJob, error)
	MarkRunning(ctx context.Context, id uuid.UUID) error
	FinishSuccess(ctx context.Context, id uuid.UUID, confidence float64, result json.RawMessage) error
	FinishFailure(ctx context.Context, id uuid.UUID, errMessage string) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.AnalysisJob, error)
	ListByFile(ctx context.Context, fileID uuid.UUID) ([]*entity.AnalysisJob, error)
}

type analysisJobRepository struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewAnalysisJobRepository creates an AnalysisJobRepository backed by db.
func NewAnalysisJobRepository(db *sql.DB, logger *slog.Logger) AnalysisJobRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &analysisJobRepository{db: db, logger: logger, now: time.Now}
}

func (r *analysisJobRepository) Start(ctx context.Context, fileID, submissionID uuid.UUID, format string) (*entity.AnalysisJob, error) {
	job := &entity.AnalysisJob{
		ID:           uuid.New(),
		FileID:       fileID,
		SubmissionID: submissionID,
		Format:       format,
		Status:       constants.JobStatusQueued,
		StartedAt:    r.now().UTC(),
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO analysis_jobs (id, file_id, submission_id, format, status, started_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		job.ID.String(), fileID.String(), submissionID.String(), format,
		string(job.Status), formatTime(job.StartedAt))
	if err != nil {
		r.logger.Error("failed to start analysis job", "file_id", fileID, "error", err)
		return nil, common.WrapError(err, "start analysis job")
	}
	r.logger.Info("analysis job queued", "job_id", job.ID, "file_id", fileID)
	return job, nil
}

func (r *analysisJobRepository) MarkRunning(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE analysis_jobs SET status = $1 WHERE id = $2`,
		string(constants.JobStatusRunning), id.String())
	if err != nil {
		return common.WrapError(err, "mark job running")
	}
	return nil
}

func (r *analysisJobRepository) FinishSuccess(ctx context.Context, id uuid.UUID, confidence float64, result json.RawMessage) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE analysis_jobs
		 SET status = $1, finished_at = $2, confidence = $3, result_json = $4, error_message = NULL
		 WHERE id = $5`,
		string(constants.JobStatusAnalyzed), formatTime(r.now().UTC()), confidence, string(result), id.String())
	if err != nil {
		return common.WrapError(err, "finish analysis job")
	}
	r.logger.Info("analysis job finished", "job_id", id, "confidence", confidence)
	return nil
}

func (r *analysisJobRepository) FinishFailure(ctx context.Context, id uuid.UUID, errMessage string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE analysis_jobs SET status = $1, finished_at = $2, error_message = $3 WHERE id = $4`,
		string(constants.JobStatusFailed), formatTime(r.now().UTC()), errMessage, id.String())
	if err != nil {
		return common.WrapError(err, "fail analysis job")
	}
	r.logger.Warn("analysis job failed", "job_id", id, "error_message", errMessage)
	return nil
}

func (r *analysisJobRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.AnalysisJob, error) {
	row := r.db.QueryRowContext(ctx, selectAnalysisJob+` WHERE id = $1`, id.String())
	job, err := scanAnalysisJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewAppError("NOT_FOUND", fmt.Sprintf("analysis job %s not found", id), common.ErrNotFound)
	}
	if err != nil {
		return nil, common.WrapError(err, "get analysis job")
	}
	return job, nil
}

func (r *analysisJobRepository) ListByFile(ctx context.Context, fileID uuid.UUID) ([]*entity.AnalysisJob, error) {
	rows, err := r.db.QueryContext(ctx,
		selectAnalysisJob+` WHERE file_id = $1 ORDER BY started_at`, fileID.String())
	if err != nil {
		return nil, common.WrapError(err, "list analysis jobs")
	}
	defer rows.Close()

	var out []*entity.AnalysisJob
	for rows.Next() {
		job, err := scanAnalysisJob(rows)
		if err != nil {
			return nil, common.WrapError(err, "scan analysis job")
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

const selectAnalysisJob = `SELECT id, file_id, submission_id, format, status, started_at, finished_at, error_message, confidence, result_json
 FROM analysis_jobs`

func scanAnalysisJob(row rowScanner) (*entity.AnalysisJob, error) {
	var (
		idStr, fileStr, subStr string
		format, status         string
		startedAt              string
		finishedAt, errMsg     sql.NullString
		confidence             sql.NullFloat64
		resultJSON             sql.NullString
	)
	if err := row.Scan(&idStr, &fileStr, &subStr, &format, &status, &startedAt, &finishedAt, &errMsg, &confidence, &resultJSON); err != nil {
		return nil, err
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse job id: %w", err)
	}
	fileID, err := uuid.Parse(fileStr)
	if err != nil {
		return nil, fmt.Errorf("parse file id: %w", err)
	}
	subID, err := uuid.Parse(subStr)
	if err != nil {
		return nil, fmt.Errorf("parse submission id: %w", err)
	}
	job := &entity.AnalysisJob{
		ID:           id,
		FileID:       fileID,
		SubmissionID: subID,
		Format:       format,
		Status:       constants.JobStatus(status),
		StartedAt:    parseTime(startedAt),
	}
	if finishedAt.Valid && finishedAt.String != "" {
		t := parseTime(finishedAt.String)
		job.FinishedAt = &t
	}
	if errMsg.Valid {
		job.ErrorMessage = errMsg.String
	}
	if confidence.Valid {
		job.Confidence = confidence.Float64
	}
	if resultJSON.Valid && resultJSON.String != "" {
		job.ResultJSON = json.RawMessage(resultJSON.String)
	}
	return job, nil
}
