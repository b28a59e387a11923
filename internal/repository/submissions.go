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

	"github.com/Law-sys/subcontractor-pre-qual/internal/common"
	"github.com/Law-sys/subcontractor-pre-qual/internal/entity"
)

// SubmissionRepository persists contractor submissions and their scores.
type SubmissionRepository interface {
	Create(ctx context.Context, contractorName string) (*entity.Submission, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Submission, error)
	SaveFormData(ctx context.Context, id uuid.UUID, formData json.RawMessage) error
	SaveScore(ctx context.Context, id uuid.UUID, score *entity.ScoreBreakdown) error
	List(ctx context.Context, limit int) ([]*entity.Submission, error)
}

type submissionRepository struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewSubmissionRepository creates a SubmissionRepository backed by db.
func NewSubmissionRepository(db *sql.DB, logger *slog.Logger) SubmissionRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &submissionRepository{db: db, logger: logger, now: time.Now}
}

func (r *submissionRepository) Create(ctx context.Context, contractorName string) (*entity.Submission, error) {
	if contractorName == "" {
		return nil, common.NewAppError("INVALID_INPUT", "contractor name is required", common.ErrInvalidInput)
	}
	now := r.now().UTC()
	sub := &entity.Submission{
		ID:             uuid.New(),
		ContractorName: contractorName,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO submissions (id, contractor_name, form_data, score, created_at, updated_at)
		 VALUES ($1, $2, NULL, NULL, $3, $4)`,
		sub.ID.String(), sub.ContractorName, formatTime(now), formatTime(now))
	if err != nil {
		r.logger.Error("failed to create submission", "contractor", contractorName, "error", err)
		return nil, common.WrapError(err, "create submission")
	}
	r.logger.Info("submission created", "submission_id", sub.ID, "contractor", contractorName)
	return sub, nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Submission, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, contractor_name, form_data, score, created_at, updated_at
		 FROM submissions WHERE id = $1`, id.String())
	sub, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewAppError("NOT_FOUND", fmt.Sprintf("submission %s not found", id), common.ErrNotFound)
	}
	if err != nil {
		return nil, common.WrapError(err, "get submission")
	}
	return sub, nil
}

func (r *submissionRepository) SaveFormData(ctx context.Context, id uuid.UUID, formData json.RawMessage) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE submissions SET form_data = $1, updated_at = $2 WHERE id = $3`,
		string(formData), formatTime(r.now().UTC()), id.String())
	if err != nil {
		return common.WrapError(err, "save form data")
	}
	return requireRow(res, id)
}

func (r *submissionRepository) SaveScore(ctx context.Context, id uuid.UUID, score *entity.ScoreBreakdown) error {
	b, err := json.Marshal(score)
	if err != nil {
		return common.WrapError(err, "marshal score")
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE submissions SET score = $1, updated_at = $2 WHERE id = $3`,
		string(b), formatTime(r.now().UTC()), id.String())
	if err != nil {
		return common.WrapError(err, "save score")
	}
	return requireRow(res, id)
}

func (r *submissionRepository) List(ctx context.Context, limit int) ([]*entity.Submission, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, contractor_name, form_data, score, created_at, updated_at
		 FROM submissions ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, common.WrapError(err, "list submissions")
	}
	defer rows.Close()

	var out []*entity.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, common.WrapError(err, "scan submission")
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (*entity.Submission, error) {
	var (
		idStr, name          string
		formData, score      sql.NullString
		createdAt, updatedAt string
	)
	if err := row.Scan(&idStr, &name, &formData, &score, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse submission id: %w", err)
	}
	sub := &entity.Submission{
		ID:             id,
		ContractorName: name,
		CreatedAt:      parseTime(createdAt),
		UpdatedAt:      parseTime(updatedAt),
	}
	if formData.Valid && formData.String != "" {
		sub.FormData = json.RawMessage(formData.String)
	}
	if score.Valid && score.String != "" {
		var sb entity.ScoreBreakdown
		if err := json.Unmarshal([]byte(score.String), &sb); err != nil {
			return nil, fmt.Errorf("decode stored score: %w", err)
		}
		sub.Score = &sb
	}
	return sub, nil
}

func requireRow(res sql.Result, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return nil
	}
	if n == 0 {
		return common.NewAppError("NOT_FOUND", fmt.Sprintf("submission %s not found", id), common.ErrNotFound)
	}
	return nil
}
