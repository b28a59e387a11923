package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Law-sys/subcontractor-pre-qual/constants"
	"github.com/Law-sys/subcontractor-pre-qual/internal/common"
	"github.com/Law-sys/subcontractor-pre-qual/internal/entity"
)

// CreateDocumentFileInput carries the metadata recorded for an uploaded or
// ingested document.
type CreateDocumentFileInput struct {
	SubmissionID uuid.UUID
	DocumentType constants.DocumentType
	SourcePath   string
	Filename     string
	FileExt      string
	FileSize     int64
	ContentHash  string
}

// DocumentFileRepository persists document file metadata.
type DocumentFileRepository interface {
	Create(ctx context.Context, in CreateDocumentFileInput) (*entity.DocumentFile, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.DocumentFile, error)
	// FindByHash returns the existing record for a submission/hash pair so
	// repeated drops of the same file do not create duplicates.
	FindByHash(ctx context.Context, submissionID uuid.UUID, contentHash string) (*entity.DocumentFile, error)
	ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]*entity.DocumentFile, error)
}

type documentFileRepository struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewDocumentFileRepository creates a DocumentFileRepository backed by db.
func NewDocumentFileRepository(db *sql.DB, logger *slog.Logger) DocumentFileRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &documentFileRepository{db: db, logger: logger, now: time.Now}
}

func (r *documentFileRepository) Create(ctx context.Context, in CreateDocumentFileInput) (*entity.DocumentFile, error) {
	if in.Filename == "" {
		return nil, common.NewAppError("INVALID_INPUT", "filename is required", common.ErrInvalidInput)
	}
	doc := &entity.DocumentFile{
		ID:           uuid.New(),
		SubmissionID: in.SubmissionID,
		DocumentType: in.DocumentType,
		SourcePath:   in.SourcePath,
		Filename:     in.Filename,
		FileExt:      in.FileExt,
		FileSize:     in.FileSize,
		ContentHash:  in.ContentHash,
		UploadedAt:   r.now().UTC(),
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO document_files
		   (id, submission_id, document_type, source_path, filename, file_ext, file_size, content_hash, uploaded_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		doc.ID.String(), doc.SubmissionID.String(), string(doc.DocumentType), doc.SourcePath,
		doc.Filename, doc.FileExt, doc.FileSize, doc.ContentHash, formatTime(doc.UploadedAt))
	if err != nil {
		r.logger.Error("failed to record document file", "filename", in.Filename, "error", err)
		return nil, common.WrapError(err, "create document file")
	}
	r.logger.Info("document file recorded",
		"file_id", doc.ID, "submission_id", doc.SubmissionID, "filename", doc.Filename)
	return doc, nil
}

func (r *documentFileRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.DocumentFile, error) {
	row := r.db.QueryRowContext(ctx, selectDocumentFile+` WHERE id = $1`, id.String())
	doc, err := scanDocumentFile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewAppError("NOT_FOUND", fmt.Sprintf("document file %s not found", id), common.ErrNotFound)
	}
	if err != nil {
		return nil, common.WrapError(err, "get document file")
	}
	return doc, nil
}

func (r *documentFileRepository) FindByHash(ctx context.Context, submissionID uuid.UUID, contentHash string) (*entity.DocumentFile, error) {
	row := r.db.QueryRowContext(ctx,
		selectDocumentFile+` WHERE submission_id = $1 AND content_hash = $2`,
		submissionID.String(), contentHash)
	doc, err := scanDocumentFile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, common.WrapError(err, "find document file by hash")
	}
	return doc, nil
}

func (r *documentFileRepository) ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]*entity.DocumentFile, error) {
	rows, err := r.db.QueryContext(ctx,
		selectDocumentFile+` WHERE submission_id = $1 ORDER BY uploaded_at`, submissionID.String())
	if err != nil {
		return nil, common.WrapError(err, "list document files")
	}
	defer rows.Close()

	var out []*entity.DocumentFile
	for rows.Next() {
		doc, err := scanDocumentFile(rows)
		if err != nil {
			return nil, common.WrapError(err, "scan document file")
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

const selectDocumentFile = `SELECT id, submission_id, document_type, source_path, filename, file_ext, file_size, content_hash, uploaded_at
 FROM document_files`

func scanDocumentFile(row rowScanner) (*entity.DocumentFile, error) {
	var (
		idStr, subStr, docType    string
		sourcePath, filename, ext string
		size                      int64
		contentHash, uploadedAt   string
	)
	if err := row.Scan(&idStr, &subStr, &docType, &sourcePath, &filename, &ext, &size, &contentHash, &uploadedAt); err != nil {
		return nil, err
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse document id: %w", err)
	}
	subID, err := uuid.Parse(subStr)
	if err != nil {
		return nil, fmt.Errorf("parse submission id: %w", err)
	}
	return &entity.DocumentFile{
		ID:           id,
		SubmissionID: subID,
		DocumentType: constants.DocumentType(docType),
		SourcePath:   sourcePath,
		Filename:     filename,
		FileExt:      ext,
		FileSize:     size,
		ContentHash:  contentHash,
		UploadedAt:   parseTime(uploadedAt),
	}, nil
}
