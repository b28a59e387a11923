package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Law-sys/subcontractor-pre-qual/constants"
	"github.com/Law-sys/subcontractor-pre-qual/internal/async"
	"github.com/Law-sys/subcontractor-pre-qual/internal/common"
	"github.com/Law-sys/subcontractor-pre-qual/internal/repository"
)

// IngestionResult is the per-file ingest outcome.
type IngestionResult struct {
	SourcePath   string
	FileID       string
	DocumentType constants.DocumentType
	Deduplicated bool
	HashHex      string
	FileExt      string
	UploadedAt   time.Time
	Err          string
}

// DirStats summarizes a directory ingest.
type DirStats struct {
	Scanned      uint32
	Matched      uint32
	Succeeded    uint32
	Deduplicated uint32
	Failed       uint32
}

// Ingestor is the behavior the watcher and server depend on.
type Ingestor interface {
	IngestPath(ctx context.Context, submissionID uuid.UUID, path string) (IngestionResult, error)
	IngestDirectory(ctx context.Context, submissionID uuid.UUID, root string, skipHidden bool) ([]IngestionResult, DirStats, error)
}

// FSIngestor reads documents from the local filesystem, records them, and
// queues them for analysis.
type FSIngestor struct {
	Submissions repository.SubmissionRepository
	Files       repository.DocumentFileRepository
	Queue       async.Queue
	Logger      *slog.Logger
}

func NewFSIngestor(subs repository.SubmissionRepository, files repository.DocumentFileRepository, queue async.Queue, logger *slog.Logger) *FSIngestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &FSIngestor{Submissions: subs, Files: files, Queue: queue, Logger: logger}
}

func (i *FSIngestor) IngestPath(ctx context.Context, submissionID uuid.UUID, path string) (IngestionResult, error) {
	var out IngestionResult

	abs, err := filepath.Abs(path)
	if err != nil {
		return out, fmt.Errorf("abs path: %w", err)
	}

	ext := constants.NormalizeExt(filepath.Ext(abs))
	if ext == "" || !constants.IsAllowedExt(ext) {
		return out, fmt.Errorf("unsupported or missing extension: %q", ext)
	}

	if _, err := i.Submissions.GetByID(ctx, submissionID); err != nil {
		return out, fmt.Errorf("check submission: %w", err)
	}

	f, err := os.Open(abs)
	if err != nil {
		return out, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return out, fmt.Errorf("stat: %w", err)
	}

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return out, fmt.Errorf("hash: %w", err)
	}
	hexHash := hex.EncodeToString(h.Sum(nil))
	docType := GuessDocumentType(filepath.Base(abs))

	if existing, err := i.Files.FindByHash(ctx, submissionID, hexHash); err == nil {
		i.Logger.Info("document deduplicated", "path", abs, "file_id", existing.ID)
		return IngestionResult{
			SourcePath:   existing.SourcePath,
			FileID:       existing.ID.String(),
			DocumentType: existing.DocumentType,
			Deduplicated: true,
			HashHex:      hexHash,
			FileExt:      existing.FileExt,
			UploadedAt:   existing.UploadedAt,
		}, nil
	} else if !errors.Is(err, common.ErrNotFound) {
		return out, err
	}

	row, err := i.Files.Create(ctx, repository.CreateDocumentFileInput{
		SubmissionID: submissionID,
		DocumentType: docType,
		SourcePath:   abs,
		Filename:     filepath.Base(abs),
		FileExt:      ext,
		FileSize:     st.Size(),
		ContentHash:  hexHash,
	})
	if err != nil {
		return out, err
	}

	if i.Queue != nil {
		job := async.Job{
			FileID:       row.ID,
			SubmissionID: submissionID,
			DocumentType: docType,
			SubmittedAt:  time.Now().UTC(),
		}
		if err := i.Queue.Enqueue(ctx, job); err != nil {
			i.Logger.Error("failed to enqueue analysis job", "file_id", row.ID, "error", err)
		}
	}

	return IngestionResult{
		SourcePath:   row.SourcePath,
		FileID:       row.ID.String(),
		DocumentType: docType,
		HashHex:      hexHash,
		FileExt:      row.FileExt,
		UploadedAt:   row.UploadedAt,
	}, nil
}

// IngestDirectory walks root, skips hidden entries if requested, and calls
// IngestPath for each matching file. Returns per-file results + aggregate stats.
func (i *FSIngestor) IngestDirectory(ctx context.Context, submissionID uuid.UUID, root string, skipHidden bool) ([]IngestionResult, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root_path is required")
	}

	var results []IngestionResult
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		stats.Scanned++
		if walkErr != nil {
			results = append(results, IngestionResult{SourcePath: path, Err: walkErr.Error()})
			stats.Failed++
			return nil
		}
		if skipHidden && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !constants.IsAllowedExt(constants.NormalizeExt(filepath.Ext(path))) {
			return nil
		}
		stats.Matched++

		r, err := i.IngestPath(ctx, submissionID, path)
		if err != nil {
			results = append(results, IngestionResult{SourcePath: path, Err: err.Error()})
			stats.Failed++
			return nil
		}

		results = append(results, r)
		stats.Succeeded++
		if r.Deduplicated {
			stats.Deduplicated++
		}
		return nil
	})

	if err != nil {
		return results, stats, fmt.Errorf("walk: %w", err)
	}
	return results, stats, nil
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
