package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/Law-sys/subcontractor-pre-qual/internal/entity"
	"github.com/Law-sys/subcontractor-pre-qual/internal/repository"
)

// Service is a tiny façade over repositories that produces XLSX bytes for
// qualification scorecards.
type Service struct {
	submissions repository.SubmissionRepository
	files       repository.DocumentFileRepository
	jobs        repository.AnalysisJobRepository
	logger      *slog.Logger
}

func NewService(subs repository.SubmissionRepository, files repository.DocumentFileRepository, jobs repository.AnalysisJobRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{submissions: subs, files: files, jobs: jobs, logger: logger}
}

// ExportScorecardXLSX returns an XLSX workbook (as bytes) summarizing one
// submission: overall qualification, per-category scores, and the documents
// that went into the analysis.
func (s *Service) ExportScorecardXLSX(ctx context.Context, submissionID uuid.UUID) ([]byte, error) {
	start := time.Now()

	sub, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("query submission: %w", err)
	}
	docs, err := s.files.ListBySubmission(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Scorecard"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	// Drop the default sheet so the workbook opens on the scorecard.
	if index, _ := f.GetSheetIndex("Sheet1"); index != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	write(1, 1, "Contractor")
	write(2, 1, sub.ContractorName)
	write(1, 2, "Submitted")
	write(2, 2, sub.CreatedAt.Format("2006-01-02"))

	row := 4
	if sub.Score != nil {
		write(1, row, "Overall Score")
		write(2, row, sub.Score.OverallScore)
		row++
		write(1, row, "Qualification")
		write(2, row, string(sub.Score.Qualification))
		row++
		write(1, row, "Summary")
		write(2, row, truncate(sub.Score.QualificationDescription, 140))
		row += 2

		write(1, row, "Category")
		write(2, row, "Score")
		row++
		for _, cat := range categoryOrder {
			score, ok := sub.Score.CategoryScores[cat.key]
			if !ok {
				continue
			}
			write(1, row, cat.label)
			write(2, row, score)
			row++
		}
		if len(sub.Score.Recommendations) > 0 {
			row++
			write(1, row, "Recommendations")
			row++
			for _, rec := range sub.Score.Recommendations {
				write(1, row, truncate(rec, 140))
				row++
			}
		}
	} else {
		write(1, row, "Overall Score")
		write(2, row, "not scored yet")
		row++
	}

	row++
	write(1, row, "Document")
	write(2, row, "Type")
	write(3, row, "Status")
	write(4, row, "Confidence")
	row++
	for _, doc := range docs {
		write(1, row, doc.Filename)
		write(2, row, string(doc.DocumentType))

		status, confidence := "pending", ""
		jobRows, err := s.jobs.ListByFile(ctx, doc.ID)
		if err == nil && len(jobRows) > 0 {
			last := jobRows[len(jobRows)-1]
			status = string(last.Status)
			if last.Confidence > 0 {
				confidence = fmt.Sprintf("%d%%", int(last.Confidence*100))
			}
		}
		write(3, row, status)
		write(4, row, confidence)
		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 36)
	_ = f.SetColWidth(sheet, "B", "B", 24)
	_ = f.SetColWidth(sheet, "C", "C", 14)
	_ = f.SetColWidth(sheet, "D", "D", 12)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"submission_id", submissionID.String(),
		"documents", len(docs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

var categoryOrder = []struct {
	key   string
	label string
}{
	{entity.CategoryCompanyInformation, "Company Information"},
	{entity.CategoryInsuranceBonding, "Insurance & Bonding"},
	{entity.CategorySafetyPerformance, "Safety Performance"},
	{entity.CategoryProjectExperience, "Project Experience"},
	{entity.CategoryFinancialStability, "Financial Stability"},
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
