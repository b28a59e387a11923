package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/Law-sys/subcontractor-pre-qual/constants"
	"github.com/Law-sys/subcontractor-pre-qual/internal/entity"
	"github.com/Law-sys/subcontractor-pre-qual/internal/extract"
	"github.com/Law-sys/subcontractor-pre-qual/internal/observability/metrics"
	"github.com/Law-sys/subcontractor-pre-qual/internal/ocr"
	"github.com/Law-sys/subcontractor-pre-qual/internal/risk"
	"github.com/Law-sys/subcontractor-pre-qual/internal/scoring"
	"github.com/Law-sys/subcontractor-pre-qual/internal/validate"
)

const serviceName = "analyzer"

// A document is marked overall invalid once this many issue strings have
// accumulated, regardless of individual stage outcomes.
const invalidIssueThreshold = 3

// Analyzer runs the single-document analysis pipeline: text acquisition,
// field extraction, validation, risk assessment and point allocation.
// It is safe for concurrent use; per-file analyses share no mutable state.
type Analyzer struct {
	acquirer *ocr.Acquirer
	logger   *slog.Logger
	metrics  *metrics.PipelineMetrics
	now      func() time.Time
}

func NewAnalyzer(acquirer *ocr.Acquirer, logger *slog.Logger, m *metrics.PipelineMetrics) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{acquirer: acquirer, logger: logger, metrics: m, now: time.Now}
}

// ProcessCOI runs the full certificate pipeline for one insurance document.
// Expected failure modes have already degraded inside acquisition; a panic
// here is an unexpected fault and is converted into a failure result plus a
// terminal error progress event, never propagated.
func (a *Analyzer) ProcessCOI(ctx context.Context, blob entity.Blob, progress entity.ProgressFunc) (result entity.COIAnalysisResult) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("coi pipeline fault", "file", blob.Name, "panic", r)
			progress.Emit(constants.StatusError, 0, "Processing failed")
			result = coiFailure(fmt.Sprintf("%v", r))
		}
	}()

	progress.Emit(constants.StatusProcessing, 5, "Starting COI analysis...")

	acq := a.acquirer.AcquireCOI(ctx, blob, progress)
	a.metrics.ObserveConfidence(serviceName, acq.Method, acq.Confidence)

	progress.Emit(constants.StatusProcessing, 60, "Extracting COI fields...")

	now := a.now()
	coi := extract.ExtractCOI(acq.Text, blob.Name, now)
	findings := validate.COI(coi, now)
	assessment := risk.Assess(coi, findings)

	progress.Emit(constants.StatusComplete, 100, "COI analysis complete!")

	return entity.COIAnalysisResult{
		Success:           true,
		Confidence:        acq.Confidence,
		RawText:           acq.Text,
		COIData:           coi,
		ExtractedFields:   extract.SummaryFields(coi),
		ValidationResults: findings,
		RiskAssessment:    assessment,
		ProcessingMethod:  acq.Method,
	}
}

// ProcessDocument runs the generic pipeline for non-insurance documents.
func (a *Analyzer) ProcessDocument(ctx context.Context, blob entity.Blob, documentType constants.DocumentType, progress entity.ProgressFunc) (result entity.DocumentResult) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("document pipeline fault", "file", blob.Name, "panic", r)
			progress.Emit(constants.StatusError, 0, "Processing failed")
			result = entity.DocumentResult{Error: fmt.Sprintf("%v", r)}
		}
	}()

	progress.Emit(constants.StatusProcessing, 5, "Starting analysis...")

	acq := a.acquirer.AcquireGeneric(ctx, blob, documentType, progress)
	a.metrics.ObserveConfidence(serviceName, acq.Method, acq.Confidence)

	progress.Emit(constants.StatusProcessing, 70, "Extracting fields...")

	fields := extract.ExtractFields(acq.Text, documentType, blob.Name)
	findings := validate.Generic(fields)

	progress.Emit(constants.StatusComplete, 100, "Analysis complete!")

	return entity.DocumentResult{
		Success:           true,
		Confidence:        acq.Confidence,
		RawText:           acq.Text,
		ExtractedFields:   fields,
		ValidationResults: findings,
		ProcessingMethod:  acq.Method,
	}
}

// AnalyzeFile produces the per-file analysis record: extension gate, COI or
// generic routing, point allocation and the cumulative validity check.
func (a *Analyzer) AnalyzeFile(ctx context.Context, blob entity.Blob, documentType constants.DocumentType, progress entity.ProgressFunc) entity.DocumentAnalysis {
	started := a.now()
	a.metrics.AnalyzeStarted()

	analysis := entity.DocumentAnalysis{
		FileName:        blob.Name,
		FileSize:        blob.Size,
		DocumentType:    documentType,
		Timestamp:       started,
		IsValid:         true,
		MaxPoints:       constants.MaxPointsFor(documentType),
		Confidence:      0.8,
		Issues:          []string{},
		Recommendations: []string{},
		ExtractedData:   map[string]string{},
	}

	ext := constants.NormalizeExt(filepath.Ext(blob.Name))
	if !constants.IsAllowedExt(ext) {
		analysis.Issues = append(analysis.Issues, fmt.Sprintf("Unsupported file format: %s", strings.ToUpper(ext)))
		analysis.IsValid = false
		analysis.Confidence = 0.1
		a.metrics.AnalyzeFinished(serviceName, string(documentType), "rejected", started)
		return analysis
	}

	if constants.IsInsuranceType(documentType) {
		a.mergeCOI(ctx, blob, &analysis, progress)
	} else {
		a.mergeGeneric(ctx, blob, documentType, &analysis, progress)
	}

	if len(analysis.Issues) >= invalidIssueThreshold {
		analysis.IsValid = false
	}

	outcome := "ok"
	if !analysis.IsValid {
		outcome = "invalid"
	}
	a.metrics.AnalyzeFinished(serviceName, string(documentType), outcome, started)
	a.logger.Info("document analyzed",
		"file", blob.Name,
		"document_type", documentType,
		"valid", analysis.IsValid,
		"points", analysis.Points,
		"max_points", analysis.MaxPoints,
		"confidence", analysis.Confidence,
	)
	return analysis
}

func (a *Analyzer) mergeCOI(ctx context.Context, blob entity.Blob, analysis *entity.DocumentAnalysis, progress entity.ProgressFunc) {
	coi := a.ProcessCOI(ctx, blob, progress)
	if !coi.Success {
		analysis.Issues = append(analysis.Issues, "COI analysis failed: "+coi.Error)
		analysis.Confidence = 0.4
		analysis.Points = scoring.COIFailurePoints(analysis.MaxPoints)
		return
	}

	analysis.COIAnalysis = &coi
	analysis.OCRResults = &entity.AcquisitionResult{
		Text:       coi.RawText,
		Confidence: coi.Confidence,
		Method:     coi.ProcessingMethod,
	}
	analysis.ExtractedData = coi.ExtractedFields
	analysis.Confidence = coi.Confidence
	analysis.Points = scoring.COIPoints(analysis.MaxPoints, coi.Confidence)

	if len(coi.ValidationResults.CriticalIssues) == 0 {
		analysis.Recommendations = append(analysis.Recommendations, "Certificate of Insurance analyzed")
		recs := coi.ValidationResults.Recommendations
		if len(recs) > 3 {
			recs = recs[:3]
		}
		analysis.Recommendations = append(analysis.Recommendations, recs...)
	} else {
		analysis.Issues = append(analysis.Issues, coi.ValidationResults.CriticalIssues...)
	}
	analysis.Recommendations = append(analysis.Recommendations, coi.ValidationResults.Warnings...)
}

func (a *Analyzer) mergeGeneric(ctx context.Context, blob entity.Blob, documentType constants.DocumentType, analysis *entity.DocumentAnalysis, progress entity.ProgressFunc) {
	res := a.ProcessDocument(ctx, blob, documentType, progress)
	if !res.Success {
		analysis.Issues = append(analysis.Issues, "Document analysis failed: "+res.Error)
		analysis.Confidence = 0.3
		analysis.Points = scoring.GenericFailurePoints(analysis.MaxPoints)
		return
	}

	analysis.OCRResults = &entity.AcquisitionResult{
		Text:       res.RawText,
		Confidence: res.Confidence,
		Method:     res.ProcessingMethod,
	}
	analysis.ExtractedData = res.ExtractedFields
	analysis.Confidence = res.Confidence
	analysis.Points = scoring.GenericPoints(analysis.MaxPoints, res.Confidence)
	analysis.Recommendations = append(analysis.Recommendations, "Document processed successfully")
	analysis.Recommendations = append(analysis.Recommendations, res.ValidationResults.Recommendations...)
}

func coiFailure(msg string) entity.COIAnalysisResult {
	return entity.COIAnalysisResult{
		Success:         false,
		ExtractedFields: map[string]string{},
		ValidationResults: entity.ValidationFindings{
			IsValid:         false,
			CriticalIssues:  []string{},
			Warnings:        []string{},
			Recommendations: []string{},
		},
		RiskAssessment: entity.RiskAssessment{
			OverallRisk: constants.RiskHigh,
			RiskScore:   60,
			Strengths:   []string{},
			Concerns:    []string{"Processing error"},
		},
		ProcessingMethod: entity.MethodError,
		Error:            msg,
	}
}
