package server

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/Law-sys/subcontractor-pre-qual/constants"
	"github.com/Law-sys/subcontractor-pre-qual/internal/common"
	"github.com/Law-sys/subcontractor-pre-qual/internal/entity"
	"github.com/Law-sys/subcontractor-pre-qual/internal/export"
	"github.com/Law-sys/subcontractor-pre-qual/internal/forms"
	"github.com/Law-sys/subcontractor-pre-qual/internal/pipeline"
	"github.com/Law-sys/subcontractor-pre-qual/internal/repository"
	"github.com/Law-sys/subcontractor-pre-qual/internal/scoring"
)

// Router wires the pre-qualification HTTP API.
type Router struct {
	db          *sql.DB
	submissions repository.SubmissionRepository
	files       repository.DocumentFileRepository
	jobs        repository.AnalysisJobRepository
	analyzer    *pipeline.Analyzer
	exporter    *export.Service
	logger      *slog.Logger

	maxUploadBytes int64
}

func NewRouter(
	db *sql.DB,
	subs repository.SubmissionRepository,
	files repository.DocumentFileRepository,
	jobs repository.AnalysisJobRepository,
	analyzer *pipeline.Analyzer,
	exporter *export.Service,
	maxUploadMB int,
	logger *slog.Logger,
) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	if maxUploadMB <= 0 {
		maxUploadMB = 25
	}
	return &Router{
		db:             db,
		submissions:    subs,
		files:          files,
		jobs:           jobs,
		analyzer:       analyzer,
		exporter:       exporter,
		logger:         logger,
		maxUploadBytes: int64(maxUploadMB) << 20,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.HandleFunc("POST /v1/submissions", rt.createSubmission)
	mux.HandleFunc("GET /v1/submissions", rt.listSubmissions)
	mux.HandleFunc("GET /v1/submissions/{id}", rt.getSubmission)
	mux.HandleFunc("POST /v1/submissions/{id}/documents", rt.analyzeDocument)
	mux.HandleFunc("GET /v1/submissions/{id}/documents", rt.listDocuments)
	mux.HandleFunc("POST /v1/submissions/{id}/score", rt.scoreSubmission)
	mux.HandleFunc("GET /v1/submissions/{id}/scorecard.xlsx", rt.exportScorecard)
	return requestIDMiddleware(accessLogMiddleware(mux))
}

func (rt *Router) healthz(w http.ResponseWriter, r *http.Request) {
	if rt.db != nil {
		if err := repository.HealthCheck(r.Context(), rt.db, 2*time.Second); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) createSubmission(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ContractorName string `json:"contractorName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	sub, err := rt.submissions.Create(r.Context(), req.ContractorName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (rt *Router) listSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := rt.submissions.List(r.Context(), 0)
	if err != nil {
		writeError(w, err)
		return
	}
	if subs == nil {
		subs = []*entity.Submission{}
	}
	writeJSON(w, http.StatusOK, subs)
}

func (rt *Router) getSubmission(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	sub, err := rt.submissions.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// analyzeDocument accepts a multipart upload, records it, runs the analysis
// pipeline inline and returns the full analysis with its UI summary.
func (rt *Router) analyzeDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	if _, err := rt.submissions.GetByID(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, rt.maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	docType := constants.DocumentType(r.FormValue("documentType"))
	if docType == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "form field 'documentType' is required"})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "read upload: " + err.Error()})
		return
	}

	ext := constants.NormalizeExt(filepath.Ext(header.Filename))
	sum := sha256.Sum256(data)
	doc, err := rt.files.Create(r.Context(), repository.CreateDocumentFileInput{
		SubmissionID: id,
		DocumentType: docType,
		Filename:     header.Filename,
		FileExt:      ext,
		FileSize:     int64(len(data)),
		ContentHash:  hex.EncodeToString(sum[:]),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	job, err := rt.jobs.Start(r.Context(), doc.ID, id, constants.MapExtToFormat(ext))
	if err != nil {
		writeError(w, err)
		return
	}
	_ = rt.jobs.MarkRunning(r.Context(), job.ID)

	blob := entity.Blob{
		Name:      header.Filename,
		Size:      int64(len(data)),
		MediaType: header.Header.Get("Content-Type"),
		Data:      data,
	}
	var events []entity.ProgressEvent
	analysis := rt.analyzer.AnalyzeFile(r.Context(), blob, docType, func(ev entity.ProgressEvent) {
		events = append(events, ev)
	})

	resultJSON, err := json.Marshal(analysis)
	if err != nil {
		writeError(w, fmt.Errorf("encode analysis: %w", err))
		return
	}
	if analysis.IsValid {
		_ = rt.jobs.FinishSuccess(r.Context(), job.ID, analysis.Confidence, resultJSON)
	} else {
		_ = rt.jobs.FinishFailure(r.Context(), job.ID, firstIssue(analysis.Issues))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"fileId":   doc.ID,
		"jobId":    job.ID,
		"analysis": analysis,
		"summary":  pipeline.Summarize(analysis),
		"progress": events,
	})
}

func (rt *Router) listDocuments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	docs, err := rt.files.ListBySubmission(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if docs == nil {
		docs = []*entity.DocumentFile{}
	}
	writeJSON(w, http.StatusOK, docs)
}

// scoreSubmission validates the questionnaire payload, computes the
// qualification score and persists both.
func (rt *Router) scoreSubmission(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "read body: " + err.Error()})
		return
	}
	form, err := forms.ParseFormData(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	score := scoring.Calculate(form)
	if err := rt.submissions.SaveFormData(r.Context(), id, body); err != nil {
		writeError(w, err)
		return
	}
	if err := rt.submissions.SaveScore(r.Context(), id, &score); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, score)
}

func (rt *Router) exportScorecard(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	data, err := rt.exporter.ExportScorecardXLSX(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "scorecard-"+id.String()+".xlsx"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func pathUUID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid submission id"})
		return uuid.Nil, false
	}
	return id, true
}

func firstIssue(issues []string) string {
	if len(issues) == 0 {
		return "analysis marked invalid"
	}
	return issues[0]
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}

func mapErrorToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, common.ErrInvalidInput), errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
