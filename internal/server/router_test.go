package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Law-sys/subcontractor-pre-qual/constants"
	"github.com/Law-sys/subcontractor-pre-qual/internal/common"
	"github.com/Law-sys/subcontractor-pre-qual/internal/entity"
	"github.com/Law-sys/subcontractor-pre-qual/internal/export"
	"github.com/Law-sys/subcontractor-pre-qual/internal/ocr"
	"github.com/Law-sys/subcontractor-pre-qual/internal/pipeline"
	"github.com/Law-sys/subcontractor-pre-qual/internal/repository"
)

type memSubmissions struct {
	items map[uuid.UUID]*entity.Submission
}

func newMemSubmissions() *memSubmissions {
	return &memSubmissions{items: map[uuid.UUID]*entity.Submission{}}
}

func (m *memSubmissions) Create(_ context.Context, name string) (*entity.Submission, error) {
	if name == "" {
		return nil, common.NewAppError("INVALID_INPUT", "contractor name is required", common.ErrInvalidInput)
	}
	sub := &entity.Submission{ID: uuid.New(), ContractorName: name, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	m.items[sub.ID] = sub
	return sub, nil
}

func (m *memSubmissions) GetByID(_ context.Context, id uuid.UUID) (*entity.Submission, error) {
	sub, ok := m.items[id]
	if !ok {
		return nil, common.NewAppError("NOT_FOUND", "submission not found", common.ErrNotFound)
	}
	return sub, nil
}

func (m *memSubmissions) SaveFormData(_ context.Context, id uuid.UUID, formData json.RawMessage) error {
	sub, ok := m.items[id]
	if !ok {
		return common.ErrNotFound
	}
	sub.FormData = formData
	return nil
}

func (m *memSubmissions) SaveScore(_ context.Context, id uuid.UUID, score *entity.ScoreBreakdown) error {
	sub, ok := m.items[id]
	if !ok {
		return common.ErrNotFound
	}
	sub.Score = score
	return nil
}

func (m *memSubmissions) List(context.Context, int) ([]*entity.Submission, error) {
	out := make([]*entity.Submission, 0, len(m.items))
	for _, sub := range m.items {
		out = append(out, sub)
	}
	return out, nil
}

type memFiles struct {
	items map[uuid.UUID]*entity.DocumentFile
}

func newMemFiles() *memFiles { return &memFiles{items: map[uuid.UUID]*entity.DocumentFile{}} }

func (m *memFiles) Create(_ context.Context, in repository.CreateDocumentFileInput) (*entity.DocumentFile, error) {
	doc := &entity.DocumentFile{
		ID:           uuid.New(),
		SubmissionID: in.SubmissionID,
		DocumentType: in.DocumentType,
		SourcePath:   in.SourcePath,
		Filename:     in.Filename,
		FileExt:      in.FileExt,
		FileSize:     in.FileSize,
		ContentHash:  in.ContentHash,
		UploadedAt:   time.Now(),
	}
	m.items[doc.ID] = doc
	return doc, nil
}

func (m *memFiles) GetByID(_ context.Context, id uuid.UUID) (*entity.DocumentFile, error) {
	doc, ok := m.items[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return doc, nil
}

func (m *memFiles) FindByHash(_ context.Context, submissionID uuid.UUID, hash string) (*entity.DocumentFile, error) {
	for _, doc := range m.items {
		if doc.SubmissionID == submissionID && doc.ContentHash == hash {
			return doc, nil
		}
	}
	return nil, common.ErrNotFound
}

func (m *memFiles) ListBySubmission(_ context.Context, submissionID uuid.UUID) ([]*entity.DocumentFile, error) {
	var out []*entity.DocumentFile
	for _, doc := range m.items {
		if doc.SubmissionID == submissionID {
			out = append(out, doc)
		}
	}
	return out, nil
}

type memJobs struct {
	items map[uuid.UUID]*entity.AnalysisJob
}

func newMemJobs() *memJobs { return &memJobs{items: map[uuid.UUID]*entity.AnalysisJob{}} }

func (m *memJobs) Start(_ context.Context, fileID, submissionID uuid.UUID, format string) (*entity.AnalysisJob, error) {
	job := &entity.AnalysisJob{
		ID: uuid.New(), FileID: fileID, SubmissionID: submissionID,
		Format: format, Status: constants.JobStatusQueued, StartedAt: time.Now(),
	}
	m.items[job.ID] = job
	return job, nil
}

func (m *memJobs) MarkRunning(_ context.Context, id uuid.UUID) error {
	m.items[id].Status = constants.JobStatusRunning
	return nil
}

func (m *memJobs) FinishSuccess(_ context.Context, id uuid.UUID, confidence float64, result json.RawMessage) error {
	job := m.items[id]
	job.Status = constants.JobStatusAnalyzed
	job.Confidence = confidence
	job.ResultJSON = result
	return nil
}

func (m *memJobs) FinishFailure(_ context.Context, id uuid.UUID, msg string) error {
	job := m.items[id]
	job.Status = constants.JobStatusFailed
	job.ErrorMessage = msg
	return nil
}

func (m *memJobs) GetByID(_ context.Context, id uuid.UUID) (*entity.AnalysisJob, error) {
	job, ok := m.items[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return job, nil
}

func (m *memJobs) ListByFile(_ context.Context, fileID uuid.UUID) ([]*entity.AnalysisJob, error) {
	var out []*entity.AnalysisJob
	for _, job := range m.items {
		if job.FileID == fileID {
			out = append(out, job)
		}
	}
	return out, nil
}

type testEnv struct {
	subs  *memSubmissions
	files *memFiles
	jobs  *memJobs
	srv   *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	subs := newMemSubmissions()
	files := newMemFiles()
	jobs := newMemJobs()

	acquirer := ocr.NewAcquirer(ocr.NullEngine{}, ocr.Config{}, nil)
	analyzer := pipeline.NewAnalyzer(acquirer, nil, nil)
	exporter := export.NewService(subs, files, jobs, nil)

	router := NewRouter(nil, subs, files, jobs, analyzer, exporter, 5, nil)
	srv := httptest.NewServer(router.Handler())
	t.Cleanup(srv.Close)
	return &testEnv{subs: subs, files: files, jobs: jobs, srv: srv}
}

func (e *testEnv) createSubmission(t *testing.T, name string) uuid.UUID {
	t.Helper()
	sub, err := e.subs.Create(context.Background(), name)
	if err != nil {
		t.Fatalf("create submission: %v", err)
	}
	return sub.ID
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	resp, err := http.Get(env.srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestCreateSubmission(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Post(env.srv.URL+"/v1/submissions", "application/json",
		bytes.NewBufferString(`{"contractorName": "Acme Builders LLC"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	var sub entity.Submission
	if err := json.NewDecoder(resp.Body).Decode(&sub); err != nil {
		t.Fatal(err)
	}
	if sub.ContractorName != "Acme Builders LLC" {
		t.Errorf("name = %q", sub.ContractorName)
	}
}

func TestCreateSubmissionRequiresName(t *testing.T) {
	env := newTestEnv(t)
	resp, err := http.Post(env.srv.URL+"/v1/submissions", "application/json", bytes.NewBufferString(`{}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestGetSubmissionNotFound(t *testing.T) {
	env := newTestEnv(t)
	resp, err := http.Get(env.srv.URL + "/v1/submissions/" + uuid.NewString())
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestAnalyzeDocumentEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSubmission(t, "Acme Builders LLC")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "ABC-Construction-COI.pdf")
	if err != nil {
		t.Fatal(err)
	}
	fmt.Fprint(fw, "junk bytes, not a real pdf")
	_ = mw.WriteField("documentType", string(constants.COICertificate))
	_ = mw.Close()

	resp, err := http.Post(
		fmt.Sprintf("%s/v1/submissions/%s/documents", env.srv.URL, id),
		mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var out struct {
		FileID   uuid.UUID               `json:"fileId"`
		JobID    uuid.UUID               `json:"jobId"`
		Analysis entity.DocumentAnalysis `json:"analysis"`
		Summary  pipeline.ValidationSummary
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if !out.Analysis.IsValid {
		t.Errorf("synthetic COI analysis should validate, issues: %v", out.Analysis.Issues)
	}
	if out.Analysis.COIAnalysis == nil {
		t.Error("COI document must carry certificate analysis")
	}

	job, err := env.jobs.GetByID(context.Background(), out.JobID)
	if err != nil {
		t.Fatalf("job not recorded: %v", err)
	}
	if job.Status != constants.JobStatusAnalyzed {
		t.Errorf("job status = %q, want ANALYZED", job.Status)
	}
	if len(job.ResultJSON) == 0 {
		t.Error("job must store the analysis result")
	}
}

func TestScoreSubmission(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSubmission(t, "Acme Builders LLC")

	form := `{
		"companyLegalName": "Acme Builders LLC",
		"yearFounded": "1998",
		"businessStructure": "LLC",
		"totalEmployees": "45",
		"businessLicense": ["license.pdf"],
		"contractorLicense": ["contractor.pdf"],
		"generalLiability": ["gl.pdf"],
		"workersCompensation": ["wc.pdf"],
		"bondingCapacity": "$5M",
		"emrRates": ["emr.pdf"],
		"oshaCitations": "no",
		"safetyManual": ["manual.pdf"],
		"projectHistory": "20 projects",
		"currentBacklog": "$2M",
		"financialStatements": ["fin.pdf"]
	}`
	resp, err := http.Post(
		fmt.Sprintf("%s/v1/submissions/%s/score", env.srv.URL, id),
		"application/json", bytes.NewBufferString(form))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var score entity.ScoreBreakdown
	if err := json.NewDecoder(resp.Body).Decode(&score); err != nil {
		t.Fatal(err)
	}
	if score.OverallScore != 75 {
		t.Errorf("overall = %d, want 75", score.OverallScore)
	}
	if score.Qualification != constants.Qualified {
		t.Errorf("qualification = %q, want QUALIFIED", score.Qualification)
	}

	sub, _ := env.subs.GetByID(context.Background(), id)
	if sub.Score == nil || sub.Score.OverallScore != 75 {
		t.Error("score must be persisted on the submission")
	}
	if len(sub.FormData) == 0 {
		t.Error("form data must be persisted on the submission")
	}
}

func TestScoreSubmissionRejectsBadForm(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSubmission(t, "Acme")

	resp, err := http.Post(
		fmt.Sprintf("%s/v1/submissions/%s/score", env.srv.URL, id),
		"application/json", bytes.NewBufferString(`{"surprise": true}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestExportScorecard(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSubmission(t, "Acme Builders LLC")

	resp, err := http.Get(fmt.Sprintf("%s/v1/submissions/%s/scorecard.xlsx", env.srv.URL, id))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("content type = %q", ct)
	}
}
