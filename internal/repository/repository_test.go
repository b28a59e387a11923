package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/Law-sys/subcontractor-pre-qual/constants"
	"github.com/Law-sys/subcontractor-pre-qual/internal/common"
	"github.com/Law-sys/subcontractor-pre-qual/internal/entity"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	cfg := common.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          "file::memory:",
		MaxOpenConns: 1, // in-memory database lives on a single connection
	}
	db, err := Open(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestSubmissionLifecycle(t *testing.T) {
	db := testDB(t)
	repo := NewSubmissionRepository(db, nil)
	ctx := context.Background()

	sub, err := repo.Create(ctx, "Acme Builders LLC")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetByID(ctx, sub.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ContractorName != "Acme Builders LLC" {
		t.Errorf("name = %q", got.ContractorName)
	}
	if got.Score != nil || got.FormData != nil {
		t.Error("fresh submission carries no form data or score")
	}

	form := json.RawMessage(`{"companyLegalName":"Acme Builders LLC"}`)
	if err := repo.SaveFormData(ctx, sub.ID, form); err != nil {
		t.Fatalf("save form: %v", err)
	}
	score := &entity.ScoreBreakdown{
		OverallScore:   75,
		Qualification:  constants.Qualified,
		CategoryScores: map[string]int{entity.CategoryCompanyInformation: 20},
	}
	if err := repo.SaveScore(ctx, sub.ID, score); err != nil {
		t.Fatalf("save score: %v", err)
	}

	got, err = repo.GetByID(ctx, sub.ID)
	if err != nil {
		t.Fatalf("get after save: %v", err)
	}
	if got.Score == nil || got.Score.OverallScore != 75 {
		t.Errorf("score = %+v", got.Score)
	}
	if got.Score.Qualification != constants.Qualified {
		t.Errorf("qualification = %q", got.Score.Qualification)
	}
	if string(got.FormData) != string(form) {
		t.Errorf("form data = %s", got.FormData)
	}
}

func TestSubmissionNotFound(t *testing.T) {
	db := testDB(t)
	repo := NewSubmissionRepository(db, nil)

	if _, err := repo.GetByID(context.Background(), uuid.New()); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if err := repo.SaveScore(context.Background(), uuid.New(), &entity.ScoreBreakdown{}); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("save on missing row: err = %v, want ErrNotFound", err)
	}
}

func TestSubmissionCreateRequiresName(t *testing.T) {
	db := testDB(t)
	repo := NewSubmissionRepository(db, nil)

	if _, err := repo.Create(context.Background(), ""); !errors.Is(err, common.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestDocumentFiles(t *testing.T) {
	db := testDB(t)
	subs := NewSubmissionRepository(db, nil)
	files := NewDocumentFileRepository(db, nil)
	ctx := context.Background()

	sub, err := subs.Create(ctx, "Acme")
	if err != nil {
		t.Fatal(err)
	}

	doc, err := files.Create(ctx, CreateDocumentFileInput{
		SubmissionID: sub.ID,
		DocumentType: constants.COICertificate,
		SourcePath:   "/drop/abc-coi.pdf",
		Filename:     "abc-coi.pdf",
		FileExt:      "pdf",
		FileSize:     1234,
		ContentHash:  "deadbeef",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	byHash, err := files.FindByHash(ctx, sub.ID, "deadbeef")
	if err != nil {
		t.Fatalf("find by hash: %v", err)
	}
	if byHash.ID != doc.ID {
		t.Error("hash lookup returned wrong record")
	}
	if _, err := files.FindByHash(ctx, sub.ID, "cafebabe"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("unknown hash: err = %v, want ErrNotFound", err)
	}

	listed, err := files.ListBySubmission(ctx, sub.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 || listed[0].DocumentType != constants.COICertificate {
		t.Errorf("listed = %+v", listed)
	}
	if listed[0].UploadedAt.IsZero() {
		t.Error("uploaded_at must survive the round trip")
	}
}

func TestAnalysisJobLifecycle(t *testing.T) {
	db := testDB(t)
	jobs := NewAnalysisJobRepository(db, nil)
	ctx := context.Background()
	fileID, subID := uuid.New(), uuid.New()

	job, err := jobs.Start(ctx, fileID, subID, constants.PDF)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if job.Status != constants.JobStatusQueued {
		t.Errorf("status = %q, want QUEUED", job.Status)
	}

	if err := jobs.MarkRunning(ctx, job.ID); err != nil {
		t.Fatalf("mark running: %v", err)
	}
	result := json.RawMessage(`{"isValid":true}`)
	if err := jobs.FinishSuccess(ctx, job.ID, 0.65, result); err != nil {
		t.Fatalf("finish: %v", err)
	}

	got, err := jobs.GetByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != constants.JobStatusAnalyzed {
		t.Errorf("status = %q, want ANALYZED", got.Status)
	}
	if got.Confidence != 0.65 {
		t.Errorf("confidence = %v", got.Confidence)
	}
	if got.FinishedAt == nil || got.FinishedAt.IsZero() {
		t.Error("finished_at must be set")
	}
	if string(got.ResultJSON) != string(result) {
		t.Errorf("result = %s", got.ResultJSON)
	}

	failed, err := jobs.Start(ctx, fileID, subID, constants.PDF)
	if err != nil {
		t.Fatal(err)
	}
	if err := jobs.FinishFailure(ctx, failed.ID, "read source: no such file"); err != nil {
		t.Fatalf("fail: %v", err)
	}
	gotFailed, _ := jobs.GetByID(ctx, failed.ID)
	if gotFailed.Status != constants.JobStatusFailed || gotFailed.ErrorMessage == "" {
		t.Errorf("failed job = %+v", gotFailed)
	}

	byFile, err := jobs.ListByFile(ctx, fileID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(byFile) != 2 {
		t.Errorf("got %d jobs, want 2", len(byFile))
	}
}
