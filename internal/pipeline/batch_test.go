package pipeline

import (
	"context"
	"testing"

	"github.com/Law-sys/subcontractor-pre-qual/constants"
	"github.com/Law-sys/subcontractor-pre-qual/internal/entity"
)

func TestAnalyzeAllPreservesOrder(t *testing.T) {
	a := newTestAnalyzer()
	requests := []Request{
		{Blob: entity.Blob{Name: "alpha-coi.pdf", MediaType: "application/octet-stream"}, DocumentType: constants.COICertificate},
		{Blob: entity.Blob{Name: "notes.txt"}, DocumentType: constants.W9Form},
		{Blob: entity.Blob{Name: "beta-license.docx"}, DocumentType: constants.BusinessLicense},
	}

	results := a.AnalyzeAll(context.Background(), requests)

	if len(results) != len(requests) {
		t.Fatalf("got %d results, want %d", len(results), len(requests))
	}
	for i, req := range requests {
		if results[i].FileName != req.Blob.Name {
			t.Errorf("result %d is %q, want %q", i, results[i].FileName, req.Blob.Name)
		}
	}
	if results[1].IsValid {
		t.Error("the unsupported file must come back invalid in place")
	}
	if !results[0].IsValid || !results[2].IsValid {
		t.Error("supported files must analyze independently of the rejected one")
	}
}

func TestAnalyzeAllEmpty(t *testing.T) {
	a := newTestAnalyzer()
	if results := a.AnalyzeAll(context.Background(), nil); len(results) != 0 {
		t.Errorf("got %d results for no requests", len(results))
	}
}
