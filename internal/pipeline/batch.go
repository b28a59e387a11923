package pipeline

import (
	"context"
	"sync"

	"github.com/Law-sys/subcontractor-pre-qual/constants"
	"github.com/Law-sys/subcontractor-pre-qual/internal/entity"
)

// Request pairs a blob with its checklist slot and an optional per-file
// progress sink.
type Request struct {
	Blob         entity.Blob
	DocumentType constants.DocumentType
	Progress     entity.ProgressFunc
}

// AnalyzeAll analyzes every file concurrently, one goroutine per file.
// Analyses share no mutable state, so no coordination beyond the join is
// needed; results come back in request order. Progress ordering is only
// guaranteed within a single file's pipeline.
func (a *Analyzer) AnalyzeAll(ctx context.Context, requests []Request) []entity.DocumentAnalysis {
	results := make([]entity.DocumentAnalysis, len(requests))

	var wg sync.WaitGroup
	for i, req := range requests {
		wg.Add(1)
		go func(i int, req Request) {
			defer wg.Done()
			results[i] = a.AnalyzeFile(ctx, req.Blob, req.DocumentType, req.Progress)
		}(i, req)
	}
	wg.Wait()

	return results
}
