package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/Law-sys/subcontractor-pre-qual/constants"
	"github.com/Law-sys/subcontractor-pre-qual/internal/common"
	"github.com/Law-sys/subcontractor-pre-qual/internal/entity"
	"github.com/Law-sys/subcontractor-pre-qual/internal/observability/logging"
	"github.com/Law-sys/subcontractor-pre-qual/internal/ocr"
	"github.com/Law-sys/subcontractor-pre-qual/internal/pipeline"
)

// analyzer runs the document pipeline against local files and prints the
// analyses as JSON. Progress events go to stderr.
func main() {
	var (
		docType  = flag.String("type", string(constants.COICertificate), "document type (e.g. coiCertificate, businessLicense)")
		showProg = flag.Bool("progress", false, "print progress events to stderr")
	)
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "usage: analyzer [-type <documentType>] [-progress] <file> [file...]")
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	logger := logging.New("analyzer", cfg.LogLevel)

	var engine ocr.Engine = ocr.NullEngine{}
	if cfg.OCR.Enabled {
		engine = ocr.NewGuardedEngine(
			ocr.NewTesseractEngine(ocr.TesseractConfig{
				Binary:      cfg.OCR.Tesseract,
				Lang:        cfg.OCR.TesseractLang,
				TessdataDir: cfg.OCR.TessdataDir,
				PSM:         cfg.OCR.PSM,
				OEM:         cfg.OCR.OEM,
			}, logger),
			ocr.GuardConfig{RecognizeTimeout: cfg.OCR.RecognizeTimeout},
			logger,
		)
	}
	defer engine.Terminate()

	acquirer := ocr.NewAcquirer(engine, ocr.Config{}, logger)
	analyzer := pipeline.NewAnalyzer(acquirer, logger, nil)

	var progress entity.ProgressFunc
	if *showProg {
		enc := json.NewEncoder(os.Stderr)
		progress = func(ev entity.ProgressEvent) { _ = enc.Encode(ev) }
	}

	requests := make([]pipeline.Request, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Error("cannot read file", "path", path, "error", err)
			os.Exit(1)
		}
		requests = append(requests, pipeline.Request{
			Blob: entity.Blob{
				Name:      filepath.Base(path),
				Size:      int64(len(data)),
				MediaType: mime.TypeByExtension(filepath.Ext(path)),
				Data:      data,
			},
			DocumentType: constants.DocumentType(*docType),
			Progress:     progress,
		})
	}

	analyses := analyzer.AnalyzeAll(context.Background(), requests)

	results := make([]map[string]any, len(analyses))
	allValid := true
	for i, analysis := range analyses {
		results[i] = map[string]any{
			"analysis": analysis,
			"summary":  pipeline.Summarize(analysis),
		}
		if !analysis.IsValid {
			allValid = false
		}
	}

	out := json.NewEncoder(os.Stdout)
	out.SetIndent("", "  ")
	if err := out.Encode(results); err != nil {
		logger.Error("encode result", "error", err)
		os.Exit(1)
	}
	if !allValid {
		os.Exit(1)
	}
}
