package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/Law-sys/subcontractor-pre-qual/constants"
	"github.com/Law-sys/subcontractor-pre-qual/internal/async"
	"github.com/Law-sys/subcontractor-pre-qual/internal/common"
	"github.com/Law-sys/subcontractor-pre-qual/internal/entity"
	"github.com/Law-sys/subcontractor-pre-qual/internal/ingest"
	"github.com/Law-sys/subcontractor-pre-qual/internal/observability/logging"
	"github.com/Law-sys/subcontractor-pre-qual/internal/observability/metrics"
	"github.com/Law-sys/subcontractor-pre-qual/internal/ocr"
	"github.com/Law-sys/subcontractor-pre-qual/internal/pipeline"
	"github.com/Law-sys/subcontractor-pre-qual/internal/repository"
)

// worker consumes analysis jobs from the queue, runs the pipeline against
// documents on disk, and stores the results. When INGEST_ROOTS is set it also
// watches those drop directories and enqueues new documents, attributed to
// the submission named by INGEST_SUBMISSION_ID.
func main() {
	cfg := common.LoadConfig()
	logger := logging.New("worker", cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := repository.Migrate(ctx, db); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	subs := repository.NewSubmissionRepository(db, logger)
	files := repository.NewDocumentFileRepository(db, logger)
	jobs := repository.NewAnalysisJobRepository(db, logger)

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

	m := metrics.NewPipelineMetrics("worker")
	acquirer := ocr.NewAcquirer(engine, ocr.Config{}, logger)
	analyzer := pipeline.NewAnalyzer(acquirer, logger, m)

	var queue async.Queue
	if cfg.Queue.URL != "" {
		nq, err := async.NewNATSQueue(cfg.Queue.URL, cfg.Queue.Subject, async.NATSOptions{}, logger)
		if err != nil {
			logger.Error("queue unavailable", "url", cfg.Queue.URL, "error", err)
			os.Exit(1)
		}
		queue = nq
	} else {
		logger.Info("no NATS_URL configured, using in-process queue")
		queue = async.NewInMemoryQueue(0)
	}
	defer queue.Shutdown(context.Background())

	metricsSrv := &http.Server{Addr: cfg.Server.MetricsAddr, Handler: m.Handler()}
	go func() {
		logger.Info("metrics server listening", "addr", cfg.Server.MetricsAddr)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()
	defer metricsSrv.Close()

	if len(cfg.Ingest.Roots) > 0 {
		if err := startDropWatcher(ctx, cfg, subs, files, queue, logger); err != nil {
			logger.Error("drop watcher failed to start", "error", err)
			os.Exit(1)
		}
	}

	handler := func(ctx context.Context, job async.Job) error {
		return processJob(ctx, job, files, jobs, analyzer, logger)
	}
	logger.Info("worker consuming", "subject", cfg.Queue.Subject)
	if err := queue.Subscribe(ctx, handler); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("subscription ended", "error", err)
		os.Exit(1)
	}
	logger.Info("worker stopped")
}

func processJob(
	ctx context.Context,
	job async.Job,
	files repository.DocumentFileRepository,
	jobs repository.AnalysisJobRepository,
	analyzer *pipeline.Analyzer,
	logger *slog.Logger,
) error {
	doc, err := files.GetByID(ctx, job.FileID)
	if err != nil {
		logger.Error("job references unknown file", "file_id", job.FileID, "error", err)
		return err
	}

	row, err := jobs.Start(ctx, doc.ID, doc.SubmissionID, constants.MapExtToFormat(doc.FileExt))
	if err != nil {
		return err
	}
	_ = jobs.MarkRunning(ctx, row.ID)

	data, err := os.ReadFile(doc.SourcePath)
	if err != nil {
		_ = jobs.FinishFailure(ctx, row.ID, fmt.Sprintf("read source: %v", err))
		return err
	}

	blob := entity.Blob{
		Name:      doc.Filename,
		Size:      int64(len(data)),
		MediaType: mime.TypeByExtension("." + doc.FileExt),
		Data:      data,
	}
	analysis := analyzer.AnalyzeFile(ctx, blob, doc.DocumentType, nil)

	resultJSON, err := json.Marshal(analysis)
	if err != nil {
		_ = jobs.FinishFailure(ctx, row.ID, fmt.Sprintf("encode analysis: %v", err))
		return err
	}
	if analysis.IsValid {
		return jobs.FinishSuccess(ctx, row.ID, analysis.Confidence, resultJSON)
	}
	msg := "analysis marked invalid"
	if len(analysis.Issues) > 0 {
		msg = analysis.Issues[0]
	}
	return jobs.FinishFailure(ctx, row.ID, msg)
}

func startDropWatcher(
	ctx context.Context,
	cfg *common.Config,
	subs repository.SubmissionRepository,
	files repository.DocumentFileRepository,
	queue async.Queue,
	logger *slog.Logger,
) error {
	submissionID, err := uuid.Parse(os.Getenv("INGEST_SUBMISSION_ID"))
	if err != nil {
		return fmt.Errorf("INGEST_SUBMISSION_ID must be a submission UUID: %w", err)
	}

	ingestor := ingest.NewFSIngestor(subs, files, queue, logger)
	events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       cfg.Ingest.Roots,
		InitialScan: true,
		Debounce:    cfg.Ingest.Debounce,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case path, ok := <-events:
				if !ok {
					return
				}
				if _, err := ingestor.IngestPath(ctx, submissionID, path); err != nil {
					logger.Error("ingest failed", "path", path, "error", err)
				}
			case err, ok := <-errs:
				if !ok {
					return
				}
				logger.Warn("watcher error", "error", err)
			}
		}
	}()
	logger.Info("watching drop directories", "roots", cfg.Ingest.Roots, "submission_id", submissionID)
	return nil
}
