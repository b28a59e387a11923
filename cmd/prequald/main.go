package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Law-sys/subcontractor-pre-qual/internal/common"
	"github.com/Law-sys/subcontractor-pre-qual/internal/export"
	"github.com/Law-sys/subcontractor-pre-qual/internal/observability/logging"
	"github.com/Law-sys/subcontractor-pre-qual/internal/observability/metrics"
	"github.com/Law-sys/subcontractor-pre-qual/internal/ocr"
	"github.com/Law-sys/subcontractor-pre-qual/internal/pipeline"
	"github.com/Law-sys/subcontractor-pre-qual/internal/repository"
	"github.com/Law-sys/subcontractor-pre-qual/internal/server"
)

func main() {
	cfg := common.LoadConfig()
	logger := logging.New("prequald", cfg.LogLevel)
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

	m := metrics.NewPipelineMetrics("prequald")
	acquirer := ocr.NewAcquirer(engine, ocr.Config{}, logger)
	analyzer := pipeline.NewAnalyzer(acquirer, logger, m)
	exporter := export.NewService(subs, files, jobs, logger)

	router := server.NewRouter(db, subs, files, jobs, analyzer, exporter, int(cfg.Server.MaxUploadMB), logger)

	api := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	metricsSrv := &http.Server{Addr: cfg.Server.MetricsAddr, Handler: m.Handler()}

	go func() {
		logger.Info("metrics server listening", "addr", cfg.Server.MetricsAddr)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()
	go func() {
		logger.Info("api server listening", "addr", cfg.Server.Addr)
		if err := api.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := api.Shutdown(shutdownCtx); err != nil {
		logger.Error("api shutdown error", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics shutdown error", "error", err)
	}
	logger.Info("shutdown complete")
}
