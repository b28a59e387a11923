package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

// ErrUnavailable signals that no recognition capability is present. Callers
// degrade to synthetic generation instead of failing.
var ErrUnavailable = errors.New("ocr engine unavailable")

// RecognizeResult carries recognized text plus the engine-reported mean word
// confidence on the 0..100 scale tesseract uses.
type RecognizeResult struct {
	Text       string
	Confidence float64
}

// Engine is the optical recognition capability. Implementations must be safe
// for concurrent use; Terminate releases engine resources and must be safe to
// call even when no recognition ever ran.
type Engine interface {
	Recognize(ctx context.Context, image []byte) (RecognizeResult, error)
	Terminate() error
}

// NullEngine is the absent-capability implementation, selected at startup
// when tesseract is not installed or recognition is disabled.
type NullEngine struct{}

func (NullEngine) Recognize(context.Context, []byte) (RecognizeResult, error) {
	return RecognizeResult{}, ErrUnavailable
}

func (NullEngine) Terminate() error { return nil }

// TesseractConfig configures the CLI-backed engine.
type TesseractConfig struct {
	Binary      string // binary name or absolute path; if empty -> "tesseract"
	Lang        string // default "eng"
	TessdataDir string
	PSM         int // e.g., 6 is good for a uniform block of text
	OEM         int // 1 = LSTM; leave 0 to use default
}

// TesseractEngine shells out to the tesseract CLI. The binary check and work
// directory are created lazily on first use; a mutex serializes recognize
// calls since the underlying engine state is not safe to share.
type TesseractEngine struct {
	cfg    TesseractConfig
	runner Runner
	logger *slog.Logger

	mu       sync.Mutex
	initOnce sync.Once
	initErr  error
	workDir  string
}

func NewTesseractEngine(cfg TesseractConfig, logger *slog.Logger) *TesseractEngine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Binary == "" {
		cfg.Binary = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	return &TesseractEngine{cfg: cfg, runner: execRunner{}, logger: logger}
}

func (e *TesseractEngine) init() error {
	e.initOnce.Do(func() {
		if _, err := exec.LookPath(e.cfg.Binary); err != nil {
			e.initErr = fmt.Errorf("%w: %v", ErrUnavailable, err)
			return
		}
		dir, err := os.MkdirTemp("", "prequal-ocr-*")
		if err != nil {
			e.initErr = err
			return
		}
		e.workDir = dir
		e.logger.Debug("tesseract engine initialized", "binary", e.cfg.Binary, "lang", e.cfg.Lang)
	})
	return e.initErr
}

// Recognize writes the image to the engine work directory and runs tesseract
// twice: once for text and once in TSV mode for the mean word confidence.
func (e *TesseractEngine) Recognize(ctx context.Context, image []byte) (RecognizeResult, error) {
	if err := e.init(); err != nil {
		return RecognizeResult{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	f, err := os.CreateTemp(e.workDir, "page-*.png")
	if err != nil {
		return RecognizeResult{}, err
	}
	path := f.Name()
	defer func() { _ = os.Remove(path) }()
	if _, err := f.Write(image); err != nil {
		_ = f.Close()
		return RecognizeResult{}, err
	}
	if err := f.Close(); err != nil {
		return RecognizeResult{}, err
	}

	text, err := e.recognizeText(ctx, path)
	if err != nil {
		return RecognizeResult{}, err
	}
	conf, err := e.tsvConfidence(ctx, path)
	if err != nil {
		// confidence is best-effort; keep the text
		e.logger.Warn("tesseract tsv confidence failed", "error", err)
		conf = 0
	}
	return RecognizeResult{Text: text, Confidence: conf}, nil
}

func (e *TesseractEngine) baseArgs(path string) []string {
	args := []string{path, "stdout", "-l", e.cfg.Lang}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(e.cfg.PSM))
	}
	if e.cfg.OEM > 0 {
		args = append(args, "--oem", strconv.Itoa(e.cfg.OEM))
	}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}
	return args
}

func (e *TesseractEngine) recognizeText(ctx context.Context, path string) (string, error) {
	out, errb, err := e.runner.Run(ctx, e.cfg.Binary, e.baseArgs(path)...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w (%s)", err, truncate(string(errb), 512))
	}
	return string(out), nil
}

// tsvConfidence runs tesseract in TSV mode and returns the mean word
// confidence on the 0..100 scale.
func (e *TesseractEngine) tsvConfidence(ctx context.Context, path string) (float64, error) {
	args := append(e.baseArgs(path), "tsv")
	out, errb, err := e.runner.Run(ctx, e.cfg.Binary, args...)
	if err != nil {
		return 0, fmt.Errorf("tesseract TSV: %w (%s)", err, truncate(string(errb), 512))
	}

	var sum, n float64
	for i, ln := range strings.Split(string(out), "\n") {
		if i == 0 || len(ln) == 0 {
			continue // header
		}
		cols := strings.Split(ln, "\t")
		if len(cols) < 12 {
			continue
		}
		confStr := cols[len(cols)-1]
		if confStr == "" || confStr == "-1" {
			continue
		}
		if v, err := strconv.ParseFloat(confStr, 64); err == nil {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return sum / n, nil
}

// Terminate removes the engine work directory. Safe to call once at session
// end regardless of whether any recognition succeeded.
func (e *TesseractEngine) Terminate() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.workDir == "" {
		return nil
	}
	dir := e.workDir
	e.workDir = ""
	if err := os.RemoveAll(dir); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
