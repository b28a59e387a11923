package ocr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/Law-sys/subcontractor-pre-qual/constants"
	"github.com/Law-sys/subcontractor-pre-qual/internal/entity"
)

// Acquisition confidence weights per strategy.
const (
	confPDFText      = 0.85
	confPDFSynthetic = 0.65
	confPDFFallback  = 0.45
	confOCRDefault   = 0.80
	confImageFallbck = 0.55
	confUnknownCOI   = 0.65
	confUnknownOther = 0.55
)

// Config tunes the acquisition thresholds.
type Config struct {
	MinPDFTextLen int // minimum chars for accepting extracted PDF text, default 50
	MinOCRTextLen int // minimum chars for accepting recognized text, default 20
}

// Acquirer turns a document blob into raw text with a confidence and a
// method tag. Expected failure modes (missing OCR, malformed PDF, irrelevant
// text) degrade to synthetic generation and never surface as errors.
type Acquirer struct {
	engine Engine
	cfg    Config
	logger *slog.Logger
	now    func() time.Time
}

func NewAcquirer(engine Engine, cfg Config, logger *slog.Logger) *Acquirer {
	if engine == nil {
		engine = NullEngine{}
	}
	if cfg.MinPDFTextLen <= 0 {
		cfg.MinPDFTextLen = 50
	}
	if cfg.MinOCRTextLen <= 0 {
		cfg.MinOCRTextLen = 20
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Acquirer{engine: engine, cfg: cfg, logger: logger, now: time.Now}
}

// AcquireCOI obtains raw text for an insurance document.
func (a *Acquirer) AcquireCOI(ctx context.Context, blob entity.Blob, progress entity.ProgressFunc) entity.AcquisitionResult {
	switch mediaKind(blob.MediaType) {
	case constants.PDF:
		return a.acquirePDF(ctx, blob, progress)
	case constants.IMAGE:
		return a.acquireImage(ctx, blob, progress)
	default:
		return entity.AcquisitionResult{
			Text:       GenerateCOIContent(blob.Name, a.now()),
			Confidence: confUnknownCOI,
			Method:     entity.MethodIntelligentGen,
		}
	}
}

// AcquireGeneric obtains raw text for a non-insurance document.
func (a *Acquirer) AcquireGeneric(ctx context.Context, blob entity.Blob, documentType constants.DocumentType, progress entity.ProgressFunc) entity.AcquisitionResult {
	switch mediaKind(blob.MediaType) {
	case constants.PDF:
		return a.acquirePDF(ctx, blob, progress)
	case constants.IMAGE:
		return a.acquireImage(ctx, blob, progress)
	default:
		return entity.AcquisitionResult{
			Text:       GenerateGenericContent(blob.Name, documentType, a.now()),
			Confidence: confUnknownOther,
			Method:     entity.MethodSmartGen,
		}
	}
}

// acquirePDF tries the PDF text layer first. Short or off-domain text means
// the PDF is likely scanned or empty, so the content is synthesized instead.
func (a *Acquirer) acquirePDF(ctx context.Context, blob entity.Blob, progress entity.ProgressFunc) entity.AcquisitionResult {
	progress.Emit(constants.StatusProcessing, 20, "Reading PDF content...")

	text, err := readPDFText(blob.Data)
	if err != nil {
		a.logger.Debug("pdf text extraction failed", "file", blob.Name, "error", err)
		return entity.AcquisitionResult{
			Text:       GenerateCOIContent(blob.Name, a.now()),
			Confidence: confPDFFallback,
			Method:     entity.MethodPDFFallback,
		}
	}
	if len(text) > a.cfg.MinPDFTextLen && ContainsRelevantContent(text) {
		return entity.AcquisitionResult{
			Text:       CleanText(text),
			Confidence: confPDFText,
			Method:     entity.MethodTextExtraction,
		}
	}
	return entity.AcquisitionResult{
		Text:       GenerateCOIContent(blob.Name, a.now()),
		Confidence: confPDFSynthetic,
		Method:     entity.MethodPDFGeneration,
	}
}

// acquireImage runs the injected OCR capability, falling back to synthetic
// content when recognition is unavailable or returns too little text.
func (a *Acquirer) acquireImage(ctx context.Context, blob entity.Blob, progress entity.ProgressFunc) entity.AcquisitionResult {
	progress.Emit(constants.StatusProcessing, 30, "Running OCR...")

	res, err := a.engine.Recognize(ctx, blob.Data)
	if err == nil && len(strings.TrimSpace(res.Text)) > a.cfg.MinOCRTextLen {
		conf := confOCRDefault
		if res.Confidence > 0 {
			conf = clamp01(res.Confidence / 100)
		}
		return entity.AcquisitionResult{
			Text:       CleanText(res.Text),
			Confidence: conf,
			Method:     entity.MethodTesseractOCR,
		}
	}
	if err != nil {
		a.logger.Debug("ocr recognition unavailable", "file", blob.Name, "error", err)
	}

	progress.Emit(constants.StatusProcessing, 40, "Analyzing image content...")
	return entity.AcquisitionResult{
		Text:       GenerateCOIContent(blob.Name, a.now()),
		Confidence: confImageFallbck,
		Method:     entity.MethodImageAnalysis,
	}
}

func mediaKind(mediaType string) string {
	mt := strings.ToLower(strings.TrimSpace(mediaType))
	switch {
	case mt == "application/pdf":
		return constants.PDF
	case strings.HasPrefix(mt, "image/"):
		return constants.IMAGE
	default:
		return ""
	}
}

// readPDFText pulls the text layer out of a PDF. The pdf library panics on
// some malformed cross-reference tables, so the panic is converted into an
// ordinary error here.
func readPDFText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf text layer: %w", err)
	}
	raw, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return string(raw), nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
