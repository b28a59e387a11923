package entity

import (
	"time"

	"github.com/Law-sys/subcontractor-pre-qual/constants"
)

// Acquisition methods reported in results. The method string records which
// strategy produced the text, including the synthetic fallbacks.
const (
	MethodTextExtraction = "text_extraction"
	MethodPDFGeneration  = "pdf_intelligent_generation"
	MethodPDFFallback    = "pdf_fallback"
	MethodTesseractOCR   = "tesseract_ocr"
	MethodImageAnalysis  = "image_analysis"
	MethodIntelligentGen = "intelligent_generation"
	MethodSmartGen       = "smart_generation"
	MethodError          = "error"
)

// AcquisitionResult is the raw-text outcome of the text acquisition layer.
// Confidence is always within [0,1].
type AcquisitionResult struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Method     string  `json:"method"`
}

// COIAnalysisResult is the full pipeline output for insurance documents.
type COIAnalysisResult struct {
	Success           bool               `json:"success"`
	Confidence        float64            `json:"confidence"`
	RawText           string             `json:"rawText"`
	COIData           *COIData           `json:"coiData,omitempty"`
	ExtractedFields   map[string]string  `json:"extractedFields"`
	ValidationResults ValidationFindings `json:"validationResults"`
	RiskAssessment    RiskAssessment     `json:"riskAssessment"`
	ProcessingMethod  string             `json:"processingMethod"`
	Error             string             `json:"error,omitempty"`
}

// DocumentResult is the analogous output for non-insurance documents.
type DocumentResult struct {
	Success           bool               `json:"success"`
	Confidence        float64            `json:"confidence"`
	RawText           string             `json:"rawText"`
	ExtractedFields   map[string]string  `json:"extractedFields"`
	ValidationResults ValidationFindings `json:"validationResults"`
	ProcessingMethod  string             `json:"processingMethod"`
	Error             string             `json:"error,omitempty"`
}

// DocumentAnalysis is the per-file analysis record handed back to the
// caller and later folded into the submission score.
type DocumentAnalysis struct {
	FileName        string                 `json:"fileName"`
	FileSize        int64                  `json:"fileSize"`
	DocumentType    constants.DocumentType `json:"documentType"`
	Timestamp       time.Time              `json:"timestamp"`
	IsValid         bool                   `json:"isValid"`
	Points          int                    `json:"points"`
	MaxPoints       int                    `json:"maxPoints"`
	Confidence      float64                `json:"confidence"`
	Issues          []string               `json:"issues"`
	Recommendations []string               `json:"recommendations"`
	ExtractedData   map[string]string      `json:"extractedData"`
	OCRResults      *AcquisitionResult     `json:"ocrResults,omitempty"`
	COIAnalysis     *COIAnalysisResult     `json:"coiAnalysis,omitempty"`
}
