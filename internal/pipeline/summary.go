package pipeline

import (
	"fmt"
	"math"

	"github.com/Law-sys/subcontractor-pre-qual/internal/entity"
)

// ValidationSummary is the compact display view of one analysis.
type ValidationSummary struct {
	Status         string `json:"status"`
	StatusText     string `json:"statusText"`
	ConfidenceText string `json:"confidenceText"`
	PointsText     string `json:"pointsText"`
	Color          string `json:"color"`
	HasOCR         bool   `json:"hasOCR"`
	HasCOI         bool   `json:"hasCOI"`
}

// Summarize renders the analysis into the badge shown next to each upload.
func Summarize(analysis entity.DocumentAnalysis) ValidationSummary {
	status, statusText := "invalid", "Issues Found"
	if analysis.IsValid {
		status, statusText = "valid", "Document Validated"
	}

	color := "red"
	switch {
	case analysis.IsValid:
		color = "green"
	case analysis.Confidence > 0.3:
		color = "yellow"
	}

	return ValidationSummary{
		Status:         status,
		StatusText:     statusText,
		ConfidenceText: fmt.Sprintf("%d%% confidence", int(math.Round(analysis.Confidence*100))),
		PointsText:     fmt.Sprintf("%d/%d points", analysis.Points, analysis.MaxPoints),
		Color:          color,
		HasOCR:         analysis.OCRResults != nil,
		HasCOI:         analysis.COIAnalysis != nil,
	}
}
