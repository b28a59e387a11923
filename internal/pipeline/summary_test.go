package pipeline

import (
	"testing"

	"github.com/Law-sys/subcontractor-pre-qual/internal/entity"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name     string
		analysis entity.DocumentAnalysis
		want     ValidationSummary
	}{
		{
			"valid document",
			entity.DocumentAnalysis{IsValid: true, Confidence: 0.85, Points: 9, MaxPoints: 10},
			ValidationSummary{
				Status: "valid", StatusText: "Document Validated",
				ConfidenceText: "85% confidence", PointsText: "9/10 points", Color: "green",
			},
		},
		{
			"invalid with mid confidence",
			entity.DocumentAnalysis{IsValid: false, Confidence: 0.4, Points: 3, MaxPoints: 10},
			ValidationSummary{
				Status: "invalid", StatusText: "Issues Found",
				ConfidenceText: "40% confidence", PointsText: "3/10 points", Color: "yellow",
			},
		},
		{
			"rejected upload",
			entity.DocumentAnalysis{IsValid: false, Confidence: 0.1, Points: 0, MaxPoints: 10},
			ValidationSummary{
				Status: "invalid", StatusText: "Issues Found",
				ConfidenceText: "10% confidence", PointsText: "0/10 points", Color: "red",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.analysis)
			if got != tt.want {
				t.Errorf("Summarize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSummarizeFlags(t *testing.T) {
	analysis := entity.DocumentAnalysis{
		IsValid:     true,
		OCRResults:  &entity.AcquisitionResult{},
		COIAnalysis: &entity.COIAnalysisResult{},
	}
	got := Summarize(analysis)
	if !got.HasOCR || !got.HasCOI {
		t.Errorf("flags = %+v, want both set", got)
	}
}
