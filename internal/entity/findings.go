package entity

import "github.com/Law-sys/subcontractor-pre-qual/constants"

// ValidationFindings classifies rule outcomes for one document.
// IsValid is false exactly when CriticalIssues is non-empty (COI path);
// generic documents default to valid. Entry order is insertion order and
// carries no meaning beyond display.
type ValidationFindings struct {
	IsValid         bool     `json:"isValid"`
	CriticalIssues  []string `json:"criticalIssues"`
	Warnings        []string `json:"warnings"`
	Recommendations []string `json:"recommendations"`
}

// NewValidationFindings returns findings with empty (non-nil) slices so JSON
// output always carries arrays, matching the result contract.
func NewValidationFindings() ValidationFindings {
	return ValidationFindings{
		IsValid:         true,
		CriticalIssues:  []string{},
		Warnings:        []string{},
		Recommendations: []string{},
	}
}

// RiskAssessment is the derived risk view of a COI. Never mutated after
// creation.
type RiskAssessment struct {
	OverallRisk constants.RiskRating `json:"overallRisk"`
	RiskScore   int                  `json:"riskScore"`
	Strengths   []string             `json:"strengths"`
	Concerns    []string             `json:"concerns"`
}
