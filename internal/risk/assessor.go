package risk

import (
	"github.com/Law-sys/subcontractor-pre-qual/constants"
	"github.com/Law-sys/subcontractor-pre-qual/internal/entity"
)

// Scoring weights. Base starts low; findings push the score up, mitigating
// attributes pull it down.
const (
	baseScore               = 15
	criticalPenalty         = 20
	warningPenalty          = 10
	recommendationCredit    = 10
	additionalInsuredCredit = 5

	warningThreshold        = 2
	recommendationThreshold = 3
)

// Rating thresholds (inclusive upper bounds).
const (
	lowCeiling    = 15
	mediumCeiling = 30
)

// Assess converts validation findings plus certificate attributes into a
// bounded risk score and a categorical rating. Deterministic and pure.
//
// The Critical rating is part of the declared scale but unreachable under
/// this formula: the maximum attainable score (15+20+10 = 45) stays well
// inside the High band. Kept as declared pending business clarification.
func Assess(coi *entity.COIData, findings entity.ValidationFindings) entity.RiskAssessment {
	score := baseScore
	if len(findings.CriticalIssues) > 0 {
		score += criticalPenalty
	}
	if len(findings.Warnings) > warningThreshold {
		score += warningPenalty
	}
	if len(findings.Recommendations) > recommendationThreshold {
		score -= recommendationCredit
	}
	if coi.AdditionalInsured {
		score -= additionalInsuredCredit
	}
	score = clamp(score, 0, 100)

	assessment := entity.RiskAssessment{
		RiskScore: score,
		Strengths: []string{},
		Concerns:  []string{},
	}
	switch {
	case score <= lowCeiling:
		assessment.OverallRisk = constants.RiskLow
		assessment.Strengths = []string{
			"Adequate coverage limits",
			"Valid policy periods",
			"Comprehensive coverage",
		}
	case score <= mediumCeiling:
		assessment.OverallRisk = constants.RiskMedium
		assessment.Strengths = []string{"Basic requirements met"}
		assessment.Concerns = []string{"Some areas need attention"}
	default:
		assessment.OverallRisk = constants.RiskHigh
		assessment.Concerns = []string{"Coverage gaps identified"}
	}
	return assessment
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
