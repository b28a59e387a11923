package scoring

import "math"

// Confidence caps for awarding document points: even a perfect-confidence
// extraction never earns the full budget, and COI analysis is trusted a bit
// further than generic analysis.
const (
	coiConfidenceCap     = 0.9
	genericConfidenceCap = 0.8

	coiFailureShare     = 0.3
	genericFailureShare = 0.2
)

// COIPoints allocates points for a successfully analyzed insurance document,
// discounted by extraction confidence.
func COIPoints(maxPoints int, confidence float64) int {
	return round(float64(maxPoints) * math.Min(confidence, coiConfidenceCap))
}

// GenericPoints allocates points for a successfully analyzed generic
// document.
func GenericPoints(maxPoints int, confidence float64) int {
	return round(float64(maxPoints) * math.Min(confidence, genericConfidenceCap))
}

// COIFailurePoints is the consolation allocation when COI analysis fails.
func COIFailurePoints(maxPoints int) int {
	return round(float64(maxPoints) * coiFailureShare)
}

// GenericFailurePoints is the consolation allocation when generic analysis
// fails.
func GenericFailurePoints(maxPoints int) int {
	return round(float64(maxPoints) * genericFailureShare)
}

func round(v float64) int {
	return int(math.Round(v))
}
