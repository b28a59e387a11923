package scoring

import (
	"strconv"
	"strings"

	"github.com/Law-sys/subcontractor-pre-qual/constants"
	"github.com/Law-sys/subcontractor-pre-qual/internal/entity"
)

// Category caps. The overall score is the sum of capped categories (max 100).
const (
	capCompanyInformation = 20
	capInsuranceBonding   = 20
	capSafetyPerformance  = 25
	capProjectExperience  = 20
	capFinancialStability = 15
)

// Remediation thresholds: a category below its threshold produces one
// recommendation.
const (
	remedyCompanyBelow    = 15
	remedyExperienceBelow = 15
	remedySafetyBelow     = 18
	remedyInsuranceBelow  = 15
	remedyFinancialBelow  = 10
)

// Presence predicates. Form-field scoring is deliberately explicit per field
// type: no implicit truthiness, each rule independently testable.

func hasText(s string) bool { return strings.TrimSpace(s) != "" }

func hasFiles(files []string) bool { return len(files) > 0 }

func employeesAbove(s string, n int) bool {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return v > n
}

func noOSHACitations(s string) bool { return strings.EqualFold(strings.TrimSpace(s), "no") }

// Calculate computes the overall contractor qualification score from the
// questionnaire. Pure: identical form data yields identical breakdowns.
// Presence checks look only at whether a field was provided, not at content.
func Calculate(form entity.FormData) entity.ScoreBreakdown {
	scores := map[string]int{}

	company := 0
	if hasText(form.CompanyLegalName) {
		company += 3
	}
	if hasText(form.YearFounded) {
		company += 3
	}
	if hasText(form.BusinessStructure) {
		company += 2
	}
	if employeesAbove(form.TotalEmployees, 10) {
		company += 4
	}
	if hasFiles(form.BusinessLicense) {
		company += 4
	}
	if hasFiles(form.ContractorLicense) {
		company += 4
	}
	scores[entity.CategoryCompanyInformation] = capAt(company, capCompanyInformation)

	insurance := 0
	if hasFiles(form.GeneralLiability) {
		insurance += 8
	}
	if hasFiles(form.WorkersCompensation) {
		insurance += 7
	}
	if hasText(form.BondingCapacity) {
		insurance += 5
	}
	scores[entity.CategoryInsuranceBonding] = capAt(insurance, capInsuranceBonding)

	safety := 0
	if hasFiles(form.EMRRates) {
		safety += 8
	}
	if noOSHACitations(form.OSHACitations) {
		safety += 5
	}
	if hasFiles(form.SafetyManual) {
		safety += 5
	}
	scores[entity.CategorySafetyPerformance] = capAt(safety, capSafetyPerformance)

	experience := 0
	if hasText(form.ProjectHistory) {
		experience += 8
	}
	if hasText(form.CurrentBacklog) {
		experience += 4
	}
	scores[entity.CategoryProjectExperience] = capAt(experience, capProjectExperience)

	financial := 0
	if hasFiles(form.FinancialStatements) {
		financial += 5
	}
	scores[entity.CategoryFinancialStability] = capAt(financial, capFinancialStability)

	total := 0
	for _, s := range scores {
		total += s
	}

	qual, desc := qualify(total)

	recommendations := []string{}
	if scores[entity.CategoryCompanyInformation] < remedyCompanyBelow {
		recommendations = append(recommendations, "Complete company info & licenses")
	}
	if scores[entity.CategoryProjectExperience] < remedyExperienceBelow {
		recommendations = append(recommendations, "Provide detailed project history")
	}
	if scores[entity.CategorySafetyPerformance] < remedySafetyBelow {
		recommendations = append(recommendations, "Improve safety program documentation")
	}
	if scores[entity.CategoryInsuranceBonding] < remedyInsuranceBelow {
		recommendations = append(recommendations, "Ensure all insurance meets requirements")
	}
	if scores[entity.CategoryFinancialStability] < remedyFinancialBelow {
		recommendations = append(recommendations, "Provide financial documentation")
	}

	return entity.ScoreBreakdown{
		OverallScore:             total,
		Qualification:            qual,
		QualificationDescription: desc,
		CategoryScores:           scores,
		Recommendations:          recommendations,
	}
}

// qualify maps the overall score to its band (inclusive lower bounds).
func qualify(total int) (constants.Qualification, string) {
	switch {
	case total >= 85:
		return constants.Preferred, "Top-tier contractor"
	case total >= 75:
		return constants.Qualified, "Meets standards"
	case total >= 65:
		return constants.Conditional, "Some improvements needed"
	case total >= 50:
		return constants.ReviewRequired, "Requires evaluation"
	default:
		return constants.NotQualified, "Does not meet minimum qualification standards"
	}
}

func capAt(v, limit int) int {
	if v > limit {
		return limit
	}
	return v
}
