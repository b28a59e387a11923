package scoring

import (
	"reflect"
	"testing"

	"github.com/Law-sys/subcontractor-pre-qual/constants"
	"github.com/Law-sys/subcontractor-pre-qual/internal/entity"
)

func completeForm() entity.FormData {
	return entity.FormData{
		CompanyLegalName:    "Acme Builders LLC",
		YearFounded:         "1998",
		BusinessStructure:   "LLC",
		TotalEmployees:      "45",
		BusinessLicense:     []string{"license.pdf"},
		ContractorLicense:   []string{"contractor.pdf"},
		GeneralLiability:    []string{"gl.pdf"},
		WorkersCompensation: []string{"wc.pdf"},
		BondingCapacity:     "$5M aggregate",
		EMRRates:            []string{"emr.pdf"},
		OSHACitations:       "no",
		SafetyManual:        []string{"manual.pdf"},
		ProjectHistory:      "20 commercial projects",
		CurrentBacklog:      "$2M",
		FinancialStatements: []string{"fin.pdf"},
	}
}

func TestCalculateCompleteForm(t *testing.T) {
	got := Calculate(completeForm())

	wantScores := map[string]int{
		entity.CategoryCompanyInformation: 20,
		entity.CategoryInsuranceBonding:   20,
		entity.CategorySafetyPerformance:  18,
		entity.CategoryProjectExperience:  12,
		entity.CategoryFinancialStability: 5,
	}
	if !reflect.DeepEqual(got.CategoryScores, wantScores) {
		t.Errorf("category scores = %v, want %v", got.CategoryScores, wantScores)
	}
	if got.OverallScore != 75 {
		t.Errorf("overall = %d, want 75", got.OverallScore)
	}
	if got.Qualification != constants.Qualified {
		t.Errorf("qualification = %q, want QUALIFIED", got.Qualification)
	}
	// experience and financial sit below their remediation thresholds
	if len(got.Recommendations) != 2 {
		t.Errorf("recommendations = %v, want 2 entries", got.Recommendations)
	}
}

func TestCalculateEmptyForm(t *testing.T) {
	got := Calculate(entity.FormData{})

	if got.OverallScore != 0 {
		t.Errorf("overall = %d, want 0", got.OverallScore)
	}
	if got.Qualification != constants.NotQualified {
		t.Errorf("qualification = %q, want NOT_QUALIFIED", got.Qualification)
	}
	if got.QualificationDescription != "Does not meet minimum qualification standards" {
		t.Errorf("description = %q", got.QualificationDescription)
	}
	if len(got.Recommendations) != 5 {
		t.Errorf("empty form gets all 5 recommendations, got %v", got.Recommendations)
	}
	for _, score := range got.CategoryScores {
		if score != 0 {
			t.Errorf("category scores = %v, want all zero", got.CategoryScores)
			break
		}
	}
}

func TestCalculatePartialCompany(t *testing.T) {
	form := entity.FormData{
		CompanyLegalName:  "Acme",
		YearFounded:       "2001",
		BusinessStructure: "LLC",
		TotalEmployees:    "10", // boundary: not above 10
		BusinessLicense:   []string{"license.pdf"},
		ContractorLicense: []string{"contractor.pdf"},
	}
	got := Calculate(form)

	if got.CategoryScores[entity.CategoryCompanyInformation] != 16 {
		t.Errorf("company score = %d, want 16", got.CategoryScores[entity.CategoryCompanyInformation])
	}
}

func TestEmployeesAbove(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"11", true},
		{"10", false},
		{" 50 ", true},
		{"", false},
		{"many", false},
	}
	for _, tt := range tests {
		if got := employeesAbove(tt.in, 10); got != tt.want {
			t.Errorf("employeesAbove(%q, 10) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNoOSHACitations(t *testing.T) {
	if !noOSHACitations("No") {
		t.Error("case-insensitive 'no' should count")
	}
	if noOSHACitations("yes") || noOSHACitations("") {
		t.Error("only an explicit 'no' earns points")
	}
}

func TestQualifyBands(t *testing.T) {
	tests := []struct {
		total int
		want  constants.Qualification
	}{
		{100, constants.Preferred},
		{85, constants.Preferred},
		{84, constants.Qualified},
		{75, constants.Qualified},
		{74, constants.Conditional},
		{65, constants.Conditional},
		{64, constants.ReviewRequired},
		{50, constants.ReviewRequired},
		{49, constants.NotQualified},
		{0, constants.NotQualified},
	}
	for _, tt := range tests {
		if got, _ := qualify(tt.total); got != tt.want {
			t.Errorf("qualify(%d) = %q, want %q", tt.total, got, tt.want)
		}
	}
}

func TestCalculateDeterministic(t *testing.T) {
	form := completeForm()
	a, b := Calculate(form), Calculate(form)
	if !reflect.DeepEqual(a, b) {
		t.Error("scoring must be deterministic")
	}
}
