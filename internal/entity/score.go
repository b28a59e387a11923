package entity

import "github.com/Law-sys/subcontractor-pre-qual/constants"

// Category keys in ScoreBreakdown.CategoryScores.
const (
	CategoryCompanyInformation = "companyInformation"
	CategoryInsuranceBonding   = "insuranceBonding"
	CategorySafetyPerformance  = "safetyPerformance"
	CategoryProjectExperience  = "projectExperience"
	CategoryFinancialStability = "financialStability"
)

// FormData is the qualification questionnaire payload. File-typed fields
// carry the names of the uploaded files; scoring only checks presence.
type FormData struct {
	CompanyLegalName  string `json:"companyLegalName"`
	YearFounded       string `json:"yearFounded"`
	BusinessStructure string `json:"businessStructure"`
	TotalEmployees    string `json:"totalEmployees"`

	BusinessLicense   []string `json:"businessLicense"`
	ContractorLicense []string `json:"contractorLicense"`

	GeneralLiability    []string `json:"generalLiability"`
	WorkersCompensation []string `json:"workersCompensation"`
	BondingCapacity     string   `json:"bondingCapacity"`

	EMRRates      []string `json:"emrRates"`
	OSHACitations string   `json:"oshaCitations"`
	SafetyManual  []string `json:"safetyManual"`

	ProjectHistory string `json:"projectHistory"`
	CurrentBacklog string `json:"currentBacklog"`

	FinancialStatements []string `json:"financialStatements"`
}

// ScoreBreakdown is the overall contractor qualification outcome. It is
// computed fresh on every evaluation, never updated incrementally.
type ScoreBreakdown struct {
	OverallScore             int                     `json:"overallScore"`
	Qualification            constants.Qualification `json:"qualification"`
	QualificationDescription string                  `json:"qualificationDescription"`
	CategoryScores           map[string]int          `json:"categoryScores"`
	Recommendations          []string                `json:"recommendations"`
}
