package entity

import "time"

// Canonical coverage keys. Every COIData carries at least these three,
// populated with industry defaults when nothing could be extracted; the
// validator and risk assessor rely on their presence.
const (
	CoverageGeneralLiability    = "generalLiability"
	CoverageAutomobileLiability = "automobileLiability"
	CoverageWorkersCompensation = "workersCompensation"
)

// Limit keys used inside Coverage.Limits.
const (
	LimitEachOccurrence      = "eachOccurrence"
	LimitGeneralAggregate    = "generalAggregate"
	LimitDamageToRented      = "damageToRented"
	LimitMedExp              = "medExp"
	LimitPersonalAdvInjury   = "personalAdvInjury"
	LimitProductsCompOpAgg   = "productsCompOpAgg"
	LimitCombinedSingleLimit = "combinedSingleLimit"
	LimitELEachAccident      = "elEachAccident"
	LimitELDiseaseEmployee   = "elDiseaseEachEmployee"
	LimitELDiseasePolicy     = "elDiseasePolicyLimit"
)

// PolicyPeriod is the validity window of one coverage line.
type PolicyPeriod struct {
	Effective  time.Time `json:"effective"`
	Expiration time.Time `json:"expiration"`
}

// Coverage is one named insurance line on a certificate.
type Coverage struct {
	Type         string           `json:"type"`
	PolicyNumber string           `json:"policyNumber"`
	Insurer      string           `json:"insurer"`
	Limits       map[string]int64 `json:"limits"`
	PolicyPeriod PolicyPeriod     `json:"policyPeriod"`
}

// Limit returns a named limit amount, with ok=false when the certificate
// did not state it.
func (c Coverage) Limit(name string) (int64, bool) {
	v, ok := c.Limits[name]
	return v, ok
}

// COIData is the structured form of a Certificate of Insurance.
type COIData struct {
	CertificateNumber string              `json:"certificateNumber"`
	IssueDate         time.Time           `json:"issueDate"`
	InsuredName       string              `json:"insuredName"`
	InsuredAddress    string              `json:"insuredAddress"`
	Producer          string              `json:"producer"`
	Coverages         map[string]Coverage `json:"coverages"`
	AdditionalInsured bool                `json:"additionalInsured"`
	WaiveSubrogation  bool                `json:"waiveSubrogation"`
	CertificateHolder string              `json:"certificateHolder"`
}

// GeneralLiability returns the general liability line. The extractor
// guarantees its presence.
func (d *COIData) GeneralLiability() Coverage {
	return d.Coverages[CoverageGeneralLiability]
}
