package constants

// DocumentType identifies one slot in the pre-qualification document checklist.
type DocumentType string

const (
	BusinessLicense       DocumentType = "businessLicense"
	ContractorLicense     DocumentType = "contractorLicense"
	GeneralLiability      DocumentType = "generalLiability"
	WorkersCompensation   DocumentType = "workersCompensation"
	ProfessionalLiability DocumentType = "professionalLiability"
	SafetyManual          DocumentType = "safetyManual"
	OSHA300Forms          DocumentType = "osha300Forms"
	InsuranceLetter       DocumentType = "insuranceLetter"
	W9Form                DocumentType = "w9Form"
	FinancialStatements   DocumentType = "financialStatements"
	COICertificate        DocumentType = "coiCertificate"
	BondingLetter         DocumentType = "bondingLetter"
	AdditionalEndorsement DocumentType = "additionalEndorsement"
)

// DocumentScoring declares the point budget and whether the document is
// mandatory for a complete submission.
type DocumentScoring struct {
	MaxPoints int
	Required  bool
}

// DocumentCatalog is the fixed checklist. Unknown document types score
// against DefaultMaxPoints.
var DocumentCatalog = map[DocumentType]DocumentScoring{
	BusinessLicense:       {MaxPoints: 10, Required: true},
	ContractorLicense:     {MaxPoints: 15, Required: true},
	GeneralLiability:      {MaxPoints: 20, Required: true},
	WorkersCompensation:   {MaxPoints: 18, Required: true},
	ProfessionalLiability: {MaxPoints: 12, Required: false},
	SafetyManual:          {MaxPoints: 10, Required: true},
	OSHA300Forms:          {MaxPoints: 8, Required: true},
	InsuranceLetter:       {MaxPoints: 7, Required: true},
	W9Form:                {MaxPoints: 5, Required: true},
	FinancialStatements:   {MaxPoints: 15, Required: true},
	COICertificate:        {MaxPoints: 10, Required: true},
	BondingLetter:         {MaxPoints: 8, Required: false},
	AdditionalEndorsement: {MaxPoints: 5, Required: false},
}

const DefaultMaxPoints = 10

// MaxPointsFor returns the point budget for a document type.
func MaxPointsFor(dt DocumentType) int {
	if s, ok := DocumentCatalog[dt]; ok {
		return s.MaxPoints
	}
	return DefaultMaxPoints
}

// insuranceTypes are analyzed through the COI path; everything else goes
// through generic document analysis.
var insuranceTypes = map[DocumentType]struct{}{
	GeneralLiability:      {},
	WorkersCompensation:   {},
	ProfessionalLiability: {},
	COICertificate:        {},
}

// IsInsuranceType reports whether the document type carries a Certificate
// of Insurance.
func IsInsuranceType(dt DocumentType) bool {
	_, ok := insuranceTypes[dt]
	return ok
}

// AllDocumentTypes returns the catalog keys as strings, for validation.
func AllDocumentTypes() []string {
	out := make([]string, 0, len(DocumentCatalog))
	for dt := range DocumentCatalog {
		out = append(out, string(dt))
	}
	return out
}
