package ingest

import (
	"strings"

	"github.com/Law-sys/subcontractor-pre-qual/constants"
)

// filename keyword -> checklist slot, checked in order so more specific
// matches win
var docTypeHints = []struct {
	keyword string
	docType constants.DocumentType
}{
	{"coi", constants.COICertificate},
	{"workers", constants.WorkersCompensation},
	{"professional", constants.ProfessionalLiability},
	{"liability", constants.GeneralLiability},
	{"insurance", constants.COICertificate},
	{"contractor", constants.ContractorLicense},
	{"license", constants.BusinessLicense},
	{"safety", constants.SafetyManual},
	{"osha", constants.OSHA300Forms},
	{"w9", constants.W9Form},
	{"w-9", constants.W9Form},
	{"financial", constants.FinancialStatements},
	{"bond", constants.BondingLetter},
	{"endorsement", constants.AdditionalEndorsement},
}

// GuessDocumentType maps a dropped file to a checklist slot from its name.
// Unrecognized names default to the COI slot, since drop directories are
// overwhelmingly used for insurance certificates.
func GuessDocumentType(filename string) constants.DocumentType {
	lower := strings.ToLower(filename)
	for _, hint := range docTypeHints {
		if strings.Contains(lower, hint.keyword) {
			return hint.docType
		}
	}
	return constants.COICertificate
}
