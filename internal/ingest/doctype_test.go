package ingest

import (
	"testing"

	"github.com/Law-sys/subcontractor-pre-qual/constants"
)

func TestGuessDocumentType(t *testing.T) {
	tests := []struct {
		filename string
		want     constants.DocumentType
	}{
		{"ABC-Construction-COI.pdf", constants.COICertificate},
		{"workers-comp-2025.pdf", constants.WorkersCompensation},
		{"professional-liability.pdf", constants.ProfessionalLiability},
		{"general-liability-cert.pdf", constants.GeneralLiability},
		{"insurance-letter.pdf", constants.COICertificate},
		{"contractor-license.pdf", constants.ContractorLicense},
		{"business-license.pdf", constants.BusinessLicense},
		{"Safety-Manual-v2.pdf", constants.SafetyManual},
		{"osha300.pdf", constants.OSHA300Forms},
		{"w9.pdf", constants.W9Form},
		{"W-9-form.pdf", constants.W9Form},
		{"financial-statements-2024.pdf", constants.FinancialStatements},
		{"bonding-letter.pdf", constants.BondingLetter},
		{"additional-endorsement.pdf", constants.AdditionalEndorsement},
		{"unrecognized.pdf", constants.COICertificate},
	}
	for _, tt := range tests {
		if got := GuessDocumentType(tt.filename); got != tt.want {
			t.Errorf("GuessDocumentType(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

func TestIsHidden(t *testing.T) {
	if !IsHidden("/drop/.DS_Store") {
		t.Error("dotfiles are hidden")
	}
	if IsHidden("/drop/coi.pdf") {
		t.Error("regular files are not hidden")
	}
}
