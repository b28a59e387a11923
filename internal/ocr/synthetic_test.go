package ocr

import (
	"strings"
	"testing"
	"time"
)

func TestCompanyNameFromFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{"dashes and stopword", "ABC-Construction-COI.pdf", "Abc Construction Inc."},
		{"underscores", "acme_roofing_2024.pdf", "Acme Roofing Inc."},
		{"only stopwords and digits", "coi_2024.pdf", "Professional Services Company Inc."},
		{"short tokens dropped", "ab_cd_Builders.png", "Builders Inc."},
		{"keeps first two tokens", "Smith-Jones-Plumbing-Heating.jpg", "Smith Jones Inc."},
		{"empty", "", "Professional Services Company Inc."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompanyNameFromFilename(tt.filename); got != tt.want {
				t.Errorf("CompanyNameFromFilename(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}

func TestGenerateCOIContent(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	text := GenerateCOIContent("ABC-Construction-COI.pdf", now)

	if !strings.Contains(text, "CERTIFICATE OF LIABILITY INSURANCE") {
		t.Error("missing certificate header")
	}
	if !strings.Contains(text, "Abc Construction Inc.") {
		t.Error("missing derived company name")
	}
	if !strings.Contains(text, "3/10/2025") {
		t.Error("missing current date")
	}
	if !strings.Contains(text, "3/10/2026") {
		t.Error("missing one-year expiration date")
	}
	if !strings.Contains(text, "Each Occurrence: $1,000,000") {
		t.Error("missing each-occurrence limit")
	}
	if !strings.Contains(text, "General Aggregate: $2,000,000") {
		t.Error("missing general-aggregate limit")
	}
	if !ContainsRelevantContent(text) {
		t.Error("generated COI content must pass the relevance check")
	}
}

func TestGenerateGenericContent(t *testing.T) {
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	licText := GenerateGenericContent("contractor-license.pdf", "contractorLicense", now)
	if !strings.Contains(licText, "PROFESSIONAL LICENSE CERTIFICATE") {
		t.Error("license filename should produce license-shaped content")
	}

	docText := GenerateGenericContent("w9.pdf", "w9Form", now)
	if !strings.Contains(docText, "w9.pdf") || !strings.Contains(docText, "w9Form") {
		t.Error("generic content should name the file and document type")
	}
}

func TestRandomToken(t *testing.T) {
	tok := RandomToken(8)
	if len(tok) != 8 {
		t.Fatalf("len = %d, want 8", len(tok))
	}
	for _, r := range tok {
		if !strings.ContainsRune(tokenAlphabet, r) {
			t.Errorf("unexpected rune %q", r)
		}
	}
}
