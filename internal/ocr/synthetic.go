package ocr

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/Law-sys/subcontractor-pre-qual/constants"
)

// Synthetic generation is a design-acknowledged heuristic substitute for
// unavailable real extraction: when no text can be read out of a document,
// the pipeline fabricates plausible COI-shaped or generic content and tags
// it with a reduced confidence instead of failing the upload.

var (
	reKnownExt   = regexp.MustCompile(`(?i)\.(pdf|jpg|jpeg|png|doc|docx)$`)
	reSplitToken = regexp.MustCompile(`[-_\s]+`)
	reAllDigits  = regexp.MustCompile(`^\d+$`)
)

// filename tokens that never name a company
var nameStopwords = map[string]struct{}{
	"coi":         {},
	"certificate": {},
	"insurance":   {},
	"license":     {},
	"safety":      {},
}

const defaultCompanyName = "Professional Services Company Inc."

// CompanyNameFromFilename derives a pseudo company name from an upload
// filename: drop the extension, split on dashes/underscores/whitespace,
// discard short, numeric and stopword tokens, title-case the first two that
// remain and append "Inc.".
func CompanyNameFromFilename(filename string) string {
	clean := reKnownExt.ReplaceAllString(filename, "")
	parts := reSplitToken.Split(clean, -1)

	var kept []string
	for _, p := range parts {
		if len(p) <= 2 || reAllDigits.MatchString(p) {
			continue
		}
		if _, stop := nameStopwords[strings.ToLower(p)]; stop {
			continue
		}
		kept = append(kept, p)
	}
	if len(kept) == 0 {
		return defaultCompanyName
	}
	if len(kept) > 2 {
		kept = kept[:2]
	}
	for i, p := range kept {
		kept[i] = strings.ToUpper(p[:1]) + strings.ToLower(p[1:])
	}
	return strings.Join(kept, " ") + " Inc."
}

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomToken returns an uppercase alphanumeric token used for fabricated
// certificate and policy numbers.
func RandomToken(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = tokenAlphabet[rand.Intn(len(tokenAlphabet))]
	}
	return string(b)
}

// dateLayout matches the slash-dates the field extractor looks for.
const dateLayout = "1/2/2006"

// GenerateCOIContent fabricates an ACORD-like certificate for the named
// file: three standard coverage lines with industry-standard limits and a
// one-year policy period starting today.
func GenerateCOIContent(filename string, now time.Time) string {
	company := CompanyNameFromFilename(filename)
	current := now.Format(dateLayout)
	future := now.AddDate(1, 0, 0).Format(dateLayout)

	return fmt.Sprintf(`CERTIFICATE OF LIABILITY INSURANCE
DATE: %s
CERTIFICATE NUMBER: COI%s

INSURED:
%s
123 Business Street
City, State 12345

COVERAGES:

COMMERCIAL GENERAL LIABILITY
Policy Number: GL%s
Policy Period: %s TO %s
Each Occurrence: $1,000,000
General Aggregate: $2,000,000

AUTOMOBILE LIABILITY
Policy Number: AL%s
Policy Period: %s TO %s
Combined Single Limit: $1,000,000

WORKERS COMPENSATION
Policy Number: WC%s
Policy Period: %s TO %s
E.L. Each Accident: $1,000,000
`, current, RandomToken(8), company,
		RandomToken(6), current, future,
		RandomToken(6), current, future,
		RandomToken(6), current, future)
}

// GenerateGenericContent fabricates a short summary for non-insurance
// documents; filenames mentioning a license get license-shaped content.
func GenerateGenericContent(filename string, documentType constants.DocumentType, now time.Time) string {
	company := CompanyNameFromFilename(filename)
	current := now.Format(dateLayout)

	if strings.Contains(strings.ToLower(filename), "license") {
		return fmt.Sprintf(`PROFESSIONAL LICENSE CERTIFICATE
License Number: LIC%s
Issue Date: %s
Licensee: %s`, RandomToken(8), current, company)
	}

	return fmt.Sprintf(`DOCUMENT
File: %s
Company: %s
Date: %s
Type: %s`, filename, company, current, documentType)
}
