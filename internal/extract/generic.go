package extract

import (
	"github.com/Law-sys/subcontractor-pre-qual/constants"
)

// ExtractFields pulls the flat field map for non-insurance documents.
// Unmatched fields are present with empty values so callers see a stable
// shape.
func ExtractFields(text string, documentType constants.DocumentType, filename string) map[string]string {
	return map[string]string{
		"certificateNumber": extractField(reDocNumber, text),
		"companyName":       extractField(reCompanyName, text),
		"effectiveDate":     extractField(reEffectiveDate, text),
		"expirationDate":    extractField(reExpireDate, text),
		"fileName":          filename,
		"documentType":      string(documentType),
	}
}
