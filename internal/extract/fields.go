package extract

import (
	"regexp"
	"strings"
)

// Extraction patterns are data: each named pattern captures exactly one
// group, and extractField is the only place match results are read. This
// keeps the heuristics table-testable instead of scattered inline.
var (
	reCertNumber    = regexp.MustCompile(`(?i)(?:certificate|cert).*?(?:no|number|#):?\s*([a-z0-9\-]+)`)
	reDocNumber     = regexp.MustCompile(`(?i)(?:certificate|cert|license).*?(?:no|number|#):?\s*([a-z0-9\-]+)`)
	reInsuredName   = regexp.MustCompile(`(?i)insured:?\s*([^\n]+)`)
	reCompanyName   = regexp.MustCompile(`(?i)(?:company|business|insured)[\s:]*([^\n]+?)(?:\n|address)`)
	reEffectiveDate = regexp.MustCompile(`(?i)(?:effective|issue|from)[\s:]*(\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4})`)
	reExpireDate    = regexp.MustCompile(`(?i)(?:expir|to|through)[\s:]*(\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4})`)

	reEachOccurrence = regexp.MustCompile(`(?i)each\s*occurrence:?\s*\$?([\d,]+)`)
	reGeneralAgg     = regexp.MustCompile(`(?i)general\s*aggregate:?\s*\$?([\d,]+)`)
	reCombinedSingle = regexp.MustCompile(`(?i)combined\s*single\s*limit:?\s*\$?([\d,]+)`)
	reELEachAccident = regexp.MustCompile(`(?i)e\.?l\.?\s*each\s*accident:?\s*\$?([\d,]+)`)
)

// extractField returns the first capture group of the pattern, trimmed, or
// "" when the text does not match.
func extractField(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}
