package ocr

import (
	"regexp"
	"strings"
)

var reWhitespace = regexp.MustCompile(`\s+`)

// CleanText collapses runs of whitespace so downstream pattern matching sees
// a stable single-spaced form.
func CleanText(text string) string {
	return strings.TrimSpace(reWhitespace.ReplaceAllString(text, " "))
}

// domain keywords that mark extracted text as plausibly relevant
var relevantKeywords = []string{
	"certificate",
	"insurance",
	"liability",
	"policy",
	"coverage",
	"license",
}

// ContainsRelevantContent reports whether the text mentions at least one
// domain keyword. Extracted PDF text failing this check is treated as noise.
func ContainsRelevantContent(text string) bool {
	t := strings.ToLower(text)
	for _, kw := range relevantKeywords {
		if strings.Contains(t, kw) {
			return true
		}
	}
	return false
}
