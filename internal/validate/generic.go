package validate

import "github.com/Law-sys/subcontractor-pre-qual/internal/entity"

// Generic evaluates non-insurance documents. There is no critical-issue rule
// for generic documents, so they always validate.
func Generic(fields map[string]string) entity.ValidationFindings {
	out := entity.NewValidationFindings()
	out.Recommendations = append(out.Recommendations, "Document processed successfully")
	if len(fields) > 2 {
		out.Recommendations = append(out.Recommendations, "Fields extracted")
	}
	return out
}
