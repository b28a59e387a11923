package forms

// BuildFormSchema returns a JSON-Schema (draft 2020-12 subset) as a generic
// map describing the qualification questionnaire payload. It is used to
// validate submitted form data before scoring.
func BuildFormSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"companyLegalName":  textProp(),
			"yearFounded":       map[string]any{"type": "string", "pattern": `^\d{0,4}$`},
			"businessStructure": textProp(),
			"totalEmployees":    map[string]any{"type": "string", "pattern": `^\d*$`},

			"businessLicense":   fileListProp(),
			"contractorLicense": fileListProp(),

			"generalLiability":    fileListProp(),
			"workersCompensation": fileListProp(),
			"bondingCapacity":     textProp(),

			"emrRates":      fileListProp(),
			"oshaCitations": map[string]any{"type": "string", "enum": []string{"", "yes", "no"}},
			"safetyManual":  fileListProp(),

			"projectHistory": textProp(),
			"currentBacklog": textProp(),

			"financialStatements": fileListProp(),
		},
	}
}

func textProp() map[string]any {
	return map[string]any{"type": "string"}
}

func fileListProp() map[string]any {
	return map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string", "minLength": 1},
	}
}
