package forms

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Law-sys/subcontractor-pre-qual/internal/entity"
)

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// ParseFormData validates the raw payload against the questionnaire schema
// and decodes it.
func ParseFormData(data []byte) (out entity.FormData, err error) {
	if err = ValidateJSONAgainstSchema(BuildFormSchema(), data); err != nil {
		return out, err
	}
	if err = json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("decode form data: %w", err)
	}
	return out, nil
}
