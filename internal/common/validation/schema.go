package validation

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/xeipuuv/gojsonschema"
)

// EmailPattern is the address format accepted across the service.
const EmailPattern = `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`

var emailRegex = regexp.MustCompile(EmailPattern)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Schema is a compiled JSON schema with optional per-field messages.
type Schema struct {
	schema   *gojsonschema.Schema
	messages map[string]string
}

// NewSchema compiles schemaJSON. messages overrides the library description for a field.
func NewSchema(schemaJSON string, messages map[string]string) (*Schema, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Schema{schema: compiled, messages: messages}, nil
}

// MustSchema is NewSchema for package-level schemas.
func MustSchema(schemaJSON string, messages map[string]string) *Schema {
	s, err := NewSchema(schemaJSON, messages)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks doc (any JSON-marshalable value) against the schema.
// Errors are sorted by field so the first error is stable.
func (s *Schema) Validate(doc interface{}) (*ValidationResult, error) {
	result, err := s.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := fieldOf(desc)
		message := desc.Description()
		if custom, ok := s.messages[field]; ok {
			message = custom
		}
		errs = append(errs, ValidationError{
			Field:   field,
			Message: message,
			Code:    desc.Type(),
		})
	}
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Field < errs[j].Field })

	return &ValidationResult{
		Valid:  result.Valid(),
		Errors: errs,
	}, nil
}

// fieldOf reports the property an error refers to. Errors raised on the
// root object (required, additionalProperties) carry it in their details.
func fieldOf(desc gojsonschema.ResultError) string {
	field := desc.Field()
	if field == "(root)" || field == "" {
		if p, ok := desc.Details()["property"].(string); ok {
			return p
		}
	}
	return field
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// FirstMessage returns the message of the first error, or "".
func (vr *ValidationResult) FirstMessage() string {
	if len(vr.Errors) == 0 {
		return ""
	}
	return vr.Errors[0].Message
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

// ValidateEmail validates email format
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}
