package domain

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// InputValidator validates catalog records and query inputs
type InputValidator struct {
	structs *validator.Validate
}

// NewInputValidator creates a new input validator with default settings
func NewInputValidator() *InputValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails for an empty tag or nil func
	_ = v.RegisterValidation("sort_column", func(fl validator.FieldLevel) bool {
		return slices.Contains(SortableColumns, fl.Field().String())
	})

	return &InputValidator{structs: v}
}

// NewValidator creates a new input validator instance
func NewValidator() Validator {
	return NewInputValidator()
}

// ValidateRecord checks a single catalog record. Only id and package are
// required; url, type and fixable are shown as written by the extractor.
func (v *InputValidator) ValidateRecord(record *RuleRecord) error {
	if record == nil {
		return NewAppError(ErrValidationFailed, "Record cannot be nil", 422, nil)
	}

	if err := v.structs.Struct(record); err != nil {
		return NewAppErrorWithCause(ErrValidationFailed, "Invalid rule record", 422, err, map[string]any{
			"id":     record.ID,
			"fields": fieldErrors(err),
		})
	}

	return nil
}

// ValidateQuery checks query pipeline inputs
func (v *InputValidator) ValidateQuery(params *QueryParams) error {
	if params == nil {
		return NewAppError(ErrValidationFailed, "Query cannot be nil", 422, nil)
	}

	if !utf8.ValidString(params.Search) || !utf8.ValidString(params.CategoryFilter) {
		return NewAppError(ErrValidationFailed, "Query must be valid UTF-8", 422, nil)
	}

	if err := v.structs.Struct(params); err != nil {
		return NewAppErrorWithCause(ErrValidationFailed, "Invalid query parameters", 422, err, map[string]any{
			"fields": fieldErrors(err),
		})
	}

	return nil
}

// fieldErrors flattens validator errors into field → message pairs
func fieldErrors(err error) map[string]string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return map[string]string{"_": err.Error()}
	}

	out := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out[field] = "is required"
		case "oneof":
			out[field] = fmt.Sprintf("must be one of: %s", e.Param())
		case "min":
			out[field] = fmt.Sprintf("must be at least %s", e.Param())
		case "max":
			out[field] = fmt.Sprintf("must be at most %s", e.Param())
		case "sort_column":
			out[field] = fmt.Sprintf("must be one of: %s", strings.Join(SortableColumns, " "))
		default:
			out[field] = fmt.Sprintf("failed validation: %s", e.Tag())
		}
	}
	return out
}
