package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"required": "{field} is required",
	"notblank": "{field} is required",
	"gte":      "{field} must be greater than or equal to {param}",
	"lte":      "{field} must be less than or equal to {param}",
	"oneof":    "{field} must be one of: {param}",
	"max":      "{field} must be at most {param}",
	"min":      "{field} must be at least {param}",
	"email":    "{field} must be a valid email address",
	"hhmm":     "{field} must be a time in HH:MM format",
	"day":      "{field} must be a date in YYYY-MM-DD format",
	"gtfield":  "{field} must be after {param}",
	"uuid":     "{field} must be a valid UUID",
}

// message renders the first field error it has a template for. Var checks have no field name,
// so they are reported as "value".
func message(err error) string {
	var valErrors val.ValidationErrors
	if !errors.As(err, &valErrors) {
		return err.Error()
	}

	for _, fieldErr := range valErrors {
		template, ok := messages[fieldErr.Tag()]
		if !ok {
			continue
		}

		field := fieldErr.Field()
		if field == "" {
			field = "value"
		}

		return strings.NewReplacer("{field}", field, "{param}", fieldErr.Param()).Replace(template)
	}

	return valErrors.Error()
}
