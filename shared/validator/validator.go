// Package validator decodes JSON request bodies and checks them with go-playground/validator.
// Every failure comes back as a validation Failure naming the JSON field.
package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	val "github.com/go-playground/validator/v10"

	"appointly/shared/constant"
	"appointly/shared/failure"
)

var validate = newValidate()

// layoutOf accepts strings that parse with layout and have exactly its width, so "9:30" is not a clock.
func layoutOf(layout string) val.Func {
	return func(field val.FieldLevel) bool {
		value, ok := field.Field().Interface().(string)
		if !ok || len(value) != len(layout) {
			return false
		}

		_, err := time.Parse(layout, value)

		return err == nil
	}
}

func notBlank(field val.FieldLevel) bool {
	value, ok := field.Field().Interface().(string)

	return !ok || strings.TrimSpace(value) != ""
}

func jsonName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}

	if name == "" {
		return field.Name
	}

	return name
}

func newValidate() *val.Validate {
	v := val.New(val.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)

	custom := map[string]val.Func{
		"hhmm":     layoutOf(constant.ClockFormat),
		"day":      layoutOf(constant.DayFormat),
		"notblank": notBlank,
	}

	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}

	return v
}

// Validate decodes r into data and validates the result. An empty body is reported as such
// rather than as a generic decode error.
func Validate[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		if errors.Is(err, io.EOF) {
			return failure.BadRequestFromString("request body is required") //nolint:wrapcheck
		}

		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	return asFailure(validate.Struct(data))
}

// ValidateVar checks a single value, such as a query parameter, against tag.
func ValidateVar(field any, tag string) error {
	return asFailure(validate.Var(field, tag))
}

func asFailure(err error) error {
	if err == nil {
		return nil
	}

	return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
}
