// Package schema guards the trust boundary between raw source data and the
// system of record. Every dataset passes through Validate before it may
// reach the cache or the assembler.
package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/venturegraph/sdk-go/pkg/interfaces"
)

// Validator performs structural and semantic validation of canonical
// datasets. Violations are aggregated: the caller sees every problem in one
// error, not just the first.
type Validator struct {
	validate *validator.Validate
}

// New creates a dataset validator
func New() *Validator {
	v := validator.New()

	// Report JSON field names instead of Go struct names in violations
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	return &Validator{validate: v}
}

// Validate decodes raw JSON and checks it against the canonical dataset
// schema. On success the decoded dataset is returned; on failure the error
// is an *interfaces.ValidationError aggregating every violation.
func (v *Validator) Validate(raw []byte) (*interfaces.Dataset, error) {
	var dataset interfaces.Dataset
	if err := json.Unmarshal(raw, &dataset); err != nil {
		return nil, &interfaces.ValidationError{
			Violations: []string{structuralViolation(err)},
		}
	}

	if err := v.ValidateDataset(&dataset); err != nil {
		return nil, err
	}
	return &dataset, nil
}

// ValidateDataset checks an already-decoded dataset against the schema
func (v *Validator) ValidateDataset(dataset *interfaces.Dataset) error {
	err := v.validate.Struct(dataset)
	if err == nil {
		return nil
	}

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return &interfaces.ValidationError{Violations: []string{err.Error()}}
	}

	violations := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		violations = append(violations, fmt.Sprintf("%s: %s", fieldPath(fe), reason(fe)))
	}
	return &interfaces.ValidationError{Violations: violations}
}

// fieldPath strips the root struct name from the namespace, leaving paths
// like "organizations[0].stage"
func fieldPath(fe validator.FieldError) string {
	path := fe.Namespace()
	if i := strings.IndexByte(path, '.'); i >= 0 {
		return path[i+1:]
	}
	return path
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be <= %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func structuralViolation(err error) string {
	if typeErr, ok := err.(*json.UnmarshalTypeError); ok {
		path := typeErr.Field
		if path == "" {
			path = "$"
		}
		return fmt.Sprintf("%s: expected %s, got %s", path, typeErr.Type, typeErr.Value)
	}
	return fmt.Sprintf("$: malformed document (%v)", err)
}
