// Package validation checks request bodies and renders failures as
// "field : rule : message" lines sorted by field name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"inkpost/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
		if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
			panic(fmt.Sprintf("register notblank: %v", err))
		}
		validate = v
	})
	return validate
}

// Violation is one failed rule on one field.
type Violation struct {
	Field   string
	Rule    string
	Message string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s : %s : %s", v.Field, v.Rule, v.Message)
}

// Struct validates s. Failures are returned as a ValidationFailed AppError
// whose message lists every violation.
func Struct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return models.NewInternalError(err)
	}

	violations := make([]Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, Violation{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: messageFor(fe),
		})
	}
	return models.NewValidationError(Format(violations))
}

// Format renders violations one per line, ordered by field then rule.
func Format(violations []Violation) string {
	sorted := make([]Violation, len(violations))
	copy(sorted, violations)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Field != sorted[j].Field {
			return sorted[i].Field < sorted[j].Field
		}
		return sorted[i].Rule < sorted[j].Rule
	})

	lines := make([]string, 0, len(sorted))
	for _, v := range sorted {
		lines = append(lines, v.String())
	}
	return strings.Join(lines, "\n")
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank":
		return "must not be blank"
	case "required":
		return "must not be null"
	case "max":
		return "size must be at most " + fe.Param()
	case "min":
		return "size must be at least " + fe.Param()
	default:
		return "is invalid"
	}
}
