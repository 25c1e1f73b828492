package volume

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidQuery wraps every validation failure
var ErrInvalidQuery = errors.New("invalid query")

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		validate.RegisterStructValidation(dateOrderValidation, Query{})
	})
	return validate
}

// dateOrderValidation rejects ranges whose start is after the end.
// YYYY-MM-DD compares correctly as a string once both are well formed.
func dateOrderValidation(sl validator.StructLevel) {
	q := sl.Current().Interface().(Query)
	if q.StartDate != "" && q.EndDate != "" && q.StartDate > q.EndDate {
		sl.ReportError(q.EndDate, "end_date", "EndDate", "gtefield", "start_date")
	}
}

// Validate checks the query against the provider's constraints
func (q Query) Validate() error {
	err := getValidator().Struct(q)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidQuery, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s needs at least %s entries", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s accepts at most %s entries", field, fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a YYYY-MM-DD date", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "gtefield":
		return "end_date must not be before start_date"
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}
