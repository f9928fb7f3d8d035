package domain

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("finite", isFinite); err != nil {
		panic(err)
	}
	return v
}

func isFinite(fl validator.FieldLevel) bool {
	f := fl.Field()
	switch f.Kind() {
	case reflect.Float32, reflect.Float64:
		x := f.Float()
		return !math.IsNaN(x) && !math.IsInf(x, 0)
	default:
		return true
	}
}

// validateStruct runs struct validation and converts the first failure into
// an *InvalidObservationError.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidObservation, err)
	}

	fe := fieldErrs[0]
	return &InvalidObservationError{
		Field:  fieldPath(fe.Namespace()),
		Reason: fieldReason(fe),
	}
}

// fieldPath drops the root type name: "SensorRecord.air_data.humidity" -> "air_data.humidity".
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func fieldReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "missing"
	case "finite":
		return "must be a finite number"
	case "gte":
		return fmt.Sprintf("%v is below %s", fe.Value(), fe.Param())
	case "lte":
		return fmt.Sprintf("%v is above %s", fe.Value(), fe.Param())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
