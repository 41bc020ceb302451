package validator

import (
	"fmt"
	"strings"
	"time"

	"eras_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// ValidationError carries field-level messages back to the handler layer.
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for field, msg := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	registerCustomRules(v)
	return &Validator{validate: v}
}

// Validate runs struct validation and converts failures into a
// ValidationError keyed by the struct field name.
func (v *Validator) Validate(obj interface{}) error {
	err := v.validate.Struct(obj)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	errs := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs[fe.Field()] = messageForTag(fe)
	}
	return &ValidationError{Errors: errs}
}

func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("failed to register validation rule %q: %v", tag, err))
		}
	}

	mustRegister("disaster_type", func(fl validator.FieldLevel) bool {
		return models.IsValidDisasterType(models.DisasterType(fl.Field().String()))
	})

	mustRegister("disaster_severity", func(fl validator.FieldLevel) bool {
		return models.IsValidSeverity(models.DisasterSeverity(fl.Field().String()))
	})

	mustRegister("response_status", func(fl validator.FieldLevel) bool {
		return models.IsValidResponseStatus(models.ResponseStatus(fl.Field().String()))
	})

	mustRegister("report_reason", func(fl validator.FieldLevel) bool {
		return models.IsValidReportReason(models.ReportReason(fl.Field().String()))
	})

	// not_future rejects timestamps after now; used on incident_datetime.
	mustRegister("not_future", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		if !ok {
			return false
		}
		return !t.After(time.Now())
	})

	// not_past rejects timestamps before now; used on estimated_arrival.
	mustRegister("not_past", func(fl validator.FieldLevel) bool {
		field := fl.Field().Interface()
		switch t := field.(type) {
		case time.Time:
			return !t.Before(time.Now())
		case *time.Time:
			return t == nil || !t.Before(time.Now())
		}
		return false
	})
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "disaster_type":
		return "unknown disaster type"
	case "disaster_severity":
		return "severity must be one of critical, high, medium, low"
	case "response_status":
		return "unknown response status"
	case "report_reason":
		return "unknown report reason"
	case "not_future":
		return "cannot be in the future"
	case "not_past":
		return "cannot be in the past"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
