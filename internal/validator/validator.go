package validator

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

const (
	ErrMinLength      = "must be at least %s"
	ErrMaxLength      = "must be at most %s"
	ErrDefaultInvalid = "is invalid"
)

var seatCodeRgx = regexp.MustCompile(`^[A-Z][1-9][0-9]?$`)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterValidation("seat_code", validateSeatCode)

	return validator
}

func validateSeatCode(fl validator.FieldLevel) bool {
	return seatCodeRgx.MatchString(fl.Field().String())
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf(ErrMinLength, err.Param())
	case "max":
		return fmt.Sprintf(ErrMaxLength, err.Param())
	case "unique":
		return "must not contain duplicates"
	case "uuid4":
		return "must be a valid UUID"
	case "seat_code":
		return "must be a seat code like A1"
	default:
		return ErrDefaultInvalid
	}
}
