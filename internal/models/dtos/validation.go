package dtos

import (
	"errors"
	"fmt"

	"dispatch-app/backend/internal/constants"

	"github.com/go-playground/validator/v10"
)

// check runs struct validation and flattens the result to field -> message.
func check(d any) (map[string]string, bool) {
	errorMessages := map[string]string{}
	err := constants.Validate.Struct(d)
	if err == nil {
		return errorMessages, true
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errorMessages["_"] = err.Error()
		return errorMessages, false
	}
	for _, e := range verrs {
		errorMessages[e.Namespace()] = message(e)
	}
	return errorMessages, false
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "notblank":
		return fmt.Sprintf("%s must not be blank", e.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", e.Field(), e.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", e.Field(), e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", e.Field(), e.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a date in the form %s", e.Field(), e.Param())
	case "email":
		return fmt.Sprintf("%s must be an email address", e.Field())
	default:
		return fmt.Sprintf("%s failed %s", e.Field(), e.Tag())
	}
}
