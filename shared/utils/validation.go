package utils

import (
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct runs the `validate` tags of s and flattens the failures.
func ValidateStruct(s any) []ValidationError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []ValidationError{{Field: "", Message: err.Error()}}
	}

	out := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   fe.Namespace(),
			Message: fmt.Sprintf("failed on '%s' rule", fe.Tag()),
		})
	}
	return out
}

func GetQueryParamAsInt(c fiber.Ctx, paramName string, defaultValue int) (int, error) {
	paramValue := c.Query(paramName)
	if paramValue == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(paramValue)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", paramName)
	}

	if intValue <= 0 {
		return 0, fmt.Errorf("invalid %s", paramName)
	}

	return intValue, nil
}
