// internal/utils/validator.go
package utils

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var slugPattern = regexp.MustCompile("^[a-z0-9]+(-[a-z0-9]+)*$")

func init() {
	validate = validator.New()
	validate.RegisterValidation("slug", validateSlugField)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// validateSlugField accepts explicitly supplied slugs: lower-case
// alphanumeric segments joined by single hyphens, no leading or trailing
// hyphen, never empty.
func validateSlugField(fl validator.FieldLevel) bool {
	return slugPattern.MatchString(fl.Field().String())
}

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "slug":
		return e.Field() + " must be a lower-case hyphenated identifier"
	default:
		return e.Field() + " is invalid"
	}
}
