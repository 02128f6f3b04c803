package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterValidations(v)
	}
}

// RegisterValidations reports JSON names in field errors and adds the
// custom rules used by the request DTOs.
func RegisterValidations(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
}

// BindJson is a function to bind the json request
func BindJson(c *gin.Context, request any) error {
	if err := c.ShouldBindJSON(request); err != nil {
		return ValidationFailed(err)
	}
	return nil
}

// ValidationFailed maps a binding error to the API error body.
func ValidationFailed(err error) *ServiceError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{
				PropertyName: fe.Field(),
				ErrorMessage: describe(fe),
			})
		}
		return Validation(fields...)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr):
		return Validation(FieldError{
			PropertyName: typeErr.Field,
			ErrorMessage: fmt.Sprintf("%s has an invalid type", label(typeErr.Field)),
		})
	case errors.As(err, &syntaxErr):
		return BadRequest("Invalid request body")
	}
	return BadRequest("Invalid request body: %v", err)
}

func describe(fe validator.FieldError) string {
	name := label(fe.Field())
	isText := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", name)
	case "min":
		if isText {
			return fmt.Sprintf("%s must be at least %s characters long", name, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "max":
		if isText {
			return fmt.Sprintf("%s cannot exceed %s characters", name, fe.Param())
		}
		return fmt.Sprintf("%s cannot exceed %s", name, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", name, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	case "email":
		return "Invalid email format"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "username":
		return "Username can only contain letters, numbers, and underscores"
	case "url":
		return fmt.Sprintf("%s must be a valid URL", name)
	}
	return fmt.Sprintf("%s is invalid", name)
}

// label turns "movieTitle" into "Movie title".
func label(field string) string {
	if field == "" {
		return "Value"
	}
	var b strings.Builder
	for i, r := range field {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteRune(' ')
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
