package utils

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// Notifier receives catalog change events from controllers
type Notifier interface {
	Publish(eventType string, id uint)
}

// ParamID reads a positive numeric path parameter
func ParamID(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, BadRequest("Invalid %s: %q", name, raw)
	}
	return uint(id), nil
}

// QueryUint reads an optional positive numeric query parameter
func QueryUint(c *gin.Context, name string) (*uint, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, Validation(FieldError{PropertyName: name, ErrorMessage: label(name) + " must be a positive integer"})
	}
	id := uint(v)
	return &id, nil
}

// QueryInt reads an optional integer query parameter
func QueryInt(c *gin.Context, name string) (*int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, Validation(FieldError{PropertyName: name, ErrorMessage: label(name) + " must be an integer"})
	}
	return &v, nil
}

// QueryFloat reads an optional decimal query parameter
func QueryFloat(c *gin.Context, name string) (*float64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, Validation(FieldError{PropertyName: name, ErrorMessage: label(name) + " must be a number"})
	}
	return &v, nil
}

// EscapeLike escapes LIKE wildcards so user input matches literally.
// Queries using it must declare ESCAPE '\'.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
