package middlewares

import (
	"errors"
	"fmt"
	"movienest/src/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ErrorBody is the JSON shape of every failed response.
type ErrorBody struct {
	StatusCode int                `json:"statusCode"`
	Message    string             `json:"message"`
	Errors     []utils.FieldError `json:"errors,omitempty"`
	Status     utils.ErrorKind    `json:"status"`
}

// ErrorHandler renders the last error a handler attached with c.Error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		body := render(err)
		if body.StatusCode >= http.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		}
		c.AbortWithStatusJSON(body.StatusCode, body)
	}
}

// Recovery turns a panic into a 500 carrying the panic message.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorBody{
			StatusCode: http.StatusInternalServerError,
			Message:    fmt.Sprint(recovered),
			Status:     utils.KindInternal,
		})
	})
}

func render(err error) ErrorBody {
	var se *utils.ServiceError
	if !errors.As(err, &se) {
		switch {
		case utils.IsNotFound(err):
			se = utils.NotFound("Resource not found")
		case utils.IsDuplicateKey(err):
			se = utils.Duplicate("Resource already exists")
		default:
			se = utils.Internal(err.Error(), err)
		}
	}
	return ErrorBody{
		StatusCode: se.StatusCode,
		Message:    se.Message,
		Errors:     se.Errors,
		Status:     se.Kind,
	}
}
