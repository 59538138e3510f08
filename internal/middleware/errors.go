package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/codewithtechno/techno-hub/internal/apperr"
)

// ErrorBody is the JSON shape of every failed response.
type ErrorBody struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

// ErrorHandler renders errors returned by handlers and middleware.  Errors
// from apperr keep their status and wire code; echo's own errors (unknown
// route, bad body) are mapped by status.  Anything else is logged and
// answered with a generic 500.
func ErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, body := Describe(err)
		if status >= http.StatusInternalServerError {
			log.Error().Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Msg("request failed")
		}
		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, body)
		}
		if werr != nil {
			log.Error().Err(werr).Msg("write error response")
		}
	}
}

// Describe maps err to a status and response body.
func Describe(err error) (int, ErrorBody) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok && m != "" {
			msg = m
		}
		return he.Code, ErrorBody{Error: msg, Code: codeForStatus(he.Code)}
	}
	status := apperr.HTTPStatus(err)
	body := ErrorBody{Error: err.Error(), Code: apperr.Code(err)}
	if status == http.StatusInternalServerError {
		body.Error = "internal server error"
	}
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		body.Fields = ve.Fields
	}
	return status, body
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
		return apperr.CodeValidation
	case http.StatusUnauthorized:
		return apperr.CodeUnauthenticated
	case http.StatusForbidden:
		return apperr.CodeForbidden
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return apperr.CodeNotFound
	case http.StatusConflict:
		return apperr.CodeConflict
	}
	return apperr.CodeInternal
}
