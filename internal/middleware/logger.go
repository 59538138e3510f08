package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// RequestLogger writes one zerolog line per request.  Client errors log at
// warn, server errors at error.
func RequestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			ev := log.Info()
			switch {
			case v.Status >= http.StatusInternalServerError:
				ev = log.Error().Err(v.Error)
			case v.Status >= http.StatusBadRequest:
				ev = log.Warn()
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("account_id", IdentityFrom(c).AccountID).
				Msg("request")
			return nil
		},
	})
}
