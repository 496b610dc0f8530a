package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"creatorMarket/pkg/logger"
	jsonres "creatorMarket/pkg/response"
)

// ErrorHandler is the echo-level catch-all for errors no handler turned
// into a response.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal server error"

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		}
	}

	if code >= http.StatusInternalServerError {
		logger.Error("unhandled request error",
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err,
		)
	}

	_ = c.JSON(code, jsonres.Error(http.StatusText(code), message, nil))
}
