// Package httpx holds the echo boundary glue: the error handler that maps
// the error taxonomy onto transport status codes, and the validator wiring.
package httpx

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/skillmarket/internal/apierr"
	"github.com/sudo-init-do/skillmarket/internal/platform/logger"
)

// ErrorHandler maps apierr values verbatim to their status codes; anything
// untyped is a 500 with the detail kept out of the response.
func ErrorHandler(log *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var apiErr *apierr.Error
		if errors.As(err, &apiErr) {
			if apiErr.Status >= http.StatusInternalServerError {
				log.Error("request failed", "path", c.Path(), "err", err)
				_ = c.JSON(apiErr.Status, echo.Map{"error": "internal server error"})
				return
			}
			body := echo.Map{"error": apiErr.Error()}
			if apiErr.Code != "" {
				body["code"] = apiErr.Code
			}
			_ = c.JSON(apiErr.Status, body)
			return
		}

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			_ = c.JSON(httpErr.Code, echo.Map{"error": httpErr.Message})
			return
		}

		log.Error("request failed", "path", c.Path(), "err", err)
		_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
}

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return apierr.Validation(err.Error())
	}
	return nil
}
