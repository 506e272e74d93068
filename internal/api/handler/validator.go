package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hirelane/jobboard/internal/pkg/validate"
)

var errInvalidPayload = echo.NewHTTPError(http.StatusBadRequest, "invalid payload")

// echoValidator lets Echo call c.Validate(req) with the shared validator.
type echoValidator struct{}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	return &echoValidator{}
}

// Validate satisfies the echo.Validator interface. Failures are returned as
// *domain.ValidationError.
func (ev *echoValidator) Validate(i any) error {
	return validate.Struct(i)
}

// bind decodes the request body into req. Field rules are checked by the
// services, which own the input types.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errInvalidPayload
	}
	return nil
}
