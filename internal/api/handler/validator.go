package handler

import "github.com/dkm/jobcards/internal/pkg/validate"

// echoValidator lets Echo call c.Validate(form) with the shared validator.
type echoValidator struct{}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	return &echoValidator{}
}

// Validate satisfies the echo.Validator interface. Failures are
// *domain.ValidationError with a form-ready message.
func (ev *echoValidator) Validate(i any) error {
	return validate.Struct(i)
}
