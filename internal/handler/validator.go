package handler

import (
    "github.com/go-playground/validator/v10"
)

// RequestValidator plugs validator/v10 into echo.
type RequestValidator struct {
    v *validator.Validate
}

// NewRequestValidator returns a validator using struct tags.
func NewRequestValidator() *RequestValidator {
    return &RequestValidator{v: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate implements echo.Validator.
func (r *RequestValidator) Validate(i any) error {
    return r.v.Struct(i)
}

// fieldErrors flattens validation failures to field -> tag.
func fieldErrors(err error) map[string]string {
    verrs, ok := err.(validator.ValidationErrors)
    if !ok {
        return nil
    }
    out := make(map[string]string, len(verrs))
    for _, fe := range verrs {
        out[fe.Namespace()] = fe.Tag()
    }
    return out
}
