package contract

import "errors"

var (
	ErrInvalidAttributeType = errors.New("profile attribute has non-string value")
	ErrInsufficientData     = errors.New("not enough rated attributes to compute maturity")
	ErrMissingCredential    = errors.New("no usable bearer credential")
	ErrModelInvoke          = errors.New("model invoke failed")
	ErrValidation           = errors.New("validation failed")
)
