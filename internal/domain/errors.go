package domain

import "errors"

// Error taxonomy shared by all services. Handlers map these onto HTTP status
// codes; services wrap them with context via fmt.Errorf and %w.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("not authorized")
	ErrInvalidState = errors.New("invalid state for this operation")
	ErrValidation   = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrGateway      = errors.New("payment transfer failed")
)
