package entity

import (
	"errors"
	"fmt"
)

var (
	ErrValidation          = errors.New("validation error")         // 400
	ErrGatewayRejection    = errors.New("gateway rejection")        // 400
	ErrNotFound            = errors.New("not found")                // 404
	ErrIdempotencyConflict = errors.New("idempotency key conflict") // 422
	ErrTransport           = errors.New("gateway transport error")  // 500
	ErrConfiguration       = errors.New("configuration error")      // 500
	ErrInvalidTransition   = errors.New("invalid handshake transition")
)

// GatewayError is a structured failure reported by the gateway itself
// (an errorCode/errorMessage pair). It matches ErrGatewayRejection.
type GatewayError struct {
	Code    string
	Message string
}

func (e *GatewayError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: code %s", ErrGatewayRejection, e.Code)
	}
	return fmt.Sprintf("%s: code %s: %s", ErrGatewayRejection, e.Code, e.Message)
}

func (e *GatewayError) Unwrap() error { return ErrGatewayRejection }
