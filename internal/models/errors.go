package models

import "errors"

// Failure classes reported by the import pipeline. Callers match them with
// errors.Is; the wrapping error carries the item and field involved.
var (
	// ErrMalformedPayload indicates a migration payload whose framing cannot
	// be decoded (truncated tag, length overrun, bad base64).
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrUnsupportedScheme indicates a decoded text with an unrecognized prefix.
	ErrUnsupportedScheme = errors.New("unsupported scheme")
	// ErrMissingRequiredField indicates a record lacking a mandatory field.
	ErrMissingRequiredField = errors.New("missing required field")
	// ErrOutputCollision indicates the canonical output path was occupied.
	ErrOutputCollision = errors.New("output collision")
	// ErrNoAccountsFound indicates that no usable account was decoded.
	ErrNoAccountsFound = errors.New("no accounts found")
)
