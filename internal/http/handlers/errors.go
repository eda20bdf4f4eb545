// Package handlers defines HTTP-layer error codes used across all API
// endpoints.
//
// These symbolic constants give clients a stable, machine-readable taxonomy
// next to the human-readable message in the error envelope. Generic codes
// mirror HTTP status semantics; domain-specific codes cover business
// failures a status alone cannot convey.
package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeLocked       = "too_many_attempts"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeModelUnavailable = "model_unavailable"
	ErrCodePredictFailed    = "predict_failed"
	ErrCodeCreateFailed     = "create_failed"
	ErrCodeListFailed       = "list_failed"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
