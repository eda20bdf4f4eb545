// Package services defines the business logic for assessments, patients,
// feedback, authentication, analytics, and administration. This file
// centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer;
// translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import "errors"

var (
	// ErrPatientNotFound indicates that the requested patient does not exist
	// or has been soft-deleted.
	ErrPatientNotFound = errors.New("patient not found")

	// ErrInvalidInput is returned when a clinical payload contains
	// non-finite values (NaN or infinities) or an empty patient name.
	ErrInvalidInput = errors.New("invalid clinical input")

	// ErrModelUnavailable is returned when the inference artifacts were not
	// loaded at startup; prediction requests cannot be served.
	ErrModelUnavailable = errors.New("model service unavailable")

	// ErrInvalidCredentials is returned for a wrong username/password pair
	// or a wrong PIN. The message is deliberately generic.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrLoginLocked is returned when a caller has exceeded the failed-login
	// allowance and must wait out the lockout window.
	ErrLoginLocked = errors.New("too many failed attempts, try again later")

	// ErrDuplicateUsername is returned when registering a username that
	// already exists.
	ErrDuplicateUsername = errors.New("username already taken")

	// ErrInvalidRating is returned when a feedback rating is outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrResetForbidden is returned when the reset secondary credential is
	// missing or wrong.
	ErrResetForbidden = errors.New("reset not authorized")
)
