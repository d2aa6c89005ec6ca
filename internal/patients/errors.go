package patients

import "errors"

var (
	// ErrPatientNotFound indicates the requested patient row is absent.
	ErrPatientNotFound = errors.New("patient not found")
	// ErrPhoneTaken indicates a create/update with an already-registered
	// phone number.
	ErrPhoneTaken = errors.New("phone number already registered")

	errInvalidFullName = errors.New("full name must be at least 4 characters")
	errInvalidPhone    = errors.New("phone number must be exactly 11 digits")
)
