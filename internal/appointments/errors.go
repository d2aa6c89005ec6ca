package appointments

import "errors"

var (
	// ErrAppointmentNotFound indicates the requested appointment is absent.
	ErrAppointmentNotFound = errors.New("appointment not found")
	// ErrInvalidStatus indicates a status outside the known enumeration.
	ErrInvalidStatus = errors.New("invalid appointment status")
	// ErrNoPaymentProof indicates the appointment has no stored proof file.
	ErrNoPaymentProof = errors.New("no payment proof on file")

	errMissingFullName = errors.New("full name is required")
	errMissingContact  = errors.New("phone or email is required")
	errMissingClinic   = errors.New("clinic is required")
	errMissingService  = errors.New("service_required is required")
	errInvalidDate     = errors.New("preferred_date must be YYYY-MM-DD")
	errInvalidTime     = errors.New("preferred_time must be HH:MM")
)
