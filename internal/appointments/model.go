package appointments

import (
	"strings"
	"time"
)

// Status labels an appointment. The set is closed but transitions are
// not: an administrator may move an appointment from any status to any
// other.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// ValidStatus reports whether s is one of the four known labels.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Appointment is a booking submission. UserID is nil for anonymous
// submissions; PaymentProofKey references the stored proof file, if any.
type Appointment struct {
	ID               int64     `json:"id"`
	FullName         string    `json:"full_name"`
	Phone            string    `json:"phone"`
	Email            string    `json:"email"`
	Clinic           string    `json:"clinic"`
	ServiceRequired  string    `json:"service_required"`
	PreferredDate    string    `json:"preferred_date"` // YYYY-MM-DD
	PreferredTime    string    `json:"preferred_time"` // HH:MM
	Message          string    `json:"message"`
	PaymentReference string    `json:"payment_reference"`
	PaymentProofKey  *string   `json:"payment_proof,omitempty"`
	Status           Status    `json:"status"`
	UserID           *int64    `json:"user_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// CreateAppointmentRequest carries the multipart form fields of a
// booking submission. The proof file itself is handled separately by
// the handler.
type CreateAppointmentRequest struct {
	FullName         string
	Phone            string
	Email            string
	Clinic           string
	ServiceRequired  string
	PreferredDate    string
	PreferredTime    string
	Message          string
	PaymentReference string
	UserID           *int64
}

// Validate normalizes and checks the submission fields.
func (r *CreateAppointmentRequest) Validate() error {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Email = strings.TrimSpace(r.Email)
	r.Clinic = strings.TrimSpace(r.Clinic)
	r.ServiceRequired = strings.TrimSpace(r.ServiceRequired)
	r.PreferredDate = strings.TrimSpace(r.PreferredDate)
	r.PreferredTime = strings.TrimSpace(r.PreferredTime)

	if r.FullName == "" {
		return errMissingFullName
	}
	if r.Phone == "" && r.Email == "" {
		return errMissingContact
	}
	if r.Clinic == "" {
		return errMissingClinic
	}
	if r.ServiceRequired == "" {
		return errMissingService
	}
	if _, err := time.Parse("2006-01-02", r.PreferredDate); err != nil {
		return errInvalidDate
	}
	if _, err := time.Parse("15:04", r.PreferredTime); err != nil {
		return errInvalidTime
	}
	return nil
}

// UpdateStatusRequest is the body of an administrative status change.
type UpdateStatusRequest struct {
	Status Status `json:"status"`
}
