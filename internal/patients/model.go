package patients

import (
	"strings"
	"time"
)

// Patient is an administrative patient record, distinct from a signed-in
// user account.
type Patient struct {
	ID          int64     `json:"id"`
	FullName    string    `json:"full_name"`
	PhoneNumber string    `json:"phone_number"`
	Email       *string   `json:"email,omitempty"`
	DOB         *string   `json:"dob,omitempty"`
	Notes       *string   `json:"notes,omitempty"`
	Photo       *string   `json:"photo,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreatePatientRequest is the request body for creating a patient record.
type CreatePatientRequest struct {
	FullName    string  `json:"full_name"`
	PhoneNumber string  `json:"phone_number"`
	Email       *string `json:"email,omitempty"`
	DOB         *string `json:"dob,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	Photo       *string `json:"photo,omitempty"`
}

// Validate normalizes and checks the create fields.
func (r *CreatePatientRequest) Validate() error {
	r.FullName = strings.TrimSpace(r.FullName)
	r.PhoneNumber = strings.TrimSpace(r.PhoneNumber)

	if len(r.FullName) < 4 {
		return errInvalidFullName
	}
	if !validPhone(r.PhoneNumber) {
		return errInvalidPhone
	}
	return nil
}

// UpdatePatientRequest is a partial update: only non-nil fields are
// applied.
type UpdatePatientRequest struct {
	FullName    *string `json:"full_name,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Email       *string `json:"email,omitempty"`
	DOB         *string `json:"dob,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	Photo       *string `json:"photo,omitempty"`
}

// Validate checks whichever fields are present.
func (r *UpdatePatientRequest) Validate() error {
	if r.FullName != nil {
		trimmed := strings.TrimSpace(*r.FullName)
		if len(trimmed) < 4 {
			return errInvalidFullName
		}
		*r.FullName = trimmed
	}
	if r.PhoneNumber != nil {
		trimmed := strings.TrimSpace(*r.PhoneNumber)
		if !validPhone(trimmed) {
			return errInvalidPhone
		}
		*r.PhoneNumber = trimmed
	}
	return nil
}

// Apply copies the present fields onto p.
func (r *UpdatePatientRequest) Apply(p *Patient) {
	if r.FullName != nil {
		p.FullName = *r.FullName
	}
	if r.PhoneNumber != nil {
		p.PhoneNumber = *r.PhoneNumber
	}
	if r.Email != nil {
		p.Email = r.Email
	}
	if r.DOB != nil {
		p.DOB = r.DOB
	}
	if r.Notes != nil {
		p.Notes = r.Notes
	}
	if r.Photo != nil {
		p.Photo = r.Photo
	}
}

// validPhone reports whether s is exactly 11 ASCII digits.
func validPhone(s string) bool {
	if len(s) != 11 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
