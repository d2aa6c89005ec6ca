package clinicapi

import "time"

// User is the profile returned by GET /auth/me.
type User struct {
	ID             int64   `json:"id"`
	FullName       string  `json:"full_name"`
	Email          string  `json:"email"`
	IsAdmin        bool    `json:"is_admin"`
	GoogleID       *string `json:"google_id,omitempty"`
	ProfilePicture *string `json:"profile_picture,omitempty"`
}

// TokenResponse is returned by the sign-in endpoints.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

// Patient is an administrative patient record.
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

// PatientInput carries the fields of a patient create or update.
type PatientInput struct {
	FullName    string  `json:"full_name"`
	PhoneNumber string  `json:"phone_number"`
	Email       *string `json:"email,omitempty"`
	DOB         *string `json:"dob,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	Photo       *string `json:"photo,omitempty"`
}

// Appointment is a booking as returned by the API.
type Appointment struct {
	ID               int64     `json:"id"`
	FullName         string    `json:"full_name"`
	Phone            string    `json:"phone"`
	Email            string    `json:"email"`
	Clinic           string    `json:"clinic"`
	ServiceRequired  string    `json:"service_required"`
	PreferredDate    string    `json:"preferred_date"`
	PreferredTime    string    `json:"preferred_time"`
	Message          string    `json:"message"`
	PaymentReference string    `json:"payment_reference"`
	PaymentProof     *string   `json:"payment_proof,omitempty"`
	Status           string    `json:"status"`
	UserID           *int64    `json:"user_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// BookingRequest carries the multipart fields of a booking submission.
// Proof is optional.
type BookingRequest struct {
	FullName         string
	Phone            string
	Email            string
	Clinic           string
	ServiceRequired  string
	PreferredDate    string // YYYY-MM-DD
	PreferredTime    string // HH:MM
	Message          string
	PaymentReference string
	Proof            *Upload
}

// Clinic is a bookable location with its weekly schedule.
type Clinic struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Address  string              `json:"address"`
	Schedule map[string]DayHours `json:"schedule"`
}

// DayHours is a single day's open/close pair.
type DayHours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// SlotsResponse is the payload of GET /clinics/{id}/slots.
type SlotsResponse struct {
	Clinic string   `json:"clinic"`
	Date   string   `json:"date"`
	Slots  []string `json:"slots"`
}
