package clinicapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Signin exchanges credentials for an access token.
func (c *Client) Signin(ctx context.Context, email, password string) (*TokenResponse, error) {
	var out TokenResponse
	err := c.Post(ctx, "/auth/signin", "", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Signup registers a new account. It does not sign the account in.
func (c *Client) Signup(ctx context.Context, fullName, email, password string) error {
	return c.Post(ctx, "/auth/signup", "", map[string]string{
		"full_name": fullName,
		"email":     email,
		"password":  password,
	}, nil)
}

// GoogleSignin exchanges a Google-issued ID token for an access token.
func (c *Client) GoogleSignin(ctx context.Context, googleToken string) (*TokenResponse, error) {
	var out TokenResponse
	err := c.Post(ctx, "/auth/google-signin", "", map[string]string{
		"google_token": googleToken,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the profile behind the given token.
func (c *Client) Me(ctx context.Context, token string) (*User, error) {
	var out User
	if err := c.Get(ctx, "/auth/me", token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListPatients returns all patient records (admin).
func (c *Client) ListPatients(ctx context.Context, token string) ([]Patient, error) {
	var out []Patient
	if err := c.Get(ctx, "/patients", token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchPatients matches patients by name or phone (admin).
func (c *Client) SearchPatients(ctx context.Context, token, query string) ([]Patient, error) {
	var out []Patient
	if err := c.Get(ctx, "/patients/search?query="+url.QueryEscape(query), token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetPatient fetches one patient record (admin).
func (c *Client) GetPatient(ctx context.Context, token string, id int64) (*Patient, error) {
	var out Patient
	if err := c.Get(ctx, fmt.Sprintf("/patients/%d", id), token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePatient creates a patient record (admin).
func (c *Client) CreatePatient(ctx context.Context, token string, in *PatientInput) (*Patient, error) {
	var out Patient
	if err := c.Post(ctx, "/patients", token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePatient applies a partial update to a patient record (admin).
func (c *Client) UpdatePatient(ctx context.Context, token string, id int64, in *PatientInput) (*Patient, error) {
	var out Patient
	if err := c.Put(ctx, fmt.Sprintf("/patients/%d", id), token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePatient removes a patient record (admin).
func (c *Client) DeletePatient(ctx context.Context, token string, id int64) error {
	return c.Delete(ctx, fmt.Sprintf("/patients/%d", id), token)
}

// CreateAppointment submits a booking as a multipart form. token may be
// empty for anonymous submissions.
func (c *Client) CreateAppointment(ctx context.Context, token string, req *BookingRequest) (*Appointment, error) {
	fields := map[string]string{
		"full_name":         req.FullName,
		"phone":             req.Phone,
		"email":             req.Email,
		"clinic":            req.Clinic,
		"service_required":  req.ServiceRequired,
		"preferred_date":    req.PreferredDate,
		"preferred_time":    req.PreferredTime,
		"message":           req.Message,
		"payment_reference": req.PaymentReference,
	}
	var out Appointment
	if err := c.PostMultipart(ctx, "/appointments", token, fields, "payment_proof", req.Proof, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAppointments returns all appointments, newest first (admin).
func (c *Client) ListAppointments(ctx context.Context, token string) ([]Appointment, error) {
	var out []Appointment
	if err := c.Get(ctx, "/appointments", token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAppointment fetches one appointment (admin).
func (c *Client) GetAppointment(ctx context.Context, token string, id int64) (*Appointment, error) {
	var out Appointment
	if err := c.Get(ctx, fmt.Sprintf("/appointments/%d", id), token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAppointmentStatus sets the status label on an appointment (admin).
func (c *Client) UpdateAppointmentStatus(ctx context.Context, token string, id int64, status string) (*Appointment, error) {
	var out Appointment
	err := c.Put(ctx, fmt.Sprintf("/appointments/%d/status", id), token, map[string]string{
		"status": status,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// MyAppointments returns the signed-in user's appointments.
func (c *Client) MyAppointments(ctx context.Context, token string) ([]Appointment, error) {
	var out []Appointment
	if err := c.Get(ctx, "/my-appointments", token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PaymentProof downloads an appointment's proof file (admin). The caller
// owns the returned reader.
func (c *Client) PaymentProof(ctx context.Context, token string, id int64) (io.ReadCloser, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/appointments/%d/payment-proof", c.baseURL, id), nil)
	if err != nil {
		return nil, "", fmt.Errorf("clinicapi: build request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("clinicapi: get payment proof: %w", err)
	}
	if resp.StatusCode >= 400 {
		defer func() { _ = resp.Body.Close() }()
		return nil, "", decodeError(resp)
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}

// ListClinics returns all clinic locations.
func (c *Client) ListClinics(ctx context.Context) ([]Clinic, error) {
	var out []Clinic
	if err := c.Get(ctx, "/clinics", "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Slots returns the bookable times for a clinic on a date (YYYY-MM-DD).
func (c *Client) Slots(ctx context.Context, clinicID, date string) (*SlotsResponse, error) {
	var out SlotsResponse
	path := fmt.Sprintf("/clinics/%s/slots?date=%s", clinicID, date)
	if err := c.Get(ctx, path, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
