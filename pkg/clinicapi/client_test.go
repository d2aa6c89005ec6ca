package clinicapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigninReturnsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/signin", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-123"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	tok, err := c.Signin(context.Background(), "a@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", tok.AccessToken)
}

func TestBearerTokenAttached(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":7,"full_name":"Admin","email":"a@example.com","is_admin":true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	user, err := c.Me(context.Background(), "tok-123")
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)
	assert.EqualValues(t, 7, user.ID)
}

func TestErrorEnvelopeString(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Invalid email or password"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	_, err := c.Signin(context.Background(), "a@example.com", "wrong")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid email or password", apiErr.Message)
}

func TestErrorEnvelopeList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":[{"msg":"phone must be 11 digits"},{"msg":"other"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	var out any
	err := c.Post(context.Background(), "/patients", "tok", map[string]string{}, &out)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "phone must be 11 digits", apiErr.Message)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
}

func TestErrorEnvelopeFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>gateway error</html>`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	err := c.Get(context.Background(), "/clinics", "", &[]Clinic{})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "HTTP 502", apiErr.Message)
}

func TestDeleteNoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	assert.NoError(t, c.DeletePatient(context.Background(), "tok", 3))
}

func TestCreateAppointmentMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Bilal Ahmed", r.FormValue("full_name"))
		assert.Equal(t, "shalamar", r.FormValue("clinic"))

		file, header, err := r.FormFile("payment_proof")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()
		assert.Equal(t, "receipt.png", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":1,"full_name":"Bilal Ahmed","status":"pending"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	appt, err := c.CreateAppointment(context.Background(), "", &BookingRequest{
		FullName:        "Bilal Ahmed",
		Phone:           "03001234567",
		Clinic:          "shalamar",
		ServiceRequired: "Consultation",
		PreferredDate:   "2026-09-03",
		PreferredTime:   "11:00",
		Proof:           &Upload{Filename: "receipt.png", Content: strings.NewReader("png-bytes")},
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", appt.Status)
}

func TestSlotsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/clinics/hameed-latif/slots", r.URL.Path)
		assert.Equal(t, "2026-08-31", r.URL.Query().Get("date"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"clinic":"hameed-latif","date":"2026-08-31","slots":["16:00","17:00","18:00"]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	slots, err := c.Slots(context.Background(), "hameed-latif", "2026-08-31")
	require.NoError(t, err)
	assert.Equal(t, []string{"16:00", "17:00", "18:00"}, slots.Slots)
}
