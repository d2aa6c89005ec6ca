package appointments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubNotifier struct {
	booked []*Appointment
}

func (s *stubNotifier) AppointmentBooked(_ context.Context, appt *Appointment) error {
	s.booked = append(s.booked, appt)
	return nil
}

func newTestHandler(t *testing.T, userID func(r *http.Request) (int64, bool)) (http.Handler, *InMemoryRepository, *stubNotifier) {
	t.Helper()
	if userID == nil {
		userID = func(*http.Request) (int64, bool) { return 0, false }
	}
	repo := NewInMemoryRepository()
	proofs, err := NewFileProofStore(t.TempDir())
	require.NoError(t, err)
	notifier := &stubNotifier{}
	h := NewHandler(repo, proofs, notifier, nil, nil, userID)

	r := chi.NewRouter()
	r.Post("/appointments", h.Create)
	r.Get("/appointments", h.List)
	r.Get("/appointments/{id}", h.Get)
	r.Put("/appointments/{id}/status", h.UpdateStatus)
	r.Get("/appointments/{id}/payment-proof", h.PaymentProof)
	r.Get("/my-appointments", h.Mine)
	return r, repo, notifier
}

func bookingForm(t *testing.T, fields map[string]string, proof []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if proof != nil {
		part, err := mw.CreateFormFile("payment_proof", "receipt.png")
		require.NoError(t, err)
		_, err = part.Write(proof)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func validFields() map[string]string {
	return map[string]string{
		"full_name":        "Bilal Ahmed",
		"phone":            "03001234567",
		"email":            "bilal@example.com",
		"clinic":           "shalamar",
		"service_required": "Consultation",
		"preferred_date":   "2026-09-03",
		"preferred_time":   "11:00",
	}
}

func TestCreateAppointment(t *testing.T) {
	r, _, notifier := newTestHandler(t, nil)

	buf, contentType := bookingForm(t, validFields(), nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/appointments", buf)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var appt Appointment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &appt))
	assert.Equal(t, StatusPending, appt.Status)
	assert.Nil(t, appt.UserID)
	assert.Nil(t, appt.PaymentProofKey)

	require.Len(t, notifier.booked, 1)
	assert.Equal(t, appt.ID, notifier.booked[0].ID)
}

func TestCreateAppointmentValidation(t *testing.T) {
	r, _, _ := newTestHandler(t, nil)

	tests := []struct {
		name   string
		mutate func(map[string]string)
	}{
		{"missing name", func(f map[string]string) { f["full_name"] = "" }},
		{"no contact", func(f map[string]string) { f["phone"] = ""; f["email"] = "" }},
		{"missing clinic", func(f map[string]string) { f["clinic"] = "" }},
		{"bad date", func(f map[string]string) { f["preferred_date"] = "03-09-2026" }},
		{"bad time", func(f map[string]string) { f["preferred_time"] = "11am" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fields := validFields()
			tc.mutate(fields)
			buf, contentType := bookingForm(t, fields, nil)
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/appointments", buf)
			req.Header.Set("Content-Type", contentType)
			r.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Contains(t, rec.Body.String(), "detail")
		})
	}
}

func TestCreateAppointmentLinksUser(t *testing.T) {
	r, _, _ := newTestHandler(t, func(*http.Request) (int64, bool) { return 42, true })

	buf, contentType := bookingForm(t, validFields(), nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/appointments", buf)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var appt Appointment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &appt))
	require.NotNil(t, appt.UserID)
	assert.EqualValues(t, 42, *appt.UserID)

	// Shows up under /my-appointments for that user.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/my-appointments", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var mine []Appointment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, appt.ID, mine[0].ID)
}

func TestPaymentProofRoundTrip(t *testing.T) {
	r, _, _ := newTestHandler(t, nil)

	proof := []byte("png-bytes")
	buf, contentType := bookingForm(t, validFields(), proof)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/appointments", buf)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var appt Appointment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &appt))
	require.NotNil(t, appt.PaymentProofKey)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/appointments/%d/payment-proof", appt.ID), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, proof, body)
}

func TestPaymentProofMissing(t *testing.T) {
	r, repo, _ := newTestHandler(t, nil)

	appt, err := repo.Create(context.Background(), &CreateAppointmentRequest{
		FullName: "Bilal Ahmed", Phone: "03001234567", Clinic: "shalamar",
		ServiceRequired: "Consultation", PreferredDate: "2026-09-03", PreferredTime: "11:00",
	}, nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/appointments/%d/payment-proof", appt.ID), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateStatusReflectedInListing(t *testing.T) {
	r, repo, _ := newTestHandler(t, nil)

	appt, err := repo.Create(context.Background(), &CreateAppointmentRequest{
		FullName: "Bilal Ahmed", Phone: "03001234567", Clinic: "shalamar",
		ServiceRequired: "Consultation", PreferredDate: "2026-09-03", PreferredTime: "11:00",
	}, nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/appointments/%d/status", appt.ID),
		strings.NewReader(`{"status":"completed"}`))
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/appointments", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var list []Appointment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, StatusCompleted, list[0].Status)
}

func TestUpdateStatusRejectsUnknownLabel(t *testing.T) {
	r, repo, _ := newTestHandler(t, nil)

	appt, err := repo.Create(context.Background(), &CreateAppointmentRequest{
		FullName: "Bilal Ahmed", Phone: "03001234567", Clinic: "shalamar",
		ServiceRequired: "Consultation", PreferredDate: "2026-09-03", PreferredTime: "11:00",
	}, nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/appointments/%d/status", appt.ID),
		strings.NewReader(`{"status":"archived"}`))
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestMineRequiresUser(t *testing.T) {
	r, _, _ := newTestHandler(t, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/my-appointments", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
