package router

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicware/platform/internal/appointments"
	"github.com/clinicware/platform/internal/auth"
	"github.com/clinicware/platform/internal/clinics"
	httpmiddleware "github.com/clinicware/platform/internal/http/middleware"
	"github.com/clinicware/platform/internal/patients"
)

func newTestRouter(t *testing.T) (http.Handler, *auth.TokenIssuer, auth.Repository) {
	t.Helper()

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	tokens := auth.NewTokenIssuer("test-secret", 30*time.Minute)
	userRepo := auth.NewInMemoryRepository()

	authHandler := auth.NewHandler(userRepo, tokens, nil, nil, nil, httpmiddleware.UserFromRequest)
	patientsHandler := patients.NewHandler(patients.NewInMemoryRepository(), nil)

	proofDir := t.TempDir()
	proofs, err := appointments.NewFileProofStore(proofDir)
	require.NoError(t, err)
	apptsHandler := appointments.NewHandler(
		appointments.NewInMemoryRepository(), proofs, nil, nil, nil,
		func(r *http.Request) (int64, bool) {
			user, ok := httpmiddleware.UserFromRequest(r)
			if !ok {
				return 0, false
			}
			return user.ID, true
		},
	)

	clinicsHandler := clinics.NewHandler(clinics.NewStore(redisClient), time.Hour, nil)

	h := New(&Config{
		AuthHandler:         authHandler,
		PatientsHandler:     patientsHandler,
		AppointmentsHandler: apptsHandler,
		ClinicsHandler:      clinicsHandler,
		Tokens:              tokens,
		UserRepo:            userRepo,
		Version:             "test",
	})
	return h, tokens, userRepo
}

func adminToken(t *testing.T, tokens *auth.TokenIssuer, repo auth.Repository) string {
	t.Helper()
	hash, err := auth.HashPassword("admin-password")
	require.NoError(t, err)
	user, err := repo.Create(context.Background(), &auth.User{
		FullName:       "Admin",
		Email:          "admin@example.com",
		HashedPassword: hash,
		IsAdmin:        true,
	})
	require.NoError(t, err)
	token, err := tokens.Issue(user.ID)
	require.NoError(t, err)
	return token
}

func TestHealthAndVersion(t *testing.T) {
	h, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test")
}

func TestSignupSigninMe(t *testing.T) {
	h, _, _ := newTestRouter(t)

	body := `{"full_name":"Sana Riaz","email":"sana@example.com","password":"longenough"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/signin",
		strings.NewReader(`{"email":"sana@example.com","password":"longenough"}`))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var tok auth.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tok))
	require.NotEmpty(t, tok.AccessToken)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sana@example.com")
}

func TestMeRequiresToken(t *testing.T) {
	h, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "detail")
}

func TestPatientsRequireAdmin(t *testing.T) {
	h, tokens, repo := newTestRouter(t)

	// Anonymous.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/patients/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Plain user.
	hash, err := auth.HashPassword("password1")
	require.NoError(t, err)
	user, err := repo.Create(context.Background(), &auth.User{
		FullName: "Plain", Email: "plain@example.com", HashedPassword: hash,
	})
	require.NoError(t, err)
	userTok, err := tokens.Issue(user.ID)
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients/", nil)
	req.Header.Set("Authorization", "Bearer "+userTok)
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Admin.
	admin := adminToken(t, tokens, repo)
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/patients/", nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClinicsAndSlotsArePublic(t *testing.T) {
	h, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/clinics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hameed-latif")

	// 2026-08-31 is a Monday: Hameed Latif is open 16:00-18:00.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/clinics/hameed-latif/slots?date=2026-08-31", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var slots clinics.SlotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &slots))
	assert.Equal(t, []string{"16:00", "17:00", "18:00"}, slots.Slots)
}

func TestAnonymousBookingFlow(t *testing.T) {
	h, tokens, repo := newTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("full_name", "Bilal Ahmed"))
	require.NoError(t, mw.WriteField("phone", "03001234567"))
	require.NoError(t, mw.WriteField("clinic", "shalamar"))
	require.NoError(t, mw.WriteField("service_required", "Consultation"))
	require.NoError(t, mw.WriteField("preferred_date", "2026-09-03"))
	require.NoError(t, mw.WriteField("preferred_time", "11:00"))
	require.NoError(t, mw.Close())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var appt appointments.Appointment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &appt))
	assert.Equal(t, appointments.StatusPending, appt.Status)
	assert.Nil(t, appt.UserID)

	// Admin sees it in the list.
	admin := adminToken(t, tokens, repo)
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/appointments/", nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Bilal Ahmed")
}
