package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGoogleVerifier struct {
	profile *GoogleProfile
	err     error
}

func (s *stubGoogleVerifier) Verify(_ context.Context, _ string) (*GoogleProfile, error) {
	return s.profile, s.err
}

func newTestHandler(t *testing.T, google GoogleVerifier) (*Handler, *InMemoryRepository, *TokenIssuer) {
	t.Helper()
	repo := NewInMemoryRepository()
	tokens := NewTokenIssuer("test-secret", 30*time.Minute)
	h := NewHandler(repo, tokens, google, nil, nil, func(*http.Request) (*User, bool) { return nil, false })
	return h, repo, tokens
}

func postJSON(h http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h(rec, req)
	return rec
}

func TestSignupCreatesUser(t *testing.T) {
	h, repo, _ := newTestHandler(t, nil)

	rec := postJSON(h.Signup, "/auth/signup",
		`{"full_name":"Sana Riaz","email":"sana@example.com","password":"longenough"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	user, err := repo.GetByEmail(context.Background(), "sana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Sana Riaz", user.FullName)
	assert.False(t, user.IsAdmin)

	// Response never carries the password hash.
	assert.NotContains(t, rec.Body.String(), user.HashedPassword)
}

func TestSignupDuplicateEmail(t *testing.T) {
	h, _, _ := newTestHandler(t, nil)

	body := `{"full_name":"Sana Riaz","email":"sana@example.com","password":"longenough"}`
	require.Equal(t, http.StatusCreated, postJSON(h.Signup, "/auth/signup", body).Code)

	rec := postJSON(h.Signup, "/auth/signup", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email already registered")
}

func TestSignupValidation(t *testing.T) {
	h, _, _ := newTestHandler(t, nil)

	rec := postJSON(h.Signup, "/auth/signup",
		`{"full_name":"Al","email":"a@example.com","password":"longenough"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = postJSON(h.Signup, "/auth/signup", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSigninIssuesVerifiableToken(t *testing.T) {
	h, _, tokens := newTestHandler(t, nil)
	require.Equal(t, http.StatusCreated, postJSON(h.Signup, "/auth/signup",
		`{"full_name":"Sana Riaz","email":"sana@example.com","password":"longenough"}`).Code)

	rec := postJSON(h.Signin, "/auth/signin", `{"email":"sana@example.com","password":"longenough"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	claims, err := tokens.Verify(resp.AccessToken)
	require.NoError(t, err)
	assert.EqualValues(t, 1, claims.UserID)
}

func TestSigninWrongPassword(t *testing.T) {
	h, _, _ := newTestHandler(t, nil)
	require.Equal(t, http.StatusCreated, postJSON(h.Signup, "/auth/signup",
		`{"full_name":"Sana Riaz","email":"sana@example.com","password":"longenough"}`).Code)

	rec := postJSON(h.Signin, "/auth/signin", `{"email":"sana@example.com","password":"wrongwrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = postJSON(h.Signin, "/auth/signin", `{"email":"nobody@example.com","password":"longenough"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGoogleSigninProvisionsNewUser(t *testing.T) {
	google := &stubGoogleVerifier{profile: &GoogleProfile{
		GoogleID: "g-123",
		Email:    "sana@example.com",
		Name:     "Sana Riaz",
		Picture:  "https://example.com/p.png",
	}}
	h, repo, tokens := newTestHandler(t, google)

	rec := postJSON(h.GoogleSignin, "/auth/google-signin", `{"google_token":"id-token"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	claims, err := tokens.Verify(resp.AccessToken)
	require.NoError(t, err)

	user, err := repo.GetByID(context.Background(), claims.UserID)
	require.NoError(t, err)
	require.NotNil(t, user.GoogleID)
	assert.Equal(t, "g-123", *user.GoogleID)
	require.NotNil(t, user.ProfilePicture)
	assert.NotEmpty(t, user.HashedPassword)
}

func TestGoogleSigninLinksExistingAccount(t *testing.T) {
	google := &stubGoogleVerifier{profile: &GoogleProfile{
		GoogleID: "g-123",
		Email:    "sana@example.com",
		Name:     "Sana Riaz",
	}}
	h, repo, _ := newTestHandler(t, google)

	hash, err := HashPassword("longenough")
	require.NoError(t, err)
	existing, err := repo.Create(context.Background(), &User{
		FullName: "Sana Riaz", Email: "sana@example.com", HashedPassword: hash,
	})
	require.NoError(t, err)

	rec := postJSON(h.GoogleSignin, "/auth/google-signin", `{"google_token":"id-token"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	linked, err := repo.GetByID(context.Background(), existing.ID)
	require.NoError(t, err)
	require.NotNil(t, linked.GoogleID)
	assert.Equal(t, "g-123", *linked.GoogleID)
}

func TestGoogleSigninRejectsBadToken(t *testing.T) {
	google := &stubGoogleVerifier{err: errors.New("token expired")}
	h, _, _ := newTestHandler(t, google)

	rec := postJSON(h.GoogleSignin, "/auth/google-signin", `{"google_token":"bad"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGoogleSigninUnconfigured(t *testing.T) {
	h, _, _ := newTestHandler(t, nil)
	rec := postJSON(h.GoogleSignin, "/auth/google-signin", `{"google_token":"id-token"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMeUsesContextAccessor(t *testing.T) {
	repo := NewInMemoryRepository()
	tokens := NewTokenIssuer("test-secret", 30*time.Minute)
	user := &User{ID: 7, FullName: "Sana Riaz", Email: "sana@example.com"}
	h := NewHandler(repo, tokens, nil, nil, nil, func(*http.Request) (*User, bool) { return user, true })

	rec := httptest.NewRecorder()
	h.Me(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sana@example.com")
}
