package auth

import (
	"strings"
	"time"
)

// User is an account that can sign in. IsAdmin gates the administrative
// endpoints; GoogleID and ProfilePicture are only set for accounts
// provisioned (or linked) through Google sign-in.
type User struct {
	ID             int64     `json:"id"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email"`
	IsAdmin        bool      `json:"is_admin"`
	GoogleID       *string   `json:"google_id,omitempty"`
	ProfilePicture *string   `json:"profile_picture,omitempty"`
	CreatedAt      time.Time `json:"created_at"`

	// HashedPassword never leaves the server.
	HashedPassword string `json:"-"`
}

// SignupRequest is the request body for POST /auth/signup.
type SignupRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate normalizes and checks the signup fields.
func (r *SignupRequest) Validate() error {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))

	if n := len(r.FullName); n < 4 || n > 20 {
		return errInvalidFullName
	}
	if !looksLikeEmail(r.Email) {
		return errInvalidEmail
	}
	if n := len(r.Password); n < 8 || n > 128 {
		return errInvalidPassword
	}
	return nil
}

// SigninRequest is the request body for POST /auth/signin.
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GoogleSigninRequest carries the Google-issued ID token to exchange for
// an access token.
type GoogleSigninRequest struct {
	GoogleToken string `json:"google_token"`
}

// TokenResponse is returned by both sign-in endpoints.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

// looksLikeEmail applies the same shallow mailbox check the original
// registration form did: one "@" with a dotted domain after it.
func looksLikeEmail(s string) bool {
	at := strings.Index(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	domain := s[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1 && !strings.Contains(domain, "@")
}
