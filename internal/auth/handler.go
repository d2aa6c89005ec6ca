package auth

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/clinicware/platform/internal/api/respond"
	"github.com/clinicware/platform/internal/observability/metrics"
	"github.com/clinicware/platform/pkg/logging"
)

// Handler handles HTTP requests for authentication
type Handler struct {
	repo     Repository
	tokens   *TokenIssuer
	google   GoogleVerifier
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger
	userCtxF func(r *http.Request) (*User, bool)
}

// NewHandler creates a new auth handler. google may be nil, which makes
// google-signin respond 503. userFromContext is the middleware accessor
// used by GET /me.
func NewHandler(repo Repository, tokens *TokenIssuer, google GoogleVerifier, m *metrics.BookingMetrics, logger *logging.Logger, userFromContext func(r *http.Request) (*User, bool)) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		repo:     repo,
		tokens:   tokens,
		google:   google,
		metrics:  m,
		logger:   logger,
		userCtxF: userFromContext,
	}
}

// Signup handles POST /auth/signup. Registration never establishes a
// session; callers sign in afterwards.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respond.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		h.logger.Error("failed to hash password", "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	user, err := h.repo.Create(r.Context(), &User{
		FullName:       req.FullName,
		Email:          req.Email,
		HashedPassword: hashed,
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			respond.Error(w, http.StatusConflict, "Email already registered")
			return
		}
		h.logger.Error("failed to create user", "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("user registered", "id", user.ID, "email", user.Email)
	respond.JSON(w, http.StatusCreated, map[string]any{
		"id":        user.ID,
		"full_name": user.FullName,
		"email":     user.Email,
	})
}

// Signin handles POST /auth/signin, exchanging credentials for an
// access token.
func (h *Handler) Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.repo.GetByEmail(r.Context(), req.Email)
	if err != nil || !CheckPassword(user.HashedPassword, req.Password) {
		h.metrics.ObserveSignin("password", false)
		respond.Error(w, http.StatusUnauthorized, ErrInvalidCredentials.Error())
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.logger.Error("failed to issue token", "error", err, "user_id", user.ID)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.metrics.ObserveSignin("password", true)
	h.logger.Info("user signed in", "user_id", user.ID)
	respond.JSON(w, http.StatusOK, TokenResponse{AccessToken: token})
}

// GoogleSignin handles POST /auth/google-signin. First-time Google users
// are provisioned with an unguessable password hash; returning users get
// their Google identity linked.
func (h *Handler) GoogleSignin(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		respond.Error(w, http.StatusServiceUnavailable, "google sign-in is not configured")
		return
	}

	var req GoogleSigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.GoogleToken == "" {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.google.Verify(r.Context(), req.GoogleToken)
	if err != nil {
		h.metrics.ObserveSignin("google", false)
		respond.Error(w, http.StatusUnauthorized, ErrBadGoogleToken.Error())
		return
	}

	user, err := h.repo.GetByEmail(r.Context(), profile.Email)
	switch {
	case err == nil:
		if user.GoogleID == nil || *user.GoogleID != profile.GoogleID {
			if err := h.repo.LinkGoogle(r.Context(), user.ID, profile.GoogleID, profile.Picture); err != nil {
				h.logger.Error("failed to link google identity", "error", err, "user_id", user.ID)
			}
		}
	case errors.Is(err, ErrUserNotFound):
		user, err = h.provisionGoogleUser(r, profile)
		if err != nil {
			h.logger.Error("failed to provision google user", "error", err, "email", profile.Email)
			respond.Error(w, http.StatusInternalServerError, "internal server error")
			return
		}
	default:
		h.logger.Error("failed to look up user", "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.logger.Error("failed to issue token", "error", err, "user_id", user.ID)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.metrics.ObserveSignin("google", true)
	h.logger.Info("user signed in via google", "user_id", user.ID)
	respond.JSON(w, http.StatusOK, TokenResponse{AccessToken: token})
}

// Me handles GET /auth/me, returning the profile resolved by the auth
// middleware.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := h.userCtxF(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	respond.JSON(w, http.StatusOK, user)
}

func (h *Handler) provisionGoogleUser(r *http.Request, profile *GoogleProfile) (*User, error) {
	// Google accounts never sign in with a password, but the column is
	// NOT NULL, so store a hash of random bytes.
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	hashed, err := HashPassword(hex.EncodeToString(buf))
	if err != nil {
		return nil, err
	}

	name := profile.Name
	if name == "" {
		name = profile.Email
	}
	googleID := profile.GoogleID
	user := &User{
		FullName:       name,
		Email:          profile.Email,
		HashedPassword: hashed,
		GoogleID:       &googleID,
	}
	if profile.Picture != "" {
		pic := profile.Picture
		user.ProfilePicture = &pic
	}
	return h.repo.Create(r.Context(), user)
}
