// Package session holds the client-side authentication state for
// programs built on the clinic API: the bearer token, the resolved
// profile, and the sign-in/sign-out operations that mutate them. Route
// guard policies consume the session snapshot to decide between
// rendering and redirecting.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/clinicware/platform/pkg/clinicapi"
)

// Session is a point-in-time snapshot of the authentication state.
// User is only ever set when Token has been validated against the
// backend. Loading is true until the first resolution attempt of a
// persisted token completes.
type Session struct {
	Token   string
	User    *clinicapi.User
	Loading bool
}

// SignedIn reports whether a validated token is held.
func (s Session) SignedIn() bool {
	return s.Token != "" && s.User != nil
}

// IsAdmin reports whether the signed-in user is an administrator.
func (s Session) IsAdmin() bool {
	return s.User != nil && s.User.IsAdmin
}

// Store owns the session. All mutations go through its methods; token
// persistence is touched nowhere else.
type Store struct {
	client  *clinicapi.Client
	storage TokenStorage

	mu      sync.RWMutex
	session Session
}

// NewStore creates a session store. The store starts in the loading
// state when storage holds a persisted token; call Resolve once at
// startup to validate it.
func NewStore(client *clinicapi.Client, storage TokenStorage) *Store {
	if storage == nil {
		storage = NewMemoryTokenStorage()
	}
	s := &Store{client: client, storage: storage}

	token, err := storage.Load()
	if err == nil && token != "" {
		s.session = Session{Token: token, Loading: true}
	}
	return s
}

// Session returns the current snapshot.
func (s *Store) Session() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Resolve validates a persisted token against the backend. An invalid
// or expired token is cleared silently: "not signed in" is an expected
// outcome, not an error the caller needs to act on. Resolve is a no-op
// when no token was persisted.
func (s *Store) Resolve(ctx context.Context) {
	s.mu.RLock()
	token := s.session.Token
	loading := s.session.Loading
	s.mu.RUnlock()

	if !loading {
		return
	}
	if token == "" {
		s.mu.Lock()
		s.session.Loading = false
		s.mu.Unlock()
		return
	}

	user, err := s.client.Me(ctx, token)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		_ = s.storage.Clear()
		s.session = Session{}
		return
	}
	s.session = Session{Token: token, User: user}
}

// SignIn exchanges credentials for a token, persists it, then fetches
// the profile. The two steps are strictly sequential and the store is
// left unchanged when either fails.
func (s *Store) SignIn(ctx context.Context, email, password string) error {
	tok, err := s.client.Signin(ctx, email, password)
	if err != nil {
		return err
	}
	user, err := s.client.Me(ctx, tok.AccessToken)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.storage.Save(tok.AccessToken); err != nil {
		return err
	}
	s.session = Session{Token: tok.AccessToken, User: user}
	return nil
}

// SignUp registers an account. It never establishes a session; callers
// sign in afterwards.
func (s *Store) SignUp(ctx context.Context, fullName, email, password string) error {
	return s.client.Signup(ctx, fullName, email, password)
}

// SignInWithGoogle exchanges a Google-issued ID token for a session,
// with the same contract as SignIn.
func (s *Store) SignInWithGoogle(ctx context.Context, googleToken string) error {
	tok, err := s.client.GoogleSignin(ctx, googleToken)
	if err != nil {
		return err
	}
	user, err := s.client.Me(ctx, tok.AccessToken)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.storage.Save(tok.AccessToken); err != nil {
		return err
	}
	s.session = Session{Token: tok.AccessToken, User: user}
	return nil
}

// SignOut clears the session and the persisted token. It is local and
// idempotent; no network call is made.
func (s *Store) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.storage.Clear()
	s.session = Session{}
}

// Token returns the current bearer token, empty when signed out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token
}

// ErrNoToken is returned by TokenStorage.Load when nothing is persisted.
var ErrNoToken = errors.New("session: no persisted token")
