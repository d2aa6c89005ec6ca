package auth

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Repository defines the interface for user storage
type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	LinkGoogle(ctx context.Context, id int64, googleID, picture string) error
}

// InMemoryRepository stores users in memory. Used by tests and local
// development without a database.
type InMemoryRepository struct {
	mu     sync.RWMutex
	users  map[int64]*User
	nextID int64
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{users: make(map[int64]*User), nextID: 1}
}

// Create stores a new user, enforcing email uniqueness.
func (r *InMemoryRepository) Create(ctx context.Context, user *User) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return nil, ErrEmailTaken
		}
	}

	stored := *user
	stored.ID = r.nextID
	stored.CreatedAt = time.Now().UTC()
	r.nextID++
	r.users[stored.ID] = &stored

	out := stored
	return &out, nil
}

// GetByID retrieves a user by id.
func (r *InMemoryRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	out := *u
	return &out, nil
}

// GetByEmail retrieves a user by email, case-insensitively.
func (r *InMemoryRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			out := *u
			return &out, nil
		}
	}
	return nil, ErrUserNotFound
}

// LinkGoogle attaches a Google identity to an existing account.
func (r *InMemoryRepository) LinkGoogle(ctx context.Context, id int64, googleID, picture string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.GoogleID = &googleID
	if picture != "" {
		u.ProfilePicture = &picture
	}
	return nil
}
