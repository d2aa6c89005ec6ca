package patients

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// searchLimit caps search results to avoid huge payloads.
const searchLimit = 50

// Repository defines the interface for patient storage
type Repository interface {
	Create(ctx context.Context, req *CreatePatientRequest) (*Patient, error)
	List(ctx context.Context) ([]*Patient, error)
	GetByID(ctx context.Context, id int64) (*Patient, error)
	Update(ctx context.Context, id int64, req *UpdatePatientRequest) (*Patient, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, query string) ([]*Patient, error)
}

// InMemoryRepository stores patients in memory for tests and local
// development.
type InMemoryRepository struct {
	mu       sync.RWMutex
	patients map[int64]*Patient
	nextID   int64
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{patients: make(map[int64]*Patient), nextID: 1}
}

// Create stores a new patient, enforcing phone uniqueness.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreatePatientRequest) (*Patient, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.patients {
		if p.PhoneNumber == req.PhoneNumber {
			return nil, ErrPhoneTaken
		}
	}

	p := &Patient{
		ID:          r.nextID,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		DOB:         req.DOB,
		Notes:       req.Notes,
		Photo:       req.Photo,
		CreatedAt:   time.Now().UTC(),
	}
	r.nextID++
	r.patients[p.ID] = p

	out := *p
	return &out, nil
}

// List returns all patients ordered by id.
func (r *InMemoryRepository) List(ctx context.Context) ([]*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Patient, 0, len(r.patients))
	for _, p := range r.patients {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetByID retrieves a patient by id.
func (r *InMemoryRepository) GetByID(ctx context.Context, id int64) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	out := *p
	return &out, nil
}

// Update applies a partial update.
func (r *InMemoryRepository) Update(ctx context.Context, id int64, req *UpdatePatientRequest) (*Patient, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	if req.PhoneNumber != nil {
		for otherID, other := range r.patients {
			if otherID != id && other.PhoneNumber == *req.PhoneNumber {
				return nil, ErrPhoneTaken
			}
		}
	}
	req.Apply(p)
	out := *p
	return &out, nil
}

// Delete removes a patient record.
func (r *InMemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.patients[id]; !ok {
		return ErrPatientNotFound
	}
	delete(r.patients, id)
	return nil
}

// Search matches name or phone case-insensitively. An empty query yields
// an empty result rather than the whole table.
func (r *InMemoryRepository) Search(ctx context.Context, query string) ([]*Patient, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []*Patient{}, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Patient
	for _, p := range r.patients {
		if strings.Contains(strings.ToLower(p.FullName), q) || strings.Contains(p.PhoneNumber, q) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FullName != out[j].FullName {
			return out[i].FullName < out[j].FullName
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > searchLimit {
		out = out[:searchLimit]
	}
	return out, nil
}
