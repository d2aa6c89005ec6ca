package appointments

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Repository defines the interface for appointment storage
type Repository interface {
	Create(ctx context.Context, req *CreateAppointmentRequest, proofKey *string) (*Appointment, error)
	List(ctx context.Context) ([]*Appointment, error)
	ListByUser(ctx context.Context, userID int64) ([]*Appointment, error)
	GetByID(ctx context.Context, id int64) (*Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status Status) (*Appointment, error)
}

// InMemoryRepository stores appointments in memory for tests and local
// development.
type InMemoryRepository struct {
	mu     sync.RWMutex
	rows   map[int64]*Appointment
	nextID int64
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{rows: make(map[int64]*Appointment), nextID: 1}
}

// Create stores a new pending appointment.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateAppointmentRequest, proofKey *string) (*Appointment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	appt := &Appointment{
		ID:               r.nextID,
		FullName:         req.FullName,
		Phone:            req.Phone,
		Email:            req.Email,
		Clinic:           req.Clinic,
		ServiceRequired:  req.ServiceRequired,
		PreferredDate:    req.PreferredDate,
		PreferredTime:    req.PreferredTime,
		Message:          req.Message,
		PaymentReference: req.PaymentReference,
		PaymentProofKey:  proofKey,
		Status:           StatusPending,
		UserID:           req.UserID,
		CreatedAt:        time.Now().UTC(),
	}
	r.nextID++
	r.rows[appt.ID] = appt

	out := *appt
	return &out, nil
}

// List returns all appointments, newest first.
func (r *InMemoryRepository) List(ctx context.Context) ([]*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Appointment, 0, len(r.rows))
	for _, a := range r.rows {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// ListByUser returns the appointments linked to a user, newest first.
func (r *InMemoryRepository) ListByUser(ctx context.Context, userID int64) ([]*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*Appointment{}
	for _, a := range r.rows {
		if a.UserID != nil && *a.UserID == userID {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// GetByID retrieves an appointment by id.
func (r *InMemoryRepository) GetByID(ctx context.Context, id int64) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.rows[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	out := *a
	return &out, nil
}

// UpdateStatus sets a new status label and returns the updated row.
func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id int64, status Status) (*Appointment, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.rows[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	a.Status = status
	out := *a
	return &out, nil
}
