package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores appointments in the relational database.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

const apptColumns = `id, full_name, phone, email, clinic, service_required,
	to_char(preferred_date, 'YYYY-MM-DD'), preferred_time, message,
	payment_reference, payment_proof_key, status, user_id, created_at`

// Create inserts a new pending appointment row.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateAppointmentRequest, proofKey *string) (*Appointment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	appt := &Appointment{
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
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO appointments (full_name, phone, email, clinic, service_required,
			preferred_date, preferred_time, message, payment_reference,
			payment_proof_key, status, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at
	`, req.FullName, req.Phone, req.Email, req.Clinic, req.ServiceRequired,
		req.PreferredDate, req.PreferredTime, req.Message, req.PaymentReference,
		proofKey, StatusPending, req.UserID).
		Scan(&appt.ID, &appt.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("appointments: insert: %w", err)
	}
	return appt, nil
}

// List returns all appointments, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]*Appointment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+apptColumns+` FROM appointments ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("appointments: list: %w", err)
	}
	defer rows.Close()
	return collectAppointments(rows)
}

// ListByUser returns a user's appointments, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]*Appointment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+apptColumns+` FROM appointments WHERE user_id = $1 ORDER BY id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("appointments: list by user: %w", err)
	}
	defer rows.Close()
	return collectAppointments(rows)
}

// GetByID fetches an appointment by primary key.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+apptColumns+` FROM appointments WHERE id = $1`, id)
	appt, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("appointments: select: %w", err)
	}
	return appt, nil
}

// UpdateStatus sets a new status label and returns the stored row.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, status Status) (*Appointment, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE appointments SET status = $2 WHERE id = $1
		RETURNING `+apptColumns, id, status)
	appt, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("appointments: update status: %w", err)
	}
	return appt, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(
		&a.ID,
		&a.FullName,
		&a.Phone,
		&a.Email,
		&a.Clinic,
		&a.ServiceRequired,
		&a.PreferredDate,
		&a.PreferredTime,
		&a.Message,
		&a.PaymentReference,
		&a.PaymentProofKey,
		&a.Status,
		&a.UserID,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func collectAppointments(rows pgx.Rows) ([]*Appointment, error) {
	out := []*Appointment{}
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("appointments: scan: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: rows: %w", err)
	}
	return out, nil
}
