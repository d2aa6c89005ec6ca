package patients

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// patientsDB defines the database interface needed by PostgresRepository
type patientsDB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores patients in the relational database.
type PostgresRepository struct {
	db patientsDB
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("patients: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting a mock database for testing.
func NewPostgresRepositoryWithDB(db patientsDB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const patientColumns = `id, full_name, phone_number, email, dob, notes, photo, created_at`

// Create inserts a new patient row.
func (r *PostgresRepository) Create(ctx context.Context, req *CreatePatientRequest) (*Patient, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := &Patient{
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		DOB:         req.DOB,
		Notes:       req.Notes,
		Photo:       req.Photo,
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO patients (full_name, phone_number, email, dob, notes, photo)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, req.FullName, req.PhoneNumber, req.Email, req.DOB, req.Notes, req.Photo).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrPhoneTaken
		}
		return nil, fmt.Errorf("patients: insert: %w", err)
	}
	return p, nil
}

// List returns all patients ordered by id.
func (r *PostgresRepository) List(ctx context.Context) ([]*Patient, error) {
	rows, err := r.db.Query(ctx, `SELECT `+patientColumns+` FROM patients ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("patients: list: %w", err)
	}
	defer rows.Close()
	return collectPatients(rows)
}

// GetByID fetches a patient by primary key.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Patient, error) {
	row := r.db.QueryRow(ctx, `SELECT `+patientColumns+` FROM patients WHERE id = $1`, id)
	p, err := scanPatient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("patients: select: %w", err)
	}
	return p, nil
}

// Update applies a partial update and returns the stored row.
func (r *PostgresRepository) Update(ctx context.Context, id int64, req *UpdatePatientRequest) (*Patient, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	row := r.db.QueryRow(ctx, `
		UPDATE patients
		SET full_name    = COALESCE($2, full_name),
		    phone_number = COALESCE($3, phone_number),
		    email        = COALESCE($4, email),
		    dob          = COALESCE($5, dob),
		    notes        = COALESCE($6, notes),
		    photo        = COALESCE($7, photo)
		WHERE id = $1
		RETURNING `+patientColumns+`
	`, id, req.FullName, req.PhoneNumber, req.Email, req.DOB, req.Notes, req.Photo)

	p, err := scanPatient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrPhoneTaken
		}
		return nil, fmt.Errorf("patients: update: %w", err)
	}
	return p, nil
}

// Delete removes a patient row.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("patients: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPatientNotFound
	}
	return nil
}

// Search matches name (case-insensitive) or phone, capped at searchLimit.
func (r *PostgresRepository) Search(ctx context.Context, query string) ([]*Patient, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return []*Patient{}, nil
	}

	like := "%" + q + "%"
	rows, err := r.db.Query(ctx, `
		SELECT `+patientColumns+`
		FROM patients
		WHERE full_name ILIKE $1 OR phone_number LIKE $1
		ORDER BY full_name ASC, id ASC
		LIMIT $2
	`, like, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("patients: search: %w", err)
	}
	defer rows.Close()
	return collectPatients(rows)
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.FullName, &p.PhoneNumber, &p.Email, &p.DOB, &p.Notes, &p.Photo, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectPatients(rows pgx.Rows) ([]*Patient, error) {
	out := []*Patient{}
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("patients: scan: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("patients: rows: %w", err)
	}
	return out, nil
}
