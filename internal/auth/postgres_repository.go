package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores users in the relational database.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("auth: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

const userColumns = `id, full_name, email, hashed_password, is_admin, google_id, profile_picture, created_at`

// Create inserts a new user row. A unique violation on email maps to
// ErrEmailTaken.
func (r *PostgresRepository) Create(ctx context.Context, user *User) (*User, error) {
	query := `
		INSERT INTO users (full_name, email, hashed_password, is_admin, google_id, profile_picture)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	stored := *user
	err := r.pool.QueryRow(ctx, query,
		user.FullName,
		user.Email,
		user.HashedPassword,
		user.IsAdmin,
		user.GoogleID,
		user.ProfilePicture,
	).Scan(&stored.ID, &stored.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("auth: insert user: %w", err)
	}
	return &stored, nil
}

// GetByID fetches a user by primary key.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByEmail fetches a user by email.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	return scanUser(row)
}

// LinkGoogle records the Google identity on an existing account. The
// profile picture is only overwritten when Google supplied one.
func (r *PostgresRepository) LinkGoogle(ctx context.Context, id int64, googleID, picture string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET google_id = $2,
		    profile_picture = COALESCE(NULLIF($3, ''), profile_picture)
		WHERE id = $1
	`, id, googleID, picture)
	if err != nil {
		return fmt.Errorf("auth: link google: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.FullName,
		&u.Email,
		&u.HashedPassword,
		&u.IsAdmin,
		&u.GoogleID,
		&u.ProfilePicture,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("auth: select user: %w", err)
	}
	return &u, nil
}
