// Package user stores the local mirror of accounts managed by the
// hosted auth provider.
package user

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/scsmith60/messhall/internal/db"
	"github.com/scsmith60/messhall/internal/model"
)

// ErrNotFound is returned when no user row exists for the given id.
var ErrNotFound = errors.New("user not found")

// Repository is the users-table mirror kept in sync by the auth
// provider's webhook.
type Repository interface {
	Get(id model.UserID) (*model.User, error)
	Upsert(u *model.User) error
	Delete(id model.UserID) error
}

type DBUserRepository struct {
	db db.DB
}

func NewDBUserRepository(db db.DB) *DBUserRepository {
	return &DBUserRepository{db: db}
}

func (r *DBUserRepository) Get(id model.UserID) (*model.User, error) {
	var u model.User
	row := r.db.QueryRow(`SELECT id, username, email, created_at FROM users WHERE id = ?`, id)

	var email sql.NullString
	if err := row.Scan(&u.ID, &u.Username, &email, &u.CreatedDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("error scanning user: %w", err)
	}
	u.Email = email.String

	return &u, nil
}

func (r *DBUserRepository) Upsert(u *model.User) error {
	if u.CreatedDate.IsZero() {
		u.CreatedDate = time.Now().UTC()
	}

	// Webhook deliveries can repeat, so the write must be repeatable.
	_, err := r.db.Exec(
		`INSERT INTO users (id, username, email, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET username = excluded.username, email = excluded.email`,
		u.ID, u.Username, u.Email, u.CreatedDate,
	)
	if err != nil {
		return fmt.Errorf("error upserting user: %w", err)
	}
	return nil
}

func (r *DBUserRepository) Delete(id model.UserID) error {
	if _, err := r.db.Exec(`DELETE FROM users WHERE id = ?`, id); err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	return nil
}
