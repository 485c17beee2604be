package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// User is a stored user row. Password is an opaque credential supplied by
// the authentication collaborator; the store never interprets it.
type User struct {
	ID       int64
	Email    string
	Username string
	Password string
	Bio      string
	Image    string
}

// CreateUser inserts a new user. Returns ErrDuplicate if the email or
// username is already taken.
func (s *Store) CreateUser(ctx context.Context, u User) (User, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (email, username, password, bio, image)
		VALUES (?, ?, ?, ?, ?)
	`, u.Email, u.Username, u.Password, u.Bio, u.Image)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, fmt.Errorf("create user: %w", ErrDuplicate)
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}
	u.ID = id
	return u, nil
}

// UpdateUser replaces all mutable fields of the user row.
// Returns ErrNotFound if the user does not exist and ErrDuplicate if the
// new email or username collides with another user.
func (s *Store) UpdateUser(ctx context.Context, u User) (User, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET email = ?, username = ?, password = ?, bio = ?, image = ?
		WHERE id = ?
	`, u.Email, u.Username, u.Password, u.Bio, u.Image, u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, fmt.Errorf("update user: %w", ErrDuplicate)
		}
		return User{}, fmt.Errorf("update user: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return User{}, fmt.Errorf("update user: %w", err)
	}
	if n == 0 {
		return User{}, fmt.Errorf("update user %d: %w", u.ID, ErrNotFound)
	}
	return u, nil
}

// UserByID returns the user with the given id, or ErrNotFound.
func (s *Store) UserByID(ctx context.Context, id int64) (User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, email, username, password, bio, image
		FROM users WHERE id = ?
	`, id))
}

// UserByUsername returns the user with the given username, or ErrNotFound.
func (s *Store) UserByUsername(ctx context.Context, username string) (User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, email, username, password, bio, image
		FROM users WHERE username = ?
	`, username))
}

// UserByEmail returns the user with the given email, or ErrNotFound.
func (s *Store) UserByEmail(ctx context.Context, email string) (User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, email, username, password, bio, image
		FROM users WHERE email = ?
	`, email))
}

func (s *Store) scanUser(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.Password, &u.Bio, &u.Image)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, fmt.Errorf("user: %w", ErrNotFound)
	}
	if err != nil {
		return User{}, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}
