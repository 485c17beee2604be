package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"conduit/internal/store"
	"conduit/internal/view"
)

// UserInput carries the fields for registration. Password is an opaque
// credential prepared by the authentication collaborator; the engine
// stores it without interpreting it.
type UserInput struct {
	Email    string
	Username string
	Password string
}

// UserPatch carries optional replacements for account update.
type UserPatch struct {
	Email    *string
	Username *string
	Password *string
	Bio      *string
	Image    *string
}

// RegisterUser creates a new account. Fails with a conflict error when
// the email or username is already taken.
func (e *Engine) RegisterUser(ctx context.Context, in UserInput) (view.User, error) {
	if strings.TrimSpace(in.Email) == "" || strings.TrimSpace(in.Username) == "" {
		return view.User{}, Validation("email and username are required")
	}
	if in.Password == "" {
		return view.User{}, Validation("password is required")
	}

	u, err := e.store.CreateUser(ctx, store.User{
		Email:    in.Email,
		Username: in.Username,
		Password: in.Password,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return view.User{}, Conflict("credentials taken")
		}
		return view.User{}, fmt.Errorf("register user: %w", err)
	}

	e.log.Info("user registered", zap.String("username", u.Username))

	return view.NewUser(u), nil
}

// GetUser returns the account view for userID.
func (e *Engine) GetUser(ctx context.Context, userID int64) (view.User, error) {
	u, err := e.store.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return view.User{}, NotFound("user not found")
		}
		return view.User{}, fmt.Errorf("get user: %w", err)
	}
	return view.NewUser(u), nil
}

// UpdateUser applies the patch to the user's account. A nil field is left
// unchanged. Fails with a conflict error when the new email or username
// collides with another account.
func (e *Engine) UpdateUser(ctx context.Context, userID int64, patch UserPatch) (view.User, error) {
	u, err := e.store.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return view.User{}, NotFound("user not found")
		}
		return view.User{}, fmt.Errorf("update user: %w", err)
	}

	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.Username != nil {
		u.Username = *patch.Username
	}
	if patch.Password != nil {
		u.Password = *patch.Password
	}
	if patch.Bio != nil {
		u.Bio = *patch.Bio
	}
	if patch.Image != nil {
		u.Image = *patch.Image
	}

	updated, err := e.store.UpdateUser(ctx, u)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return view.User{}, Conflict("credentials taken")
		}
		return view.User{}, fmt.Errorf("update user: %w", err)
	}

	e.log.Info("user updated", zap.Int64("user", userID))

	return view.NewUser(updated), nil
}
