// Package service provides business logic for the application.
package service

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/tagonlink/tagonlink/internal/model"
)

// UserStore persists users. *repository.Repository satisfies it.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUserPassword(ctx context.Context, id, passwordHash string) error
}

// LinkStore persists links. *repository.Repository satisfies it.
type LinkStore interface {
	ListLinksByOwner(ctx context.Context, ownerID string) ([]*model.Link, error)
	CreateLink(ctx context.Context, link *model.Link) error
	GetLinkByID(ctx context.Context, id string) (*model.Link, error)
	UpdateOwnedLink(ctx context.Context, link *model.Link) error
	DeleteOwnedLink(ctx context.Context, id, ownerID string) error
}

// PasswordHasher hashes and checks passwords. *auth.PasswordHasher satisfies it.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
}

// TokenCodec issues and validates session tokens. *auth.TokenCodec satisfies it.
type TokenCodec interface {
	Issue(userID string) (string, error)
	Validate(token string) (string, error)
}

// ValidationError is a request that breaks an input rule. Its message is
// safe to return to the client.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func newValidationError(msg string) *ValidationError {
	return &ValidationError{msg: msg}
}

// newID returns a lexically time-ordered identifier.
func newID() string {
	return ulid.Make().String()
}
