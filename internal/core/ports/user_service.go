package ports

import (
	"context"

	"github.com/usergraph/friends-api/internal/core/domain"
)

// CreateUserInput carries the caller-supplied fields for a new user. The
// identifier and creation timestamp are generated by the service.
type CreateUserInput struct {
	Name  string `validate:"required"`
	Email string `validate:"required,email"`
}

// UserService defines use-case operations for users.
type UserService interface {
	// ListUsers returns all users ordered by name ascending.
	ListUsers(ctx context.Context) ([]domain.User, error)
	// GetUser returns the user with the given id, or nil when none matches.
	// Absence is a normal result, not an error.
	GetUser(ctx context.Context, id string) (*domain.User, error)
	// ListFriends returns the users connected to userID by a FRIEND edge in
	// either direction, ordered by name ascending.
	ListFriends(ctx context.Context, userID string) ([]domain.User, error)
	// CountFriends returns the cardinality of ListFriends without the rows.
	CountFriends(ctx context.Context, userID string) (int64, error)
	// CreateUser creates a user after checking the email is not already in
	// use. Fails with domain.ErrDuplicateEmail on a duplicate.
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
	// DeleteUser deletes a user and every edge touching it. Fails with
	// domain.ErrUserNotFound when the id does not exist.
	DeleteUser(ctx context.Context, id string) (bool, error)
}
