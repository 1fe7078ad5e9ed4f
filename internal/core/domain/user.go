package domain

import "errors"

var ErrUserNotFound = errors.New("user not found")
var ErrDuplicateEmail = errors.New("email address is already in use")
var ErrSelfRelationship = errors.New("cannot create a relationship with yourself")
var ErrDuplicateRelationship = errors.New("relationship already exists")
var ErrInvalidInput = errors.New("invalid input")

// User is a node in the friend graph. Friends and friend count are derived
// by traversing FRIEND edges at read time and are never stored on the node.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"` // epoch seconds, stored as text
}
