package ports

import (
	"context"

	"github.com/usergraph/friends-api/internal/core/domain"
)

// CreateRelationshipInput carries the endpoints and type label for a new
// relationship. Edge identifiers and timestamps are generated by the service.
type CreateRelationshipInput struct {
	FromUserID string `validate:"required"`
	ToUserID   string `validate:"required"`
	Type       string `validate:"required"`
}

// RelationshipService defines use-case operations for friend relationships.
type RelationshipService interface {
	// ListRelationships returns all from→to edges newest first, each
	// enriched with the full endpoint user records.
	ListRelationships(ctx context.Context) ([]domain.Relationship, error)
	// RelationshipExists reports whether a FRIEND edge connects the two
	// users in either direction.
	RelationshipExists(ctx context.Context, fromUserID, toUserID string) (bool, error)
	// CreateRelationship creates both directed edges of one relationship.
	// Fails with domain.ErrSelfRelationship when the endpoints are equal and
	// domain.ErrDuplicateRelationship when any edge already connects them.
	CreateRelationship(ctx context.Context, input CreateRelationshipInput) (*domain.Relationship, error)
	// DeleteRelationship removes all edges between the pair in either
	// direction and reports whether anything was deleted. Deleting a
	// non-existent relationship is a successful no-op, not an error.
	DeleteRelationship(ctx context.Context, fromUserID, toUserID string) (bool, error)
}
