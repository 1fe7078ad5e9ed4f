package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/usergraph/friends-api/internal/core/domain"
	"github.com/usergraph/friends-api/internal/core/ports"
)

const cypherListRelationships = `
	MATCH (from:User)-[r:FRIEND]->(to:User)
	RETURN r.id as id, r.type as type, from.id as fromUserId, to.id as toUserId, r.createdAt as createdAt
	ORDER BY r.createdAt DESC
`

const cypherRelationshipExists = `
	MATCH (from:User {id: $fromUserId})-[:FRIEND]-(to:User {id: $toUserId})
	RETURN count(*) > 0 as exists
`

const cypherCountRelationships = `
	MATCH (from:User {id: $fromUserId})-[:FRIEND]-(to:User {id: $toUserId})
	RETURN count(*) as count
`

const cypherCreateRelationship = `
	MATCH (from:User {id: $fromUserId}), (to:User {id: $toUserId})
	CREATE (from)-[r1:FRIEND {id: $forwardId, type: $type, createdAt: $createdAt}]->(to)
	CREATE (to)-[r2:FRIEND {id: $reverseId, type: $type, createdAt: $createdAt}]->(from)
	RETURN r1.id as id, r1.type as type, from.id as fromUserId, to.id as toUserId, r1.createdAt as createdAt
`

const cypherDeleteRelationship = `
	MATCH (from:User {id: $fromUserId})-[r:FRIEND]-(to:User {id: $toUserId})
	DELETE r
	RETURN count(r) as deletedCount
`

// RelationshipService implements friend-relationship use cases. A logical
// relationship is written as two directed FRIEND edges created together;
// reads list only the from→to direction.
type RelationshipService struct {
	graph  ports.QueryRunner
	logger zerolog.Logger
}

func NewRelationshipService(graph ports.QueryRunner, logger zerolog.Logger) *RelationshipService {
	return &RelationshipService{graph: graph, logger: logger}
}

// ListRelationships returns all from→to edges newest first, each enriched
// with its endpoint users via two point lookups. The per-row lookups cost
// O(R) extra round trips; an enrichment failure fails the whole call rather
// than returning a partial result.
func (s *RelationshipService) ListRelationships(ctx context.Context) ([]domain.Relationship, error) {
	records, err := s.graph.RunQuery(ctx, cypherListRelationships, nil)
	if err != nil {
		return nil, err
	}

	// The listing matches every directed edge, so each relationship shows up
	// twice, once per direction. Keep the first edge seen per unordered pair:
	// within equal timestamps the database yields edges in insertion order,
	// and the forward edge of a pair is always created first.
	relationships := make([]domain.Relationship, 0, len(records)/2)
	seen := make(map[string]bool, len(records)/2)
	for _, rec := range records {
		rel := relationshipFromRecord(rec)
		key := pairKey(rel.FromUserID, rel.ToUserID)
		if seen[key] {
			continue
		}
		seen[key] = true

		if err := s.enrich(ctx, &rel); err != nil {
			return nil, err
		}
		relationships = append(relationships, rel)
	}
	return relationships, nil
}

// pairKey is an order-insensitive key for a pair of user ids.
func pairKey(a, b string) string {
	if a < b {
		return a + "|" + b
	}
	return b + "|" + a
}

// RelationshipExists reports whether any FRIEND edge connects the two users
// in either direction.
func (s *RelationshipService) RelationshipExists(ctx context.Context, fromUserID, toUserID string) (bool, error) {
	records, err := s.graph.RunQuery(ctx, cypherRelationshipExists, map[string]any{
		"fromUserId": fromUserID,
		"toUserId":   toUserID,
	})
	if err != nil {
		return false, err
	}
	if len(records) == 0 {
		return false, nil
	}
	return recordBool(records[0], "exists"), nil
}

// CreateRelationship creates the two directed edges of one relationship.
// The existence check and the write are separate statements, so concurrent
// calls for the same pair can race; see RelationshipExists for the check.
func (s *RelationshipService) CreateRelationship(ctx context.Context, input ports.CreateRelationshipInput) (*domain.Relationship, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.FromUserID == input.ToUserID {
		return nil, domain.ErrSelfRelationship
	}

	existing, err := s.graph.RunQuery(ctx, cypherCountRelationships, map[string]any{
		"fromUserId": input.FromUserID,
		"toUserId":   input.ToUserID,
	})
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 && recordInt64(existing[0], "count") > 0 {
		return nil, domain.ErrDuplicateRelationship
	}

	records, err := s.graph.RunQuery(ctx, cypherCreateRelationship, map[string]any{
		"fromUserId": input.FromUserID,
		"toUserId":   input.ToUserID,
		"type":       input.Type,
		"forwardId":  uuid.NewString(),
		"reverseId":  uuid.NewString(),
		"createdAt":  epochSeconds(),
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create relationship")
		return nil, err
	}
	if len(records) == 0 {
		// MATCH found no endpoint node, so nothing was created.
		return nil, domain.ErrUserNotFound
	}

	rel := relationshipFromRecord(records[0])
	if err := s.enrich(ctx, &rel); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("relationship_id", rel.ID).
		Str("from_user_id", rel.FromUserID).
		Str("to_user_id", rel.ToUserID).
		Str("type", rel.Type).
		Msg("relationship created")
	return &rel, nil
}

// DeleteRelationship removes every FRIEND edge between the pair in either
// direction and reports whether at least one edge was deleted. Absence of
// edges is a successful no-op, not an error.
func (s *RelationshipService) DeleteRelationship(ctx context.Context, fromUserID, toUserID string) (bool, error) {
	records, err := s.graph.RunQuery(ctx, cypherDeleteRelationship, map[string]any{
		"fromUserId": fromUserID,
		"toUserId":   toUserID,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to delete relationship")
		return false, err
	}
	if len(records) == 0 {
		return false, nil
	}

	deleted := recordInt64(records[0], "deletedCount") > 0
	if deleted {
		s.logger.Info().
			Str("from_user_id", fromUserID).
			Str("to_user_id", toUserID).
			Msg("relationship deleted")
	}
	return deleted, nil
}

// enrich fills in the endpoint user records with two point lookups.
func (s *RelationshipService) enrich(ctx context.Context, rel *domain.Relationship) error {
	from, err := s.lookupUser(ctx, rel.FromUserID)
	if err != nil {
		return err
	}
	to, err := s.lookupUser(ctx, rel.ToUserID)
	if err != nil {
		return err
	}
	rel.From = from
	rel.To = to
	return nil
}

func (s *RelationshipService) lookupUser(ctx context.Context, id string) (*domain.User, error) {
	records, err := s.graph.RunQuery(ctx, cypherGetUser, map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	u := userFromRecord(records[0])
	return &u, nil
}

func relationshipFromRecord(rec ports.Record) domain.Relationship {
	return domain.Relationship{
		ID:         recordString(rec, "id"),
		Type:       recordString(rec, "type"),
		FromUserID: recordString(rec, "fromUserId"),
		ToUserID:   recordString(rec, "toUserId"),
		CreatedAt:  recordString(rec, "createdAt"),
	}
}
