package service

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/usergraph/friends-api/internal/core/domain"
	"github.com/usergraph/friends-api/internal/core/ports"
)

const cypherListUsers = `
	MATCH (u:User)
	RETURN u.id as id, u.name as name, u.email as email, u.createdAt as createdAt
	ORDER BY u.name
`

const cypherGetUser = `
	MATCH (u:User {id: $id})
	RETURN u.id as id, u.name as name, u.email as email, u.createdAt as createdAt
`

// Friend traversals follow outgoing edges only. Every relationship is stored
// as a pair of mirrored directed edges, so the outgoing direction from either
// endpoint already finds it; an undirected match would report each friend
// once per edge, twice.
const cypherUserFriends = `
	MATCH (u:User {id: $userId})-[:FRIEND]->(friend:User)
	RETURN friend.id as id, friend.name as name, friend.email as email, friend.createdAt as createdAt
	ORDER BY friend.name
`

const cypherCountFriends = `
	MATCH (u:User {id: $userId})-[:FRIEND]->(friend:User)
	RETURN count(friend) as count
`

const cypherCountUsersByEmail = `
	MATCH (u:User {email: $email})
	RETURN count(u) as count
`

const cypherCountUsersByID = `
	MATCH (u:User {id: $id})
	RETURN count(u) as count
`

const cypherCreateUser = `
	CREATE (u:User {id: $id, name: $name, email: $email, createdAt: $createdAt})
	RETURN u.id as id, u.name as name, u.email as email, u.createdAt as createdAt
`

const cypherDeleteUser = `
	MATCH (u:User {id: $id})
	DETACH DELETE u
`

// UserService implements user use cases by composing Cypher statements
// against the graph. It holds no domain state of its own; every read goes
// back to the database.
type UserService struct {
	graph  ports.QueryRunner
	logger zerolog.Logger
}

func NewUserService(graph ports.QueryRunner, logger zerolog.Logger) *UserService {
	return &UserService{graph: graph, logger: logger}
}

// ListUsers returns all users ordered by name ascending.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	records, err := s.graph.RunQuery(ctx, cypherListUsers, nil)
	if err != nil {
		return nil, err
	}
	return usersFromRecords(records), nil
}

// GetUser returns the user with the given id, or nil when none matches.
func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
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

// ListFriends returns the users connected to userID by a FRIEND edge in
// either direction, ordered by name ascending.
func (s *UserService) ListFriends(ctx context.Context, userID string) ([]domain.User, error) {
	records, err := s.graph.RunQuery(ctx, cypherUserFriends, map[string]any{"userId": userID})
	if err != nil {
		return nil, err
	}
	return usersFromRecords(records), nil
}

// CountFriends returns the number of FRIEND edges touching userID.
func (s *UserService) CountFriends(ctx context.Context, userID string) (int64, error) {
	records, err := s.graph.RunQuery(ctx, cypherCountFriends, map[string]any{"userId": userID})
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}
	return recordInt64(records[0], "count"), nil
}

// CreateUser creates a user node with a fresh identifier and timestamp after
// checking that the email is not already taken. The check and the write are
// separate statements with no transaction around them, so two concurrent
// calls with the same email can both pass the check; uniqueness is
// best-effort under concurrency.
func (s *UserService) CreateUser(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	existing, err := s.graph.RunQuery(ctx, cypherCountUsersByEmail, map[string]any{"email": input.Email})
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 && recordInt64(existing[0], "count") > 0 {
		return nil, domain.ErrDuplicateEmail
	}

	records, err := s.graph.RunQuery(ctx, cypherCreateUser, map[string]any{
		"id":        uuid.NewString(),
		"name":      input.Name,
		"email":     input.Email,
		"createdAt": epochSeconds(),
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create user")
		return nil, err
	}
	if len(records) == 0 {
		return nil, ports.ErrGraphQuery
	}

	u := userFromRecord(records[0])
	s.logger.Info().Str("user_id", u.ID).Str("email", u.Email).Msg("user created")
	return &u, nil
}

// DeleteUser removes the user node and, via DETACH DELETE, every edge
// touching it. Fails with domain.ErrUserNotFound when the id is unknown.
func (s *UserService) DeleteUser(ctx context.Context, id string) (bool, error) {
	existing, err := s.graph.RunQuery(ctx, cypherCountUsersByID, map[string]any{"id": id})
	if err != nil {
		return false, err
	}
	if len(existing) == 0 || recordInt64(existing[0], "count") == 0 {
		return false, domain.ErrUserNotFound
	}

	if _, err := s.graph.RunQuery(ctx, cypherDeleteUser, map[string]any{"id": id}); err != nil {
		s.logger.Error().Err(err).Str("user_id", id).Msg("failed to delete user")
		return false, err
	}

	s.logger.Info().Str("user_id", id).Msg("user deleted")
	return true, nil
}

// epochSeconds renders the current time the way the graph stores timestamps:
// seconds since epoch as text.
func epochSeconds() string {
	return strconv.FormatInt(time.Now().Unix(), 10)
}

func userFromRecord(rec ports.Record) domain.User {
	return domain.User{
		ID:        recordString(rec, "id"),
		Name:      recordString(rec, "name"),
		Email:     recordString(rec, "email"),
		CreatedAt: recordString(rec, "createdAt"),
	}
}

func usersFromRecords(records []ports.Record) []domain.User {
	users := make([]domain.User, 0, len(records))
	for _, rec := range records {
		users = append(users, userFromRecord(rec))
	}
	return users
}
