// Package graphql builds the GraphQL schema for the friends API and serves
// it over HTTP. The schema mirrors the API surface one-to-one: user and
// relationship queries plus the four mutations, with friends and friendsCount
// computed per user at resolve time.
package graphql

import (
	"errors"

	"github.com/graphql-go/graphql"
	"github.com/rs/zerolog"

	"github.com/usergraph/friends-api/internal/api/metrics"
	"github.com/usergraph/friends-api/internal/core/domain"
	"github.com/usergraph/friends-api/internal/core/ports"
)

type resolver struct {
	users         ports.UserService
	relationships ports.RelationshipService
	logger        zerolog.Logger
}

// NewSchema wires the domain services into an executable schema.
func NewSchema(users ports.UserService, relationships ports.RelationshipService, logger zerolog.Logger) (graphql.Schema, error) {
	r := &resolver{users: users, relationships: relationships, logger: logger}

	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"email":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"createdAt": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	// friends and friendsCount are derived fields, added after construction
	// because they reference userType itself.
	userType.AddFieldConfig("friends", &graphql.Field{
		Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(userType))),
		Resolve: r.field("friends", func(p graphql.ResolveParams) (any, error) {
			u, ok := sourceUser(p.Source)
			if !ok {
				return []domain.User{}, nil
			}
			return r.users.ListFriends(p.Context, u.ID)
		}),
	})
	userType.AddFieldConfig("friendsCount", &graphql.Field{
		Type: graphql.NewNonNull(graphql.Int),
		Resolve: r.field("friendsCount", func(p graphql.ResolveParams) (any, error) {
			u, ok := sourceUser(p.Source)
			if !ok {
				return 0, nil
			}
			return r.users.CountFriends(p.Context, u.ID)
		}),
	})

	relationshipType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Relationship",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"type":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"from":      &graphql.Field{Type: graphql.NewNonNull(userType)},
			"to":        &graphql.Field{Type: graphql.NewNonNull(userType)},
			"createdAt": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	createUserInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreateUserInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"email": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	createRelationshipInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreateRelationshipInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"fromUserId": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"toUserId":   &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"type":       &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"users": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(userType))),
				Resolve: r.field("users", func(p graphql.ResolveParams) (any, error) {
					return r.users.ListUsers(p.Context)
				}),
			},
			"user": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.field("user", func(p graphql.ResolveParams) (any, error) {
					u, err := r.users.GetUser(p.Context, stringArg(p, "id"))
					if err != nil {
						return nil, err
					}
					if u == nil {
						// Absence is a normal result, not an error.
						return nil, nil
					}
					return u, nil
				}),
			},
			"userFriends": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(userType))),
				Args: graphql.FieldConfigArgument{
					"userId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.field("userFriends", func(p graphql.ResolveParams) (any, error) {
					return r.users.ListFriends(p.Context, stringArg(p, "userId"))
				}),
			},
			"relationships": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(relationshipType))),
				Resolve: r.field("relationships", func(p graphql.ResolveParams) (any, error) {
					return r.relationships.ListRelationships(p.Context)
				}),
			},
			"relationshipExists": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Args: graphql.FieldConfigArgument{
					"fromUserId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"toUserId":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.field("relationshipExists", func(p graphql.ResolveParams) (any, error) {
					return r.relationships.RelationshipExists(p.Context, stringArg(p, "fromUserId"), stringArg(p, "toUserId"))
				}),
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createUser": &graphql.Field{
				Type: graphql.NewNonNull(userType),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(createUserInput)},
				},
				Resolve: r.field("createUser", func(p graphql.ResolveParams) (any, error) {
					in, _ := p.Args["input"].(map[string]any)
					u, err := r.users.CreateUser(p.Context, ports.CreateUserInput{
						Name:  inputString(in, "name"),
						Email: inputString(in, "email"),
					})
					if err != nil {
						return nil, err
					}
					metrics.UsersCreatedTotal.Inc()
					return u, nil
				}),
			},
			"deleteUser": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.field("deleteUser", func(p graphql.ResolveParams) (any, error) {
					ok, err := r.users.DeleteUser(p.Context, stringArg(p, "id"))
					if err != nil {
						return nil, err
					}
					metrics.UsersDeletedTotal.Inc()
					return ok, nil
				}),
			},
			"createRelationship": &graphql.Field{
				Type: graphql.NewNonNull(relationshipType),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(createRelationshipInput)},
				},
				Resolve: r.field("createRelationship", func(p graphql.ResolveParams) (any, error) {
					in, _ := p.Args["input"].(map[string]any)
					rel, err := r.relationships.CreateRelationship(p.Context, ports.CreateRelationshipInput{
						FromUserID: inputString(in, "fromUserId"),
						ToUserID:   inputString(in, "toUserId"),
						Type:       inputString(in, "type"),
					})
					if err != nil {
						return nil, err
					}
					metrics.RelationshipsCreatedTotal.Inc()
					return rel, nil
				}),
			},
			"deleteRelationship": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Args: graphql.FieldConfigArgument{
					"fromUserId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"toUserId":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.field("deleteRelationship", func(p graphql.ResolveParams) (any, error) {
					deleted, err := r.relationships.DeleteRelationship(p.Context, stringArg(p, "fromUserId"), stringArg(p, "toUserId"))
					if err != nil {
						return nil, err
					}
					if deleted {
						metrics.RelationshipsDeletedTotal.Inc()
					}
					return deleted, nil
				}),
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

// field wraps a resolver with outcome metrics and error resolution.
func (r *resolver) field(name string, fn func(p graphql.ResolveParams) (any, error)) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		out, err := fn(p)
		if err != nil {
			metrics.GraphQLOperationsTotal.WithLabelValues(name, "error").Inc()
			return nil, r.resolveError(name, err)
		}
		metrics.GraphQLOperationsTotal.WithLabelValues(name, "ok").Inc()
		return out, nil
	}
}

// resolveError decides what message a failed resolver surfaces. Domain
// pre-condition failures and data-access errors carry user-facing messages
// and pass through verbatim; anything else is logged with its real cause and
// replaced by a generic message.
func (r *resolver) resolveError(operation string, err error) error {
	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrDuplicateEmail),
		errors.Is(err, domain.ErrSelfRelationship),
		errors.Is(err, domain.ErrDuplicateRelationship),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, ports.ErrGraphQuery),
		errors.Is(err, ports.ErrGraphConnection):
		return err
	}

	r.logger.Error().Err(err).Str("operation", operation).Msg("unhandled resolver error")
	return errors.New("internal server error")
}

// sourceUser normalises the parent value of a User field; list resolvers
// yield values, point lookups and embedded endpoints yield pointers.
func sourceUser(src any) (domain.User, bool) {
	switch u := src.(type) {
	case domain.User:
		return u, true
	case *domain.User:
		if u != nil {
			return *u, true
		}
	}
	return domain.User{}, false
}

func stringArg(p graphql.ResolveParams, name string) string {
	s, _ := p.Args[name].(string)
	return s
}

func inputString(in map[string]any, name string) string {
	s, _ := in[name].(string)
	return s
}
