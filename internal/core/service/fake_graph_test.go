package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/usergraph/friends-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory fake query runner
//
// Implements the semantics of every Cypher statement the services issue,
// over plain maps and slices, the way the real graph would answer them.
// ---------------------------------------------------------------------------

type fakeUser struct {
	id, name, email, createdAt string
}

type fakeEdge struct {
	id, from, to, typ, createdAt string
}

type fakeGraph struct {
	users map[string]*fakeUser
	edges []*fakeEdge // insertion order, forward edge of a pair first

	failWith error  // when set, every call fails with this error
	failOn   string // when set, only this statement fails (with failWith)
}

func newFakeGraph() *fakeGraph {
	return &fakeGraph{users: make(map[string]*fakeUser)}
}

func (g *fakeGraph) RunQuery(_ context.Context, cypher string, params map[string]any) ([]ports.Record, error) {
	if g.failWith != nil && (g.failOn == "" || g.failOn == cypher) {
		return nil, g.failWith
	}

	switch cypher {
	case cypherListUsers:
		return g.listUsers(), nil
	case cypherGetUser:
		if u, ok := g.users[params["id"].(string)]; ok {
			return []ports.Record{userRecord(u)}, nil
		}
		return nil, nil
	case cypherUserFriends:
		return g.friendsOf(params["userId"].(string)), nil
	case cypherCountFriends:
		return []ports.Record{{"count": int64(len(g.friendsOf(params["userId"].(string))))}}, nil
	case cypherCountUsersByEmail:
		var n int64
		for _, u := range g.users {
			if u.email == params["email"].(string) {
				n++
			}
		}
		return []ports.Record{{"count": n}}, nil
	case cypherCountUsersByID:
		var n int64
		if _, ok := g.users[params["id"].(string)]; ok {
			n = 1
		}
		return []ports.Record{{"count": n}}, nil
	case cypherCreateUser:
		u := &fakeUser{
			id:        params["id"].(string),
			name:      params["name"].(string),
			email:     params["email"].(string),
			createdAt: params["createdAt"].(string),
		}
		g.users[u.id] = u
		return []ports.Record{userRecord(u)}, nil
	case cypherDeleteUser:
		id := params["id"].(string)
		delete(g.users, id)
		kept := g.edges[:0]
		for _, e := range g.edges {
			if e.from != id && e.to != id {
				kept = append(kept, e)
			}
		}
		g.edges = kept
		return nil, nil
	case cypherListRelationships:
		return g.listRelationships(), nil
	case cypherRelationshipExists:
		n := g.countBetween(params["fromUserId"].(string), params["toUserId"].(string))
		return []ports.Record{{"exists": n > 0}}, nil
	case cypherCountRelationships:
		n := g.countBetween(params["fromUserId"].(string), params["toUserId"].(string))
		return []ports.Record{{"count": n}}, nil
	case cypherCreateRelationship:
		from, okFrom := g.users[params["fromUserId"].(string)]
		to, okTo := g.users[params["toUserId"].(string)]
		if !okFrom || !okTo {
			// MATCH found nothing; the CREATE never ran.
			return nil, nil
		}
		forward := &fakeEdge{
			id:        params["forwardId"].(string),
			from:      from.id,
			to:        to.id,
			typ:       params["type"].(string),
			createdAt: params["createdAt"].(string),
		}
		reverse := &fakeEdge{
			id:        params["reverseId"].(string),
			from:      to.id,
			to:        from.id,
			typ:       params["type"].(string),
			createdAt: params["createdAt"].(string),
		}
		g.edges = append(g.edges, forward, reverse)
		return []ports.Record{edgeRecord(forward)}, nil
	case cypherDeleteRelationship:
		a, b := params["fromUserId"].(string), params["toUserId"].(string)
		var deleted int64
		kept := g.edges[:0]
		for _, e := range g.edges {
			if (e.from == a && e.to == b) || (e.from == b && e.to == a) {
				deleted++
				continue
			}
			kept = append(kept, e)
		}
		g.edges = kept
		return []ports.Record{{"deletedCount": deleted}}, nil
	}

	return nil, fmt.Errorf("fake graph: unknown statement %q", cypher)
}

func (g *fakeGraph) listUsers() []ports.Record {
	users := make([]*fakeUser, 0, len(g.users))
	for _, u := range g.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].name < users[j].name })

	records := make([]ports.Record, 0, len(users))
	for _, u := range users {
		records = append(records, userRecord(u))
	}
	return records
}

// friendsOf follows outgoing edges only, mirroring the directed traversal.
func (g *fakeGraph) friendsOf(userID string) []ports.Record {
	var friends []*fakeUser
	for _, e := range g.edges {
		if e.from == userID {
			if u, ok := g.users[e.to]; ok {
				friends = append(friends, u)
			}
		}
	}
	sort.Slice(friends, func(i, j int) bool { return friends[i].name < friends[j].name })

	records := make([]ports.Record, 0, len(friends))
	for _, u := range friends {
		records = append(records, userRecord(u))
	}
	return records
}

// listRelationships returns every directed edge newest first; within equal
// timestamps insertion order is preserved, like the database's default.
func (g *fakeGraph) listRelationships() []ports.Record {
	edges := make([]*fakeEdge, len(g.edges))
	copy(edges, g.edges)
	sort.SliceStable(edges, func(i, j int) bool { return edges[i].createdAt > edges[j].createdAt })

	records := make([]ports.Record, 0, len(edges))
	for _, e := range edges {
		records = append(records, edgeRecord(e))
	}
	return records
}

func (g *fakeGraph) countBetween(a, b string) int64 {
	var n int64
	for _, e := range g.edges {
		if (e.from == a && e.to == b) || (e.from == b && e.to == a) {
			n++
		}
	}
	return n
}

func userRecord(u *fakeUser) ports.Record {
	return ports.Record{"id": u.id, "name": u.name, "email": u.email, "createdAt": u.createdAt}
}

func edgeRecord(e *fakeEdge) ports.Record {
	return ports.Record{
		"id":         e.id,
		"type":       e.typ,
		"fromUserId": e.from,
		"toUserId":   e.to,
		"createdAt":  e.createdAt,
	}
}
