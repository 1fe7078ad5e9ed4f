package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/usergraph/friends-api/internal/core/domain"
	"github.com/usergraph/friends-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stub services
// ---------------------------------------------------------------------------

type stubUserService struct {
	users     []domain.User
	friends   map[string][]domain.User
	listErr   error
	createErr error
	deleteErr error
}

func (s *stubUserService) ListUsers(context.Context) ([]domain.User, error) {
	return s.users, s.listErr
}

func (s *stubUserService) GetUser(_ context.Context, id string) (*domain.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, nil
}

func (s *stubUserService) ListFriends(_ context.Context, userID string) ([]domain.User, error) {
	return s.friends[userID], nil
}

func (s *stubUserService) CountFriends(_ context.Context, userID string) (int64, error) {
	return int64(len(s.friends[userID])), nil
}

func (s *stubUserService) CreateUser(_ context.Context, input ports.CreateUserInput) (*domain.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &domain.User{ID: "u-new", Name: input.Name, Email: input.Email, CreatedAt: "1700000000"}, nil
}

func (s *stubUserService) DeleteUser(_ context.Context, _ string) (bool, error) {
	if s.deleteErr != nil {
		return false, s.deleteErr
	}
	return true, nil
}

type stubRelationshipService struct {
	relationships []domain.Relationship
	exists        bool
	createErr     error
	deleted       bool
}

func (s *stubRelationshipService) ListRelationships(context.Context) ([]domain.Relationship, error) {
	return s.relationships, nil
}

func (s *stubRelationshipService) RelationshipExists(_ context.Context, _, _ string) (bool, error) {
	return s.exists, nil
}

func (s *stubRelationshipService) CreateRelationship(_ context.Context, input ports.CreateRelationshipInput) (*domain.Relationship, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &domain.Relationship{
		ID:         "r-new",
		Type:       input.Type,
		FromUserID: input.FromUserID,
		ToUserID:   input.ToUserID,
		CreatedAt:  "1700000000",
		From:       &domain.User{ID: input.FromUserID, Name: "Alice", Email: "a@x.com", CreatedAt: "1"},
		To:         &domain.User{ID: input.ToUserID, Name: "Bob", Email: "b@x.com", CreatedAt: "1"},
	}, nil
}

func (s *stubRelationshipService) DeleteRelationship(_ context.Context, _, _ string) (bool, error) {
	return s.deleted, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type graphqlResponse struct {
	Data   map[string]any `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func newTestHandler(t *testing.T, us ports.UserService, rs ports.RelationshipService) *Handler {
	t.Helper()
	schema, err := NewSchema(us, rs, zerolog.Nop())
	if err != nil {
		t.Fatalf("build schema: %v", err)
	}
	return NewHandler(schema, zerolog.Nop())
}

func postGraphQL(t *testing.T, h *Handler, body string) (*httptest.ResponseRecorder, graphqlResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Post(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	var resp graphqlResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec, resp
}

func marshalRequest(t *testing.T, query string, variables map[string]any) string {
	t.Helper()
	b, err := json.Marshal(map[string]any{"query": query, "variables": variables})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	return string(b)
}

// ---------------------------------------------------------------------------
// Query tests
// ---------------------------------------------------------------------------

func TestHandler_QueryUsers(t *testing.T) {
	us := &stubUserService{
		users: []domain.User{
			{ID: "u1", Name: "Alice", Email: "a@x.com", CreatedAt: "1700000000"},
			{ID: "u2", Name: "Bob", Email: "b@x.com", CreatedAt: "1700000001"},
		},
		friends: map[string][]domain.User{
			"u1": {{ID: "u2", Name: "Bob", Email: "b@x.com", CreatedAt: "1700000001"}},
		},
	}
	h := newTestHandler(t, us, &stubRelationshipService{})

	rec, resp := postGraphQL(t, h, marshalRequest(t,
		`{ users { id name email createdAt friendsCount } }`, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(resp.Errors) != 0 {
		t.Fatalf("unexpected errors: %+v", resp.Errors)
	}

	users, _ := resp.Data["users"].([]any)
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	first, _ := users[0].(map[string]any)
	if first["name"] != "Alice" {
		t.Errorf("expected first user Alice, got %v", first["name"])
	}
	if first["friendsCount"] != float64(1) {
		t.Errorf("expected friendsCount 1, got %v", first["friendsCount"])
	}
}

func TestHandler_QueryUser_AbsentIsNull(t *testing.T) {
	h := newTestHandler(t, &stubUserService{}, &stubRelationshipService{})

	_, resp := postGraphQL(t, h, marshalRequest(t,
		`query($id: ID!) { user(id: $id) { id name } }`,
		map[string]any{"id": "missing"}))

	if len(resp.Errors) != 0 {
		t.Fatalf("absence must not produce errors: %+v", resp.Errors)
	}
	if resp.Data["user"] != nil {
		t.Errorf("expected null user, got %v", resp.Data["user"])
	}
}

func TestHandler_QueryRelationshipExists(t *testing.T) {
	h := newTestHandler(t, &stubUserService{}, &stubRelationshipService{exists: true})

	_, resp := postGraphQL(t, h, marshalRequest(t,
		`{ relationshipExists(fromUserId: "u1", toUserId: "u2") }`, nil))

	if len(resp.Errors) != 0 {
		t.Fatalf("unexpected errors: %+v", resp.Errors)
	}
	if resp.Data["relationshipExists"] != true {
		t.Errorf("expected true, got %v", resp.Data["relationshipExists"])
	}
}

// ---------------------------------------------------------------------------
// Mutation tests
// ---------------------------------------------------------------------------

func TestHandler_CreateUser_WithVariables(t *testing.T) {
	h := newTestHandler(t, &stubUserService{}, &stubRelationshipService{})

	_, resp := postGraphQL(t, h, marshalRequest(t,
		`mutation($input: CreateUserInput!) { createUser(input: $input) { id name email } }`,
		map[string]any{"input": map[string]any{"name": "Alice", "email": "a@x.com"}}))

	if len(resp.Errors) != 0 {
		t.Fatalf("unexpected errors: %+v", resp.Errors)
	}
	created, _ := resp.Data["createUser"].(map[string]any)
	if created["id"] != "u-new" || created["name"] != "Alice" {
		t.Errorf("unexpected createUser payload: %v", created)
	}
}

func TestHandler_CreateRelationship(t *testing.T) {
	h := newTestHandler(t, &stubUserService{}, &stubRelationshipService{})

	_, resp := postGraphQL(t, h, marshalRequest(t,
		`mutation {
			createRelationship(input: {fromUserId: "u1", toUserId: "u2", type: "friend"}) {
				id type from { name } to { name }
			}
		}`, nil))

	if len(resp.Errors) != 0 {
		t.Fatalf("unexpected errors: %+v", resp.Errors)
	}
	rel, _ := resp.Data["createRelationship"].(map[string]any)
	from, _ := rel["from"].(map[string]any)
	to, _ := rel["to"].(map[string]any)
	if from["name"] != "Alice" || to["name"] != "Bob" {
		t.Errorf("unexpected endpoints: %v / %v", from, to)
	}
}

// ---------------------------------------------------------------------------
// Error surface tests
// ---------------------------------------------------------------------------

func TestHandler_DomainErrorMessagePassesThrough(t *testing.T) {
	h := newTestHandler(t, &stubUserService{createErr: domain.ErrDuplicateEmail}, &stubRelationshipService{})

	_, resp := postGraphQL(t, h, marshalRequest(t,
		`mutation { createUser(input: {name: "Alice", email: "a@x.com"}) { id } }`, nil))

	if len(resp.Errors) == 0 {
		t.Fatal("expected an error in the response")
	}
	if resp.Errors[0].Message != domain.ErrDuplicateEmail.Error() {
		t.Errorf("domain error must pass through verbatim, got %q", resp.Errors[0].Message)
	}
}

func TestHandler_UnexpectedErrorIsMasked(t *testing.T) {
	h := newTestHandler(t, &stubUserService{listErr: errors.New("bolt handshake: secret detail")}, &stubRelationshipService{})

	_, resp := postGraphQL(t, h, marshalRequest(t, `{ users { id } }`, nil))

	if len(resp.Errors) == 0 {
		t.Fatal("expected an error in the response")
	}
	if resp.Errors[0].Message != "internal server error" {
		t.Errorf("unexpected errors must be masked, got %q", resp.Errors[0].Message)
	}
	if strings.Contains(resp.Errors[0].Message, "secret") {
		t.Error("internal detail leaked to the client")
	}
}

func TestHandler_GraphErrorMessagePassesThrough(t *testing.T) {
	queryErr := ports.ErrGraphQuery
	h := newTestHandler(t, &stubUserService{listErr: queryErr}, &stubRelationshipService{})

	_, resp := postGraphQL(t, h, marshalRequest(t, `{ users { id } }`, nil))

	if len(resp.Errors) == 0 {
		t.Fatal("expected an error in the response")
	}
	if resp.Errors[0].Message != queryErr.Error() {
		t.Errorf("data-access error must pass through, got %q", resp.Errors[0].Message)
	}
}

// ---------------------------------------------------------------------------
// Transport tests
// ---------------------------------------------------------------------------

func TestHandler_InvalidBody(t *testing.T) {
	h := newTestHandler(t, &stubUserService{}, &stubRelationshipService{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader("{not json"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Post(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid body, got %d", rec.Code)
	}
}

func TestHandler_MissingQuery(t *testing.T) {
	h := newTestHandler(t, &stubUserService{}, &stubRelationshipService{})

	rec, resp := postGraphQL(t, h, `{"query": ""}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty query, got %d", rec.Code)
	}
	if len(resp.Errors) == 0 {
		t.Error("expected an error message for empty query")
	}
}

func TestHandler_PlaygroundServesHTML(t *testing.T) {
	h := newTestHandler(t, &stubUserService{}, &stubRelationshipService{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/graphql", nil)
	rec := httptest.NewRecorder()

	if err := h.Playground(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "GraphiQL") {
		t.Error("playground page should embed GraphiQL")
	}
}
