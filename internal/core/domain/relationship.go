package domain

// Relationship is one logical friend connection between two distinct users.
// It is persisted as two directed FRIEND edges, one in each direction, so a
// single directed traversal from either endpoint finds it. The fields below
// describe the from→to edge; From and To carry the full endpoint users when
// the relationship has been enriched.
type Relationship struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	FromUserID string `json:"fromUserId"`
	ToUserID   string `json:"toUserId"`
	CreatedAt  string `json:"createdAt"`

	From *User `json:"from,omitempty"`
	To   *User `json:"to,omitempty"`
}
