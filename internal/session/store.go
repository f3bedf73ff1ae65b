package session

import (
	"context"
	"time"
)

// Session is the server-side record behind a session cookie. It stores only
// the identity pointer; everything else is re-fetched per request.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Authenticated reports whether the record carries a user.
func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != ""
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store persists sessions by id. Get returns (nil, nil) when no live record
// exists; Destroy on a missing id is not an error.
type Store interface {
	Get(ctx context.Context, sessionID string) (*Session, error)
	Set(ctx context.Context, s Session) error
	Destroy(ctx context.Context, sessionID string) error
}
