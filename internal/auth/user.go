// Package auth verifies identity tokens and tracks per-client session state.
//
// There is no process-wide "current user". A Session is resolved per request
// and passed explicitly to whatever needs it.
package auth

import (
	"context"
	"errors"
)

// ErrUnauthenticated is returned when an operation needs a signed-in user.
var ErrUnauthenticated = errors.New("authentication required")

// User is the identity carried by a verified token.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// State is what subscribers receive on every session change.
type State struct {
	User      *User `json:"user"`
	IsLoading bool  `json:"isLoading"`
}

// Session is the explicit per-client auth value.
type Session struct {
	ID    string `json:"-"`
	State State  `json:"state"`
}

// User returns the signed-in user or nil.
func (s Session) User() *User {
	return s.State.User
}

// SignedIn reports whether a user is present.
func (s Session) SignedIn() bool {
	return s.State.User != nil
}

type ctxKey struct{}

// WithSession attaches a session to ctx.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the request session. Requests that went through no
// session middleware get an anonymous session.
func FromContext(ctx context.Context) Session {
	s, _ := ctx.Value(ctxKey{}).(Session)
	return s
}
