// Package session carries the caller's identity through a request and
// publishes sign-in state transitions to subscribers.
package session

import (
	"context"

	"farmstore/internal/domain"
)

// State is the resolution state of a session.
type State int

const (
	StateResolving State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateResolving:
		return "resolving"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Identity describes an authenticated user.
type Identity struct {
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	FullName    string `json:"fullName,omitempty"`
	IsAdmin     bool   `json:"isAdmin"`
	IsSuspended bool   `json:"isSuspended"`
}

// IdentityFrom builds an Identity from a stored profile.
func IdentityFrom(p domain.Profile) Identity {
	return Identity{
		UserID:      p.ID,
		Email:       p.Email,
		FullName:    p.FullName,
		IsAdmin:     p.IsAdmin(),
		IsSuspended: p.IsSuspended,
	}
}

// Session is the identity state of one caller. Identity is only meaningful
// when State is StateAuthenticated.
type Session struct {
	State    State     `json:"state"`
	Identity *Identity `json:"identity,omitempty"`
}

func Resolving() Session { return Session{State: StateResolving} }

func Anonymous() Session { return Session{State: StateAnonymous} }

func Authenticated(id Identity) Session {
	return Session{State: StateAuthenticated, Identity: &id}
}

func (s Session) IsAuthenticated() bool {
	return s.State == StateAuthenticated && s.Identity != nil
}

func (s Session) IsAdmin() bool {
	return s.IsAuthenticated() && s.Identity.IsAdmin
}

// UserID returns the authenticated user's id or "".
func (s Session) UserID() string {
	if !s.IsAuthenticated() {
		return ""
	}
	return s.Identity.UserID
}

type ctxKey struct{}

// WithSession returns a context carrying s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored in ctx, or an anonymous session.
func FromContext(ctx context.Context) Session {
	if s, ok := ctx.Value(ctxKey{}).(Session); ok {
		return s
	}
	return Anonymous()
}
