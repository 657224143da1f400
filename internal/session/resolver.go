package session

import (
	"context"
	"io"
	"log"
	"strings"

	"farmstore/internal/domain"
)

type authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Profile, error)
}

// Resolver turns a bearer token into a Session.
type Resolver struct {
	auth   authenticator
	logger *log.Logger
}

func NewResolver(auth authenticator, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Resolver{auth: auth, logger: logger}
}

// Resolve returns an anonymous session for a blank token and for any
// lookup failure. Failures are logged.
func (r *Resolver) Resolve(ctx context.Context, token string) Session {
	token = strings.TrimSpace(token)
	if token == "" || r.auth == nil {
		return Anonymous()
	}
	p, err := r.auth.Authenticate(ctx, token)
	if err != nil {
		r.logger.Printf("session: resolve failed, treating as anonymous: %v", err)
		return Anonymous()
	}
	return Authenticated(IdentityFrom(*p))
}
