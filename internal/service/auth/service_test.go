package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"farmstore/internal/domain"
	tokenrepo "farmstore/internal/repository/token"
	"farmstore/internal/session"
	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test-secret")

// memoryRepo is a lightweight in-memory profile repository for tests.
type memoryRepo struct {
	byEmail map[string]domain.Profile
}

type memoryTokenRepo struct {
	tokens map[string]tokenrepo.Token
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byEmail: make(map[string]domain.Profile)}
}

func newMemoryTokenRepo() *memoryTokenRepo {
	return &memoryTokenRepo{tokens: make(map[string]tokenrepo.Token)}
}

func (r *memoryTokenRepo) Create(_ context.Context, token tokenrepo.Token) error {
	if _, exists := r.tokens[token.Token]; exists {
		return domain.ErrAlreadyExists
	}
	r.tokens[token.Token] = token
	return nil
}

func (r *memoryTokenRepo) Get(_ context.Context, token string) (*tokenrepo.Token, error) {
	t, ok := r.tokens[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := t
	return &clone, nil
}

func (r *memoryTokenRepo) Delete(_ context.Context, token string) error {
	if _, ok := r.tokens[token]; !ok {
		return domain.ErrNotFound
	}
	delete(r.tokens, token)
	return nil
}

func (r *memoryTokenRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for k, t := range r.tokens {
		if !t.ExpiresAt.After(now) {
			delete(r.tokens, k)
			n++
		}
	}
	return n, nil
}

func (r *memoryRepo) Create(_ context.Context, p domain.Profile) (*domain.Profile, error) {
	if _, exists := r.byEmail[p.Email]; exists {
		return nil, domain.ErrAlreadyExists
	}
	clone := p
	if clone.ID == "" {
		clone.ID = "user-" + p.Email
	}
	r.byEmail[clone.Email] = clone
	return &clone, nil
}

func (r *memoryRepo) GetByEmail(_ context.Context, email string) (*domain.Profile, error) {
	if p, ok := r.byEmail[strings.ToLower(email)]; ok {
		clone := p
		return &clone, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*domain.Profile, error) {
	for _, p := range r.byEmail {
		if p.ID == id {
			clone := p
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func newTestService(n *session.Notifier) (*Service, *memoryRepo, *memoryTokenRepo) {
	repo := newMemoryRepo()
	tokens := newMemoryTokenRepo()
	return New(repo, tokens, testSecret, time.Hour, n), repo, tokens
}

func TestSignupLoginAuthenticateLogout(t *testing.T) {
	n := session.NewNotifier()
	var events []session.EventKind
	n.Subscribe(func(ev session.Event) { events = append(events, ev.Kind) })
	svc, _, tokens := newTestService(n)
	ctx := context.Background()

	p, token, err := svc.Signup(ctx, SignupInput{
		Email:    " User@Example.com ",
		Password: "secret",
		FullName: "Ada Obi",
		Country:  "Nigeria",
	})
	if err != nil {
		t.Fatalf("signup returned error: %v", err)
	}
	if p.Email != "user@example.com" || p.Role != domain.RoleCustomer || token == "" {
		t.Fatalf("unexpected signup result %+v token=%q", p, token)
	}

	_, access, err := svc.Login(ctx, "user@example.com", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	got, err := svc.Authenticate(ctx, access)
	if err != nil || got.ID != p.ID {
		t.Fatalf("Authenticate = %+v, %v", got, err)
	}
	if len(tokens.tokens) != 2 {
		t.Fatalf("expected two stored token ids, got %d", len(tokens.tokens))
	}

	if err := svc.Logout(ctx, access); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.Authenticate(ctx, access); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected revoked token to be invalid, got %v", err)
	}
	if err := svc.Logout(ctx, access); err != nil {
		t.Fatalf("second logout should be a no-op, got %v", err)
	}
	if err := svc.Logout(ctx, "not-a-jwt"); err != nil {
		t.Fatalf("garbage logout should be a no-op, got %v", err)
	}

	want := []session.EventKind{session.EventSignedUp, session.EventSignedIn, session.EventSignedOut}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("events = %v, want %v", events, want)
		}
	}
}

func TestSignupValidation(t *testing.T) {
	svc, _, _ := newTestService(nil)
	ctx := context.Background()
	cases := []struct {
		name string
		in   SignupInput
	}{
		{"short password", SignupInput{Email: "a@example.com", Password: "12345", FullName: "A"}},
		{"missing email", SignupInput{Password: "123456", FullName: "A"}},
		{"bad email", SignupInput{Email: "nope", Password: "123456", FullName: "A"}},
		{"missing name", SignupInput{Email: "a@example.com", Password: "123456"}},
	}
	for _, tc := range cases {
		if _, _, err := svc.Signup(ctx, tc.in); err == nil {
			t.Fatalf("expected error for case %s", tc.name)
		}
	}

	if _, _, err := svc.Signup(ctx, SignupInput{Email: "a@example.com", Password: "123456", FullName: "A"}); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if _, _, err := svc.Signup(ctx, SignupInput{Email: "A@example.com", Password: "123456", FullName: "A"}); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _, _ := newTestService(nil)
	ctx := context.Background()

	if _, _, err := svc.Signup(ctx, SignupInput{Email: "user@example.com", Password: "secret", FullName: "T"}); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if _, _, err := svc.Login(ctx, "user@example.com", "wrong!"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "missing@example.com", "secret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestCreateAdmin(t *testing.T) {
	svc, _, _ := newTestService(nil)
	ctx := context.Background()

	if _, err := svc.CreateAdmin(ctx, AdminInput{Email: "admin@example.com", Password: "short-pass"}); err == nil {
		t.Fatalf("expected error for password under 12 characters")
	}
	p, err := svc.CreateAdmin(ctx, AdminInput{Email: "admin@example.com", Password: "long-enough-pass"})
	if err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}
	if !p.IsAdmin() || p.FullName != "FarmVora Admin" {
		t.Fatalf("unexpected admin %+v", p)
	}
}

func TestAuthenticateRejectsForeignAndExpiredTokens(t *testing.T) {
	svc, _, tokens := newTestService(nil)
	ctx := context.Background()
	if _, _, err := svc.Signup(ctx, SignupInput{Email: "user@example.com", Password: "secret", FullName: "T"}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{ID: "x", Subject: "user-user@example.com", Issuer: tokenIssuer})
	raw, err := forged.SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.Authenticate(ctx, raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign signature, got %v", err)
	}

	_, access, err := svc.Login(ctx, "user@example.com", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	svc.tokens.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := svc.Authenticate(ctx, access); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
	purged, err := svc.PurgeExpired(ctx)
	if err != nil || purged != 2 {
		t.Fatalf("PurgeExpired = %d, %v", purged, err)
	}
	if len(tokens.tokens) != 0 {
		t.Fatalf("expected no stored tokens, got %d", len(tokens.tokens))
	}
}
