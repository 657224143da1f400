package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"farmstore/internal/domain"
	tokenrepo "farmstore/internal/repository/token"
	"farmstore/internal/session"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
)

const (
	customerPasswordMin = 6
	adminPasswordMin    = 12
	defaultAdminName    = "FarmVora Admin"
)

type profileRepo interface {
	Create(ctx context.Context, p domain.Profile) (*domain.Profile, error)
	GetByEmail(ctx context.Context, email string) (*domain.Profile, error)
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
}

// Service handles sign-up, sign-in, sign-out and token authentication.
type Service struct {
	profiles  profileRepo
	tokens    *tokenManager
	notifier  *session.Notifier
	accessTTL time.Duration
}

// New creates a Service. notifier may be nil.
func New(profiles profileRepo, tokens tokenrepo.Repository, secret []byte, accessTTL time.Duration, notifier *session.Notifier) *Service {
	if accessTTL <= 0 {
		accessTTL = 48 * time.Hour
	}
	return &Service{
		profiles:  profiles,
		tokens:    newTokenManager(tokens, secret),
		notifier:  notifier,
		accessTTL: accessTTL,
	}
}

// SignupInput captures fields expected by the sign-up endpoint.
type SignupInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Country  string `json:"country"`
}

// AdminInput captures fields for bootstrapping an administrator.
type AdminInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Signup registers a customer and signs them in.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*domain.Profile, string, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, "", err
	}
	if err := validatePassword(in.Password, customerPasswordMin); err != nil {
		return nil, "", err
	}
	fullName := strings.TrimSpace(in.FullName)
	if fullName == "" {
		return nil, "", domain.Invalid("full name required")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	p, err := s.profiles.Create(ctx, domain.Profile{
		Email:        email,
		PasswordHash: string(hashed),
		FullName:     fullName,
		Country:      strings.TrimSpace(in.Country),
		Role:         domain.RoleCustomer,
	})
	if err != nil {
		return nil, "", err
	}
	token, err := s.tokens.Issue(ctx, p.ID, s.accessTTL)
	if err != nil {
		return nil, "", err
	}
	s.notifier.Publish(session.Event{Kind: session.EventSignedUp, Identity: session.IdentityFrom(*p)})
	return p, token, nil
}

// CreateAdmin registers an administrator account. It does not sign in.
func (s *Service) CreateAdmin(ctx context.Context, in AdminInput) (*domain.Profile, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password, adminPasswordMin); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = defaultAdminName
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.profiles.Create(ctx, domain.Profile{
		Email:        email,
		PasswordHash: string(hashed),
		FullName:     name,
		Role:         domain.RoleAdmin,
	})
}

// Login validates credentials and returns an issued access token plus the profile.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.Profile, string, error) {
	p, err := s.profiles.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(ctx, p.ID, s.accessTTL)
	if err != nil {
		return nil, "", err
	}
	s.notifier.Publish(session.Event{Kind: session.EventSignedIn, Identity: session.IdentityFrom(*p)})
	return p, token, nil
}

// Logout revokes token. Unknown, expired or already revoked tokens are not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Revoke(ctx, token)
	if err != nil || claims == nil {
		return err
	}
	if p, err := s.profiles.GetByID(ctx, claims.Subject); err == nil {
		s.notifier.Publish(session.Event{Kind: session.EventSignedOut, Identity: session.IdentityFrom(*p)})
	}
	return nil
}

// Authenticate returns the profile bound to a valid access token.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.Profile, error) {
	profileID, err := s.tokens.Validate(ctx, token)
	if err != nil {
		return nil, err
	}
	p, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return p, nil
}

// PurgeExpired removes stored token ids past their expiry.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	return s.tokens.repo.DeleteExpired(ctx, s.tokens.now())
}

// AccessTTLSeconds exposes the access token lifetime in seconds.
func (s *Service) AccessTTLSeconds() int {
	return int(s.accessTTL.Seconds())
}

func normalizeEmail(raw string) (string, error) {
	email := strings.TrimSpace(strings.ToLower(raw))
	if email == "" {
		return "", domain.Invalid("email required")
	}
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", domain.Invalid("email is invalid")
	}
	return email, nil
}

func validatePassword(p string, min int) error {
	if len(p) < min {
		return domain.Invalid("password must be at least %d characters", min)
	}
	if strings.TrimSpace(p) == "" {
		return domain.Invalid("password must not be blank")
	}
	return nil
}
