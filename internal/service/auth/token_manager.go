package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"farmstore/internal/domain"
	tokenrepo "farmstore/internal/repository/token"
	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "farmstore"

// tokenManager issues HS256 access tokens whose IDs are stored so they can
// be revoked before expiry.
type tokenManager struct {
	repo   tokenrepo.Repository
	secret []byte
	now    func() time.Time
}

func newTokenManager(repo tokenrepo.Repository, secret []byte) *tokenManager {
	return &tokenManager{
		repo:   repo,
		secret: secret,
		now:    time.Now,
	}
}

func (m *tokenManager) Issue(ctx context.Context, profileID string, ttl time.Duration) (string, error) {
	now := m.now()
	expiresAt := now.Add(ttl)
	for i := 0; i < 5; i++ {
		jti, err := randomTokenID()
		if err != nil {
			return "", err
		}
		err = m.repo.Create(ctx, tokenrepo.Token{
			Token:     jti,
			ProfileID: profileID,
			ExpiresAt: expiresAt,
		})
		if errors.Is(err, domain.ErrAlreadyExists) {
			continue
		}
		if err != nil {
			return "", err
		}
		claims := jwt.RegisteredClaims{
			ID:        jti,
			Subject:   profileID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		}
		return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	}
	return "", errors.New("token collision")
}

// Validate checks signature, expiry and revocation and returns the profile id.
func (m *tokenManager) Validate(ctx context.Context, raw string) (string, error) {
	claims, err := m.parse(raw)
	if err != nil {
		return "", ErrInvalidToken
	}
	stored, err := m.repo.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", ErrInvalidToken
		}
		return "", err
	}
	if stored.ProfileID != claims.Subject {
		return "", ErrInvalidToken
	}
	if m.now().After(stored.ExpiresAt) {
		_ = m.repo.Delete(ctx, stored.Token)
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// Revoke deletes the stored token id. It returns nil claims when raw does
// not parse or was already revoked.
func (m *tokenManager) Revoke(ctx context.Context, raw string) (*jwt.RegisteredClaims, error) {
	claims, err := m.parse(raw)
	if err != nil {
		return nil, nil
	}
	if err := m.repo.Delete(ctx, claims.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return claims, nil
}

func (m *tokenManager) parse(raw string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, err
	}
	if claims.ID == "" || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func randomTokenID() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
