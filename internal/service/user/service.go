// Package user manages profiles: self-service edits for buyers and the
// administrator's user list, suspension and removal.
package user

import (
	"context"
	"io"
	"log"
	"strings"

	"farmstore/internal/domain"
)

type profileRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	Update(ctx context.Context, id string, in domain.ProfileUpdate) (*domain.Profile, error)
	SetSuspended(ctx context.Context, id string, suspended bool, reason *string) (*domain.Profile, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter domain.UserFilter) ([]domain.Profile, error)
}

type Service struct {
	repo   profileRepo
	logger *log.Logger
}

func New(repo profileRepo, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, logger: logger}
}

// ProfileInput is what a buyer may change about themselves.
type ProfileInput struct {
	FullName *string `json:"fullName"`
	Country  *string `json:"country"`
}

// EditInput is what an administrator may change about any user.
type EditInput struct {
	FullName *string `json:"fullName"`
	Country  *string `json:"country"`
	Role     *string `json:"role"`
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Profile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.repo.GetByID(ctx, id)
}

// UpdateOwn edits the caller's name and country.
func (s *Service) UpdateOwn(ctx context.Context, userID string, in ProfileInput) (*domain.Profile, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	upd, err := profileUpdate(in.FullName, in.Country)
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, userID, upd)
}

// List searches users by name or email. state is all, active or suspended.
func (s *Service) List(ctx context.Context, search, state string) ([]domain.Profile, error) {
	state = strings.ToLower(strings.TrimSpace(state))
	switch state {
	case "":
		state = domain.UserFilterAll
	case domain.UserFilterAll, domain.UserFilterActive, domain.UserFilterSuspended:
	default:
		return nil, domain.Invalid("unknown user filter %q", state)
	}
	return s.repo.List(ctx, domain.UserFilter{Search: strings.TrimSpace(search), State: state})
}

func (s *Service) Edit(ctx context.Context, id string, in EditInput) (*domain.Profile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.Invalid("user id required")
	}
	upd, err := profileUpdate(in.FullName, in.Country)
	if err != nil {
		return nil, err
	}
	if in.Role != nil {
		role := domain.Role(strings.ToLower(strings.TrimSpace(*in.Role)))
		if role != domain.RoleCustomer && role != domain.RoleAdmin {
			return nil, domain.Invalid("unknown role %q", *in.Role)
		}
		upd.Role = &role
	}
	p, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("user: edited id=%s role=%s", p.ID, p.Role)
	return p, nil
}

// Suspend blocks a user from checking out. A reason is required and an
// administrator cannot suspend themselves.
func (s *Service) Suspend(ctx context.Context, actorID, id, reason string) (*domain.Profile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.Invalid("user id required")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.Invalid("suspension reason required")
	}
	if id == actorID {
		return nil, domain.ErrForbidden
	}
	p, err := s.repo.SetSuspended(ctx, id, true, &reason)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("user: suspended id=%s by=%s", id, actorID)
	return p, nil
}

// Unsuspend lifts a suspension and clears its reason.
func (s *Service) Unsuspend(ctx context.Context, id string) (*domain.Profile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.Invalid("user id required")
	}
	p, err := s.repo.SetSuspended(ctx, id, false, nil)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("user: unsuspended id=%s", id)
	return p, nil
}

// Delete removes a user. Users with orders are kept and reported as in use.
func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Invalid("user id required")
	}
	if id == actorID {
		return domain.ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Printf("user: deleted id=%s by=%s", id, actorID)
	return nil
}

func profileUpdate(fullName, country *string) (domain.ProfileUpdate, error) {
	var upd domain.ProfileUpdate
	if fullName != nil {
		name := strings.TrimSpace(*fullName)
		if name == "" {
			return upd, domain.Invalid("full name must not be blank")
		}
		upd.FullName = &name
	}
	if country != nil {
		c := strings.TrimSpace(*country)
		upd.Country = &c
	}
	return upd, nil
}
