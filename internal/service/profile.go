package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/codewithtechno/techno-hub/internal/model"
	"github.com/codewithtechno/techno-hub/internal/repository"
	"github.com/codewithtechno/techno-hub/internal/session"
)

// ProfileService lets members read and edit their own profile.
type ProfileService struct {
	repo ProfileRepository
	v    Validator
}

func NewProfileService(repo ProfileRepository, v Validator) *ProfileService {
	return &ProfileService{repo: repo, v: v}
}

// Get returns the caller's profile, creating an empty one on first access.
func (s *ProfileService) Get(ctx context.Context, who session.Identity) (model.Profile, error) {
	if err := requireMember(who); err != nil {
		return model.Profile{}, err
	}
	p, err := s.repo.Get(ctx, who.AccountID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return model.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	t := now()
	email := who.Email
	p = model.Profile{UserID: who.AccountID, CreatedAt: t, UpdatedAt: t}
	if email != "" {
		p.Email = &email
	}
	switch err := s.repo.Create(ctx, &p); {
	case err == nil:
		return p, nil
	case errors.Is(err, repository.ErrDuplicate):
		// lost a race with another first access
		p, err = s.repo.Get(ctx, who.AccountID)
		return p, storeErr("get profile", err)
	default:
		return model.Profile{}, fmt.Errorf("create profile: %w", err)
	}
}

// Update applies u to the caller's profile.
func (s *ProfileService) Update(ctx context.Context, who session.Identity, u model.ProfileUpdate) (model.Profile, error) {
	if err := requireMember(who); err != nil {
		return model.Profile{}, err
	}
	if err := s.v.Validate(u); err != nil {
		return model.Profile{}, err
	}
	p, err := s.Get(ctx, who)
	if err != nil {
		return model.Profile{}, err
	}
	u.Apply(&p)
	p.UpdatedAt = now()
	if err := s.repo.Update(ctx, &p); err != nil {
		return model.Profile{}, storeErr("update profile", err)
	}
	return p, nil
}
