package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/codewithtechno/techno-hub/internal/apperr"
	"github.com/codewithtechno/techno-hub/internal/model"
	"github.com/codewithtechno/techno-hub/internal/repository"
	"github.com/codewithtechno/techno-hub/internal/session"
	"github.com/codewithtechno/techno-hub/internal/utils"
)

// AuthConfig holds token and hashing parameters.
type AuthConfig struct {
	JWTSecret      string
	AccessTTLMin   int
	RefreshTTLDays int
	BcryptCost     int
}

// SignUpInput is the sign-up form.
type SignUpInput struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	FullName string `json:"full_name" validate:"notblank,min=2,max=100"`
}

// SignInInput is the sign-in form.
type SignInInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session is what a successful sign-in or refresh returns.
type Session struct {
	AccessToken      string           `json:"access_token"`
	RefreshToken     string           `json:"refresh_token"`
	TokenType        string           `json:"token_type"`
	ExpiresAt        string           `json:"expires_at"`
	RefreshExpiresAt string           `json:"refresh_expires_at"`
	User             session.Identity `json:"user"`
}

// AuthService signs accounts up and in and manages their tokens.
type AuthService struct {
	users    UserRepository
	tokens   TokenRepository
	profiles ProfileRepository
	v        Validator
	cfg      AuthConfig
	log      zerolog.Logger
}

func NewAuthService(users UserRepository, tokens TokenRepository, profiles ProfileRepository, v Validator, cfg AuthConfig, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, profiles: profiles, v: v, cfg: cfg, log: log}
}

// SignUp creates a member account and its profile, then signs it in.  A
// taken email yields apperr.ErrEmailTaken.
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (Session, error) {
	in.Email = repository.NormalizeEmail(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	if err := s.v.Validate(in); err != nil {
		return Session{}, err
	}
	hash, err := utils.HashPassword(in.Password, s.cfg.BcryptCost)
	if errors.Is(err, utils.ErrPasswordTooLong) {
		return Session{}, apperr.Invalid("password", "must be at most 72 bytes")
	}
	if err != nil {
		return Session{}, err
	}
	t := now()
	acc := model.Account{
		ID:           uuid.NewString(),
		Email:        in.Email,
		PasswordHash: hash,
		Role:         model.RoleMember,
		CreatedAt:    t,
		UpdatedAt:    t,
	}
	if err := s.users.Create(ctx, &acc); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return Session{}, apperr.ErrEmailTaken
		}
		return Session{}, fmt.Errorf("create account: %w", err)
	}

	email, name := acc.Email, in.FullName
	profile := model.Profile{UserID: acc.ID, FullName: &name, Email: &email, CreatedAt: t, UpdatedAt: t}
	if err := s.profiles.Create(ctx, &profile); err != nil && !errors.Is(err, repository.ErrDuplicate) {
		// the account exists; the profile is recreated lazily on first read
		s.log.Error().Err(err).Str("account_id", acc.ID).Msg("provision profile failed")
	}
	s.log.Info().Str("account_id", acc.ID).Msg("account created")
	return s.issue(ctx, acc)
}

// SignIn checks credentials.  Unknown email and wrong password are
// reported identically.
func (s *AuthService) SignIn(ctx context.Context, in SignInInput) (Session, error) {
	in.Email = repository.NormalizeEmail(in.Email)
	if err := s.v.Validate(in); err != nil {
		return Session{}, err
	}
	acc, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Session{}, apperr.ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("load account: %w", err)
	}
	if !utils.VerifyPassword(acc.PasswordHash, in.Password) {
		return Session{}, apperr.ErrInvalidCredentials
	}
	return s.issue(ctx, acc)
}

// Refresh rotates a refresh token: the presented one is revoked and a new
// pair is issued.
func (s *AuthService) Refresh(ctx context.Context, raw string) (Session, error) {
	if raw == "" {
		return Session{}, apperr.Invalid("refresh_token", "is required")
	}
	hash := utils.HashRefreshRaw(raw)
	userID, err := s.tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Session{}, fmt.Errorf("%w: invalid refresh token", apperr.ErrUnauthenticated)
		}
		return Session{}, fmt.Errorf("validate refresh: %w", err)
	}
	if err := s.tokens.RevokeByHash(ctx, hash); err != nil {
		return Session{}, fmt.Errorf("revoke refresh: %w", err)
	}
	acc, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return Session{}, storeErr("load account", err)
	}
	return s.issue(ctx, acc)
}

// SignOut revokes one refresh token.  Unknown tokens are ignored.
func (s *AuthService) SignOut(ctx context.Context, raw string) error {
	if raw == "" {
		return nil
	}
	return s.tokens.RevokeByHash(ctx, utils.HashRefreshRaw(raw))
}

// SignOutEverywhere revokes every refresh token of the caller.
func (s *AuthService) SignOutEverywhere(ctx context.Context, who session.Identity) error {
	if err := requireMember(who); err != nil {
		return err
	}
	return s.tokens.RevokeAllForUser(ctx, who.AccountID)
}

// Me reloads the caller's identity so role changes show without a new token.
func (s *AuthService) Me(ctx context.Context, who session.Identity) (session.Identity, error) {
	if err := requireMember(who); err != nil {
		return session.Identity{}, err
	}
	acc, err := s.users.GetByID(ctx, who.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return session.Identity{}, apperr.ErrUnauthenticated
		}
		return session.Identity{}, fmt.Errorf("load account: %w", err)
	}
	return identityOf(acc), nil
}

func (s *AuthService) issue(ctx context.Context, acc model.Account) (Session, error) {
	at, err := utils.NewAccessToken(s.cfg.JWTSecret, acc.ID, acc.Email, acc.Role, s.cfg.AccessTTLMin)
	if err != nil {
		return Session{}, fmt.Errorf("sign access token: %w", err)
	}
	rt, err := utils.NewRefreshToken(s.cfg.RefreshTTLDays)
	if err != nil {
		return Session{}, fmt.Errorf("generate refresh token: %w", err)
	}
	if err := s.tokens.StoreRefresh(ctx, acc.ID, utils.HashRefreshRaw(rt.Raw), rt.Exp); err != nil {
		return Session{}, fmt.Errorf("store refresh token: %w", err)
	}
	return Session{
		AccessToken:      at.Token,
		RefreshToken:     rt.Raw,
		TokenType:        "Bearer",
		ExpiresAt:        at.Exp.Format(time.RFC3339),
		RefreshExpiresAt: rt.Exp.Format(time.RFC3339),
		User:             identityOf(acc),
	}, nil
}

func identityOf(acc model.Account) session.Identity {
	return session.Identity{AccountID: acc.ID, Email: acc.Email, IsAdmin: acc.IsAdmin()}
}
