package client

import (
	"context"
	"errors"
	"sync"

	"github.com/codewithtechno/techno-hub/internal/apperr"
	"github.com/codewithtechno/techno-hub/internal/session"
)

// Session signs a Client in and out and publishes the outcome on a
// session.Tracker.  The tracker starts Unknown and moves to Guest or
// Authenticated once Restore, SignIn or SignUp completes.
type Session struct {
	api     *Client
	tracker *session.Tracker

	mu      sync.Mutex
	refresh string
}

// NewSession binds api to tracker.  A nil tracker gets a fresh one.
func NewSession(api *Client, tracker *session.Tracker) *Session {
	if tracker == nil {
		tracker = session.NewTracker()
	}
	return &Session{api: api, tracker: tracker}
}

// Tracker is the observable session state.
func (s *Session) Tracker() *session.Tracker { return s.tracker }

// Client is the API client the session authenticates.
func (s *Session) Client() *Client { return s.api }

// Restore resolves the session from a previously issued token pair.  An
// empty or rejected pair resolves to Guest; only transport failures are
// returned, and they leave the state Unknown.
func (s *Session) Restore(ctx context.Context, accessToken, refreshToken string) error {
	if accessToken == "" && refreshToken == "" {
		s.resolve(nil, "", "")
		return nil
	}
	s.api.SetToken(accessToken)
	id, err := s.api.Me(ctx)
	if err == nil {
		s.resolve(&id, accessToken, refreshToken)
		return nil
	}
	if !errors.Is(err, apperr.ErrUnauthenticated) {
		return err
	}
	s.api.SetToken("")
	if refreshToken != "" {
		res, rerr := s.api.Refresh(ctx, refreshToken)
		if rerr == nil {
			s.resolve(&res.User, res.AccessToken, res.RefreshToken)
			return nil
		}
		if !errors.Is(rerr, apperr.ErrUnauthenticated) {
			return rerr
		}
	}
	s.resolve(nil, "", "")
	return nil
}

// SignIn authenticates with email and password.  Wrong credentials return
// apperr.ErrInvalidCredentials whether or not the email exists.
func (s *Session) SignIn(ctx context.Context, email, password string) error {
	res, err := s.api.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	s.resolve(&res.User, res.AccessToken, res.RefreshToken)
	return nil
}

// SignUp creates a member account and signs it in.  A taken email returns
// apperr.ErrEmailTaken.
func (s *Session) SignUp(ctx context.Context, email, password, fullName string) error {
	res, err := s.api.SignUp(ctx, email, password, fullName)
	if err != nil {
		return err
	}
	s.resolve(&res.User, res.AccessToken, res.RefreshToken)
	return nil
}

// SignOut revokes the refresh token and resolves to Guest.  The local
// session is cleared even when the revoke call fails.
func (s *Session) SignOut(ctx context.Context) error {
	s.mu.Lock()
	refresh := s.refresh
	s.mu.Unlock()
	var err error
	if refresh != "" {
		err = s.api.SignOut(ctx, refresh)
	}
	s.resolve(nil, "", "")
	return err
}

// Tokens returns the current access and refresh tokens.
func (s *Session) Tokens() (access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.api.Token(), s.refresh
}

func (s *Session) resolve(id *session.Identity, access, refresh string) {
	s.mu.Lock()
	s.api.SetToken(access)
	s.refresh = refresh
	s.mu.Unlock()
	s.tracker.Resolve(id)
}
