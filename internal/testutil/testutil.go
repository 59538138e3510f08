// Package testutil runs the whole API in memory for tests: memrepo
// repositories, the real services and router, and an httptest server.
package testutil

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/codewithtechno/techno-hub/internal/config"
	"github.com/codewithtechno/techno-hub/internal/model"
	"github.com/codewithtechno/techno-hub/internal/queue"
	"github.com/codewithtechno/techno-hub/internal/repository/memrepo"
	"github.com/codewithtechno/techno-hub/internal/router"
	"github.com/codewithtechno/techno-hub/internal/service"
	"github.com/codewithtechno/techno-hub/internal/storage"
	"github.com/codewithtechno/techno-hub/internal/validator"
)

// JWTSecret signs the stack's access tokens.
const JWTSecret = "testutil-secret"

// Password is used by the Seed helpers.
const Password = "secret123"

// Stack is a running in-memory API.
type Stack struct {
	DB        *memrepo.DB
	Services  router.Services
	Echo      *echo.Echo
	Server    *httptest.Server
	Publisher *RecordingPublisher
	UploadDir string
}

// NewStack starts a stack and stops it when the test ends.
func NewStack(t testing.TB) *Stack {
	t.Helper()
	db := memrepo.New()
	v := validator.New()
	log := zerolog.Nop()
	pub := &RecordingPublisher{}

	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir, "/uploads")
	require.NoError(t, err)

	apps := service.NewApplicationService(db.Applications, db.Sprints, db.Profiles, pub, v, log)
	uploads := service.NewUploadService(store, 1<<20, log)
	svcs := router.Services{
		Auth: service.NewAuthService(db.Users, db.Tokens, db.Profiles, v, service.AuthConfig{
			JWTSecret:      JWTSecret,
			AccessTTLMin:   15,
			RefreshTTLDays: 7,
			BcryptCost:     bcrypt.MinCost,
		}, log),
		Profiles:      service.NewProfileService(db.Profiles, v),
		Sprints:       service.NewSprintService(db.Sprints, uploads, v, log),
		Events:        service.NewEventService(db.Events, uploads, v, log),
		Applications:  apps,
		Registrations: service.NewRegistrationService(db.Registrations, db.Events, db.Profiles, pub, log),
		Admin:         service.NewAdminService(db.Profiles, db.Sprints, db.Applications, apps),
		Uploads:       uploads,
	}
	e := router.New(router.Deps{
		Log:       log,
		JWTSecret: JWTSecret,
		Cache:     config.CacheConfig{},
		RateLimit: config.RateLimitConfig{},
		UploadDir: dir,
		Services:  svcs,
	})
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return &Stack{DB: db, Services: svcs, Echo: e, Server: srv, Publisher: pub, UploadDir: dir}
}

// URL is the base URL of the running server.
func (s *Stack) URL() string { return s.Server.URL }

// SeedMember signs up a member and returns its session.
func (s *Stack) SeedMember(t testing.TB, email, fullName string) service.Session {
	t.Helper()
	sess, err := s.Services.Auth.SignUp(context.Background(), service.SignUpInput{Email: email, Password: Password, FullName: fullName})
	require.NoError(t, err)
	return sess
}

// SeedAdmin signs up an account, grants it the admin role and signs in
// again so the returned tokens carry the role.
func (s *Stack) SeedAdmin(t testing.TB, email string) service.Session {
	t.Helper()
	sess := s.SeedMember(t, email, "Admin")
	require.NoError(t, s.DB.Users.SetRole(sess.User.AccountID, model.RoleAdmin))
	sess, err := s.Services.Auth.SignIn(context.Background(), service.SignInInput{Email: email, Password: Password})
	require.NoError(t, err)
	require.True(t, sess.User.IsAdmin)
	return sess
}

// RecordingPublisher keeps every published event.
type RecordingPublisher struct {
	mu            sync.Mutex
	reviewed      []queue.ApplicationReviewedEvent
	registrations []queue.RegistrationUpdatedEvent
}

func (p *RecordingPublisher) PublishApplicationReviewed(_ context.Context, ev queue.ApplicationReviewedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reviewed = append(p.reviewed, ev)
	return nil
}

func (p *RecordingPublisher) PublishRegistrationUpdated(_ context.Context, ev queue.RegistrationUpdatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.registrations = append(p.registrations, ev)
	return nil
}

// Reviewed returns a copy of the application.reviewed events.
func (p *RecordingPublisher) Reviewed() []queue.ApplicationReviewedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]queue.ApplicationReviewedEvent(nil), p.reviewed...)
}

// RegistrationUpdates returns a copy of the registration.updated events.
func (p *RecordingPublisher) RegistrationUpdates() []queue.RegistrationUpdatedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]queue.RegistrationUpdatedEvent(nil), p.registrations...)
}
