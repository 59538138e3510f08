package client_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codewithtechno/techno-hub/internal/apperr"
	"github.com/codewithtechno/techno-hub/internal/client"
	"github.com/codewithtechno/techno-hub/internal/gate"
	"github.com/codewithtechno/techno-hub/internal/model"
	"github.com/codewithtechno/techno-hub/internal/session"
	"github.com/codewithtechno/techno-hub/internal/testutil"
)

func designSprint() model.SprintPatch {
	return model.SprintPatch{
		Title:        model.SetTo("Design Sprint 1"),
		SprintType:   model.SetTo(model.SprintDesign),
		DurationDays: model.SetTo(14),
	}
}

func answers() model.ApplicationAnswers {
	return model.ApplicationAnswers{Motivation: "m", Experience: "e", Availability: "a"}
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewStack(t)
	sess := client.NewSession(client.New(s.URL(), nil), nil)
	assert.Equal(t, session.Unknown, sess.Tracker().Snapshot().State)

	updates, stop := sess.Tracker().Subscribe()
	defer stop()
	<-updates

	require.NoError(t, sess.SignUp(ctx, "ada@example.com", "secret1", "Ada"))
	snap := <-updates
	assert.Equal(t, session.Authenticated, snap.State)
	assert.Equal(t, "ada@example.com", snap.Identity.Email)
	assert.False(t, snap.IsAdmin())

	p, err := sess.Client().Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ada", *p.FullName)

	require.NoError(t, sess.SignOut(ctx))
	assert.Equal(t, session.Guest, (<-updates).State)
	_, err = sess.Client().Profile(ctx)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	err = sess.SignUp(ctx, "ada@example.com", "secret1", "Ada")
	assert.ErrorIs(t, err, apperr.ErrEmailTaken)
	assert.True(t, apperr.IsConflict(err))

	err = sess.SignIn(ctx, "ada@example.com", "wrong-password")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
	err = sess.SignIn(ctx, "ghost@example.com", "wrong-password")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
	assert.Equal(t, session.Guest, sess.Tracker().Snapshot().State)

	require.NoError(t, sess.SignIn(ctx, "ada@example.com", "secret1"))
	assert.Equal(t, session.Authenticated, sess.Tracker().Snapshot().State)
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewStack(t)
	seeded := s.SeedMember(t, "ada@example.com", "Ada")

	fresh := client.NewSession(client.New(s.URL(), nil), nil)
	require.NoError(t, fresh.Restore(ctx, seeded.AccessToken, seeded.RefreshToken))
	assert.Equal(t, session.Authenticated, fresh.Tracker().Snapshot().State)

	stale := client.NewSession(client.New(s.URL(), nil), nil)
	require.NoError(t, stale.Restore(ctx, "expired.token.value", seeded.RefreshToken))
	snap := stale.Tracker().Snapshot()
	require.Equal(t, session.Authenticated, snap.State)
	assert.Equal(t, seeded.User.AccountID, snap.Identity.AccountID)
	_, refresh := stale.Tokens()
	assert.NotEqual(t, seeded.RefreshToken, refresh)

	guest := client.NewSession(client.New(s.URL(), nil), nil)
	require.NoError(t, guest.Restore(ctx, "", ""))
	assert.Equal(t, session.Guest, guest.Tracker().Snapshot().State)

	revoked := client.NewSession(client.New(s.URL(), nil), nil)
	require.NoError(t, revoked.Restore(ctx, "bad", seeded.RefreshToken))
	assert.Equal(t, session.Guest, revoked.Tracker().Snapshot().State)
}

func TestErrorsCrossTheWire(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewStack(t)
	admin := client.New(s.URL(), nil)
	admin.SetToken(s.SeedAdmin(t, "admin@example.com").AccessToken)
	member := client.New(s.URL(), nil)
	member.SetToken(s.SeedMember(t, "ada@example.com", "Ada").AccessToken)

	_, err := member.CreateSprint(ctx, designSprint())
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	sp, err := admin.CreateSprint(ctx, designSprint())
	require.NoError(t, err)

	_, err = admin.CreateSprint(ctx, model.SprintPatch{Title: model.SetTo("x")})
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "sprint_type")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = member.Apply(ctx, sp.ID, answers())
	require.NoError(t, err)
	_, err = member.Apply(ctx, sp.ID, answers())
	assert.ErrorIs(t, err, apperr.ErrAlreadyApplied)
	assert.Equal(t, 1, s.DB.Applications.Count())

	_, err = member.Sprint(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	down := client.New("http://127.0.0.1:1", nil)
	_, err = down.Sprints(ctx, "")
	assert.ErrorIs(t, err, apperr.ErrTransient)
	assert.False(t, errors.Is(err, apperr.ErrConflict))
}

func TestAccessAndUpload(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewStack(t)
	api := client.New(s.URL(), nil)

	a, err := api.Access(ctx, "/admin/sprints")
	require.NoError(t, err)
	assert.Equal(t, gate.Decision{Action: gate.Redirect, To: gate.SignInPath}, a.Decision)
	assert.Equal(t, gate.Admin, a.Route.Requirement)

	api.SetToken(s.SeedAdmin(t, "admin@example.com").AccessToken)
	a, err = api.Access(ctx, "/admin/sprints")
	require.NoError(t, err)
	assert.Equal(t, gate.Render, a.Decision.Action)

	png := append([]byte("\x89PNG\x0D\x0A\x1A\x0A"), make([]byte, 16)...)
	url, err := api.UploadCover(ctx, "sprint-covers", "cover.png", png)
	require.NoError(t, err)
	assert.Contains(t, url, "/uploads/sprint-covers/")

	_, err = api.UploadCover(ctx, "sprint-covers", "notes.txt", []byte("hello"))
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestDemotedAdminLosesAccessBeforeTokenExpiry(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewStack(t)
	admin := s.SeedAdmin(t, "admin@example.com")
	api := client.New(s.URL(), nil)
	api.SetToken(admin.AccessToken)

	_, err := api.AllRegistrations(ctx)
	require.NoError(t, err)

	require.NoError(t, s.DB.Users.SetRole(admin.User.AccountID, model.RoleMember))
	_, err = api.AllRegistrations(ctx)
	require.ErrorIs(t, err, apperr.ErrForbidden)

	me, err := api.Me(ctx)
	require.NoError(t, err)
	assert.False(t, me.IsAdmin)
}
