package memrepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codewithtechno/techno-hub/internal/model"
	"github.com/codewithtechno/techno-hub/internal/repository"
)

func seedSprint(t *testing.T, db *DB, id string, created time.Time) {
	t.Helper()
	s := model.Sprint{ID: id, SprintFields: model.NewSprintFields(), CreatedAt: created}
	s.Title, s.SprintType, s.DurationDays = "Sprint "+id, model.SprintDesign, 14
	require.NoError(t, db.Sprints.Create(context.Background(), &s))
}

func TestApplicationUniquePerUserAndSprint(t *testing.T) {
	ctx := context.Background()
	db := New()
	seedSprint(t, db, "s1", time.Now())

	a := model.Application{ID: "a1", UserID: "u1", SprintID: "s1", Status: model.ApplicationPending}
	require.NoError(t, db.Applications.Create(ctx, &a))
	b := a
	b.ID = "a2"
	assert.ErrorIs(t, db.Applications.Create(ctx, &b), repository.ErrDuplicate)
	assert.Equal(t, 1, db.Applications.Count())

	other := model.Application{ID: "a3", UserID: "u1", SprintID: "missing"}
	assert.ErrorIs(t, db.Applications.Create(ctx, &other), repository.ErrNotFound)
}

func TestSprintDeleteCascades(t *testing.T) {
	ctx := context.Background()
	db := New()
	seedSprint(t, db, "s1", time.Now())
	require.NoError(t, db.Applications.Create(ctx, &model.Application{ID: "a1", UserID: "u1", SprintID: "s1"}))

	require.NoError(t, db.Sprints.Delete(ctx, "s1"))
	assert.Zero(t, db.Applications.Count())
	assert.ErrorIs(t, db.Sprints.Delete(ctx, "s1"), repository.ErrNotFound)
}

func TestSprintListNewestFirst(t *testing.T) {
	db := New()
	now := time.Now()
	seedSprint(t, db, "old", now.Add(-time.Hour))
	seedSprint(t, db, "new", now)
	seedSprint(t, db, "tie", now)

	got, err := db.Sprints.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"tie", "new", "old"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestEmailUniqueCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	db := New()
	require.NoError(t, db.Users.Create(ctx, &model.Account{ID: "u1", Email: "ada@example.com"}))
	assert.ErrorIs(t, db.Users.Create(ctx, &model.Account{ID: "u2", Email: "ADA@example.com "}), repository.ErrEmailExists)

	a, err := db.Users.GetByEmail(ctx, "Ada@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", a.ID)
}

func TestRegistrationListsDropMissingEvents(t *testing.T) {
	ctx := context.Background()
	db := New()
	e := model.Event{ID: "e1", EventFields: model.NewEventFields()}
	e.Title = "Meetup"
	require.NoError(t, db.Events.Create(ctx, &e))
	require.NoError(t, db.Registrations.Create(ctx, &model.EventRegistration{ID: "r1", UserID: "u1", EventID: "e1"}))
	assert.ErrorIs(t, db.Registrations.Create(ctx, &model.EventRegistration{ID: "r2", UserID: "u1", EventID: "e1"}), repository.ErrDuplicate)

	all, err := db.Registrations.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Meetup", all[0].Event.Title)

	require.NoError(t, db.Events.Delete(ctx, "e1"))
	all, err = db.Registrations.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestTokenRevocation(t *testing.T) {
	ctx := context.Background()
	db := New()
	require.NoError(t, db.Tokens.StoreRefresh(ctx, "u1", "h1", time.Now().Add(time.Hour)))
	require.NoError(t, db.Tokens.StoreRefresh(ctx, "u1", "h2", time.Now().Add(-time.Hour)))

	uid, err := db.Tokens.ValidateRefresh(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, "u1", uid)
	_, err = db.Tokens.ValidateRefresh(ctx, "h2")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, db.Tokens.RevokeAllForUser(ctx, "u1"))
	_, err = db.Tokens.ValidateRefresh(ctx, "h1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
