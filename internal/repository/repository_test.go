package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codewithtechno/techno-hub/internal/model"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

var dupErr = &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}

func TestUserRepoCreateDuplicateEmail(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO accounts")).
		WithArgs("u1", "ada@example.com", "hash", model.RoleMember, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(dupErr)

	err := NewUserRepo(db).Create(context.Background(), &model.Account{
		ID: "u1", Email: "  Ada@Example.com ", PasswordHash: "hash", Role: model.RoleMember,
	})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestUserRepoGetByEmailNotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE email=?")).
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := NewUserRepo(db).GetByEmail(context.Background(), "Nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepoSetRoleByEmail(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE accounts SET role=?")).
		WithArgs(model.RoleAdmin, sqlmock.AnyArg(), "ada@example.com").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE accounts SET role=?")).
		WithArgs(model.RoleAdmin, sqlmock.AnyArg(), "ghost@example.com").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewUserRepo(db)
	require.NoError(t, repo.SetRoleByEmail(context.Background(), "Ada@example.com", model.RoleAdmin))
	assert.ErrorIs(t, repo.SetRoleByEmail(context.Background(), "ghost@example.com", model.RoleAdmin), ErrNotFound)
}

func TestTokenRepoValidateRevoked(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM refresh_tokens WHERE token_hash=?")).
		WithArgs("h").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow("u1", time.Now().Add(time.Hour), time.Now()))

	_, err := NewTokenRepo(db).ValidateRefresh(context.Background(), "h")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProfileRepoGetManyBatches(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now()
	cols := []string{"user_id", "full_name", "email", "phone", "bio", "portfolio_url", "linkedin_url",
		"github_url", "experience_level", "avatar_url", "created_at", "updated_at"}
	mock.ExpectQuery(regexp.QuoteMeta("FROM profiles WHERE user_id IN (?,?)")).
		WithArgs("u1", "u2").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("u1", "Ada", "ada@example.com", nil, nil, nil, nil, nil, nil, nil, now, now))

	got, err := NewProfileRepo(db).GetMany(context.Background(), []string{"u1", "u2"})
	require.NoError(t, err)
	require.Contains(t, got, "u1")
	assert.NotContains(t, got, "u2")
	assert.Equal(t, "Ada", *got["u1"].FullName)
	assert.Nil(t, got["u1"].Phone)
}

func TestProfileRepoGetManyEmpty(t *testing.T) {
	db, _ := newMock(t)
	got, err := NewProfileRepo(db).GetMany(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSprintRepoListScansNullable(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now()
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	cols := []string{"id", "title", "description", "sprint_type", "duration_days", "start_date", "end_date",
		"eligibility", "max_participants", "is_active", "is_accepting_applications", "cover_image_url",
		"is_paid", "ticket_price", "early_bird_price", "early_bird_seats", "created_by", "created_at", "updated_at"}
	mock.ExpectQuery(regexp.QuoteMeta("FROM sprints ORDER BY created_at DESC")).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("s1", "Design Sprint 1", nil, "design", int64(14), start, nil, nil, int64(20),
				true, true, nil, false, nil, nil, nil, "admin-1", now, now))

	got, err := NewSprintRepo(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	s := got[0]
	assert.Equal(t, "Design Sprint 1", s.Title)
	assert.Equal(t, 14, s.DurationDays)
	require.NotNil(t, s.StartDate)
	assert.Equal(t, "2025-03-01", s.StartDate.String())
	assert.Nil(t, s.EndDate)
	assert.Equal(t, 20, *s.MaxParticipants)
	assert.True(t, s.IsOpen())
}

func TestSprintRepoDeleteMissing(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sprints WHERE id=?")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, NewSprintRepo(db).Delete(context.Background(), "missing"), ErrNotFound)
}

func TestApplicationRepoCreateDuplicate(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO applications")).WillReturnError(dupErr)

	a := model.NewApplication("a1", "u1", "s1", model.ApplicationAnswers{Motivation: "m", Experience: "e", Availability: "x"})
	assert.ErrorIs(t, NewApplicationRepo(db).Create(context.Background(), &a), ErrDuplicate)
}

func TestApplicationRepoSetStatusKeepsNotes(t *testing.T) {
	db, mock := newMock(t)
	at := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("admin_notes=COALESCE(?, admin_notes)")).
		WithArgs(model.ApplicationAccepted, nil, "admin-1", at, at, "a1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := NewApplicationRepo(db).SetStatus(context.Background(), "a1", model.ApplicationAccepted, nil, "admin-1", at)
	assert.NoError(t, err)
}

func TestApplicationRepoStats(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WillReturnRows(sqlmock.NewRows([]string{"total", "pending", "accepted"}).AddRow(int64(5), int64(3), int64(1)))

	got, err := NewApplicationRepo(db).Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStats{Total: 5, Pending: 3, Accepted: 1}, got)
}

func TestRegistrationRepoListByEventForUser(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now()
	cols := []string{"id", "user_id", "event_id", "status", "payment_status", "payment_id",
		"payment_amount", "paid_at", "created_at", "updated_at"}
	mock.ExpectQuery(regexp.QuoteMeta("WHERE r.event_id=? AND r.user_id=?")).
		WithArgs("e1", "u1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("r1", "u1", "e1", "registered", nil, nil, "500.00", nil, now, now))

	got, err := NewRegistrationRepo(db).ListByEvent(context.Background(), "e1", "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.RegistrationRegistered, got[0].Status)
	assert.Equal(t, 500.0, *got[0].PaymentAmount)
}

func TestRegistrationRepoCreateDuplicate(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO event_registrations")).WillReturnError(dupErr)

	err := NewRegistrationRepo(db).Create(context.Background(), &model.EventRegistration{ID: "r1", UserID: "u1", EventID: "e1"})
	assert.ErrorIs(t, err, ErrDuplicate)
}
