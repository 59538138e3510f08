package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codewithtechno/techno-hub/internal/model"
	"github.com/codewithtechno/techno-hub/internal/testutil"
)

func dashboard(t *testing.T, s *testutil.Stack, email string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	argv := []string{"-api", s.URL()}
	if email != "" {
		argv = append(argv, "-email", email, "-password", testutil.Password)
	}
	err := run(context.Background(), append(argv, args...), &out)
	return out.String(), err
}

func TestDashboardFlow(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewStack(t)
	admin := s.SeedAdmin(t, "admin@example.com")
	s.SeedMember(t, "ada@example.com", "Ada")
	sp, err := s.Services.Sprints.Create(ctx, admin.User, model.SprintPatch{
		Title:        model.SetTo("Design Sprint 1"),
		SprintType:   model.SetTo(model.SprintDesign),
		DurationDays: model.SetTo(14),
	})
	require.NoError(t, err)

	out, err := dashboard(t, s, "", "sprints")
	require.NoError(t, err)
	assert.Contains(t, out, "Design Sprint 1")
	assert.Contains(t, out, "open")

	_, err = dashboard(t, s, "", "my-applications")
	assert.EqualError(t, err, "sign in required: pass -email and -password")

	apply := []string{"apply", "-motivation", "m", "-experience", "e", "-availability", "a", sp.ID}
	out, err = dashboard(t, s, "ada@example.com", apply...)
	require.NoError(t, err)
	assert.Contains(t, out, "Application submitted!")

	out, err = dashboard(t, s, "ada@example.com", apply...)
	require.NoError(t, err)
	assert.Contains(t, out, "You have already applied to this sprint")
	assert.Equal(t, 1, s.DB.Applications.Count())

	_, err = dashboard(t, s, "ada@example.com", "review", "x", "accepted")
	assert.EqualError(t, err, "admin access required")

	apps, err := s.Services.Applications.ListAll(ctx, admin.User)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	out, err = dashboard(t, s, "admin@example.com", "review", apps[0].ID, "accepted", "welcome", "aboard")
	require.NoError(t, err)
	assert.Contains(t, out, "Application accepted")
	assert.Contains(t, out, "ada@example.com")

	out, err = dashboard(t, s, "ada@example.com", "my-applications")
	require.NoError(t, err)
	assert.Contains(t, out, "Congratulations! You've been accepted to Design Sprint 1.")
}

func TestDashboardAccess(t *testing.T) {
	s := testutil.NewStack(t)
	s.SeedMember(t, "ada@example.com", "Ada")

	out, err := dashboard(t, s, "", "access", "/dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "local:  redirect to /auth")
	assert.Contains(t, out, "server: redirect to /auth")

	out, err = dashboard(t, s, "ada@example.com", "access", "/admin/users")
	require.NoError(t, err)
	assert.Contains(t, out, "route:  admin-users (admin)")
	assert.Contains(t, out, "server: redirect to /404")
}

func TestDashboardUsage(t *testing.T) {
	s := testutil.NewStack(t)
	out, err := dashboard(t, s, "", "bogus")
	assert.ErrorIs(t, err, errUsage)
	assert.Contains(t, out, `unknown command "bogus"`)
	assert.Contains(t, out, "my-applications")
}
