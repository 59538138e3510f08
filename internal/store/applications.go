package store

import (
	"context"
	"errors"

	"github.com/codewithtechno/techno-hub/internal/apperr"
	"github.com/codewithtechno/techno-hub/internal/client"
	"github.com/codewithtechno/techno-hub/internal/model"
)

// ApplicationStore caches the caller's applications and, for admins, the
// review list.
type ApplicationStore struct {
	core
	api  *client.Client
	mine cache[model.ApplicationWithSprint]
	all  cache[model.ApplicationWithProfile]
}

func NewApplicationStore(api *client.Client, n Notifier) *ApplicationStore {
	return &ApplicationStore{core: core{notify: orDiscard(n)}, api: api}
}

// ListMine fetches the caller's applications, newest first.
func (s *ApplicationStore) ListMine(ctx context.Context) ([]model.ApplicationWithSprint, error) {
	items, err := s.api.MyApplications(ctx)
	if err != nil {
		s.failure("load applications", err)
		return nil, err
	}
	if !s.closed.Load() {
		s.mine.set(items)
	}
	return items, nil
}

// ListAll fetches every application with its applicant.  Admin only.
func (s *ApplicationStore) ListAll(ctx context.Context) ([]model.ApplicationWithProfile, error) {
	items, err := s.api.AllApplications(ctx)
	if err != nil {
		s.failure("load applications", err)
		return nil, err
	}
	if !s.closed.Load() {
		s.all.set(items)
	}
	return items, nil
}

// Mine is the cached result of ListMine.
func (s *ApplicationStore) Mine() []model.ApplicationWithSprint { return s.mine.get() }

// All is the cached result of ListAll.
func (s *ApplicationStore) All() []model.ApplicationWithProfile { return s.all.get() }

// Create applies to a sprint.  A second application to the same sprint
// fails with an error matching apperr.ErrAlreadyApplied and an "Already
// applied" notice; the stored application is untouched.
func (s *ApplicationStore) Create(ctx context.Context, sprintID string, answers model.ApplicationAnswers) (model.Application, error) {
	app, err := s.api.Apply(ctx, sprintID, answers)
	switch {
	case errors.Is(err, apperr.ErrAlreadyApplied):
		s.emit(Notice{Kind: Failure, Title: "Already applied", Message: "You have already applied to this sprint", Err: err})
		s.refreshMine(ctx)
		return app, err
	case err != nil:
		s.failure("submit application", err)
		return app, err
	}
	s.success("Application submitted!")
	s.refreshMine(ctx)
	return app, nil
}

// SetStatus records an admin review and refreshes the review list.
func (s *ApplicationStore) SetStatus(ctx context.Context, id string, status model.ApplicationStatus, notes *string) (model.Application, error) {
	app, err := s.api.SetApplicationStatus(ctx, id, model.StatusChange{Status: status, Notes: notes})
	if err != nil {
		s.failure("update application", err)
		return app, err
	}
	s.success("Application " + string(status))
	if !s.closed.Load() {
		_, _ = s.ListAll(ctx)
	}
	return app, nil
}

// HasApplied reports whether the cached ListMine result holds an
// application to sprintID.  The cache may be stale; Create is the
// authority.
func (s *ApplicationStore) HasApplied(sprintID string) bool {
	return s.mine.contains(func(a model.ApplicationWithSprint) bool { return a.SprintID == sprintID })
}

func (s *ApplicationStore) refreshMine(ctx context.Context) {
	if !s.closed.Load() {
		_, _ = s.ListMine(ctx)
	}
}
