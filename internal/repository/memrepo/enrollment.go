package memrepo

import (
	"context"
	"time"

	"github.com/codewithtechno/techno-hub/internal/model"
	"github.com/codewithtechno/techno-hub/internal/repository"
)

// ApplicationRepo stores applications, unique per (user, sprint).
type ApplicationRepo struct{ db *DB }

func (r *ApplicationRepo) Create(_ context.Context, a *model.Application) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, cur := range r.db.applications {
		if cur.val.UserID == a.UserID && cur.val.SprintID == a.SprintID {
			return repository.ErrDuplicate
		}
	}
	if _, ok := r.db.sprints[a.SprintID]; !ok {
		return repository.ErrNotFound
	}
	r.db.applications[a.ID] = row[model.Application]{r.db.next(), *a}
	return nil
}

func (r *ApplicationRepo) GetByID(_ context.Context, id string) (model.Application, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	a, ok := r.db.applications[id]
	if !ok {
		return model.Application{}, repository.ErrNotFound
	}
	return a.val, nil
}

func (r *ApplicationRepo) ListByUser(_ context.Context, userID string) ([]model.ApplicationWithSprint, error) {
	return r.list(func(a model.Application) bool { return a.UserID == userID }, 0), nil
}

func (r *ApplicationRepo) ListAll(context.Context) ([]model.ApplicationWithSprint, error) {
	return r.list(nil, 0), nil
}

func (r *ApplicationRepo) Recent(_ context.Context, limit int) ([]model.ApplicationWithSprint, error) {
	return r.list(nil, limit), nil
}

func (r *ApplicationRepo) list(keep func(model.Application) bool, limit int) []model.ApplicationWithSprint {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	apps := sortedRows(r.db.applications, newestFirst(func(a model.Application) time.Time { return a.CreatedAt }))
	var out []model.ApplicationWithSprint
	for _, a := range apps {
		if keep != nil && !keep(a) {
			continue
		}
		s, ok := r.db.sprints[a.SprintID]
		if !ok {
			continue
		}
		out = append(out, model.ApplicationWithSprint{Application: a, Sprint: s.val.Summary()})
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func (r *ApplicationRepo) SetStatus(_ context.Context, id string, status model.ApplicationStatus, notes *string, reviewer string, at time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cur, ok := r.db.applications[id]
	if !ok {
		return repository.ErrNotFound
	}
	a := cur.val
	a.Status = status
	if notes != nil {
		n := *notes
		a.AdminNotes = &n
	}
	a.ReviewedBy = &reviewer
	a.ReviewedAt = &at
	a.UpdatedAt = at
	r.db.applications[id] = row[model.Application]{cur.seq, a}
	return nil
}

func (r *ApplicationRepo) Stats(context.Context) (model.ApplicationStats, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var s model.ApplicationStats
	for _, a := range r.db.applications {
		s.Total++
		switch a.val.Status {
		case model.ApplicationPending:
			s.Pending++
		case model.ApplicationAccepted:
			s.Accepted++
		}
	}
	return s, nil
}

// Count returns the number of stored applications.
func (r *ApplicationRepo) Count() int {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return len(r.db.applications)
}

// RegistrationRepo stores event registrations, unique per (user, event).
type RegistrationRepo struct{ db *DB }

func (r *RegistrationRepo) Create(_ context.Context, g *model.EventRegistration) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, cur := range r.db.registrations {
		if cur.val.UserID == g.UserID && cur.val.EventID == g.EventID {
			return repository.ErrDuplicate
		}
	}
	if _, ok := r.db.events[g.EventID]; !ok {
		return repository.ErrNotFound
	}
	r.db.registrations[g.ID] = row[model.EventRegistration]{r.db.next(), *g}
	return nil
}

func (r *RegistrationRepo) GetByID(_ context.Context, id string) (model.EventRegistration, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	g, ok := r.db.registrations[id]
	if !ok {
		return model.EventRegistration{}, repository.ErrNotFound
	}
	return g.val, nil
}

func (r *RegistrationRepo) GetByUserAndEvent(_ context.Context, userID, eventID string) (model.EventRegistration, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, g := range r.db.registrations {
		if g.val.UserID == userID && g.val.EventID == eventID {
			return g.val, nil
		}
	}
	return model.EventRegistration{}, repository.ErrNotFound
}

func (r *RegistrationRepo) ListByEvent(_ context.Context, eventID, userID string) ([]model.EventRegistration, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []model.EventRegistration
	for _, g := range r.sorted() {
		if g.EventID == eventID && (userID == "" || g.UserID == userID) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *RegistrationRepo) ListByUser(_ context.Context, userID string) ([]model.RegistrationWithEvent, error) {
	return r.withEvent(func(g model.EventRegistration) bool { return g.UserID == userID }), nil
}

func (r *RegistrationRepo) ListAll(context.Context) ([]model.RegistrationWithEvent, error) {
	return r.withEvent(nil), nil
}

func (r *RegistrationRepo) withEvent(keep func(model.EventRegistration) bool) []model.RegistrationWithEvent {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []model.RegistrationWithEvent
	for _, g := range r.sorted() {
		if keep != nil && !keep(g) {
			continue
		}
		e, ok := r.db.events[g.EventID]
		if !ok {
			continue
		}
		out = append(out, model.RegistrationWithEvent{EventRegistration: g, Event: e.val.Summary()})
	}
	return out
}

// sorted must be called with the lock held.
func (r *RegistrationRepo) sorted() []model.EventRegistration {
	return sortedRows(r.db.registrations, newestFirst(func(g model.EventRegistration) time.Time { return g.CreatedAt }))
}

func (r *RegistrationRepo) SetStatus(_ context.Context, id string, status model.RegistrationStatus, at time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cur, ok := r.db.registrations[id]
	if !ok {
		return repository.ErrNotFound
	}
	g := cur.val
	g.Status = status
	g.UpdatedAt = at
	r.db.registrations[id] = row[model.EventRegistration]{cur.seq, g}
	return nil
}

// Count returns the number of stored registrations.
func (r *RegistrationRepo) Count() int {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return len(r.db.registrations)
}
