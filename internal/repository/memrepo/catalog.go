package memrepo

import (
	"context"
	"time"

	"github.com/codewithtechno/techno-hub/internal/model"
	"github.com/codewithtechno/techno-hub/internal/repository"
)

// SprintRepo stores sprints.
type SprintRepo struct{ db *DB }

func (r *SprintRepo) List(context.Context) ([]model.Sprint, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return sortedRows(r.db.sprints, newestFirst(func(s model.Sprint) time.Time { return s.CreatedAt })), nil
}

func (r *SprintRepo) GetByID(_ context.Context, id string) (model.Sprint, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	s, ok := r.db.sprints[id]
	if !ok {
		return model.Sprint{}, repository.ErrNotFound
	}
	return s.val, nil
}

func (r *SprintRepo) Create(_ context.Context, s *model.Sprint) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.sprints[s.ID]; ok {
		return repository.ErrDuplicate
	}
	r.db.sprints[s.ID] = row[model.Sprint]{r.db.next(), *s}
	return nil
}

func (r *SprintRepo) Update(_ context.Context, s *model.Sprint) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cur, ok := r.db.sprints[s.ID]
	if !ok {
		return repository.ErrNotFound
	}
	next := cur.val
	next.SprintFields = s.SprintFields
	next.UpdatedAt = s.UpdatedAt
	r.db.sprints[s.ID] = row[model.Sprint]{cur.seq, next}
	return nil
}

// Delete removes the sprint and cascades to its applications.
func (r *SprintRepo) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.sprints[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.sprints, id)
	for aid, a := range r.db.applications {
		if a.val.SprintID == id {
			delete(r.db.applications, aid)
		}
	}
	return nil
}

func (r *SprintRepo) CountActive(context.Context) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	n := 0
	for _, s := range r.db.sprints {
		if s.val.IsActive {
			n++
		}
	}
	return n, nil
}

// EventRepo stores events.
type EventRepo struct{ db *DB }

func (r *EventRepo) List(context.Context) ([]model.Event, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return sortedRows(r.db.events, func(a, b row[model.Event]) bool {
		x, y := a.val.EventDate.Time, b.val.EventDate.Time
		if !x.Equal(y) {
			return x.Before(y)
		}
		return a.seq < b.seq
	}), nil
}

func (r *EventRepo) GetByID(_ context.Context, id string) (model.Event, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	e, ok := r.db.events[id]
	if !ok {
		return model.Event{}, repository.ErrNotFound
	}
	return e.val, nil
}

func (r *EventRepo) Create(_ context.Context, e *model.Event) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.events[e.ID]; ok {
		return repository.ErrDuplicate
	}
	r.db.events[e.ID] = row[model.Event]{r.db.next(), *e}
	return nil
}

func (r *EventRepo) Update(_ context.Context, e *model.Event) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cur, ok := r.db.events[e.ID]
	if !ok {
		return repository.ErrNotFound
	}
	next := cur.val
	next.EventFields = e.EventFields
	next.UpdatedAt = e.UpdatedAt
	r.db.events[e.ID] = row[model.Event]{cur.seq, next}
	return nil
}

// Delete removes the event and cascades to its registrations.
func (r *EventRepo) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.events[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.events, id)
	for rid, g := range r.db.registrations {
		if g.val.EventID == id {
			delete(r.db.registrations, rid)
		}
	}
	return nil
}
