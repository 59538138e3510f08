package store

import (
	"context"
	"errors"
	"sync"

	"github.com/codewithtechno/techno-hub/internal/apperr"
	"github.com/codewithtechno/techno-hub/internal/client"
	"github.com/codewithtechno/techno-hub/internal/model"
)

// RegistrationStore caches event registrations.  The per-event list and
// the caller's own registration for an event are separate queries with
// separate caches.
type RegistrationStore struct {
	core
	api  *client.Client
	mine cache[model.RegistrationWithEvent]
	all  cache[model.RegistrationWithDetails]

	mu       sync.RWMutex
	perEvent map[string][]model.EventRegistration
	own      map[string]*model.EventRegistration
}

func NewRegistrationStore(api *client.Client, n Notifier) *RegistrationStore {
	return &RegistrationStore{
		core:     core{notify: orDiscard(n)},
		api:      api,
		perEvent: map[string][]model.EventRegistration{},
		own:      map[string]*model.EventRegistration{},
	}
}

// LoadEvent fetches the registrations of one event.  Admins see every
// row, members only their own.
func (s *RegistrationStore) LoadEvent(ctx context.Context, eventID string) ([]model.EventRegistration, error) {
	items, err := s.api.EventRegistrations(ctx, eventID)
	if err != nil {
		s.failure("load registrations", err)
		return nil, err
	}
	if !s.closed.Load() {
		s.mu.Lock()
		s.perEvent[eventID] = items
		s.mu.Unlock()
	}
	return items, nil
}

// LoadMine fetches the caller's registration for one event, nil when
// there is none.
func (s *RegistrationStore) LoadMine(ctx context.Context, eventID string) (*model.EventRegistration, error) {
	reg, err := s.api.MyEventRegistration(ctx, eventID)
	if err != nil {
		s.failure("load registration", err)
		return nil, err
	}
	if !s.closed.Load() {
		s.mu.Lock()
		s.own[eventID] = reg
		s.mu.Unlock()
	}
	return reg, nil
}

// ForEvent is the cached result of LoadEvent.
func (s *RegistrationStore) ForEvent(eventID string) []model.EventRegistration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.EventRegistration(nil), s.perEvent[eventID]...)
}

// MineFor is the cached result of LoadMine.
func (s *RegistrationStore) MineFor(eventID string) *model.EventRegistration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r := s.own[eventID]; r != nil {
		cp := *r
		return &cp
	}
	return nil
}

// IsRegistered reports whether the cached LoadMine result for eventID is
// a registration.
func (s *RegistrationStore) IsRegistered(eventID string) bool {
	return s.MineFor(eventID) != nil
}

// Register signs the caller up for an event, then refreshes the event's
// list and the caller's registration.  A duplicate fails with an error
// matching apperr.ErrAlreadyRegistered.
func (s *RegistrationStore) Register(ctx context.Context, eventID string) (model.EventRegistration, error) {
	reg, err := s.api.Register(ctx, eventID)
	switch {
	case errors.Is(err, apperr.ErrAlreadyRegistered):
		s.emit(Notice{Kind: Failure, Title: "Already Registered", Message: "You have already registered for this event", Err: err})
		s.refreshEvent(ctx, eventID)
		return reg, err
	case err != nil:
		s.failure("register for event", err)
		return reg, err
	}
	s.success("Successfully registered for event!")
	s.refreshEvent(ctx, eventID)
	return reg, nil
}

// ListMine fetches the caller's registrations joined with their events.
func (s *RegistrationStore) ListMine(ctx context.Context) ([]model.RegistrationWithEvent, error) {
	items, err := s.api.MyRegistrations(ctx)
	if err != nil {
		s.failure("load registrations", err)
		return nil, err
	}
	if !s.closed.Load() {
		s.mine.set(items)
	}
	return items, nil
}

// ListAll fetches every registration.  Admin only.
func (s *RegistrationStore) ListAll(ctx context.Context) ([]model.RegistrationWithDetails, error) {
	items, err := s.api.AllRegistrations(ctx)
	if err != nil {
		s.failure("load registrations", err)
		return nil, err
	}
	if !s.closed.Load() {
		s.all.set(items)
	}
	return items, nil
}

// Mine is the cached result of ListMine.
func (s *RegistrationStore) Mine() []model.RegistrationWithEvent { return s.mine.get() }

// All is the cached result of ListAll.
func (s *RegistrationStore) All() []model.RegistrationWithDetails { return s.all.get() }

// SetStatus moves a registration to status, then refreshes the admin list
// and both caches of the registration's event.
func (s *RegistrationStore) SetStatus(ctx context.Context, id string, status model.RegistrationStatus) (model.EventRegistration, error) {
	reg, err := s.api.SetRegistrationStatus(ctx, id, status)
	if err != nil {
		s.failure("update registration", err)
		return reg, err
	}
	s.success("Registration " + string(status))
	if !s.closed.Load() {
		_, _ = s.ListAll(ctx)
		s.refreshEvent(ctx, reg.EventID)
	}
	return reg, nil
}

// refreshEvent reloads both event-scoped caches.  One failing does not
// stop the other.
func (s *RegistrationStore) refreshEvent(ctx context.Context, eventID string) {
	if s.closed.Load() {
		return
	}
	_, _ = s.LoadEvent(ctx, eventID)
	_, _ = s.LoadMine(ctx, eventID)
}
