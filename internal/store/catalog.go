package store

import (
	"context"
	"strings"

	"github.com/codewithtechno/techno-hub/internal/client"
	"github.com/codewithtechno/techno-hub/internal/model"
)

// catalog is the shared list/create/update/delete cycle of sprints and
// events.  P is the patch type used for both create and update.
type catalog[T, P any] struct {
	core
	noun   string
	items  cache[T]
	fetch  func(ctx context.Context) ([]T, error)
	create func(ctx context.Context, p P) (T, error)
	update func(ctx context.Context, id string, p P) (T, error)
	remove func(ctx context.Context, id string) error
}

// List fetches every record and replaces the cache.
func (c *catalog[T, P]) List(ctx context.Context) ([]T, error) {
	items, err := c.fetch(ctx)
	if err != nil {
		c.failure("load "+c.noun+"s", err)
		return nil, err
	}
	if !c.closed.Load() {
		c.items.set(items)
	}
	return items, nil
}

// Items is the cached list from the last successful List.
func (c *catalog[T, P]) Items() []T { return c.items.get() }

// Create adds a record and refreshes the list.
func (c *catalog[T, P]) Create(ctx context.Context, p P) (T, error) {
	rec, err := c.create(ctx, p)
	if err != nil {
		c.failure("create "+c.noun, err)
		return rec, err
	}
	c.success(title(c.noun) + " created successfully")
	c.refresh(ctx)
	return rec, nil
}

// Update applies a partial update and refreshes the list.
func (c *catalog[T, P]) Update(ctx context.Context, id string, p P) (T, error) {
	rec, err := c.update(ctx, id, p)
	if err != nil {
		c.failure("update "+c.noun, err)
		return rec, err
	}
	c.success(title(c.noun) + " updated successfully")
	c.refresh(ctx)
	return rec, nil
}

// Delete removes a record and refreshes the list.
func (c *catalog[T, P]) Delete(ctx context.Context, id string) error {
	if err := c.remove(ctx, id); err != nil {
		c.failure("delete "+c.noun, err)
		return err
	}
	c.success(title(c.noun) + " deleted successfully")
	c.refresh(ctx)
	return nil
}

// refresh refetches after a mutation.  A failed refetch leaves the cache
// as it was and is reported by List.
func (c *catalog[T, P]) refresh(ctx context.Context) {
	if c.closed.Load() {
		return
	}
	_, _ = c.List(ctx)
}

func title(noun string) string {
	return strings.ToUpper(noun[:1]) + noun[1:]
}

// SprintStore caches the sprint list.
type SprintStore struct {
	*catalog[model.Sprint, model.SprintPatch]
}

func NewSprintStore(api *client.Client, n Notifier) *SprintStore {
	return &SprintStore{&catalog[model.Sprint, model.SprintPatch]{
		core:   core{notify: orDiscard(n)},
		noun:   "sprint",
		fetch:  func(ctx context.Context) ([]model.Sprint, error) { return api.Sprints(ctx, "") },
		create: api.CreateSprint,
		update: api.UpdateSprint,
		remove: api.DeleteSprint,
	}}
}

// Open is the cached sprints accepting applications.
func (s *SprintStore) Open() []model.Sprint {
	open, _ := model.PartitionSprints(s.Items())
	return open
}

// Upcoming is the cached active sprints not yet accepting applications.
func (s *SprintStore) Upcoming() []model.Sprint {
	_, upcoming := model.PartitionSprints(s.Items())
	return upcoming
}

// Find returns the cached sprint with id.
func (s *SprintStore) Find(id string) (model.Sprint, bool) {
	for _, sp := range s.Items() {
		if sp.ID == id {
			return sp, true
		}
	}
	return model.Sprint{}, false
}

// EventStore caches the event list.
type EventStore struct {
	*catalog[model.Event, model.EventPatch]
}

func NewEventStore(api *client.Client, n Notifier) *EventStore {
	return &EventStore{&catalog[model.Event, model.EventPatch]{
		core:   core{notify: orDiscard(n)},
		noun:   "event",
		fetch:  func(ctx context.Context) ([]model.Event, error) { return api.Events(ctx, "") },
		create: api.CreateEvent,
		update: api.UpdateEvent,
		remove: api.DeleteEvent,
	}}
}

// Open is the cached events accepting registrations.
func (s *EventStore) Open() []model.Event {
	open, _ := model.PartitionEvents(s.Items())
	return open
}

// Upcoming is the cached active events not yet accepting registrations.
func (s *EventStore) Upcoming() []model.Event {
	_, upcoming := model.PartitionEvents(s.Items())
	return upcoming
}

// Find returns the cached event with id.
func (s *EventStore) Find(id string) (model.Event, bool) {
	for _, ev := range s.Items() {
		if ev.ID == id {
			return ev, true
		}
	}
	return model.Event{}, false
}
