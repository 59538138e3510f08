package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/codewithtechno/techno-hub/internal/model"
	"github.com/codewithtechno/techno-hub/internal/session"
)

// CoverRemover deletes a cover image that no catalog row references any
// more.
type CoverRemover interface {
	RemoveCover(ctx context.Context, url *string)
}

type keepCovers struct{}

func (keepCovers) RemoveCover(context.Context, *string) {}

// replaced reports whether a cover URL changed from prev to next.
func replaced(prev, next *string) bool {
	return prev != nil && (next == nil || *next != *prev)
}

// SprintService manages the sprint catalog.  Reads are public; every
// mutation requires an admin.
type SprintService struct {
	repo   SprintRepository
	covers CoverRemover
	v      Validator
	log    zerolog.Logger
}

// NewSprintService builds the service.  covers may be nil, in which case
// replaced images stay in storage.
func NewSprintService(repo SprintRepository, covers CoverRemover, v Validator, log zerolog.Logger) *SprintService {
	if covers == nil {
		covers = keepCovers{}
	}
	return &SprintService{repo: repo, covers: covers, v: v, log: log}
}

// List returns every sprint, newest first.
func (s *SprintService) List(ctx context.Context) ([]model.Sprint, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeErr("list sprints", err)
	}
	return out, nil
}

func (s *SprintService) Get(ctx context.Context, id string) (model.Sprint, error) {
	sp, err := s.repo.GetByID(ctx, id)
	return sp, storeErr("get sprint", err)
}

// Create adds a sprint built from the defaults overlaid with p.
func (s *SprintService) Create(ctx context.Context, who session.Identity, p model.SprintPatch) (model.Sprint, error) {
	if err := requireAdmin(who); err != nil {
		return model.Sprint{}, err
	}
	f := model.NewSprintFields()
	p.Apply(&f)
	f.Title = strings.TrimSpace(f.Title)
	if err := s.v.Validate(f); err != nil {
		return model.Sprint{}, err
	}
	t := now()
	creator := who.AccountID
	sp := model.Sprint{ID: uuid.NewString(), SprintFields: f, CreatedBy: &creator, CreatedAt: t, UpdatedAt: t}
	if err := s.repo.Create(ctx, &sp); err != nil {
		return model.Sprint{}, storeErr("create sprint", err)
	}
	s.log.Info().Str("sprint_id", sp.ID).Str("by", who.AccountID).Msg("sprint created")
	return sp, nil
}

// Update applies the set fields of p to sprint id.
func (s *SprintService) Update(ctx context.Context, who session.Identity, id string, p model.SprintPatch) (model.Sprint, error) {
	if err := requireAdmin(who); err != nil {
		return model.Sprint{}, err
	}
	sp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return model.Sprint{}, storeErr("get sprint", err)
	}
	oldCover := sp.CoverImageURL
	p.Apply(&sp.SprintFields)
	sp.Title = strings.TrimSpace(sp.Title)
	if err := s.v.Validate(sp.SprintFields); err != nil {
		return model.Sprint{}, err
	}
	sp.UpdatedAt = now()
	if err := s.repo.Update(ctx, &sp); err != nil {
		return model.Sprint{}, storeErr("update sprint", err)
	}
	s.log.Info().Str("sprint_id", id).Str("by", who.AccountID).Msg("sprint updated")
	if replaced(oldCover, sp.CoverImageURL) {
		s.covers.RemoveCover(context.WithoutCancel(ctx), oldCover)
	}
	return sp, nil
}

// Delete removes sprint id together with its applications and its cover.
func (s *SprintService) Delete(ctx context.Context, who session.Identity, id string) error {
	if err := requireAdmin(who); err != nil {
		return err
	}
	sp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return storeErr("get sprint", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeErr("delete sprint", err)
	}
	s.log.Info().Str("sprint_id", id).Str("by", who.AccountID).Msg("sprint deleted")
	s.covers.RemoveCover(context.WithoutCancel(ctx), sp.CoverImageURL)
	return nil
}

// EventService manages the event catalog with the same rules as sprints.
type EventService struct {
	repo   EventRepository
	covers CoverRemover
	v      Validator
	log    zerolog.Logger
}

func NewEventService(repo EventRepository, covers CoverRemover, v Validator, log zerolog.Logger) *EventService {
	if covers == nil {
		covers = keepCovers{}
	}
	return &EventService{repo: repo, covers: covers, v: v, log: log}
}

// List returns every event, soonest first.
func (s *EventService) List(ctx context.Context) ([]model.Event, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeErr("list events", err)
	}
	return out, nil
}

func (s *EventService) Get(ctx context.Context, id string) (model.Event, error) {
	e, err := s.repo.GetByID(ctx, id)
	return e, storeErr("get event", err)
}

func (s *EventService) Create(ctx context.Context, who session.Identity, p model.EventPatch) (model.Event, error) {
	if err := requireAdmin(who); err != nil {
		return model.Event{}, err
	}
	f := model.NewEventFields()
	p.Apply(&f)
	f.Title = strings.TrimSpace(f.Title)
	if err := s.v.Validate(f); err != nil {
		return model.Event{}, err
	}
	t := now()
	creator := who.AccountID
	e := model.Event{ID: uuid.NewString(), EventFields: f, CreatedBy: &creator, CreatedAt: t, UpdatedAt: t}
	if err := s.repo.Create(ctx, &e); err != nil {
		return model.Event{}, storeErr("create event", err)
	}
	s.log.Info().Str("event_id", e.ID).Str("by", who.AccountID).Msg("event created")
	return e, nil
}

func (s *EventService) Update(ctx context.Context, who session.Identity, id string, p model.EventPatch) (model.Event, error) {
	if err := requireAdmin(who); err != nil {
		return model.Event{}, err
	}
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return model.Event{}, storeErr("get event", err)
	}
	oldCover := e.CoverImageURL
	p.Apply(&e.EventFields)
	e.Title = strings.TrimSpace(e.Title)
	if err := s.v.Validate(e.EventFields); err != nil {
		return model.Event{}, err
	}
	e.UpdatedAt = now()
	if err := s.repo.Update(ctx, &e); err != nil {
		return model.Event{}, storeErr("update event", err)
	}
	s.log.Info().Str("event_id", id).Str("by", who.AccountID).Msg("event updated")
	if replaced(oldCover, e.CoverImageURL) {
		s.covers.RemoveCover(context.WithoutCancel(ctx), oldCover)
	}
	return e, nil
}

func (s *EventService) Delete(ctx context.Context, who session.Identity, id string) error {
	if err := requireAdmin(who); err != nil {
		return err
	}
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return storeErr("get event", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeErr("delete event", err)
	}
	s.log.Info().Str("event_id", id).Str("by", who.AccountID).Msg("event deleted")
	s.covers.RemoveCover(context.WithoutCancel(ctx), e.CoverImageURL)
	return nil
}
