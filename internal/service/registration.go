package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/codewithtechno/techno-hub/internal/apperr"
	"github.com/codewithtechno/techno-hub/internal/model"
	"github.com/codewithtechno/techno-hub/internal/queue"
	"github.com/codewithtechno/techno-hub/internal/repository"
	"github.com/codewithtechno/techno-hub/internal/session"
)

// RegistrationService handles event registrations.
type RegistrationService struct {
	regs     RegistrationRepository
	events   EventRepository
	profiles ProfileRepository
	pub      Publisher
	log      zerolog.Logger
}

func NewRegistrationService(regs RegistrationRepository, events EventRepository, profiles ProfileRepository, pub Publisher, log zerolog.Logger) *RegistrationService {
	if pub == nil {
		pub = NopPublisher{}
	}
	return &RegistrationService{regs: regs, events: events, profiles: profiles, pub: pub, log: log}
}

// Register signs the caller up for eventID with status "registered".  A
// second registration yields apperr.ErrAlreadyRegistered.
func (s *RegistrationService) Register(ctx context.Context, who session.Identity, eventID string) (model.EventRegistration, error) {
	if err := requireMember(who); err != nil {
		return model.EventRegistration{}, err
	}
	ev, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return model.EventRegistration{}, storeErr("get event", err)
	}
	if !ev.IsOpen() {
		return model.EventRegistration{}, apperr.Invalid("event_id", "event is not accepting registrations")
	}
	t := now()
	g := model.EventRegistration{
		ID:        uuid.NewString(),
		UserID:    who.AccountID,
		EventID:   eventID,
		Status:    model.RegistrationRegistered,
		CreatedAt: t,
		UpdatedAt: t,
	}
	if err := s.regs.Create(ctx, &g); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return model.EventRegistration{}, apperr.ErrAlreadyRegistered
		}
		return model.EventRegistration{}, storeErr("create registration", err)
	}
	s.log.Info().Str("registration_id", g.ID).Str("event_id", eventID).Str("account_id", who.AccountID).Msg("registered for event")
	return g, nil
}

// ListForEvent returns the registrations of one event: all of them for an
// admin, only the caller's own rows for anyone else.
func (s *RegistrationService) ListForEvent(ctx context.Context, who session.Identity, eventID string) ([]model.EventRegistration, error) {
	if err := requireMember(who); err != nil {
		return nil, err
	}
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, storeErr("get event", err)
	}
	scope := who.AccountID
	if who.IsAdmin {
		scope = ""
	}
	out, err := s.regs.ListByEvent(ctx, eventID, scope)
	if err != nil {
		return nil, storeErr("list registrations", err)
	}
	return out, nil
}

// Mine returns the caller's registration for eventID, nil when there is none.
func (s *RegistrationService) Mine(ctx context.Context, who session.Identity, eventID string) (*model.EventRegistration, error) {
	if err := requireMember(who); err != nil {
		return nil, err
	}
	g, err := s.regs.GetByUserAndEvent(ctx, who.AccountID, eventID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get registration", err)
	}
	return &g, nil
}

// ListMine returns the caller's registrations with their events.
func (s *RegistrationService) ListMine(ctx context.Context, who session.Identity) ([]model.RegistrationWithEvent, error) {
	if err := requireMember(who); err != nil {
		return nil, err
	}
	out, err := s.regs.ListByUser(ctx, who.AccountID)
	if err != nil {
		return nil, storeErr("list registrations", err)
	}
	return out, nil
}

// ListAll returns every registration with its event and the registrant's
// contact fields.  Registrations whose event is gone are dropped; missing
// profiles are null-filled.
func (s *RegistrationService) ListAll(ctx context.Context, who session.Identity) ([]model.RegistrationWithDetails, error) {
	if err := requireAdmin(who); err != nil {
		return nil, err
	}
	regs, err := s.regs.ListAll(ctx)
	if err != nil {
		return nil, storeErr("list registrations", err)
	}
	ids := make([]string, len(regs))
	for i, g := range regs {
		ids[i] = g.UserID
	}
	summaries, err := profileSummaries(ctx, s.profiles, ids)
	if err != nil {
		return nil, storeErr("load profiles", err)
	}
	out := make([]model.RegistrationWithDetails, len(regs))
	for i, g := range regs {
		out[i] = model.RegistrationWithDetails{EventRegistration: g.EventRegistration, Event: g.Event, Profile: summaries[g.UserID]}
	}
	return out, nil
}

// SetStatus moves a registration to any of the four statuses.
func (s *RegistrationService) SetStatus(ctx context.Context, who session.Identity, id string, status model.RegistrationStatus) (model.EventRegistration, error) {
	if err := requireAdmin(who); err != nil {
		return model.EventRegistration{}, err
	}
	if !status.Valid() {
		return model.EventRegistration{}, apperr.Invalid("status", "must be one of: registered, confirmed, pending, cancelled")
	}
	t := now()
	if err := s.regs.SetStatus(ctx, id, status, t); err != nil {
		return model.EventRegistration{}, storeErr("set registration status", err)
	}
	g, err := s.regs.GetByID(ctx, id)
	if err != nil {
		return model.EventRegistration{}, storeErr("get registration", err)
	}
	s.log.Info().Str("registration_id", id).Str("status", string(status)).Str("by", who.AccountID).Msg("registration updated")

	msg := queue.RegistrationUpdatedEvent{
		RegistrationID: g.ID,
		UserID:         g.UserID,
		EventID:        g.EventID,
		Status:         string(g.Status),
		UpdatedBy:      who.AccountID,
		UpdatedAt:      t.Format(time.RFC3339),
	}
	if ev, err := s.events.GetByID(ctx, g.EventID); err == nil {
		msg.EventTitle = ev.Title
	}
	pctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := s.pub.PublishRegistrationUpdated(pctx, msg); err != nil {
		s.log.Warn().Err(err).Str("registration_id", id).Msg("registration notification not sent")
	}
	return g, nil
}
