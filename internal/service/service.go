// Package service holds the business rules of the platform.  Every
// operation takes the caller's session.Identity explicitly and enforces
// the owner/admin rules itself, so handlers and tests share one authority.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/codewithtechno/techno-hub/internal/apperr"
	"github.com/codewithtechno/techno-hub/internal/model"
	"github.com/codewithtechno/techno-hub/internal/queue"
	"github.com/codewithtechno/techno-hub/internal/repository"
	"github.com/codewithtechno/techno-hub/internal/session"
)

// UserRepository stores accounts.
type UserRepository interface {
	Create(ctx context.Context, a *model.Account) error
	GetByEmail(ctx context.Context, email string) (model.Account, error)
	GetByID(ctx context.Context, id string) (model.Account, error)
}

// TokenRepository stores refresh token hashes.
type TokenRepository interface {
	StoreRefresh(ctx context.Context, userID, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (string, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID string) error
}

// ProfileRepository stores profiles.
type ProfileRepository interface {
	Create(ctx context.Context, p *model.Profile) error
	Get(ctx context.Context, userID string) (model.Profile, error)
	Update(ctx context.Context, p *model.Profile) error
	GetMany(ctx context.Context, userIDs []string) (map[string]model.Profile, error)
	Count(ctx context.Context) (int, error)
}

// SprintRepository stores sprints.
type SprintRepository interface {
	List(ctx context.Context) ([]model.Sprint, error)
	GetByID(ctx context.Context, id string) (model.Sprint, error)
	Create(ctx context.Context, s *model.Sprint) error
	Update(ctx context.Context, s *model.Sprint) error
	Delete(ctx context.Context, id string) error
	CountActive(ctx context.Context) (int, error)
}

// EventRepository stores events.
type EventRepository interface {
	List(ctx context.Context) ([]model.Event, error)
	GetByID(ctx context.Context, id string) (model.Event, error)
	Create(ctx context.Context, e *model.Event) error
	Update(ctx context.Context, e *model.Event) error
	Delete(ctx context.Context, id string) error
}

// ApplicationRepository stores applications.
type ApplicationRepository interface {
	Create(ctx context.Context, a *model.Application) error
	GetByID(ctx context.Context, id string) (model.Application, error)
	ListByUser(ctx context.Context, userID string) ([]model.ApplicationWithSprint, error)
	ListAll(ctx context.Context) ([]model.ApplicationWithSprint, error)
	Recent(ctx context.Context, limit int) ([]model.ApplicationWithSprint, error)
	SetStatus(ctx context.Context, id string, status model.ApplicationStatus, notes *string, reviewer string, at time.Time) error
	Stats(ctx context.Context) (model.ApplicationStats, error)
}

// RegistrationRepository stores event registrations.
type RegistrationRepository interface {
	Create(ctx context.Context, g *model.EventRegistration) error
	GetByID(ctx context.Context, id string) (model.EventRegistration, error)
	GetByUserAndEvent(ctx context.Context, userID, eventID string) (model.EventRegistration, error)
	ListByEvent(ctx context.Context, eventID, userID string) ([]model.EventRegistration, error)
	ListByUser(ctx context.Context, userID string) ([]model.RegistrationWithEvent, error)
	ListAll(ctx context.Context) ([]model.RegistrationWithEvent, error)
	SetStatus(ctx context.Context, id string, status model.RegistrationStatus, at time.Time) error
}

// Publisher announces review decisions.  Delivery is best effort.
type Publisher interface {
	PublishApplicationReviewed(ctx context.Context, ev queue.ApplicationReviewedEvent) error
	PublishRegistrationUpdated(ctx context.Context, ev queue.RegistrationUpdatedEvent) error
}

// NopPublisher drops every event.  It is used when the broker is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishApplicationReviewed(context.Context, queue.ApplicationReviewedEvent) error {
	return nil
}

func (NopPublisher) PublishRegistrationUpdated(context.Context, queue.RegistrationUpdatedEvent) error {
	return nil
}

// Validator checks tagged input structs.
type Validator interface {
	Validate(i any) error
}

const publishTimeout = 5 * time.Second

// now is the service clock: UTC at the microsecond precision MySQL keeps.
func now() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }

func requireMember(who session.Identity) error {
	if who.AccountID == "" {
		return apperr.ErrUnauthenticated
	}
	return nil
}

func requireAdmin(who session.Identity) error {
	if err := requireMember(who); err != nil {
		return err
	}
	if !who.IsAdmin {
		return fmt.Errorf("%w: admin role required", apperr.ErrForbidden)
	}
	return nil
}

// storeErr translates repository sentinels into the shared taxonomy.
func storeErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	case errors.Is(err, repository.ErrDuplicate):
		return fmt.Errorf("%s: %w", op, apperr.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// profileSummaries fetches the contact fields of every distinct account in
// userIDs with one query.  Accounts without a profile map to an all-nil
// summary.
func profileSummaries(ctx context.Context, profiles ProfileRepository, userIDs []string) (map[string]model.ProfileSummary, error) {
	seen := make(map[string]bool, len(userIDs))
	distinct := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		if !seen[id] {
			seen[id] = true
			distinct = append(distinct, id)
		}
	}
	out := make(map[string]model.ProfileSummary, len(distinct))
	if len(distinct) == 0 {
		return out, nil
	}
	found, err := profiles.GetMany(ctx, distinct)
	if err != nil {
		return nil, err
	}
	for _, id := range distinct {
		if p, ok := found[id]; ok {
			out[id] = p.Summary()
		} else {
			out[id] = model.ProfileSummary{}
		}
	}
	return out, nil
}
