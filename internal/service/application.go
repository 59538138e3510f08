package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/codewithtechno/techno-hub/internal/apperr"
	"github.com/codewithtechno/techno-hub/internal/model"
	"github.com/codewithtechno/techno-hub/internal/queue"
	"github.com/codewithtechno/techno-hub/internal/repository"
	"github.com/codewithtechno/techno-hub/internal/session"
)

// ApplicationService handles sprint applications.  Members create and
// list their own; admins list everything and set review status.
type ApplicationService struct {
	apps     ApplicationRepository
	sprints  SprintRepository
	profiles ProfileRepository
	pub      Publisher
	v        Validator
	log      zerolog.Logger
}

func NewApplicationService(apps ApplicationRepository, sprints SprintRepository, profiles ProfileRepository, pub Publisher, v Validator, log zerolog.Logger) *ApplicationService {
	if pub == nil {
		pub = NopPublisher{}
	}
	return &ApplicationService{apps: apps, sprints: sprints, profiles: profiles, pub: pub, v: v, log: log}
}

// ListMine returns the caller's applications with their sprints, newest first.
func (s *ApplicationService) ListMine(ctx context.Context, who session.Identity) ([]model.ApplicationWithSprint, error) {
	if err := requireMember(who); err != nil {
		return nil, err
	}
	out, err := s.apps.ListByUser(ctx, who.AccountID)
	if err != nil {
		return nil, storeErr("list applications", err)
	}
	return out, nil
}

// ListAll returns every application with its sprint and the applicant's
// contact fields.  Profiles are fetched in one batch after the
// applications and merged by account id.
func (s *ApplicationService) ListAll(ctx context.Context, who session.Identity) ([]model.ApplicationWithProfile, error) {
	if err := requireAdmin(who); err != nil {
		return nil, err
	}
	apps, err := s.apps.ListAll(ctx)
	if err != nil {
		return nil, storeErr("list applications", err)
	}
	return s.withProfiles(ctx, apps)
}

func (s *ApplicationService) withProfiles(ctx context.Context, apps []model.ApplicationWithSprint) ([]model.ApplicationWithProfile, error) {
	ids := make([]string, len(apps))
	for i, a := range apps {
		ids[i] = a.UserID
	}
	summaries, err := profileSummaries(ctx, s.profiles, ids)
	if err != nil {
		return nil, storeErr("load profiles", err)
	}
	out := make([]model.ApplicationWithProfile, len(apps))
	for i, a := range apps {
		out[i] = model.ApplicationWithProfile{Application: a.Application, Sprint: a.Sprint, Profile: summaries[a.UserID]}
	}
	return out, nil
}

// Create submits the caller's application to sprintID.  A second
// application to the same sprint yields apperr.ErrAlreadyApplied and
// stores nothing.
func (s *ApplicationService) Create(ctx context.Context, who session.Identity, sprintID string, answers model.ApplicationAnswers) (model.Application, error) {
	if err := requireMember(who); err != nil {
		return model.Application{}, err
	}
	answers.Motivation = strings.TrimSpace(answers.Motivation)
	answers.Experience = strings.TrimSpace(answers.Experience)
	answers.Availability = strings.TrimSpace(answers.Availability)
	if err := s.v.Validate(answers); err != nil {
		return model.Application{}, err
	}
	sprint, err := s.sprints.GetByID(ctx, sprintID)
	if err != nil {
		return model.Application{}, storeErr("get sprint", err)
	}
	// An existing application wins over a closed sprint so a re-submit
	// always reads as a duplicate.
	mine, err := s.apps.ListByUser(ctx, who.AccountID)
	if err != nil {
		return model.Application{}, storeErr("list applications", err)
	}
	for _, a := range mine {
		if a.SprintID == sprintID {
			return model.Application{}, apperr.ErrAlreadyApplied
		}
	}
	if !sprint.IsOpen() {
		return model.Application{}, apperr.Invalid("sprint_id", "sprint is not accepting applications")
	}

	t := now()
	app := model.NewApplication(uuid.NewString(), who.AccountID, sprintID, answers)
	app.CreatedAt, app.UpdatedAt = t, t
	if err := s.apps.Create(ctx, &app); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return model.Application{}, apperr.ErrAlreadyApplied
		}
		return model.Application{}, storeErr("create application", err)
	}
	s.log.Info().Str("application_id", app.ID).Str("sprint_id", sprintID).Str("account_id", who.AccountID).Msg("application submitted")
	return app, nil
}

// SetStatus records an admin review.  Any status may follow any other.
func (s *ApplicationService) SetStatus(ctx context.Context, who session.Identity, id string, change model.StatusChange) (model.Application, error) {
	if err := requireAdmin(who); err != nil {
		return model.Application{}, err
	}
	if !change.Status.Valid() {
		return model.Application{}, apperr.Invalid("status", "must be one of: pending, accepted, rejected")
	}
	t := now()
	if err := s.apps.SetStatus(ctx, id, change.Status, change.Notes, who.AccountID, t); err != nil {
		return model.Application{}, storeErr("set application status", err)
	}
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return model.Application{}, storeErr("get application", err)
	}
	s.log.Info().Str("application_id", id).Str("status", string(change.Status)).Str("by", who.AccountID).Msg("application reviewed")

	ev := queue.ApplicationReviewedEvent{
		ApplicationID: app.ID,
		UserID:        app.UserID,
		SprintID:      app.SprintID,
		Status:        string(app.Status),
		AdminNotes:    app.AdminNotes,
		ReviewedBy:    who.AccountID,
		ReviewedAt:    t.Format(time.RFC3339),
	}
	if sp, err := s.sprints.GetByID(ctx, app.SprintID); err == nil {
		ev.SprintTitle = sp.Title
	}
	pctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := s.pub.PublishApplicationReviewed(pctx, ev); err != nil {
		s.log.Warn().Err(err).Str("application_id", id).Msg("review notification not sent")
	}
	return app, nil
}

// Recent returns the latest limit applications joined like ListAll.
func (s *ApplicationService) Recent(ctx context.Context, who session.Identity, limit int) ([]model.ApplicationWithProfile, error) {
	if err := requireAdmin(who); err != nil {
		return nil, err
	}
	apps, err := s.apps.Recent(ctx, limit)
	if err != nil {
		return nil, storeErr("recent applications", err)
	}
	return s.withProfiles(ctx, apps)
}
