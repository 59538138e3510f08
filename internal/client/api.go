package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/codewithtechno/techno-hub/internal/gate"
	"github.com/codewithtechno/techno-hub/internal/model"
	"github.com/codewithtechno/techno-hub/internal/session"
)

// AuthResult is returned by sign-up, sign-in and refresh.
type AuthResult struct {
	AccessToken      string           `json:"access_token"`
	RefreshToken     string           `json:"refresh_token"`
	TokenType        string           `json:"token_type"`
	ExpiresAt        string           `json:"expires_at"`
	RefreshExpiresAt string           `json:"refresh_expires_at"`
	User             session.Identity `json:"user"`
}

// Access is the page gate decision for one path.
type Access struct {
	Path     string        `json:"path"`
	Route    gate.Route    `json:"route"`
	Decision gate.Decision `json:"decision"`
}

func esc(id string) string { return url.PathEscape(id) }

func (c *Client) SignUp(ctx context.Context, email, password, fullName string) (AuthResult, error) {
	var out AuthResult
	err := c.do(ctx, http.MethodPost, "/v1/auth/signup", map[string]string{
		"email": email, "password": password, "full_name": fullName,
	}, &out)
	return out, err
}

func (c *Client) SignIn(ctx context.Context, email, password string) (AuthResult, error) {
	var out AuthResult
	err := c.do(ctx, http.MethodPost, "/v1/auth/signin", map[string]string{"email": email, "password": password}, &out)
	return out, err
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (AuthResult, error) {
	var out AuthResult
	err := c.do(ctx, http.MethodPost, "/v1/auth/refresh", map[string]string{"refresh_token": refreshToken}, &out)
	return out, err
}

func (c *Client) SignOut(ctx context.Context, refreshToken string) error {
	return c.do(ctx, http.MethodPost, "/v1/auth/signout", map[string]string{"refresh_token": refreshToken}, nil)
}

func (c *Client) Me(ctx context.Context) (session.Identity, error) {
	var out session.Identity
	err := c.do(ctx, http.MethodGet, "/v1/auth/me", nil, &out)
	return out, err
}

// Sprints lists sprints; filter is "", "open" or "upcoming".
func (c *Client) Sprints(ctx context.Context, filter string) ([]model.Sprint, error) {
	return getList[model.Sprint](ctx, c, withQuery("/v1/sprints", "filter", filter))
}

func (c *Client) Sprint(ctx context.Context, id string) (model.Sprint, error) {
	var out model.Sprint
	err := c.do(ctx, http.MethodGet, "/v1/sprints/"+esc(id), nil, &out)
	return out, err
}

func (c *Client) CreateSprint(ctx context.Context, p model.SprintPatch) (model.Sprint, error) {
	var out model.Sprint
	err := c.do(ctx, http.MethodPost, "/v1/admin/sprints", p, &out)
	return out, err
}

func (c *Client) UpdateSprint(ctx context.Context, id string, p model.SprintPatch) (model.Sprint, error) {
	var out model.Sprint
	err := c.do(ctx, http.MethodPatch, "/v1/admin/sprints/"+esc(id), p, &out)
	return out, err
}

func (c *Client) DeleteSprint(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/admin/sprints/"+esc(id), nil, nil)
}

// Events lists events; filter is "", "open" or "upcoming".
func (c *Client) Events(ctx context.Context, filter string) ([]model.Event, error) {
	return getList[model.Event](ctx, c, withQuery("/v1/events", "filter", filter))
}

func (c *Client) Event(ctx context.Context, id string) (model.Event, error) {
	var out model.Event
	err := c.do(ctx, http.MethodGet, "/v1/events/"+esc(id), nil, &out)
	return out, err
}

func (c *Client) CreateEvent(ctx context.Context, p model.EventPatch) (model.Event, error) {
	var out model.Event
	err := c.do(ctx, http.MethodPost, "/v1/admin/events", p, &out)
	return out, err
}

func (c *Client) UpdateEvent(ctx context.Context, id string, p model.EventPatch) (model.Event, error) {
	var out model.Event
	err := c.do(ctx, http.MethodPatch, "/v1/admin/events/"+esc(id), p, &out)
	return out, err
}

func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/admin/events/"+esc(id), nil, nil)
}

func (c *Client) Profile(ctx context.Context) (model.Profile, error) {
	var out model.Profile
	err := c.do(ctx, http.MethodGet, "/v1/me/profile", nil, &out)
	return out, err
}

func (c *Client) UpdateProfile(ctx context.Context, u model.ProfileUpdate) (model.Profile, error) {
	var out model.Profile
	err := c.do(ctx, http.MethodPut, "/v1/me/profile", u, &out)
	return out, err
}

func (c *Client) MyApplications(ctx context.Context) ([]model.ApplicationWithSprint, error) {
	return getList[model.ApplicationWithSprint](ctx, c, "/v1/me/applications")
}

func (c *Client) Apply(ctx context.Context, sprintID string, answers model.ApplicationAnswers) (model.Application, error) {
	var out model.Application
	err := c.do(ctx, http.MethodPost, "/v1/sprints/"+esc(sprintID)+"/applications", answers, &out)
	return out, err
}

func (c *Client) AllApplications(ctx context.Context) ([]model.ApplicationWithProfile, error) {
	return getList[model.ApplicationWithProfile](ctx, c, "/v1/admin/applications")
}

func (c *Client) SetApplicationStatus(ctx context.Context, id string, change model.StatusChange) (model.Application, error) {
	var out model.Application
	err := c.do(ctx, http.MethodPatch, "/v1/admin/applications/"+esc(id)+"/status", change, &out)
	return out, err
}

func (c *Client) MyRegistrations(ctx context.Context) ([]model.RegistrationWithEvent, error) {
	return getList[model.RegistrationWithEvent](ctx, c, "/v1/me/registrations")
}

func (c *Client) Register(ctx context.Context, eventID string) (model.EventRegistration, error) {
	var out model.EventRegistration
	err := c.do(ctx, http.MethodPost, "/v1/events/"+esc(eventID)+"/registrations", nil, &out)
	return out, err
}

// EventRegistrations lists an event's registrations as visible to the
// caller.
func (c *Client) EventRegistrations(ctx context.Context, eventID string) ([]model.EventRegistration, error) {
	return getList[model.EventRegistration](ctx, c, "/v1/events/"+esc(eventID)+"/registrations")
}

// MyEventRegistration returns nil when the caller has not registered.
func (c *Client) MyEventRegistration(ctx context.Context, eventID string) (*model.EventRegistration, error) {
	var out struct {
		Registration *model.EventRegistration `json:"registration"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/events/"+esc(eventID)+"/registrations/me", nil, &out); err != nil {
		return nil, err
	}
	return out.Registration, nil
}

func (c *Client) AllRegistrations(ctx context.Context) ([]model.RegistrationWithDetails, error) {
	return getList[model.RegistrationWithDetails](ctx, c, "/v1/admin/registrations")
}

func (c *Client) SetRegistrationStatus(ctx context.Context, id string, status model.RegistrationStatus) (model.EventRegistration, error) {
	var out model.EventRegistration
	err := c.do(ctx, http.MethodPatch, "/v1/admin/registrations/"+esc(id)+"/status", map[string]model.RegistrationStatus{"status": status}, &out)
	return out, err
}

func (c *Client) Dashboard(ctx context.Context) (model.Dashboard, error) {
	var out model.Dashboard
	err := c.do(ctx, http.MethodGet, "/v1/admin/dashboard", nil, &out)
	return out, err
}

// Access asks the server which page decision applies to path for the
// current token.
func (c *Client) Access(ctx context.Context, path string) (Access, error) {
	var out Access
	err := c.do(ctx, http.MethodGet, withQuery("/v1/access", "path", path), nil, &out)
	return out, err
}
