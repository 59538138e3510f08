// Package gate decides what a protected view may show for the current
// session state.  Unknown sessions get a neutral placeholder, guests are
// sent to sign in, and members who wander onto admin pages are sent to the
// not-found page.
package gate

import (
	"fmt"
	"strings"

	"github.com/codewithtechno/techno-hub/internal/session"
)

// Requirement is the access level a route demands.
type Requirement int

const (
	Public Requirement = iota
	Member
	Admin
)

func (r Requirement) String() string {
	switch r {
	case Member:
		return "member"
	case Admin:
		return "admin"
	default:
		return "public"
	}
}

func (r Requirement) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *Requirement) UnmarshalText(b []byte) error {
	switch string(b) {
	case "public":
		*r = Public
	case "member":
		*r = Member
	case "admin":
		*r = Admin
	default:
		return fmt.Errorf("gate: unknown requirement %q", b)
	}
	return nil
}

// Redirect targets.
const (
	SignInPath   = "/auth"
	NotFoundPath = "/404"
)

// Action is what the view layer must do.
type Action int

const (
	Render Action = iota
	Placeholder
	Redirect
)

func (a Action) String() string {
	switch a {
	case Placeholder:
		return "placeholder"
	case Redirect:
		return "redirect"
	default:
		return "render"
	}
}

func (a Action) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *Action) UnmarshalText(b []byte) error {
	switch string(b) {
	case "render":
		*a = Render
	case "placeholder":
		*a = Placeholder
	case "redirect":
		*a = Redirect
	default:
		return fmt.Errorf("gate: unknown action %q", b)
	}
	return nil
}

// Decision is the outcome of Decide.  To is set only for Redirect.
type Decision struct {
	Action Action `json:"action"`
	To     string `json:"to,omitempty"`
}

// Decide applies the guard rules to one snapshot.
func Decide(s session.Snapshot, req Requirement) Decision {
	if req == Public {
		return Decision{Action: Render}
	}
	switch s.State {
	case session.Unknown:
		return Decision{Action: Placeholder}
	case session.Guest:
		return Decision{Action: Redirect, To: SignInPath}
	}
	if req == Admin && !s.IsAdmin() {
		return Decision{Action: Redirect, To: NotFoundPath}
	}
	return Decision{Action: Render}
}

// Route is one entry of the application's page table.
type Route struct {
	Pattern     string      `json:"pattern"`
	Name        string      `json:"name"`
	Requirement Requirement `json:"requirement"`
}

// NotFound is the route unknown paths resolve to.
var NotFound = Route{Pattern: "*", Name: "not-found", Requirement: Public}

// Routes is the page table.
var Routes = []Route{
	{"/", "home", Public},
	{"/auth", "auth", Public},
	{"/sprints", "sprints", Public},
	{"/sprints/:id", "sprint-details", Public},
	{"/events", "events", Public},
	{"/events/:id", "event-details", Public},

	{"/dashboard", "dashboard", Member},
	{"/dashboard/profile", "profile", Member},
	{"/dashboard/applications", "my-applications", Member},
	{"/dashboard/events", "my-events", Member},

	{"/admin", "admin-dashboard", Admin},
	{"/admin/sprints", "manage-sprints", Admin},
	{"/admin/events", "manage-events", Admin},
	{"/admin/applications", "admin-applications", Admin},
	{"/admin/event-registrations", "admin-event-registrations", Admin},
	{"/admin/users", "admin-users", Admin},
}

// Lookup finds the route matching path.  Segments starting with ':' match
// any single non-empty segment.
func Lookup(path string) (Route, bool) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	segs := split(path)
	for _, r := range Routes {
		if match(split(r.Pattern), segs) {
			return r, true
		}
	}
	return NotFound, false
}

// Check resolves path and decides access to it.
func Check(s session.Snapshot, path string) (Route, Decision) {
	r, _ := Lookup(path)
	return r, Decide(s, r.Requirement)
}

func split(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func match(pattern, segs []string) bool {
	if len(pattern) != len(segs) {
		return false
	}
	for i, p := range pattern {
		if strings.HasPrefix(p, ":") {
			if segs[i] == "" {
				return false
			}
			continue
		}
		if p != segs[i] {
			return false
		}
	}
	return true
}
