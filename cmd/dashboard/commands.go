package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/codewithtechno/techno-hub/internal/apperr"
	"github.com/codewithtechno/techno-hub/internal/gate"
	"github.com/codewithtechno/techno-hub/internal/model"
)

func table(out io.Writer, header ...string) *tabwriter.Writer {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	return w
}

func price(p model.Pricing) string {
	if !p.IsPaid {
		return "free"
	}
	v, ok := p.CurrentPrice()
	if !ok {
		return "paid"
	}
	if p.HasEarlyBird() {
		return fmt.Sprintf("%.0f (early bird)", v)
	}
	return fmt.Sprintf("%.0f", v)
}

func str(p *string) string {
	if p == nil {
		return "-"
	}
	return *p
}

func listSprints(ctx context.Context, a *app, _ []string) error {
	if _, err := a.sprints.List(ctx); err != nil {
		return err
	}
	w := table(a.out, "ID", "TITLE", "TYPE", "DAYS", "PRICE", "STATE")
	rows := func(list []model.Sprint, state string) {
		for _, s := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n", s.ID, s.Title, s.SprintType, s.DurationDays, price(s.Pricing), state)
		}
	}
	rows(a.sprints.Open(), "open")
	rows(a.sprints.Upcoming(), "upcoming")
	return w.Flush()
}

func listEvents(ctx context.Context, a *app, _ []string) error {
	if _, err := a.events.List(ctx); err != nil {
		return err
	}
	w := table(a.out, "ID", "TITLE", "MODE", "DATE", "PRICE", "STATE")
	rows := func(list []model.Event, state string) {
		for _, e := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", e.ID, e.Title, e.EventType, e.EventDate, price(e.Pricing), state)
		}
	}
	rows(a.events.Open(), "open")
	rows(a.events.Upcoming(), "upcoming")
	return w.Flush()
}

func apply(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("apply", flag.ContinueOnError)
	fs.SetOutput(a.out)
	var ans model.ApplicationAnswers
	fs.StringVar(&ans.Motivation, "motivation", "", "why you want to join (required)")
	fs.StringVar(&ans.Experience, "experience", "", "relevant experience (required)")
	fs.StringVar(&ans.Availability, "availability", "", "weekly availability (required)")
	portfolio := fs.String("portfolio", "", "portfolio URL")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() != 1 {
		return errors.New("apply needs exactly one sprint id")
	}
	if *portfolio != "" {
		ans.PortfolioLink = portfolio
	}
	sprintID := fs.Arg(0)

	if _, err := a.apps.ListMine(ctx); err != nil {
		return err
	}
	if a.apps.HasApplied(sprintID) {
		fmt.Fprintln(a.out, "You have already applied to this sprint")
		return nil
	}
	_, err := a.apps.Create(ctx, sprintID, ans)
	if errors.Is(err, apperr.ErrAlreadyApplied) {
		return nil
	}
	return err
}

func register(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return errors.New("register needs exactly one event id")
	}
	_, err := a.regs.Register(ctx, args[0])
	if errors.Is(err, apperr.ErrAlreadyRegistered) {
		return nil
	}
	return err
}

func myApplications(ctx context.Context, a *app, _ []string) error {
	list, err := a.apps.ListMine(ctx)
	if err != nil {
		return err
	}
	w := table(a.out, "SPRINT", "TYPE", "STATUS", "APPLIED")
	for _, ap := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", ap.Sprint.Title, ap.Sprint.SprintType, ap.Status, ap.CreatedAt.Format("2006-01-02"))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	for _, ap := range list {
		if ap.Status == model.ApplicationAccepted {
			fmt.Fprintf(a.out, "Congratulations! You've been accepted to %s.\n", ap.Sprint.Title)
		}
	}
	return nil
}

func myEvents(ctx context.Context, a *app, _ []string) error {
	list, err := a.regs.ListMine(ctx)
	if err != nil {
		return err
	}
	w := table(a.out, "EVENT", "MODE", "DATE", "STATUS")
	for _, r := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Event.Title, r.Event.EventType, r.Event.EventDate, r.Status)
	}
	return w.Flush()
}

func review(ctx context.Context, a *app, args []string) error {
	if len(args) < 2 {
		return errors.New("review needs an application id and a status")
	}
	status := model.ApplicationStatus(args[1])
	if !status.Valid() {
		return fmt.Errorf("unknown status %q: use pending, accepted or rejected", args[1])
	}
	var notes *string
	if len(args) > 2 {
		n := strings.Join(args[2:], " ")
		notes = &n
	}
	if _, err := a.apps.SetStatus(ctx, args[0], status, notes); err != nil {
		return err
	}
	w := table(a.out, "APPLICANT", "EMAIL", "SPRINT", "STATUS")
	for _, ap := range a.apps.All() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", str(ap.Profile.FullName), str(ap.Profile.Email), ap.Sprint.Title, ap.Status)
	}
	return w.Flush()
}

// registrations lists one event's registrations, or every registration
// for an admin when no event is given.
func registrations(ctx context.Context, a *app, args []string) error {
	if len(args) == 1 {
		list, err := a.regs.LoadEvent(ctx, args[0])
		if err != nil {
			return err
		}
		w := table(a.out, "ID", "USER", "STATUS", "REGISTERED")
		for _, r := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.ID, r.UserID, r.Status, r.CreatedAt.Format("2006-01-02"))
		}
		return w.Flush()
	}
	if !isAdmin(a.sess) {
		return deny(gate.Decision{Action: gate.Redirect, To: gate.NotFoundPath})
	}
	list, err := a.regs.ListAll(ctx)
	if err != nil {
		return err
	}
	w := table(a.out, "ID", "NAME", "EMAIL", "EVENT", "STATUS")
	for _, r := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.ID, str(r.Profile.FullName), str(r.Profile.Email), r.Event.Title, r.Status)
	}
	return w.Flush()
}

// access prints the gate decision for a page, computed locally from the
// session and by the server from the bearer token.
func access(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return errors.New("access needs exactly one path")
	}
	route, local := gate.Check(a.sess.Tracker().Snapshot(), args[0])
	remote, err := a.sess.Client().Access(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "route:  %s (%s)\n", route.Name, route.Requirement)
	fmt.Fprintf(a.out, "local:  %s\n", describe(local))
	fmt.Fprintf(a.out, "server: %s\n", describe(remote.Decision))
	return nil
}

func describe(d gate.Decision) string {
	if d.Action == gate.Redirect {
		return "redirect to " + d.To
	}
	return d.Action.String()
}
