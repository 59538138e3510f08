// Command dashboard is a terminal front-end for the platform API.
//
//	dashboard -api http://localhost:8080 -email ada@example.com -password secret1 sprints
//
// Commands: sprints, events, apply, register, my-applications, my-events,
// review, registrations, access.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/codewithtechno/techno-hub/internal/client"
	"github.com/codewithtechno/techno-hub/internal/gate"
	"github.com/codewithtechno/techno-hub/internal/session"
	"github.com/codewithtechno/techno-hub/internal/store"
)

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

// app is what every command gets: the signed-in session and the stores
// bound to it.
type app struct {
	out     io.Writer
	sess    *client.Session
	sprints *store.SprintStore
	events  *store.EventStore
	apps    *store.ApplicationStore
	regs    *store.RegistrationStore
}

type command struct {
	summary string
	// requirement is checked against the session before the command runs.
	requirement gate.Requirement
	run         func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"sprints":         {"list sprints, open ones first", gate.Public, listSprints},
	"events":          {"list events, open ones first", gate.Public, listEvents},
	"apply":           {"apply to a sprint: apply [flags] <sprint-id>", gate.Member, apply},
	"register":        {"register for an event: register <event-id>", gate.Member, register},
	"my-applications": {"list your sprint applications", gate.Member, myApplications},
	"my-events":       {"list your event registrations", gate.Member, myEvents},
	"review":          {"set an application status: review <application-id> <status> [notes]", gate.Admin, review},
	"registrations":   {"list registrations: registrations [event-id]", gate.Member, registrations},
	"access":          {"show the gate decision for a page: access <path>", gate.Public, access},
}

func run(ctx context.Context, argv []string, out io.Writer) error {
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	fs.SetOutput(out)
	apiURL := fs.String("api", envOr("TECHNO_API", "http://localhost:8080"), "API base URL")
	email := fs.String("email", os.Getenv("TECHNO_EMAIL"), "account email; empty browses as a guest")
	password := fs.String("password", os.Getenv("TECHNO_PASSWORD"), "account password")
	fs.Usage = func() { usage(fs) }
	if err := fs.Parse(argv); err != nil {
		return errUsage
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errUsage
	}
	name, args := fs.Arg(0), fs.Args()[1:]
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(out, "unknown command %q\n", name)
		fs.Usage()
		return errUsage
	}

	notify := func(n store.Notice) { fmt.Fprintf(out, "[%s] %s: %s\n", n.Kind, n.Title, n.Message) }
	api := client.New(*apiURL, nil)
	a := &app{
		out:     out,
		sess:    client.NewSession(api, nil),
		sprints: store.NewSprintStore(api, notify),
		events:  store.NewEventStore(api, notify),
		apps:    store.NewApplicationStore(api, notify),
		regs:    store.NewRegistrationStore(api, notify),
	}
	if *email != "" {
		if err := a.sess.SignIn(ctx, *email, *password); err != nil {
			return fmt.Errorf("sign in: %w", err)
		}
	} else if err := a.sess.Restore(ctx, "", ""); err != nil {
		return err
	}
	defer func() { _ = a.sess.SignOut(context.WithoutCancel(ctx)) }()

	snap := a.sess.Tracker().Snapshot()
	if d := gate.Decide(snap, cmd.requirement); d.Action != gate.Render {
		return deny(d)
	}
	return cmd.run(ctx, a, args)
}

// deny explains a gate decision that stops a command.
func deny(d gate.Decision) error {
	if d.To == gate.SignInPath {
		return errors.New("sign in required: pass -email and -password")
	}
	return errors.New("admin access required")
}

func usage(fs *flag.FlagSet) {
	w := fs.Output()
	fmt.Fprintln(w, "usage: dashboard [flags] <command> [args]")
	fmt.Fprintln(w, "\ncommands:")
	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(w, "  %-16s %s\n", n, commands[n].summary)
	}
	fmt.Fprintln(w, "\nflags:")
	fs.PrintDefaults()
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// isAdmin reports whether the session belongs to an admin.
func isAdmin(s *client.Session) bool {
	snap := s.Tracker().Snapshot()
	return snap.State == session.Authenticated && snap.IsAdmin()
}
