// Package cli is the interactive terminal counterpart of the mobile app's
// screens. Each command collects and validates its form locally, invokes a
// service operation, and renders the outcome; errors are shown to the user
// and never swallowed.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hunterxpress/courier-cli/internal/core/domain"
	"github.com/hunterxpress/courier-cli/internal/core/ports"
)

// App wires the services to an interactive prompt loop.
type App struct {
	sessions   ports.SessionService
	deliveries ports.DeliveryService
	store      ports.CredentialStore
	reader     *bufio.Reader
	out        io.Writer
	log        zerolog.Logger
}

func NewApp(sessions ports.SessionService, deliveries ports.DeliveryService, store ports.CredentialStore, log zerolog.Logger) *App {
	return &App{
		sessions:   sessions,
		deliveries: deliveries,
		store:      store,
		reader:     bufio.NewReader(os.Stdin),
		out:        os.Stdout,
		log:        log,
	}
}

// Run restores the session and enters the command loop. It returns when the
// user quits, stdin closes, or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	sess := a.sessions.Restore(ctx)
	if sess.Authenticated() {
		fmt.Fprintf(a.out, "Welcome back, %s (%s)\n", sess.User.Name, domain.DisplayLabel(sess.UserType))
	} else {
		fmt.Fprintln(a.out, "Welcome to Hunter Xpress. Type 'help' for commands.")
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		line, err := promptText(a.reader, "courier", a.out)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		cmd := strings.ToLower(strings.TrimSpace(line))
		switch cmd {
		case "":
			continue
		case "help":
			a.printHelp()
		case "login":
			a.runLogin(ctx)
		case "signup":
			a.runSignUp(ctx)
		case "logout":
			a.runLogout(ctx)
		case "whoami":
			a.runWhoami()
		case "otp":
			a.runSendOTP(ctx)
		case "send":
			a.runSend(ctx)
		case "history":
			a.runHistory(ctx)
		case "locations":
			a.runLocations(ctx)
		case "theme":
			a.runTheme(ctx)
		case "quit", "exit":
			return nil
		default:
			fmt.Fprintf(a.out, "unknown command %q, type 'help'\n", cmd)
		}
	}
}

func (a *App) printHelp() {
	fmt.Fprint(a.out, `Commands:
  login      log in with email or phone
  signup     create a customer or courier account
  logout     log out and clear stored credentials
  whoami     show the current session
  otp        send a one-time password to a phone number
  send       place a delivery order
  history    list past deliveries
  locations  list active delivery locations
  theme      switch between light and dark theme
  quit       exit
`)
}

// fail renders an operation failure. Transport and storage problems get a
// generic message; the underlying cause goes to the log.
func (a *App) fail(action string, err error) {
	a.log.Debug().Err(err).Str("action", action).Msg("command failed")
	if errors.Is(err, domain.ErrNotAuthenticated) {
		fmt.Fprintln(a.out, "You need to log in first.")
		return
	}
	fmt.Fprintf(a.out, "%s failed. Please try again.\n", action)
}
