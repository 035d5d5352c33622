// Package cli implements the interactive terminal front-end of the
// Phototrail client: session bootstrap, the command loop, and the
// user-facing rendering of the cached feed.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/phototrail/cli/internal/client/api"
	"github.com/phototrail/cli/internal/client/config"
	"github.com/phototrail/cli/internal/client/feed"
	"github.com/phototrail/cli/internal/client/repositories/sessions"
	"github.com/phototrail/cli/internal/client/services"
	"github.com/phototrail/cli/internal/client/session"
	"github.com/phototrail/cli/internal/client/storage"
	"github.com/phototrail/cli/internal/logging"
)

type App struct {
	config   *config.Config
	auth     services.AuthService
	feed     *services.FeedService
	sessions *session.Manager
	logger   logging.Logger
	reader   *bufio.Reader
	out      io.Writer
}

func NewApp(cfg *config.Config, logger logging.Logger) (*App, error) {
	ctx := context.Background()

	db, err := storage.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	manager := session.NewManager(sessions.NewSQLiteRepository(db))
	transport := api.NewTransport(cfg.BaseURL, manager, logger)
	client := api.NewHTTPClient(transport)

	feedService := services.NewFeedService(client, feed.NewCache(), manager, logger, cfg.PageSize)
	authService := services.NewAuthService(client, manager, cfg.AuthDomain, cfg.AuthClientID, cfg.RedirectURL)

	return &App{
		config:   cfg,
		auth:     authService,
		feed:     feedService,
		sessions: manager,
		logger:   logger,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	if _, err := a.auth.Restore(ctx); err != nil {
		if !errors.Is(err, session.ErrNoSession) {
			return err
		}
		if err := a.login(ctx); err != nil {
			return err
		}
	}

	go a.feed.StartBackgroundRefresh(ctx, a.config.PollInterval)

	if err := a.feed.Refresh(ctx); err != nil {
		a.logger.Warn(ctx, "initial feed fetch failed", "err", err)
	}

	a.root(ctx)
	return nil
}

func (a *App) isLoggedIn() bool {
	_, ok := a.sessions.Current()
	return ok
}

// login walks the user through the browser-based flow: visit the authorize
// URL, then paste the fragment part of the redirect URL back here. The
// fragment carries the token pair, so it is read without echo.
func (a *App) login(ctx context.Context) error {
	loginURL, err := a.auth.LoginURL()
	if err != nil {
		return fmt.Errorf("building login URL: %w", err)
	}

	fmt.Fprintln(a.out, "Open the following URL in your browser and authorize the client:")
	fmt.Fprintln(a.out, "  "+loginURL)

	raw, err := GetSecret("Paste the redirect fragment (after the '#')", a.out)
	if err != nil {
		return fmt.Errorf("reading fragment: %w", err)
	}

	fragment, err := url.ParseQuery(raw)
	if err != nil {
		return fmt.Errorf("parsing fragment: %w", err)
	}

	s, err := a.auth.CompleteLogin(ctx, fragment)
	if err != nil {
		return fmt.Errorf("completing login: %w", err)
	}

	fmt.Fprintf(a.out, "Logged in as %s\n", s.UserName)
	return nil
}

func (a *App) logout(ctx context.Context) {
	if err := a.auth.Logout(ctx); err != nil {
		a.logger.Error(ctx, "logging out", "err", err)
		return
	}
	fmt.Fprintln(a.out, "Logged out.")
}
