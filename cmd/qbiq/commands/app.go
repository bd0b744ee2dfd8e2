// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"filippo.io/age"

	"github.com/ubiqweus/qbiq-client/cmd/qbiq/cli"
	"github.com/ubiqweus/qbiq-client/lib/apiclient"
	"github.com/ubiqweus/qbiq-client/lib/auth"
	"github.com/ubiqweus/qbiq-client/lib/config"
	"github.com/ubiqweus/qbiq-client/lib/devices"
	"github.com/ubiqweus/qbiq-client/lib/result"
	"github.com/ubiqweus/qbiq-client/lib/session"
)

// App is the state shared by every command: where output goes, and the
// clients built from the configuration on first use.
type App struct {
	Context context.Context
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer

	// ConfigPath overrides QBIQ_CONFIG.
	ConfigPath string

	// LogLevel, when set, overrides the configured level.
	LogLevel string

	// Password prompts for secrets. Defaults to cli.TerminalPassword.
	Password cli.PasswordReader

	config  *config.Config
	logger  *slog.Logger
	store   *session.Store
	auth    *auth.Client
	devices *devices.Client

	authAPI   *apiclient.Client
	deviceAPI *apiclient.Client
}

// NewApp returns an App writing to the process's stdout and stderr.
func NewApp(ctx context.Context) *App {
	return &App{
		Context:  ctx,
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Password: cli.TerminalPassword,
	}
}

// setup loads configuration and builds the clients. Later calls are
// no-ops.
func (app *App) setup() error {
	if app.config != nil {
		return nil
	}

	var cfg *config.Config
	var err error
	if app.ConfigPath != "" {
		cfg, err = config.LoadFile(app.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if app.LogLevel != "" {
		cfg.LogLevel = app.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}

	level, _ := config.ParseLogLevel(cfg.LogLevel)
	logger := cli.NewCommandLogger(app.Stderr, level)

	var identity *age.X25519Identity
	if cfg.Session.KeyFile != "" {
		if err := cfg.EnsureHome(); err != nil {
			return err
		}
		if identity, err = session.LoadOrCreateIdentity(cfg.Session.KeyFile); err != nil {
			return err
		}
	}
	store, err := session.NewStore(session.StoreConfig{Path: cfg.Session.File, Identity: identity})
	if err != nil {
		return err
	}

	authAPI, err := apiclient.NewClient(apiclient.Config{
		BaseURL: cfg.Servers.Auth,
		Timeout: cfg.RequestTimeout(),
		Logger:  logger.With("server", "auth"),
	})
	if err != nil {
		return err
	}
	deviceAPI, err := apiclient.NewClient(apiclient.Config{
		BaseURL: cfg.APIBaseURL(),
		Timeout: cfg.RequestTimeout(),
		Logger:  logger.With("server", "api"),
	})
	if err != nil {
		return err
	}

	authClient, err := auth.NewClient(auth.Config{
		API:          authAPI,
		PushDeviceID: cfg.Push.DeviceID,
		DeviceType:   cfg.Push.DeviceType,
		Logger:       logger,
	})
	if err != nil {
		return err
	}
	deviceClient, err := devices.NewClient(devices.Config{API: deviceAPI, Logger: logger})
	if err != nil {
		return err
	}

	app.config = cfg
	app.logger = logger
	app.store = store
	app.auth = authClient
	app.devices = deviceClient
	app.authAPI = authAPI
	app.deviceAPI = deviceAPI
	return nil
}

// Close waits for background work started by the commands.
func (app *App) Close() {
	if app.auth != nil {
		app.auth.Wait()
	}
}

// currentSession loads the saved session.
func (app *App) currentSession() (*session.Session, error) {
	if err := app.setup(); err != nil {
		return nil, err
	}
	current, err := app.store.Load()
	if errors.Is(err, session.ErrNoSession) {
		return nil, fmt.Errorf("not logged in (run 'qbiq login')")
	}
	return current, err
}

// forgetIfExpired clears the saved session when err says the server no
// longer accepts it.
func (app *App) forgetIfExpired(err error) error {
	if !apiclient.IsUnauthorized(err) {
		return err
	}
	if clearErr := app.store.Clear(); clearErr != nil {
		app.logger.Warn("clearing rejected session failed", "error", clearErr)
	}
	return fmt.Errorf("session rejected by the server; log in again: %w", err)
}

// await runs a callback-style client operation synchronously.
func await[T any](start func(func(result.Result[T])) error) (T, error) {
	return apiclient.Await(start).Resolve()
}
