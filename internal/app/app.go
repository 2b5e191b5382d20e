// -----------------------------------------------------------------------
// Last Modified: Friday, 21st August 2026 2:05:12 pm
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package app

import (
	"fmt"
	"os"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vestio/internal/common"
	"github.com/ternarybob/vestio/internal/console"
	"github.com/ternarybob/vestio/internal/interfaces"
	"github.com/ternarybob/vestio/internal/services/auth"
	"github.com/ternarybob/vestio/internal/services/switcher"
	"github.com/ternarybob/vestio/internal/storage/badger"
	"github.com/ternarybob/vestio/internal/storage/cookies"
	"github.com/ternarybob/vestio/internal/vrchat"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Storage
	DB      *badger.BadgerDB
	History interfaces.HistoryStorage

	// API access
	Client      *vrchat.Client
	CookieStore interfaces.CookieStore
	Prompter    interfaces.Prompter

	// Business services
	AuthService     interfaces.AuthService
	SwitcherService interfaces.SwitcherService
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := app.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return app, nil
}

func (a *App) initDatabase() error {
	db, err := badger.NewBadgerDB(a.Logger, &a.Config.Storage.Badger)
	if err != nil {
		return err
	}

	a.DB = db
	a.History = badger.NewHistoryStorage(db, a.Logger)
	a.Logger.Debug().
		Str("storage", "badger").
		Str("path", a.Config.Storage.Badger.Path).
		Msg("Storage layer initialized")

	return nil
}

// initServices initializes all business services in dependency order.
func (a *App) initServices() error {
	client, err := vrchat.NewClient(
		vrchat.WithBaseURL(a.Config.API.BaseURL),
		vrchat.WithUserAgent(a.Config.API.UserAgent),
		vrchat.WithTimeout(a.Config.API.RequestTimeout),
		vrchat.WithRateLimit(a.Config.API.RateLimit),
		vrchat.WithLogger(a.Logger),
	)
	if err != nil {
		return fmt.Errorf("failed to create VRChat client: %w", err)
	}
	a.Client = client

	a.CookieStore = cookies.NewStore(a.Config.Auth.CookieFile, a.Logger)
	a.Prompter = console.NewPrompter(os.Stdin, os.Stdout)

	a.AuthService, err = auth.NewService(client, a.CookieStore, a.Prompter, a.Config.Auth.MaxTwoFactorAttempts, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create auth service: %w", err)
	}

	retry := &switcher.RetryPolicy{
		MaxAttempts: a.Config.Switcher.MaxAttempts,
		Wait:        a.Config.Switcher.RetryWait,
	}
	a.SwitcherService = switcher.NewService(client, a.History, retry, a.Logger)

	return nil
}

// Close releases application resources
func (a *App) Close() error {
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
		a.Logger.Info().Msg("Storage closed")
	}
	return nil
}
