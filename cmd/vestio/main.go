// -----------------------------------------------------------------------
// Last Modified: Monday, 24th August 2026 11:20:45 am
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vestio/internal/app"
	"github.com/ternarybob/vestio/internal/common"
	"github.com/ternarybob/vestio/internal/models"
	"github.com/ternarybob/vestio/internal/services/switcher"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	// Command-line flags
	configFiles    configPaths // Multiple -config flags supported
	loginFlag      = flag.String("login", "", "VRChat login name (overrides config)")
	cookieFileFlag = flag.String("cookie-file", "", "Session cookie file path (overrides config)")
	showVersion    = flag.Bool("version", false, "Print version information")
	showVersionV   = flag.Bool("v", false, "Print version information (shorthand)")

	// Global state
	config *common.Config
	logger arbor.ILogger
)

func init() {
	// Register custom flag for multiple config files
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	// Parse command-line flags
	flag.Parse()

	// Handle version flag
	if *showVersion || *showVersionV {
		fmt.Printf("Vestio version %s\n", common.GetVersion())
		os.Exit(0)
	}

	// Startup sequence (REQUIRED ORDER):
	// 1. Load config (defaults -> file1 -> file2 -> ... -> env)
	// 2. Apply CLI overrides (highest priority)
	// 3. Initialize logger
	// 4. Print banner
	var err error

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("vestio.toml"); err == nil {
			configFiles = append(configFiles, "vestio.toml")
		}
	}

	// 1. Load configuration (default -> file1 -> file2 -> ... -> env -> CLI)
	// Later config files override earlier ones
	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		// Use temporary logger for startup errors
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration files")
		os.Exit(1)
	}

	// 2. Apply command-line flag overrides (highest priority)
	common.ApplyFlagOverrides(config, *loginFlag, *cookieFileFlag)

	if err := config.Validate(); err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Err(err).Msg("Invalid configuration")
		os.Exit(1)
	}

	// 3. Initialize logger with final configuration
	logger = common.InitLogger(config)

	// 4. Print banner
	common.PrintBanner(common.GetVersion())

	common.InstallCrashHandler("")
	defer common.RecoverWithCrashFile()

	logger.Info().
		Strs("config_files", configFiles).
		Str("api", config.API.BaseURL).
		Str("cookie_file", config.Auth.CookieFile).
		Str("log_level", config.Logging.Level).
		Msg("Application configuration loaded")

	// Initialize application
	application, err := app.New(config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer application.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Run the interactive session in a goroutine so shutdown signals
	// interrupt it cleanly
	errChan := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				common.WriteCrashFile(r, common.GetStackTrace())
				logger.Fatal().Str("panic", fmt.Sprintf("%v", r)).Msg("Session goroutine panicked")
			}
		}()

		errChan <- run(ctx, application)
	}()

	// Wait for interrupt signal or session end
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	exitCode := 0
	select {
	case <-sigChan:
		logger.Info().Msg("Interrupt signal received")
	case err := <-errChan:
		if err != nil {
			logger.Error().Err(err).Msg("Session ended with error")
			exitCode = 1
		}
	}

	logger.Info().Msg("Shutting down")
	cancel()

	if exitCode != 0 {
		application.Close()
		os.Exit(exitCode)
	}
}

// run authenticates, loads the favorites catalog, and hands control to
// the interactive loop.
func run(ctx context.Context, application *app.App) error {
	creds := models.Credentials{
		Login:         application.Config.Auth.Login,
		Password:      application.Config.Auth.Password,
		TwoFactorCode: application.Config.Auth.TwoFactorCode,
	}

	if err := application.AuthService.Authenticate(ctx, creds); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	catalog, err := loadCatalog(ctx, application)
	if err != nil {
		return err
	}

	return interactiveLoop(ctx, application, creds, catalog)
}

// loadCatalog fetches the favorites catalog and persists it as a
// snapshot. When the fetch fails the last stored snapshot is used so the
// switcher stays usable offline.
func loadCatalog(ctx context.Context, application *app.App) (models.AvatarCatalog, error) {
	catalog, err := application.SwitcherService.ListFavorites(ctx)
	if err == nil {
		snapshot := &models.CatalogSnapshot{Avatars: catalog}
		if saveErr := application.History.SaveCatalog(ctx, snapshot); saveErr != nil {
			application.Logger.Warn().Err(saveErr).Msg("Failed to persist catalog snapshot")
		}
		return catalog, nil
	}

	application.Logger.Warn().Err(err).Msg("Failed to fetch favorite avatars, trying stored snapshot")

	snapshot, loadErr := application.History.LoadCatalog(ctx)
	if loadErr != nil || snapshot == nil {
		return nil, err
	}

	application.Logger.Info().
		Int("avatars", len(snapshot.Avatars)).
		Str("fetched_at", time.Unix(snapshot.FetchedAt, 0).Format(time.RFC1123)).
		Msg("Using stored catalog snapshot")
	return snapshot.Avatars, nil
}

func interactiveLoop(ctx context.Context, application *app.App, creds models.Credentials, catalog models.AvatarCatalog) error {
	for {
		input, err := application.Prompter.Prompt("Waiting for avatar name")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		switch input {
		case "":
			continue
		case "exit", "quit":
			return nil
		case "history":
			printHistory(ctx, application)
			continue
		}

		result, err := application.SwitcherService.SwitchByName(ctx, catalog, input)
		switch {
		case err == nil:
			application.Logger.Debug().Str("outcome", string(result.Outcome)).Int("attempts", result.Attempts).Msg("Switch completed")
		case errors.Is(err, switcher.ErrAvatarNotFound):
			application.Logger.Warn().Str("target", input).Msg("No favorite avatar matched")
		case errors.Is(err, switcher.ErrAuthenticationRequired):
			catalog, err = reauthenticate(ctx, application, creds, input)
			if err != nil {
				return err
			}
		default:
			return err
		}
	}
}

// reauthenticate re-establishes the session after the API rejected a
// selection, refreshes the catalog, and replays the failed switch once.
func reauthenticate(ctx context.Context, application *app.App, creds models.Credentials, target string) (models.AvatarCatalog, error) {
	application.Logger.Warn().Msg("Session rejected, re-authenticating")
	application.AuthService.Invalidate()

	// Any stored two-factor code was already consumed by the first login
	creds.TwoFactorCode = ""
	if err := application.AuthService.Authenticate(ctx, creds); err != nil {
		return nil, fmt.Errorf("re-authentication failed: %w", err)
	}

	catalog, err := loadCatalog(ctx, application)
	if err != nil {
		return nil, err
	}

	if _, err := application.SwitcherService.SwitchByName(ctx, catalog, target); err != nil {
		if errors.Is(err, switcher.ErrAvatarNotFound) {
			application.Logger.Warn().Str("target", target).Msg("No favorite avatar matched")
			return catalog, nil
		}
		return nil, err
	}
	return catalog, nil
}

func printHistory(ctx context.Context, application *app.App) {
	records, err := application.History.RecentSwitches(ctx, application.Config.Storage.Badger.HistoryLimit)
	if err != nil {
		application.Logger.Warn().Err(err).Msg("Failed to load switch history")
		return
	}
	if len(records) == 0 {
		fmt.Println("No switches recorded yet")
		return
	}

	for _, record := range records {
		line := fmt.Sprintf("%s  %-17s  %q", time.Unix(record.CreatedAt, 0).Format("2006-01-02 15:04:05"), record.Outcome, record.Query)
		if record.AvatarName != "" {
			line += fmt.Sprintf(" -> %s", record.AvatarName)
		}
		fmt.Println(line)
	}
}
