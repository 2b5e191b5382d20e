// Package auth manages the VRChat session lifecycle. It restores a
// persisted session from the cookie store, falls back to basic login,
// and walks the two-factor challenge when the account requires one.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vestio/internal/interfaces"
	"github.com/ternarybob/vestio/internal/models"
	"github.com/ternarybob/vestio/internal/vrchat"
)

// Service manages authentication against the VRChat API via cookie capture
type Service struct {
	client               *vrchat.Client
	cookieStore          interfaces.CookieStore
	prompter             interfaces.Prompter
	maxTwoFactorAttempts int
	state                models.SessionState
	logger               arbor.ILogger
}

// NewService creates a new authentication service. Cookies persisted by
// a previous run are applied to the client immediately so the first
// request can reuse the stored session.
func NewService(client *vrchat.Client, cookieStore interfaces.CookieStore, prompter interfaces.Prompter, maxTwoFactorAttempts int, logger arbor.ILogger) (*Service, error) {
	service := &Service{
		client:               client,
		cookieStore:          cookieStore,
		prompter:             prompter,
		maxTwoFactorAttempts: maxTwoFactorAttempts,
		state:                models.SessionUnauthenticated,
		logger:               logger,
	}

	if err := service.loadStoredCookies(); err != nil {
		logger.Debug().Str("error", err.Error()).Msg("No stored authentication found")
	}

	return service, nil
}

func (s *Service) loadStoredCookies() error {
	set, err := s.cookieStore.Load()
	if err != nil {
		return err
	}
	if len(set) == 0 {
		return fmt.Errorf("cookie store %s is empty", s.cookieStore.Path())
	}

	if err := s.client.SetCookies(set); err != nil {
		return fmt.Errorf("failed to apply stored cookies: %w", err)
	}

	s.state = models.SessionCookiesPresent
	s.logger.Info().Int("cookies", len(set)).Msg("Restored session cookies from store")
	return nil
}

// Authenticate establishes an authenticated session, performing basic
// login and the two-factor exchange as needed. A code already present in
// the credentials is offered before prompting for one.
func (s *Service) Authenticate(ctx context.Context, creds models.Credentials) error {
	if err := s.BasicLogin(ctx, creds); err != nil {
		return err
	}
	if s.state != models.SessionTwoFactorPending {
		return nil
	}
	return s.CompleteTwoFactor(ctx, creds.TwoFactorCode)
}

// BasicLogin validates any restored session first, then logs in with
// basic credentials. On success the session is either authenticated or
// waiting on a two-factor challenge.
func (s *Service) BasicLogin(ctx context.Context, creds models.Credentials) error {
	if s.state == models.SessionCookiesPresent {
		user, err := s.client.CurrentUser(ctx)
		if err == nil && !user.TwoFactorPending() {
			s.state = models.SessionAuthenticated
			s.persistCookies()
			s.logger.Info().Str("user", user.DisplayName).Msg("Stored session is still valid")
			return nil
		}
		var apiErr *vrchat.APIError
		if err != nil && !errors.As(err, &apiErr) {
			return err
		}
		s.logger.Debug().Msg("Stored session rejected, falling back to login")
		s.state = models.SessionUnauthenticated
	}

	login, password, err := s.resolveCredentials(creds)
	if err != nil {
		return err
	}

	user, err := s.client.Login(ctx, login, password)
	if err != nil {
		var apiErr *vrchat.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == 403 {
			s.state = models.SessionFailed
			return fmt.Errorf("%w: login rejected for %s", ErrInvalidCredentials, login)
		}
		return err
	}

	s.persistCookies()
	s.logAuthCookieExpiry()

	if user.TwoFactorPending() {
		s.state = models.SessionTwoFactorPending
		s.logger.Info().Strs("methods", user.RequiresTwoFactorAuth).Msg("Two-factor verification required")
		return nil
	}

	s.state = models.SessionAuthenticated
	s.logger.Info().Str("user", user.DisplayName).Msg("Logged in")
	return nil
}

func (s *Service) resolveCredentials(creds models.Credentials) (string, string, error) {
	login := creds.Login
	password := creds.Password

	if login == "" && s.prompter != nil {
		value, err := s.prompter.Prompt("Login")
		if err != nil {
			return "", "", fmt.Errorf("failed to read login: %w", err)
		}
		login = value
	}
	if password == "" && s.prompter != nil {
		value, err := s.prompter.Prompt("Password")
		if err != nil {
			return "", "", fmt.Errorf("failed to read password: %w", err)
		}
		password = value
	}

	if login == "" || password == "" {
		return "", "", ErrCredentialsMissing
	}
	return login, password, nil
}

// CompleteTwoFactor resolves a pending two-factor challenge. The method
// is chosen from those the account advertises, preferring the
// authenticator app over emailed codes. A rejected code is discarded and
// a fresh one is requested, up to the configured attempt limit.
func (s *Service) CompleteTwoFactor(ctx context.Context, code string) error {
	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		return err
	}
	if !user.TwoFactorPending() {
		s.state = models.SessionAuthenticated
		return nil
	}

	method, ok := models.PreferredTwoFactorMethod(user.RequiresTwoFactorAuth)
	if !ok {
		s.state = models.SessionFailed
		return fmt.Errorf("%w: account requires %v", ErrUnsupportedTwoFactorMethod, user.RequiresTwoFactorAuth)
	}

	for attempt := 1; attempt <= s.maxTwoFactorAttempts; attempt++ {
		if code == "" {
			if s.prompter == nil {
				break
			}
			value, err := s.prompter.Prompt(fmt.Sprintf("Enter %s code", method))
			if err != nil {
				return fmt.Errorf("failed to read two-factor code: %w", err)
			}
			code = value
			if code == "" {
				continue
			}
		}

		err := s.client.VerifyTwoFactor(ctx, method, code)
		if err == nil {
			s.state = models.SessionAuthenticated
			s.persistCookies()
			s.logger.Info().Str("method", string(method)).Msg("Two-factor verification accepted")
			return nil
		}

		var apiErr *vrchat.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == 400 {
			s.logger.Warn().Int("attempt", attempt).Str("method", string(method)).Msg("Two-factor code rejected")
			code = ""
			continue
		}
		return err
	}

	s.state = models.SessionFailed
	return fmt.Errorf("%w: two-factor verification failed after %d attempts", ErrInvalidCredentials, s.maxTwoFactorAttempts)
}

// Invalidate discards the in-memory session state so the next
// Authenticate call performs a fresh login.
func (s *Service) Invalidate() {
	s.state = models.SessionUnauthenticated
}

// IsAuthenticated checks if an authenticated session exists
func (s *Service) IsAuthenticated() bool {
	return s.state == models.SessionAuthenticated
}

// State returns the current session state
func (s *Service) State() models.SessionState {
	return s.state
}

func (s *Service) persistCookies() {
	set := s.client.Cookies()
	if len(set) == 0 {
		return
	}
	if err := s.cookieStore.Save(set); err != nil {
		s.logger.Warn().Err(err).Str("path", s.cookieStore.Path()).Msg("Failed to persist session cookies")
	}
}

func (s *Service) logAuthCookieExpiry() {
	cookie, ok := s.client.AuthCookie()
	if !ok || cookie.Expires == 0 {
		return
	}
	s.logger.Info().Str("expires", time.Unix(cookie.Expires, 0).Format(time.RFC1123)).Msg("Auth cookie expiry")
}
