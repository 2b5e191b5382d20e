// Package switcher selects favorite avatars by partial name match. One
// switch walks the catalog in order, selects the first avatar whose name
// contains the target, and retries transport failures with a fixed wait.
package switcher

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vestio/internal/common"
	"github.com/ternarybob/vestio/internal/interfaces"
	"github.com/ternarybob/vestio/internal/models"
	"github.com/ternarybob/vestio/internal/vrchat"
)

// Service implements the SwitcherService interface
type Service struct {
	client  *vrchat.Client
	history interfaces.HistoryStorage
	retry   *RetryPolicy
	logger  arbor.ILogger
}

// NewService creates a new switcher service
func NewService(client *vrchat.Client, history interfaces.HistoryStorage, retry *RetryPolicy, logger arbor.ILogger) *Service {
	if retry == nil {
		retry = NewRetryPolicy()
	}
	if logger == nil {
		logger = common.GetLogger()
	}
	return &Service{
		client:  client,
		history: history,
		retry:   retry,
		logger:  logger,
	}
}

// ListFavorites fetches the favorite avatar catalog in API order.
func (s *Service) ListFavorites(ctx context.Context) (models.AvatarCatalog, error) {
	catalog, err := s.client.FavoriteAvatars(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch favorite avatars: %w", err)
	}

	s.logger.Info().Int("count", len(catalog)).Msg("Fetched favorite avatars")
	return catalog, nil
}

// SwitchByName switches to the first catalog avatar whose name contains
// the target, ignoring case. Transport failures rerun the whole match
// and select cycle; answers from the API are final. Every completed
// operation is recorded in the switch history.
func (s *Service) SwitchByName(ctx context.Context, catalog models.AvatarCatalog, target string) (*models.SwitchResult, error) {
	switchID := common.NewSwitchID()
	logger := s.logger.WithCorrelationId(switchID)

	result := &models.SwitchResult{Outcome: models.SwitchOutcomeTransient}
	attempts := 0

	err := s.retry.ExecuteWithRetry(ctx, logger, func() error {
		attempts++
		return s.switchOnce(ctx, logger, catalog, target, result)
	})
	result.Attempts = attempts

	s.recordSwitch(ctx, switchID, target, result, err)

	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) switchOnce(ctx context.Context, logger arbor.ILogger, catalog models.AvatarCatalog, target string, result *models.SwitchResult) error {
	if strings.TrimSpace(target) == "" {
		result.Outcome = models.SwitchOutcomeNotFound
		return fmt.Errorf("%w: empty target avatar name", ErrAvatarNotFound)
	}

	avatar, ok := catalog.FirstMatch(target)
	if !ok {
		result.Outcome = models.SwitchOutcomeNotFound
		return fmt.Errorf("%w: no favorite avatar name contains %q", ErrAvatarNotFound, target)
	}
	result.Avatar = avatar

	err := s.client.SelectAvatar(ctx, avatar.ID)
	if err == nil {
		result.Outcome = models.SwitchOutcomeSuccess
		logger.Info().Str("avatar", avatar.Name).Str("avatar_id", avatar.ID).Msg("Avatar switched")
		return nil
	}

	var apiErr *vrchat.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 404, 403:
			// The first match is final even when it cannot be selected.
			result.Outcome = models.SwitchOutcomeNotFound
			logger.Error().Str("avatar", avatar.Name).Str("avatar_id", avatar.ID).Int("status", apiErr.StatusCode).Msg("Matched avatar could not be selected")
			return nil
		case 400, 401:
			result.Outcome = models.SwitchOutcomeAuthRequired
			return fmt.Errorf("%w: selecting %s", ErrAuthenticationRequired, avatar.ID)
		default:
			result.Outcome = models.SwitchOutcomeFatal
			return err
		}
	}

	result.Outcome = models.SwitchOutcomeTransient
	return err
}

func (s *Service) recordSwitch(ctx context.Context, switchID, target string, result *models.SwitchResult, err error) {
	if s.history == nil {
		return
	}

	record := &models.SwitchRecord{
		ID:         switchID,
		Query:      target,
		AvatarID:   result.Avatar.ID,
		AvatarName: result.Avatar.Name,
		Outcome:    result.Outcome,
		Attempts:   result.Attempts,
	}
	if err != nil {
		record.Detail = err.Error()
	}

	if storeErr := s.history.RecordSwitch(ctx, record); storeErr != nil {
		s.logger.Warn().Err(storeErr).Msg("Failed to record switch history")
	}
}
