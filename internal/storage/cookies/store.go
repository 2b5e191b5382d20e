// Package cookies persists session cookies as a flat JSON file so an
// authenticated session survives process restarts.
package cookies

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vestio/internal/interfaces"
	"github.com/ternarybob/vestio/internal/models"
)

// Store is a file-backed cookie store. The on-disk format is one JSON
// object mapping cookie name to its attributes, and a read-write-read
// cycle preserves values and expirations exactly.
type Store struct {
	path   string
	logger arbor.ILogger
}

// NewStore creates a cookie store at the given file path.
func NewStore(path string, logger arbor.ILogger) interfaces.CookieStore {
	return &Store{
		path:   path,
		logger: logger,
	}
}

// Load reads the persisted cookie set. A store that does not exist yet
// yields an empty set.
func (s *Store) Load() (models.CookieSet, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return models.CookieSet{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cookie file: %w", err)
	}

	var set models.CookieSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse cookie file %s: %w", s.path, err)
	}

	s.logger.Debug().Str("path", s.path).Int("cookies", len(set)).Msg("Cookie store loaded")
	return set, nil
}

// Save writes the cookie set, replacing any previous contents. The file
// holds live session credentials, so it is not group or world readable.
func (s *Store) Save(set models.CookieSet) error {
	data, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("failed to marshal cookies: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create cookie directory: %w", err)
		}
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write cookie file: %w", err)
	}

	s.logger.Debug().Str("path", s.path).Int("cookies", len(set)).Msg("Cookie store saved")
	return nil
}

// Path returns the store location.
func (s *Store) Path() string {
	return s.path
}
