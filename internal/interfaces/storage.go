// -----------------------------------------------------------------------
// Last Modified: Thursday, 13th August 2026 2:17:48 pm
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package interfaces

import (
	"context"

	"github.com/ternarybob/vestio/internal/models"
)

// CookieStore persists session cookies between runs. The backing format
// must round-trip cookie values and expirations without loss.
type CookieStore interface {
	// Load reads the persisted cookie set. A missing store yields an
	// empty set, not an error.
	Load() (models.CookieSet, error)

	// Save writes the cookie set, replacing any previous contents.
	Save(set models.CookieSet) error

	// Path returns the store location for logging.
	Path() string
}

// HistoryStorage persists switch attempts and favorites snapshots.
type HistoryStorage interface {
	// Switch history operations
	RecordSwitch(ctx context.Context, record *models.SwitchRecord) error
	RecentSwitches(ctx context.Context, limit int) ([]*models.SwitchRecord, error)

	// Catalog snapshot operations
	SaveCatalog(ctx context.Context, snapshot *models.CatalogSnapshot) error
	LoadCatalog(ctx context.Context) (*models.CatalogSnapshot, error)
}
