package interfaces

import (
	"context"

	"github.com/ternarybob/vestio/internal/models"
)

// SwitcherService resolves partial avatar names against the favorites
// catalog and performs the selection call.
type SwitcherService interface {
	// ListFavorites fetches the favorites catalog in API order. A fetch
	// failure is returned as an error, never as an empty catalog.
	ListFavorites(ctx context.Context) (models.AvatarCatalog, error)

	// SwitchByName selects the first catalog entry whose name contains
	// target, retrying the operation on transport failures.
	SwitchByName(ctx context.Context, catalog models.AvatarCatalog, target string) (*models.SwitchResult, error)
}
