// -----------------------------------------------------------------------
// Last Modified: Tuesday, 11th August 2026 9:42:10 am
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package models

import "strings"

// Avatar is one selectable avatar from the favorites list.
type Avatar struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AvatarCatalog is an immutable snapshot of the favorites list, in the
// order the API returned it. Name resolution walks that order and the
// first match wins; callers can rely on the ordering as a stable contract.
type AvatarCatalog []Avatar

// FirstMatch returns the first avatar whose name contains target,
// case-insensitively. A second matching entry later in the catalog is
// never considered.
func (c AvatarCatalog) FirstMatch(target string) (Avatar, bool) {
	if target == "" {
		return Avatar{}, false
	}

	needle := strings.ToLower(target)
	for _, avatar := range c {
		if strings.Contains(strings.ToLower(avatar.Name), needle) {
			return avatar, true
		}
	}
	return Avatar{}, false
}

// CatalogSnapshot is a favorites catalog captured at a point in time,
// persisted so the switcher stays usable when a live fetch fails.
type CatalogSnapshot struct {
	ID        string        `json:"id"`
	Avatars   AvatarCatalog `json:"avatars"`
	FetchedAt int64         `json:"fetched_at"`
}
