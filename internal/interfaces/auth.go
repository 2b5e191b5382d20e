// -----------------------------------------------------------------------
// Last Modified: Tuesday, 11th August 2026 9:42:10 am
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package interfaces

import (
	"context"

	"github.com/ternarybob/vestio/internal/models"
)

// AuthService manages the authenticated session lifecycle against the
// avatar platform: cached-cookie reuse, basic login, and the optional
// two-factor challenge.
type AuthService interface {
	// Authenticate runs the full flow: cookie reuse or basic login, then
	// two-factor verification when the server demands it. Cookies are
	// persisted on success.
	Authenticate(ctx context.Context, creds models.Credentials) error

	// BasicLogin reuses a persisted session when one validates, otherwise
	// performs one credential login.
	BasicLogin(ctx context.Context, creds models.Credentials) error

	// CompleteTwoFactor resolves an outstanding two-factor challenge,
	// prompting for fresh codes while the server rejects them.
	CompleteTwoFactor(ctx context.Context, code string) error

	// Invalidate drops the session back to unauthenticated after the
	// server refused a request for want of valid cookies.
	Invalidate()

	IsAuthenticated() bool
	State() models.SessionState
}
