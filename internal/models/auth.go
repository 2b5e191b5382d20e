package models

import (
	"net/http"
	"time"
)

// Credentials holds the secrets for one authentication attempt.
// Never persisted; discarded once the session is established.
type Credentials struct {
	Login         string
	Password      string
	TwoFactorCode string
}

// Cookie holds the persisted attributes of one session cookie. The cookie
// file is a flat JSON object keyed by cookie name, so the name lives on the
// map key rather than in the struct.
type Cookie struct {
	Value   string `json:"value"`
	Expires int64  `json:"expires,omitempty"` // Unix seconds; zero means session cookie
}

// CookieSet maps cookie name to its persisted attributes.
type CookieSet map[string]Cookie

// HTTPCookies converts the set to standard cookies for jar seeding.
// Entries whose expiry passed more than a day ago are loaded as session
// cookies so the jar does not silently reject them.
func (s CookieSet) HTTPCookies() []*http.Cookie {
	cookies := make([]*http.Cookie, 0, len(s))
	for name, c := range s {
		var expires time.Time
		if c.Expires > 0 {
			expires = time.Unix(c.Expires, 0)
			if expires.Before(time.Now().Add(-24 * time.Hour)) {
				expires = time.Time{} // Zero value = session cookie
			}
		}

		cookies = append(cookies, &http.Cookie{
			Name:    name,
			Value:   c.Value,
			Path:    "/",
			Expires: expires,
		})
	}
	return cookies
}

// SessionState tracks where a session sits in the authentication lifecycle.
type SessionState string

const (
	SessionUnauthenticated  SessionState = "unauthenticated"
	SessionCookiesPresent   SessionState = "cookies_present"
	SessionTwoFactorPending SessionState = "two_factor_pending"
	SessionAuthenticated    SessionState = "authenticated"
	SessionFailed           SessionState = "failed"
)

// CurrentUser is the subset of the current-user payload the session
// lifecycle needs.
type CurrentUser struct {
	ID                    string   `json:"id"`
	DisplayName           string   `json:"displayName"`
	RequiresTwoFactorAuth []string `json:"requiresTwoFactorAuth"`
}

// TwoFactorPending reports whether the server is holding the session
// behind a two-factor challenge.
func (u *CurrentUser) TwoFactorPending() bool {
	return len(u.RequiresTwoFactorAuth) > 0
}

// TwoFactorMethod identifies a supported second-step verification method.
type TwoFactorMethod string

const (
	TwoFactorTOTP     TwoFactorMethod = "totp"
	TwoFactorEmailOTP TwoFactorMethod = "emailotp"
)

// PreferredTwoFactorMethod picks the verification method from the server's
// advertised list. Authenticator codes win over emailed codes when both are
// offered.
func PreferredTwoFactorMethod(advertised []string) (TwoFactorMethod, bool) {
	for _, m := range advertised {
		if m == string(TwoFactorTOTP) {
			return TwoFactorTOTP, true
		}
	}
	for _, m := range advertised {
		if m == string(TwoFactorEmailOTP) {
			return TwoFactorEmailOTP, true
		}
	}
	return "", false
}
