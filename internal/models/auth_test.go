package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferredTwoFactorMethod(t *testing.T) {
	// Authenticator codes win when both methods are offered
	method, ok := PreferredTwoFactorMethod([]string{"emailotp", "totp"})
	assert.True(t, ok)
	assert.Equal(t, TwoFactorTOTP, method)

	method, ok = PreferredTwoFactorMethod([]string{"emailotp"})
	assert.True(t, ok)
	assert.Equal(t, TwoFactorEmailOTP, method)

	_, ok = PreferredTwoFactorMethod([]string{"otp"})
	assert.False(t, ok)

	_, ok = PreferredTwoFactorMethod(nil)
	assert.False(t, ok)
}

func TestTwoFactorPending(t *testing.T) {
	user := &CurrentUser{ID: "usr_1", DisplayName: "tester"}
	assert.False(t, user.TwoFactorPending())

	user.RequiresTwoFactorAuth = []string{"totp"}
	assert.True(t, user.TwoFactorPending())
}

func TestHTTPCookies_KeepsFutureExpiry(t *testing.T) {
	expires := time.Now().Add(48 * time.Hour).Unix()
	set := CookieSet{
		"auth": {Value: "authcookie_abc", Expires: expires},
	}

	cookies := set.HTTPCookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "auth", cookies[0].Name)
	assert.Equal(t, "authcookie_abc", cookies[0].Value)
	assert.Equal(t, expires, cookies[0].Expires.Unix())
}

func TestHTTPCookies_StaleExpiryBecomesSessionCookie(t *testing.T) {
	set := CookieSet{
		"auth": {Value: "authcookie_abc", Expires: time.Now().Add(-48 * time.Hour).Unix()},
	}

	cookies := set.HTTPCookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].Expires.IsZero())
}

func TestHTTPCookies_ZeroExpiryIsSessionCookie(t *testing.T) {
	set := CookieSet{
		"auth": {Value: "authcookie_abc"},
	}

	cookies := set.HTTPCookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].Expires.IsZero())
}
