package vrchat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/vestio/internal/models"
)

const (
	// DefaultBaseURL is the base URL for the VRChat API.
	DefaultBaseURL = "https://vrchat.com/api/1"

	// DefaultUserAgent identifies the client. VRChat rejects anonymous
	// user agents.
	DefaultUserAgent = "vestio/1.0.0 github.com/ternarybob/vestio"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 2

	// AuthCookieName is the session cookie the API issues on login.
	AuthCookieName = "auth"
)

// Client is a VRChat API client. All requests share one cookie jar, so the
// session established by Login carries into every later call. The client
// also mirrors received cookies into an exportable set that keeps their
// expirations, which the standard jar discards on read.
//
// One Client serves one session and one synchronous caller; it is not safe
// for concurrent use.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter
	session    models.CookieSet
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithUserAgent sets a custom user agent.
func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithTimeout sets a custom HTTP timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets a custom rate limit.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// NewClient creates a new VRChat API client.
func NewClient(opts ...ClientOption) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	c := &Client{
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		session: models.CookieSet{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if _, err := url.Parse(c.baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL %s: %w", c.baseURL, err)
	}

	return c, nil
}

// do performs one API request and decodes the JSON response into result
// when result is non-nil. Non-2xx statuses come back as *APIError and
// undecodable bodies as *DecodeError.
func (c *Client) do(ctx context.Context, method, path string, body, result interface{}, configure func(*http.Request)) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter interrupted: %w", err)
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if configure != nil {
		configure(req)
	}

	if c.logger != nil {
		c.logger.Debug().
			Str("method", method).
			Str("path", path).
			Msg("VRChat API request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	c.captureCookies(resp.Cookies())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(respBody)),
			Endpoint:   path,
		}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return &DecodeError{Endpoint: path, Err: err}
		}
	}

	return nil
}

// captureCookies mirrors response cookies into the exportable session set.
// The standard jar strips expirations on read, so persistence needs this
// parallel record.
func (c *Client) captureCookies(cookies []*http.Cookie) {
	for _, cookie := range cookies {
		if cookie.MaxAge < 0 {
			delete(c.session, cookie.Name)
			continue
		}

		var expires int64
		switch {
		case cookie.MaxAge > 0:
			expires = time.Now().Add(time.Duration(cookie.MaxAge) * time.Second).Unix()
		case !cookie.Expires.IsZero():
			expires = cookie.Expires.Unix()
		}

		c.session[cookie.Name] = models.Cookie{
			Value:   cookie.Value,
			Expires: expires,
		}
	}
}

// SetCookies seeds the jar and the session set with previously persisted
// cookies.
func (c *Client) SetCookies(set models.CookieSet) error {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}

	c.httpClient.Jar.SetCookies(base, set.HTTPCookies())
	for name, cookie := range set {
		c.session[name] = cookie
	}

	return nil
}

// Cookies exports a copy of the current session cookies for persistence.
func (c *Client) Cookies() models.CookieSet {
	set := make(models.CookieSet, len(c.session))
	for name, cookie := range c.session {
		set[name] = cookie
	}
	return set
}

// HasCookies reports whether any session cookies are loaded.
func (c *Client) HasCookies() bool {
	return len(c.session) > 0
}

// AuthCookie returns the session authentication cookie when one is held.
func (c *Client) AuthCookie() (models.Cookie, bool) {
	cookie, ok := c.session[AuthCookieName]
	return cookie, ok
}

// CurrentUser fetches the account behind the session cookies. The same
// endpoint performs the password login when basic credentials are
// attached; see Login.
func (c *Client) CurrentUser(ctx context.Context) (*models.CurrentUser, error) {
	var user models.CurrentUser
	if err := c.do(ctx, http.MethodGet, "/auth/user", nil, &user, nil); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login performs the credential login. Login and password travel
// URL-quoted inside the basic authorization header, never as query
// parameters. The response carries the session cookie and reports whether
// a two-factor challenge is still outstanding.
func (c *Client) Login(ctx context.Context, login, password string) (*models.CurrentUser, error) {
	var user models.CurrentUser
	err := c.do(ctx, http.MethodGet, "/auth/user", nil, &user, func(req *http.Request) {
		req.SetBasicAuth(url.QueryEscape(login), url.QueryEscape(password))
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// VerifyTwoFactor submits a verification code for the given method.
func (c *Client) VerifyTwoFactor(ctx context.Context, method models.TwoFactorMethod, code string) error {
	path := fmt.Sprintf("/auth/twofactorauth/%s/verify", method)
	return c.do(ctx, http.MethodPost, path, twoFactorRequest{Code: code}, nil, nil)
}

// FavoriteAvatars fetches the favorited avatar list in the order the API
// returns it.
func (c *Client) FavoriteAvatars(ctx context.Context) ([]models.Avatar, error) {
	var avatars []models.Avatar
	if err := c.do(ctx, http.MethodGet, "/avatars/favorites?featured=true", nil, &avatars, nil); err != nil {
		return nil, err
	}
	return avatars, nil
}

// SelectAvatar makes the given avatar the account's active one.
func (c *Client) SelectAvatar(ctx context.Context, avatarID string) error {
	return c.do(ctx, http.MethodPut, "/avatars/"+url.PathEscape(avatarID)+"/select", nil, nil, nil)
}
