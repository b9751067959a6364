// Package session holds the bearer token, persists it, and decorates
// outgoing API requests with it.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"taskdeck/internal/kvstore"
	"taskdeck/internal/logging"
	"taskdeck/internal/service"
)

const (
	// TokenKey is the persistent store key holding the bearer token.
	TokenKey = "accessToken"

	// WelcomeKey is the session store key set once the welcome was shown.
	WelcomeKey = "welcomeShown"

	// NullToken clears the stored token when passed to Bootstrap.
	NullToken = "null"

	// DefaultTimeout is used when Options.Timeout is zero.
	DefaultTimeout = 10 * time.Second
)

// Options configures a Manager.
type Options struct {
	// BaseURL is the API root including the /api prefix.
	BaseURL string

	// Timeout bounds each request.
	Timeout time.Duration

	// LogoutOnUnauthorized clears the token when the API answers 401.
	LogoutOnUnauthorized bool

	// Logger receives per-request debug lines.
	Logger *log.Logger

	// Transport is the base round tripper. Defaults to http.DefaultTransport.
	Transport http.RoundTripper
}

// Manager owns the session token.
type Manager struct {
	persistent kvstore.Store
	session    kvstore.Store
	opts       Options
}

// New returns a Manager storing the token in persistent and
// session-scoped flags in sess.
func New(persistent, sess kvstore.Store, opts Options) *Manager {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Transport == nil {
		opts.Transport = http.DefaultTransport
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &Manager{persistent: persistent, session: sess, opts: opts}
}

// Token returns the stored bearer token, or "" when logged out.
func (m *Manager) Token() string {
	v, _ := m.persistent.Get(TokenKey)
	return v
}

// LoggedIn reports whether a token is stored.
func (m *Manager) LoggedIn() bool {
	return m.Token() != ""
}

// Bootstrap applies a token handed in at startup. An empty value is
// ignored and NullToken removes any stored token.
func (m *Manager) Bootstrap(initial string) error {
	switch strings.TrimSpace(initial) {
	case "":
		return nil
	case NullToken:
		return m.persistent.Delete(TokenKey)
	}
	return m.persistent.Set(TokenKey, strings.TrimSpace(initial))
}

// TokenExpiry decodes the JWT exp claim without verifying the signature.
func (m *Manager) TokenExpiry() (time.Time, bool) {
	tok := m.Token()
	if tok == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Login posts the credentials form-encoded and stores the returned access token.
// Any non-2xx answer becomes an *service.AuthError and the stored token is left untouched.
func (m *Manager) Login(ctx context.Context, creds service.Credentials) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, m.opts.Timeout)
	defer cancel()

	form := url.Values{}
	form.Set("username", creds.Username)
	form.Set("password", creds.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url("/auth/login"), strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	res, err := m.send(req, "")
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if err := checkResponse(res); err != nil {
		var apiErr *service.APIError
		if errors.As(err, &apiErr) {
			return "", &service.AuthError{Detail: apiErr.Detail}
		}
		return "", err
	}

	var body struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode login response: %w", err)
	}
	if body.Access == "" {
		return "", &service.AuthError{}
	}

	if err := m.persistent.Set(TokenKey, body.Access); err != nil {
		return "", fmt.Errorf("failed to save token: %w", err)
	}
	return body.Access, nil
}

// Register creates an account. It is sent without a token.
func (m *Manager) Register(ctx context.Context, reg service.Registration) error {
	return m.do(ctx, http.MethodPost, "/auth/register", reg, nil, "")
}

// Logout removes the token and clears the session store.
func (m *Manager) Logout() error {
	if err := m.persistent.Delete(TokenKey); err != nil {
		return err
	}
	return m.session.Clear()
}

// Greeted reports whether the welcome message was shown this session.
func (m *Manager) Greeted() bool {
	v, _ := m.session.Get(WelcomeKey)
	return v == "true"
}

// MarkGreeted records that the welcome message was shown.
func (m *Manager) MarkGreeted() error {
	return m.session.Set(WelcomeKey, "true")
}

// Do sends an authorized JSON request and decodes the response into out.
// body and out may be nil. Without a stored token the request goes out
// unauthenticated and the server decides.
func (m *Manager) Do(ctx context.Context, method, path string, body, out any) error {
	token := m.Token()
	err := m.do(ctx, method, path, body, out, token)
	if err != nil && token != "" && errors.Is(err, service.ErrUnauthorized) && m.opts.LogoutOnUnauthorized {
		m.opts.Logger.Debug("token rejected, logging out", "path", path)
		if lerr := m.Logout(); lerr != nil {
			m.opts.Logger.Warn("failed to clear token", "err", lerr)
		}
	}
	return err
}

func (m *Manager) do(ctx context.Context, method, path string, body, out any, token string) error {
	ctx, cancel := context.WithTimeout(ctx, m.opts.Timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, m.url(path), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := m.send(req, token)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if err := checkResponse(res); err != nil {
		return err
	}
	if out == nil || res.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// send performs req, attaching the bearer token through an oauth2 transport
// when token is non-empty.
func (m *Manager) send(req *http.Request, token string) (*http.Response, error) {
	client := &http.Client{Transport: m.opts.Transport}
	if token != "" {
		client.Transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
			Base:   m.opts.Transport,
		}
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	res, err := client.Do(req)
	if err != nil {
		m.opts.Logger.Debug("request failed", "method", req.Method, "path", req.URL.Path, "request_id", requestID, "err", err)
		return nil, wrapTransportError(err)
	}
	m.opts.Logger.Debug("request",
		"method", req.Method,
		"path", req.URL.Path,
		"status", res.StatusCode,
		"auth", token != "",
		"request_id", requestID,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return res, nil
}

func (m *Manager) url(path string) string {
	return m.opts.BaseURL + path
}

// wrapTransportError turns deadline errors into a user-facing message.
func wrapTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}
	return err
}
