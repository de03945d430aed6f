package youtube

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"

	"likeshelf/internal/domain"
)

// scopeReadonly is the only scope the app needs.
const scopeReadonly = "https://www.googleapis.com/auth/youtube.readonly"

// googleEndpoint avoids importing the full Google API surface for two URLs.
var googleEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.google.com/o/oauth2/auth",
	TokenURL: "https://oauth2.googleapis.com/token",
}

// Credentials identifies the registered OAuth application.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

func (c Credentials) valid() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// Authenticator manages the OAuth token lifecycle: the first-time
// authorization-code flow over a loopback redirect, durable token storage,
// and re-persisting refreshed tokens.
type Authenticator struct {
	creds     Credentials
	tokenPath string
	logger    *slog.Logger
}

// NewAuthenticator creates an authenticator that stores its token as JSON
// at tokenPath.
func NewAuthenticator(creds Credentials, tokenPath string, logger *slog.Logger) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{creds: creds, tokenPath: tokenPath, logger: logger}
}

func (a *Authenticator) oauthConfig(redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     a.creds.ClientID,
		ClientSecret: a.creds.ClientSecret,
		Endpoint:     googleEndpoint,
		RedirectURL:  redirectURL,
		Scopes:       []string{scopeReadonly},
	}
}

// HTTPClient returns an authenticated HTTP client backed by the stored
// token. Refreshed tokens are written back to the token file before use.
// Returns domain.ErrNotAuthorized when no token has been stored yet.
func (a *Authenticator) HTTPClient(ctx context.Context) (*http.Client, error) {
	if !a.creds.valid() {
		return nil, fmt.Errorf("oauth client credentials are not configured")
	}
	tok, err := a.loadToken()
	if err != nil {
		return nil, err
	}

	base := a.oauthConfig("").TokenSource(ctx, tok)
	src := &persistingSource{auth: a, wrapped: base, last: tok}
	return oauth2.NewClient(ctx, src), nil
}

// SignedIn reports whether a stored token exists.
func (a *Authenticator) SignedIn() bool {
	_, err := a.loadToken()
	return err == nil
}

// SignOut removes the stored token. Missing file is not an error.
func (a *Authenticator) SignOut() error {
	if err := os.Remove(a.tokenPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Authorize runs the first-time authorization-code flow. It binds a
// loopback listener on a random port, hands the consent URL to openURL
// (typically the user's browser), waits for the redirect, exchanges the
// code and persists the resulting token.
func (a *Authenticator) Authorize(ctx context.Context, openURL func(string) error) error {
	if !a.creds.valid() {
		return fmt.Errorf("oauth client credentials are not configured")
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("failed to bind loopback listener: %w", err)
	}
	defer ln.Close()

	redirectURL := fmt.Sprintf("http://%s", ln.Addr().String())
	cfg := a.oauthConfig(redirectURL)
	state := randomState()

	authURL := cfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
	if err := openURL(authURL); err != nil {
		return fmt.Errorf("failed to open consent URL: %w", err)
	}

	code, err := waitForCode(ctx, ln, state)
	if err != nil {
		return err
	}

	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("token exchange failed: %w", err)
	}
	if err := a.saveToken(tok); err != nil {
		return err
	}

	a.logger.Info("authorized", "tokenPath", a.tokenPath)
	return nil
}

// waitForCode serves exactly one redirect request and returns its code.
func waitForCode(ctx context.Context, ln net.Listener, state string) (string, error) {
	type result struct {
		code string
		err  error
	}
	ch := make(chan result, 1)

	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			ch <- result{err: errors.New("oauth state mismatch")}
			return
		}
		code := q.Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			ch <- result{err: errors.New("redirect carried no code")}
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<b>Login complete.</b> You can close this window now.")
		ch <- result{code: code}
	})}
	go srv.Serve(ln)
	defer srv.Close()

	select {
	case res := <-ch:
		return res.code, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func randomState() string {
	var b [16]byte
	rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

// === Token persistence ===

func (a *Authenticator) loadToken() (*oauth2.Token, error) {
	data, err := os.ReadFile(a.tokenPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotAuthorized
		}
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("corrupt token file: %w", err)
	}
	return &tok, nil
}

func (a *Authenticator) saveToken(tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(a.tokenPath), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(a.tokenPath, data, 0600)
}

// persistingSource writes every refreshed token back to disk, so a restart
// never repeats the consent flow while the refresh token is alive.
type persistingSource struct {
	auth    *Authenticator
	wrapped oauth2.TokenSource

	mu   sync.Mutex
	last *oauth2.Token
}

func (s *persistingSource) Token() (*oauth2.Token, error) {
	tok, err := s.wrapped.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil || tok.AccessToken != s.last.AccessToken {
		if err := s.auth.saveToken(tok); err != nil {
			s.auth.logger.Warn("failed to persist refreshed token", "error", err)
		}
		s.last = tok
	}
	return tok, nil
}
