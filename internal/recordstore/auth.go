package recordstore

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"alcosklad/pkg/logger"
)

// reauthWindow re-authenticates this long before the token expires so that
// in-flight requests never carry an expired token.
const reauthWindow = 60 * time.Second

// authState holds the store auth token and re-authenticates before expiry.
// The token's exp claim is read without signature verification; the store
// is the issuer and verifies it on every call anyway.
type authState struct {
	identity   string
	password   string
	collection string

	mu      sync.Mutex
	token   string
	expires time.Time
}

type authResponse struct {
	Token string `json:"token"`
}

// bearer returns a valid auth token, authenticating if needed.
// Returns "" when the client is configured without credentials.
func (a *authState) bearer(ctx context.Context, c *Client) (string, error) {
	if a.identity == "" {
		return "", nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.token != "" && time.Until(a.expires) > reauthWindow {
		return a.token, nil
	}

	path := fmt.Sprintf("/api/collections/%s/auth-with-password", a.collection)
	body := map[string]string{
		"identity": a.identity,
		"password": a.password,
	}

	var resp authResponse
	// Bypass the token injection in do: build the request directly.
	if err := c.doUnauthenticated(ctx, http.MethodPost, path, body, &resp); err != nil {
		return "", fmt.Errorf("authenticate against record store: %w", err)
	}

	a.token = resp.Token
	a.expires = tokenExpiry(resp.Token)
	logger.Debug(ctx, "record store authenticated", "expires", a.expires)
	return a.token, nil
}

// tokenExpiry extracts the exp claim from the token.
// An unreadable claim yields a short synthetic lifetime so the client
// simply re-authenticates often instead of failing.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Now().Add(5 * time.Minute)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Now().Add(5 * time.Minute)
	}
	return exp.Time
}

// doUnauthenticated performs a call without the Authorization header.
// Used only by the auth flow itself.
func (c *Client) doUnauthenticated(ctx context.Context, method, path string, body, out any) error {
	bare := &Client{baseURL: c.baseURL, http: c.http, auth: &authState{}}
	return bare.do(ctx, method, path, nil, body, out)
}
