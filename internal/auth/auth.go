// Package auth provides bearer-token authentication for the MCP server.
// A single static secret is configured at startup; callers presenting it
// receive a wildcard-scope access grant for the duration of the request.
package auth

import (
	"context"
	"crypto/subtle"
	"time"
)

// AccessGrant represents the access granted to an authenticated caller.
// It is created on a successful token match, held for one request, and
// never persisted.
type AccessGrant struct {
	Token     string
	ClientID  string
	Scopes    []string
	ExpiresAt *time.Time // nil means no expiry
}

// Authenticator validates a presented bearer token.
type Authenticator interface {
	// Authenticate returns an access grant if the presented token is
	// valid, or nil otherwise. Failure is silent: nil means absence of
	// access, and the transport layer is responsible for surfacing an
	// authorization error to the caller.
	Authenticate(presented string) *AccessGrant
}

// StaticTokenAuthenticator validates tokens against a single configured
// secret. There is no rate limiting, revocation, or multi-token support.
type StaticTokenAuthenticator struct {
	secret   string
	clientID string
}

// NewStaticTokenAuthenticator creates an authenticator for the given secret.
// The clientID is attached to every grant it issues.
func NewStaticTokenAuthenticator(secret, clientID string) *StaticTokenAuthenticator {
	return &StaticTokenAuthenticator{
		secret:   secret,
		clientID: clientID,
	}
}

// Authenticate compares the presented token against the configured secret.
// On match it returns a grant with wildcard scope and no expiry.
func (a *StaticTokenAuthenticator) Authenticate(presented string) *AccessGrant {
	if a.secret == "" {
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(presented), []byte(a.secret)) != 1 {
		return nil
	}
	return &AccessGrant{
		Token:     presented,
		ClientID:  a.clientID,
		Scopes:    []string{"*"},
		ExpiresAt: nil,
	}
}

type grantContextKey struct{}

// WithGrant returns a context carrying the given access grant.
// Transports call this after validating the Authorization header so tool
// middleware can check the grant without re-parsing the request.
func WithGrant(ctx context.Context, grant *AccessGrant) context.Context {
	return context.WithValue(ctx, grantContextKey{}, grant)
}

// GrantFromContext returns the access grant stored in the context, or nil
// if the request was not authenticated.
func GrantFromContext(ctx context.Context) *AccessGrant {
	grant, _ := ctx.Value(grantContextKey{}).(*AccessGrant)
	return grant
}
