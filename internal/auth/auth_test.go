package auth

import (
	"context"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestAuthenticateMatchingToken verifies that the configured secret yields a grant
func TestAuthenticateMatchingToken(t *testing.T) {
	a := NewStaticTokenAuthenticator("super-secret", "puch-client")

	grant := a.Authenticate("super-secret")
	if grant == nil {
		t.Fatal("Expected grant for matching token, got nil")
	}

	if grant.ClientID != "puch-client" {
		t.Errorf("Expected client ID 'puch-client', got '%s'", grant.ClientID)
	}

	if len(grant.Scopes) != 1 || grant.Scopes[0] != "*" {
		t.Errorf("Expected wildcard scope, got %v", grant.Scopes)
	}

	if grant.ExpiresAt != nil {
		t.Errorf("Expected no expiry, got %v", grant.ExpiresAt)
	}
}

// TestAuthenticateMismatchedToken verifies that non-matching tokens are rejected silently
func TestAuthenticateMismatchedToken(t *testing.T) {
	a := NewStaticTokenAuthenticator("super-secret", "puch-client")

	for _, presented := range []string{"", "wrong", "super-secret ", "SUPER-SECRET"} {
		if grant := a.Authenticate(presented); grant != nil {
			t.Errorf("Expected nil grant for token %q, got %+v", presented, grant)
		}
	}
}

// TestAuthenticateEmptySecret verifies that an empty secret never grants access
func TestAuthenticateEmptySecret(t *testing.T) {
	a := NewStaticTokenAuthenticator("", "puch-client")

	if grant := a.Authenticate(""); grant != nil {
		t.Error("Expected nil grant when secret is empty")
	}
}

// TestAuthenticateProperty tests that a grant is issued iff the presented
// token exactly equals the configured secret
func TestAuthenticateProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("grant issued iff token equals secret", prop.ForAll(
		func(secret, presented string) bool {
			if secret == "" {
				return true
			}
			a := NewStaticTokenAuthenticator(secret, "puch-client")
			grant := a.Authenticate(presented)
			if presented == secret {
				return grant != nil && grant.Token == presented
			}
			return grant == nil
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

// TestGrantContextRoundTrip verifies grant storage and retrieval via context
func TestGrantContextRoundTrip(t *testing.T) {
	grant := &AccessGrant{Token: "t", ClientID: "c", Scopes: []string{"*"}}

	ctx := WithGrant(context.Background(), grant)
	got := GrantFromContext(ctx)
	if got != grant {
		t.Errorf("Expected same grant back, got %+v", got)
	}

	if got := GrantFromContext(context.Background()); got != nil {
		t.Errorf("Expected nil grant from empty context, got %+v", got)
	}
}
