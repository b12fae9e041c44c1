package server

import (
	"context"
	"net/http"
	"testing"

	"github.com/jobtools/job-finder-mcp-server/internal/auth"
	"github.com/jobtools/job-finder-mcp-server/internal/logger"
	"github.com/mark3labs/mcp-go/server"
)

// mockTransport is a mock implementation of TransportStarter for testing
type mockTransport struct {
	startCalled    bool
	shutdownCalled bool
	transportType  string
}

func (m *mockTransport) Start(ctx context.Context, mcpServer *server.MCPServer) error {
	m.startCalled = true
	return nil
}

func (m *mockTransport) Shutdown(ctx context.Context) error {
	m.shutdownCalled = true
	return nil
}

func (m *mockTransport) Type() string {
	return m.transportType
}

// mockTransportConfig implements transportConfig for NewTransport tests
type mockTransportConfig struct {
	transportType string
	port          int
	address       string
}

func (m mockTransportConfig) GetTransportType() string    { return m.transportType }
func (m mockTransportConfig) GetPort() int                { return m.port }
func (m mockTransportConfig) GetTransportAddress() string { return m.address }

// TestTransportImplementations verifies interface compliance at compile time
func TestTransportImplementations(t *testing.T) {
	var _ TransportStarter = (*mockTransport)(nil)
	var _ TransportStarter = (*StdioTransport)(nil)
	var _ TransportStarter = (*SSETransport)(nil)
	var _ TransportStarter = (*StreamableHTTPTransport)(nil)
}

// TestTransportTypes verifies the Type() identifiers
func TestTransportTypes(t *testing.T) {
	tests := []struct {
		transport TransportStarter
		want      string
	}{
		{&StdioTransport{}, "stdio"},
		{&SSETransport{address: "localhost:8086"}, "sse"},
		{&StreamableHTTPTransport{address: "localhost:8086"}, "streamablehttp"},
	}

	for _, tt := range tests {
		if got := tt.transport.Type(); got != tt.want {
			t.Errorf("Type() = %q, want %q", got, tt.want)
		}
	}
}

// TestStdioTransportShutdown verifies Shutdown is a no-op
func TestStdioTransportShutdown(t *testing.T) {
	transport := &StdioTransport{}

	if err := transport.Shutdown(context.Background()); err != nil {
		t.Errorf("StdioTransport.Shutdown() error = %v, want nil", err)
	}
}

// TestNetworkTransportShutdownBeforeStart verifies Shutdown tolerates a
// transport that was never started
func TestNetworkTransportShutdownBeforeStart(t *testing.T) {
	ctx := context.Background()

	if err := (&SSETransport{}).Shutdown(ctx); err != nil {
		t.Errorf("SSETransport.Shutdown() before Start error = %v, want nil", err)
	}
	if err := (&StreamableHTTPTransport{}).Shutdown(ctx); err != nil {
		t.Errorf("StreamableHTTPTransport.Shutdown() before Start error = %v, want nil", err)
	}
}

// TestNewTransportSelection verifies transport selection and validation
func TestNewTransportSelection(t *testing.T) {
	authenticator := auth.NewStaticTokenAuthenticator("secret", "puch-client")
	log := logger.Discard()

	tests := []struct {
		name      string
		cfg       mockTransportConfig
		wantType  string
		expectErr bool
	}{
		{
			name:     "stdio",
			cfg:      mockTransportConfig{transportType: "stdio"},
			wantType: "stdio",
		},
		{
			name:     "sse",
			cfg:      mockTransportConfig{transportType: "sse", port: 8086, address: "0.0.0.0:8086"},
			wantType: "sse",
		},
		{
			name:     "streamablehttp",
			cfg:      mockTransportConfig{transportType: "streamablehttp", port: 8086, address: "0.0.0.0:8086"},
			wantType: "streamablehttp",
		},
		{
			name:      "sse without port",
			cfg:       mockTransportConfig{transportType: "sse"},
			expectErr: true,
		},
		{
			name:      "streamablehttp without port",
			cfg:       mockTransportConfig{transportType: "streamablehttp"},
			expectErr: true,
		},
		{
			name:      "unknown transport",
			cfg:       mockTransportConfig{transportType: "carrier-pigeon"},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport, err := NewTransport(tt.cfg, authenticator, log)

			if tt.expectErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewTransport failed: %v", err)
			}
			if got := transport.Type(); got != tt.wantType {
				t.Errorf("Type() = %q, want %q", got, tt.wantType)
			}
		})
	}
}

// TestBearerContextFunc verifies bearer-token extraction and grant injection
func TestBearerContextFunc(t *testing.T) {
	authenticator := auth.NewStaticTokenAuthenticator("secret", "puch-client")
	fn := bearerContextFunc(authenticator)

	tests := []struct {
		name        string
		header      string
		expectGrant bool
	}{
		{"valid token", "Bearer secret", true},
		{"valid token with padding", "Bearer   secret  ", true},
		{"wrong token", "Bearer nope", false},
		{"missing header", "", false},
		{"wrong scheme", "Basic secret", false},
		{"bare token without scheme", "secret", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := http.NewRequest(http.MethodPost, "http://localhost:8086/mcp", nil)
			if err != nil {
				t.Fatalf("failed to build request: %v", err)
			}
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}

			ctx := fn(context.Background(), r)
			grant := auth.GrantFromContext(ctx)

			if tt.expectGrant && grant == nil {
				t.Error("expected a grant in the context")
			}
			if !tt.expectGrant && grant != nil {
				t.Errorf("expected no grant, got client_id=%s", grant.ClientID)
			}
			if tt.expectGrant && grant != nil && grant.ClientID != "puch-client" {
				t.Errorf("expected puch-client grant, got %s", grant.ClientID)
			}
		})
	}
}
