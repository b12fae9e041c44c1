package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jobtools/job-finder-mcp-server/internal/auth"
	"github.com/mark3labs/mcp-go/server"
)

// TransportStarter defines the interface for all transport implementations.
// It provides a common abstraction for starting and stopping different
// transport types (STDIO, SSE, StreamableHTTP) used by the MCP server.
type TransportStarter interface {
	// Start initializes and starts the transport with the given MCP server.
	// It blocks until the transport stops or an error occurs.
	Start(ctx context.Context, mcpServer *server.MCPServer) error

	// Shutdown gracefully shuts down the transport, closing all active
	// connections and refusing new ones.
	Shutdown(ctx context.Context) error

	// Type returns the transport type name for logging and diagnostics.
	// Valid values are: "stdio", "sse", "streamablehttp"
	Type() string
}

// bearerContextFunc returns a per-request context function that extracts a
// bearer token from the Authorization header and, when the authenticator
// accepts it, attaches the resulting access grant to the request context.
// Requests without a valid token pass through without a grant; the tool
// handler middleware rejects them.
func bearerContextFunc(authenticator auth.Authenticator) func(ctx context.Context, r *http.Request) context.Context {
	return func(ctx context.Context, r *http.Request) context.Context {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			return ctx
		}
		if grant := authenticator.Authenticate(strings.TrimSpace(token)); grant != nil {
			return auth.WithGrant(ctx, grant)
		}
		return ctx
	}
}

// StdioTransport implements TransportStarter for STDIO transport.
// It reads MCP requests from stdin, writes responses to stdout, and leaves
// stderr to the loggers. No bearer token is involved: the pipe belongs to
// the process that spawned the server.
type StdioTransport struct{}

// Start serves the MCP protocol over stdin/stdout. Blocks until the client
// disconnects.
func (s *StdioTransport) Start(ctx context.Context, mcpServer *server.MCPServer) error {
	return server.ServeStdio(mcpServer)
}

// Shutdown is a no-op for STDIO; stdin/stdout are closed with the process.
func (s *StdioTransport) Shutdown(ctx context.Context) error {
	return nil
}

// Type returns "stdio".
func (s *StdioTransport) Type() string {
	return "stdio"
}

// SSETransport implements TransportStarter for Server-Sent Events over
// HTTP. Each request carries a bearer token in the Authorization header;
// the token is resolved to an access grant before tool dispatch.
type SSETransport struct {
	address       string
	authenticator auth.Authenticator
	server        *server.SSEServer
}

// Start creates the SSE server bound to the configured address and blocks
// until it stops.
func (s *SSETransport) Start(ctx context.Context, mcpServer *server.MCPServer) error {
	s.server = server.NewSSEServer(
		mcpServer,
		server.WithSSEContextFunc(bearerContextFunc(s.authenticator)),
	)
	return s.server.Start(s.address)
}

// Shutdown stops the HTTP server and closes all active client connections.
func (s *SSETransport) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Type returns "sse".
func (s *SSETransport) Type() string {
	return "sse"
}

// StreamableHTTPTransport implements TransportStarter for the StreamableHTTP
// transport. Like SSE, every request is authenticated from its
// Authorization header.
type StreamableHTTPTransport struct {
	address       string
	authenticator auth.Authenticator
	server        *server.StreamableHTTPServer
}

// Start creates the StreamableHTTP server bound to the configured address
// and blocks until it stops.
func (s *StreamableHTTPTransport) Start(ctx context.Context, mcpServer *server.MCPServer) error {
	s.server = server.NewStreamableHTTPServer(
		mcpServer,
		server.WithHTTPContextFunc(bearerContextFunc(s.authenticator)),
	)
	return s.server.Start(s.address)
}

// Shutdown stops the HTTP server and closes all active client connections.
func (s *StreamableHTTPTransport) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Type returns "streamablehttp".
func (s *StreamableHTTPTransport) Type() string {
	return "streamablehttp"
}

// NewTransport creates the appropriate transport based on configuration.
// Network transports require a configured port and an authenticator for
// bearer-token resolution; unknown transport types are rejected.
func NewTransport(cfg transportConfig, authenticator auth.Authenticator, logger *slog.Logger) (TransportStarter, error) {
	switch cfg.GetTransportType() {
	case "stdio":
		return &StdioTransport{}, nil
	case "sse":
		if cfg.GetPort() == 0 {
			return nil, fmt.Errorf("port must be configured for SSE transport")
		}
		return &SSETransport{
			address:       cfg.GetTransportAddress(),
			authenticator: authenticator,
		}, nil
	case "streamablehttp":
		if cfg.GetPort() == 0 {
			return nil, fmt.Errorf("port must be configured for StreamableHTTP transport")
		}
		return &StreamableHTTPTransport{
			address:       cfg.GetTransportAddress(),
			authenticator: authenticator,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported transport type: %s (must be one of: stdio, sse, streamablehttp)", cfg.GetTransportType())
	}
}

// transportConfig defines the interface for configuration objects used by
// NewTransport. This allows the function to work with different config
// implementations (real Config or mocks).
type transportConfig interface {
	GetTransportType() string
	GetPort() int
	GetTransportAddress() string
}
