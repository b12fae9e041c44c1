// Package server provides the MCP server core implementation, handling
// protocol communication, tool registration, and request routing.
package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jobtools/job-finder-mcp-server/internal/auth"
	"github.com/jobtools/job-finder-mcp-server/internal/config"
	"github.com/jobtools/job-finder-mcp-server/internal/fetcher"
	"github.com/jobtools/job-finder-mcp-server/internal/scrape"
	"github.com/jobtools/job-finder-mcp-server/internal/simplify"
	"github.com/jobtools/job-finder-mcp-server/internal/trivia"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
)

// Server represents the MCP server instance with all its dependencies.
// It coordinates protocol handling, bearer-token authentication, and the
// tool implementations (job finder, fetch pipeline, image conversion,
// text utilities, trivia).
type Server struct {
	config        *config.Config
	logger        *slog.Logger
	authenticator auth.Authenticator
	fetcher       *fetcher.Fetcher
	scraper       *scrape.Scraper
	trivia        *trivia.Engine
	sessionStore  trivia.Store
	mcpServer     *server.MCPServer
	transport     TransportStarter
	requireAuth   bool
}

// NewServer creates a new MCP server instance with the provided
// configuration and logger. The server is not started until Start() is
// called. Returns an error if the configuration is invalid or the session
// store cannot be opened.
func NewServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	if err := cfg.ValidateTransport(); err != nil {
		return nil, fmt.Errorf("invalid transport configuration: %w", err)
	}

	authenticator := auth.NewStaticTokenAuthenticator(cfg.AuthToken, "puch-client")

	// zerolog for the outbound HTTP path, slog for everything else.
	zerologLogger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	client := fetcher.NewClient(
		time.Duration(cfg.FetchTimeout)*time.Second,
		cfg.MaxOutboundRPS,
		cfg.UserAgent,
		zerologLogger,
	)

	sessionStore, err := newSessionStore(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create session store: %w", err)
	}

	srv := &Server{
		config:        cfg,
		logger:        logger,
		authenticator: authenticator,
		fetcher:       fetcher.NewFetcher(client, simplify.New(), zerologLogger),
		scraper:       scrape.NewScraper(client, scrape.DefaultBaseURL, cfg.MaxSearchResults, zerologLogger),
		trivia:        trivia.NewEngine(sessionStore),
		sessionStore:  sessionStore,
		// stdio is a local pipe owned by the spawning process; bearer
		// tokens only arrive over the network transports.
		requireAuth: cfg.TransportType != "stdio",
	}

	srv.mcpServer = server.NewMCPServer(
		"job-finder-mcp-server",
		"1.0.0",
		server.WithToolHandlerMiddleware(srv.loggingMiddleware),
		server.WithToolHandlerMiddleware(srv.authMiddleware),
	)

	transport, err := NewTransport(cfg, authenticator, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create transport: %w", err)
	}
	srv.transport = transport

	return srv, nil
}

// newSessionStore creates the trivia session store selected by configuration.
func newSessionStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (trivia.Store, error) {
	switch cfg.SessionStore {
	case "sqlite":
		logger.Info("Opening sqlite session store", "path", cfg.SessionDBPath)
		return trivia.OpenSQLiteStore(ctx, cfg.SessionDBPath)
	default:
		return trivia.NewMemoryStore(), nil
	}
}

// Start starts the MCP server and begins listening for client connections.
// This is a blocking call that runs until the context is cancelled or an
// error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting MCP server", "transport", s.transport.Type())
	if addr := s.config.GetTransportAddress(); addr != "" {
		s.logger.Info("Transport address", "address", addr)
	}

	if err := s.transport.Start(ctx, s.mcpServer); err != nil {
		s.logger.Error("MCP server error", "error", err, "transport", s.transport.Type())
		return fmt.Errorf("MCP server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server and cleans up resources.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server", "transport", s.transport.Type())

	if err := s.transport.Shutdown(ctx); err != nil {
		s.logger.Error("Error during transport shutdown", "error", err)
		return fmt.Errorf("transport shutdown error: %w", err)
	}

	if closer, ok := s.sessionStore.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			s.logger.Error("Error closing session store", "error", err)
			return fmt.Errorf("session store close error: %w", err)
		}
	}

	s.logger.Info("Server shutdown complete")
	return nil
}
