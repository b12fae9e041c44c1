// Job Finder MCP Server
//
// This is the main entry point for the Job Finder MCP Server.
// It exposes job discovery, page fetching, image conversion, text utility,
// and trivia tools over the Model Context Protocol (MCP), protected by a
// static bearer token on network transports.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jobtools/job-finder-mcp-server/internal/config"
	"github.com/jobtools/job-finder-mcp-server/internal/logger"
	"github.com/jobtools/job-finder-mcp-server/internal/server"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	configFile  string
	logLevel    string
	showVersion bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "job-finder-mcp-server",
		Short: "Job Finder MCP Server",
		Long: `Job Finder MCP Server exposes a set of MCP tools for job discovery
and assorted utilities, authenticated with a static bearer token.

The server exposes these tools:
  - validate: returns the owner identifier for platform verification
  - job_finder: analyze job descriptions, fetch postings by URL, or search for jobs
  - make_img_black_and_white: convert a base64 image to grayscale PNG
  - reverse_text: reverse a string
  - emoji_replacer: replace known words with emojis
  - trivia: play a short trivia quiz

AUTH_TOKEN and MY_NUMBER must be set (environment or .env file) before the
server will start.`,
		RunE: runServer,
	}

	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to configuration file (optional)")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "", "Log level (debug, info, warn, error)")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "Show version information")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	if showVersion {
		fmt.Printf("Job Finder MCP Server\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Commit:  %s\n", commit)
		fmt.Printf("Built:   %s\n", date)
		return nil
	}

	// A .env file is optional; real environment variables win either way.
	_ = godotenv.Load()

	var cfg *config.Config
	var err error

	if configFile != "" {
		cfg, err = config.LoadFromFile(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration from file: %w", err)
		}
	} else {
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
	}

	// Override log level from command line flag if provided
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	log, err := logger.NewLogger(cfg.LogLevel, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	log.Info("Starting Job Finder MCP Server",
		"version", version,
		"commit", commit,
		"date", date)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv, err := server.NewServer(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to create server", "error", err)
		return fmt.Errorf("failed to create server: %w", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.RegisterTools(); err != nil {
			errChan <- fmt.Errorf("tool registration failed: %w", err)
			return
		}

		// Start the MCP server (this blocks until shutdown)
		if err := srv.Start(ctx); err != nil {
			errChan <- fmt.Errorf("server error: %w", err)
			return
		}

		errChan <- nil
	}()

	select {
	case err := <-errChan:
		if err != nil {
			log.Error("Server error", "error", err)
			return err
		}
		log.Info("Server stopped normally")
		return nil

	case sig := <-sigChan:
		log.Info("Received shutdown signal", "signal", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Error during shutdown", "error", err)
			return fmt.Errorf("shutdown error: %w", err)
		}

		log.Info("Server shutdown complete")
		return nil
	}
}
