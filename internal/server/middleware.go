package server

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jobtools/job-finder-mcp-server/internal/auth"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// loggingMiddleware logs every tool invocation with a generated request id
// and its duration. It wraps all registered tool handlers.
func (s *Server) loggingMiddleware(next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		requestID := uuid.NewString()
		start := time.Now()

		s.logger.Info("Tool call received",
			"request_id", requestID,
			"tool", request.Params.Name)

		result, err := next(ctx, request)

		if err != nil {
			s.logger.Error("Tool call failed",
				"request_id", requestID,
				"tool", request.Params.Name,
				"duration", time.Since(start),
				"error", err)
			return result, err
		}

		s.logger.Info("Tool call completed",
			"request_id", requestID,
			"tool", request.Params.Name,
			"duration", time.Since(start),
			"is_error", result != nil && result.IsError)
		return result, nil
	}
}

// authMiddleware rejects tool calls that arrived without a valid access
// grant. Grants are attached to the request context by the transport layer
// from the Authorization header; stdio runs unauthenticated as a trusted
// local pipe.
func (s *Server) authMiddleware(next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if !s.requireAuth {
			return next(ctx, request)
		}

		if grant := auth.GrantFromContext(ctx); grant == nil {
			s.logger.Warn("Rejected unauthenticated tool call", "tool", request.Params.Name)
			return mcp.NewToolResultError("unauthorized: missing or invalid bearer token"), nil
		}

		return next(ctx, request)
	}
}
