// Package mcp exposes the daily brief to LLM clients over the Model
// Context Protocol.
package mcp

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with the brief tool and resource registered.
func New(src BriefSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("NetGains", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("NetGains daily training brief. Tells the authenticated user whether today is a training or rest day, what to train, the set to beat, any records set today and today's nutrition."),
	)

	h := &handlers{src: src, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolGetDailyBrief, Handler: h.getDailyBrief},
	)

	s.AddResources(
		server.ServerResource{Resource: resDailyBrief, Handler: h.dailyBrief},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	src BriefSource
	log *slog.Logger
}

var resDailyBrief = mcp.NewResource(
	"netgains://daily_brief",
	"Daily Brief",
	mcp.WithResourceDescription("Today's training brief in the server's default timezone"),
	mcp.WithMIMEType("application/json"),
)
