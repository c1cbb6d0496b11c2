package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/nhanzalone1/netgains/internal/brief"
	"github.com/nhanzalone1/netgains/internal/cache"
	briefmcp "github.com/nhanzalone1/netgains/internal/mcp"
)

// BriefService serves and invalidates cached briefs.
type BriefService interface {
	Brief(ctx context.Context, req brief.Request) *brief.Response
	Invalidate(ctx context.Context, userID uuid.UUID, ev cache.Event) error
}

var _ BriefService = (*cache.Service)(nil)

// Pinger reports database reachability for /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configures optional server behaviour.
type Options struct {
	// APIKey, when set, is required in X-API-Key on /api/v1 routes.
	APIKey string
	// DevUser, when set, is the identity of every request. Local development only.
	DevUser uuid.UUID
	// Users maps Tailscale logins to user IDs. Required with SetTailscale.
	Users UserResolver
	// Health is pinged by /healthz. Nil reports healthy.
	Health Pinger
	// Metrics serves /metrics when set.
	Metrics http.Handler
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	briefs BriefService
	opts   Options
	log    *slog.Logger
	router chi.Router
	ts     WhoIsClient
	mcp    http.Handler
}

// New creates a new Server with all routes configured.
func New(briefs BriefService, opts Options, log *slog.Logger) *Server {
	s := &Server{
		briefs: briefs,
		opts:   opts,
		log:    log,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// SetTailscale switches identity to the tailnet peer of each request.
func (s *Server) SetTailscale(lc WhoIsClient) {
	s.ts = lc
}

// SetMCP mounts an MCP server at /mcp using the streamable HTTP transport.
// Tools see the caller's user ID through briefmcp.UserIDFromContext.
func (s *Server) SetMCP(m *mcpserver.MCPServer) {
	s.mcp = mcpserver.NewStreamableHTTPServer(m,
		mcpserver.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
			if id, ok := userIDFromContext(r); ok {
				return briefmcp.WithUserID(ctx, id)
			}
			return ctx
		}),
	)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(Tracing)
	s.router.Use(CORS)

	s.router.Get("/healthz", s.handleHealth)
	if s.opts.Metrics != nil {
		s.router.Handle("/metrics", s.opts.Metrics)
	}

	s.router.Route("/api/v1", func(r chi.Router) {
		if s.opts.APIKey != "" {
			r.Use(APIKeyAuth(s.opts.APIKey))
		}
		r.Use(s.identify)
		r.Get("/me", s.handleMe)
		r.Get("/brief", s.handleBrief)
		r.Post("/brief/events", s.handleBriefEvent)
	})

	// MCP: identity as for the API, key required unless tsnet handles access
	s.router.With(s.mcpAuth, s.identify).Handle("/mcp", http.HandlerFunc(s.handleMCP))
}

// mcpAuth requires the API key on /mcp whenever identity comes from request
// headers. Under tsnet the tailnet peer is the identity and no key is needed.
func (s *Server) mcpAuth(next http.Handler) http.Handler {
	keyed := next
	if s.opts.APIKey != "" {
		keyed = APIKeyAuth(s.opts.APIKey)(next)
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.ts != nil {
			next.ServeHTTP(w, r)
			return
		}
		keyed.ServeHTTP(w, r)
	})
}

func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	if s.mcp == nil {
		http.NotFound(w, r)
		return
	}
	s.mcp.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.opts.Health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.opts.Health.Ping(ctx); err != nil {
			s.log.Warn("health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
