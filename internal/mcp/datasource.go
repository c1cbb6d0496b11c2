package mcp

import (
	"context"

	"github.com/nhanzalone1/netgains/internal/brief"
	"github.com/nhanzalone1/netgains/internal/cache"
)

// BriefSource produces briefs for MCP tools. ServiceSource (local) and
// HTTPClient (remote via REST API) satisfy this interface.
type BriefSource interface {
	Brief(ctx context.Context, req brief.Request) (*brief.Response, error)
}

// ServiceSource serves briefs from an in-process cache.Service.
type ServiceSource struct {
	Service *cache.Service
}

var (
	_ BriefSource = ServiceSource{}
	_ BriefSource = (*HTTPClient)(nil)
)

// Brief never fails; the service always yields a response.
func (s ServiceSource) Brief(ctx context.Context, req brief.Request) (*brief.Response, error) {
	return s.Service.Brief(ctx, req), nil
}
