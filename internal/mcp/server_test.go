package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/nhanzalone1/netgains/internal/brief"
	"github.com/nhanzalone1/netgains/internal/cache"
	"github.com/nhanzalone1/netgains/internal/calendar"
	"github.com/nhanzalone1/netgains/internal/fixture"
	"github.com/nhanzalone1/netgains/internal/metrics"
)

// stubSource records the last request and returns a canned response.
type stubSource struct {
	got  brief.Request
	resp *brief.Response
	err  error
}

func (s *stubSource) Brief(_ context.Context, req brief.Request) (*brief.Response, error) {
	s.got = req
	return s.resp, s.err
}

func generated() *brief.Response {
	return &brief.Response{
		Status:  brief.StatusGenerated,
		Version: brief.BriefVersion,
		Date:    calendar.Date(2026, 3, 12),
		Brief:   &brief.Brief{Mode: brief.ModePreWorkout, Focus: "Legs", Target: "Beat Back Squat 140x5"},
	}
}

func callTool(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{Params: mcp.CallToolParams{Name: "get_daily_brief", Arguments: args}}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T", res.Content[0])
	}
	return tc.Text
}

// TestUserIDFromContext verifies a missing or nil user is reported as absent.
func TestUserIDFromContext(t *testing.T) {
	if _, ok := UserIDFromContext(context.Background()); ok {
		t.Error("empty context must not yield a user")
	}
	if _, ok := UserIDFromContext(WithUserID(context.Background(), uuid.Nil)); ok {
		t.Error("nil UUID must not count as a user")
	}
	id := uuid.New()
	if got, ok := UserIDFromContext(WithUserID(context.Background(), id)); !ok || got != id {
		t.Errorf("UserIDFromContext = %v, %v; want %v", got, ok, id)
	}
}

// TestNewRegistersBriefTool verifies the server exposes get_daily_brief.
func TestNewRegistersBriefTool(t *testing.T) {
	s := New(&stubSource{}, "test", slog.Default())
	if s.GetTool("get_daily_brief") == nil {
		t.Error("get_daily_brief not registered")
	}
}

// TestGetDailyBrief verifies arguments are forwarded and the response is returned as JSON.
func TestGetDailyBrief(t *testing.T) {
	src := &stubSource{resp: generated()}
	h := &handlers{src: src, log: slog.Default()}
	user := uuid.New()

	res, err := h.getDailyBrief(WithUserID(context.Background(), user),
		callTool(map[string]any{"date": "2026-03-12", "timezone": "America/New_York"}))
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}

	if src.got.UserID != user || src.got.EffectiveDate != "2026-03-12" {
		t.Errorf("request = %+v", src.got)
	}
	if src.got.Location == nil || src.got.Location.String() != "America/New_York" {
		t.Errorf("location = %v", src.got.Location)
	}

	var got brief.Response
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Brief.Focus != "Legs" || !got.Date.Equal(calendar.Date(2026, 3, 12)) {
		t.Errorf("response = %+v", got)
	}
}

// TestGetDailyBriefErrors verifies failures become tool errors, not protocol errors.
func TestGetDailyBriefErrors(t *testing.T) {
	user := uuid.New()
	tests := []struct {
		name string
		ctx  context.Context
		args map[string]any
		err  error
	}{
		{"no user", context.Background(), nil, nil},
		{"bad timezone", WithUserID(context.Background(), user), map[string]any{"timezone": "Mars/Olympus"}, nil},
		{"source failure", WithUserID(context.Background(), user), nil, errors.New("connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &handlers{src: &stubSource{resp: generated(), err: tt.err}, log: slog.Default()}
			res, err := h.getDailyBrief(tt.ctx, callTool(tt.args))
			if err != nil {
				t.Fatalf("protocol error: %v", err)
			}
			if !res.IsError {
				t.Error("expected tool error")
			}
		})
	}
}

// TestDailyBriefResource verifies the resource uses the default zone and echoes the URI.
func TestDailyBriefResource(t *testing.T) {
	src := &stubSource{resp: generated()}
	h := &handlers{src: src, log: slog.Default()}
	user := uuid.New()

	req := mcp.ReadResourceRequest{Params: mcp.ReadResourceParams{URI: "netgains://daily_brief"}}
	contents, err := h.dailyBrief(WithUserID(context.Background(), user), req)
	if err != nil {
		t.Fatal(err)
	}
	if src.got.Location != nil || src.got.EffectiveDate != "" {
		t.Errorf("resource must ask for today in the default zone, got %+v", src.got)
	}

	text, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("contents type = %T", contents[0])
	}
	if text.URI != "netgains://daily_brief" || text.MIMEType != "application/json" {
		t.Errorf("contents = %+v", text)
	}

	if _, err := h.dailyBrief(context.Background(), req); !errors.Is(err, errNoUser) {
		t.Errorf("err = %v, want errNoUser", err)
	}
}

// TestServiceSource verifies the local adapter serves from the cache service.
func TestServiceSource(t *testing.T) {
	m := metrics.NewTestManager()
	eng := brief.NewEngine(fixture.New(), nil, brief.Config{}, m, slog.Default())
	src := ServiceSource{Service: cache.NewService(eng, cache.NewMemoryStore(), time.Hour, m, slog.Default())}

	resp, err := src.Brief(context.Background(), brief.Request{UserID: uuid.New()})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Status != brief.StatusNotOnboarded {
		t.Errorf("status = %s, want not_onboarded for an unknown user", resp.Status)
	}
}
