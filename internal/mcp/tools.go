package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/nhanzalone1/netgains/internal/brief"
	"github.com/nhanzalone1/netgains/internal/calendar"
)

var errNoUser = errors.New("no authenticated user")

var toolGetDailyBrief = mcp.NewTool("get_daily_brief",
	mcp.WithDescription("Get the user's daily training brief: mode (pre_workout, post_workout or rest_day), the suggested focus, a 'beat this' target from recent history, personal records set today and today's nutrition against goals."),
	mcp.WithString("date", mcp.Description("Day to evaluate (YYYY-MM-DD or ISO 8601). Defaults to today.")),
	mcp.WithString("timezone", mcp.Description("IANA timezone used to decide which calendar day 'today' is (e.g. 'Europe/Berlin'). Defaults to the server's zone.")),
)

func (h *handlers) getDailyBrief(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid, ok := UserIDFromContext(ctx)
	if !ok {
		return mcp.NewToolResultError(errNoUser.Error()), nil
	}

	var loc *time.Location
	if tz := req.GetString("timezone", ""); tz != "" {
		var err error
		if loc, err = calendar.LoadLocation(tz, nil); err != nil {
			return mcp.NewToolResultError("invalid timezone: " + err.Error()), nil
		}
	}

	resp, err := h.src.Brief(ctx, brief.Request{
		UserID:        uid,
		EffectiveDate: req.GetString("date", ""),
		Location:      loc,
	})
	if err != nil {
		h.log.Error("mcp get_daily_brief", "error", err)
		return mcp.NewToolResultError("brief failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(resp)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) dailyBrief(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid, ok := UserIDFromContext(ctx)
	if !ok {
		return nil, errNoUser
	}

	resp, err := h.src.Brief(ctx, brief.Request{UserID: uid})
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
