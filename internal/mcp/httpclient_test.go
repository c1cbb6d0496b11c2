package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/nhanzalone1/netgains/internal/brief"
)

func writeTestJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Error(err)
	}
}

// TestHTTPClientBrief verifies the path, query params and headers sent to the REST API.
func TestHTTPClientBrief(t *testing.T) {
	user := uuid.New()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/brief" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("date"); got != "2026-03-12" {
			t.Errorf("date = %q", got)
		}
		if got := r.URL.Query().Get("tz"); got != "Europe/Berlin" {
			t.Errorf("tz = %q", got)
		}
		if got := r.Header.Get("X-User-ID"); got != user.String() {
			t.Errorf("X-User-ID = %q", got)
		}
		if got := r.Header.Get("X-API-Key"); got != "secret" {
			t.Errorf("X-API-Key = %q", got)
		}
		writeTestJSON(t, w, http.StatusOK, generated())
	}))
	defer ts.Close()

	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("tzdata unavailable")
	}

	client := NewHTTPClient(ts.URL+"/", "secret")
	resp, err := client.Brief(context.Background(), brief.Request{UserID: user, EffectiveDate: "2026-03-12", Location: berlin})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Status != brief.StatusGenerated || resp.Brief.Target != "Beat Back Squat 140x5" {
		t.Errorf("response = %+v", resp)
	}
}

// TestHTTPClientOmitsEmptyParams verifies no date, tz or user headers are invented.
func TestHTTPClientOmitsEmptyParams(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "" {
			t.Errorf("query = %q, want empty", r.URL.RawQuery)
		}
		if r.Header.Get("X-User-ID") != "" || r.Header.Get("X-API-Key") != "" {
			t.Errorf("unexpected identity headers: %v", r.Header)
		}
		writeTestJSON(t, w, http.StatusOK, brief.Response{Status: brief.StatusNotOnboarded})
	}))
	defer ts.Close()

	resp, err := NewHTTPClient(ts.URL, "").Brief(context.Background(), brief.Request{})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Status != brief.StatusNotOnboarded {
		t.Errorf("status = %s", resp.Status)
	}
}

// TestHTTPClientErrorStatus verifies a non-200 reply becomes an error carrying the body.
func TestHTTPClientErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeTestJSON(t, w, http.StatusUnauthorized, map[string]string{"status": "unauthenticated"})
	}))
	defer ts.Close()

	_, err := NewHTTPClient(ts.URL, "").Brief(context.Background(), brief.Request{UserID: uuid.New()})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "401") || !strings.Contains(err.Error(), "unauthenticated") {
		t.Errorf("err = %v", err)
	}
}
