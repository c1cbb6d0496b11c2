package coach

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/nhanzalone1/netgains/internal/brief"
	"github.com/nhanzalone1/netgains/internal/calendar"
	"github.com/nhanzalone1/netgains/internal/models"
)

func sampleFacts() brief.Facts {
	return brief.Facts{
		Date:        calendar.Date(2026, 3, 13),
		Mode:        brief.ModePostWorkout,
		Focus:       "Push Complete",
		Achievement: "Bench Press 200x5",
		PRs:         []brief.PR{{Exercise: "Bench Press", Weight: 200, Reps: 5}},
		Consumed:    models.NutritionTotals{Calories: 1850, Protein: 140},
		Goals:       &models.NutritionTotals{Calories: 2600, Protein: 180},
	}
}

func chatServer(t *testing.T, status int, content string, inspect func(r *http.Request, req chatRequest)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if inspect != nil {
			inspect(r, req)
		}
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"content": content}}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

// TestEnrichSendsFactsAndParsesReply verifies the request shape and a fenced JSON reply.
func TestEnrichSendsFactsAndParsesReply(t *testing.T) {
	reply := "Here you go:\n```json\n{\"focus\": \"Push Day Crushed\", \"target\": \"200 for 5 on bench, new best\",}\n```"
	srv := chatServer(t, http.StatusOK, reply, func(r *http.Request, req chatRequest) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("authorization = %q", got)
		}
		if req.Model != "test/model" || len(req.Messages) != 2 {
			t.Errorf("request = %+v", req)
		}
		user := req.Messages[1].Content
		for _, want := range []string{"Mode: post_workout", "New record: Bench Press 200x5", "Goal: 2600 kcal", "under 40 characters"} {
			if !strings.Contains(user, want) {
				t.Errorf("prompt missing %q:\n%s", want, user)
			}
		}
	})

	c := NewClient(Config{BaseURL: srv.URL + "/", APIKey: "sk-test", Model: "test/model"})
	en, err := c.Enrich(context.Background(), sampleFacts())
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if en.Focus != "Push Day Crushed" || en.Target != "200 for 5 on bench, new best" {
		t.Errorf("enrichment = %+v", en)
	}
}

// TestEnrichFailures verifies each failure surfaces as an error for the engine to discard.
func TestEnrichFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		content string
		wantErr error
	}{
		{"server error", http.StatusBadGateway, "", nil},
		{"empty content", http.StatusOK, "   ", ErrEmptyResponse},
		{"prose only", http.StatusOK, "Great job today!", ErrInvalidEnrichment},
		{"missing target", http.StatusOK, `{"focus": "Pull"}`, ErrInvalidEnrichment},
		{"broken json", http.StatusOK, `{"focus": "Pull", "target": }`, ErrInvalidEnrichment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := chatServer(t, tt.status, tt.content, nil)
			_, err := NewClient(Config{BaseURL: srv.URL}).Enrich(context.Background(), sampleFacts())
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestEnrichHonorsContext verifies a cancelled context aborts the call.
func TestEnrichHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := NewClient(Config{BaseURL: srv.URL}).Enrich(ctx, sampleFacts())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
}

// TestExtractJSON covers the cleanup applied to model output.
func TestExtractJSON(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`{"a": 1}`, `{"a": 1}`},
		{"```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"sure! {\"a\": \"x//y\", // note\n}", `{"a": "x//y"}`},
		{"no json", ""},
	}
	for _, tt := range tests {
		if got := extractJSON(tt.in); got != tt.want {
			t.Errorf("extractJSON(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestTruncateKeepsRunesWhole verifies error snippets never split a character.
func TestTruncateKeepsRunesWhole(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"Brustpresse", 5, "Brust..."},
		{"Übung für Brust", 3, "Übu..."},
		{"💪💪💪", 2, "💪💪..."},
	}
	for _, tt := range tests {
		got := truncate(tt.in, tt.n)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("truncate(%q, %d) produced invalid UTF-8", tt.in, tt.n)
		}
	}
}
