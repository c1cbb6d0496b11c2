// Package coach rephrases a computed brief through an OpenAI-compatible
// chat completion API (OpenRouter by default). It only ever proposes text;
// the engine decides whether to use it.
package coach

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/template"
	"time"

	"github.com/nhanzalone1/netgains/internal/brief"
)

const DefaultBaseURL = "https://openrouter.ai/api/v1"

var (
	// ErrEmptyResponse means the API answered without any choice content.
	ErrEmptyResponse = errors.New("coach: empty response")
	// ErrInvalidEnrichment means the content held no usable focus/target JSON.
	ErrInvalidEnrichment = errors.New("coach: invalid enrichment")
)

const systemPrompt = `You are a concise strength coach writing the headline of a daily training card. ` +
	`Rephrase the given facts without changing any number, exercise or day type. ` +
	`Return only JSON: {"focus": "...", "target": "..."}.`

var userPromptTmpl = template.Must(template.New("user").Parse(`Date: {{.Date}}
Mode: {{.Mode}}
Focus: {{.Focus}}
{{- if .Target}}
Target: {{.Target}}
{{- end}}
{{- if .Achievement}}
Best set today: {{.Achievement}}
{{- end}}
{{- range .PRs}}
New record: {{.Exercise}} {{.Weight}}x{{.Reps}}
{{- end}}
Consumed: {{printf "%.0f" .Consumed.Calories}} kcal, {{printf "%.0f" .Consumed.Protein}} g protein
{{- with .Goals}}
Goal: {{printf "%.0f" .Calories}} kcal, {{printf "%.0f" .Protein}} g protein
{{- end}}

Keep focus under {{.MaxFocus}} characters and target under {{.MaxTarget}} characters.`))

// Config configures the client.
type Config struct {
	BaseURL   string
	APIKey    string
	Model     string
	MaxFocus  int
	MaxTarget int
	// Timeout bounds the HTTP round trip. The engine applies its own, usually shorter, deadline.
	Timeout time.Duration
}

// Client implements brief.Generator.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

var _ brief.Generator = (*Client)(nil)

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxFocus <= 0 {
		cfg.MaxFocus = 40
	}
	if cfg.MaxTarget <= 0 {
		cfg.MaxTarget = 120
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{cfg: cfg, httpClient: &http.Client{Timeout: cfg.Timeout}}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// Enrich asks the model to rephrase facts.
func (c *Client) Enrich(ctx context.Context, facts brief.Facts) (*brief.Enrichment, error) {
	prompt, err := c.userPrompt(facts)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.4,
	})
	if err != nil {
		return nil, fmt.Errorf("coach: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("coach: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	req.Header.Set("X-Title", "NetGains")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("coach: send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("coach: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("coach: api returned %d: %s", resp.StatusCode, body)
	}

	var cr chatResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return nil, fmt.Errorf("coach: parse response: %w", err)
	}
	if cr.Error != nil {
		return nil, fmt.Errorf("coach: api error %d: %s", cr.Error.Code, cr.Error.Message)
	}
	if len(cr.Choices) == 0 || strings.TrimSpace(cr.Choices[0].Message.Content) == "" {
		return nil, ErrEmptyResponse
	}

	return parseEnrichment(cr.Choices[0].Message.Content)
}

func (c *Client) userPrompt(facts brief.Facts) (string, error) {
	var buf bytes.Buffer
	err := userPromptTmpl.Execute(&buf, struct {
		brief.Facts
		MaxFocus  int
		MaxTarget int
	}{facts, c.cfg.MaxFocus, c.cfg.MaxTarget})
	if err != nil {
		return "", fmt.Errorf("coach: render prompt: %w", err)
	}
	return buf.String(), nil
}

// parseEnrichment extracts {"focus","target"} from model output. Bounds
// are checked by the engine, not here.
func parseEnrichment(content string) (*brief.Enrichment, error) {
	raw := extractJSON(content)
	if raw == "" {
		return nil, fmt.Errorf("%w: no JSON object in %q", ErrInvalidEnrichment, truncate(content, 80))
	}
	var en brief.Enrichment
	if err := json.Unmarshal([]byte(raw), &en); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEnrichment, err)
	}
	if strings.TrimSpace(en.Focus) == "" || strings.TrimSpace(en.Target) == "" {
		return nil, fmt.Errorf("%w: missing focus or target", ErrInvalidEnrichment)
	}
	return &en, nil
}

// truncate keeps at most n runes of s.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
