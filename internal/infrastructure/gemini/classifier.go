// Package gemini calls the Google Gemini generateContent API to classify
// near-expiry stock for donation or compost routing.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/freshtrack/backend/internal/domain"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Classifier implements domain.FreshnessClassifier on the Gemini API
type Classifier struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

// NewClassifier creates a Gemini-backed classifier. Returns nil when no API
// key is configured so callers fall back to deterministic routing.
func NewClassifier(apiKey, model string) *Classifier {
	if apiKey == "" {
		return nil
	}
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &Classifier{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		model:      model,
	}
}

// SetBaseURL overrides the API endpoint (used by tests)
func (c *Classifier) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// routingAnswer is the JSON shape the prompt instructs the model to return
type routingAnswer struct {
	Destination string `json:"destination"`
	Reason      string `json:"reason"`
}

// RouteItem asks the model whether the item should be discounted, donated, or
// composted, and validates the answer before passing it on.
func (c *Classifier) RouteItem(ctx context.Context, productName string, daysLeft int) (*domain.RoutingDecision, error) {
	prompt := buildRoutingPrompt(productName, daysLeft)

	payload := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
		"generationConfig": map[string]any{
			"temperature":     0.2,
			"maxOutputTokens": 256,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrClassifierUnavailable, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrClassifierUnavailable, resp.StatusCode)
	}

	text, err := extractText(raw)
	if err != nil {
		return nil, err
	}

	var answer routingAnswer
	if err := json.Unmarshal([]byte(stripCodeFences(text)), &answer); err != nil {
		return nil, fmt.Errorf("%w: unparseable answer", domain.ErrClassifierUnavailable)
	}

	destination := domain.ItemDestination(strings.ToLower(strings.TrimSpace(answer.Destination)))
	switch destination {
	case domain.DestinationDiscount, domain.DestinationDonate, domain.DestinationCompost:
	default:
		return nil, fmt.Errorf("%w: unknown destination %q", domain.ErrClassifierUnavailable, answer.Destination)
	}

	return &domain.RoutingDecision{
		Destination: destination,
		Reason:      answer.Reason,
		Source:      "ai",
	}, nil
}

// buildRoutingPrompt constrains the model to a JSON-only answer
func buildRoutingPrompt(productName string, daysLeft int) string {
	return fmt.Sprintf(`You are helping a food retailer route near-expiry stock.
Product: %q
Days until printed expiry date: %d (negative means already expired).

Answer with JSON only, no prose, in exactly this shape:
{"destination": "discount" | "donate" | "compost", "reason": "<one short sentence>"}

Rules: expired perishables (dairy, meat, fish, prepared food) must be composted;
expired shelf-stable goods and safe near-expiry food can be donated; food with
useful shelf life left should be discounted for quick sale.`, productName, daysLeft)
}

// extractText pulls candidates[0].content.parts[0].text out of the response
func extractText(raw []byte) (string, error) {
	var resp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrClassifierUnavailable, err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty response", domain.ErrClassifierUnavailable)
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

// stripCodeFences removes markdown fences some model versions wrap around JSON
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
