package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshtrack/backend/internal/domain"
)

func generateContentResponse(text string) string {
	resp := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]string{{"text": text}}}},
		},
	}
	raw, _ := json.Marshal(resp)
	return string(raw)
}

func newTestClassifier(t *testing.T, handler http.HandlerFunc) *Classifier {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	classifier := NewClassifier("test-key", "gemini-1.5-flash")
	require.NotNil(t, classifier)
	classifier.SetBaseURL(server.URL)
	return classifier
}

func TestNewClassifier_NoAPIKey(t *testing.T) {
	assert.Nil(t, NewClassifier("", "gemini-1.5-flash"))
}

func TestClassifier_RouteItem(t *testing.T) {
	t.Run("valid answer", func(t *testing.T) {
		classifier := newTestClassifier(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/models/gemini-1.5-flash:generateContent", r.URL.Path)
			assert.Equal(t, "test-key", r.URL.Query().Get("key"))
			fmt.Fprint(w, generateContentResponse(`{"destination": "compost", "reason": "expired dairy"}`))
		})

		decision, err := classifier.RouteItem(context.Background(), "Whole Milk 1L", -2)

		require.NoError(t, err)
		assert.Equal(t, domain.DestinationCompost, decision.Destination)
		assert.Equal(t, "expired dairy", decision.Reason)
		assert.Equal(t, "ai", decision.Source)
	})

	t.Run("fenced answer accepted", func(t *testing.T) {
		text := "```json\n{\"destination\": \"donate\", \"reason\": \"still sealed\"}\n```"
		classifier := newTestClassifier(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, generateContentResponse(text))
		})

		decision, err := classifier.RouteItem(context.Background(), "Canned Beans", 1)

		require.NoError(t, err)
		assert.Equal(t, domain.DestinationDonate, decision.Destination)
	})

	t.Run("unknown destination rejected", func(t *testing.T) {
		classifier := newTestClassifier(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, generateContentResponse(`{"destination": "landfill", "reason": "no"}`))
		})

		_, err := classifier.RouteItem(context.Background(), "Bread", 0)

		assert.ErrorIs(t, err, domain.ErrClassifierUnavailable)
	})

	t.Run("prose answer rejected", func(t *testing.T) {
		classifier := newTestClassifier(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, generateContentResponse("I think you should donate it."))
		})

		_, err := classifier.RouteItem(context.Background(), "Bread", 0)

		assert.ErrorIs(t, err, domain.ErrClassifierUnavailable)
	})

	t.Run("api error", func(t *testing.T) {
		classifier := newTestClassifier(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})

		_, err := classifier.RouteItem(context.Background(), "Bread", 0)

		assert.ErrorIs(t, err, domain.ErrClassifierUnavailable)
	})

	t.Run("empty candidates", func(t *testing.T) {
		classifier := newTestClassifier(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"candidates": []}`)
		})

		_, err := classifier.RouteItem(context.Background(), "Bread", 0)

		assert.ErrorIs(t, err, domain.ErrClassifierUnavailable)
	})
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences(`{"a":1}`))
}
