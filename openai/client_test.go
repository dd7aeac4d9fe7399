package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	openaipkg "hospital-ai/openai"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func completionBody(contents ...string) string {
	choices := make([]map[string]any, 0, len(contents))
	for i, c := range contents {
		choices = append(choices, map[string]any{
			"index":         i,
			"message":       map[string]any{"role": "assistant", "content": c},
			"finish_reason": "stop",
		})
	}
	b, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "llama-3.3-70b-versatile",
		"choices": choices,
	})
	return string(b)
}

func TestComplete_SendsSingleUserMessage(t *testing.T) {
	var got chatRequest
	var auth, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody(`Sure! {"id": 3, "name": "Dr. Lee"}`)))
	}))
	defer srv.Close()

	c := openaipkg.NewClient("groq", "gsk-test", srv.URL+"/v1", srv.Client())
	text, err := c.Complete(context.Background(), "llama-3.3-70b-versatile", "hello")
	require.NoError(t, err)

	assert.Equal(t, `Sure! {"id": 3, "name": "Dr. Lee"}`, text)
	assert.Equal(t, "Bearer gsk-test", auth)
	assert.Equal(t, "/v1/chat/completions", path)
	assert.Equal(t, "llama-3.3-70b-versatile", got.Model)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "hello", got.Messages[0].Content)
	assert.Equal(t, "groq", c.Backend)
}

func TestComplete_ReturnsFirstChoice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(completionBody("first", "second")))
	}))
	defer srv.Close()

	c := openaipkg.NewClient("gemini", "k", srv.URL, nil)
	text, err := c.Complete(context.Background(), "gemini-2.5-flash", "p")
	require.NoError(t, err)
	assert.Equal(t, "first", text)
}

func TestComplete_ClassifiesFailures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		kind   openaipkg.Kind
	}{
		{"auth", http.StatusUnauthorized, `{"error":{"message":"Invalid API Key","type":"invalid_request_error","code":"invalid_api_key"}}`, openaipkg.KindAuth},
		{"forbidden", http.StatusForbidden, `{"error":{"message":"denied","type":"permission_error"}}`, openaipkg.KindAuth},
		{"rate limit", http.StatusTooManyRequests, `{"error":{"message":"Rate limit reached","type":"tokens"}}`, openaipkg.KindRateLimit},
		{"server error", http.StatusInternalServerError, `{"error":{"message":"boom","type":"server_error"}}`, openaipkg.KindProvider},
		{"unparseable error body", http.StatusBadGateway, `<html>bad gateway</html>`, openaipkg.KindProvider},
		{"no choices", http.StatusOK, completionBody(), openaipkg.KindEmpty},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := openaipkg.NewClient("groq", "k", srv.URL, nil)
			_, err := c.Complete(context.Background(), "m", "p")
			require.Error(t, err)

			var upErr *openaipkg.UpstreamError
			require.True(t, errors.As(err, &upErr), "got %T", err)
			assert.Equal(t, tc.kind, upErr.Kind)
			if tc.status != http.StatusOK {
				assert.Equal(t, tc.status, upErr.StatusCode)
			}
		})
	}
}

func TestComplete_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := openaipkg.NewClient("groq", "k", url, nil)
	_, err := c.Complete(context.Background(), "m", "p")

	var upErr *openaipkg.UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, openaipkg.KindNetwork, upErr.Kind)
	assert.Zero(t, upErr.StatusCode)
}

func TestComplete_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := openaipkg.NewClient("groq", "k", srv.URL, nil)
	_, err := c.Complete(ctx, "m", "p")

	var upErr *openaipkg.UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, openaipkg.KindTimeout, upErr.Kind)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
