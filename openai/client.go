package openai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"

	openai "github.com/sashabaranov/go-openai"
)

// Kind classifies a failed completion call.
type Kind string

const (
	KindNetwork   Kind = "network"
	KindTimeout   Kind = "timeout"
	KindAuth      Kind = "auth"
	KindRateLimit Kind = "rate_limit"
	KindProvider  Kind = "provider"
	KindEmpty     Kind = "empty"
)

// UpstreamError is returned for every failed call to the completion API.
type UpstreamError struct {
	Kind       Kind
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("completion %s error (status %d): %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("completion %s error: %v", e.Kind, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

var errNoChoices = errors.New("reply has no choices")

// Client sends single-message chat completions to an OpenAI-compatible
// endpoint. Groq and Gemini both expose one.
type Client struct {
	api     *openai.Client
	Backend string
}

// NewClient builds a client for baseURL. A nil httpClient uses
// http.DefaultClient.
func NewClient(backend, apiKey, baseURL string, httpClient *http.Client) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return &Client{api: openai.NewClientWithConfig(cfg), Backend: backend}
}

// Complete makes exactly one chat completion call and returns the text of
// the first choice. There is no retry; ctx bounds the call.
func (c *Client) Complete(ctx context.Context, model, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", &UpstreamError{Kind: KindEmpty, Err: errNoChoices}
	}
	return resp.Choices[0].Message.Content, nil
}

func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &UpstreamError{Kind: KindTimeout, Err: err}
	}

	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &UpstreamError{Kind: KindAuth, StatusCode: status, Err: err}
	case status == http.StatusTooManyRequests:
		return &UpstreamError{Kind: KindRateLimit, StatusCode: status, Err: err}
	case status != 0:
		return &UpstreamError{Kind: KindProvider, StatusCode: status, Err: err}
	}

	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) {
		return &UpstreamError{Kind: KindNetwork, Err: err}
	}
	return &UpstreamError{Kind: KindProvider, Err: err}
}
