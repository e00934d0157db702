// Package provider implements the client for the remote explanation
// provider: Groq's OpenAI-compatible chat completions API running a llama3
// model.  One request is made per lookup; there are no retries and no
// circuit breaker, the caller simply blocks until the call completes or the
// client timeout fires.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrUnavailable signals that the provider could not be reached or answered
// with a non-success status.  Handlers surface it as an upstream failure.
var ErrUnavailable = errors.New("explanation provider unavailable")

// ErrNoExplanation signals that the provider answered successfully but the
// response carried no usable explanation text.  This is a distinct outcome
// from a transport failure and maps to "no explanation available".
var ErrNoExplanation = errors.New("no explanation available")

// GroqClient talks to the Groq chat completions endpoint.
type GroqClient struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

// NewGroqClient builds a client.  baseURL should point at the
// OpenAI-compatible root (e.g. https://api.groq.com/openai/v1); it is
// overridable so tests can point the client at a local fake.
func NewGroqClient(baseURL, apiKey, model string) *GroqClient {
	return &GroqClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Explain asks the model for a short explanation of a single emoji.  The
// call is synchronous and attempted exactly once.
func (c *GroqClient) Explain(ctx context.Context, emoji string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{{
			Role:    "user",
			Content: fmt.Sprintf("Explain the meaning and common usage of the emoji %q in one short paragraph.", emoji),
		}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused, then report the status.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(out.Choices) == 0 {
		return "", ErrNoExplanation
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return "", ErrNoExplanation
	}
	return text, nil
}
