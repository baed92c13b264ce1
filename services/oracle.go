package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"Reelpick/config"
	"Reelpick/logger"

	"github.com/sony/gobreaker/v2"
)

// Oracle is the port to the generative-text service used to brainstorm
// candidate titles.
type Oracle interface {
	Complete(ctx context.Context, prompt string) (string, error)
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
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// ChatOracle calls an OpenAI-compatible chat-completions endpoint. Calls run
// through a circuit breaker so a failing model API is not hammered by every
// incoming recommendation request.
type ChatOracle struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[string]
}

func NewChatOracle(cfg *config.Config) *ChatOracle {
	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:    "oracle",
		Timeout: time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("oracle circuit state changed")
		},
	})

	return &ChatOracle{
		apiKey:  cfg.OracleAPIKey,
		baseURL: cfg.OracleBaseURL,
		model:   cfg.OracleModel,
		client:  &http.Client{Timeout: 30 * time.Second},
		breaker: cb,
	}
}

// Complete sends a single-prompt completion request and returns the model's
// raw text response.
func (o *ChatOracle) Complete(ctx context.Context, prompt string) (string, error) {
	text, err := o.breaker.Execute(func() (string, error) {
		return o.complete(ctx, prompt)
	})
	if err != nil {
		return "", &UpstreamError{Op: "oracle completion", Err: err}
	}
	return text, nil
}

func (o *ChatOracle) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:    o.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		o.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("oracle error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("oracle returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
