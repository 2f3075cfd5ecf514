// Package llm talks to a local Ollama server.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

type GenerateRequest struct {
	Task         TaskType
	SystemPrompt string
	UserPrompt   string
	// JSON asks the server to constrain output to a JSON document.
	JSON bool
}

type GenerateResponse struct {
	Text      string
	Model     string
	LatencyMs int64
	Attempts  int
}

// Client generates text from a prompt.
type Client interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
	// Available reports whether the server answers at all.
	Available(ctx context.Context) bool
}

type ollamaClient struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewOllamaClient returns a Client for cfg.Endpoint. A nil observer
// discards call events.
func NewOllamaClient(cfg Config, observer Observer) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &ollamaClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
			},
		},
		observer: observer,
	}
}

type generateBody struct {
	Model   string          `json:"model"`
	System  string          `json:"system,omitempty"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Format  string          `json:"format,omitempty"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type generateReply struct {
	Model    string `json:"model"`
	Response string `json:"response"`
}

// statusError is a non-200 reply. 5xx replies are retried, 4xx are not.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("ollama returned status %d: %s", e.code, e.body)
}

func (c *ollamaClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()
	report := func(err error) {
		c.observer.OnCallComplete(CallEvent{
			Task:      req.Task,
			Model:     c.cfg.Model,
			LatencyMs: time.Since(start).Milliseconds(),
			Success:   err == nil,
			ErrorCode: errorCode(err),
		})
	}

	if !c.cfg.Enabled {
		report(ErrDisabled)
		return nil, ErrDisabled
	}

	task := c.cfg.Tasks[req.Task]
	body := generateBody{
		Model:   c.cfg.Model,
		System:  req.SystemPrompt,
		Prompt:  req.UserPrompt,
		Options: generateOptions{Temperature: task.Temperature, NumPredict: task.MaxTokens},
	}
	if req.JSON {
		body.Format = "json"
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	attempts := 1 + max(0, c.cfg.MaxRetries)
	var lastErr error
	for n := 1; n <= attempts; n++ {
		reply, err := c.attempt(ctx, payload, c.cfg.TaskTimeout(req.Task))
		if err == nil {
			report(nil)
			return &GenerateResponse{
				Text:      reply.Response,
				Model:     reply.Model,
				LatencyMs: time.Since(start).Milliseconds(),
				Attempts:  n,
			}, nil
		}
		lastErr = err
		if ctx.Err() != nil || !retryable(err) {
			break
		}
	}

	err = classify(ctx, lastErr)
	report(err)
	return nil, err
}

// attempt makes one request bounded by timeout.
func (c *ollamaClient) attempt(ctx context.Context, payload []byte, timeout time.Duration) (*generateReply, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode, body: string(data)}
	}

	var reply generateReply
	if err := json.Unmarshal(data, &reply); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrInvalidOutput, err)
	}
	return &reply, nil
}

func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 500
	}
	return !errors.Is(err, ErrInvalidOutput)
}

func classify(ctx context.Context, err error) error {
	switch {
	case ctx.Err() != nil, errors.Is(err, ErrTimeout):
		return ErrTimeout
	case isConnectionError(err):
		return ErrOllamaUnavailable
	case errors.Is(err, ErrInvalidOutput):
		return err
	}
	return fmt.Errorf("%w: %v", ErrRetryExhausted, err)
}

func isConnectionError(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

func (c *ollamaClient) Available(ctx context.Context) bool {
	if !c.cfg.Enabled {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Endpoint+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
