// Package aigen wraps a text-generation model behind the single opaque
// capability the conversational responder needs: generate(system, user)
// text.
package aigen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/neurobridge-backend/internal/platform/ctxutil"
	"github.com/yungbote/neurobridge-backend/internal/platform/envutil"
	"github.com/yungbote/neurobridge-backend/internal/platform/httpx"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

func ConfigFromEnv() Config {
	return Config{
		APIKey:     envutil.String("AI_GENERATOR_API_KEY", ""),
		BaseURL:    envutil.String("AI_GENERATOR_BASE_URL", "https://api.openai.com"),
		Model:      envutil.String("AI_GENERATOR_MODEL", "gpt-4o-mini"),
		Timeout:    envutil.Duration("AI_GENERATOR_TIMEOUT_SECONDS", 30),
		MaxRetries: envutil.Int("AI_GENERATOR_MAX_RETRIES", 2),
	}
}

func NewFromEnv(log *logger.Logger) (Generator, error) {
	return New(log, ConfigFromEnv())
}

func New(log *logger.Logger, cfg Config) (Generator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("aigen: missing AI_GENERATOR_API_KEY")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 2
	}
	return &client{
		log:        log.With("client", "AIGeneratorClient"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
}

type responsesRequest struct {
	Model string `json:"model"`
	Input []responsesMessage `json:"input"`
}

type responsesMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responsesResponse struct {
	OutputText string `json:"output_text"`
	Refusal    string `json:"refusal,omitempty"`
}

func (c *client) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	wire := responsesRequest{
		Model: c.cfg.Model,
		Input: []responsesMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}

	var resp responsesResponse
	if err := c.do(ctx, "POST", "/v1/responses", wire, &resp); err != nil {
		return "", err
	}
	if resp.Refusal != "" {
		return "", fmt.Errorf("aigen: model refused: %s", resp.Refusal)
	}
	text := strings.TrimSpace(resp.OutputText)
	if text == "" {
		return "", fmt.Errorf("aigen: empty generation result")
	}
	return text, nil
}

type httpError struct {
	StatusCode int
	Body       string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("aigen http %d: %s", e.StatusCode, e.Body)
}

func (e *httpError) HTTPStatusCode() int { return e.StatusCode }

func (c *client) do(ctx context.Context, method, path string, body, out any) error {
	backoffDelay := time.Second
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		resp, raw, err := c.doOnce(ctx, method, path, body)
		if err == nil {
			return json.Unmarshal(raw, out)
		}
		if !httpx.IsRetryableError(err) || attempt == c.cfg.MaxRetries {
			return err
		}
		sleepFor := httpx.RetryAfterDuration(resp, backoffDelay, 10*time.Second)
		sleepFor = httpx.JitterSleep(sleepFor)
		c.log.Warn("aigen request retrying", "path", path, "attempt", attempt+1, "sleep", sleepFor.String(), "error", err.Error())
		time.Sleep(sleepFor)
		backoffDelay *= 2
	}
	return fmt.Errorf("unreachable retry loop")
}

func (c *client) doOnce(ctx context.Context, method, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctxutil.Default(ctx), method, strings.TrimRight(c.cfg.BaseURL, "/")+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &httpError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}
