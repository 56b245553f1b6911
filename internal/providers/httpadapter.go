package providers

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
	"github.com/yungbote/neurobridge-backend/internal/platform/httpx"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

// httpAdapter is the shared retrying JSON HTTP client every provider
// adapter in this package builds on, mirroring the shape of
// platform/sendgrid's client.do/doOnce.
type httpAdapter struct {
	log        *logger.Logger
	baseURL    string
	httpClient *http.Client
	maxRetries int
	authHeader func(req *http.Request)
}

func newHTTPAdapter(log *logger.Logger, name, baseURL string, timeout time.Duration, maxRetries int, authHeader func(req *http.Request)) *httpAdapter {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if maxRetries <= 0 {
		maxRetries = 4
	}
	return &httpAdapter{
		log:        log.With("provider", name),
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		authHeader: authHeader,
	}
}

type adapterHTTPError struct {
	StatusCode int
	Body       string
}

func (e *adapterHTTPError) Error() string {
	return fmt.Sprintf("provider http %d: %s", e.StatusCode, e.Body)
}

func (e *adapterHTTPError) HTTPStatusCode() int { return e.StatusCode }

func (a *httpAdapter) do(ctx context.Context, method, path string, body, out any) error {
	backoffDelay := time.Second

	for attempt := 0; attempt <= a.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		resp, raw, err := a.doOnce(ctx, method, path, body)
		if err == nil {
			if out != nil && len(raw) > 0 {
				return json.Unmarshal(raw, out)
			}
			return nil
		}

		if !httpx.IsRetryableError(err) || attempt == a.maxRetries {
			return err
		}

		sleepFor := httpx.RetryAfterDuration(resp, backoffDelay, 10*time.Second)
		sleepFor = httpx.JitterSleep(sleepFor)

		a.log.Warn("provider request retrying",
			"path", path,
			"attempt", attempt+1,
			"max_retries", a.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		time.Sleep(sleepFor)
		backoffDelay *= 2
	}
	return fmt.Errorf("unreachable retry loop")
}

func (a *httpAdapter) doOnce(ctx context.Context, method, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctxutil.Default(ctx), method, a.baseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if a.authHeader != nil {
		a.authHeader(req)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &adapterHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}
