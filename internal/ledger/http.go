package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"docreview/internal/config"
	"docreview/internal/model"
)

// httpClient talks JSON over HTTP to the ledger target. The target is
// fixed for the client's lifetime. Safe for concurrent use.
type httpClient struct {
	base string
	hc   *http.Client
}

// NewHTTPClient resolves the ledger target from cfg and builds a client
// for it. An unresolved target is a constructor-time error, never a
// degraded client.
func NewHTTPClient(cfg config.LedgerConfig) (Client, error) {
	target := cfg.ResolveTarget()
	if target == "" {
		return nil, ErrTargetUnresolved
	}

	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &httpClient{
		base: strings.TrimRight(target, "/"),
		hc: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}, nil
}

type registerRequest struct {
	ContentID string `json:"content_id"`
}

type statusResponse struct {
	Status model.Status `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *httpClient) Register(ctx context.Context, contentID string) error {
	body, err := json.Marshal(registerRequest{ContentID: contentID})
	if err != nil {
		return fmt.Errorf("encode register request: %w", err)
	}

	resp, err := c.do(ctx, "register", http.MethodPost, "/documents", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// The ledger deduplicates; a conflict means the id is already
	// registered, which is success from the caller's point of view.
	if resp.StatusCode == http.StatusConflict {
		return nil
	}
	return checkStatus("register", resp)
}

func (c *httpClient) GetStatus(ctx context.Context, contentID string) (model.Status, error) {
	resp, err := c.do(ctx, "status", http.MethodGet, "/documents/"+contentID+"/status", nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := checkStatus("status", resp); err != nil {
		return "", err
	}

	var out statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &TransportError{Op: "status", Err: fmt.Errorf("decode response: %w", err)}
	}
	if !out.Status.Valid() {
		return "", &TransportError{Op: "status", Err: fmt.Errorf("unexpected status %q", out.Status)}
	}
	return out.Status, nil
}

func (c *httpClient) Approve(ctx context.Context, contentID string) error {
	return c.moderate(ctx, "approve", contentID)
}

func (c *httpClient) Deny(ctx context.Context, contentID string) error {
	return c.moderate(ctx, "deny", contentID)
}

func (c *httpClient) moderate(ctx context.Context, action, contentID string) error {
	resp, err := c.do(ctx, action, http.MethodPost, "/documents/"+contentID+"/"+action, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return checkStatus(action, resp)
}

func (c *httpClient) do(ctx context.Context, op, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		// Transport failure: outcome unknown, not a definite rejection.
		return nil, &TransportError{Op: op, Err: err}
	}
	return resp, nil
}

// checkStatus maps an HTTP response to the error taxonomy: 2xx is success,
// other 4xx is a definite rejection, everything else is unknown outcome.
func checkStatus(op string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return &RejectedError{Op: op, Status: resp.StatusCode, Reason: readReason(resp)}
	}
	return &TransportError{Op: op, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
}

func readReason(resp *http.Response) string {
	var out errorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&out); err == nil && out.Error != "" {
		return out.Error
	}
	return http.StatusText(resp.StatusCode)
}
