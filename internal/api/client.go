// Package api is the HTTP client for the POS backend. Every method returns
// either a decoded resource or an *Error.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// maxErrorBody caps how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// TokenSource supplies the bearer token for each request. "" sends none.
type TokenSource interface {
	Token() string
}

type Client struct {
	baseURL string
	client  *http.Client

	mu     sync.RWMutex
	tokens TokenSource
}

// New returns a client for the API rooted at baseURL. Paths are resolved
// relative to it, so "http://host/api" and "http://host/api/" are the same.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must be http or https", baseURL)
	}

	return &Client{
		baseURL: strings.TrimSuffix(u.String(), "/") + "/",
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// SetTokenSource installs the source of the bearer token. It is set after
// construction because the session controller that owns the token is itself
// built on top of this client.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tokens = ts
}

func (c *Client) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.tokens == nil {
		return ""
	}

	return c.tokens.Token()
}

type call struct {
	method string
	path   string
	query  url.Values
	body   any
	header http.Header
}

// do sends the call and decodes a 2xx body into out. When envelope keys are
// given and the body is an object holding one of them, that member is
// decoded instead of the whole body.
func (c *Client) do(ctx context.Context, in call, out any, envelope ...string) error {
	target := c.baseURL + strings.TrimPrefix(in.path, "/")
	if len(in.query) > 0 {
		target += "?" + in.query.Encode()
	}

	var body io.Reader

	if in.body != nil {
		b, err := json.Marshal(in.body)
		if err != nil {
			return requestError(fmt.Errorf("encoding body: %w", err))
		}

		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, in.method, target, body)
	if err != nil {
		return requestError(fmt.Errorf("creating request: %w", err))
	}

	req.Header.Set("Accept", "application/json")

	if in.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	for k, vs := range in.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("%s %s: %w", in.method, in.path, context.Canceled)
		}

		return networkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return serverError(resp.StatusCode, extractMessage(raw))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("%s %s: %w", in.method, in.path, context.Canceled)
		}

		return networkError(fmt.Errorf("reading response: %w", err))
	}

	if err := decodeEnvelope(raw, out, envelope...); err != nil {
		return &Error{
			Kind:    KindServer,
			Status:  resp.StatusCode,
			Message: "El servidor envió una respuesta inválida.",
			Err:     err,
		}
	}

	return nil
}

func decodeEnvelope(raw []byte, out any, keys ...string) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return errors.New("empty response body")
	}

	if len(keys) > 0 && raw[0] == '{' {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err == nil {
			for _, k := range keys {
				if inner, ok := fields[k]; ok && !bytes.Equal(bytes.TrimSpace(inner), []byte("null")) {
					return json.Unmarshal(inner, out)
				}
			}
		}
	}

	return json.Unmarshal(raw, out)
}

// extractMessage pulls a human-readable message out of an error body.
func extractMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   any    `json:"error"`
		Detail  string `json:"detail"`
	}

	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}

	if body.Message != "" {
		return body.Message
	}

	if s, ok := body.Error.(string); ok && s != "" {
		return s
	}

	return body.Detail
}

func pathID(id string) string {
	return url.PathEscape(strings.TrimSpace(id))
}
