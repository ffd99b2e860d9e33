// Package api talks to the user, transaction and report services behind the
// API gateway. Every call is a single synchronous HTTP request; nothing is retried.
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
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jask/expensetracker/internal/logger"
)

const (
	SubscriptionKeyHeader = "Ocp-Apim-Subscription-Key"
	RequestIDHeader       = "X-Request-ID"

	maxBody = 4 << 20
)

// ErrNotAuthenticated is returned before sending a request that needs a bearer token when there is none.
var ErrNotAuthenticated = errors.New("api: not logged in")

// TokenSource supplies the current bearer token.
type TokenSource interface {
	Token() string
}

// Endpoint addresses one service.
type Endpoint struct {
	BaseURL         string
	SubscriptionKey string
}

// Options are shared by all service clients.
type Options struct {
	HTTPClient *http.Client
	Tokens     TokenSource
	Logger     zerolog.Logger
}

type client struct {
	endpoint Endpoint
	http     *http.Client
	tokens   TokenSource
	log      zerolog.Logger
}

func newClient(ep Endpoint, opts Options, component string) *client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &client{
		endpoint: Endpoint{BaseURL: strings.TrimRight(ep.BaseURL, "/"), SubscriptionKey: ep.SubscriptionKey},
		http:     hc,
		tokens:   opts.Tokens,
		log:      logger.Component(opts.Logger, component),
	}
}

type request struct {
	op     string
	method string
	path   string
	query  url.Values
	body   any
	auth   bool
	// loginFallback replaces body text that carries no message.
	loginFallback string
}

// do sends r and returns the body of a 2xx response.
func (c *client) do(ctx context.Context, r request) ([]byte, int, error) {
	u := c.endpoint.BaseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: encode request: %w", r.op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: build request: %w", r.op, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.endpoint.SubscriptionKey != "" {
		req.Header.Set(SubscriptionKeyHeader, c.endpoint.SubscriptionKey)
	}
	if r.auth {
		tok := ""
		if c.tokens != nil {
			tok = c.tokens.Token()
		}
		if tok == "" {
			return nil, 0, fmt.Errorf("%s: %w", r.op, ErrNotAuthenticated)
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("op", r.op).Str("request_id", reqID).Msg("request failed")
		return nil, 0, &TransportError{Op: r.op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, resp.StatusCode, &TransportError{Op: r.op, Err: fmt.Errorf("read body: %w", err)}
	}
	c.log.Debug().
		Str("op", r.op).
		Str("method", r.method).
		Str("path", r.path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Str("request_id", reqID).
		Msg("request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, &APIError{
			Op:         r.op,
			StatusCode: resp.StatusCode,
			Message:    messageFromBody(resp.StatusCode, data, r.loginFallback),
			Body:       string(data),
		}
	}
	return data, resp.StatusCode, nil
}

// doJSON sends r and decodes a 2xx body into out.
func (c *client) doJSON(ctx context.Context, r request, out any) error {
	data, status, err := c.do(ctx, r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &APIError{Op: r.op, StatusCode: status, Message: fmt.Sprintf("unexpected response: %v", err), Body: string(data)}
	}
	return nil
}
