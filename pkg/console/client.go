// Package console is the client used by the admin console front ends to talk
// to the hotel admin backend. It owns the session, assembles JSON and
// multipart payloads, validates uploads before any request is built, and
// maps every failure to one of three kinds: ValidationError (nothing was
// sent), TransportError (no usable answer) or APIError (the server refused).
//
// Mutating calls are never retried.
package console

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ikkim/hotel-admin-backend/pkg/logger"
)

const (
	DefaultTimeout = 30 * time.Second
	DefaultRPS     = 10

	maxResponseBytes = 8 << 20

	msgUnreachable = "server unreachable, please check the network connection"
	msgTimeout     = "request timed out"
	msgCancelled   = "request cancelled"
	msgFallback    = "request failed, please retry"
)

type Config struct {
	// BaseURL includes the /api prefix, e.g. http://localhost:8080/api
	BaseURL string
	// Timeout bounds every call, uploads included
	Timeout time.Duration
	// RPS caps outbound requests per second
	RPS    int
	Logger *logger.Logger
}

// Client is safe for concurrent use
type Client struct {
	base    string
	hc      *http.Client
	rl      *rate.Limiter
	session *Session
	log     *logger.Logger
}

func New(cfg Config, session *Session) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("console: base URL is required")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("console: invalid base URL: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RPS <= 0 {
		cfg.RPS = DefaultRPS
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	if session == nil {
		session = NewSession()
	}
	return &Client{
		base:    base,
		hc:      &http.Client{Timeout: cfg.Timeout},
		rl:      rate.NewLimiter(rate.Limit(cfg.RPS), cfg.RPS),
		session: session,
		log:     cfg.Logger,
	}, nil
}

func (c *Client) Session() *Session {
	return c.session
}

type envelope struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields"`
}

func successCode(code int) bool {
	return code == http.StatusOK || code == http.StatusCreated || code == http.StatusNoContent
}

type request struct {
	op          string
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
	public      bool // no bearer token
}

// do sends one request and decodes the envelope data into out.
// The envelope code decides success, not the transport status.
func (c *Client) do(ctx context.Context, r request, out interface{}) (*envelope, error) {
	var token string
	if !r.public {
		t, err := c.session.Token()
		if err != nil {
			return nil, err
		}
		token = t
	}

	if err := c.rl.Wait(ctx); err != nil {
		return nil, c.transportError(r.op, err)
	}

	target := c.base + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}
	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.op, err)
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Warn("Request failed", map[string]interface{}{
			"op":    r.op,
			"path":  r.path,
			"error": err.Error(),
		})
		return nil, c.transportError(r.op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, c.transportError(r.op, err)
	}
	c.log.Debug("Request completed", map[string]interface{}{
		"op":          r.op,
		"method":      r.method,
		"path":        r.path,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	env := &envelope{}
	if err := json.Unmarshal(raw, env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, &APIError{Code: resp.StatusCode, Message: msgFallback}
		}
		return nil, fmt.Errorf("%s: malformed response: %w", r.op, err)
	}
	if env.Code == 0 {
		env.Code = resp.StatusCode
	}

	if !successCode(env.Code) {
		msg := strings.TrimSpace(env.Message)
		if msg == "" {
			msg = msgFallback
		}
		if env.Code == http.StatusUnauthorized && !r.public {
			// the server no longer accepts this token
			c.session.Clear()
		}
		return env, &APIError{Code: env.Code, ErrorCode: env.Error, Message: msg, Fields: env.Fields}
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return env, fmt.Errorf("%s: decode response: %w", r.op, err)
		}
	}
	return env, nil
}

func (c *Client) transportError(op string, err error) error {
	msg := msgUnreachable
	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled):
		msg = msgCancelled
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		msg = msgTimeout
	}
	return &TransportError{Op: op, Message: msg, Err: err}
}

func (c *Client) get(ctx context.Context, op, path string, query url.Values, out interface{}) error {
	_, err := c.do(ctx, request{op: op, method: http.MethodGet, path: path, query: query}, out)
	return err
}

func (c *Client) sendJSON(ctx context.Context, op, method, path string, payload, out interface{}) (*envelope, error) {
	return c.doJSON(ctx, request{op: op, method: method, path: path}, payload, out)
}

func (c *Client) doJSON(ctx context.Context, r request, payload, out interface{}) (*envelope, error) {
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%s: encode request: %w", r.op, err)
		}
		r.body = body
		r.contentType = "application/json"
	}
	return c.do(ctx, r, out)
}

func (c *Client) sendMultipart(ctx context.Context, op, path string, payload *MultipartPayload, out interface{}) (*envelope, error) {
	body, contentType, err := payload.Encode()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c.do(ctx, request{op: op, method: http.MethodPost, path: path, body: body, contentType: contentType}, out)
}

func idPath(format string, ids ...uint) string {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return fmt.Sprintf(format, args...)
}
