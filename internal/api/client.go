// Package api is the authenticated HTTP client for the detection service.
// All failures leave this package as categorized apperr values.
package api

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

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"detectctl/internal/apperr"
	"detectctl/internal/config"
)

// TokenSource supplies the current bearer token. An empty string means no
// session; the request is sent unauthenticated. The session store implements
// this, which keeps the token an explicit dependency instead of ambient
// global state.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed-token TokenSource, used in tests and one-shot calls.
type StaticToken string

func (s StaticToken) Token() string { return string(s) }

// Client talks to the detection API. It performs no retries and no caching.
type Client struct {
	base      *url.URL
	http      *http.Client
	upload    *http.Client // longer timeout for multipart uploads
	maxUpload int64
	tokens    TokenSource
	log       *zap.Logger
}

// New builds a Client from configuration. tokens may be nil for a client that
// only performs unauthenticated calls.
func New(cfg *config.Config, tokens TokenSource, log *zap.Logger) (*Client, error) {
	base, err := url.Parse(cfg.ServerURL)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		base:      base,
		http:      &http.Client{Timeout: cfg.RequestTimeout},
		upload:    &http.Client{Timeout: cfg.UploadTimeout},
		maxUpload: cfg.MaxUploadSize,
		tokens:    tokens,
		log:       log,
	}, nil
}

// MaxUploadSize reports the configured client-side upload cap.
func (c *Client) MaxUploadSize() int64 { return c.maxUpload }

func (c *Client) endpoint(path string) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	return u.String()
}

// newRequest builds a request with the auth and tracing headers every call
// carries. Content-Type is left to the caller: JSON bodies set it explicitly,
// multipart bodies bring their own boundary-aware type.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if id, err := uuid.NewV4(); err == nil {
		req.Header.Set("X-Request-Id", id.String())
	}
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	return req, nil
}

// doJSON sends a JSON request and decodes a JSON response into out (skipped
// when out is nil). in may be nil for bodyless requests.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

// send executes the request and maps every failure mode onto apperr.
func (c *Client) send(req *http.Request, out any) error {
	return c.sendVia(c.http, req, out)
}

func (c *Client) sendVia(hc *http.Client, req *http.Request, out any) error {
	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		return transportError(req, err)
	}
	defer resp.Body.Close()

	c.log.Debug("api call",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperr.FromStatus(resp.StatusCode, serverMessage(resp.Body))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Transport("malformed response from server", err)
	}
	return nil
}

func transportError(req *http.Request, err error) error {
	var nerr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &nerr) && nerr.Timeout()):
		return apperr.Transport("request timed out, check your connection and try again", err)
	case errors.Is(err, context.Canceled):
		return apperr.Transport("request canceled", err)
	default:
		return apperr.Transport(fmt.Sprintf("cannot reach %s", req.URL.Host), err)
	}
}

// serverMessage pulls a human-readable message out of an error response body,
// tolerating both {"message": ...} and {"error": ...} shapes.
func serverMessage(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, 1<<16))
	if err != nil {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &payload) != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
