// Package client speaks the memory service's HTTP contract: ingest, context
// search, list-all and delete, plus a health check built on list-all.
//
// Success is decided by status 200 alone. Error bodies are never parsed and no
// call is retried.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/felixgeelhaar/echomind/internal/memory"
	"github.com/felixgeelhaar/echomind/internal/observe"
)

// DefaultBaseURL is used when no API URL is configured.
const DefaultBaseURL = "http://localhost:8000"

const (
	pathIngest      = "/ingest"
	pathContext     = "/context"
	pathAllMemories = "/all_memories"
	pathDelete      = "/delete"
)

// API is the set of calls the workflows depend on.
type API interface {
	Health(ctx context.Context) error
	Ingest(ctx context.Context, text string) (string, error)
	Search(ctx context.Context, query string, topK int) ([]string, error)
	ListAll(ctx context.Context) (memory.Listing, error)
	Delete(ctx context.Context, id string) error
	BaseURL() string
}

// Client is the HTTP implementation of API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	obs     *observe.Observer
}

// Option configures a Client.
type Option func(*Client)

// WithToken sends the token as a bearer credential on every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithHTTPClient replaces the instrumented default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// New creates a Client for baseURL. An empty baseURL falls back to DefaultBaseURL.
func New(baseURL string, obs *observe.Observer, opts ...Option) *Client {
	c := &Client{
		baseURL: NormalizeBaseURL(baseURL),
		http:    &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		obs:     obs,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NormalizeBaseURL trims whitespace and trailing slashes and applies the default.
func NormalizeBaseURL(raw string) string {
	u := strings.TrimRight(strings.TrimSpace(raw), "/")
	if u == "" {
		return DefaultBaseURL
	}
	return u
}

// BaseURL returns the service root requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type ingestRequest struct {
	Text string `json:"text"`
}

type ingestResponse struct {
	ID string `json:"id"`
}

type contextRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

type deleteRequest struct {
	ID string `json:"id"`
}

// Health reports nil when the listing endpoint answers 200.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, "Health", http.MethodGet, pathAllMemories, nil, nil)
}

// Ingest stores text and returns the identifier assigned by the service.
func (c *Client) Ingest(ctx context.Context, text string) (string, error) {
	var out ingestResponse
	if err := c.do(ctx, "Ingest", http.MethodPost, pathIngest, ingestRequest{Text: text}, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// Search returns up to topK snippets for query in the order the service ranked them.
func (c *Client) Search(ctx context.Context, query string, topK int) ([]string, error) {
	var out memory.SearchResult
	if err := c.do(ctx, "Search", http.MethodPost, pathContext, contextRequest{Query: query, TopK: topK}, &out); err != nil {
		return nil, err
	}
	return out.Context, nil
}

// ListAll fetches every stored memory.
func (c *Client) ListAll(ctx context.Context) (memory.Listing, error) {
	var out memory.Listing
	if err := c.do(ctx, "ListAll", http.MethodGet, pathAllMemories, nil, &out); err != nil {
		return memory.Listing{}, err
	}
	return out, nil
}

// Delete removes the memory with the given id.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, "Delete", http.MethodDelete, pathDelete, deleteRequest{ID: id}, nil)
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	ctx, span := c.obs.StartSpan(ctx, "client."+op)
	defer span.End()

	reqID := uuid.New().String()
	url := c.baseURL + path
	log := c.obs.Log().With().
		Str("request_id", reqID).
		Str("method", method).
		Str("path", path).
		Logger()

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", op, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := int(time.Since(start).Milliseconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "unreachable")
		log.Warn().Err(err).Int("elapsed_ms", elapsed).Msg("memory service unreachable")
		return &Error{Op: op, URL: url, Err: err}
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		span.SetStatus(codes.Error, resp.Status)
		log.Warn().Int("status", resp.StatusCode).Int("elapsed_ms", elapsed).Msg("memory service rejected request")
		return &Error{Op: op, URL: url, StatusCode: resp.StatusCode}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "decode")
			log.Error().Err(err).Msg("failed to decode response")
			return &Error{Op: op, URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
		}
	}

	log.Debug().Int("status", resp.StatusCode).Int("elapsed_ms", elapsed).Msg("request complete")
	return nil
}
