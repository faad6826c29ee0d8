// Package recordstore is a thin client for the external record database:
// a generic collection store with CRUD, filter expressions and relation
// expansion over HTTP. It is the only persistence this service talks to.
package recordstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"alcosklad/internal/core/apperror"
)

var tracer = otel.Tracer("alcosklad/recordstore")

const defaultPerPage = 500

// Config holds client configuration.
type Config struct {
	// BaseURL of the record store, e.g. http://127.0.0.1:8090
	BaseURL string

	// Identity/Password authenticate against the users auth collection.
	// Empty identity means the store's public rules are relied upon.
	Identity string
	Password string

	// AuthCollection defaults to "users".
	AuthCollection string

	// Timeout for a single HTTP call (default 15s).
	Timeout time.Duration
}

// Client issues CRUD/query calls against store collections.
type Client struct {
	baseURL string
	http    *http.Client
	auth    *authState
}

// New creates a record store client.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.AuthCollection == "" {
		cfg.AuthCollection = "users"
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
		auth: &authState{
			identity:   cfg.Identity,
			password:   cfg.Password,
			collection: cfg.AuthCollection,
		},
	}
}

// Query describes a list request.
type Query struct {
	// Filter expression; empty returns the whole collection.
	Filter Expr

	// Sort, e.g. "name" or "-created".
	Sort string

	// Expand lists relation fields to inline, e.g. "product,supplier".
	Expand string

	// PerPage overrides the page size (default 500).
	PerPage int
}

type listResponse struct {
	Page       int               `json:"page"`
	PerPage    int               `json:"perPage"`
	TotalPages int               `json:"totalPages"`
	TotalItems int               `json:"totalItems"`
	Items      []json.RawMessage `json:"items"`
}

// ListRaw fetches every record of a collection matching the query,
// walking all pages.
func (c *Client) ListRaw(ctx context.Context, collection string, q Query) ([]json.RawMessage, error) {
	ctx, span := tracer.Start(ctx, "recordstore.list",
		trace.WithAttributes(
			attribute.String("collection", collection),
			attribute.String("filter", q.Filter.String()),
		))
	defer span.End()

	perPage := q.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}

	var items []json.RawMessage
	for page := 1; ; page++ {
		values := url.Values{}
		values.Set("page", strconv.Itoa(page))
		values.Set("perPage", strconv.Itoa(perPage))
		if !q.Filter.IsZero() {
			values.Set("filter", q.Filter.String())
		}
		if q.Sort != "" {
			values.Set("sort", q.Sort)
		}
		if q.Expand != "" {
			values.Set("expand", q.Expand)
		}

		var resp listResponse
		path := fmt.Sprintf("/api/collections/%s/records", collection)
		if err := c.do(ctx, http.MethodGet, path, values, nil, &resp); err != nil {
			return nil, err
		}

		items = append(items, resp.Items...)
		if page >= resp.TotalPages || len(resp.Items) == 0 {
			break
		}
	}

	span.SetAttributes(attribute.Int("items", len(items)))
	return items, nil
}

// List fetches and decodes every matching record of a collection.
func List[T any](ctx context.Context, c *Client, collection string, q Query) ([]T, error) {
	raw, err := c.ListRaw(ctx, collection, q)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(raw))
	for _, item := range raw {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			return nil, fmt.Errorf("decode %s record: %w", collection, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// First fetches the first record matching the filter, or apperror.NotFound.
func First[T any](ctx context.Context, c *Client, collection string, q Query) (T, error) {
	var zero T
	q.PerPage = 1
	items, err := List[T](ctx, c, collection, q)
	if err != nil {
		return zero, err
	}
	if len(items) == 0 {
		return zero, apperror.NewNotFound(collection, q.Filter.String())
	}
	return items[0], nil
}

// Create inserts a record and decodes the stored version into out (may be nil).
func (c *Client) Create(ctx context.Context, collection string, fields any, out any) error {
	ctx, span := tracer.Start(ctx, "recordstore.create",
		trace.WithAttributes(attribute.String("collection", collection)))
	defer span.End()

	path := fmt.Sprintf("/api/collections/%s/records", collection)
	return c.do(ctx, http.MethodPost, path, nil, fields, out)
}

// Update patches a record by id and decodes the stored version into out (may be nil).
func (c *Client) Update(ctx context.Context, collection, id string, fields any, out any) error {
	ctx, span := tracer.Start(ctx, "recordstore.update",
		trace.WithAttributes(
			attribute.String("collection", collection),
			attribute.String("id", id),
		))
	defer span.End()

	path := fmt.Sprintf("/api/collections/%s/records/%s", collection, id)
	return c.do(ctx, http.MethodPatch, path, nil, fields, out)
}

// Delete removes a record by id.
func (c *Client) Delete(ctx context.Context, collection, id string) error {
	ctx, span := tracer.Start(ctx, "recordstore.delete",
		trace.WithAttributes(
			attribute.String("collection", collection),
			attribute.String("id", id),
		))
	defer span.End()

	path := fmt.Sprintf("/api/collections/%s/records/%s", collection, id)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// Health pings the record store's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil, nil)
}

// do performs a single authenticated HTTP call.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.auth.bearer(ctx, c)
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperror.NewStore(method+" "+path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		switch resp.StatusCode {
		case http.StatusNotFound:
			return apperror.NewNotFound("record", path)
		case http.StatusUnauthorized, http.StatusForbidden:
			return apperror.NewUnauthorized("record store rejected credentials").
				WithDetail("status", resp.StatusCode)
		default:
			return apperror.NewStore(method+" "+path,
				fmt.Errorf("status %d: %s", resp.StatusCode, string(payload)))
		}
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
