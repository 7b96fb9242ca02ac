package booksapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mrlokans/bookshelf/internal/entities"
)

const (
	booksPath = "/books"

	defaultTimeout = 10 * time.Second
	maxBodySize    = 4 << 20

	// RequestIDHeader carries a per-request id so client and backend logs
	// can be correlated.
	RequestIDHeader = "X-Request-ID"
)

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client talks to the /books collection of the backend. It never retries:
// a failed request is reported once to the caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a books API client for the backend at opts.BaseURL.
func NewClient(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("%w: base URL is required", ErrInvalidArgument)
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("%w: base URL: %v", ErrInvalidArgument, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: base URL must be http or https, got %q", ErrInvalidArgument, base)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		baseURL:    base,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// listResponse is the body of a paginated GET /books.
type listResponse struct {
	Books       []entities.Book `json:"books"`
	TotalPages  int             `json:"total_pages"`
	CurrentPage int             `json:"current_page"`
}

// List fetches one page of books. page and perPage must both be >= 1.
func (c *Client) List(ctx context.Context, page, perPage int) (*entities.ListPage, error) {
	if page < 1 || perPage < 1 {
		return nil, fmt.Errorf("%w: page=%d per_page=%d", ErrInvalidArgument, page, perPage)
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))

	var resp listResponse
	if err := c.do(ctx, http.MethodGet, booksPath, q, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Books == nil {
		resp.Books = []entities.Book{}
	}

	return &entities.ListPage{
		Books:       resp.Books,
		CurrentPage: resp.CurrentPage,
		TotalPages:  resp.TotalPages,
	}, nil
}

// ListAll fetches the whole collection from an unpaginated backend.
func (c *Client) ListAll(ctx context.Context) ([]entities.Book, error) {
	var books []entities.Book
	if err := c.do(ctx, http.MethodGet, booksPath, nil, nil, &books); err != nil {
		return nil, err
	}
	if books == nil {
		books = []entities.Book{}
	}
	return books, nil
}

// Get fetches a single book by its record key (id or isbn).
func (c *Client) Get(ctx context.Context, key string) (*entities.Book, error) {
	path, err := bookPath(key)
	if err != nil {
		return nil, err
	}

	var book entities.Book
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// Create submits a new book. The returned book carries whatever the
// backend echoed back; fields it omitted are zero.
func (c *Client) Create(ctx context.Context, input entities.BookInput) (*entities.Book, error) {
	var book entities.Book
	if err := c.do(ctx, http.MethodPost, booksPath, nil, input, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// Update replaces the book addressed by key.
func (c *Client) Update(ctx context.Context, key string, input entities.BookInput) (*entities.Book, error) {
	path, err := bookPath(key)
	if err != nil {
		return nil, err
	}

	var book entities.Book
	if err := c.do(ctx, http.MethodPut, path, nil, input, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// Delete removes the book addressed by key.
func (c *Client) Delete(ctx context.Context, key string) error {
	path, err := bookPath(key)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func bookPath(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("%w: record key is empty", ErrInvalidArgument)
	}
	return booksPath + "/" + url.PathEscape(key), nil
}

// do sends one request and decodes a 2xx body into out when out is non-nil.
// An empty success body leaves out untouched.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("books API request failed",
			"method", method, "path", path, "request_id", requestID, "error", err)
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}

	c.logger.Debug("books API request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(started),
		"request_id", requestID,
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseAPIError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &DecodeError{Path: path, Err: err}
	}
	return nil
}

// errorBody is the JSON shape of backend failures: {"error": ..., "message": ...}.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func parseAPIError(status int, data []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var body errorBody
	if err := json.Unmarshal(data, &body); err == nil {
		switch {
		case body.Message != "":
			apiErr.Message = body.Message
			apiErr.Code = body.Error
		case body.Error != "":
			apiErr.Message = body.Error
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("HTTP %d", status)
	}
	return apiErr
}
