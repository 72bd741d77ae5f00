// Package client is a typed HTTP client for the catalog API, shared by the
// catalogctl command line and the interactive browser.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
)

type Client struct {
	baseURL string
	httpc   *http.Client
}

// New creates a client for the catalog service at baseURL. A nil httpc gets
// a default client with a request timeout.
func New(baseURL string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   httpc,
	}
}

// Book is one row of the enriched book listing.
type Book struct {
	BookID    string  `json:"book_id"`
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	GenreID   string  `json:"genre_id"`
	GenreName string  `json:"genre_name"`
	Rating    float64 `json:"rating"`
}

type Genre struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewBook is the full mutable field set sent on create and update.
type NewBook struct {
	Title   string  `json:"title"`
	Author  string  `json:"author"`
	GenreID string  `json:"genre_id"`
	Rating  float64 `json:"rating"`
}

// ListFilter narrows the book listing. A nil bound leaves that side of the
// rating range unrestricted.
type ListFilter struct {
	Genre     string
	MinRating *float64
	MaxRating *float64
}

// APIError is a non-2xx response from the service, carrying the short
// human-readable error field from the body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

func (c *Client) ListBooks(ctx context.Context, filter ListFilter) ([]Book, error) {
	q := url.Values{}
	if filter.Genre != "" {
		q.Set("genre", filter.Genre)
	}
	if filter.MinRating != nil {
		q.Set("minRating", strconv.FormatFloat(*filter.MinRating, 'f', -1, 64))
	}
	if filter.MaxRating != nil {
		q.Set("maxRating", strconv.FormatFloat(*filter.MaxRating, 'f', -1, 64))
	}

	var books []Book
	if err := c.do(ctx, http.MethodGet, "/api/books", q, nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// AddBook creates a book and returns its generated identifier.
func (c *Client) AddBook(ctx context.Context, book NewBook) (string, error) {
	var resp struct {
		Message string `json:"message"`
		BookID  string `json:"book_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/books", nil, book, &resp); err != nil {
		return "", err
	}
	return resp.BookID, nil
}

// AddBookAtomic creates a book through the transactional path.
func (c *Client) AddBookAtomic(ctx context.Context, book NewBook) error {
	return c.do(ctx, http.MethodPost, "/api/books/atomic-add", nil, book, nil)
}

func (c *Client) UpdateBook(ctx context.Context, id string, book NewBook) error {
	return c.do(ctx, http.MethodPut, "/api/books/"+id, nil, book, nil)
}

func (c *Client) DeleteBook(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/books/"+id, nil, nil, nil)
}

func (c *Client) ListGenres(ctx context.Context) ([]Genre, error) {
	var genres []Genre
	if err := c.do(ctx, http.MethodGet, "/api/genres", nil, nil, &genres); err != nil {
		return nil, err
	}
	return genres, nil
}

func (c *Client) AddGenre(ctx context.Context, name string) (Genre, error) {
	var genre Genre
	err := c.do(ctx, http.MethodPost, "/api/genres", nil, map[string]string{"name": name}, &genre)
	return genre, err
}

// GenresByID keys a genre listing by identifier for quick lookups.
func GenresByID(genres []Genre) map[string]Genre {
	return lo.Associate(genres, func(g Genre) (string, Genre) {
		return g.ID, g
	})
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body, out any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("failed to perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		data, _ := io.ReadAll(resp.Body)
		if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
			apiErr.Message = payload.Error
		} else {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
