package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/asquebay/bird-events-service/internal/model"
)

// ErrUnexpectedStatus — ресурс /birds ответил не 2xx
var ErrUnexpectedStatus = errors.New("unexpected response status")

// StatusError описывает не-2xx ответ вместе с телом (обрезанным)
type StatusError struct {
	Method string
	URL    string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.URL, e.Code, http.StatusText(e.Code), e.Body)
}

func (e *StatusError) Unwrap() error { return ErrUnexpectedStatus }

// Client — HTTP-клиент ресурса /birds
type Client struct {
	baseURL string
	http    *http.Client
}

// Option настраивает Client
type Option func(*Client)

// WithHTTPClient подменяет http.Client (например, в тестах)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New создает клиента для указанного базового адреса, например "http://localhost:8080"
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListBirds читает всю коллекцию: GET /birds
func (c *Client) ListBirds(ctx context.Context) ([]model.Bird, error) {
	const op = "client.Client.ListBirds"

	var birds []model.Bird
	if err := c.do(ctx, http.MethodGet, "/birds", nil, &birds); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if birds == nil {
		// тело "null" считаем пустым списком
		birds = []model.Bird{}
	}
	return birds, nil
}

// CreateBird создаёт птицу: POST /birds
// ответ без серверного ID считается некорректным
func (c *Client) CreateBird(ctx context.Context, bird model.NewBird) (model.Bird, error) {
	const op = "client.Client.CreateBird"

	var created model.Bird
	if err := c.do(ctx, http.MethodPost, "/birds", bird, &created); err != nil {
		return model.Bird{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := created.Validate(); err != nil {
		return model.Bird{}, fmt.Errorf("%s: malformed created bird: %w", op, err)
	}
	return created, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{
			Method: method,
			URL:    url,
			Code:   resp.StatusCode,
			Body:   strings.TrimSpace(string(snippet)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
