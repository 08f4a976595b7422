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
	"time"

	"github.com/millesime/barrels/pkg/domain"
)

// DefaultTimeout bounds every request made by a Client built with New.
const DefaultTimeout = 30 * time.Second

// Client is the Millésime Sans Frontières API client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: d}
	}
}

// New creates a new API client. An empty token sends no Authorization header.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithToken returns a copy of the client that authenticates with token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// --- Auth ---

// Login exchanges credentials for a token and the user record.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := c.post(ctx, "/v1/auth/login", creds, &resp); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &resp, nil
}

// Register creates an account and returns its token and user record.
func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := c.post(ctx, "/v1/auth/register", req, &resp); err != nil {
		return nil, fmt.Errorf("client.Register: %w", err)
	}
	return &resp, nil
}

// Logout invalidates the client's token server-side.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.doRequest(ctx, http.MethodPost, "/v1/auth/logout", nil, nil); err != nil {
		return fmt.Errorf("client.Logout: %w", err)
	}
	return nil
}

// RefreshToken trades the client's token for a fresh one.
func (c *Client) RefreshToken(ctx context.Context) (string, error) {
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.doRequest(ctx, http.MethodPost, "/v1/auth/refresh", nil, &resp); err != nil {
		return "", fmt.Errorf("client.RefreshToken: %w", err)
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("client.RefreshToken: empty access_token in response")
	}
	return resp.AccessToken, nil
}

// --- Users ---

// GetMe returns the authenticated user's profile.
func (c *Client) GetMe(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.get(ctx, "/v1/users/me", &u); err != nil {
		return nil, fmt.Errorf("client.GetMe: %w", err)
	}
	return &u, nil
}

// UpdateMe applies a partial update to the authenticated user's profile.
func (c *Client) UpdateMe(ctx context.Context, upd domain.ProfileUpdate) (*domain.User, error) {
	var u domain.User
	if err := c.doRequest(ctx, http.MethodPut, "/v1/users/me", upd, &u); err != nil {
		return nil, fmt.Errorf("client.UpdateMe: %w", err)
	}
	return &u, nil
}

// ChangePassword rotates the authenticated user's password.
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	body := domain.PasswordChange{CurrentPassword: current, NewPassword: next}
	if err := c.post(ctx, "/v1/users/change-password", body, nil); err != nil {
		return fmt.Errorf("client.ChangePassword: %w", err)
	}
	return nil
}

// --- Catalog ---

// ListBarrels fetches one page of the catalog.
func (c *Client) ListBarrels(ctx context.Context, page, size int, f domain.BarrelFilter) (*domain.BarrelPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(size))
	if f.OriginCountry != "" {
		params.Set("origin_country", f.OriginCountry)
	}
	if f.WoodType != "" {
		params.Set("wood_type", f.WoodType)
	}
	if f.MinPrice > 0 {
		params.Set("min_price", strconv.FormatFloat(f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice > 0 {
		params.Set("max_price", strconv.FormatFloat(f.MaxPrice, 'f', -1, 64))
	}

	var p domain.BarrelPage
	if err := c.get(ctx, "/v1/barrels/?"+params.Encode(), &p); err != nil {
		return nil, fmt.Errorf("client.ListBarrels: %w", err)
	}
	return &p, nil
}

// GetBarrel fetches a single barrel by ID.
func (c *Client) GetBarrel(ctx context.Context, id string) (*domain.Barrel, error) {
	var b domain.Barrel
	if err := c.get(ctx, "/v1/barrels/"+url.PathEscape(id), &b); err != nil {
		return nil, fmt.Errorf("client.GetBarrel: %w", err)
	}
	return &b, nil
}

// SearchBarrels searches the catalog by text query.
func (c *Client) SearchBarrels(ctx context.Context, query string, limit int) ([]domain.Barrel, error) {
	params := url.Values{}
	params.Set("q", query)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var barrels []domain.Barrel
	if err := c.get(ctx, "/v1/barrels/search/?"+params.Encode(), &barrels); err != nil {
		return nil, fmt.Errorf("client.SearchBarrels: %w", err)
	}
	return barrels, nil
}

// OriginCountries lists the distinct origin countries in the catalog.
func (c *Client) OriginCountries(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.get(ctx, "/v1/barrels/categories/origins", &out); err != nil {
		return nil, fmt.Errorf("client.OriginCountries: %w", err)
	}
	return out, nil
}

// WoodTypes lists the distinct wood types in the catalog.
func (c *Client) WoodTypes(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.get(ctx, "/v1/barrels/categories/wood-types", &out); err != nil {
		return nil, fmt.Errorf("client.WoodTypes: %w", err)
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
		if readErr != nil {
			return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		return &HTTPError{StatusCode: resp.StatusCode, Message: errorMessage(respBody)}
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}
