package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bodegonapp/storefront-backend/pkg/config"
	pkgerrors "github.com/bodegonapp/storefront-backend/pkg/errors"
	"github.com/bodegonapp/storefront-backend/pkg/logger"
)

// Client is the generic JSON resource client for the upstream API that owns
// catalog, promotion, sale and user persistence.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *logger.Logger
}

// NewClient validates the upstream location and builds the resource client.
func NewClient(cfg config.UpstreamConfig, logg *logger.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("upstream base url is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("parsing upstream base url: %w", err)
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logg,
	}, nil
}

// Get fetches a JSON resource into dest.
func (c *Client) Get(ctx context.Context, path string, query url.Values, dest any) error {
	return c.doJSON(ctx, http.MethodGet, path, query, nil, dest)
}

// Post submits body as JSON and decodes the response into dest when non-nil.
func (c *Client) Post(ctx context.Context, path string, body, dest any) error {
	return c.doJSON(ctx, http.MethodPost, path, nil, body, dest)
}

// Put submits body as JSON and decodes the response into dest when non-nil.
func (c *Client) Put(ctx context.Context, path string, body, dest any) error {
	return c.doJSON(ctx, http.MethodPut, path, nil, body, dest)
}

// GetBytes fetches an opaque payload (report downloads) and returns the raw
// bytes plus the upstream content type.
func (c *Client) GetBytes(ctx context.Context, path string, query url.Values) ([]byte, string, error) {
	resp, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, "", err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read upstream payload")
	}
	return data, resp.Header.Get("Content-Type"), nil
}

// Ping verifies the upstream API answers at all.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "", nil, nil)
	if err != nil {
		return err
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("upstream unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, dest any) error {
	resp, err := c.do(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return err
	}

	if dest == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode upstream response")
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	endpoint := c.baseURL
	if path != "" {
		endpoint = c.baseURL + "/" + strings.TrimLeft(path, "/")
	}
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode request body")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build upstream request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Error(ctx, "upstream request failed", err)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("%s %s", method, path))
	}
	return resp, nil
}

func (c *Client) checkStatus(resp *http.Response) error {
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	details := map[string]any{
		"status": resp.StatusCode,
		"body":   string(snippet),
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return pkgerrors.New(pkgerrors.CodeNotFound, "upstream resource not found").WithDetails(details)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return pkgerrors.New(pkgerrors.CodeValidation, "upstream rejected the request").WithDetails(details)
	case http.StatusUnauthorized, http.StatusForbidden:
		return pkgerrors.New(pkgerrors.CodeForbidden, "upstream denied the request").WithDetails(details)
	default:
		return pkgerrors.New(pkgerrors.CodeDependency, "upstream request failed").WithDetails(details)
	}
}
