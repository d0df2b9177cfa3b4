// Package maria is a read-only client for the Maria parks catalog API.
package maria

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	pkgerrors "github.com/parkmarket/marketplace-backend/pkg/errors"
)

const (
	defaultTimeout       = 10 * time.Second
	errorBodyLimit       = 512
	headerAPIKey         = "X-Api-Key"
	defaultUserAgentName = "marketplace-backend/1.0"
)

// Client calls the catalog. Every call goes upstream; nothing is cached or retried.
type Client struct {
	http    *resty.Client
	baseURL string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient swaps the transport used by resty.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = resty.NewWithClient(client)
		}
	}
}

// WithTimeout bounds each upstream call.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.SetTimeout(timeout)
		}
	}
}

// WithAPIKey sends the given key on every request.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			c.http.SetHeader(headerAPIKey, trimmed)
		}
	}
}

// NewClient builds a catalog client rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("maria api endpoint is required")
	}
	if _, err := url.ParseRequestURI(trimmed); err != nil {
		return nil, fmt.Errorf("invalid maria api endpoint: %w", err)
	}

	client := &Client{
		http:    resty.New(),
		baseURL: trimmed,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	client.http.
		SetBaseURL(trimmed).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", defaultUserAgentName)
	if client.http.GetClient().Timeout == 0 {
		client.http.SetTimeout(defaultTimeout)
	}

	return client, nil
}

// ListParks returns every park.
func (c *Client) ListParks(ctx context.Context) ([]Park, error) {
	var parks []Park
	if err := c.get(ctx, "/parks/", nil, &parks); err != nil {
		return nil, err
	}
	return parks, nil
}

// GetPark returns a single park by code.
func (c *Client) GetPark(ctx context.Context, parkCode string) (*Park, error) {
	if err := requireCode("park code", parkCode); err != nil {
		return nil, err
	}
	var park Park
	if err := c.get(ctx, "/parks/"+url.PathEscape(parkCode), nil, &park); err != nil {
		return nil, err
	}
	return &park, nil
}

// ListParkProducts returns the tickets sold for a park.
func (c *Client) ListParkProducts(ctx context.Context, parkCode string, query ProductQuery) ([]ParkProduct, error) {
	if err := requireCode("park code", parkCode); err != nil {
		return nil, err
	}
	var products []ParkProduct
	path := "/parks/" + url.PathEscape(parkCode) + "/products"
	if err := c.get(ctx, path, query.params(), &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetParkProduct returns a single ticket's detail.
func (c *Client) GetParkProduct(ctx context.Context, parkCode, productCode string) (*ParkProductDetail, error) {
	if err := requireCode("park code", parkCode); err != nil {
		return nil, err
	}
	if err := requireCode("product code", productCode); err != nil {
		return nil, err
	}
	var detail ParkProductDetail
	path := "/parks/" + url.PathEscape(parkCode) + "/products/" + url.PathEscape(productCode)
	if err := c.get(ctx, path, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (c *Client) get(ctx context.Context, path string, params map[string]string, out any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "maria client not configured")
	}

	req := c.http.R().SetContext(ctx)
	if len(params) > 0 {
		req.SetQueryParams(params)
	}

	resp, err := req.Get(path)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "catalog request failed")
	}

	if resp.StatusCode() == http.StatusNotFound {
		return pkgerrors.New(pkgerrors.CodeNotFound, "catalog resource not found")
	}
	if resp.IsError() {
		body := strings.TrimSpace(string(resp.Body()))
		if len(body) > errorBodyLimit {
			body = body[:errorBodyLimit]
		}
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, fmt.Errorf("status %d: %s", resp.StatusCode(), body), "catalog request failed")
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "catalog returned an unreadable response")
	}
	return nil
}

func (q ProductQuery) params() map[string]string {
	params := map[string]string{}
	if q.ForDate != "" {
		params["forDate"] = q.ForDate
	}
	if q.NumberDays > 0 {
		params["numberDays"] = strconv.Itoa(q.NumberDays)
	}
	if q.NumAdults > 0 {
		params["numAdults"] = strconv.Itoa(q.NumAdults)
	}
	if q.NumChildren > 0 {
		params["numChildren"] = strconv.Itoa(q.NumChildren)
	}
	if q.IsSpecial != nil {
		params["isSpecial"] = strconv.FormatBool(*q.IsSpecial)
	}
	return params
}

func requireCode(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, name+" is required")
	}
	return nil
}
