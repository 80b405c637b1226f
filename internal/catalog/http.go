package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/guonaihong/gout"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/talkincode/stockbook/internal/domain"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// HTTPCatalog implements Catalog against the REST backend
//
//	GET    /products
//	GET    /search?type={mode}&query={value}
//	POST   /products        (multipart)
//	PUT    /products/{id}   (multipart)
//	DELETE /products/{id}
type HTTPCatalog struct {
	baseURL string
	client  *http.Client
	debug   bool
}

// Option customizes an HTTPCatalog.
type Option func(*HTTPCatalog)

// WithHTTPClient replaces the default transport.
func WithHTTPClient(client *http.Client) Option {
	return func(c *HTTPCatalog) {
		c.client = client
	}
}

// WithDebug dumps requests and responses to stderr.
func WithDebug(debug bool) Option {
	return func(c *HTTPCatalog) {
		c.debug = debug
	}
}

// NewHTTPCatalog creates a client for the backend rooted at baseURL.
func NewHTTPCatalog(baseURL string, opts ...Option) *HTTPCatalog {
	c := &HTTPCatalog{
		baseURL: strings.TrimRight(baseURL, "/"),
		// no client-side timeout: requests resolve whenever the backend answers
		client: &http.Client{Transport: http.DefaultTransport},
	}
	for _, opt := range opts {
		opt(c)
	}
	zap.L().Debug("catalog client created",
		zap.String("namespace", "catalog"),
		zap.String("base_url", c.baseURL),
	)
	return c
}

var _ Catalog = (*HTTPCatalog)(nil)

func (c *HTTPCatalog) List(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.do(ctx, http.MethodGet, c.baseURL+"/products", nil, &products); err != nil {
		return nil, errors.WithMessage(err, "list products")
	}
	return products, nil
}

func (c *HTTPCatalog) Search(ctx context.Context, mode domain.SearchMode, query string) ([]domain.Product, error) {
	if strings.TrimSpace(query) == "" {
		return c.List(ctx)
	}
	var products []domain.Product
	if err := c.do(ctx, http.MethodGet, c.SearchURL(mode, query), nil, &products); err != nil {
		return nil, errors.WithMessage(err, "search products")
	}
	return products, nil
}

// SearchURL builds the search endpoint with both parameters percent-encoded.
func (c *HTTPCatalog) SearchURL(mode domain.SearchMode, query string) string {
	return fmt.Sprintf("%s/search?type=%s&query=%s", c.baseURL, encodeComponent(string(mode)), encodeComponent(query))
}

func (c *HTTPCatalog) Create(ctx context.Context, form *Form) (*domain.Product, error) {
	var p domain.Product
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/products", form, &p); err != nil {
		return nil, errors.WithMessage(err, "create product")
	}
	return &p, nil
}

func (c *HTTPCatalog) Update(ctx context.Context, id int64, form *Form) (*domain.Product, error) {
	var p domain.Product
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("%s/products/%d", c.baseURL, id), form, &p); err != nil {
		return nil, errors.WithMessagef(err, "update product %d", id)
	}
	return &p, nil
}

func (c *HTTPCatalog) Delete(ctx context.Context, id int64) error {
	var ack map[string]interface{}
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/products/%d", c.baseURL, id), nil, &ack); err != nil {
		return errors.WithMessagef(err, "delete product %d", id)
	}
	return nil
}

// do performs one round trip and decodes the JSON answer into out.
func (c *HTTPCatalog) do(ctx context.Context, method, u string, form *Form, out interface{}) error {
	flow := newFlow(gout.New(c.client), method, u).WithContext(ctx).Debug(c.debug)
	if form != nil {
		flow = flow.SetForm(form.Values())
	}

	var (
		code int
		body []byte
	)
	if err := flow.BindBody(&body).Code(&code).Do(); err != nil {
		return errors.Wrapf(ErrNetwork, "%s %s: %v", method, u, err)
	}
	if code < 200 || code > 299 {
		return errors.Wrapf(ErrStatus, "%s %s: status %d", method, u, code)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrapf(ErrNetwork, "%s %s: decode: %v", method, u, err)
	}
	return nil
}

// encodeComponent escapes like encodeURIComponent: spaces become %20, not '+'.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
