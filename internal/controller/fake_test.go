package controller

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/stockbook/internal/catalog"
	"github.com/talkincode/stockbook/internal/domain"
	"github.com/talkincode/stockbook/internal/render"
)

// fakeCatalog is an in-memory backend that records every round trip.
type fakeCatalog struct {
	mu       sync.Mutex
	products []domain.Product
	nextID   int64
	calls    []string
	forms    []*catalog.Form

	failList     bool
	failMutation bool
	// gates block a search for the given query until the channel is closed
	gates map[string]chan struct{}
}

func newFakeCatalog(products ...domain.Product) *fakeCatalog {
	f := &fakeCatalog{products: products, nextID: 1, gates: map[string]chan struct{}{}}
	for _, p := range products {
		if p.ID >= f.nextID {
			f.nextID = p.ID + 1
		}
	}
	return f
}

func (f *fakeCatalog) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeCatalog) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeCatalog) List(ctx context.Context) ([]domain.Product, error) {
	f.record("GET /products")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList {
		return nil, errors.Wrap(catalog.ErrNetwork, "connection refused")
	}
	return append([]domain.Product(nil), f.products...), nil
}

func (f *fakeCatalog) Search(ctx context.Context, mode domain.SearchMode, query string) ([]domain.Product, error) {
	if strings.TrimSpace(query) == "" {
		return f.List(ctx)
	}
	f.record(fmt.Sprintf("GET /search type=%s query=%s", mode, query))
	f.mu.Lock()
	gate := f.gates[query]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Product
	for _, p := range f.products {
		if (mode == domain.SearchByType && p.ProductType == query) ||
			(mode == domain.SearchByName && strings.Contains(strings.ToLower(p.ProductName), strings.ToLower(query))) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalog) Create(ctx context.Context, form *catalog.Form) (*domain.Product, error) {
	f.record("POST /products")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forms = append(f.forms, form)
	if f.failMutation {
		return nil, errors.Wrap(catalog.ErrNetwork, "connection reset")
	}
	p := domain.Product{ID: f.nextID, ProductName: form.ProductName, ProductType: form.ProductType, IsSold: form.IsSold}
	f.nextID++
	f.products = append(f.products, p)
	return &p, nil
}

func (f *fakeCatalog) Update(ctx context.Context, id int64, form *catalog.Form) (*domain.Product, error) {
	f.record(fmt.Sprintf("PUT /products/%d", id))
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forms = append(f.forms, form)
	if f.failMutation {
		return nil, errors.Wrap(catalog.ErrNetwork, "connection reset")
	}
	for i := range f.products {
		if f.products[i].ID == id {
			f.products[i].ProductName = form.ProductName
			f.products[i].IsSold = form.IsSold
			p := f.products[i]
			return &p, nil
		}
	}
	return nil, errors.Wrap(catalog.ErrStatus, "404")
}

func (f *fakeCatalog) Delete(ctx context.Context, id int64) error {
	f.record(fmt.Sprintf("DELETE /products/%d", id))
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failMutation {
		return errors.Wrap(catalog.ErrNetwork, "connection reset")
	}
	for i := range f.products {
		if f.products[i].ID == id {
			f.products = append(f.products[:i], f.products[i+1:]...)
			return nil
		}
	}
	return errors.Wrap(catalog.ErrStatus, "404")
}

func testOptions() Options {
	return Options{ItemsPerPage: 10, DeleteEnabled: true, SearchEnabled: true, Workers: 4}
}

func newTestManager(t *testing.T, cat catalog.Catalog, opts Options) *Manager {
	t.Helper()
	renderer := render.NewRenderer(render.Options{DeleteEnabled: opts.DeleteEnabled, SearchEnabled: opts.SearchEnabled})
	m, err := NewManager(cat, renderer, opts)
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return m
}

// newTestSession opens a session that has not loaded anything yet.
func newTestSession(t *testing.T, cat catalog.Catalog, opts Options) *Session {
	t.Helper()
	m := newTestManager(t, cat, opts)
	s := newSession("test", cat, m.renderer, m.pool, m.bus, opts)
	t.Cleanup(s.Close)
	return s
}

func run(t *testing.T, s *Session, cmd Command) Snapshot {
	t.Helper()
	select {
	case <-s.Dispatch(cmd):
	case <-time.After(5 * time.Second):
		t.Fatalf("command %T did not complete", cmd)
	}
	return s.Snapshot()
}

func makeProducts(n int) []domain.Product {
	out := make([]domain.Product, n)
	for i := range out {
		out[i] = domain.Product{
			ID:          int64(i + 1),
			ProductName: fmt.Sprintf("item-%d", i+1),
			ProductType: "Books",
			DateBought:  "01/01/2024",
			PriceBought: float64(10 * (i + 1)),
			Condition:   "Good",
		}
	}
	return out
}
