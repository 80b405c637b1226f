package webui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/stockbook/internal/catalog"
	"github.com/talkincode/stockbook/internal/controller"
	"github.com/talkincode/stockbook/internal/domain"
	"github.com/talkincode/stockbook/internal/inventoryapi"
	"github.com/talkincode/stockbook/internal/render"
	"github.com/talkincode/stockbook/internal/webserver"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stack struct {
	ui      *httptest.Server
	client  *http.Client
	manager *controller.Manager
}

// newStack wires backend, catalog client, controller and UI, seeded with n products.
func newStack(t *testing.T, n int) *stack {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	for i := 1; i <= n; i++ {
		typ := "Books"
		if i%2 == 0 {
			typ = "Furniture"
		}
		require.NoError(t, db.Create(&domain.ProductRecord{
			ProductName: fmt.Sprintf("item-%02d", i),
			ProductType: typ,
			DateBought:  time.Date(2024, 1, i, 0, 0, 0, 0, time.Local),
			PriceBought: float64(i),
			Condition:   "Good",
		}).Error)
	}

	images, err := inventoryapi.NewImageStore(t.TempDir(), 1)
	require.NoError(t, err)
	backend := webserver.NewEcho("inventory", false)
	inventoryapi.Register(backend, db, images)
	api := httptest.NewServer(backend)
	t.Cleanup(api.Close)

	renderer := render.NewRenderer(render.Options{
		DeleteEnabled: true,
		SearchEnabled: true,
		ProductTypes:  []string{"Books", "Furniture"},
	})
	manager, err := controller.NewManager(catalog.NewHTTPCatalog(api.URL), renderer, controller.Options{
		ItemsPerPage:  10,
		DeleteEnabled: true,
		SearchEnabled: true,
		Workers:       4,
	})
	require.NoError(t, err)
	t.Cleanup(manager.Close)

	e := webserver.NewEcho("webui", false)
	Register(e, manager, "test-secret")
	ui := httptest.NewServer(e)
	t.Cleanup(ui.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &stack{ui: ui, client: &http.Client{Jar: jar, Timeout: 10 * time.Second}, manager: manager}
}

func (s *stack) get(t *testing.T, path string) string {
	t.Helper()
	resp, err := s.client.Get(s.ui.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func (s *stack) post(t *testing.T, path string, form url.Values) string {
	t.Helper()
	resp, err := s.client.PostForm(s.ui.URL+path, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode, "redirect should land on the page")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func (s *stack) postMultipart(t *testing.T, path string, form *catalog.Form) string {
	t.Helper()
	req, err := form.NewRequest(http.MethodPost, s.ui.URL+path)
	require.NoError(t, err)
	resp, err := s.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(page)
}

func TestIndexOpensOneSessionPerBrowser(t *testing.T) {
	st := newStack(t, 12)

	page := st.get(t, "/")
	assert.Contains(t, page, "item-01")
	assert.Contains(t, page, "item-10")
	assert.NotContains(t, page, "item-11")
	assert.Equal(t, 2, strings.Count(page, `action="/ui/page/`))
	assert.Contains(t, page, `<button type="submit" disabled>1</button>`)

	st.get(t, "/")
	assert.Equal(t, 1, st.manager.Len())
}

func TestSelectPage(t *testing.T) {
	st := newStack(t, 12)
	st.get(t, "/")

	page := st.post(t, "/ui/page/2", nil)

	assert.Contains(t, page, "item-11")
	assert.Contains(t, page, "item-12")
	assert.NotContains(t, page, "item-01")
	assert.Contains(t, page, `<button type="submit" disabled>2</button>`)
}

func TestAddProduct(t *testing.T) {
	st := newStack(t, 2)
	st.get(t, "/")

	page := st.post(t, "/ui/add", nil)
	assert.Contains(t, page, `<div id="modal" style="display:flex">`)
	assert.Contains(t, page, "Add New Product")

	page = st.postMultipart(t, "/ui/submit", &catalog.Form{
		ProductName: "Brass Lamp",
		ProductType: "Homeware",
		DateBought:  "01/02/2024",
		PriceBought: "15",
		Condition:   "Good",
	})
	assert.Contains(t, page, "Brass Lamp")
	assert.Contains(t, page, `<div id="modal" style="display:none">`)
}

func TestEditFillsModal(t *testing.T) {
	st := newStack(t, 3)
	st.get(t, "/")

	page := st.post(t, "/ui/edit/2", nil)

	assert.Contains(t, page, "Edit Product")
	assert.Contains(t, page, `value="item-02"`)
	assert.Contains(t, page, `name="product_type" placeholder="Product type" value="Furniture"`)
}

func TestToggleSoldKeepsTypedFields(t *testing.T) {
	st := newStack(t, 1)
	st.get(t, "/")
	st.post(t, "/ui/add", nil)

	page := st.post(t, "/ui/sold", url.Values{"product_name": {"draft"}, "is_sold": {"on"}})

	assert.Contains(t, page, `<div id="sold-fields" style="display:block">`)
	assert.Contains(t, page, `value="draft"`)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	st := newStack(t, 3)
	st.get(t, "/")

	page := st.post(t, "/ui/delete/2", url.Values{"confirmed": {""}})
	assert.Contains(t, page, "item-02")

	page = st.post(t, "/ui/delete/2", url.Values{"confirmed": {"1"}})
	assert.NotContains(t, page, "item-02")
	assert.Contains(t, page, "item-03")
}

func TestSearchByType(t *testing.T) {
	st := newStack(t, 4)
	st.get(t, "/")

	page := st.post(t, "/ui/search-mode", url.Values{"search_type": {"type"}})
	assert.Contains(t, page, `<select id="search-type-query" name="search_type_query" style="display:inline-block">`)

	page = st.post(t, "/ui/search", url.Values{"search_query": {"zzz"}, "search_type_query": {"Furniture"}})
	assert.Contains(t, page, "item-02")
	assert.Contains(t, page, "item-04")
	assert.NotContains(t, page, "item-01")
}

func TestEventStreamAnnouncesRenders(t *testing.T) {
	st := newStack(t, 12)
	st.get(t, "/")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, st.ui.URL+"/ui/events", nil)
	require.NoError(t, err)
	resp, err := st.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	st.post(t, "/ui/page/2", nil)

	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "data: render\n", line)
}

func TestDecodeFields(t *testing.T) {
	fields, err := decodeFields(url.Values{
		"product_name": {"Lamp"},
		"price_bought": {"15"},
		"is_sold":      {"on"},
		"date_sold":    {"01/02/2024"},
		"ignored":      {"x"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Lamp", fields.ProductName)
	assert.Equal(t, "15", fields.PriceBought)
	assert.True(t, fields.IsSold)
	assert.Equal(t, "01/02/2024", fields.DateSold)

	fields, err = decodeFields(url.Values{"product_name": {"Lamp"}})
	require.NoError(t, err)
	assert.False(t, fields.IsSold)
}

func TestStreamsFanOut(t *testing.T) {
	bus := EventBus.New()
	s := newStreams(bus)
	topic := controller.TopicRendered("abc")

	first, cancelFirst, err := s.watch("abc")
	require.NoError(t, err)
	second, cancelSecond, err := s.watch("abc")
	require.NoError(t, err)

	bus.Publish(topic, render.Screen{})
	assert.Len(t, first, 1)
	assert.Len(t, second, 1)

	// a full buffer drops the extra notification instead of blocking
	bus.Publish(topic, render.Screen{})
	assert.Len(t, first, 1)

	cancelFirst()
	assert.True(t, bus.HasCallback(topic))
	cancelSecond()
	assert.False(t, bus.HasCallback(topic))
}
