package render

import (
	"strconv"

	"github.com/talkincode/stockbook/internal/domain"
	"github.com/talkincode/stockbook/internal/view"
)

// ConfirmDeletePrompt is shown before a delete is issued.
const ConfirmDeletePrompt = "Are you sure you want to delete this product? This action cannot be undone."

// Card is one rendered product.
type Card struct {
	ID          int64
	Image       string
	Name        string
	Type        string
	DateBought  string
	PriceBought string
	Condition   string
	Sold        string
	ShowSold    bool
	DateSold    string
	PriceSold   string
	Deletable   bool
}

// PageButton is one pagination control.
type PageButton struct {
	Number   int
	Disabled bool
}

// SearchBar is the mode selector with its two alternative inputs.
type SearchBar struct {
	Enabled          bool
	Mode             domain.SearchMode
	Query            string
	TypeQuery        string
	TypeInputVisible bool
	ProductTypes     []string
}

// Screen is a full rendering of one session: list region, pagination region,
// modal and search bar. Each render replaces the previous Screen wholesale.
type Screen struct {
	Cards   []Card
	Pages   []PageButton
	Modal   view.Modal
	Search  SearchBar
	Summary Summary
}

// Options are the capability flags of the controller variant being rendered.
type Options struct {
	DeleteEnabled bool
	SearchEnabled bool
	ProductTypes  []string
}

type Renderer struct {
	opts Options
	html *htmlTemplates
}

func NewRenderer(opts Options) *Renderer {
	return &Renderer{opts: opts, html: mustParseTemplates()}
}

func (r *Renderer) Options() Options {
	return r.opts
}

// Render computes the screen for products under state. The collection is
// sliced positionally for the current page; nothing is sorted or filtered.
func (r *Renderer) Render(products []domain.Product, state view.State) Screen {
	screen := Screen{
		Modal: state.Modal,
		Search: SearchBar{
			Enabled:          r.opts.SearchEnabled,
			Mode:             state.Search.Mode,
			Query:            state.Search.Query,
			TypeQuery:        state.Search.TypeQuery,
			TypeInputVisible: state.TypeInputVisible(),
			ProductTypes:     r.opts.ProductTypes,
		},
		Summary: Summarize(products),
	}

	visible := state.Visible(products)
	screen.Cards = make([]Card, 0, len(visible))
	for _, p := range visible {
		screen.Cards = append(screen.Cards, r.card(p))
	}

	total := state.TotalPages(len(products))
	screen.Pages = make([]PageButton, 0, total)
	for i := 1; i <= total; i++ {
		screen.Pages = append(screen.Pages, PageButton{Number: i, Disabled: i == state.CurrentPage})
	}
	return screen
}

func (r *Renderer) card(p domain.Product) Card {
	c := Card{
		ID:          p.ID,
		Name:        p.ProductName,
		Type:        p.ProductType,
		DateBought:  p.DateBought,
		PriceBought: formatPrice(p.PriceBought),
		Condition:   p.Condition,
		Sold:        "No",
		Deletable:   r.opts.DeleteEnabled,
	}
	if p.Image != nil {
		c.Image = *p.Image
	}
	if p.IsSold {
		c.Sold = "Yes"
		c.ShowSold = true
		if p.DateSold != nil {
			c.DateSold = *p.DateSold
		}
		if p.PriceSold != nil {
			c.PriceSold = formatPrice(*p.PriceSold)
		}
	}
	return c
}

// formatPrice prints the shortest decimal form, so 10 is "$10" and 10.5 is "$10.5".
func formatPrice(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', -1, 64)
}
