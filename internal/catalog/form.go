package catalog

import (
	"net/http"

	"github.com/guonaihong/gout"
	"github.com/guonaihong/gout/dataflow"
)

// Upload is an image file picked in the form.
type Upload struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Form is the multipart payload for create and update requests.
// It mirrors what a browser FormData built from the modal would carry:
// every text input is sent, hidden ones included, while the sold checkbox
// is only present when checked.
type Form struct {
	ProductName string
	ProductType string
	DateBought  string
	PriceBought string
	Condition   string
	IsSold      bool
	DateSold    string
	PriceSold   string
	Image       *Upload
}

// Values returns the multipart fields. Empty values are left out of the body,
// which the backend reads the same as an empty input.
func (f *Form) Values() gout.H {
	h := gout.H{
		"product_name": f.ProductName,
		"product_type": f.ProductType,
		"date_bought":  f.DateBought,
		"price_bought": f.PriceBought,
		"condition":    f.Condition,
		"date_sold":    f.DateSold,
		"price_sold":   f.PriceSold,
	}
	if f.IsSold {
		h["is_sold"] = "on"
	}
	if f.Image != nil && len(f.Image.Content) > 0 {
		h["image"] = gout.FormType{
			FileName:    f.Image.Filename,
			ContentType: f.Image.ContentType,
			File:        gout.FormMem(f.Image.Content),
		}
	}
	return h
}

// NewRequest builds the multipart request for the form without sending it.
func (f *Form) NewRequest(method, u string) (*http.Request, error) {
	return newFlow(gout.New(), method, u).SetForm(f.Values()).Request()
}

func newFlow(g *dataflow.Gout, method, u string) *dataflow.DataFlow {
	switch method {
	case http.MethodPost:
		return g.POST(u)
	case http.MethodPut:
		return g.PUT(u)
	case http.MethodDelete:
		return g.DELETE(u)
	}
	return g.GET(u)
}
