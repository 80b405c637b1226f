package controller

import (
	"context"

	"github.com/talkincode/stockbook/internal/catalog"
	"github.com/talkincode/stockbook/internal/domain"
	"github.com/talkincode/stockbook/internal/view"
)

// OpenCreate opens the dialog for a new product.
type OpenCreate struct{}

func (OpenCreate) update(_ *Session, st view.State) (view.State, effect) {
	return st.OpenCreate(), nil
}

// OpenEdit binds edit mode to ID, re-fetches the full list and fills the
// dialog from the matching record. The fetched list is not rendered.
type OpenEdit struct {
	ID int64
}

func (c OpenEdit) update(s *Session, st view.State) (view.State, effect) {
	return st.BeginEdit(c.ID), func(ctx context.Context, cat catalog.Catalog, post func(Result)) {
		products, err := cat.List(ctx)
		if err != nil {
			logFailure(s.ID, "Error fetching product details", err)
			return
		}
		p, ok := domain.FindProduct(products, c.ID)
		if !ok {
			return
		}
		post(Result{Update: func(st view.State) view.State { return st.FillEdit(p) }})
	}
}

// ToggleSold mirrors the sold checkbox onto the sold sub-fields. Fields, when
// set, carries the inputs typed so far.
type ToggleSold struct {
	Checked bool
	Fields  *view.Fields
}

func (c ToggleSold) update(_ *Session, st view.State) (view.State, effect) {
	if c.Fields != nil {
		st = st.SetFields(*c.Fields)
	}
	return st.ToggleSold(c.Checked), nil
}

// CloseModal hides the dialog without submitting or resetting anything.
type CloseModal struct {
	Fields *view.Fields
}

func (c CloseModal) update(_ *Session, st view.State) (view.State, effect) {
	if c.Fields != nil {
		st = st.SetFields(*c.Fields)
	}
	return st.CloseModal(), nil
}

// Submit sends the form: POST to the collection in create mode, PUT to the
// bound item in edit mode. On success the dialog closes and resets, then the
// list is re-fetched. On failure the dialog stays as it is.
type Submit struct {
	Fields view.Fields
	Image  *catalog.Upload
}

func (c Submit) update(s *Session, st view.State) (view.State, effect) {
	st = st.SetFields(c.Fields)
	target := st.Submission()
	form := toForm(c.Fields, c.Image)
	return st, func(ctx context.Context, cat catalog.Catalog, post func(Result)) {
		var err error
		if target.Create {
			_, err = cat.Create(ctx, form)
		} else {
			_, err = cat.Update(ctx, target.ID, form)
		}
		if err != nil {
			logFailure(s.ID, "Error adding/updating product", err)
			return
		}
		post(Result{Update: view.State.SubmitSucceeded})
		refetch(ctx, s.ID, cat, post)
	}
}

func toForm(f view.Fields, image *catalog.Upload) *catalog.Form {
	return &catalog.Form{
		ProductName: f.ProductName,
		ProductType: f.ProductType,
		DateBought:  f.DateBought,
		PriceBought: f.PriceBought,
		Condition:   f.Condition,
		IsSold:      f.IsSold,
		DateSold:    f.DateSold,
		PriceSold:   f.PriceSold,
		Image:       image,
	}
}
