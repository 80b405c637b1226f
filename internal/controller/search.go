package controller

import (
	"context"

	"github.com/talkincode/stockbook/internal/catalog"
	"github.com/talkincode/stockbook/internal/domain"
	"github.com/talkincode/stockbook/internal/view"
)

// SwitchSearchMode toggles which search input is visible.
type SwitchSearchMode struct {
	Mode domain.SearchMode
}

func (c SwitchSearchMode) update(s *Session, st view.State) (view.State, effect) {
	if !s.opts.SearchEnabled {
		return st, nil
	}
	return st.SwitchSearchMode(c.Mode), nil
}

// Search records both inputs, queries with the active one and renders the
// result at the current page. A blank query lists everything.
type Search struct {
	Query     string
	TypeQuery string
}

func (c Search) update(s *Session, st view.State) (view.State, effect) {
	if !s.opts.SearchEnabled {
		return st, nil
	}
	st = st.SetSearchInputs(c.Query, c.TypeQuery)
	mode, query := st.Search.Mode, st.ActiveQuery()
	return st, func(ctx context.Context, cat catalog.Catalog, post func(Result)) {
		products, err := cat.Search(ctx, mode, query)
		if err != nil {
			logFailure(s.ID, "Error searching products", err)
			return
		}
		post(Result{Refresh: true, Products: products})
	}
}
