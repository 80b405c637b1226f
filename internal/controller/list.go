package controller

import (
	"context"

	"github.com/talkincode/stockbook/internal/catalog"
	"github.com/talkincode/stockbook/internal/view"
	"go.uber.org/zap"
)

// Load fetches the full collection and renders it.
type Load struct{}

func (Load) update(s *Session, st view.State) (view.State, effect) {
	return st, func(ctx context.Context, cat catalog.Catalog, post func(Result)) {
		refetch(ctx, s.ID, cat, post)
	}
}

// refetch replaces the held collection with a full listing. Every mutation
// ends here instead of patching the cached collection.
func refetch(ctx context.Context, sessionID string, cat catalog.Catalog, post func(Result)) {
	products, err := cat.List(ctx)
	if err != nil {
		logFailure(sessionID, "Error fetching products", err)
		return
	}
	post(Result{Refresh: true, Products: products})
}

// SelectPage re-renders the collection already held by the session at another page.
type SelectPage struct {
	Page int
}

func (c SelectPage) update(_ *Session, st view.State) (view.State, effect) {
	return st.SelectPage(c.Page), nil
}

// Delete removes a product once the user confirmed, then re-fetches.
// Without confirmation nothing happens.
type Delete struct {
	ID        int64
	Confirmed bool
}

func (c Delete) update(s *Session, st view.State) (view.State, effect) {
	if !s.opts.DeleteEnabled {
		zap.L().Warn("delete is disabled", zap.String("namespace", "controller"), zap.Int64("id", c.ID))
		return st, nil
	}
	if !c.Confirmed {
		return st, nil
	}
	return st, func(ctx context.Context, cat catalog.Catalog, post func(Result)) {
		if err := cat.Delete(ctx, c.ID); err != nil {
			logFailure(s.ID, "Error deleting product", err)
			return
		}
		refetch(ctx, s.ID, cat, post)
	}
}
