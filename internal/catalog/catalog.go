package catalog

import (
	"context"

	"github.com/pkg/errors"
	"github.com/talkincode/stockbook/internal/domain"
)

var (
	// ErrNetwork covers transport failures and undecodable responses.
	ErrNetwork = errors.New("catalog network error")
	// ErrStatus is returned when the backend answers with a non-2xx status.
	ErrStatus = errors.New("catalog unexpected status")
)

// Catalog is the remote inventory backend as seen by the controller.
// Every call is a single round trip; callers re-fetch with List after a mutation.
type Catalog interface {
	// List returns the full, unfiltered collection in backend order.
	List(ctx context.Context) ([]domain.Product, error)

	// Search returns the backend-filtered collection; a blank query behaves like List.
	Search(ctx context.Context, mode domain.SearchMode, query string) ([]domain.Product, error)

	// Create submits a new product and returns the backend's representation.
	Create(ctx context.Context, form *Form) (*domain.Product, error)

	// Update replaces the product with the given id.
	Update(ctx context.Context, id int64, form *Form) (*domain.Product, error)

	// Delete removes a product. Callers must have obtained the user's confirmation.
	Delete(ctx context.Context, id int64) error
}
