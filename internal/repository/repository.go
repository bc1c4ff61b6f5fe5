package repository

import (
	"context"
	"errors"

	"github.com/utafrali/wishlist/internal/domain"
)

// ErrStaleList is returned by ItemListCache.Set when the list was invalidated
// after the caller read the generation it is writing for.
var ErrStaleList = errors.New("item list changed while it was being read")

// ItemRepository defines the interface for wishlist item persistence.
type ItemRepository interface {
	// List returns every item ordered by created_at descending.
	List(ctx context.Context) ([]domain.Item, error)

	// GetByID returns one item or an apperrors.NotFound error.
	GetByID(ctx context.Context, id string) (*domain.Item, error)

	// Create inserts a fully populated item (id and created_at included).
	Create(ctx context.Context, item *domain.Item) error

	// Update overwrites every mutable column of the item with the given id.
	Update(ctx context.Context, item *domain.Item) error

	// SetBought updates only the bought flag and returns the full record.
	SetBought(ctx context.Context, id string, bought bool) (*domain.Item, error)

	// Delete removes an item.
	Delete(ctx context.Context, id string) error
}

// ItemListCache caches the full ordered item list.
type ItemListCache interface {
	// Get returns the cached list. ok is false on a cache miss.
	Get(ctx context.Context) (items []domain.Item, ok bool, err error)

	// Generation returns the current list generation. Read it before loading
	// the list from the repository and pass it to Set.
	Generation(ctx context.Context) (int64, error)

	// Set stores the list only if the generation is still gen, otherwise it
	// returns ErrStaleList.
	Set(ctx context.Context, gen int64, items []domain.Item) error

	// Invalidate drops the cached list and advances the generation.
	Invalidate(ctx context.Context) error
}
