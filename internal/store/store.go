// Package store holds the client-side wishlist state: the item collection, the
// active filters and the loading/error flags, plus the actions that keep the
// collection in step with the remote repository.
package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/utafrali/wishlist/internal/domain"
	apperrors "github.com/utafrali/wishlist/pkg/errors"
)

// Repository is the persistence contract the store consumes.
type Repository interface {
	// GetItems returns every item, newest first.
	GetItems(ctx context.Context) ([]domain.Item, error)

	// AddItem stores a new item and returns it with its assigned id and created_at.
	AddItem(ctx context.Context, draft domain.Draft) (domain.Item, error)

	// UpdateItem applies a partial update and returns the full record.
	UpdateItem(ctx context.Context, id string, patch domain.Patch) (domain.Item, error)

	// DeleteItem removes the item.
	DeleteItem(ctx context.Context, id string) error

	// ToggleBought sets the bought flag and returns the full record.
	ToggleBought(ctx context.Context, id string, bought bool) (domain.Item, error)
}

// State is a point-in-time view of the store.
type State struct {
	Items     []domain.Item
	Filters   domain.FilterOptions
	IsLoading bool
	Error     string
}

func (s State) clone() State {
	if s.Items != nil {
		items := make([]domain.Item, len(s.Items))
		copy(items, s.Items)
		s.Items = items
	}
	return s
}

// Store coordinates the wishlist state. The lock is only held while state is
// read or written, never across a repository call, so overlapping actions
// resolve independently and the last one to finish wins. Subscribers see
// snapshots in the order the changes were applied.
type Store struct {
	repo   Repository
	logger *slog.Logger

	mu        sync.RWMutex
	state     State
	pending   []State
	notifying bool

	subMu   sync.Mutex
	subs    map[int]func(State)
	nextSub int
}

// New creates an empty store backed by repo.
func New(repo Repository, logger *slog.Logger) *Store {
	return &Store{
		repo:   repo,
		logger: logger,
		subs:   make(map[int]func(State)),
	}
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Subscribe registers fn to be called with a fresh snapshot after every state
// change. The returned function removes the subscription.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// update applies fn under the write lock and queues the resulting snapshot.
// The first caller to find the queue idle delivers queued snapshots until it
// is empty; concurrent or nested callers only enqueue.
func (s *Store) update(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	s.pending = append(s.pending, s.state.clone())
	if s.notifying {
		s.mu.Unlock()
		return
	}
	s.notifying = true
	s.mu.Unlock()

	s.drain()
}

func (s *Store) drain() {
	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.pending = nil
			s.notifying = false
			s.mu.Unlock()
			return
		}
		snap := s.pending[0]
		s.pending = s.pending[1:]
		s.mu.Unlock()

		for _, l := range s.listeners() {
			l(snap.clone())
		}
	}
}

func (s *Store) listeners() []func(State) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	out := make([]func(State), 0, len(s.subs))
	for _, l := range s.subs {
		out = append(out, l)
	}
	return out
}

func (s *Store) begin() {
	s.update(func(st *State) {
		st.IsLoading = true
		st.Error = ""
	})
}

func (s *Store) fail(ctx context.Context, action string, err error, fallback string, settle bool) {
	msg := apperrors.Message(err)
	if msg == "" {
		msg = fallback
	}
	s.logger.WarnContext(ctx, "wishlist action failed",
		slog.String("action", action),
		slog.String("error", err.Error()),
	)
	s.update(func(st *State) {
		st.Error = msg
		if settle {
			st.IsLoading = false
		}
	})
}

// FetchItems replaces the collection with the repository's items. On failure
// the previous collection is kept and Error is set.
func (s *Store) FetchItems(ctx context.Context) {
	s.begin()
	items, err := s.repo.GetItems(ctx)
	if err != nil {
		s.fail(ctx, "fetch_items", err, "Failed to fetch items", true)
		return
	}
	s.update(func(st *State) {
		st.Items = append([]domain.Item(nil), items...)
		st.IsLoading = false
	})
}

// AddItem creates an item and prepends it to the collection.
func (s *Store) AddItem(ctx context.Context, draft domain.Draft) {
	s.begin()
	item, err := s.repo.AddItem(ctx, draft)
	if err != nil {
		s.fail(ctx, "add_item", err, "Failed to add item", true)
		return
	}
	s.update(func(st *State) {
		items := make([]domain.Item, 0, len(st.Items)+1)
		items = append(items, item)
		st.Items = append(items, st.Items...)
		st.IsLoading = false
	})
}

// UpdateItem applies patch remotely and replaces the local entry in place.
func (s *Store) UpdateItem(ctx context.Context, id string, patch domain.Patch) {
	s.begin()
	item, err := s.repo.UpdateItem(ctx, id, patch)
	if err != nil {
		s.fail(ctx, "update_item", err, "Failed to update item", true)
		return
	}
	s.update(func(st *State) {
		st.Items = replaceItem(st.Items, id, item)
		st.IsLoading = false
	})
}

// DeleteItem removes an item remotely and then locally.
func (s *Store) DeleteItem(ctx context.Context, id string) {
	s.begin()
	if err := s.repo.DeleteItem(ctx, id); err != nil {
		s.fail(ctx, "delete_item", err, "Failed to delete item", true)
		return
	}
	s.update(func(st *State) {
		kept := make([]domain.Item, 0, len(st.Items))
		for _, it := range st.Items {
			if it.ID != id {
				kept = append(kept, it)
			}
		}
		st.Items = kept
		st.IsLoading = false
	})
}

// ToggleBought flips the bought flag of a locally known item. Unknown ids are
// ignored. Unlike the other actions it neither clears Error first nor touches
// IsLoading.
func (s *Store) ToggleBought(ctx context.Context, id string) {
	current, ok := s.Item(id)
	if !ok {
		return
	}
	item, err := s.repo.ToggleBought(ctx, id, !current.Bought)
	if err != nil {
		s.fail(ctx, "toggle_bought", err, "Failed to update bought status", false)
		return
	}
	s.update(func(st *State) {
		st.Items = replaceItem(st.Items, id, item)
	})
}

func replaceItem(items []domain.Item, id string, item domain.Item) []domain.Item {
	out := make([]domain.Item, len(items))
	for i, it := range items {
		if it.ID == id {
			out[i] = item
		} else {
			out[i] = it
		}
	}
	return out
}

// SetSourceFilter sets the source filter; "" clears it.
func (s *Store) SetSourceFilter(source string) {
	s.update(func(st *State) { st.Filters.Source = source })
}

// SetCategoryFilter sets the category filter; "" clears it.
func (s *Store) SetCategoryFilter(category string) {
	s.update(func(st *State) { st.Filters.Category = category })
}

// SetPriorityFilter sets the priority filter; "" clears it.
func (s *Store) SetPriorityFilter(p domain.Priority) {
	s.update(func(st *State) { st.Filters.Priority = p })
}

// ResetFilters clears all filters.
func (s *Store) ResetFilters() {
	s.update(func(st *State) { st.Filters = domain.FilterOptions{} })
}

// FilteredItems returns the items matching the current filters.
func (s *Store) FilteredItems() []domain.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Filter(s.state.Items, s.state.Filters)
}

// TotalPrice sums the prices of the filtered items.
func (s *Store) TotalPrice() float64 {
	return SumPrices(s.FilteredItems())
}

// UniqueSources lists the sources of all items, ignoring filters.
func (s *Store) UniqueSources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return DistinctSources(s.state.Items)
}

// UniqueCategories lists the categories of all items, ignoring filters.
func (s *Store) UniqueCategories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return DistinctCategories(s.state.Items)
}

// Item looks up an item by id.
func (s *Store) Item(id string) (domain.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.state.Items {
		if it.ID == id {
			return it, true
		}
	}
	return domain.Item{}, false
}
