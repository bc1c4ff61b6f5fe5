package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/wishlist/internal/domain"
	"github.com/utafrali/wishlist/internal/event"
	"github.com/utafrali/wishlist/internal/repository"
	apperrors "github.com/utafrali/wishlist/pkg/errors"
	"github.com/utafrali/wishlist/pkg/validator"
)

// ItemService implements the business logic for wishlist items.
type ItemService struct {
	repo     repository.ItemRepository
	cache    repository.ItemListCache
	producer *event.Producer
	logger   *slog.Logger
	now      func() time.Time
}

// NewItemService creates a new item service. cache and producer may be nil.
func NewItemService(
	repo repository.ItemRepository,
	cache repository.ItemListCache,
	producer *event.Producer,
	logger *slog.Logger,
) *ItemService {
	return &ItemService{
		repo:     repo,
		cache:    cache,
		producer: producer,
		logger:   logger,
		now:      time.Now,
	}
}

// List returns every item, newest first. The cached list is served when present.
// On a miss the list is cached under the generation read before the query, so a
// mutation that lands while the query runs leaves the cache empty.
func (s *ItemService) List(ctx context.Context) ([]domain.Item, error) {
	var (
		gen       int64
		cacheable bool
	)
	if s.cache != nil {
		items, ok, err := s.cache.Get(ctx)
		switch {
		case err != nil:
			s.logger.WarnContext(ctx, "item list cache read failed", slog.String("error", err.Error()))
		case ok:
			return items, nil
		}

		gen, err = s.cache.Generation(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "item list cache generation read failed", slog.String("error", err.Error()))
		} else {
			cacheable = true
		}
	}

	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	if cacheable {
		err := s.cache.Set(ctx, gen, items)
		switch {
		case errors.Is(err, repository.ErrStaleList):
			s.logger.DebugContext(ctx, "item list changed during read, not caching")
		case err != nil:
			s.logger.WarnContext(ctx, "item list cache write failed", slog.String("error", err.Error()))
		}
	}
	return items, nil
}

// Get returns one item.
func (s *ItemService) Get(ctx context.Context, id string) (*domain.Item, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// Create validates draft, assigns an id and creation time, and stores the item.
func (s *ItemService) Create(ctx context.Context, draft domain.Draft) (*domain.Item, error) {
	draft.Normalize()
	if err := validator.Validate(draft); err != nil {
		return nil, err
	}

	item := draft.Item(uuid.NewString(), s.now().UTC())
	if err := s.repo.Create(ctx, &item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	s.invalidate(ctx)
	if err := s.producer.PublishItemCreated(ctx, &item); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish item.created event",
			slog.String("item_id", item.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "item created",
		slog.String("item_id", item.ID),
		slog.String("source", item.Source),
	)
	return &item, nil
}

// Update applies a partial update and returns the full record.
func (s *ItemService) Update(ctx context.Context, id string, patch domain.Patch) (*domain.Item, error) {
	if patch.IsEmpty() {
		return nil, apperrors.InvalidInput("no fields to update")
	}
	patch.Normalize()
	if err := validator.Validate(patch); err != nil {
		return nil, err
	}

	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item for update: %w", err)
	}

	patch.Apply(item)
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}

	s.afterUpdate(ctx, item)
	return item, nil
}

// SetBought sets the bought flag and returns the full record.
func (s *ItemService) SetBought(ctx context.Context, id string, bought bool) (*domain.Item, error) {
	item, err := s.repo.SetBought(ctx, id, bought)
	if err != nil {
		return nil, fmt.Errorf("set item bought: %w", err)
	}

	s.afterUpdate(ctx, item)
	return item, nil
}

// Delete removes an item.
func (s *ItemService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	s.invalidate(ctx)
	if err := s.producer.PublishItemDeleted(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish item.deleted event",
			slog.String("item_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "item deleted", slog.String("item_id", id))
	return nil
}

func (s *ItemService) afterUpdate(ctx context.Context, item *domain.Item) {
	s.invalidate(ctx)
	if err := s.producer.PublishItemUpdated(ctx, item); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish item.updated event",
			slog.String("item_id", item.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "item updated",
		slog.String("item_id", item.ID),
		slog.Bool("bought", item.Bought),
	)
}

func (s *ItemService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.WarnContext(ctx, "item list cache invalidation failed", slog.String("error", err.Error()))
	}
}
