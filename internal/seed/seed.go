// Package seed loads demonstration items into an empty wishlist.
package seed

import (
	"context"
	"errors"
	"log/slog"

	"github.com/utafrali/wishlist/internal/domain"
	"github.com/utafrali/wishlist/internal/store"
)

// ErrNotEmpty is returned by Run when the wishlist already has items and
// force is false.
var ErrNotEmpty = errors.New("wishlist is not empty")

// Drafts returns the demo items in insertion order.
func Drafts() []domain.Draft {
	return []domain.Draft{
		{
			Name:     "Adjustable Dumbbell Set",
			Link:     "https://example.com/dumbbell-set",
			Source:   "Decathlon",
			ImageURL: "https://images.pexels.com/photos/949126/pexels-photo-949126.jpeg?auto=compress&cs=tinysrgb&w=800",
			Category: "Gym",
			Priority: domain.PriorityHigh,
			Price:    "15999",
		},
		{
			Name:     "iPad Air with Apple Pencil",
			Link:     "https://www.apple.com/in/ipad-air/",
			Source:   "Apple Store",
			ImageURL: "https://images.pexels.com/photos/1334597/pexels-photo-1334597.jpeg?auto=compress&cs=tinysrgb&w=800",
			Category: "School",
			Priority: domain.PriorityMedium,
			Price:    "54900",
		},
		{
			Name:     "Korean Skincare Set",
			Link:     "https://example.com/skincare-set",
			Source:   "Nykaa",
			ImageURL: "https://images.pexels.com/photos/3785147/pexels-photo-3785147.jpeg?auto=compress&cs=tinysrgb&w=800",
			Category: "Skincare",
			Priority: domain.PriorityLow,
			Price:    "2499",
			Bought:   true,
		},
		{
			Name:     "Herman Miller Aeron Chair",
			Link:     "https://www.hermanmiller.com/",
			Source:   "Herman Miller",
			ImageURL: "https://images.pexels.com/photos/1957478/pexels-photo-1957478.jpeg?auto=compress&cs=tinysrgb&w=800",
			Category: "Work",
			Priority: domain.PriorityHigh,
			Price:    "139999",
		},
		{
			Name:     "Resistance Bands Set",
			Link:     "https://example.com/resistance-bands",
			Source:   "Decathlon",
			ImageURL: "https://images.pexels.com/photos/4498155/pexels-photo-4498155.jpeg?auto=compress&cs=tinysrgb&w=800",
			Category: "Gym",
			Priority: domain.PriorityMedium,
			Price:    "1299",
		},
	}
}

// Run adds the demo items through s. It stops at the first failed add and
// returns the number of items added.
func Run(ctx context.Context, s *store.Store, force bool, logger *slog.Logger) (int, error) {
	s.FetchItems(ctx)
	st := s.State()
	if st.Error != "" {
		return 0, errors.New(st.Error)
	}
	if len(st.Items) > 0 && !force {
		return 0, ErrNotEmpty
	}

	added := 0
	for _, d := range Drafts() {
		s.AddItem(ctx, d)
		if msg := s.State().Error; msg != "" {
			return added, errors.New(msg)
		}
		added++
		logger.InfoContext(ctx, "seeded item", slog.String("name", d.Name))
	}
	return added, nil
}
