package seed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/wishlist/internal/domain"
	"github.com/utafrali/wishlist/internal/store"
	"github.com/utafrali/wishlist/pkg/logger"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) GetItems(ctx context.Context) ([]domain.Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Item), args.Error(1)
}

func (m *mockRepository) AddItem(ctx context.Context, d domain.Draft) (domain.Item, error) {
	args := m.Called(ctx, d)
	return args.Get(0).(domain.Item), args.Error(1)
}

func (m *mockRepository) UpdateItem(ctx context.Context, id string, p domain.Patch) (domain.Item, error) {
	args := m.Called(ctx, id, p)
	return args.Get(0).(domain.Item), args.Error(1)
}

func (m *mockRepository) DeleteItem(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepository) ToggleBought(ctx context.Context, id string, bought bool) (domain.Item, error) {
	args := m.Called(ctx, id, bought)
	return args.Get(0).(domain.Item), args.Error(1)
}

func TestDrafts_AreValid(t *testing.T) {
	drafts := Drafts()
	require.Len(t, drafts, 5)

	var total float64
	for _, d := range drafts {
		form := domain.Form{
			Name: d.Name, Link: d.Link, Source: d.Source, ImageURL: d.ImageURL,
			Category: d.Category, Priority: d.Priority, Price: d.Price, Bought: d.Bought,
		}
		assert.NoError(t, form.Validate(), d.Name)
		total += store.ParsePrice(d.Price)
	}
	assert.Equal(t, 214696.0, total)
}

func TestRun_AddsAllDemoItems(t *testing.T) {
	repo := new(mockRepository)
	repo.On("GetItems", mock.Anything).Return([]domain.Item{}, nil)
	for i, d := range Drafts() {
		repo.On("AddItem", mock.Anything, d).Return(d.Item(string(rune('a'+i)), time.Now()), nil).Once()
	}
	s := store.New(repo, logger.Discard())

	n, err := Run(context.Background(), s, false, logger.Discard())

	require.NoError(t, err)
	assert.Equal(t, 5, n)
	items := s.State().Items
	require.Len(t, items, 5)
	// Each add prepends, so the last demo item ends up first.
	assert.Equal(t, "Resistance Bands Set", items[0].Name)
	assert.Equal(t, 214696.0, s.TotalPrice())
	repo.AssertExpectations(t)
}

func TestRun_RefusesNonEmptyWithoutForce(t *testing.T) {
	repo := new(mockRepository)
	repo.On("GetItems", mock.Anything).Return([]domain.Item{{ID: "x", Name: "Existing", Price: "1"}}, nil)
	s := store.New(repo, logger.Discard())

	n, err := Run(context.Background(), s, false, logger.Discard())

	assert.ErrorIs(t, err, ErrNotEmpty)
	assert.Zero(t, n)
	repo.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything)
}

func TestRun_StopsAtFirstFailure(t *testing.T) {
	drafts := Drafts()
	repo := new(mockRepository)
	repo.On("GetItems", mock.Anything).Return([]domain.Item{}, nil)
	repo.On("AddItem", mock.Anything, drafts[0]).Return(drafts[0].Item("a", time.Now()), nil).Once()
	repo.On("AddItem", mock.Anything, drafts[1]).Return(domain.Item{}, errors.New("quota exceeded")).Once()
	s := store.New(repo, logger.Discard())

	n, err := Run(context.Background(), s, false, logger.Discard())

	require.Error(t, err)
	assert.Equal(t, "quota exceeded", err.Error())
	assert.Equal(t, 1, n)
	repo.AssertNotCalled(t, "AddItem", mock.Anything, drafts[2])
}

func TestRun_FetchFailure(t *testing.T) {
	repo := new(mockRepository)
	repo.On("GetItems", mock.Anything).Return(nil, errors.New("connection refused"))
	s := store.New(repo, logger.Discard())

	_, err := Run(context.Background(), s, true, logger.Discard())

	require.Error(t, err)
	assert.Equal(t, "connection refused", err.Error())
}
