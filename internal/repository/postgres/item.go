package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/wishlist/internal/domain"
	"github.com/utafrali/wishlist/pkg/database"
	apperrors "github.com/utafrali/wishlist/pkg/errors"
)

const itemResource = "wishlist item"

const itemColumns = `id, name, link, source, image_url, category, priority, price, bought, created_at`

const (
	listItemsSQL = `SELECT ` + itemColumns + ` FROM wishlist_items ORDER BY created_at DESC`

	getItemSQL = `SELECT ` + itemColumns + ` FROM wishlist_items WHERE id = $1`

	insertItemSQL = `
		INSERT INTO wishlist_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	updateItemSQL = `
		UPDATE wishlist_items
		SET name = $2, link = $3, source = $4, image_url = $5, category = $6,
		    priority = $7, price = $8, bought = $9
		WHERE id = $1`

	setBoughtSQL = `UPDATE wishlist_items SET bought = $2 WHERE id = $1 RETURNING ` + itemColumns

	deleteItemSQL = `DELETE FROM wishlist_items WHERE id = $1`
)

// ItemRepository implements repository.ItemRepository using PostgreSQL.
type ItemRepository struct {
	db     database.DBTX
	tracer *database.QueryTracer
}

// NewItemRepository creates a new PostgreSQL-backed item repository. tracer
// may be nil.
func NewItemRepository(db database.DBTX, tracer *database.QueryTracer) *ItemRepository {
	return &ItemRepository{db: db, tracer: tracer}
}

func scanItem(row pgx.Row) (*domain.Item, error) {
	var item domain.Item
	var priority string
	if err := row.Scan(
		&item.ID, &item.Name, &item.Link, &item.Source, &item.ImageURL,
		&item.Category, &priority, &item.Price, &item.Bought, &item.CreatedAt,
	); err != nil {
		return nil, err
	}
	item.Priority = domain.Priority(priority)
	return &item, nil
}

// List returns all items, newest first.
func (r *ItemRepository) List(ctx context.Context) (items []domain.Item, err error) {
	ctx, end := r.tracer.Start(ctx, "list_items", listItemsSQL)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, listItemsSQL)
	if err != nil {
		return nil, fmt.Errorf("list wishlist items: %w", err)
	}
	defer rows.Close()

	items = []domain.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan wishlist item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wishlist rows: %w", err)
	}

	return items, nil
}

// GetByID returns the item with the given id.
func (r *ItemRepository) GetByID(ctx context.Context, id string) (item *domain.Item, err error) {
	ctx, end := r.tracer.Start(ctx, "get_item", getItemSQL)
	defer func() { end(err) }()

	item, err = scanItem(r.db.QueryRow(ctx, getItemSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(itemResource, id)
		}
		return nil, fmt.Errorf("get wishlist item: %w", err)
	}
	return item, nil
}

// Create inserts a new item.
func (r *ItemRepository) Create(ctx context.Context, item *domain.Item) (err error) {
	ctx, end := r.tracer.Start(ctx, "create_item", insertItemSQL)
	defer func() { end(err) }()

	_, err = r.db.Exec(ctx, insertItemSQL,
		item.ID, item.Name, item.Link, item.Source, item.ImageURL,
		item.Category, string(item.Priority), item.Price, item.Bought, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create wishlist item: %w", err)
	}
	return nil
}

// Update overwrites the mutable columns of an existing item.
func (r *ItemRepository) Update(ctx context.Context, item *domain.Item) (err error) {
	ctx, end := r.tracer.Start(ctx, "update_item", updateItemSQL)
	defer func() { end(err) }()

	ct, err := r.db.Exec(ctx, updateItemSQL,
		item.ID, item.Name, item.Link, item.Source, item.ImageURL,
		item.Category, string(item.Priority), item.Price, item.Bought,
	)
	if err != nil {
		return fmt.Errorf("update wishlist item: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound(itemResource, item.ID)
	}
	return nil
}

// SetBought updates the bought flag in a single round trip.
func (r *ItemRepository) SetBought(ctx context.Context, id string, bought bool) (item *domain.Item, err error) {
	ctx, end := r.tracer.Start(ctx, "set_bought", setBoughtSQL)
	defer func() { end(err) }()

	item, err = scanItem(r.db.QueryRow(ctx, setBoughtSQL, id, bought))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(itemResource, id)
		}
		return nil, fmt.Errorf("set wishlist item bought: %w", err)
	}
	return item, nil
}

// Delete removes an item.
func (r *ItemRepository) Delete(ctx context.Context, id string) (err error) {
	ctx, end := r.tracer.Start(ctx, "delete_item", deleteItemSQL)
	defer func() { end(err) }()

	ct, err := r.db.Exec(ctx, deleteItemSQL, id)
	if err != nil {
		return fmt.Errorf("delete wishlist item: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound(itemResource, id)
	}
	return nil
}
