package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/recepcija/internal/model"
)

// CreateItem creates a new inventory item.
func CreateItem(ctx context.Context, db *sql.DB, name, category string, priceCents int64, quantity int) (*model.Item, error) {
	if priceCents < 0 {
		return nil, ErrInvalidPrice
	}
	if quantity < 0 {
		return nil, ErrStockNegative
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO items (name, category, price_cents, quantity) VALUES (?, ?, ?, ?)`,
		name, category, priceCents, quantity,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID, or nil if absent.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item := &model.Item{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, category, price_cents, quantity
		 FROM items WHERE id = ?`, id,
	).Scan(&item.ID, &item.Name, &item.Category, &item.PriceCents, &item.Quantity)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// GetItemByName returns an item by name, or nil if absent.
func GetItemByName(ctx context.Context, db *sql.DB, name string) (*model.Item, error) {
	item := &model.Item{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, category, price_cents, quantity
		 FROM items WHERE name = ?`, name,
	).Scan(&item.ID, &item.Name, &item.Category, &item.PriceCents, &item.Quantity)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item by name: %w", err)
	}
	return item, nil
}

// ListItems returns all items ordered by category and name.
func ListItems(ctx context.Context, db *sql.DB) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, category, price_cents, quantity
		 FROM items ORDER BY category, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Category, &item.PriceCents, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// AdjustStock changes an item's stock by delta (positive to restock, negative
// for corrections). Rejects adjustments that would make stock negative.
func AdjustStock(ctx context.Context, db *sql.DB, itemID int64, delta int) (*model.Item, error) {
	if delta == 0 {
		return nil, fmt.Errorf("delta must be non-zero")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var current int
	err = tx.QueryRowContext(ctx,
		`SELECT quantity FROM items WHERE id = ?`, itemID,
	).Scan(&current)
	if err == sql.ErrNoRows {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("checking current stock: %w", err)
	}

	newQty := current + delta
	if newQty < 0 {
		return nil, fmt.Errorf("%w: %d%+d = %d", ErrStockNegative, current, delta, newQty)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE items SET quantity = ? WHERE id = ?`, newQty, itemID,
	); err != nil {
		return nil, fmt.Errorf("adjusting stock: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing stock adjustment: %w", err)
	}

	return GetItem(ctx, db, itemID)
}

// UpdatePrice sets an item's unit price in cents. Rejects non-positive prices.
func UpdatePrice(ctx context.Context, db *sql.DB, itemID int64, priceCents int64) (*model.Item, error) {
	if priceCents <= 0 {
		return nil, ErrInvalidPrice
	}

	result, err := db.ExecContext(ctx,
		`UPDATE items SET price_cents = ? WHERE id = ?`,
		priceCents, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating price: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, ErrItemNotFound
	}

	return GetItem(ctx, db, itemID)
}
