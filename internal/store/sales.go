package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/recepcija/internal/model"
)

// RecordSale records a sale of an item, decrementing stock and inserting the
// sale row in a single transaction. The item's current price is captured into
// the record, so later price edits don't alter historical totals.
func RecordSale(ctx context.Context, db *sql.DB, itemID int64, quantity int, cashierID int64) (*model.Sale, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var priceCents int64
	var stock int
	err = tx.QueryRowContext(ctx,
		`SELECT price_cents, quantity FROM items WHERE id = ?`, itemID,
	).Scan(&priceCents, &stock)
	if err == sql.ErrNoRows {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("checking item: %w", err)
	}

	if quantity > stock {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientStock, stock, quantity)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE items SET quantity = quantity - ? WHERE id = ?`,
		quantity, itemID,
	); err != nil {
		return nil, fmt.Errorf("decrementing stock: %w", err)
	}

	totalCents := priceCents * int64(quantity)
	result, err := tx.ExecContext(ctx,
		`INSERT INTO sales (reference, item_id, quantity, unit_price_cents, total_cents, cashier_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), itemID, quantity, priceCents, totalCents, cashierID,
	)
	if err != nil {
		return nil, fmt.Errorf("recording sale: %w", err)
	}

	saleID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting sale id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing sale: %w", err)
	}

	return GetSale(ctx, db, saleID)
}

// GetSale returns a sale by ID with item and cashier names joined.
func GetSale(ctx context.Context, db *sql.DB, id int64) (*model.Sale, error) {
	s := &model.Sale{}
	err := db.QueryRowContext(ctx,
		`SELECT s.id, s.reference, s.item_id, s.quantity, s.unit_price_cents, s.total_cents,
		        s.cashier_id, s.sold_at,
		        i.name AS item_name, i.category, u.username AS cashier_name
		 FROM sales s
		 JOIN items i ON i.id = s.item_id
		 JOIN users u ON u.id = s.cashier_id
		 WHERE s.id = ?`, id,
	).Scan(&s.ID, &s.Reference, &s.ItemID, &s.Quantity, &s.UnitPriceCents, &s.TotalCents,
		&s.CashierID, &s.SoldAt,
		&s.ItemName, &s.Category, &s.CashierName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting sale: %w", err)
	}
	return s, nil
}

// ListSalesOn returns the sales recorded on the given day (UTC), oldest first,
// with item and cashier names joined.
func ListSalesOn(ctx context.Context, db *sql.DB, day time.Time) ([]model.Sale, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT s.id, s.reference, s.item_id, s.quantity, s.unit_price_cents, s.total_cents,
		        s.cashier_id, s.sold_at,
		        i.name AS item_name, i.category, u.username AS cashier_name
		 FROM sales s
		 JOIN items i ON i.id = s.item_id
		 JOIN users u ON u.id = s.cashier_id
		 WHERE DATE(s.sold_at) = ?
		 ORDER BY s.sold_at, s.id`,
		day.UTC().Format(time.DateOnly),
	)
	if err != nil {
		return nil, fmt.Errorf("listing sales: %w", err)
	}
	defer rows.Close()

	var sales []model.Sale
	for rows.Next() {
		var s model.Sale
		if err := rows.Scan(&s.ID, &s.Reference, &s.ItemID, &s.Quantity, &s.UnitPriceCents, &s.TotalCents,
			&s.CashierID, &s.SoldAt,
			&s.ItemName, &s.Category, &s.CashierName); err != nil {
			return nil, fmt.Errorf("scanning sale: %w", err)
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

// DeleteSalesOn deletes all sales recorded on the given day (UTC) and returns
// the number of deleted rows. Callers must export the day first.
func DeleteSalesOn(ctx context.Context, db *sql.DB, day time.Time) (int64, error) {
	result, err := db.ExecContext(ctx,
		`DELETE FROM sales WHERE DATE(sold_at) = ?`,
		day.UTC().Format(time.DateOnly),
	)
	if err != nil {
		return 0, fmt.Errorf("deleting sales: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted sales: %w", err)
	}
	return n, nil
}
