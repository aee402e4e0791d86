// Package export writes a day's sales ledger to a timestamped CSV file and
// implements the export-then-delete daily reset.
package export

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/erazemk/recepcija/internal/model"
	"github.com/erazemk/recepcija/internal/store"
)

// ErrNoSales is returned when the requested day has no sales to export.
var ErrNoSales = errors.New("no sales recorded for that day")

// Header is the CSV header row.
var Header = []string{"item", "quantity", "unit_price", "total", "timestamp", "cashier"}

// Day writes the given day's sales (UTC) to a CSV file in dir, one row per
// sale, and returns the file's path. The filename embeds both the exported
// day and the export time so repeated exports never collide.
func Day(ctx context.Context, db *sql.DB, dir string, day, now time.Time) (string, error) {
	sales, err := store.ListSalesOn(ctx, db, day)
	if err != nil {
		return "", err
	}
	if len(sales) == 0 {
		return "", ErrNoSales
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	name := fmt.Sprintf("sales-%s-%s.csv",
		day.UTC().Format("20060102"), now.UTC().Format("150405"))
	path := filepath.Join(dir, name)

	// O_EXCL: never overwrite an earlier export, even within the same second.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("creating export file: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		f.Close()
		return "", fmt.Errorf("writing export header: %w", err)
	}
	for _, s := range sales {
		row := []string{
			s.ItemName,
			fmt.Sprintf("%d", s.Quantity),
			model.FormatCents(s.UnitPriceCents),
			model.FormatCents(s.TotalCents),
			s.SoldAt.UTC().Format(time.RFC3339),
			s.CashierName,
		}
		if err := w.Write(row); err != nil {
			f.Close()
			return "", fmt.Errorf("writing export row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return "", fmt.Errorf("flushing export: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing export file: %w", err)
	}

	return path, nil
}

// ResetDay exports the given day's sales and then deletes them. The export
// happens-before the delete: if the export fails for any reason, no sales
// are removed. Returns the export file's path.
func ResetDay(ctx context.Context, db *sql.DB, dir string, day, now time.Time) (string, error) {
	path, err := Day(ctx, db, dir, day, now)
	if err != nil {
		return "", fmt.Errorf("export failed, sales not cleared: %w", err)
	}

	if _, err := store.DeleteSalesOn(ctx, db, day); err != nil {
		return "", err
	}

	return path, nil
}
