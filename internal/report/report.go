package report

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erazemk/recepcija/internal/model"
)

// Line is one item's share of a day's sales.
type Line struct {
	ItemID       int64  `json:"item_id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Units        int    `json:"units"`
	RevenueCents int64  `json:"revenue_cents"`
}

// Revenue returns the line's revenue as a formatted decimal string.
func (l *Line) Revenue() string {
	return model.FormatCents(l.RevenueCents)
}

// Summary aggregates one day's sales.
type Summary struct {
	Date       time.Time `json:"date"`
	TotalCents int64     `json:"total_cents"`
	UnitsSold  int       `json:"units_sold"`
	Lines      []Line    `json:"lines"`
}

// Total returns the day's revenue as a formatted decimal string.
func (s *Summary) Total() string {
	return model.FormatCents(s.TotalCents)
}

// Daily aggregates the sales recorded on the given day (UTC) per item.
// Totals come from the captured sale prices, so later price edits to the
// underlying items don't change past reports.
func Daily(ctx context.Context, db *sql.DB, day time.Time) (*Summary, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT s.item_id, i.name, i.category,
		        SUM(s.quantity) AS units, SUM(s.total_cents) AS revenue
		 FROM sales s
		 JOIN items i ON i.id = s.item_id
		 WHERE DATE(s.sold_at) = ?
		 GROUP BY s.item_id
		 ORDER BY i.category, i.name`,
		day.UTC().Format(time.DateOnly),
	)
	if err != nil {
		return nil, fmt.Errorf("aggregating daily sales: %w", err)
	}
	defer rows.Close()

	summary := &Summary{Date: day.UTC().Truncate(24 * time.Hour)}
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ItemID, &l.Name, &l.Category, &l.Units, &l.RevenueCents); err != nil {
			return nil, fmt.Errorf("scanning report line: %w", err)
		}
		summary.UnitsSold += l.Units
		summary.TotalCents += l.RevenueCents
		summary.Lines = append(summary.Lines, l)
	}
	return summary, rows.Err()
}
