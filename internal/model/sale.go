package model

import "time"

// Sale represents a completed sale of a single item. The unit price is
// captured at sale time, so later price edits never change recorded totals.
type Sale struct {
	ID             int64     `json:"id"`
	Reference      string    `json:"reference"`
	ItemID         int64     `json:"item_id"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	TotalCents     int64     `json:"total_cents"`
	CashierID      int64     `json:"cashier_id"`
	SoldAt         time.Time `json:"sold_at"`

	// Joined fields (not always populated).
	ItemName    string `json:"item_name,omitempty"`
	Category    string `json:"category,omitempty"`
	CashierName string `json:"cashier_name,omitempty"`
}
