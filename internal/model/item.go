package model

// Item represents a sellable inventory item with a single stock pool.
type Item struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
}

// Item categories.
const (
	CategoryAccommodation = "accommodation"
	CategoryFood          = "food"
	CategoryDrink         = "drink"
)

// Price returns the item's unit price as a formatted decimal string.
func (i *Item) Price() string {
	return FormatCents(i.PriceCents)
}
