package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/recepcija/internal/model"
)

// DefaultItems is the inventory seeded when an item is missing, prices in cents.
var DefaultItems = []struct {
	Name       string
	Category   string
	PriceCents int64
	Quantity   int
}{
	{"Room", model.CategoryAccommodation, 120000, 10},
	{"Pasta", model.CategoryFood, 25000, 50},
	{"Burger", model.CategoryFood, 12000, 50},
	{"Noodles", model.CategoryFood, 14000, 50},
	{"Shake", model.CategoryDrink, 12000, 50},
	{"Chicken Roll", model.CategoryFood, 15000, 50},
}

// SeedDefaultItems inserts any default item that doesn't exist yet. Items that
// already exist keep their current price and stock, so restocks and price
// edits survive restarts.
func SeedDefaultItems(ctx context.Context, db *sql.DB) error {
	for _, d := range DefaultItems {
		existing, err := GetItemByName(ctx, db, d.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		if _, err := CreateItem(ctx, db, d.Name, d.Category, d.PriceCents, d.Quantity); err != nil {
			return fmt.Errorf("seeding item %q: %w", d.Name, err)
		}
	}
	return nil
}
