package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erazemk/recepcija/internal/db"
	"github.com/erazemk/recepcija/internal/model"
)

func TestRecordSale(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	cashier, _ := CreateUser(ctx, database, "staff1", "hash", model.RoleStaff)
	item, _ := CreateItem(ctx, database, "Tea", model.CategoryDrink, 1000, 50)

	sale, err := RecordSale(ctx, database, item.ID, 3, cashier.ID)
	if err != nil {
		t.Fatalf("RecordSale: %v", err)
	}
	if sale.TotalCents != 3000 {
		t.Errorf("expected total 3000, got %d", sale.TotalCents)
	}
	if sale.UnitPriceCents != 1000 {
		t.Errorf("expected unit price 1000, got %d", sale.UnitPriceCents)
	}
	if sale.Reference == "" {
		t.Error("expected a receipt reference")
	}
	if sale.ItemName != "Tea" || sale.CashierName != "staff1" {
		t.Errorf("expected joined names, got item %q cashier %q", sale.ItemName, sale.CashierName)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got.Quantity != 47 {
		t.Errorf("expected stock 47 after sale, got %d", got.Quantity)
	}
}

func TestRecordSaleInsufficientStock(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	cashier, _ := CreateUser(ctx, database, "staff1", "hash", model.RoleStaff)
	item, _ := CreateItem(ctx, database, "Coffee", model.CategoryDrink, 1500, 2)

	_, err := RecordSale(ctx, database, item.ID, 5, cashier.ID)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// Neither write may have happened.
	got, _ := GetItem(ctx, database, item.ID)
	if got.Quantity != 2 {
		t.Errorf("expected stock unchanged at 2, got %d", got.Quantity)
	}
	sales, _ := ListSalesOn(ctx, database, time.Now().UTC())
	if len(sales) != 0 {
		t.Errorf("expected no sale records, got %d", len(sales))
	}
}

func TestRecordSaleInvalidQuantity(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	cashier, _ := CreateUser(ctx, database, "staff1", "hash", model.RoleStaff)
	item, _ := CreateItem(ctx, database, "Burger", model.CategoryFood, 12000, 50)

	for _, qty := range []int{0, -1} {
		if _, err := RecordSale(ctx, database, item.ID, qty, cashier.ID); !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("quantity %d: expected ErrInvalidQuantity, got %v", qty, err)
		}
	}
}

func TestRecordSaleUnknownItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	cashier, _ := CreateUser(ctx, database, "staff1", "hash", model.RoleStaff)

	if _, err := RecordSale(ctx, database, 9999, 1, cashier.ID); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

func TestRecordSaleCapturesPriceAtSaleTime(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	cashier, _ := CreateUser(ctx, database, "staff1", "hash", model.RoleStaff)
	item, _ := CreateItem(ctx, database, "Shake", model.CategoryDrink, 12000, 50)

	sale, err := RecordSale(ctx, database, item.ID, 2, cashier.ID)
	if err != nil {
		t.Fatalf("RecordSale: %v", err)
	}

	// A later price change must not alter the recorded sale.
	if _, err := UpdatePrice(ctx, database, item.ID, 99900); err != nil {
		t.Fatalf("UpdatePrice: %v", err)
	}

	got, _ := GetSale(ctx, database, sale.ID)
	if got.UnitPriceCents != 12000 {
		t.Errorf("expected captured unit price 12000, got %d", got.UnitPriceCents)
	}
	if got.TotalCents != 24000 {
		t.Errorf("expected total 24000, got %d", got.TotalCents)
	}
}

func TestRepeatedSalesDecrementStock(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	cashier, _ := CreateUser(ctx, database, "staff1", "hash", model.RoleStaff)
	item, _ := CreateItem(ctx, database, "Noodles", model.CategoryFood, 14000, 10)

	total := 0
	for _, qty := range []int{3, 2, 4} {
		if _, err := RecordSale(ctx, database, item.ID, qty, cashier.ID); err != nil {
			t.Fatalf("RecordSale(%d): %v", qty, err)
		}
		total += qty
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got.Quantity != 10-total {
		t.Errorf("expected stock %d, got %d", 10-total, got.Quantity)
	}

	// One more unit than remains must be rejected.
	if _, err := RecordSale(ctx, database, item.ID, got.Quantity+1, cashier.ID); !errors.Is(err, ErrInsufficientStock) {
		t.Errorf("expected ErrInsufficientStock, got %v", err)
	}
}

func TestListAndDeleteSalesOn(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	cashier, _ := CreateUser(ctx, database, "staff1", "hash", model.RoleStaff)
	item, _ := CreateItem(ctx, database, "Pasta", model.CategoryFood, 25000, 50)

	RecordSale(ctx, database, item.ID, 1, cashier.ID)
	RecordSale(ctx, database, item.ID, 2, cashier.ID)

	today := time.Now().UTC()
	sales, err := ListSalesOn(ctx, database, today)
	if err != nil {
		t.Fatalf("ListSalesOn: %v", err)
	}
	if len(sales) != 2 {
		t.Fatalf("expected 2 sales today, got %d", len(sales))
	}

	// A different day has no sales.
	yesterday := today.AddDate(0, 0, -1)
	empty, _ := ListSalesOn(ctx, database, yesterday)
	if len(empty) != 0 {
		t.Errorf("expected no sales yesterday, got %d", len(empty))
	}

	n, err := DeleteSalesOn(ctx, database, today)
	if err != nil {
		t.Fatalf("DeleteSalesOn: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 deleted sales, got %d", n)
	}

	sales, _ = ListSalesOn(ctx, database, today)
	if len(sales) != 0 {
		t.Errorf("expected no sales after delete, got %d", len(sales))
	}
}
