package report

import (
	"context"
	"testing"
	"time"

	"github.com/erazemk/recepcija/internal/db"
	"github.com/erazemk/recepcija/internal/model"
	"github.com/erazemk/recepcija/internal/store"
)

func TestDaily(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	cashier, _ := store.CreateUser(ctx, database, "staff1", "hash", model.RoleStaff)
	tea, _ := store.CreateItem(ctx, database, "Tea", model.CategoryDrink, 1000, 50)
	burger, _ := store.CreateItem(ctx, database, "Burger", model.CategoryFood, 12000, 50)

	if _, err := store.RecordSale(ctx, database, tea.ID, 3, cashier.ID); err != nil {
		t.Fatalf("RecordSale: %v", err)
	}
	if _, err := store.RecordSale(ctx, database, tea.ID, 2, cashier.ID); err != nil {
		t.Fatalf("RecordSale: %v", err)
	}
	if _, err := store.RecordSale(ctx, database, burger.ID, 1, cashier.ID); err != nil {
		t.Fatalf("RecordSale: %v", err)
	}

	summary, err := Daily(ctx, database, time.Now().UTC())
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}

	if summary.UnitsSold != 6 {
		t.Errorf("expected 6 units sold, got %d", summary.UnitsSold)
	}
	if summary.TotalCents != 5*1000+12000 {
		t.Errorf("expected total 17000, got %d", summary.TotalCents)
	}
	if len(summary.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(summary.Lines))
	}

	// drink sorts before food.
	if summary.Lines[0].Name != "Tea" || summary.Lines[0].Units != 5 || summary.Lines[0].RevenueCents != 5000 {
		t.Errorf("unexpected first line: %+v", summary.Lines[0])
	}
	if summary.Lines[1].Name != "Burger" || summary.Lines[1].RevenueCents != 12000 {
		t.Errorf("unexpected second line: %+v", summary.Lines[1])
	}
}

func TestDailyEmptyDay(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	summary, err := Daily(ctx, database, time.Now().UTC())
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	if summary.UnitsSold != 0 || summary.TotalCents != 0 || len(summary.Lines) != 0 {
		t.Errorf("expected empty summary, got %+v", summary)
	}
}

func TestDailyIgnoresLaterPriceChanges(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	cashier, _ := store.CreateUser(ctx, database, "staff1", "hash", model.RoleStaff)
	item, _ := store.CreateItem(ctx, database, "Shake", model.CategoryDrink, 12000, 50)

	if _, err := store.RecordSale(ctx, database, item.ID, 2, cashier.ID); err != nil {
		t.Fatalf("RecordSale: %v", err)
	}
	if _, err := store.UpdatePrice(ctx, database, item.ID, 50000); err != nil {
		t.Fatalf("UpdatePrice: %v", err)
	}

	summary, err := Daily(ctx, database, time.Now().UTC())
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	if summary.TotalCents != 24000 {
		t.Errorf("expected total 24000 from captured prices, got %d", summary.TotalCents)
	}
}

func TestSummaryTotalFormatting(t *testing.T) {
	s := &Summary{TotalCents: 123456}
	if got := s.Total(); got != "1234.56" {
		t.Errorf("expected '1234.56', got %q", got)
	}
	l := &Line{RevenueCents: 5}
	if got := l.Revenue(); got != "0.05" {
		t.Errorf("expected '0.05', got %q", got)
	}
}
