package lodger_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/xraph/lodger"
	"github.com/xraph/lodger/bed"
	"github.com/xraph/lodger/property"
	"github.com/xraph/lodger/room"
	"github.com/xraph/lodger/store/memory"
	"github.com/xraph/lodger/tenant"
	"github.com/xraph/lodger/txn"
	"github.com/xraph/lodger/types"
)

// TestDocumentationExamples verifies that the examples in the package
// documentation compile and behave as described.
func TestDocumentationExamples(t *testing.T) {
	t.Run("QuickStartExample", func(t *testing.T) {
		// Create store (memory for demo, use mongo in production)
		store := memory.New()

		// Initialize Lodger
		l := lodger.New(store,
			lodger.WithLogger(slog.Default()),
			lodger.WithDefaultCurrency("inr"),
		)

		// Start the engine
		ctx := context.Background()
		if err := l.Start(ctx); err != nil {
			t.Fatal(err)
		}
		defer l.Stop() //nolint:errcheck // demo teardown

		// Register the bed hierarchy
		p := &property.Property{Name: "Sunrise PG", City: "Bengaluru"}
		if err := l.CreateProperty(ctx, p); err != nil {
			t.Fatal(err)
		}

		r := &room.Room{PropertyID: p.ID, Number: "2", Capacity: 2}
		if err := l.CreateRoom(ctx, r); err != nil {
			t.Fatal(err)
		}

		b := &bed.Bed{
			RoomID:      r.ID,
			Label:       "2A",
			MonthlyCost: lodger.INR(300000), // ₹3000.00
		}
		if err := l.CreateBed(ctx, b); err != nil {
			t.Fatal(err)
		}

		// Move a tenant in
		tn := &tenant.Tenant{Name: "Asha", Phone: "9800000000"}
		if err := l.RegisterTenant(ctx, tn); err != nil {
			t.Fatal(err)
		}

		start := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
		occ, err := l.OpenOccupancy(ctx, tn.ID, b.ID, start, "")
		if err != nil {
			t.Fatal(err)
		}

		// Bill the first month and record a payment
		monthBill, err := l.CreateBill(ctx, occ.ID, start, start.AddDate(0, 1, 0))
		if err != nil {
			t.Fatal(err)
		}

		if _, err := l.RecordPayment(ctx, monthBill.ID, lodger.INR(300000), txn.MethodUPI, "upi-ref", "", time.Now()); err != nil {
			t.Fatal(err)
		}

		bal, err := l.BillBalance(ctx, monthBill.ID)
		if err != nil {
			t.Fatal(err)
		}
		if !bal.Balance.Equal(types.Zero("inr")) {
			t.Fatalf("expected settled bill, got balance %s", bal.Balance)
		}
	})
}
