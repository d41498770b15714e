package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xraph/lodger"
	"github.com/xraph/lodger/bed"
	"github.com/xraph/lodger/bill"
	"github.com/xraph/lodger/fee"
	"github.com/xraph/lodger/id"
	"github.com/xraph/lodger/occupancy"
	"github.com/xraph/lodger/property"
	"github.com/xraph/lodger/room"
	"github.com/xraph/lodger/txn"
	"github.com/xraph/lodger/types"
)

func seedRoom(t *testing.T, s *Store, capacity int) *room.Room {
	t.Helper()
	ctx := context.Background()

	p := &property.Property{Entity: types.NewEntity(), ID: id.NewPropertyID(), Name: "Green PG"}
	if err := s.CreateProperty(ctx, p); err != nil {
		t.Fatalf("CreateProperty failed: %v", err)
	}

	r := &room.Room{
		Entity:     types.NewEntity(),
		ID:         id.NewRoomID(),
		PropertyID: p.ID,
		Number:     "101",
		Capacity:   capacity,
		Status:     room.StatusVacant,
	}
	if err := s.CreateRoom(ctx, r); err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	return r
}

func seedBed(t *testing.T, s *Store, r *room.Room) *bed.Bed {
	t.Helper()
	b := &bed.Bed{
		Entity:      types.NewEntity(),
		ID:          id.NewBedID(),
		RoomID:      r.ID,
		PropertyID:  r.PropertyID,
		Label:       "A",
		MonthlyCost: types.INR(300000),
	}
	if err := s.CreateBed(context.Background(), b); err != nil {
		t.Fatalf("CreateBed failed: %v", err)
	}
	return b
}

func openOccupancy(tenantID id.TenantID, bedID id.BedID, roomID id.RoomID, start time.Time) *occupancy.Occupancy {
	return &occupancy.Occupancy{
		Entity:    types.NewEntity(),
		ID:        id.NewOccupancyID(),
		TenantID:  tenantID,
		BedID:     bedID,
		RoomID:    roomID,
		StartDate: start,
	}
}

func TestCreateOccupancyRejectsSecondOpen(t *testing.T) {
	s := New()
	ctx := context.Background()
	r := seedRoom(t, s, 2)
	b := seedBed(t, s, r)
	start := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)

	first := openOccupancy(id.NewTenantID(), b.ID, r.ID, start)
	if err := s.CreateOccupancy(ctx, first); err != nil {
		t.Fatalf("first CreateOccupancy failed: %v", err)
	}

	second := openOccupancy(id.NewTenantID(), b.ID, r.ID, start)
	if err := s.CreateOccupancy(ctx, second); !errors.Is(err, lodger.ErrBedOccupied) {
		t.Errorf("expected ErrBedOccupied, got %v", err)
	}

	// Closing the first frees the bed.
	if err := s.CloseOccupancy(ctx, first.ID, start.AddDate(0, 1, 0)); err != nil {
		t.Fatalf("CloseOccupancy failed: %v", err)
	}
	if err := s.CreateOccupancy(ctx, second); err != nil {
		t.Errorf("CreateOccupancy after close failed: %v", err)
	}
}

func TestCloseOccupancyTwice(t *testing.T) {
	s := New()
	ctx := context.Background()
	r := seedRoom(t, s, 1)
	b := seedBed(t, s, r)
	start := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)

	o := openOccupancy(id.NewTenantID(), b.ID, r.ID, start)
	if err := s.CreateOccupancy(ctx, o); err != nil {
		t.Fatalf("CreateOccupancy failed: %v", err)
	}
	if err := s.CloseOccupancy(ctx, o.ID, start.AddDate(0, 1, 0)); err != nil {
		t.Fatalf("CloseOccupancy failed: %v", err)
	}
	if err := s.CloseOccupancy(ctx, o.ID, start.AddDate(0, 2, 0)); !errors.Is(err, lodger.ErrOccupancyClosed) {
		t.Errorf("expected ErrOccupancyClosed, got %v", err)
	}
}

func TestCloseOccupancyEndBeforeStart(t *testing.T) {
	s := New()
	ctx := context.Background()
	r := seedRoom(t, s, 1)
	b := seedBed(t, s, r)
	start := time.Date(2024, time.April, 10, 0, 0, 0, 0, time.UTC)

	o := openOccupancy(id.NewTenantID(), b.ID, r.ID, start)
	if err := s.CreateOccupancy(ctx, o); err != nil {
		t.Fatalf("CreateOccupancy failed: %v", err)
	}
	if err := s.CloseOccupancy(ctx, o.ID, start.AddDate(0, 0, -1)); !errors.Is(err, lodger.ErrEndBeforeStart) {
		t.Errorf("expected ErrEndBeforeStart, got %v", err)
	}
}

func TestReopenOccupancyGuard(t *testing.T) {
	s := New()
	ctx := context.Background()
	r := seedRoom(t, s, 2)
	b := seedBed(t, s, r)
	start := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)

	first := openOccupancy(id.NewTenantID(), b.ID, r.ID, start)
	if err := s.CreateOccupancy(ctx, first); err != nil {
		t.Fatalf("CreateOccupancy failed: %v", err)
	}
	if err := s.CloseOccupancy(ctx, first.ID, start.AddDate(0, 0, 10)); err != nil {
		t.Fatalf("CloseOccupancy failed: %v", err)
	}

	second := openOccupancy(id.NewTenantID(), b.ID, r.ID, start.AddDate(0, 0, 10))
	if err := s.CreateOccupancy(ctx, second); err != nil {
		t.Fatalf("second CreateOccupancy failed: %v", err)
	}

	// The bed gained a new open occupancy; the old one cannot come back.
	if err := s.ReopenOccupancy(ctx, first.ID); !errors.Is(err, lodger.ErrBedOccupied) {
		t.Errorf("expected ErrBedOccupied, got %v", err)
	}

	if err := s.CloseOccupancy(ctx, second.ID, start.AddDate(0, 0, 20)); err != nil {
		t.Fatalf("CloseOccupancy failed: %v", err)
	}
	if err := s.ReopenOccupancy(ctx, first.ID); err != nil {
		t.Errorf("ReopenOccupancy failed: %v", err)
	}
}

func TestAdjustRoomOccupancyBounds(t *testing.T) {
	s := New()
	ctx := context.Background()
	r := seedRoom(t, s, 2)

	if _, err := s.AdjustRoomOccupancy(ctx, r.ID, 1); err != nil {
		t.Fatalf("first increment failed: %v", err)
	}
	updated, err := s.AdjustRoomOccupancy(ctx, r.ID, 1)
	if err != nil {
		t.Fatalf("second increment failed: %v", err)
	}
	if updated.Status != room.StatusFull {
		t.Errorf("expected status full, got %s", updated.Status)
	}

	if _, err := s.AdjustRoomOccupancy(ctx, r.ID, 1); !errors.Is(err, lodger.ErrRoomFull) {
		t.Errorf("expected ErrRoomFull, got %v", err)
	}

	if _, err := s.AdjustRoomOccupancy(ctx, r.ID, -1); err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if _, err := s.AdjustRoomOccupancy(ctx, r.ID, -1); err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if _, err := s.AdjustRoomOccupancy(ctx, r.ID, -1); !errors.Is(err, lodger.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput below zero, got %v", err)
	}
}

func TestCreateBillRejectsDuplicatePeriod(t *testing.T) {
	s := New()
	ctx := context.Background()
	r := seedRoom(t, s, 1)
	b := seedBed(t, s, r)
	tenantID := id.NewTenantID()
	start := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)

	o := openOccupancy(tenantID, b.ID, r.ID, start)
	if err := s.CreateOccupancy(ctx, o); err != nil {
		t.Fatalf("CreateOccupancy failed: %v", err)
	}

	first := &bill.Bill{
		Entity:      types.NewEntity(),
		ID:          id.NewBillID(),
		OccupancyID: o.ID,
		TenantID:    tenantID,
		BedID:       b.ID,
		PeriodStart: start,
		PeriodEnd:   start.AddDate(0, 1, 0),
		Amount:      types.INR(300000),
		Status:      bill.StatusUnpaid,
	}
	if err := s.CreateBill(ctx, first); err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}

	dup := *first
	dup.ID = id.NewBillID()
	if err := s.CreateBill(ctx, &dup); !errors.Is(err, lodger.ErrDuplicateBill) {
		t.Errorf("expected ErrDuplicateBill, got %v", err)
	}
}

func TestCreateFeeRejectsDuplicateMonth(t *testing.T) {
	s := New()
	ctx := context.Background()
	tenantID := id.NewTenantID()
	month := fee.NormalizeMonth(time.Date(2024, time.April, 17, 0, 0, 0, 0, time.UTC))

	first := &fee.Record{
		Entity:   types.NewEntity(),
		ID:       id.NewFeeID(),
		TenantID: tenantID,
		Month:    month,
		Amount:   types.INR(300000),
		Paid:     types.Zero("inr"),
		DueDate:  fee.DefaultDueDate(month),
		Status:   fee.StatusPending,
	}
	if err := s.CreateFee(ctx, first); err != nil {
		t.Fatalf("CreateFee failed: %v", err)
	}

	dup := *first
	dup.ID = id.NewFeeID()
	if err := s.CreateFee(ctx, &dup); !errors.Is(err, lodger.ErrDuplicateFee) {
		t.Errorf("expected ErrDuplicateFee, got %v", err)
	}
}

func TestRevenueBetweenSumsMinorUnits(t *testing.T) {
	s := New()
	ctx := context.Background()
	billID := id.NewBillID()
	tenantID := id.NewTenantID()
	paidAt := time.Date(2024, time.April, 10, 0, 0, 0, 0, time.UTC)

	entries := []types.Money{types.INR(10000), types.USD(5000)}
	for _, amount := range entries {
		tx := &txn.Transaction{
			Entity:   types.NewEntity(),
			ID:       id.NewTransactionID(),
			BillID:   billID,
			TenantID: tenantID,
			Amount:   amount,
			Method:   txn.MethodCash,
			PaidAt:   paidAt,
		}
		if err := s.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}
	}

	// Mixed currencies in one month must not panic; minor units are summed
	// and the row reports the first currency seen.
	rows, err := s.RevenueBetween(ctx, paidAt.AddDate(0, -1, 0), paidAt.AddDate(0, 1, 0))
	if err != nil {
		t.Fatalf("RevenueBetween failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 revenue row, got %d", len(rows))
	}
	if rows[0].Amount.Amount != 15000 || rows[0].Count != 2 {
		t.Errorf("expected 15000 minor units over 2 entries, got %d over %d", rows[0].Amount.Amount, rows[0].Count)
	}
}

func TestDeleteGuards(t *testing.T) {
	s := New()
	ctx := context.Background()
	r := seedRoom(t, s, 1)
	b := seedBed(t, s, r)

	if err := s.DeleteProperty(ctx, r.PropertyID); !errors.Is(err, lodger.ErrPropertyInUse) {
		t.Errorf("expected ErrPropertyInUse, got %v", err)
	}
	if err := s.DeleteRoom(ctx, r.ID); !errors.Is(err, lodger.ErrRoomInUse) {
		t.Errorf("expected ErrRoomInUse, got %v", err)
	}

	o := openOccupancy(id.NewTenantID(), b.ID, r.ID, time.Now().UTC())
	if err := s.CreateOccupancy(ctx, o); err != nil {
		t.Fatalf("CreateOccupancy failed: %v", err)
	}
	if err := s.DeleteBed(ctx, b.ID); !errors.Is(err, lodger.ErrBedInUse) {
		t.Errorf("expected ErrBedInUse, got %v", err)
	}
}
