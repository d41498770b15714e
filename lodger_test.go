package lodger_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/xraph/lodger"
	"github.com/xraph/lodger/bed"
	"github.com/xraph/lodger/id"
	"github.com/xraph/lodger/occupancy"
	"github.com/xraph/lodger/property"
	"github.com/xraph/lodger/room"
	"github.com/xraph/lodger/store/memory"
	"github.com/xraph/lodger/tenant"
	"github.com/xraph/lodger/types"
)

func newEngine(t *testing.T) *lodger.Lodger {
	t.Helper()
	return lodger.New(memory.New())
}

func seedRoom(t *testing.T, l *lodger.Lodger, capacity int) *room.Room {
	t.Helper()
	ctx := context.Background()

	p := &property.Property{Name: "Green PG", City: "Pune"}
	if err := l.CreateProperty(ctx, p); err != nil {
		t.Fatalf("CreateProperty failed: %v", err)
	}

	r := &room.Room{PropertyID: p.ID, Number: "101", Capacity: capacity}
	if err := l.CreateRoom(ctx, r); err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	return r
}

func seedBed(t *testing.T, l *lodger.Lodger, r *room.Room, label string, monthly types.Money) *bed.Bed {
	t.Helper()
	b := &bed.Bed{RoomID: r.ID, Label: label, MonthlyCost: monthly}
	if err := l.CreateBed(context.Background(), b); err != nil {
		t.Fatalf("CreateBed failed: %v", err)
	}
	return b
}

func seedTenant(t *testing.T, l *lodger.Lodger, name string) *tenant.Tenant {
	t.Helper()
	tn := &tenant.Tenant{Name: name, Phone: "9800000000"}
	if err := l.RegisterTenant(context.Background(), tn); err != nil {
		t.Fatalf("RegisterTenant failed: %v", err)
	}
	return tn
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOpenOccupancyLifecycle(t *testing.T) {
	l := newEngine(t)
	ctx := context.Background()
	r := seedRoom(t, l, 2)
	b := seedBed(t, l, r, "A", types.INR(300000))
	tn := seedTenant(t, l, "Asha")

	o, err := l.OpenOccupancy(ctx, tn.ID, b.ID, date(2024, time.April, 1), "")
	if err != nil {
		t.Fatalf("OpenOccupancy failed: %v", err)
	}
	if !o.IsOpen() {
		t.Error("expected open occupancy")
	}

	got, err := l.GetBed(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBed failed: %v", err)
	}
	if !got.IsOccupied {
		t.Error("expected bed flagged occupied")
	}

	gotRoom, err := l.GetRoom(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetRoom failed: %v", err)
	}
	if gotRoom.OccupiedCount != 1 || gotRoom.Status != room.StatusPartial {
		t.Errorf("expected partial room with count 1, got %d %s", gotRoom.OccupiedCount, gotRoom.Status)
	}

	// Same bed cannot host a second open stay.
	other := seedTenant(t, l, "Ravi")
	if _, err := l.OpenOccupancy(ctx, other.ID, b.ID, date(2024, time.April, 2), ""); !errors.Is(err, lodger.ErrBedOccupied) {
		t.Errorf("expected ErrBedOccupied, got %v", err)
	}

	if err := l.CloseOccupancy(ctx, o.ID, date(2024, time.May, 1)); err != nil {
		t.Fatalf("CloseOccupancy failed: %v", err)
	}

	got, _ = l.GetBed(ctx, b.ID)
	if got.IsOccupied {
		t.Error("expected bed freed after close")
	}
	gotRoom, _ = l.GetRoom(ctx, r.ID)
	if gotRoom.OccupiedCount != 0 || gotRoom.Status != room.StatusVacant {
		t.Errorf("expected vacant room, got %d %s", gotRoom.OccupiedCount, gotRoom.Status)
	}
}

func TestOpenOccupancyConcurrent(t *testing.T) {
	l := newEngine(t)
	ctx := context.Background()
	r := seedRoom(t, l, 1)
	b := seedBed(t, l, r, "A", types.INR(300000))

	tenants := make([]*tenant.Tenant, 5)
	for i := range tenants {
		tenants[i] = seedTenant(t, l, "Tenant")
	}

	var wg sync.WaitGroup
	results := make(chan error, len(tenants))
	for _, tn := range tenants {
		wg.Add(1)
		go func(tenantID id.TenantID) {
			defer wg.Done()
			_, err := l.OpenOccupancy(ctx, tenantID, b.ID, date(2024, time.April, 1), "")
			results <- err
		}(tn.ID)
	}
	wg.Wait()
	close(results)

	var successes int
	for err := range results {
		if err == nil {
			successes++
		} else if !errors.Is(err, lodger.ErrBedOccupied) && !errors.Is(err, lodger.ErrRoomFull) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Errorf("expected exactly one winner, got %d", successes)
	}

	gotRoom, _ := l.GetRoom(ctx, r.ID)
	if gotRoom.OccupiedCount != 1 {
		t.Errorf("expected occupied count 1 after race, got %d", gotRoom.OccupiedCount)
	}
}

func TestOpenOccupancyCapacityGate(t *testing.T) {
	l := newEngine(t)
	ctx := context.Background()
	r := seedRoom(t, l, 1)
	a := seedBed(t, l, r, "A", types.INR(300000))
	b := seedBed(t, l, r, "B", types.INR(300000))

	first := seedTenant(t, l, "Asha")
	if _, err := l.OpenOccupancy(ctx, first.ID, a.ID, date(2024, time.April, 1), ""); err != nil {
		t.Fatalf("OpenOccupancy failed: %v", err)
	}

	// Bed B is free but the room is full.
	second := seedTenant(t, l, "Ravi")
	_, err := l.OpenOccupancy(ctx, second.ID, b.ID, date(2024, time.April, 1), "")
	if !lodger.IsCapacityExceeded(err) {
		t.Errorf("expected capacity exceeded, got %v", err)
	}
}

func TestOpenOccupancyInactiveTenant(t *testing.T) {
	l := newEngine(t)
	ctx := context.Background()
	r := seedRoom(t, l, 1)
	b := seedBed(t, l, r, "A", types.INR(300000))
	tn := seedTenant(t, l, "Asha")

	if err := l.MarkTenantLeft(ctx, tn.ID, date(2024, time.March, 31)); err != nil {
		t.Fatalf("MarkTenantLeft failed: %v", err)
	}

	if _, err := l.OpenOccupancy(ctx, tn.ID, b.ID, date(2024, time.April, 1), ""); !errors.Is(err, lodger.ErrTenantInactive) {
		t.Errorf("expected ErrTenantInactive, got %v", err)
	}
}

func TestTransferOccupancy(t *testing.T) {
	l := newEngine(t)
	ctx := context.Background()
	r := seedRoom(t, l, 2)
	src := seedBed(t, l, r, "A", types.INR(300000))
	dst := seedBed(t, l, r, "B", types.INR(350000))
	tn := seedTenant(t, l, "Asha")

	o, err := l.OpenOccupancy(ctx, tn.ID, src.ID, date(2024, time.April, 1), "")
	if err != nil {
		t.Fatalf("OpenOccupancy failed: %v", err)
	}

	result, err := l.TransferOccupancy(ctx, o.ID, dst.ID, date(2024, time.April, 15))
	if err != nil {
		t.Fatalf("TransferOccupancy failed: %v", err)
	}
	if result.Closed.IsOpen() {
		t.Error("expected source stay closed")
	}
	if !result.Opened.IsOpen() || result.Opened.BedID.String() != dst.ID.String() {
		t.Error("expected open stay on destination bed")
	}

	srcBed, _ := l.GetBed(ctx, src.ID)
	dstBed, _ := l.GetBed(ctx, dst.ID)
	if srcBed.IsOccupied {
		t.Error("expected source bed freed")
	}
	if !dstBed.IsOccupied {
		t.Error("expected destination bed occupied")
	}

	gotRoom, _ := l.GetRoom(ctx, r.ID)
	if gotRoom.OccupiedCount != 1 {
		t.Errorf("expected occupied count 1 after transfer, got %d", gotRoom.OccupiedCount)
	}

	// History keeps both stays.
	stays, err := l.ListOccupancies(ctx, occupancy.ListOpts{TenantID: tn.ID})
	if err != nil {
		t.Fatalf("ListOccupancies failed: %v", err)
	}
	if len(stays) != 2 {
		t.Errorf("expected 2 stays in history, got %d", len(stays))
	}
}

func TestTransferToOccupiedBed(t *testing.T) {
	l := newEngine(t)
	ctx := context.Background()
	r := seedRoom(t, l, 2)
	a := seedBed(t, l, r, "A", types.INR(300000))
	b := seedBed(t, l, r, "B", types.INR(300000))

	first := seedTenant(t, l, "Asha")
	second := seedTenant(t, l, "Ravi")

	o, err := l.OpenOccupancy(ctx, first.ID, a.ID, date(2024, time.April, 1), "")
	if err != nil {
		t.Fatalf("OpenOccupancy failed: %v", err)
	}
	if _, err := l.OpenOccupancy(ctx, second.ID, b.ID, date(2024, time.April, 1), ""); err != nil {
		t.Fatalf("OpenOccupancy failed: %v", err)
	}

	if _, err := l.TransferOccupancy(ctx, o.ID, b.ID, date(2024, time.April, 15)); !errors.Is(err, lodger.ErrBedOccupied) {
		t.Errorf("expected ErrBedOccupied, got %v", err)
	}

	// Source stay untouched.
	got, _ := l.GetOccupancy(ctx, o.ID)
	if !got.IsOpen() {
		t.Error("expected source stay still open after rejected transfer")
	}
}

func TestMarkTenantLeft(t *testing.T) {
	l := newEngine(t)
	ctx := context.Background()
	r := seedRoom(t, l, 1)
	b := seedBed(t, l, r, "A", types.INR(300000))
	tn := seedTenant(t, l, "Asha")

	o, err := l.OpenOccupancy(ctx, tn.ID, b.ID, date(2024, time.April, 1), "")
	if err != nil {
		t.Fatalf("OpenOccupancy failed: %v", err)
	}

	if err := l.MarkTenantLeft(ctx, tn.ID, date(2024, time.June, 30)); err != nil {
		t.Fatalf("MarkTenantLeft failed: %v", err)
	}

	got, _ := l.GetTenant(ctx, tn.ID)
	if got.Status != tenant.StatusLeft || got.LeftAt == nil {
		t.Errorf("expected left tenant, got %s", got.Status)
	}

	stay, _ := l.GetOccupancy(ctx, o.ID)
	if stay.IsOpen() {
		t.Error("expected stay closed when tenant leaves")
	}

	gotBed, _ := l.GetBed(ctx, b.ID)
	if gotBed.IsOccupied {
		t.Error("expected bed freed when tenant leaves")
	}
}

func TestRemoveTenantSoftDeletes(t *testing.T) {
	l := newEngine(t)
	ctx := context.Background()
	r := seedRoom(t, l, 1)
	b := seedBed(t, l, r, "A", types.INR(300000))
	tn := seedTenant(t, l, "Asha")

	o, err := l.OpenOccupancy(ctx, tn.ID, b.ID, date(2024, time.April, 1), "")
	if err != nil {
		t.Fatalf("OpenOccupancy failed: %v", err)
	}

	if err := l.RemoveTenant(ctx, tn.ID); err != nil {
		t.Fatalf("RemoveTenant failed: %v", err)
	}

	got, err := l.GetTenant(ctx, tn.ID)
	if err != nil {
		t.Fatalf("GetTenant failed: %v", err)
	}
	if !got.Deleted || got.DeletedAt == nil {
		t.Error("expected soft-deleted tenant")
	}
	if got.Status != tenant.StatusLeft {
		t.Errorf("expected left status, got %s", got.Status)
	}

	// The open stay is closed and the bed freed.
	stay, _ := l.GetOccupancy(ctx, o.ID)
	if stay.IsOpen() {
		t.Error("expected stay closed on removal")
	}
	gotBed, _ := l.GetBed(ctx, b.ID)
	if gotBed.IsOccupied {
		t.Error("expected bed freed on removal")
	}

	// Hidden from listings unless asked for.
	visible, _ := l.ListTenants(ctx, tenant.ListOpts{})
	if len(visible) != 0 {
		t.Errorf("expected no visible tenants, got %d", len(visible))
	}
	all, _ := l.ListTenants(ctx, tenant.ListOpts{IncludeDeleted: true})
	if len(all) != 1 {
		t.Errorf("expected 1 tenant with deleted included, got %d", len(all))
	}

	// PurgeTenant physically removes the record.
	if err := l.PurgeTenant(ctx, tn.ID); err != nil {
		t.Fatalf("PurgeTenant failed: %v", err)
	}
	if _, err := l.GetTenant(ctx, tn.ID); !lodger.IsNotFound(err) {
		t.Errorf("expected not found after purge, got %v", err)
	}
}

func TestOccupancyStatusFollowsLifecycle(t *testing.T) {
	l := newEngine(t)
	ctx := context.Background()
	r := seedRoom(t, l, 1)
	b := seedBed(t, l, r, "A", types.INR(300000))
	tn := seedTenant(t, l, "Asha")

	o, err := l.OpenOccupancy(ctx, tn.ID, b.ID, date(2024, time.April, 1), "")
	if err != nil {
		t.Fatalf("OpenOccupancy failed: %v", err)
	}
	if o.Status != occupancy.StatusActive {
		t.Errorf("expected active stay, got %s", o.Status)
	}

	// A hold does not free the bed.
	held := *o
	held.Status = occupancy.StatusOnHold
	if err := l.UpdateOccupancy(ctx, &held); err != nil {
		t.Fatalf("UpdateOccupancy failed: %v", err)
	}
	got, _ := l.GetOccupancy(ctx, o.ID)
	if got.Status != occupancy.StatusOnHold || !got.IsOpen() {
		t.Errorf("expected open on-hold stay, got %s open=%v", got.Status, got.IsOpen())
	}
	gotBed, _ := l.GetBed(ctx, b.ID)
	if !gotBed.IsOccupied {
		t.Error("expected bed still occupied while on hold")
	}

	if err := l.CloseOccupancy(ctx, o.ID, date(2024, time.May, 1)); err != nil {
		t.Fatalf("CloseOccupancy failed: %v", err)
	}
	got, _ = l.GetOccupancy(ctx, o.ID)
	if got.Status != occupancy.StatusMovedOut {
		t.Errorf("expected moved_out after close, got %s", got.Status)
	}
}

func TestDefaultCurrencyApplied(t *testing.T) {
	l := lodger.New(memory.New(), lodger.WithDefaultCurrency("usd"))
	ctx := context.Background()

	p := &property.Property{Name: "Bay Hostel", City: "Dubai"}
	if err := l.CreateProperty(ctx, p); err != nil {
		t.Fatalf("CreateProperty failed: %v", err)
	}
	r := &room.Room{PropertyID: p.ID, Number: "1", Capacity: 1}
	if err := l.CreateRoom(ctx, r); err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}

	// No currency on the monthly cost; the engine default fills it.
	b := &bed.Bed{RoomID: r.ID, Label: "A", MonthlyCost: types.Money{Amount: 90000}}
	if err := l.CreateBed(ctx, b); err != nil {
		t.Fatalf("CreateBed failed: %v", err)
	}
	got, _ := l.GetBed(ctx, b.ID)
	if got.MonthlyCost.Currency != "usd" {
		t.Errorf("expected usd monthly cost, got %q", got.MonthlyCost.Currency)
	}

	tn := seedTenant(t, l, "Omar")
	rec, err := l.RecordFee(ctx, tn.ID, date(2024, time.April, 1), types.Money{Amount: 5000}, "")
	if err != nil {
		t.Fatalf("RecordFee failed: %v", err)
	}
	if rec.Amount.Currency != "usd" || rec.Paid.Currency != "usd" {
		t.Errorf("expected usd fee amounts, got %q / %q", rec.Amount.Currency, rec.Paid.Currency)
	}
}

func TestUpdateRoomCapacityBelowOccupancy(t *testing.T) {
	l := newEngine(t)
	ctx := context.Background()
	r := seedRoom(t, l, 2)
	a := seedBed(t, l, r, "A", types.INR(300000))
	b := seedBed(t, l, r, "B", types.INR(300000))

	if _, err := l.OpenOccupancy(ctx, seedTenant(t, l, "Asha").ID, a.ID, date(2024, time.April, 1), ""); err != nil {
		t.Fatalf("OpenOccupancy failed: %v", err)
	}
	if _, err := l.OpenOccupancy(ctx, seedTenant(t, l, "Ravi").ID, b.ID, date(2024, time.April, 1), ""); err != nil {
		t.Fatalf("OpenOccupancy failed: %v", err)
	}

	updated := *r
	updated.Capacity = 1
	err := l.UpdateRoom(ctx, &updated)

	var verr *lodger.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected validation error, got %v", err)
	}
}
