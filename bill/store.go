package bill

import (
	"context"
	"time"

	"github.com/xraph/lodger/id"
)

type Store interface {
	// Create persists a new bill. The store must reject a bill whose
	// (tenant, bed, period_start, period_end) duplicates an existing one.
	Create(ctx context.Context, b *Bill) error
	Get(ctx context.Context, billID id.BillID) (*Bill, error)
	List(ctx context.Context, opts ListOpts) ([]*Bill, error)
	Update(ctx context.Context, b *Bill) error
	Delete(ctx context.Context, billID id.BillID) error

	// ListByOccupancy returns every bill attached to an occupancy, ordered
	// by period start.
	ListByOccupancy(ctx context.Context, occID id.OccupancyID) ([]*Bill, error)
}

type ListOpts struct {
	TenantID    id.TenantID
	BedID       id.BedID
	OccupancyID id.OccupancyID
	Status      Status
	From        time.Time
	To          time.Time
	Limit       int
	Offset      int
}
