package occupancy

import (
	"context"
	"time"

	"github.com/xraph/lodger/id"
)

type Store interface {
	// Create persists a new occupancy. For an open occupancy (nil EndDate)
	// the store must reject the write if the bed already has an open
	// occupancy.
	Create(ctx context.Context, o *Occupancy) error
	Get(ctx context.Context, occID id.OccupancyID) (*Occupancy, error)
	GetOpenByBed(ctx context.Context, bedID id.BedID) (*Occupancy, error)
	GetOpenByTenant(ctx context.Context, tenantID id.TenantID) (*Occupancy, error)
	List(ctx context.Context, opts ListOpts) ([]*Occupancy, error)
	Update(ctx context.Context, o *Occupancy) error
	Delete(ctx context.Context, occID id.OccupancyID) error

	// Close sets the end date on an open occupancy. Closing an already
	// closed occupancy is an error.
	Close(ctx context.Context, occID id.OccupancyID, endDate time.Time) error

	// Reopen clears the end date on a closed occupancy. Used to compensate
	// a failed transfer; fails if the bed gained another open occupancy.
	Reopen(ctx context.Context, occID id.OccupancyID) error
}

type ListOpts struct {
	TenantID id.TenantID
	BedID    id.BedID
	RoomID   id.RoomID
	OnlyOpen bool
	Limit    int
	Offset   int
}
