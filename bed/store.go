package bed

import (
	"context"

	"github.com/xraph/lodger/id"
)

type Store interface {
	Create(ctx context.Context, b *Bed) error
	Get(ctx context.Context, bedID id.BedID) (*Bed, error)
	List(ctx context.Context, opts ListOpts) ([]*Bed, error)
	Update(ctx context.Context, b *Bed) error
	Delete(ctx context.Context, bedID id.BedID) error

	// SetOccupied flips the bed's cached occupancy flag.
	SetOccupied(ctx context.Context, bedID id.BedID, occupied bool) error
}

type ListOpts struct {
	RoomID     id.RoomID
	PropertyID id.PropertyID
	OnlyVacant bool
	Limit      int
	Offset     int
}
