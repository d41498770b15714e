package room

import (
	"context"

	"github.com/xraph/lodger/id"
)

type Store interface {
	Create(ctx context.Context, r *Room) error
	Get(ctx context.Context, roomID id.RoomID) (*Room, error)
	List(ctx context.Context, opts ListOpts) ([]*Room, error)
	Update(ctx context.Context, r *Room) error
	Delete(ctx context.Context, roomID id.RoomID) error

	// AdjustOccupied atomically adds delta to the room's occupied count,
	// failing if the result would fall outside [0, capacity].
	AdjustOccupied(ctx context.Context, roomID id.RoomID, delta int) (*Room, error)
}

type ListOpts struct {
	PropertyID id.PropertyID
	Status     Status
	Limit      int
	Offset     int
}
