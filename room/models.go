package room

import (
	"github.com/xraph/lodger/id"
	"github.com/xraph/lodger/types"
)

type Status string

const (
	StatusVacant  Status = "vacant"
	StatusPartial Status = "partial"
	StatusFull    Status = "full"
)

type Room struct {
	types.Entity
	ID            id.RoomID         `json:"id"`
	PropertyID    id.PropertyID     `json:"property_id"`
	Number        string            `json:"number"`
	Floor         int               `json:"floor,omitempty"`
	Capacity      int               `json:"capacity"`
	OccupiedCount int               `json:"occupied_count"`
	Status        Status            `json:"status"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// DeriveStatus computes the room status from its occupied count and capacity.
// The status field is a cache of this derivation, never an independent truth.
func DeriveStatus(occupied, capacity int) Status {
	switch {
	case occupied <= 0:
		return StatusVacant
	case occupied >= capacity:
		return StatusFull
	default:
		return StatusPartial
	}
}

// Refresh recomputes the cached status from the current counters.
func (r *Room) Refresh() {
	r.Status = DeriveStatus(r.OccupiedCount, r.Capacity)
}

// HasVacancy reports whether another occupancy fits in this room.
func (r *Room) HasVacancy() bool {
	return r.OccupiedCount < r.Capacity
}
