package occupancy

import (
	"time"

	"github.com/xraph/lodger/id"
	"github.com/xraph/lodger/types"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusMovedOut Status = "moved_out"
	StatusOnHold   Status = "on_hold"
)

// Occupancy records a tenant's stay on a bed. An open occupancy has a nil
// EndDate; a bed can have at most one open occupancy at a time. Status is a
// projection of the lifecycle (on-hold excepted) and is never consulted by
// exclusivity or capacity checks; EndDate is the authoritative open/closed
// signal.
type Occupancy struct {
	types.Entity
	ID        id.OccupancyID    `json:"id"`
	TenantID  id.TenantID       `json:"tenant_id"`
	BedID     id.BedID          `json:"bed_id"`
	RoomID    id.RoomID         `json:"room_id"`
	StartDate time.Time         `json:"start_date"`
	EndDate   *time.Time        `json:"end_date,omitempty"`
	Status    Status            `json:"status"`
	Note      string            `json:"note,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// IsOpen reports whether the stay is still in progress.
func (o *Occupancy) IsOpen() bool {
	return o.EndDate == nil
}

// Contains reports whether [periodStart, periodEnd] falls entirely within the
// occupancy window. An open occupancy extends indefinitely.
func (o *Occupancy) Contains(periodStart, periodEnd time.Time) bool {
	if periodStart.Before(o.StartDate) {
		return false
	}
	if o.EndDate != nil && periodEnd.After(*o.EndDate) {
		return false
	}
	return true
}

// TransferResult describes the outcome of moving a tenant to another bed.
// The source occupancy is closed with its billing history intact and a fresh
// occupancy is opened on the destination bed.
type TransferResult struct {
	Closed *Occupancy `json:"closed"`
	Opened *Occupancy `json:"opened"`
}
