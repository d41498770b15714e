package bill

import (
	"time"

	"github.com/xraph/lodger/id"
	"github.com/xraph/lodger/types"
)

type Status string

const (
	StatusUnpaid  Status = "unpaid"
	StatusPartial Status = "partial"
	StatusPaid    Status = "paid"
)

// Bill charges a tenant for a sub-interval of an occupancy. The amount is
// prorated from the bed's monthly cost; Status caches DeriveStatus over the
// payments recorded against the bill.
type Bill struct {
	types.Entity
	ID          id.BillID         `json:"id"`
	OccupancyID id.OccupancyID    `json:"occupancy_id"`
	TenantID    id.TenantID       `json:"tenant_id"`
	BedID       id.BedID          `json:"bed_id"`
	PeriodStart time.Time         `json:"period_start"`
	PeriodEnd   time.Time         `json:"period_end"`
	Amount      types.Money       `json:"amount"`
	Status      Status            `json:"status"`
	Note        string            `json:"note,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// DeriveStatus computes the payment status of a bill from its amount and the
// sum of payments recorded against it. The stored status is a cache of this
// derivation, never an independent truth.
func DeriveStatus(amount, paid types.Money) Status {
	switch {
	case paid.IsZero():
		return StatusUnpaid
	case paid.GreaterOrEqual(amount):
		return StatusPaid
	default:
		return StatusPartial
	}
}

// Overlaps reports whether [start, end) intersects the bill's period.
// Periods are half-open, so back-to-back bills sharing an endpoint do not
// overlap.
func (b *Bill) Overlaps(start, end time.Time) bool {
	return start.Before(b.PeriodEnd) && b.PeriodStart.Before(end)
}

// Balance holds the derived financial position of a bill.
type Balance struct {
	BillID  id.BillID   `json:"bill_id"`
	Billed  types.Money `json:"billed"`
	Paid    types.Money `json:"paid"`
	Balance types.Money `json:"balance"`
	Status  Status      `json:"status"`
}
