package fee

import (
	"time"

	"github.com/xraph/lodger/id"
	"github.com/xraph/lodger/types"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusPartial Status = "partial"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
)

// Record tracks a tenant's flat monthly fee independent of prorated billing.
// Month is normalized to the first day of the month at midnight UTC.
type Record struct {
	types.Entity
	ID          id.FeeID          `json:"id"`
	TenantID    id.TenantID       `json:"tenant_id"`
	OccupancyID id.OccupancyID    `json:"occupancy_id"`
	Month       time.Time         `json:"month"`
	Amount      types.Money       `json:"amount"`
	Paid        types.Money       `json:"paid"`
	DueDate     time.Time         `json:"due_date"`
	Status      Status            `json:"status"`
	Note        string            `json:"note,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// NormalizeMonth truncates t to the first day of its month at midnight UTC.
func NormalizeMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// DefaultDueDate returns the conventional due date for a fee month: the 5th.
func DefaultDueDate(month time.Time) time.Time {
	m := NormalizeMonth(month)
	return m.AddDate(0, 0, 4)
}

// DeriveStatus computes the fee status from the amounts and the clock.
// An unpaid or partially paid fee past its due date is overdue.
func DeriveStatus(amount, paid types.Money, dueDate, now time.Time) Status {
	if !paid.IsZero() && paid.GreaterOrEqual(amount) {
		return StatusPaid
	}
	if now.After(dueDate) {
		return StatusOverdue
	}
	if paid.IsZero() {
		return StatusPending
	}
	return StatusPartial
}

// Refresh recomputes the cached status as of now.
func (r *Record) Refresh(now time.Time) {
	r.Status = DeriveStatus(r.Amount, r.Paid, r.DueDate, now)
}
