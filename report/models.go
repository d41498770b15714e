// Package report defines the read models produced by Lodger's reporting
// queries: arrears per tenant, revenue over time, and the dashboard summary.
package report

import (
	"time"

	"github.com/xraph/lodger/id"
	"github.com/xraph/lodger/types"
)

// ArrearsRow is one tenant's outstanding position as of a cutoff date.
type ArrearsRow struct {
	TenantID   id.TenantID `json:"tenant_id"`
	TenantName string      `json:"tenant_name"`
	Billed     types.Money `json:"billed"`
	Paid       types.Money `json:"paid"`
	Balance    types.Money `json:"balance"`
	OldestDue  *time.Time  `json:"oldest_due,omitempty"`
}

// RevenueRow is the collected amount for one calendar month.
type RevenueRow struct {
	Month  time.Time   `json:"month"`
	Amount types.Money `json:"amount"`
	Count  int         `json:"count"`
}

// Summary is the operator dashboard snapshot.
type Summary struct {
	Properties     int         `json:"properties"`
	Rooms          int         `json:"rooms"`
	Beds           int         `json:"beds"`
	OccupiedBeds   int         `json:"occupied_beds"`
	ActiveTenants  int         `json:"active_tenants"`
	OpenStays      int         `json:"open_stays"`
	BilledMonth    types.Money `json:"billed_month"`
	CollectedMonth types.Money `json:"collected_month"`
	Outstanding    types.Money `json:"outstanding"`
}
