package txn

import (
	"time"

	"github.com/xraph/lodger/id"
	"github.com/xraph/lodger/types"
)

// Method identifies how a payment was made.
type Method string

const (
	MethodCash  Method = "cash"
	MethodUPI   Method = "upi"
	MethodBank  Method = "bank_transfer"
	MethodCard  Method = "card"
	MethodOther Method = "other"
)

// Valid reports whether m is a known payment method.
func (m Method) Valid() bool {
	switch m {
	case MethodCash, MethodUPI, MethodBank, MethodCard, MethodOther:
		return true
	}
	return false
}

// Transaction is an immutable-by-default record of money received against a
// bill. Corrections go through explicit amend or delete operations which
// re-derive the bill's status.
type Transaction struct {
	types.Entity
	ID        id.TransactionID  `json:"id"`
	BillID    id.BillID         `json:"bill_id"`
	TenantID  id.TenantID       `json:"tenant_id"`
	Amount    types.Money       `json:"amount"`
	Method    Method            `json:"method"`
	Reference string            `json:"reference,omitempty"`
	PaidAt    time.Time         `json:"paid_at"`
	Note      string            `json:"note,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}
