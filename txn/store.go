package txn

import (
	"context"
	"time"

	"github.com/xraph/lodger/id"
)

type Store interface {
	Create(ctx context.Context, t *Transaction) error
	Get(ctx context.Context, txnID id.TransactionID) (*Transaction, error)
	List(ctx context.Context, opts ListOpts) ([]*Transaction, error)
	Update(ctx context.Context, t *Transaction) error
	Delete(ctx context.Context, txnID id.TransactionID) error

	// SumByBill returns the total paid against a bill in minor units.
	SumByBill(ctx context.Context, billID id.BillID) (int64, error)
}

type ListOpts struct {
	BillID   id.BillID
	TenantID id.TenantID
	Method   Method
	From     time.Time
	To       time.Time
	Limit    int
	Offset   int
}
