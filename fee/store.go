package fee

import (
	"context"
	"time"

	"github.com/xraph/lodger/id"
)

type Store interface {
	// Create persists a new fee record. The store must reject a record
	// whose (tenant, month) duplicates an existing one.
	Create(ctx context.Context, r *Record) error
	Get(ctx context.Context, feeID id.FeeID) (*Record, error)
	GetByMonth(ctx context.Context, tenantID id.TenantID, month time.Time) (*Record, error)
	List(ctx context.Context, opts ListOpts) ([]*Record, error)
	Update(ctx context.Context, r *Record) error
	Delete(ctx context.Context, feeID id.FeeID) error
}

type ListOpts struct {
	TenantID id.TenantID
	Status   Status
	From     time.Time
	To       time.Time
	Limit    int
	Offset   int
}
