package tenant

import (
	"context"

	"github.com/xraph/lodger/id"
)

type Store interface {
	Create(ctx context.Context, t *Tenant) error
	Get(ctx context.Context, tenantID id.TenantID) (*Tenant, error)
	List(ctx context.Context, opts ListOpts) ([]*Tenant, error)
	Update(ctx context.Context, t *Tenant) error
	Delete(ctx context.Context, tenantID id.TenantID) error
}

type ListOpts struct {
	Status         Status
	Search         string
	IncludeDeleted bool
	Limit          int
	Offset         int
}
