package property

import (
	"context"

	"github.com/xraph/lodger/id"
)

type Store interface {
	Create(ctx context.Context, p *Property) error
	Get(ctx context.Context, propertyID id.PropertyID) (*Property, error)
	List(ctx context.Context, opts ListOpts) ([]*Property, error)
	Update(ctx context.Context, p *Property) error
	Delete(ctx context.Context, propertyID id.PropertyID) error
}

type ListOpts struct {
	City   string
	Limit  int
	Offset int
}
