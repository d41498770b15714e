package tenant

import (
	"time"

	"github.com/xraph/lodger/id"
	"github.com/xraph/lodger/types"
)

type Status string

const (
	StatusActive Status = "active"
	StatusLeft   Status = "left"
)

type Tenant struct {
	types.Entity
	ID        id.TenantID       `json:"id"`
	Name      string            `json:"name"`
	Phone     string            `json:"phone,omitempty"`
	Email     string            `json:"email,omitempty"`
	IDProof   string            `json:"id_proof,omitempty"`
	Status    Status            `json:"status"`
	JoinedAt  time.Time         `json:"joined_at"`
	LeftAt    *time.Time        `json:"left_at,omitempty"`
	Deleted   bool              `json:"deleted,omitempty"`
	DeletedAt *time.Time        `json:"deleted_at,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// IsActive reports whether the tenant has not left.
func (t *Tenant) IsActive() bool {
	return t.Status == StatusActive && !t.Deleted
}
