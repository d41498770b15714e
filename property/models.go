package property

import (
	"github.com/xraph/lodger/id"
	"github.com/xraph/lodger/types"
)

type Property struct {
	types.Entity
	ID       id.PropertyID     `json:"id"`
	Name     string            `json:"name"`
	Address  string            `json:"address,omitempty"`
	City     string            `json:"city,omitempty"`
	Contact  string            `json:"contact,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}
