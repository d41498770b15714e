package bed

import (
	"github.com/xraph/lodger/id"
	"github.com/xraph/lodger/types"
)

type Bed struct {
	types.Entity
	ID          id.BedID          `json:"id"`
	RoomID      id.RoomID         `json:"room_id"`
	PropertyID  id.PropertyID     `json:"property_id"`
	Label       string            `json:"label"`
	MonthlyCost types.Money       `json:"monthly_cost"`
	IsOccupied  bool              `json:"is_occupied"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}
