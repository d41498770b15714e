package lodger

import "github.com/xraph/lodger/id"

// ID is the primary identifier type for all Lodger entities.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix
