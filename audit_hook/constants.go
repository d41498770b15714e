package audithook

// Action constants for audit events.
const (
	// Occupancy actions
	ActionOccupancyOpened      = "occupancy.opened"
	ActionOccupancyClosed      = "occupancy.closed"
	ActionOccupancyTransferred = "occupancy.transferred"
	ActionTransferIncomplete   = "occupancy.transfer_incomplete"
	ActionCapacityExceeded     = "room.capacity_exceeded"

	// Tenant actions
	ActionTenantRegistered = "tenant.registered"
	ActionTenantLeft       = "tenant.left"
	ActionTenantRemoved    = "tenant.removed"

	// Billing actions
	ActionBillCreated      = "bill.created"
	ActionBillRecalculated = "bill.recalculated"
	ActionPaymentRecorded  = "payment.recorded"
	ActionFeeRecorded      = "fee.recorded"
)

// Resource constants for audit events.
const (
	ResourceOccupancy = "occupancy"
	ResourceRoom      = "room"
	ResourceTenant    = "tenant"
	ResourceBill      = "bill"
	ResourcePayment   = "payment"
	ResourceFee       = "fee"
)

// Category constants for audit events.
const (
	CategoryOccupancy = "occupancy"
	CategoryTenant    = "tenant"
	CategoryBilling   = "billing"
	CategoryPayment   = "payment"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomePartial = "partial"
)
