// Package plugin provides an extensible plugin system for Lodger.
// Plugins can hook into occupancy and billing lifecycle events to extend
// functionality.
package plugin

import (
	"context"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the plugin is initialized.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, l interface{}) error
}

// OnShutdown is called when the plugin is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Occupancy lifecycle hooks
// ──────────────────────────────────────────────────

// OnOccupancyOpened is called when a tenant is assigned to a bed.
type OnOccupancyOpened interface {
	Plugin
	OnOccupancyOpened(ctx context.Context, occ interface{}) error
}

// OnOccupancyClosed is called when a stay ends.
type OnOccupancyClosed interface {
	Plugin
	OnOccupancyClosed(ctx context.Context, occ interface{}) error
}

// OnOccupancyTransferred is called when a tenant moves between beds.
type OnOccupancyTransferred interface {
	Plugin
	OnOccupancyTransferred(ctx context.Context, closed, opened interface{}) error
}

// OnTransferIncomplete is called when a transfer fails after the source
// stay was already closed and could not be reopened. The tenant is left
// without a bed and an operator needs to intervene.
type OnTransferIncomplete interface {
	Plugin
	OnTransferIncomplete(ctx context.Context, closed interface{}, cause error) error
}

// OnCapacityExceeded is called when an assignment is rejected because the
// room is full.
type OnCapacityExceeded interface {
	Plugin
	OnCapacityExceeded(ctx context.Context, roomID string, capacity int) error
}

// ──────────────────────────────────────────────────
// Tenant lifecycle hooks
// ──────────────────────────────────────────────────

// OnTenantRegistered is called when a new tenant is registered.
type OnTenantRegistered interface {
	Plugin
	OnTenantRegistered(ctx context.Context, t interface{}) error
}

// OnTenantLeft is called when a tenant's last stay is closed and the
// tenant is marked as left.
type OnTenantLeft interface {
	Plugin
	OnTenantLeft(ctx context.Context, t interface{}) error
}

// OnTenantRemoved is called when a tenant record is deleted.
type OnTenantRemoved interface {
	Plugin
	OnTenantRemoved(ctx context.Context, tenantID string) error
}

// ──────────────────────────────────────────────────
// Billing hooks
// ──────────────────────────────────────────────────

// OnBillCreated is called when a bill is generated for a stay period.
type OnBillCreated interface {
	Plugin
	OnBillCreated(ctx context.Context, b interface{}) error
}

// OnBillRecalculated is called when a bill's amount is re-derived from the
// bed's current monthly cost.
type OnBillRecalculated interface {
	Plugin
	OnBillRecalculated(ctx context.Context, oldBill, newBill interface{}) error
}

// OnPaymentRecorded is called when a payment lands against a bill.
type OnPaymentRecorded interface {
	Plugin
	OnPaymentRecorded(ctx context.Context, payment, b interface{}) error
}

// OnFeeRecorded is called when a monthly fee record is created.
type OnFeeRecorded interface {
	Plugin
	OnFeeRecorded(ctx context.Context, rec interface{}) error
}

// ──────────────────────────────────────────────────
// Notification channels
// ──────────────────────────────────────────────────

// Notifier delivers operator-facing notifications (rent reminders,
// transfer failures). Channel is a short label like "sms" or "email".
type Notifier interface {
	Plugin
	Channel() string
	Notify(ctx context.Context, tenantID, subject, body string) error
}

// ──────────────────────────────────────────────────
// Receipt formatters
// ──────────────────────────────────────────────────

// ReceiptFormatter renders payment receipts for export.
type ReceiptFormatter interface {
	Plugin
	Format() string                                                       // "pdf", "html", "csv", etc.
	Render(ctx context.Context, payment interface{}, w interface{}) error // w is io.Writer
}
