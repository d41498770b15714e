// Package audithook bridges Lodger lifecycle events to an audit trail backend.
//
// It defines a local Recorder interface so the package does not import
// Chronicle directly. Callers inject a RecorderFunc adapter that bridges
// to Chronicle at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xraph/lodger/plugin"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin                 = (*Extension)(nil)
	_ plugin.OnOccupancyOpened      = (*Extension)(nil)
	_ plugin.OnOccupancyClosed      = (*Extension)(nil)
	_ plugin.OnOccupancyTransferred = (*Extension)(nil)
	_ plugin.OnTransferIncomplete   = (*Extension)(nil)
	_ plugin.OnCapacityExceeded     = (*Extension)(nil)
	_ plugin.OnTenantRegistered     = (*Extension)(nil)
	_ plugin.OnTenantLeft           = (*Extension)(nil)
	_ plugin.OnTenantRemoved        = (*Extension)(nil)
	_ plugin.OnBillCreated          = (*Extension)(nil)
	_ plugin.OnBillRecalculated     = (*Extension)(nil)
	_ plugin.OnPaymentRecorded      = (*Extension)(nil)
	_ plugin.OnFeeRecorded          = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
// This matches chronicle.Emitter but is defined locally so that the
// audit_hook package does not import Chronicle directly — callers inject
// the concrete *chronicle.Chronicle at wiring time.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
// It mirrors chronicle/audit.Event but avoids a module dependency.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges Lodger lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Occupancy lifecycle hooks
// ──────────────────────────────────────────────────

// OnOccupancyOpened implements plugin.OnOccupancyOpened.
func (e *Extension) OnOccupancyOpened(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionOccupancyOpened, SeverityInfo, OutcomeSuccess,
		ResourceOccupancy, "", CategoryOccupancy, nil,
		"event", "occupancy_opened",
	)
}

// OnOccupancyClosed implements plugin.OnOccupancyClosed.
func (e *Extension) OnOccupancyClosed(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionOccupancyClosed, SeverityInfo, OutcomeSuccess,
		ResourceOccupancy, "", CategoryOccupancy, nil,
		"event", "occupancy_closed",
	)
}

// OnOccupancyTransferred implements plugin.OnOccupancyTransferred.
func (e *Extension) OnOccupancyTransferred(ctx context.Context, _, _ interface{}) error {
	return e.record(ctx, ActionOccupancyTransferred, SeverityInfo, OutcomeSuccess,
		ResourceOccupancy, "", CategoryOccupancy, nil,
		"event", "occupancy_transferred",
	)
}

// OnTransferIncomplete implements plugin.OnTransferIncomplete.
// The tenant was unassigned from the source bed but never landed on the
// destination, so this is the loudest event the hook emits.
func (e *Extension) OnTransferIncomplete(ctx context.Context, _ interface{}, cause error) error {
	return e.record(ctx, ActionTransferIncomplete, SeverityCritical, OutcomePartial,
		ResourceOccupancy, "", CategoryOccupancy, cause,
		"event", "transfer_incomplete",
	)
}

// OnCapacityExceeded implements plugin.OnCapacityExceeded.
func (e *Extension) OnCapacityExceeded(ctx context.Context, roomID string, capacity int) error {
	return e.record(ctx, ActionCapacityExceeded, SeverityWarning, OutcomeFailure,
		ResourceRoom, roomID, CategoryOccupancy, nil,
		"room_id", roomID,
		"capacity", capacity,
	)
}

// ──────────────────────────────────────────────────
// Tenant lifecycle hooks
// ──────────────────────────────────────────────────

// OnTenantRegistered implements plugin.OnTenantRegistered.
func (e *Extension) OnTenantRegistered(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionTenantRegistered, SeverityInfo, OutcomeSuccess,
		ResourceTenant, "", CategoryTenant, nil,
		"event", "tenant_registered",
	)
}

// OnTenantLeft implements plugin.OnTenantLeft.
func (e *Extension) OnTenantLeft(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionTenantLeft, SeverityInfo, OutcomeSuccess,
		ResourceTenant, "", CategoryTenant, nil,
		"event", "tenant_left",
	)
}

// OnTenantRemoved implements plugin.OnTenantRemoved.
func (e *Extension) OnTenantRemoved(ctx context.Context, tenantID string) error {
	return e.record(ctx, ActionTenantRemoved, SeverityWarning, OutcomeSuccess,
		ResourceTenant, tenantID, CategoryTenant, nil,
		"tenant_id", tenantID,
	)
}

// ──────────────────────────────────────────────────
// Billing hooks
// ──────────────────────────────────────────────────

// OnBillCreated implements plugin.OnBillCreated.
func (e *Extension) OnBillCreated(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionBillCreated, SeverityInfo, OutcomeSuccess,
		ResourceBill, "", CategoryBilling, nil,
		"event", "bill_created",
	)
}

// OnBillRecalculated implements plugin.OnBillRecalculated.
func (e *Extension) OnBillRecalculated(ctx context.Context, _, _ interface{}) error {
	return e.record(ctx, ActionBillRecalculated, SeverityInfo, OutcomeSuccess,
		ResourceBill, "", CategoryBilling, nil,
		"event", "bill_recalculated",
	)
}

// OnPaymentRecorded implements plugin.OnPaymentRecorded.
func (e *Extension) OnPaymentRecorded(ctx context.Context, _, _ interface{}) error {
	return e.record(ctx, ActionPaymentRecorded, SeverityInfo, OutcomeSuccess,
		ResourcePayment, "", CategoryPayment, nil,
		"event", "payment_recorded",
	)
}

// OnFeeRecorded implements plugin.OnFeeRecorded.
func (e *Extension) OnFeeRecorded(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionFeeRecorded, SeverityInfo, OutcomeSuccess,
		ResourceFee, "", CategoryBilling, nil,
		"event", "fee_recorded",
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
