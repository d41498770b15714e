// Package observability provides a metrics extension for Lodger that records
// lifecycle event counts via go-utils MetricFactory.
package observability

import (
	"context"

	"github.com/xraph/lodger/plugin"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin                 = (*MetricsExtension)(nil)
	_ plugin.OnInit                 = (*MetricsExtension)(nil)
	_ plugin.OnOccupancyOpened      = (*MetricsExtension)(nil)
	_ plugin.OnOccupancyClosed      = (*MetricsExtension)(nil)
	_ plugin.OnOccupancyTransferred = (*MetricsExtension)(nil)
	_ plugin.OnTransferIncomplete   = (*MetricsExtension)(nil)
	_ plugin.OnCapacityExceeded     = (*MetricsExtension)(nil)
	_ plugin.OnTenantRegistered     = (*MetricsExtension)(nil)
	_ plugin.OnTenantLeft           = (*MetricsExtension)(nil)
	_ plugin.OnBillCreated          = (*MetricsExtension)(nil)
	_ plugin.OnBillRecalculated     = (*MetricsExtension)(nil)
	_ plugin.OnPaymentRecorded      = (*MetricsExtension)(nil)
	_ plugin.OnFeeRecorded          = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide lifecycle metrics.
// Register it as a Lodger plugin to automatically track occupancy and
// billing metrics.
type MetricsExtension struct {
	factory MetricFactory

	// Occupancy metrics
	OccupancyOpened      Counter
	OccupancyClosed      Counter
	OccupancyTransferred Counter
	TransferIncomplete   Counter
	CapacityExceeded     Counter

	// Tenant metrics
	TenantRegistered Counter
	TenantLeft       Counter

	// Billing metrics
	BillCreated      Counter
	BillRecalculated Counter
	PaymentRecorded  Counter
	FeeRecorded      Counter

	// Error metrics
	StoreErrors  Counter
	PluginErrors Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// Occupancy metrics
		OccupancyOpened:      factory.Counter("lodger.occupancy.opened"),
		OccupancyClosed:      factory.Counter("lodger.occupancy.closed"),
		OccupancyTransferred: factory.Counter("lodger.occupancy.transferred"),
		TransferIncomplete:   factory.Counter("lodger.occupancy.transfer_incomplete"),
		CapacityExceeded:     factory.Counter("lodger.room.capacity_exceeded"),

		// Tenant metrics
		TenantRegistered: factory.Counter("lodger.tenant.registered"),
		TenantLeft:       factory.Counter("lodger.tenant.left"),

		// Billing metrics
		BillCreated:      factory.Counter("lodger.bill.created"),
		BillRecalculated: factory.Counter("lodger.bill.recalculated"),
		PaymentRecorded:  factory.Counter("lodger.payment.recorded"),
		FeeRecorded:      factory.Counter("lodger.fee.recorded"),

		// Error metrics
		StoreErrors:  factory.Counter("lodger.store.errors"),
		PluginErrors: factory.Counter("lodger.plugin.errors"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	// No initialization needed
	return nil
}

// ──────────────────────────────────────────────────
// Occupancy lifecycle hooks
// ──────────────────────────────────────────────────

// OnOccupancyOpened implements plugin.OnOccupancyOpened.
func (m *MetricsExtension) OnOccupancyOpened(_ context.Context, _ interface{}) error {
	m.OccupancyOpened.Inc()
	return nil
}

// OnOccupancyClosed implements plugin.OnOccupancyClosed.
func (m *MetricsExtension) OnOccupancyClosed(_ context.Context, _ interface{}) error {
	m.OccupancyClosed.Inc()
	return nil
}

// OnOccupancyTransferred implements plugin.OnOccupancyTransferred.
func (m *MetricsExtension) OnOccupancyTransferred(_ context.Context, _, _ interface{}) error {
	m.OccupancyTransferred.Inc()
	return nil
}

// OnTransferIncomplete implements plugin.OnTransferIncomplete.
func (m *MetricsExtension) OnTransferIncomplete(_ context.Context, _ interface{}, _ error) error {
	m.TransferIncomplete.Inc()
	return nil
}

// OnCapacityExceeded implements plugin.OnCapacityExceeded.
func (m *MetricsExtension) OnCapacityExceeded(_ context.Context, _ string, _ int) error {
	m.CapacityExceeded.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Tenant lifecycle hooks
// ──────────────────────────────────────────────────

// OnTenantRegistered implements plugin.OnTenantRegistered.
func (m *MetricsExtension) OnTenantRegistered(_ context.Context, _ interface{}) error {
	m.TenantRegistered.Inc()
	return nil
}

// OnTenantLeft implements plugin.OnTenantLeft.
func (m *MetricsExtension) OnTenantLeft(_ context.Context, _ interface{}) error {
	m.TenantLeft.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Billing hooks
// ──────────────────────────────────────────────────

// OnBillCreated implements plugin.OnBillCreated.
func (m *MetricsExtension) OnBillCreated(_ context.Context, _ interface{}) error {
	m.BillCreated.Inc()
	return nil
}

// OnBillRecalculated implements plugin.OnBillRecalculated.
func (m *MetricsExtension) OnBillRecalculated(_ context.Context, _, _ interface{}) error {
	m.BillRecalculated.Inc()
	return nil
}

// OnPaymentRecorded implements plugin.OnPaymentRecorded.
func (m *MetricsExtension) OnPaymentRecorded(_ context.Context, _, _ interface{}) error {
	m.PaymentRecorded.Inc()
	return nil
}

// OnFeeRecorded implements plugin.OnFeeRecorded.
func (m *MetricsExtension) OnFeeRecorded(_ context.Context, _ interface{}) error {
	m.FeeRecorded.Inc()
	return nil
}
