package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"
)

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery for O(1) dispatch performance.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger

	// Type-cached plugin lists for efficient dispatch
	onInit                 []OnInit
	onShutdown             []OnShutdown
	onOccupancyOpened      []OnOccupancyOpened
	onOccupancyClosed      []OnOccupancyClosed
	onOccupancyTransferred []OnOccupancyTransferred
	onTransferIncomplete   []OnTransferIncomplete
	onCapacityExceeded     []OnCapacityExceeded
	onTenantRegistered     []OnTenantRegistered
	onTenantLeft           []OnTenantLeft
	onTenantRemoved        []OnTenantRemoved
	onBillCreated          []OnBillCreated
	onBillRecalculated     []OnBillRecalculated
	onPaymentRecorded      []OnPaymentRecorded
	onFeeRecorded          []OnFeeRecorded
	notifiers              map[string]Notifier
	receiptFormatters      map[string]ReceiptFormatter
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger:            slog.Default(),
		notifiers:         make(map[string]Notifier),
		receiptFormatters: make(map[string]ReceiptFormatter),
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check for duplicate
	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	// Type-switch to cache interfaces
	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnOccupancyOpened); ok {
		r.onOccupancyOpened = append(r.onOccupancyOpened, v)
	}
	if v, ok := p.(OnOccupancyClosed); ok {
		r.onOccupancyClosed = append(r.onOccupancyClosed, v)
	}
	if v, ok := p.(OnOccupancyTransferred); ok {
		r.onOccupancyTransferred = append(r.onOccupancyTransferred, v)
	}
	if v, ok := p.(OnTransferIncomplete); ok {
		r.onTransferIncomplete = append(r.onTransferIncomplete, v)
	}
	if v, ok := p.(OnCapacityExceeded); ok {
		r.onCapacityExceeded = append(r.onCapacityExceeded, v)
	}
	if v, ok := p.(OnTenantRegistered); ok {
		r.onTenantRegistered = append(r.onTenantRegistered, v)
	}
	if v, ok := p.(OnTenantLeft); ok {
		r.onTenantLeft = append(r.onTenantLeft, v)
	}
	if v, ok := p.(OnTenantRemoved); ok {
		r.onTenantRemoved = append(r.onTenantRemoved, v)
	}
	if v, ok := p.(OnBillCreated); ok {
		r.onBillCreated = append(r.onBillCreated, v)
	}
	if v, ok := p.(OnBillRecalculated); ok {
		r.onBillRecalculated = append(r.onBillRecalculated, v)
	}
	if v, ok := p.(OnPaymentRecorded); ok {
		r.onPaymentRecorded = append(r.onPaymentRecorded, v)
	}
	if v, ok := p.(OnFeeRecorded); ok {
		r.onFeeRecorded = append(r.onFeeRecorded, v)
	}
	if v, ok := p.(Notifier); ok {
		r.notifiers[v.Channel()] = v
	}
	if v, ok := p.(ReceiptFormatter); ok {
		r.receiptFormatters[v.Format()] = v
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", r.getImplementedInterfaces(p),
	)

	return nil
}

// getImplementedInterfaces returns a list of interfaces implemented by the plugin.
func (r *Registry) getImplementedInterfaces(p Plugin) []string {
	var interfaces []string
	v := reflect.TypeOf(p)

	// Check each interface
	checkInterface := func(iface reflect.Type, name string) {
		if v.Implements(iface) {
			interfaces = append(interfaces, name)
		}
	}

	// List all interfaces to check
	checkInterface(reflect.TypeOf((*OnInit)(nil)).Elem(), "OnInit")
	checkInterface(reflect.TypeOf((*OnShutdown)(nil)).Elem(), "OnShutdown")
	checkInterface(reflect.TypeOf((*OnOccupancyOpened)(nil)).Elem(), "OnOccupancyOpened")
	checkInterface(reflect.TypeOf((*OnOccupancyClosed)(nil)).Elem(), "OnOccupancyClosed")
	checkInterface(reflect.TypeOf((*OnOccupancyTransferred)(nil)).Elem(), "OnOccupancyTransferred")
	checkInterface(reflect.TypeOf((*OnTransferIncomplete)(nil)).Elem(), "OnTransferIncomplete")
	checkInterface(reflect.TypeOf((*OnBillCreated)(nil)).Elem(), "OnBillCreated")
	checkInterface(reflect.TypeOf((*OnPaymentRecorded)(nil)).Elem(), "OnPaymentRecorded")
	checkInterface(reflect.TypeOf((*Notifier)(nil)).Elem(), "Notifier")
	checkInterface(reflect.TypeOf((*ReceiptFormatter)(nil)).Elem(), "ReceiptFormatter")

	return interfaces
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, lodger interface{}) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInit(ctx, lodger)
		}); err != nil {
			r.logger.Warn("plugin OnInit failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnShutdown(ctx)
		}); err != nil {
			r.logger.Warn("plugin OnShutdown failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitOccupancyOpened emits an occupancy opened event.
func (r *Registry) EmitOccupancyOpened(ctx context.Context, occ interface{}) {
	r.mu.RLock()
	plugins := r.onOccupancyOpened
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnOccupancyOpened(ctx, occ)
		}); err != nil {
			r.logger.Warn("plugin OnOccupancyOpened failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitOccupancyClosed emits an occupancy closed event.
func (r *Registry) EmitOccupancyClosed(ctx context.Context, occ interface{}) {
	r.mu.RLock()
	plugins := r.onOccupancyClosed
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnOccupancyClosed(ctx, occ)
		}); err != nil {
			r.logger.Warn("plugin OnOccupancyClosed failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitOccupancyTransferred emits an occupancy transferred event.
func (r *Registry) EmitOccupancyTransferred(ctx context.Context, closed, opened interface{}) {
	r.mu.RLock()
	plugins := r.onOccupancyTransferred
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnOccupancyTransferred(ctx, closed, opened)
		}); err != nil {
			r.logger.Warn("plugin OnOccupancyTransferred failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitTransferIncomplete emits a transfer incomplete event.
func (r *Registry) EmitTransferIncomplete(ctx context.Context, closed interface{}, cause error) {
	r.mu.RLock()
	plugins := r.onTransferIncomplete
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnTransferIncomplete(ctx, closed, cause)
		}); err != nil {
			r.logger.Warn("plugin OnTransferIncomplete failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitCapacityExceeded emits a capacity exceeded event.
func (r *Registry) EmitCapacityExceeded(ctx context.Context, roomID string, capacity int) {
	r.mu.RLock()
	plugins := r.onCapacityExceeded
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnCapacityExceeded(ctx, roomID, capacity)
		}); err != nil {
			r.logger.Warn("plugin OnCapacityExceeded failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitTenantRegistered emits a tenant registered event.
func (r *Registry) EmitTenantRegistered(ctx context.Context, t interface{}) {
	r.mu.RLock()
	plugins := r.onTenantRegistered
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnTenantRegistered(ctx, t)
		}); err != nil {
			r.logger.Warn("plugin OnTenantRegistered failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitTenantLeft emits a tenant left event.
func (r *Registry) EmitTenantLeft(ctx context.Context, t interface{}) {
	r.mu.RLock()
	plugins := r.onTenantLeft
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnTenantLeft(ctx, t)
		}); err != nil {
			r.logger.Warn("plugin OnTenantLeft failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitTenantRemoved emits a tenant removed event.
func (r *Registry) EmitTenantRemoved(ctx context.Context, tenantID string) {
	r.mu.RLock()
	plugins := r.onTenantRemoved
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnTenantRemoved(ctx, tenantID)
		}); err != nil {
			r.logger.Warn("plugin OnTenantRemoved failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitBillCreated emits a bill created event.
func (r *Registry) EmitBillCreated(ctx context.Context, b interface{}) {
	r.mu.RLock()
	plugins := r.onBillCreated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnBillCreated(ctx, b)
		}); err != nil {
			r.logger.Warn("plugin OnBillCreated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitBillRecalculated emits a bill recalculated event.
func (r *Registry) EmitBillRecalculated(ctx context.Context, oldBill, newBill interface{}) {
	r.mu.RLock()
	plugins := r.onBillRecalculated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnBillRecalculated(ctx, oldBill, newBill)
		}); err != nil {
			r.logger.Warn("plugin OnBillRecalculated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitPaymentRecorded emits a payment recorded event.
func (r *Registry) EmitPaymentRecorded(ctx context.Context, payment, b interface{}) {
	r.mu.RLock()
	plugins := r.onPaymentRecorded
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnPaymentRecorded(ctx, payment, b)
		}); err != nil {
			r.logger.Warn("plugin OnPaymentRecorded failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitFeeRecorded emits a fee recorded event.
func (r *Registry) EmitFeeRecorded(ctx context.Context, rec interface{}) {
	r.mu.RLock()
	plugins := r.onFeeRecorded
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnFeeRecorded(ctx, rec)
		}); err != nil {
			r.logger.Warn("plugin OnFeeRecorded failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// GetNotifier returns a notifier by channel name.
func (r *Registry) GetNotifier(channel string) Notifier {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.notifiers[channel]
}

// GetReceiptFormatter returns a receipt formatter by format name.
func (r *Registry) GetReceiptFormatter(format string) ReceiptFormatter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.receiptFormatters[format]
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins should never block the occupancy or billing pipeline.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
