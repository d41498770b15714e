package lodger

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/xraph/lodger/bed"
	"github.com/xraph/lodger/id"
	"github.com/xraph/lodger/occupancy"
	"github.com/xraph/lodger/plugin"
	"github.com/xraph/lodger/property"
	"github.com/xraph/lodger/room"
	"github.com/xraph/lodger/store"
	"github.com/xraph/lodger/tenant"
	"github.com/xraph/lodger/types"
)

// Lodger is the main occupancy and billing engine.
type Lodger struct {
	store   store.Store
	plugins *plugin.Registry
	logger  *slog.Logger

	// Configuration
	defaultCurrency string
}

// New creates a new Lodger instance.
func New(s store.Store, opts ...Option) *Lodger {
	l := &Lodger{
		store:           s,
		plugins:         plugin.NewRegistry(),
		logger:          slog.Default(),
		defaultCurrency: "inr",
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Option configures a Lodger instance.
type Option func(*Lodger)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Lodger) {
		l.logger = logger
		l.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(l *Lodger) {
		_ = l.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithDefaultCurrency sets the currency used when none is specified.
func WithDefaultCurrency(currency string) Option {
	return func(l *Lodger) {
		l.defaultCurrency = strings.ToLower(currency)
	}
}

// Start migrates the store and initializes plugins.
func (l *Lodger) Start(ctx context.Context) error {
	if err := l.store.Migrate(ctx); err != nil {
		return err
	}

	l.plugins.EmitInit(ctx, l)

	l.logger.Info("lodger started",
		"default_currency", l.defaultCurrency,
	)

	return nil
}

// Stop shuts down the Lodger.
func (l *Lodger) Stop() error {
	ctx := context.Background()
	l.plugins.EmitShutdown(ctx)

	return l.store.Close()
}

// Plugins returns the plugin registry.
func (l *Lodger) Plugins() *plugin.Registry { return l.plugins }

// Store returns the underlying store.
func (l *Lodger) Store() store.Store { return l.store }

// ──────────────────────────────────────────────────
// Property Management
// ──────────────────────────────────────────────────

// CreateProperty creates a new property.
func (l *Lodger) CreateProperty(ctx context.Context, p *property.Property) error {
	if strings.TrimSpace(p.Name) == "" {
		return &ValidationError{Field: "name", Message: "property name is required"}
	}

	if p.ID.IsNil() {
		p.ID = id.NewPropertyID()
	}
	p.Entity = types.NewEntity()

	return l.store.CreateProperty(ctx, p)
}

// GetProperty retrieves a property by ID.
func (l *Lodger) GetProperty(ctx context.Context, propertyID id.PropertyID) (*property.Property, error) {
	return l.store.GetProperty(ctx, propertyID)
}

// ListProperties lists properties.
func (l *Lodger) ListProperties(ctx context.Context, opts property.ListOpts) ([]*property.Property, error) {
	return l.store.ListProperties(ctx, opts)
}

// UpdateProperty updates a property.
func (l *Lodger) UpdateProperty(ctx context.Context, p *property.Property) error {
	if strings.TrimSpace(p.Name) == "" {
		return &ValidationError{Field: "name", Message: "property name is required"}
	}
	return l.store.UpdateProperty(ctx, p)
}

// DeleteProperty deletes a property. Fails if the property still has rooms.
func (l *Lodger) DeleteProperty(ctx context.Context, propertyID id.PropertyID) error {
	return l.store.DeleteProperty(ctx, propertyID)
}

// ──────────────────────────────────────────────────
// Room Management
// ──────────────────────────────────────────────────

// CreateRoom creates a new room in a property.
func (l *Lodger) CreateRoom(ctx context.Context, r *room.Room) error {
	if strings.TrimSpace(r.Number) == "" {
		return &ValidationError{Field: "number", Message: "room number is required"}
	}
	if r.Capacity < 1 {
		return &ValidationError{Field: "capacity", Message: "room capacity must be at least 1"}
	}

	if _, err := l.store.GetProperty(ctx, r.PropertyID); err != nil {
		return err
	}

	if r.ID.IsNil() {
		r.ID = id.NewRoomID()
	}
	r.Entity = types.NewEntity()
	r.OccupiedCount = 0
	r.Status = room.StatusVacant

	return l.store.CreateRoom(ctx, r)
}

// GetRoom retrieves a room by ID.
func (l *Lodger) GetRoom(ctx context.Context, roomID id.RoomID) (*room.Room, error) {
	return l.store.GetRoom(ctx, roomID)
}

// ListRooms lists rooms.
func (l *Lodger) ListRooms(ctx context.Context, opts room.ListOpts) ([]*room.Room, error) {
	return l.store.ListRooms(ctx, opts)
}

// UpdateRoom updates a room's details. The occupied count and status are
// derived and cannot be set directly; capacity cannot drop below the
// current occupied count.
func (l *Lodger) UpdateRoom(ctx context.Context, r *room.Room) error {
	if r.Capacity < 1 {
		return &ValidationError{Field: "capacity", Message: "room capacity must be at least 1"}
	}

	current, err := l.store.GetRoom(ctx, r.ID)
	if err != nil {
		return err
	}
	if r.Capacity < current.OccupiedCount {
		return &ValidationError{Field: "capacity", Message: "capacity cannot be below current occupancy"}
	}

	r.OccupiedCount = current.OccupiedCount
	r.Refresh()

	return l.store.UpdateRoom(ctx, r)
}

// DeleteRoom deletes a room. Fails if the room still has beds.
func (l *Lodger) DeleteRoom(ctx context.Context, roomID id.RoomID) error {
	return l.store.DeleteRoom(ctx, roomID)
}

// ──────────────────────────────────────────────────
// Bed Management
// ──────────────────────────────────────────────────

// CreateBed creates a new bed in a room.
func (l *Lodger) CreateBed(ctx context.Context, b *bed.Bed) error {
	if strings.TrimSpace(b.Label) == "" {
		return &ValidationError{Field: "label", Message: "bed label is required"}
	}
	if b.MonthlyCost.Currency == "" {
		b.MonthlyCost.Currency = l.defaultCurrency
	}
	if !b.MonthlyCost.IsPositive() {
		return &ValidationError{Field: "monthly_cost", Message: "monthly cost must be positive"}
	}

	r, err := l.store.GetRoom(ctx, b.RoomID)
	if err != nil {
		return err
	}
	b.PropertyID = r.PropertyID

	if b.ID.IsNil() {
		b.ID = id.NewBedID()
	}
	b.Entity = types.NewEntity()
	b.IsOccupied = false

	return l.store.CreateBed(ctx, b)
}

// GetBed retrieves a bed by ID.
func (l *Lodger) GetBed(ctx context.Context, bedID id.BedID) (*bed.Bed, error) {
	return l.store.GetBed(ctx, bedID)
}

// ListBeds lists beds.
func (l *Lodger) ListBeds(ctx context.Context, opts bed.ListOpts) ([]*bed.Bed, error) {
	return l.store.ListBeds(ctx, opts)
}

// UpdateBed updates a bed. Changing the monthly cost does not touch existing
// bills; use RecalculateBill for that.
func (l *Lodger) UpdateBed(ctx context.Context, b *bed.Bed) error {
	if !b.MonthlyCost.IsPositive() {
		return &ValidationError{Field: "monthly_cost", Message: "monthly cost must be positive"}
	}

	current, err := l.store.GetBed(ctx, b.ID)
	if err != nil {
		return err
	}
	b.RoomID = current.RoomID
	b.PropertyID = current.PropertyID
	b.IsOccupied = current.IsOccupied

	return l.store.UpdateBed(ctx, b)
}

// DeleteBed deletes a bed. Fails if the bed has any occupancy history.
func (l *Lodger) DeleteBed(ctx context.Context, bedID id.BedID) error {
	return l.store.DeleteBed(ctx, bedID)
}

// ──────────────────────────────────────────────────
// Tenant Management
// ──────────────────────────────────────────────────

// RegisterTenant registers a new tenant.
func (l *Lodger) RegisterTenant(ctx context.Context, t *tenant.Tenant) error {
	if strings.TrimSpace(t.Name) == "" {
		return &ValidationError{Field: "name", Message: "tenant name is required"}
	}

	if t.ID.IsNil() {
		t.ID = id.NewTenantID()
	}
	t.Entity = types.NewEntity()
	t.Status = tenant.StatusActive
	if t.JoinedAt.IsZero() {
		t.JoinedAt = time.Now().UTC()
	}
	t.LeftAt = nil

	if err := l.store.CreateTenant(ctx, t); err != nil {
		return err
	}

	l.plugins.EmitTenantRegistered(ctx, t)
	return nil
}

// GetTenant retrieves a tenant by ID.
func (l *Lodger) GetTenant(ctx context.Context, tenantID id.TenantID) (*tenant.Tenant, error) {
	return l.store.GetTenant(ctx, tenantID)
}

// ListTenants lists tenants.
func (l *Lodger) ListTenants(ctx context.Context, opts tenant.ListOpts) ([]*tenant.Tenant, error) {
	return l.store.ListTenants(ctx, opts)
}

// UpdateTenant updates a tenant's contact details. Status transitions happen
// through CloseOccupancy and MarkTenantLeft, not here.
func (l *Lodger) UpdateTenant(ctx context.Context, t *tenant.Tenant) error {
	if strings.TrimSpace(t.Name) == "" {
		return &ValidationError{Field: "name", Message: "tenant name is required"}
	}

	current, err := l.store.GetTenant(ctx, t.ID)
	if err != nil {
		return err
	}
	t.Status = current.Status
	t.JoinedAt = current.JoinedAt
	t.LeftAt = current.LeftAt
	t.Deleted = current.Deleted
	t.DeletedAt = current.DeletedAt

	return l.store.UpdateTenant(ctx, t)
}

// MarkTenantLeft closes the tenant's open stay (if any) and marks the tenant
// as left.
func (l *Lodger) MarkTenantLeft(ctx context.Context, tenantID id.TenantID, leftAt time.Time) error {
	t, err := l.store.GetTenant(ctx, tenantID)
	if err != nil {
		return err
	}

	open, err := l.store.GetOpenOccupancyByTenant(ctx, tenantID)
	if err == nil {
		if closeErr := l.CloseOccupancy(ctx, open.ID, leftAt); closeErr != nil {
			return closeErr
		}
	} else if !IsNotFound(err) {
		return err
	}

	t.Status = tenant.StatusLeft
	t.LeftAt = &leftAt
	if err := l.store.UpdateTenant(ctx, t); err != nil {
		return err
	}

	l.plugins.EmitTenantLeft(ctx, t)
	return nil
}

// RemoveTenant soft-deletes a tenant. An open stay is closed first so the
// bed and room slot are released; the record itself stays for billing
// history and is hidden from listings.
func (l *Lodger) RemoveTenant(ctx context.Context, tenantID id.TenantID) error {
	t, err := l.store.GetTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	if t.Deleted {
		return nil
	}

	now := time.Now().UTC()
	if t.IsActive() {
		if err := l.MarkTenantLeft(ctx, tenantID, now); err != nil {
			return err
		}
		if t, err = l.store.GetTenant(ctx, tenantID); err != nil {
			return err
		}
	}

	t.Deleted = true
	t.DeletedAt = &now
	if err := l.store.UpdateTenant(ctx, t); err != nil {
		return err
	}

	l.plugins.EmitTenantRemoved(ctx, tenantID.String())
	return nil
}

// PurgeTenant physically deletes a tenant record. Fails while the tenant has
// an open stay; prefer RemoveTenant, which keeps history.
func (l *Lodger) PurgeTenant(ctx context.Context, tenantID id.TenantID) error {
	return l.store.DeleteTenant(ctx, tenantID)
}

// ──────────────────────────────────────────────────
// Occupancy Management
// ──────────────────────────────────────────────────

// OpenOccupancy assigns a tenant to a bed. The bed must be free, the room
// must have capacity, and the tenant must be active. The room counter, the
// bed flag, and the occupancy record all move together; on a partial failure
// the already-applied steps are rolled back.
func (l *Lodger) OpenOccupancy(ctx context.Context, tenantID id.TenantID, bedID id.BedID, startDate time.Time, note string) (*occupancy.Occupancy, error) {
	t, err := l.store.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !t.IsActive() {
		return nil, ErrTenantInactive
	}

	b, err := l.store.GetBed(ctx, bedID)
	if err != nil {
		return nil, err
	}

	// Claim a slot in the room first. This is the capacity gate.
	r, err := l.store.AdjustRoomOccupancy(ctx, b.RoomID, 1)
	if err != nil {
		if IsCapacityExceeded(err) {
			if full, getErr := l.store.GetRoom(ctx, b.RoomID); getErr == nil {
				l.plugins.EmitCapacityExceeded(ctx, full.ID.String(), full.Capacity)
			}
		}
		return nil, err
	}

	o := &occupancy.Occupancy{
		Entity:    types.NewEntity(),
		ID:        id.NewOccupancyID(),
		TenantID:  tenantID,
		BedID:     bedID,
		RoomID:    b.RoomID,
		StartDate: startDate.UTC(),
		Status:    occupancy.StatusActive,
		Note:      note,
	}

	if err := l.store.CreateOccupancy(ctx, o); err != nil {
		// Give the slot back.
		if _, compErr := l.store.AdjustRoomOccupancy(ctx, b.RoomID, -1); compErr != nil {
			l.logger.Error("failed to release room slot after occupancy create failure",
				"room_id", b.RoomID.String(),
				"error", compErr,
			)
		}
		return nil, err
	}

	if err := l.store.SetBedOccupied(ctx, bedID, true); err != nil {
		l.logger.Error("failed to flag bed occupied",
			"bed_id", bedID.String(),
			"error", err,
		)
	}

	l.logger.Info("occupancy opened",
		"occupancy_id", o.ID.String(),
		"tenant_id", tenantID.String(),
		"bed_id", bedID.String(),
		"room_status", string(r.Status),
	)

	l.plugins.EmitOccupancyOpened(ctx, o)
	return o, nil
}

// GetOccupancy retrieves an occupancy by ID.
func (l *Lodger) GetOccupancy(ctx context.Context, occID id.OccupancyID) (*occupancy.Occupancy, error) {
	return l.store.GetOccupancy(ctx, occID)
}

// ListOccupancies lists occupancies.
func (l *Lodger) ListOccupancies(ctx context.Context, opts occupancy.ListOpts) ([]*occupancy.Occupancy, error) {
	return l.store.ListOccupancies(ctx, opts)
}

// UpdateOccupancy updates a stay's note, metadata, and hold marker. The
// tenant, bed, and dates are fixed at open/close/transfer time and cannot be
// edited here. A closed stay keeps its moved_out status.
func (l *Lodger) UpdateOccupancy(ctx context.Context, o *occupancy.Occupancy) error {
	current, err := l.store.GetOccupancy(ctx, o.ID)
	if err != nil {
		return err
	}

	o.TenantID = current.TenantID
	o.BedID = current.BedID
	o.RoomID = current.RoomID
	o.StartDate = current.StartDate
	o.EndDate = current.EndDate

	if !current.IsOpen() {
		o.Status = occupancy.StatusMovedOut
	} else if o.Status != occupancy.StatusOnHold {
		o.Status = occupancy.StatusActive
	}

	return l.store.UpdateOccupancy(ctx, o)
}

// CloseOccupancy ends a stay. The bed is freed and the room counter
// decremented; billing history stays untouched.
func (l *Lodger) CloseOccupancy(ctx context.Context, occID id.OccupancyID, endDate time.Time) error {
	o, err := l.store.GetOccupancy(ctx, occID)
	if err != nil {
		return err
	}

	if err := l.store.CloseOccupancy(ctx, occID, endDate.UTC()); err != nil {
		return err
	}

	if err := l.store.SetBedOccupied(ctx, o.BedID, false); err != nil {
		l.logger.Error("failed to clear bed occupied flag",
			"bed_id", o.BedID.String(),
			"error", err,
		)
	}
	if _, err := l.store.AdjustRoomOccupancy(ctx, o.RoomID, -1); err != nil {
		l.logger.Error("failed to release room slot",
			"room_id", o.RoomID.String(),
			"error", err,
		)
	}

	end := endDate.UTC()
	o.EndDate = &end
	o.Status = occupancy.StatusMovedOut

	l.logger.Info("occupancy closed",
		"occupancy_id", occID.String(),
		"tenant_id", o.TenantID.String(),
		"bed_id", o.BedID.String(),
	)

	l.plugins.EmitOccupancyClosed(ctx, o)
	return nil
}

// TransferOccupancy moves a tenant from their current bed to another. The
// source stay is closed at transferDate and a new stay opens on the
// destination the same day; bills stay attached to the stay they were
// raised under.
//
// If opening the destination fails the source stay is reopened. If that
// compensation also fails (the source bed was taken in the meantime) the
// tenant is left unassigned and ErrTransferIncomplete is returned so an
// operator can resolve it.
func (l *Lodger) TransferOccupancy(ctx context.Context, occID id.OccupancyID, destBedID id.BedID, transferDate time.Time) (*occupancy.TransferResult, error) {
	src, err := l.store.GetOccupancy(ctx, occID)
	if err != nil {
		return nil, err
	}
	if !src.IsOpen() {
		return nil, ErrOccupancyClosed
	}
	if src.BedID.String() == destBedID.String() {
		return nil, &ValidationError{Field: "bed_id", Message: "destination bed is the current bed"}
	}

	if _, err := l.store.GetBed(ctx, destBedID); err != nil {
		return nil, err
	}
	if _, err := l.store.GetOpenOccupancyByBed(ctx, destBedID); err == nil {
		return nil, ErrBedOccupied
	} else if !IsNotFound(err) {
		return nil, err
	}

	if err := l.CloseOccupancy(ctx, occID, transferDate); err != nil {
		return nil, err
	}

	opened, err := l.OpenOccupancy(ctx, src.TenantID, destBedID, transferDate, src.Note)
	if err != nil {
		// Compensate: put the tenant back on the source bed.
		if reopenErr := l.reopenClosedStay(ctx, src); reopenErr != nil {
			l.logger.Error("transfer compensation failed, tenant left unassigned",
				"occupancy_id", occID.String(),
				"tenant_id", src.TenantID.String(),
				"error", reopenErr,
			)
			l.plugins.EmitTransferIncomplete(ctx, src, err)
			return nil, ErrTransferIncomplete
		}
		return nil, err
	}

	end := transferDate.UTC()
	src.EndDate = &end
	src.Status = occupancy.StatusMovedOut
	result := &occupancy.TransferResult{Closed: src, Opened: opened}

	l.logger.Info("occupancy transferred",
		"tenant_id", src.TenantID.String(),
		"from_bed", src.BedID.String(),
		"to_bed", destBedID.String(),
	)

	l.plugins.EmitOccupancyTransferred(ctx, src, opened)
	return result, nil
}

// reopenClosedStay reverses CloseOccupancy for a stay that was just closed.
func (l *Lodger) reopenClosedStay(ctx context.Context, src *occupancy.Occupancy) error {
	if _, err := l.store.AdjustRoomOccupancy(ctx, src.RoomID, 1); err != nil {
		return err
	}
	if err := l.store.ReopenOccupancy(ctx, src.ID); err != nil {
		if _, compErr := l.store.AdjustRoomOccupancy(ctx, src.RoomID, -1); compErr != nil {
			l.logger.Error("failed to release room slot after reopen failure",
				"room_id", src.RoomID.String(),
				"error", compErr,
			)
		}
		return err
	}
	return l.store.SetBedOccupied(ctx, src.BedID, true)
}

// DeleteOccupancy removes an occupancy record. Fails if bills reference it.
func (l *Lodger) DeleteOccupancy(ctx context.Context, occID id.OccupancyID) error {
	o, err := l.store.GetOccupancy(ctx, occID)
	if err != nil {
		return err
	}

	if err := l.store.DeleteOccupancy(ctx, occID); err != nil {
		return err
	}

	// An open stay that gets deleted still has to free its bed and slot.
	if o.IsOpen() {
		if err := l.store.SetBedOccupied(ctx, o.BedID, false); err != nil {
			l.logger.Error("failed to clear bed occupied flag",
				"bed_id", o.BedID.String(),
				"error", err,
			)
		}
		if _, err := l.store.AdjustRoomOccupancy(ctx, o.RoomID, -1); err != nil {
			l.logger.Error("failed to release room slot",
				"room_id", o.RoomID.String(),
				"error", err,
			)
		}
	}
	return nil
}
