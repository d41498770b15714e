package store

import (
	"context"
	"time"

	"github.com/xraph/lodger/bed"
	"github.com/xraph/lodger/bill"
	"github.com/xraph/lodger/fee"
	"github.com/xraph/lodger/id"
	"github.com/xraph/lodger/occupancy"
	"github.com/xraph/lodger/property"
	"github.com/xraph/lodger/report"
	"github.com/xraph/lodger/room"
	"github.com/xraph/lodger/tenant"
	"github.com/xraph/lodger/txn"
)

// Store is the unified storage interface for all Lodger entities.
// Instead of embedding the sub-interfaces, we explicitly declare all methods
// to avoid naming conflicts.
//
// The consistency-critical guards live here: open-occupancy exclusivity per
// bed, room occupied-count bounds, and bill/fee uniqueness are enforced by
// each backend with whatever primitive it has (a lock for the memory store,
// unique indexes and conditional updates for mongo).
type Store interface {
	// Property methods
	CreateProperty(ctx context.Context, p *property.Property) error
	GetProperty(ctx context.Context, propertyID id.PropertyID) (*property.Property, error)
	ListProperties(ctx context.Context, opts property.ListOpts) ([]*property.Property, error)
	UpdateProperty(ctx context.Context, p *property.Property) error
	DeleteProperty(ctx context.Context, propertyID id.PropertyID) error

	// Room methods
	CreateRoom(ctx context.Context, r *room.Room) error
	GetRoom(ctx context.Context, roomID id.RoomID) (*room.Room, error)
	ListRooms(ctx context.Context, opts room.ListOpts) ([]*room.Room, error)
	UpdateRoom(ctx context.Context, r *room.Room) error
	DeleteRoom(ctx context.Context, roomID id.RoomID) error
	AdjustRoomOccupancy(ctx context.Context, roomID id.RoomID, delta int) (*room.Room, error)

	// Bed methods
	CreateBed(ctx context.Context, b *bed.Bed) error
	GetBed(ctx context.Context, bedID id.BedID) (*bed.Bed, error)
	ListBeds(ctx context.Context, opts bed.ListOpts) ([]*bed.Bed, error)
	UpdateBed(ctx context.Context, b *bed.Bed) error
	DeleteBed(ctx context.Context, bedID id.BedID) error
	SetBedOccupied(ctx context.Context, bedID id.BedID, occupied bool) error

	// Tenant methods
	CreateTenant(ctx context.Context, t *tenant.Tenant) error
	GetTenant(ctx context.Context, tenantID id.TenantID) (*tenant.Tenant, error)
	ListTenants(ctx context.Context, opts tenant.ListOpts) ([]*tenant.Tenant, error)
	UpdateTenant(ctx context.Context, t *tenant.Tenant) error
	DeleteTenant(ctx context.Context, tenantID id.TenantID) error

	// Occupancy methods
	CreateOccupancy(ctx context.Context, o *occupancy.Occupancy) error
	GetOccupancy(ctx context.Context, occID id.OccupancyID) (*occupancy.Occupancy, error)
	GetOpenOccupancyByBed(ctx context.Context, bedID id.BedID) (*occupancy.Occupancy, error)
	GetOpenOccupancyByTenant(ctx context.Context, tenantID id.TenantID) (*occupancy.Occupancy, error)
	ListOccupancies(ctx context.Context, opts occupancy.ListOpts) ([]*occupancy.Occupancy, error)
	UpdateOccupancy(ctx context.Context, o *occupancy.Occupancy) error
	DeleteOccupancy(ctx context.Context, occID id.OccupancyID) error
	CloseOccupancy(ctx context.Context, occID id.OccupancyID, endDate time.Time) error
	ReopenOccupancy(ctx context.Context, occID id.OccupancyID) error

	// Bill methods
	CreateBill(ctx context.Context, b *bill.Bill) error
	GetBill(ctx context.Context, billID id.BillID) (*bill.Bill, error)
	ListBills(ctx context.Context, opts bill.ListOpts) ([]*bill.Bill, error)
	ListBillsByOccupancy(ctx context.Context, occID id.OccupancyID) ([]*bill.Bill, error)
	UpdateBill(ctx context.Context, b *bill.Bill) error
	DeleteBill(ctx context.Context, billID id.BillID) error

	// Transaction methods
	CreateTransaction(ctx context.Context, t *txn.Transaction) error
	GetTransaction(ctx context.Context, txnID id.TransactionID) (*txn.Transaction, error)
	ListTransactions(ctx context.Context, opts txn.ListOpts) ([]*txn.Transaction, error)
	UpdateTransaction(ctx context.Context, t *txn.Transaction) error
	DeleteTransaction(ctx context.Context, txnID id.TransactionID) error
	SumPayments(ctx context.Context, billID id.BillID) (int64, error)

	// Fee methods
	CreateFee(ctx context.Context, r *fee.Record) error
	GetFee(ctx context.Context, feeID id.FeeID) (*fee.Record, error)
	GetFeeByMonth(ctx context.Context, tenantID id.TenantID, month time.Time) (*fee.Record, error)
	ListFees(ctx context.Context, opts fee.ListOpts) ([]*fee.Record, error)
	UpdateFee(ctx context.Context, r *fee.Record) error
	DeleteFee(ctx context.Context, feeID id.FeeID) error

	// Report methods
	ArrearsAsOf(ctx context.Context, cutoff time.Time) ([]*report.ArrearsRow, error)
	RevenueBetween(ctx context.Context, from, to time.Time) ([]*report.RevenueRow, error)
	DashboardSummary(ctx context.Context, now time.Time) (*report.Summary, error)

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
