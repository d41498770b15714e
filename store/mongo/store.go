// Package mongo implements the Lodger store on MongoDB via Grove ORM.
//
// The consistency guards that the memory store enforces under a mutex are
// enforced here by the database: a partial unique index over open occupancies
// keeps a bed to one open stay, unique compound indexes reject duplicate
// bills and fee records, and room occupancy counters move through a single
// conditional findAndModify.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	lodger "github.com/xraph/lodger"
	"github.com/xraph/lodger/bed"
	"github.com/xraph/lodger/bill"
	"github.com/xraph/lodger/fee"
	"github.com/xraph/lodger/id"
	"github.com/xraph/lodger/occupancy"
	"github.com/xraph/lodger/property"
	"github.com/xraph/lodger/report"
	"github.com/xraph/lodger/room"
	lodgerstore "github.com/xraph/lodger/store"
	"github.com/xraph/lodger/tenant"
	"github.com/xraph/lodger/txn"
	"github.com/xraph/lodger/types"
)

// Collection name constants.
const (
	colProperties   = "lodger_properties"
	colRooms        = "lodger_rooms"
	colBeds         = "lodger_beds"
	colTenants      = "lodger_tenants"
	colOccupancies  = "lodger_occupancies"
	colBills        = "lodger_bills"
	colTransactions = "lodger_transactions"
	colFees         = "lodger_fees"
)

// compile-time interface check
var _ lodgerstore.Store = (*Store)(nil)

// Store implements store.Store using MongoDB via Grove ORM.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for all lodger collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()

	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("lodger/mongo: migrate %s indexes: %w", col, err)
		}
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Property Store ====================

func (s *Store) CreateProperty(ctx context.Context, p *property.Property) error {
	m := toPropertyModel(p)
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return lodger.ErrAlreadyExists
		}
		return fmt.Errorf("lodger/mongo: create property: %w", err)
	}
	return nil
}

func (s *Store) GetProperty(ctx context.Context, propertyID id.PropertyID) (*property.Property, error) {
	var m propertyModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": propertyID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, lodger.ErrPropertyNotFound
		}
		return nil, fmt.Errorf("lodger/mongo: get property: %w", err)
	}
	return fromPropertyModel(&m)
}

func (s *Store) ListProperties(ctx context.Context, opts property.ListOpts) ([]*property.Property, error) {
	var models []propertyModel

	filter := bson.M{}
	if opts.City != "" {
		filter["city"] = opts.City
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "created_at", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("lodger/mongo: list properties: %w", err)
	}

	result := make([]*property.Property, len(models))
	for i := range models {
		p, err := fromPropertyModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = p
	}
	return result, nil
}

func (s *Store) UpdateProperty(ctx context.Context, p *property.Property) error {
	m := toPropertyModel(p)
	m.UpdatedAt = now()

	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("lodger/mongo: update property: %w", err)
	}
	if res.MatchedCount() == 0 {
		return lodger.ErrPropertyNotFound
	}
	return nil
}

func (s *Store) DeleteProperty(ctx context.Context, propertyID id.PropertyID) error {
	n, err := s.mdb.Collection(colRooms).CountDocuments(ctx, bson.M{"property_id": propertyID.String()})
	if err != nil {
		return fmt.Errorf("lodger/mongo: delete property: count rooms: %w", err)
	}
	if n > 0 {
		return lodger.ErrPropertyInUse
	}

	res, err := s.mdb.NewDelete((*propertyModel)(nil)).
		Filter(bson.M{"_id": propertyID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("lodger/mongo: delete property: %w", err)
	}
	if res.DeletedCount() == 0 {
		return lodger.ErrPropertyNotFound
	}
	return nil
}

// ==================== Room Store ====================

func (s *Store) CreateRoom(ctx context.Context, r *room.Room) error {
	m := toRoomModel(r)
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return lodger.ErrAlreadyExists
		}
		return fmt.Errorf("lodger/mongo: create room: %w", err)
	}
	return nil
}

func (s *Store) GetRoom(ctx context.Context, roomID id.RoomID) (*room.Room, error) {
	var m roomModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": roomID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, lodger.ErrRoomNotFound
		}
		return nil, fmt.Errorf("lodger/mongo: get room: %w", err)
	}
	return fromRoomModel(&m)
}

func (s *Store) ListRooms(ctx context.Context, opts room.ListOpts) ([]*room.Room, error) {
	var models []roomModel

	filter := bson.M{}
	if !opts.PropertyID.IsNil() {
		filter["property_id"] = opts.PropertyID.String()
	}
	if opts.Status != "" {
		filter["status"] = string(opts.Status)
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "number", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("lodger/mongo: list rooms: %w", err)
	}

	result := make([]*room.Room, len(models))
	for i := range models {
		r, err := fromRoomModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = r
	}
	return result, nil
}

func (s *Store) UpdateRoom(ctx context.Context, r *room.Room) error {
	m := toRoomModel(r)
	m.UpdatedAt = now()

	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("lodger/mongo: update room: %w", err)
	}
	if res.MatchedCount() == 0 {
		return lodger.ErrRoomNotFound
	}
	return nil
}

func (s *Store) DeleteRoom(ctx context.Context, roomID id.RoomID) error {
	n, err := s.mdb.Collection(colBeds).CountDocuments(ctx, bson.M{"room_id": roomID.String()})
	if err != nil {
		return fmt.Errorf("lodger/mongo: delete room: count beds: %w", err)
	}
	if n > 0 {
		return lodger.ErrRoomInUse
	}

	res, err := s.mdb.NewDelete((*roomModel)(nil)).
		Filter(bson.M{"_id": roomID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("lodger/mongo: delete room: %w", err)
	}
	if res.DeletedCount() == 0 {
		return lodger.ErrRoomNotFound
	}
	return nil
}

// AdjustRoomOccupancy moves the occupied counter by delta through a single
// conditional findAndModify. The filter only matches when the result stays
// within [0, capacity], so a concurrent adjustment past the bounds loses the
// race instead of corrupting the counter. Status is re-derived in the same
// update pipeline.
func (s *Store) AdjustRoomOccupancy(ctx context.Context, roomID id.RoomID, delta int) (*room.Room, error) {
	filter := bson.M{
		"_id": roomID.String(),
		"$expr": bson.M{"$and": bson.A{
			bson.M{"$gte": bson.A{bson.M{"$add": bson.A{"$occupied_count", delta}}, 0}},
			bson.M{"$lte": bson.A{bson.M{"$add": bson.A{"$occupied_count", delta}}, "$capacity"}},
		}},
	}

	update := bson.A{
		bson.M{"$set": bson.M{
			"occupied_count": bson.M{"$add": bson.A{"$occupied_count", delta}},
			"updated_at":     now(),
		}},
		bson.M{"$set": bson.M{
			"status": bson.M{"$switch": bson.M{
				"branches": bson.A{
					bson.M{"case": bson.M{"$lte": bson.A{"$occupied_count", 0}}, "then": string(room.StatusVacant)},
					bson.M{"case": bson.M{"$gte": bson.A{"$occupied_count", "$capacity"}}, "then": string(room.StatusFull)},
				},
				"default": string(room.StatusPartial),
			}},
		}},
	}

	var m roomModel
	err := s.mdb.Collection(colRooms).
		FindOneAndUpdate(ctx, filter, update,
			options.FindOneAndUpdate().SetReturnDocument(options.After)).
		Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			// Distinguish a missing room from a bounds violation.
			if _, getErr := s.GetRoom(ctx, roomID); getErr != nil {
				return nil, getErr
			}
			if delta > 0 {
				return nil, lodger.ErrRoomFull
			}
			return nil, lodger.ErrInvalidInput
		}
		return nil, fmt.Errorf("lodger/mongo: adjust room occupancy: %w", err)
	}
	return fromRoomModel(&m)
}

// ==================== Bed Store ====================

func (s *Store) CreateBed(ctx context.Context, b *bed.Bed) error {
	m := toBedModel(b)
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return lodger.ErrAlreadyExists
		}
		return fmt.Errorf("lodger/mongo: create bed: %w", err)
	}
	return nil
}

func (s *Store) GetBed(ctx context.Context, bedID id.BedID) (*bed.Bed, error) {
	var m bedModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": bedID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, lodger.ErrBedNotFound
		}
		return nil, fmt.Errorf("lodger/mongo: get bed: %w", err)
	}
	return fromBedModel(&m)
}

func (s *Store) ListBeds(ctx context.Context, opts bed.ListOpts) ([]*bed.Bed, error) {
	var models []bedModel

	filter := bson.M{}
	if !opts.RoomID.IsNil() {
		filter["room_id"] = opts.RoomID.String()
	}
	if !opts.PropertyID.IsNil() {
		filter["property_id"] = opts.PropertyID.String()
	}
	if opts.OnlyVacant {
		filter["is_occupied"] = false
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "label", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("lodger/mongo: list beds: %w", err)
	}

	result := make([]*bed.Bed, len(models))
	for i := range models {
		b, err := fromBedModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = b
	}
	return result, nil
}

func (s *Store) UpdateBed(ctx context.Context, b *bed.Bed) error {
	m := toBedModel(b)
	m.UpdatedAt = now()

	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("lodger/mongo: update bed: %w", err)
	}
	if res.MatchedCount() == 0 {
		return lodger.ErrBedNotFound
	}
	return nil
}

func (s *Store) DeleteBed(ctx context.Context, bedID id.BedID) error {
	n, err := s.mdb.Collection(colOccupancies).CountDocuments(ctx, bson.M{"bed_id": bedID.String()})
	if err != nil {
		return fmt.Errorf("lodger/mongo: delete bed: count occupancies: %w", err)
	}
	if n > 0 {
		return lodger.ErrBedInUse
	}

	res, err := s.mdb.NewDelete((*bedModel)(nil)).
		Filter(bson.M{"_id": bedID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("lodger/mongo: delete bed: %w", err)
	}
	if res.DeletedCount() == 0 {
		return lodger.ErrBedNotFound
	}
	return nil
}

func (s *Store) SetBedOccupied(ctx context.Context, bedID id.BedID, occupied bool) error {
	res, err := s.mdb.NewUpdate((*bedModel)(nil)).
		Filter(bson.M{"_id": bedID.String()}).
		Set("is_occupied", occupied).
		Set("updated_at", now()).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("lodger/mongo: set bed occupied: %w", err)
	}
	if res.MatchedCount() == 0 {
		return lodger.ErrBedNotFound
	}
	return nil
}

// ==================== Tenant Store ====================

func (s *Store) CreateTenant(ctx context.Context, t *tenant.Tenant) error {
	m := toTenantModel(t)
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return lodger.ErrAlreadyExists
		}
		return fmt.Errorf("lodger/mongo: create tenant: %w", err)
	}
	return nil
}

func (s *Store) GetTenant(ctx context.Context, tenantID id.TenantID) (*tenant.Tenant, error) {
	var m tenantModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": tenantID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, lodger.ErrTenantNotFound
		}
		return nil, fmt.Errorf("lodger/mongo: get tenant: %w", err)
	}
	return fromTenantModel(&m)
}

func (s *Store) ListTenants(ctx context.Context, opts tenant.ListOpts) ([]*tenant.Tenant, error) {
	var models []tenantModel

	filter := bson.M{}
	if !opts.IncludeDeleted {
		filter["deleted"] = bson.M{"$ne": true}
	}
	if opts.Status != "" {
		filter["status"] = string(opts.Status)
	}
	if opts.Search != "" {
		filter["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": opts.Search, "$options": "i"}},
			bson.M{"phone": bson.M{"$regex": opts.Search}},
		}
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "created_at", Value: -1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("lodger/mongo: list tenants: %w", err)
	}

	result := make([]*tenant.Tenant, len(models))
	for i := range models {
		t, err := fromTenantModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = t
	}
	return result, nil
}

func (s *Store) UpdateTenant(ctx context.Context, t *tenant.Tenant) error {
	m := toTenantModel(t)
	m.UpdatedAt = now()

	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("lodger/mongo: update tenant: %w", err)
	}
	if res.MatchedCount() == 0 {
		return lodger.ErrTenantNotFound
	}
	return nil
}

func (s *Store) DeleteTenant(ctx context.Context, tenantID id.TenantID) error {
	n, err := s.mdb.Collection(colOccupancies).CountDocuments(ctx, bson.M{
		"tenant_id": tenantID.String(),
		"end_date":  nil,
	})
	if err != nil {
		return fmt.Errorf("lodger/mongo: delete tenant: count occupancies: %w", err)
	}
	if n > 0 {
		return lodger.ErrTenantOccupied
	}

	res, err := s.mdb.NewDelete((*tenantModel)(nil)).
		Filter(bson.M{"_id": tenantID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("lodger/mongo: delete tenant: %w", err)
	}
	if res.DeletedCount() == 0 {
		return lodger.ErrTenantNotFound
	}
	return nil
}

// ==================== Occupancy Store ====================

func (s *Store) CreateOccupancy(ctx context.Context, o *occupancy.Occupancy) error {
	m := toOccupancyModel(o)
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		// The partial unique index over open occupancies turns a second
		// open stay on the same bed into a duplicate key error.
		if mongo.IsDuplicateKeyError(err) {
			return lodger.ErrBedOccupied
		}
		return fmt.Errorf("lodger/mongo: create occupancy: %w", err)
	}
	return nil
}

func (s *Store) GetOccupancy(ctx context.Context, occID id.OccupancyID) (*occupancy.Occupancy, error) {
	var m occupancyModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": occID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, lodger.ErrOccupancyNotFound
		}
		return nil, fmt.Errorf("lodger/mongo: get occupancy: %w", err)
	}
	return fromOccupancyModel(&m)
}

func (s *Store) GetOpenOccupancyByBed(ctx context.Context, bedID id.BedID) (*occupancy.Occupancy, error) {
	var m occupancyModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"bed_id": bedID.String(), "end_date": nil}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, lodger.ErrNoOpenOccupancy
		}
		return nil, fmt.Errorf("lodger/mongo: get open occupancy by bed: %w", err)
	}
	return fromOccupancyModel(&m)
}

func (s *Store) GetOpenOccupancyByTenant(ctx context.Context, tenantID id.TenantID) (*occupancy.Occupancy, error) {
	var m occupancyModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"tenant_id": tenantID.String(), "end_date": nil}).
		Sort(bson.D{{Key: "start_date", Value: -1}}).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, lodger.ErrNoOpenOccupancy
		}
		return nil, fmt.Errorf("lodger/mongo: get open occupancy by tenant: %w", err)
	}
	return fromOccupancyModel(&m)
}

func (s *Store) ListOccupancies(ctx context.Context, opts occupancy.ListOpts) ([]*occupancy.Occupancy, error) {
	var models []occupancyModel

	filter := bson.M{}
	if !opts.TenantID.IsNil() {
		filter["tenant_id"] = opts.TenantID.String()
	}
	if !opts.BedID.IsNil() {
		filter["bed_id"] = opts.BedID.String()
	}
	if !opts.RoomID.IsNil() {
		filter["room_id"] = opts.RoomID.String()
	}
	if opts.OnlyOpen {
		filter["end_date"] = nil
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "start_date", Value: -1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("lodger/mongo: list occupancies: %w", err)
	}

	result := make([]*occupancy.Occupancy, len(models))
	for i := range models {
		o, err := fromOccupancyModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = o
	}
	return result, nil
}

func (s *Store) UpdateOccupancy(ctx context.Context, o *occupancy.Occupancy) error {
	m := toOccupancyModel(o)
	m.UpdatedAt = now()

	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return lodger.ErrBedOccupied
		}
		return fmt.Errorf("lodger/mongo: update occupancy: %w", err)
	}
	if res.MatchedCount() == 0 {
		return lodger.ErrOccupancyNotFound
	}
	return nil
}

func (s *Store) DeleteOccupancy(ctx context.Context, occID id.OccupancyID) error {
	n, err := s.mdb.Collection(colBills).CountDocuments(ctx, bson.M{"occupancy_id": occID.String()})
	if err != nil {
		return fmt.Errorf("lodger/mongo: delete occupancy: count bills: %w", err)
	}
	if n > 0 {
		return lodger.ErrOccupancyHasBilling
	}

	res, err := s.mdb.NewDelete((*occupancyModel)(nil)).
		Filter(bson.M{"_id": occID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("lodger/mongo: delete occupancy: %w", err)
	}
	if res.DeletedCount() == 0 {
		return lodger.ErrOccupancyNotFound
	}
	return nil
}

func (s *Store) CloseOccupancy(ctx context.Context, occID id.OccupancyID, endDate time.Time) error {
	o, err := s.GetOccupancy(ctx, occID)
	if err != nil {
		return err
	}
	if !o.IsOpen() {
		return lodger.ErrOccupancyClosed
	}
	if endDate.Before(o.StartDate) {
		return lodger.ErrEndBeforeStart
	}

	// Filter on end_date null so a concurrent close loses the race cleanly.
	res, err := s.mdb.NewUpdate((*occupancyModel)(nil)).
		Filter(bson.M{"_id": occID.String(), "end_date": nil}).
		Set("end_date", endDate).
		Set("status", string(occupancy.StatusMovedOut)).
		Set("updated_at", now()).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("lodger/mongo: close occupancy: %w", err)
	}
	if res.MatchedCount() == 0 {
		return lodger.ErrOccupancyClosed
	}
	return nil
}

func (s *Store) ReopenOccupancy(ctx context.Context, occID id.OccupancyID) error {
	// Clearing end_date re-enters the partial unique index; if the bed
	// gained another open occupancy in the meantime this fails as a
	// duplicate key.
	res, err := s.mdb.NewUpdate((*occupancyModel)(nil)).
		Filter(bson.M{"_id": occID.String()}).
		Set("end_date", nil).
		Set("status", string(occupancy.StatusActive)).
		Set("updated_at", now()).
		Exec(ctx)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return lodger.ErrBedOccupied
		}
		return fmt.Errorf("lodger/mongo: reopen occupancy: %w", err)
	}
	if res.MatchedCount() == 0 {
		return lodger.ErrOccupancyNotFound
	}
	return nil
}

// ==================== Bill Store ====================

func (s *Store) CreateBill(ctx context.Context, b *bill.Bill) error {
	m := toBillModel(b)
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return lodger.ErrDuplicateBill
		}
		return fmt.Errorf("lodger/mongo: create bill: %w", err)
	}
	return nil
}

func (s *Store) GetBill(ctx context.Context, billID id.BillID) (*bill.Bill, error) {
	var m billModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": billID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, lodger.ErrBillNotFound
		}
		return nil, fmt.Errorf("lodger/mongo: get bill: %w", err)
	}
	return fromBillModel(&m)
}

func (s *Store) ListBills(ctx context.Context, opts bill.ListOpts) ([]*bill.Bill, error) {
	var models []billModel

	filter := bson.M{}
	if !opts.TenantID.IsNil() {
		filter["tenant_id"] = opts.TenantID.String()
	}
	if !opts.BedID.IsNil() {
		filter["bed_id"] = opts.BedID.String()
	}
	if !opts.OccupancyID.IsNil() {
		filter["occupancy_id"] = opts.OccupancyID.String()
	}
	if opts.Status != "" {
		filter["status"] = string(opts.Status)
	}
	if !opts.From.IsZero() {
		filter["period_end"] = bson.M{"$gte": opts.From}
	}
	if !opts.To.IsZero() {
		filter["period_start"] = bson.M{"$lte": opts.To}
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "period_start", Value: -1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("lodger/mongo: list bills: %w", err)
	}

	result := make([]*bill.Bill, len(models))
	for i := range models {
		b, err := fromBillModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = b
	}
	return result, nil
}

func (s *Store) ListBillsByOccupancy(ctx context.Context, occID id.OccupancyID) ([]*bill.Bill, error) {
	var models []billModel

	err := s.mdb.NewFind(&models).
		Filter(bson.M{"occupancy_id": occID.String()}).
		Sort(bson.D{{Key: "period_start", Value: 1}}).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("lodger/mongo: list bills by occupancy: %w", err)
	}

	result := make([]*bill.Bill, len(models))
	for i := range models {
		b, err := fromBillModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = b
	}
	return result, nil
}

func (s *Store) UpdateBill(ctx context.Context, b *bill.Bill) error {
	m := toBillModel(b)
	m.UpdatedAt = now()

	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return lodger.ErrDuplicateBill
		}
		return fmt.Errorf("lodger/mongo: update bill: %w", err)
	}
	if res.MatchedCount() == 0 {
		return lodger.ErrBillNotFound
	}
	return nil
}

func (s *Store) DeleteBill(ctx context.Context, billID id.BillID) error {
	n, err := s.mdb.Collection(colTransactions).CountDocuments(ctx, bson.M{"bill_id": billID.String()})
	if err != nil {
		return fmt.Errorf("lodger/mongo: delete bill: count payments: %w", err)
	}
	if n > 0 {
		return lodger.ErrBillHasPayments
	}

	res, err := s.mdb.NewDelete((*billModel)(nil)).
		Filter(bson.M{"_id": billID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("lodger/mongo: delete bill: %w", err)
	}
	if res.DeletedCount() == 0 {
		return lodger.ErrBillNotFound
	}
	return nil
}

// ==================== Transaction Store ====================

func (s *Store) CreateTransaction(ctx context.Context, t *txn.Transaction) error {
	m := toTransactionModel(t)
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		return fmt.Errorf("lodger/mongo: create transaction: %w", err)
	}
	return nil
}

func (s *Store) GetTransaction(ctx context.Context, txnID id.TransactionID) (*txn.Transaction, error) {
	var m transactionModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": txnID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, lodger.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("lodger/mongo: get transaction: %w", err)
	}
	return fromTransactionModel(&m)
}

func (s *Store) ListTransactions(ctx context.Context, opts txn.ListOpts) ([]*txn.Transaction, error) {
	var models []transactionModel

	filter := bson.M{}
	if !opts.BillID.IsNil() {
		filter["bill_id"] = opts.BillID.String()
	}
	if !opts.TenantID.IsNil() {
		filter["tenant_id"] = opts.TenantID.String()
	}
	if opts.Method != "" {
		filter["method"] = string(opts.Method)
	}
	if !opts.From.IsZero() || !opts.To.IsZero() {
		paidAt := bson.M{}
		if !opts.From.IsZero() {
			paidAt["$gte"] = opts.From
		}
		if !opts.To.IsZero() {
			paidAt["$lte"] = opts.To
		}
		filter["paid_at"] = paidAt
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "paid_at", Value: -1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("lodger/mongo: list transactions: %w", err)
	}

	result := make([]*txn.Transaction, len(models))
	for i := range models {
		t, err := fromTransactionModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = t
	}
	return result, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, t *txn.Transaction) error {
	m := toTransactionModel(t)
	m.UpdatedAt = now()

	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("lodger/mongo: update transaction: %w", err)
	}
	if res.MatchedCount() == 0 {
		return lodger.ErrTransactionNotFound
	}
	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, txnID id.TransactionID) error {
	_, err := s.mdb.NewDelete((*transactionModel)(nil)).
		Filter(bson.M{"_id": txnID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("lodger/mongo: delete transaction: %w", err)
	}
	return nil
}

func (s *Store) SumPayments(ctx context.Context, billID id.BillID) (int64, error) {
	pipeline := bson.A{
		bson.M{"$match": bson.M{"bill_id": billID.String()}},
		bson.M{"$group": bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$amount_cents"},
		}},
	}

	cursor, err := s.mdb.Collection(colTransactions).Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("lodger/mongo: sum payments: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, fmt.Errorf("lodger/mongo: sum payments decode: %w", err)
	}

	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

// ==================== Fee Store ====================

func (s *Store) CreateFee(ctx context.Context, r *fee.Record) error {
	m := toFeeModel(r)
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return lodger.ErrDuplicateFee
		}
		return fmt.Errorf("lodger/mongo: create fee: %w", err)
	}
	return nil
}

func (s *Store) GetFee(ctx context.Context, feeID id.FeeID) (*fee.Record, error) {
	var m feeModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": feeID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, lodger.ErrFeeNotFound
		}
		return nil, fmt.Errorf("lodger/mongo: get fee: %w", err)
	}
	return fromFeeModel(&m)
}

func (s *Store) GetFeeByMonth(ctx context.Context, tenantID id.TenantID, month time.Time) (*fee.Record, error) {
	var m feeModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"tenant_id": tenantID.String(), "month": month}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, lodger.ErrFeeNotFound
		}
		return nil, fmt.Errorf("lodger/mongo: get fee by month: %w", err)
	}
	return fromFeeModel(&m)
}

func (s *Store) ListFees(ctx context.Context, opts fee.ListOpts) ([]*fee.Record, error) {
	var models []feeModel

	filter := bson.M{}
	if !opts.TenantID.IsNil() {
		filter["tenant_id"] = opts.TenantID.String()
	}
	if opts.Status != "" {
		filter["status"] = string(opts.Status)
	}
	if !opts.From.IsZero() || !opts.To.IsZero() {
		month := bson.M{}
		if !opts.From.IsZero() {
			month["$gte"] = opts.From
		}
		if !opts.To.IsZero() {
			month["$lte"] = opts.To
		}
		filter["month"] = month
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "month", Value: -1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("lodger/mongo: list fees: %w", err)
	}

	result := make([]*fee.Record, len(models))
	for i := range models {
		r, err := fromFeeModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = r
	}
	return result, nil
}

func (s *Store) UpdateFee(ctx context.Context, r *fee.Record) error {
	m := toFeeModel(r)
	m.UpdatedAt = now()

	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return lodger.ErrDuplicateFee
		}
		return fmt.Errorf("lodger/mongo: update fee: %w", err)
	}
	if res.MatchedCount() == 0 {
		return lodger.ErrFeeNotFound
	}
	return nil
}

func (s *Store) DeleteFee(ctx context.Context, feeID id.FeeID) error {
	_, err := s.mdb.NewDelete((*feeModel)(nil)).
		Filter(bson.M{"_id": feeID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("lodger/mongo: delete fee: %w", err)
	}
	return nil
}

// ==================== Report queries ====================

func (s *Store) ArrearsAsOf(ctx context.Context, cutoff time.Time) ([]*report.ArrearsRow, error) {
	pipeline := bson.A{
		bson.M{"$match": bson.M{"period_start": bson.M{"$lte": cutoff}}},
		bson.M{"$lookup": bson.M{
			"from":         colTransactions,
			"localField":   "_id",
			"foreignField": "bill_id",
			"as":           "payments",
		}},
		bson.M{"$addFields": bson.M{
			"paid_cents": bson.M{"$sum": "$payments.amount_cents"},
		}},
		bson.M{"$group": bson.M{
			"_id":      "$tenant_id",
			"billed":   bson.M{"$sum": "$amount_cents"},
			"paid":     bson.M{"$sum": "$paid_cents"},
			"currency": bson.M{"$first": "$amount_currency"},
			"oldest_due": bson.M{"$min": bson.M{"$cond": bson.A{
				bson.M{"$lt": bson.A{"$paid_cents", "$amount_cents"}},
				"$period_end",
				nil,
			}}},
		}},
		bson.M{"$match": bson.M{"$expr": bson.M{"$gt": bson.A{"$billed", "$paid"}}}},
		bson.M{"$lookup": bson.M{
			"from":         colTenants,
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "tenant",
		}},
		bson.M{"$sort": bson.M{"_id": 1}},
	}

	cursor, err := s.mdb.Collection(colBills).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("lodger/mongo: arrears: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		TenantID  string     `bson:"_id"`
		Billed    int64      `bson:"billed"`
		Paid      int64      `bson:"paid"`
		Currency  string     `bson:"currency"`
		OldestDue *time.Time `bson:"oldest_due"`
		Tenant    []struct {
			Name string `bson:"name"`
		} `bson:"tenant"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("lodger/mongo: arrears decode: %w", err)
	}

	result := make([]*report.ArrearsRow, 0, len(rows))
	for _, r := range rows {
		tenantID, idErr := id.ParseTenantID(r.TenantID)
		if idErr != nil {
			return nil, idErr
		}
		row := &report.ArrearsRow{
			TenantID:  tenantID,
			Billed:    types.Money{Amount: r.Billed, Currency: r.Currency},
			Paid:      types.Money{Amount: r.Paid, Currency: r.Currency},
			Balance:   types.Money{Amount: r.Billed - r.Paid, Currency: r.Currency},
			OldestDue: r.OldestDue,
		}
		if len(r.Tenant) > 0 {
			row.TenantName = r.Tenant[0].Name
		}
		result = append(result, row)
	}
	return result, nil
}

func (s *Store) RevenueBetween(ctx context.Context, from, to time.Time) ([]*report.RevenueRow, error) {
	pipeline := bson.A{
		bson.M{"$match": bson.M{"paid_at": bson.M{"$gte": from, "$lte": to}}},
		bson.M{"$group": bson.M{
			"_id": bson.M{"$dateTrunc": bson.M{
				"date": "$paid_at",
				"unit": "month",
			}},
			"total":    bson.M{"$sum": "$amount_cents"},
			"count":    bson.M{"$sum": 1},
			"currency": bson.M{"$first": "$amount_currency"},
		}},
		bson.M{"$sort": bson.M{"_id": 1}},
	}

	cursor, err := s.mdb.Collection(colTransactions).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("lodger/mongo: revenue: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Month    time.Time `bson:"_id"`
		Total    int64     `bson:"total"`
		Count    int       `bson:"count"`
		Currency string    `bson:"currency"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("lodger/mongo: revenue decode: %w", err)
	}

	result := make([]*report.RevenueRow, len(rows))
	for i, r := range rows {
		result[i] = &report.RevenueRow{
			Month:  r.Month,
			Amount: types.Money{Amount: r.Total, Currency: r.Currency},
			Count:  r.Count,
		}
	}
	return result, nil
}

func (s *Store) DashboardSummary(ctx context.Context, nowAt time.Time) (*report.Summary, error) {
	sum := &report.Summary{}

	counts := []struct {
		col    string
		filter bson.M
		dest   *int
	}{
		{colProperties, bson.M{}, &sum.Properties},
		{colRooms, bson.M{}, &sum.Rooms},
		{colBeds, bson.M{}, &sum.Beds},
		{colBeds, bson.M{"is_occupied": true}, &sum.OccupiedBeds},
		{colTenants, bson.M{"status": string(tenant.StatusActive)}, &sum.ActiveTenants},
		{colOccupancies, bson.M{"end_date": nil}, &sum.OpenStays},
	}
	for _, c := range counts {
		n, err := s.mdb.Collection(c.col).CountDocuments(ctx, c.filter)
		if err != nil {
			return nil, fmt.Errorf("lodger/mongo: dashboard count %s: %w", c.col, err)
		}
		*c.dest = int(n)
	}

	monthStart := time.Date(nowAt.Year(), nowAt.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	billedMonth, billedCurrency, err := s.sumAmounts(ctx, colBills,
		bson.M{"period_start": bson.M{"$gte": monthStart, "$lt": monthEnd}})
	if err != nil {
		return nil, err
	}
	collectedMonth, _, err := s.sumAmounts(ctx, colTransactions,
		bson.M{"paid_at": bson.M{"$gte": monthStart, "$lt": monthEnd}})
	if err != nil {
		return nil, err
	}
	billedTotal, _, err := s.sumAmounts(ctx, colBills, bson.M{})
	if err != nil {
		return nil, err
	}
	paidTotal, _, err := s.sumAmounts(ctx, colTransactions, bson.M{})
	if err != nil {
		return nil, err
	}

	currency := billedCurrency
	if currency == "" {
		currency = "inr"
	}
	sum.BilledMonth = types.Money{Amount: billedMonth, Currency: currency}
	sum.CollectedMonth = types.Money{Amount: collectedMonth, Currency: currency}
	outstanding := billedTotal - paidTotal
	if outstanding < 0 {
		outstanding = 0
	}
	sum.Outstanding = types.Money{Amount: outstanding, Currency: currency}
	return sum, nil
}

// sumAmounts totals amount_cents over the documents matching filter.
func (s *Store) sumAmounts(ctx context.Context, col string, filter bson.M) (int64, string, error) {
	pipeline := bson.A{
		bson.M{"$match": filter},
		bson.M{"$group": bson.M{
			"_id":      nil,
			"total":    bson.M{"$sum": "$amount_cents"},
			"currency": bson.M{"$first": "$amount_currency"},
		}},
	}

	cursor, err := s.mdb.Collection(col).Aggregate(ctx, pipeline)
	if err != nil {
		return 0, "", fmt.Errorf("lodger/mongo: sum %s: %w", col, err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total    int64  `bson:"total"`
		Currency string `bson:"currency"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, "", fmt.Errorf("lodger/mongo: sum %s decode: %w", col, err)
	}

	if len(results) == 0 {
		return 0, "", nil
	}
	return results[0].Total, results[0].Currency, nil
}

// ==================== Helpers ====================

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for all lodger collections.
// The partial unique index on occupancies is the storage-level guarantee that
// a bed has at most one open stay.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colProperties: {
			{Keys: bson.D{{Key: "city", Value: 1}}},
		},
		colRooms: {
			{
				Keys:    bson.D{{Key: "property_id", Value: 1}, {Key: "number", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "property_id", Value: 1}, {Key: "status", Value: 1}}},
		},
		colBeds: {
			{
				Keys:    bson.D{{Key: "room_id", Value: 1}, {Key: "label", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "property_id", Value: 1}, {Key: "is_occupied", Value: 1}}},
		},
		colTenants: {
			{Keys: bson.D{{Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "phone", Value: 1}}},
		},
		colOccupancies: {
			{
				Keys: bson.D{{Key: "bed_id", Value: 1}},
				Options: options.Index().
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"end_date": bson.M{"$type": "null"}}),
			},
			{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "start_date", Value: -1}}},
			{Keys: bson.D{{Key: "room_id", Value: 1}}},
		},
		colBills: {
			{
				Keys: bson.D{
					{Key: "tenant_id", Value: 1},
					{Key: "bed_id", Value: 1},
					{Key: "period_start", Value: 1},
					{Key: "period_end", Value: 1},
				},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "occupancy_id", Value: 1}, {Key: "period_start", Value: 1}}},
			{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "status", Value: 1}}},
		},
		colTransactions: {
			{Keys: bson.D{{Key: "bill_id", Value: 1}}},
			{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "paid_at", Value: -1}}},
			{Keys: bson.D{{Key: "paid_at", Value: -1}}},
		},
		colFees: {
			{
				Keys:    bson.D{{Key: "tenant_id", Value: 1}, {Key: "month", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "due_date", Value: 1}}},
		},
	}
}
