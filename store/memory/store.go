// Package memory provides an in-memory Store implementation for tests and
// small single-process deployments. All consistency guards run under one
// mutex, so the single-open-occupancy and capacity invariants hold even
// under concurrent callers.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/xraph/lodger"
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
	"github.com/xraph/lodger/types"
)

type Store struct {
	mu sync.RWMutex

	properties  map[string]*property.Property
	rooms       map[string]*room.Room
	beds        map[string]*bed.Bed
	tenants     map[string]*tenant.Tenant
	occupancies map[string]*occupancy.Occupancy
	bills       map[string]*bill.Bill
	txns        map[string]*txn.Transaction
	fees        map[string]*fee.Record
}

func New() *Store {
	return &Store{
		properties:  make(map[string]*property.Property),
		rooms:       make(map[string]*room.Room),
		beds:        make(map[string]*bed.Bed),
		tenants:     make(map[string]*tenant.Tenant),
		occupancies: make(map[string]*occupancy.Occupancy),
		bills:       make(map[string]*bill.Bill),
		txns:        make(map[string]*txn.Transaction),
		fees:        make(map[string]*fee.Record),
	}
}

// Property Store implementation
func (s *Store) CreateProperty(_ context.Context, p *property.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.properties[p.ID.String()]; exists {
		return lodger.ErrAlreadyExists
	}
	s.properties[p.ID.String()] = p
	return nil
}

func (s *Store) GetProperty(_ context.Context, propertyID id.PropertyID) (*property.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.properties[propertyID.String()]; ok {
		return p, nil
	}
	return nil, lodger.ErrPropertyNotFound
}

func (s *Store) ListProperties(_ context.Context, opts property.ListOpts) ([]*property.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*property.Property, 0)
	for _, p := range s.properties {
		if opts.City == "" || strings.EqualFold(p.City, opts.City) {
			result = append(result, p)
		}
	}
	return paginate(result, opts.Limit, opts.Offset), nil
}

func (s *Store) UpdateProperty(_ context.Context, p *property.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.properties[p.ID.String()]; !exists {
		return lodger.ErrPropertyNotFound
	}
	s.properties[p.ID.String()] = p
	return nil
}

func (s *Store) DeleteProperty(_ context.Context, propertyID id.PropertyID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.rooms {
		if r.PropertyID.String() == propertyID.String() {
			return lodger.ErrPropertyInUse
		}
	}
	delete(s.properties, propertyID.String())
	return nil
}

// Room Store implementation
func (s *Store) CreateRoom(_ context.Context, r *room.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.rooms[r.ID.String()]; exists {
		return lodger.ErrAlreadyExists
	}
	if _, ok := s.properties[r.PropertyID.String()]; !ok {
		return lodger.ErrPropertyNotFound
	}
	s.rooms[r.ID.String()] = r
	return nil
}

func (s *Store) GetRoom(_ context.Context, roomID id.RoomID) (*room.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if r, ok := s.rooms[roomID.String()]; ok {
		return r, nil
	}
	return nil, lodger.ErrRoomNotFound
}

func (s *Store) ListRooms(_ context.Context, opts room.ListOpts) ([]*room.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*room.Room, 0)
	for _, r := range s.rooms {
		if !opts.PropertyID.IsNil() && r.PropertyID.String() != opts.PropertyID.String() {
			continue
		}
		if opts.Status != "" && r.Status != opts.Status {
			continue
		}
		result = append(result, r)
	}
	return paginate(result, opts.Limit, opts.Offset), nil
}

func (s *Store) UpdateRoom(_ context.Context, r *room.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.rooms[r.ID.String()]; !exists {
		return lodger.ErrRoomNotFound
	}
	s.rooms[r.ID.String()] = r
	return nil
}

func (s *Store) DeleteRoom(_ context.Context, roomID id.RoomID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.beds {
		if b.RoomID.String() == roomID.String() {
			return lodger.ErrRoomInUse
		}
	}
	delete(s.rooms, roomID.String())
	return nil
}

func (s *Store) AdjustRoomOccupancy(_ context.Context, roomID id.RoomID, delta int) (*room.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID.String()]
	if !ok {
		return nil, lodger.ErrRoomNotFound
	}

	next := r.OccupiedCount + delta
	if next > r.Capacity {
		return nil, lodger.ErrRoomFull
	}
	if next < 0 {
		return nil, lodger.ErrInvalidInput
	}

	r.OccupiedCount = next
	r.Refresh()
	r.Touch()
	return r, nil
}

// Bed Store implementation
func (s *Store) CreateBed(_ context.Context, b *bed.Bed) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.beds[b.ID.String()]; exists {
		return lodger.ErrAlreadyExists
	}
	if _, ok := s.rooms[b.RoomID.String()]; !ok {
		return lodger.ErrRoomNotFound
	}
	s.beds[b.ID.String()] = b
	return nil
}

func (s *Store) GetBed(_ context.Context, bedID id.BedID) (*bed.Bed, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if b, ok := s.beds[bedID.String()]; ok {
		return b, nil
	}
	return nil, lodger.ErrBedNotFound
}

func (s *Store) ListBeds(_ context.Context, opts bed.ListOpts) ([]*bed.Bed, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*bed.Bed, 0)
	for _, b := range s.beds {
		if !opts.RoomID.IsNil() && b.RoomID.String() != opts.RoomID.String() {
			continue
		}
		if !opts.PropertyID.IsNil() && b.PropertyID.String() != opts.PropertyID.String() {
			continue
		}
		if opts.OnlyVacant && b.IsOccupied {
			continue
		}
		result = append(result, b)
	}
	return paginate(result, opts.Limit, opts.Offset), nil
}

func (s *Store) UpdateBed(_ context.Context, b *bed.Bed) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.beds[b.ID.String()]; !exists {
		return lodger.ErrBedNotFound
	}
	s.beds[b.ID.String()] = b
	return nil
}

func (s *Store) DeleteBed(_ context.Context, bedID id.BedID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.occupancies {
		if o.BedID.String() == bedID.String() {
			return lodger.ErrBedInUse
		}
	}
	delete(s.beds, bedID.String())
	return nil
}

func (s *Store) SetBedOccupied(_ context.Context, bedID id.BedID, occupied bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.beds[bedID.String()]
	if !ok {
		return lodger.ErrBedNotFound
	}
	b.IsOccupied = occupied
	b.Touch()
	return nil
}

// Tenant Store implementation
func (s *Store) CreateTenant(_ context.Context, t *tenant.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tenants[t.ID.String()]; exists {
		return lodger.ErrAlreadyExists
	}
	s.tenants[t.ID.String()] = t
	return nil
}

func (s *Store) GetTenant(_ context.Context, tenantID id.TenantID) (*tenant.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if t, ok := s.tenants[tenantID.String()]; ok {
		return t, nil
	}
	return nil, lodger.ErrTenantNotFound
}

func (s *Store) ListTenants(_ context.Context, opts tenant.ListOpts) ([]*tenant.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*tenant.Tenant, 0)
	for _, t := range s.tenants {
		if t.Deleted && !opts.IncludeDeleted {
			continue
		}
		if opts.Status != "" && t.Status != opts.Status {
			continue
		}
		if opts.Search != "" {
			needle := strings.ToLower(opts.Search)
			if !strings.Contains(strings.ToLower(t.Name), needle) &&
				!strings.Contains(t.Phone, opts.Search) {
				continue
			}
		}
		result = append(result, t)
	}
	return paginate(result, opts.Limit, opts.Offset), nil
}

func (s *Store) UpdateTenant(_ context.Context, t *tenant.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tenants[t.ID.String()]; !exists {
		return lodger.ErrTenantNotFound
	}
	s.tenants[t.ID.String()] = t
	return nil
}

func (s *Store) DeleteTenant(_ context.Context, tenantID id.TenantID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.occupancies {
		if o.TenantID.String() == tenantID.String() && o.IsOpen() {
			return lodger.ErrTenantOccupied
		}
	}
	delete(s.tenants, tenantID.String())
	return nil
}

// Occupancy Store implementation
func (s *Store) CreateOccupancy(_ context.Context, o *occupancy.Occupancy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.occupancies[o.ID.String()]; exists {
		return lodger.ErrAlreadyExists
	}
	if o.IsOpen() {
		for _, existing := range s.occupancies {
			if existing.BedID.String() == o.BedID.String() && existing.IsOpen() {
				return lodger.ErrBedOccupied
			}
		}
	}
	s.occupancies[o.ID.String()] = o
	return nil
}

func (s *Store) GetOccupancy(_ context.Context, occID id.OccupancyID) (*occupancy.Occupancy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if o, ok := s.occupancies[occID.String()]; ok {
		return o, nil
	}
	return nil, lodger.ErrOccupancyNotFound
}

func (s *Store) GetOpenOccupancyByBed(_ context.Context, bedID id.BedID) (*occupancy.Occupancy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.occupancies {
		if o.BedID.String() == bedID.String() && o.IsOpen() {
			return o, nil
		}
	}
	return nil, lodger.ErrNoOpenOccupancy
}

func (s *Store) GetOpenOccupancyByTenant(_ context.Context, tenantID id.TenantID) (*occupancy.Occupancy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.occupancies {
		if o.TenantID.String() == tenantID.String() && o.IsOpen() {
			return o, nil
		}
	}
	return nil, lodger.ErrNoOpenOccupancy
}

func (s *Store) ListOccupancies(_ context.Context, opts occupancy.ListOpts) ([]*occupancy.Occupancy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*occupancy.Occupancy, 0)
	for _, o := range s.occupancies {
		if !opts.TenantID.IsNil() && o.TenantID.String() != opts.TenantID.String() {
			continue
		}
		if !opts.BedID.IsNil() && o.BedID.String() != opts.BedID.String() {
			continue
		}
		if !opts.RoomID.IsNil() && o.RoomID.String() != opts.RoomID.String() {
			continue
		}
		if opts.OnlyOpen && !o.IsOpen() {
			continue
		}
		result = append(result, o)
	}
	return paginate(result, opts.Limit, opts.Offset), nil
}

func (s *Store) UpdateOccupancy(_ context.Context, o *occupancy.Occupancy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.occupancies[o.ID.String()]; !exists {
		return lodger.ErrOccupancyNotFound
	}
	s.occupancies[o.ID.String()] = o
	return nil
}

func (s *Store) DeleteOccupancy(_ context.Context, occID id.OccupancyID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.bills {
		if b.OccupancyID.String() == occID.String() {
			return lodger.ErrOccupancyHasBilling
		}
	}
	delete(s.occupancies, occID.String())
	return nil
}

func (s *Store) CloseOccupancy(_ context.Context, occID id.OccupancyID, endDate time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.occupancies[occID.String()]
	if !ok {
		return lodger.ErrOccupancyNotFound
	}
	if !o.IsOpen() {
		return lodger.ErrOccupancyClosed
	}
	if endDate.Before(o.StartDate) {
		return lodger.ErrEndBeforeStart
	}
	o.EndDate = &endDate
	o.Status = occupancy.StatusMovedOut
	o.Touch()
	return nil
}

func (s *Store) ReopenOccupancy(_ context.Context, occID id.OccupancyID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.occupancies[occID.String()]
	if !ok {
		return lodger.ErrOccupancyNotFound
	}
	if o.IsOpen() {
		return nil
	}
	for _, existing := range s.occupancies {
		if existing.ID.String() != o.ID.String() &&
			existing.BedID.String() == o.BedID.String() && existing.IsOpen() {
			return lodger.ErrBedOccupied
		}
	}
	o.EndDate = nil
	o.Status = occupancy.StatusActive
	o.Touch()
	return nil
}

// Bill Store implementation
func (s *Store) CreateBill(_ context.Context, b *bill.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bills[b.ID.String()]; exists {
		return lodger.ErrAlreadyExists
	}
	for _, existing := range s.bills {
		if existing.TenantID.String() == b.TenantID.String() &&
			existing.BedID.String() == b.BedID.String() &&
			existing.PeriodStart.Equal(b.PeriodStart) &&
			existing.PeriodEnd.Equal(b.PeriodEnd) {
			return lodger.ErrDuplicateBill
		}
	}
	s.bills[b.ID.String()] = b
	return nil
}

func (s *Store) GetBill(_ context.Context, billID id.BillID) (*bill.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if b, ok := s.bills[billID.String()]; ok {
		return b, nil
	}
	return nil, lodger.ErrBillNotFound
}

func (s *Store) ListBills(_ context.Context, opts bill.ListOpts) ([]*bill.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*bill.Bill, 0)
	for _, b := range s.bills {
		if !opts.TenantID.IsNil() && b.TenantID.String() != opts.TenantID.String() {
			continue
		}
		if !opts.BedID.IsNil() && b.BedID.String() != opts.BedID.String() {
			continue
		}
		if !opts.OccupancyID.IsNil() && b.OccupancyID.String() != opts.OccupancyID.String() {
			continue
		}
		if opts.Status != "" && b.Status != opts.Status {
			continue
		}
		if !opts.From.IsZero() && b.PeriodEnd.Before(opts.From) {
			continue
		}
		if !opts.To.IsZero() && b.PeriodStart.After(opts.To) {
			continue
		}
		result = append(result, b)
	}
	return paginate(result, opts.Limit, opts.Offset), nil
}

func (s *Store) ListBillsByOccupancy(_ context.Context, occID id.OccupancyID) ([]*bill.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*bill.Bill, 0)
	for _, b := range s.bills {
		if b.OccupancyID.String() == occID.String() {
			result = append(result, b)
		}
	}
	sortBillsByPeriod(result)
	return result, nil
}

func (s *Store) UpdateBill(_ context.Context, b *bill.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bills[b.ID.String()]; !exists {
		return lodger.ErrBillNotFound
	}
	s.bills[b.ID.String()] = b
	return nil
}

func (s *Store) DeleteBill(_ context.Context, billID id.BillID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.txns {
		if t.BillID.String() == billID.String() {
			return lodger.ErrBillHasPayments
		}
	}
	delete(s.bills, billID.String())
	return nil
}

// Transaction Store implementation
func (s *Store) CreateTransaction(_ context.Context, t *txn.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.txns[t.ID.String()]; exists {
		return lodger.ErrAlreadyExists
	}
	if _, ok := s.bills[t.BillID.String()]; !ok {
		return lodger.ErrBillNotFound
	}
	s.txns[t.ID.String()] = t
	return nil
}

func (s *Store) GetTransaction(_ context.Context, txnID id.TransactionID) (*txn.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if t, ok := s.txns[txnID.String()]; ok {
		return t, nil
	}
	return nil, lodger.ErrTransactionNotFound
}

func (s *Store) ListTransactions(_ context.Context, opts txn.ListOpts) ([]*txn.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*txn.Transaction, 0)
	for _, t := range s.txns {
		if !opts.BillID.IsNil() && t.BillID.String() != opts.BillID.String() {
			continue
		}
		if !opts.TenantID.IsNil() && t.TenantID.String() != opts.TenantID.String() {
			continue
		}
		if opts.Method != "" && t.Method != opts.Method {
			continue
		}
		if !opts.From.IsZero() && t.PaidAt.Before(opts.From) {
			continue
		}
		if !opts.To.IsZero() && t.PaidAt.After(opts.To) {
			continue
		}
		result = append(result, t)
	}
	return paginate(result, opts.Limit, opts.Offset), nil
}

func (s *Store) UpdateTransaction(_ context.Context, t *txn.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.txns[t.ID.String()]; !exists {
		return lodger.ErrTransactionNotFound
	}
	s.txns[t.ID.String()] = t
	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, txnID id.TransactionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.txns, txnID.String())
	return nil
}

func (s *Store) SumPayments(_ context.Context, billID id.BillID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for _, t := range s.txns {
		if t.BillID.String() == billID.String() {
			total += t.Amount.Amount
		}
	}
	return total, nil
}

// Fee Store implementation
func (s *Store) CreateFee(_ context.Context, r *fee.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.fees[r.ID.String()]; exists {
		return lodger.ErrAlreadyExists
	}
	for _, existing := range s.fees {
		if existing.TenantID.String() == r.TenantID.String() && existing.Month.Equal(r.Month) {
			return lodger.ErrDuplicateFee
		}
	}
	s.fees[r.ID.String()] = r
	return nil
}

func (s *Store) GetFee(_ context.Context, feeID id.FeeID) (*fee.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if r, ok := s.fees[feeID.String()]; ok {
		return r, nil
	}
	return nil, lodger.ErrFeeNotFound
}

func (s *Store) GetFeeByMonth(_ context.Context, tenantID id.TenantID, month time.Time) (*fee.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.fees {
		if r.TenantID.String() == tenantID.String() && r.Month.Equal(month) {
			return r, nil
		}
	}
	return nil, lodger.ErrFeeNotFound
}

func (s *Store) ListFees(_ context.Context, opts fee.ListOpts) ([]*fee.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*fee.Record, 0)
	for _, r := range s.fees {
		if !opts.TenantID.IsNil() && r.TenantID.String() != opts.TenantID.String() {
			continue
		}
		if opts.Status != "" && r.Status != opts.Status {
			continue
		}
		if !opts.From.IsZero() && r.Month.Before(opts.From) {
			continue
		}
		if !opts.To.IsZero() && r.Month.After(opts.To) {
			continue
		}
		result = append(result, r)
	}
	return paginate(result, opts.Limit, opts.Offset), nil
}

func (s *Store) UpdateFee(_ context.Context, r *fee.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.fees[r.ID.String()]; !exists {
		return lodger.ErrFeeNotFound
	}
	s.fees[r.ID.String()] = r
	return nil
}

func (s *Store) DeleteFee(_ context.Context, feeID id.FeeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.fees, feeID.String())
	return nil
}

// Report queries
func (s *Store) ArrearsAsOf(_ context.Context, cutoff time.Time) ([]*report.ArrearsRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type acc struct {
		billed    int64
		paid      int64
		currency  string
		oldestDue *time.Time
	}
	byTenant := make(map[string]*acc)

	for _, b := range s.bills {
		if b.PeriodStart.After(cutoff) {
			continue
		}
		a, ok := byTenant[b.TenantID.String()]
		if !ok {
			a = &acc{currency: b.Amount.Currency}
			byTenant[b.TenantID.String()] = a
		}
		a.billed += b.Amount.Amount

		var paid int64
		for _, t := range s.txns {
			if t.BillID.String() == b.ID.String() {
				paid += t.Amount.Amount
			}
		}
		a.paid += paid

		if paid < b.Amount.Amount {
			due := b.PeriodEnd
			if a.oldestDue == nil || due.Before(*a.oldestDue) {
				a.oldestDue = &due
			}
		}
	}

	result := make([]*report.ArrearsRow, 0)
	for tenantKey, a := range byTenant {
		if a.billed <= a.paid {
			continue
		}
		row := &report.ArrearsRow{
			Billed:    types.Money{Amount: a.billed, Currency: a.currency},
			Paid:      types.Money{Amount: a.paid, Currency: a.currency},
			Balance:   types.Money{Amount: a.billed - a.paid, Currency: a.currency},
			OldestDue: a.oldestDue,
		}
		if t, ok := s.tenants[tenantKey]; ok {
			row.TenantID = t.ID
			row.TenantName = t.Name
		}
		result = append(result, row)
	}
	return result, nil
}

func (s *Store) RevenueBetween(_ context.Context, from, to time.Time) ([]*report.RevenueRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byMonth := make(map[time.Time]*report.RevenueRow)
	for _, t := range s.txns {
		if t.PaidAt.Before(from) || t.PaidAt.After(to) {
			continue
		}
		month := time.Date(t.PaidAt.Year(), t.PaidAt.Month(), 1, 0, 0, 0, 0, time.UTC)
		row, ok := byMonth[month]
		if !ok {
			row = &report.RevenueRow{Month: month, Amount: types.Zero(t.Amount.Currency)}
			byMonth[month] = row
		}
		// Sums minor units under the first currency seen for the month,
		// matching the mongo aggregation. Reports assume a single-currency
		// ledger.
		row.Amount.Amount += t.Amount.Amount
		row.Count++
	}

	result := make([]*report.RevenueRow, 0, len(byMonth))
	for _, row := range byMonth {
		result = append(result, row)
	}
	sortRevenueByMonth(result)
	return result, nil
}

func (s *Store) DashboardSummary(_ context.Context, now time.Time) (*report.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := &report.Summary{
		Properties: len(s.properties),
		Rooms:      len(s.rooms),
		Beds:       len(s.beds),
	}

	for _, b := range s.beds {
		if b.IsOccupied {
			sum.OccupiedBeds++
		}
	}
	for _, t := range s.tenants {
		if t.IsActive() {
			sum.ActiveTenants++
		}
	}
	for _, o := range s.occupancies {
		if o.IsOpen() {
			sum.OpenStays++
		}
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	var billedMonth, collectedMonth, billedTotal, paidTotal int64
	currency := "inr"
	for _, b := range s.bills {
		billedTotal += b.Amount.Amount
		currency = b.Amount.Currency
		if !b.PeriodStart.Before(monthStart) && b.PeriodStart.Before(monthEnd) {
			billedMonth += b.Amount.Amount
		}
	}
	for _, t := range s.txns {
		paidTotal += t.Amount.Amount
		if !t.PaidAt.Before(monthStart) && t.PaidAt.Before(monthEnd) {
			collectedMonth += t.Amount.Amount
		}
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

// Store management
func (s *Store) Migrate(_ context.Context) error {
	return nil // No migration needed for memory store
}

func (s *Store) Ping(_ context.Context) error {
	return nil // Always available
}

func (s *Store) Close() error {
	return nil // Nothing to close
}

// Helper functions
func paginate[T any](items []T, limit, offset int) []T {
	start := offset
	if start > len(items) {
		start = len(items)
	}
	end := start + limit
	if limit == 0 || end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func sortBillsByPeriod(bills []*bill.Bill) {
	sort.Slice(bills, func(i, j int) bool {
		return bills[i].PeriodStart.Before(bills[j].PeriodStart)
	})
}

func sortRevenueByMonth(rows []*report.RevenueRow) {
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Month.Before(rows[j].Month)
	})
}
