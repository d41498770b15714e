package mongo

import (
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/lodger/bed"
	"github.com/xraph/lodger/bill"
	"github.com/xraph/lodger/fee"
	"github.com/xraph/lodger/id"
	"github.com/xraph/lodger/occupancy"
	"github.com/xraph/lodger/property"
	"github.com/xraph/lodger/room"
	"github.com/xraph/lodger/tenant"
	"github.com/xraph/lodger/txn"
	"github.com/xraph/lodger/types"
)

// ==================== Property models ====================

type propertyModel struct {
	grove.BaseModel `grove:"table:lodger_properties"`

	ID        string            `grove:"id,pk"      bson:"_id"`
	Name      string            `grove:"name"       bson:"name"`
	Address   string            `grove:"address"    bson:"address"`
	City      string            `grove:"city"       bson:"city"`
	Contact   string            `grove:"contact"    bson:"contact"`
	Metadata  map[string]string `grove:"metadata"   bson:"metadata,omitempty"`
	CreatedAt time.Time         `grove:"created_at" bson:"created_at"`
	UpdatedAt time.Time         `grove:"updated_at" bson:"updated_at"`
}

func toPropertyModel(p *property.Property) *propertyModel {
	return &propertyModel{
		ID:        p.ID.String(),
		Name:      p.Name,
		Address:   p.Address,
		City:      p.City,
		Contact:   p.Contact,
		Metadata:  p.Metadata,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func fromPropertyModel(m *propertyModel) (*property.Property, error) {
	propertyID, err := id.ParsePropertyID(m.ID)
	if err != nil {
		return nil, err
	}

	return &property.Property{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:       propertyID,
		Name:     m.Name,
		Address:  m.Address,
		City:     m.City,
		Contact:  m.Contact,
		Metadata: m.Metadata,
	}, nil
}

// ==================== Room models ====================

type roomModel struct {
	grove.BaseModel `grove:"table:lodger_rooms"`

	ID            string            `grove:"id,pk"          bson:"_id"`
	PropertyID    string            `grove:"property_id"    bson:"property_id"`
	Number        string            `grove:"number"         bson:"number"`
	Floor         int               `grove:"floor"          bson:"floor"`
	Capacity      int               `grove:"capacity"       bson:"capacity"`
	OccupiedCount int               `grove:"occupied_count" bson:"occupied_count"`
	Status        string            `grove:"status"         bson:"status"`
	Metadata      map[string]string `grove:"metadata"       bson:"metadata,omitempty"`
	CreatedAt     time.Time         `grove:"created_at"     bson:"created_at"`
	UpdatedAt     time.Time         `grove:"updated_at"     bson:"updated_at"`
}

func toRoomModel(r *room.Room) *roomModel {
	return &roomModel{
		ID:            r.ID.String(),
		PropertyID:    r.PropertyID.String(),
		Number:        r.Number,
		Floor:         r.Floor,
		Capacity:      r.Capacity,
		OccupiedCount: r.OccupiedCount,
		Status:        string(r.Status),
		Metadata:      r.Metadata,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func fromRoomModel(m *roomModel) (*room.Room, error) {
	roomID, err := id.ParseRoomID(m.ID)
	if err != nil {
		return nil, err
	}
	propertyID, err := id.ParsePropertyID(m.PropertyID)
	if err != nil {
		return nil, err
	}

	return &room.Room{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:            roomID,
		PropertyID:    propertyID,
		Number:        m.Number,
		Floor:         m.Floor,
		Capacity:      m.Capacity,
		OccupiedCount: m.OccupiedCount,
		Status:        room.Status(m.Status),
		Metadata:      m.Metadata,
	}, nil
}

// ==================== Bed models ====================

type bedModel struct {
	grove.BaseModel `grove:"table:lodger_beds"`

	ID                  string            `grove:"id,pk"                 bson:"_id"`
	RoomID              string            `grove:"room_id"               bson:"room_id"`
	PropertyID          string            `grove:"property_id"           bson:"property_id"`
	Label               string            `grove:"label"                 bson:"label"`
	MonthlyCostAmount   int64             `grove:"monthly_cost_amount"   bson:"monthly_cost_amount"`
	MonthlyCostCurrency string            `grove:"monthly_cost_currency" bson:"monthly_cost_currency"`
	IsOccupied          bool              `grove:"is_occupied"           bson:"is_occupied"`
	Metadata            map[string]string `grove:"metadata"              bson:"metadata,omitempty"`
	CreatedAt           time.Time         `grove:"created_at"            bson:"created_at"`
	UpdatedAt           time.Time         `grove:"updated_at"            bson:"updated_at"`
}

func toBedModel(b *bed.Bed) *bedModel {
	return &bedModel{
		ID:                  b.ID.String(),
		RoomID:              b.RoomID.String(),
		PropertyID:          b.PropertyID.String(),
		Label:               b.Label,
		MonthlyCostAmount:   b.MonthlyCost.Amount,
		MonthlyCostCurrency: b.MonthlyCost.Currency,
		IsOccupied:          b.IsOccupied,
		Metadata:            b.Metadata,
		CreatedAt:           b.CreatedAt,
		UpdatedAt:           b.UpdatedAt,
	}
}

func fromBedModel(m *bedModel) (*bed.Bed, error) {
	bedID, err := id.ParseBedID(m.ID)
	if err != nil {
		return nil, err
	}
	roomID, err := id.ParseRoomID(m.RoomID)
	if err != nil {
		return nil, err
	}
	propertyID, err := id.ParsePropertyID(m.PropertyID)
	if err != nil {
		return nil, err
	}

	return &bed.Bed{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:          bedID,
		RoomID:      roomID,
		PropertyID:  propertyID,
		Label:       m.Label,
		MonthlyCost: types.Money{Amount: m.MonthlyCostAmount, Currency: m.MonthlyCostCurrency},
		IsOccupied:  m.IsOccupied,
		Metadata:    m.Metadata,
	}, nil
}

// ==================== Tenant models ====================

type tenantModel struct {
	grove.BaseModel `grove:"table:lodger_tenants"`

	ID        string            `grove:"id,pk"      bson:"_id"`
	Name      string            `grove:"name"       bson:"name"`
	Phone     string            `grove:"phone"      bson:"phone"`
	Email     string            `grove:"email"      bson:"email"`
	IDProof   string            `grove:"id_proof"   bson:"id_proof"`
	Status    string            `grove:"status"     bson:"status"`
	JoinedAt  time.Time         `grove:"joined_at"  bson:"joined_at"`
	LeftAt    *time.Time        `grove:"left_at"    bson:"left_at,omitempty"`
	Deleted   bool              `grove:"deleted"    bson:"deleted"`
	DeletedAt *time.Time        `grove:"deleted_at" bson:"deleted_at,omitempty"`
	Metadata  map[string]string `grove:"metadata"   bson:"metadata,omitempty"`
	CreatedAt time.Time         `grove:"created_at" bson:"created_at"`
	UpdatedAt time.Time         `grove:"updated_at" bson:"updated_at"`
}

func toTenantModel(t *tenant.Tenant) *tenantModel {
	return &tenantModel{
		ID:        t.ID.String(),
		Name:      t.Name,
		Phone:     t.Phone,
		Email:     t.Email,
		IDProof:   t.IDProof,
		Status:    string(t.Status),
		JoinedAt:  t.JoinedAt,
		LeftAt:    t.LeftAt,
		Deleted:   t.Deleted,
		DeletedAt: t.DeletedAt,
		Metadata:  t.Metadata,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func fromTenantModel(m *tenantModel) (*tenant.Tenant, error) {
	tenantID, err := id.ParseTenantID(m.ID)
	if err != nil {
		return nil, err
	}

	return &tenant.Tenant{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:        tenantID,
		Name:      m.Name,
		Phone:     m.Phone,
		Email:     m.Email,
		IDProof:   m.IDProof,
		Status:    tenant.Status(m.Status),
		JoinedAt:  m.JoinedAt,
		LeftAt:    m.LeftAt,
		Deleted:   m.Deleted,
		DeletedAt: m.DeletedAt,
		Metadata:  m.Metadata,
	}, nil
}

// ==================== Occupancy models ====================

type occupancyModel struct {
	grove.BaseModel `grove:"table:lodger_occupancies"`

	ID        string            `grove:"id,pk"      bson:"_id"`
	TenantID  string            `grove:"tenant_id"  bson:"tenant_id"`
	BedID     string            `grove:"bed_id"     bson:"bed_id"`
	RoomID    string            `grove:"room_id"    bson:"room_id"`
	StartDate time.Time         `grove:"start_date" bson:"start_date"`
	EndDate   *time.Time        `grove:"end_date"   bson:"end_date"`
	Status    string            `grove:"status"     bson:"status"`
	Note      string            `grove:"note"       bson:"note"`
	Metadata  map[string]string `grove:"metadata"   bson:"metadata,omitempty"`
	CreatedAt time.Time         `grove:"created_at" bson:"created_at"`
	UpdatedAt time.Time         `grove:"updated_at" bson:"updated_at"`
}

func toOccupancyModel(o *occupancy.Occupancy) *occupancyModel {
	return &occupancyModel{
		ID:        o.ID.String(),
		TenantID:  o.TenantID.String(),
		BedID:     o.BedID.String(),
		RoomID:    o.RoomID.String(),
		StartDate: o.StartDate,
		EndDate:   o.EndDate,
		Status:    string(o.Status),
		Note:      o.Note,
		Metadata:  o.Metadata,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func fromOccupancyModel(m *occupancyModel) (*occupancy.Occupancy, error) {
	occID, err := id.ParseOccupancyID(m.ID)
	if err != nil {
		return nil, err
	}
	tenantID, err := id.ParseTenantID(m.TenantID)
	if err != nil {
		return nil, err
	}
	bedID, err := id.ParseBedID(m.BedID)
	if err != nil {
		return nil, err
	}
	roomID, err := id.ParseRoomID(m.RoomID)
	if err != nil {
		return nil, err
	}

	return &occupancy.Occupancy{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:        occID,
		TenantID:  tenantID,
		BedID:     bedID,
		RoomID:    roomID,
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
		Status:    occupancy.Status(m.Status),
		Note:      m.Note,
		Metadata:  m.Metadata,
	}, nil
}

// ==================== Bill models ====================

type billModel struct {
	grove.BaseModel `grove:"table:lodger_bills"`

	ID             string            `grove:"id,pk"           bson:"_id"`
	OccupancyID    string            `grove:"occupancy_id"    bson:"occupancy_id"`
	TenantID       string            `grove:"tenant_id"       bson:"tenant_id"`
	BedID          string            `grove:"bed_id"          bson:"bed_id"`
	PeriodStart    time.Time         `grove:"period_start"    bson:"period_start"`
	PeriodEnd      time.Time         `grove:"period_end"      bson:"period_end"`
	AmountCents    int64             `grove:"amount_cents"    bson:"amount_cents"`
	AmountCurrency string            `grove:"amount_currency" bson:"amount_currency"`
	Status         string            `grove:"status"          bson:"status"`
	Note           string            `grove:"note"            bson:"note"`
	Metadata       map[string]string `grove:"metadata"        bson:"metadata,omitempty"`
	CreatedAt      time.Time         `grove:"created_at"      bson:"created_at"`
	UpdatedAt      time.Time         `grove:"updated_at"      bson:"updated_at"`
}

func toBillModel(b *bill.Bill) *billModel {
	return &billModel{
		ID:             b.ID.String(),
		OccupancyID:    b.OccupancyID.String(),
		TenantID:       b.TenantID.String(),
		BedID:          b.BedID.String(),
		PeriodStart:    b.PeriodStart,
		PeriodEnd:      b.PeriodEnd,
		AmountCents:    b.Amount.Amount,
		AmountCurrency: b.Amount.Currency,
		Status:         string(b.Status),
		Note:           b.Note,
		Metadata:       b.Metadata,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func fromBillModel(m *billModel) (*bill.Bill, error) {
	billID, err := id.ParseBillID(m.ID)
	if err != nil {
		return nil, err
	}
	occID, err := id.ParseOccupancyID(m.OccupancyID)
	if err != nil {
		return nil, err
	}
	tenantID, err := id.ParseTenantID(m.TenantID)
	if err != nil {
		return nil, err
	}
	bedID, err := id.ParseBedID(m.BedID)
	if err != nil {
		return nil, err
	}

	return &bill.Bill{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:          billID,
		OccupancyID: occID,
		TenantID:    tenantID,
		BedID:       bedID,
		PeriodStart: m.PeriodStart,
		PeriodEnd:   m.PeriodEnd,
		Amount:      types.Money{Amount: m.AmountCents, Currency: m.AmountCurrency},
		Status:      bill.Status(m.Status),
		Note:        m.Note,
		Metadata:    m.Metadata,
	}, nil
}

// ==================== Transaction models ====================

type transactionModel struct {
	grove.BaseModel `grove:"table:lodger_transactions"`

	ID             string            `grove:"id,pk"           bson:"_id"`
	BillID         string            `grove:"bill_id"         bson:"bill_id"`
	TenantID       string            `grove:"tenant_id"       bson:"tenant_id"`
	AmountCents    int64             `grove:"amount_cents"    bson:"amount_cents"`
	AmountCurrency string            `grove:"amount_currency" bson:"amount_currency"`
	Method         string            `grove:"method"          bson:"method"`
	Reference      string            `grove:"reference"       bson:"reference"`
	PaidAt         time.Time         `grove:"paid_at"         bson:"paid_at"`
	Note           string            `grove:"note"            bson:"note"`
	Metadata       map[string]string `grove:"metadata"        bson:"metadata,omitempty"`
	CreatedAt      time.Time         `grove:"created_at"      bson:"created_at"`
	UpdatedAt      time.Time         `grove:"updated_at"      bson:"updated_at"`
}

func toTransactionModel(t *txn.Transaction) *transactionModel {
	return &transactionModel{
		ID:             t.ID.String(),
		BillID:         t.BillID.String(),
		TenantID:       t.TenantID.String(),
		AmountCents:    t.Amount.Amount,
		AmountCurrency: t.Amount.Currency,
		Method:         string(t.Method),
		Reference:      t.Reference,
		PaidAt:         t.PaidAt,
		Note:           t.Note,
		Metadata:       t.Metadata,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func fromTransactionModel(m *transactionModel) (*txn.Transaction, error) {
	txnID, err := id.ParseTransactionID(m.ID)
	if err != nil {
		return nil, err
	}
	billID, err := id.ParseBillID(m.BillID)
	if err != nil {
		return nil, err
	}
	tenantID, err := id.ParseTenantID(m.TenantID)
	if err != nil {
		return nil, err
	}

	return &txn.Transaction{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:        txnID,
		BillID:    billID,
		TenantID:  tenantID,
		Amount:    types.Money{Amount: m.AmountCents, Currency: m.AmountCurrency},
		Method:    txn.Method(m.Method),
		Reference: m.Reference,
		PaidAt:    m.PaidAt,
		Note:      m.Note,
		Metadata:  m.Metadata,
	}, nil
}

// ==================== Fee models ====================

type feeModel struct {
	grove.BaseModel `grove:"table:lodger_fees"`

	ID             string            `grove:"id,pk"           bson:"_id"`
	TenantID       string            `grove:"tenant_id"       bson:"tenant_id"`
	OccupancyID    string            `grove:"occupancy_id"    bson:"occupancy_id"`
	Month          time.Time         `grove:"month"           bson:"month"`
	AmountCents    int64             `grove:"amount_cents"    bson:"amount_cents"`
	AmountCurrency string            `grove:"amount_currency" bson:"amount_currency"`
	PaidCents      int64             `grove:"paid_cents"      bson:"paid_cents"`
	PaidCurrency   string            `grove:"paid_currency"   bson:"paid_currency"`
	DueDate        time.Time         `grove:"due_date"        bson:"due_date"`
	Status         string            `grove:"status"          bson:"status"`
	Note           string            `grove:"note"            bson:"note"`
	Metadata       map[string]string `grove:"metadata"        bson:"metadata,omitempty"`
	CreatedAt      time.Time         `grove:"created_at"      bson:"created_at"`
	UpdatedAt      time.Time         `grove:"updated_at"      bson:"updated_at"`
}

func toFeeModel(r *fee.Record) *feeModel {
	return &feeModel{
		ID:             r.ID.String(),
		TenantID:       r.TenantID.String(),
		OccupancyID:    r.OccupancyID.String(),
		Month:          r.Month,
		AmountCents:    r.Amount.Amount,
		AmountCurrency: r.Amount.Currency,
		PaidCents:      r.Paid.Amount,
		PaidCurrency:   r.Paid.Currency,
		DueDate:        r.DueDate,
		Status:         string(r.Status),
		Note:           r.Note,
		Metadata:       r.Metadata,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func fromFeeModel(m *feeModel) (*fee.Record, error) {
	feeID, err := id.ParseFeeID(m.ID)
	if err != nil {
		return nil, err
	}
	tenantID, err := id.ParseTenantID(m.TenantID)
	if err != nil {
		return nil, err
	}

	r := &fee.Record{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:       feeID,
		TenantID: tenantID,
		Month:    m.Month,
		Amount:   types.Money{Amount: m.AmountCents, Currency: m.AmountCurrency},
		Paid:     types.Money{Amount: m.PaidCents, Currency: m.PaidCurrency},
		DueDate:  m.DueDate,
		Status:   fee.Status(m.Status),
		Note:     m.Note,
		Metadata: m.Metadata,
	}
	if m.OccupancyID != "" {
		occID, occErr := id.ParseOccupancyID(m.OccupancyID)
		if occErr != nil {
			return nil, occErr
		}
		r.OccupancyID = occID
	}
	return r, nil
}
