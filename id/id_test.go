package id_test

import (
	"strings"
	"testing"

	"github.com/xraph/lodger/id"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		newFn  func() id.ID
		prefix string
	}{
		{"PropertyID", id.NewPropertyID, "prop_"},
		{"RoomID", id.NewRoomID, "room_"},
		{"BedID", id.NewBedID, "bed_"},
		{"TenantID", id.NewTenantID, "tnt_"},
		{"OccupancyID", id.NewOccupancyID, "occ_"},
		{"BillID", id.NewBillID, "bill_"},
		{"TransactionID", id.NewTransactionID, "txn_"},
		{"FeeID", id.NewFeeID, "fee_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.newFn().String()
			if !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("expected prefix %q, got %q", tt.prefix, got)
			}
		})
	}
}

func TestNew(t *testing.T) {
	i := id.New(id.PrefixBed)
	if i.IsNil() {
		t.Fatal("expected non-nil ID")
	}
	if i.Prefix() != id.PrefixBed {
		t.Errorf("expected prefix %q, got %q", id.PrefixBed, i.Prefix())
	}
}

func TestParseRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		newFn   func() id.ID
		parseFn func(string) (id.ID, error)
	}{
		{"PropertyID", id.NewPropertyID, id.ParsePropertyID},
		{"RoomID", id.NewRoomID, id.ParseRoomID},
		{"BedID", id.NewBedID, id.ParseBedID},
		{"TenantID", id.NewTenantID, id.ParseTenantID},
		{"OccupancyID", id.NewOccupancyID, id.ParseOccupancyID},
		{"BillID", id.NewBillID, id.ParseBillID},
		{"TransactionID", id.NewTransactionID, id.ParseTransactionID},
		{"FeeID", id.NewFeeID, id.ParseFeeID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := tt.newFn()
			parsed, err := tt.parseFn(original.String())
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			if parsed.String() != original.String() {
				t.Errorf("round-trip mismatch: %q != %q", parsed.String(), original.String())
			}
		})
	}
}

func TestCrossTypeRejection(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		parseFn func(string) (id.ID, error)
	}{
		{"ParsePropertyID rejects room_", id.NewRoomID().String(), id.ParsePropertyID},
		{"ParseRoomID rejects bed_", id.NewBedID().String(), id.ParseRoomID},
		{"ParseBedID rejects tnt_", id.NewTenantID().String(), id.ParseBedID},
		{"ParseTenantID rejects occ_", id.NewOccupancyID().String(), id.ParseTenantID},
		{"ParseOccupancyID rejects bill_", id.NewBillID().String(), id.ParseOccupancyID},
		{"ParseBillID rejects txn_", id.NewTransactionID().String(), id.ParseBillID},
		{"ParseTransactionID rejects fee_", id.NewFeeID().String(), id.ParseTransactionID},
		{"ParseFeeID rejects prop_", id.NewPropertyID().String(), id.ParseFeeID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.parseFn(tt.input)
			if err == nil {
				t.Errorf("expected error for cross-type parse of %q, got nil", tt.input)
			}
		})
	}
}

func TestParseAny(t *testing.T) {
	ids := []id.ID{
		id.NewPropertyID(),
		id.NewRoomID(),
		id.NewBedID(),
		id.NewTenantID(),
		id.NewOccupancyID(),
		id.NewBillID(),
		id.NewTransactionID(),
		id.NewFeeID(),
	}

	for _, i := range ids {
		t.Run(i.String(), func(t *testing.T) {
			parsed, err := id.ParseAny(i.String())
			if err != nil {
				t.Fatalf("ParseAny(%q) failed: %v", i.String(), err)
			}
			if parsed.String() != i.String() {
				t.Errorf("round-trip mismatch: %q != %q", parsed.String(), i.String())
			}
		})
	}
}

func TestParseWithPrefix(t *testing.T) {
	i := id.NewBedID()
	parsed, err := id.ParseWithPrefix(i.String(), id.PrefixBed)
	if err != nil {
		t.Fatalf("ParseWithPrefix failed: %v", err)
	}
	if parsed.String() != i.String() {
		t.Errorf("mismatch: %q != %q", parsed.String(), i.String())
	}

	_, err = id.ParseWithPrefix(i.String(), id.PrefixRoom)
	if err == nil {
		t.Error("expected error for wrong prefix")
	}
}

func TestParseEmpty(t *testing.T) {
	_, err := id.Parse("")
	if err == nil {
		t.Error("expected error for empty string")
	}
}

func TestNilID(t *testing.T) {
	var i id.ID
	if !i.IsNil() {
		t.Error("zero-value ID should be nil")
	}
	if i.String() != "" {
		t.Errorf("expected empty string, got %q", i.String())
	}
	if i.Prefix() != "" {
		t.Errorf("expected empty prefix, got %q", i.Prefix())
	}
}

func TestMarshalUnmarshalText(t *testing.T) {
	original := id.NewTenantID()
	data, err := original.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText failed: %v", err)
	}

	var restored id.ID
	if unmarshalErr := restored.UnmarshalText(data); unmarshalErr != nil {
		t.Fatalf("UnmarshalText failed: %v", unmarshalErr)
	}
	if restored.String() != original.String() {
		t.Errorf("mismatch: %q != %q", restored.String(), original.String())
	}

	// Nil round-trip.
	var nilID id.ID
	data, err = nilID.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText(nil) failed: %v", err)
	}
	var restored2 id.ID
	if err := restored2.UnmarshalText(data); err != nil {
		t.Fatalf("UnmarshalText(nil) failed: %v", err)
	}
	if !restored2.IsNil() {
		t.Error("expected nil after round-trip of nil ID")
	}
}

func TestValueScan(t *testing.T) {
	original := id.NewOccupancyID()
	val, err := original.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}

	var scanned id.ID
	if scanErr := scanned.Scan(val); scanErr != nil {
		t.Fatalf("Scan failed: %v", scanErr)
	}
	if scanned.String() != original.String() {
		t.Errorf("mismatch: %q != %q", scanned.String(), original.String())
	}

	// Nil round-trip.
	var nilID id.ID
	val, err = nilID.Value()
	if err != nil {
		t.Fatalf("Value(nil) failed: %v", err)
	}
	if val != nil {
		t.Errorf("expected nil value for nil ID, got %v", val)
	}

	var scanned2 id.ID
	if err := scanned2.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) failed: %v", err)
	}
	if !scanned2.IsNil() {
		t.Error("expected nil after scan of nil")
	}
}

func TestUniqueness(t *testing.T) {
	a := id.NewBedID()
	b := id.NewBedID()
	if a.String() == b.String() {
		t.Errorf("two consecutive NewBedID() calls returned the same ID: %q", a.String())
	}
}
