package lodger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xraph/lodger"
	"github.com/xraph/lodger/bill"
	"github.com/xraph/lodger/fee"
	"github.com/xraph/lodger/occupancy"
	"github.com/xraph/lodger/txn"
	"github.com/xraph/lodger/types"
)

// seedStay sets up a property, room, bed, and open occupancy starting at start.
func seedStay(t *testing.T, l *lodger.Lodger, monthly types.Money, start time.Time) *occupancy.Occupancy {
	t.Helper()
	r := seedRoom(t, l, 1)
	b := seedBed(t, l, r, "A", monthly)
	tn := seedTenant(t, l, "Asha")

	o, err := l.OpenOccupancy(context.Background(), tn.ID, b.ID, start, "")
	if err != nil {
		t.Fatalf("OpenOccupancy failed: %v", err)
	}
	return o
}

func TestCreateBillFullMonth(t *testing.T) {
	l := newEngine(t)
	ctx := context.Background()
	o := seedStay(t, l, types.INR(300000), date(2024, time.April, 1))

	b, err := l.CreateBill(ctx, o.ID, date(2024, time.April, 1), date(2024, time.May, 1))
	if err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}
	if !b.Amount.Equal(types.INR(300000)) {
		t.Errorf("full month should bill the monthly cost, got %s", b.Amount)
	}
	if b.Status != bill.StatusUnpaid {
		t.Errorf("expected unpaid bill, got %s", b.Status)
	}
}

func TestCreateBillProratesPartialMonth(t *testing.T) {
	l := newEngine(t)
	ctx := context.Background()
	o := seedStay(t, l, types.INR(300000), date(2024, time.February, 1))

	// Ten days of a 29-day February.
	b, err := l.CreateBill(ctx, o.ID, date(2024, time.February, 1), date(2024, time.February, 11))
	if err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}
	if !b.Amount.Equal(types.INR(103448)) {
		t.Errorf("expected INR 103448, got %s", b.Amount)
	}
}

func TestCreateBillRejectsInvalidPeriods(t *testing.T) {
	l := newEngine(t)
	ctx := context.Background()
	o := seedStay(t, l, types.INR(300000), date(2024, time.April, 1))

	if _, err := l.CreateBill(ctx, o.ID, date(2024, time.May, 1), date(2024, time.April, 1)); !errors.Is(err, lodger.ErrInvalidPeriod) {
		t.Errorf("expected ErrInvalidPeriod, got %v", err)
	}

	// Before the stay began.
	if _, err := l.CreateBill(ctx, o.ID, date(2024, time.March, 1), date(2024, time.April, 1)); !errors.Is(err, lodger.ErrBillOutsideStay) {
		t.Errorf("expected ErrBillOutsideStay, got %v", err)
	}
}

func TestCreateBillOutsideClosedStay(t *testing.T) {
	l := newEngine(t)
	ctx := context.Background()
	o := seedStay(t, l, types.INR(300000), date(2024, time.April, 1))

	if err := l.CloseOccupancy(ctx, o.ID, date(2024, time.April, 30)); err != nil {
		t.Fatalf("CloseOccupancy failed: %v", err)
	}

	if _, err := l.CreateBill(ctx, o.ID, date(2024, time.April, 15), date(2024, time.May, 15)); !errors.Is(err, lodger.ErrBillOutsideStay) {
		t.Errorf("expected ErrBillOutsideStay, got %v", err)
	}
}

func TestCreateBillRejectsOverlap(t *testing.T) {
	l := newEngine(t)
	ctx := context.Background()
	o := seedStay(t, l, types.INR(300000), date(2024, time.April, 1))

	if _, err := l.CreateBill(ctx, o.ID, date(2024, time.April, 1), date(2024, time.April, 30)); err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}

	if _, err := l.CreateBill(ctx, o.ID, date(2024, time.April, 20), date(2024, time.May, 20)); !errors.Is(err, lodger.ErrBillPeriodOverlap) {
		t.Errorf("expected ErrBillPeriodOverlap, got %v", err)
	}

	// Periods are half-open: a bill starting where the previous one ends
	// is adjacent, not overlapping.
	if _, err := l.CreateBill(ctx, o.ID, date(2024, time.April, 30), date(2024, time.May, 30)); err != nil {
		t.Errorf("expected back-to-back bill to be accepted, got %v", err)
	}
}

func TestRecordPaymentDerivesStatus(t *testing.T) {
	l := newEngine(t)
	ctx := context.Background()
	o := seedStay(t, l, types.INR(300000), date(2024, time.April, 1))

	b, err := l.CreateBill(ctx, o.ID, date(2024, time.April, 1), date(2024, time.May, 1))
	if err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}

	if _, err := l.RecordPayment(ctx, b.ID, types.INR(150000), txn.MethodUPI, "upi-001", "", date(2024, time.April, 5)); err != nil {
		t.Fatalf("first payment failed: %v", err)
	}
	got, _ := l.GetBill(ctx, b.ID)
	if got.Status != bill.StatusPartial {
		t.Errorf("expected partial after half payment, got %s", got.Status)
	}

	if _, err := l.RecordPayment(ctx, b.ID, types.INR(150000), txn.MethodCash, "", "", date(2024, time.April, 20)); err != nil {
		t.Fatalf("second payment failed: %v", err)
	}
	got, _ = l.GetBill(ctx, b.ID)
	if got.Status != bill.StatusPaid {
		t.Errorf("expected paid after full payment, got %s", got.Status)
	}

	// The ledger is append-only: paying past the amount is recorded and
	// the bill simply stays paid with a negative balance.
	if _, err := l.RecordPayment(ctx, b.ID, types.INR(1), txn.MethodCash, "", "", date(2024, time.April, 21)); err != nil {
		t.Fatalf("overpayment append failed: %v", err)
	}
	got, _ = l.GetBill(ctx, b.ID)
	if got.Status != bill.StatusPaid {
		t.Errorf("expected paid after overpayment, got %s", got.Status)
	}
}

func TestRecordPaymentAppendOnly(t *testing.T) {
	l := newEngine(t)
	ctx := context.Background()
	o := seedStay(t, l, types.INR(300000), date(2024, time.April, 1))

	b, err := l.CreateBill(ctx, o.ID, date(2024, time.April, 1), date(2024, time.May, 1))
	if err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}

	// A single payment above the billed amount lands in one append.
	if _, err := l.RecordPayment(ctx, b.ID, types.INR(350000), txn.MethodUPI, "upi-007", "", date(2024, time.April, 3)); err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}

	bal, err := l.BillBalance(ctx, b.ID)
	if err != nil {
		t.Fatalf("BillBalance failed: %v", err)
	}
	if bal.Status != bill.StatusPaid {
		t.Errorf("expected paid, got %s", bal.Status)
	}
	if !bal.Balance.Equal(types.INR(-50000)) {
		t.Errorf("expected balance -50000 after overpayment, got %s", bal.Balance)
	}

	// Zero-amount entries are legal ledger rows too.
	if _, err := l.RecordPayment(ctx, b.ID, types.INR(0), txn.MethodCash, "", "waived", date(2024, time.April, 4)); err != nil {
		t.Fatalf("zero-amount append failed: %v", err)
	}
	entries, err := l.ListTransactions(ctx, txn.ListOpts{BillID: b.ID})
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 ledger entries, got %d", len(entries))
	}
}

func TestRecordPaymentValidation(t *testing.T) {
	l := newEngine(t)
	ctx := context.Background()
	o := seedStay(t, l, types.INR(300000), date(2024, time.April, 1))

	b, err := l.CreateBill(ctx, o.ID, date(2024, time.April, 1), date(2024, time.May, 1))
	if err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}

	if _, err := l.RecordPayment(ctx, b.ID, types.INR(-100), txn.MethodCash, "", "", time.Time{}); !errors.Is(err, lodger.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := l.RecordPayment(ctx, b.ID, types.USD(10000), txn.MethodCash, "", "", time.Time{}); !errors.Is(err, lodger.ErrCurrencyMismatch) {
		t.Errorf("expected ErrCurrencyMismatch, got %v", err)
	}
	if _, err := l.RecordPayment(ctx, b.ID, types.INR(10000), txn.Method("cheque"), "", "", time.Time{}); err == nil {
		t.Error("expected error for unknown method")
	}
}

func TestRecalculateBillProtectsPayments(t *testing.T) {
	l := newEngine(t)
	ctx := context.Background()
	o := seedStay(t, l, types.INR(300000), date(2024, time.April, 1))

	b, err := l.CreateBill(ctx, o.ID, date(2024, time.April, 1), date(2024, time.May, 1))
	if err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}

	// Raise the bed's rent, then recalculate.
	bd, _ := l.GetBed(ctx, o.BedID)
	bd.MonthlyCost = types.INR(330000)
	if err := l.UpdateBed(ctx, bd); err != nil {
		t.Fatalf("UpdateBed failed: %v", err)
	}

	updated, err := l.RecalculateBill(ctx, b.ID, false)
	if err != nil {
		t.Fatalf("RecalculateBill failed: %v", err)
	}
	if !updated.Amount.Equal(types.INR(330000)) {
		t.Errorf("expected recalculated amount 330000, got %s", updated.Amount)
	}

	if _, err := l.RecordPayment(ctx, b.ID, types.INR(100000), txn.MethodCash, "", "", date(2024, time.April, 5)); err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}

	if _, err := l.RecalculateBill(ctx, b.ID, false); !errors.Is(err, lodger.ErrBillHasPayments) {
		t.Errorf("expected ErrBillHasPayments, got %v", err)
	}

	// Force recalculation keeps the paid amount and re-derives the status.
	forced, err := l.RecalculateBill(ctx, b.ID, true)
	if err != nil {
		t.Fatalf("forced RecalculateBill failed: %v", err)
	}
	if forced.Status != bill.StatusPartial {
		t.Errorf("expected partial after forced recalc, got %s", forced.Status)
	}
}

func TestDeleteTransactionRederivesStatus(t *testing.T) {
	l := newEngine(t)
	ctx := context.Background()
	o := seedStay(t, l, types.INR(300000), date(2024, time.April, 1))

	b, err := l.CreateBill(ctx, o.ID, date(2024, time.April, 1), date(2024, time.May, 1))
	if err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}

	p, err := l.RecordPayment(ctx, b.ID, types.INR(300000), txn.MethodBank, "neft-42", "", date(2024, time.April, 5))
	if err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	got, _ := l.GetBill(ctx, b.ID)
	if got.Status != bill.StatusPaid {
		t.Fatalf("expected paid, got %s", got.Status)
	}

	if err := l.DeleteTransaction(ctx, p.ID); err != nil {
		t.Fatalf("DeleteTransaction failed: %v", err)
	}
	got, _ = l.GetBill(ctx, b.ID)
	if got.Status != bill.StatusUnpaid {
		t.Errorf("expected unpaid after payment removal, got %s", got.Status)
	}
}

func TestBillBalance(t *testing.T) {
	l := newEngine(t)
	ctx := context.Background()
	o := seedStay(t, l, types.INR(300000), date(2024, time.April, 1))

	b, err := l.CreateBill(ctx, o.ID, date(2024, time.April, 1), date(2024, time.May, 1))
	if err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}
	if _, err := l.RecordPayment(ctx, b.ID, types.INR(120000), txn.MethodUPI, "", "", date(2024, time.April, 5)); err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}

	bal, err := l.BillBalance(ctx, b.ID)
	if err != nil {
		t.Fatalf("BillBalance failed: %v", err)
	}
	if !bal.Paid.Equal(types.INR(120000)) || !bal.Balance.Equal(types.INR(180000)) {
		t.Errorf("unexpected balance: paid=%s balance=%s", bal.Paid, bal.Balance)
	}
	if bal.Status != bill.StatusPartial {
		t.Errorf("expected partial, got %s", bal.Status)
	}
}

func TestFeeLifecycle(t *testing.T) {
	l := newEngine(t)
	ctx := context.Background()
	tn := seedTenant(t, l, "Asha")
	month := date(2024, time.April, 17)

	rec, err := l.RecordFee(ctx, tn.ID, month, types.INR(50000), "maintenance")
	if err != nil {
		t.Fatalf("RecordFee failed: %v", err)
	}
	if !rec.Month.Equal(date(2024, time.April, 1)) {
		t.Errorf("expected month normalized to first day, got %s", rec.Month)
	}
	if rec.Status != fee.StatusPending {
		t.Errorf("expected pending, got %s", rec.Status)
	}

	// One record per tenant per month.
	if _, err := l.RecordFee(ctx, tn.ID, date(2024, time.April, 2), types.INR(50000), ""); !errors.Is(err, lodger.ErrDuplicateFee) {
		t.Errorf("expected ErrDuplicateFee, got %v", err)
	}

	if _, err := l.RecordFeePayment(ctx, rec.ID, types.INR(20000)); err != nil {
		t.Fatalf("RecordFeePayment failed: %v", err)
	}
	paid, err := l.RecordFeePayment(ctx, rec.ID, types.INR(30000))
	if err != nil {
		t.Fatalf("RecordFeePayment failed: %v", err)
	}
	if paid.Status != fee.StatusPaid {
		t.Errorf("expected paid, got %s", paid.Status)
	}

	// Fee payments append like bill payments; the excess stays on record.
	over, err := l.RecordFeePayment(ctx, rec.ID, types.INR(1))
	if err != nil {
		t.Fatalf("RecordFeePayment failed: %v", err)
	}
	if over.Status != fee.StatusPaid || !over.Paid.Equal(types.INR(50001)) {
		t.Errorf("expected paid with 50001 on record, got %s %s", over.Status, over.Paid)
	}
}

func TestArrearsReport(t *testing.T) {
	l := newEngine(t)
	ctx := context.Background()
	o := seedStay(t, l, types.INR(300000), date(2024, time.April, 1))

	b, err := l.CreateBill(ctx, o.ID, date(2024, time.April, 1), date(2024, time.May, 1))
	if err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}
	if _, err := l.RecordPayment(ctx, b.ID, types.INR(100000), txn.MethodCash, "", "", date(2024, time.April, 10)); err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}

	rows, err := l.Arrears(ctx, date(2024, time.June, 1))
	if err != nil {
		t.Fatalf("Arrears failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 arrears row, got %d", len(rows))
	}
	if !rows[0].Balance.Equal(types.INR(200000)) {
		t.Errorf("expected balance 200000, got %s", rows[0].Balance)
	}

	// Settle the bill; arrears empty out.
	if _, err := l.RecordPayment(ctx, b.ID, types.INR(200000), txn.MethodCash, "", "", date(2024, time.April, 20)); err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	rows, err = l.Arrears(ctx, date(2024, time.June, 1))
	if err != nil {
		t.Fatalf("Arrears failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no arrears after settlement, got %d rows", len(rows))
	}
}
