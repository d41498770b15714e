package lodger

import (
	"context"
	"time"

	"github.com/xraph/lodger/bill"
	"github.com/xraph/lodger/fee"
	"github.com/xraph/lodger/id"
	"github.com/xraph/lodger/report"
	"github.com/xraph/lodger/txn"
	"github.com/xraph/lodger/types"
)

// ──────────────────────────────────────────────────
// Bill Management
// ──────────────────────────────────────────────────

// CreateBill generates a bill for a stay period. The amount is prorated
// day-by-day from the bed's monthly cost; full calendar months bill exactly
// the monthly cost. The period must fall inside the occupancy window and may
// not overlap an existing bill for the same stay.
func (l *Lodger) CreateBill(ctx context.Context, occID id.OccupancyID, periodStart, periodEnd time.Time) (*bill.Bill, error) {
	periodStart = periodStart.UTC()
	periodEnd = periodEnd.UTC()
	if !periodStart.Before(periodEnd) {
		return nil, ErrInvalidPeriod
	}

	o, err := l.store.GetOccupancy(ctx, occID)
	if err != nil {
		return nil, err
	}
	if !o.Contains(periodStart, periodEnd) {
		return nil, ErrBillOutsideStay
	}

	existing, err := l.store.ListBillsByOccupancy(ctx, occID)
	if err != nil {
		return nil, err
	}
	for _, b := range existing {
		if b.Overlaps(periodStart, periodEnd) {
			return nil, ErrBillPeriodOverlap
		}
	}

	b, err := l.store.GetBed(ctx, o.BedID)
	if err != nil {
		return nil, err
	}

	newBill := &bill.Bill{
		Entity:      types.NewEntity(),
		ID:          id.NewBillID(),
		OccupancyID: occID,
		TenantID:    o.TenantID,
		BedID:       o.BedID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Amount:      bill.Prorate(b.MonthlyCost, periodStart, periodEnd),
		Status:      bill.StatusUnpaid,
	}

	if err := l.store.CreateBill(ctx, newBill); err != nil {
		return nil, err
	}

	l.logger.Info("bill created",
		"bill_id", newBill.ID.String(),
		"tenant_id", o.TenantID.String(),
		"amount", newBill.Amount.String(),
	)

	l.plugins.EmitBillCreated(ctx, newBill)
	return newBill, nil
}

// GetBill retrieves a bill by ID.
func (l *Lodger) GetBill(ctx context.Context, billID id.BillID) (*bill.Bill, error) {
	return l.store.GetBill(ctx, billID)
}

// ListBills lists bills.
func (l *Lodger) ListBills(ctx context.Context, opts bill.ListOpts) ([]*bill.Bill, error) {
	return l.store.ListBills(ctx, opts)
}

// ListBillsByOccupancy lists a stay's bills ordered by period start.
func (l *Lodger) ListBillsByOccupancy(ctx context.Context, occID id.OccupancyID) ([]*bill.Bill, error) {
	return l.store.ListBillsByOccupancy(ctx, occID)
}

// RecalculateBill re-derives a bill's amount from the bed's current monthly
// cost. A bill that already has payments is protected; pass force to
// recalculate it anyway. The status is re-derived against recorded payments.
func (l *Lodger) RecalculateBill(ctx context.Context, billID id.BillID, force bool) (*bill.Bill, error) {
	b, err := l.store.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}

	paidCents, err := l.store.SumPayments(ctx, billID)
	if err != nil {
		return nil, err
	}
	if paidCents > 0 && !force {
		return nil, ErrBillHasPayments
	}

	bd, err := l.store.GetBed(ctx, b.BedID)
	if err != nil {
		return nil, err
	}

	old := *b
	b.Amount = bill.Prorate(bd.MonthlyCost, b.PeriodStart, b.PeriodEnd)
	b.Status = bill.DeriveStatus(b.Amount, types.Money{Amount: paidCents, Currency: b.Amount.Currency})

	if err := l.store.UpdateBill(ctx, b); err != nil {
		return nil, err
	}

	l.plugins.EmitBillRecalculated(ctx, &old, b)
	return b, nil
}

// BillBalance returns the billed, paid, and outstanding amounts for a bill.
func (l *Lodger) BillBalance(ctx context.Context, billID id.BillID) (*bill.Balance, error) {
	b, err := l.store.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}

	paidCents, err := l.store.SumPayments(ctx, billID)
	if err != nil {
		return nil, err
	}

	paid := types.Money{Amount: paidCents, Currency: b.Amount.Currency}
	return &bill.Balance{
		BillID:  b.ID,
		Billed:  b.Amount,
		Paid:    paid,
		Balance: b.Amount.Subtract(paid),
		Status:  bill.DeriveStatus(b.Amount, paid),
	}, nil
}

// DeleteBill removes a bill. Fails if payments reference it.
func (l *Lodger) DeleteBill(ctx context.Context, billID id.BillID) error {
	return l.store.DeleteBill(ctx, billID)
}

// ──────────────────────────────────────────────────
// Payment Management
// ──────────────────────────────────────────────────

// RecordPayment appends a payment to a bill's ledger and re-derives the
// bill's status. The ledger is a pure append: any non-negative amount in the
// bill's currency is accepted, including one that overpays the bill. The
// derived status reports paid once payments cover the amount; the balance
// goes negative on overpayment rather than the payment being refused.
func (l *Lodger) RecordPayment(ctx context.Context, billID id.BillID, amount types.Money, method txn.Method, reference, note string, paidAt time.Time) (*txn.Transaction, error) {
	if amount.IsNegative() {
		return nil, ErrInvalidAmount
	}
	if !method.Valid() {
		return nil, &ValidationError{Field: "method", Message: "unknown payment method"}
	}

	b, err := l.store.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	if amount.Currency != b.Amount.Currency {
		return nil, ErrCurrencyMismatch
	}

	if paidAt.IsZero() {
		paidAt = time.Now()
	}

	t := &txn.Transaction{
		Entity:    types.NewEntity(),
		ID:        id.NewTransactionID(),
		BillID:    billID,
		TenantID:  b.TenantID,
		Amount:    amount,
		Method:    method,
		Reference: reference,
		PaidAt:    paidAt.UTC(),
		Note:      note,
	}

	if err := l.store.CreateTransaction(ctx, t); err != nil {
		return nil, err
	}

	updated, err := l.refreshBillStatus(ctx, billID)
	if err != nil {
		return nil, err
	}

	l.logger.Info("payment recorded",
		"transaction_id", t.ID.String(),
		"bill_id", billID.String(),
		"amount", amount.String(),
		"bill_status", string(updated.Status),
	)

	l.plugins.EmitPaymentRecorded(ctx, t, updated)
	return t, nil
}

// GetTransaction retrieves a payment by ID.
func (l *Lodger) GetTransaction(ctx context.Context, txnID id.TransactionID) (*txn.Transaction, error) {
	return l.store.GetTransaction(ctx, txnID)
}

// ListTransactions lists payments.
func (l *Lodger) ListTransactions(ctx context.Context, opts txn.ListOpts) ([]*txn.Transaction, error) {
	return l.store.ListTransactions(ctx, opts)
}

// AmendTransaction corrects a recorded payment and re-derives the bill's
// status. The bill and currency of a payment cannot change.
func (l *Lodger) AmendTransaction(ctx context.Context, t *txn.Transaction) error {
	if t.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if !t.Method.Valid() {
		return &ValidationError{Field: "method", Message: "unknown payment method"}
	}

	current, err := l.store.GetTransaction(ctx, t.ID)
	if err != nil {
		return err
	}
	t.BillID = current.BillID
	t.TenantID = current.TenantID
	if t.Amount.Currency != current.Amount.Currency {
		return ErrCurrencyMismatch
	}

	if err := l.store.UpdateTransaction(ctx, t); err != nil {
		return err
	}

	_, err = l.refreshBillStatus(ctx, t.BillID)
	return err
}

// DeleteTransaction removes a payment and re-derives the bill's status.
func (l *Lodger) DeleteTransaction(ctx context.Context, txnID id.TransactionID) error {
	t, err := l.store.GetTransaction(ctx, txnID)
	if err != nil {
		return err
	}

	if err := l.store.DeleteTransaction(ctx, txnID); err != nil {
		return err
	}

	_, err = l.refreshBillStatus(ctx, t.BillID)
	return err
}

// refreshBillStatus re-derives a bill's cached status from its payments.
func (l *Lodger) refreshBillStatus(ctx context.Context, billID id.BillID) (*bill.Bill, error) {
	b, err := l.store.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}

	paidCents, err := l.store.SumPayments(ctx, billID)
	if err != nil {
		return nil, err
	}

	status := bill.DeriveStatus(b.Amount, types.Money{Amount: paidCents, Currency: b.Amount.Currency})
	if status == b.Status {
		return b, nil
	}

	b.Status = status
	if err := l.store.UpdateBill(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ──────────────────────────────────────────────────
// Fee Management
// ──────────────────────────────────────────────────

// RecordFee creates a monthly fee record for a tenant. The month is
// normalized to its first day; one record per tenant per month.
func (l *Lodger) RecordFee(ctx context.Context, tenantID id.TenantID, month time.Time, amount types.Money, note string) (*fee.Record, error) {
	if amount.Currency == "" {
		amount.Currency = l.defaultCurrency
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if _, err := l.store.GetTenant(ctx, tenantID); err != nil {
		return nil, err
	}

	month = fee.NormalizeMonth(month)

	rec := &fee.Record{
		Entity:   types.NewEntity(),
		ID:       id.NewFeeID(),
		TenantID: tenantID,
		Month:    month,
		Amount:   amount,
		Paid:     types.Zero(amount.Currency),
		DueDate:  fee.DefaultDueDate(month),
		Status:   fee.StatusPending,
		Note:     note,
	}

	if open, err := l.store.GetOpenOccupancyByTenant(ctx, tenantID); err == nil {
		rec.OccupancyID = open.ID
	}

	if err := l.store.CreateFee(ctx, rec); err != nil {
		return nil, err
	}

	l.plugins.EmitFeeRecorded(ctx, rec)
	return rec, nil
}

// RecordFeePayment applies a payment toward a fee record and re-derives its
// status. Like bill payments this is a pure append; paying past the fee
// amount leaves the record paid with the excess on the books.
func (l *Lodger) RecordFeePayment(ctx context.Context, feeID id.FeeID, amount types.Money) (*fee.Record, error) {
	if amount.IsNegative() {
		return nil, ErrInvalidAmount
	}

	rec, err := l.store.GetFee(ctx, feeID)
	if err != nil {
		return nil, err
	}
	if amount.Currency != rec.Amount.Currency {
		return nil, ErrCurrencyMismatch
	}

	rec.Paid = rec.Paid.Add(amount)
	rec.Refresh(time.Now().UTC())

	if err := l.store.UpdateFee(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// GetFee retrieves a fee record by ID.
func (l *Lodger) GetFee(ctx context.Context, feeID id.FeeID) (*fee.Record, error) {
	return l.store.GetFee(ctx, feeID)
}

// GetFeeByMonth retrieves a tenant's fee record for a month.
func (l *Lodger) GetFeeByMonth(ctx context.Context, tenantID id.TenantID, month time.Time) (*fee.Record, error) {
	return l.store.GetFeeByMonth(ctx, tenantID, fee.NormalizeMonth(month))
}

// ListFees lists fee records.
func (l *Lodger) ListFees(ctx context.Context, opts fee.ListOpts) ([]*fee.Record, error) {
	return l.store.ListFees(ctx, opts)
}

// DeleteFee removes a fee record.
func (l *Lodger) DeleteFee(ctx context.Context, feeID id.FeeID) error {
	return l.store.DeleteFee(ctx, feeID)
}

// ──────────────────────────────────────────────────
// Reports
// ──────────────────────────────────────────────────

// Arrears returns per-tenant outstanding balances for bills raised up to
// the cutoff date.
func (l *Lodger) Arrears(ctx context.Context, cutoff time.Time) ([]*report.ArrearsRow, error) {
	return l.store.ArrearsAsOf(ctx, cutoff.UTC())
}

// Revenue returns collected payments grouped by month.
func (l *Lodger) Revenue(ctx context.Context, from, to time.Time) ([]*report.RevenueRow, error) {
	return l.store.RevenueBetween(ctx, from.UTC(), to.UTC())
}

// Dashboard returns a point-in-time summary of the whole operation.
func (l *Lodger) Dashboard(ctx context.Context) (*report.Summary, error) {
	return l.store.DashboardSummary(ctx, time.Now().UTC())
}
