// Package lodger provides a composable occupancy and billing engine for
// shared-accommodation operators (PG hostels, co-living spaces, dormitories).
//
// Lodger is designed as a library, not a service. Import it directly into your
// Go application. It provides:
//
//   - A bed registry with property/room/bed hierarchy and cached room occupancy counts
//   - An occupancy ledger enforcing at most one open occupancy per bed
//   - Occupancy transfers that preserve billing history on the source stay
//   - A billing engine with day-level proration and derived payment status
//   - A payment transaction ledger with derived bill balances
//   - Arrears, revenue, and dashboard reporting
//   - Pluggable event hooks and an audit trail
//
// # Quick Start
//
// Create a lodger instance with your preferred store:
//
//	import (
//	    "github.com/xraph/lodger"
//	    "github.com/xraph/lodger/store/mongo"
//	)
//
//	// Initialize store over a grove mongo database
//	store := mongo.New(db)
//
//	// Create lodger
//	l := lodger.New(store)
//
//	// Start the lodger (runs migrations, initializes plugins)
//	if err := l.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer l.Stop()
//
// # Core Concepts
//
// Beds live in rooms, rooms live in properties. A bed carries a monthly cost:
//
//	err := l.CreateBed(ctx, &bed.Bed{
//	    RoomID:      roomID,
//	    Label:       "2A",
//	    MonthlyCost: lodger.INR(300000), // ₹3000.00
//	})
//
// Occupancies connect tenants to beds for a period of time. Opening an
// occupancy marks the bed occupied and increments the room's occupied count;
// a second open occupancy on the same bed is rejected:
//
//	occ, err := l.OpenOccupancy(ctx, tenantID, bedID, startDate, "")
//
// Bills cover a sub-interval of an occupancy and are prorated by day:
//
//	b, err := l.CreateBill(ctx, occ.ID, periodStart, periodEnd)
//
// Payments are recorded against bills; bill status (unpaid, partial, paid)
// is always derived from the transaction ledger, never stored as truth:
//
//	_, err := l.RecordPayment(ctx, billID, lodger.INR(40000), txn.MethodUPI, "upi-ref", "", time.Now())
//
// # Consistency
//
// All monetary calculations use integer arithmetic to avoid floating-point
// precision issues. The Money type represents amounts in the smallest currency
// unit (paise for INR, cents for USD, etc). Proration rounds half up so
// operators are not systematically undercharged.
//
// Single-bed exclusivity and room capacity bounds are enforced at the storage
// layer: the memory store checks under one lock, the mongo store relies on a
// partial unique index over open occupancies and conditional counter updates.
//
// # TypeID
//
// All entities use TypeID for globally unique, type-safe identifiers:
//
//	bed_01h2xcejqtf2nbrexx3vqjhp41   // Bed ID
//	occ_01h2xcejqtf2nbrexx3vqjhp41   // Occupancy ID
//	bill_01h455vb4pex5vsknk084sn02q  // Bill ID
//
// TypeIDs are K-sortable, making them ideal for database indexes and
// providing natural time-ordering of entities.
package lodger
