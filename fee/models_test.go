package fee

import (
	"testing"
	"time"

	"github.com/xraph/lodger/types"
)

func TestNormalizeMonth(t *testing.T) {
	in := time.Date(2024, time.April, 17, 13, 45, 0, 0, time.UTC)
	want := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
	if got := NormalizeMonth(in); !got.Equal(want) {
		t.Errorf("NormalizeMonth: got %v, want %v", got, want)
	}
}

func TestDefaultDueDate(t *testing.T) {
	in := time.Date(2024, time.April, 17, 13, 45, 0, 0, time.UTC)
	want := time.Date(2024, time.April, 5, 0, 0, 0, 0, time.UTC)
	if got := DefaultDueDate(in); !got.Equal(want) {
		t.Errorf("DefaultDueDate: got %v, want %v", got, want)
	}
}

func TestDeriveStatus(t *testing.T) {
	due := time.Date(2024, time.April, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		amount types.Money
		paid   types.Money
		now    time.Time
		status Status
	}{
		{"unpaid before due", types.INR(300000), types.INR(0), due.AddDate(0, 0, -2), StatusPending},
		{"unpaid after due", types.INR(300000), types.INR(0), due.AddDate(0, 0, 2), StatusOverdue},
		{"partial before due", types.INR(300000), types.INR(100000), due.AddDate(0, 0, -2), StatusPartial},
		{"partial after due", types.INR(300000), types.INR(100000), due.AddDate(0, 0, 2), StatusOverdue},
		{"paid before due", types.INR(300000), types.INR(300000), due.AddDate(0, 0, -2), StatusPaid},
		{"paid after due stays paid", types.INR(300000), types.INR(300000), due.AddDate(0, 0, 2), StatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveStatus(tt.amount, tt.paid, due, tt.now); got != tt.status {
				t.Errorf("DeriveStatus: got %s, want %s", got, tt.status)
			}
		})
	}
}
