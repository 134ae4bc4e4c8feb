package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"dot separator", "12.34", "12.34", false},
		{"comma separator", "12,34", "12.34", false},
		{"integer", "1000", "1000", false},
		{"whitespace trimmed", "  5.50 ", "5.5", false},
		{"more than two decimals kept", "12.345", "12.345", false},
		{"empty", "", "", true},
		{"zero", "0", "", true},
		{"negative", "-3.50", "", true},
		{"explicit plus sign", "+3.50", "", true},
		{"garbage", "12x", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAmount(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			want, _ := decimal.NewFromString(tt.want)
			if !got.Equal(want) {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.input, got, want)
			}
		})
	}
}

func TestDisplayAmount(t *testing.T) {
	d := decimal.RequireFromString("1234.5")
	if got := DisplayAmount(d); got != "1234.50" {
		t.Errorf("DisplayAmount() = %q, want 1234.50", got)
	}
	// Rounding happens only at display time.
	d = decimal.RequireFromString("0.005")
	if got := DisplayAmount(d); got != "0.01" {
		t.Errorf("DisplayAmount() = %q, want 0.01", got)
	}
}

func TestCentsRoundTrip(t *testing.T) {
	tests := []struct {
		amount string
		cents  int64
	}{
		{"12.34", 1234},
		{"0.01", 1},
		{"100", 10000},
		{"12.345", 1235}, // half-up on the third decimal
	}

	for _, tt := range tests {
		d := decimal.RequireFromString(tt.amount)
		if got := Cents(d); got != tt.cents {
			t.Errorf("Cents(%s) = %d, want %d", tt.amount, got, tt.cents)
		}
	}

	back := AmountFromCents(1234)
	if !back.Equal(decimal.RequireFromString("12.34")) {
		t.Errorf("AmountFromCents(1234) = %s, want 12.34", back)
	}
}

func TestAlertKeyStability(t *testing.T) {
	a := Alert{
		Type:     AlertSpendingLimitExceeded,
		Priority: PriorityHigh,
		Data: LimitExceededData{
			CategoryID:   7,
			CategoryName: "Food",
			Limit:        decimal.NewFromInt(1000),
			Spent:        decimal.NewFromInt(1200),
		},
	}
	if got := a.Key(); got != "spending_limit_exceeded:7" {
		t.Errorf("Key() = %q, want spending_limit_exceeded:7", got)
	}

	b := Alert{
		Type: AlertBillReminder,
		Data: BillReminderData{ItemID: 3, DueDate: NewDate(2025, 1, 20)},
	}
	if got := b.Key(); got != "bill_reminder:3:2025-01-20" {
		t.Errorf("Key() = %q, want bill_reminder:3:2025-01-20", got)
	}

	// Identity does not depend on list position or timestamps.
	c := b
	c.CreatedAt = c.CreatedAt.AddDate(0, 0, 1)
	if b.Key() != c.Key() {
		t.Error("Key() changed with CreatedAt")
	}
}
