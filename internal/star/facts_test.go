package star

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/KonradKlein91/Project-Business-Intelligence/internal/datagen"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestReceiptNumbering(t *testing.T) {
	tests := []struct {
		id      int32
		receipt string
		tx      string
	}{
		{1, "R0001", "T0001"},
		{10, "R0010", "T0010"},
		{999, "R0999", "T0999"},
		{1000, "R1000", "T1000"},
		{12345, "R12345", "T12345"},
	}
	for _, tt := range tests {
		t.Run(tt.receipt, func(t *testing.T) {
			if got := ReceiptNumber(tt.id); got != tt.receipt {
				t.Errorf("ReceiptNumber(%d) = %s, want %s", tt.id, got, tt.receipt)
			}
			if got := TransactionNumber(tt.id); got != tt.tx {
				t.Errorf("TransactionNumber(%d) = %s, want %s", tt.id, got, tt.tx)
			}
		})
	}
}

func TestLineTotal(t *testing.T) {
	tests := []struct {
		qty   int
		price string
		want  string
	}{
		{1, "4.99", "4.99"},
		{3, "4.99", "14.97"},
		{2, "19.995", "39.99"},
		{3, "1.005", "3.02"},
	}
	for _, tt := range tests {
		got := LineTotal(tt.qty, dec(tt.price))
		if !got.Equal(dec(tt.want)) {
			t.Errorf("LineTotal(%d, %s) = %s, want %s", tt.qty, tt.price, got, tt.want)
		}
	}
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name   string
		lines  []string
		over   string
		total  string
		tax    string
		cash   string
		change string
	}{
		{
			name:  "exact change",
			lines: []string{"10.00"},
			over:  "0", total: "10.00", tax: "1.00", cash: "11.00", change: "0.00",
		},
		{
			name:  "tax rounds half to even down",
			lines: []string{"10.00", "5.25"},
			over:  "1.234", total: "15.25", tax: "1.52", cash: "18.00", change: "1.23",
		},
		{
			name:  "tax rounds half to even up",
			lines: []string{"0.35"},
			over:  "0.5", total: "0.35", tax: "0.04", cash: "0.89", change: "0.50",
		},
		{
			name:  "maximum overpayment",
			lines: []string{"3.00", "4.50", "2.50"},
			over:  "5", total: "10.00", tax: "1.00", cash: "16.00", change: "5.00",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := make([]LineItem, len(tt.lines))
			for i, l := range tt.lines {
				items[i] = LineItem{Quantity: 1, UnitPrice: dec(l), TotalPrice: dec(l)}
			}
			got := ComputeTotals(items, dec(tt.over))
			want := Totals{Total: dec(tt.total), Tax: dec(tt.tax), Cash: dec(tt.cash), Change: dec(tt.change)}
			if !got.Total.Equal(want.Total) || !got.Tax.Equal(want.Tax) ||
				!got.Cash.Equal(want.Cash) || !got.Change.Equal(want.Change) {
				t.Errorf("ComputeTotals = %s/%s/%s/%s, want %s/%s/%s/%s",
					got.Total, got.Tax, got.Cash, got.Change,
					want.Total, want.Tax, want.Cash, want.Change)
			}
		})
	}
}

func TestBuildLineItems(t *testing.T) {
	f := datagen.NewFakerWithSeed(11)
	products := BuildProducts(f, PricingCatalog)
	for i := range products {
		products[i].ID = int32(i + 1)
	}

	for receipt := int32(1); receipt <= 200; receipt++ {
		items := BuildLineItems(f, receipt, products, PricingCatalog, 5)
		if len(items) < 1 || len(items) > 5 {
			t.Fatalf("Receipt %d: expected 1..5 items, got %d", receipt, len(items))
		}
		for _, item := range items {
			if item.ReceiptID != receipt {
				t.Errorf("Item receipt id %d, want %d", item.ReceiptID, receipt)
			}
			if item.Quantity < 1 || item.Quantity > MaxQuantity {
				t.Errorf("Quantity %d out of range", item.Quantity)
			}
			product := products[item.ProductID-1]
			if !item.UnitPrice.Equal(product.UnitPrice.Decimal) {
				t.Errorf("Catalog item price %s differs from product %s price %s",
					item.UnitPrice, product.Name, product.UnitPrice.Decimal)
			}
			if !item.TotalPrice.Equal(LineTotal(item.Quantity, item.UnitPrice)) {
				t.Errorf("Item total %s != %d x %s", item.TotalPrice, item.Quantity, item.UnitPrice)
			}
		}
	}
}

func TestBuildLineItemsLinePricing(t *testing.T) {
	f := datagen.NewFakerWithSeed(12)
	products := BuildProducts(f, PricingLine)
	for i := range products {
		products[i].ID = int32(i + 1)
	}

	min, max := decimal.NewFromFloat(PriceMin), decimal.NewFromFloat(PriceMax)
	for receipt := int32(1); receipt <= 100; receipt++ {
		for _, item := range BuildLineItems(f, receipt, products, PricingLine, 5) {
			if item.UnitPrice.LessThan(min) || item.UnitPrice.GreaterThan(max) {
				t.Errorf("Sampled price %s outside [%s, %s]", item.UnitPrice, min, max)
			}
		}
	}
}

func TestTotalsInvariantsSeeded(t *testing.T) {
	f := datagen.NewFakerWithSeed(2024)
	products := BuildProducts(f, PricingLine)
	for i := range products {
		products[i].ID = int32(i + 1)
	}

	maxOver := decimal.NewFromFloat(MaxOverpayment)
	for receipt := int32(1); receipt <= 1000; receipt++ {
		items := BuildLineItems(f, receipt, products, PricingLine, 5)
		totals := ComputeTotals(items, Overpayment(f))

		sum := decimal.Zero
		for _, item := range items {
			sum = sum.Add(item.TotalPrice)
		}

		if !totals.Total.Equal(roundMoney(sum)) {
			t.Fatalf("Receipt %d: total %s != sum %s", receipt, totals.Total, sum)
		}
		if !totals.Tax.Equal(roundMoney(sum.Mul(TaxRate))) {
			t.Fatalf("Receipt %d: tax %s is not 10%% of %s", receipt, totals.Tax, sum)
		}
		if totals.Cash.LessThan(totals.Due()) {
			t.Fatalf("Receipt %d: cash %s below due %s", receipt, totals.Cash, totals.Due())
		}
		if !totals.Change.Equal(totals.Cash.Sub(totals.Due())) {
			t.Fatalf("Receipt %d: change %s != %s - %s", receipt, totals.Change, totals.Cash, totals.Due())
		}
		if totals.Change.GreaterThan(maxOver) {
			t.Fatalf("Receipt %d: change %s exceeds maximum overpayment", receipt, totals.Change)
		}
		for _, v := range []decimal.Decimal{totals.Total, totals.Tax, totals.Cash, totals.Change} {
			if !v.Equal(v.Round(Cents)) {
				t.Fatalf("Receipt %d: %s has more than two decimals", receipt, v)
			}
		}
	}
}

func TestNewReceipt(t *testing.T) {
	f := datagen.NewFakerWithSeed(3)
	times := BuildTimeBuckets(Epoch, 48)
	for i := range times {
		times[i].ID = int32(i + 1)
	}
	locations := BuildLocations(5)
	for i := range locations {
		locations[i].ID = int32(i + 1)
	}

	cashiers := make(map[string]bool)
	for i := 0; i < 500; i++ {
		r := NewReceipt(f, times, locations, 10)
		if r.TimeID < 1 || r.TimeID > 48 {
			t.Fatalf("Time id %d out of range", r.TimeID)
		}
		if r.LocationID < 1 || r.LocationID > 5 {
			t.Fatalf("Location id %d out of range", r.LocationID)
		}
		if !r.Totals.Total.IsZero() || r.ReceiptNumber != "" {
			t.Fatalf("New receipt should carry no totals or number: %+v", r)
		}
		cashiers[r.CashierName] = true
	}

	for name := range cashiers {
		valid := false
		for n := 1; n <= 10; n++ {
			if name == CashierName(n) {
				valid = true
			}
		}
		if !valid {
			t.Errorf("Unexpected cashier %q", name)
		}
	}
}
