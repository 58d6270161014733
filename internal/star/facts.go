package star

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/KonradKlein91/Project-Business-Intelligence/internal/datagen"
)

// Receipt generation bounds.
const (
	MaxQuantity    = 3
	MaxOverpayment = 5.0
)

// TaxRate is applied to the pre-tax line item sum.
var TaxRate = decimal.RequireFromString("0.10")

// ReceiptNumber derives the receipt number from a receipt id.
func ReceiptNumber(id int32) string {
	return fmt.Sprintf("R%04d", id)
}

// TransactionNumber derives the transaction number from a receipt id.
func TransactionNumber(id int32) string {
	return fmt.Sprintf("T%04d", id)
}

// CashierName returns the label of cashier n.
func CashierName(n int) string {
	return fmt.Sprintf("Cashier %d", n)
}

// NewReceipt picks a time bucket, a location and a cashier at random.
// The dimensions must already carry their assigned ids. Totals stay zero
// until the line items are known.
func NewReceipt(f *datagen.Faker, times []TimeBucket, locations []Location, cashiers int) Receipt {
	return Receipt{
		TimeID:      datagen.Choose(f, times).ID,
		LocationID:  datagen.Choose(f, locations).ID,
		CashierName: CashierName(f.Int(1, cashiers)),
	}
}

// LineTotal is quantity times unit price, rounded to cents.
func LineTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return roundMoney(decimal.NewFromInt(int64(quantity)).Mul(unitPrice))
}

// BuildLineItems generates between 1 and maxItems positions for a receipt.
func BuildLineItems(f *datagen.Faker, receiptID int32, products []Product, mode PricingMode, maxItems int) []LineItem {
	n := f.Int(1, maxItems)
	items := make([]LineItem, 0, n)
	for i := 0; i < n; i++ {
		product := datagen.Choose(f, products)
		quantity := f.Int(1, MaxQuantity)

		var price decimal.Decimal
		if mode == PricingCatalog && product.UnitPrice.Valid {
			price = roundMoney(product.UnitPrice.Decimal)
		} else {
			price = f.Amount(PriceMin, PriceMax)
		}

		items = append(items, LineItem{
			ReceiptID:  receiptID,
			ProductID:  product.ID,
			Quantity:   quantity,
			UnitPrice:  price,
			TotalPrice: LineTotal(quantity, price),
		})
	}
	return items
}

// ComputeTotals derives the receipt money columns from its line items.
// overpayment is the extra cash handed over on top of the amount due.
func ComputeTotals(items []LineItem, overpayment decimal.Decimal) Totals {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.TotalPrice)
	}

	t := Totals{
		Total: roundMoney(sum),
		Tax:   roundMoney(sum.Mul(TaxRate)),
	}
	t.Cash = roundMoney(t.Due().Add(overpayment))
	t.Change = roundMoney(t.Cash.Sub(t.Due()))
	return t
}

// Overpayment samples the cash handed over beyond the amount due.
func Overpayment(f *datagen.Faker) decimal.Decimal {
	return decimal.NewFromFloat(f.Float64(0, MaxOverpayment))
}
