package star

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/KonradKlein91/Project-Business-Intelligence/internal/db"
)

// tolerance allowed between a stored total and the recomputed line item sum.
var tolerance = decimal.New(1, -Cents)

// Expectations are the run parameters a dataset is checked against.
// A zero count skips the matching row count check.
type Expectations struct {
	Products    int
	Locations   int
	Receipts    int
	MaxItems    int
	TimeBuckets int
	Epoch       time.Time
}

// ExpectationsFor derives expectations from generation options.
func ExpectationsFor(opts Options) Expectations {
	return Expectations{
		Products:    len(ProductNames),
		Locations:   opts.Stores,
		Receipts:    opts.Receipts,
		MaxItems:    opts.MaxItems,
		TimeBuckets: opts.Days * 24,
		Epoch:       Epoch,
	}
}

// Violation is one failed check.
type Violation struct {
	Check  string
	Detail string
}

func (v Violation) String() string {
	return v.Check + ": " + v.Detail
}

// Report collects violations found by Check or Verify.
type Report struct {
	Receipts   int
	LineItems  int
	Violations []Violation
}

// OK reports whether no check failed.
func (r *Report) OK() bool {
	return len(r.Violations) == 0
}

func (r *Report) add(check, format string, args ...any) {
	r.Violations = append(r.Violations, Violation{Check: check, Detail: fmt.Sprintf(format, args...)})
}

// Dataset is a full copy of the star schema rows.
type Dataset struct {
	Products  []Product
	Times     []TimeBucket
	Locations []Location
	Receipts  []Receipt
	Items     []LineItem
}

// Check validates the dataset invariants: money arithmetic, numbering,
// foreign keys, row counts and the time dimension sequence.
func Check(ds Dataset, exp Expectations) *Report {
	report := &Report{Receipts: len(ds.Receipts), LineItems: len(ds.Items)}

	if exp.Products > 0 && len(ds.Products) != exp.Products {
		report.add("product_count", "got %d products, want %d", len(ds.Products), exp.Products)
	}
	if exp.Locations > 0 && len(ds.Locations) != exp.Locations {
		report.add("location_count", "got %d locations, want %d", len(ds.Locations), exp.Locations)
	}
	checkTimeBuckets(report, ds.Times, exp)
	checkReferences(report, ds)
	checkNumbers(report, ds.Receipts)
	checkTotals(report, ds.Receipts, ds.Items, exp.MaxItems)

	if exp.Receipts > 0 {
		if len(ds.Receipts) != exp.Receipts {
			report.add("receipt_count", "got %d receipts, want %d", len(ds.Receipts), exp.Receipts)
		}
		maxItems := exp.Receipts * exp.MaxItems
		if len(ds.Items) < exp.Receipts || len(ds.Items) > maxItems {
			report.add("line_item_count", "got %d line items, want %d..%d", len(ds.Items), exp.Receipts, maxItems)
		}
	}

	return report
}

func checkTimeBuckets(report *Report, times []TimeBucket, exp Expectations) {
	if exp.TimeBuckets > 0 && len(times) != exp.TimeBuckets {
		report.add("time_bucket_count", "got %d time buckets, want %d", len(times), exp.TimeBuckets)
	}
	for i, t := range times {
		want := exp.Epoch.Add(time.Duration(i) * time.Hour)
		if !t.Datetime.Equal(want) {
			report.add("time_sequence", "time_id %d is %s, want %s",
				t.ID, t.Datetime.Format(time.RFC3339), want.Format(time.RFC3339))
			return
		}
		if t.Year != want.Year() || t.Month != int(want.Month()) || t.Day != want.Day() ||
			t.Hour != want.Hour() || t.Minute != 0 {
			report.add("time_fields", "time_id %d calendar fields do not match %s", t.ID, want.Format(time.RFC3339))
		}
	}
}

func checkReferences(report *Report, ds Dataset) {
	products := idSet(ds.Products, func(p Product) int32 { return p.ID })
	times := idSet(ds.Times, func(t TimeBucket) int32 { return t.ID })
	locations := idSet(ds.Locations, func(l Location) int32 { return l.ID })
	receipts := idSet(ds.Receipts, func(r Receipt) int32 { return r.ID })

	for _, r := range ds.Receipts {
		if !times[r.TimeID] {
			report.add("receipt_time_fk", "receipt %d references missing time_id %d", r.ID, r.TimeID)
		}
		if !locations[r.LocationID] {
			report.add("receipt_location_fk", "receipt %d references missing location_id %d", r.ID, r.LocationID)
		}
	}
	for _, item := range ds.Items {
		if !receipts[item.ReceiptID] {
			report.add("item_receipt_fk", "position %d references missing receipt_id %d", item.ID, item.ReceiptID)
		}
		if !products[item.ProductID] {
			report.add("item_product_fk", "position %d references missing product_id %d", item.ID, item.ProductID)
		}
	}
}

func checkNumbers(report *Report, receipts []Receipt) {
	seenReceipt := make(map[string]int32, len(receipts))
	seenTx := make(map[string]int32, len(receipts))
	for _, r := range receipts {
		if r.ReceiptNumber != ReceiptNumber(r.ID) {
			report.add("receipt_number", "receipt %d has number %q, want %q", r.ID, r.ReceiptNumber, ReceiptNumber(r.ID))
		}
		if r.TransactionNumber != TransactionNumber(r.ID) {
			report.add("transaction_number", "receipt %d has number %q, want %q",
				r.ID, r.TransactionNumber, TransactionNumber(r.ID))
		}
		if other, ok := seenReceipt[r.ReceiptNumber]; ok {
			report.add("receipt_number_unique", "receipts %d and %d share %q", other, r.ID, r.ReceiptNumber)
		}
		if other, ok := seenTx[r.TransactionNumber]; ok {
			report.add("transaction_number_unique", "receipts %d and %d share %q", other, r.ID, r.TransactionNumber)
		}
		seenReceipt[r.ReceiptNumber] = r.ID
		seenTx[r.TransactionNumber] = r.ID
	}
}

func checkTotals(report *Report, receipts []Receipt, items []LineItem, maxItems int) {
	sums := make(map[int32]decimal.Decimal, len(receipts))
	counts := make(map[int32]int, len(receipts))
	for _, item := range items {
		if !item.TotalPrice.Equal(LineTotal(item.Quantity, item.UnitPrice)) {
			report.add("line_total", "position %d total %s != %d x %s",
				item.ID, item.TotalPrice, item.Quantity, item.UnitPrice)
		}
		if item.Quantity < 1 || item.Quantity > MaxQuantity {
			report.add("quantity", "position %d has quantity %d", item.ID, item.Quantity)
		}
		sums[item.ReceiptID] = sums[item.ReceiptID].Add(item.TotalPrice)
		counts[item.ReceiptID]++
	}

	for _, r := range receipts {
		n := counts[r.ID]
		if n < 1 || (maxItems > 0 && n > maxItems) {
			report.add("items_per_receipt", "receipt %d has %d line items", r.ID, n)
		}

		sum := sums[r.ID]
		t := r.Totals
		if t.Total.Sub(roundMoney(sum)).Abs().GreaterThan(tolerance) {
			report.add("total_amount", "receipt %d total %s != line sum %s", r.ID, t.Total, sum)
		}
		if wantTax := roundMoney(sum.Mul(TaxRate)); t.Tax.Sub(wantTax).Abs().GreaterThan(tolerance) {
			report.add("tax_amount", "receipt %d tax %s, want %s", r.ID, t.Tax, wantTax)
		}
		if t.Cash.LessThan(t.Due()) {
			report.add("cash_given", "receipt %d cash %s is less than due %s", r.ID, t.Cash, t.Due())
		}
		if wantChange := roundMoney(t.Cash.Sub(t.Due())); !t.Change.Equal(wantChange) {
			report.add("change_given", "receipt %d change %s, want %s", r.ID, t.Change, wantChange)
		}
	}
}

func idSet[T any](rows []T, id func(T) int32) map[int32]bool {
	set := make(map[int32]bool, len(rows))
	for _, row := range rows {
		set[id(row)] = true
	}
	return set
}

// Verify loads the whole store in a read-only transaction and checks it.
func Verify(ctx context.Context, conn db.DB, exp Expectations) (*Report, error) {
	var ds Dataset
	err := db.ReadOnly(ctx, conn, func(tx pgx.Tx) error {
		var err error
		if ds, err = LoadDataset(ctx, tx); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return Check(ds, exp), nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// LoadDataset reads every star schema row, ordered by primary key.
func LoadDataset(ctx context.Context, q querier) (Dataset, error) {
	var ds Dataset
	var err error

	ds.Products, err = collect(ctx, q, `
        SELECT product_id, product_name, unit_price FROM dim_product ORDER BY product_id
    `, func(row pgx.CollectableRow) (Product, error) {
		var p Product
		var price pgtype.Numeric
		err := row.Scan(&p.ID, &p.Name, &price)
		p.UnitPrice = fromNumeric(price)
		return p, err
	})
	if err != nil {
		return ds, fmt.Errorf("failed to load products: %w", err)
	}

	ds.Times, err = collect(ctx, q, `
        SELECT time_id, transaction_datetime, year, month, day, hour, minute
        FROM dim_time ORDER BY time_id
    `, func(row pgx.CollectableRow) (TimeBucket, error) {
		var t TimeBucket
		var at pgtype.Timestamp
		var year, month, day, hour, minute int32
		err := row.Scan(&t.ID, &at, &year, &month, &day, &hour, &minute)
		t.Datetime = at.Time
		t.Year, t.Month, t.Day, t.Hour, t.Minute = int(year), int(month), int(day), int(hour), int(minute)
		return t, err
	})
	if err != nil {
		return ds, fmt.Errorf("failed to load time buckets: %w", err)
	}

	ds.Locations, err = collect(ctx, q, `
        SELECT location_id, store_name, address, phone_number FROM dim_location ORDER BY location_id
    `, func(row pgx.CollectableRow) (Location, error) {
		var l Location
		err := row.Scan(&l.ID, &l.StoreName, &l.Address, &l.Phone)
		return l, err
	})
	if err != nil {
		return ds, fmt.Errorf("failed to load locations: %w", err)
	}

	ds.Receipts, err = collect(ctx, q, `
        SELECT receipt_id, time_id, location_id, receipt_number, transaction_number, cashier_name,
               total_amount, tax_amount, cash_given, change_given
        FROM fact_receipt ORDER BY receipt_id
    `, func(row pgx.CollectableRow) (Receipt, error) {
		var r Receipt
		var receiptNo, txNo pgtype.Text
		var total, tax, cash, change pgtype.Numeric
		err := row.Scan(&r.ID, &r.TimeID, &r.LocationID, &receiptNo, &txNo, &r.CashierName,
			&total, &tax, &cash, &change)
		r.ReceiptNumber = receiptNo.String
		r.TransactionNumber = txNo.String
		r.Totals = Totals{
			Total:  fromNumeric(total).Decimal,
			Tax:    fromNumeric(tax).Decimal,
			Cash:   fromNumeric(cash).Decimal,
			Change: fromNumeric(change).Decimal,
		}
		return r, err
	})
	if err != nil {
		return ds, fmt.Errorf("failed to load receipts: %w", err)
	}

	ds.Items, err = collect(ctx, q, `
        SELECT position_id, receipt_id, product_id, quantity, unit_price, total_price
        FROM fact_receipt_position ORDER BY position_id
    `, func(row pgx.CollectableRow) (LineItem, error) {
		var item LineItem
		var qty int32
		var price, total pgtype.Numeric
		err := row.Scan(&item.ID, &item.ReceiptID, &item.ProductID, &qty, &price, &total)
		item.Quantity = int(qty)
		item.UnitPrice = fromNumeric(price).Decimal
		item.TotalPrice = fromNumeric(total).Decimal
		return item, err
	})
	if err != nil {
		return ds, fmt.Errorf("failed to load line items: %w", err)
	}

	return ds, nil
}

func collect[T any](ctx context.Context, q querier, sql string, fn pgx.RowToFunc[T]) ([]T, error) {
	rows, err := q.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, fn)
}
