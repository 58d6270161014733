package star

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/KonradKlein91/Project-Business-Intelligence/internal/db"
)

// ErrReceiptNotFound is returned when no receipt has the requested id.
var ErrReceiptNotFound = errors.New("receipt not found")

const receiptWidth = 40

// PrintedItem is one line of a printed receipt.
type PrintedItem struct {
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
}

// PrintedReceipt is a receipt joined with its dimensions, ready to print.
type PrintedReceipt struct {
	ReceiptID         int32
	ReceiptNumber     string
	TransactionNumber string
	Date              time.Time
	StoreName         string
	Address           string
	Phone             string
	Cashier           string
	Items             []PrintedItem
	Totals            Totals
}

// Subtotal is the printed subtotal: total minus tax.
func (r *PrintedReceipt) Subtotal() decimal.Decimal {
	return r.Totals.Total.Sub(r.Totals.Tax)
}

// LoadReceipt reads one receipt with its time bucket, location and items
// inside a read-only transaction.
func LoadReceipt(ctx context.Context, conn db.DB, id int32) (*PrintedReceipt, error) {
	var receipt *PrintedReceipt
	err := db.ReadOnly(ctx, conn, func(tx pgx.Tx) error {
		var err error
		receipt, err = loadHeader(ctx, tx, id)
		if err != nil {
			return err
		}
		receipt.Items, err = loadItems(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

func loadHeader(ctx context.Context, tx pgx.Tx, id int32) (*PrintedReceipt, error) {
	var (
		r                      PrintedReceipt
		receiptNo, txNo        pgtype.Text
		at                     pgtype.Timestamp
		total, tax, cash, chng pgtype.Numeric
	)

	err := tx.QueryRow(ctx, `
        SELECT r.receipt_id, r.receipt_number, r.transaction_number, r.cashier_name,
               r.total_amount, r.tax_amount, r.cash_given, r.change_given,
               t.transaction_datetime,
               l.store_name, l.address, l.phone_number
        FROM fact_receipt r
        JOIN dim_time t ON r.time_id = t.time_id
        JOIN dim_location l ON r.location_id = l.location_id
        WHERE r.receipt_id = $1
    `, id).Scan(
		&r.ReceiptID, &receiptNo, &txNo, &r.Cashier,
		&total, &tax, &cash, &chng,
		&at,
		&r.StoreName, &r.Address, &r.Phone,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("receipt %d: %w", id, ErrReceiptNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load receipt %d: %w", id, err)
	}

	r.ReceiptNumber = receiptNo.String
	r.TransactionNumber = txNo.String
	r.Date = at.Time
	r.Totals = Totals{
		Total:  fromNumeric(total).Decimal,
		Tax:    fromNumeric(tax).Decimal,
		Cash:   fromNumeric(cash).Decimal,
		Change: fromNumeric(chng).Decimal,
	}
	return &r, nil
}

func loadItems(ctx context.Context, tx pgx.Tx, id int32) ([]PrintedItem, error) {
	rows, err := tx.Query(ctx, `
        SELECT p.product_name, rp.quantity, rp.unit_price, rp.total_price
        FROM fact_receipt_position rp
        JOIN dim_product p ON rp.product_id = p.product_id
        WHERE rp.receipt_id = $1
        ORDER BY rp.position_id
    `, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load items of receipt %d: %w", id, err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (PrintedItem, error) {
		var (
			item         PrintedItem
			qty          int32
			price, total pgtype.Numeric
		)
		if err := row.Scan(&item.ProductName, &qty, &price, &total); err != nil {
			return item, err
		}
		item.Quantity = int(qty)
		item.UnitPrice = fromNumeric(price).Decimal
		item.TotalPrice = fromNumeric(total).Decimal
		return item, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan items of receipt %d: %w", id, err)
	}
	return items, nil
}

// Render writes the receipt as a fixed-width text block.
func (r *PrintedReceipt) Render(w io.Writer) error {
	double := strings.Repeat("=", receiptWidth)
	single := strings.Repeat("-", receiptWidth)

	var b strings.Builder
	b.WriteString("\n" + double + "\n")
	fmt.Fprintf(&b, "Receipt Number: %s\n", r.ReceiptNumber)
	fmt.Fprintf(&b, "Transaction Number: %s\n", r.TransactionNumber)
	fmt.Fprintf(&b, "Date: %s\n", r.Date.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Store: %s\n", r.StoreName)
	fmt.Fprintf(&b, "Address: %s\n", r.Address)
	fmt.Fprintf(&b, "Phone: %s\n", r.Phone)
	fmt.Fprintf(&b, "Cashier: %s\n", r.Cashier)
	b.WriteString(single + "\n")
	b.WriteString("Items:\n")
	for _, item := range r.Items {
		fmt.Fprintf(&b, "  %-15s %5d x %s = %s\n",
			item.ProductName, item.Quantity, formatMoney(item.UnitPrice), formatMoney(item.TotalPrice))
	}
	b.WriteString(single + "\n")
	fmt.Fprintf(&b, "Subtotal: %s\n", formatMoney(r.Subtotal()))
	fmt.Fprintf(&b, "Tax: %s\n", formatMoney(r.Totals.Tax))
	fmt.Fprintf(&b, "Total: %s\n", formatMoney(r.Totals.Total))
	fmt.Fprintf(&b, "Cash Given: %s\n", formatMoney(r.Totals.Cash))
	fmt.Fprintf(&b, "Change: %s\n", formatMoney(r.Totals.Change))
	b.WriteString(double + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// PrintReceipt loads and renders one receipt. A missing receipt is reported
// on w and is not an error.
func PrintReceipt(ctx context.Context, conn db.DB, id int32, w io.Writer) error {
	receipt, err := LoadReceipt(ctx, conn, id)
	if errors.Is(err, ErrReceiptNotFound) {
		_, werr := fmt.Fprintf(w, "Receipt with ID %d not found.\n", id)
		return werr
	}
	if err != nil {
		return err
	}
	return receipt.Render(w)
}
