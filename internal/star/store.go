package star

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/KonradKlein91/Project-Business-Intelligence/internal/db"
)

// Store persists generated rows. Every method commits before returning and
// writes database-assigned ids back into the given slices.
type Store interface {
	// InsertDimensions inserts products, time buckets and locations.
	InsertDimensions(ctx context.Context, products []Product, times []TimeBucket, locations []Location) error

	// InsertReceipts inserts receipts carrying only their foreign keys and cashier.
	InsertReceipts(ctx context.Context, receipts []Receipt) error

	// NumberReceipts stores receipt and transaction numbers.
	NumberReceipts(ctx context.Context, receipts []Receipt) error

	// InsertLineItems inserts positions and stores the receipts' totals.
	InsertLineItems(ctx context.Context, items []LineItem, receipts []Receipt) error
}

// PgStore is a Store backed by PostgreSQL.
type PgStore struct {
	conn db.DB
}

// NewPgStore creates a Store on the given pool or connection.
func NewPgStore(conn db.DB) *PgStore {
	return &PgStore{conn: conn}
}

// InsertDimensions inserts all dimension rows in one transaction.
func (s *PgStore) InsertDimensions(ctx context.Context, products []Product, times []TimeBucket, locations []Location) error {
	return pgx.BeginFunc(ctx, s.conn, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}

		for i := range products {
			p := &products[i]
			batch.Queue(`
                INSERT INTO dim_product (product_name, unit_price)
                VALUES ($1, $2) RETURNING product_id
            `, p.Name, toNullNumeric(p.UnitPrice)).QueryRow(func(row pgx.Row) error {
				return row.Scan(&p.ID)
			})
		}

		for i := range times {
			t := &times[i]
			batch.Queue(`
                INSERT INTO dim_time (transaction_datetime, year, month, day, hour, minute)
                VALUES ($1, $2, $3, $4, $5, $6) RETURNING time_id
            `, timestamp(t.Datetime), t.Year, t.Month, t.Day, t.Hour, t.Minute).QueryRow(func(row pgx.Row) error {
				return row.Scan(&t.ID)
			})
		}

		for i := range locations {
			l := &locations[i]
			batch.Queue(`
                INSERT INTO dim_location (store_name, address, phone_number)
                VALUES ($1, $2, $3) RETURNING location_id
            `, l.StoreName, l.Address, l.Phone).QueryRow(func(row pgx.Row) error {
				return row.Scan(&l.ID)
			})
		}

		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert dimensions: %w", err)
		}
		return nil
	})
}

// InsertReceipts inserts receipts and records their ids.
func (s *PgStore) InsertReceipts(ctx context.Context, receipts []Receipt) error {
	return pgx.BeginFunc(ctx, s.conn, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for i := range receipts {
			r := &receipts[i]
			batch.Queue(`
                INSERT INTO fact_receipt (time_id, location_id, cashier_name)
                VALUES ($1, $2, $3) RETURNING receipt_id
            `, r.TimeID, r.LocationID, r.CashierName).QueryRow(func(row pgx.Row) error {
				return row.Scan(&r.ID)
			})
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert receipts: %w", err)
		}
		return nil
	})
}

// NumberReceipts writes receipt and transaction numbers.
func (s *PgStore) NumberReceipts(ctx context.Context, receipts []Receipt) error {
	return pgx.BeginFunc(ctx, s.conn, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, r := range receipts {
			batch.Queue(`
                UPDATE fact_receipt
                SET receipt_number = $2, transaction_number = $3
                WHERE receipt_id = $1
            `, r.ID, r.ReceiptNumber, r.TransactionNumber)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to number receipts: %w", err)
		}
		return nil
	})
}

// InsertLineItems copies positions in bulk and updates receipt totals in the
// same transaction.
func (s *PgStore) InsertLineItems(ctx context.Context, items []LineItem, receipts []Receipt) error {
	return pgx.BeginFunc(ctx, s.conn, func(tx pgx.Tx) error {
		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{TablePosition},
			[]string{"receipt_id", "product_id", "quantity", "unit_price", "total_price"},
			pgx.CopyFromSlice(len(items), func(i int) ([]any, error) {
				item := items[i]
				return []any{
					item.ReceiptID,
					item.ProductID,
					int32(item.Quantity),
					toNumeric(item.UnitPrice),
					toNumeric(item.TotalPrice),
				}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("failed to copy line items: %w", err)
		}

		batch := &pgx.Batch{}
		for _, r := range receipts {
			batch.Queue(`
                UPDATE fact_receipt
                SET total_amount = $2, tax_amount = $3, cash_given = $4, change_given = $5
                WHERE receipt_id = $1
            `, r.ID, toNumeric(r.Totals.Total), toNumeric(r.Totals.Tax),
				toNumeric(r.Totals.Cash), toNumeric(r.Totals.Change))
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to update receipt totals: %w", err)
		}
		return nil
	})
}

// timestamp encodes a wall-clock time for a TIMESTAMP (without time zone) column.
func timestamp(t time.Time) pgtype.Timestamp {
	return pgtype.Timestamp{Time: t, Valid: true}
}
