//go:build integration
// +build integration

// Integration tests for the star schema against PostgreSQL.
// Run with: go test -tags=integration ./internal/star/...
// Set STARSCHEMA_TEST_CONN to override the connection string.

package star_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/KonradKlein91/Project-Business-Intelligence/internal/datagen"
	"github.com/KonradKlein91/Project-Business-Intelligence/internal/db"
	"github.com/KonradKlein91/Project-Business-Intelligence/internal/star"
	"github.com/KonradKlein91/Project-Business-Intelligence/internal/testutil"
)

func TestGenerateVerifyRender(t *testing.T) {
	for _, mode := range []star.PricingMode{star.PricingCatalog, star.PricingLine} {
		t.Run(string(mode), func(t *testing.T) {
			runStarIntegrationTest(t, mode)
		})
	}
}

func runStarIntegrationTest(t *testing.T, mode star.PricingMode) {
	pool := testutil.NewTestDB(t, string(mode))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if rows, err := star.ExistingRows(ctx, pool); err != nil || rows != 0 {
		t.Fatalf("ExistingRows on an empty database = %d, %v", rows, err)
	}
	if err := star.CreateSchema(ctx, pool); err != nil {
		t.Fatalf("CreateSchema failed: %v", err)
	}

	opts := star.DefaultOptions()
	opts.Pricing = mode
	summary, err := star.NewGenerator(datagen.NewFakerWithSeed(42), opts).Generate(ctx, star.NewPgStore(pool))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	counts := map[string]int64{
		star.TableProduct:  20,
		star.TableTime:     720,
		star.TableLocation: 5,
		star.TableReceipt:  1000,
		star.TablePosition: int64(summary.LineItems),
	}
	for table, want := range counts {
		got, err := star.CountRows(ctx, pool, table)
		if err != nil {
			t.Fatalf("CountRows(%s) failed: %v", table, err)
		}
		if got != want {
			t.Errorf("Table %s has %d rows, want %d", table, got, want)
		}
	}

	t.Run("ExistingRows", func(t *testing.T) {
		rows, err := star.ExistingRows(ctx, pool)
		if err != nil {
			t.Fatalf("ExistingRows failed: %v", err)
		}
		want := int64(20+720+5+1000) + int64(summary.LineItems)
		if rows != want {
			t.Errorf("ExistingRows = %d, want %d", rows, want)
		}
	})

	t.Run("Verify", func(t *testing.T) {
		report, err := star.Verify(ctx, pool, star.ExpectationsFor(opts))
		if err != nil {
			t.Fatalf("Verify failed: %v", err)
		}
		for _, v := range report.Violations {
			t.Errorf("Violation: %s", v)
		}
	})

	t.Run("RenderKnownReceipt", func(t *testing.T) {
		receipt, err := star.LoadReceipt(ctx, pool, 10)
		if err != nil {
			t.Fatalf("LoadReceipt failed: %v", err)
		}
		if receipt.ReceiptNumber != "R0010" || receipt.TransactionNumber != "T0010" {
			t.Errorf("Unexpected numbers %s/%s", receipt.ReceiptNumber, receipt.TransactionNumber)
		}

		var buf bytes.Buffer
		if err := star.PrintReceipt(ctx, pool, 10, &buf); err != nil {
			t.Fatalf("PrintReceipt failed: %v", err)
		}
		out := buf.String()
		wantTotal := "Total: $" + receipt.Totals.Total.StringFixed(2)
		if !strings.Contains(out, wantTotal) {
			t.Errorf("Output missing %q:\n%s", wantTotal, out)
		}
		wantSubtotal := "Subtotal: $" + receipt.Totals.Total.Sub(receipt.Totals.Tax).StringFixed(2)
		if !strings.Contains(out, wantSubtotal) {
			t.Errorf("Output missing %q:\n%s", wantSubtotal, out)
		}
		if len(receipt.Items) < 1 || len(receipt.Items) > opts.MaxItems {
			t.Errorf("Receipt 10 has %d items", len(receipt.Items))
		}
	})

	t.Run("RenderMissingReceipt", func(t *testing.T) {
		var buf bytes.Buffer
		if err := star.PrintReceipt(ctx, pool, 999999, &buf); err != nil {
			t.Fatalf("PrintReceipt should not fail for a missing receipt: %v", err)
		}
		if got := buf.String(); got != "Receipt with ID 999999 not found.\n" {
			t.Errorf("Unexpected output %q", got)
		}
	})

	t.Run("Metadata", func(t *testing.T) {
		run := db.NewRunInfo(42, string(mode))
		run.Receipts = summary.Receipts
		run.LineItems = int64(summary.LineItems)
		run.GeneratedAt = time.Now()
		if err := db.SaveMetadata(ctx, pool, run); err != nil {
			t.Fatalf("SaveMetadata failed: %v", err)
		}

		got, err := db.GetMetadataValue(ctx, pool, "pricing_mode")
		if err != nil {
			t.Fatalf("GetMetadataValue failed: %v", err)
		}
		if got != string(mode) {
			t.Errorf("pricing_mode = %q, want %q", got, mode)
		}

		all, err := db.GetAllMetadata(ctx, pool)
		if err != nil {
			t.Fatalf("GetAllMetadata failed: %v", err)
		}
		if all["run_id"] != run.RunID.String() {
			t.Errorf("run_id = %q, want %q", all["run_id"], run.RunID)
		}
	})

	t.Run("DropSchema", func(t *testing.T) {
		if err := star.DropSchema(ctx, pool); err != nil {
			t.Fatalf("DropSchema failed: %v", err)
		}
		if err := db.DropMetadata(ctx, pool); err != nil {
			t.Fatalf("DropMetadata failed: %v", err)
		}
		exists, err := db.MetadataExists(ctx, pool)
		if err != nil {
			t.Fatalf("MetadataExists failed: %v", err)
		}
		if exists {
			t.Error("Metadata table should be gone")
		}
	})
}
