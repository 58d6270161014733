//-------------------------------------------------------------------------
//
// starschema - Star Schema Receipt Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package star

import (
	"context"
	"fmt"
	"time"

	"github.com/KonradKlein91/Project-Business-Intelligence/internal/datagen"
	"github.com/KonradKlein91/Project-Business-Intelligence/internal/logging"
)

// Options controls the size and shape of a generation run.
type Options struct {
	Receipts int
	MaxItems int
	Pricing  PricingMode
	Days     int
	Stores   int
	Cashiers int
}

// DefaultOptions returns the standard run: 1000 receipts of 1 to 5 items
// over 30 days, 5 stores and 10 cashiers.
func DefaultOptions() Options {
	return Options{
		Receipts: 1000,
		MaxItems: 5,
		Pricing:  PricingCatalog,
		Days:     30,
		Stores:   5,
		Cashiers: 10,
	}
}

// Summary reports what a generation run produced.
type Summary struct {
	Products    int
	TimeBuckets int
	Locations   int
	Receipts    int
	LineItems   int

	// GenerationTime covers dimensions, receipts and numbering.
	GenerationTime time.Duration

	// InsertionTime covers line items and receipt totals.
	InsertionTime time.Duration

	TotalTime time.Duration
}

// Generator populates the star schema.
type Generator struct {
	faker *datagen.Faker
	opts  Options
}

// NewGenerator creates a generator drawing all randomness from faker.
func NewGenerator(faker *datagen.Faker, opts Options) *Generator {
	return &Generator{faker: faker, opts: opts}
}

// Generate runs all phases against the store. Each phase commits before the
// next one starts because later phases need the ids assigned by earlier ones.
func (g *Generator) Generate(ctx context.Context, store Store) (Summary, error) {
	var summary Summary
	start := time.Now()
	log := logging.Component("generator")

	log.Info().
		Int("receipts", g.opts.Receipts).
		Int("max_items", g.opts.MaxItems).
		Str("pricing", string(g.opts.Pricing)).
		Uint64("seed", g.faker.Seed()).
		Msg("Generating star schema data")

	products := BuildProducts(g.faker, g.opts.Pricing)
	times := BuildTimeBuckets(Epoch, g.opts.Days*24)
	locations := BuildLocations(g.opts.Stores)

	if err := store.InsertDimensions(ctx, products, times, locations); err != nil {
		return summary, fmt.Errorf("failed to generate dimensions: %w", err)
	}
	summary.Products = len(products)
	summary.TimeBuckets = len(times)
	summary.Locations = len(locations)

	log.Info().
		Int("products", len(products)).
		Int("time_buckets", len(times)).
		Int("locations", len(locations)).
		Msg("Dimensions complete")

	receipts := make([]Receipt, g.opts.Receipts)
	for i := range receipts {
		receipts[i] = NewReceipt(g.faker, times, locations, g.opts.Cashiers)
	}
	if err := store.InsertReceipts(ctx, receipts); err != nil {
		return summary, fmt.Errorf("failed to generate receipts: %w", err)
	}

	for i := range receipts {
		receipts[i].ReceiptNumber = ReceiptNumber(receipts[i].ID)
		receipts[i].TransactionNumber = TransactionNumber(receipts[i].ID)
	}
	if err := store.NumberReceipts(ctx, receipts); err != nil {
		return summary, fmt.Errorf("failed to number receipts: %w", err)
	}
	summary.Receipts = len(receipts)
	summary.GenerationTime = time.Since(start)

	insertStart := time.Now()
	progress := datagen.NewProgressReporter(TablePosition, int64(len(receipts)*g.opts.MaxItems), 1000)

	items := make([]LineItem, 0, len(receipts)*(g.opts.MaxItems+1)/2)
	for i := range receipts {
		lines := BuildLineItems(g.faker, receipts[i].ID, products, g.opts.Pricing, g.opts.MaxItems)
		receipts[i].Totals = ComputeTotals(lines, Overpayment(g.faker))
		items = append(items, lines...)
		progress.Update(int64(len(lines)))
	}

	if err := store.InsertLineItems(ctx, items, receipts); err != nil {
		return summary, fmt.Errorf("failed to generate line items: %w", err)
	}
	progress.Done()

	summary.LineItems = len(items)
	summary.InsertionTime = time.Since(insertStart)
	summary.TotalTime = time.Since(start)

	log.Info().
		Int("receipts", summary.Receipts).
		Int("line_items", summary.LineItems).
		Dur("generation_time", summary.GenerationTime).
		Dur("insertion_time", summary.InsertionTime).
		Dur("total_time", summary.TotalTime).
		Msg("Generation complete")

	return summary, nil
}
