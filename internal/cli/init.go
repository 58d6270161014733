package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/KonradKlein91/Project-Business-Intelligence/internal/config"
	"github.com/KonradKlein91/Project-Business-Intelligence/internal/datagen"
	"github.com/KonradKlein91/Project-Business-Intelligence/internal/db"
	"github.com/KonradKlein91/Project-Business-Intelligence/internal/logging"
	"github.com/KonradKlein91/Project-Business-Intelligence/internal/star"
)

var (
	initReceipts     int
	initMaxItems     int
	initPricing      string
	initSeed         uint64
	initDropExisting bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the star schema and fill it with synthetic receipts",
	Long: `Create the star schema tables and populate them: 20 products,
30 days of hourly time buckets, 5 stores and the configured number of
receipts with 1 to max-items positions each.

Example:
  starschema init --receipts 1000 --pricing line --seed 42 --connection "postgres://..."`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().IntVar(&initReceipts, "receipts", 0,
		"number of receipts to generate (default: 1000)")
	initCmd.Flags().IntVar(&initMaxItems, "max-items", 0,
		"maximum positions per receipt (default: 5)")
	initCmd.Flags().StringVar(&initPricing, "pricing", "",
		"pricing mode: catalog (priced products) or line (price per position)")
	initCmd.Flags().Uint64Var(&initSeed, "seed", 0,
		"random seed for reproducible data (0 = time-based)")
	initCmd.Flags().BoolVar(&initDropExisting, "drop-existing", false,
		"drop existing schema before initialization")
}

func runInit(cmd *cobra.Command, args []string) error {
	applyInitFlags(cfg)

	if err := cfg.ValidateGenerate(); err != nil {
		return err
	}
	g := cfg.Generate

	mode, err := star.ParsePricingMode(g.Pricing)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	existingRun, err := db.GetMetadataValue(ctx, pool, "run_id")
	if err != nil {
		return fmt.Errorf("failed to read metadata: %w", err)
	}
	existingRows, err := star.ExistingRows(ctx, pool)
	if err != nil {
		return err
	}
	if err := checkExistingData(existingRun, existingRows, g.DropExisting); err != nil {
		return err
	}

	if g.DropExisting {
		logging.Warn().
			Str("existing_run", existingRun).
			Int64("existing_rows", existingRows).
			Msg("Dropping existing schema")
		if err := star.DropSchema(ctx, pool); err != nil {
			return fmt.Errorf("failed to drop schema: %w", err)
		}
		if err := db.DropMetadata(ctx, pool); err != nil {
			logging.Debug().Err(err).Msg("No metadata table to drop")
		}
	}

	logging.Info().Msg("Creating schema")
	if err := star.CreateSchema(ctx, pool); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	faker := datagen.NewFaker()
	if g.Seed != 0 {
		faker = datagen.NewFakerWithSeed(g.Seed)
	}

	opts := g.Options()
	opts.Pricing = mode
	summary, err := star.NewGenerator(faker, opts).Generate(ctx, star.NewPgStore(pool))
	if err != nil {
		return err
	}

	run := db.NewRunInfo(faker.Seed(), string(mode))
	run.Receipts = summary.Receipts
	run.MaxItems = opts.MaxItems
	run.Days = opts.Days
	run.Stores = opts.Stores
	run.LineItems = int64(summary.LineItems)
	run.GeneratedAt = time.Now()
	if err := db.SaveMetadata(ctx, pool, run); err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}

	if err := writeInitSummary(cmd.OutOrStdout(), pool.Config().ConnConfig.Database, summary); err != nil {
		return err
	}

	logging.Info().
		Str("run_id", run.RunID.String()).
		Uint64("seed", run.Seed).
		Msg("Database initialization complete")

	return nil
}

// checkExistingData refuses to generate on top of an earlier run, including
// one that failed before its metadata was written.
func checkExistingData(runID string, rows int64, dropExisting bool) error {
	if dropExisting {
		return nil
	}
	if runID != "" {
		return fmt.Errorf("database already holds generation run %s; "+
			"use --drop-existing to reinitialize", runID)
	}
	if rows > 0 {
		return fmt.Errorf("database holds %d star schema rows from an unfinished run; "+
			"use --drop-existing to reinitialize", rows)
	}
	return nil
}

// writeInitSummary prints the completion line and the phase timings.
func writeInitSummary(w io.Writer, database string, summary star.Summary) error {
	_, err := fmt.Fprintf(w,
		"Star schema created and %d sample receipts inserted successfully in '%s'\n"+
			"Total execution time: %s\n"+
			"Data generation time: %s\n"+
			"Data insertion time: %s\n",
		summary.Receipts, database,
		datagen.FormatSeconds(summary.TotalTime),
		datagen.FormatSeconds(summary.GenerationTime),
		datagen.FormatSeconds(summary.InsertionTime))
	return err
}

// applyInitFlags overrides the loaded generate settings with any flags given.
func applyInitFlags(c *config.Config) {
	if initReceipts > 0 {
		c.Generate.Receipts = initReceipts
	}
	if initMaxItems > 0 {
		c.Generate.MaxItems = initMaxItems
	}
	if initPricing != "" {
		c.Generate.Pricing = initPricing
	}
	if initSeed != 0 {
		c.Generate.Seed = initSeed
	}
	if initDropExisting {
		c.Generate.DropExisting = true
	}
}
