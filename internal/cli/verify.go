package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/KonradKlein91/Project-Business-Intelligence/internal/config"
	"github.com/KonradKlein91/Project-Business-Intelligence/internal/db"
	"github.com/KonradKlein91/Project-Business-Intelligence/internal/logging"
	"github.com/KonradKlein91/Project-Business-Intelligence/internal/star"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the generated data for consistency",
	Long: `Read the whole star schema back and check receipt totals, tax, cash
and change, receipt numbering, foreign keys, row counts and the hourly
time dimension. Row counts are checked against the recorded run.`,
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	metadata := map[string]string{}
	exists, err := db.MetadataExists(ctx, pool)
	if err != nil {
		return fmt.Errorf("failed to read metadata: %w", err)
	}
	if exists {
		if metadata, err = db.GetAllMetadata(ctx, pool); err != nil {
			return fmt.Errorf("failed to read metadata: %w", err)
		}
	} else {
		logging.Warn().Msg("No generation run recorded, checking against configured settings")
	}

	exp, err := expectationsFrom(metadata, cfg.Generate)
	if err != nil {
		return err
	}

	report, err := star.Verify(ctx, pool, exp)
	if err != nil {
		return fmt.Errorf("failed to verify: %w", err)
	}

	for _, v := range report.Violations {
		logging.Error().Str("check", v.Check).Msg(v.Detail)
	}
	if !report.OK() {
		return fmt.Errorf("%d consistency violations in %d receipts", len(report.Violations), report.Receipts)
	}

	cmd.Printf("OK: %d receipts, %d line items\n", report.Receipts, report.LineItems)
	return nil
}

// expectationsFrom prefers the recorded run parameters over the configured ones.
func expectationsFrom(metadata map[string]string, g config.GenerateConfig) (star.Expectations, error) {
	opts := g.Options()

	for key, dst := range map[string]*int{
		"receipts":  &opts.Receipts,
		"max_items": &opts.MaxItems,
		"days":      &opts.Days,
		"stores":    &opts.Stores,
	} {
		v, ok := metadata[key]
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return star.Expectations{}, fmt.Errorf("invalid metadata %s=%q: %w", key, v, err)
		}
		*dst = n
	}

	return star.ExpectationsFor(opts), nil
}
