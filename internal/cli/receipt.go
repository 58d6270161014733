package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/KonradKlein91/Project-Business-Intelligence/internal/db"
	"github.com/KonradKlein91/Project-Business-Intelligence/internal/star"
)

var receiptCmd = &cobra.Command{
	Use:   "receipt <id>",
	Short: "Print a stored receipt",
	Long: `Print one receipt with its store, cashier, positions and totals as
read back from the database. An unknown id is reported and is not an error.`,
	Args: cobra.ExactArgs(1),
	RunE: runReceipt,
}

func runReceipt(cmd *cobra.Command, args []string) error {
	id, err := parseReceiptID(args[0])
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	return star.PrintReceipt(ctx, pool, id, cmd.OutOrStdout())
}

// parseReceiptID accepts a positive 32-bit receipt id.
func parseReceiptID(s string) (int32, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid receipt id %q: %w", s, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("invalid receipt id %q: must be positive", s)
	}
	return int32(n), nil
}
