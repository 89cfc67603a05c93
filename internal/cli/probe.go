package cli

import (
	"github.com/spf13/cobra"

	"kombuchadb/internal/probe"
	"kombuchadb/internal/storage"
)

func newProbeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe <file.tsv>",
		Short: "Show encoding, header and inferred column types of a TSV file",
		Long: `Sample a TSV file the way load reads it and print the detected
encoding, record counts and a per-column type guess.

With --table, the guesses are checked against the table's live schema in the
configured database.`,
		Args: cobra.ExactArgs(1),
		RunE: runProbe,
	}
	cmd.Flags().String("table", "", "compare against this table's live schema")
	cmd.Flags().Int("max-records", 0, "records to sample (0 = all)")
	cmd.Flags().String("kind", "", "storage kind (sqlite, postgres, mysql)")
	cmd.Flags().String("dsn", "", "storage DSN")
	cmd.Flags().String("data-dir", "", "directory holding the default sqlite database")
	return cmd
}

func runProbe(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	logger := newLogger(cmd.ErrOrStderr())
	ctx := cmd.Context()

	table, _ := cmd.Flags().GetString("table")
	maxRecords, _ := cmd.Flags().GetInt("max-records")
	opt := probe.Options{MaxRecords: maxRecords}

	if table != "" {
		cfg, err := loadConfig(cmd, logger)
		if err != nil {
			return err
		}
		repo, err := storage.New(ctx, storage.Config{Kind: cfg.Storage.Kind, DSN: cfg.DSN()})
		if err != nil {
			return err
		}
		opt.Columns, err = repo.Columns(ctx, table)
		_ = repo.Close()
		if err != nil {
			return err
		}
		if len(opt.Columns) == 0 {
			logger.Printf("probe: table %s not found in %s", table, cfg.DSN())
		}
	}

	res, err := probe.File(ctx, args[0], opt)
	if err != nil {
		return err
	}
	return probe.Render(cmd.OutOrStdout(), res)
}
