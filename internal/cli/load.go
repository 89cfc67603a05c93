package cli

import (
	"github.com/spf13/cobra"

	"kombuchadb/internal/etl"
	"kombuchadb/internal/storage"
)

func newLoadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load the reference TSV files into the database",
		Long: `Load every mapped reference file found in data_dir into its table.

Missing files are skipped. Malformed, unparsable or rejected records are
logged and skipped; the batch only stops when the database cannot be opened.`,
		Args: cobra.NoArgs,
		RunE: runLoad,
	}
	f := cmd.Flags()
	f.String("data-dir", "", "directory holding the .tsv files (default files/db_tables)")
	f.String("kind", "", "storage kind (sqlite, postgres, mysql)")
	f.String("dsn", "", "storage DSN (sqlite default <data-dir>/kombuchaDB.sqlite3)")
	f.Bool("ensure-schema", false, "create missing tables before loading")
	f.String("report", "", "write a YAML load report to this path")
	f.String("job", "", "job name used to label metrics")
	f.String("metrics", "", "metrics backend: none or pushgateway")
	f.String("pushgateway-url", "", "Pushgateway base URL")
	return cmd
}

func runLoad(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true
	logger := newLogger(cmd.ErrOrStderr())
	v := verbose(cmd)

	cfg, err := loadConfig(cmd, logger)
	if err != nil {
		return err
	}

	flush := setupMetrics(cfg, logger, v)
	defer flush()

	_, err = etl.Run(cmd.Context(), etl.Options{
		Storage:      storage.Config{Kind: cfg.Storage.Kind, DSN: cfg.DSN()},
		DataDir:      cfg.DataDir,
		EnsureSchema: cfg.Load.EnsureSchema,
		ReportPath:   cfg.Load.Report,
		Job:          cfg.Job,
		Logger:       logger,
		Verbose:      v,
	})
	return err
}
