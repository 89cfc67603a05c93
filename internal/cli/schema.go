package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"kombuchadb/internal/schema"
	"kombuchadb/internal/storage"
)

func newSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema <database>",
		Short: "Create the reference schema in a new or existing database",
		Long: `Create the ten reference tables if they do not exist yet.

For sqlite the argument is a file name inside db_dir (default files/dbs),
which is created when missing. For other storage kinds it is the DSN.
Running it again against a provisioned database changes nothing.`,
		Args: cobra.ExactArgs(1),
		RunE: runSchema,
	}
	cmd.Flags().String("kind", "", "storage kind (sqlite, postgres, mysql)")
	cmd.Flags().String("db-dir", "", "directory sqlite database names are resolved against")
	return cmd
}

func runSchema(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	logger := newLogger(cmd.ErrOrStderr())

	cfg, err := loadConfig(cmd, logger)
	if err != nil {
		return err
	}

	target := args[0]
	if cfg.Storage.Kind == "sqlite" {
		if err := os.MkdirAll(cfg.DBDir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", cfg.DBDir, err)
		}
		target = filepath.Join(cfg.DBDir, args[0])
	}

	ctx := cmd.Context()
	repo, err := storage.New(ctx, storage.Config{Kind: cfg.Storage.Kind, DSN: target})
	if err != nil {
		return err
	}

	if verbose(cmd) {
		logger.Printf("schema: provisioning %d tables via %s", len(schema.Tables()), cfg.Storage.Kind)
	}
	if err := schema.Provision(ctx, cfg.Storage.Kind, repo); err != nil {
		_ = repo.Close()
		return err
	}
	if err := repo.Close(); err != nil {
		return fmt.Errorf("close %s: %w", target, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Database created successfully at: %s\n", target)
	return nil
}
