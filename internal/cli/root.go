// Package cli implements the kombuchadb command tree.
package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"kombuchadb/internal/config"
	"kombuchadb/internal/metrics"
	"kombuchadb/internal/metrics/prompush"
	_ "kombuchadb/internal/storage/all"
)

// Execute runs the root command with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds a fresh command tree. Each call has its own flag state.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "kombuchadb",
		Short: "Provision and load the kombucha simulation reference database",
		Long: `kombuchadb creates the ten-table reference schema and bulk-loads the
tab-separated reference files (elements, metabolites, species, ...) into it.

Configuration comes from kombuchadb.yaml (or --config), an optional .env file,
KOMBUCHADB_* environment variables and flags, in increasing precedence.`,
	}

	root.PersistentFlags().String("config", "", "YAML config file (default ./kombuchadb.yaml if present)")
	root.PersistentFlags().String("env-file", "", ".env file loaded into the environment before reading config")
	root.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	root.AddCommand(newSchemaCmd(), newLoadCmd(), newProbeCmd())
	return root
}

// loadConfig resolves and validates configuration for cmd. Warnings are
// logged; any error issue fails the command.
func loadConfig(cmd *cobra.Command, logger *log.Logger) (config.Config, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")

	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: cfgFile,
		EnvFile:    envFile,
		Flags:      cmd.Flags(),
	})
	if err != nil {
		return cfg, err
	}

	issues := config.Validate(cfg)
	for _, iss := range issues {
		logger.Printf("config: %v", iss)
	}
	if config.HasErrors(issues) {
		return cfg, fmt.Errorf("configuration is invalid (%d issue(s))", len(issues))
	}
	return cfg, nil
}

func newLogger(w io.Writer) *log.Logger {
	return log.New(w, "", log.LstdFlags)
}

func verbose(cmd *cobra.Command) bool {
	v, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to get verbose flag: %v\n", err)
		return false
	}
	return v
}

// setupMetrics installs the configured backend. The returned func flushes it
// and restores the no-op backend.
func setupMetrics(cfg config.Config, logger *log.Logger, verbose bool) func() {
	switch cfg.Metrics.Backend {
	case "pushgateway":
		b, err := prompush.NewBackend(cfg.Job, cfg.Metrics.PushgatewayURL)
		if err != nil {
			logger.Printf("metrics: failed to init pushgateway backend: %v; using nop", err)
			return func() {}
		}
		if verbose {
			logger.Printf("metrics: backend=pushgateway url=%s job=%s", cfg.Metrics.PushgatewayURL, cfg.Job)
		}
		metrics.SetBackend(b)
		return func() {
			if err := metrics.Flush(); err != nil {
				logger.Printf("metrics: flush error: %v", err)
			}
			metrics.SetBackend(nil)
		}
	case "", "none":
		if verbose {
			logger.Printf("metrics: disabled")
		}
	default:
		logger.Printf("metrics: unknown backend %q; metrics disabled", cfg.Metrics.Backend)
	}
	return func() {}
}
