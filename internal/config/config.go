// Package config loads the loader configuration from an optional YAML file,
// an optional .env file, KOMBUCHADB_* environment variables and command-line
// flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment key, e.g. KOMBUCHADB_STORAGE_KIND.
const EnvPrefix = "KOMBUCHADB"

// DefaultConfigName is looked up in the working directory when no config
// file is given explicitly.
const DefaultConfigName = "kombuchadb"

// SQLiteFileName is the database file used when storage.dsn is empty.
const SQLiteFileName = "kombuchaDB.sqlite3"

// Config is the full loader configuration.
type Config struct {
	Job     string `mapstructure:"job"`
	DataDir string `mapstructure:"data_dir"`
	DBDir   string `mapstructure:"db_dir"`

	Storage struct {
		Kind string `mapstructure:"kind"`
		DSN  string `mapstructure:"dsn"`
	} `mapstructure:"storage"`

	Load struct {
		EnsureSchema bool   `mapstructure:"ensure_schema"`
		Report       string `mapstructure:"report"`
	} `mapstructure:"load"`

	Metrics struct {
		Backend        string `mapstructure:"backend"`
		PushgatewayURL string `mapstructure:"pushgateway_url"`
	} `mapstructure:"metrics"`
}

// DSN returns storage.dsn, falling back to the SQLite file inside data_dir.
func (c Config) DSN() string {
	if c.Storage.DSN == "" && c.Storage.Kind == "sqlite" {
		return filepath.Join(c.DataDir, SQLiteFileName)
	}
	return c.Storage.DSN
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("job", "kombuchadb")
	v.SetDefault("data_dir", filepath.Join("files", "db_tables"))
	v.SetDefault("db_dir", filepath.Join("files", "dbs"))
	v.SetDefault("storage.kind", "sqlite")
	v.SetDefault("storage.dsn", "")
	v.SetDefault("load.ensure_schema", false)
	v.SetDefault("load.report", "")
	v.SetDefault("metrics.backend", "none")
	v.SetDefault("metrics.pushgateway_url", "http://localhost:9091")
}

// FlagKeys maps command-line flag names to configuration keys. Only flags
// present in the set passed to Load are bound.
var FlagKeys = map[string]string{
	"job":             "job",
	"data-dir":        "data_dir",
	"db-dir":          "db_dir",
	"kind":            "storage.kind",
	"dsn":             "storage.dsn",
	"ensure-schema":   "load.ensure_schema",
	"report":          "load.report",
	"metrics":         "metrics.backend",
	"pushgateway-url": "metrics.pushgateway_url",
}

// LoadOptions selects the inputs Load reads.
type LoadOptions struct {
	// ConfigFile is an explicit YAML file; it must exist when set.
	ConfigFile string
	// SearchDir is where DefaultConfigName.yaml is looked up when ConfigFile
	// is empty. Empty means the working directory.
	SearchDir string
	// EnvFile is a .env file loaded into the process environment first. It
	// never overrides variables that are already set.
	EnvFile string
	Flags   *pflag.FlagSet
}

// Load resolves the configuration.
func Load(opts LoadOptions) (Config, error) {
	var cfg Config

	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil {
			return cfg, fmt.Errorf("config: load env file %s: %w", opts.EnvFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", opts.ConfigFile, err)
		}
	} else {
		dir := opts.SearchDir
		if dir == "" {
			dir = "."
		}
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return cfg, fmt.Errorf("config: read: %w", err)
			}
		}
	}

	if opts.Flags != nil {
		for name, key := range FlagKeys {
			f := opts.Flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return cfg, fmt.Errorf("config: bind flag %s: %w", name, err)
			}
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}
