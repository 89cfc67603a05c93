package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	_ "kombuchadb/internal/storage/all"
)

func validConfig() Config {
	var c Config
	c.Job = "kombuchadb"
	c.DataDir = "files/db_tables"
	c.DBDir = "files/dbs"
	c.Storage.Kind = "sqlite"
	c.Metrics.Backend = "none"
	return c
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mutate   func(*Config)
		wantPath string
		wantSev  IssueSeverity
	}{
		{"valid", func(*Config) {}, "", ""},
		{"empty job", func(c *Config) { c.Job = " " }, "job", SeverityError},
		{"empty data dir", func(c *Config) { c.DataDir = "" }, "data_dir", SeverityError},
		{"empty db dir", func(c *Config) { c.DBDir = "" }, "db_dir", SeverityWarning},
		{"empty kind", func(c *Config) { c.Storage.Kind = "" }, "storage.kind", SeverityError},
		{"unknown kind", func(c *Config) { c.Storage.Kind = "oracle"; c.Storage.DSN = "x" }, "storage.kind", SeverityError},
		{"postgres without dsn", func(c *Config) { c.Storage.Kind = "postgres" }, "storage.dsn", SeverityError},
		{"bad pushgateway url", func(c *Config) {
			c.Metrics.Backend = "pushgateway"
			c.Metrics.PushgatewayURL = "not a url"
		}, "metrics.pushgateway_url", SeverityError},
		{"unknown metrics backend", func(c *Config) { c.Metrics.Backend = "statsd" }, "metrics.backend", SeverityWarning},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(&cfg)
			issues := Validate(cfg)

			if tt.wantPath == "" {
				assert.Empty(t, issues)
				assert.False(t, HasErrors(issues))
				return
			}
			if assert.Len(t, issues, 1, "%v", issues) {
				assert.Equal(t, tt.wantPath, issues[0].Path)
				assert.Equal(t, tt.wantSev, issues[0].Severity)
			}
			assert.Equal(t, tt.wantSev == SeverityError, HasErrors(issues))
		})
	}
}

func TestIssueError(t *testing.T) {
	t.Parallel()

	iss := Issue{Severity: SeverityError, Path: "storage.kind", Message: "boom"}
	assert.Equal(t, "error at storage.kind: boom", iss.Error())
}
