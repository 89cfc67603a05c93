package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"kombuchadb/internal/storage"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue is one validation finding. Path is the dotted configuration key.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate checks cfg without touching the filesystem or the database.
// Storage kinds are checked against the backends registered with the storage
// package.
func Validate(cfg Config) []Issue {
	var issues []Issue

	if strings.TrimSpace(cfg.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it labels metrics",
		})
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "data_dir",
			Message:  "data_dir must not be empty",
		})
	}
	if strings.TrimSpace(cfg.DBDir) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "db_dir",
			Message:  "db_dir is empty; schema databases are created in the working directory",
		})
	}

	issues = append(issues, validateStorage(cfg)...)
	issues = append(issues, validateMetrics(cfg)...)
	return issues
}

func validateStorage(cfg Config) []Issue {
	var issues []Issue

	kind := cfg.Storage.Kind
	if strings.TrimSpace(kind) == "" {
		return append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  "storage.kind must not be empty",
		})
	}
	if kinds := storage.ListKinds(); !slices.Contains(kinds, kind) {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q (registered: %v)", kind, kinds),
		})
	}
	if kind != "sqlite" && strings.TrimSpace(cfg.Storage.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.dsn",
			Message:  fmt.Sprintf("storage kind %q requires a dsn", kind),
		})
	}
	return issues
}

func validateMetrics(cfg Config) []Issue {
	var issues []Issue

	switch cfg.Metrics.Backend {
	case "", "none":
	case "pushgateway":
		u, err := url.Parse(cfg.Metrics.PushgatewayURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "metrics.pushgateway_url",
				Message:  fmt.Sprintf("invalid pushgateway url %q", cfg.Metrics.PushgatewayURL),
			})
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "metrics.backend",
			Message:  fmt.Sprintf("unknown metrics backend %q; metrics disabled", cfg.Metrics.Backend),
		})
	}
	return issues
}
