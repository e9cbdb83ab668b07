package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is reported but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding. Path is the dotted
// configuration key, e.g. "storage.dsn".
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// Run modes accepted by Validate.
const (
	ModeCreateTables = "create-tables"
	ModeLocal        = "local"
	ModeWarehouse    = "warehouse"
	ModeLake         = "lake"
	// ModeAll checks everything any mode would need.
	ModeAll = "all"
)

var storageKinds = []string{"postgres", "sqlite", "mysql", "mssql"}

// HasErrors reports whether issues contains at least one error.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate checks cfg for the given run mode. It never mutates cfg.
func Validate(cfg Config, mode string) []Issue {
	var issues []Issue
	add := func(sev IssueSeverity, path, format string, args ...any) {
		issues = append(issues, Issue{Severity: sev, Path: path, Message: fmt.Sprintf(format, args...)})
	}

	switch mode {
	case ModeCreateTables, ModeLocal, ModeWarehouse, ModeLake, ModeAll:
	default:
		add(SeverityError, "mode", "unknown mode %q", mode)
		return issues
	}

	needsDB := mode != ModeLake
	needsInput := mode != ModeCreateTables

	if needsDB {
		kind := strings.TrimSpace(cfg.Storage.Kind)
		switch {
		case kind == "":
			add(SeverityError, "storage.kind", "storage.kind must not be empty")
		case !contains(storageKinds, kind):
			add(SeverityError, "storage.kind", "unsupported storage kind %q (want one of %s)", kind, strings.Join(storageKinds, ", "))
		case mode == ModeWarehouse && kind != "postgres":
			add(SeverityError, "storage.kind", "the warehouse mode needs postgres, got %q", kind)
		}
		if cfg.DSN() == "" {
			add(SeverityError, "storage.dsn", "no DSN: set storage.dsn or cluster.host")
		}
		if cfg.Storage.DSN != "" && cfg.Cluster.Host != "" {
			add(SeverityWarning, "cluster.host", "storage.dsn is set; the cluster section is ignored")
		}
		if cfg.Storage.Kind != "postgres" && cfg.Storage.DSN == "" && cfg.Cluster.Host != "" {
			add(SeverityWarning, "storage.dsn", "the cluster section builds a Postgres DSN but storage.kind is %q", cfg.Storage.Kind)
		}
	}

	if needsInput {
		if strings.TrimSpace(cfg.S3.SongData) == "" {
			add(SeverityError, "s3.song_data", "song input location must not be empty")
		}
		if strings.TrimSpace(cfg.S3.LogData) == "" {
			add(SeverityError, "s3.log_data", "log input location must not be empty")
		}
	}

	if mode == ModeWarehouse || mode == ModeAll {
		if cfg.Storage.BatchSize <= 0 {
			add(SeverityError, "storage.batch_size", "batch_size must be > 0, got %d", cfg.Storage.BatchSize)
		}
	}
	if (mode == ModeWarehouse || mode == ModeLake || mode == ModeAll) && cfg.Storage.Workers <= 0 {
		add(SeverityError, "storage.workers", "workers must be > 0, got %d", cfg.Storage.Workers)
	}

	if (mode == ModeLake || mode == ModeAll) && strings.TrimSpace(cfg.Lake.Output) == "" {
		add(SeverityError, "lake.output", "lake output location must not be empty")
	}

	if (cfg.AWS.Key == "") != (cfg.AWS.Secret == "") {
		add(SeverityWarning, "aws", "only one of aws.key and aws.secret is set; static credentials need both")
	}

	switch strings.ToLower(cfg.Metrics.Backend) {
	case "", "none":
	case "pushgateway":
		if cfg.Metrics.PushgatewayURL == "" {
			add(SeverityError, "metrics.pushgateway_url", "pushgateway backend requires a URL")
		}
	case "datadog":
		if cfg.Metrics.DatadogAddr == "" {
			add(SeverityError, "metrics.datadog_addr", "datadog backend requires an agent address")
		}
	default:
		add(SeverityWarning, "metrics.backend", "unknown metrics backend %q; metrics disabled", cfg.Metrics.Backend)
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		add(SeverityError, "log.level", "unknown log level %q", cfg.Log.Level)
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "", "json", "console":
	default:
		add(SeverityWarning, "log.format", "unknown log format %q; using console", cfg.Log.Format)
	}

	return issues
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
