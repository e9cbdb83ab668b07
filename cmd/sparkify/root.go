package main

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sparkify/internal/config"
	"sparkify/internal/logging"
	"sparkify/internal/metrics"
	"sparkify/internal/pipeline"
)

// app carries what every subcommand needs once the root pre-run has
// resolved configuration.
type app struct {
	stdout, stderr io.Writer

	configPath string
	cfg        config.Config
	log        *zap.Logger
	runID      string
}

// parseFailures reports files that were skipped because they could not be
// parsed. Everything else in the run was committed.
type parseFailures struct {
	errs *multierror.Error
}

func (p *parseFailures) Error() string {
	return fmt.Sprintf("%d file(s) could not be parsed", len(p.errs.Errors))
}

func checkParse(res pipeline.Result) error {
	if res.Err() == nil {
		return nil
	}
	return &parseFailures{errs: res.Skipped}
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "sparkify",
		Short:         "Load song and listening-log JSON into the sparkify star schema",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "TOML configuration file")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("metrics-backend", "", "metrics backend: none, pushgateway, datadog")
	pf.String("song-data", "", "song files: directory, manifest (.txt) or s3:// URL")
	pf.String("log-data", "", "log files: directory, manifest (.txt) or s3:// URL")
	pf.String("storage-kind", "", "destination database: postgres, sqlite, mysql, mssql")
	pf.String("dsn", "", "destination DSN (overrides the CLUSTER section)")
	pf.String("output", "", "lake output directory or s3:// URL")

	root.AddCommand(
		newCreateTablesCommand(a),
		newLocalCommand(a),
		newWarehouseCommand(a),
		newLakeCommand(a),
		newValidateCommand(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath, cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	a.runID = uuid.NewString()
	a.log = logger.With(zap.String("run_id", a.runID), zap.String("command", cmd.Name()))

	return setupMetrics(cfg.Metrics, a.log)
}

// runE wraps a subcommand body so metrics are flushed and the logger synced
// whether or not it fails.
func (a *app) runE(fn func(cmd *cobra.Command) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		defer a.teardown()
		return fn(cmd)
	}
}

func (a *app) teardown() {
	if err := metrics.Flush(); err != nil {
		a.log.Warn("metrics flush failed", zap.Error(err))
	}
	_ = a.log.Sync()
}

// checkConfig prints every issue for mode to stderr and fails on errors.
func (a *app) checkConfig(mode string) error {
	issues := config.Validate(a.cfg, mode)
	for _, iss := range issues {
		fmt.Fprintf(a.stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		return fmt.Errorf("configuration is invalid for %s", mode)
	}
	return nil
}
