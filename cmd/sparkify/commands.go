package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sparkify/internal/config"
	"sparkify/internal/datasource"
	"sparkify/internal/datasource/s3"
	"sparkify/internal/lake"
	"sparkify/internal/loader"
	jsonparser "sparkify/internal/parser/json"
	"sparkify/internal/pipeline"
	"sparkify/internal/records"
	"sparkify/internal/schema"
	"sparkify/internal/storage"
	"sparkify/internal/warehouse"

	// register every storage backend with the factory; config picks one.
	_ "sparkify/internal/storage/all"
)

func (a *app) openRepo(ctx context.Context) (storage.Repository, error) {
	repo, err := storage.New(ctx, storage.Config{Kind: a.cfg.Storage.Kind, DSN: a.cfg.DSN()})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", a.cfg.Storage.Kind, err)
	}
	a.log.Info("connected", zap.String("storage", a.cfg.Storage.Kind))
	return repo, nil
}

func (a *app) s3Config() s3.Config {
	return s3.Config{Region: a.cfg.AWS.Region, Key: a.cfg.AWS.Key, Secret: a.cfg.AWS.Secret}
}

func (a *app) sources() (songs, logs datasource.Source, err error) {
	if songs, err = pipeline.OpenSource(a.cfg.S3.SongData, a.s3Config()); err != nil {
		return nil, nil, fmt.Errorf("song data: %w", err)
	}
	if logs, err = pipeline.OpenSource(a.cfg.S3.LogData, a.s3Config()); err != nil {
		return nil, nil, fmt.Errorf("log data: %w", err)
	}
	return songs, logs, nil
}

func newCreateTablesCommand(a *app) *cobra.Command {
	var staging bool
	cmd := &cobra.Command{
		Use:   "create-tables",
		Short: "Drop and recreate the star schema",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().BoolVar(&staging, "staging", false, "also recreate the warehouse staging tables")
	cmd.RunE = a.runE(func(cmd *cobra.Command) error {
		if err := a.checkConfig(config.ModeCreateTables); err != nil {
			return err
		}
		ctx := cmd.Context()
		repo, err := a.openRepo(ctx)
		if err != nil {
			return err
		}
		defer repo.Close()

		tables := schema.StarTables()
		if staging {
			tables = append(tables, schema.StagingTables()...)
		}
		if err := storage.RecreateTables(ctx, repo, tables); err != nil {
			return err
		}
		for _, t := range tables {
			a.log.Info("table created", zap.String("table", t.Name))
		}
		return nil
	})
	return cmd
}

func newLocalCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "local",
		Short: "Load song files then log files row by row, one transaction per file",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.runE(func(cmd *cobra.Command) error {
		if err := a.checkConfig(config.ModeLocal); err != nil {
			return err
		}
		ctx := cmd.Context()
		songSrc, logSrc, err := a.sources()
		if err != nil {
			return err
		}
		repo, err := a.openRepo(ctx)
		if err != nil {
			return err
		}
		defer repo.Close()

		var (
			l      = loader.New(repo, a.log)
			totals loader.Stats
			res    pipeline.Result
			start  = time.Now()
		)
		for _, step := range []struct {
			kind records.Kind
			src  datasource.Source
		}{
			{records.KindSong, songSrc},
			{records.KindLog, logSrc},
		} {
			kind := step.kind
			load := func(ctx context.Context, name string, recs []records.Record) error {
				st, err := l.Load(ctx, kind, recs)
				if err != nil {
					return err
				}
				totals.Add(st)
				return nil
			}
			r, err := pipeline.ProcessFiles(ctx, step.src, kind, jsonparser.Parser{}, load, pipeline.Options{
				Out:    a.stdout,
				Logger: a.log,
				Job:    a.cfg.Metrics.Job,
			})
			res.Merge(r)
			if err != nil {
				return err
			}
		}

		a.log.Info("load complete",
			zap.Int("files", res.Processed),
			zap.Int64("songs", totals.Songs),
			zap.Int64("artists", totals.Artists),
			zap.Int64("users", totals.Users),
			zap.Int64("time", totals.Times),
			zap.Int64("songplays", totals.Songplays),
			zap.Int64("unresolved", totals.Unresolved),
			zap.Duration("elapsed", time.Since(start).Truncate(time.Millisecond)),
		)
		return checkParse(res)
	})
	return cmd
}

func newWarehouseCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "warehouse",
		Short: "Bulk-copy every file into staging tables, then fill the star schema in SQL",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.runE(func(cmd *cobra.Command) error {
		if err := a.checkConfig(config.ModeWarehouse); err != nil {
			return err
		}
		ctx := cmd.Context()
		songSrc, logSrc, err := a.sources()
		if err != nil {
			return err
		}
		repo, err := a.openRepo(ctx)
		if err != nil {
			return err
		}
		defer repo.Close()

		w, err := warehouse.New(repo, warehouse.Options{
			BatchSize: a.cfg.Storage.BatchSize,
			Workers:   a.cfg.Storage.Workers,
			Out:       a.stdout,
			Logger:    a.log,
			Job:       a.cfg.Metrics.Job,
		})
		if err != nil {
			return err
		}
		res, err := w.Run(ctx, songSrc, logSrc, jsonparser.Parser{})
		if err != nil {
			return err
		}
		return checkParse(res)
	})
	return cmd
}

func newLakeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lake",
		Short: "Write the star schema as partitioned Parquet files",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.runE(func(cmd *cobra.Command) error {
		if err := a.checkConfig(config.ModeLake); err != nil {
			return err
		}
		songSrc, logSrc, err := a.sources()
		if err != nil {
			return err
		}
		res, err := lake.Run(cmd.Context(), songSrc, logSrc, jsonparser.Parser{}, lake.Options{
			Output:  a.cfg.Lake.Output,
			S3:      a.s3Config(),
			Workers: a.cfg.Storage.Workers,
			Out:     a.stdout,
			Logger:  a.log,
			Job:     a.cfg.Metrics.Job,
		})
		if err != nil {
			return err
		}
		return checkParse(res)
	})
	return cmd
}

func newValidateCommand(a *app) *cobra.Command {
	mode := config.ModeAll
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration and exit",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVar(&mode, "mode", mode, "mode to validate for: create-tables, local, warehouse, lake, all")
	cmd.RunE = a.runE(func(*cobra.Command) error {
		if err := a.checkConfig(mode); err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "configuration is valid for %s\n", mode)
		return nil
	})
	return cmd
}
