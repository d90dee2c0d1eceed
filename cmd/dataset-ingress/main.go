package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/chartforge/dataset-ingress/pkg/audit"
	"github.com/chartforge/dataset-ingress/pkg/batch"
	"github.com/chartforge/dataset-ingress/pkg/config"
	"github.com/chartforge/dataset-ingress/pkg/converter"
	"github.com/chartforge/dataset-ingress/pkg/inference"
	"github.com/chartforge/dataset-ingress/pkg/model"
	"github.com/chartforge/dataset-ingress/pkg/source"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Ingress failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	factory := source.NewConnectorFactory(cfg, logger)

	tables, cleanup, err := loadTables(ctx, cfg, factory, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	auditConn, err := factory.CreateAuditConnector(ctx)
	if err != nil {
		return err
	}
	defer auditConn.Close()

	recorder, err := audit.NewRecorder(auditConn.DB(), logger.Named("audit"))
	if err != nil {
		return err
	}

	typeConverter := converter.NewTypeConverter(logger.Named("converter"))
	engine, err := inference.NewEngine(typeConverter, logger.Named("inference"))
	if err != nil {
		return err
	}

	service, err := batch.NewService(engine, recorder, logger.Named("batch"), cfg.WorkerPoolSize)
	if err != nil {
		return err
	}

	var jobs []batch.TableJob
	for _, table := range tables {
		job := batch.TableJob{Dest: table, Source: table}
		if cfg.AutoPromote {
			job.Requests = batch.PromoteRequests(table)
		}
		if len(job.Requests) > 0 {
			jobs = append(jobs, job)
		}
	}

	metrics, err := service.Run(ctx, jobs)
	if metrics != nil {
		metrics.LogSummary(logger)
	}
	return err
}

// loadTables reads every table of the configured source. The returned
// cleanup closes the source connector when one was opened.
func loadTables(
	ctx context.Context,
	cfg *config.Config,
	factory *source.ConnectorFactory,
	logger *zap.Logger,
) ([]*model.Table, func(), error) {
	noop := func() {}

	if cfg.Source == config.SourceWorkbook {
		workbook, err := source.NewWorkbookLoader(logger.Named("workbook"), cfg.SampleSize)
		if err != nil {
			return nil, noop, err
		}
		tables, err := workbook.LoadWorkbook(cfg.WorkbookPath)
		return tables, noop, err
	}

	conn, err := factory.CreateSourceConnector(ctx)
	if err != nil {
		return nil, noop, err
	}
	cleanup := func() { conn.Close() }

	if err := conn.Validate(); err != nil {
		cleanup()
		return nil, noop, err
	}

	loader, err := source.NewLoader(conn, logger.Named("loader"), cfg.SampleSize)
	if err != nil {
		cleanup()
		return nil, noop, err
	}

	var tables []*model.Table
	for _, schema := range cfg.Schemas {
		names, err := loader.ListTables(ctx, schema)
		if err != nil {
			cleanup()
			return nil, noop, err
		}
		for _, name := range names {
			table, err := loader.LoadTable(ctx, schema, name)
			if err != nil {
				cleanup()
				return nil, noop, err
			}
			tables = append(tables, table)
		}
	}

	return tables, cleanup, nil
}

// newLogger builds the process logger from config
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	var zapCfg zap.Config
	if cfg.LogFormat == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
