package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"salescli/internal/charts"
	"salescli/internal/config"
	"salescli/internal/dataprocessing"
	"salescli/internal/exporter"
	"salescli/internal/infrastructure"
	"salescli/internal/operations"
	"salescli/internal/validation"
)

const (
	VERSION = "v1.0.0"
	AppName = "salescli - Sales Data Explorer"
)

// BuildTime is set at compile time
var BuildTime = "unknown"

// WorkbookFile is the name of the workbook written to the reports directory
const WorkbookFile = "sales_report.xlsx"

// Application represents a configured analysis run
type Application struct {
	Config    *config.Config
	Paths     *config.Paths
	Logger    *slog.Logger
	Telemetry *infrastructure.Telemetry
	Manager   *operations.Manager

	console io.Writer
}

// NewApplication wires the pipeline for the current working directory
func NewApplication(cfg *config.Config, logger *slog.Logger, console io.Writer) (*Application, error) {
	paths, err := config.GetPaths(cfg)
	if err != nil {
		return nil, err
	}
	return New(cfg, paths, logger, console)
}

// New wires the pipeline against already resolved paths
func New(cfg *config.Config, paths *config.Paths, logger *slog.Logger, console io.Writer) (*Application, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	if console == nil {
		console = io.Discard
	}

	app := &Application{
		Config:  cfg,
		Paths:   paths,
		Logger:  logger,
		console: console,
	}

	paths.LogPathResolution(logger)
	app.checkOutputs()

	if err := paths.EnsureDirectories(cfg); err != nil {
		return nil, fmt.Errorf("failed to create output directories: %w", err)
	}

	telCfg := cfg.Telemetry
	telCfg.MetricsFile = paths.MetricsFile
	tel, err := infrastructure.InitializeTelemetry(telCfg, VERSION, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	app.Telemetry = tel

	components := app.components()
	cols := operations.Columns{
		Date:     cfg.Columns.Date,
		Sales:    cfg.Columns.Sales,
		Category: cfg.Columns.Category,
		TopN:     cfg.Charts.TopN,
	}
	app.Manager = operations.NewManager(logger, tel.Tracer, tel.Metrics, operations.DefaultSteps(cols, components)...)

	logger.Debug("Application initialized",
		slog.String("version", VERSION),
		slog.Any("steps", app.Manager.Steps()),
		slog.Bool("charts", cfg.Charts.Enabled),
		slog.Bool("export_csv", cfg.Export.CSV),
		slog.Bool("export_workbook", cfg.Export.Workbook))

	return app, nil
}

// checkOutputs disables outputs whose directory cannot be written. The
// analysis itself still runs and prints its report.
func (a *Application) checkOutputs() {
	v := validation.NewOutputValidator(a.Logger)

	if a.Config.Charts.Enabled {
		if err := v.ValidateOutputDirectory(a.Paths.ChartsDir); err != nil {
			a.Logger.Warn("Charts directory not writable, chart output disabled",
				slog.String("directory", a.Paths.ChartsDir),
				slog.String("error", err.Error()))
			a.Config.Charts.Enabled = false
		}
	}

	if a.Config.Export.CSV || a.Config.Export.Workbook {
		if err := v.ValidateOutputDirectory(a.Paths.ReportsDir); err != nil {
			a.Logger.Warn("Reports directory not writable, exports disabled",
				slog.String("directory", a.Paths.ReportsDir),
				slog.String("error", err.Error()))
			a.Config.Export.CSV = false
			a.Config.Export.Workbook = false
		}
	}
}

func (a *Application) components() operations.Components {
	cfg := a.Config

	c := operations.Components{
		Logger:  a.Logger,
		Metrics: a.Telemetry.Metrics,
		Loader: dataprocessing.NewLoader(a.Logger, dataprocessing.LoaderConfig{
			File:       cfg.Input.File,
			Encodings:  cfg.Input.Encodings,
			DateColumn: cfg.Columns.Date,
		}),
	}

	sumCfg := dataprocessing.DefaultSummarizerConfig()
	sumCfg.CategoryColumn = cfg.Columns.Category
	c.Summarizer = dataprocessing.NewSummarizer(a.Logger, sumCfg)

	if cfg.Charts.Enabled {
		var viewer charts.Viewer
		if cfg.Charts.Viewer != "" {
			viewer = charts.CommandViewer{Command: cfg.Charts.Viewer}
		}
		c.Renderer = charts.NewRenderer(a.Logger, a.Paths, cfg.Charts.Format, viewer)
	}

	if cfg.Export.CSV {
		c.CSV = exporter.NewCSVWriter(a.Paths, a.Logger)
	}
	if cfg.Export.Workbook {
		c.Workbook = exporter.NewWorkbookWriter(a.Logger)
		c.WorkbookPath = a.Paths.GetReportPath(WorkbookFile)
	}

	return c
}

// Run executes the pipeline once and flushes telemetry. The returned state
// is never nil, even when the run fails.
func (a *Application) Run(ctx context.Context) (*operations.State, error) {
	ctx = infrastructure.EnsureRunID(ctx)
	runID := infrastructure.GetRunID(ctx)

	a.Logger.InfoContext(ctx, "Starting analysis",
		slog.String("name", AppName),
		slog.String("version", VERSION),
		slog.String("input", a.Config.Input.File))

	state := operations.NewState(runID, a.console)
	runErr := a.Manager.Run(ctx, state)

	if err := a.Telemetry.WriteMetrics(); err != nil {
		a.Logger.WarnContext(ctx, "Failed to write metrics", slog.String("error", err.Error()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := a.Telemetry.Shutdown(shutdownCtx); err != nil {
		a.Logger.WarnContext(ctx, "Error shutting down telemetry", slog.String("error", err.Error()))
	}

	if runErr != nil {
		a.Logger.ErrorContext(ctx, "Analysis failed",
			slog.String("error", runErr.Error()),
			slog.Duration("elapsed", time.Since(state.StartTime)))
		return state, runErr
	}

	a.Logger.InfoContext(ctx, "Analysis complete",
		slog.Int("rows", state.Clean.RowsAfter),
		slog.Int("charts", len(state.Rendered)),
		slog.Int("exports", len(state.Exports)),
		slog.Duration("elapsed", time.Since(state.StartTime)))
	return state, nil
}
