package operations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"salescli/internal/charts"
	"salescli/internal/dataprocessing"
	"salescli/internal/exporter"
	"salescli/internal/infrastructure"
)

// Step IDs
const (
	StepLoad      = "load"
	StepClean     = "clean"
	StepSummarize = "summarize"
	StepReindex   = "reindex"
	StepVisualize = "visualize"
	StepExport    = "export"
)

// Columns names the columns the analysis reads
type Columns struct {
	Date     string
	Sales    string
	Category string
	TopN     int
}

// Components are the collaborators the standard steps delegate to. A nil
// Renderer disables chart output and nil writers disable the exports.
type Components struct {
	Logger       *slog.Logger
	Metrics      *infrastructure.PipelineMetrics
	Loader       *dataprocessing.Loader
	Summarizer   *dataprocessing.Summarizer
	Renderer     *charts.Renderer
	CSV          *exporter.CSVWriter
	Workbook     *exporter.WorkbookWriter
	WorkbookPath string
}

// DefaultSteps returns the standard analysis pipeline
func DefaultSteps(cols Columns, c Components) []Step {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return []Step{
		&LoadStep{BaseStep: NewBaseStep(StepLoad, "Load sales data"), c: c},
		&CleanStep{BaseStep: NewBaseStep(StepClean, "Drop incomplete rows"), c: c},
		&SummarizeStep{BaseStep: NewBaseStep(StepSummarize, "Summarize"), c: c},
		&ReindexStep{BaseStep: NewBaseStep(StepReindex, "Index by date"), column: cols.Date},
		&VisualizeStep{BaseStep: NewBaseStep(StepVisualize, "Visualize"), cols: cols, c: c},
		&ExportStep{BaseStep: NewBaseStep(StepExport, "Export reports"), c: c},
	}
}

// LoadStep reads the input file and parses its date column
type LoadStep struct {
	BaseStep
	c Components
}

// Execute runs the loader
func (s *LoadStep) Execute(ctx context.Context, state *State) error {
	table, report, err := s.c.Loader.Load(ctx)
	state.Load = report
	if err != nil {
		return err
	}
	state.Table = table

	s.c.Metrics.RecordRowsRead(ctx, report.RowsRead)
	s.c.Metrics.RecordDropped(ctx, "invalid_date", report.InvalidDates)
	return nil
}

// CleanStep removes every row with a missing value
type CleanStep struct {
	BaseStep
	c Components
}

// Execute drops incomplete rows and logs the row accounting
func (s *CleanStep) Execute(ctx context.Context, state *State) error {
	report, err := dataprocessing.DropMissing(state.Table)
	if err != nil {
		return err
	}
	state.Clean = report
	s.c.Metrics.RecordDropped(ctx, "missing_value", report.Dropped())

	level := slog.LevelInfo
	if report.Dropped() > 0 {
		level = slog.LevelWarn
	}
	s.c.Logger.Log(ctx, level, "Row accounting",
		slog.Int("rows_read", state.Load.RowsRead),
		slog.Int("dropped_invalid_date", state.Load.InvalidDates),
		slog.Int("dropped_missing_value", report.Dropped()),
		slog.Int("rows_kept", report.RowsAfter))
	return nil
}

// SummarizeStep prints the descriptive summary to the console
type SummarizeStep struct {
	BaseStep
	c Components
}

// Execute computes and prints the summary
func (s *SummarizeStep) Execute(ctx context.Context, state *State) error {
	state.Summary = s.c.Summarizer.Summarize(ctx, state.Table)
	if err := s.c.Summarizer.Print(state.Console, state.Summary); err != nil {
		return fmt.Errorf("failed to print summary: %w", err)
	}
	return nil
}

// ReindexStep promotes the date column to the row index
type ReindexStep struct {
	BaseStep
	column string
}

// Execute sets the time index
func (s *ReindexStep) Execute(_ context.Context, state *State) error {
	if !state.Table.HasColumn(s.column) {
		return Skip(fmt.Sprintf("column %s not present", s.column))
	}
	return state.Table.SetIndex(s.column)
}

// VisualizeStep builds the charts whose columns are present and renders them
// one at a time
type VisualizeStep struct {
	BaseStep
	cols Columns
	c    Components
}

// Execute builds and renders the charts. Render failures are logged and the
// next chart proceeds.
func (s *VisualizeStep) Execute(ctx context.Context, state *State) error {
	t := state.Table

	if points, ok := dataprocessing.MonthlySales(t, s.cols.Sales); ok {
		state.Charts = append(state.Charts, charts.MonthlyTrend(points))
	} else {
		s.gated(ctx, charts.SlugMonthlyTrend)
	}

	if totals, ok := dataprocessing.TopCategories(t, s.cols.Category, s.cols.Sales, s.cols.TopN); ok {
		state.Charts = append(state.Charts, charts.TopProducts(totals, s.cols.TopN))
	} else {
		s.gated(ctx, charts.SlugTopProducts)
	}

	if avgs, ok := dataprocessing.SeasonalAverage(t, s.cols.Date, s.cols.Sales); ok {
		state.Charts = append(state.Charts, charts.SeasonalPattern(avgs))
	} else {
		s.gated(ctx, charts.SlugSeasonal)
	}

	if s.c.Renderer == nil {
		return Skip("chart rendering disabled")
	}

	for _, c := range state.Charts {
		path, err := s.c.Renderer.Render(ctx, c)
		if errors.Is(err, charts.ErrNoData) {
			s.c.Logger.InfoContext(ctx, "Chart has no data", slog.String("chart", c.Slug))
			continue
		}
		s.c.Metrics.RecordChart(ctx, c.Slug, err)
		if path != "" {
			state.Rendered[c.Slug] = path
		}
		if err != nil {
			s.c.Logger.WarnContext(ctx, "Chart failed",
				slog.String("chart", c.Slug),
				slog.String("error", err.Error()))
		}
	}
	return nil
}

func (s *VisualizeStep) gated(ctx context.Context, slug string) {
	s.c.Logger.DebugContext(ctx, "Chart skipped, required columns or index absent",
		slog.String("chart", slug))
}

// ExportStep writes the optional CSV and workbook reports
type ExportStep struct {
	BaseStep
	c Components
}

// Execute writes each enabled export. Failures are logged, not returned.
func (s *ExportStep) Execute(ctx context.Context, state *State) error {
	if s.c.CSV == nil && s.c.Workbook == nil {
		return Skip("exports disabled")
	}

	if s.c.CSV != nil {
		s.record(ctx, state, "summary_csv")(s.c.CSV.WriteSummary(state.Summary.Stats))
		for _, c := range state.Charts {
			if len(c.Points) == 0 {
				continue
			}
			s.record(ctx, state, c.Slug+"_csv")(s.c.CSV.WriteChartData(c))
		}
		s.record(ctx, state, "table_csv")(s.c.CSV.WriteTable(state.Table, "cleaned_sales.csv"))
	}

	if s.c.Workbook != nil {
		err := s.c.Workbook.Write(s.c.WorkbookPath, state.Summary, state.Charts)
		s.record(ctx, state, "workbook")(s.c.WorkbookPath, err)
	}
	return nil
}

func (s *ExportStep) record(ctx context.Context, state *State, name string) func(string, error) {
	return func(path string, err error) {
		if err != nil {
			s.c.Logger.WarnContext(ctx, "Export failed",
				slog.String("export", name),
				slog.String("error", err.Error()))
			return
		}
		state.Exports = append(state.Exports, path)
	}
}
