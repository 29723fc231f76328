package exporter

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"salescli/internal/charts"
	"salescli/internal/dataprocessing"
)

const (
	sheetSummary = "Summary"
	sheetTypes   = "Types"
)

// WorkbookWriter exports the summary and chart data to an XLSX workbook with
// native Excel charts
type WorkbookWriter struct {
	logger *slog.Logger
}

// NewWorkbookWriter creates a workbook writer
func NewWorkbookWriter(logger *slog.Logger) *WorkbookWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookWriter{logger: logger}
}

// Write creates the workbook at path. The first sheet holds the statistics,
// the second the column types, and every chart with data gets its own sheet
// with the points and an equivalent Excel chart.
func (w *WorkbookWriter) Write(path string, sum dataprocessing.Summary, chartList []charts.Chart) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writeStatsSheet(f, sum.Stats); err != nil {
		return err
	}
	if err := writeTypesSheet(f, sum); err != nil {
		return err
	}

	for _, c := range chartList {
		if len(c.Points) == 0 {
			continue
		}
		if err := writeChartSheet(f, c); err != nil {
			return fmt.Errorf("chart %s: %w", c.Slug, err)
		}
	}

	f.SetActiveSheet(0)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	w.logger.Info("Workbook written",
		slog.String("path", path),
		slog.Int("sheets", len(f.GetSheetList())))
	return nil
}

func writeStatsSheet(f *excelize.File, stats []dataprocessing.ColumnStats) error {
	header := make([]interface{}, len(StatsHeaders))
	for i, h := range StatsHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetSummary, "A1", &header); err != nil {
		return err
	}

	for i, cs := range stats {
		row := []interface{}{cs.Column, cs.Count, cellFloat(cs.Mean), cellFloat(cs.Std), cellFloat(cs.Min),
			cellFloat(cs.Q25), cellFloat(cs.Q50), cellFloat(cs.Q75), cellFloat(cs.Max)}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetSummary, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeTypesSheet(f *excelize.File, sum dataprocessing.Summary) error {
	if _, err := f.NewSheet(sheetTypes); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheetTypes, "A1", &[]interface{}{"column", "type"}); err != nil {
		return err
	}
	for i, ct := range sum.Types {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetTypes, cell, &[]interface{}{ct.Column, ct.Type}); err != nil {
			return err
		}
	}

	if !sum.HasCategories {
		return nil
	}
	if err := f.SetCellValue(sheetTypes, "D1", sum.CategoryColumn); err != nil {
		return err
	}
	for i, c := range sum.Categories {
		cell, _ := excelize.CoordinatesToCellName(4, i+2)
		if err := f.SetCellValue(sheetTypes, cell, c); err != nil {
			return err
		}
	}
	return nil
}

func writeChartSheet(f *excelize.File, c charts.Chart) error {
	sheet := sheetName(c.Slug)
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &[]interface{}{c.XAxis, c.YAxis}); err != nil {
		return err
	}
	for i, p := range c.Points {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &[]interface{}{p.Label, p.Value}); err != nil {
			return err
		}
	}

	last := len(c.Points) + 1
	series := excelize.ChartSeries{
		Name:       fmt.Sprintf("%s!$B$1", sheet),
		Categories: fmt.Sprintf("%s!$A$2:$A$%d", sheet, last),
		Values:     fmt.Sprintf("%s!$B$2:$B$%d", sheet, last),
	}

	chartType := excelize.Line
	switch c.Kind {
	case charts.KindBar:
		chartType = excelize.Col
	case charts.KindLineMarker:
		series.Marker = excelize.ChartMarker{Symbol: "circle", Size: 6}
	default:
		series.Marker = excelize.ChartMarker{Symbol: "none"}
	}

	return f.AddChart(sheet, "D2", &excelize.Chart{
		Type:   chartType,
		Series: []excelize.ChartSeries{series},
		Title:  []excelize.RichTextRun{{Text: c.Title}},
		Legend: excelize.ChartLegend{Position: "none"},
		XAxis: excelize.ChartAxis{
			MajorGridLines: c.ShowGrid,
			Title:          []excelize.RichTextRun{{Text: c.XAxis}},
		},
		YAxis: excelize.ChartAxis{
			MajorGridLines: true,
			Title:          []excelize.RichTextRun{{Text: c.YAxis}},
		},
		Dimension: excelize.ChartDimension{
			Width:  uint(c.Width * 80),
			Height: uint(c.Height * 80),
		},
	})
}

// sheetName maps a chart slug to a sheet name within Excel's 31 character limit
func sheetName(slug string) string {
	if len(slug) > 31 {
		return slug[:31]
	}
	return slug
}

func cellFloat(v float64) interface{} {
	if s := formatStat(v); s == "" {
		return ""
	}
	return v
}
