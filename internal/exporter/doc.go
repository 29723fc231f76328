// Package exporter writes the optional run outputs next to the charts.
//
// CSVWriter handles the CSV files: the points behind each chart, the
// descriptive statistics and the cleaned table. Files get a UTF-8 BOM so Excel
// opens them with the right encoding.
//
// WorkbookWriter writes one XLSX workbook holding the statistics, the column
// types and a sheet per chart with a native Excel chart over the same points.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter(paths, logger)
//	path, err := writer.WriteChartData(charts.MonthlyTrend(points))
//
//	wb := exporter.NewWorkbookWriter(logger)
//	err = wb.Write(paths.GetReportPath("sales_report.xlsx"), summary, chartList)
package exporter
