package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"salescli/internal/charts"
	"salescli/internal/config"
	"salescli/internal/dataprocessing"
	"salescli/internal/salesdata"
)

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(paths *config.Paths, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{paths: paths, logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options and returns the
// resolved path.
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) (string, error) {
	stream, err := w.CreateStreamWriter(filePath, options.Headers, options.BOMPrefix)
	if err != nil {
		return "", err
	}

	for i, record := range options.Records {
		if err := stream.WriteRecord(record); err != nil {
			stream.Close()
			return "", fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	if err := stream.Close(); err != nil {
		return "", err
	}

	w.logger.Info("CSV file written",
		slog.String("path", stream.path),
		slog.Int("record_count", len(options.Records)))
	return stream.path, nil
}

// WriteChartData writes the points behind a chart as two columns named after
// the chart axes.
func (w *CSVWriter) WriteChartData(c charts.Chart) (string, error) {
	records := make([][]string, len(c.Points))
	for i, p := range c.Points {
		records[i] = []string{p.Label, formatFloat(p.Value)}
	}
	return w.WriteCSV(c.Slug+".csv", WriteOptions{
		Headers:   []string{c.XAxis, c.YAxis},
		Records:   records,
		BOMPrefix: true,
	})
}

// WriteSummary writes the descriptive statistics, one row per numeric column
func (w *CSVWriter) WriteSummary(stats []dataprocessing.ColumnStats) (string, error) {
	records := make([][]string, len(stats))
	for i, cs := range stats {
		records[i] = []string{
			cs.Column,
			strconv.Itoa(cs.Count),
			formatStat(cs.Mean),
			formatStat(cs.Std),
			formatStat(cs.Min),
			formatStat(cs.Q25),
			formatStat(cs.Q50),
			formatStat(cs.Q75),
			formatStat(cs.Max),
		}
	}
	return w.WriteCSV("summary_statistics.csv", WriteOptions{
		Headers:   StatsHeaders,
		Records:   records,
		BOMPrefix: true,
	})
}

// WriteTable streams the cleaned table, including its time index as the
// first column when one is set.
func (w *CSVWriter) WriteTable(t *salesdata.Table, filePath string) (string, error) {
	records := t.Records()
	index, indexName, hasIndex := t.Index()

	headers := records[0]
	if hasIndex {
		headers = append([]string{indexName}, headers...)
	}

	stream, err := w.CreateStreamWriter(filePath, headers, true)
	if err != nil {
		return "", err
	}
	for i, record := range records[1:] {
		if hasIndex {
			record = append([]string{index[i].Format("2006-01-02 15:04:05")}, record...)
		}
		if err := stream.WriteRecord(record); err != nil {
			stream.Close()
			return "", fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	if err := stream.Close(); err != nil {
		return "", err
	}

	w.logger.Info("Cleaned data written",
		slog.String("path", stream.path),
		slog.Int("rows", len(records)-1))
	return stream.path, nil
}

// StatsHeaders are the column headers of the statistics export
var StatsHeaders = []string{"column", "count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// StreamWriter provides streaming CSV writing for large datasets
type StreamWriter struct {
	file   *os.File
	writer *csv.Writer
	path   string
}

// CreateStreamWriter creates a new streaming CSV writer
func (w *CSVWriter) CreateStreamWriter(filePath string, headers []string, bom bool) (*StreamWriter, error) {
	fullPath := w.resolvePath(filePath)

	w.logger.Debug("Creating CSV stream writer",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("header_count", len(headers)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	// Excel only detects UTF-8 with a BOM
	if bom {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}
	}

	return &StreamWriter{file: file, writer: writer, path: fullPath}, nil
}

// WriteRecord writes a single record to the stream
func (s *StreamWriter) WriteRecord(record []string) error {
	return s.writer.Write(record)
}

// Path returns the file being written
func (s *StreamWriter) Path() string {
	return s.path
}

// Close flushes and closes the stream writer
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

// resolvePath places relative paths in the reports directory
func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) {
		return filePath
	}
	return w.paths.GetReportPath(filePath)
}
