package dataprocessing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"salescli/internal/salesdata"
)

// ColumnStats holds the descriptive statistics of one numeric column
type ColumnStats struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"q25"`
	Q50    float64 `json:"q50"`
	Q75    float64 `json:"q75"`
	Max    float64 `json:"max"`
}

// ColumnType pairs a column with its type name
type ColumnType struct {
	Column string `json:"column"`
	Type   string `json:"type"`
}

// Summary is the console report for a cleaned table
type Summary struct {
	Stats          []ColumnStats
	Types          []ColumnType
	CategoryColumn string
	Categories     []string
	HasCategories  bool
}

// SummarizerConfig holds configuration options for the Summarizer.
type SummarizerConfig struct {
	CategoryColumn string // Column whose distinct values are listed
	Precision      int    // Decimal places for printed statistics
}

// DefaultSummarizerConfig returns the default summarizer settings
func DefaultSummarizerConfig() SummarizerConfig {
	return SummarizerConfig{
		CategoryColumn: "PRODUCTLINE",
		Precision:      6,
	}
}

// Summarizer computes and prints the descriptive summary of a table
type Summarizer struct {
	logger *slog.Logger
	config SummarizerConfig
}

// NewSummarizer creates a summarizer with the given configuration.
func NewSummarizer(logger *slog.Logger, config SummarizerConfig) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	if config.CategoryColumn == "" {
		config.CategoryColumn = DefaultSummarizerConfig().CategoryColumn
	}
	if config.Precision <= 0 {
		config.Precision = DefaultSummarizerConfig().Precision
	}
	return &Summarizer{logger: logger, config: config}
}

// Summarize builds the summary of t
func (s *Summarizer) Summarize(ctx context.Context, t *salesdata.Table) Summary {
	sum := Summary{
		Stats:          Describe(t),
		Types:          DataTypes(t),
		CategoryColumn: s.config.CategoryColumn,
	}
	sum.Categories, sum.HasCategories = Categories(t, s.config.CategoryColumn)

	if !sum.HasCategories {
		s.logger.DebugContext(ctx, "Category column absent, skipping distinct values",
			slog.String("column", s.config.CategoryColumn))
	}
	s.logger.InfoContext(ctx, "Summary computed",
		slog.Int("rows", t.Nrow()),
		slog.Int("numeric_columns", len(sum.Stats)),
		slog.Int("categories", len(sum.Categories)))
	return sum
}

// Print writes the summary as console tables
func (s *Summarizer) Print(w io.Writer, sum Summary) error {
	if _, err := fmt.Fprintf(w, "Summary Statistics:\n%s\n", s.statsTable(sum.Stats)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\nData Types:\n%s\n", typesTable(sum.Types)); err != nil {
		return err
	}
	if sum.HasCategories {
		rows := make([][]string, len(sum.Categories))
		for i, c := range sum.Categories {
			rows[i] = []string{c}
		}
		if _, err := fmt.Fprintf(w, "\nUnique Product Categories:\n%s\n", newTable([]string{sum.CategoryColumn}, rows)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Summarizer) statsTable(stats []ColumnStats) string {
	headers := []string{""}
	for _, cs := range stats {
		headers = append(headers, cs.Column)
	}

	labels := []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}
	rows := make([][]string, len(labels))
	for i, label := range labels {
		rows[i] = append(rows[i], label)
	}
	for _, cs := range stats {
		rows[0] = append(rows[0], strconv.Itoa(cs.Count))
		for i, v := range []float64{cs.Mean, cs.Std, cs.Min, cs.Q25, cs.Q50, cs.Q75, cs.Max} {
			rows[i+1] = append(rows[i+1], s.formatFloat(v))
		}
	}
	return newTable(headers, rows)
}

func (s *Summarizer) formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', s.config.Precision, 64)
}

func typesTable(types []ColumnType) string {
	rows := make([][]string, len(types))
	for i, ct := range types {
		rows[i] = []string{ct.Column, ct.Type}
	}
	return newTable([]string{"Column", "Type"}, rows)
}

func newTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		String()
}

// Describe computes count, mean, sample standard deviation, min, quartiles and
// max for every numeric column, in column order. Missing values are skipped.
func Describe(t *salesdata.Table) []ColumnStats {
	var out []ColumnStats
	for _, name := range t.Names() {
		values, ok := t.Floats(name)
		if !ok {
			continue
		}
		out = append(out, describeValues(name, values))
	}
	return out
}

func describeValues(name string, values []float64) ColumnStats {
	x := make([]float64, 0, len(values))
	for _, v := range values {
		if !salesdata.IsMissing(v) {
			x = append(x, v)
		}
	}

	cs := ColumnStats{Column: name, Count: len(x)}
	if len(x) == 0 {
		nan := math.NaN()
		cs.Mean, cs.Std, cs.Min, cs.Q25, cs.Q50, cs.Q75, cs.Max = nan, nan, nan, nan, nan, nan, nan
		return cs
	}

	sort.Float64s(x)
	cs.Mean = stat.Mean(x, nil)
	cs.Std = math.NaN()
	if len(x) > 1 {
		cs.Std = stat.StdDev(x, nil)
	}
	cs.Min = floats.Min(x)
	cs.Max = floats.Max(x)
	cs.Q25 = quantile(x, 0.25)
	cs.Q50 = quantile(x, 0.50)
	cs.Q75 = quantile(x, 0.75)
	return cs
}

// quantile interpolates linearly between the closest ranks of sorted data,
// at position p*(n-1).
func quantile(sorted []float64, p float64) float64 {
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// DataTypes lists the type of every column in column order
func DataTypes(t *salesdata.Table) []ColumnType {
	names := t.Names()
	out := make([]ColumnType, 0, len(names))
	for _, name := range names {
		out = append(out, ColumnType{Column: name, Type: t.ColumnType(name)})
	}
	return out
}

// Categories returns the distinct non-missing values of a column in order of
// first appearance. The second result is false when the column is absent.
func Categories(t *salesdata.Table, column string) ([]string, bool) {
	values, missing, ok := t.Strings(column)
	if !ok {
		return nil, false
	}
	seen := make(map[string]struct{})
	out := []string{}
	for i, v := range values {
		if missing[i] {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out, true
}
