package dataprocessing

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescli/internal/shared/testutil"
)

func TestNewSummarizer(t *testing.T) {
	tests := []struct {
		name          string
		config        SummarizerConfig
		wantCategory  string
		wantPrecision int
	}{
		{
			name:          "default config",
			config:        DefaultSummarizerConfig(),
			wantCategory:  "PRODUCTLINE",
			wantPrecision: 6,
		},
		{
			name:          "empty config falls back to defaults",
			config:        SummarizerConfig{},
			wantCategory:  "PRODUCTLINE",
			wantPrecision: 6,
		},
		{
			name:          "custom config",
			config:        SummarizerConfig{CategoryColumn: "COUNTRY", Precision: 2},
			wantCategory:  "COUNTRY",
			wantPrecision: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSummarizer(nil, tt.config)
			assert.NotNil(t, s.logger)
			assert.Equal(t, tt.wantCategory, s.config.CategoryColumn)
			assert.Equal(t, tt.wantPrecision, s.config.Precision)
		})
	}
}

func TestDescribe(t *testing.T) {
	table := loadTable(t, [][]string{
		salesHeader,
		{"1", "10", "1.0", "1/2/2004 0:00", "Ships"},
		{"2", "20", "2.0", "1/3/2004 0:00", "Ships"},
		{"3", "30", "3.0", "1/4/2004 0:00", "Planes"},
		{"4", "40", "4.0", "1/5/2004 0:00", "Planes"},
	})

	stats := Describe(table)
	require.Len(t, stats, 3, "ORDERNUMBER, QUANTITYORDERED and SALES are numeric")
	assert.Equal(t, "ORDERNUMBER", stats[0].Column)

	sales := stats[2]
	assert.Equal(t, "SALES", sales.Column)
	assert.Equal(t, 4, sales.Count)
	assert.InDelta(t, 2.5, sales.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(5.0/3.0), sales.Std, 1e-12)
	assert.Equal(t, 1.0, sales.Min)
	assert.InDelta(t, 1.75, sales.Q25, 1e-12)
	assert.InDelta(t, 2.5, sales.Q50, 1e-12)
	assert.InDelta(t, 3.25, sales.Q75, 1e-12)
	assert.Equal(t, 4.0, sales.Max)
}

func TestDescribeValues_Edges(t *testing.T) {
	single := describeValues("X", []float64{7})
	assert.Equal(t, 1, single.Count)
	assert.Equal(t, 7.0, single.Mean)
	assert.True(t, math.IsNaN(single.Std))
	assert.Equal(t, 7.0, single.Q25)

	empty := describeValues("X", []float64{math.NaN()})
	assert.Zero(t, empty.Count)
	assert.True(t, math.IsNaN(empty.Mean))
	assert.True(t, math.IsNaN(empty.Max))
}

func TestQuantile(t *testing.T) {
	data := []float64{10, 20, 30, 40, 50}
	tests := []struct {
		p    float64
		want float64
	}{
		{0, 10},
		{0.25, 20},
		{0.5, 30},
		{0.9, 46},
		{1, 50},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, quantile(data, tt.p), 1e-9, "p=%v", tt.p)
	}
}

func TestDataTypes(t *testing.T) {
	table := loadTable(t, testutil.SalesRecords(3))

	assert.Equal(t, []ColumnType{
		{Column: "ORDERNUMBER", Type: "int"},
		{Column: "QUANTITYORDERED", Type: "int"},
		{Column: "SALES", Type: "float"},
		{Column: "ORDERDATE", Type: "time"},
		{Column: "PRODUCTLINE", Type: "string"},
	}, DataTypes(table))
}

func TestCategories(t *testing.T) {
	table := loadTable(t, [][]string{
		salesHeader,
		{"1", "10", "1.0", "1/2/2004 0:00", "Ships"},
		{"2", "20", "2.0", "1/3/2004 0:00", "Planes"},
		{"3", "30", "3.0", "1/4/2004 0:00", "Ships"},
		{"4", "40", "4.0", "1/5/2004 0:00", "Trains"},
	})

	cats, ok := Categories(table, "PRODUCTLINE")
	require.True(t, ok)
	assert.Equal(t, []string{"Ships", "Planes", "Trains"}, cats)

	_, ok = Categories(table, "COUNTRY")
	assert.False(t, ok)
}

func TestSummarizer_Print(t *testing.T) {
	table := loadTable(t, testutil.SalesRecords(6))
	logger, handler := testutil.NewTestLogger(t)
	s := NewSummarizer(logger, DefaultSummarizerConfig())

	sum := s.Summarize(context.Background(), table)
	assert.True(t, sum.HasCategories)
	assert.Len(t, sum.Categories, 3)
	testutil.AssertLogContains(t, handler, slog.LevelInfo, "Summary computed")

	var buf bytes.Buffer
	require.NoError(t, s.Print(&buf, sum))
	out := buf.String()

	assert.Contains(t, out, "Summary Statistics:")
	assert.Contains(t, out, "Data Types:")
	assert.Contains(t, out, "Unique Product Categories:")
	assert.Contains(t, out, "QUANTITYORDERED")
	assert.Contains(t, out, "25%")
	assert.Contains(t, out, "1025.500000", "mean of SALES")
	assert.Contains(t, out, "Trucks and Buses")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("Summary Statistics:")), bytes.Index(buf.Bytes(), []byte("Data Types:")))
}

func TestSummarizer_PrintWithoutCategories(t *testing.T) {
	table := loadTable(t, testutil.SalesRecords(2))
	s := NewSummarizer(nil, SummarizerConfig{CategoryColumn: "COUNTRY"})

	sum := s.Summarize(context.Background(), table)
	assert.False(t, sum.HasCategories)

	var buf bytes.Buffer
	require.NoError(t, s.Print(&buf, sum))
	assert.NotContains(t, buf.String(), "Unique Product Categories:")
}
