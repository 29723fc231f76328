package charts

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot"

	"salescli/internal/config"
	"salescli/internal/dataprocessing"
	"salescli/internal/errors"
)

type recordingViewer struct {
	shown []string
	err   error
}

func (v *recordingViewer) Show(_ context.Context, path string) error {
	v.shown = append(v.shown, path)
	return v.err
}

func sampleMonthly() []dataprocessing.MonthlyPoint {
	return []dataprocessing.MonthlyPoint{
		{Month: time.Date(2004, 1, 1, 0, 0, 0, 0, time.UTC), Total: decimal.RequireFromString("1500.5")},
		{Month: time.Date(2004, 2, 1, 0, 0, 0, 0, time.UTC), Total: decimal.Zero},
		{Month: time.Date(2004, 3, 1, 0, 0, 0, 0, time.UTC), Total: decimal.RequireFromString("900")},
	}
}

func sampleTotals() []dataprocessing.CategoryTotal {
	return []dataprocessing.CategoryTotal{
		{Category: "Classic Cars", Total: decimal.RequireFromString("3900")},
		{Category: "Motorcycles", Total: decimal.RequireFromString("1200.25")},
	}
}

func TestMonthlyTrend(t *testing.T) {
	c := MonthlyTrend(sampleMonthly())

	assert.Equal(t, "Monthly Sales Trend", c.Title)
	assert.Equal(t, "Month", c.XAxis)
	assert.Equal(t, "Sales", c.YAxis)
	assert.Equal(t, KindLine, c.Kind)
	assert.True(t, c.ShowGrid)
	assert.True(t, c.TimeAxis)
	assert.Equal(t, 12.0, c.Width)
	require.Len(t, c.Points, 3)
	assert.Equal(t, "2004-02", c.Points[1].Label)
	assert.Equal(t, 0.0, c.Points[1].Value)
	assert.Equal(t, float64(time.Date(2004, 1, 1, 0, 0, 0, 0, time.UTC).Unix()), c.Points[0].X)
}

func TestTopProducts(t *testing.T) {
	c := TopProducts(sampleTotals(), 10)

	assert.Equal(t, "Top 10 Performing Products", c.Title)
	assert.Equal(t, "Product", c.XAxis)
	assert.Equal(t, "Total Sales", c.YAxis)
	assert.Equal(t, KindBar, c.Kind)
	assert.True(t, c.RotateLabels)
	require.Len(t, c.Points, 2)
	assert.Equal(t, "Classic Cars", c.Points[0].Label)
	assert.InDelta(t, 1200.25, c.Points[1].Value, 1e-9)
}

func TestSeasonalPattern(t *testing.T) {
	c := SeasonalPattern([]dataprocessing.MonthAverage{
		{Month: time.March, Average: 15, Rows: 2},
		{Month: time.November, Average: 40, Rows: 1},
	})

	assert.Equal(t, "Average Monthly Sales", c.Title)
	assert.Equal(t, "Average Sales", c.YAxis)
	assert.Equal(t, KindLineMarker, c.Kind)
	assert.Len(t, c.FixedTicks, 12)
	assert.Equal(t, 1.0, c.FixedTicks[0])
	assert.Equal(t, 12.0, c.FixedTicks[11])
	assert.Equal(t, 3.0, c.Points[0].X)
}

func TestBuild(t *testing.T) {
	t.Run("rotated bar labels", func(t *testing.T) {
		p, err := Build(TopProducts(sampleTotals(), 10))
		require.NoError(t, err)
		assert.Equal(t, "Top 10 Performing Products", p.Title.Text)
		assert.InDelta(t, math.Pi/4, p.X.Tick.Label.Rotation, 1e-12)
	})

	t.Run("fixed month ticks", func(t *testing.T) {
		p, err := Build(SeasonalPattern([]dataprocessing.MonthAverage{{Month: time.June, Average: 3, Rows: 1}}))
		require.NoError(t, err)
		ticks := p.X.Tick.Marker.Ticks(p.X.Min, p.X.Max)
		assert.Len(t, ticks, 12)
		assert.Equal(t, "1", ticks[0].Label)
		assert.LessOrEqual(t, p.X.Min, 1.0)
		assert.GreaterOrEqual(t, p.X.Max, 12.0)
	})

	t.Run("month ticks", func(t *testing.T) {
		p, err := Build(MonthlyTrend(sampleMonthly()[:2]))
		require.NoError(t, err)
		assert.Equal(t, []string{"2004-01", "2004-02"}, majorLabels(p))
	})

	t.Run("month ticks thinned for long ranges", func(t *testing.T) {
		var points []dataprocessing.MonthlyPoint
		start := time.Date(2003, 1, 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 36; i++ {
			points = append(points, dataprocessing.MonthlyPoint{Month: start.AddDate(0, i, 0), Total: decimal.NewFromInt(int64(i))})
		}
		p, err := Build(MonthlyTrend(points))
		require.NoError(t, err)

		labels := majorLabels(p)
		assert.LessOrEqual(t, len(labels), maxTimeLabels)
		assert.Equal(t, "2003-01", labels[0])
		seen := make(map[string]bool)
		for _, l := range labels {
			assert.False(t, seen[l], "duplicate tick label %s", l)
			seen[l] = true
		}
		assert.Len(t, p.X.Tick.Marker.Ticks(p.X.Min, p.X.Max), 36, "every month keeps a tick mark")
	})

	t.Run("no data", func(t *testing.T) {
		_, err := Build(MonthlyTrend(nil))
		assert.ErrorIs(t, err, ErrNoData)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := Build(Chart{Kind: "pie", Points: []Point{{Value: 1}}})
		assert.True(t, errors.IsType(err, errors.ErrTypeRender))
	})
}

func TestRenderer_Render(t *testing.T) {
	for _, format := range []string{"png", "SVG", "pdf"} {
		t.Run(format, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "charts")
			viewer := &recordingViewer{}
			r := NewRenderer(nil, &config.Paths{ChartsDir: dir}, format, viewer)

			path, err := r.Render(context.Background(), TopProducts(sampleTotals(), 10))
			require.NoError(t, err)

			assert.Equal(t, filepath.Join(dir, SlugTopProducts+"."+strings.ToLower(format)), path)
			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Positive(t, info.Size())
			assert.Equal(t, []string{path}, viewer.shown)
		})
	}
}

func TestRenderer_ViewerFailure(t *testing.T) {
	viewer := &recordingViewer{err: assert.AnError}
	r := NewRenderer(nil, &config.Paths{ChartsDir: t.TempDir()}, "png", viewer)

	path, err := r.Render(context.Background(), MonthlyTrend(sampleMonthly()))
	require.Error(t, err)
	assert.FileExists(t, path, "the chart is written before it is shown")
	assert.True(t, errors.IsType(err, errors.ErrTypeRender))
}

func TestRenderer_WithoutViewer(t *testing.T) {
	r := NewRenderer(nil, &config.Paths{ChartsDir: t.TempDir()}, "", nil)

	path, err := r.Render(context.Background(), SeasonalPattern([]dataprocessing.MonthAverage{{Month: time.May, Average: 2, Rows: 1}}))
	require.NoError(t, err)
	assert.Equal(t, ".png", filepath.Ext(path))
}

func TestCommandViewer(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX commands")
	}

	assert.NoError(t, CommandViewer{Command: "echo opening"}.Show(context.Background(), "chart.png"))
	assert.Error(t, CommandViewer{Command: "false"}.Show(context.Background(), "chart.png"))
	assert.Error(t, CommandViewer{Command: "  "}.Show(context.Background(), "chart.png"))
}

func majorLabels(p *plot.Plot) []string {
	var labels []string
	for _, tick := range p.X.Tick.Marker.Ticks(p.X.Min, p.X.Max) {
		if !tick.IsMinor() {
			labels = append(labels, tick.Label)
		}
	}
	return labels
}
