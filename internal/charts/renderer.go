package charts

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"salescli/internal/config"
	"salescli/internal/errors"
)

// maxTimeLabels caps the labelled ticks on a time axis. Other points keep an
// unlabelled tick.
const maxTimeLabels = 12

// ErrNoData is returned when a chart has no points to draw
var ErrNoData = fmt.Errorf("chart has no data")

var seriesColor = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}

// Renderer draws charts with gonum/plot and writes them to the charts
// directory
type Renderer struct {
	logger *slog.Logger
	paths  *config.Paths
	format string
	viewer Viewer
}

// NewRenderer creates a renderer for the given file format (png, svg or pdf).
// A nil viewer writes charts without showing them.
func NewRenderer(logger *slog.Logger, paths *config.Paths, format string, viewer Viewer) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	if format == "" {
		format = "png"
	}
	return &Renderer{logger: logger, paths: paths, format: strings.ToLower(format), viewer: viewer}
}

// Path returns the file a chart is written to
func (r *Renderer) Path(c Chart) string {
	return r.paths.GetChartPath(c.Slug, r.format)
}

// Render draws c, saves it and, when a viewer is set, shows it and waits for
// the viewer to return.
func (r *Renderer) Render(ctx context.Context, c Chart) (string, error) {
	p, err := Build(c)
	if err != nil {
		return "", err
	}

	path := r.Path(c)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", errors.NewStorageError(fmt.Sprintf("failed to create %s", filepath.Dir(path)), err)
	}

	if err := p.Save(vg.Length(c.Width)*vg.Inch, vg.Length(c.Height)*vg.Inch, path); err != nil {
		return "", errors.NewRenderError(fmt.Sprintf("failed to save %s", path), err)
	}

	r.logger.InfoContext(ctx, "Chart written",
		slog.String("chart", c.Slug),
		slog.String("path", path),
		slog.Int("points", len(c.Points)))

	if r.viewer != nil {
		if err := r.viewer.Show(ctx, path); err != nil {
			return path, errors.NewRenderError(fmt.Sprintf("failed to show %s", path), err)
		}
	}
	return path, nil
}

// Build turns a chart description into a gonum plot
func Build(c Chart) (*plot.Plot, error) {
	if len(c.Points) == 0 {
		return nil, ErrNoData
	}

	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.XAxis
	p.Y.Label.Text = c.YAxis

	if c.ShowGrid {
		p.Add(plotter.NewGrid())
	}

	switch c.Kind {
	case KindBar:
		if err := addBars(p, c); err != nil {
			return nil, err
		}
	case KindLine, KindLineMarker:
		if err := addLine(p, c); err != nil {
			return nil, err
		}
	default:
		return nil, errors.NewRenderError(fmt.Sprintf("unknown chart kind %q", c.Kind), nil)
	}

	switch {
	case c.TimeAxis:
		p.X.Tick.Marker = plot.ConstantTicks(pointTicks(c.Points))
	case len(c.FixedTicks) > 0:
		ticks := make([]plot.Tick, len(c.FixedTicks))
		for i, v := range c.FixedTicks {
			ticks[i] = plot.Tick{Value: v, Label: strconv.FormatFloat(v, 'f', -1, 64)}
		}
		p.X.Tick.Marker = plot.ConstantTicks(ticks)
		p.X.Min = math.Min(p.X.Min, c.FixedTicks[0])
		p.X.Max = math.Max(p.X.Max, c.FixedTicks[len(c.FixedTicks)-1])
	}

	if c.RotateLabels {
		p.X.Tick.Label.Rotation = math.Pi / 4
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}
	return p, nil
}

// pointTicks puts a tick on every point, labelling every n-th one so that at
// most maxTimeLabels labels are drawn
func pointTicks(points []Point) []plot.Tick {
	every := (len(points) + maxTimeLabels - 1) / maxTimeLabels
	ticks := make([]plot.Tick, len(points))
	for i, pt := range points {
		ticks[i].Value = pt.X
		if i%every == 0 {
			ticks[i].Label = pt.Label
		}
	}
	return ticks
}

func addLine(p *plot.Plot, c Chart) error {
	xys := make(plotter.XYs, len(c.Points))
	for i, pt := range c.Points {
		xys[i].X = pt.X
		xys[i].Y = pt.Value
	}

	if c.Kind == KindLineMarker {
		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return errors.NewRenderError("failed to build line", err)
		}
		line.Color = seriesColor
		points.Shape = draw.CircleGlyph{}
		points.Color = seriesColor
		p.Add(line, points)
		return nil
	}

	line, err := plotter.NewLine(xys)
	if err != nil {
		return errors.NewRenderError("failed to build line", err)
	}
	line.Color = seriesColor
	p.Add(line)
	return nil
}

func addBars(p *plot.Plot, c Chart) error {
	values := make(plotter.Values, len(c.Points))
	names := make([]string, len(c.Points))
	for i, pt := range c.Points {
		values[i] = pt.Value
		names[i] = pt.Label
	}

	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return errors.NewRenderError("failed to build bars", err)
	}
	bars.Color = seriesColor
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(names...)
	return nil
}
