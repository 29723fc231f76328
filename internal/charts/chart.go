// Package charts builds the sales charts and renders them with gonum/plot.
package charts

import (
	"fmt"
	"strconv"

	"salescli/internal/dataprocessing"
)

// Kind selects how a chart's points are drawn
type Kind string

const (
	KindLine       Kind = "line"
	KindBar        Kind = "bar"
	KindLineMarker Kind = "line_marker"
)

// Point is one data point. X is used by line charts; bar charts use Label.
type Point struct {
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Value float64 `json:"value"`
}

// Chart describes a chart independently of how it is drawn
type Chart struct {
	Slug   string  `json:"slug"`
	Kind   Kind    `json:"kind"`
	Title  string  `json:"title"`
	XAxis  string  `json:"xAxis"`
	YAxis  string  `json:"yAxis"`
	Points []Point `json:"points"`

	// Size in inches
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	ShowGrid     bool      `json:"showGrid"`
	TimeAxis     bool      `json:"timeAxis"`
	RotateLabels bool      `json:"rotateLabels"`
	FixedTicks   []float64 `json:"fixedTicks,omitempty"`
}

// Chart slugs, also used as output file names
const (
	SlugMonthlyTrend = "monthly_sales_trend"
	SlugTopProducts  = "top_products"
	SlugSeasonal     = "average_monthly_sales"
)

// MonthlyTrend charts total sales per month as a line over a time axis
func MonthlyTrend(points []dataprocessing.MonthlyPoint) Chart {
	c := Chart{
		Slug:     SlugMonthlyTrend,
		Kind:     KindLine,
		Title:    "Monthly Sales Trend",
		XAxis:    "Month",
		YAxis:    "Sales",
		Width:    12,
		Height:   6,
		ShowGrid: true,
		TimeAxis: true,
	}
	for _, p := range points {
		v, _ := p.Total.Float64()
		c.Points = append(c.Points, Point{
			Label: p.Month.Format("2006-01"),
			X:     float64(p.Month.Unix()),
			Value: v,
		})
	}
	return c
}

// TopProducts charts the largest category totals as bars
func TopProducts(totals []dataprocessing.CategoryTotal, n int) Chart {
	c := Chart{
		Slug:         SlugTopProducts,
		Kind:         KindBar,
		Title:        fmt.Sprintf("Top %d Performing Products", n),
		XAxis:        "Product",
		YAxis:        "Total Sales",
		Width:        10,
		Height:       6,
		RotateLabels: true,
	}
	for i, t := range totals {
		v, _ := t.Total.Float64()
		c.Points = append(c.Points, Point{Label: t.Category, X: float64(i), Value: v})
	}
	return c
}

// SeasonalPattern charts the average sale per month of the year
func SeasonalPattern(avgs []dataprocessing.MonthAverage) Chart {
	c := Chart{
		Slug:     SlugSeasonal,
		Kind:     KindLineMarker,
		Title:    "Average Monthly Sales",
		XAxis:    "Month",
		YAxis:    "Average Sales",
		Width:    10,
		Height:   6,
		ShowGrid: true,
	}
	for m := 1; m <= 12; m++ {
		c.FixedTicks = append(c.FixedTicks, float64(m))
	}
	for _, a := range avgs {
		c.Points = append(c.Points, Point{
			Label: strconv.Itoa(int(a.Month)),
			X:     float64(a.Month),
			Value: a.Average,
		})
	}
	return c
}
