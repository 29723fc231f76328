package dataprocessing

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"salescli/internal/salesdata"
)

// MonthlyPoint is the total of a value over one calendar month
type MonthlyPoint struct {
	Month time.Time       `json:"month"`
	Total decimal.Decimal `json:"total"`
}

// CategoryTotal is the total of a value for one category
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// MonthAverage is the mean of a value across every row in a month of the year
type MonthAverage struct {
	Month   time.Month `json:"month"`
	Average float64    `json:"average"`
	Rows    int        `json:"rows"`
}

// MonthlySales sums the value column per calendar month of the time index.
// Buckets start on the first of each month and run without gaps from the
// first to the last month present; months without rows total zero. The second
// result is false when the table has no time index or no such numeric column.
func MonthlySales(t *salesdata.Table, valueCol string) ([]MonthlyPoint, bool) {
	index, _, ok := t.Index()
	if !ok {
		return nil, false
	}
	values, ok := t.Floats(valueCol)
	if !ok {
		return nil, false
	}
	if len(index) == 0 {
		return []MonthlyPoint{}, true
	}

	totals := make(map[time.Time]decimal.Decimal)
	first, last := monthStart(index[0]), monthStart(index[0])
	for i, ts := range index {
		if salesdata.IsMissing(values[i]) {
			continue
		}
		m := monthStart(ts)
		totals[m] = totals[m].Add(decimal.NewFromFloat(values[i]))
		if m.Before(first) {
			first = m
		}
		if m.After(last) {
			last = m
		}
	}

	var out []MonthlyPoint
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		out = append(out, MonthlyPoint{Month: m, Total: totals[m]})
	}
	return out, true
}

// TopCategories sums the value column per category and returns the n largest
// totals in descending order. Equal totals are ordered by category name.
func TopCategories(t *salesdata.Table, categoryCol, valueCol string, n int) ([]CategoryTotal, bool) {
	cats, missing, ok := t.Strings(categoryCol)
	if !ok {
		return nil, false
	}
	values, ok := t.Floats(valueCol)
	if !ok {
		return nil, false
	}

	totals := make(map[string]decimal.Decimal)
	for i, c := range cats {
		if missing[i] || salesdata.IsMissing(values[i]) {
			continue
		}
		totals[c] = totals[c].Add(decimal.NewFromFloat(values[i]))
	}

	out := make([]CategoryTotal, 0, len(totals))
	for c, total := range totals {
		out = append(out, CategoryTotal{Category: c, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if cmp := out[i].Total.Cmp(out[j].Total); cmp != 0 {
			return cmp > 0
		}
		return out[i].Category < out[j].Category
	})

	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out, true
}

// SeasonalAverage averages the value column per month of the year, taken
// from the time index promoted from indexCol. Only months with rows are
// returned, in ascending order. The second result is false unless the index
// was promoted from indexCol and the value column exists.
func SeasonalAverage(t *salesdata.Table, indexCol, valueCol string) ([]MonthAverage, bool) {
	if !t.IndexIs(indexCol) {
		return nil, false
	}
	index, _, _ := t.Index()
	values, ok := t.Floats(valueCol)
	if !ok {
		return nil, false
	}

	var sums [13]decimal.Decimal
	var counts [13]int
	for i, ts := range index {
		if salesdata.IsMissing(values[i]) {
			continue
		}
		m := ts.Month()
		sums[m] = sums[m].Add(decimal.NewFromFloat(values[i]))
		counts[m]++
	}

	out := []MonthAverage{}
	for m := time.January; m <= time.December; m++ {
		if counts[m] == 0 {
			continue
		}
		avg, _ := sums[m].Div(decimal.NewFromInt(int64(counts[m]))).Float64()
		out = append(out, MonthAverage{Month: m, Average: avg, Rows: counts[m]})
	}
	return out, true
}

func monthStart(ts time.Time) time.Time {
	return time.Date(ts.Year(), ts.Month(), 1, 0, 0, 0, 0, ts.Location())
}
