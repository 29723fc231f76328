package salesdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Column type names reported by ColumnType
const (
	TypeInt    = "int"
	TypeFloat  = "float"
	TypeString = "string"
	TypeBool   = "bool"
	TypeTime   = "time"
)

// MissingValues are the raw cell values read as missing
var MissingValues = []string{"", "NA", "N/A", "NaN", "nan", "NULL", "null", "<nil>"}

// Table is a column-oriented sales record table with a shared row index
type Table struct {
	df      dataframe.DataFrame
	columns []string
	times   map[string][]time.Time

	index     []time.Time
	indexName string

	// rows counts the rows once every column has moved out of df
	rows int
}

// ReadCSV builds a table from delimited text with a header row, detecting
// column types from the values. A file with only a header row gives an empty
// table of string columns.
func ReadCSV(r io.Reader) (*Table, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no header row")
	}
	if len(records) == 1 {
		return New(emptyFrame(records[0], nil))
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(MissingValues),
	)
	return New(df)
}

// New wraps an existing data frame
func New(df dataframe.DataFrame) (*Table, error) {
	if df.Err != nil {
		return nil, fmt.Errorf("invalid data frame: %w", df.Err)
	}
	return &Table{
		df:      df,
		columns: df.Names(),
		times:   make(map[string][]time.Time),
	}, nil
}

// Nrow returns the number of rows
func (t *Table) Nrow() int {
	if t.df.Ncol() == 0 {
		return t.rows
	}
	return t.df.Nrow()
}

// Names returns the column names in file order. The index is not a column.
func (t *Table) Names() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// HasColumn reports whether name is a column of the table
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.columns {
		if c == name {
			return true
		}
	}
	return false
}

// ColumnType returns the type name of a column, or "" if it does not exist
func (t *Table) ColumnType(name string) string {
	if _, ok := t.times[name]; ok {
		return TypeTime
	}
	if !t.HasColumn(name) {
		return ""
	}
	switch t.df.Col(name).Type() {
	case series.Int:
		return TypeInt
	case series.Float:
		return TypeFloat
	case series.Bool:
		return TypeBool
	default:
		return TypeString
	}
}

// IsNumeric reports whether a column holds int or float values
func (t *Table) IsNumeric(name string) bool {
	switch t.ColumnType(name) {
	case TypeInt, TypeFloat:
		return true
	}
	return false
}

// Floats returns a numeric column as float64 values. Missing values are NaN.
func (t *Table) Floats(name string) ([]float64, bool) {
	if !t.IsNumeric(name) {
		return nil, false
	}
	return t.df.Col(name).Float(), true
}

// Strings returns the textual form of a non-temporal column. Missing values
// are reported by the second slice.
func (t *Table) Strings(name string) ([]string, []bool, bool) {
	if _, ok := t.times[name]; ok || !t.HasColumn(name) {
		return nil, nil, false
	}
	s := t.df.Col(name)
	return s.Records(), s.IsNaN(), true
}

// Times returns a parsed date column
func (t *Table) Times(name string) ([]time.Time, bool) {
	ts, ok := t.times[name]
	return ts, ok
}

// Index returns the time row index and its name, if one was set
func (t *Table) Index() ([]time.Time, string, bool) {
	if t.indexName == "" {
		return nil, "", false
	}
	return t.index, t.indexName, true
}

// IndexIs reports whether the row index was promoted from the named column
func (t *Table) IndexIs(name string) bool {
	return t.indexName != "" && t.indexName == name
}

// MissingRows flags every row that has a missing value in any column
func (t *Table) MissingRows() []bool {
	missing := make([]bool, t.Nrow())
	for _, name := range t.df.Names() {
		for i, na := range t.df.Col(name).IsNaN() {
			if na {
				missing[i] = true
			}
		}
	}
	return missing
}

// Filter keeps only the rows at the given positions, in that order
func (t *Table) Filter(rows []int) error {
	if len(rows) == t.Nrow() {
		identity := true
		for i, r := range rows {
			if i != r {
				identity = false
				break
			}
		}
		if identity {
			return nil
		}
	}

	if t.df.Ncol() == 0 {
		t.rows = len(rows)
	} else {
		df, err := subset(t.df, rows)
		if err != nil {
			return err
		}
		t.df = df
	}

	for name, ts := range t.times {
		t.times[name] = pick(ts, rows)
	}
	if t.indexName != "" {
		t.index = pick(t.index, rows)
	}
	return nil
}

// ParseTimes converts a text column into a date column using parse. Rows whose
// value is missing or does not parse are removed; their count is returned.
func (t *Table) ParseTimes(name string, parse func(string) (time.Time, error)) (int, error) {
	if _, ok := t.times[name]; ok {
		return 0, nil
	}
	if !t.HasColumn(name) {
		return 0, fmt.Errorf("column %q not found", name)
	}
	s := t.df.Col(name)
	raw := s.Records()
	missing := s.IsNaN()

	parsed := make([]time.Time, len(raw))
	keep := make([]int, 0, len(raw))
	for i, v := range raw {
		if missing[i] {
			continue
		}
		ts, err := parse(v)
		if err != nil {
			continue
		}
		parsed[i] = ts
		keep = append(keep, i)
	}

	if t.df.Ncol() == 1 {
		t.rows = len(raw)
		t.df = dataframe.DataFrame{}
	} else {
		t.df = t.df.Drop(name)
		if t.df.Err != nil {
			return 0, fmt.Errorf("failed to drop column %q: %w", name, t.df.Err)
		}
	}
	t.times[name] = parsed

	dropped := len(raw) - len(keep)
	if dropped > 0 {
		if err := t.Filter(keep); err != nil {
			return 0, err
		}
	}
	return dropped, nil
}

// SetIndex promotes a parsed date column to the row index. The column is
// removed from the column set and any previous index is discarded.
func (t *Table) SetIndex(name string) error {
	ts, ok := t.times[name]
	if !ok {
		return fmt.Errorf("column %q is not a parsed date column", name)
	}
	t.index = ts
	t.indexName = name
	delete(t.times, name)

	cols := t.columns[:0:0]
	for _, c := range t.columns {
		if c != name {
			cols = append(cols, c)
		}
	}
	t.columns = cols
	return nil
}

// DataFrame returns the non-temporal columns as a gota data frame
func (t *Table) DataFrame() dataframe.DataFrame {
	return t.df
}

// Records returns the table as string records with a header row, including
// parsed date columns (RFC 3339) in column order. Missing values are empty.
func (t *Table) Records() [][]string {
	out := make([][]string, 0, t.Nrow()+1)
	out = append(out, t.Names())

	cols := make([][]string, len(t.columns))
	for j, name := range t.columns {
		if ts, ok := t.times[name]; ok {
			col := make([]string, len(ts))
			for i, v := range ts {
				col[i] = v.Format(time.RFC3339)
			}
			cols[j] = col
			continue
		}
		vals, missing, _ := t.Strings(name)
		col := make([]string, len(vals))
		for i, v := range vals {
			if !missing[i] {
				col[i] = v
			}
		}
		cols[j] = col
	}

	for i := 0; i < t.Nrow(); i++ {
		row := make([]string, len(cols))
		for j := range cols {
			row[j] = cols[j][i]
		}
		out = append(out, row)
	}
	return out
}

func subset(df dataframe.DataFrame, rows []int) (dataframe.DataFrame, error) {
	if len(rows) == 0 {
		out := emptyFrame(df.Names(), df.Types())
		return out, out.Err
	}
	out := df.Subset(rows)
	if out.Err != nil {
		return out, fmt.Errorf("failed to subset rows: %w", out.Err)
	}
	return out, nil
}

// emptyFrame builds a zero-row frame. Columns default to string when types is nil.
func emptyFrame(names []string, types []series.Type) dataframe.DataFrame {
	cols := make([]series.Series, 0, len(names))
	for i, name := range names {
		typ := series.String
		if types != nil {
			typ = types[i]
		}
		cols = append(cols, series.New([]string{}, typ, name))
	}
	return dataframe.New(cols...)
}

func pick(ts []time.Time, rows []int) []time.Time {
	out := make([]time.Time, len(rows))
	for i, r := range rows {
		out[i] = ts[r]
	}
	return out
}

// IsMissing reports whether a float value stands for a missing cell
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}
