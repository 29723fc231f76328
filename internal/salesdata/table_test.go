package salesdata

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `ORDERNUMBER,QUANTITYORDERED,SALES,ORDERDATE,PRODUCTLINE,STATE
10107,30,2871.00,2/24/2003 0:00,Motorcycles,NY
10121,34,2765.90,5/7/2003 0:00,Motorcycles,
10134,41,3884.34,not a date,Classic Cars,CA
10145,45,,8/25/2003 0:00,Trucks and Buses,CA
`

func parseUS(s string) (time.Time, error) {
	return time.Parse("1/2/2006 15:04", s)
}

func mustRead(t *testing.T, data string) *Table {
	t.Helper()
	tbl, err := ReadCSV(strings.NewReader(data))
	require.NoError(t, err)
	return tbl
}

func TestReadCSV_DetectsTypes(t *testing.T) {
	tbl := mustRead(t, sampleCSV)

	assert.Equal(t, 4, tbl.Nrow())
	assert.Equal(t, []string{"ORDERNUMBER", "QUANTITYORDERED", "SALES", "ORDERDATE", "PRODUCTLINE", "STATE"}, tbl.Names())

	tests := []struct {
		column   string
		expected string
	}{
		{"ORDERNUMBER", TypeInt},
		{"QUANTITYORDERED", TypeInt},
		{"SALES", TypeFloat},
		{"ORDERDATE", TypeString},
		{"PRODUCTLINE", TypeString},
		{"MISSING", ""},
	}
	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			assert.Equal(t, tt.expected, tbl.ColumnType(tt.column))
		})
	}

	assert.True(t, tbl.IsNumeric("SALES"))
	assert.False(t, tbl.IsNumeric("PRODUCTLINE"))
}

func TestReadCSV_Malformed(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("A,B\n1,2,3\n"))
	assert.Error(t, err)
}

func TestMissingRows(t *testing.T) {
	tbl := mustRead(t, sampleCSV)

	assert.Equal(t, []bool{false, true, false, true}, tbl.MissingRows())

	sales, ok := tbl.Floats("SALES")
	require.True(t, ok)
	assert.True(t, IsMissing(sales[3]))
	assert.InDelta(t, 2871.0, sales[0], 1e-9)
}

func TestParseTimes(t *testing.T) {
	tbl := mustRead(t, sampleCSV)

	dropped, err := tbl.ParseTimes("ORDERDATE", parseUS)
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)
	assert.Equal(t, 3, tbl.Nrow())
	assert.Equal(t, TypeTime, tbl.ColumnType("ORDERDATE"))

	ts, ok := tbl.Times("ORDERDATE")
	require.True(t, ok)
	require.Len(t, ts, 3)
	assert.Equal(t, time.February, ts[0].Month())
	assert.Equal(t, time.August, ts[2].Month())

	orders, ok := tbl.Floats("ORDERNUMBER")
	require.True(t, ok)
	assert.Equal(t, []float64{10107, 10121, 10145}, orders)

	again, err := tbl.ParseTimes("ORDERDATE", parseUS)
	require.NoError(t, err)
	assert.Zero(t, again)

	_, err = tbl.ParseTimes("NOPE", parseUS)
	assert.Error(t, err)
}

func TestFilter(t *testing.T) {
	tbl := mustRead(t, sampleCSV)
	_, err := tbl.ParseTimes("ORDERDATE", parseUS)
	require.NoError(t, err)

	require.NoError(t, tbl.Filter([]int{0, 1, 2}))
	assert.Equal(t, 3, tbl.Nrow())

	require.NoError(t, tbl.Filter([]int{2}))
	assert.Equal(t, 1, tbl.Nrow())
	ts, _ := tbl.Times("ORDERDATE")
	assert.Equal(t, time.August, ts[0].Month())

	require.NoError(t, tbl.Filter(nil))
	assert.Equal(t, 0, tbl.Nrow())
	assert.Equal(t, TypeFloat, tbl.ColumnType("SALES"))
}

func TestSetIndex(t *testing.T) {
	tbl := mustRead(t, sampleCSV)

	assert.Error(t, tbl.SetIndex("ORDERDATE"), "text columns cannot become the index")

	_, err := tbl.ParseTimes("ORDERDATE", parseUS)
	require.NoError(t, err)
	require.NoError(t, tbl.SetIndex("ORDERDATE"))

	assert.True(t, tbl.IndexIs("ORDERDATE"))
	assert.False(t, tbl.IndexIs("SALES"))
	assert.False(t, tbl.HasColumn("ORDERDATE"))
	assert.NotContains(t, tbl.Names(), "ORDERDATE")

	idx, name, ok := tbl.Index()
	require.True(t, ok)
	assert.Equal(t, "ORDERDATE", name)
	assert.Len(t, idx, 3)

	require.NoError(t, tbl.Filter([]int{1}))
	idx, _, _ = tbl.Index()
	assert.Equal(t, time.May, idx[0].Month())
}

func TestRecords(t *testing.T) {
	tbl := mustRead(t, sampleCSV)
	_, err := tbl.ParseTimes("ORDERDATE", parseUS)
	require.NoError(t, err)

	records := tbl.Records()
	require.Len(t, records, 4)
	assert.Equal(t, tbl.Names(), records[0])
	assert.Equal(t, "2003-02-24T00:00:00Z", records[1][3])
	assert.Equal(t, "", records[2][5], "missing values are written empty")
	assert.Equal(t, "", records[3][2])
}

func TestIsMissing(t *testing.T) {
	assert.True(t, IsMissing(math.NaN()))
	assert.False(t, IsMissing(0))
}

func TestReadCSV_HeaderOnly(t *testing.T) {
	tbl := mustRead(t, "ORDERNUMBER,SALES,ORDERDATE,PRODUCTLINE\n")

	assert.Equal(t, 0, tbl.Nrow())
	assert.Equal(t, []string{"ORDERNUMBER", "SALES", "ORDERDATE", "PRODUCTLINE"}, tbl.Names())
	assert.Equal(t, TypeString, tbl.ColumnType("SALES"))

	dropped, err := tbl.ParseTimes("ORDERDATE", parseUS)
	require.NoError(t, err)
	assert.Zero(t, dropped)
	require.NoError(t, tbl.SetIndex("ORDERDATE"))
	assert.Empty(t, tbl.MissingRows())
}

func TestReadCSV_Empty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestParseTimes_OnlyColumn(t *testing.T) {
	tbl := mustRead(t, "ORDERDATE\n2/24/2003 0:00\nnot a date\n5/7/2003 0:00\n")

	dropped, err := tbl.ParseTimes("ORDERDATE", parseUS)
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)
	assert.Equal(t, 2, tbl.Nrow())
	assert.Equal(t, []string{"ORDERDATE"}, tbl.Names())
	assert.Equal(t, []bool{false, false}, tbl.MissingRows())

	records := tbl.Records()
	require.Len(t, records, 3)
	assert.Equal(t, "2003-05-07T00:00:00Z", records[2][0])

	require.NoError(t, tbl.SetIndex("ORDERDATE"))
	assert.Equal(t, 2, tbl.Nrow())
	assert.Empty(t, tbl.Names())

	require.NoError(t, tbl.Filter([]int{1}))
	idx, _, _ := tbl.Index()
	require.Len(t, idx, 1)
	assert.Equal(t, time.May, idx[0].Month())
}
