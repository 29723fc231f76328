package dataprocessing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"salescli/internal/salesdata"
	"salescli/internal/shared/testutil"
)

var salesHeader = testutil.SalesHeader

func writeCSV(t *testing.T, records [][]string) string {
	t.Helper()
	return testutil.WriteCSV(t, "sales.csv", records)
}

func loadTable(t *testing.T, records [][]string) *salesdata.Table {
	t.Helper()
	loader := NewLoader(nil, LoaderConfig{
		File:       writeCSV(t, records),
		Encodings:  []string{"latin-1"},
		DateColumn: "ORDERDATE",
	})
	table, _, err := loader.Load(context.Background())
	require.NoError(t, err)
	return table
}
