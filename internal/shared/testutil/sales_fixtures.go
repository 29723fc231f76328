package testutil

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// SalesHeader is the column layout of the generated sales fixtures
var SalesHeader = []string{"ORDERNUMBER", "QUANTITYORDERED", "SALES", "ORDERDATE", "PRODUCTLINE"}

// ProductLines are cycled through by SalesRecords
var ProductLines = []string{"Motorcycles", "Classic Cars", "Trucks and Buses"}

// SalesRecords builds a header and n data rows. Rows cycle through
// ProductLines and alternate between January and February 2004; the SALES
// value of row i is 1000 + 10*i.
func SalesRecords(n int) [][]string {
	records := [][]string{SalesHeader}
	for i := 0; i < n; i++ {
		month := 1 + i%2
		records = append(records, []string{
			fmt.Sprintf("%d", 10100+i),
			fmt.Sprintf("%d", 20+i%30),
			fmt.Sprintf("%d.50", 1000+i*10),
			fmt.Sprintf("%d/%d/2004 0:00", month, i%28+1),
			ProductLines[i%len(ProductLines)],
		})
	}
	return records
}

// SalesTotal is the sum of the SALES column produced by SalesRecords(n)
func SalesTotal(n int) float64 {
	var total float64
	for i := 0; i < n; i++ {
		total += float64(1000+i*10) + 0.5
	}
	return total
}

// WriteCSV writes records to name inside a fresh temporary directory and
// returns the file path.
func WriteCSV(t *testing.T, name string, records [][]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}
