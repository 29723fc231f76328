package dataprocessing

import (
	"fmt"

	"salescli/internal/salesdata"
)

// CleanReport records how many rows the cleaner removed
type CleanReport struct {
	RowsBefore int
	RowsAfter  int
}

// Dropped returns the number of removed rows
func (r CleanReport) Dropped() int {
	return r.RowsBefore - r.RowsAfter
}

// DropMissing removes every row with a missing value in any column. Rows are
// kept in their original order.
func DropMissing(t *salesdata.Table) (CleanReport, error) {
	report := CleanReport{RowsBefore: t.Nrow()}

	missing := t.MissingRows()
	keep := make([]int, 0, len(missing))
	for i, m := range missing {
		if !m {
			keep = append(keep, i)
		}
	}

	if err := t.Filter(keep); err != nil {
		return report, fmt.Errorf("drop rows with missing values: %w", err)
	}
	report.RowsAfter = t.Nrow()
	return report, nil
}
