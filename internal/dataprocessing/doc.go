// Package dataprocessing turns a raw sales file into the figures reported by
// salescli.
//
// # Components
//
//  1. Loader: reads the delimited file with the first candidate text encoding
//     that decodes it, parses the date column and removes rows whose date
//     does not parse.
//  2. DropMissing: removes every row with a missing value in any column.
//  3. Summarizer: descriptive statistics for numeric columns, column types
//     and the distinct values of the category column, printed as tables.
//  4. Aggregations: monthly totals, top categories and month-of-year averages
//     feeding the charts.
//
// # Data Flow
//
//	CSV file → Loader → salesdata.Table → DropMissing → Summarizer
//	                                                  → SetIndex → aggregations → charts
//
// # Error Handling
//
// The Loader returns *errors.AppError values so the command can print the
// matching console diagnostic. Every other step reports problems it can
// recover from through the logger and carries on.
package dataprocessing
