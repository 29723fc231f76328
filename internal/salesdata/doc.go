// Package salesdata holds the in-memory sales record table shared by every
// pipeline step.
//
// A Table wraps a gota DataFrame for the columns read from the input file and
// keeps parsed date columns alongside it, since gota has no temporal series
// type. One date column may be promoted to the row index with SetIndex; the
// promotion removes it from the column set.
//
// Tables are not safe for concurrent use. The pipeline owns a single table and
// mutates it in place (date parsing, cleaning, reindexing) before handing it
// to the read-only summary and chart steps.
package salesdata
