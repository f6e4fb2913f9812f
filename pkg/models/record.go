package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Contract column names. They are fixed and not user-configurable.
const (
	ColumnDate    = "Date"
	ColumnProduct = "Product"
	ColumnRegion  = "Region"
	ColumnAmount  = "Sales Amount"
)

// ContractColumns lists the contract columns in the order used when naming
// missing columns.
var ContractColumns = []string{ColumnDate, ColumnProduct, ColumnRegion, ColumnAmount}

// RawRow maps a column header to the raw cell text, as produced by a record source.
type RawRow map[string]string

// Table is what a record source yields: the headers it declares and its rows.
type Table struct {
	Columns []string
	Rows    []RawRow
}

// SalesRecord is a validated row. Every field is either a typed value or an
// explicit absent/invalid marker.
type SalesRecord struct {
	Line    int
	Date    Field[time.Time]
	Product Field[string]
	Region  Field[string]
	Amount  Field[decimal.Decimal]
}
