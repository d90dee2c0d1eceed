// pkg/model/table.go
package model

import (
	"fmt"
	"strings"
	"time"
)

// Row maps column names to cell values for a single record
type Row map[string]interface{}

// ColumnMetadata carries presentation and provenance hints for a column
type ColumnMetadata struct {
	Kind DataKind // Semantic role (categorical, numerical, ...)
	// RawColumnName names a hidden companion column holding the
	// untransformed source values, when one exists
	RawColumnName string
	Order         string // Optional ordering hint for ordinal columns
	Unit          string // Optional unit label for numerical columns
}

// Column represents metadata about a dataset column
type Column struct {
	Name     string         // Column name, unique within its table
	Type     DataType       // Current value representation
	Metadata ColumnMetadata // Semantic and provenance metadata
}

// Table is an in-memory dataset table: ordered columns over ordered rows
type Table struct {
	Name    string
	Columns []Column
	Rows    []Row
}

// GetColumnByName returns a column by name (case-insensitive)
// Returns nil if column not found
func (t *Table) GetColumnByName(name string) *Column {
	normalized := normalizeColumnName(name)
	for i, col := range t.Columns {
		if normalizeColumnName(col.Name) == normalized {
			return &t.Columns[i]
		}
	}
	return nil
}

// SourceValue extracts the value of col from row for conversion purposes.
// The raw companion column takes precedence over the named column, but a
// raw value that is nil, empty, false, or zero falls through to the named
// column. This mirrors the lookup the authoring application has always
// used; legitimately falsy raw values are therefore shadowed by the
// display value.
func (t *Table) SourceValue(row Row, col *Column) interface{} {
	if col.Metadata.RawColumnName != "" {
		if raw, ok := row[col.Metadata.RawColumnName]; ok && !IsFalsy(raw) {
			return raw
		}
	}
	return row[col.Name]
}

// IsFalsy reports whether a cell value counts as absent for the purposes
// of the raw-column fallback and of stringification before conversion
func IsFalsy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case bool:
		return !val
	case float64:
		return val == 0
	case float32:
		return val == 0
	case int:
		return val == 0
	case int32:
		return val == 0
	case int64:
		return val == 0
	}
	return false
}

// Stringify renders a cell value as the string form fed to the typed
// converter. Falsy values stay empty rather than becoming "0" or "false".
func Stringify(v interface{}) string {
	if IsFalsy(v) {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func normalizeColumnName(name string) string {
	return strings.ToLower(name)
}
