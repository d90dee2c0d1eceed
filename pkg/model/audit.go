// pkg/model/audit.go
package model

import (
	"time"
)

// ConversionOperation records a single column type conversion attempt
type ConversionOperation struct {
	ID            string    // Operation identifier (UUID)
	TableName     string    // Table the column belongs to
	ColumnName    string    // Column that was converted
	FromType      DataType  // Type before the conversion
	ToType        DataType  // Requested target type
	RowCount      int       // Rows examined
	ConvertedRows int       // Rows that produced a non-empty value
	Succeeded     bool      // Whether the conversion was committed
	FailureReason string    // Human-readable reason when Succeeded is false
	ConvertedAt   time.Time // When the conversion ran (set by database)
}

// ConversionRequest names one column conversion to perform
type ConversionRequest struct {
	TableName  string
	ColumnName string
	TargetType DataType
}
