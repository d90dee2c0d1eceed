// pkg/model/types.go
package model

// DataType is the underlying representation of a column's values
type DataType string

const (
	TypeString  DataType = "string"
	TypeNumber  DataType = "number"
	TypeBoolean DataType = "boolean"
	TypeDate    DataType = "date"
)

// DataKind is the semantic role a column plays in a chart
type DataKind string

const (
	KindCategorical DataKind = "categorical"
	KindOrdinal     DataKind = "ordinal"
	KindNumerical   DataKind = "numerical"
	KindTemporal    DataKind = "temporal"
)

// Valid reports whether t is one of the known data types
func (t DataType) Valid() bool {
	switch t {
	case TypeString, TypeNumber, TypeBoolean, TypeDate:
		return true
	}
	return false
}
