// pkg/converter/converter.go
package converter

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/chartforge/dataset-ingress/pkg/model"
)

// TypeConverter handles conversion of stringified column values into
// typed cell values
type TypeConverter struct {
	logger *zap.Logger
	// Configuration options
	config TypeConverterConfig
}

// TypeConverterConfig provides configuration options for value conversion
type TypeConverterConfig struct {
	// Whether empty strings become nil cells rather than empty strings
	EmptyStringAsNull bool
	// Whether to trim surrounding whitespace before parsing
	TrimWhitespace bool
	// Unit of bare numeric timestamps: "ms" or "s"
	TimestampUnit string
}

// DefaultConfig returns the default configuration
func DefaultConfig() TypeConverterConfig {
	return TypeConverterConfig{
		EmptyStringAsNull: true,
		TrimWhitespace:    true,
		// Charting frontends serialize timestamps in milliseconds
		TimestampUnit: "ms",
	}
}

// NewTypeConverter creates a new TypeConverter with default configuration
func NewTypeConverter(logger *zap.Logger) *TypeConverter {
	return NewTypeConverterWithConfig(logger, DefaultConfig())
}

// NewTypeConverterWithConfig creates a TypeConverter with custom configuration
func NewTypeConverterWithConfig(logger *zap.Logger, config TypeConverterConfig) *TypeConverter {
	return &TypeConverter{
		logger: logger,
		config: config,
	}
}

// ConvertColumn maps each stringified raw value to a value typed for the
// target data type. The result is index-aligned with the input. Malformed
// values become nil placeholders rather than errors; only an unknown
// target type fails the whole column.
func (c *TypeConverter) ConvertColumn(values []string, target model.DataType) ([]interface{}, error) {
	var convert func(string) interface{}

	switch target {
	case model.TypeString:
		convert = c.convertToString
	case model.TypeNumber:
		convert = c.convertToNumber
	case model.TypeBoolean:
		convert = c.convertToBoolean
	case model.TypeDate:
		convert = c.convertToDate
	default:
		c.logger.Warn("Unknown target data type requested",
			zap.String("targetType", string(target)))
		return nil, fmt.Errorf("no converter registered for data type %q", target)
	}

	converted := make([]interface{}, len(values))
	for i, value := range values {
		converted[i] = convert(value)
	}
	return converted, nil
}
