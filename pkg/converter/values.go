// pkg/converter/values.go
package converter

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// convertToString passes a value through as text
func (c *TypeConverter) convertToString(value string) interface{} {
	if c.config.TrimWhitespace {
		value = strings.TrimSpace(value)
	}
	if value == "" && c.config.EmptyStringAsNull {
		return nil
	}
	return value
}

// convertToNumber parses a value as a float64, nil on failure
func (c *TypeConverter) convertToNumber(value string) interface{} {
	if c.config.TrimWhitespace {
		value = strings.TrimSpace(value)
	}
	if value == "" {
		return nil
	}

	num, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(num) {
		return nil
	}
	return num
}

// convertToBoolean parses a value as a bool, nil on failure
func (c *TypeConverter) convertToBoolean(value string) interface{} {
	value = strings.ToLower(strings.TrimSpace(value))
	switch value {
	case "true", "t", "yes", "y", "1", "on":
		return true
	case "false", "f", "no", "n", "0", "off":
		return false
	case "":
		return nil
	default:
		return nil
	}
}

// convertToDate parses a value as a time.Time, trying textual date
// formats first and bare numeric timestamps second. nil on failure.
func (c *TypeConverter) convertToDate(value string) interface{} {
	if c.config.TrimWhitespace {
		value = strings.TrimSpace(value)
	}
	if value == "" {
		return nil
	}

	if format := DetectTimeFormat(value); format != "" {
		parsed, err := time.Parse(format, value)
		if err == nil {
			return parsed
		}
	}

	// Bare numbers are timestamps relative to the Unix epoch
	if num, err := strconv.ParseFloat(value, 64); err == nil && !math.IsNaN(num) {
		return c.timeFromNumber(num)
	}

	return nil
}

// timeFromNumber interprets a numeric timestamp per the configured unit
func (c *TypeConverter) timeFromNumber(num float64) time.Time {
	if c.config.TimestampUnit == "s" {
		sec := int64(num)
		nsec := int64((num - float64(sec)) * 1e9)
		return time.Unix(sec, nsec).UTC()
	}
	return time.UnixMilli(int64(num)).UTC()
}

// DetectTimeFormat analyzes a value to determine its timestamp format
func DetectTimeFormat(value string) string {
	// Common formats to check
	formats := []string{
		time.RFC3339,                  // ISO8601 with timezone
		"2006-01-02T15:04:05Z",        // ISO8601 UTC
		"2006-01-02T15:04:05",         // ISO8601 without timezone
		"2006-01-02T15:04:05.999999Z", // ISO8601 with microseconds
		"2006-01-02 15:04:05",         // SQL timestamp
		"2006-01-02",                  // Date only
		"2006/01/02",
		"01/02/2006", // US date
		"01-02-2006",
		"Jan 2, 2006",
		"January 2, 2006",
		"20060102T150405Z", // Compact ISO8601
		time.RFC1123,
		time.RFC1123Z,
	}

	for _, format := range formats {
		_, err := time.Parse(format, value)
		if err == nil {
			return format
		}
	}

	return ""
}
