package converter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chartforge/dataset-ingress/pkg/model"
)

func TestConvertColumnNumber(t *testing.T) {
	c := NewTypeConverter(zap.NewNop())

	got, err := c.ConvertColumn([]string{"1", " 2.5 ", "-3e2", "abc", "NaN", ""}, model.TypeNumber)
	require.NoError(t, err)

	assert.Equal(t, []interface{}{1.0, 2.5, -300.0, nil, nil, nil}, got)
}

func TestConvertColumnBoolean(t *testing.T) {
	c := NewTypeConverter(zap.NewNop())

	got, err := c.ConvertColumn([]string{"yes", "No", "TRUE", "f", "0", "on", "maybe", ""}, model.TypeBoolean)
	require.NoError(t, err)

	assert.Equal(t, []interface{}{true, false, true, false, false, true, nil, nil}, got)
}

func TestConvertColumnString(t *testing.T) {
	c := NewTypeConverter(zap.NewNop())

	got, err := c.ConvertColumn([]string{"alpha", " padded ", ""}, model.TypeString)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"alpha", "padded", nil}, got)

	// Without EmptyStringAsNull the empty cell stays a string
	c = NewTypeConverterWithConfig(zap.NewNop(), TypeConverterConfig{
		EmptyStringAsNull: false,
		TrimWhitespace:    false,
	})
	got, err = c.ConvertColumn([]string{"", " padded "}, model.TypeString)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"", " padded "}, got)
}

func TestConvertColumnDate(t *testing.T) {
	c := NewTypeConverter(zap.NewNop())

	got, err := c.ConvertColumn([]string{"2021-03-04", "not a date", ""}, model.TypeDate)
	require.NoError(t, err)

	require.IsType(t, time.Time{}, got[0])
	parsed := got[0].(time.Time)
	assert.Equal(t, 2021, parsed.Year())
	assert.Equal(t, time.March, parsed.Month())
	assert.Equal(t, 4, parsed.Day())
	assert.Nil(t, got[1])
	assert.Nil(t, got[2])
}

func TestConvertColumnDateFromTimestamp(t *testing.T) {
	// Default unit is milliseconds
	c := NewTypeConverter(zap.NewNop())
	got, err := c.ConvertColumn([]string{"1609459200000"}, model.TypeDate)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), got[0])

	// Seconds when configured
	c = NewTypeConverterWithConfig(zap.NewNop(), TypeConverterConfig{
		TrimWhitespace: true,
		TimestampUnit:  "s",
	})
	got, err = c.ConvertColumn([]string{"1609459200"}, model.TypeDate)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), got[0])
}

func TestConvertColumnUnknownType(t *testing.T) {
	c := NewTypeConverter(zap.NewNop())

	_, err := c.ConvertColumn([]string{"x"}, model.DataType("blob"))
	assert.Error(t, err)
}

func TestConvertColumnIndexAligned(t *testing.T) {
	c := NewTypeConverter(zap.NewNop())

	values := []string{"1", "bad", "3"}
	got, err := c.ConvertColumn(values, model.TypeNumber)
	require.NoError(t, err)
	assert.Len(t, got, len(values))
}

func TestDetectTimeFormat(t *testing.T) {
	tests := []struct {
		value string
		found bool
	}{
		{"2021-01-02T10:00:00Z", true},
		{"2021-01-02 10:00:00", true},
		{"2021-01-02", true},
		{"01/02/2021", true},
		{"Jan 2, 2021", true},
		{"not a date", false},
		{"1609459200000", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			format := DetectTimeFormat(tt.value)
			if tt.found {
				assert.NotEmpty(t, format)
			} else {
				assert.Empty(t, format)
			}
		})
	}
}
