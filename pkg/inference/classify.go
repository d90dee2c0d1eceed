// pkg/inference/classify.go
package inference

import (
	"math"
	"strconv"
	"strings"

	"github.com/chartforge/dataset-ingress/pkg/converter"
	"github.com/chartforge/dataset-ingress/pkg/model"
)

// booleanForms are the only string forms accepted when probing a sample
// for boolean convertibility. Deliberately narrower than what the value
// converter accepts at conversion time.
var booleanForms = map[string]bool{
	"0":     true,
	"1":     true,
	"true":  true,
	"false": true,
	"yes":   true,
	"no":    true,
}

// CheckConversion reports whether every non-empty value in the sample can
// be interpreted as the target type. Empty entries never disqualify a
// sample; a single incompatible value rejects it outright.
func CheckConversion(target model.DataType, sample []string) bool {
	switch target {
	case model.TypeString:
		// Everything has a string form
		return true

	case model.TypeBoolean:
		for _, value := range sample {
			if value == "" {
				continue
			}
			if !booleanForms[strings.ToLower(value)] {
				return false
			}
		}
		return true

	case model.TypeDate:
		for _, value := range sample {
			if value == "" {
				continue
			}
			if converter.DetectTimeFormat(value) != "" {
				continue
			}
			// Bare numbers count as epoch timestamps
			if num, err := strconv.ParseFloat(value, 64); err == nil && !math.IsNaN(num) {
				continue
			}
			return false
		}
		return true

	case model.TypeNumber:
		for _, value := range sample {
			if value == "" {
				continue
			}
			if num, err := strconv.ParseFloat(value, 64); err != nil || math.IsNaN(num) {
				return false
			}
		}
		return true
	}

	return false
}

// InferType picks an initial data type for a freshly loaded column based
// on a sample of its values: the narrowest type the whole sample fits,
// falling back to string
func InferType(sample []string) model.DataType {
	for _, candidate := range []model.DataType{model.TypeBoolean, model.TypeNumber, model.TypeDate} {
		if hasNonEmpty(sample) && CheckConversion(candidate, sample) {
			return candidate
		}
	}
	return model.TypeString
}

// SampleColumn draws up to n stringified values of col from the head of
// the table, using the raw-column fallback read
func SampleColumn(t *model.Table, col *model.Column, n int) []string {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	sample := make([]string, n)
	for i := 0; i < n; i++ {
		sample[i] = model.Stringify(t.SourceValue(t.Rows[i], col))
	}
	return sample
}

func hasNonEmpty(sample []string) bool {
	for _, value := range sample {
		if value != "" {
			return true
		}
	}
	return false
}
