// pkg/inference/candidates.go
package inference

import (
	"github.com/chartforge/dataset-ingress/pkg/model"
)

// convertibleKinds maps a column's current data type to the semantic
// kinds meaningful for it
var convertibleKinds = map[model.DataType][]model.DataKind{
	model.TypeBoolean: {model.KindOrdinal, model.KindCategorical},
	model.TypeDate:    {model.KindCategorical, model.KindOrdinal, model.KindTemporal},
	model.TypeString:  {model.KindCategorical, model.KindOrdinal},
	model.TypeNumber:  {model.KindCategorical, model.KindNumerical, model.KindOrdinal},
}

// convertibleTypes maps a column's current data type to the superset of
// candidate target types, before sample-based filtering
var convertibleTypes = map[model.DataType][]model.DataType{
	model.TypeBoolean: {model.TypeNumber, model.TypeString, model.TypeBoolean},
	model.TypeDate:    {model.TypeNumber, model.TypeString, model.TypeDate},
	model.TypeString:  {model.TypeNumber, model.TypeString, model.TypeBoolean, model.TypeDate},
	model.TypeNumber:  {model.TypeNumber, model.TypeString, model.TypeBoolean, model.TypeDate},
}

// ConvertibleKinds returns the semantic kinds a column of the given type
// can take on
func ConvertibleKinds(t model.DataType) []model.DataKind {
	kinds := convertibleKinds[t]
	out := make([]model.DataKind, len(kinds))
	copy(out, kinds)
	return out
}

// ConvertibleTypes returns the target types a column of the given type can
// be converted to. The current type is always included. When a sample is
// supplied, every other candidate is kept only if the classifier accepts
// the sample for it; a nil sample skips filtering and returns the full
// candidate list.
func ConvertibleTypes(t model.DataType, sample []string) []model.DataType {
	candidates := convertibleTypes[t]

	if sample == nil {
		out := make([]model.DataType, len(candidates))
		copy(out, candidates)
		return out
	}

	out := make([]model.DataType, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate == t || CheckConversion(candidate, sample) {
			out = append(out, candidate)
		}
	}
	return out
}
