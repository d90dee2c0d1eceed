// pkg/inference/convert.go
package inference

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/chartforge/dataset-ingress/pkg/converter"
	"github.com/chartforge/dataset-ingress/pkg/model"
)

// Engine applies column type conversions with rollback on failure
type Engine struct {
	converter *converter.TypeConverter
	logger    *zap.Logger
}

// NewEngine creates a conversion engine
func NewEngine(tc *converter.TypeConverter, logger *zap.Logger) (*Engine, error) {
	if tc == nil {
		return nil, errors.New("type converter cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Engine{converter: tc, logger: logger}, nil
}

// ConvertColumn coerces every row's value for col to the target type and
// writes the results into dest. Rows of source and dest must be
// index-aligned; conversions on the same table must be serialized by the
// caller. Either every row value is replaced and the column's type
// updated, or the prior type is restored and dest is left untouched. A
// nil return means the conversion was committed; a non-nil error carries
// a user-presentable message and never a partial write.
func (e *Engine) ConvertColumn(dest *model.Table, col *model.Column, source *model.Table, target model.DataType) error {
	srcCol := source.GetColumnByName(col.Name)
	if srcCol == nil {
		return fmt.Errorf("column %q not found in table %q", col.Name, source.Name)
	}
	if len(dest.Rows) != len(source.Rows) {
		return fmt.Errorf("table %q: destination has %d rows, source has %d",
			source.Name, len(dest.Rows), len(source.Rows))
	}

	// Prefer the untransformed source values when the column carries a
	// raw companion
	values := make([]string, len(source.Rows))
	for i, row := range source.Rows {
		values[i] = model.Stringify(source.SourceValue(row, col))
	}

	typeBeforeChange := col.Type
	col.Type = target

	// The declared type must hold for the column's own data, so gate on
	// the classifier before touching any values
	var converted []interface{}
	var err error
	if !CheckConversion(target, values) {
		err = fmt.Errorf("not every value is convertible from %s to %s",
			typeBeforeChange, target)
	} else {
		converted, err = e.converter.ConvertColumn(values, target)
	}
	if err == nil && countNonEmpty(converted) == 0 {
		// A column of nothing but empty cells is a failed conversion,
		// not a vacuous success
		err = fmt.Errorf("conversion from %s to %s produced no values",
			typeBeforeChange, target)
	}

	if err != nil {
		col.Type = typeBeforeChange
		e.logger.Warn("Column conversion failed",
			zap.String("table", source.Name),
			zap.String("column", srcCol.Name),
			zap.String("fromType", string(typeBeforeChange)),
			zap.String("toType", string(target)),
			zap.Error(err))
		return fmt.Errorf("unable to convert column %q to %s: %w", srcCol.Name, target, err)
	}

	for i, row := range dest.Rows {
		row[col.Name] = converted[i]
	}
	return nil
}

// countNonEmpty counts converted cells holding a usable value
func countNonEmpty(values []interface{}) int {
	n := 0
	for _, v := range values {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		n++
	}
	return n
}
