// pkg/source/loader.go
package source

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/chartforge/dataset-ingress/pkg/inference"
	"github.com/chartforge/dataset-ingress/pkg/model"
)

const (
	listTablesTimeout = 30 * time.Second
	loadTableTimeout  = 5 * time.Minute

	// Suffix of the hidden companion column holding pre-coercion values
	rawColumnSuffix = "_raw"
)

// Loader reads database tables into the in-memory dataset model
type Loader struct {
	conn       DatabaseConnector
	logger     *zap.Logger
	sampleSize int
}

// NewLoader creates a table loader over an open connector
func NewLoader(conn DatabaseConnector, logger *zap.Logger, sampleSize int) (*Loader, error) {
	if conn == nil {
		return nil, errors.New("database connector cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if sampleSize <= 0 {
		return nil, errors.New("sample size must be positive")
	}
	return &Loader{
		conn:       conn,
		logger:     logger,
		sampleSize: sampleSize,
	}, nil
}

// ListTables returns the base table names of a schema
func (l *Loader) ListTables(ctx context.Context, schema string) ([]string, error) {
	query := l.conn.DB().Rebind(
		`SELECT table_name FROM information_schema.tables
		 WHERE table_schema = ? AND table_type = 'BASE TABLE'
		 ORDER BY table_name`)

	rows, err := l.conn.QueryWithTimeout(ctx, query, listTablesTimeout, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables in schema %q: %w", schema, err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tables in schema %q: %w", schema, err)
	}

	return tables, nil
}

// LoadTable reads a full table, infers each column's data type from a
// sample, and keeps pre-coercion originals addressable through the raw
// companion columns
func (l *Loader) LoadTable(ctx context.Context, schema, table string) (*model.Table, error) {
	query := fmt.Sprintf("SELECT * FROM %s.%s", quoteIdentifier(schema), quoteIdentifier(table))

	rows, err := l.conn.QueryWithTimeout(ctx, query, loadTableTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to read table %s.%s: %w", schema, table, err)
	}
	defer rows.Close()

	columnNames, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve columns of %s.%s: %w", schema, table, err)
	}

	t := &model.Table{Name: table}
	for rows.Next() {
		cells := make(map[string]interface{}, len(columnNames))
		if err := rows.MapScan(cells); err != nil {
			return nil, fmt.Errorf("failed to scan row of %s.%s: %w", schema, table, err)
		}

		row := make(model.Row, len(columnNames))
		for _, name := range columnNames {
			row[name] = normalizeCell(cells[name])
		}
		t.Rows = append(t.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows of %s.%s: %w", schema, table, err)
	}

	t.Columns = make([]model.Column, len(columnNames))
	for i, name := range columnNames {
		t.Columns[i] = model.Column{Name: name, Type: model.TypeString}
	}

	AnnotateTable(t, l.sampleSize)

	l.logger.Info("Loaded table",
		zap.String("schema", schema),
		zap.String("table", table),
		zap.Int("columns", len(t.Columns)),
		zap.Int("rows", len(t.Rows)))

	return t, nil
}

// AnnotateTable infers a data type and default kind for every column from
// a sample of its values, and materializes a raw companion column for
// columns that left plain text behind
func AnnotateTable(t *model.Table, sampleSize int) {
	for i := range t.Columns {
		col := &t.Columns[i]

		sample := inference.SampleColumn(t, col, sampleSize)
		col.Type = inference.InferType(sample)
		col.Metadata.Kind = defaultKind(col.Type)

		if col.Type != model.TypeString {
			raw := col.Name + rawColumnSuffix
			col.Metadata.RawColumnName = raw
			for _, row := range t.Rows {
				row[raw] = model.Stringify(row[col.Name])
			}
		}
	}
}

// defaultKind picks the semantic kind a freshly typed column starts with
func defaultKind(t model.DataType) model.DataKind {
	switch t {
	case model.TypeNumber:
		return model.KindNumerical
	case model.TypeDate:
		return model.KindTemporal
	default:
		return model.KindCategorical
	}
}

// normalizeCell folds driver-specific byte slices into strings
func normalizeCell(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// quoteIdentifier properly quotes and escapes an SQL identifier
func quoteIdentifier(name string) string {
	return fmt.Sprintf("\"%s\"", strings.ReplaceAll(name, "\"", "\"\""))
}
