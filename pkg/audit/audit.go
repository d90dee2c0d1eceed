// pkg/audit/audit.go
package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/chartforge/dataset-ingress/pkg/model"
)

// Recorder persists column conversion operations for later review
type Recorder struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewRecorder creates a Recorder and ensures the tracking table exists
func NewRecorder(db *sqlx.DB, logger *zap.Logger) (*Recorder, error) {
	if db == nil {
		return nil, errors.New("database connection cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	recorder := &Recorder{
		db:     db,
		logger: logger,
	}

	if err := recorder.setupTrackingTable(); err != nil {
		return nil, fmt.Errorf("failed to setup tracking table: %w", err)
	}

	return recorder, nil
}

// setupTrackingTable ensures the column_conversions tracking table exists
func (r *Recorder) setupTrackingTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	createTableSQL := `
		CREATE TABLE IF NOT EXISTS public.column_conversions (
			id UUID PRIMARY KEY,
			table_name TEXT NOT NULL,
			column_name TEXT NOT NULL,
			from_type TEXT NOT NULL,
			to_type TEXT NOT NULL,
			row_count INTEGER NOT NULL,
			converted_rows INTEGER NOT NULL,
			succeeded BOOLEAN NOT NULL,
			failure_reason TEXT,
			converted_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)
	`
	_, err := r.db.ExecContext(ctx, createTableSQL)
	if err != nil {
		return fmt.Errorf("failed to create tracking table: %w", err)
	}

	r.logger.Info("Ensured column_conversions table exists")
	return nil
}

// NewOperation builds an audit record for one conversion attempt
func NewOperation(
	tableName, columnName string,
	fromType, toType model.DataType,
	rowCount, convertedRows int,
	failure error,
) model.ConversionOperation {
	op := model.ConversionOperation{
		ID:            uuid.New().String(),
		TableName:     tableName,
		ColumnName:    columnName,
		FromType:      fromType,
		ToType:        toType,
		RowCount:      rowCount,
		ConvertedRows: convertedRows,
		Succeeded:     failure == nil,
	}
	if failure != nil {
		op.FailureReason = failure.Error()
	}
	return op
}

// RecordConversions batch inserts conversion operations into the tracking table
func (r *Recorder) RecordConversions(operations []model.ConversionOperation) error {
	if len(operations) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.logger.Error("Failed to rollback transaction",
					zap.Error(rbErr),
					zap.Error(err))
			}
		}
	}()

	insertSQL := `
		INSERT INTO public.column_conversions
		(id, table_name, column_name, from_type, to_type,
		 row_count, converted_rows, succeeded, failure_reason)
		VALUES (:id, :table_name, :column_name, :from_type, :to_type,
		 :row_count, :converted_rows, :succeeded, :failure_reason)
	`

	for _, op := range operations {
		_, err = tx.NamedExecContext(ctx, insertSQL, map[string]interface{}{
			"id":             op.ID,
			"table_name":     op.TableName,
			"column_name":    op.ColumnName,
			"from_type":      string(op.FromType),
			"to_type":        string(op.ToType),
			"row_count":      op.RowCount,
			"converted_rows": op.ConvertedRows,
			"succeeded":      op.Succeeded,
			"failure_reason": nullableString(op.FailureReason),
		})
		if err != nil {
			return fmt.Errorf("failed to insert conversion record for %s.%s: %w",
				op.TableName, op.ColumnName, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit conversion records: %w", err)
	}

	r.logger.Info("Recorded conversion operations",
		zap.Int("count", len(operations)))
	return nil
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
