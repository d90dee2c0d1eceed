// pkg/source/workbook.go
package source

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/chartforge/dataset-ingress/pkg/model"
)

// WorkbookLoader reads Excel workbooks into the in-memory dataset model,
// one table per sheet
type WorkbookLoader struct {
	logger     *zap.Logger
	sampleSize int
}

// NewWorkbookLoader creates a workbook loader
func NewWorkbookLoader(logger *zap.Logger, sampleSize int) (*WorkbookLoader, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if sampleSize <= 0 {
		return nil, errors.New("sample size must be positive")
	}
	return &WorkbookLoader{logger: logger, sampleSize: sampleSize}, nil
}

// LoadWorkbook reads every non-empty sheet of an .xlsx file
func (w *WorkbookLoader) LoadWorkbook(path string) ([]*model.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %q: %w", path, err)
	}
	defer f.Close()

	var tables []*model.Table
	for _, sheet := range f.GetSheetList() {
		table, err := w.loadSheet(f, sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to load sheet %q: %w", sheet, err)
		}
		if table == nil {
			w.logger.Warn("Skipping empty sheet", zap.String("sheet", sheet))
			continue
		}
		tables = append(tables, table)
	}

	if len(tables) == 0 {
		return nil, fmt.Errorf("workbook %q contains no data", path)
	}

	w.logger.Info("Loaded workbook",
		zap.String("path", path),
		zap.Int("tables", len(tables)))

	return tables, nil
}

// loadSheet reads one sheet: first row is the header, the rest are records
func (w *WorkbookLoader) loadSheet(f *excelize.File, sheet string) (*model.Table, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		// Header only or nothing at all
		return nil, nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Column_%d", i+1)
		}
		headers[i] = h
	}

	t := &model.Table{Name: sheet}
	t.Columns = make([]model.Column, len(headers))
	for i, name := range headers {
		t.Columns[i] = model.Column{Name: name, Type: model.TypeString}
	}

	for _, record := range rows[1:] {
		row := make(model.Row, len(headers))
		for i, name := range headers {
			if i < len(record) {
				row[name] = record[i]
			} else {
				// Trailing empty cells are dropped by the reader
				row[name] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}

	AnnotateTable(t, w.sampleSize)
	return t, nil
}
