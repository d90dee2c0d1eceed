package source

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/chartforge/dataset-ingress/pkg/model"
)

func writeTestWorkbook(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"city", "population", ""},
		{"Seattle", "737015", "x"},
		{"Portland", "652503", "y"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "cities.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoadWorkbook(t *testing.T) {
	path := writeTestWorkbook(t)

	loader, err := NewWorkbookLoader(zap.NewNop(), 100)
	require.NoError(t, err)

	tables, err := loader.LoadWorkbook(path)
	require.NoError(t, err)
	require.Len(t, tables, 1)

	table := tables[0]
	require.Len(t, table.Columns, 3)
	require.Len(t, table.Rows, 2)

	city := table.GetColumnByName("city")
	require.NotNil(t, city)
	assert.Equal(t, model.TypeString, city.Type)
	assert.Equal(t, "Seattle", table.Rows[0]["city"])

	population := table.GetColumnByName("population")
	require.NotNil(t, population)
	assert.Equal(t, model.TypeNumber, population.Type)
	assert.Equal(t, "737015", table.Rows[0][population.Metadata.RawColumnName])

	// Blank headers get positional names
	filler := table.GetColumnByName("Column_3")
	require.NotNil(t, filler)
	assert.Equal(t, model.TypeString, filler.Type)
}

func TestLoadWorkbookMissingFile(t *testing.T) {
	loader, err := NewWorkbookLoader(zap.NewNop(), 100)
	require.NoError(t, err)

	_, err = loader.LoadWorkbook(filepath.Join(t.TempDir(), "absent.xlsx"))
	assert.Error(t, err)
}

func TestNewWorkbookLoaderContract(t *testing.T) {
	_, err := NewWorkbookLoader(nil, 100)
	assert.Error(t, err)

	_, err = NewWorkbookLoader(zap.NewNop(), 0)
	assert.Error(t, err)
}
