package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chartforge/dataset-ingress/pkg/model"
)

func TestAnnotateTable(t *testing.T) {
	table := &model.Table{
		Name: "orders",
		Columns: []model.Column{
			{Name: "item", Type: model.TypeString},
			{Name: "count", Type: model.TypeString},
			{Name: "ordered_on", Type: model.TypeString},
		},
		Rows: []model.Row{
			{"item": "widget", "count": "3", "ordered_on": "2021-01-02"},
			{"item": "gadget", "count": "5", "ordered_on": "2021-02-03"},
		},
	}

	AnnotateTable(table, 100)

	item := table.GetColumnByName("item")
	require.NotNil(t, item)
	assert.Equal(t, model.TypeString, item.Type)
	assert.Equal(t, model.KindCategorical, item.Metadata.Kind)
	assert.Empty(t, item.Metadata.RawColumnName)

	count := table.GetColumnByName("count")
	require.NotNil(t, count)
	assert.Equal(t, model.TypeNumber, count.Type)
	assert.Equal(t, model.KindNumerical, count.Metadata.Kind)
	assert.Equal(t, "count_raw", count.Metadata.RawColumnName)
	assert.Equal(t, "3", table.Rows[0]["count_raw"])

	ordered := table.GetColumnByName("ordered_on")
	require.NotNil(t, ordered)
	assert.Equal(t, model.TypeDate, ordered.Type)
	assert.Equal(t, model.KindTemporal, ordered.Metadata.Kind)
	assert.Equal(t, "ordered_on_raw", ordered.Metadata.RawColumnName)
}

func TestAnnotateTableSampleBounded(t *testing.T) {
	// Only the sampled head decides the type; a later bad value shows up
	// at conversion time instead
	table := &model.Table{
		Name:    "partial",
		Columns: []model.Column{{Name: "v", Type: model.TypeString}},
		Rows: []model.Row{
			{"v": "1"},
			{"v": "2"},
			{"v": "oops"},
		},
	}

	AnnotateTable(table, 2)
	assert.Equal(t, model.TypeNumber, table.Columns[0].Type)
}

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, `"orders"`, quoteIdentifier("orders"))
	assert.Equal(t, `"odd""name"`, quoteIdentifier(`odd"name`))
}

func TestNormalizeCell(t *testing.T) {
	assert.Equal(t, "text", normalizeCell([]byte("text")))
	assert.Equal(t, 1.5, normalizeCell(1.5))
	assert.Nil(t, normalizeCell(nil))
}

func TestNewLoaderContract(t *testing.T) {
	_, err := NewLoader(nil, nil, 0)
	assert.Error(t, err)
}
