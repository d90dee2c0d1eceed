package batch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chartforge/dataset-ingress/pkg/converter"
	"github.com/chartforge/dataset-ingress/pkg/inference"
	"github.com/chartforge/dataset-ingress/pkg/model"
)

type captureRecorder struct {
	operations []model.ConversionOperation
}

func (r *captureRecorder) RecordConversions(ops []model.ConversionOperation) error {
	r.operations = append(r.operations, ops...)
	return nil
}

func newTestService(t *testing.T, recorder ConversionRecorder) *Service {
	t.Helper()
	engine, err := inference.NewEngine(converter.NewTypeConverter(zap.NewNop()), zap.NewNop())
	require.NoError(t, err)
	service, err := NewService(engine, recorder, zap.NewNop(), 2)
	require.NoError(t, err)
	return service
}

func flagTable() *model.Table {
	return &model.Table{
		Name: "survey",
		Columns: []model.Column{
			{Name: "flag", Type: model.TypeString},
		},
		Rows: []model.Row{
			{"flag": "yes"},
			{"flag": "no"},
		},
	}
}

func TestServiceRun(t *testing.T) {
	recorder := &captureRecorder{}
	service := newTestService(t, recorder)

	good := flagTable()
	bad := &model.Table{
		Name: "people",
		Columns: []model.Column{
			{Name: "name", Type: model.TypeString},
		},
		Rows: []model.Row{
			{"name": "ada"},
		},
	}

	jobs := []TableJob{
		{
			Dest:   good,
			Source: good,
			Requests: []model.ConversionRequest{
				{TableName: "survey", ColumnName: "flag", TargetType: model.TypeBoolean},
			},
		},
		{
			Dest:   bad,
			Source: bad,
			Requests: []model.ConversionRequest{
				{TableName: "people", ColumnName: "name", TargetType: model.TypeNumber},
			},
		},
	}

	metrics, err := service.Run(context.Background(), jobs)
	require.NoError(t, err)

	assert.Equal(t, 2, metrics.TablesProcessed)
	assert.Equal(t, 1, metrics.ConvertedColumns)
	assert.Equal(t, 1, metrics.FailedColumns)
	assert.Equal(t, int64(2), metrics.RowsConverted)
	assert.Equal(t, 1, metrics.FailuresByTable["people"])

	// Conversion applied
	assert.Equal(t, model.TypeBoolean, good.Columns[0].Type)
	assert.Equal(t, true, good.Rows[0]["flag"])

	// Failure contained and rolled back
	assert.Equal(t, model.TypeString, bad.Columns[0].Type)
	assert.Equal(t, "ada", bad.Rows[0]["name"])

	// Both attempts audited
	require.Len(t, recorder.operations, 2)
	for _, op := range recorder.operations {
		assert.NotEmpty(t, op.ID)
		switch op.TableName {
		case "survey":
			assert.True(t, op.Succeeded)
			assert.Equal(t, 2, op.ConvertedRows)
			assert.Equal(t, model.TypeString, op.FromType)
			assert.Equal(t, model.TypeBoolean, op.ToType)
		case "people":
			assert.False(t, op.Succeeded)
			assert.NotEmpty(t, op.FailureReason)
		default:
			t.Fatalf("unexpected table in audit: %s", op.TableName)
		}
	}
}

func TestServiceRunMissingColumn(t *testing.T) {
	recorder := &captureRecorder{}
	service := newTestService(t, recorder)

	table := flagTable()
	jobs := []TableJob{{
		Dest:   table,
		Source: table,
		Requests: []model.ConversionRequest{
			{TableName: "survey", ColumnName: "ghost", TargetType: model.TypeNumber},
		},
	}}

	metrics, err := service.Run(context.Background(), jobs)
	require.NoError(t, err)

	assert.Equal(t, 1, metrics.FailedColumns)
	require.Len(t, recorder.operations, 1)
	assert.False(t, recorder.operations[0].Succeeded)
}

func TestServiceRunNilRecorder(t *testing.T) {
	service := newTestService(t, nil)

	table := flagTable()
	jobs := []TableJob{{
		Dest:   table,
		Source: table,
		Requests: []model.ConversionRequest{
			{TableName: "survey", ColumnName: "flag", TargetType: model.TypeBoolean},
		},
	}}

	metrics, err := service.Run(context.Background(), jobs)
	require.NoError(t, err)
	assert.Equal(t, 1, metrics.ConvertedColumns)
}

func TestPromoteRequests(t *testing.T) {
	table := &model.Table{
		Name: "mixed",
		Columns: []model.Column{
			{Name: "label", Type: model.TypeString},
			{Name: "count", Type: model.TypeNumber},
			{Name: "when", Type: model.TypeDate},
		},
	}

	requests := PromoteRequests(table)
	require.Len(t, requests, 2)
	assert.Equal(t, "count", requests[0].ColumnName)
	assert.Equal(t, model.TypeNumber, requests[0].TargetType)
	assert.Equal(t, "when", requests[1].ColumnName)
	assert.Equal(t, model.TypeDate, requests[1].TargetType)
}

func TestNewServiceContract(t *testing.T) {
	_, err := NewService(nil, nil, zap.NewNop(), 1)
	assert.Error(t, err)

	engine, err := inference.NewEngine(converter.NewTypeConverter(zap.NewNop()), zap.NewNop())
	require.NoError(t, err)
	_, err = NewService(engine, nil, nil, 1)
	assert.Error(t, err)
}
