package batch

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/chartforge/dataset-ingress/pkg/audit"
	"github.com/chartforge/dataset-ingress/pkg/inference"
	"github.com/chartforge/dataset-ingress/pkg/model"
)

// TableJob bundles one table with its pending conversion requests.
// Source holds the pre-conversion values; it is usually the same table
// as Dest, and their rows must be index-aligned.
type TableJob struct {
	Dest     *model.Table
	Source   *model.Table
	Requests []model.ConversionRequest
}

// Result reports the outcome of one table's conversions
type Result struct {
	Table      string
	Operations []model.ConversionOperation
}

// ConversionRecorder persists audit records for completed conversions
type ConversionRecorder interface {
	RecordConversions([]model.ConversionOperation) error
}

// Service applies column conversions across tables with a worker pool.
// Conversions within one table run serially; tables convert in parallel.
type Service struct {
	engine      *inference.Engine
	recorder    ConversionRecorder
	logger      *zap.Logger
	workerCount int
}

// NewService creates a batch conversion service. recorder may be nil to
// disable auditing; workerCount 0 uses the number of CPUs.
func NewService(engine *inference.Engine, recorder ConversionRecorder, logger *zap.Logger, workerCount int) (*Service, error) {
	if engine == nil {
		return nil, errors.New("conversion engine cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}
	return &Service{
		engine:      engine,
		recorder:    recorder,
		logger:      logger,
		workerCount: workerCount,
	}, nil
}

// PromoteRequests builds the conversion requests that materialize a
// freshly loaded table's inferred column types. Loaded cells are text
// until converted; every non-string column gets an identity conversion
// to its own inferred type.
func PromoteRequests(t *model.Table) []model.ConversionRequest {
	var requests []model.ConversionRequest
	for _, col := range t.Columns {
		if col.Type == model.TypeString {
			continue
		}
		requests = append(requests, model.ConversionRequest{
			TableName:  t.Name,
			ColumnName: col.Name,
			TargetType: col.Type,
		})
	}
	return requests
}

// Run processes all jobs and returns metrics for the run. Individual
// column failures are contained, audited, and counted; Run only fails on
// a recorder error.
func (s *Service) Run(ctx context.Context, jobs []TableJob) (*Metrics, error) {
	metrics := NewMetrics()

	jobQueue := make(chan TableJob)
	results := make(chan Result, len(jobs))

	var wg sync.WaitGroup
	for i := 0; i < s.workerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			logger := s.logger.With(zap.Int("workerID", workerID))
			for job := range jobQueue {
				results <- s.processJob(ctx, job, logger, metrics)
			}
		}(i)
	}

	for _, job := range jobs {
		select {
		case jobQueue <- job:
		case <-ctx.Done():
			close(jobQueue)
			wg.Wait()
			close(results)
			metrics.finish()
			return metrics, ctx.Err()
		}
	}
	close(jobQueue)
	wg.Wait()
	close(results)
	metrics.finish()

	if s.recorder != nil {
		var operations []model.ConversionOperation
		for result := range results {
			operations = append(operations, result.Operations...)
		}
		if err := s.recorder.RecordConversions(operations); err != nil {
			return metrics, err
		}
	}

	return metrics, nil
}

// processJob applies a table's conversion requests one after another
func (s *Service) processJob(ctx context.Context, job TableJob, logger *zap.Logger, metrics *Metrics) Result {
	metrics.recordTable()
	result := Result{Table: job.Dest.Name}

	for _, request := range job.Requests {
		if ctx.Err() != nil {
			break
		}

		col := job.Dest.GetColumnByName(request.ColumnName)
		rowCount := len(job.Source.Rows)

		fromType := request.TargetType
		if col != nil {
			fromType = col.Type
		}

		var err error
		if col == nil {
			err = errors.New("column not present in table")
		} else {
			err = s.engine.ConvertColumn(job.Dest, col, job.Source, request.TargetType)
		}

		converted := 0
		if col != nil && err == nil {
			converted = countUsable(job.Dest, col)
		}

		op := audit.NewOperation(
			job.Dest.Name, request.ColumnName,
			fromType, request.TargetType,
			rowCount, converted, err)
		result.Operations = append(result.Operations, op)

		if err != nil {
			metrics.recordFailure(job.Dest.Name)
			logger.Warn("Conversion request failed",
				zap.String("table", job.Dest.Name),
				zap.String("column", request.ColumnName),
				zap.String("targetType", string(request.TargetType)),
				zap.Error(err))
			continue
		}

		metrics.recordSuccess(converted)
	}

	return result
}

// countUsable counts rows holding a non-empty value for col
func countUsable(t *model.Table, col *model.Column) int {
	n := 0
	for _, row := range t.Rows {
		v := row[col.Name]
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
