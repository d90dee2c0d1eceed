package batch

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Metrics tracks the outcome of a batch conversion run
type Metrics struct {
	mu               sync.Mutex
	StartTime        time.Time
	EndTime          time.Time
	TablesProcessed  int
	ConvertedColumns int
	FailedColumns    int
	RowsConverted    int64
	FailuresByTable  map[string]int
}

// NewMetrics creates a metrics tracker with the clock started
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime:       time.Now(),
		FailuresByTable: make(map[string]int),
	}
}

func (m *Metrics) recordTable() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TablesProcessed++
}

func (m *Metrics) recordSuccess(rows int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConvertedColumns++
	m.RowsConverted += int64(rows)
}

func (m *Metrics) recordFailure(table string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailedColumns++
	m.FailuresByTable[table]++
}

func (m *Metrics) finish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EndTime = time.Now()
}

// Duration returns the elapsed time of the run
func (m *Metrics) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.EndTime.IsZero() {
		return time.Since(m.StartTime)
	}
	return m.EndTime.Sub(m.StartTime)
}

// LogSummary writes a structured summary of the run
func (m *Metrics) LogSummary(logger *zap.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()

	logger.Info("Batch conversion summary",
		zap.Int("tables", m.TablesProcessed),
		zap.Int("converted_columns", m.ConvertedColumns),
		zap.Int("failed_columns", m.FailedColumns),
		zap.Int64("rows_converted", m.RowsConverted),
		zap.Duration("duration", m.EndTime.Sub(m.StartTime)))
}
