// Package dispatch executes batches of generated queries against a target
// database with bounded concurrency. Workers never crash the pool: each
// query's failure is captured, logged, and counted, and the batch carries
// on.
package dispatch

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/DataKitchen/dataops-testgen-sub000/pkg/logging"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/retry"
)

// QueryRunner executes one query and materialises its rows.
// targetdb.Session is the production implementation.
type QueryRunner interface {
	Query(ctx context.Context, query string) ([][]any, []string, error)
}

// BatchResult aggregates the rows from every successful query in a batch.
// Row order across queries is not preserved; each row must carry enough
// keys to be placed back.
type BatchResult struct {
	Rows       [][]any
	Columns    []string
	ErrorCount int
}

// ProgressFunc is invoked after each query finishes, successful or not.
type ProgressFunc func(done, total int)

// Dispatcher fans a batch of queries out over a bounded worker pool.
type Dispatcher struct {
	runner     QueryRunner
	maxThreads int
	retryCfg   *retry.Config
	logger     *zap.Logger
}

// New creates a Dispatcher. maxThreads below 1 is clamped to 1.
func New(runner QueryRunner, maxThreads int, logger *zap.Logger) *Dispatcher {
	if maxThreads < 1 {
		maxThreads = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		runner:     runner,
		maxThreads: maxThreads,
		retryCfg:   retry.DefaultConfig(),
		logger:     logger.Named("dispatch"),
	}
}

type queryOutcome struct {
	rows    [][]any
	columns []string
	err     error
	query   string
}

// Run executes all queries with at most maxThreads in flight and aggregates
// results in arrival order. The first successful query fixes the column
// set; a later query returning a different set is counted as an error. A
// cancelled context stops new work; in-flight queries finish or fail on
// their own.
func (d *Dispatcher) Run(ctx context.Context, queries []string, progress ProgressFunc) (*BatchResult, error) {
	result := &BatchResult{}
	if len(queries) == 0 {
		return result, nil
	}

	outcomes := make(chan queryOutcome, len(queries))
	sem := make(chan struct{}, d.maxThreads)
	var wg sync.WaitGroup

	for _, query := range queries {
		if ctx.Err() != nil {
			outcomes <- queryOutcome{err: ctx.Err(), query: query}
			continue
		}

		wg.Add(1)
		go func(q string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			var rows [][]any
			var columns []string
			err := retry.Do(ctx, d.retryCfg, func() error {
				var qErr error
				rows, columns, qErr = d.runner.Query(ctx, q)
				return qErr
			})
			outcomes <- queryOutcome{rows: rows, columns: columns, err: err, query: q}
		}(query)
	}

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	done := 0
	for outcome := range outcomes {
		done++
		if progress != nil {
			progress(done, len(queries))
		}

		if outcome.err != nil {
			result.ErrorCount++
			d.logger.Warn("query failed",
				zap.String("query", logging.TruncateQuery(outcome.query)),
				zap.String("error", logging.SanitizeError(outcome.err)))
			continue
		}

		if result.Columns == nil {
			result.Columns = outcome.columns
		} else if !sameColumns(result.Columns, outcome.columns) {
			result.ErrorCount++
			d.logger.Warn("query returned mismatched column set",
				zap.String("query", logging.TruncateQuery(outcome.query)),
				zap.Strings("expected", result.Columns),
				zap.Strings("got", outcome.columns))
			continue
		}

		result.Rows = append(result.Rows, outcome.rows...)
	}

	d.logger.Debug("batch complete",
		zap.Int("queries", len(queries)),
		zap.Int("rows", len(result.Rows)),
		zap.Int("errors", result.ErrorCount))

	return result, nil
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// RowMap converts one positional row to a column-keyed map.
func RowMap(columns []string, row []any) (map[string]any, error) {
	if len(columns) != len(row) {
		return nil, fmt.Errorf("row has %d values for %d columns", len(row), len(columns))
	}
	m := make(map[string]any, len(columns))
	for i, c := range columns {
		m[c] = row[i]
	}
	return m, nil
}
