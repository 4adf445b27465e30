package dispatch

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeRunner answers queries from a map and records concurrency.
type fakeRunner struct {
	mu         sync.Mutex
	responses  map[string][][]any
	columns    []string
	failures   map[string]error
	inFlight   int32
	maxSeen    int32
	callCounts map[string]int
}

func newFakeRunner(columns []string) *fakeRunner {
	return &fakeRunner{
		responses:  make(map[string][][]any),
		columns:    columns,
		failures:   make(map[string]error),
		callCounts: make(map[string]int),
	}
}

func (f *fakeRunner) Query(ctx context.Context, query string) ([][]any, []string, error) {
	current := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	for {
		max := atomic.LoadInt32(&f.maxSeen)
		if current <= max || atomic.CompareAndSwapInt32(&f.maxSeen, max, current) {
			break
		}
	}

	f.mu.Lock()
	f.callCounts[query]++
	err := f.failures[query]
	rows := f.responses[query]
	f.mu.Unlock()

	if err != nil {
		return nil, nil, err
	}
	return rows, f.columns, nil
}

func TestRun_AggregatesAllRows(t *testing.T) {
	runner := newFakeRunner([]string{"table_name", "record_ct"})
	runner.responses["q1"] = [][]any{{"orders", int64(100)}}
	runner.responses["q2"] = [][]any{{"customers", int64(50)}, {"items", int64(25)}}

	d := New(runner, 4, zap.NewNop())
	result, err := d.Run(context.Background(), []string{"q1", "q2"}, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, result.ErrorCount)
	assert.Equal(t, []string{"table_name", "record_ct"}, result.Columns)
	assert.Len(t, result.Rows, 3)
}

func TestRun_CountsErrorsWithoutCrashing(t *testing.T) {
	runner := newFakeRunner([]string{"n"})
	runner.responses["good"] = [][]any{{int64(1)}}
	runner.failures["bad"] = errors.New(`relation "demo.missing" does not exist`)

	d := New(runner, 2, zap.NewNop())
	result, err := d.Run(context.Background(), []string{"good", "bad"}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.ErrorCount)
	assert.Len(t, result.Rows, 1)
}

func TestRun_ColumnMismatchCounted(t *testing.T) {
	runner := newFakeRunner([]string{"a", "b"})
	runner.responses["q1"] = [][]any{{int64(1), int64(2)}}

	mismatched := &columnSwitchRunner{inner: runner}
	d := New(mismatched, 1, zap.NewNop())

	result, err := d.Run(context.Background(), []string{"q1", "q2"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ErrorCount)
	assert.Len(t, result.Rows, 1)
}

type columnSwitchRunner struct {
	inner *fakeRunner
	calls int32
}

func (c *columnSwitchRunner) Query(ctx context.Context, query string) ([][]any, []string, error) {
	n := atomic.AddInt32(&c.calls, 1)
	if n == 1 {
		return [][]any{{int64(1), int64(2)}}, []string{"a", "b"}, nil
	}
	return [][]any{{int64(3)}}, []string{"a"}, nil
}

func TestRun_BoundedConcurrency(t *testing.T) {
	runner := newFakeRunner([]string{"n"})
	queries := make([]string, 20)
	for i := range queries {
		q := strings.Repeat("q", i+1)
		queries[i] = q
		runner.responses[q] = [][]any{{int64(i)}}
	}

	d := New(runner, 3, zap.NewNop())
	_, err := d.Run(context.Background(), queries, nil)
	require.NoError(t, err)

	assert.LessOrEqual(t, atomic.LoadInt32(&runner.maxSeen), int32(3))
}

func TestRun_ProgressCallback(t *testing.T) {
	runner := newFakeRunner([]string{"n"})
	runner.responses["q1"] = [][]any{{int64(1)}}
	runner.responses["q2"] = [][]any{{int64(2)}}

	var calls int32
	d := New(runner, 1, zap.NewNop())
	_, err := d.Run(context.Background(), []string{"q1", "q2"}, func(done, total int) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, 2, total)
	})
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestRun_EmptyBatch(t *testing.T) {
	d := New(newFakeRunner(nil), 4, zap.NewNop())
	result, err := d.Run(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Rows)
	assert.Equal(t, 0, result.ErrorCount)
}

func TestRun_CancelledContextCountsRemaining(t *testing.T) {
	runner := newFakeRunner([]string{"n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := New(runner, 2, zap.NewNop())
	result, err := d.Run(ctx, []string{"q1", "q2", "q3"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, result.ErrorCount)
}

func TestRowMap(t *testing.T) {
	m, err := RowMap([]string{"a", "b"}, []any{int64(1), "x"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), m["a"])
	assert.Equal(t, "x", m["b"])

	_, err = RowMap([]string{"a"}, []any{1, 2})
	require.Error(t, err)
}
