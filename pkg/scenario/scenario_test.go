package scenario

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/huynhanx03/go-blockq/pkg/datastructs/queue"
	"github.com/huynhanx03/go-blockq/pkg/settings"
	"github.com/huynhanx03/go-blockq/pkg/timer"
)

var backends = []queue.Backend{queue.BackendMonitor, queue.BackendSemaphore}

func newQueue(t *testing.T, backend queue.Backend, capacity int) *queue.Blocking[int] {
	t.Helper()
	q, err := queue.New[int](backend, capacity)
	require.NoError(t, err)
	return q
}

// recorder keeps every item a producer managed to insert.
type recorder struct {
	queue.Queue[int]
	mu    sync.Mutex
	items []int
}

func (r *recorder) Put(item int) {
	r.Queue.Put(item)
	r.mu.Lock()
	r.items = append(r.items, item)
	r.mu.Unlock()
}

func run(t *testing.T, cfg settings.Scenario, q queue.Queue[int]) Report {
	t.Helper()
	r, err := New(cfg, q, zap.NewNop(), timer.SystemTimer{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	report, err := r.Run(ctx)
	require.NoError(t, err)
	return report
}

// ===========================================================================
// Runs
// ===========================================================================

func TestRun_Blocking(t *testing.T) {
	for _, backend := range backends {
		t.Run(backend.String(), func(t *testing.T) {
			cfg := settings.Scenario{
				Backend:        backend.String(),
				ConsumerMode:   settings.ModeBlocking,
				ProducerMode:   settings.ModeBlocking,
				BufferSize:     2,
				NValues:        20,
				NConsumers:     2,
				NProducers:     2,
				ConsumerPeriod: 1,
				ProducerPeriod: 1,
			}
			report := run(t, cfg, newQueue(t, backend, cfg.BufferSize))

			assert.Equal(t, int64(20), report.Produced)
			assert.Equal(t, int64(20), report.Consumed)
			assert.Zero(t, report.Dropped)
			assert.Zero(t, report.Missed)
			assert.Zero(t, report.Remaining)
			assert.NotEmpty(t, report.RunID)
		})
	}
}

func TestRun_ProducerItems(t *testing.T) {
	cfg := settings.Scenario{
		Backend:      "monitor",
		ConsumerMode: settings.ModeBlocking,
		ProducerMode: settings.ModeBlocking,
		BufferSize:   4,
		NValues:      6,
		NConsumers:   2,
		NProducers:   2,
	}
	rec := &recorder{Queue: newQueue(t, queue.BackendMonitor, cfg.BufferSize)}
	run(t, cfg, rec)

	// consumers take ids 0 and 1, so producers are 2 and 3
	sort.Ints(rec.items)
	assert.Equal(t, []int{200, 201, 202, 300, 301, 302}, rec.items)
}

func TestRun_NonBlockingProducersDrop(t *testing.T) {
	for _, backend := range backends {
		t.Run(backend.String(), func(t *testing.T) {
			cfg := settings.Scenario{
				Backend:      backend.String(),
				ConsumerMode: settings.ModeNonBlocking,
				ProducerMode: settings.ModeNonBlocking,
				BufferSize:   1,
				NValues:      10,
				NConsumers:   0,
				NProducers:   1,
			}
			report := run(t, cfg, newQueue(t, backend, cfg.BufferSize))

			assert.Equal(t, int64(1), report.Produced)
			assert.Equal(t, int64(9), report.Dropped)
			assert.Equal(t, 1, report.Remaining)
		})
	}
}

func TestRun_TimedConsumersMiss(t *testing.T) {
	for _, backend := range backends {
		t.Run(backend.String(), func(t *testing.T) {
			cfg := settings.Scenario{
				Backend:        backend.String(),
				ConsumerMode:   settings.ModeTimed,
				ProducerMode:   settings.ModeBlocking,
				BufferSize:     2,
				NValues:        3,
				NConsumers:     1,
				ConsumerPeriod: 10,
			}
			report := run(t, cfg, newQueue(t, backend, cfg.BufferSize))

			assert.Equal(t, int64(3), report.Missed)
			assert.Zero(t, report.Consumed)
			// each poll waits out its period
			assert.GreaterOrEqual(t, report.Elapsed, 30*time.Millisecond)
		})
	}
}

func TestRun_Conservation(t *testing.T) {
	for _, backend := range backends {
		t.Run(backend.String(), func(t *testing.T) {
			cfg := settings.Scenario{
				Backend:        backend.String(),
				ConsumerMode:   settings.ModeTimed,
				ProducerMode:   settings.ModeTimed,
				BufferSize:     3,
				NValues:        40,
				NConsumers:     2,
				NProducers:     4,
				ConsumerPeriod: 2,
				ProducerPeriod: 1,
			}
			report := run(t, cfg, newQueue(t, backend, cfg.BufferSize))

			assert.Equal(t, int64(40), report.Produced+report.Dropped)
			assert.Equal(t, int64(40), report.Consumed+report.Missed)
			assert.Equal(t, report.Produced, report.Consumed+int64(report.Remaining))
		})
	}
}

// ===========================================================================
// Lifecycle
// ===========================================================================

func TestRun_ContextCanceled(t *testing.T) {
	cfg := settings.Scenario{
		Backend:      "monitor",
		ConsumerMode: settings.ModeBlocking,
		ProducerMode: settings.ModeBlocking,
		BufferSize:   1,
		NValues:      1,
		NConsumers:   1,
	}
	r, err := New(cfg, newQueue(t, queue.BackendMonitor, 1), nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	start := time.Now()
	report, err := r.Run(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "err = %v", err)
	assert.Zero(t, report.Consumed)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestNew_NilQueue(t *testing.T) {
	_, err := New(settings.Scenario{}, nil, nil, nil)
	assert.ErrorIs(t, err, ErrNoQueue)
}

func TestRun_LogsCarryRunAndWorker(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	cfg := settings.Scenario{
		Backend:      "semaphore",
		ConsumerMode: settings.ModeBlocking,
		ProducerMode: settings.ModeBlocking,
		BufferSize:   1,
		NValues:      2,
		NConsumers:   1,
		NProducers:   1,
	}
	r, err := New(cfg, newQueue(t, queue.BackendSemaphore, 1), zap.New(core), timer.SystemTimer{})
	require.NoError(t, err)

	_, err = r.Run(context.Background())
	require.NoError(t, err)

	starts := logs.FilterMessage("start").All()
	require.Len(t, starts, 2)

	workers := make([]string, 0, len(starts))
	for _, e := range starts {
		fields := e.ContextMap()
		assert.Equal(t, r.ID(), fields["run"])
		workers = append(workers, fields["worker"].(string))
	}
	assert.ElementsMatch(t, []string{"consumer 00", "producer 01"}, workers)

	assert.Equal(t, 1, logs.FilterMessage("run finished").Len())
}
