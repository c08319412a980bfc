package scenario

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/huynhanx03/go-blockq/pkg/datastructs/queue"
	"github.com/huynhanx03/go-blockq/pkg/logger"
	"github.com/huynhanx03/go-blockq/pkg/settings"
	"github.com/huynhanx03/go-blockq/pkg/timer"
)

const (
	roleConsumer = "consumer"
	roleProducer = "producer"

	// itemStride separates the items of two producers: producer id emits
	// id*itemStride + k.
	itemStride = 100
)

var ErrNoQueue = errors.New("scenario: nil queue")

// Report summarizes a run.
type Report struct {
	RunID     string
	Produced  int64 // items accepted by the queue
	Dropped   int64 // add/offer attempts that failed
	Consumed  int64 // items taken from the queue
	Missed    int64 // remove/poll attempts that found nothing
	Remaining int   // queue size once every worker stopped
	Elapsed   time.Duration
}

// Runner drives periodic producers and consumers against one queue.
type Runner struct {
	cfg   settings.Scenario
	q     queue.Queue[int]
	log   *zap.Logger
	clock timer.Timer
	runID uuid.UUID

	produced atomic.Int64
	dropped  atomic.Int64
	consumed atomic.Int64
	missed   atomic.Int64
}

func New(cfg settings.Scenario, q queue.Queue[int], log *zap.Logger, clock timer.Timer) (*Runner, error) {
	if q == nil {
		return nil, ErrNoQueue
	}
	if log == nil {
		log = zap.NewNop()
	}
	if clock == nil {
		clock = timer.SystemTimer{}
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, errors.Wrap(err, "generate run id")
	}

	return &Runner{
		cfg:   cfg,
		q:     q,
		log:   log.With(zap.Stringer("run", id)),
		clock: clock,
		runID: id,
	}, nil
}

// ID returns the run identifier attached to every log line.
func (r *Runner) ID() string {
	return r.runID.String()
}

// Run starts n_consumers consumers (ids 0..M-1) and n_producers producers
// (ids M..M+N-1) and waits for all of them. Workers parked in a blocking
// Get or Put cannot observe ctx; if ctx ends first Run returns its error
// with the counts gathered so far and leaves those workers behind.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	sw := timer.NewStopwatch(r.clock)
	start := sw.Start()

	r.log.Info("run started",
		zap.String("backend", r.cfg.Backend),
		zap.Int("buffer_size", r.cfg.BufferSize),
		zap.Int("consumers", r.cfg.NConsumers),
		zap.Int("producers", r.cfg.NProducers),
	)

	g, gctx := errgroup.WithContext(ctx)
	for id := 0; id < r.cfg.NConsumers; id++ {
		w := r.worker(roleConsumer, id, sw)
		g.Go(func() error { return w.consume(gctx, start) })
	}
	for id := r.cfg.NConsumers; id < r.cfg.NConsumers+r.cfg.NProducers; id++ {
		w := r.worker(roleProducer, id, sw)
		g.Go(func() error { return w.produce(gctx, start) })
	}

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}

	report := r.report(sw.Elapsed())
	if err != nil {
		r.log.Warn("run interrupted", zap.Error(err))
		return report, errors.Wrap(err, "run scenario")
	}

	r.log.Info("run finished",
		zap.Int64("produced", report.Produced),
		zap.Int64("consumed", report.Consumed),
		zap.Int64("dropped", report.Dropped),
		zap.Int64("missed", report.Missed),
		zap.Int("remaining", report.Remaining),
		zap.Duration("elapsed", report.Elapsed),
	)
	return report, nil
}

func (r *Runner) report(elapsed time.Duration) Report {
	return Report{
		RunID:     r.ID(),
		Produced:  r.produced.Load(),
		Dropped:   r.dropped.Load(),
		Consumed:  r.consumed.Load(),
		Missed:    r.missed.Load(),
		Remaining: r.q.Size(),
		Elapsed:   elapsed,
	}
}

func (r *Runner) worker(role string, id int, sw *timer.Stopwatch) *worker {
	return &worker{
		Runner: r,
		id:     id,
		sw:     sw,
		log:    logger.Worker(r.log, role, id),
	}
}
