package scenario

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/huynhanx03/go-blockq/pkg/datastructs/queue"
	"github.com/huynhanx03/go-blockq/pkg/settings"
	"github.com/huynhanx03/go-blockq/pkg/timer"
)

type worker struct {
	*Runner
	id  int
	sw  *timer.Stopwatch
	log *zap.Logger
}

func (w *worker) consume(ctx context.Context, start time.Time) error {
	w.log.Info("start", zap.String("mode", string(w.cfg.ConsumerMode)))

	schedule := timer.NewPeriodic(start, w.cfg.ConsumerInterval())
	for i := 0; i < w.cfg.NValues/w.cfg.NConsumers; i++ {
		deadline := schedule.Next()
		if err := w.resynchronize(ctx); err != nil {
			return err
		}

		item, err := w.take(deadline)
		if err != nil {
			w.missed.Add(1)
			w.log.Debug("nothing consumed", zap.Int64("t_ms", w.sw.Millis()), zap.Error(err))
		} else {
			w.consumed.Add(1)
			w.log.Debug("consumed", zap.Int64("t_ms", w.sw.Millis()), zap.Int("item", item))
		}

		if err := schedule.Wait(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (w *worker) produce(ctx context.Context, start time.Time) error {
	w.log.Info("start", zap.String("mode", string(w.cfg.ProducerMode)))

	schedule := timer.NewPeriodic(start, w.cfg.ProducerInterval())
	for i := 0; i < w.cfg.NValues/w.cfg.NProducers; i++ {
		item := w.id*itemStride + i
		deadline := schedule.Next()
		if err := w.resynchronize(ctx); err != nil {
			return err
		}

		if err := w.give(item, deadline); err != nil {
			w.dropped.Add(1)
			w.log.Debug("dropped", zap.Int64("t_ms", w.sw.Millis()), zap.Int("item", item), zap.Error(err))
		} else {
			w.produced.Add(1)
			w.log.Debug("produced", zap.Int64("t_ms", w.sw.Millis()), zap.Int("item", item))
		}

		if err := schedule.Wait(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (w *worker) resynchronize(ctx context.Context) error {
	if !w.cfg.Resynchronize {
		return ctx.Err()
	}
	return timer.Resynchronize(ctx, w.clock, w.id)
}

// take runs the consumer's operation; a failed attempt is reported as the
// matching queue sentinel.
func (w *worker) take(deadline time.Time) (int, error) {
	switch w.cfg.ConsumerMode {
	case settings.ModeNonBlocking:
		if item, ok := w.q.Remove(); ok {
			return item, nil
		}
		return 0, queue.ErrEmpty
	case settings.ModeTimed:
		if item, ok := w.q.Poll(deadline); ok {
			return item, nil
		}
		return 0, queue.ErrTimeout
	default:
		return w.q.Get(), nil
	}
}

func (w *worker) give(item int, deadline time.Time) error {
	switch w.cfg.ProducerMode {
	case settings.ModeNonBlocking:
		if !w.q.Add(item) {
			return queue.ErrFull
		}
	case settings.ModeTimed:
		if !w.q.Offer(item, deadline) {
			return queue.ErrTimeout
		}
	default:
		w.q.Put(item)
	}
	return nil
}
