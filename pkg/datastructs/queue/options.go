package queue

import "go.uber.org/zap"

// Option configures a queue at construction time.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger makes the queue emit one debug entry per operation.
// Entries are only built when the logger has debug level enabled.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func newOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// tracer writes the per-operation debug entries shared by both backends.
type tracer struct {
	log *zap.Logger
}

func newTracer(l *zap.Logger, b Backend) tracer {
	return tracer{log: l.With(zap.Stringer("backend", b))}
}

// trace logs op ("get (B)", "poll (T)", ...) with the moved item, or with
// ok=false when nothing was moved.
func (t tracer) trace(op string, item any, ok bool, size int) {
	ce := t.log.Check(zap.DebugLevel, op)
	if ce == nil {
		return
	}
	if !ok {
		ce.Write(zap.Bool("ok", false), zap.Int("size", size))
		return
	}
	ce.Write(zap.Bool("ok", true), zap.Any("item", item), zap.Int("size", size))
}
