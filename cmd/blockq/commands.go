package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/huynhanx03/go-blockq/pkg/datastructs/queue"
	"github.com/huynhanx03/go-blockq/pkg/logger"
	"github.com/huynhanx03/go-blockq/pkg/scenario"
	"github.com/huynhanx03/go-blockq/pkg/settings"
	"github.com/huynhanx03/go-blockq/pkg/timer"
)

func validateAction(c *cli.Context) error {
	cfg, err := settings.Load(c.Path("scenario"))
	if err != nil {
		return cli.Exit(err, 1)
	}
	printScenario(c.App.Writer, cfg.Scenario)
	fmt.Fprintln(c.App.Writer, "ok")
	return nil
}

func runAction(c *cli.Context) error {
	cfg, err := settings.Load(c.Path("scenario"))
	if err != nil {
		return cli.Exit(err, 1)
	}
	if b := c.String("backend"); b != "" {
		cfg.Scenario.Backend = b
	}
	if c.Bool("debug") {
		cfg.Logger.LogLevel = "debug"
	}
	if f := c.String("log-file"); f != "" {
		cfg.Logger.FileLogName = f
	}

	backend, err := queue.ParseBackend(cfg.Scenario.Backend)
	if err != nil {
		return cli.Exit(err, 1)
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer func() { _ = log.Sync() }()

	var clock timer.Timer = timer.SystemTimer{}
	if step := c.Duration("clock-step"); step > 0 {
		clock = timer.NewCachedTimer(step)
	}
	defer clock.Stop()

	printScenario(c.App.Writer, cfg.Scenario)

	report, err := execute(c, cfg.Scenario, backend, log, clock)
	printReport(c.App.Writer, report)
	if err != nil {
		return cli.Exit(err, 1)
	}
	return nil
}

func execute(c *cli.Context, sc settings.Scenario, backend queue.Backend, log *zap.Logger, clock timer.Timer) (scenario.Report, error) {
	q, err := queue.New[int](backend, sc.BufferSize, queue.WithLogger(log))
	if err != nil {
		return scenario.Report{}, err
	}

	runner, err := scenario.New(sc, q, log, clock)
	if err != nil {
		return scenario.Report{}, err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := runner.Run(ctx)
	return report, errors.Wrap(err, runner.ID())
}

func printScenario(w io.Writer, s settings.Scenario) {
	fmt.Fprintf(w, "backend         = %s\n", s.Backend)
	fmt.Fprintf(w, "consumer_mode   = %s\n", s.ConsumerMode)
	fmt.Fprintf(w, "producer_mode   = %s\n", s.ProducerMode)
	fmt.Fprintf(w, "buffer_size     = %d\n", s.BufferSize)
	fmt.Fprintf(w, "n_values        = %d\n", s.NValues)
	fmt.Fprintf(w, "n_consumers     = %d\n", s.NConsumers)
	fmt.Fprintf(w, "n_producers     = %d\n", s.NProducers)
	fmt.Fprintf(w, "consumer_period = %d\n", s.ConsumerPeriod)
	fmt.Fprintf(w, "producer_period = %d\n", s.ProducerPeriod)
	fmt.Fprintf(w, "resynchronize   = %t\n", s.Resynchronize)
}

func printReport(w io.Writer, r scenario.Report) {
	if r.RunID == "" {
		return
	}
	fmt.Fprintf(w, "run %s finished in %v\n", r.RunID, r.Elapsed)
	fmt.Fprintf(w, "  produced %d, dropped %d\n", r.Produced, r.Dropped)
	fmt.Fprintf(w, "  consumed %d, missed %d\n", r.Consumed, r.Missed)
	fmt.Fprintf(w, "  remaining %d\n", r.Remaining)
}
