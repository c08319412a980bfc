package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	scenarioFlag := &cli.PathFlag{
		Name:     "scenario",
		Aliases:  []string{"s"},
		Usage:    "scenario `FILE` (.yaml/.json/.toml, or the #key format)",
		Required: true,
	}

	return &cli.App{
		Name:  "blockq",
		Usage: "run producer/consumer scenarios against a bounded blocking queue",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "execute a scenario and print its report",
				Flags: []cli.Flag{
					scenarioFlag,
					&cli.StringFlag{
						Name:    "backend",
						Aliases: []string{"b"},
						Usage:   "override the scenario backend (monitor|semaphore)",
					},
					&cli.BoolFlag{
						Name:    "debug",
						Aliases: []string{"d"},
						Usage:   "trace every queue operation",
					},
					&cli.StringFlag{
						Name:  "log-file",
						Usage: "also write JSON logs to `FILE`, rotated",
					},
					&cli.DurationFlag{
						Name:  "clock-step",
						Usage: "read time from a clock refreshed every step (0 reads the system clock)",
					},
				},
				Action: runAction,
			},
			{
				Name:   "validate",
				Usage:  "load and check a scenario without running it",
				Flags:  []cli.Flag{scenarioFlag},
				Action: validateAction,
			},
		},
	}
}
