package main

import (
	"context"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"
	"github.com/vkngwrapper/cellalloc"
	"github.com/vkngwrapper/cellalloc/report"
	"github.com/vkngwrapper/cellalloc/sim"
	"golang.org/x/exp/slog"
)

func strategyFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "strategy",
		Aliases: []string{"s"},
		Usage:   "placement strategy, first-fit or best-fit",
	}
}

func capacityFlag() cli.Flag {
	return &cli.IntFlag{
		Name:    "capacity",
		Aliases: []string{"n"},
		Usage:   "number of cells in the address space",
	}
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "write json lines instead of text",
	}
}

func stopOnErrorFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "stop-on-error",
		Usage: "end the scenario at the first failed step",
	}
}

// commandConfig applies any command flags on top of the loaded config
func commandConfig(c *cli.Context, base *Config) (*Config, error) {
	config := *base

	if c.IsSet("strategy") {
		config.Strategy = c.String("strategy")
	}
	if c.IsSet("capacity") {
		config.Capacity = c.Int("capacity")
	}
	if c.IsSet("json") && c.Bool("json") {
		config.Output = outputJSON
	}
	if c.IsSet("stop-on-error") {
		config.StopOnError = c.Bool("stop-on-error")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func layoutPrinter(env *environment, config *Config) sim.LayoutPrinter {
	if config.Output == outputJSON {
		return report.NewJSONPrinter(env.out)
	}

	return report.NewTextPrinter(env.out)
}

func scenarioArg(c *cli.Context) (*sim.Scenario, error) {
	if c.NArg() != 1 {
		return nil, errors.Newf("expected exactly one scenario file, got %d arguments", c.NArg())
	}

	return sim.LoadScenarioFile(c.Args().First())
}

func runCommand(env *environment) *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "play a scenario file against a fresh allocator",
		ArgsUsage: "SCENARIO",
		Flags:     []cli.Flag{strategyFlag(), capacityFlag(), jsonFlag(), stopOnErrorFlag()},
		Action: func(c *cli.Context) error {
			config, err := commandConfig(c, env.config)
			if err != nil {
				return err
			}

			scenario, err := scenarioArg(c)
			if err != nil {
				return err
			}

			if c.IsSet("capacity") {
				scenario.Capacity = config.Capacity
			}

			runner, err := sim.NewRunner(sim.RunnerOptions{
				Logger:          env.logger,
				Printer:         layoutPrinter(env, config),
				Shared:          config.Shared,
				StopOnError:     config.StopOnError,
				DefaultStrategy: config.PlacementStrategy(),
				DefaultCapacity: config.Capacity,
			})
			if err != nil {
				return err
			}

			var result *sim.Result
			if c.IsSet("strategy") {
				result, err = runner.RunStrategy(c.Context, scenario, config.PlacementStrategy())
			} else {
				result, err = runner.Run(c.Context, scenario)
			}

			if result != nil {
				if writeErr := writeResult(env.out, config.Output, result); writeErr != nil {
					return writeErr
				}
			}

			return err
		},
	}
}

func compareCommand(env *environment) *cli.Command {
	return &cli.Command{
		Name:      "compare",
		Usage:     "play a scenario once with every strategy and compare the outcomes",
		ArgsUsage: "SCENARIO",
		Flags:     []cli.Flag{capacityFlag(), jsonFlag()},
		Action: func(c *cli.Context) error {
			config, err := commandConfig(c, env.config)
			if err != nil {
				return err
			}

			scenario, err := scenarioArg(c)
			if err != nil {
				return err
			}

			if c.IsSet("capacity") {
				scenario.Capacity = config.Capacity
			}

			runner, err := sim.NewRunner(sim.RunnerOptions{
				Logger:          env.logger,
				Shared:          config.Shared,
				DefaultStrategy: config.PlacementStrategy(),
				DefaultCapacity: config.Capacity,
			})
			if err != nil {
				return err
			}

			results, err := runner.Compare(c.Context, scenario)
			if err != nil {
				return err
			}

			return writeComparison(env.out, config.Output, results)
		},
	}
}

func layoutCommand(env *environment) *cli.Command {
	return &cli.Command{
		Name:      "layout",
		Usage:     "allocate the provided sizes in order and print the resulting layout",
		ArgsUsage: "SIZE...",
		Flags:     []cli.Flag{strategyFlag(), capacityFlag(), jsonFlag()},
		Action: func(c *cli.Context) error {
			config, err := commandConfig(c, env.config)
			if err != nil {
				return err
			}

			sizes := make([]int, 0, c.NArg())
			for _, arg := range c.Args().Slice() {
				size, err := strconv.Atoi(arg)
				if err != nil {
					return errors.Wrapf(err, "parsing size %q", arg)
				}

				sizes = append(sizes, size)
			}

			allocator, err := allocateSizes(c.Context, env.logger, config, sizes)
			if err != nil {
				return err
			}

			err = layoutPrinter(env, config).PrintLayout("Memory layout", allocator.Layout())
			if err != nil {
				return err
			}

			return writeStatistics(env.out, config.Output, allocator)
		},
	}
}

// allocateSizes allocates each size in order from a fresh allocator. Failed allocations are
// logged and skipped.
func allocateSizes(ctx context.Context, logger *slog.Logger, config *Config, sizes []int) (*cellalloc.Allocator, error) {
	allocator, err := cellalloc.New(config.Capacity, config.PlacementStrategy())
	if err != nil {
		return nil, err
	}

	for _, size := range sizes {
		h, err := allocator.Alloc(size)
		if err != nil {
			logger.LogAttrs(ctx, slog.LevelWarn, "Allocation failed",
				slog.Int("size", size),
				slog.Any("error", err),
			)
			continue
		}

		logger.LogAttrs(ctx, slog.LevelDebug, "Allocated",
			slog.Int("size", size),
			slog.Int("address", h.Address()),
		)
	}

	return allocator, nil
}
