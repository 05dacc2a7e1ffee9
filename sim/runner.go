package sim

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/cellalloc/memutils"
	"github.com/vkngwrapper/cellalloc/memutils/metadata"
	"golang.org/x/exp/slog"
)

// DefaultCapacity is used for scenarios that do not specify a capacity when RunnerOptions
// does not provide one either
const DefaultCapacity int = 1024

//go:generate mockgen -source runner.go -destination ./mocks/printer.go

// LayoutPrinter receives the layout for every layout step of a scenario
type LayoutPrinter interface {
	PrintLayout(title string, regions []metadata.Region) error
}

// RunnerOptions contains optional settings when creating a runner
type RunnerOptions struct {
	// Logger receives a debug record per step and a warning per failed step. If nil, nothing
	// is logged.
	Logger *slog.Logger
	// Printer receives layout steps. If nil, layout steps only record the layout in the result.
	Printer LayoutPrinter
	// Shared makes the sessions created by the runner safe to drive from several goroutines
	Shared bool
	// StopOnError ends a run at the first failed step instead of recording it and moving on
	StopOnError bool
	// DefaultStrategy is used for scenarios that do not name a strategy
	DefaultStrategy metadata.Strategy
	// DefaultCapacity is used for scenarios that do not specify a capacity. If it is 0,
	// the package-level DefaultCapacity is used.
	DefaultCapacity int
}

// StepResult records the outcome of a single scenario step
type StepResult struct {
	Index int
	Step  Step
	// Address is the address allocated by an alloc step, or -1
	Address int
	// Layout is filled in for layout steps
	Layout []metadata.Region
	Err    error
}

// Failed returns true if the step did not succeed
func (r StepResult) Failed() bool {
	return r.Err != nil
}

// Result is the outcome of running one scenario with one strategy
type Result struct {
	Scenario string
	Strategy metadata.Strategy
	Capacity int
	Steps    []StepResult
	Failures int
	Final    []metadata.Region
	Stats    memutils.DetailedStatistics
}

// Fragmentation returns the fragmentation of the address space when the scenario ended
func (r *Result) Fragmentation() float64 {
	return r.Stats.Fragmentation()
}

// Runner plays scenarios against fresh allocators
type Runner struct {
	logger  *slog.Logger
	printer LayoutPrinter

	shared          bool
	stopOnError     bool
	defaultStrategy metadata.Strategy
	defaultCapacity int
}

// NewRunner creates a runner. The default strategy must be valid.
func NewRunner(options RunnerOptions) (*Runner, error) {
	if !options.DefaultStrategy.IsValid() {
		return nil, errors.Wrapf(memutils.ErrInvalidStrategy, "default strategy %d", uint32(options.DefaultStrategy))
	}

	logger := options.Logger
	if logger == nil {
		logger = discardLogger()
	}

	defaultCapacity := options.DefaultCapacity
	if defaultCapacity == 0 {
		defaultCapacity = DefaultCapacity
	}

	err := memutils.CheckSize(defaultCapacity, 0, "default capacity")
	if err != nil {
		return nil, err
	}

	return &Runner{
		logger:          logger,
		printer:         options.Printer,
		shared:          options.Shared,
		stopOnError:     options.StopOnError,
		defaultStrategy: options.DefaultStrategy,
		defaultCapacity: defaultCapacity,
	}, nil
}

// Run plays scenario with the strategy it names, or the runner's default strategy if it
// names none
func (r *Runner) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	strategy, ok, err := scenario.PlacementStrategy()
	if err != nil {
		return nil, err
	}

	if !ok {
		strategy = r.defaultStrategy
	}

	return r.RunStrategy(ctx, scenario, strategy)
}

// RunStrategy plays scenario with the provided strategy, ignoring any strategy the scenario names.
//
// Failed steps are recorded in the result and the run continues, unless the runner was created
// with StopOnError. Errors from the printer, scenario validation and context cancellation end
// the run; the partial result is returned alongside the error.
func (r *Runner) RunStrategy(ctx context.Context, scenario *Scenario, strategy metadata.Strategy) (*Result, error) {
	err := scenario.Validate()
	if err != nil {
		return nil, err
	}

	capacity := scenario.Capacity
	if capacity == 0 {
		capacity = r.defaultCapacity
	}

	logger := r.logger.With(
		slog.String("scenario", scenario.Name),
		slog.String("strategy", strategy.String()),
	)

	session, err := NewSession(capacity, strategy, SessionOptions{
		Logger: logger,
		Shared: r.shared,
	})
	if err != nil {
		return nil, err
	}

	result := &Result{
		Scenario: scenario.Name,
		Strategy: strategy,
		Capacity: capacity,
		Steps:    make([]StepResult, 0, len(scenario.Steps)),
	}

	for i, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			r.finish(result, session)
			return result, errors.Wrapf(err, "scenario %q interrupted before step %d", scenario.Name, i)
		}

		stepResult, err := r.runStep(session, i, step)
		if err != nil {
			r.finish(result, session)
			return result, err
		}

		result.Steps = append(result.Steps, stepResult)
		if !stepResult.Failed() {
			continue
		}

		result.Failures++
		logger.LogAttrs(ctx, slog.LevelWarn, "Step failed",
			slog.Int("step", i),
			slog.String("op", string(step.Op)),
			slog.String("name", step.Name),
			slog.Int("size", step.Size),
			slog.Any("error", stepResult.Err),
		)

		if r.stopOnError {
			r.finish(result, session)
			return result, errors.Wrapf(stepResult.Err, "scenario %q step %d", scenario.Name, i)
		}
	}

	r.finish(result, session)

	logger.LogAttrs(ctx, slog.LevelDebug, "Scenario complete",
		slog.Int("steps", len(result.Steps)),
		slog.Int("failures", result.Failures),
		slog.Int("freeRegions", result.Stats.FreeRegionCount),
		slog.Float64("fragmentation", result.Fragmentation()),
	)

	return result, nil
}

func (r *Runner) runStep(session *Session, index int, step Step) (StepResult, error) {
	stepResult := StepResult{
		Index:   index,
		Step:    step,
		Address: -1,
	}

	switch step.Op {
	case OpAlloc:
		h, err := session.Alloc(step.Name, step.Size)
		if err != nil {
			stepResult.Err = err
		} else {
			stepResult.Address = h.Address()
		}
	case OpRelease:
		stepResult.Err = session.Release(step.Name)
	case OpLayout:
		stepResult.Layout = session.Layout()
		if r.printer != nil {
			title := step.Name
			if title == "" {
				title = "Memory layout"
			}

			err := r.printer.PrintLayout(title, stepResult.Layout)
			if err != nil {
				return stepResult, errors.Wrapf(err, "printing layout for step %d", index)
			}
		}
	default:
		return stepResult, errors.Wrapf(ErrInvalidScenario, "step %d: unknown op %q", index, step.Op)
	}

	return stepResult, nil
}

func (r *Runner) finish(result *Result, session *Session) {
	result.Final = session.Layout()
	result.Stats = session.Statistics()
}

// Compare plays scenario once per strategy and returns the results in the same order. If no
// strategies are provided, every strategy is compared.
func (r *Runner) Compare(ctx context.Context, scenario *Scenario, strategies ...metadata.Strategy) ([]*Result, error) {
	if len(strategies) == 0 {
		strategies = metadata.Strategies()
	}

	results := make([]*Result, 0, len(strategies))
	for _, strategy := range strategies {
		result, err := r.RunStrategy(ctx, scenario, strategy)
		if err != nil {
			return results, errors.Wrapf(err, "running %s", strategy)
		}

		results = append(results, result)
	}

	return results, nil
}
