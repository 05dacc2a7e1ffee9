package sim

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/cellalloc/memutils/metadata"
	"gopkg.in/yaml.v2"
)

// Op is the kind of action a scenario step performs
type Op string

const (
	// OpAlloc allocates Size cells and binds the resulting handle to Name
	OpAlloc Op = "alloc"
	// OpRelease releases the handle bound to Name
	OpRelease Op = "release"
	// OpLayout prints the current layout, using Name as its title
	OpLayout Op = "layout"
)

// Step is a single action in a Scenario
type Step struct {
	Op   Op     `yaml:"op"`
	Name string `yaml:"name,omitempty"`
	Size int    `yaml:"size,omitempty"`
}

// Scenario is a scripted sequence of allocations and releases run against a fresh allocator.
// Capacity and Strategy may be left empty to take the runner's defaults.
type Scenario struct {
	Name     string `yaml:"name"`
	Capacity int    `yaml:"capacity,omitempty"`
	Strategy string `yaml:"strategy,omitempty"`
	Steps    []Step `yaml:"steps"`
}

// LoadScenario decodes a yaml scenario from r and validates it. Unknown fields are rejected.
func LoadScenario(r io.Reader) (*Scenario, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading scenario")
	}

	var scenario Scenario
	if err := yaml.UnmarshalStrict(data, &scenario); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "unmarshaling scenario"), ErrInvalidScenario)
	}

	if err := scenario.Validate(); err != nil {
		return nil, err
	}

	return &scenario, nil
}

// LoadScenarioFile loads and validates the yaml scenario at path
func LoadScenarioFile(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening scenario")
	}
	defer f.Close()

	scenario, err := LoadScenario(f)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}

	return scenario, nil
}

// PlacementStrategy parses the scenario's strategy. If none was specified, ok is false.
func (s *Scenario) PlacementStrategy() (strategy metadata.Strategy, ok bool, err error) {
	if s.Strategy == "" {
		return 0, false, nil
	}

	strategy, err = metadata.ParseStrategy(s.Strategy)
	if err != nil {
		return 0, false, errors.Mark(err, ErrInvalidScenario)
	}

	return strategy, true, nil
}

// Validate checks the scenario's structure. Allocation sizes are not checked here;
// an out-of-range size is a step failure reported by the allocator.
func (s *Scenario) Validate() error {
	if s.Capacity < 0 {
		return errors.Wrapf(ErrInvalidScenario, "capacity is %d", s.Capacity)
	}

	if _, _, err := s.PlacementStrategy(); err != nil {
		return err
	}

	for i, step := range s.Steps {
		switch step.Op {
		case OpAlloc, OpRelease:
			if step.Name == "" {
				return errors.Wrapf(ErrInvalidScenario, "step %d: %s requires a name", i, step.Op)
			}
		case OpLayout:
		default:
			return errors.Wrapf(ErrInvalidScenario, "step %d: unknown op %q", i, step.Op)
		}

		if step.Op != OpAlloc && step.Size != 0 {
			return errors.Wrapf(ErrInvalidScenario, "step %d: size is only valid for %s", i, OpAlloc)
		}
	}

	return nil
}
