package main

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/kelseyhightower/envconfig"
	"github.com/vkngwrapper/cellalloc/memutils/metadata"
	"github.com/vkngwrapper/cellalloc/sim"
	"golang.org/x/exp/slog"
	"gopkg.in/yaml.v2"
)

const (
	envVarPrefix = "CELLSIM"

	outputText = "text"
	outputJSON = "json"
)

type Config struct {
	LogLevel    string `envconfig:"LOG_LEVEL"     yaml:"logLevel"`
	Capacity    int    `envconfig:"CAPACITY"      yaml:"capacity"`
	Strategy    string `envconfig:"STRATEGY"      yaml:"strategy"`
	Output      string `envconfig:"OUTPUT"        yaml:"output"`
	StopOnError bool   `envconfig:"STOP_ON_ERROR" yaml:"stopOnError"`
	Shared      bool   `envconfig:"SHARED"        yaml:"shared"`
}

func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Capacity: sim.DefaultCapacity,
		Strategy: metadata.StrategyFirstFit.String(),
		Output:   outputText,
	}
}

// LoadConfig starts from DefaultConfig, applies the yaml file at path if path is not empty, and
// then applies any CELLSIM_* environment variables. If path is empty, CELLSIM_CONFIG_FILE is
// used instead; a missing file at that location is not an error.
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = os.Getenv(envVarPrefix + "_CONFIG_FILE")
	}

	c := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if explicit || !os.IsNotExist(err) {
				return nil, errors.Wrap(err, "reading config file")
			}
		} else if err := yaml.UnmarshalStrict(data, &c); err != nil {
			return nil, errors.Wrap(err, "unmarshaling config file")
		}
	}

	if err := envconfig.Process(envVarPrefix, &c); err != nil {
		return nil, errors.Wrap(err, "parsing environment variables")
	}

	return &c, nil
}

func (c *Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}

	if c.Capacity <= 0 {
		return errors.Newf("capacity must be positive, got %d", c.Capacity)
	}

	if _, err := metadata.ParseStrategy(c.Strategy); err != nil {
		return errors.Wrap(err, "strategy")
	}

	switch c.Output {
	case outputText, outputJSON:
	default:
		return errors.Newf("output must be %q or %q, got %q", outputText, outputJSON, c.Output)
	}

	return nil
}

func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, errors.Wrapf(err, "log level %q", c.LogLevel)
	}

	return level, nil
}

func (c *Config) PlacementStrategy() metadata.Strategy {
	strategy, err := metadata.ParseStrategy(c.Strategy)
	if err != nil {
		return metadata.StrategyFirstFit
	}

	return strategy
}
