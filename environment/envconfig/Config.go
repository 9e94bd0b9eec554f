// Package envconfig loads the configuration of navigation experiments and
// creates the environments they describe. Configurations are YAML files
// layered over embedded defaults.
package envconfig

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/samuelfneumann/spherenav/environment/box2d/plane"
	"github.com/samuelfneumann/spherenav/environment/navigation"
	"github.com/samuelfneumann/spherenav/timestep"
	"github.com/samuelfneumann/spherenav/utils/randutils"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// PolicyName names the policies which can drive an experiment
type PolicyName string

// Policies available for configuration
const (
	Seek   PolicyName = "seek"
	Random PolicyName = "random"

	// Manual replays recorded manual input read from ManualInput
	Manual PolicyName = "manual"
)

// PerceptionConfig configures the ray perception appended to
// observations. Zero rays disables perception.
type PerceptionConfig struct {
	Rays      int     `yaml:"rays"`
	RayLength float64 `yaml:"ray_length"`
}

// OutputConfig configures what an experiment writes to disk. Paths are
// relative to Dir, and empty paths are not written.
type OutputConfig struct {
	Dir      string `yaml:"dir"`
	Outcomes string `yaml:"outcomes"`
	Returns  string `yaml:"returns"`
	Lengths  string `yaml:"lengths"`
	Render   bool   `yaml:"render"`
}

// Config implements the configuration of a navigation experiment: the
// environment, the physics service it runs on, and how it is run
type Config struct {
	Seed      uint64 `yaml:"seed"`
	Instances int    `yaml:"instances"`
	Steps     int    `yaml:"steps"`

	navigation.Config `yaml:",inline"`

	Physics    plane.Config     `yaml:"physics"`
	Perception PerceptionConfig `yaml:"perception"`
	Policy     PolicyName       `yaml:"policy"`

	// ManualInput is a CSV file of horizontal and vertical axis values,
	// one row per step, replayed by the manual policy
	ManualInput string `yaml:"manual_input"`

	Output     OutputConfig     `yaml:"output"`
}

// Load returns the embedded default configuration overlaid with the YAML
// file at path. If path is empty the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("load: parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load: reading config file: %w", err)
		}

		// Only the fields present in the file are overwritten
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("load: parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	return cfg, nil
}

// Validate returns an error describing every invalid setting in c
func (c *Config) Validate() error {
	var errs []error

	if c.Instances < 1 {
		errs = append(errs, fmt.Errorf("instances must be positive but "+
			"got %v", c.Instances))
	}
	if c.Steps < 0 {
		errs = append(errs, fmt.Errorf("steps must be non-negative but "+
			"got %v", c.Steps))
	}
	if err := c.Config.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Physics.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("physics: %w", err))
	}
	if c.Perception.Rays < 0 ||
		(c.Perception.Rays > 0 && c.Perception.RayLength <= 0) {
		errs = append(errs, fmt.Errorf("perception: %v rays of length %v "+
			"are invalid", c.Perception.Rays, c.Perception.RayLength))
	}
	switch c.Policy {
	case Seek, Random:
	case Manual:
		if c.ManualInput == "" {
			errs = append(errs, fmt.Errorf("manual policy needs a "+
				"manual_input file"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown policy %q", c.Policy))
	}

	return errors.Join(errs...)
}

// InstanceSeed returns the seed of the given instance. Instances are
// seeded independently so that they share no random stream.
func (c *Config) InstanceSeed(instance int) uint64 {
	return randutils.Seed(c.Seed, fmt.Sprintf("instance.%d", instance))
}

// Create returns the environment of the given instance, the physics
// service driving it, and the first timestep of the environment
func (c *Config) Create(instance int,
	logger *zap.Logger) (*navigation.Navigation, *plane.World,
	timestep.TimeStep, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	seed := c.InstanceSeed(instance)

	world, err := plane.New(c.Physics, seed, logger.Named("physics"))
	if err != nil {
		return nil, nil, timestep.TimeStep{}, fmt.Errorf("create: %w", err)
	}

	opts := []navigation.Option{navigation.WithLogger(logger)}
	if c.Perception.Rays > 0 {
		perception := plane.NewRayPerception(world, c.Perception.Rays,
			c.Perception.RayLength)
		opts = append(opts, navigation.WithPerception(perception))
	}

	env, step, err := navigation.New(world, c.Config, seed, opts...)
	if err != nil {
		return nil, nil, timestep.TimeStep{}, fmt.Errorf("create: %w", err)
	}
	return env, world, step, nil
}
