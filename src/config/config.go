// Package config loads the lifegrid settings from a YAML file.
// Values are applied in order: defaults, config file, command line flags.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"lifegrid/src/grid"
	"lifegrid/src/universe"
)

// Interval bounds accepted from user input.
const (
	MinInterval      = 50 * time.Millisecond
	MaxInterval      = 10 * time.Second
	IntervalStep     = 50 * time.Millisecond
	DefaultLogLevel  = "info"
	DefaultConfigEnv = "LIFEGRID_CONFIG"
)

//go:embed patterns.yaml
var defaultPatterns []byte

// Config contains all lifegrid settings.
type Config struct {
	// Rows and Cols are the fixed grid dimensions.
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`

	// Interval is the delay between generations while running.
	// Clamped to [MinInterval, MaxInterval].
	Interval time.Duration `yaml:"interval"`

	// LiveProbability is the chance of a cell to be live after randomizing.
	// Range: 0.0 to 1.0
	LiveProbability float64 `yaml:"live_probability"`

	// Seed for the randomizer, 0 picks a random one.
	Seed int64 `yaml:"seed"`

	// MaxSteps stops the simulation after that many generations, 0 is unlimited.
	MaxSteps int `yaml:"max_steps"`

	// Logging contains settings for operational logging.
	Logging LoggingConfig `yaml:"logging"`

	// Patterns are the seeding templates offered by the hosts.
	Patterns []Pattern `yaml:"patterns"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug" or "trace".
	Level string `yaml:"level"`

	// File receives the log in the interactive hosts, which own the terminal.
	// Empty discards the log there.
	File string `yaml:"file"`
}

// Pattern is a named set of live cells given as [row, col] pairs.
type Pattern struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Cells       [][2]int `yaml:"cells"`
}

// Default returns a Config with sensible defaults and the built-in patterns.
func Default() *Config {
	cfg := &Config{
		Rows:            universe.DefRows,
		Cols:            universe.DefCols,
		Interval:        universe.DefSimulationInterval,
		LiveProbability: grid.DefaultLiveProbability,
		MaxSteps:        universe.DefMaxSteps,
		Logging:         LoggingConfig{Level: DefaultLogLevel},
	}
	// the embedded file is part of the build, a failure here is a programming error
	var builtin struct {
		Patterns []Pattern `yaml:"patterns"`
	}
	if err := yaml.Unmarshal(defaultPatterns, &builtin); err != nil {
		panic(fmt.Sprintf("config: embedded patterns: %v", err))
	}
	cfg.Patterns = builtin.Patterns
	return cfg
}

// Load reads the YAML file at path on top of the defaults.
// A missing file is not an error when path came from the environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv(DefaultConfigEnv)
		if path == "" {
			return cfg, nil
		}
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	if err := Parse(data, cfg); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML data into cfg. Patterns from data are added to the
// ones already in cfg, a pattern with an existing name replaces it.
func Parse(data []byte, cfg *Config) error {
	builtin := cfg.Patterns
	cfg.Patterns = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg.Patterns = builtin
		return fmt.Errorf("parsing yaml: %w", err)
	}
	cfg.Patterns = mergePatterns(builtin, cfg.Patterns)
	return nil
}

func mergePatterns(base []Pattern, extra []Pattern) []Pattern {
	out := make([]Pattern, 0, len(base)+len(extra))
	index := map[string]int{}
	for _, p := range append(append([]Pattern{}, base...), extra...) {
		if i, ok := index[p.Name]; ok {
			out[i] = p
			continue
		}
		index[p.Name] = len(out)
		out = append(out, p)
	}
	return out
}

// Validate rejects unusable dimensions and clamps the interval and probability.
func (c *Config) Validate() error {
	if c.Rows <= 0 || c.Cols <= 0 {
		return fmt.Errorf("invalid grid size %dx%d: rows and cols must be positive", c.Rows, c.Cols)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("invalid max_steps %d: must not be negative", c.MaxSteps)
	}
	c.Interval = ClampInterval(c.Interval)
	if c.LiveProbability < 0 {
		c.LiveProbability = 0
	}
	if c.LiveProbability > 1 {
		c.LiveProbability = 1
	}
	for _, p := range c.Patterns {
		if p.Name == "" {
			return errors.New("pattern without a name")
		}
	}
	return nil
}

// ClampInterval limits d to [MinInterval, MaxInterval].
func ClampInterval(d time.Duration) time.Duration {
	if d < MinInterval {
		return MinInterval
	}
	if d > MaxInterval {
		return MaxInterval
	}
	return d
}

// UniverseOptions converts the settings to the universe options.
func (c *Config) UniverseOptions() *universe.Options {
	return &universe.Options{
		Rows:            c.Rows,
		Cols:            c.Cols,
		Interval:        c.Interval,
		MaxSteps:        c.MaxSteps,
		LiveProbability: c.LiveProbability,
		Seed:            c.Seed,
	}
}

// Templates converts the patterns to universe templates.
func (c *Config) Templates() []universe.Template {
	out := make([]universe.Template, 0, len(c.Patterns))
	for _, p := range c.Patterns {
		out = append(out, universe.Template{Name: p.Name, Descr: p.Description, Cells: p.Cells})
	}
	return out
}
