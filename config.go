package gaussmap

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Output formats understood by the command-line tools.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config describes one Gauss map run. The zero value is not valid; start
// from DefaultConfig.
type Config struct {
	// Name selects a catalog surface. It is exclusive with Surface.
	Name    string  `yaml:"name"`
	Surface Input   `yaml:"surface"`
	USteps  int     `yaml:"u_steps"`
	VSteps  int     `yaml:"v_steps"`
	Epsilon float64 `yaml:"epsilon"`
	Workers int     `yaml:"workers"`
	// Outward flips the field when the majority of normals point inward.
	Outward   bool    `yaml:"outward"`
	MaxRadius float64 `yaml:"max_radius"`
	Format    string  `yaml:"format"`
}

func DefaultConfig() Config {
	return Config{
		USteps:    20,
		VSteps:    20,
		Epsilon:   DefaultEpsilon,
		Workers:   runtime.NumCPU(),
		MaxRadius: 8,
		Format:    FormatText,
	}
}

// ParseConfig overlays YAML data onto DefaultConfig and validates the
// result. Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses the YAML file at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the numeric settings and that at most one surface source
// is given. It does not parse the surface.
func (c Config) Validate() error {
	switch {
	case c.USteps < 1 || c.VSteps < 1:
		return fmt.Errorf("%w: grid steps must be positive, got %dx%d", ErrConfig, c.USteps, c.VSteps)
	case !(c.Epsilon > 0) || math.IsInf(c.Epsilon, 1):
		return fmt.Errorf("%w: epsilon must be positive and finite, got %g", ErrConfig, c.Epsilon)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be positive, got %d", ErrConfig, c.Workers)
	case !(c.MaxRadius > 0):
		return fmt.Errorf("%w: max_radius must be positive, got %g", ErrConfig, c.MaxRadius)
	case c.Format != FormatText && c.Format != FormatJSON:
		return fmt.Errorf("%w: unknown format %q", ErrConfig, c.Format)
	case c.Name != "" && !c.Surface.IsZero():
		return fmt.Errorf("%w: name and surface are mutually exclusive", ErrConfig)
	}
	return nil
}

// Input resolves the configured surface text.
func (c Config) Input() (Input, error) {
	if c.Name != "" {
		return Lookup(c.Name)
	}
	if c.Surface.IsZero() {
		return Input{}, fmt.Errorf("%w: no surface given", ErrConfig)
	}
	return c.Surface, nil
}

// Field parses the configured surface and builds its normal field, applying
// Epsilon and, if requested, the outward orientation over the sweep grid.
func (c Config) Field() (*NormalField, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	in, err := c.Input()
	if err != nil {
		return nil, err
	}
	s, err := ParseSurface(in)
	if err != nil {
		return nil, err
	}
	f, err := NewNormalField(s, WithEpsilon(c.Epsilon))
	if err != nil {
		return nil, err
	}
	if c.Outward {
		f = f.Outward(c.Grid(s))
	}
	return f, nil
}

// Grid is the sweep grid over s.
func (c Config) Grid(s *Surface) Grid { return NewGrid(s, c.USteps, c.VSteps) }
