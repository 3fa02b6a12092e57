// Package config loads noisegen settings from YAML over embedded defaults.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/gekko3d/noisemaster/compute"
	"github.com/gekko3d/noisemaster/noise"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	Backend    string         `yaml:"backend"`
	Space      string         `yaml:"space"`
	Resolution int            `yaml:"resolution"`
	AutoUpdate bool           `yaml:"auto_update"`
	Preview    PreviewConfig  `yaml:"preview"`
	Kernels    KernelsConfig  `yaml:"kernels"`
	Noise      noise.Settings `yaml:"noise"`
	Output     OutputConfig   `yaml:"output"`
	Log        LogConfig      `yaml:"log"`
	Bench      BenchConfig    `yaml:"bench"`
}

// PreviewConfig controls the 2D layer extracted from 3D results.
type PreviewConfig struct {
	Enabled        bool `yaml:"enabled"`
	Layer          int  `yaml:"layer"`
	ShowResolution int  `yaml:"show_resolution"`
}

type KernelsConfig struct {
	NoisePath string `yaml:"noise_path"`
	Validate  bool   `yaml:"validate"`
}

type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Name   string `yaml:"name"`
	Format string `yaml:"format"`
}

type LogConfig struct {
	Prefix string `yaml:"prefix"`
	Debug  bool   `yaml:"debug"`
}

// BenchConfig drives the timing run. Runs of 0 disables it.
type BenchConfig struct {
	Runs        int    `yaml:"runs"`
	Resolutions []int  `yaml:"resolutions"`
	CSVPath     string `yaml:"csv_path"`
}

var global *Config

// Init loads configuration from path, or the embedded defaults if path is
// empty, and makes it available through Cfg.
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load reads the embedded defaults and then the file at path, if any, so a
// user file only overrides the keys it contains.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	switch c.Backend {
	case "soft", "wgpu":
	default:
		errs = append(errs, fmt.Errorf("backend %q: want soft or wgpu", c.Backend))
	}
	switch c.Space {
	case "2d", "3d":
	default:
		errs = append(errs, fmt.Errorf("space %q: want 2d or 3d", c.Space))
	}
	if c.Resolution <= 0 {
		errs = append(errs, fmt.Errorf("resolution %d: must be positive", c.Resolution))
	}
	if c.Preview.ShowResolution < 0 {
		errs = append(errs, fmt.Errorf("preview.show_resolution %d: must not be negative", c.Preview.ShowResolution))
	}
	switch c.Output.Format {
	case "png", "bmp", "tiff":
	default:
		errs = append(errs, fmt.Errorf("output.format %q: want png, bmp or tiff", c.Output.Format))
	}
	if c.Backend == "wgpu" && c.Kernels.NoisePath == "" {
		errs = append(errs, errors.New("kernels.noise_path is required by the wgpu backend"))
	}
	if c.Bench.Runs < 0 {
		errs = append(errs, fmt.Errorf("bench.runs %d: must not be negative", c.Bench.Runs))
	}
	return errors.Join(errs...)
}

// Is3D reports whether the configured space is volumetric.
func (c *Config) Is3D() bool { return c.Space == "3d" }

// EffectiveResolution is Resolution after the volume cap.
func (c *Config) EffectiveResolution() int {
	if c.Is3D() && c.Resolution > compute.MaxVolumeResolution {
		return compute.MaxVolumeResolution
	}
	return c.Resolution
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
