// Package config loads the threat map's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sudorandom/threat-map/pkg/mapengine"
)

var (
	ErrEmptyRoster    = errors.New("roster must not be empty")
	ErrInvalidPeriod  = errors.New("tick period must be positive")
	ErrInvalidLogSize = errors.New("max_logs must be positive")
	ErrInvalidWindow  = errors.New("window size must be positive")
)

// DefaultDemoTick is how often the simulate button is pressed automatically.
const DefaultDemoTick = 6 * time.Second

type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	TPS    int    `yaml:"tps"`
}

type Schedule struct {
	FastTick time.Duration `yaml:"fast_tick"`
	SlowTick time.Duration `yaml:"slow_tick"`
	DemoTick time.Duration `yaml:"demo_tick"`
}

type Simulation struct {
	MaxLogs int     `yaml:"max_logs"`
	Seed    int64   `yaml:"seed"` // 0 picks a time-based seed
	Demo    *bool   `yaml:"demo"` // startup attacks and the demo tick; nil means on
	LatMin  float64 `yaml:"lat_min"`
	LatMax  float64 `yaml:"lat_max"`
	LonMin  float64 `yaml:"lon_min"`
	LonMax  float64 `yaml:"lon_max"`
}

type Rosters struct {
	Sites    []string `yaml:"sites"`
	Statuses []string `yaml:"statuses"`
	Units    []string `yaml:"units"`
}

type Panel struct {
	Lines []string `yaml:"lines"`
}

type Assets struct {
	Background  string `yaml:"background"`
	LandGeoJSON string `yaml:"land_geojson"`
	CacheDir    string `yaml:"cache_dir"`
	AudioDir    string `yaml:"audio_dir"`
	CaptureDir  string `yaml:"capture_dir"`
}

type Config struct {
	Window     Window     `yaml:"window"`
	Schedule   Schedule   `yaml:"schedule"`
	Simulation Simulation `yaml:"simulation"`
	Rosters    Rosters    `yaml:"rosters"`
	Panel      Panel      `yaml:"panel"`
	Assets     Assets     `yaml:"assets"`
}

// Default returns the built-in configuration.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads a YAML file and fills every unset field with its default.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

func Parse(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Window.Width == 0 {
		c.Window.Width = 1200
	}
	if c.Window.Height == 0 {
		c.Window.Height = 600
	}
	if c.Window.Title == "" {
		c.Window.Title = "SCP Breach Monitor"
	}
	if c.Window.TPS == 0 {
		c.Window.TPS = 60
	}
	if c.Schedule.FastTick == 0 {
		c.Schedule.FastTick = mapengine.DefaultFastTick
	}
	if c.Schedule.SlowTick == 0 {
		c.Schedule.SlowTick = mapengine.DefaultSlowTick
	}
	if c.Schedule.DemoTick == 0 {
		c.Schedule.DemoTick = DefaultDemoTick
	}
	if c.Simulation.MaxLogs == 0 {
		c.Simulation.MaxLogs = mapengine.DefaultMaxLogs
	}
	s := &c.Simulation
	if s.LatMin == 0 && s.LatMax == 0 {
		b := mapengine.DefaultBounds()
		s.LatMin, s.LatMax = b.LatMin, b.LatMax
	}
	if s.LonMin == 0 && s.LonMax == 0 {
		b := mapengine.DefaultBounds()
		s.LonMin, s.LonMax = b.LonMin, b.LonMax
	}
	r := mapengine.DefaultRosters()
	if c.Rosters.Sites == nil {
		c.Rosters.Sites = r.Sites
	}
	if c.Rosters.Statuses == nil {
		c.Rosters.Statuses = r.Statuses
	}
	if c.Rosters.Units == nil {
		c.Rosters.Units = r.Units
	}
	if c.Panel.Lines == nil {
		c.Panel.Lines = append([]string(nil), mapengine.DefaultPanelLines...)
	}
	if c.Assets.Background == "" {
		c.Assets.Background = "world.png"
	}
	if c.Assets.CacheDir == "" {
		c.Assets.CacheDir = "data/cache"
	}
}

// Validate rejects values the engine cannot run with. An explicitly empty
// roster (`units: []`) is an error; an omitted one gets the default.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidWindow, c.Window.Width, c.Window.Height)
	}
	if c.Schedule.FastTick <= 0 || c.Schedule.SlowTick <= 0 || c.Schedule.DemoTick <= 0 {
		return ErrInvalidPeriod
	}
	if c.Simulation.MaxLogs <= 0 {
		return ErrInvalidLogSize
	}
	for name, roster := range map[string][]string{
		"sites":    c.Rosters.Sites,
		"statuses": c.Rosters.Statuses,
		"units":    c.Rosters.Units,
	} {
		if len(roster) == 0 {
			return fmt.Errorf("%s: %w", name, ErrEmptyRoster)
		}
	}
	return nil
}

// DemoEnabled reports whether the demo attacks and the demo tick run.
func (c *Config) DemoEnabled() bool {
	return c.Simulation.Demo == nil || *c.Simulation.Demo
}

// SimulationConfig converts the file layout into the engine's.
func (c *Config) SimulationConfig() mapengine.SimulationConfig {
	return mapengine.SimulationConfig{
		MaxLogs: c.Simulation.MaxLogs,
		Rosters: mapengine.Rosters{
			Sites:    c.Rosters.Sites,
			Statuses: c.Rosters.Statuses,
			Units:    c.Rosters.Units,
		},
		Bounds: mapengine.Bounds{
			LatMin: c.Simulation.LatMin,
			LatMax: c.Simulation.LatMax,
			LonMin: c.Simulation.LonMin,
			LonMax: c.Simulation.LonMax,
		},
	}
}
