// Package config handles renderer configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Config holds all renderer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Render  RenderConfig  `yaml:"render"`
	Logging LoggingConfig `yaml:"logging"`
	Demo    DemoConfig    `yaml:"demo"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// RenderConfig holds draw queue and state cache settings.
type RenderConfig struct {
	// MaxLights caps the number of lights selected for a single draw.
	MaxLights int `yaml:"max_lights"`
	// UniformEpsilon is the tolerance used when comparing float uniforms.
	UniformEpsilon float32 `yaml:"uniform_epsilon"`
	// StrictInvariants makes programmer-error guards panic instead of clamp.
	StrictInvariants bool          `yaml:"strict_invariants"`
	Shaders          ShadersConfig `yaml:"shaders"`
	Shadows          ShadowsConfig `yaml:"shadows"`
}

// ShadersConfig toggles shader feature classes before any compilation.
type ShadersConfig struct {
	ShaderModel  int  `yaml:"shader_model"`
	NormalMaps   bool `yaml:"normal_maps"`
	HeightMaps   bool `yaml:"height_maps"`
	ModelShading bool `yaml:"model_shading"`
}

// ShadowsConfig holds cascaded shadow map settings.
type ShadowsConfig struct {
	Enabled bool `yaml:"enabled"`
	// Quality is one of low, medium, high. It picks the map size when
	// Resolution is zero.
	Quality    string    `yaml:"quality"`
	Resolution int       `yaml:"resolution"`
	Splits     []float32 `yaml:"splits"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// DemoConfig holds optional texture files that replace the demo's
// generated textures.
type DemoConfig struct {
	GroundTexture string `yaml:"ground_texture"`
	HullTexture   string `yaml:"hull_texture"`
	// MaxTextureSize scales larger files down, 0 keeps their size.
	MaxTextureSize int `yaml:"max_texture_size"`
}

// Limits of the built-in variant programs.
const (
	MaxLightsLimit = 8
	MaxCascades    = 4
)

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "drawqueue",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Render: RenderConfig{
			MaxLights:        8,
			UniformEpsilon:   1e-4,
			StrictInvariants: false,
			Shaders: ShadersConfig{
				ShaderModel:  3,
				NormalMaps:   true,
				HeightMaps:   true,
				ModelShading: true,
			},
			Shadows: ShadowsConfig{
				Enabled:    true,
				Quality:    "medium",
				Resolution: 0,
				Splits:     []float32{1, 200, 500, 2000, 10000},
			},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Demo: DemoConfig{
			MaxTextureSize: 1024,
		},
	}
}

// MapSize returns the shadow map edge length in texels.
func (s ShadowsConfig) MapSize() int {
	if s.Resolution > 0 {
		return s.Resolution
	}
	switch s.Quality {
	case "low":
		return 512
	case "high":
		return 2048
	default:
		return 1024
	}
}

// Validate reports settings that cannot drive a frame.
func (c *Config) Validate() error {
	var errs []error

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Render.MaxLights < 0 || c.Render.MaxLights > MaxLightsLimit {
		errs = append(errs, fmt.Errorf("render.max_lights %d must be within 0..%d", c.Render.MaxLights, MaxLightsLimit))
	}
	if c.Render.UniformEpsilon < 0 {
		errs = append(errs, fmt.Errorf("render.uniform_epsilon %g must not be negative", c.Render.UniformEpsilon))
	}

	if c.Demo.MaxTextureSize < 0 {
		errs = append(errs, fmt.Errorf("demo.max_texture_size %d must not be negative", c.Demo.MaxTextureSize))
	}

	sh := c.Render.Shadows
	switch sh.Quality {
	case "", "low", "medium", "high":
	default:
		errs = append(errs, fmt.Errorf("render.shadows.quality %q is not low, medium or high", sh.Quality))
	}
	if sh.Resolution < 0 {
		errs = append(errs, fmt.Errorf("render.shadows.resolution %d must not be negative", sh.Resolution))
	}
	if sh.Enabled {
		if len(sh.Splits) < 2 || len(sh.Splits) > MaxCascades+1 {
			errs = append(errs, fmt.Errorf("render.shadows.splits needs 2..%d distances, got %d", MaxCascades+1, len(sh.Splits)))
		}
		for i := 1; i < len(sh.Splits); i++ {
			if sh.Splits[i] <= sh.Splits[i-1] {
				errs = append(errs, fmt.Errorf("render.shadows.splits must increase: %g follows %g", sh.Splits[i], sh.Splits[i-1]))
				break
			}
		}
		if len(sh.Splits) > 0 && sh.Splits[0] <= 0 {
			errs = append(errs, fmt.Errorf("render.shadows.splits must start above zero, got %g", sh.Splits[0]))
		}
	}

	return errors.Join(errs...)
}
