package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagNoShadows  = flag.Bool("no-shadows", false, "Disable cascaded shadow maps")
	flagNoNormal   = flag.Bool("no-normal", false, "Disable normal mapping")
	flagNoHeight   = flag.Bool("no-height", false, "Disable height mapping")
	flagNoGLSL     = flag.Bool("no-glsl-model", false, "Disable programmable model shading")
	flagStrict     = flag.Bool("strict", false, "Panic on render invariant violations")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWindowed {
		cfg.Window.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	if *flagNoShadows {
		cfg.Render.Shadows.Enabled = false
	}
	if *flagNoNormal {
		cfg.Render.Shaders.NormalMaps = false
	}
	if *flagNoHeight {
		cfg.Render.Shaders.HeightMaps = false
	}
	if *flagNoGLSL {
		cfg.Render.Shaders.ModelShading = false
	}
	if *flagStrict {
		cfg.Render.StrictInvariants = true
	}
}
