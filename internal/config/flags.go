package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagSeed       = flag.Int64("seed", 0, "Height field seed")
	flagLevels     = flag.Int("levels", 0, "Terrain LOD ring count")
	flagNoShadows  = flag.Bool("no-shadows", false, "Disable cascaded shadows")
	flagTime       = flag.Float64("time", -1, "Starting time of day in hours")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
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
		cfg.Graphics.ShowFPS = true
	}
	if *flagSeed != 0 {
		cfg.Field.Seed = *flagSeed
	}
	if *flagLevels > 0 {
		cfg.Terrain.Levels = *flagLevels
	}
	if *flagNoShadows {
		cfg.Shadow.Enabled = false
	}
	if *flagTime >= 0 {
		cfg.Sky.StartTime = float32(*flagTime)
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
}
