// Package config handles application configuration loading and management.
package config

// Config holds all application settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Terrain  TerrainConfig  `yaml:"terrain"`
	Field    FieldConfig    `yaml:"field"`
	Shadow   ShadowConfig   `yaml:"shadow"`
	Sky      SkyConfig      `yaml:"sky"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
	ShowFPS    bool `yaml:"show_fps"`
}

// TerrainConfig holds the LOD ring layout settings.
type TerrainConfig struct {
	WorldWidth  float32 `yaml:"world_width"`
	Levels      int     `yaml:"levels"`
	Resolution  int     `yaml:"resolution"`
	MorphRegion float32 `yaml:"morph_region"`
}

// FieldConfig holds height field generation settings.
type FieldConfig struct {
	Resolution   int     `yaml:"resolution"`
	Seed         int64   `yaml:"seed"`
	Octaves      int     `yaml:"octaves"`
	OctaveGrowth float64 `yaml:"octave_growth"`
	Smoothing    float32 `yaml:"smoothing"`
	Gain         float32 `yaml:"gain"`
	Island       bool    `yaml:"island"`

	ThermalIterations int     `yaml:"thermal_iterations"`
	ThermalTalus      float32 `yaml:"thermal_talus"`
	HydraulicDrops    int     `yaml:"hydraulic_drops"`
	HydraulicSteps    int     `yaml:"hydraulic_steps"`
}

// ShadowConfig holds cascade settings.
type ShadowConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Resolution int32   `yaml:"resolution"`
	Lambda     float32 `yaml:"lambda"`
	Overlap    float32 `yaml:"overlap"`
	Bias       float32 `yaml:"bias"`
	Strength   float32 `yaml:"strength"`
	Softness   float32 `yaml:"softness"`
}

// SkyConfig holds day-cycle settings.
type SkyConfig struct {
	StartTime float32 `yaml:"start_time"` // hours, 0..24
	TimeScale float32 `yaml:"time_scale"` // day hours per real second
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
			ShowFPS:    false,
		},
		Terrain: TerrainConfig{
			WorldWidth:  8192,
			Levels:      12,
			Resolution:  256,
			MorphRegion: 0.3,
		},
		Field: FieldConfig{
			Resolution:        256,
			Seed:              1,
			Octaves:           4,
			OctaveGrowth:      5.0,
			Smoothing:         0.15,
			Gain:              2.5,
			Island:            false,
			ThermalIterations: 0,
			ThermalTalus:      0.6,
			HydraulicDrops:    0,
			HydraulicSteps:    64,
		},
		Shadow: ShadowConfig{
			Enabled:    true,
			Resolution: 2048,
			Lambda:     0.6,
			Overlap:    0.1,
			Bias:       0.0015,
			Strength:   0.8,
			Softness:   1.0,
		},
		Sky: SkyConfig{
			StartTime: 10,
			TimeScale: 0.1,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
