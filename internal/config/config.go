// Package config handles configuration loading and management.
package config

// Config holds all settings for the tessellation tools.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Terrain TerrainConfig `yaml:"terrain"`
	LOD     LODConfig     `yaml:"lod"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds viewer display settings.
type WindowConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// TerrainConfig describes the world the tessellator subdivides.
type TerrainConfig struct {
	Extent    int     `yaml:"extent"`    // world size in grid units
	RootGrid  int     `yaml:"root_grid"` // root cells per axis
	MaxDepth  int     `yaml:"max_depth"` // quadtree subdivision limit
	Scale     float32 `yaml:"scale"`     // world units per grid unit
	Height    float32 `yaml:"height"`    // vertical extent in world units
	Seed      int64   `yaml:"seed"`      // noise seed for procedural sources
	Heightmap string  `yaml:"heightmap"` // optional heightmap image; empty uses noise
}

// LODConfig holds level-of-detail selection settings.
type LODConfig struct {
	ViewDistance    float32 `yaml:"view_distance"`    // view-distance multiplier
	ViewerHeight    float32 `yaml:"viewer_height"`    // assumed terrain height under the viewer
	SubdivisionBias float32 `yaml:"subdivision_bias"` // 0 uses the built-in default
	Density         string  `yaml:"density"`          // "fixed" or "procedural"
	FixedLevel      int     `yaml:"fixed_level"`      // density level for the fixed policy
	Cull            bool    `yaml:"cull"`             // frustum-cull cells during refinement
	Workers         int     `yaml:"workers"`          // pass parallelism; 0 = all CPUs
}

// ServerConfig holds patch streaming settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Terrain: TerrainConfig{
			Extent:   1024,
			RootGrid: 8,
			MaxDepth: 5,
			Scale:    1.0,
			Height:   96.0,
			Seed:     1,
		},
		LOD: LODConfig{
			ViewDistance: 3.0,
			ViewerHeight: 0,
			Density:      "procedural",
			FixedLevel:   3,
			Cull:         false,
			Workers:      0,
		},
		Server: ServerConfig{
			Addr: ":8875",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
