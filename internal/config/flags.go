package config

import "flag"

var (
	flagConfig       = flag.String("config", "", "Path to config file")
	flagDebug        = flag.Bool("debug", false, "Enable debug logging")
	flagExtent       = flag.Int("extent", 0, "World extent in grid units")
	flagRootGrid     = flag.Int("root-grid", 0, "Root cells per axis")
	flagMaxDepth     = flag.Int("max-depth", -1, "Quadtree subdivision limit")
	flagViewDistance = flag.Float64("view-distance", 0, "View-distance multiplier")
	flagDensity      = flag.String("density", "", "Density policy: fixed or procedural")
	flagCull         = flag.Bool("cull", false, "Enable frustum culling during refinement")
	flagWorkers      = flag.Int("workers", -1, "Pass parallelism (0 = all CPUs)")
	flagAddr         = flag.String("addr", "", "Patch server listen address")
	flagWindowed     = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen   = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth        = flag.Int("width", 0, "Window width")
	flagHeight       = flag.Int("height", 0, "Window height")
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
	if *flagExtent > 0 {
		cfg.Terrain.Extent = *flagExtent
	}
	if *flagRootGrid > 0 {
		cfg.Terrain.RootGrid = *flagRootGrid
	}
	if *flagMaxDepth >= 0 {
		cfg.Terrain.MaxDepth = *flagMaxDepth
	}
	if *flagViewDistance > 0 {
		cfg.LOD.ViewDistance = float32(*flagViewDistance)
	}
	if *flagDensity != "" {
		cfg.LOD.Density = *flagDensity
	}
	if *flagCull {
		cfg.LOD.Cull = true
	}
	if *flagWorkers >= 0 {
		cfg.LOD.Workers = *flagWorkers
	}
	if *flagAddr != "" {
		cfg.Server.Addr = *flagAddr
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
}
