// Package viewer implements the interactive patch set viewer.
package viewer

import (
	"errors"
	"fmt"
	gomath "math"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/veldt/internal/config"
	"github.com/Faultbox/veldt/internal/engine/camera"
	"github.com/Faultbox/veldt/internal/engine/debug"
	"github.com/Faultbox/veldt/internal/engine/heightfield"
	"github.com/Faultbox/veldt/internal/engine/input"
	"github.com/Faultbox/veldt/internal/engine/picking"
	"github.com/Faultbox/veldt/internal/engine/renderer"
	"github.com/Faultbox/veldt/internal/engine/tessellate"
	"github.com/Faultbox/veldt/internal/engine/window"
	"github.com/Faultbox/veldt/internal/logger"
	"github.com/Faultbox/veldt/pkg/math"
)

const windowTitle = "Veldt"

// App owns the window, the camera and one tessellator, and rebuilds the
// patch set from the camera pose every frame.
type App struct {
	cfg     *config.Config
	running bool

	window   *window.Window
	input    *input.Input
	renderer *renderer.Renderer
	camera   *camera.OrbitCamera
	shots    *debug.ScreenshotCapture
	maps     *debug.ScreenshotCapture

	ts    *tessellate.Tessellator
	vc    tessellate.ViewConfig
	field heightfield.Field

	fixed      tessellate.FixedDensity
	procedural *tessellate.ProceduralDensity
	useNoise   bool
	cull       bool

	width, height int
	worldSize     float32

	lastCapWarn time.Time
}

// New creates the viewer from loaded configuration.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg:        cfg,
		vc:         viewConfigFrom(cfg),
		fixed:      tessellate.FixedDensity{Level: uint32(cfg.LOD.FixedLevel)},
		procedural: tessellate.NewProceduralDensity(cfg.Terrain.Seed),
		useNoise:   cfg.LOD.Density == "procedural",
		cull:       cfg.LOD.Cull,
		width:      cfg.Window.Width,
		height:     cfg.Window.Height,
		worldSize:  float32(cfg.Terrain.Extent) * cfg.Terrain.Scale,
	}

	var err error
	a.window, err = window.New(window.Config{
		Title:      windowTitle,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
		Samples:    4,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer needs the GL context the window created.
	a.renderer, err = renderer.New(renderer.Config{
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
	})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.input = input.New()
	a.shots = debug.NewScreenshotCapture("screenshots", "veldt")
	a.maps = debug.NewScreenshotCapture("screenshots", "lodmap")

	a.camera = camera.NewOrbitCamera()
	a.camera.FitTerrain(a.worldSize, cfg.Terrain.Height)

	a.field, err = openField(cfg, a.worldSize)
	if err != nil {
		a.renderer.Close()
		a.window.Close()
		return nil, err
	}

	if err := a.rebuildTessellator(); err != nil {
		a.renderer.Close()
		a.window.Close()
		return nil, err
	}

	logger.Info("viewer initialized",
		zap.Uint32("extent", a.vc.WorldExtent),
		zap.Uint32("root_grid", a.vc.RootGrid),
		zap.Uint32("max_depth", a.vc.MaxDepth),
		zap.Bool("procedural_density", a.useNoise),
	)
	return a, nil
}

// openField picks the height source: a heightmap image when configured,
// otherwise seeded noise.
func openField(cfg *config.Config, worldSize float32) (heightfield.Field, error) {
	if cfg.Terrain.Heightmap == "" {
		return heightfield.NewProcedural(cfg.Terrain.Seed, cfg.Terrain.Height), nil
	}
	f, err := heightfield.LoadImage(cfg.Terrain.Heightmap, worldSize, worldSize, cfg.Terrain.Height)
	if err != nil {
		return nil, fmt.Errorf("loading heightmap: %w", err)
	}
	return f, nil
}

func viewConfigFrom(cfg *config.Config) tessellate.ViewConfig {
	return tessellate.ViewConfig{
		Scale:           cfg.Terrain.Scale,
		ViewerHeight:    cfg.LOD.ViewerHeight,
		ViewDistance:    cfg.LOD.ViewDistance,
		MaxDepth:        uint32(cfg.Terrain.MaxDepth),
		WorldExtent:     uint32(cfg.Terrain.Extent),
		RootGrid:        uint32(cfg.Terrain.RootGrid),
		SubdivisionBias: cfg.LOD.SubdivisionBias,
		TerrainHeight:   cfg.Terrain.Height,
	}
}

func (a *App) densityPolicy() tessellate.DensityPolicy {
	if a.useNoise {
		return a.procedural
	}
	return a.fixed
}

// rebuildTessellator replaces the tessellator after a runtime toggle
// changed the view config or the policies.
func (a *App) rebuildTessellator() error {
	ts, err := tessellate.New(a.vc,
		tessellate.WithDensity(a.densityPolicy()),
		tessellate.WithCulling(a.cull),
		tessellate.WithWorkers(a.cfg.LOD.Workers),
	)
	if err != nil {
		return err
	}
	a.ts = ts
	return nil
}

// Run starts the viewer loop.
func (a *App) Run() error {
	a.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()
	titleTimer := time.Time{}

	logger.Info("starting viewer loop")
	logger.Info("controls: drag orbit, wheel zoom, right-click recenter, WASD/QE pan, " +
		"C cull, P density, L lines, F fill, [ ] view distance, M lod map, " +
		"F12 screenshot, R refit, ESC quit")

	for a.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		// 1. Process input
		if a.input.Update() {
			a.running = false
			break
		}
		if err := a.handleEvents(); err != nil {
			return err
		}
		a.handleMovement(dt)

		// 2. Rebuild the patch set from the camera pose
		viewProj := a.viewProj()
		if a.buildPatches(viewProj) {
			a.renderer.SetMesh(renderer.BuildMesh(a.ts, a.field))
		}

		// 3. Render
		a.renderer.Begin()
		a.renderer.Draw(viewProj)
		a.window.SwapBuffers()

		// Status line in the title, a couple of times per second
		if now.Sub(titleTimer) >= 500*time.Millisecond {
			titleTimer = now
			a.window.SetTitle(a.statusTitle())
		}

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps", zap.Int("count", frameCount), zap.Int("patches", a.ts.PatchCount()))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// viewProj builds the combined projection and view matrix.
func (a *App) viewProj() math.Mat4 {
	aspect := float32(a.width) / float32(a.height)
	proj := math.Perspective(float32(gomath.Pi/3), aspect, 0.1, a.worldSize*8)
	return proj.Mul(a.camera.ViewMatrix())
}

// buildPatches runs one tessellation build. Returns false when the mesh
// should not be refreshed, keeping the last good patch set on screen.
func (a *App) buildPatches(viewProj math.Mat4) bool {
	viewer := a.camera.Viewer()

	var cs *tessellate.CullState
	if a.cull {
		cs = tessellate.NewCullState(viewer, viewProj, math.Identity())
	} else {
		cs = tessellate.NewViewerState(viewer)
	}

	if err := a.ts.Build(cs); err != nil {
		if errors.Is(err, tessellate.ErrCapacity) {
			if time.Since(a.lastCapWarn) >= time.Second {
				a.lastCapWarn = time.Now()
				logger.Warn("patch set overflowed buffers; lower view distance or raise capacities",
					zap.Float32("view_distance", a.vc.ViewDistance))
			}
			return false
		}
		logger.Error("tessellation build failed", zap.Error(err))
		return false
	}
	return true
}

func (a *App) handleEvents() error {
	for _, event := range a.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			a.width, a.height = event.Width, event.Height
			a.renderer.Resize(event.Width, event.Height)

		case input.EventMouseDown:
			if event.Button == sdl.BUTTON_LEFT {
				a.window.SetRelativeMouse(true)
			}
			if event.Button == sdl.BUTTON_RIGHT {
				a.recenterAt(event.MouseX, event.MouseY)
			}

		case input.EventMouseUp:
			if event.Button == sdl.BUTTON_LEFT {
				a.window.SetRelativeMouse(false)
			}

		case input.EventMouseMove:
			if a.input.IsMouseHeld(sdl.BUTTON_LEFT) {
				a.camera.HandleDrag(float32(event.RelX), float32(event.RelY))
			}

		case input.EventMouseWheel:
			a.camera.HandleZoom(float32(event.WheelY))

		case input.EventKeyDown:
			if err := a.handleKey(event.Key); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *App) handleKey(key sdl.Scancode) error {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		a.running = false

	case sdl.SCANCODE_C:
		a.cull = !a.cull
		logger.Info("frustum culling toggled", zap.Bool("enabled", a.cull))
		return a.rebuildTessellator()

	case sdl.SCANCODE_P:
		a.useNoise = !a.useNoise
		logger.Info("density policy toggled", zap.Bool("procedural", a.useNoise))
		return a.rebuildTessellator()

	case sdl.SCANCODE_L:
		a.renderer.DrawLines = !a.renderer.DrawLines

	case sdl.SCANCODE_F:
		a.renderer.DrawFill = !a.renderer.DrawFill

	case sdl.SCANCODE_LEFTBRACKET:
		return a.scaleViewDistance(0.8)

	case sdl.SCANCODE_RIGHTBRACKET:
		return a.scaleViewDistance(1.25)

	case sdl.SCANCODE_R:
		a.camera.FitTerrain(a.worldSize, a.cfg.Terrain.Height)

	case sdl.SCANCODE_M:
		a.captureLODMap()

	case sdl.SCANCODE_F12:
		a.captureScreenshot()
	}
	return nil
}

func (a *App) scaleViewDistance(factor float32) error {
	vd := a.vc.ViewDistance * factor
	if vd < 0.05 {
		vd = 0.05
	}
	a.vc.ViewDistance = vd
	logger.Info("view distance changed", zap.Float32("view_distance", vd))
	return a.rebuildTessellator()
}

// handleMovement applies held pan keys, scaled to the frame time.
func (a *App) handleMovement(dt float64) {
	step := float32(dt * 60)
	var forward, right, up float32
	if a.input.IsKeyHeld(sdl.SCANCODE_W) {
		forward += step
	}
	if a.input.IsKeyHeld(sdl.SCANCODE_S) {
		forward -= step
	}
	if a.input.IsKeyHeld(sdl.SCANCODE_D) {
		right += step
	}
	if a.input.IsKeyHeld(sdl.SCANCODE_A) {
		right -= step
	}
	if a.input.IsKeyHeld(sdl.SCANCODE_E) {
		up += step
	}
	if a.input.IsKeyHeld(sdl.SCANCODE_Q) {
		up -= step
	}
	if forward != 0 || right != 0 || up != 0 {
		a.camera.HandleMovement(forward, right, up)
	}
}

// recenterAt orbits the camera around the terrain point under the pixel.
func (a *App) recenterAt(mouseX, mouseY int) {
	inv, ok := a.viewProj().Inverse()
	if !ok {
		return
	}
	ray := picking.ScreenToRay(float32(mouseX), float32(mouseY),
		float32(a.width), float32(a.height), inv)

	hit, ok := ray.MarchField(a.field, a.worldSize*3, a.vc.Scale)
	if !ok {
		// Looking past the terrain; fall back to the ground plane.
		if hit, ok = ray.IntersectPlaneY(0); !ok {
			return
		}
	}
	a.camera.SetCenter(hit.X, hit.Y, hit.Z)
	logger.Debug("camera recentered",
		zap.Float32("x", hit.X), zap.Float32("y", hit.Y), zap.Float32("z", hit.Z))
}

func (a *App) captureScreenshot() {
	pixels, w, h := a.renderer.ReadPixels()
	path, err := a.shots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		logger.Error("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

func (a *App) captureLODMap() {
	if err := os.MkdirAll("screenshots", 0755); err != nil {
		logger.Error("lod map failed", zap.Error(err))
		return
	}
	path := a.maps.GenerateFilename()
	if err := debug.WriteLODMap(path, a.ts); err != nil {
		logger.Error("lod map failed", zap.Error(err))
		return
	}
	logger.Info("lod map saved", zap.String("path", path))
}

func (a *App) statusTitle() string {
	counts := a.ts.Counts()
	policy := "fixed"
	if a.useNoise {
		policy = "noise"
	}
	cull := "off"
	if a.cull {
		cull = "on"
	}
	return fmt.Sprintf("%s | %d patches [%d/%d/%d/%d] | vd %.2f | density %s | cull %s",
		windowTitle, a.ts.PatchCount(), counts[0], counts[1], counts[2], counts[3],
		a.vc.ViewDistance, policy, cull)
}

// Close cleans up viewer resources.
func (a *App) Close() {
	logger.Info("closing viewer")
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
