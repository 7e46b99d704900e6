// Package demo runs the draw queue against a live OpenGL window.
package demo

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/drawqueue/internal/config"
	"github.com/Faultbox/drawqueue/internal/engine/camera"
	"github.com/Faultbox/drawqueue/internal/engine/drawlist"
	"github.com/Faultbox/drawqueue/internal/engine/glbackend"
	"github.com/Faultbox/drawqueue/internal/engine/input"
	"github.com/Faultbox/drawqueue/internal/engine/lighting"
	"github.com/Faultbox/drawqueue/internal/engine/scene"
	"github.com/Faultbox/drawqueue/internal/engine/shader"
	"github.com/Faultbox/drawqueue/internal/engine/shadow"
	"github.com/Faultbox/drawqueue/internal/engine/uniform"
	"github.com/Faultbox/drawqueue/internal/engine/window"
	"github.com/Faultbox/drawqueue/internal/logger"
)

// blendPasses is the order blended draws go out after the opaque pass.
var blendPasses = []drawlist.BlendMode{
	drawlist.BlendAlpha,
	drawlist.BlendAlphaAdditive,
	drawlist.BlendAdditive,
}

// Demo is the running demo instance.
type Demo struct {
	cfg     *config.Config
	running bool
	paused  bool
	shadows bool
	dump    bool

	window   *window.Window
	backend  *glbackend.Backend
	compiler *glbackend.Compiler
	resolver *shader.Resolver
	uniforms *uniform.Cache
	queue    *drawlist.Queue
	maps     *glbackend.ShadowMaps

	camera *camera.Orbit
	input  *input.Input
	world  *World

	width, height int
	log           *zap.Logger
}

// New opens the window, initializes OpenGL and builds the world.
func New(cfg *config.Config) (*Demo, error) {
	d := &Demo{
		cfg:     cfg,
		shadows: cfg.Render.Shadows.Enabled,
		log:     logger.Named("demo"),
	}
	d.log.Info("initializing demo",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height))

	var err error
	d.window, err = window.New(cfg.Window)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	d.width, d.height = d.window.Size()

	// The backend needs the context the window just made current.
	d.backend, err = glbackend.New(d.width, d.height)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("failed to create backend: %w", err)
	}

	sh := cfg.Render.Shaders
	d.compiler = glbackend.NewCompiler()
	d.resolver = shader.NewResolver(d.compiler, shader.Options{
		ShaderModel:  sh.ShaderModel,
		NormalMaps:   sh.NormalMaps,
		HeightMaps:   sh.HeightMaps,
		ModelShading: sh.ModelShading,
	})
	d.uniforms = uniform.New(glbackend.Uploader{}, cfg.Render.UniformEpsilon)
	d.queue = drawlist.NewQueue(d.backend, d.resolver, d.uniforms,
		lighting.NewIndex(cfg.Render.MaxLights), logger.Named("drawlist"))

	if cfg.Render.Shadows.Enabled {
		size := cfg.Render.Shadows.MapSize()
		layers := len(cfg.Render.Shadows.Splits) - 1
		d.maps, err = glbackend.NewShadowMaps(int32(size), int32(layers))
		if err != nil {
			// Shadows are optional; draw without them.
			d.log.Warn("shadow maps unavailable", zap.Error(err))
			d.shadows = false
		}
	}

	d.camera = camera.NewOrbit()
	d.input = input.New(nil)

	d.world, err = BuildWorld(d.backend, WorldOptions{
		GroundTexture:  cfg.Demo.GroundTexture,
		HullTexture:    cfg.Demo.HullTexture,
		MaxTextureSize: cfg.Demo.MaxTextureSize,
	})
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("failed to build world: %w", err)
	}

	d.log.Info("demo initialized", zap.Stringer("shading", d.resolver.Mode()))
	return d, nil
}

// Run drives the frame loop until the window closes.
func (d *Demo) Run() error {
	d.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	d.log.Info("starting frame loop")

	for d.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		d.handleInput(d.input.Update())
		if !d.running {
			break
		}

		if !d.paused {
			d.world.Update(d.backend, dt)
		}

		stats := d.render()
		d.window.SwapBuffers()

		if d.dump {
			d.dump = false
			d.logStats(stats)
		}

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			d.log.Debug("fps", zap.Int("count", frameCount), zap.Float32("dt_ms", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}
	return nil
}

func (d *Demo) handleInput(st input.State) {
	if st.Quit {
		d.running = false
		return
	}
	if st.Resized && st.Width > 0 && st.Height > 0 {
		d.width, d.height = d.window.Size()
		d.backend.Resize(d.width, d.height)
	}
	if st.DragX != 0 || st.DragY != 0 {
		d.camera.HandleDrag(st.DragX, st.DragY)
	}
	if st.Zoom != 0 {
		d.camera.HandleZoom(st.Zoom)
	}
	for _, a := range st.Actions {
		switch a {
		case input.ActionQuit:
			d.running = false
		case input.ActionToggleShadows:
			d.shadows = !d.shadows && d.maps.IsValid()
			d.log.Info("shadows toggled", zap.Bool("on", d.shadows))
		case input.ActionToggleWireframe:
			d.world.Scene.Wireframe = !d.world.Scene.Wireframe
		case input.ActionToggleArcs:
			d.world.Scene.Arcs = !d.world.Scene.Arcs
		case input.ActionTogglePause:
			d.paused = !d.paused
		case input.ActionDumpStats:
			d.dump = true
		}
	}
}

func (d *Demo) aspect() float32 {
	if d.height == 0 {
		return 1
	}
	return float32(d.width) / float32(d.height)
}

// render draws one frame: the shadow cascades, the opaque pass, the
// blended passes and finally the arcs.
func (d *Demo) render() drawlist.Stats {
	var total drawlist.Stats
	s := d.world.Scene

	var receive *shadow.Uniforms
	if u, ok := d.renderShadows(&total); ok {
		receive = &u
		d.maps.BindTexture(drawlist.UnitShadowMap)
	}

	view := d.camera.ViewMatrix()
	proj := d.camera.ProjectionMatrix(d.aspect())
	eye := d.camera.Position()

	d.backend.BeginFrame()
	d.backend.SetCamera(view, proj, eye)
	d.queue.BeginFrame(drawlist.FrameOptions{
		View:        view,
		Proj:        proj,
		EyePos:      eye,
		Shadows:     receive,
		EnvMap:      d.world.EnvMap,
		EnvMapAlpha: d.world.EnvMapAlpha,
	})
	s.Submit(d.queue, scene.Pass{})
	d.queue.SortForDispatch()

	total.Add(d.queue.Dispatch(drawlist.BlendNone))
	for _, m := range blendPasses {
		total.Add(d.queue.Dispatch(m))
	}
	d.queue.RenderArcs()
	return total
}

// renderShadows fills every cascade layer from the sun's point of view.
// It reports false when this frame draws without shadows.
func (d *Demo) renderShadows(total *drawlist.Stats) (shadow.Uniforms, bool) {
	if !d.shadows || !d.maps.IsValid() || d.resolver.Mode() != shader.ModeProgrammable {
		return shadow.Uniforms{}, false
	}
	sun, ok := d.world.Scene.Sun()
	if !ok {
		return shadow.Uniforms{}, false
	}

	// The cascades look along the direction the light travels.
	set := shadow.BuildCascades(sun.Direction.Scale(-1), d.camera.Orientation(), d.camera.Position(),
		d.camera.FOV, d.aspect(), d.cfg.Render.Shadows.Splits)
	if len(set.Cascades) == 0 {
		return shadow.Uniforms{}, false
	}
	u := set.Uniforms()

	for i := range set.Cascades {
		d.backend.BeginShadowPass(d.maps, i, i == 0)
		d.queue.BeginFrame(drawlist.FrameOptions{
			View:          set.ViewMatrix(),
			Proj:          set.Cascades[i].Proj,
			EyePos:        set.Eye,
			ShadowPass:    true,
			ShadowCascade: i,
			Shadows:       &u,
		})
		d.world.Scene.Submit(d.queue, scene.Pass{Shadows: &set})
		d.queue.SortForDispatch()
		total.Add(d.queue.Dispatch(drawlist.AnyBlend))
		d.backend.EndShadowPass(d.maps)
	}
	return u, true
}

func (d *Demo) logStats(st drawlist.Stats) {
	rs := d.resolver.Stats()
	us := d.uniforms.Stats()
	d.log.Info("frame stats",
		zap.Int("draws", st.Draws),
		zap.Int("fixed_draws", st.FixedDraws),
		zap.Int("program_binds", st.ProgramBinds),
		zap.Int("texture_binds", st.TextureBinds),
		zap.Int("buffer_binds", st.BufferBinds),
		zap.Int("state_changes", st.StateChanges),
		zap.Int("clip_on", st.ClipActivations),
		zap.Int("clip_off", st.ClipDeactivations),
		zap.Int("uniform_uploads", st.UniformUploads),
		zap.Int("variants", len(d.resolver.Variants())),
		zap.Int("compiles", rs.Compiles),
		zap.Int("compile_failures", rs.Failures),
		zap.Int("uniform_sets", us.Sets),
		zap.Int("uniform_skipped", us.Skipped),
		zap.Int("uniform_rebinds", us.Rebinds))
}

// Close releases GPU resources and closes the window.
func (d *Demo) Close() {
	d.log.Info("closing demo")

	if d.maps != nil {
		d.maps.Destroy()
	}
	if d.compiler != nil {
		d.compiler.Destroy()
	}
	if d.backend != nil {
		d.backend.Close()
	}
	if d.window != nil {
		d.window.Close()
	}
}
