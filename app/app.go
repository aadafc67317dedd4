// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package app draws a Sierpinski triangle every frame: it owns the
// vertex model, the pipeline layout and pipeline, and one pre-recorded
// command buffer per swap chain image, and runs the frame loop until
// the window is closed.
package app

import (
	"log/slog"
	"time"

	"cogentcore.org/sierpinski/base/errors"
	"cogentcore.org/sierpinski/config"
	"cogentcore.org/sierpinski/fractal"
	"cogentcore.org/sierpinski/math32"
	"cogentcore.org/sierpinski/vgpu"
	vk "github.com/goki/vulkan"
)

// FPSInterval is how often the frame rate is logged.
const FPSInterval = 10 * time.Second

// The corners of the outer triangle, in normalized device coordinates.
var (
	Left  = math32.Vec2(-0.5, 0.5)
	Right = math32.Vec2(0.5, 0.5)
	Top   = math32.Vec2(0, -0.5)
)

// ClearColor is the color each frame is cleared to.
var ClearColor = [4]float32{0, 0, 0, 1}

// App draws the triangle into the swap chain of a window.
// The window, device and swap chain are owned by the caller and
// must outlive the App.
type App struct {
	Config *config.Config

	win     Window
	dev     Device
	sc      SwapChain
	factory Factory

	model          Model
	pipeline       Pipeline
	layout         vk.PipelineLayout
	commandBuffers []vk.CommandBuffer

	state    States
	released bool

	// frames drawn since fpsStart
	frames   int
	fpsStart time.Time

	// now returns the current time
	now func() time.Time
}

// New makes the vertex model, the pipeline layout, the pipeline and
// the command buffers. If any of them fails, everything made so far
// is released and the error is returned.
func New(cfg *config.Config, win Window, dev Device, sc SwapChain, factory Factory) (*App, error) {
	a := &App{
		Config:  cfg,
		win:     win,
		dev:     dev,
		sc:      sc,
		factory: factory,
		now:     time.Now,
	}
	steps := []func() error{
		a.loadModels,
		a.createPipelineLayout,
		a.createPipeline,
		a.createCommandBuffers,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			a.Release()
			return nil, err
		}
	}
	slog.Info("app: ready", "images", sc.ImageCount(), "vertices", a.model.VertexCount(), "depth", cfg.Depth)
	return a, nil
}

// State returns the current state of the frame loop.
func (a *App) State() States {
	return a.state
}

func (a *App) setState(st States) {
	if st == a.state {
		return
	}
	slog.Debug("app: state", "from", a.state, "to", st)
	a.state = st
}

// CommandBuffers returns the recorded command buffers, one per
// swap chain image.
func (a *App) CommandBuffers() []vk.CommandBuffer {
	return a.commandBuffers
}

func (a *App) loadModels() error {
	vertices := fractal.Sierpinski(a.Config.Depth, Left, Right, Top)
	slog.Debug("app: generated fractal", "depth", a.Config.Depth, "triangles", fractal.Triangles(vertices), "area", fractal.Area(vertices))
	md, err := a.factory.NewModel(vertices)
	if err != nil {
		return errors.Errorf("failed to create model: %w", err)
	}
	a.model = md
	return nil
}

func (a *App) createPipelineLayout() error {
	layout, err := a.dev.CreatePipelineLayout()
	if err != nil {
		return errors.Errorf("failed to create pipeline layout: %w", err)
	}
	a.layout = layout
	return nil
}

func (a *App) createPipeline() error {
	pc := vgpu.DefaultPipelineConfig(a.sc.Width(), a.sc.Height())
	pc.RenderPass = a.sc.RenderPass()
	pc.Layout = a.layout
	pl, err := a.factory.NewPipeline(a.Config.VertexShader, a.Config.FragmentShader, &pc)
	if err != nil {
		return errors.Errorf("failed to create graphics pipeline: %w", err)
	}
	a.pipeline = pl
	return nil
}

// createCommandBuffers allocates one command buffer per swap chain
// image and records drawing the model into its framebuffer.
func (a *App) createCommandBuffers() error {
	n := a.sc.ImageCount()
	bufs, err := a.dev.AllocateCommandBuffers(n)
	if err != nil {
		return errors.Errorf("failed to allocate command buffers: %w", err)
	}
	if len(bufs) != n {
		a.dev.FreeCommandBuffers(bufs)
		return errors.Errorf("failed to allocate command buffers: got %d, want %d", len(bufs), n)
	}
	for i, cmd := range bufs {
		if err := a.record(i, cmd); err != nil {
			a.dev.FreeCommandBuffers(bufs)
			return err
		}
	}
	a.commandBuffers = bufs
	return nil
}

func (a *App) record(i int, cmd vk.CommandBuffer) error {
	if err := a.dev.BeginCommandBuffer(cmd); err != nil {
		return errors.Errorf("failed to begin recording command buffer: %w", err)
	}
	a.dev.BeginRenderPass(cmd, &vgpu.RenderPassBegin{
		RenderPass:   a.sc.RenderPass(),
		Framebuffer:  a.sc.FrameBuffer(i),
		Extent:       a.sc.Extent(),
		ClearColor:   ClearColor,
		ClearDepth:   1,
		ClearStencil: 0,
	})
	a.pipeline.Bind(cmd)
	a.model.Bind(cmd)
	a.model.Draw(cmd)
	a.dev.EndRenderPass(cmd)
	if err := a.dev.EndCommandBuffer(cmd); err != nil {
		return errors.Errorf("failed to record command buffer: %w", err)
	}
	return nil
}

// Run draws frames until the window is closed or drawing fails, and
// then waits for the device to be idle before returning, so that the
// caller can release everything.
func (a *App) Run() error {
	var err error
	a.fpsStart = a.now()
	for {
		a.setState(Polling)
		if a.win.ShouldClose() {
			break
		}
		a.win.PollEvents()
		if err = a.drawFrame(); err != nil {
			break
		}
		a.countFrame()
		a.setState(Idle)
	}
	a.setState(Draining)
	if werr := a.dev.WaitIdle(); werr != nil {
		err = errors.Join(err, errors.Errorf("failed to wait for the device to be idle: %w", werr))
	}
	a.setState(Terminated)
	return err
}

// drawFrame acquires the next image and submits its command buffer.
// The swap chain presents the image in the same call, so the loop is
// in [Submitting] during both and in [Presenting] while the result of
// the present is checked.
func (a *App) drawFrame() error {
	a.setState(Acquiring)
	idx, ret := a.sc.AcquireNextImage()
	if ret != vk.Success && !vgpu.IsSuboptimal(ret) {
		return errors.Errorf("failed to acquire swap chain image: %w", vgpu.NewError(ret))
	}
	if vgpu.IsSuboptimal(ret) {
		slog.Debug("app: suboptimal swap chain image", "image", idx)
	}
	if int(idx) >= len(a.commandBuffers) {
		return errors.Errorf("failed to acquire swap chain image: index %d out of range of %d images", idx, len(a.commandBuffers))
	}

	a.setState(Submitting)
	ret = a.sc.SubmitCommandBuffers(a.commandBuffers[idx], idx)
	a.setState(Presenting)
	if ret != vk.Success {
		return errors.Errorf("failed to present swap chain image: %w", vgpu.NewError(ret))
	}
	return nil
}

func (a *App) countFrame() {
	a.frames++
	dur := a.now().Sub(a.fpsStart)
	if dur < FPSInterval {
		return
	}
	fps := float64(a.frames) / dur.Seconds()
	slog.Info("app: frames", "fps", int(fps+0.5))
	a.frames = 0
	a.fpsStart = a.now()
}

// Release frees the command buffers and destroys the pipeline, the
// pipeline layout and the model. Only the first call has any effect.
// The device must be idle, as it is after [App.Run] returns.
func (a *App) Release() {
	if a.released {
		return
	}
	a.released = true
	if len(a.commandBuffers) > 0 {
		a.dev.FreeCommandBuffers(a.commandBuffers)
		a.commandBuffers = nil
	}
	if a.pipeline != nil {
		a.pipeline.Destroy()
		a.pipeline = nil
	}
	if a.layout != vk.NullPipelineLayout {
		a.dev.DestroyPipelineLayout(a.layout)
		a.layout = vk.NullPipelineLayout
	}
	if a.model != nil {
		a.model.Destroy()
		a.model = nil
	}
}
