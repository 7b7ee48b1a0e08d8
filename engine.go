package vkframe

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// ShaderCode is the SPIR-V the fixed pipeline is built from
type ShaderCode struct {
	Vertex   []byte
	Fragment []byte
}

// LoadShaders reads the shaders named by cfg
func LoadShaders(cfg Config) (ShaderCode, error) {
	vs, err := LoadShaderCode(cfg.VertexShader)
	if err != nil {
		return ShaderCode{}, err
	}
	fs, err := LoadShaderCode(cfg.FragmentShader)
	if err != nil {
		return ShaderCode{}, err
	}
	return ShaderCode{Vertex: vs, Fragment: fs}, nil
}

// Engine owns every GPU object needed to draw into a window: the device
// context, the chain and its render targets, the fixed pipeline and the frame
// pool. It drives a FrameScheduler and rebuilds the chain when the scheduler
// asks. An Engine is used from the goroutine that owns the window.
type Engine struct {
	cfg      Config
	log      *slog.Logger
	window   Window
	shaders  ShaderCode
	teardown *Teardown

	instance *Instance
	surface  vk.Surface
	physical *PhysicalDevice
	device   *Device
	families QueueFamilyIndices
	graphics *Queue
	present  *Queue

	chain      *Swapchain
	images     []*Image
	views      []*ImageView
	renderPass *RenderPass
	layout     *PipelineLayout
	cache      *PipelineCache
	pipeline   *GraphicsPipeline
	targets    *RenderTargetSet

	commandPool *CommandPool
	frames      *FramePool
	scheduler   *FrameScheduler

	destroyed bool
}

// NewEngine builds everything in construction order. On failure whatever was
// built is released before the error is returned.
func NewEngine(cfg Config, window Window, shaders ShaderCode, logger *slog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		cfg:      cfg,
		log:      logger,
		window:   window,
		shaders:  shaders,
		teardown: NewTeardown(logger),
	}
	if err := e.init(); err != nil {
		e.teardown.Release()
		return nil, err
	}
	window.SetResizeCallback(func(width, height int) {
		e.log.Debug("framebuffer resized", "width", width, "height", height)
		e.Invalidate()
	})
	return e, nil
}

func (e *Engine) own(stage Stage, name string, destroy func()) error {
	return e.teardown.Push(stage, name, destroy)
}

func (e *Engine) init() error {
	app := &App{
		Name:       e.cfg.AppName,
		EngineName: "vkframe",
		Version:    Version{Major: 0, Minor: 1, Patch: 0},
	}
	for _, ext := range e.window.RequiredInstanceExtensions() {
		app.EnableExtension(ext)
	}
	if e.cfg.EnableValidation {
		app.EnableValidation(e.log)
	}

	var err error
	if e.instance, err = app.CreateInstance(e.log); err != nil {
		return err
	}
	if err := e.own(StageInstance, "instance", e.instance.Destroy); err != nil {
		return err
	}
	e.log.Info("created instance", "layers", app.EnabledLayers, "extensions", app.EnabledExtensions)

	if e.surface, err = e.window.CreateSurface(e.instance.VKInstance); err != nil {
		return err
	}
	instance, surface := e.instance.VKInstance, e.surface
	if err := e.own(StageSurface, "surface", func() { vk.DestroySurface(instance, surface, nil) }); err != nil {
		return err
	}

	if e.physical, e.families, err = SelectPhysicalDevice(e.instance, e.surface, e.log); err != nil {
		return err
	}
	if e.device, err = e.physical.CreateLogicalDevice(e.families, []string{SwapchainExtension}); err != nil {
		return err
	}
	if err := e.own(StageDevice, "device", e.device.Destroy); err != nil {
		return err
	}
	e.graphics = e.device.GetQueue(e.families.Graphics)
	e.present = e.device.GetQueue(e.families.Present)
	e.log.Info("created device",
		"device", e.physical.DeviceName,
		"graphics_family", e.families.Graphics,
		"present_family", e.families.Present)

	if err := e.buildChain(); err != nil {
		return err
	}

	if e.commandPool, err = e.device.CreateCommandPool(e.families.Graphics); err != nil {
		return err
	}
	if err := e.own(StageFrameSync, "command pool", e.commandPool.Destroy); err != nil {
		return err
	}
	if e.frames, err = NewFramePool(e.cfg.MaxFramesInFlight, e.device.FrameAllocator(e.commandPool)); err != nil {
		return err
	}
	if err := e.own(StageFrameSync, "frame pool", e.frames.Destroy); err != nil {
		return err
	}

	e.scheduler, err = NewFrameScheduler(e.frames, e, len(e.images), SchedulerOptions{
		Rebuilder: e,
		Logger:    e.log,
	})
	if err != nil {
		return err
	}
	e.log.Info("engine ready", "frames_in_flight", e.frames.Len(), "images", len(e.images))
	return nil
}

// buildChain negotiates and creates the chain and everything sized by it:
// image views, render pass, pipeline and render targets
func (e *Engine) buildChain() error {
	extent := waitForDrawableSize(e.window)
	if extent.Width == 0 || extent.Height == 0 {
		return ErrWindowClosed
	}

	report, err := e.physical.SurfaceReport(e.surface)
	if err != nil {
		return err
	}
	chainCfg, err := NegotiateChain(report, extent, e.families)
	if err != nil {
		return err
	}

	if e.chain, err = e.device.CreateSwapchain(e.surface, chainCfg); err != nil {
		return err
	}
	if err := e.own(StageChain, "swapchain", e.chain.Destroy); err != nil {
		return err
	}
	if e.images, err = e.chain.Images(); err != nil {
		return err
	}

	e.views = make([]*ImageView, 0, len(e.images))
	for i, image := range e.images {
		view, err := image.CreateImageView()
		if err != nil {
			return errors.Wrapf(err, "chain image %d", i)
		}
		e.views = append(e.views, view)
		if err := e.own(StageImageViews, fmt.Sprintf("image view %d", i), view.Destroy); err != nil {
			return err
		}
	}

	if err := e.buildPipeline(); err != nil {
		return err
	}

	if e.targets, err = e.device.CreateRenderTargets(e.renderPass, e.views, e.chain.Extent); err != nil {
		return err
	}
	if err := e.own(StageRenderTargets, "render targets", e.targets.Destroy); err != nil {
		return err
	}

	e.log.Debug("built chain",
		"images", len(e.images),
		"framebuffers", e.targets.Len(),
		"width", e.chain.Extent.Width,
		"height", e.chain.Extent.Height,
		"format", e.chain.Format,
		"present_mode", chainCfg.PresentMode,
		"sharing", chainCfg.SharingMode)
	return nil
}

func (e *Engine) buildPipeline() error {
	var err error
	if e.renderPass, err = e.device.CreateRenderPass(PresentRenderPassCreateInfo(e.chain.Format)); err != nil {
		return err
	}
	if err := e.own(StagePipeline, "render pass", e.renderPass.Destroy); err != nil {
		return err
	}
	if e.layout, err = e.device.CreatePipelineLayout(); err != nil {
		return err
	}
	if err := e.own(StagePipeline, "pipeline layout", e.layout.Destroy); err != nil {
		return err
	}
	if e.cache, err = e.device.CreatePipelineCache(); err != nil {
		return err
	}
	if err := e.own(StagePipeline, "pipeline cache", e.cache.Destroy); err != nil {
		return err
	}

	config := e.device.CreateGraphicsPipelineConfig()
	defer config.Destroy()
	config.SetPipelineLayout(e.layout)
	if err := config.AddShaderStage(e.shaders.Vertex, "main", vk.ShaderStageVertexBit); err != nil {
		return errors.Wrap(err, "vertex shader")
	}
	if err := config.AddShaderStage(e.shaders.Fragment, "main", vk.ShaderStageFragmentBit); err != nil {
		return errors.Wrap(err, "fragment shader")
	}

	if e.pipeline, err = e.device.CreateGraphicsPipeline(e.cache, config, e.renderPass, e.chain.Extent); err != nil {
		return err
	}
	return e.own(StagePipeline, "graphics pipeline", e.pipeline.Destroy)
}

// RebuildChain drains the device, releases the chain and everything sized by
// it, then builds them again for the surface's current size. The device and
// the frame pool survive.
func (e *Engine) RebuildChain() (int, error) {
	if err := e.device.WaitIdle(); err != nil {
		return 0, err
	}
	e.teardown.ReleaseRange(StageChain, StageRenderTargets)
	e.chain, e.images, e.views = nil, nil, nil
	e.renderPass, e.layout, e.cache, e.pipeline, e.targets = nil, nil, nil, nil, nil

	if err := e.buildChain(); err != nil {
		return 0, err
	}
	return len(e.images), nil
}

func (e *Engine) AcquireNextImage(timeout time.Duration, signal Semaphore) (int, error) {
	sem, ok := signal.(*DeviceSemaphore)
	if !ok {
		return 0, errors.AssertionFailedf("acquire semaphore is %T", signal)
	}
	return e.chain.AcquireNextImage(timeout, sem)
}

// Record clears chain image imageIndex and draws the fixed pipeline's triangle
func (e *Engine) Record(cmd CommandRecorder, imageIndex int) error {
	cb, ok := cmd.(*CommandBuffer)
	if !ok {
		return errors.AssertionFailedf("command recorder is %T", cmd)
	}
	framebuffer, err := e.targets.Framebuffer(imageIndex)
	if err != nil {
		return err
	}
	if err := cb.Begin(); err != nil {
		return errors.Wrap(err, "begin command buffer")
	}
	cb.CmdBeginRenderPass(e.renderPass.VKRenderPass, framebuffer, e.chain.Extent, e.cfg.ClearColor)
	cb.CmdBindGraphicsPipeline(e.pipeline)
	cb.CmdDraw(3, 1, 0, 0)
	cb.CmdEndRenderPass()
	return errors.Wrap(cb.End(), "end command buffer")
}

func (e *Engine) Submit(sub Submission) error {
	cb, ok := sub.Commands.(*CommandBuffer)
	if !ok {
		return errors.AssertionFailedf("command recorder is %T", sub.Commands)
	}
	wait, ok := sub.Wait.(*DeviceSemaphore)
	if !ok {
		return errors.AssertionFailedf("wait semaphore is %T", sub.Wait)
	}
	signal, ok := sub.Signal.(*DeviceSemaphore)
	if !ok {
		return errors.AssertionFailedf("signal semaphore is %T", sub.Signal)
	}
	fence, ok := sub.Fence.(*DeviceFence)
	if !ok {
		return errors.AssertionFailedf("fence is %T", sub.Fence)
	}
	return e.graphics.SubmitFrame(cb, wait, signal, fence)
}

func (e *Engine) Present(imageIndex int, wait Semaphore) error {
	sem, ok := wait.(*DeviceSemaphore)
	if !ok {
		return errors.AssertionFailedf("present semaphore is %T", wait)
	}
	return e.present.Present(e.chain, imageIndex, sem)
}

// AdvanceFrame draws one frame. An error means the engine can draw no more
// and should be destroyed.
func (e *Engine) AdvanceFrame() error {
	if e.destroyed {
		return errors.New("engine destroyed")
	}
	return e.scheduler.AdvanceFrame()
}

// Invalidate schedules a chain rebuild before the next frame
func (e *Engine) Invalidate() {
	if e.scheduler != nil {
		e.scheduler.Invalidate()
	}
}

// Frame is the number of frames submitted so far
func (e *Engine) Frame() uint64 {
	return e.scheduler.Frame()
}

// Run draws frames until the window asks to close, ctx is done, or a frame
// fails. The device is idle when Run returns.
func (e *Engine) Run(ctx context.Context) (err error) {
	start := time.Now()
	defer func() {
		if idleErr := e.device.WaitIdle(); idleErr != nil && err == nil {
			err = idleErr
		}
		e.log.Info("frame loop stopped",
			"frames", e.scheduler.Frame(),
			"rebuilds", e.scheduler.Rebuilds(),
			"elapsed", time.Since(start))
	}()

	for !e.window.ShouldClose() {
		if err := ctx.Err(); err != nil {
			return err
		}
		e.window.PollEvents()
		if err := e.AdvanceFrame(); err != nil {
			if errors.Is(err, ErrWindowClosed) {
				return nil
			}
			return err
		}
	}
	return nil
}

// Destroy waits for the device and releases everything, newest first
func (e *Engine) Destroy() {
	if e.destroyed {
		return
	}
	e.destroyed = true
	if e.device != nil {
		if err := e.device.WaitIdle(); err != nil {
			e.log.Error("device wait idle before teardown", "err", err.Error())
		}
	}
	before := len(e.teardown.Released())
	e.teardown.Release()
	if err := CheckShutdownOrder(e.teardown.Released()[before:]); err != nil {
		e.log.Error("teardown", "err", err.Error())
	}
	e.log.Info("engine destroyed")
}
