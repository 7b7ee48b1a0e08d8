package vkframe

import (
	"github.com/cockroachdb/errors"
	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"
)

// Window is the platform window the engine presents to
type Window interface {
	// FramebufferSize is the drawable size in pixels, zero while minimized
	FramebufferSize() (width, height int)
	ShouldClose() bool
	PollEvents()
	// WaitEvents blocks until at least one window event arrives
	WaitEvents()
	RequiredInstanceExtensions() []string
	CreateSurface(instance vk.Instance) (vk.Surface, error)
	// SetResizeCallback registers fn to run when the framebuffer is resized
	SetResizeCallback(fn func(width, height int))
}

// GLFWWindow adapts a GLFW window created with the NoAPI client hint
type GLFWWindow struct {
	Window *glfw.Window
}

// NewGLFWWindow creates a window without a GL context, ready for a Vulkan
// surface. glfw.Init must have been called.
func NewGLFWWindow(width, height int, title string) (*GLFWWindow, error) {
	if !glfw.VulkanSupported() {
		return nil, errors.New("glfw: vulkan is not supported")
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create window")
	}
	return &GLFWWindow{Window: window}, nil
}

func (w *GLFWWindow) FramebufferSize() (int, int) {
	return w.Window.GetFramebufferSize()
}

func (w *GLFWWindow) ShouldClose() bool {
	return w.Window.ShouldClose()
}

func (w *GLFWWindow) PollEvents() {
	glfw.PollEvents()
}

func (w *GLFWWindow) WaitEvents() {
	glfw.WaitEvents()
}

func (w *GLFWWindow) RequiredInstanceExtensions() []string {
	return w.Window.GetRequiredInstanceExtensions()
}

func (w *GLFWWindow) CreateSurface(instance vk.Instance) (vk.Surface, error) {
	surface, err := w.Window.CreateWindowSurface(instance, nil)
	if err != nil {
		return vk.NullSurface, errors.Wrap(err, "create window surface")
	}
	return vk.SurfaceFromPointer(surface), nil
}

func (w *GLFWWindow) SetResizeCallback(fn func(width, height int)) {
	w.Window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		fn(width, height)
	})
}

func (w *GLFWWindow) Destroy() {
	w.Window.Destroy()
}

// waitForDrawableSize blocks on window events while the framebuffer has no
// area, which is the case while the window is minimized
func waitForDrawableSize(w Window) vk.Extent2D {
	width, height := w.FramebufferSize()
	for (width == 0 || height == 0) && !w.ShouldClose() {
		w.WaitEvents()
		width, height = w.FramebufferSize()
	}
	return vk.Extent2D{Width: uint32(width), Height: uint32(height)}
}
