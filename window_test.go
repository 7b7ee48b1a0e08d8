package vkframe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	vk "github.com/vulkan-go/vulkan"
)

// fakeWindow reports sizes from a script, advancing one entry per WaitEvents
type fakeWindow struct {
	sizes   [][2]int
	closeAt int
	waits   int
}

func (w *fakeWindow) FramebufferSize() (int, int) {
	s := w.sizes[w.waits]
	return s[0], s[1]
}

func (w *fakeWindow) ShouldClose() bool {
	return w.closeAt > 0 && w.waits >= w.closeAt
}

func (w *fakeWindow) PollEvents() {}

func (w *fakeWindow) WaitEvents() {
	w.waits++
}

func (w *fakeWindow) RequiredInstanceExtensions() []string {
	return []string{"VK_KHR_surface"}
}

func (w *fakeWindow) CreateSurface(vk.Instance) (vk.Surface, error) {
	return vk.NullSurface, nil
}

func (w *fakeWindow) SetResizeCallback(func(int, int)) {}

func TestWaitForDrawableSize(t *testing.T) {
	w := &fakeWindow{sizes: [][2]int{{800, 600}}}
	assert.Equal(t, vk.Extent2D{Width: 800, Height: 600}, waitForDrawableSize(w))
	assert.Equal(t, 0, w.waits)

	// minimized for two event waits
	w = &fakeWindow{sizes: [][2]int{{0, 0}, {640, 0}, {640, 480}}}
	assert.Equal(t, vk.Extent2D{Width: 640, Height: 480}, waitForDrawableSize(w))
	assert.Equal(t, 2, w.waits)
}

func TestWaitForDrawableSizeStopsOnClose(t *testing.T) {
	w := &fakeWindow{sizes: [][2]int{{0, 0}, {0, 0}, {0, 0}}, closeAt: 2}
	extent := waitForDrawableSize(w)
	assert.Equal(t, uint32(0), extent.Width)
	assert.Equal(t, 2, w.waits)
}
