package vkframe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func adaptiveCaps() vk.SurfaceCapabilities {
	return vk.SurfaceCapabilities{
		MinImageCount:  2,
		MaxImageCount:  3,
		CurrentExtent:  vk.Extent2D{Width: vk.MaxUint32, Height: vk.MaxUint32},
		MinImageExtent: vk.Extent2D{Width: 100, Height: 50},
		MaxImageExtent: vk.Extent2D{Width: 1920, Height: 1080},
	}
}

func TestChooseSurfaceFormat(t *testing.T) {
	unorm := vk.SurfaceFormat{Format: vk.FormatB8g8r8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear}
	rgba := vk.SurfaceFormat{Format: vk.FormatR8g8b8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear}
	wrongSpace := vk.SurfaceFormat{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpace(1000104002)}

	assert.Equal(t, PreferredSurfaceFormat, ChooseSurfaceFormat([]vk.SurfaceFormat{unorm, rgba, PreferredSurfaceFormat}))
	assert.Equal(t, PreferredSurfaceFormat, ChooseSurfaceFormat([]vk.SurfaceFormat{PreferredSurfaceFormat}))
	assert.Equal(t, rgba, ChooseSurfaceFormat([]vk.SurfaceFormat{rgba, unorm}))
	assert.Equal(t, wrongSpace, ChooseSurfaceFormat([]vk.SurfaceFormat{wrongSpace, unorm}))
}

func TestChoosePresentMode(t *testing.T) {
	assert.Equal(t, vk.PresentModeMailbox, ChoosePresentMode([]vk.PresentMode{vk.PresentModeFifo, vk.PresentModeMailbox}))
	assert.Equal(t, vk.PresentModeFifo, ChoosePresentMode([]vk.PresentMode{vk.PresentModeImmediate, vk.PresentModeFifoRelaxed}))
	assert.Equal(t, vk.PresentModeFifo, ChoosePresentMode(nil))
}

func TestChooseExtent(t *testing.T) {
	caps := adaptiveCaps()

	assert.Equal(t, vk.Extent2D{Width: 800, Height: 600}, ChooseExtent(&caps, vk.Extent2D{Width: 800, Height: 600}))
	assert.Equal(t, vk.Extent2D{Width: 100, Height: 1080}, ChooseExtent(&caps, vk.Extent2D{Width: 10, Height: 4000}))
	assert.Equal(t, vk.Extent2D{Width: 1920, Height: 50}, ChooseExtent(&caps, vk.Extent2D{Width: 5000, Height: 0}))

	caps.CurrentExtent = vk.Extent2D{Width: 640, Height: 480}
	assert.Equal(t, vk.Extent2D{Width: 640, Height: 480}, ChooseExtent(&caps, vk.Extent2D{Width: 5000, Height: 5000}))
	assert.Equal(t, vk.Extent2D{Width: 640, Height: 480}, ChooseExtent(&caps, vk.Extent2D{}))
}

func TestChooseImageCount(t *testing.T) {
	caps := adaptiveCaps()
	assert.Equal(t, uint32(3), ChooseImageCount(&caps))

	caps.MaxImageCount = 2
	assert.Equal(t, uint32(2), ChooseImageCount(&caps))

	caps.MaxImageCount = 0
	caps.MinImageCount = 4
	assert.Equal(t, uint32(5), ChooseImageCount(&caps))
}

func TestChooseSharing(t *testing.T) {
	mode, families := ChooseSharing(QueueFamilyIndices{Graphics: 0, Present: 0})
	assert.Equal(t, vk.SharingModeExclusive, mode)
	assert.Empty(t, families)

	mode, families = ChooseSharing(QueueFamilyIndices{Graphics: 0, Present: 1})
	assert.Equal(t, vk.SharingModeConcurrent, mode)
	assert.Equal(t, []uint32{0, 1}, families)
}

func TestNegotiateChain(t *testing.T) {
	report := &SurfaceReport{
		Capabilities: adaptiveCaps(),
		Formats:      []vk.SurfaceFormat{{Format: vk.FormatR8g8b8a8Unorm}, PreferredSurfaceFormat},
		PresentModes: []vk.PresentMode{vk.PresentModeFifo},
	}

	cfg, err := NegotiateChain(report, vk.Extent2D{Width: 1024, Height: 768}, QueueFamilyIndices{Graphics: 1, Present: 2})
	require.NoError(t, err)
	assert.Equal(t, PreferredSurfaceFormat, cfg.Format)
	assert.Equal(t, vk.PresentModeFifo, cfg.PresentMode)
	assert.Equal(t, vk.Extent2D{Width: 1024, Height: 768}, cfg.Extent)
	assert.Equal(t, uint32(3), cfg.ImageCount)
	assert.Equal(t, vk.SharingModeConcurrent, cfg.SharingMode)

	info := cfg.VKSwapchainCreateInfo(vk.NullSurface)
	assert.Equal(t, uint32(2), info.QueueFamilyIndexCount)
	assert.Equal(t, []uint32{1, 2}, info.PQueueFamilyIndices)
	assert.Equal(t, uint32(1), info.ImageArrayLayers)
	assert.Equal(t, vk.Bool32(vk.True), info.Clipped)
}

func TestNegotiateChainRejectsInadequateSurface(t *testing.T) {
	report := &SurfaceReport{Capabilities: adaptiveCaps(), PresentModes: []vk.PresentMode{vk.PresentModeFifo}}
	_, err := NegotiateChain(report, vk.Extent2D{}, QueueFamilyIndices{})
	assert.ErrorIs(t, err, ErrNoSurfaceFormats)
	assert.False(t, report.Adequate())

	report = &SurfaceReport{Capabilities: adaptiveCaps(), Formats: []vk.SurfaceFormat{PreferredSurfaceFormat}}
	_, err = NegotiateChain(report, vk.Extent2D{}, QueueFamilyIndices{})
	assert.ErrorIs(t, err, ErrNoPresentModes)
}
