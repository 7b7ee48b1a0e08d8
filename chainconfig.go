package vkframe

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// PreferredSurfaceFormat is chosen whenever the surface offers it
var PreferredSurfaceFormat = vk.SurfaceFormat{
	Format:     vk.FormatB8g8r8a8Srgb,
	ColorSpace: vk.ColorSpaceSrgbNonlinear,
}

// SurfaceReport is what a physical device says about presenting to a surface.
// Values must already be dereferenced.
type SurfaceReport struct {
	Capabilities vk.SurfaceCapabilities
	Formats      []vk.SurfaceFormat
	PresentModes []vk.PresentMode
}

// Adequate reports whether a chain can be built from the report at all
func (r *SurfaceReport) Adequate() bool {
	return len(r.Formats) > 0 && len(r.PresentModes) > 0
}

// ChainConfig is one concrete swapchain configuration
type ChainConfig struct {
	Format       vk.SurfaceFormat
	PresentMode  vk.PresentMode
	Extent       vk.Extent2D
	ImageCount   uint32
	SharingMode  vk.SharingMode
	Families     []uint32
	PreTransform vk.SurfaceTransformFlagBits
}

// ChooseSurfaceFormat returns the 8-bit BGRA sRGB format when offered and the
// first reported format otherwise. formats must not be empty.
func ChooseSurfaceFormat(formats []vk.SurfaceFormat) vk.SurfaceFormat {
	for _, f := range formats {
		if f.Format == PreferredSurfaceFormat.Format && f.ColorSpace == PreferredSurfaceFormat.ColorSpace {
			return f
		}
	}
	return formats[0]
}

// ChoosePresentMode returns mailbox when offered, FIFO otherwise. FIFO is
// required of every implementation so this never fails.
func ChoosePresentMode(modes []vk.PresentMode) vk.PresentMode {
	for _, m := range modes {
		if m == vk.PresentModeMailbox {
			return m
		}
	}
	return vk.PresentModeFifo
}

// ChooseExtent uses the surface's current extent unless it is the adaptive
// sentinel, in which case the framebuffer size is clamped into the surface's
// min/max extent per dimension.
func ChooseExtent(caps *vk.SurfaceCapabilities, framebuffer vk.Extent2D) vk.Extent2D {
	if caps.CurrentExtent.Width != vk.MaxUint32 {
		return caps.CurrentExtent
	}
	return vk.Extent2D{
		Width:  clamp(framebuffer.Width, caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
		Height: clamp(framebuffer.Height, caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
	}
}

// ChooseImageCount asks for one image more than the minimum, capped at the
// maximum when the surface has one (0 means unbounded).
func ChooseImageCount(caps *vk.SurfaceCapabilities) uint32 {
	count := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && count > caps.MaxImageCount {
		count = caps.MaxImageCount
	}
	return count
}

// ChooseSharing returns exclusive ownership when one family does graphics and
// presentation, concurrent access across both families otherwise.
func ChooseSharing(families QueueFamilyIndices) (vk.SharingMode, []uint32) {
	if families.Shared() {
		return vk.SharingModeExclusive, nil
	}
	return vk.SharingModeConcurrent, []uint32{uint32(families.Graphics), uint32(families.Present)}
}

// NegotiateChain turns a surface report into a chain configuration
func NegotiateChain(report *SurfaceReport, framebuffer vk.Extent2D, families QueueFamilyIndices) (ChainConfig, error) {
	if len(report.Formats) == 0 {
		return ChainConfig{}, ErrNoSurfaceFormats
	}
	if len(report.PresentModes) == 0 {
		return ChainConfig{}, ErrNoPresentModes
	}
	caps := &report.Capabilities
	cfg := ChainConfig{
		Format:       ChooseSurfaceFormat(report.Formats),
		PresentMode:  ChoosePresentMode(report.PresentModes),
		Extent:       ChooseExtent(caps, framebuffer),
		ImageCount:   ChooseImageCount(caps),
		PreTransform: caps.CurrentTransform,
	}
	cfg.SharingMode, cfg.Families = ChooseSharing(families)
	if cfg.ImageCount == 0 {
		return ChainConfig{}, errors.New("surface allows no images")
	}
	return cfg, nil
}

// VKSwapchainCreateInfo describes the chain for vkCreateSwapchainKHR
func (c *ChainConfig) VKSwapchainCreateInfo(surface vk.Surface) vk.SwapchainCreateInfo {
	return vk.SwapchainCreateInfo{
		SType:                 vk.StructureTypeSwapchainCreateInfo,
		Surface:               surface,
		MinImageCount:         c.ImageCount,
		ImageFormat:           c.Format.Format,
		ImageColorSpace:       c.Format.ColorSpace,
		ImageExtent:           c.Extent,
		ImageArrayLayers:      1,
		ImageUsage:            vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageSharingMode:      c.SharingMode,
		QueueFamilyIndexCount: uint32(len(c.Families)),
		PQueueFamilyIndices:   c.Families,
		PreTransform:          c.PreTransform,
		CompositeAlpha:        vk.CompositeAlphaOpaqueBit,
		PresentMode:           c.PresentMode,
		Clipped:               vk.True,
		OldSwapchain:          vk.NullSwapchain,
	}
}

func clamp(v, lo, hi uint32) uint32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
