package vkframe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func TestPresentRenderPassCreateInfo(t *testing.T) {
	info := PresentRenderPassCreateInfo(vk.FormatB8g8r8a8Srgb)

	require.Len(t, info.PAttachments, 1)
	assert.Equal(t, uint32(1), info.AttachmentCount)
	color := info.PAttachments[0]
	assert.Equal(t, vk.FormatB8g8r8a8Srgb, color.Format)
	assert.Equal(t, vk.SampleCount1Bit, color.Samples)
	assert.Equal(t, vk.AttachmentLoadOpClear, color.LoadOp)
	assert.Equal(t, vk.AttachmentStoreOpStore, color.StoreOp)
	assert.Equal(t, vk.AttachmentLoadOpDontCare, color.StencilLoadOp)
	assert.Equal(t, vk.AttachmentStoreOpDontCare, color.StencilStoreOp)
	assert.Equal(t, vk.ImageLayoutUndefined, color.InitialLayout)
	assert.Equal(t, vk.ImageLayoutPresentSrc, color.FinalLayout)

	require.Len(t, info.PSubpasses, 1)
	subpass := info.PSubpasses[0]
	assert.Equal(t, vk.PipelineBindPointGraphics, subpass.PipelineBindPoint)
	require.Len(t, subpass.PColorAttachments, 1)
	assert.Equal(t, vk.ImageLayoutColorAttachmentOptimal, subpass.PColorAttachments[0].Layout)
	assert.Nil(t, subpass.PDepthStencilAttachment)

	require.Len(t, info.PDependencies, 1)
	dep := info.PDependencies[0]
	assert.Equal(t, uint32(vk.SubpassExternal), dep.SrcSubpass)
	assert.Equal(t, uint32(0), dep.DstSubpass)
	assert.Equal(t, vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit), dep.SrcStageMask)
	assert.Equal(t, vk.AccessFlags(0), dep.SrcAccessMask)
	assert.Equal(t, vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit), dep.DstStageMask)
	assert.Equal(t, vk.AccessFlags(vk.AccessColorAttachmentWriteBit), dep.DstAccessMask)
}

func TestColorViewCreateInfo(t *testing.T) {
	var image vk.Image
	info := ColorViewCreateInfo(image, vk.FormatB8g8r8a8Srgb)

	assert.Equal(t, vk.ImageViewType2d, info.ViewType)
	assert.Equal(t, vk.FormatB8g8r8a8Srgb, info.Format)
	assert.Equal(t, vk.ComponentMapping{
		R: vk.ComponentSwizzleIdentity,
		G: vk.ComponentSwizzleIdentity,
		B: vk.ComponentSwizzleIdentity,
		A: vk.ComponentSwizzleIdentity,
	}, info.Components)
	assert.Equal(t, vk.ImageAspectFlags(vk.ImageAspectColorBit), info.SubresourceRange.AspectMask)
	assert.Equal(t, uint32(0), info.SubresourceRange.BaseMipLevel)
	assert.Equal(t, uint32(1), info.SubresourceRange.LevelCount)
	assert.Equal(t, uint32(1), info.SubresourceRange.LayerCount)
}

func TestFramebufferCreateInfo(t *testing.T) {
	var pass vk.RenderPass
	var view vk.ImageView
	info := FramebufferCreateInfo(pass, view, vk.Extent2D{Width: 640, Height: 480})

	assert.Equal(t, uint32(1), info.AttachmentCount)
	assert.Len(t, info.PAttachments, 1)
	assert.Equal(t, uint32(640), info.Width)
	assert.Equal(t, uint32(480), info.Height)
	assert.Equal(t, uint32(1), info.Layers)
}

func TestRenderTargetSetBounds(t *testing.T) {
	set := &RenderTargetSet{Framebuffers: make([]vk.Framebuffer, 3)}
	assert.Equal(t, 3, set.Len())

	_, err := set.Framebuffer(2)
	assert.NoError(t, err)
	_, err = set.Framebuffer(3)
	assert.ErrorIs(t, err, ErrImageIndexOutOfRange)
	_, err = set.Framebuffer(-1)
	assert.ErrorIs(t, err, ErrImageIndexOutOfRange)
}
