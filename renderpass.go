package vkframe

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

type RenderPass struct {
	Device       *Device
	VKRenderPass vk.RenderPass
}

func (r *RenderPass) Destroy() {
	vk.DestroyRenderPass(r.Device.VKDevice, r.VKRenderPass, nil)
}

// PresentRenderPassCreateInfo describes the single pass every frame uses: one
// color attachment in the chain's format, cleared on load, stored, and left in
// the present layout. The external dependency keeps the first color write
// behind the acquire semaphore's wait stage.
func PresentRenderPassCreateInfo(format vk.Format) vk.RenderPassCreateInfo {
	attachmentDescriptions := []vk.AttachmentDescription{{
		Format:         format,
		Samples:        vk.SampleCount1Bit,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        vk.AttachmentStoreOpStore,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    vk.ImageLayoutPresentSrc,
	}}

	colorAttachments := []vk.AttachmentReference{{
		Attachment: 0,
		Layout:     vk.ImageLayoutColorAttachmentOptimal,
	}}

	subpassDescriptions := []vk.SubpassDescription{{
		PipelineBindPoint:    vk.PipelineBindPointGraphics,
		ColorAttachmentCount: 1,
		PColorAttachments:    colorAttachments,
	}}

	dependency := vk.SubpassDependency{
		SrcSubpass:    vk.SubpassExternal,
		DstSubpass:    0,
		SrcStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		SrcAccessMask: 0,
		DstStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		DstAccessMask: vk.AccessFlags(vk.AccessColorAttachmentWriteBit),
	}

	return vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(attachmentDescriptions)),
		PAttachments:    attachmentDescriptions,
		SubpassCount:    1,
		PSubpasses:      subpassDescriptions,
		DependencyCount: 1,
		PDependencies:   []vk.SubpassDependency{dependency},
	}
}

func (d *Device) CreateRenderPass(info vk.RenderPassCreateInfo) (*RenderPass, error) {
	var renderPass vk.RenderPass

	err := vk.Error(vk.CreateRenderPass(d.VKDevice, &info, nil, &renderPass))
	if err != nil {
		return nil, errors.Wrap(err, "create render pass")
	}

	return &RenderPass{Device: d, VKRenderPass: renderPass}, nil
}
