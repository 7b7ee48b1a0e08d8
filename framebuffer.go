package vkframe

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// RenderTargetSet holds one framebuffer per chain image, all bound to the
// same render pass and sized to the chain extent. Framebuffer i renders into
// chain image i.
type RenderTargetSet struct {
	Device       *Device
	Extent       vk.Extent2D
	Framebuffers []vk.Framebuffer
}

// FramebufferCreateInfo describes a single-layer framebuffer over one view
func FramebufferCreateInfo(renderPass vk.RenderPass, view vk.ImageView, extent vk.Extent2D) vk.FramebufferCreateInfo {
	attachments := []vk.ImageView{view}
	return vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      renderPass,
		Layers:          1,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		Width:           extent.Width,
		Height:          extent.Height,
	}
}

// CreateRenderTargets creates a framebuffer for every view, in view order
func (d *Device) CreateRenderTargets(renderPass *RenderPass, views []*ImageView, extent vk.Extent2D) (*RenderTargetSet, error) {
	set := &RenderTargetSet{
		Device:       d,
		Extent:       extent,
		Framebuffers: make([]vk.Framebuffer, 0, len(views)),
	}
	for i, view := range views {
		fbCreateInfo := FramebufferCreateInfo(renderPass.VKRenderPass, view.VKImageView, extent)
		var framebuffer vk.Framebuffer
		err := vk.Error(vk.CreateFramebuffer(d.VKDevice, &fbCreateInfo, nil, &framebuffer))
		if err != nil {
			set.Destroy()
			return nil, errors.Wrapf(err, "create framebuffer %d", i)
		}
		set.Framebuffers = append(set.Framebuffers, framebuffer)
	}
	return set, nil
}

func (r *RenderTargetSet) Len() int {
	return len(r.Framebuffers)
}

// Framebuffer returns the framebuffer for chain image i
func (r *RenderTargetSet) Framebuffer(i int) (vk.Framebuffer, error) {
	if i < 0 || i >= len(r.Framebuffers) {
		var none vk.Framebuffer
		return none, errors.Wrapf(ErrImageIndexOutOfRange, "framebuffer %d of %d", i, len(r.Framebuffers))
	}
	return r.Framebuffers[i], nil
}

func (r *RenderTargetSet) Destroy() {
	for i := len(r.Framebuffers) - 1; i >= 0; i-- {
		vk.DestroyFramebuffer(r.Device.VKDevice, r.Framebuffers[i], nil)
	}
	r.Framebuffers = nil
}
