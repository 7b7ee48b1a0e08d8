package vkframe

import (
	vk "github.com/vulkan-go/vulkan"
)

// CommandBuffers describe a sequence of commands that will be executed
// upon being sent to a device queue. Only the commands the frame loop
// records are wrapped; anything else goes through the native vulkan APIs.
type CommandBuffer struct {
	Pool            *CommandPool
	VKCommandBuffer vk.CommandBuffer
}

// Reset this command buffer, its pool must allow individual resets
func (c *CommandBuffer) Reset() error {
	return vk.Error(vk.ResetCommandBuffer(c.VKCommandBuffer, 0))
}

// Destroy returns the command buffer to its pool
func (c *CommandBuffer) Destroy() {
	c.Pool.FreeBuffer(c)
}

// Begin capturing work for this command buffer
func (c *CommandBuffer) Begin() error {
	var beginInfo = vk.CommandBufferBeginInfo{}
	beginInfo.SType = vk.StructureTypeCommandBufferBeginInfo
	beginInfo.Flags = 0
	return vk.Error(vk.BeginCommandBuffer(c.VKCommandBuffer, &beginInfo))

}

// CmdBeginRenderPass starts renderPass on framebuffer, clearing the whole
// extent to clear
func (c *CommandBuffer) CmdBeginRenderPass(renderPass vk.RenderPass, framebuffer vk.Framebuffer, extent vk.Extent2D, clear [4]float32) {
	clearValues := []vk.ClearValue{vk.NewClearValue(clear[:])}
	beginInfo := vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		RenderPass:  renderPass,
		Framebuffer: framebuffer,
		RenderArea: vk.Rect2D{
			Offset: vk.Offset2D{X: 0, Y: 0},
			Extent: extent,
		},
		ClearValueCount: uint32(len(clearValues)),
		PClearValues:    clearValues,
	}
	vk.CmdBeginRenderPass(c.VKCommandBuffer, &beginInfo, vk.SubpassContentsInline)
}

func (c *CommandBuffer) CmdBindGraphicsPipeline(p *GraphicsPipeline) {
	vk.CmdBindPipeline(c.VKCommandBuffer, vk.PipelineBindPointGraphics, p.VKPipeline)
}

func (c *CommandBuffer) CmdDraw(vertexCount, instanceCount, firstVertex, firstInstance int) {
	vk.CmdDraw(c.VKCommandBuffer, uint32(vertexCount), uint32(instanceCount), uint32(firstVertex), uint32(firstInstance))
}

func (c *CommandBuffer) CmdEndRenderPass() {
	vk.CmdEndRenderPass(c.VKCommandBuffer)
}

// End describing work for this command buffer
func (c *CommandBuffer) End() error {
	return vk.Error(vk.EndCommandBuffer(c.VKCommandBuffer))
}
