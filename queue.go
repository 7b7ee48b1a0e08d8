package vkframe

import (
	vk "github.com/vulkan-go/vulkan"
)

type Queue struct {
	Device           *Device
	QueueFamilyIndex int
	VKQueue          vk.Queue
}

// SubmitFrame submits one frame's command buffer. The color attachment
// output stage waits on wait, and signal and fence fire when the work is done.
func (q *Queue) SubmitFrame(cmd *CommandBuffer, wait, signal *DeviceSemaphore, fence *DeviceFence) error {
	var submitInfo = vk.SubmitInfo{}
	submitInfo.SType = vk.StructureTypeSubmitInfo
	submitInfo.WaitSemaphoreCount = 1
	submitInfo.PWaitSemaphores = []vk.Semaphore{wait.VKSemaphore}
	submitInfo.PWaitDstStageMask = []vk.PipelineStageFlags{vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)}
	submitInfo.CommandBufferCount = 1
	submitInfo.PCommandBuffers = []vk.CommandBuffer{cmd.VKCommandBuffer}
	submitInfo.SignalSemaphoreCount = 1
	submitInfo.PSignalSemaphores = []vk.Semaphore{signal.VKSemaphore}

	return resultError(vk.QueueSubmit(q.VKQueue, 1, []vk.SubmitInfo{submitInfo}, fence.VKFence), "queue submit")
}

// Present queues imageIndex of swapchain for display once wait is signaled.
// A suboptimal chain is reported as ErrChainSuboptimal, an out of date one
// as ErrChainOutOfDate.
func (q *Queue) Present(swapchain *Swapchain, imageIndex int, wait *DeviceSemaphore) error {
	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{wait.VKSemaphore},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{swapchain.VKSwapchain},
		PImageIndices:      []uint32{uint32(imageIndex)},
	}
	return presentResult(vk.QueuePresent(q.VKQueue, &presentInfo))
}
