package vkframe

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

type CommandPool struct {
	Device           *Device
	QueueFamilyIndex int
	VKCommandPool    vk.CommandPool
}

func (c *CommandPool) Destroy() {
	vk.DestroyCommandPool(c.Device.VKDevice, c.VKCommandPool, nil)
}

func (c *CommandPool) AllocateBuffers(count int) ([]*CommandBuffer, error) {

	var commandBufferAllocateInfo = vk.CommandBufferAllocateInfo{}
	commandBufferAllocateInfo.SType = vk.StructureTypeCommandBufferAllocateInfo
	commandBufferAllocateInfo.CommandPool = c.VKCommandPool
	commandBufferAllocateInfo.Level = vk.CommandBufferLevelPrimary
	commandBufferAllocateInfo.CommandBufferCount = uint32(count)

	cmdBuffers := make([]vk.CommandBuffer, count)

	err := vk.Error(vk.AllocateCommandBuffers(c.Device.VKDevice, &commandBufferAllocateInfo, cmdBuffers))
	if err != nil {
		return nil, errors.Wrap(err, "allocate command buffers")
	}

	ret := make([]*CommandBuffer, count)
	for i := range ret {
		ret[i] = &CommandBuffer{Pool: c, VKCommandBuffer: cmdBuffers[i]}
	}

	return ret, nil

}

func (c *CommandPool) AllocateBuffer() (*CommandBuffer, error) {
	ret, err := c.AllocateBuffers(1)
	if err != nil {
		return nil, err
	}
	return ret[0], nil

}

func (c *CommandPool) FreeBuffer(b *CommandBuffer) {
	vk.FreeCommandBuffers(c.Device.VKDevice, c.VKCommandPool, 1, []vk.CommandBuffer{b.VKCommandBuffer})
}

// CreateCommandPool creates a pool whose buffers can be reset one at a time,
// which the frame slots rely on to re-record every frame
func (d *Device) CreateCommandPool(queueFamilyIndex int) (*CommandPool, error) {
	var commandPoolCreateInfo = vk.CommandPoolCreateInfo{}
	commandPoolCreateInfo.SType = vk.StructureTypeCommandPoolCreateInfo
	commandPoolCreateInfo.Flags = vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit)
	commandPoolCreateInfo.QueueFamilyIndex = uint32(queueFamilyIndex)

	var commandPool vk.CommandPool

	err := vk.Error(vk.CreateCommandPool(d.VKDevice, &commandPoolCreateInfo, nil, &commandPool))

	if err != nil {
		return nil, errors.Wrap(err, "create command pool")
	}

	var ret CommandPool
	ret.Device = d
	ret.QueueFamilyIndex = queueFamilyIndex
	ret.VKCommandPool = commandPool

	return &ret, nil

}
