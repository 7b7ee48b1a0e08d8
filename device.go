package vkframe

import (
	vk "github.com/vulkan-go/vulkan"
)

type Device struct {
	PhysicalDevice *PhysicalDevice
	VKDevice       vk.Device
	Families       QueueFamilyIndices
}

func (d *Device) Destroy() {
	vk.DestroyDevice(d.VKDevice, nil)
}

// WaitIdle blocks until every queue of the device is idle
func (d *Device) WaitIdle() error {
	return resultError(vk.DeviceWaitIdle(d.VKDevice), "device wait idle")
}

// GetQueue returns queue 0 of the given family
func (d *Device) GetQueue(familyIndex int) *Queue {

	var vkq vk.Queue

	vk.GetDeviceQueue(d.VKDevice, uint32(familyIndex), 0, &vkq)

	return &Queue{
		Device:           d,
		QueueFamilyIndex: familyIndex,
		VKQueue:          vkq,
	}
}

// FrameAllocator creates frame slot objects on this device, command buffers
// coming from pool
func (d *Device) FrameAllocator(pool *CommandPool) SlotAllocator {
	return &deviceSlotAllocator{device: d, pool: pool}
}

type deviceSlotAllocator struct {
	device *Device
	pool   *CommandPool
}

// The methods return a bare nil on failure so callers never hold a non-nil
// interface wrapping a nil pointer.

func (a *deviceSlotAllocator) AllocateCommandRecorder() (CommandRecorder, error) {
	cb, err := a.pool.AllocateBuffer()
	if err != nil {
		return nil, err
	}
	return cb, nil
}

func (a *deviceSlotAllocator) CreateSemaphore() (Semaphore, error) {
	s, err := a.device.CreateSemaphore()
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (a *deviceSlotAllocator) CreateFence(signaled bool) (Fence, error) {
	f, err := a.device.CreateFence(signaled)
	if err != nil {
		return nil, err
	}
	return f, nil
}
