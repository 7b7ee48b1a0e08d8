package vkframe

import (
	"time"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// DeviceFence is a Fence backed by a vulkan fence
type DeviceFence struct {
	Device  *Device
	VKFence vk.Fence
}

func (d *Device) VKCreateFence(signaled bool) (vk.Fence, error) {
	var fence vk.Fence
	var fenceCreateInfo = vk.FenceCreateInfo{}
	fenceCreateInfo.SType = vk.StructureTypeFenceCreateInfo
	if signaled {
		fenceCreateInfo.Flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}
	err := vk.Error(vk.CreateFence(d.VKDevice, &fenceCreateInfo, nil, &fence))
	if err != nil {
		return nil, errors.Wrap(err, "create fence")
	}
	return fence, nil
}

// CreateFence creates a fence, already signaled when signaled is set
func (d *Device) CreateFence(signaled bool) (*DeviceFence, error) {
	fence, err := d.VKCreateFence(signaled)
	if err != nil {
		return nil, err
	}
	return &DeviceFence{Device: d, VKFence: fence}, nil
}

// Wait blocks until the fence is signaled. NoTimeout waits forever.
func (f *DeviceFence) Wait(timeout time.Duration) error {
	ns := uint64(vk.MaxUint64)
	if timeout != NoTimeout {
		ns = uint64(timeout.Nanoseconds())
	}
	return resultError(vk.WaitForFences(f.Device.VKDevice, 1, []vk.Fence{f.VKFence}, vk.True, ns), "wait for fence")
}

func (f *DeviceFence) Reset() error {
	return resultError(vk.ResetFences(f.Device.VKDevice, 1, []vk.Fence{f.VKFence}), "reset fence")
}

func (f *DeviceFence) Destroy() {
	vk.DestroyFence(f.Device.VKDevice, f.VKFence, nil)
}
