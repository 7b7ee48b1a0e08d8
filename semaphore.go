package vkframe

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// DeviceSemaphore is a binary semaphore ordering work between the chain and the queue
type DeviceSemaphore struct {
	Device      *Device
	VKSemaphore vk.Semaphore
}

//VKCreateSemaphore creates a native vulkan semaphore object
func (d *Device) VKCreateSemaphore() (vk.Semaphore, error) {
	semaphoreCreateInfo := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}

	var sema vk.Semaphore

	err := vk.Error(vk.CreateSemaphore(d.VKDevice, &semaphoreCreateInfo, nil, &sema))

	return sema, err
}

func (d *Device) CreateSemaphore() (*DeviceSemaphore, error) {
	sema, err := d.VKCreateSemaphore()
	if err != nil {
		return nil, errors.Wrap(err, "create semaphore")
	}
	return &DeviceSemaphore{Device: d, VKSemaphore: sema}, nil
}

func (s *DeviceSemaphore) Destroy() {
	vk.DestroySemaphore(s.Device.VKDevice, s.VKSemaphore, nil)
}
