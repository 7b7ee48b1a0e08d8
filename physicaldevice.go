package vkframe

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// SwapchainExtension is the device extension every eligible device must expose
const SwapchainExtension = "VK_KHR_swapchain"

type PhysicalDevice struct {
	DeviceName                 string
	VKPhysicalDevice           vk.PhysicalDevice
	VKPhysicalDeviceProperties vk.PhysicalDeviceProperties
}

func (p *PhysicalDevice) GetSurfacePresentModes(surface vk.Surface) ([]vk.PresentMode, error) {
	var count uint32
	err := vk.Error(vk.GetPhysicalDeviceSurfacePresentModes(p.VKPhysicalDevice, surface, &count, nil))
	if err != nil {
		return nil, err
	}

	f := make([]vk.PresentMode, count)
	err = vk.Error(vk.GetPhysicalDeviceSurfacePresentModes(p.VKPhysicalDevice, surface, &count, f))
	if err != nil {
		return nil, err
	}

	return f[:count], nil

}

func (p *PhysicalDevice) GetSurfaceFormats(surface vk.Surface) ([]vk.SurfaceFormat, error) {
	var count uint32
	err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(p.VKPhysicalDevice, surface, &count, nil))
	if err != nil {
		return nil, err
	}

	f := make([]vk.SurfaceFormat, count)
	err = vk.Error(vk.GetPhysicalDeviceSurfaceFormats(p.VKPhysicalDevice, surface, &count, f))
	if err != nil {
		return nil, err
	}
	f = f[:count]
	for i := range f {
		f[i].Deref()
	}

	return f, nil

}

func (p *PhysicalDevice) GetSurfaceCapabilities(surface vk.Surface) (*vk.SurfaceCapabilities, error) {
	var caps vk.SurfaceCapabilities
	err := vk.Error(vk.GetPhysicalDeviceSurfaceCapabilities(p.VKPhysicalDevice, surface, &caps))
	if err != nil {
		return nil, err
	}
	caps.Deref()
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()

	return &caps, nil
}

// SurfaceReport queries everything chain negotiation needs about surface
func (p *PhysicalDevice) SurfaceReport(surface vk.Surface) (*SurfaceReport, error) {
	caps, err := p.GetSurfaceCapabilities(surface)
	if err != nil {
		return nil, errors.Wrap(err, "surface capabilities")
	}
	formats, err := p.GetSurfaceFormats(surface)
	if err != nil {
		return nil, errors.Wrap(err, "surface formats")
	}
	modes, err := p.GetSurfacePresentModes(surface)
	if err != nil {
		return nil, errors.Wrap(err, "surface present modes")
	}
	return &SurfaceReport{Capabilities: *caps, Formats: formats, PresentModes: modes}, nil
}

func (p *PhysicalDevice) String() string {
	return p.DeviceName
}

// DeviceType is the kind of device: discrete, integrated, virtual or CPU
func (p *PhysicalDevice) DeviceType() vk.PhysicalDeviceType {
	return p.VKPhysicalDeviceProperties.DeviceType
}

func (p *PhysicalDevice) QueueFamilies() (QueueFamilySlice, error) {
	var queueFamilyCount uint32

	vk.GetPhysicalDeviceQueueFamilyProperties(p.VKPhysicalDevice, &queueFamilyCount, nil)

	if queueFamilyCount == 0 {
		return nil, nil
	}

	queues := make([]vk.QueueFamilyProperties, queueFamilyCount)

	vk.GetPhysicalDeviceQueueFamilyProperties(p.VKPhysicalDevice, &queueFamilyCount, queues)

	ret := make([]*QueueFamily, queueFamilyCount)
	for i, queue := range queues {

		ret[i] = &QueueFamily{Index: i, PhysicalDevice: p, VKQueueFamilyProperties: queue}

		ret[i].VKQueueFamilyProperties.Deref()

	}

	return ret, nil

}

// SupportedExtensions lists the names of the device's extensions
func (p *PhysicalDevice) SupportedExtensions() ([]string, error) {
	var count uint32
	err := vk.Error(vk.EnumerateDeviceExtensionProperties(p.VKPhysicalDevice, "", &count, nil))
	if err != nil {
		return nil, err
	}

	ext := make([]vk.ExtensionProperties, count)

	err = vk.Error(vk.EnumerateDeviceExtensionProperties(p.VKPhysicalDevice, "", &count, ext))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, count)
	for _, e := range ext[:count] {
		e.Deref()
		names = append(names, vk.ToString(e.ExtensionName[:]))
	}
	return names, nil
}

// CreateLogicalDevice creates a device with one queue from each distinct
// family in families and the given extensions enabled
func (p *PhysicalDevice) CreateLogicalDevice(families QueueFamilyIndices, extensions []string) (*Device, error) {

	unique := families.Unique()
	queueCreateInfos := make([]vk.DeviceQueueCreateInfo, len(unique))
	for j, index := range unique {
		queueCreateInfos[j] = vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: uint32(index),
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		}
	}

	enabled := safeStrings(append([]string(nil), extensions...))

	deviceCreateInfo := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueCreateInfos)),
		PQueueCreateInfos:       queueCreateInfos,
		EnabledExtensionCount:   uint32(len(enabled)),
		PpEnabledExtensionNames: enabled,
	}

	var ldevice vk.Device

	err := vk.Error(vk.CreateDevice(p.VKPhysicalDevice, &deviceCreateInfo, nil, &ldevice))
	if err != nil {
		return nil, errors.Wrap(err, "create logical device")
	}

	return &Device{
		PhysicalDevice: p,
		VKDevice:       ldevice,
		Families:       families,
	}, nil
}
