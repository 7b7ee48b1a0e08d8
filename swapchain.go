package vkframe

import (
	"time"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Image is a chain image. The swapchain owns it, so it has no Destroy.
type Image struct {
	Device   *Device
	VKImage  vk.Image
	VKFormat vk.Format
}

type Swapchain struct {
	Config      ChainConfig
	Extent      vk.Extent2D
	Format      vk.Format
	Device      *Device
	VKSwapchain vk.Swapchain
}

func (s *Swapchain) Destroy() {
	vk.DestroySwapchain(s.Device.VKDevice, s.VKSwapchain, nil)
}

// Images returns the chain's images in index order
func (s *Swapchain) Images() ([]*Image, error) {
	var imageCount uint32
	err := vk.Error(vk.GetSwapchainImages(s.Device.VKDevice, s.VKSwapchain, &imageCount, nil))
	if err != nil {
		return nil, errors.Wrap(err, "count swapchain images")
	}

	swapchainImages := make([]vk.Image, imageCount)
	err = vk.Error(vk.GetSwapchainImages(s.Device.VKDevice, s.VKSwapchain, &imageCount, swapchainImages))
	if err != nil {
		return nil, errors.Wrap(err, "get swapchain images")
	}
	if imageCount == 0 {
		return nil, errors.New("swapchain has no images")
	}

	ret := make([]*Image, imageCount)
	for i := range swapchainImages {
		ret[i] = &Image{
			Device:   s.Device,
			VKImage:  swapchainImages[i],
			VKFormat: s.Format,
		}
	}

	return ret, nil
}

// AcquireNextImage asks the chain for an image to render to. signal is
// signaled once the presentation engine has released the image. A suboptimal
// chain still hands back a usable image and is not reported.
func (s *Swapchain) AcquireNextImage(timeout time.Duration, signal *DeviceSemaphore) (int, error) {
	ns := uint64(vk.MaxUint64)
	if timeout != NoTimeout {
		ns = uint64(timeout.Nanoseconds())
	}
	var imageIndex uint32
	res := vk.AcquireNextImage(s.Device.VKDevice, s.VKSwapchain, ns, signal.VKSemaphore, vk.NullFence, &imageIndex)
	if err := acquireResult(res); err != nil {
		return 0, err
	}
	return int(imageIndex), nil
}

// CreateSwapchain builds a chain for surface from a negotiated configuration
func (d *Device) CreateSwapchain(surface vk.Surface, cfg ChainConfig) (*Swapchain, error) {
	createInfo := cfg.VKSwapchainCreateInfo(surface)

	var swapchain vk.Swapchain
	err := vk.Error(vk.CreateSwapchain(d.VKDevice, &createInfo, nil, &swapchain))
	if err != nil {
		return nil, errors.Wrap(err, "create swapchain")
	}

	return &Swapchain{
		Config:      cfg,
		Extent:      cfg.Extent,
		Format:      cfg.Format.Format,
		Device:      d,
		VKSwapchain: swapchain,
	}, nil
}
