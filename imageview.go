package vkframe

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

type ImageView struct {
	Device      *Device
	VKImageView vk.ImageView
}

// ColorViewCreateInfo describes a 2D color view of image with an identity
// component mapping, one mip level and one layer
func ColorViewCreateInfo(image vk.Image, format vk.Format) vk.ImageViewCreateInfo {
	return vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    image,
		ViewType: vk.ImageViewType2d,
		Format:   format,
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
			LevelCount: 1,
			LayerCount: 1,
		},
	}
}

func (i *Image) CreateImageView() (*ImageView, error) {
	createInfo := ColorViewCreateInfo(i.VKImage, i.VKFormat)

	var view vk.ImageView

	err := vk.Error(vk.CreateImageView(i.Device.VKDevice, &createInfo, nil, &view))
	if err != nil {
		return nil, errors.Wrap(err, "create image view")
	}
	var ret ImageView
	ret.Device = i.Device
	ret.VKImageView = view

	return &ret, nil

}

func (i *ImageView) Destroy() {
	vk.DestroyImageView(i.Device.VKDevice, i.VKImageView, nil)
}
