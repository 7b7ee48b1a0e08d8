package vkframe

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

type PipelineLayout struct {
	Device           *Device
	VKPipelineLayout vk.PipelineLayout
}

func (p *PipelineLayout) Destroy() {
	vk.DestroyPipelineLayout(p.Device.VKDevice, p.VKPipelineLayout, nil)
}

// CreatePipelineLayout creates a layout with no descriptor sets and no push
// constants, which is all the fixed pipeline needs
func (d *Device) CreatePipelineLayout() (*PipelineLayout, error) {
	var pipelineLayoutCreateInfo = vk.PipelineLayoutCreateInfo{}
	pipelineLayoutCreateInfo.SType = vk.StructureTypePipelineLayoutCreateInfo

	var pipelineLayout vk.PipelineLayout

	err := vk.Error(vk.CreatePipelineLayout(d.VKDevice, &pipelineLayoutCreateInfo, nil, &pipelineLayout))
	if err != nil {
		return nil, errors.Wrap(err, "create pipeline layout")
	}

	var ret PipelineLayout

	ret.VKPipelineLayout = pipelineLayout
	ret.Device = d

	return &ret, nil

}
