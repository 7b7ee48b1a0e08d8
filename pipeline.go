package vkframe

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

type PipelineCache struct {
	Device          *Device
	VKPipelineCache vk.PipelineCache
}

func (d *Device) CreatePipelineCache() (*PipelineCache, error) {
	var pipelineCacheCreate = vk.PipelineCacheCreateInfo{}
	pipelineCacheCreate.SType = vk.StructureTypePipelineCacheCreateInfo

	var pipelineCache vk.PipelineCache

	err := vk.Error(vk.CreatePipelineCache(d.VKDevice, &pipelineCacheCreate, nil, &pipelineCache))
	if err != nil {
		return nil, errors.Wrap(err, "create pipeline cache")
	}

	var ret PipelineCache
	ret.Device = d
	ret.VKPipelineCache = pipelineCache
	return &ret, nil
}

func (p *PipelineCache) Destroy() {
	vk.DestroyPipelineCache(p.Device.VKDevice, p.VKPipelineCache, nil)
}

type GraphicsPipeline struct {
	Device     *Device
	VKPipeline vk.Pipeline
}

func (p *GraphicsPipeline) Destroy() {
	vk.DestroyPipeline(p.Device.VKDevice, p.VKPipeline, nil)
}

// CreateGraphicsPipeline builds config against renderPass for targets of extent
func (d *Device) CreateGraphicsPipeline(pc *PipelineCache, config *GraphicsPipelineConfig, renderPass *RenderPass, extent vk.Extent2D) (*GraphicsPipeline, error) {
	info, err := config.VKGraphicsPipelineCreateInfo(renderPass.VKRenderPass, extent)
	if err != nil {
		return nil, err
	}

	pipelines := make([]vk.Pipeline, 1)
	err = vk.Error(vk.CreateGraphicsPipelines(d.VKDevice, pc.VKPipelineCache,
		1, []vk.GraphicsPipelineCreateInfo{info},
		nil, pipelines))
	if err != nil {
		return nil, errors.Wrap(err, "create graphics pipeline")
	}

	return &GraphicsPipeline{Device: d, VKPipeline: pipelines[0]}, nil
}
