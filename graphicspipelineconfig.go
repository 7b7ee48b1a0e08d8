package vkframe

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// destroyable is anything owning a vulkan object
type destroyable interface {
	Destroy()
}

// GraphicsPipelineConfig is a utility object to ease construction of graphics pipelines
type GraphicsPipelineConfig struct {
	Device       *Device
	ShaderStages []vk.PipelineShaderStageCreateInfo

	PipelineLayout *PipelineLayout

	// PrimativeTopology see https://www.khronos.org/registry/vulkan/specs/1.1-extensions/man/html/VkPrimitiveTopology.html
	// defaults to VK_PRIMITIVE_TOPOLOGY_TRIANGLE_LIST
	PrimitiveTopology vk.PrimitiveTopology

	// PolygonMode see https://www.khronos.org/registry/vulkan/specs/1.1-extensions/man/html/VkPolygonMode.html
	// defaults to VK_POLYGON_MODE_FILL
	PolygonMode vk.PolygonMode

	// LineWidth of rasterized lines, defaults to 1.0
	LineWidth float32

	// CullMode specifies which triangles will be culled, defaults to vk.CullModeBackBit
	CullMode vk.CullModeFlagBits

	// FrontFace specifies how the front face of a triangle is determined, see https://www.khronos.org/registry/vulkan/specs/1.1/html/vkspec.html#VkFrontFace
	// defaults to vk.FrontFaceClockwise
	FrontFace vk.FrontFace

	// BlendAttachments defaults to one opaque attachment writing every channel
	BlendAttachments []vk.PipelineColorBlendAttachmentState

	toDestroy []destroyable
}

// CreateGraphicsPipelineConfig creates a config for a pipeline with no vertex
// input and no depth buffer
func (d *Device) CreateGraphicsPipelineConfig() *GraphicsPipelineConfig {
	return &GraphicsPipelineConfig{
		Device:            d,
		PrimitiveTopology: vk.PrimitiveTopologyTriangleList,
		PolygonMode:       vk.PolygonModeFill,
		LineWidth:         1.0,
		CullMode:          vk.CullModeBackBit,
		FrontFace:         vk.FrontFaceClockwise,
	}
}

func (g *GraphicsPipelineConfig) manageDestroy(d destroyable) {
	g.toDestroy = append(g.toDestroy, d)
}

// Destroy releases the shader modules the config created. Pipelines already
// built from it stay valid.
func (g *GraphicsPipelineConfig) Destroy() {
	for i := len(g.toDestroy) - 1; i >= 0; i-- {
		g.toDestroy[i].Destroy()
	}
	g.toDestroy = nil
}

// AddShaderStage creates a module from SPIR-V code and adds it as a stage
func (g *GraphicsPipelineConfig) AddShaderStage(code []byte, entryPoint string, stageType vk.ShaderStageFlagBits) error {
	shader, err := g.Device.CreateShaderModule(entryPoint, code)
	if err != nil {
		return err
	}
	g.ShaderStages = append(g.ShaderStages, shader.VKPipelineShaderStageCreateInfo(stageType, entryPoint))

	g.manageDestroy(shader)

	return nil
}

// SetPipelineLayout sets the pipeline layout
func (g *GraphicsPipelineConfig) SetPipelineLayout(layout *PipelineLayout) *GraphicsPipelineConfig {
	g.PipelineLayout = layout
	return g
}

// VKGraphicsPipelineCreateInfo describes the pipeline for a render target of
// the given extent. The viewport and scissor cover the whole extent.
func (g *GraphicsPipelineConfig) VKGraphicsPipelineCreateInfo(renderPass vk.RenderPass, extent vk.Extent2D) (vk.GraphicsPipelineCreateInfo, error) {
	if len(g.ShaderStages) == 0 {
		return vk.GraphicsPipelineCreateInfo{}, errors.New("graphics pipeline has no shader stages")
	}

	var vertexInputState = vk.PipelineVertexInputStateCreateInfo{}
	vertexInputState.SType = vk.StructureTypePipelineVertexInputStateCreateInfo

	var inputAssemblyState = vk.PipelineInputAssemblyStateCreateInfo{}
	inputAssemblyState.SType = vk.StructureTypePipelineInputAssemblyStateCreateInfo
	inputAssemblyState.Topology = g.PrimitiveTopology
	inputAssemblyState.PrimitiveRestartEnable = vk.False

	var viewport = vk.Viewport{
		X:        0.0,
		Y:        0.0,
		Width:    float32(extent.Width),
		Height:   float32(extent.Height),
		MinDepth: 0.0,
		MaxDepth: 1.0,
	}

	var scissor = vk.Rect2D{}
	scissor.Offset = vk.Offset2D{X: 0, Y: 0}
	scissor.Extent = extent

	var viewportState = vk.PipelineViewportStateCreateInfo{}
	viewportState.SType = vk.StructureTypePipelineViewportStateCreateInfo
	viewportState.ViewportCount = 1
	viewportState.PViewports = []vk.Viewport{viewport}
	viewportState.ScissorCount = 1
	viewportState.PScissors = []vk.Rect2D{scissor}

	var rasterState = vk.PipelineRasterizationStateCreateInfo{}
	rasterState.SType = vk.StructureTypePipelineRasterizationStateCreateInfo
	rasterState.DepthClampEnable = vk.False
	rasterState.RasterizerDiscardEnable = vk.False
	rasterState.PolygonMode = g.PolygonMode
	rasterState.LineWidth = g.LineWidth
	rasterState.CullMode = vk.CullModeFlags(g.CullMode)
	rasterState.FrontFace = g.FrontFace
	rasterState.DepthBiasEnable = vk.False

	var multisampleState = vk.PipelineMultisampleStateCreateInfo{}
	multisampleState.SType = vk.StructureTypePipelineMultisampleStateCreateInfo
	multisampleState.SampleShadingEnable = vk.False
	multisampleState.RasterizationSamples = vk.SampleCount1Bit
	multisampleState.MinSampleShading = 1.0

	blendAttachments := g.BlendAttachments
	if blendAttachments == nil {
		blendAttachments = []vk.PipelineColorBlendAttachmentState{{
			ColorWriteMask: vk.ColorComponentFlags(vk.ColorComponentRBit | vk.ColorComponentGBit | vk.ColorComponentBBit | vk.ColorComponentABit),
			BlendEnable:    vk.False,
		}}
	}

	var colorBlendState = vk.PipelineColorBlendStateCreateInfo{
		SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
		LogicOpEnable:   vk.False,
		LogicOp:         vk.LogicOpCopy,
		AttachmentCount: uint32(len(blendAttachments)),
		PAttachments:    blendAttachments,
	}

	var pipelineLayout vk.PipelineLayout
	if g.PipelineLayout != nil {
		pipelineLayout = g.PipelineLayout.VKPipelineLayout
	}

	return vk.GraphicsPipelineCreateInfo{
		SType:               vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount:          uint32(len(g.ShaderStages)),
		PStages:             g.ShaderStages,
		PVertexInputState:   &vertexInputState,
		PInputAssemblyState: &inputAssemblyState,
		PViewportState:      &viewportState,
		PRasterizationState: &rasterState,
		PMultisampleState:   &multisampleState,
		PColorBlendState:    &colorBlendState,
		Layout:              pipelineLayout,
		RenderPass:          renderPass,
		Subpass:             0,
		BasePipelineIndex:   -1,
	}, nil

}
