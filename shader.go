package vkframe

import (
	"os"
	"unsafe"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

type ShaderModule struct {
	Device         *Device
	Description    string
	VKShaderModule vk.ShaderModule
}

// LoadShaderCode reads a SPIR-V binary. Empty files and files that are not a
// whole number of 32-bit words are rejected.
func LoadShaderCode(file string) ([]byte, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrap(err, "read shader")
	}
	if err := checkShaderCode(data); err != nil {
		return nil, errors.Wrapf(err, "shader %s", file)
	}
	return data, nil
}

func checkShaderCode(code []byte) error {
	if len(code) == 0 {
		return errors.New("empty SPIR-V")
	}
	if len(code)%4 != 0 {
		return errors.Newf("SPIR-V length %d is not a multiple of 4", len(code))
	}
	return nil
}

// CreateShaderModule wraps SPIR-V code in a shader module. The module is only
// needed until the pipelines using it are built.
func (d *Device) CreateShaderModule(description string, code []byte) (*ShaderModule, error) {
	if err := checkShaderCode(code); err != nil {
		return nil, errors.Wrap(err, description)
	}
	var module vk.ShaderModule
	err := vk.Error(vk.CreateShaderModule(d.VKDevice, &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(code)),
		PCode:    sliceUint32(code),
	}, nil, &module))

	if err != nil {
		return nil, errors.Wrapf(err, "create shader module %s", description)
	}

	var ret ShaderModule
	ret.VKShaderModule = module
	ret.Device = d
	ret.Description = description
	return &ret, nil
}

func (s *ShaderModule) VKPipelineShaderStageCreateInfo(stage vk.ShaderStageFlagBits, entryPoint string) vk.PipelineShaderStageCreateInfo {
	var shaderStageCreateInfo = vk.PipelineShaderStageCreateInfo{}
	shaderStageCreateInfo.SType = vk.StructureTypePipelineShaderStageCreateInfo
	shaderStageCreateInfo.Stage = stage
	shaderStageCreateInfo.Module = s.VKShaderModule
	shaderStageCreateInfo.PName = safeString(entryPoint)
	return shaderStageCreateInfo
}

func (s *ShaderModule) Destroy() {
	vk.DestroyShaderModule(s.Device.VKDevice, s.VKShaderModule, nil)
}

func sliceUint32(data []byte) []uint32 {
	return unsafe.Slice((*uint32)(unsafe.Pointer(&data[0])), len(data)/4)
}
