// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	"os"
	"unsafe"

	"cogentcore.org/sierpinski/base/errors"
	vk "github.com/goki/vulkan"
)

//go:generate stringer -type=ShaderTypes

// ShaderTypes is a list of shader stages used by a graphics pipeline.
type ShaderTypes int32

const (
	VertexShader ShaderTypes = iota
	FragmentShader
	ShaderTypesN
)

// ShaderStageFlags are the vulkan stage bits for each [ShaderTypes].
var ShaderStageFlags = map[ShaderTypes]vk.ShaderStageFlagBits{
	VertexShader:   vk.ShaderStageVertexBit,
	FragmentShader: vk.ShaderStageFragmentBit,
}

// SPIRVMagic is the first word of every SPIR-V module.
const SPIRVMagic = 0x07230203

// Shader is a compiled SPIR-V shader module for one pipeline stage.
type Shader struct {

	// the file the code was read from
	File string

	// the stage this shader runs in
	Type ShaderTypes

	// the vulkan shader module
	VkModule vk.ShaderModule
}

// OpenShader reads the SPIR-V code in the given file and creates
// a shader module of the given type from it.
func OpenShader(dev vk.Device, typ ShaderTypes, file string) (*Shader, error) {
	code, err := os.ReadFile(file)
	if errors.Is(err, os.ErrNotExist) {
		return nil, errors.Errorf("failed to read shader %s (compile the shaders with go generate ./shaders first): %w", file, err)
	}
	if err != nil {
		return nil, errors.Errorf("failed to read shader %s: %w", file, err)
	}
	words, err := SPIRVWords(code)
	if err != nil {
		return nil, errors.Errorf("shader %s: %w", file, err)
	}
	var module vk.ShaderModule
	err = NewError(vk.CreateShaderModule(dev, &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(code)),
		PCode:    words,
	}, nil, &module))
	if err != nil {
		return nil, errors.Errorf("failed to create shader module %s: %w", file, err)
	}
	return &Shader{File: file, Type: typ, VkModule: module}, nil
}

// SPIRVWords returns the SPIR-V code as 32 bit words, sharing memory
// with code. It returns an error if the code is not a whole number of
// words or does not start with the SPIR-V magic number.
func SPIRVWords(code []byte) ([]uint32, error) {
	if len(code) == 0 || len(code)%4 != 0 {
		return nil, errors.Errorf("SPIR-V code size %d is not a positive multiple of 4", len(code))
	}
	words := SliceUint32(code)
	if words[0] != SPIRVMagic {
		return nil, errors.Errorf("bad SPIR-V magic number %#x", words[0])
	}
	return words, nil
}

// SliceUint32 reinterprets the bytes as a slice of uint32,
// dropping any trailing partial word.
func SliceUint32(data []byte) []uint32 {
	if len(data) < 4 {
		return nil
	}
	return unsafe.Slice((*uint32)(unsafe.Pointer(unsafe.SliceData(data))), len(data)/4)
}

// StageInfo returns the pipeline stage config of the shader.
func (sh *Shader) StageInfo() vk.PipelineShaderStageCreateInfo {
	return vk.PipelineShaderStageCreateInfo{
		SType:  vk.StructureTypePipelineShaderStageCreateInfo,
		Stage:  ShaderStageFlags[sh.Type],
		Module: sh.VkModule,
		PName:  "main\x00",
	}
}

// Free destroys the shader module, which is no longer needed
// once the pipeline has been created.
func (sh *Shader) Free(dev vk.Device) {
	if sh.VkModule == vk.NullShaderModule {
		return
	}
	vk.DestroyShaderModule(dev, sh.VkModule, nil)
	sh.VkModule = vk.NullShaderModule
}
