// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This is initially adapted from https://github.com/vulkan-go/asche
// Copyright © 2017 Maxim Kupriianov <max@kc.vc>, under the MIT License

package vgpu

import (
	"cogentcore.org/sierpinski/base/errors"
	vk "github.com/goki/vulkan"
)

// PipelineConfig holds the fixed function state of a graphics
// pipeline, and the layout and render pass it is made for.
type PipelineConfig struct {
	Viewport      vk.Viewport
	Scissor       vk.Rect2D
	InputAssembly vk.PipelineInputAssemblyStateCreateInfo
	Rasterization vk.PipelineRasterizationStateCreateInfo
	Multisample   vk.PipelineMultisampleStateCreateInfo
	ColorBlend    vk.PipelineColorBlendAttachmentState
	DepthStencil  vk.PipelineDepthStencilStateCreateInfo

	// the pipeline layout; must be set before making the pipeline
	Layout vk.PipelineLayout

	// the render pass; must be set before making the pipeline
	RenderPass vk.RenderPass

	// the subpass of the render pass
	Subpass uint32
}

// DefaultPipelineConfig returns the default configuration for drawing
// filled triangle lists into a width x height color and depth target:
// static viewport and scissor, no culling, no blending, depth test
// with less-than.
func DefaultPipelineConfig(width, height uint32) PipelineConfig {
	pc := PipelineConfig{}
	pc.Viewport = vk.Viewport{
		X:        0,
		Y:        0,
		Width:    float32(width),
		Height:   float32(height),
		MinDepth: 0,
		MaxDepth: 1,
	}
	pc.Scissor = vk.Rect2D{
		Offset: vk.Offset2D{X: 0, Y: 0},
		Extent: vk.Extent2D{Width: width, Height: height},
	}
	pc.SetTopology(vk.PrimitiveTopologyTriangleList, false)
	pc.SetRasterization(vk.PolygonModeFill, vk.CullModeNone, vk.FrontFaceClockwise, 1.0)
	pc.Multisample = vk.PipelineMultisampleStateCreateInfo{
		SType:                 vk.StructureTypePipelineMultisampleStateCreateInfo,
		RasterizationSamples:  vk.SampleCount1Bit,
		SampleShadingEnable:   vk.False,
		MinSampleShading:      1,
		AlphaToCoverageEnable: vk.False,
		AlphaToOneEnable:      vk.False,
	}
	pc.SetColorBlend(false)
	pc.DepthStencil = vk.PipelineDepthStencilStateCreateInfo{
		SType:                 vk.StructureTypePipelineDepthStencilStateCreateInfo,
		DepthTestEnable:       vk.True,
		DepthWriteEnable:      vk.True,
		DepthCompareOp:        vk.CompareOpLess,
		DepthBoundsTestEnable: vk.False,
		MinDepthBounds:        0,
		MaxDepthBounds:        1,
		StencilTestEnable:     vk.False,
	}
	return pc
}

// SetTopology sets the topology of vertex position data.
func (pc *PipelineConfig) SetTopology(topo vk.PrimitiveTopology, restartEnable bool) {
	rese := vk.False
	if restartEnable {
		rese = vk.True
	}
	pc.InputAssembly = vk.PipelineInputAssemblyStateCreateInfo{
		SType:                  vk.StructureTypePipelineInputAssemblyStateCreateInfo,
		Topology:               topo,
		PrimitiveRestartEnable: vk.Bool32(rese),
	}
}

// SetRasterization sets various options for how to rasterize shapes.
func (pc *PipelineConfig) SetRasterization(polygonMode vk.PolygonMode, cullMode vk.CullModeFlagBits, frontFace vk.FrontFace, lineWidth float32) {
	pc.Rasterization = vk.PipelineRasterizationStateCreateInfo{
		SType:                   vk.StructureTypePipelineRasterizationStateCreateInfo,
		DepthClampEnable:        vk.False,
		RasterizerDiscardEnable: vk.False,
		PolygonMode:             polygonMode,
		CullMode:                vk.CullModeFlags(cullMode),
		FrontFace:               frontFace,
		LineWidth:               lineWidth,
		DepthBiasEnable:         vk.False,
	}
}

// SetColorBlend determines the color blending function:
// either 1-source alpha (alphaBlend) or no blending:
// new color overwrites old.
func (pc *PipelineConfig) SetColorBlend(alphaBlend bool) {
	var cb vk.PipelineColorBlendAttachmentState
	cb.ColorWriteMask = vk.ColorComponentFlags(vk.ColorComponentRBit | vk.ColorComponentGBit | vk.ColorComponentBBit | vk.ColorComponentABit)
	if alphaBlend {
		cb.BlendEnable = vk.True
		cb.SrcColorBlendFactor = vk.BlendFactorSrcAlpha
		cb.DstColorBlendFactor = vk.BlendFactorOneMinusSrcAlpha
		cb.ColorBlendOp = vk.BlendOpAdd
		cb.SrcAlphaBlendFactor = vk.BlendFactorOne
		cb.DstAlphaBlendFactor = vk.BlendFactorZero
		cb.AlphaBlendOp = vk.BlendOpAdd
	} else {
		cb.BlendEnable = vk.False
		cb.SrcColorBlendFactor = vk.BlendFactorOne
		cb.DstColorBlendFactor = vk.BlendFactorZero
		cb.ColorBlendOp = vk.BlendOpAdd
		cb.SrcAlphaBlendFactor = vk.BlendFactorOne
		cb.DstAlphaBlendFactor = vk.BlendFactorZero
		cb.AlphaBlendOp = vk.BlendOpAdd
	}
	pc.ColorBlend = cb
}

// Validate returns an error if the layout or render pass is missing.
func (pc *PipelineConfig) Validate() error {
	if pc.Layout == vk.NullPipelineLayout {
		return errors.New("cannot create graphics pipeline: no pipeline layout provided in config")
	}
	if pc.RenderPass == vk.NullRenderPass {
		return errors.New("cannot create graphics pipeline: no render pass provided in config")
	}
	return nil
}

// Pipeline is a graphics pipeline made from a vertex and a fragment shader.
type Pipeline struct {
	dev *Device

	// shaders in stage order
	Shaders []*Shader

	// the created vulkan pipeline
	VkPipeline vk.Pipeline
}

// NewPipeline loads the two SPIR-V shader files and creates the
// graphics pipeline described by the config.
func NewPipeline(dev *Device, vertFile, fragFile string, pc *PipelineConfig) (*Pipeline, error) {
	if err := pc.Validate(); err != nil {
		return nil, err
	}
	pl := &Pipeline{dev: dev}
	vs, err := OpenShader(dev.Device, VertexShader, vertFile)
	if err != nil {
		return nil, err
	}
	pl.Shaders = append(pl.Shaders, vs)
	fs, err := OpenShader(dev.Device, FragmentShader, fragFile)
	if err != nil {
		pl.Destroy()
		return nil, err
	}
	pl.Shaders = append(pl.Shaders, fs)

	stages := make([]vk.PipelineShaderStageCreateInfo, len(pl.Shaders))
	for i, sh := range pl.Shaders {
		stages[i] = sh.StageInfo()
	}
	bindings := BindingDescriptions()
	attrs := AttributeDescriptions()

	info := vk.GraphicsPipelineCreateInfo{
		SType:      vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount: uint32(len(stages)),
		PStages:    stages,
		PVertexInputState: &vk.PipelineVertexInputStateCreateInfo{
			SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
			VertexBindingDescriptionCount:   uint32(len(bindings)),
			PVertexBindingDescriptions:      bindings,
			VertexAttributeDescriptionCount: uint32(len(attrs)),
			PVertexAttributeDescriptions:    attrs,
		},
		PInputAssemblyState: &pc.InputAssembly,
		PViewportState: &vk.PipelineViewportStateCreateInfo{
			SType:         vk.StructureTypePipelineViewportStateCreateInfo,
			ViewportCount: 1,
			PViewports:    []vk.Viewport{pc.Viewport},
			ScissorCount:  1,
			PScissors:     []vk.Rect2D{pc.Scissor},
		},
		PRasterizationState: &pc.Rasterization,
		PMultisampleState:   &pc.Multisample,
		PColorBlendState: &vk.PipelineColorBlendStateCreateInfo{
			SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
			LogicOpEnable:   vk.False,
			LogicOp:         vk.LogicOpCopy,
			AttachmentCount: 1,
			PAttachments:    []vk.PipelineColorBlendAttachmentState{pc.ColorBlend},
		},
		PDepthStencilState: &pc.DepthStencil,
		Layout:             pc.Layout,
		RenderPass:         pc.RenderPass,
		Subpass:            pc.Subpass,
		BasePipelineHandle: vk.NullPipeline,
		BasePipelineIndex:  -1,
	}

	pipelines := make([]vk.Pipeline, 1)
	err = NewError(vk.CreateGraphicsPipelines(dev.Device, vk.NullPipelineCache, 1, []vk.GraphicsPipelineCreateInfo{info}, nil, pipelines))
	pl.FreeShaders()
	if err != nil {
		return nil, errors.Errorf("vkCreateGraphicsPipelines: %w", err)
	}
	pl.VkPipeline = pipelines[0]
	return pl, nil
}

// Bind records binding the pipeline to the graphics bind point.
func (pl *Pipeline) Bind(cmd vk.CommandBuffer) {
	vk.CmdBindPipeline(cmd, vk.PipelineBindPointGraphics, pl.VkPipeline)
}

// FreeShaders is called after pipeline creation, to unload shader
// modules as they are no longer needed.
func (pl *Pipeline) FreeShaders() {
	for _, sh := range pl.Shaders {
		sh.Free(pl.dev.Device)
	}
}

// Destroy destroys the pipeline and any remaining shader modules.
func (pl *Pipeline) Destroy() {
	if pl.dev == nil {
		return
	}
	pl.FreeShaders()
	if pl.VkPipeline != vk.NullPipeline {
		vk.DestroyPipeline(pl.dev.Device, pl.VkPipeline, nil)
		pl.VkPipeline = vk.NullPipeline
	}
	pl.dev = nil
}
