// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This is initially adapted from https://github.com/vulkan-go/asche
// Copyright © 2017 Maxim Kupriianov <max@kc.vc>, under the MIT License

package vgpu

import (
	vk "github.com/goki/vulkan"
)

// AllocateCommandBuffers allocates n primary command buffers from
// the device command pool.
func (dv *Device) AllocateCommandBuffers(n int) ([]vk.CommandBuffer, error) {
	bufs := make([]vk.CommandBuffer, n)
	err := NewError(vk.AllocateCommandBuffers(dv.Device, &vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        dv.CmdPool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: uint32(n),
	}, bufs))
	if err != nil {
		return nil, err
	}
	return bufs, nil
}

// FreeCommandBuffers returns the buffers to the device command pool.
func (dv *Device) FreeCommandBuffers(bufs []vk.CommandBuffer) {
	if len(bufs) == 0 {
		return
	}
	vk.FreeCommandBuffers(dv.Device, dv.CmdPool, uint32(len(bufs)), bufs)
}

// BeginCommandBuffer starts recording into the buffer, with no
// usage flags and no inheritance.
func (dv *Device) BeginCommandBuffer(cmd vk.CommandBuffer) error {
	return NewError(vk.BeginCommandBuffer(cmd, &vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: 0,
	}))
}

// EndCommandBuffer finishes recording the buffer.
func (dv *Device) EndCommandBuffer(cmd vk.CommandBuffer) error {
	return NewError(vk.EndCommandBuffer(cmd))
}

// RenderPassBegin describes one render pass instance to record.
type RenderPassBegin struct {
	RenderPass  vk.RenderPass
	Framebuffer vk.Framebuffer
	Extent      vk.Extent2D

	// clear color as r, g, b, a
	ClearColor [4]float32

	ClearDepth   float32
	ClearStencil uint32
}

// BeginRenderPass records the beginning of the render pass with
// inline subpass contents, over the full extent.
func (dv *Device) BeginRenderPass(cmd vk.CommandBuffer, rp *RenderPassBegin) {
	clearValues := []vk.ClearValue{vk.NewClearValue(rp.ClearColor[:]), {}}
	clearValues[1].SetDepthStencil(rp.ClearDepth, rp.ClearStencil)
	vk.CmdBeginRenderPass(cmd, &vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		RenderPass:  rp.RenderPass,
		Framebuffer: rp.Framebuffer,
		RenderArea: vk.Rect2D{
			Offset: vk.Offset2D{X: 0, Y: 0},
			Extent: rp.Extent,
		},
		ClearValueCount: uint32(len(clearValues)),
		PClearValues:    clearValues,
	}, vk.SubpassContentsInline)
}

// EndRenderPass records the end of the current render pass.
func (dv *Device) EndRenderPass(cmd vk.CommandBuffer) {
	vk.CmdEndRenderPass(cmd)
}
