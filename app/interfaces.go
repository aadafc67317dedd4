// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"cogentcore.org/sierpinski/fractal"
	"cogentcore.org/sierpinski/vgpu"
	vk "github.com/goki/vulkan"
)

// Window is the window the app draws into.
type Window interface {

	// ShouldClose returns whether the user has asked to close the window.
	ShouldClose() bool

	// PollEvents processes pending window events without blocking.
	PollEvents()
}

// Device is the logical device the app records and submits work on.
type Device interface {
	CreatePipelineLayout() (vk.PipelineLayout, error)
	DestroyPipelineLayout(layout vk.PipelineLayout)

	AllocateCommandBuffers(n int) ([]vk.CommandBuffer, error)
	FreeCommandBuffers(bufs []vk.CommandBuffer)
	BeginCommandBuffer(cmd vk.CommandBuffer) error
	EndCommandBuffer(cmd vk.CommandBuffer) error
	BeginRenderPass(cmd vk.CommandBuffer, rp *vgpu.RenderPassBegin)
	EndRenderPass(cmd vk.CommandBuffer)

	// WaitIdle blocks until all submitted work has completed.
	WaitIdle() error
}

// SwapChain is the set of images presented to the window, with the
// render pass and framebuffers that draw into them.
type SwapChain interface {
	ImageCount() int
	Width() uint32
	Height() uint32
	Extent() vk.Extent2D
	RenderPass() vk.RenderPass
	FrameBuffer(i int) vk.Framebuffer

	// AcquireNextImage returns the index of the next image to draw.
	// The index is usable if the result is [vk.Success] or [vk.Suboptimal].
	AcquireNextImage() (uint32, vk.Result)

	// SubmitCommandBuffers submits the command buffer for image idx
	// and presents the image.
	SubmitCommandBuffers(cmd vk.CommandBuffer, idx uint32) vk.Result
}

// Model is vertex data on the device that can be drawn.
type Model interface {
	Bind(cmd vk.CommandBuffer)
	Draw(cmd vk.CommandBuffer)
	VertexCount() uint32
	Destroy()
}

// Pipeline is a graphics pipeline.
type Pipeline interface {
	Bind(cmd vk.CommandBuffer)
	Destroy()
}

// Factory makes the device objects owned by the app.
type Factory interface {
	NewModel(vertices []fractal.Vertex) (Model, error)
	NewPipeline(vertFile, fragFile string, pc *vgpu.PipelineConfig) (Pipeline, error)
}
