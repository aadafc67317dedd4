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

// Device holds the logical device, its graphics and present
// queues and the command pool that buffers are allocated from.
type Device struct {

	// the gpu this device was made on
	GPU *GPU

	// logical device
	Device vk.Device

	// queue for drawing commands
	GraphicsQueue vk.Queue

	// queue for presenting swap chain images
	PresentQueue vk.Queue

	// pool of resettable command buffers on the graphics queue family
	CmdPool vk.CommandPool
}

// NewDevice makes the logical device, its queues and command pool
// for the physical device chosen by the gpu.
func NewDevice(gp *GPU) (*Device, error) {
	dv := &Device{GPU: gp}
	families := gp.Queues.Unique()
	queueInfos := make([]vk.DeviceQueueCreateInfo, len(families))
	for i, fam := range families {
		queueInfos[i] = vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: fam,
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		}
	}

	var device vk.Device
	err := NewError(vk.CreateDevice(gp.GPU, &vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(gp.DeviceExts)),
		PpEnabledExtensionNames: gp.DeviceExts,
		EnabledLayerCount:       uint32(len(gp.ValidationLayers)),
		PpEnabledLayerNames:     gp.ValidationLayers,
		PEnabledFeatures:        []vk.PhysicalDeviceFeatures{{}},
	}, nil, &device))
	if err != nil {
		return nil, errors.Errorf("failed to create logical device: %w", err)
	}
	dv.Device = device

	var queue vk.Queue
	vk.GetDeviceQueue(dv.Device, gp.Queues.Graphics, 0, &queue)
	dv.GraphicsQueue = queue
	vk.GetDeviceQueue(dv.Device, gp.Queues.Present, 0, &queue)
	dv.PresentQueue = queue

	var pool vk.CommandPool
	err = NewError(vk.CreateCommandPool(dv.Device, &vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: gp.Queues.Graphics,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit | vk.CommandPoolCreateTransientBit),
	}, nil, &pool))
	if err != nil {
		dv.Destroy()
		return nil, errors.Errorf("failed to create command pool: %w", err)
	}
	dv.CmdPool = pool
	return dv, nil
}

// CreatePipelineLayout creates a pipeline layout with no descriptor
// set layouts and no push constant ranges.
func (dv *Device) CreatePipelineLayout() (vk.PipelineLayout, error) {
	var layout vk.PipelineLayout
	err := NewError(vk.CreatePipelineLayout(dv.Device, &vk.PipelineLayoutCreateInfo{
		SType:                  vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount:         0,
		PushConstantRangeCount: 0,
	}, nil, &layout))
	return layout, err
}

// DestroyPipelineLayout destroys the given pipeline layout.
func (dv *Device) DestroyPipelineLayout(layout vk.PipelineLayout) {
	vk.DestroyPipelineLayout(dv.Device, layout, nil)
}

// WaitIdle blocks until all queues of the device are idle.
func (dv *Device) WaitIdle() error {
	return NewError(vk.DeviceWaitIdle(dv.Device))
}

// Destroy waits for the device to be idle, and destroys the
// command pool and the device.
func (dv *Device) Destroy() {
	if dv.Device == nil {
		return
	}
	vk.DeviceWaitIdle(dv.Device)
	if dv.CmdPool != vk.NullCommandPool {
		vk.DestroyCommandPool(dv.Device, dv.CmdPool, nil)
		dv.CmdPool = vk.NullCommandPool
	}
	vk.DestroyDevice(dv.Device, nil)
	dv.Device = nil
}
