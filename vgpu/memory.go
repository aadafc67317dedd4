// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	"cogentcore.org/sierpinski/base/errors"
	vk "github.com/goki/vulkan"
)

// NewBuffer makes a buffer of given size and usage.
func NewBuffer(dev vk.Device, size int, usage vk.BufferUsageFlagBits) (vk.Buffer, error) {
	if size == 0 {
		return vk.NullBuffer, errors.New("vgpu.NewBuffer: size is zero")
	}
	var buffer vk.Buffer
	err := NewError(vk.CreateBuffer(dev, &vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Usage:       vk.BufferUsageFlags(usage),
		Size:        vk.DeviceSize(size),
		SharingMode: vk.SharingModeExclusive,
	}, nil, &buffer))
	return buffer, err
}

// AllocBuffMem allocates memory with the given properties for the
// buffer and binds it.
func AllocBuffMem(gp *GPU, dev vk.Device, buffer vk.Buffer, props vk.MemoryPropertyFlagBits) (vk.DeviceMemory, error) {
	var memReqs vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(dev, buffer, &memReqs)
	memReqs.Deref()

	memType, ok := FindRequiredMemoryType(gp.MemoryProps, vk.MemoryPropertyFlagBits(memReqs.MemoryTypeBits), props)
	if !ok {
		return vk.NullDeviceMemory, errors.New("vulkan error: failed to find required memory type")
	}

	var memory vk.DeviceMemory
	err := NewError(vk.AllocateMemory(dev, &vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  memReqs.Size,
		MemoryTypeIndex: memType,
	}, nil, &memory))
	if err != nil {
		return vk.NullDeviceMemory, err
	}
	if err := NewError(vk.BindBufferMemory(dev, buffer, memory, 0)); err != nil {
		vk.FreeMemory(dev, memory, nil)
		return vk.NullDeviceMemory, err
	}
	return memory, nil
}

// AllocImageMem allocates memory with the given properties for the
// image and binds it.
func AllocImageMem(gp *GPU, dev vk.Device, img vk.Image, props vk.MemoryPropertyFlagBits) (vk.DeviceMemory, error) {
	var memReqs vk.MemoryRequirements
	vk.GetImageMemoryRequirements(dev, img, &memReqs)
	memReqs.Deref()

	memType, ok := FindRequiredMemoryType(gp.MemoryProps, vk.MemoryPropertyFlagBits(memReqs.MemoryTypeBits), props)
	if !ok {
		return vk.NullDeviceMemory, errors.New("vulkan error: failed to find required memory type")
	}

	var memory vk.DeviceMemory
	err := NewError(vk.AllocateMemory(dev, &vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  memReqs.Size,
		MemoryTypeIndex: memType,
	}, nil, &memory))
	if err != nil {
		return vk.NullDeviceMemory, err
	}
	if err := NewError(vk.BindImageMemory(dev, img, memory, 0)); err != nil {
		vk.FreeMemory(dev, memory, nil)
		return vk.NullDeviceMemory, err
	}
	return memory, nil
}

// FreeBuffMem frees given device memory to nil
func FreeBuffMem(dev vk.Device, memory *vk.DeviceMemory) {
	if *memory == vk.NullDeviceMemory {
		return
	}
	vk.FreeMemory(dev, *memory, nil)
	*memory = vk.NullDeviceMemory
}

// DestroyBuffer destroys given buffer and nils the pointer
func DestroyBuffer(dev vk.Device, buff *vk.Buffer) {
	if *buff == vk.NullBuffer {
		return
	}
	vk.DestroyBuffer(dev, *buff, nil)
	*buff = vk.NullBuffer
}

// FindRequiredMemoryType returns the index of the first memory type
// allowed by deviceRequirements that has all of the hostRequirements.
func FindRequiredMemoryType(props vk.PhysicalDeviceMemoryProperties,
	deviceRequirements, hostRequirements vk.MemoryPropertyFlagBits) (uint32, bool) {

	want := vk.MemoryPropertyFlags(hostRequirements)
	for i := uint32(0); i < props.MemoryTypeCount && i < vk.MaxMemoryTypes; i++ {
		if deviceRequirements&(vk.MemoryPropertyFlagBits(1)<<i) != 0 {
			props.MemoryTypes[i].Deref()
			flags := props.MemoryTypes[i].PropertyFlags
			if flags&want == want {
				return i, true
			}
		}
	}
	return 0, false
}
