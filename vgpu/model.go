// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	"unsafe"

	"cogentcore.org/sierpinski/base/errors"
	"cogentcore.org/sierpinski/fractal"
	vk "github.com/goki/vulkan"
)

// VertexStride is the size in bytes of one vertex: a vec2 of float32.
const VertexStride = uint32(unsafe.Sizeof(fractal.Vertex{}))

// Model owns a host visible vertex buffer holding a fixed vertex list,
// and records the commands to draw it.
type Model struct {
	dev *Device

	// the vertex buffer
	Buffer vk.Buffer

	// the memory bound to Buffer
	Memory vk.DeviceMemory

	vertexCount uint32
}

// NewModel uploads the vertices into a new vertex buffer on the device.
// At least one whole triangle is required.
func NewModel(dev *Device, vertices []fractal.Vertex) (*Model, error) {
	if len(vertices) < 3 {
		return nil, errors.Errorf("vgpu.NewModel: vertex count must be at least 3, got %d", len(vertices))
	}
	md := &Model{dev: dev, vertexCount: uint32(len(vertices))}
	size := int(VertexStride) * len(vertices)
	buf, err := NewBuffer(dev.Device, size, vk.BufferUsageVertexBufferBit)
	if err != nil {
		return nil, errors.Errorf("failed to create vertex buffer: %w", err)
	}
	md.Buffer = buf
	mem, err := AllocBuffMem(dev.GPU, dev.Device, buf, vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit)
	if err != nil {
		md.Destroy()
		return nil, errors.Errorf("failed to allocate vertex buffer memory: %w", err)
	}
	md.Memory = mem

	var ptr unsafe.Pointer
	if err := NewError(vk.MapMemory(dev.Device, mem, 0, vk.DeviceSize(size), 0, &ptr)); err != nil {
		md.Destroy()
		return nil, errors.Errorf("failed to map vertex buffer memory: %w", err)
	}
	vk.Memcopy(ptr, VertexBytes(vertices))
	vk.UnmapMemory(dev.Device, mem)
	return md, nil
}

// VertexBytes returns the vertex positions as tightly packed
// x, y float32 pairs, in the layout given by [AttributeDescriptions].
func VertexBytes(vertices []fractal.Vertex) []byte {
	if len(vertices) == 0 {
		return nil
	}
	fs := fractal.Floats(vertices)
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(fs))), len(fs)*4)
}

// BindingDescriptions returns the single per-vertex binding of the model.
func BindingDescriptions() []vk.VertexInputBindingDescription {
	return []vk.VertexInputBindingDescription{{
		Binding:   0,
		Stride:    VertexStride,
		InputRate: vk.VertexInputRateVertex,
	}}
}

// AttributeDescriptions returns the position attribute at location 0.
func AttributeDescriptions() []vk.VertexInputAttributeDescription {
	return []vk.VertexInputAttributeDescription{{
		Binding:  0,
		Location: 0,
		Format:   vk.FormatR32g32Sfloat,
		Offset:   uint32(unsafe.Offsetof(fractal.Vertex{}.Position)),
	}}
}

// VertexCount returns the number of vertices in the buffer.
func (md *Model) VertexCount() uint32 {
	return md.vertexCount
}

// Bind records binding the vertex buffer at binding 0.
func (md *Model) Bind(cmd vk.CommandBuffer) {
	vk.CmdBindVertexBuffers(cmd, 0, 1, []vk.Buffer{md.Buffer}, []vk.DeviceSize{0})
}

// Draw records a single non-instanced draw of all vertices.
func (md *Model) Draw(cmd vk.CommandBuffer) {
	vk.CmdDraw(cmd, md.vertexCount, 1, 0, 0)
}

// Destroy frees the buffer and its memory.
func (md *Model) Destroy() {
	if md.dev == nil {
		return
	}
	DestroyBuffer(md.dev.Device, &md.Buffer)
	FreeBuffMem(md.dev.Device, &md.Memory)
	md.dev = nil
}
