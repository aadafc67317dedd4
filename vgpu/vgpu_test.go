// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"unsafe"

	"cogentcore.org/sierpinski/base/errors"
	"cogentcore.org/sierpinski/fractal"
	"cogentcore.org/sierpinski/math32"
	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFence returns a distinct non-nil fence handle that is never
// passed to vulkan.
func fakeFence(n int) vk.Fence {
	var f vk.Fence
	return vk.Fence(unsafe.Add(unsafe.Pointer(f), n))
}

func TestFrameRingAdvance(t *testing.T) {
	fr := newFrameRing[int](MaxFramesInFlight, 3)
	seen := []int{}
	for range 5 {
		seen = append(seen, fr.Current())
		fr.Advance()
	}
	assert.Equal(t, []int{0, 1, 0, 1, 0}, seen)
}

func TestFrameRingImageFences(t *testing.T) {
	fr := newFrameRing[vk.Fence](MaxFramesInFlight, 3)
	a, b := fakeFence(8), fakeFence(16)

	_, ok := fr.ImageFence(0)
	assert.False(t, ok, "no image is in flight at first")

	fr.SetImageFence(0, a)
	fr.SetImageFence(2, b)
	f, ok := fr.ImageFence(0)
	assert.True(t, ok)
	assert.Equal(t, a, f)
	f, ok = fr.ImageFence(2)
	assert.True(t, ok)
	assert.Equal(t, b, f)
	_, ok = fr.ImageFence(1)
	assert.False(t, ok)

	fr.SetImageFence(0, b)
	f, _ = fr.ImageFence(0)
	assert.Equal(t, b, f)
}

// TestFrameRingSubmitOrder replays the fence bookkeeping of
// SubmitCommandBuffers and checks that an image is always waited on
// with the fence of the frame that last used it.
func TestFrameRingSubmitOrder(t *testing.T) {
	fences := []vk.Fence{fakeFence(8), fakeFence(16)}
	fr := newFrameRing[vk.Fence](MaxFramesInFlight, 3)
	last := map[uint32]vk.Fence{}
	for i := range 12 {
		idx := uint32(i % 3)
		f, ok := fr.ImageFence(idx)
		if prev, had := last[idx]; had {
			require.True(t, ok)
			assert.Equal(t, prev, f)
		} else {
			assert.False(t, ok)
		}
		cur := fences[fr.Current()]
		fr.SetImageFence(idx, cur)
		last[idx] = cur
		fr.Advance()
	}
}

func TestChooseSurfaceFormat(t *testing.T) {
	want := vk.SurfaceFormat{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear}
	other := vk.SurfaceFormat{Format: vk.FormatR8g8b8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear}

	assert.Equal(t, want, chooseSurfaceFormat([]vk.SurfaceFormat{other, want}))
	assert.Equal(t, other, chooseSurfaceFormat([]vk.SurfaceFormat{other}))
}

func TestChoosePresentMode(t *testing.T) {
	assert.Equal(t, vk.PresentModeMailbox, choosePresentMode([]vk.PresentMode{vk.PresentModeFifo, vk.PresentModeMailbox}))
	assert.Equal(t, vk.PresentModeFifo, choosePresentMode([]vk.PresentMode{vk.PresentModeImmediate, vk.PresentModeFifo}))
}

func TestChooseExtent(t *testing.T) {
	caps := vk.SurfaceCapabilities{
		CurrentExtent:  vk.Extent2D{Width: 640, Height: 480},
		MinImageExtent: vk.Extent2D{Width: 1, Height: 1},
		MaxImageExtent: vk.Extent2D{Width: 1000, Height: 1000},
	}
	assert.Equal(t, vk.Extent2D{Width: 640, Height: 480}, chooseExtent(caps, vk.Extent2D{Width: 800, Height: 600}))

	caps.CurrentExtent = vk.Extent2D{Width: vk.MaxUint32, Height: vk.MaxUint32}
	assert.Equal(t, vk.Extent2D{Width: 800, Height: 600}, chooseExtent(caps, vk.Extent2D{Width: 800, Height: 600}))
	assert.Equal(t, vk.Extent2D{Width: 1000, Height: 1}, chooseExtent(caps, vk.Extent2D{Width: 4000, Height: 0}))
}

func TestImageCount(t *testing.T) {
	assert.Equal(t, uint32(3), imageCount(vk.SurfaceCapabilities{MinImageCount: 2, MaxImageCount: 0}))
	assert.Equal(t, uint32(3), imageCount(vk.SurfaceCapabilities{MinImageCount: 2, MaxImageCount: 8}))
	assert.Equal(t, uint32(2), imageCount(vk.SurfaceCapabilities{MinImageCount: 2, MaxImageCount: 2}))
}

func TestDeviceScore(t *testing.T) {
	assert.Equal(t, 0, DeviceScore(vk.PhysicalDeviceTypeDiscreteGpu, false))
	assert.Greater(t, DeviceScore(vk.PhysicalDeviceTypeDiscreteGpu, true), DeviceScore(vk.PhysicalDeviceTypeIntegratedGpu, true))
	assert.Greater(t, DeviceScore(vk.PhysicalDeviceTypeIntegratedGpu, true), DeviceScore(vk.PhysicalDeviceTypeCpu, true))
	assert.Greater(t, DeviceScore(vk.PhysicalDeviceTypeCpu, true), 0)
}

func TestQueueFamilies(t *testing.T) {
	qf := QueueFamilies{Graphics: 1, HasGraphics: true}
	assert.False(t, qf.IsComplete())
	qf.Present, qf.HasPresent = 1, true
	assert.True(t, qf.IsComplete())
	assert.Equal(t, []uint32{1}, qf.Unique())
	qf.Present = 2
	assert.Equal(t, []uint32{1, 2}, qf.Unique())
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "a\x00", SafeString("a"))
	assert.Equal(t, "a\x00", SafeString("a\x00"))
	assert.Equal(t, "a", CleanString("a\x00\x00"))
	assert.Equal(t, []string{"a\x00", "b\x00"}, SafeStrings([]string{"a", "b\x00"}))

	found, missing := CheckExisting([]string{"x\x00", "y"}, []string{"y", "z", "x"})
	assert.Equal(t, []string{"y\x00", "x\x00"}, found)
	assert.Equal(t, 1, missing)
}

func TestResultErrors(t *testing.T) {
	assert.NoError(t, NewError(vk.Success))
	assert.False(t, IsError(vk.Success))
	assert.True(t, IsError(vk.Suboptimal))
	assert.True(t, IsSuboptimal(vk.Suboptimal))
	assert.False(t, IsSuboptimal(vk.ErrorOutOfDate))

	err := NewError(vk.ErrorDeviceLost)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VK_ERROR_DEVICE_LOST")
	ret, ok := ResultOf(errors.Errorf("present: %w", err))
	assert.True(t, ok)
	assert.Equal(t, vk.ErrorDeviceLost, ret)

	_, ok = ResultOf(errors.New("other"))
	assert.False(t, ok)
	assert.Equal(t, "VkResult(-12345)", ResultString(vk.Result(-12345)))
}

func TestSPIRVWords(t *testing.T) {
	code := binary.LittleEndian.AppendUint32(nil, SPIRVMagic)
	code = binary.LittleEndian.AppendUint32(code, 0x00010000)
	words, err := SPIRVWords(code)
	require.NoError(t, err)
	assert.Equal(t, []uint32{SPIRVMagic, 0x00010000}, words)

	_, err = SPIRVWords(code[:6])
	assert.Error(t, err)
	_, err = SPIRVWords(nil)
	assert.Error(t, err)
	_, err = SPIRVWords([]byte{1, 2, 3, 4})
	assert.ErrorContains(t, err, "magic")
}

func TestOpenShaderMissingFile(t *testing.T) {
	_, err := OpenShader(nil, VertexShader, filepath.Join(t.TempDir(), "none.spv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.ErrorContains(t, err, "go generate ./shaders")
}

func TestShaderTypes(t *testing.T) {
	assert.Equal(t, "FragmentShader", FragmentShader.String())
	assert.Equal(t, vk.ShaderStageVertexBit, ShaderStageFlags[VertexShader])
	sh := &Shader{Type: FragmentShader}
	info := sh.StageInfo()
	assert.Equal(t, vk.ShaderStageFragmentBit, info.Stage)
	assert.Equal(t, "main\x00", info.PName)
}

func TestFindRequiredMemoryType(t *testing.T) {
	var props vk.PhysicalDeviceMemoryProperties
	props.MemoryTypeCount = 3
	props.MemoryTypes[0].PropertyFlags = vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit)
	props.MemoryTypes[1].PropertyFlags = vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit)
	props.MemoryTypes[2].PropertyFlags = vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit)
	host := vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit

	idx, ok := FindRequiredMemoryType(props, 0b111, host)
	assert.True(t, ok)
	assert.Equal(t, uint32(2), idx)

	idx, ok = FindRequiredMemoryType(props, 0b111, vk.MemoryPropertyDeviceLocalBit)
	assert.True(t, ok)
	assert.Equal(t, uint32(0), idx)

	_, ok = FindRequiredMemoryType(props, 0b011, host)
	assert.False(t, ok, "type 2 is not allowed by the device")
}

func TestVertexLayout(t *testing.T) {
	assert.Equal(t, uint32(8), VertexStride)
	vs := []fractal.Vertex{
		{Position: math32.Vec2(1, 2)},
		{Position: math32.Vec2(3, 4)},
	}
	b := VertexBytes(vs)
	require.Len(t, b, 16)
	assert.Equal(t, float32(3), math.Float32frombits(binary.LittleEndian.Uint32(b[8:])))
	assert.Nil(t, VertexBytes(nil))

	bind := BindingDescriptions()
	require.Len(t, bind, 1)
	assert.Equal(t, uint32(0), bind[0].Binding)
	assert.Equal(t, VertexStride, bind[0].Stride)
	assert.Equal(t, vk.VertexInputRateVertex, bind[0].InputRate)

	attr := AttributeDescriptions()
	require.Len(t, attr, 1)
	assert.Equal(t, uint32(0), attr[0].Location)
	assert.Equal(t, vk.FormatR32g32Sfloat, attr[0].Format)
	assert.Equal(t, uint32(0), attr[0].Offset)
}

func TestNewModelTooFewVertices(t *testing.T) {
	_, err := NewModel(&Device{}, make([]fractal.Vertex, 2))
	assert.ErrorContains(t, err, "at least 3")
}

func TestDefaultPipelineConfig(t *testing.T) {
	pc := DefaultPipelineConfig(800, 600)
	assert.Equal(t, float32(800), pc.Viewport.Width)
	assert.Equal(t, float32(600), pc.Viewport.Height)
	assert.Equal(t, float32(1), pc.Viewport.MaxDepth)
	assert.Equal(t, vk.Extent2D{Width: 800, Height: 600}, pc.Scissor.Extent)
	assert.Equal(t, vk.PrimitiveTopologyTriangleList, pc.InputAssembly.Topology)
	assert.Equal(t, vk.Bool32(vk.False), pc.InputAssembly.PrimitiveRestartEnable)
	assert.Equal(t, vk.PolygonModeFill, pc.Rasterization.PolygonMode)
	assert.Equal(t, vk.CullModeFlags(vk.CullModeNone), pc.Rasterization.CullMode)
	assert.Equal(t, vk.FrontFaceClockwise, pc.Rasterization.FrontFace)
	assert.Equal(t, vk.SampleCount1Bit, pc.Multisample.RasterizationSamples)
	assert.Equal(t, vk.Bool32(vk.False), pc.ColorBlend.BlendEnable)
	assert.Equal(t, vk.Bool32(vk.True), pc.DepthStencil.DepthTestEnable)
	assert.Equal(t, vk.CompareOpLess, pc.DepthStencil.DepthCompareOp)

	assert.ErrorContains(t, pc.Validate(), "pipeline layout")
	var layout vk.PipelineLayout
	pc.Layout = vk.PipelineLayout(unsafe.Add(unsafe.Pointer(layout), 100))
	assert.ErrorContains(t, pc.Validate(), "render pass")
	var rp vk.RenderPass
	pc.RenderPass = vk.RenderPass(unsafe.Add(unsafe.Pointer(rp), 100))
	assert.NoError(t, pc.Validate())
}

func TestInstanceInfo(t *testing.T) {
	gp := &GPU{
		InstanceExts:     SafeStrings([]string{"VK_KHR_surface"}),
		ValidationLayers: SafeStrings([]string{ValidationLayer}),
	}
	PlatformDefaults(gp)
	info := gp.instanceInfo("sierpinski")
	assert.Equal(t, gp.InstanceFlags, info.Flags)
	assert.Equal(t, uint32(len(gp.InstanceExts)), info.EnabledExtensionCount)
	assert.Equal(t, gp.InstanceExts, info.PpEnabledExtensionNames)
	assert.Equal(t, uint32(1), info.EnabledLayerCount)
	assert.Equal(t, "sierpinski\x00", info.PApplicationInfo.PApplicationName)

	portability := vk.InstanceCreateFlags(vk.InstanceCreateEnumeratePortabilityBit)
	if runtime.GOOS == "darwin" {
		assert.Contains(t, gp.InstanceExts, SafeString(vk.KhrPortabilityEnumerationExtensionName))
		assert.Equal(t, portability, info.Flags&portability, "portability devices are only listed with the flag")
	} else {
		assert.Zero(t, info.Flags)
	}
}

func TestDestroyPartialGPU(t *testing.T) {
	// NewGPU destroys what it made so far when a later step fails,
	// which can be before the instance or the surface exist.
	gp := &GPU{}
	assert.NotPanics(t, gp.Destroy)
	assert.Nil(t, gp.Instance)
	assert.Equal(t, vk.NullSurface, gp.Surface)
}

func TestDevice(t *testing.T) {
	if os.Getenv("VGPU_TEST_DEVICE") == "" {
		t.Skip("Need software GPU on CI")
	}
	require.NoError(t, Init())
	defer Terminate()
	win, err := NewWindow(64, 64, "vgpu test")
	require.NoError(t, err)
	defer win.Destroy()
	gp, err := NewGPU(win, "vgpu test", false)
	require.NoError(t, err)
	defer gp.Destroy()
	dev, err := NewDevice(gp)
	require.NoError(t, err)
	defer dev.Destroy()

	sc, err := NewSwapChain(dev, win.Extent())
	require.NoError(t, err)
	defer sc.Destroy()
	assert.Greater(t, sc.ImageCount(), 0)

	cmds, err := dev.AllocateCommandBuffers(sc.ImageCount())
	require.NoError(t, err)
	assert.Len(t, cmds, sc.ImageCount())
	defer dev.FreeCommandBuffers(cmds)
	for i, cmd := range cmds {
		require.NoError(t, dev.BeginCommandBuffer(cmd))
		dev.BeginRenderPass(cmd, &RenderPassBegin{
			RenderPass:  sc.RenderPass(),
			Framebuffer: sc.FrameBuffer(i),
			Extent:      sc.Extent(),
			ClearColor:  [4]float32{0, 0, 0, 1},
			ClearDepth:  1,
		})
		dev.EndRenderPass(cmd)
		require.NoError(t, dev.EndCommandBuffer(cmd))
	}

	// more frames than are in flight, so that each frame fence is
	// waited on and reset at least once
	for range 2*MaxFramesInFlight + 1 {
		idx, ret := sc.AcquireNextImage()
		require.True(t, ret == vk.Success || IsSuboptimal(ret), ResultString(ret))
		require.Less(t, int(idx), len(cmds))
		ret = sc.SubmitCommandBuffers(cmds[idx], idx)
		require.True(t, ret == vk.Success || IsSuboptimal(ret), ResultString(ret))
	}
	assert.NoError(t, dev.WaitIdle())
}
