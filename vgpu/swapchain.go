// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This is initially adapted from https://github.com/vulkan-go/asche
// Copyright © 2017 Maxim Kupriianov <max@kc.vc>, under the MIT License

package vgpu

import (
	"log/slog"

	"cogentcore.org/sierpinski/base/errors"
	vk "github.com/goki/vulkan"
)

// DepthFormats are the depth formats tried for the depth attachment,
// in order of preference.
var DepthFormats = []vk.Format{vk.FormatD32Sfloat, vk.FormatD32SfloatS8Uint, vk.FormatD24UnormS8Uint}

// SwapChain owns the swap chain of the window surface, with a view,
// a depth buffer and a framebuffer for each of its images, the single
// render pass drawing into them, and the semaphores and fences
// pacing frames in flight.
type SwapChain struct {
	dev *Device

	// the vulkan swap chain
	Swapchain vk.Swapchain

	// format of the swap chain images
	ImageFormat vk.Format

	// format of the depth images
	DepthFormat vk.Format

	// size of the swap chain images
	extent vk.Extent2D

	images       []vk.Image
	imageViews   []vk.ImageView
	depthImages  []vk.Image
	depthMemory  []vk.DeviceMemory
	depthViews   []vk.ImageView
	framebuffers []vk.Framebuffer
	renderPass   vk.RenderPass

	imageAvailable []vk.Semaphore
	renderFinished []vk.Semaphore
	inFlight       []vk.Fence
	frames         *frameRing[vk.Fence]
}

// NewSwapChain makes the swap chain for the device surface and
// everything needed to draw into its images. windowExtent is the
// framebuffer size of the window, used when the surface leaves the
// extent up to the application.
func NewSwapChain(dev *Device, windowExtent vk.Extent2D) (*SwapChain, error) {
	sc := &SwapChain{dev: dev}
	steps := []func() error{
		func() error { return sc.createSwapChain(windowExtent) },
		sc.createImageViews,
		sc.createRenderPass,
		sc.createDepthResources,
		sc.createFramebuffers,
		sc.createSyncObjects,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			sc.Destroy()
			return nil, err
		}
	}
	slog.Info("vgpu: created swap chain", "images", len(sc.images), "width", sc.extent.Width, "height", sc.extent.Height)
	return sc, nil
}

// ImageCount returns the number of swap chain images.
func (sc *SwapChain) ImageCount() int {
	return len(sc.images)
}

// Width returns the width of the swap chain images.
func (sc *SwapChain) Width() uint32 {
	return sc.extent.Width
}

// Height returns the height of the swap chain images.
func (sc *SwapChain) Height() uint32 {
	return sc.extent.Height
}

// Extent returns the size of the swap chain images.
func (sc *SwapChain) Extent() vk.Extent2D {
	return sc.extent
}

// RenderPass returns the render pass drawing into the framebuffers.
func (sc *SwapChain) RenderPass() vk.RenderPass {
	return sc.renderPass
}

// FrameBuffer returns the framebuffer of swap chain image i.
func (sc *SwapChain) FrameBuffer(i int) vk.Framebuffer {
	return sc.framebuffers[i]
}

// AcquireNextImage waits for the current frame slot to be free and
// acquires the next image to draw into. The returned result is
// [vk.Success] or [vk.Suboptimal] when the index is usable.
func (sc *SwapChain) AcquireNextImage() (uint32, vk.Result) {
	cur := sc.frames.Current()
	dev := sc.dev.Device
	if ret := vk.WaitForFences(dev, 1, []vk.Fence{sc.inFlight[cur]}, vk.True, vk.MaxUint64); IsError(ret) {
		return 0, ret
	}
	var idx uint32
	ret := vk.AcquireNextImage(dev, sc.Swapchain, vk.MaxUint64, sc.imageAvailable[cur], vk.NullFence, &idx)
	return idx, ret
}

// SubmitCommandBuffers submits the command buffer recorded for image
// idx, and presents the image once it has been drawn. It returns the
// submit result if that fails, and the present result otherwise.
func (sc *SwapChain) SubmitCommandBuffers(cmd vk.CommandBuffer, idx uint32) vk.Result {
	cur := sc.frames.Current()
	dev := sc.dev.Device
	if fence, ok := sc.frames.ImageFence(idx); ok {
		if ret := vk.WaitForFences(dev, 1, []vk.Fence{fence}, vk.True, vk.MaxUint64); IsError(ret) {
			return ret
		}
	}
	sc.frames.SetImageFence(idx, sc.inFlight[cur])

	if ret := vk.ResetFences(dev, 1, []vk.Fence{sc.inFlight[cur]}); IsError(ret) {
		return ret
	}
	ret := vk.QueueSubmit(sc.dev.GraphicsQueue, 1, []vk.SubmitInfo{{
		SType:                vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount:   1,
		PWaitSemaphores:      []vk.Semaphore{sc.imageAvailable[cur]},
		PWaitDstStageMask:    []vk.PipelineStageFlags{vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{cmd},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{sc.renderFinished[cur]},
	}}, sc.inFlight[cur])
	if IsError(ret) {
		return ret
	}

	ret = vk.QueuePresent(sc.dev.PresentQueue, &vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{sc.renderFinished[cur]},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{sc.Swapchain},
		PImageIndices:      []uint32{idx},
	})
	sc.frames.Advance()
	return ret
}

func (sc *SwapChain) createSwapChain(windowExtent vk.Extent2D) error {
	gp := sc.dev.GPU
	sup := gp.querySwapChainSupport(gp.GPU)
	if len(sup.Formats) == 0 || len(sup.PresentModes) == 0 {
		return errors.New("vulkan error: surface has no formats or present modes")
	}
	format := chooseSurfaceFormat(sup.Formats)
	mode := choosePresentMode(sup.PresentModes)
	extent := chooseExtent(sup.Capabilities, windowExtent)
	count := imageCount(sup.Capabilities)
	slog.Debug("vgpu: swap chain settings", "format", format.Format, "presentMode", mode, "minImages", count)

	info := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          gp.Surface,
		MinImageCount:    count,
		ImageFormat:      format.Format,
		ImageColorSpace:  format.ColorSpace,
		ImageExtent:      extent,
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		PreTransform:     sup.Capabilities.CurrentTransform,
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		PresentMode:      mode,
		Clipped:          vk.True,
		OldSwapchain:     vk.NullSwapchain,
	}
	if q := gp.Queues; q.Graphics != q.Present {
		info.ImageSharingMode = vk.SharingModeConcurrent
		info.QueueFamilyIndexCount = 2
		info.PQueueFamilyIndices = q.Unique()
	} else {
		info.ImageSharingMode = vk.SharingModeExclusive
	}

	var swapchain vk.Swapchain
	if err := NewError(vk.CreateSwapchain(sc.dev.Device, &info, nil, &swapchain)); err != nil {
		return errors.Errorf("failed to create swap chain: %w", err)
	}
	sc.Swapchain = swapchain
	sc.ImageFormat = format.Format
	sc.extent = extent

	var n uint32
	if err := NewError(vk.GetSwapchainImages(sc.dev.Device, sc.Swapchain, &n, nil)); err != nil {
		return errors.Errorf("failed to get swap chain images: %w", err)
	}
	sc.images = make([]vk.Image, n)
	if err := NewError(vk.GetSwapchainImages(sc.dev.Device, sc.Swapchain, &n, sc.images)); err != nil {
		return errors.Errorf("failed to get swap chain images: %w", err)
	}
	return nil
}

func (sc *SwapChain) createImageViews() error {
	sc.imageViews = make([]vk.ImageView, len(sc.images))
	for i, img := range sc.images {
		view, err := sc.newImageView(img, sc.ImageFormat, vk.ImageAspectColorBit)
		if err != nil {
			return errors.Errorf("failed to create texture image view: %w", err)
		}
		sc.imageViews[i] = view
	}
	return nil
}

func (sc *SwapChain) newImageView(img vk.Image, format vk.Format, aspect vk.ImageAspectFlagBits) (vk.ImageView, error) {
	var view vk.ImageView
	err := NewError(vk.CreateImageView(sc.dev.Device, &vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    img,
		ViewType: vk.ImageViewType2d,
		Format:   format,
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     vk.ImageAspectFlags(aspect),
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	}, nil, &view))
	return view, err
}

func (sc *SwapChain) createRenderPass() error {
	depthFormat, err := sc.dev.GPU.FindSupportedFormat(DepthFormats, vk.ImageTilingOptimal, vk.FormatFeatureDepthStencilAttachmentBit)
	if err != nil {
		return errors.Errorf("failed to find depth format: %w", err)
	}
	sc.DepthFormat = depthFormat

	attachments := []vk.AttachmentDescription{
		{
			Format:         sc.ImageFormat,
			Samples:        vk.SampleCount1Bit,
			LoadOp:         vk.AttachmentLoadOpClear,
			StoreOp:        vk.AttachmentStoreOpStore,
			StencilLoadOp:  vk.AttachmentLoadOpDontCare,
			StencilStoreOp: vk.AttachmentStoreOpDontCare,
			InitialLayout:  vk.ImageLayoutUndefined,
			FinalLayout:    vk.ImageLayoutPresentSrc,
		},
		{
			Format:         depthFormat,
			Samples:        vk.SampleCount1Bit,
			LoadOp:         vk.AttachmentLoadOpClear,
			StoreOp:        vk.AttachmentStoreOpDontCare,
			StencilLoadOp:  vk.AttachmentLoadOpDontCare,
			StencilStoreOp: vk.AttachmentStoreOpDontCare,
			InitialLayout:  vk.ImageLayoutUndefined,
			FinalLayout:    vk.ImageLayoutDepthStencilAttachmentOptimal,
		},
	}
	colorRef := []vk.AttachmentReference{{
		Attachment: 0,
		Layout:     vk.ImageLayoutColorAttachmentOptimal,
	}}
	depthRef := &vk.AttachmentReference{
		Attachment: 1,
		Layout:     vk.ImageLayoutDepthStencilAttachmentOptimal,
	}
	subpasses := []vk.SubpassDescription{{
		PipelineBindPoint:       vk.PipelineBindPointGraphics,
		ColorAttachmentCount:    1,
		PColorAttachments:       colorRef,
		PDepthStencilAttachment: depthRef,
	}}
	stages := vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit | vk.PipelineStageEarlyFragmentTestsBit)
	dependencies := []vk.SubpassDependency{{
		SrcSubpass:    vk.SubpassExternal,
		DstSubpass:    0,
		SrcStageMask:  stages,
		SrcAccessMask: 0,
		DstStageMask:  stages,
		DstAccessMask: vk.AccessFlags(vk.AccessColorAttachmentWriteBit | vk.AccessDepthStencilAttachmentWriteBit),
	}}

	var rp vk.RenderPass
	err = NewError(vk.CreateRenderPass(sc.dev.Device, &vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		SubpassCount:    uint32(len(subpasses)),
		PSubpasses:      subpasses,
		DependencyCount: uint32(len(dependencies)),
		PDependencies:   dependencies,
	}, nil, &rp))
	if err != nil {
		return errors.Errorf("failed to create render pass: %w", err)
	}
	sc.renderPass = rp
	return nil
}

func (sc *SwapChain) createDepthResources() error {
	n := len(sc.images)
	sc.depthImages = make([]vk.Image, n)
	sc.depthMemory = make([]vk.DeviceMemory, n)
	sc.depthViews = make([]vk.ImageView, n)
	for i := range n {
		var img vk.Image
		err := NewError(vk.CreateImage(sc.dev.Device, &vk.ImageCreateInfo{
			SType:     vk.StructureTypeImageCreateInfo,
			ImageType: vk.ImageType2d,
			Format:    sc.DepthFormat,
			Extent: vk.Extent3D{
				Width:  sc.extent.Width,
				Height: sc.extent.Height,
				Depth:  1,
			},
			MipLevels:     1,
			ArrayLayers:   1,
			Samples:       vk.SampleCount1Bit,
			Tiling:        vk.ImageTilingOptimal,
			Usage:         vk.ImageUsageFlags(vk.ImageUsageDepthStencilAttachmentBit),
			SharingMode:   vk.SharingModeExclusive,
			InitialLayout: vk.ImageLayoutUndefined,
		}, nil, &img))
		if err != nil {
			return errors.Errorf("failed to create depth image: %w", err)
		}
		sc.depthImages[i] = img
		mem, err := AllocImageMem(sc.dev.GPU, sc.dev.Device, img, vk.MemoryPropertyDeviceLocalBit)
		if err != nil {
			return errors.Errorf("failed to allocate depth image memory: %w", err)
		}
		sc.depthMemory[i] = mem
		view, err := sc.newImageView(img, sc.DepthFormat, vk.ImageAspectDepthBit)
		if err != nil {
			return errors.Errorf("failed to create depth image view: %w", err)
		}
		sc.depthViews[i] = view
	}
	return nil
}

func (sc *SwapChain) createFramebuffers() error {
	sc.framebuffers = make([]vk.Framebuffer, len(sc.images))
	for i := range sc.images {
		ivs := []vk.ImageView{sc.imageViews[i], sc.depthViews[i]}
		var fb vk.Framebuffer
		err := NewError(vk.CreateFramebuffer(sc.dev.Device, &vk.FramebufferCreateInfo{
			SType:           vk.StructureTypeFramebufferCreateInfo,
			RenderPass:      sc.renderPass,
			AttachmentCount: uint32(len(ivs)),
			PAttachments:    ivs,
			Width:           sc.extent.Width,
			Height:          sc.extent.Height,
			Layers:          1,
		}, nil, &fb))
		if err != nil {
			return errors.Errorf("failed to create framebuffer: %w", err)
		}
		sc.framebuffers[i] = fb
	}
	return nil
}

func (sc *SwapChain) createSyncObjects() error {
	dev := sc.dev.Device
	sc.imageAvailable = make([]vk.Semaphore, MaxFramesInFlight)
	sc.renderFinished = make([]vk.Semaphore, MaxFramesInFlight)
	sc.inFlight = make([]vk.Fence, MaxFramesInFlight)
	sc.frames = newFrameRing[vk.Fence](MaxFramesInFlight, len(sc.images))
	semInfo := &vk.SemaphoreCreateInfo{SType: vk.StructureTypeSemaphoreCreateInfo}
	fenceInfo := &vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
		Flags: vk.FenceCreateFlags(vk.FenceCreateSignaledBit),
	}
	for i := range MaxFramesInFlight {
		err := errors.Join(
			NewError(vk.CreateSemaphore(dev, semInfo, nil, &sc.imageAvailable[i])),
			NewError(vk.CreateSemaphore(dev, semInfo, nil, &sc.renderFinished[i])),
			NewError(vk.CreateFence(dev, fenceInfo, nil, &sc.inFlight[i])),
		)
		if err != nil {
			return errors.Errorf("failed to create synchronization objects for a frame: %w", err)
		}
	}
	return nil
}

// Destroy destroys everything made by [NewSwapChain]. The device
// must be idle.
func (sc *SwapChain) Destroy() {
	if sc.dev == nil {
		return
	}
	dev := sc.dev.Device
	for i := range sc.inFlight {
		if sc.imageAvailable[i] != nil {
			vk.DestroySemaphore(dev, sc.imageAvailable[i], nil)
		}
		if sc.renderFinished[i] != nil {
			vk.DestroySemaphore(dev, sc.renderFinished[i], nil)
		}
		if sc.inFlight[i] != vk.NullFence {
			vk.DestroyFence(dev, sc.inFlight[i], nil)
		}
	}
	sc.imageAvailable, sc.renderFinished, sc.inFlight, sc.frames = nil, nil, nil, nil
	for _, fb := range sc.framebuffers {
		if fb != vk.NullFramebuffer {
			vk.DestroyFramebuffer(dev, fb, nil)
		}
	}
	sc.framebuffers = nil
	for i := range sc.depthImages {
		if sc.depthViews[i] != vk.NullImageView {
			vk.DestroyImageView(dev, sc.depthViews[i], nil)
		}
		if sc.depthImages[i] != vk.NullImage {
			vk.DestroyImage(dev, sc.depthImages[i], nil)
		}
		FreeBuffMem(dev, &sc.depthMemory[i])
	}
	sc.depthImages, sc.depthMemory, sc.depthViews = nil, nil, nil
	if sc.renderPass != vk.NullRenderPass {
		vk.DestroyRenderPass(dev, sc.renderPass, nil)
		sc.renderPass = vk.NullRenderPass
	}
	for _, view := range sc.imageViews {
		if view != vk.NullImageView {
			vk.DestroyImageView(dev, view, nil)
		}
	}
	sc.imageViews = nil
	if sc.Swapchain != vk.NullSwapchain {
		vk.DestroySwapchain(dev, sc.Swapchain, nil)
		sc.Swapchain = vk.NullSwapchain
	}
	sc.images = nil
	sc.dev = nil
}

// chooseSurfaceFormat returns B8G8R8A8_SRGB with the sRGB nonlinear
// color space if available, and the first format otherwise.
func chooseSurfaceFormat(formats []vk.SurfaceFormat) vk.SurfaceFormat {
	for _, f := range formats {
		if f.Format == vk.FormatB8g8r8a8Srgb && f.ColorSpace == vk.ColorSpaceSrgbNonlinear {
			return f
		}
	}
	return formats[0]
}

// choosePresentMode returns mailbox if available, and FIFO otherwise,
// which every surface supports.
func choosePresentMode(modes []vk.PresentMode) vk.PresentMode {
	for _, m := range modes {
		if m == vk.PresentModeMailbox {
			slog.Debug("vgpu: present mode: mailbox")
			return m
		}
	}
	slog.Debug("vgpu: present mode: v-sync")
	return vk.PresentModeFifo
}

// chooseExtent returns the current extent of the surface, or the
// window extent clamped to the surface limits when the surface lets
// the swap chain decide.
func chooseExtent(caps vk.SurfaceCapabilities, window vk.Extent2D) vk.Extent2D {
	if caps.CurrentExtent.Width != vk.MaxUint32 {
		return caps.CurrentExtent
	}
	return vk.Extent2D{
		Width:  clamp(window.Width, caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
		Height: clamp(window.Height, caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
	}
}

// imageCount returns one more than the minimum image count, limited
// by the maximum when the surface has one.
func imageCount(caps vk.SurfaceCapabilities) uint32 {
	n := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && n > caps.MaxImageCount {
		n = caps.MaxImageCount
	}
	return n
}

func clamp(v, lo, hi uint32) uint32 {
	return max(lo, min(v, hi))
}
