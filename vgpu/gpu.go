// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vgpu wraps the Vulkan objects needed to draw a fixed vertex
// list into a glfw window: instance and physical device, logical
// device, swap chain, pipeline and vertex buffer model.
package vgpu

import (
	"log/slog"

	"cogentcore.org/sierpinski/base/errors"
	vk "github.com/goki/vulkan"
)

// ValidationLayer is the validation layer enabled in debug mode.
const ValidationLayer = "VK_LAYER_KHRONOS_validation"

// GPU holds the Vulkan instance, the window surface and the
// physical device chosen to draw on it.
type GPU struct {

	// the vulkan instance
	Instance vk.Instance

	// the surface of the window
	Surface vk.Surface

	// the chosen physical device
	GPU vk.PhysicalDevice

	// the name of the chosen device
	DeviceName string

	// properties of the device memory types
	MemoryProps vk.PhysicalDeviceMemoryProperties

	// queue family indexes for graphics and presenting
	Queues QueueFamilies

	// instance extensions enabled on the instance
	InstanceExts []string

	// device extensions required of the device
	DeviceExts []string

	// validation layers enabled on the instance and device
	ValidationLayers []string

	// flags for creating the instance
	InstanceFlags vk.InstanceCreateFlags
}

// QueueFamilies holds the queue family indexes used for drawing and presenting.
type QueueFamilies struct {
	Graphics uint32
	Present  uint32

	HasGraphics bool
	HasPresent  bool
}

// IsComplete returns true if both families have been found.
func (qf *QueueFamilies) IsComplete() bool {
	return qf.HasGraphics && qf.HasPresent
}

// Unique returns the distinct family indexes, graphics first.
func (qf *QueueFamilies) Unique() []uint32 {
	if qf.Graphics == qf.Present {
		return []uint32{qf.Graphics}
	}
	return []uint32{qf.Graphics, qf.Present}
}

// NewGPU creates the instance with the extensions the window needs,
// creates the window surface and picks a physical device able to
// draw and present on it. If debug is set, the validation layer is
// enabled when it is available.
func NewGPU(win *Window, name string, debug bool) (*GPU, error) {
	gp := &GPU{
		InstanceExts: SafeStrings(win.InstanceExtensions()),
		DeviceExts:   []string{SafeString(vk.KhrSwapchainExtensionName)},
	}
	PlatformDefaults(gp)
	if debug {
		gp.ValidationLayers = gp.availableLayers([]string{ValidationLayer})
	}
	if err := gp.initInstance(name); err != nil {
		gp.Destroy()
		return nil, err
	}
	sf, err := win.CreateSurface(gp.Instance)
	if err != nil {
		gp.Destroy()
		return nil, err
	}
	gp.Surface = sf
	if err := gp.pickDevice(); err != nil {
		gp.Destroy()
		return nil, err
	}
	return gp, nil
}

func (gp *GPU) availableLayers(req []string) []string {
	var count uint32
	if IsError(vk.EnumerateInstanceLayerProperties(&count, nil)) {
		return nil
	}
	list := make([]vk.LayerProperties, count)
	if IsError(vk.EnumerateInstanceLayerProperties(&count, list)) {
		return nil
	}
	names := make([]string, 0, count)
	for _, layer := range list {
		layer.Deref()
		names = append(names, vk.ToString(layer.LayerName[:]))
	}
	act, missing := CheckExisting(names, req)
	if missing > 0 {
		slog.Warn("vgpu: validation layers requested but not available", "missing", missing)
	}
	return act
}

// instanceInfo returns the create info for the instance, with the
// extensions, layers and flags collected on gp.
func (gp *GPU) instanceInfo(name string) *vk.InstanceCreateInfo {
	return &vk.InstanceCreateInfo{
		SType: vk.StructureTypeInstanceCreateInfo,
		Flags: gp.InstanceFlags,
		PApplicationInfo: &vk.ApplicationInfo{
			SType:              vk.StructureTypeApplicationInfo,
			ApiVersion:         vk.ApiVersion10,
			ApplicationVersion: vk.MakeVersion(1, 0, 0),
			PApplicationName:   SafeString(name),
			PEngineName:        "vgpu\x00",
			EngineVersion:      vk.MakeVersion(1, 0, 0),
		},
		EnabledExtensionCount:   uint32(len(gp.InstanceExts)),
		PpEnabledExtensionNames: gp.InstanceExts,
		EnabledLayerCount:       uint32(len(gp.ValidationLayers)),
		PpEnabledLayerNames:     gp.ValidationLayers,
	}
}

func (gp *GPU) initInstance(name string) error {
	var inst vk.Instance
	err := NewError(vk.CreateInstance(gp.instanceInfo(name), nil, &inst))
	if err != nil {
		return errors.Errorf("failed to create vulkan instance: %w", err)
	}
	gp.Instance = inst
	if err := vk.InitInstance(inst); err != nil {
		return errors.Errorf("failed to init vulkan instance functions: %w", err)
	}
	slog.Debug("vgpu: created instance", "extensions", len(gp.InstanceExts), "layers", len(gp.ValidationLayers))
	return nil
}

// pickDevice selects the suitable physical device with the highest
// score, preferring discrete GPUs.
func (gp *GPU) pickDevice() error {
	var count uint32
	if err := NewError(vk.EnumeratePhysicalDevices(gp.Instance, &count, nil)); err != nil {
		return errors.Errorf("failed to get the number of physical devices: %w", err)
	}
	if count == 0 {
		return errors.New("failed to find GPUs with Vulkan support")
	}
	devs := make([]vk.PhysicalDevice, count)
	if err := NewError(vk.EnumeratePhysicalDevices(gp.Instance, &count, devs)); err != nil {
		return errors.Errorf("failed to enumerate the physical devices: %w", err)
	}

	var best vk.PhysicalDevice
	var bestScore int
	var bestQueues QueueFamilies
	for _, dev := range devs {
		var props vk.PhysicalDeviceProperties
		vk.GetPhysicalDeviceProperties(dev, &props)
		props.Deref()
		qf := gp.findQueueFamilies(dev)
		suitable := qf.IsComplete() && gp.deviceExtsSupported(dev)
		if suitable {
			sup := gp.querySwapChainSupport(dev)
			suitable = len(sup.Formats) > 0 && len(sup.PresentModes) > 0
		}
		score := DeviceScore(props.DeviceType, suitable)
		slog.Debug("vgpu: available device", "name", vk.ToString(props.DeviceName[:]), "score", score)
		if score > bestScore {
			best, bestScore, bestQueues = dev, score, qf
			gp.DeviceName = vk.ToString(props.DeviceName[:])
		}
	}
	if bestScore == 0 {
		return errors.New("failed to find a suitable physical device")
	}
	gp.GPU = best
	gp.Queues = bestQueues
	vk.GetPhysicalDeviceMemoryProperties(gp.GPU, &gp.MemoryProps)
	gp.MemoryProps.Deref()
	slog.Info("vgpu: using device", "name", gp.DeviceName)
	return nil
}

// DeviceScore returns how suitable a device of the given type is.
// Bigger is better, and zero means the device cannot be used.
func DeviceScore(typ vk.PhysicalDeviceType, suitable bool) int {
	switch {
	case !suitable:
		return 0
	case typ == vk.PhysicalDeviceTypeDiscreteGpu:
		return 1000
	case typ == vk.PhysicalDeviceTypeIntegratedGpu:
		return 100
	default:
		return 1
	}
}

func (gp *GPU) findQueueFamilies(dev vk.PhysicalDevice) QueueFamilies {
	var qf QueueFamilies
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(dev, &count, nil)
	props := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(dev, &count, props)
	for i := range props {
		props[i].Deref()
		if !qf.HasGraphics && props[i].QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 {
			qf.Graphics, qf.HasGraphics = uint32(i), true
		}
		var present vk.Bool32
		ret := vk.GetPhysicalDeviceSurfaceSupport(dev, uint32(i), gp.Surface, &present)
		if !qf.HasPresent && !IsError(ret) && present.B() {
			qf.Present, qf.HasPresent = uint32(i), true
		}
		if qf.IsComplete() {
			break
		}
	}
	return qf
}

func (gp *GPU) deviceExtsSupported(dev vk.PhysicalDevice) bool {
	var count uint32
	if IsError(vk.EnumerateDeviceExtensionProperties(dev, "", &count, nil)) {
		return false
	}
	list := make([]vk.ExtensionProperties, count)
	if IsError(vk.EnumerateDeviceExtensionProperties(dev, "", &count, list)) {
		return false
	}
	names := make([]string, 0, count)
	for _, ext := range list {
		ext.Deref()
		names = append(names, vk.ToString(ext.ExtensionName[:]))
	}
	_, missing := CheckExisting(names, gp.DeviceExts)
	return missing == 0
}

// SwapChainSupport describes what a surface supports on a device.
type SwapChainSupport struct {
	Capabilities vk.SurfaceCapabilities
	Formats      []vk.SurfaceFormat
	PresentModes []vk.PresentMode
}

func (gp *GPU) querySwapChainSupport(dev vk.PhysicalDevice) SwapChainSupport {
	var sup SwapChainSupport
	vk.GetPhysicalDeviceSurfaceCapabilities(dev, gp.Surface, &sup.Capabilities)
	sup.Capabilities.Deref()
	sup.Capabilities.CurrentExtent.Deref()
	sup.Capabilities.MinImageExtent.Deref()
	sup.Capabilities.MaxImageExtent.Deref()

	var count uint32
	vk.GetPhysicalDeviceSurfaceFormats(dev, gp.Surface, &count, nil)
	if count > 0 {
		formats := make([]vk.SurfaceFormat, count)
		vk.GetPhysicalDeviceSurfaceFormats(dev, gp.Surface, &count, formats)
		for i := range formats {
			formats[i].Deref()
		}
		sup.Formats = formats
	}

	count = 0
	vk.GetPhysicalDeviceSurfacePresentModes(dev, gp.Surface, &count, nil)
	if count > 0 {
		modes := make([]vk.PresentMode, count)
		vk.GetPhysicalDeviceSurfacePresentModes(dev, gp.Surface, &count, modes)
		sup.PresentModes = modes
	}
	return sup
}

// FindSupportedFormat returns the first of the candidate formats that
// supports the given features with the given tiling.
func (gp *GPU) FindSupportedFormat(candidates []vk.Format, tiling vk.ImageTiling, features vk.FormatFeatureFlagBits) (vk.Format, error) {
	for _, f := range candidates {
		var props vk.FormatProperties
		vk.GetPhysicalDeviceFormatProperties(gp.GPU, f, &props)
		props.Deref()
		if FormatSupports(props, tiling, features) {
			return f, nil
		}
	}
	return vk.FormatUndefined, errors.New("failed to find a supported format")
}

// FormatSupports returns whether the format properties include the
// given features for the given tiling.
func FormatSupports(props vk.FormatProperties, tiling vk.ImageTiling, features vk.FormatFeatureFlagBits) bool {
	want := vk.FormatFeatureFlags(features)
	switch tiling {
	case vk.ImageTilingLinear:
		return props.LinearTilingFeatures&want == want
	case vk.ImageTilingOptimal:
		return props.OptimalTilingFeatures&want == want
	}
	return false
}

// Destroy destroys the surface and the instance.
func (gp *GPU) Destroy() {
	if gp.Surface != vk.NullSurface {
		vk.DestroySurface(gp.Instance, gp.Surface, nil)
		gp.Surface = vk.NullSurface
	}
	if gp.Instance != nil {
		vk.DestroyInstance(gp.Instance, nil)
		gp.Instance = nil
	}
}
