// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build darwin

package vgpu

import vk "github.com/goki/vulkan"

// PlatformDefaults adds the extensions MoltenVK needs. The loader only
// lists portability devices such as MoltenVK when the instance is
// created with the enumerate portability flag.
func PlatformDefaults(gp *GPU) {
	gp.DeviceExts = append(gp.DeviceExts, SafeString("VK_KHR_portability_subset"))
	gp.InstanceExts = append(gp.InstanceExts, SafeString(vk.KhrGetPhysicalDeviceProperties2ExtensionName))
	gp.InstanceExts = append(gp.InstanceExts, SafeString(vk.KhrPortabilityEnumerationExtensionName))
	gp.InstanceFlags |= vk.InstanceCreateFlags(vk.InstanceCreateEnumeratePortabilityBit)
}
