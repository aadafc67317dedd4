// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"cogentcore.org/sierpinski/base/errors"
)

// Note: the operating systems in this file are derived from https://github.com/golang/go/blob/master/src/go/build/syslist.go

// OSSupported determines whether the given operating system can open a
// glfw window with a Vulkan surface. If it can, it returns nil. If it
// can't, it returns an error detailing the issue with the operating
// system (not found or not supported).
func OSSupported(os string) error {
	supported, ok := SupportedOS[os]
	if !ok {
		return errors.Errorf("could not find operating system %s; please check that you spelled it correctly", os)
	}
	if !supported {
		return errors.Errorf("operating system %s exists but does not support a desktop Vulkan window", os)
	}
	return nil
}

// SupportedOS is a map containing all operating systems and whether
// they support a glfw window with a Vulkan surface. These are the
// systems glfw builds for: windows, darwin, and the X11 and Wayland
// systems linux, freebsd, netbsd and openbsd.
var SupportedOS = map[string]bool{
	"aix":       false,
	"android":   false,
	"darwin":    true,
	"dragonfly": false,
	"freebsd":   true,
	"hurd":      false,
	"illumos":   false,
	"ios":       false,
	"js":        false,
	"linux":     true,
	"nacl":      false,
	"netbsd":    true,
	"openbsd":   true,
	"plan9":     false,
	"solaris":   false,
	"wasip1":    false,
	"windows":   true,
	"zos":       false,
}
