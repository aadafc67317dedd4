// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !darwin

package vgpu

// PlatformDefaults adds platform specific extensions; none are needed here.
func PlatformDefaults(gp *GPU) {}
