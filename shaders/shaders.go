// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package shaders holds the GLSL sources of the shaders used to draw
// the triangle. The SPIR-V files next to them are made with glslc by
// go generate, and read at run time from the paths in the config.
package shaders

//go:generate glslc simple_shader.vert -o simple_shader.vert.spv
//go:generate glslc simple_shader.frag -o simple_shader.frag.spv
