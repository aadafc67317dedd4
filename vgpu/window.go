// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import (
	"cogentcore.org/sierpinski/base/errors"
	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/goki/vulkan"
)

// Window is a fixed-size glfw window without a client API,
// to be drawn on through a Vulkan surface.
type Window struct {

	// the glfw window
	Glfw *glfw.Window

	// the title of the window
	Title string
}

// NewWindow opens a new window of the given size and title.
// [Init] must have been called first.
func NewWindow(width, height int, title string) (*Window, error) {
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	gw, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, errors.Errorf("vgpu.NewWindow: %w", err)
	}
	return &Window{Glfw: gw, Title: title}, nil
}

// ShouldClose returns whether the user has requested the window be closed.
func (w *Window) ShouldClose() bool {
	return w.Glfw.ShouldClose()
}

// PollEvents processes pending window events.
func (w *Window) PollEvents() {
	glfw.PollEvents()
}

// Extent returns the size of the framebuffer in pixels.
func (w *Window) Extent() vk.Extent2D {
	fw, fh := w.Glfw.GetFramebufferSize()
	return vk.Extent2D{Width: uint32(fw), Height: uint32(fh)}
}

// InstanceExtensions returns the instance extensions glfw needs
// to create a surface for this window.
func (w *Window) InstanceExtensions() []string {
	return w.Glfw.GetRequiredInstanceExtensions()
}

// CreateSurface creates a Vulkan surface for the window on the given instance.
func (w *Window) CreateSurface(instance vk.Instance) (vk.Surface, error) {
	ptr, err := w.Glfw.CreateWindowSurface(instance, nil)
	if err != nil {
		return vk.NullSurface, errors.Errorf("vgpu.Window.CreateSurface: %w", err)
	}
	return vk.SurfaceFromPointer(ptr), nil
}

// Destroy closes the window.
func (w *Window) Destroy() {
	if w.Glfw == nil {
		return
	}
	w.Glfw.Destroy()
	w.Glfw = nil
}
