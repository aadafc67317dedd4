// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"cogentcore.org/sierpinski/config"
	"cogentcore.org/sierpinski/fractal"
	"cogentcore.org/sierpinski/vgpu"
)

var (
	_ Window    = (*vgpu.Window)(nil)
	_ Device    = (*vgpu.Device)(nil)
	_ SwapChain = (*vgpu.SwapChain)(nil)
	_ Model     = (*vgpu.Model)(nil)
	_ Pipeline  = (*vgpu.Pipeline)(nil)
)

// NewVulkan returns a new [App] drawing with the given vgpu objects.
func NewVulkan(cfg *config.Config, win *vgpu.Window, dev *vgpu.Device, sc *vgpu.SwapChain) (*App, error) {
	return New(cfg, win, dev, sc, &vulkanFactory{dev: dev})
}

// vulkanFactory makes vgpu models and pipelines on a device.
type vulkanFactory struct {
	dev *vgpu.Device
}

func (vf *vulkanFactory) NewModel(vertices []fractal.Vertex) (Model, error) {
	md, err := vgpu.NewModel(vf.dev, vertices)
	if err != nil {
		return nil, err
	}
	return md, nil
}

func (vf *vulkanFactory) NewPipeline(vertFile, fragFile string, pc *vgpu.PipelineConfig) (Pipeline, error) {
	pl, err := vgpu.NewPipeline(vf.dev, vertFile, fragFile, pc)
	if err != nil {
		return nil, err
	}
	return pl, nil
}
