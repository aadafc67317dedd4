// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command sierpinski opens a window and draws a Sierpinski triangle
// in it with Vulkan until the window is closed.
//
// It reads its settings from sierpinski.toml in the current directory
// if that file exists.
//
// The shaders are read as SPIR-V from the paths in the config, which
// by default are the files made in the shaders directory by running
//
//	go generate ./shaders
//
// from the module root, with glslc from the Vulkan SDK on the PATH.
// Run sierpinski from the module root so that the default paths resolve.
package main

import (
	"log/slog"
	"os"
	"runtime"

	"cogentcore.org/sierpinski/app"
	"cogentcore.org/sierpinski/base/logx"
	"cogentcore.org/sierpinski/config"
	"cogentcore.org/sierpinski/vgpu"
)

func init() {
	// glfw and the swap chain must be used from the main thread
	runtime.LockOSThread()
}

func main() {
	if err := run(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func run() error {
	logx.SetDefaultLogger()
	cfg, err := config.Load(config.DefaultFile)
	if err != nil {
		return err
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logx.UserLevel = level
	logx.SetDefaultLogger()
	if err := config.OSSupported(runtime.GOOS); err != nil {
		return err
	}

	if err := vgpu.Init(); err != nil {
		return err
	}
	defer vgpu.Terminate()

	win, err := vgpu.NewWindow(cfg.Width, cfg.Height, cfg.Title)
	if err != nil {
		return err
	}
	defer win.Destroy()

	gp, err := vgpu.NewGPU(win, cfg.Title, cfg.Debug)
	if err != nil {
		return err
	}
	defer gp.Destroy()

	dev, err := vgpu.NewDevice(gp)
	if err != nil {
		return err
	}
	defer dev.Destroy()

	sc, err := vgpu.NewSwapChain(dev, win.Extent())
	if err != nil {
		return err
	}
	defer sc.Destroy()

	a, err := app.NewVulkan(cfg, win, dev, sc)
	if err != nil {
		return err
	}
	defer a.Release()
	return a.Run()
}
