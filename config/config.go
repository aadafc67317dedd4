// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config contains the configuration struct for the
// Sierpinski renderer and the functions that load it.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cogentcore.org/sierpinski/base/errors"
	"cogentcore.org/sierpinski/base/logx"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file that is loaded if it exists
// in the current directory.
const DefaultFile = "sierpinski.toml"

// MaxDepth is the largest accepted fractal depth; deeper
// triangles are smaller than a pixel at any window size.
const MaxDepth = 10

// Config is the configuration of the renderer. TOML and YAML files
// use the same keys, which are the field names.
type Config struct {

	// the title of the window
	Title string `toml:"Title" yaml:"Title" default:"Sierpinski Triangle"`

	// the width of the window in screen coordinates
	Width int `toml:"Width" yaml:"Width" default:"800"`

	// the height of the window in screen coordinates
	Height int `toml:"Height" yaml:"Height" default:"600"`

	// the recursion depth of the Sierpinski triangle
	Depth int `toml:"Depth" yaml:"Depth" default:"6"`

	// the path of the compiled SPIR-V vertex shader
	VertexShader string `toml:"VertexShader" yaml:"VertexShader" default:"shaders/simple_shader.vert.spv"`

	// the path of the compiled SPIR-V fragment shader
	FragmentShader string `toml:"FragmentShader" yaml:"FragmentShader" default:"shaders/simple_shader.frag.spv"`

	// whether to enable the Vulkan validation layers
	Debug bool `toml:"Debug" yaml:"Debug"`

	// the minimum level of log messages to show: debug, info, warn or error
	LogLevel string `toml:"LogLevel" yaml:"LogLevel" default:"warn"`
}

// Defaults sets the default values of the config from the `default:` tags.
func (c *Config) Defaults() {
	errors.Log(SetFromDefaults(c))
}

// New returns a new config with the default values.
func New() *Config {
	c := &Config{}
	c.Defaults()
	return c
}

// Level returns the parsed [slog.Level] of LogLevel.
func (c *Config) Level() (slog.Level, error) {
	return logx.LevelFromString(c.LogLevel)
}

// Validate returns an error describing every invalid field, or nil.
func (c *Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, errors.Errorf("config: window size %dx%d must be positive", c.Width, c.Height))
	}
	if c.Depth < 0 || c.Depth > MaxDepth {
		errs = append(errs, errors.Errorf("config: depth %d must be in [0, %d]", c.Depth, MaxDepth))
	}
	if c.VertexShader == "" || c.FragmentShader == "" {
		errs = append(errs, errors.New("config: shader paths must not be empty"))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Open reads the config from the given file on top of the current
// values. The format is chosen by extension: .yaml and .yml are YAML,
// anything else is TOML. A missing file returns an error that
// matches [os.ErrNotExist].
func Open(c *Config, file string) error {
	b, err := os.ReadFile(file)
	if err != nil {
		return errors.Wrap(err)
	}
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, c)
	default:
		err = toml.Unmarshal(b, c)
	}
	if err != nil {
		return errors.Errorf("config: reading %s: %w", file, err)
	}
	return nil
}

// Load returns the default config, overridden by the given file if it
// exists, and validated.
func Load(file string) (*Config, error) {
	c := New()
	if file != "" {
		err := Open(c, file)
		switch {
		case errors.Is(err, os.ErrNotExist):
			slog.Debug("config file not found, using defaults", "file", file)
		case err != nil:
			return nil, err
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
