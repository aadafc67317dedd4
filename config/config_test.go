// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"cogentcore.org/sierpinski/base/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := New()
	assert.Equal(t, "Sierpinski Triangle", c.Title)
	assert.Equal(t, 800, c.Width)
	assert.Equal(t, 600, c.Height)
	assert.Equal(t, 6, c.Depth)
	assert.Equal(t, "shaders/simple_shader.vert.spv", c.VertexShader)
	assert.Equal(t, "shaders/simple_shader.frag.spv", c.FragmentShader)
	assert.False(t, c.Debug)
	l, err := c.Level()
	assert.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, l)
	assert.NoError(t, c.Validate())
}

func TestSetFromDefaults(t *testing.T) {
	type inner struct {
		Scale float32 `default:"0.5"`
		Count uint8   `default:"7"`
	}
	type outer struct {
		On    bool   `default:"true"`
		Name  string `default:"x"`
		Inner inner
		Other []int `default:"1"`
	}
	var o outer
	err := SetFromDefaults(&o)
	assert.ErrorIs(t, err, errors.ErrUnsupported)
	assert.True(t, o.On)
	assert.Equal(t, "x", o.Name)
	assert.Equal(t, float32(0.5), o.Inner.Scale)
	assert.Equal(t, uint8(7), o.Inner.Count)

	assert.Error(t, SetFromDefaults(o))

	type bad struct {
		N int `default:"many"`
	}
	assert.Error(t, SetFromDefaults(&bad{}))
}

func TestValidate(t *testing.T) {
	c := New()
	c.Width = 0
	c.Depth = MaxDepth + 1
	c.VertexShader = ""
	c.LogLevel = "loud"
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "window size")
	assert.Contains(t, err.Error(), "depth")
	assert.Contains(t, err.Error(), "shader paths")
	assert.Contains(t, err.Error(), "loud")

	c = New()
	c.Depth = 0
	assert.NoError(t, c.Validate())
}

func TestOpenTOML(t *testing.T) {
	file := filepath.Join(t.TempDir(), "sierpinski.toml")
	require.NoError(t, os.WriteFile(file, []byte("Width = 1024\nDepth = 3\nDebug = true\nLogLevel = \"debug\"\n"), 0666))

	c, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, 1024, c.Width)
	assert.Equal(t, 600, c.Height)
	assert.Equal(t, 3, c.Depth)
	assert.True(t, c.Debug)
	l, err := c.Level()
	assert.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, l)
}

func TestOpenYAML(t *testing.T) {
	file := filepath.Join(t.TempDir(), "sierpinski.yaml")
	require.NoError(t, os.WriteFile(file, []byte("Title: Fractal\nHeight: 480\nVertexShader: a.spv\n"), 0666))

	c := New()
	require.NoError(t, Open(c, file))
	assert.Equal(t, "Fractal", c.Title)
	assert.Equal(t, 480, c.Height)
	assert.Equal(t, "a.spv", c.VertexShader)
	assert.Equal(t, "shaders/simple_shader.frag.spv", c.FragmentShader)
}

func TestSameKeysInBothFormats(t *testing.T) {
	dir := t.TempDir()
	tf := filepath.Join(dir, "sierpinski.toml")
	yf := filepath.Join(dir, "sierpinski.yaml")
	require.NoError(t, os.WriteFile(tf, []byte("FragmentShader = \"b.spv\"\nLogLevel = \"info\"\nDepth = 2\n"), 0666))
	require.NoError(t, os.WriteFile(yf, []byte("FragmentShader: b.spv\nLogLevel: info\nDepth: 2\n"), 0666))

	ct, err := Load(tf)
	require.NoError(t, err)
	cy, err := Load(yf)
	require.NoError(t, err)
	assert.Equal(t, ct, cy)
	assert.Equal(t, "b.spv", cy.FragmentShader)
	assert.Equal(t, "info", cy.LogLevel)
	assert.Equal(t, 2, cy.Depth)
}

func TestOpenErrors(t *testing.T) {
	dir := t.TempDir()
	err := Open(New(), filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	c, err := Load(filepath.Join(dir, "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, New(), c)

	file := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(file, []byte("Width = = 3"), 0666))
	_, err = Load(file)
	assert.Error(t, err)

	file = filepath.Join(dir, "invalid.toml")
	require.NoError(t, os.WriteFile(file, []byte("Depth = -1"), 0666))
	_, err = Load(file)
	assert.Error(t, err)
}

func TestOSSupported(t *testing.T) {
	assert.NoError(t, OSSupported("linux"))
	assert.NoError(t, OSSupported("windows"))
	assert.NoError(t, OSSupported("darwin"))
	for _, goos := range []string{"freebsd", "netbsd", "openbsd"} {
		assert.NoError(t, OSSupported(goos), goos)
	}
	assert.ErrorContains(t, OSSupported("dragonfly"), "does not support")
	assert.ErrorContains(t, OSSupported("js"), "does not support")
	assert.ErrorContains(t, OSSupported("linx"), "could not find")
}
