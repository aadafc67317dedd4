// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fractal generates the vertex geometry of a Sierpinski triangle.
package fractal

import (
	"cogentcore.org/sierpinski/math32"
)

// Vertex is a single 2D vertex as uploaded to the vertex buffer.
type Vertex struct {
	Position math32.Vector2
}

// Sierpinski returns the vertices of a Sierpinski triangle of the given
// recursion depth inside the triangle (left, right, top).
// Each filled triangle contributes its corners in top, right, left order,
// and sub-triangles are visited depth-first in left, right, top order.
// The central inverted triangle is never filled.
func Sierpinski(depth int, left, right, top math32.Vector2) []Vertex {
	return AppendSierpinski(make([]Vertex, 0, VertexCount(depth)), depth, left, right, top)
}

// AppendSierpinski appends the vertices of [Sierpinski] to dst and
// returns the extended slice.
func AppendSierpinski(dst []Vertex, depth int, left, right, top math32.Vector2) []Vertex {
	if depth <= 0 {
		return append(dst, Vertex{top}, Vertex{right}, Vertex{left})
	}
	leftTop := left.Midpoint(top)
	rightTop := right.Midpoint(top)
	leftRight := left.Midpoint(right)
	dst = AppendSierpinski(dst, depth-1, left, leftRight, leftTop)
	dst = AppendSierpinski(dst, depth-1, leftRight, right, rightTop)
	dst = AppendSierpinski(dst, depth-1, leftTop, rightTop, top)
	return dst
}

// VertexCount returns the number of vertices [Sierpinski] produces
// for the given depth: 3 * 3^depth, with depth clamped at 0.
func VertexCount(depth int) int {
	n := 3
	for range max(depth, 0) {
		n *= 3
	}
	return n
}
