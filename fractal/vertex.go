// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fractal

import (
	"cogentcore.org/sierpinski/math32"
)

// Triangles returns the number of whole triangles in the vertex list.
func Triangles(vertices []Vertex) int {
	return len(vertices) / 3
}

// Triangle returns the i-th triangle of the vertex list.
func Triangle(vertices []Vertex, i int) math32.Triangle2 {
	return math32.NewTriangle2(vertices[3*i].Position, vertices[3*i+1].Position, vertices[3*i+2].Position)
}

// Area returns the total filled area of the triangles in the vertex list.
func Area(vertices []Vertex) float32 {
	var a float32
	for i := range Triangles(vertices) {
		a += Triangle(vertices, i).Area()
	}
	return a
}

// Floats flattens the vertex positions into x, y pairs in list order.
func Floats(vertices []Vertex) []float32 {
	fs := make([]float32, 0, 2*len(vertices))
	for _, v := range vertices {
		fs = append(fs, v.Position.X, v.Position.Y)
	}
	return fs
}
