// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

// Triangle2 represents a 2D triangle made of three vertices.
type Triangle2 struct {
	A Vector2
	B Vector2
	C Vector2
}

// NewTriangle2 returns a new Triangle2 object.
func NewTriangle2(a, b, c Vector2) Triangle2 {
	return Triangle2{a, b, c}
}

// Area returns the unsigned area of the triangle.
func (t Triangle2) Area() float32 {
	return Abs(t.B.Sub(t.A).Cross(t.C.Sub(t.A))) / 2
}
