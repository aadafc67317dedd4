// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

// MaxFramesInFlight is the number of frames the CPU may record and
// submit ahead of the GPU.
const MaxFramesInFlight = 2

// frameRing tracks which frame slot is current, and which fence each
// swap chain image was last submitted with. F is the fence type; its
// zero value means no fence.
type frameRing[F comparable] struct {
	current   int
	maxFrames int

	// the fence of the frame each image was last submitted with
	inFlight []F
}

func newFrameRing[F comparable](maxFrames, images int) *frameRing[F] {
	return &frameRing[F]{maxFrames: maxFrames, inFlight: make([]F, images)}
}

// Current returns the index of the current frame slot.
func (fr *frameRing[F]) Current() int {
	return fr.current
}

// ImageFence returns the fence the image was last submitted with,
// and false if it has none.
func (fr *frameRing[F]) ImageFence(image uint32) (F, bool) {
	var zero F
	f := fr.inFlight[image]
	return f, f != zero
}

// SetImageFence records that the image is now in flight with the fence.
func (fr *frameRing[F]) SetImageFence(image uint32, f F) {
	fr.inFlight[image] = f
}

// Advance moves to the next frame slot, wrapping at maxFrames.
func (fr *frameRing[F]) Advance() {
	fr.current = (fr.current + 1) % fr.maxFrames
}
