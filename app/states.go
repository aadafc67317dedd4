// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

//go:generate stringer -type=States

// States are the states of the frame loop.
type States int32

const (
	// Idle is between frames.
	Idle States = iota

	// Polling is processing window events and checking for close.
	Polling

	// Acquiring is waiting for the next swap chain image.
	Acquiring

	// Submitting is submitting the command buffer of the acquired image
	// and queueing the image for presentation, which the swap chain
	// does in one call.
	Submitting

	// Presenting is checking the result of presenting the image,
	// after the swap chain has queued it.
	Presenting

	// Draining is waiting for the device to finish all submitted work.
	Draining

	// Terminated is after the loop has ended and the device is idle.
	Terminated

	StatesN
)
