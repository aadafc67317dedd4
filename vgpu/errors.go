// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This is initially adapted from https://github.com/vulkan-go/asche
// Copyright © 2017 Maxim Kupriianov <max@kc.vc>, under the MIT License

package vgpu

import (
	"strconv"

	"cogentcore.org/sierpinski/base/errors"
	vk "github.com/goki/vulkan"
)

// ResultError is an error carrying a non-success [vk.Result].
type ResultError struct {
	Result vk.Result
}

func (re *ResultError) Error() string {
	s := "vulkan error: " + ResultString(re.Result)
	if err := vk.Error(re.Result); err != nil {
		s += ": " + err.Error()
	}
	return s
}

// IsError returns whether the result is anything other than [vk.Success].
func IsError(ret vk.Result) bool {
	return ret != vk.Success
}

// IsSuboptimal returns whether the result is [vk.Suboptimal], meaning
// the swap chain no longer matches the surface exactly but can
// still be used to present.
func IsSuboptimal(ret vk.Result) bool {
	return ret == vk.Suboptimal
}

// NewError returns a stack-annotated [*ResultError] for the given result,
// or nil if the result is [vk.Success].
func NewError(ret vk.Result) error {
	if ret == vk.Success {
		return nil
	}
	return errors.Wrap(&ResultError{Result: ret})
}

// ResultOf returns the [vk.Result] carried by the error, and whether there was one.
func ResultOf(err error) (vk.Result, bool) {
	var re *ResultError
	if errors.As(err, &re) {
		return re.Result, true
	}
	return vk.Success, false
}

// ResultString returns the symbolic name of common results.
func ResultString(ret vk.Result) string {
	switch ret {
	case vk.Success:
		return "VK_SUCCESS"
	case vk.NotReady:
		return "VK_NOT_READY"
	case vk.Timeout:
		return "VK_TIMEOUT"
	case vk.Incomplete:
		return "VK_INCOMPLETE"
	case vk.Suboptimal:
		return "VK_SUBOPTIMAL_KHR"
	case vk.ErrorOutOfDate:
		return "VK_ERROR_OUT_OF_DATE_KHR"
	case vk.ErrorSurfaceLost:
		return "VK_ERROR_SURFACE_LOST_KHR"
	case vk.ErrorDeviceLost:
		return "VK_ERROR_DEVICE_LOST"
	case vk.ErrorOutOfHostMemory:
		return "VK_ERROR_OUT_OF_HOST_MEMORY"
	case vk.ErrorOutOfDeviceMemory:
		return "VK_ERROR_OUT_OF_DEVICE_MEMORY"
	case vk.ErrorInitializationFailed:
		return "VK_ERROR_INITIALIZATION_FAILED"
	}
	return "VkResult(" + strconv.Itoa(int(ret)) + ")"
}
