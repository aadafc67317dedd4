// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgpu

import "strings"

// SafeString returns the string with a terminating null byte,
// as the vulkan bindings expect for C strings.
func SafeString(s string) string {
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return s + "\x00"
}

// SafeStrings applies [SafeString] to every string in the list.
func SafeStrings(list []string) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = SafeString(s)
	}
	return out
}

// CleanString returns the string without any terminating null bytes.
func CleanString(s string) string {
	return strings.TrimRight(s, "\x00")
}

// CheckExisting returns the required names that are in the
// available list, as null-terminated strings, and the number
// of required names that are missing.
func CheckExisting(available, required []string) (found []string, missing int) {
	have := make(map[string]bool, len(available))
	for _, a := range available {
		have[CleanString(a)] = true
	}
	for _, r := range required {
		if have[CleanString(r)] {
			found = append(found, SafeString(r))
		} else {
			missing++
		}
	}
	return found, missing
}
