// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build release

package errors

// Debug is whether to include the stack trace in error strings.
var Debug = false
