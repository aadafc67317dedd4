// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package errors

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

func stack(skip int) []runtime.Frame {
	callers := make([]uintptr, 10)
	n := runtime.Callers(skip+1, callers)
	// Return now to avoid processing the zero Frame that would
	// otherwise be returned by frames.Next below.
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(callers[:n])
	res := []runtime.Frame{}
	for {
		frame, more := frames.Next()
		// Stop unwinding at package runtime or testing.
		if strings.Contains(frame.File, "runtime/") || strings.Contains(frame.File, "testing/") {
			break
		}
		res = append(res, frame)
		if !more {
			break
		}
	}
	return res
}

// constructors are the functions skipped by stackStrings.
var constructors = map[string]bool{"Wrap": true, "New": true, "Errorf": true}

// stackStrings returns the stack above the error constructors
// as short "file:line" strings.
func stackStrings() []string {
	frames := stack(3)
	res := make([]string, 0, len(frames))
	for _, f := range frames {
		if i := strings.LastIndex(f.Function, "/errors."); i >= 0 && constructors[f.Function[i+len("/errors."):]] {
			continue
		}
		res = append(res, fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line))
	}
	return res
}

// CallerInfo returns the file and line of the caller of the
// function that calls CallerInfo.
func CallerInfo() string {
	_, file, line, _ := runtime.Caller(2)
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}
