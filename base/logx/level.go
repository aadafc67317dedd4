// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logx provides the default structured logger and the
// user verbosity level.
package logx

import (
	"log/slog"
	"strings"

	"cogentcore.org/sierpinski/base/errors"
)

// UserLevel is the verbosity [slog.Level] that the user has selected for
// what logging and printing messages should be shown. Messages at
// levels at or above this level will be shown. The default user
// verbosity level is [slog.LevelWarn].
var UserLevel = slog.LevelWarn

// LevelFromString parses a level name as written in a config file:
// debug, info, warn or error (case insensitive). An empty string is [slog.LevelWarn].
func LevelFromString(s string) (slog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return slog.LevelWarn, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelWarn, errors.Errorf("logx: invalid log level %q", s)
	}
	return l, nil
}
