//----------------------------------------------------------------------
// This file is part of gnfs.
//
// gnfs is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// gnfs is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// SPDX-License-Identifier: AGPL-3.0-or-later
//----------------------------------------------------------------------

// Package obslog is the structured-logging seam shared by every stage of
// the GNFS core. It keeps the shape of a small singleton logger (one
// process-wide base logger with SetLevel) and hands out per-stage and
// per-worker sub-loggers through Stage and Worker; it is backed by zerolog
// so every core stage emits structured, level-tagged records instead of
// free text.
package obslog

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu   sync.RWMutex
	base zerolog.Logger
)

func init() {
	var w io.Writer = os.Stderr
	if f, err := os.Stderr.Stat(); err == nil && (f.Mode()&os.ModeCharDevice) != 0 {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	}
	base = zerolog.New(w).With().Timestamp().Logger().Level(zerolog.InfoLevel)
}

// SetLevel sets the process-wide minimum log level.
func SetLevel(level zerolog.Level) {
	mu.Lock()
	defer mu.Unlock()
	base = base.Level(level)
}

// Stage returns a logger tagged with the given pipeline stage name
// (e.g. "sieve", "linalg", "sqrtfinder", "orchestrator"), matching the
// per-stage grouping spec.md §5 describes for the core's stages.
func Stage(name string) zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base.With().Str("stage", name).Logger()
}

// Worker returns a logger tagged with both a stage and a numeric worker
// identifier, for use inside the sieve's and square-root finder's
// per-worker goroutines.
func Worker(stage string, id int) zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base.With().Str("stage", stage).Int("worker_id", id).Logger()
}
