// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/structuredlog/buildlog"
)

// slogLogger adapts a slog.Logger to buildlog.Logger.
type slogLogger struct {
	logger *slog.Logger
	level  *slog.LevelVar
}

var _ buildlog.Logger = (*slogLogger)(nil)

func newLogger(w io.Writer, level slog.Level) *slogLogger {
	l := &slogLogger{level: new(slog.LevelVar)}
	l.level.Set(level)
	l.logger = slog.New(tint.NewHandler(w, &tint.Options{
		Level:      l.level,
		TimeFormat: time.TimeOnly,
	}))
	return l
}

func (l *slogLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *slogLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *slogLogger) Fatalf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
	os.Exit(1)
}
