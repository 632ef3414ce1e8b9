// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, slog.LevelWarn)
	l.Infof("skipped %d", 1)
	require.Empty(t, buf.String())

	l.Errorf("failed: %s", "boom")
	require.Contains(t, buf.String(), "failed: boom")

	buf.Reset()
	l.level.Set(slog.LevelInfo)
	l.Infof("unknown kind %q", "Widget")
	require.Contains(t, buf.String(), `unknown kind "Widget"`)
}
