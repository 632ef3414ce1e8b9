// Copyright 2019 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package tool implements the introspection commands of the buildlog binary.
package tool

import (
	"github.com/spf13/cobra"
	"github.com/structuredlog/buildlog"
	"github.com/structuredlog/buildlog/vfs"
)

// T is the container for all of the introspection tools.
type T struct {
	Commands []*cobra.Command
	opts     buildlog.Options

	dump    *dumpT
	hex     *hexT
	stats   *statsT
	convert *convertT
}

// An Option configures a T.
type Option func(*T)

// FS sets the file system used to read and write artifacts.
func FS(fs vfs.FS) Option {
	return func(t *T) { t.opts.FS = fs }
}

// Logger sets the logger passed to artifact readers and writers.
func Logger(l buildlog.Logger) Option {
	return func(t *T) { t.opts.Logger = l }
}

// MaxDepth sets the nesting depth limit applied when reading artifacts.
func MaxDepth(n int) Option {
	return func(t *T) { t.opts.MaxDepth = n }
}

// New creates a new introspection tool.
func New(opts ...Option) *T {
	t := &T{}
	for _, o := range opts {
		o(t)
	}
	t.opts.EnsureDefaults()

	t.dump = newDump(&t.opts)
	t.hex = newHex(&t.opts)
	t.stats = newStats(&t.opts)
	t.convert = newConvert(&t.opts)
	t.Commands = []*cobra.Command{
		t.dump.Root,
		t.hex.Root,
		t.stats.Root,
		t.convert.Root,
	}
	return t
}
