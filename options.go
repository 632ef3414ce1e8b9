// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package buildlog

import (
	"github.com/structuredlog/buildlog/internal/base"
	"github.com/structuredlog/buildlog/internal/compression"
	"github.com/structuredlog/buildlog/vfs"
)

// Logger defines an interface for writing log messages.
type Logger = base.Logger

// DefaultLogger logs to the Go stdlib logs.
type DefaultLogger = base.DefaultLogger

// NoopLogger discards log messages.
type NoopLogger = base.NoopLogger

// Compression is the compression algorithm applied to an artifact's tree
// stream.
type Compression = compression.Algorithm

// The available compression algorithms. DefaultCompression is ZstdCompression.
const (
	DefaultCompression = compression.Default
	NoCompression      = compression.None
	SnappyCompression  = compression.Snappy
	S2Compression      = compression.S2
	ZstdCompression    = compression.Zstd
)

// ParseCompression returns the compression algorithm with the given name.
func ParseCompression(name string) (Compression, error) {
	return compression.Parse(name)
}

// DefaultMaxDepth is the default limit on the nesting depth of decoded trees.
const DefaultMaxDepth = 1024

// Options holds the optional parameters for writing and reading artifacts.
type Options struct {
	// Compression is the algorithm used for newly written artifacts. It is
	// ignored when reading; the algorithm is recorded in the artifact header.
	//
	// The default value is DefaultCompression.
	Compression Compression

	// FS provides the interface for file operations.
	//
	// The default value uses the underlying operating system's file system.
	FS vfs.FS

	// Logger is used to write log messages.
	//
	// The default logger uses the Go standard library log package.
	Logger Logger

	// MaxDepth bounds the nesting depth of decoded trees. Artifacts with
	// deeper trees fail to decode with a corruption error.
	//
	// The default value is DefaultMaxDepth.
	MaxDepth int
}

// EnsureDefaults ensures that the default values for all options are set if a
// valid value was not already specified. Returns the new options.
func (o *Options) EnsureDefaults() *Options {
	if o == nil {
		o = &Options{}
	}
	if o.FS == nil {
		o.FS = vfs.Default
	}
	if o.Logger == nil {
		o.Logger = DefaultLogger{}
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	return o
}

// Clone creates a shallow-copy of the supplied options.
func (o *Options) Clone() *Options {
	if o == nil {
		return &Options{}
	}
	n := *o
	return &n
}
