// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package buildlog

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/structuredlog/buildlog/vfs"
)

func TestOptionsDefaults(t *testing.T) {
	var nilOpts *Options
	o := nilOpts.EnsureDefaults()
	require.Equal(t, vfs.Default, o.FS)
	require.Equal(t, DefaultLogger{}, o.Logger)
	require.Equal(t, DefaultMaxDepth, o.MaxDepth)
	require.Equal(t, DefaultCompression, o.Compression)
	require.Equal(t, ZstdCompression, o.Compression.Resolve())

	fs := vfs.NewMem()
	o = (&Options{FS: fs, MaxDepth: 7, Compression: SnappyCompression}).EnsureDefaults()
	require.Equal(t, fs, o.FS)
	require.Equal(t, 7, o.MaxDepth)
	require.Equal(t, SnappyCompression, o.Compression)
}

func TestOptionsClone(t *testing.T) {
	o := &Options{MaxDepth: 3}
	c := o.Clone()
	c.MaxDepth = 4
	require.Equal(t, 3, o.MaxDepth)
	require.NotNil(t, nilOptions().Clone())

	// Writers and readers do not modify the options they are given.
	w := NewWriter(nopWriteCloser{}, o)
	require.NoError(t, w.Close())
	require.Nil(t, o.FS)
	require.Nil(t, o.Logger)
}

func TestParseCompression(t *testing.T) {
	for _, c := range []Compression{DefaultCompression, NoCompression, SnappyCompression, S2Compression, ZstdCompression} {
		got, err := ParseCompression(c.String())
		require.NoError(t, err)
		require.Equal(t, c, got)
	}
	_, err := ParseCompression("lz4")
	require.Error(t, err)
}

func nilOptions() *Options { return nil }

type nopWriteCloser struct{}

func (nopWriteCloser) Write(p []byte) (int, error) { return len(p), nil }
func (nopWriteCloser) Close() error                { return nil }
