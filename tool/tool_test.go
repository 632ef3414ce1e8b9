// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package tool

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"github.com/structuredlog/buildlog"
	"github.com/structuredlog/buildlog/vfs"
)

func runTool(t *testing.T, fs vfs.FS, args ...string) string {
	t.Helper()
	return runToolWith(t, []Option{FS(fs)}, args...)
}

func runToolWith(t *testing.T, opts []Option, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	c := &cobra.Command{}
	opts = append(opts, Logger(buildlog.NoopLogger{}))
	c.AddCommand(New(opts...).Commands...)
	c.SetArgs(args)
	c.SetOutput(&buf)
	if err := c.Execute(); err != nil {
		return err.Error()
	}
	return buf.String()
}

func writeFixture(t *testing.T, fs vfs.FS) {
	t.Helper()
	child := &buildlog.NamedNode{Name: buildlog.Str("n")}
	root := &buildlog.Folder{}
	root.AddChild(child)
	require.NoError(t, buildlog.WriteFile("small.buildlog", root,
		&buildlog.Options{FS: fs, Compression: buildlog.NoCompression}))
}

func TestDump(t *testing.T) {
	fs := vfs.NewMem()
	writeFixture(t, fs)

	require.Equal(t, "Folder IsLowRelevance=\"false\"\n    NamedNode Name=\"n\"\n",
		runTool(t, fs, "dump", "small.buildlog"))
	require.Equal(t, "Folder IsLowRelevance=\"false\"\r\n    NamedNode Name=\"n\"\r\n",
		runTool(t, fs, "dump", "--crlf", "small.buildlog"))
	require.Contains(t, runTool(t, fs, "dump", "missing.buildlog"), "missing.buildlog")
}

func TestHex(t *testing.T) {
	fs := vfs.NewMem()
	writeFixture(t, fs)

	out := runTool(t, fs, "hex", "small.buildlog")
	for _, s := range []string{
		"0-4: x 424c4f47 # magic \"BLOG\"\n",
		"4-5: x 01       # format version 1\n",
		"5-6: x 01       # compression none\n",
		"payload: 37 bytes, none\n",
		"# uvarint(6): kind tag length\n",
		"# Folder\n",
		"# varint(5): IsLowRelevance length\n",
		"# IsLowRelevance: \"false\"\n",
		"# varint(-2): end of attributes\n",
		"# uvarint(1): children\n",
		"#   NamedNode\n",
		"#   Name: \"n\"\n",
		"# uvarint(0):   children\n",
		"# checksum ",
	} {
		require.Contains(t, out, s)
	}
	require.NotContains(t, out, "computed")
	require.NotContains(t, out, "unparsed")
}

func TestHexMaxDepth(t *testing.T) {
	fs := vfs.NewMem()
	var root buildlog.Node = &buildlog.Folder{}
	leaf := root
	for i := 0; i < 4; i++ {
		n := &buildlog.Folder{}
		leaf.AddChild(n)
		leaf = n
	}
	require.NoError(t, buildlog.WriteFile("deep.buildlog", root,
		&buildlog.Options{FS: fs, Compression: buildlog.NoCompression}))

	out := runToolWith(t, []Option{FS(fs), MaxDepth(3)}, "hex", "deep.buildlog")
	require.Contains(t, out, "#     Folder\n")
	require.NotContains(t, out, "#       Folder\n")
	require.Contains(t, out, "tree exceeds maximum depth 3")
	require.Contains(t, out, "unparsed")

	out = runToolWith(t, []Option{FS(fs), MaxDepth(5)}, "hex", "deep.buildlog")
	require.Contains(t, out, "#         Folder\n")
	require.NotContains(t, out, "maximum depth")
}

func TestStats(t *testing.T) {
	fs := vfs.NewMem()
	writeFixture(t, fs)

	out := runTool(t, fs, "stats", "small.buildlog")
	for _, s := range []string{
		"small.buildlog\n",
		"Folder",
		"NamedNode",
		"50.0%",
		"depth: 2\n",
		"nodes: 2 (unknown: 0)\n",
		"strings: 2 distinct\n",
	} {
		require.Contains(t, out, s)
	}
}

func TestConvert(t *testing.T) {
	fs := vfs.NewMem()
	writeFixture(t, fs)
	expected, err := buildlog.ReadFile("small.buildlog", &buildlog.Options{FS: fs})
	require.NoError(t, err)

	compressionOf := func(name string) buildlog.Compression {
		data, err := fs.Bytes(name)
		require.NoError(t, err)
		return buildlog.Compression(data[5])
	}

	out := runTool(t, fs, "convert", "small.buildlog", "same.buildlog")
	require.Contains(t, out, "same.buildlog: 2 nodes")
	require.Equal(t, buildlog.NoCompression, compressionOf("same.buildlog"))

	out = runTool(t, fs, "convert", "--compression=snappy", "small.buildlog", "snappy.buildlog")
	require.Contains(t, out, "(snappy)")
	require.Equal(t, buildlog.SnappyCompression, compressionOf("snappy.buildlog"))

	f, err := fs.Create("opts.yaml")
	require.NoError(t, err)
	_, err = f.Write([]byte("compression: s2\nmax_depth: 8\n"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	runTool(t, fs, "convert", "--options=opts.yaml", "snappy.buildlog", "s2.buildlog")
	require.Equal(t, buildlog.S2Compression, compressionOf("s2.buildlog"))
	runTool(t, fs, "convert", "--options=opts.yaml", "--compression=zstd", "s2.buildlog", "zstd.buildlog")
	require.Equal(t, buildlog.ZstdCompression, compressionOf("zstd.buildlog"))

	root, err := buildlog.ReadFile("zstd.buildlog", &buildlog.Options{FS: fs})
	require.NoError(t, err)
	require.Equal(t, expected, root)

	require.Contains(t, runTool(t, fs, "convert", "--compression=lz4", "small.buildlog", "x.buildlog"),
		"unknown compression algorithm \"lz4\"")
}
