// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package buildlog

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/cockroachdb/crlib/testutils/leaktest"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/oserror"
	"github.com/stretchr/testify/require"
	"github.com/structuredlog/buildlog/internal/base"
	"github.com/structuredlog/buildlog/vfs"
	"github.com/structuredlog/buildlog/vfs/errorfs"
)

func testOptions(fs vfs.FS, c Compression) *Options {
	return &Options{FS: fs, Compression: c, Logger: NoopLogger{}}
}

func writeArtifact(t *testing.T, root Node, c Compression) []byte {
	t.Helper()
	fs := vfs.NewMem()
	require.NoError(t, WriteFile("a.buildlog", root, testOptions(fs, c)))
	data, err := fs.Bytes("a.buildlog")
	require.NoError(t, err)
	return data
}

func readArtifact(data []byte, opts *Options) (Node, error) {
	r := NewReader(io.NopCloser(bytes.NewReader(data)), opts)
	root, err := r.ReadRoot()
	return root, errors.CombineErrors(err, r.Close())
}

func TestWriteReadFile(t *testing.T) {
	for _, c := range []Compression{DefaultCompression, NoCompression, SnappyCompression, S2Compression, ZstdCompression} {
		t.Run(c.String(), func(t *testing.T) {
			fs := vfs.NewMem()
			opts := testOptions(fs, c)
			require.NoError(t, WriteFile("build.buildlog", scenarioTree(), opts))

			data, err := fs.Bytes("build.buildlog")
			require.NoError(t, err)
			require.Equal(t, "BLOG", string(data[:4]))
			require.EqualValues(t, formatVersion, data[4])
			require.EqualValues(t, c.Resolve(), data[5])

			root, err := ReadFile("build.buildlog", opts)
			require.NoError(t, err)
			expected, err := Decode(bytes.NewReader(encodeToBytes(t, scenarioTree())))
			require.NoError(t, err)
			requireTreesEqual(t, expected, root)
		})
	}
}

func TestWriterReaderLifecycle(t *testing.T) {
	defer leaktest.AfterTest(t)()

	fs := vfs.NewMem()
	opts := testOptions(fs, NoCompression)
	w, err := Create("x.buildlog", opts)
	require.NoError(t, err)
	require.NoError(t, w.WriteRoot(scenarioTree()))
	require.ErrorIs(t, w.WriteRoot(scenarioTree()), ErrRootWritten)

	wm := w.Metrics()
	require.EqualValues(t, 5, wm.Nodes)
	require.Equal(t, NoCompression, wm.Compression)
	require.EqualValues(t, wm.TreeBytes+int64(headerLen+checksumLen), wm.FileBytes)
	require.Equal(t, w.Strings().Len(), wm.DistinctStrings)

	require.NoError(t, w.Close())
	require.ErrorIs(t, w.Close(), ErrClosed)
	require.ErrorIs(t, w.WriteRoot(scenarioTree()), ErrClosed)

	r, err := Open("x.buildlog", opts)
	require.NoError(t, err)
	_, err = r.ReadRoot()
	require.NoError(t, err)
	_, err = r.ReadRoot()
	require.ErrorIs(t, err, ErrRootRead)

	rm := r.Metrics()
	require.Equal(t, wm, rm)
	require.Contains(t, r.Strings().Instances(), "hello\nworld")
	require.Contains(t, rm.String(), "nodes: 5 (unknown: 0)")

	require.NoError(t, r.Close())
	require.ErrorIs(t, r.Close(), ErrClosed)
	_, err = r.ReadRoot()
	require.ErrorIs(t, err, ErrClosed)

	_, err = Open("missing.buildlog", opts)
	require.True(t, oserror.IsNotExist(err))
	require.False(t, IsCorruptionError(err))
}

func TestWriterCloseWithoutRoot(t *testing.T) {
	fs := vfs.NewMem()
	w, err := Create("empty.buildlog", testOptions(fs, NoCompression))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = ReadFile("empty.buildlog", testOptions(fs, NoCompression))
	require.True(t, IsCorruptionError(err))
	require.Contains(t, err.Error(), "truncated header")
}

func TestReaderUnknownKindLogged(t *testing.T) {
	widget := func(v string) Node {
		return &Unknown{Tag: "Widget", Values: []NullString{Str(v)}}
	}
	root := withChildren(&Folder{}, widget("a"), widget("b"), &Unknown{Tag: "Gadget"})
	data := writeArtifact(t, root, ZstdCompression)

	var logger base.InMemLogger
	r := NewReader(io.NopCloser(bytes.NewReader(data)), &Options{Logger: &logger})
	decoded, err := r.ReadRoot()
	require.NoError(t, err)
	require.NoError(t, r.Close())
	requireTreesEqual(t, root, decoded)
	require.EqualValues(t, 3, r.Metrics().UnknownNodes)

	lines := strings.Split(strings.TrimSpace(logger.String()), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], `"Widget"`)
	require.Contains(t, lines[1], `"Gadget"`)
}

func TestReaderCorruption(t *testing.T) {
	root := withChildren(&Folder{}, withName(&NamedNode{}, "abc"))
	valid := writeArtifact(t, root, NoCompression)

	corrupt := func(fn func(b []byte) []byte) []byte {
		return fn(append([]byte(nil), valid...))
	}
	testCases := []struct {
		name string
		data []byte
		msg  string
	}{
		{"empty", nil, "truncated header"},
		{"magic", corrupt(func(b []byte) []byte { b[0] = 'X'; return b }), "not a build log artifact"},
		{"compression", corrupt(func(b []byte) []byte { b[5] = 0xff; return b }), "unknown compression algorithm 255"},
		{"tree", corrupt(func(b []byte) []byte { return b[:len(b)-checksumLen-1] }), "truncated"},
		{"checksum-truncated", corrupt(func(b []byte) []byte { return b[:len(b)-3] }), "truncated checksum"},
		{"checksum-mismatch", corrupt(func(b []byte) []byte {
			i := bytes.LastIndex(b, []byte("abc"))
			b[i+2] = 'd'
			return b
		}), "checksum mismatch"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := readArtifact(tc.data, testOptions(nil, NoCompression))
			require.Error(t, err)
			require.True(t, IsCorruptionError(err), "%v", err)
			require.Contains(t, err.Error(), tc.msg)
		})
	}

	// A newer format version is not corruption.
	_, err := readArtifact(corrupt(func(b []byte) []byte { b[4] = 2; return b }), nil)
	require.False(t, IsCorruptionError(err))
	require.Contains(t, err.Error(), "unsupported format version 2")
}

func TestReaderDecompressionCorruption(t *testing.T) {
	data := writeArtifact(t, scenarioTree(), SnappyCompression)
	data[len(data)-1] ^= 0xff
	_, err := readArtifact(data, nil)
	require.Error(t, err)
	require.True(t, IsCorruptionError(err), "%v", err)
}

func TestWriteFileSinkFailure(t *testing.T) {
	var logger base.InMemLogger
	fs := errorfs.Wrap(vfs.NewMem(), errorfs.OnOps(errorfs.Always(), errorfs.OpFileWrite, errorfs.OpFileClose))
	opts := &Options{FS: fs, Logger: &logger}

	err := WriteFile("a.buildlog", scenarioTree(), opts)
	require.True(t, errors.Is(err, errorfs.ErrInjected))
	require.False(t, IsCorruptionError(err))
	require.Contains(t, logger.String(), "buildlog: closing a.buildlog after failed write")

	// The file was created before the injected failure.
	_, err = fs.Stat("a.buildlog")
	require.NoError(t, err)
}

func TestReadFileSourceFailure(t *testing.T) {
	mem := vfs.NewMem()
	require.NoError(t, WriteFile("a.buildlog", scenarioTree(), testOptions(mem, NoCompression)))

	// The header is read first, then the payload in a single read.
	for i := int32(0); i < 2; i++ {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			inj := errorfs.OnOps(errorfs.OnIndex(i, errorfs.Always()), errorfs.OpFileRead)
			fs := errorfs.Wrap(mem, inj)
			_, err := ReadFile("a.buildlog", testOptions(fs, NoCompression))
			require.True(t, errors.Is(err, errorfs.ErrInjected), "%v", err)
			require.False(t, IsCorruptionError(err), "%v", err)
		})
	}
}

func TestCreateFailure(t *testing.T) {
	fs := errorfs.Wrap(vfs.NewMem(), errorfs.OnOps(errorfs.Always(), errorfs.OpCreate))
	err := WriteFile("a.buildlog", scenarioTree(), testOptions(fs, NoCompression))
	require.True(t, errors.Is(err, errorfs.ErrInjected))
	require.Contains(t, err.Error(), "buildlog: creating a.buildlog")
}
