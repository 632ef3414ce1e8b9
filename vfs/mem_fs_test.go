// Copyright 2012 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package vfs

import (
	"io"
	"testing"

	"github.com/cockroachdb/errors/oserror"
	"github.com/stretchr/testify/require"
)

func TestMemFS(t *testing.T) {
	fs := NewMem()

	_, err := fs.Open("missing.buildlog")
	require.True(t, oserror.IsNotExist(err))

	f, err := fs.Create("a/b.buildlog")
	require.NoError(t, err)
	_, err = f.Write([]byte("hello "))
	require.NoError(t, err)
	_, err = f.Write([]byte("world"))
	require.NoError(t, err)
	_, err = f.Read(make([]byte, 1))
	require.Error(t, err)
	require.NoError(t, f.Sync())
	require.NoError(t, f.Close())
	require.Error(t, f.Close())

	fi, err := fs.Stat("a/b.buildlog")
	require.NoError(t, err)
	require.Equal(t, "b.buildlog", fi.Name())
	require.Equal(t, int64(11), fi.Size())
	require.Equal(t, "b.buildlog", fs.PathBase("a/b.buildlog"))

	r, err := fs.Open("a/b.buildlog")
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "hello world", string(data))
	_, err = r.Write([]byte("x"))
	require.Error(t, err)
	require.NoError(t, r.Close())

	b, err := fs.Bytes("a/b.buildlog")
	require.NoError(t, err)
	require.Equal(t, "hello world", string(b))

	// Create truncates.
	f, err = fs.Create("a/b.buildlog")
	require.NoError(t, err)
	require.NoError(t, f.Close())
	fi, err = fs.Stat("a/b.buildlog")
	require.NoError(t, err)
	require.Equal(t, int64(0), fi.Size())

	require.NoError(t, fs.Remove("a/b.buildlog"))
	require.True(t, oserror.IsNotExist(fs.Remove("a/b.buildlog")))
	_, err = fs.Stat("a/b.buildlog")
	require.True(t, oserror.IsNotExist(err))
}

func TestDefaultFS(t *testing.T) {
	dir := t.TempDir()
	name := dir + "/x.buildlog"
	f, err := Default.Create(name)
	require.NoError(t, err)
	_, err = f.Write([]byte("abc"))
	require.NoError(t, err)
	require.NoError(t, f.Sync())
	require.NoError(t, f.Close())

	r, err := Default.Open(name)
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "abc", string(data))
	require.NoError(t, r.Close())
	require.Equal(t, "x.buildlog", Default.PathBase(name))
	require.NoError(t, Default.Remove(name))
}
