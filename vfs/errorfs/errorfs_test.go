// Copyright 2020 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package errorfs

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/structuredlog/buildlog/vfs"
	"github.com/stretchr/testify/require"
)

func TestOnIndex(t *testing.T) {
	fs := Wrap(vfs.NewMem(), OnIndex(2, Always()))
	f, err := fs.Create("a")
	require.NoError(t, err)
	_, err = f.Write([]byte("x"))
	require.NoError(t, err)
	_, err = f.Write([]byte("y"))
	require.True(t, errors.Is(err, ErrInjected))
	// Only one error is injected.
	_, err = f.Write([]byte("z"))
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestReadsWrites(t *testing.T) {
	mem := vfs.NewMem()
	w := Wrap(mem, Writes(Always()))
	_, err := w.Create("a")
	require.True(t, errors.Is(err, ErrInjected))

	f, err := mem.Create("a")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = w.Open("a")
	require.NoError(t, err)

	r := Wrap(mem, Reads(Always()))
	_, err = r.Open("a")
	require.True(t, errors.Is(err, ErrInjected))
	_, err = r.Create("b")
	require.NoError(t, err)
}

func TestOnOps(t *testing.T) {
	fs := Wrap(vfs.NewMem(), OnOps(Always(), OpFileSync))
	f, err := fs.Create("a")
	require.NoError(t, err)
	_, err = f.Write([]byte("x"))
	require.NoError(t, err)
	require.True(t, errors.Is(f.Sync(), ErrInjected))
	require.NoError(t, f.Close())
}
