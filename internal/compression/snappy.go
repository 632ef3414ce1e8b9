// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package compression

import (
	"io"

	"github.com/golang/snappy"
)

// newSnappyWriter uses the snappy framing format, so that streams can be
// decompressed without knowing their length.
func newSnappyWriter(w io.Writer) io.WriteCloser {
	return snappy.NewBufferedWriter(w)
}

func newSnappyReader(r io.Reader) io.ReadCloser {
	return io.NopCloser(snappy.NewReader(r))
}
