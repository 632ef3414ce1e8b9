// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package compression

import (
	"io"

	"github.com/klauspost/compress/s2"
)

func newS2Writer(w io.Writer) io.WriteCloser {
	// Concurrency 1 keeps the writer from spawning goroutines.
	return s2.NewWriter(w, s2.WriterConcurrency(1))
}

func newS2Reader(r io.Reader) io.ReadCloser {
	return io.NopCloser(s2.NewReader(r))
}
