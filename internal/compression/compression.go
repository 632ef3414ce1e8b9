// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package compression implements the streaming compression applied to the
// tree stream of an artifact.
package compression

import (
	"io"
	"strings"

	"github.com/cockroachdb/errors"
)

// Algorithm identifies a compression algorithm. The numeric value of every
// algorithm other than Default is stored in artifact headers and must not
// change.
type Algorithm uint8

const (
	// Default resolves to Zstd when writing. It is never stored.
	Default Algorithm = iota
	None
	Snappy
	S2
	Zstd
	nAlgorithms
)

var algorithmNames = [nAlgorithms]string{
	Default: "default",
	None:    "none",
	Snappy:  "snappy",
	S2:      "s2",
	Zstd:    "zstd",
}

// String implements fmt.Stringer.
func (a Algorithm) String() string {
	if a >= nAlgorithms {
		return "unknown"
	}
	return algorithmNames[a]
}

// SafeValue implements redact.SafeValue.
func (Algorithm) SafeValue() {}

// Resolve maps Default to the algorithm it stands for.
func (a Algorithm) Resolve() Algorithm {
	if a == Default {
		return Zstd
	}
	return a
}

// Valid returns true if a is a known, concrete algorithm.
func (a Algorithm) Valid() bool {
	return a > Default && a < nAlgorithms
}

// Parse returns the algorithm with the given name.
func Parse(name string) (Algorithm, error) {
	for a := Default; a < nAlgorithms; a++ {
		if strings.EqualFold(algorithmNames[a], name) {
			return a, nil
		}
	}
	return 0, errors.Newf("unknown compression algorithm %q", name)
}

// Set implements pflag.Value.
func (a *Algorithm) Set(name string) error {
	v, err := Parse(name)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Type implements pflag.Value.
func (*Algorithm) Type() string { return "compression" }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Algorithm) UnmarshalText(text []byte) error {
	return a.Set(string(text))
}

// MarshalText implements encoding.TextMarshaler.
func (a Algorithm) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// NewWriter returns a writer that compresses into w. Closing the returned
// writer flushes all data but does not close w.
func NewWriter(a Algorithm, w io.Writer) (io.WriteCloser, error) {
	switch a.Resolve() {
	case None:
		return nopWriteCloser{w}, nil
	case Snappy:
		return newSnappyWriter(w), nil
	case S2:
		return newS2Writer(w), nil
	case Zstd:
		return newZstdWriter(w)
	default:
		return nil, errors.Newf("unsupported compression algorithm %d", errors.Safe(uint8(a)))
	}
}

// NewReader returns a reader that decompresses r. Closing the returned reader
// releases decompression resources but does not close r.
func NewReader(a Algorithm, r io.Reader) (io.ReadCloser, error) {
	switch a {
	case None:
		return io.NopCloser(r), nil
	case Snappy:
		return newSnappyReader(r), nil
	case S2:
		return newS2Reader(r), nil
	case Zstd:
		return newZstdReader(r)
	default:
		return nil, errors.Newf("unsupported compression algorithm %d", errors.Safe(uint8(a)))
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
