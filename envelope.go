// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package buildlog

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	"github.com/structuredlog/buildlog/internal/base"
	"github.com/structuredlog/buildlog/internal/compression"
)

// An artifact file wraps the tree stream in an envelope:
//
//	+--------+---------+-------------+-----------------------------------+
//	| "BLOG" | version | compression | compressed(tree stream, checksum) |
//	+--------+---------+-------------+-----------------------------------+
//
// The checksum is the little-endian xxhash64 of the uncompressed tree stream
// and immediately follows the root node inside the compressed payload.
const (
	magic         = "BLOG"
	formatVersion = 1
	headerLen     = len(magic) + 2
	checksumLen   = 8
)

func makeHeader(c Compression) [headerLen]byte {
	var h [headerLen]byte
	copy(h[:], magic)
	h[len(magic)] = formatVersion
	h[len(magic)+1] = byte(c)
	return h
}

// parseHeader validates an envelope header and returns the compression
// algorithm of the payload.
func parseHeader(h [headerLen]byte) (Compression, error) {
	if string(h[:len(magic)]) != magic {
		return 0, base.CorruptionErrorf("buildlog: not a build log artifact (magic %q)", h[:len(magic)])
	}
	if v := h[len(magic)]; v != formatVersion {
		return 0, errors.Newf("buildlog: unsupported format version %d", errors.Safe(v))
	}
	c := Compression(h[len(magic)+1])
	if !c.Valid() {
		return 0, base.CorruptionErrorf("buildlog: unknown compression algorithm %d", errors.Safe(uint8(c)))
	}
	return c, nil
}

// ReadPayload reads the envelope header from r and returns the decompressed
// payload: the tree stream followed by its checksum. It is meant for
// introspection tools.
func ReadPayload(r io.Reader) (Compression, []byte, error) {
	var h [headerLen]byte
	if _, err := io.ReadFull(r, h[:]); err != nil {
		return 0, nil, headerReadErr(err)
	}
	c, err := parseHeader(h)
	if err != nil {
		return 0, nil, err
	}
	dr, err := compression.NewReader(c, r)
	if err != nil {
		return 0, nil, err
	}
	defer dr.Close()
	payload, err := io.ReadAll(dr)
	if err != nil {
		return 0, nil, errors.Wrap(err, "buildlog: decompressing payload")
	}
	return c, payload, nil
}

// Checksum returns the checksum stored after a tree stream.
func Checksum(tree []byte) uint64 {
	return xxhash.Sum64(tree)
}

func headerReadErr(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return base.CorruptionErrorf("buildlog: truncated header")
	}
	return errors.Wrap(err, "buildlog: reading header")
}

func appendChecksum(dst []byte, sum uint64) []byte {
	return binary.LittleEndian.AppendUint64(dst, sum)
}

func verifyChecksum(r io.Reader, want uint64) error {
	var buf [checksumLen]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return base.CorruptionErrorf("buildlog: truncated checksum")
		}
		return errors.Wrap(err, "buildlog: reading checksum")
	}
	if got := binary.LittleEndian.Uint64(buf[:]); got != want {
		return base.CorruptionErrorf("buildlog: checksum mismatch: stored %016x, computed %016x",
			errors.Safe(got), errors.Safe(want))
	}
	return nil
}

// hashingReader feeds every byte handed to the tree decoder into a digest.
// It implements treerepr.ByteReader, so the decoder does not buffer ahead of
// it and the checksum remains unread in r.
type hashingReader struct {
	r   *bufio.Reader
	h   *xxhash.Digest
	one [1]byte
}

func (h *hashingReader) Read(p []byte) (int, error) {
	n, err := h.r.Read(p)
	_, _ = h.h.Write(p[:n])
	return n, err
}

func (h *hashingReader) ReadByte() (byte, error) {
	b, err := h.r.ReadByte()
	if err != nil {
		return b, err
	}
	h.one[0] = b
	_, _ = h.h.Write(h.one[:])
	return b, nil
}

// countingWriter counts the bytes written to the sink.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// sourceReader counts the bytes read from the source and remembers the last
// error it returned other than io.EOF, so that failures of the source can be
// told apart from malformed compressed data.
type sourceReader struct {
	r   io.Reader
	n   int64
	err error
}

func (s *sourceReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	s.n += int64(n)
	if err != nil && err != io.EOF {
		s.err = err
	}
	return n, err
}
