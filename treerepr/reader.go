// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package treerepr

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/structuredlog/buildlog/internal/base"
)

// ByteReader is the interface the Reader consumes. *bufio.Reader and
// *bytes.Reader both implement it.
type ByteReader interface {
	io.Reader
	io.ByteReader
}

// Reader reads the binary tree representation. It never reads past the last
// byte of the item it was asked for, so the bytes following a root node remain
// unread in the underlying ByteReader.
//
// A Reader is not safe for concurrent use.
type Reader struct {
	r   ByteReader
	off int64
	// readErr is the last error returned by r, used to tell source failures
	// apart from malformed varints.
	readErr error
}

// NewReader returns a Reader reading from r. If r does not implement
// io.ByteReader it is wrapped in a bufio.Reader, which may read ahead.
func NewReader(r io.Reader) *Reader {
	br, ok := r.(ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Reader{r: br}
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int64 {
	return r.off
}

// ReadKindTag reads the kind tag that begins a node.
func (r *Reader) ReadKindTag() (string, error) {
	start := r.off
	n, err := binary.ReadUvarint((*counter)(r))
	if err != nil {
		return "", r.wrapErr(err, start, "kind tag")
	}
	if n == 0 || n > MaxTagLen {
		return "", base.CorruptionErrorf("buildlog: invalid kind tag length %d at offset %d", n, start)
	}
	tag, err := r.readString(int(n))
	if err != nil {
		return "", r.wrapErr(err, start, "kind tag")
	}
	return tag, nil
}

// ReadSlot reads the next value slot. The returned string is only meaningful
// when kind is SlotString.
func (r *Reader) ReadSlot() (s string, kind SlotKind, err error) {
	start := r.off
	v, err := binary.ReadVarint((*counter)(r))
	if err != nil {
		return "", 0, r.wrapErr(err, start, "value slot")
	}
	switch {
	case v == NullMarker:
		return "", SlotNull, nil
	case v == EndMarker:
		return "", SlotEnd, nil
	case v < 0:
		return "", 0, base.CorruptionErrorf("buildlog: invalid value marker %d at offset %d", v, start)
	case v > MaxValueLen:
		return "", 0, base.CorruptionErrorf("buildlog: value length %d exceeds limit at offset %d", v, start)
	}
	s, err = r.readString(int(v))
	if err != nil {
		return "", 0, r.wrapErr(err, start, "value slot")
	}
	return s, SlotString, nil
}

// ReadChildCount reads the number of children that follow a node's
// attributes.
func (r *Reader) ReadChildCount() (int, error) {
	start := r.off
	n, err := binary.ReadUvarint((*counter)(r))
	if err != nil {
		return 0, r.wrapErr(err, start, "child count")
	}
	if n > MaxChildCount {
		return 0, base.CorruptionErrorf("buildlog: child count %d exceeds limit at offset %d", n, start)
	}
	return int(n), nil
}

// readChunkSize bounds the up-front allocation for a string. Longer strings
// grow their buffer only as bytes arrive.
const readChunkSize = 64 << 10

func (r *Reader) readString(n int) (string, error) {
	if n == 0 {
		return "", nil
	}
	if n <= readChunkSize {
		buf := make([]byte, n)
		m, err := io.ReadFull(r.r, buf)
		r.off += int64(m)
		if err != nil {
			r.readErr = err
			return "", err
		}
		return string(buf), nil
	}
	var buf bytes.Buffer
	buf.Grow(readChunkSize)
	m, err := io.CopyN(&buf, r.r, int64(n))
	r.off += m
	if err != nil {
		r.readErr = err
		return "", err
	}
	return buf.String(), nil
}

func (r *Reader) wrapErr(err error, start int64, what string) error {
	switch {
	case err == io.EOF || err == io.ErrUnexpectedEOF:
		return base.CorruptionErrorf("buildlog: truncated %s at offset %d", errors.Safe(what), start)
	case err != r.readErr:
		// The only error binary.ReadVarint produces on its own is an overflow.
		return base.CorruptionErrorf("buildlog: malformed %s at offset %d", errors.Safe(what), start)
	default:
		return errors.Wrapf(err, "buildlog: reading %s at offset %d", errors.Safe(what), start)
	}
}

// counter adapts a Reader to io.ByteReader while tracking the offset.
type counter Reader

func (c *counter) ReadByte() (byte, error) {
	b, err := c.r.ReadByte()
	if err != nil {
		c.readErr = err
		return b, err
	}
	c.off++
	return b, nil
}
