// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package treerepr

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/cockroachdb/errors"
)

// Writer writes the binary tree representation to an underlying io.Writer.
// Writes are buffered; Flush must be called once the root has been written.
//
// A Writer is not safe for concurrent use.
type Writer struct {
	w   *bufio.Writer
	off int64
	buf [binary.MaxVarintLen64]byte
}

// NewWriter returns a Writer that writes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Offset returns the number of bytes written so far.
func (w *Writer) Offset() int64 {
	return w.off
}

// WriteKindTag writes the kind tag that begins a node.
func (w *Writer) WriteKindTag(tag string) error {
	if len(tag) == 0 || len(tag) > MaxTagLen {
		return errors.Newf("buildlog: invalid kind tag length %d", len(tag))
	}
	n := binary.PutUvarint(w.buf[:], uint64(len(tag)))
	if err := w.write(w.buf[:n]); err != nil {
		return err
	}
	return w.writeString(tag)
}

// WriteValue writes a value slot. If valid is false the slot is null and s is
// ignored.
func (w *Writer) WriteValue(s string, valid bool) error {
	if !valid {
		return w.writeVarint(NullMarker)
	}
	if err := w.writeVarint(int64(len(s))); err != nil {
		return err
	}
	return w.writeString(s)
}

// WriteEndAttributes writes the end-of-attributes marker.
func (w *Writer) WriteEndAttributes() error {
	return w.writeVarint(EndMarker)
}

// WriteChildCount writes the number of children that follow.
func (w *Writer) WriteChildCount(count int) error {
	if count < 0 {
		return errors.AssertionFailedf("buildlog: negative child count %d", count)
	}
	n := binary.PutUvarint(w.buf[:], uint64(count))
	return w.write(w.buf[:n])
}

// Flush writes any buffered data to the underlying io.Writer.
func (w *Writer) Flush() error {
	if err := w.w.Flush(); err != nil {
		return errors.Wrap(err, "buildlog: flushing tree")
	}
	return nil
}

func (w *Writer) writeVarint(v int64) error {
	n := binary.PutVarint(w.buf[:], v)
	return w.write(w.buf[:n])
}

func (w *Writer) write(b []byte) error {
	n, err := w.w.Write(b)
	w.off += int64(n)
	if err != nil {
		return errors.Wrapf(err, "buildlog: writing at offset %d", w.off)
	}
	return nil
}

func (w *Writer) writeString(s string) error {
	n, err := w.w.WriteString(s)
	w.off += int64(n)
	if err != nil {
		return errors.Wrapf(err, "buildlog: writing at offset %d", w.off)
	}
	return nil
}
