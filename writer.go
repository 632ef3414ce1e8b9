// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package buildlog

import (
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	"github.com/structuredlog/buildlog/internal/compression"
)

// Writer writes a single tree to an artifact. The Writer owns its sink for
// its whole lifetime and closes it in Close.
//
// A Writer is not safe for concurrent use.
type Writer struct {
	opts    *Options
	name    string
	sink    io.WriteCloser
	strings *StringCache
	metrics Metrics

	written bool
	closed  bool
	err     error
}

// NewWriter returns a Writer that writes an artifact to sink.
func NewWriter(sink io.WriteCloser, opts *Options) *Writer {
	return &Writer{
		opts:    opts.Clone().EnsureDefaults(),
		name:    "artifact",
		sink:    sink,
		strings: NewStringCache(),
	}
}

// Create creates the named artifact file using opts.FS and returns a Writer
// for it. Parent directories are not created.
func Create(path string, opts *Options) (*Writer, error) {
	opts = opts.Clone().EnsureDefaults()
	f, err := opts.FS.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "buildlog: creating %s", path)
	}
	w := NewWriter(f, opts)
	w.name = path
	return w, nil
}

// WriteFile writes the tree rooted at root to the named artifact file. The
// file is closed on every path. On failure a partially written file may be
// left behind; discarding it is up to the caller.
func WriteFile(path string, root Node, opts *Options) error {
	w, err := Create(path, opts)
	if err != nil {
		return err
	}
	if err := w.WriteRoot(root); err != nil {
		if closeErr := w.Close(); closeErr != nil {
			w.opts.Logger.Errorf("buildlog: closing %s after failed write: %v", path, closeErr)
		}
		return err
	}
	return w.Close()
}

// WriteRoot encodes the tree rooted at root. It may be called at most once;
// an artifact holds exactly one tree.
func (w *Writer) WriteRoot(root Node) error {
	switch {
	case w.closed:
		return ErrClosed
	case w.written:
		return ErrRootWritten
	}
	w.written = true
	if err := w.writeRoot(root); err != nil {
		w.err = err
		return err
	}
	return nil
}

func (w *Writer) writeRoot(root Node) error {
	c := w.opts.Compression.Resolve()
	if !c.Valid() {
		return errors.Newf("buildlog: invalid compression %d", errors.Safe(uint8(c)))
	}
	sink := &countingWriter{w: w.sink}
	h := makeHeader(c)
	if _, err := sink.Write(h[:]); err != nil {
		return errors.Wrapf(err, "buildlog: writing %s", w.name)
	}
	cw, err := compression.NewWriter(c, sink)
	if err != nil {
		return err
	}
	digest := xxhash.New()
	e := newEncoder(io.MultiWriter(cw, digest), w.strings)
	err = e.encode(root)
	if err == nil {
		err = e.w.Flush()
	}
	if err == nil {
		_, err = cw.Write(appendChecksum(nil, digest.Sum64()))
	}
	// The compressor is closed on every path to release its resources.
	if closeErr := cw.Close(); err == nil && closeErr != nil {
		err = errors.Wrapf(closeErr, "buildlog: finishing %s", w.name)
	}
	w.metrics = Metrics{
		Nodes:           e.nodes,
		TreeBytes:       e.w.Offset(),
		FileBytes:       sink.n,
		DistinctStrings: w.strings.Len(),
		Compression:     c,
	}
	return err
}

// Strings returns the cache through which every written value was
// normalized.
func (w *Writer) Strings() *StringCache {
	return w.strings
}

// Metrics returns statistics about the written tree.
func (w *Writer) Metrics() Metrics {
	return w.metrics
}

// Close syncs (when the root was written successfully and the sink supports
// it) and closes the sink. It must be called exactly once, even if WriteRoot
// failed.
func (w *Writer) Close() error {
	if w.closed {
		return ErrClosed
	}
	w.closed = true
	var err error
	if w.written && w.err == nil {
		if s, ok := w.sink.(interface{ Sync() error }); ok {
			if syncErr := s.Sync(); syncErr != nil {
				err = errors.Wrapf(syncErr, "buildlog: syncing %s", w.name)
			}
		}
	}
	if closeErr := w.sink.Close(); closeErr != nil {
		err = errors.CombineErrors(err, errors.Wrapf(closeErr, "buildlog: closing %s", w.name))
	}
	return err
}
