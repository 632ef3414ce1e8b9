// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package buildlog

import (
	"bufio"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	"github.com/structuredlog/buildlog/internal/base"
	"github.com/structuredlog/buildlog/internal/compression"
	"github.com/structuredlog/buildlog/treerepr"
)

// Reader reads the tree stored in an artifact. The Reader owns its source
// and closes it in Close.
//
// A Reader is not safe for concurrent use.
type Reader struct {
	opts    *Options
	name    string
	src     *sourceReader
	closer  io.Closer
	dr      io.ReadCloser
	strings *StringCache
	metrics Metrics
	// unknownTags holds the unrecognized tags that have been logged.
	unknownTags map[string]struct{}

	read   bool
	closed bool
}

// NewReader returns a Reader for the artifact provided by src.
func NewReader(src io.ReadCloser, opts *Options) *Reader {
	return &Reader{
		opts:    opts.Clone().EnsureDefaults(),
		name:    "artifact",
		src:     &sourceReader{r: src},
		closer:  src,
		strings: NewStringCache(),
	}
}

// Open opens the named artifact file using opts.FS.
func Open(path string, opts *Options) (*Reader, error) {
	opts = opts.Clone().EnsureDefaults()
	f, err := opts.FS.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "buildlog: opening %s", path)
	}
	r := NewReader(f, opts)
	r.name = path
	return r, nil
}

// ReadFile reads the tree stored in the named artifact file. The file is
// closed on every path.
func ReadFile(path string, opts *Options) (Node, error) {
	r, err := Open(path, opts)
	if err != nil {
		return nil, err
	}
	root, err := r.ReadRoot()
	if closeErr := r.Close(); closeErr != nil {
		if err != nil {
			r.opts.Logger.Errorf("buildlog: closing %s after failed read: %v", path, closeErr)
		} else {
			err = closeErr
		}
	}
	if err != nil {
		return nil, err
	}
	return root, nil
}

// ReadRoot decodes the artifact's tree and verifies its checksum. It may be
// called at most once.
func (r *Reader) ReadRoot() (Node, error) {
	switch {
	case r.closed:
		return nil, ErrClosed
	case r.read:
		return nil, ErrRootRead
	}
	r.read = true
	root, err := r.readRoot()
	if err != nil {
		return nil, errors.WithDetailf(err, "artifact: %s", r.name)
	}
	return root, nil
}

func (r *Reader) readRoot() (Node, error) {
	var h [headerLen]byte
	if _, err := io.ReadFull(r.src, h[:]); err != nil {
		return nil, headerReadErr(err)
	}
	c, err := parseHeader(h)
	if err != nil {
		return nil, err
	}
	if r.dr, err = compression.NewReader(c, r.src); err != nil {
		return nil, err
	}
	br := bufio.NewReader(r.dr)
	hr := &hashingReader{r: br, h: xxhash.New()}
	d := newDecoder(treerepr.NewReader(hr), r.strings, r.opts.MaxDepth)
	d.onUnknown = r.logUnknown
	root, err := d.decodeRoot()
	if err != nil {
		return nil, r.payloadErr(err)
	}
	tree := d.r.Offset()
	if err := verifyChecksum(br, hr.h.Sum64()); err != nil {
		return nil, r.payloadErr(err)
	}
	r.metrics = Metrics{
		Nodes:           d.nodes,
		UnknownNodes:    d.unknown,
		TreeBytes:       tree,
		FileBytes:       r.src.n,
		DistinctStrings: r.strings.Len(),
		Compression:     c,
	}
	return root, nil
}

// payloadErr classifies an error raised while reading the compressed
// payload. An error that did not originate in the source was produced by the
// decompressor while inflating malformed data.
func (r *Reader) payloadErr(err error) error {
	if r.src.err == nil && !base.IsCorruptionError(err) {
		return base.MarkCorruptionError(err)
	}
	return err
}

func (r *Reader) logUnknown(tag string) {
	if _, ok := r.unknownTags[tag]; ok {
		return
	}
	if r.unknownTags == nil {
		r.unknownTags = make(map[string]struct{})
	}
	r.unknownTags[tag] = struct{}{}
	r.opts.Logger.Infof("buildlog: %s: preserving nodes of unknown kind %q without interpretation", r.name, tag)
}

// Strings returns the cache holding every distinct string value read so far.
func (r *Reader) Strings() *StringCache {
	return r.strings
}

// Metrics returns statistics about the tree read by ReadRoot.
func (r *Reader) Metrics() Metrics {
	return r.metrics
}

// Close releases the decompressor and closes the source. It must be called
// exactly once.
func (r *Reader) Close() error {
	if r.closed {
		return ErrClosed
	}
	r.closed = true
	var err error
	if r.dr != nil {
		err = r.dr.Close()
	}
	if closeErr := r.closer.Close(); closeErr != nil {
		err = errors.CombineErrors(err, errors.Wrapf(closeErr, "buildlog: closing %s", r.name))
	}
	return err
}
