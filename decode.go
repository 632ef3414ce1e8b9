// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package buildlog

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/structuredlog/buildlog/internal/base"
	"github.com/structuredlog/buildlog/treerepr"
)

// Decode reads one tree in the binary tree format from r and returns its
// root. Bytes following the root are not inspected, although they may be
// buffered if r does not implement io.ByteReader.
//
// Nodes with tags unknown to this version of the package are returned as
// *Unknown nodes. A malformed or truncated stream results in a *DecodeError
// for which IsCorruptionError returns true.
func Decode(r io.Reader) (Node, error) {
	d := newDecoder(treerepr.NewReader(r), NewStringCache(), DefaultMaxDepth)
	return d.decodeRoot()
}

// decoder reconstructs a tree by recursive descent.
type decoder struct {
	r        *treerepr.Reader
	strings  *StringCache
	maxDepth int
	// onUnknown, if set, is called for every node with an unrecognized tag.
	onUnknown func(tag string)
	nodes     int64
	unknown   int64

	// itemStart is the offset of the item being read, for error messages.
	itemStart int64
	// path holds the position of the node being decoded, for error messages.
	path []pathElem
}

type pathElem struct {
	tag   string
	index int
}

func newDecoder(r *treerepr.Reader, strings *StringCache, maxDepth int) *decoder {
	return &decoder{
		r:        r,
		strings:  strings,
		maxDepth: maxDepth,
	}
}

func (d *decoder) decodeRoot() (Node, error) {
	return d.decode(0)
}

func (d *decoder) decode(index int) (Node, error) {
	d.itemStart = d.r.Offset()
	if len(d.path) >= d.maxDepth {
		return nil, d.errorf("tree exceeds maximum depth %d", d.maxDepth)
	}
	d.path = append(d.path, pathElem{tag: "?", index: index})
	defer func() { d.path = d.path[:len(d.path)-1] }()

	tag, err := d.r.ReadKindTag()
	if err != nil {
		return nil, d.wrap(err)
	}
	d.path[len(d.path)-1].tag = tag

	var n Node
	if k, ok := KindForTag(tag); ok {
		n, err = d.decodeAttributes(newNode(k), k)
	} else {
		d.unknown++
		if d.onUnknown != nil {
			d.onUnknown(tag)
		}
		n, err = d.decodeUnknownAttributes(&Unknown{Tag: d.strings.InternString(tag)})
	}
	if err != nil {
		return nil, err
	}

	d.itemStart = d.r.Offset()
	count, err := d.r.ReadChildCount()
	if err != nil {
		return nil, d.wrap(err)
	}
	for i := 0; i < count; i++ {
		child, err := d.decode(i)
		if err != nil {
			return nil, err
		}
		n.AddChild(child)
	}
	d.nodes++
	return n, nil
}

// decodeAttributes assigns the value slots of a known kind by position.
// Slots beyond the kind's schema were written by a newer producer and are
// skipped; slots missing at the end are left null.
func (d *decoder) decodeAttributes(n Node, k Kind) (Node, error) {
	attrs := schemas[k].attrs
	for i := 0; ; i++ {
		v, end, err := d.readSlot()
		if err != nil {
			return nil, err
		}
		if end {
			return n, nil
		}
		if i >= len(attrs) {
			continue
		}
		if err := attrs[i].set(n, v); err != nil {
			return nil, d.wrap(base.MarkCorruptionError(errors.Wrapf(err,
				"attribute %s at offset %d", errors.Safe(attrs[i].name), d.itemStart)))
		}
	}
}

func (d *decoder) decodeUnknownAttributes(u *Unknown) (Node, error) {
	for {
		v, end, err := d.readSlot()
		if err != nil {
			return nil, err
		}
		if end {
			return u, nil
		}
		u.Values = append(u.Values, v)
	}
}

func (d *decoder) readSlot() (v NullString, end bool, err error) {
	d.itemStart = d.r.Offset()
	s, kind, err := d.r.ReadSlot()
	if err != nil {
		return NullString{}, false, d.wrap(err)
	}
	switch kind {
	case treerepr.SlotEnd:
		return NullString{}, true, nil
	case treerepr.SlotNull:
		return NullString{}, false, nil
	default:
		return Str(d.strings.InternString(s)), false, nil
	}
}

func (d *decoder) errorf(format string, args ...interface{}) error {
	return d.wrap(base.CorruptionErrorf(format, args...))
}

// wrap annotates err with the current position. Failures of the underlying
// source are not corruption and are returned without a DecodeError.
func (d *decoder) wrap(err error) error {
	if !base.IsCorruptionError(err) {
		return errors.Wrapf(err, "buildlog: decoding %s", errors.Safe(d.pathString()))
	}
	return &DecodeError{
		Offset: d.itemStart,
		Path:   d.pathString(),
		Err:    err,
	}
}

func (d *decoder) pathString() string {
	var b strings.Builder
	for i, e := range d.path {
		if i == 0 {
			b.WriteString(e.tag)
			continue
		}
		fmt.Fprintf(&b, "/%s[%d]", e.tag, e.index)
	}
	return b.String()
}
