// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package buildlog

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/structuredlog/buildlog/treerepr"
)

// Encode writes the tree rooted at root to w in the binary tree format. No
// header is written; see Writer for the artifact envelope.
//
// The tree must not be modified while it is encoded. Any error aborts the
// encode and leaves a partially written stream behind.
func Encode(w io.Writer, root Node) error {
	e := newEncoder(w, NewStringCache())
	if err := e.encode(root); err != nil {
		return err
	}
	return e.w.Flush()
}

// encoder walks a tree depth-first and writes it using a treerepr.Writer.
// Every string value is normalized through strings before it is written.
type encoder struct {
	w       *treerepr.Writer
	strings *StringCache
	nodes   int64
}

func newEncoder(w io.Writer, strings *StringCache) *encoder {
	return &encoder{
		w:       treerepr.NewWriter(w),
		strings: strings,
	}
}

func (e *encoder) encode(n Node) error {
	if n == nil {
		return errors.Mark(errors.New("buildlog: nil node"), ErrExtraction)
	}
	if u, ok := n.(*Unknown); ok {
		return e.encodeUnknown(u)
	}
	k := n.Kind()
	s, ok := lookupSchema(k)
	if !ok {
		return errors.Mark(errors.Newf("buildlog: %s node has no attribute schema", k), ErrExtraction)
	}
	if err := e.w.WriteKindTag(k.Tag()); err != nil {
		return err
	}
	for i := range s.attrs {
		v, err := extractAttr(n, &s.attrs[i])
		if err != nil {
			return err
		}
		if err := e.writeValue(v); err != nil {
			return err
		}
	}
	return e.finishNode(n)
}

// encodeUnknown writes a node that was read from a newer artifact back out
// with its original tag and values.
func (e *encoder) encodeUnknown(u *Unknown) error {
	if u.Tag == "" {
		return errors.Mark(errors.New("buildlog: unknown node without tag"), ErrExtraction)
	}
	if err := e.w.WriteKindTag(u.Tag); err != nil {
		return err
	}
	for _, v := range u.Values {
		if err := e.writeValue(v); err != nil {
			return err
		}
	}
	return e.finishNode(u)
}

func (e *encoder) writeValue(v NullString) error {
	v = e.strings.Intern(v)
	return e.w.WriteValue(v.String, v.Valid)
}

func (e *encoder) finishNode(n Node) error {
	if err := e.w.WriteEndAttributes(); err != nil {
		return err
	}
	children := n.Children()
	if err := e.w.WriteChildCount(len(children)); err != nil {
		return err
	}
	e.nodes++
	for _, c := range children {
		if err := e.encode(c); err != nil {
			return err
		}
	}
	return nil
}
