// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package buildlog

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// TextOptions controls FormatText.
type TextOptions struct {
	// CRLF terminates lines with "\r\n" instead of "\n". Line breaks inside
	// values are quoted and therefore unaffected.
	CRLF bool
}

const textIndent = "    "

// FormatText writes a human-readable rendering of the tree rooted at root to
// w: one node per line, indented four spaces per level, with the node's tag
// followed by its non-null attributes.
//
//	Build Name="b" Succeeded="true"
//	    Project Name="p" ProjectFile="p.proj"
func FormatText(w io.Writer, root Node, opts TextOptions) error {
	bw := bufio.NewWriter(w)
	eol := "\n"
	if opts.CRLF {
		eol = "\r\n"
	}
	if err := formatTextNode(bw, root, 0, eol); err != nil {
		return err
	}
	return errors.Wrap(bw.Flush(), "buildlog: writing text")
}

func formatTextNode(w *bufio.Writer, n Node, depth int, eol string) error {
	if n == nil {
		return errors.Mark(errors.New("buildlog: nil node"), ErrExtraction)
	}
	_, _ = w.WriteString(strings.Repeat(textIndent, depth))
	if u, ok := n.(*Unknown); ok {
		_, _ = w.WriteString(u.Tag)
		_, _ = w.WriteString(" (unknown)")
		for _, v := range u.Values {
			_ = w.WriteByte(' ')
			writeTextValue(w, v)
		}
	} else {
		k := n.Kind()
		s, ok := lookupSchema(k)
		if !ok {
			return errors.Mark(errors.Newf("buildlog: %s node has no attribute schema", k), ErrExtraction)
		}
		_, _ = w.WriteString(k.Tag())
		for i := range s.attrs {
			v, err := extractAttr(n, &s.attrs[i])
			if err != nil {
				return err
			}
			if !v.Valid {
				continue
			}
			_ = w.WriteByte(' ')
			_, _ = w.WriteString(s.attrs[i].name)
			_ = w.WriteByte('=')
			writeTextValue(w, v)
		}
	}
	if _, err := w.WriteString(eol); err != nil {
		return errors.Wrap(err, "buildlog: writing text")
	}
	for _, c := range n.Children() {
		if err := formatTextNode(w, c, depth+1, eol); err != nil {
			return err
		}
	}
	return nil
}

func writeTextValue(w *bufio.Writer, v NullString) {
	if !v.Valid {
		_, _ = w.WriteString("<null>")
		return
	}
	_, _ = w.WriteString(strconv.Quote(v.String))
}
