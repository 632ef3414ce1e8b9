// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package tool

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/structuredlog/buildlog"
	"github.com/structuredlog/buildlog/internal/binfmt"
	"github.com/structuredlog/buildlog/treerepr"
)

// hexT implements the hex command.
type hexT struct {
	Root *cobra.Command

	opts *buildlog.Options
}

func newHex(opts *buildlog.Options) *hexT {
	h := &hexT{opts: opts}
	h.Root = &cobra.Command{
		Use:   "hex <artifact>",
		Short: "print an annotated hex dump of an artifact",
		Long: `
Print the envelope header of an artifact followed by an annotated hex dump of
its decompressed tree stream and checksum.
`,
		Args: cobra.ExactArgs(1),
		Run:  h.run,
	}
	return h
}

func (h *hexT) run(cmd *cobra.Command, args []string) {
	stdout, stderr := cmd.OutOrStdout(), cmd.OutOrStderr()
	f, err := h.opts.FS.Open(args[0])
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", err)
		return
	}
	defer f.Close()
	raw, err := io.ReadAll(f)
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", err)
		return
	}

	header := binfmt.New(raw[:min(len(raw), 6)])
	if header.Remaining() == 6 {
		header.HexBytesln(4, "magic %q", raw[:4])
		header.HexBytesln(1, "format version %d", raw[4])
		header.HexBytesln(1, "compression %s", buildlog.Compression(raw[5]))
	}
	c, payload, err := buildlog.ReadPayload(bytes.NewReader(raw))
	fmt.Fprint(stdout, header.String())
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", err)
		return
	}
	fmt.Fprintf(stdout, "payload: %d bytes, %s\n", len(payload), c)

	p := binfmt.New(payload)
	tf := treeFormatter{f: p, data: payload, maxDepth: h.opts.MaxDepth}
	err = tf.node(0)
	if err == nil && p.Remaining() >= 8 {
		sum := binary.LittleEndian.Uint64(payload[p.Offset():])
		if want := buildlog.Checksum(payload[:p.Offset()]); sum == want {
			p.HexBytesln(8, "checksum %016x", sum)
		} else {
			p.HexBytesln(8, "checksum %016x (computed %016x)", sum, want)
		}
	}
	if p.More() {
		p.CommentLine("unparsed")
		p.HexTextln(p.Remaining())
	}
	fmt.Fprint(stdout, p.String())
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", err)
	}
}

// treeFormatter annotates a tree stream one item per line. Like the decoder,
// it refuses to descend below maxDepth.
type treeFormatter struct {
	f        *binfmt.Formatter
	data     []byte
	maxDepth int
}

func (t *treeFormatter) rest() []byte {
	return t.data[t.f.Offset():]
}

func (t *treeFormatter) node(depth int) error {
	if depth >= t.maxDepth {
		return errors.Newf("tree exceeds maximum depth %d at offset %d", t.maxDepth, t.f.Offset())
	}
	indent := strings.Repeat("  ", depth)
	n, l := binary.Uvarint(t.rest())
	if l <= 0 || n == 0 || uint64(t.f.Remaining()-l) < n {
		return errors.Newf("malformed kind tag at offset %d", t.f.Offset())
	}
	t.f.Uvarint("%skind tag length", indent)
	tag := string(t.rest()[:n])
	t.f.HexBytesln(int(n), "%s%s", indent, tag)

	var names []string
	if k, ok := buildlog.KindForTag(tag); ok {
		names = buildlog.AttributeSchema(k)
	}
	for i := 0; ; i++ {
		v, l := binary.Varint(t.rest())
		if l <= 0 {
			return errors.Newf("malformed value slot at offset %d", t.f.Offset())
		}
		name := fmt.Sprintf("slot %d", i)
		if i < len(names) {
			name = names[i]
		}
		switch {
		case v == treerepr.EndMarker:
			t.f.Varint("%send of attributes", indent)
		case v == treerepr.NullMarker:
			t.f.Varint("%s%s: null", indent, name)
		case v >= 0 && uint64(t.f.Remaining()-l) >= uint64(v):
			val := string(t.rest()[l : l+int(v)])
			if v == 0 {
				t.f.Varint("%s%s: %q", indent, name, val)
				continue
			}
			t.f.Varint("%s%s length", indent, name)
			t.f.HexBytesln(int(v), "%s%s: %q", indent, name, val)
		default:
			return errors.Newf("malformed value slot at offset %d", t.f.Offset())
		}
		if v == treerepr.EndMarker {
			break
		}
	}

	count, l := binary.Uvarint(t.rest())
	if l <= 0 {
		return errors.Newf("malformed child count at offset %d", t.f.Offset())
	}
	t.f.Uvarint("%schildren", indent)
	for i := uint64(0); i < count; i++ {
		if err := t.node(depth + 1); err != nil {
			return err
		}
	}
	return nil
}
