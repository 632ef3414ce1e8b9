// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package buildlog

import "github.com/cockroachdb/redact"

// Metrics holds statistics about a written or read artifact.
type Metrics struct {
	// Nodes is the number of nodes in the tree, including unknown nodes.
	Nodes int64
	// UnknownNodes is the number of nodes whose kind tag was not recognized.
	// Always zero for a Writer.
	UnknownNodes int64
	// TreeBytes is the size of the uncompressed tree stream.
	TreeBytes int64
	// FileBytes is the size of the artifact, envelope included.
	FileBytes int64
	// DistinctStrings is the number of distinct normalized string values.
	DistinctStrings int
	// Compression is the algorithm of the artifact's payload.
	Compression Compression
}

// CompressionRatio returns TreeBytes / FileBytes, or 0 for an empty artifact.
func (m *Metrics) CompressionRatio() float64 {
	if m.FileBytes == 0 {
		return 0
	}
	return float64(m.TreeBytes) / float64(m.FileBytes)
}

// String pretty-prints the metrics.
func (m *Metrics) String() string {
	return redact.StringWithoutMarkers(m)
}

var _ redact.SafeFormatter = &Metrics{}

// SafeFormat implements redact.SafeFormatter.
func (m *Metrics) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("nodes: %d (unknown: %d)\n", redact.Safe(m.Nodes), redact.Safe(m.UnknownNodes))
	w.Printf("strings: %d distinct\n", redact.Safe(m.DistinctStrings))
	w.Printf("size: %d B tree, %d B file (%s, %.2fx)\n",
		redact.Safe(m.TreeBytes),
		redact.Safe(m.FileBytes),
		m.Compression,
		redact.Safe(m.CompressionRatio()))
}
