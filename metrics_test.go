// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package buildlog

import (
	"testing"

	"github.com/cockroachdb/redact"
	"github.com/stretchr/testify/require"
)

func TestMetricsString(t *testing.T) {
	m := Metrics{
		Nodes:           10,
		UnknownNodes:    1,
		TreeBytes:       300,
		FileBytes:       120,
		DistinctStrings: 6,
		Compression:     S2Compression,
	}
	const expected = `nodes: 10 (unknown: 1)
strings: 6 distinct
size: 300 B tree, 120 B file (s2, 2.50x)
`
	require.Equal(t, expected, m.String())
	// Nothing in the metrics is sensitive.
	require.Equal(t, expected, string(redact.Sprint(&m).Redact()))

	require.Equal(t, 0.0, (&Metrics{}).CompressionRatio())
}
