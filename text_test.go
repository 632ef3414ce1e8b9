// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package buildlog

import (
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestFormatText(t *testing.T) {
	prop := &Property{}
	prop.Name = Str("A")
	msg := &Message{Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	msg.Text = Str("a\nb")
	root := withChildren(&Folder{IsLowRelevance: true},
		prop,
		withChildren(&Unknown{Tag: "Widget", Values: []NullString{Str("x"), {}}}, msg))

	var buf strings.Builder
	require.NoError(t, FormatText(&buf, root, TextOptions{}))
	const expected = `Folder IsLowRelevance="true"
    Property Name="A"
    Widget (unknown) "x" <null>
        Message IsLowRelevance="false" Timestamp="2024-01-01T00:00:00Z" Text="a\nb"
`
	require.Equal(t, expected, buf.String())

	buf.Reset()
	require.NoError(t, FormatText(&buf, root, TextOptions{CRLF: true}))
	require.Equal(t, strings.ReplaceAll(expected, "\n", "\r\n"), buf.String())

	buf.Reset()
	err := FormatText(&buf, withChildren(&Folder{}, &Message{Timestamp: time.Date(12000, 1, 1, 0, 0, 0, 0, time.UTC)}), TextOptions{})
	require.True(t, errors.Is(err, ErrExtraction))
}
