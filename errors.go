// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package buildlog

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/structuredlog/buildlog/internal/base"
)

// ErrCorruption is a marker to indicate that an artifact isn't in the
// expected format. Use IsCorruptionError to test for it.
var ErrCorruption = base.ErrCorruption

// ErrExtraction marks errors returned when a node cannot produce a value for
// an attribute of its schema. Such errors abort the encode.
var ErrExtraction = errors.New("buildlog: attribute extraction failed")

// ErrClosed is returned when using a Writer or Reader after Close.
var ErrClosed = errors.New("buildlog: closed")

// ErrRootWritten is returned when WriteRoot is called more than once.
var ErrRootWritten = errors.New("buildlog: root node already written")

// ErrRootRead is returned when ReadRoot is called more than once.
var ErrRootRead = errors.New("buildlog: root node already read")

// IsCorruptionError returns true if the given error indicates a malformed or
// truncated artifact.
func IsCorruptionError(err error) bool {
	return base.IsCorruptionError(err)
}

// DecodeError describes where decoding of an artifact failed.
type DecodeError struct {
	// Offset is the byte offset within the tree stream at which the item
	// that failed to decode begins.
	Offset int64
	// Path identifies the node being decoded, e.g. "Build/Project[0]/Target[2]".
	// Nodes whose tag has not been read yet appear as "?".
	Path string
	Err  error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("buildlog: decoding %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}
