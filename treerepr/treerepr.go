// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package treerepr provides the primitives for reading and writing the binary
// tree representation used by buildlog artifacts.
//
// A node is encoded in pre-order as:
//
//	+-----------+----------------------+-----+-------------+-----------+
//	| kind tag  | value slot ...       | end | child count | children  |
//	+-----------+----------------------+-----+-------------+-----------+
//
// The kind tag is a uvarint length followed by that many bytes. Every value
// slot begins with a signed varint: a non-negative value is the length of the
// string that follows, -1 is a null value and -2 ends the attribute list. The
// child count is a uvarint and is followed by exactly that many encoded
// children.
//
// Because the attribute list is terminated by a sentinel rather than a count,
// a decoder that knows fewer attributes for a kind than the writer did can
// skip the trailing slots it does not understand.
package treerepr

import (
	"fmt"
	"math"
)

// Markers stored in place of a value length.
const (
	// NullMarker marks a null value slot.
	NullMarker = -1
	// EndMarker marks the end of a node's value slots.
	EndMarker = -2
)

const (
	// MaxTagLen is the maximum length of a kind tag accepted by the Reader.
	MaxTagLen = 1 << 10
	// MaxValueLen is the maximum length of a value accepted by the Reader.
	MaxValueLen = 1 << 30
	// MaxChildCount is the maximum child count accepted by the Reader.
	MaxChildCount = math.MaxInt32
)

// SlotKind describes what a value slot holds.
type SlotKind int8

const (
	// SlotString is a slot holding a (possibly empty) string.
	SlotString SlotKind = iota
	// SlotNull is a slot holding a null value.
	SlotNull
	// SlotEnd is the end-of-attributes marker.
	SlotEnd
)

// String implements fmt.Stringer.
func (k SlotKind) String() string {
	switch k {
	case SlotString:
		return "string"
	case SlotNull:
		return "null"
	case SlotEnd:
		return "end"
	default:
		return fmt.Sprintf("SlotKind(%d)", int8(k))
	}
}

// SafeValue implements redact.SafeValue.
func (SlotKind) SafeValue() {}
