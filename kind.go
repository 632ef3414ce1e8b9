// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package buildlog

import (
	"fmt"

	"github.com/cockroachdb/redact"
)

// Kind identifies the variant of a Node.
type Kind uint8

// These constants are part of the in-memory model only. The artifact stores
// the tag returned by Kind.Tag, never the numeric value.
const (
	// KindUnknown is the kind of an Unknown node: a node whose tag was not
	// recognized when it was decoded.
	KindUnknown Kind = iota
	KindBuild
	KindProject
	KindTarget
	KindTask
	KindMessage
	KindWarning
	KindError
	KindProperty
	KindMetadata
	KindFolder
	KindNamedNode
	KindTextNode
	KindItem
	KindParameter
	kindCount
)

// kindTags maps each kind to the tag written to artifacts.
//
// Tags are append-only: an existing tag must never be renamed, removed or
// reused for a different kind, or previously written artifacts will no longer
// decode as intended.
var kindTags = [kindCount]string{
	KindBuild:     "Build",
	KindProject:   "Project",
	KindTarget:    "Target",
	KindTask:      "Task",
	KindMessage:   "Message",
	KindWarning:   "Warning",
	KindError:     "Error",
	KindProperty:  "Property",
	KindMetadata:  "Metadata",
	KindFolder:    "Folder",
	KindNamedNode: "NamedNode",
	KindTextNode:  "TextNode",
	KindItem:      "Item",
	KindParameter: "Parameter",
}

var kindsByTag = func() map[string]Kind {
	m := make(map[string]Kind, kindCount)
	for k := KindUnknown + 1; k < kindCount; k++ {
		m[kindTags[k]] = k
	}
	return m
}()

// KindForTag returns the kind with the given tag. It returns false if the tag
// is not known to this version of the package.
func KindForTag(tag string) (Kind, bool) {
	k, ok := kindsByTag[tag]
	return k, ok
}

// Tag returns the stable identifier of the kind used on the wire. It returns
// the empty string for KindUnknown and for invalid kinds.
func (k Kind) Tag() string {
	if k >= kindCount {
		return ""
	}
	return kindTags[k]
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch {
	case k == KindUnknown:
		return "Unknown"
	case k < kindCount:
		return kindTags[k]
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// SafeValue implements redact.SafeValue.
func (Kind) SafeValue() {}

var _ redact.SafeValue = Kind(0)

// newNode returns a new, empty node of the given kind.
func newNode(k Kind) Node {
	switch k {
	case KindBuild:
		return &Build{}
	case KindProject:
		return &Project{}
	case KindTarget:
		return &Target{}
	case KindTask:
		return &Task{}
	case KindMessage:
		return &Message{}
	case KindWarning:
		return &Warning{}
	case KindError:
		return &Error{}
	case KindProperty:
		return &Property{}
	case KindMetadata:
		return &Metadata{}
	case KindFolder:
		return &Folder{}
	case KindNamedNode:
		return &NamedNode{}
	case KindTextNode:
		return &TextNode{}
	case KindItem:
		return &Item{}
	case KindParameter:
		return &Parameter{}
	default:
		return nil
	}
}
