// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package buildlog

import (
	"fmt"
	"time"
)

// NullString is a string attribute value that may be null. The zero value is
// null, which is distinct from the empty string.
type NullString struct {
	String string
	Valid  bool
}

// Str returns a non-null NullString holding s.
func Str(s string) NullString {
	return NullString{String: s, Valid: true}
}

// GoString implements fmt.GoStringer.
func (s NullString) GoString() string {
	if !s.Valid {
		return "<null>"
	}
	return fmt.Sprintf("%q", s.String)
}

// Node is a node of a build tree. The set of node types is closed; every Node
// is one of the types defined in this package.
//
// A node owns its children. Children are kept in insertion order, which
// mirrors the order in which the build executed them.
type Node interface {
	// Kind returns the variant of the node.
	Kind() Kind
	// Children returns the node's children in order. The returned slice must
	// not be modified.
	Children() []Node
	// AddChild appends a child. It panics if the child already has a parent
	// or is the node itself or one of its ancestors.
	AddChild(child Node)

	treeNode() *TreeNode
}

// TreeNode holds the children of a node. It is embedded in every node type.
type TreeNode struct {
	children []Node
	parent   *TreeNode
}

// Children implements Node.
func (n *TreeNode) Children() []Node {
	return n.children
}

// HasChildren returns true if the node has at least one child.
func (n *TreeNode) HasChildren() bool {
	return len(n.children) > 0
}

// AddChild implements Node.
func (n *TreeNode) AddChild(child Node) {
	if child == nil {
		panic("buildlog: nil child")
	}
	c := child.treeNode()
	if c.parent != nil {
		panic(fmt.Sprintf("buildlog: %s node already has a parent", child.Kind()))
	}
	for a := n; a != nil; a = a.parent {
		if a == c {
			panic(fmt.Sprintf("buildlog: adding %s node would create a cycle", child.Kind()))
		}
	}
	c.parent = n
	n.children = append(n.children, child)
}

func (n *TreeNode) treeNode() *TreeNode { return n }

// NamedNode is a node with a name. It is also the base of most other nodes.
type NamedNode struct {
	TreeNode
	Name NullString
}

// Kind implements Node.
func (*NamedNode) Kind() Kind { return KindNamedNode }

func (n *NamedNode) named() *NamedNode { return n }

// TextNode is a named node carrying free-form text.
type TextNode struct {
	NamedNode
	Text NullString
}

// Kind implements Node.
func (*TextNode) Kind() Kind { return KindTextNode }

func (n *TextNode) text() *TextNode { return n }

// TimedNode is the base of nodes that record when they started and finished.
// It is not a node kind of its own.
type TimedNode struct {
	NamedNode
	StartTime time.Time
	EndTime   time.Time
}

func (n *TimedNode) timed() *TimedNode { return n }

// Duration returns EndTime - StartTime.
func (n *TimedNode) Duration() time.Duration {
	return n.EndTime.Sub(n.StartTime)
}

// Build is the root of a build tree.
type Build struct {
	TimedNode
	Succeeded  bool
	IsAnalyzed bool
}

// Kind implements Node.
func (*Build) Kind() Kind { return KindBuild }

// Project is a project built as part of a build.
type Project struct {
	TimedNode
	ProjectFile NullString
}

// Kind implements Node.
func (*Project) Kind() Kind { return KindProject }

// Target is a target executed within a project.
type Target struct {
	TimedNode
	DependsOnTargets NullString
	IsLowRelevance   bool
}

// Kind implements Node.
func (*Target) Kind() Kind { return KindTarget }

// Task is a task executed within a target.
type Task struct {
	TimedNode
	FromAssembly         NullString
	CommandLineArguments NullString
}

// Kind implements Node.
func (*Task) Kind() Kind { return KindTask }

// Message is a text message logged during the build.
type Message struct {
	TextNode
	IsLowRelevance bool
	Timestamp      time.Time
}

// Kind implements Node.
func (*Message) Kind() Kind { return KindMessage }

// Diagnostic is the base of Warning and Error. It is not a node kind of its
// own.
type Diagnostic struct {
	TextNode
	Code            NullString
	File            NullString
	LineNumber      int
	ColumnNumber    int
	EndLineNumber   int
	EndColumnNumber int
	ProjectFile     NullString
}

func (d *Diagnostic) diagnostic() *Diagnostic { return d }

// Warning is a warning diagnostic.
type Warning struct {
	Diagnostic
}

// Kind implements Node.
func (*Warning) Kind() Kind { return KindWarning }

// Error is an error diagnostic.
type Error struct {
	Diagnostic
}

// Kind implements Node.
func (*Error) Kind() Kind { return KindError }

// NameValueNode is the base of Property and Metadata. It is not a node kind
// of its own.
type NameValueNode struct {
	TreeNode
	Name  NullString
	Value NullString
}

func (n *NameValueNode) nameValue() *NameValueNode { return n }

// Property is a project property.
type Property struct {
	NameValueNode
}

// Kind implements Node.
func (*Property) Kind() Kind { return KindProperty }

// Metadata is an item metadata entry.
type Metadata struct {
	NameValueNode
}

// Kind implements Node.
func (*Metadata) Kind() Kind { return KindMetadata }

// Folder groups related nodes under a name.
type Folder struct {
	NamedNode
	IsLowRelevance bool
}

// Kind implements Node.
func (*Folder) Kind() Kind { return KindFolder }

// Item is an item of an item group.
type Item struct {
	TextNode
}

// Kind implements Node.
func (*Item) Kind() Kind { return KindItem }

// Parameter is a named task parameter; its values are its children.
type Parameter struct {
	NamedNode
}

// Kind implements Node.
func (*Parameter) Kind() Kind { return KindParameter }

// Unknown is a node whose tag was not recognized by the decoder. It keeps the
// raw tag and attribute values so that it can be written back unchanged.
type Unknown struct {
	TreeNode
	Tag    string
	Values []NullString
}

// Kind implements Node.
func (*Unknown) Kind() Kind { return KindUnknown }
