// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package buildlog

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// timeLayout is the layout used to render timestamps. It keeps nanosecond
// precision and the zone offset.
const timeLayout = time.RFC3339Nano

// zonelessTimeLayout accepts timestamps written without an offset, which are
// interpreted as UTC.
const zonelessTimeLayout = "2006-01-02T15:04:05.999999999"

// attribute is a named value slot of a node kind.
type attribute struct {
	name string
	get  func(Node) (NullString, error)
	set  func(Node, NullString) error
}

// A trait is a classification a node may satisfy. Traits are evaluated in
// the order of the traits slice; a terminal trait contributes its attributes
// and stops the evaluation.
type trait struct {
	name     string
	terminal bool
	matches  func(Node) bool
	attrs    []attribute
}

type named interface{ named() *NamedNode }
type texted interface{ text() *TextNode }
type timed interface{ timed() *TimedNode }
type diagnostic interface{ diagnostic() *Diagnostic }
type nameValue interface{ nameValue() *NameValueNode }

func isKind[T Node](n Node) bool {
	_, ok := n.(T)
	return ok
}

func implements[T any](n Node) bool {
	_, ok := n.(T)
	return ok
}

var traits = []trait{
	{
		name: "Metadata", terminal: true, matches: isKind[*Metadata],
		attrs: nameValueAttrs,
	},
	{
		name: "Property", terminal: true, matches: isKind[*Property],
		attrs: nameValueAttrs,
	},
	{
		name: "Message", terminal: true, matches: isKind[*Message],
		attrs: []attribute{
			boolAttr("IsLowRelevance", func(n Node) *bool { return &n.(*Message).IsLowRelevance }),
			timeAttr("Timestamp", func(n Node) *time.Time { return &n.(*Message).Timestamp }),
			stringAttr("Text", func(n Node) *NullString { return &n.(texted).text().Text }),
		},
	},
	{
		name: "Folder", terminal: true, matches: isKind[*Folder],
		attrs: []attribute{
			boolAttr("IsLowRelevance", func(n Node) *bool { return &n.(*Folder).IsLowRelevance }),
		},
	},
	{
		name: "Named", matches: implements[named],
		attrs: []attribute{nameAttr},
	},
	{
		name: "Text", matches: implements[texted],
		attrs: []attribute{
			stringAttr("Text", func(n Node) *NullString { return &n.(texted).text().Text }),
		},
	},
	{
		name: "Timed", matches: implements[timed],
		attrs: []attribute{
			timeAttr("StartTime", func(n Node) *time.Time { return &n.(timed).timed().StartTime }),
			timeAttr("EndTime", func(n Node) *time.Time { return &n.(timed).timed().EndTime }),
		},
	},
	{
		name: "Task", terminal: true, matches: isKind[*Task],
		attrs: []attribute{
			stringAttr("FromAssembly", func(n Node) *NullString { return &n.(*Task).FromAssembly }),
			stringAttr("CommandLineArguments", func(n Node) *NullString { return &n.(*Task).CommandLineArguments }),
		},
	},
	{
		name: "Target", terminal: true, matches: isKind[*Target],
		attrs: []attribute{
			stringAttr("DependsOnTargets", func(n Node) *NullString { return &n.(*Target).DependsOnTargets }),
			boolAttr("IsLowRelevance", func(n Node) *bool { return &n.(*Target).IsLowRelevance }),
		},
	},
	{
		name: "Diagnostic", terminal: true, matches: implements[diagnostic],
		attrs: []attribute{
			stringAttr("Code", func(n Node) *NullString { return &n.(diagnostic).diagnostic().Code }),
			stringAttr("File", func(n Node) *NullString { return &n.(diagnostic).diagnostic().File }),
			intAttr("LineNumber", func(n Node) *int { return &n.(diagnostic).diagnostic().LineNumber }),
			intAttr("ColumnNumber", func(n Node) *int { return &n.(diagnostic).diagnostic().ColumnNumber }),
			intAttr("EndLineNumber", func(n Node) *int { return &n.(diagnostic).diagnostic().EndLineNumber }),
			intAttr("EndColumnNumber", func(n Node) *int { return &n.(diagnostic).diagnostic().EndColumnNumber }),
			stringAttr("ProjectFile", func(n Node) *NullString { return &n.(diagnostic).diagnostic().ProjectFile }),
		},
	},
	{
		name: "Project", terminal: true, matches: isKind[*Project],
		attrs: []attribute{
			stringAttr("ProjectFile", func(n Node) *NullString { return &n.(*Project).ProjectFile }),
		},
	},
	{
		name: "Build", terminal: true, matches: isKind[*Build],
		attrs: []attribute{
			boolAttr("Succeeded", func(n Node) *bool { return &n.(*Build).Succeeded }),
			boolAttr("IsAnalyzed", func(n Node) *bool { return &n.(*Build).IsAnalyzed }),
		},
	},
}

var nameValueAttrs = []attribute{
	stringAttr("Name", func(n Node) *NullString { return &n.(nameValue).nameValue().Name }),
	stringAttr("Value", func(n Node) *NullString { return &n.(nameValue).nameValue().Value }),
}

// nameAttr is the Name attribute of the Named trait. Double quotes are
// stripped from names when they are extracted.
var nameAttr = attribute{
	name: "Name",
	get: func(n Node) (NullString, error) {
		v := n.(named).named().Name
		if v.Valid && strings.IndexByte(v.String, '"') >= 0 {
			v.String = strings.ReplaceAll(v.String, `"`, "")
		}
		return v, nil
	},
	set: func(n Node, v NullString) error {
		n.(named).named().Name = v
		return nil
	},
}

func stringAttr(name string, field func(Node) *NullString) attribute {
	return attribute{
		name: name,
		get:  func(n Node) (NullString, error) { return *field(n), nil },
		set: func(n Node, v NullString) error {
			*field(n) = v
			return nil
		},
	}
}

// boolAttr returns an attribute backed by a bool. A null value decodes as
// false. Parsing accepts the capitalized forms written by older producers.
func boolAttr(name string, field func(Node) *bool) attribute {
	return attribute{
		name: name,
		get: func(n Node) (NullString, error) {
			return Str(strconv.FormatBool(*field(n))), nil
		},
		set: func(n Node, v NullString) error {
			if !v.Valid {
				*field(n) = false
				return nil
			}
			b, err := strconv.ParseBool(v.String)
			if err != nil {
				return errors.Newf("invalid boolean %q", v.String)
			}
			*field(n) = b
			return nil
		},
	}
}

func intAttr(name string, field func(Node) *int) attribute {
	return attribute{
		name: name,
		get: func(n Node) (NullString, error) {
			return Str(strconv.Itoa(*field(n))), nil
		},
		set: func(n Node, v NullString) error {
			if !v.Valid {
				*field(n) = 0
				return nil
			}
			i, err := strconv.Atoi(v.String)
			if err != nil {
				return errors.Newf("invalid integer %q", v.String)
			}
			*field(n) = i
			return nil
		},
	}
}

func timeAttr(name string, field func(Node) *time.Time) attribute {
	return attribute{
		name: name,
		get: func(n Node) (NullString, error) {
			t := *field(n)
			if y := t.Year(); y < 0 || y > 9999 {
				return NullString{}, errors.Newf("timestamp year %d outside of [0,9999]", y)
			}
			return Str(t.Format(timeLayout)), nil
		},
		set: func(n Node, v NullString) error {
			if !v.Valid {
				*field(n) = time.Time{}
				return nil
			}
			t, err := parseTime(v.String)
			if err != nil {
				return err
			}
			*field(n) = t
			return nil
		},
	}
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(zonelessTimeLayout, s); err == nil {
		return t, nil
	}
	return time.Time{}, errors.Newf("invalid timestamp %q", s)
}

// schema is the resolved, ordered attribute list of a kind.
type schema struct {
	names []string
	attrs []attribute
}

// schemas holds the schema of every kind, resolved once at init.
var schemas = func() (s [kindCount]schema) {
	for k := KindUnknown + 1; k < kindCount; k++ {
		s[k] = resolveSchema(newNode(k))
	}
	return s
}()

// resolveSchema computes the attribute list of a node by walking the traits
// in precedence order against a prototype of its kind.
func resolveSchema(proto Node) schema {
	var s schema
	for _, t := range traits {
		if !t.matches(proto) {
			continue
		}
		for _, a := range t.attrs {
			s.names = append(s.names, a.name)
			s.attrs = append(s.attrs, a)
		}
		if t.terminal {
			break
		}
	}
	return s
}

func lookupSchema(k Kind) (*schema, bool) {
	if k == KindUnknown || k >= kindCount {
		return nil, false
	}
	return &schemas[k], true
}

// AttributeSchema returns the ordered attribute names of the given kind. The
// result depends only on the kind. It returns nil for KindUnknown, whose
// attributes are not named.
func AttributeSchema(k Kind) []string {
	s, ok := lookupSchema(k)
	if !ok {
		return nil
	}
	return slices.Clone(s.names)
}

// Extract returns the value of the named attribute of n, rendered as it is
// written to artifacts. Booleans and integers use their canonical string form
// and timestamps use RFC 3339 with nanoseconds and zone offset.
//
// Extract returns an error marked with ErrExtraction if the attribute is not
// part of the node's schema or its value cannot be rendered.
func Extract(n Node, name string) (NullString, error) {
	if n == nil {
		return NullString{}, errors.Mark(errors.New("buildlog: nil node"), ErrExtraction)
	}
	s, ok := lookupSchema(n.Kind())
	if !ok {
		return NullString{}, errors.Mark(
			errors.Newf("buildlog: %s node has no attribute schema", n.Kind()), ErrExtraction)
	}
	for i := range s.attrs {
		if s.attrs[i].name == name {
			return extractAttr(n, &s.attrs[i])
		}
	}
	return NullString{}, errors.Mark(
		errors.Newf("buildlog: %s node has no attribute %q", n.Kind(), name), ErrExtraction)
}

func extractAttr(n Node, a *attribute) (NullString, error) {
	v, err := a.get(n)
	if err != nil {
		return NullString{}, errors.Mark(
			errors.Wrapf(err, "buildlog: extracting %s.%s", n.Kind(), errors.Safe(a.name)), ErrExtraction)
	}
	return v, nil
}
