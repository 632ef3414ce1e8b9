// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package buildlog

import "strings"

// StringCache deduplicates text values. Values are normalized before lookup:
// every "\r\n" is replaced with "\n" and then every remaining "\r" with "\n".
// Values whose normalized content is equal share one canonical string.
//
// A StringCache is not safe for concurrent use.
type StringCache struct {
	m map[string]string
}

// NewStringCache returns an empty StringCache.
func NewStringCache() *StringCache {
	return &StringCache{m: make(map[string]string)}
}

// Intern returns the canonical instance of the normalized value of s. A null
// value is returned unchanged.
func (c *StringCache) Intern(s NullString) NullString {
	if !s.Valid {
		return s
	}
	return Str(c.InternString(s.String))
}

// InternString returns the canonical instance of the normalized value of s.
func (c *StringCache) InternString(s string) string {
	s = normalizeLineEndings(s)
	if existing, ok := c.m[s]; ok {
		return existing
	}
	if c.m == nil {
		c.m = make(map[string]string)
	}
	s = strings.Clone(s)
	c.m[s] = s
	return s
}

// Instances returns the distinct normalized strings interned so far, in no
// particular order.
func (c *StringCache) Instances() []string {
	out := make([]string, 0, len(c.m))
	for s := range c.m {
		out = append(out, s)
	}
	return out
}

// Len returns the number of distinct strings interned so far.
func (c *StringCache) Len() int {
	return len(c.m)
}

func normalizeLineEndings(s string) string {
	if strings.IndexByte(s, '\r') < 0 {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
