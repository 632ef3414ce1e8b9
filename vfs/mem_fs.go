// Copyright 2012 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package vfs // import "github.com/structuredlog/buildlog/vfs"

import (
	"io"
	"os"
	"path"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/oserror"
)

// NewMem returns a new memory-backed FS implementation. Paths are flat: there
// are no directories.
func NewMem() *MemFS {
	return &MemFS{files: make(map[string]*memNode)}
}

// MemFS implements FS.
type MemFS struct {
	mu    sync.Mutex
	files map[string]*memNode
}

var _ FS = (*MemFS)(nil)

type memNode struct {
	name string
	mu   struct {
		sync.Mutex
		data    []byte
		modTime time.Time
	}
}

// Create implements FS.Create.
func (y *MemFS) Create(fullname string) (File, error) {
	y.mu.Lock()
	defer y.mu.Unlock()
	n := &memNode{name: path.Base(fullname)}
	n.mu.modTime = time.Now()
	y.files[fullname] = n
	return &memFile{n: n, write: true}, nil
}

// Open implements FS.Open.
func (y *MemFS) Open(fullname string) (File, error) {
	y.mu.Lock()
	defer y.mu.Unlock()
	n, ok := y.files[fullname]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: fullname, Err: oserror.ErrNotExist}
	}
	return &memFile{n: n, read: true}, nil
}

// Remove implements FS.Remove.
func (y *MemFS) Remove(fullname string) error {
	y.mu.Lock()
	defer y.mu.Unlock()
	if _, ok := y.files[fullname]; !ok {
		return &os.PathError{Op: "remove", Path: fullname, Err: oserror.ErrNotExist}
	}
	delete(y.files, fullname)
	return nil
}

// Stat implements FS.Stat.
func (y *MemFS) Stat(fullname string) (os.FileInfo, error) {
	y.mu.Lock()
	defer y.mu.Unlock()
	n, ok := y.files[fullname]
	if !ok {
		return nil, &os.PathError{Op: "stat", Path: fullname, Err: oserror.ErrNotExist}
	}
	return n.stat(), nil
}

// PathBase implements FS.PathBase.
func (*MemFS) PathBase(p string) string {
	return path.Base(p)
}

// Bytes returns a copy of the contents of the named file.
func (y *MemFS) Bytes(fullname string) ([]byte, error) {
	y.mu.Lock()
	n, ok := y.files[fullname]
	y.mu.Unlock()
	if !ok {
		return nil, &os.PathError{Op: "read", Path: fullname, Err: oserror.ErrNotExist}
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]byte(nil), n.mu.data...), nil
}

func (n *memNode) stat() *memFileInfo {
	n.mu.Lock()
	defer n.mu.Unlock()
	return &memFileInfo{
		name:    n.name,
		size:    int64(len(n.mu.data)),
		modTime: n.mu.modTime,
	}
}

// memFile is a reader or writer of a node's data. Implements File.
type memFile struct {
	n           *memNode
	rpos        int
	read, write bool
	closed      bool
}

var _ File = (*memFile)(nil)

func (f *memFile) Close() error {
	if f.closed {
		return errors.New("buildlog/vfs: file already closed")
	}
	f.closed = true
	return nil
}

func (f *memFile) Read(p []byte) (int, error) {
	if !f.read {
		return 0, errors.New("buildlog/vfs: file was not opened for reading")
	}
	if f.closed {
		return 0, os.ErrClosed
	}
	f.n.mu.Lock()
	defer f.n.mu.Unlock()
	if f.rpos >= len(f.n.mu.data) {
		return 0, io.EOF
	}
	n := copy(p, f.n.mu.data[f.rpos:])
	f.rpos += n
	return n, nil
}

func (f *memFile) Write(p []byte) (int, error) {
	if !f.write {
		return 0, errors.New("buildlog/vfs: file was not created for writing")
	}
	if f.closed {
		return 0, os.ErrClosed
	}
	f.n.mu.Lock()
	defer f.n.mu.Unlock()
	f.n.mu.modTime = time.Now()
	f.n.mu.data = append(f.n.mu.data, p...)
	return len(p), nil
}

func (f *memFile) Stat() (os.FileInfo, error) {
	return f.n.stat(), nil
}

func (f *memFile) Sync() error {
	return nil
}

// memFileInfo implements os.FileInfo for a memFile.
type memFileInfo struct {
	name    string
	size    int64
	modTime time.Time
}

var _ os.FileInfo = (*memFileInfo)(nil)

func (f *memFileInfo) Name() string {
	return f.name
}

func (f *memFileInfo) Size() int64 {
	return f.size
}

func (f *memFileInfo) Mode() os.FileMode {
	return 0666
}

func (f *memFileInfo) ModTime() time.Time {
	return f.modTime
}

func (f *memFileInfo) IsDir() bool {
	return false
}

func (f *memFileInfo) Sys() interface{} {
	return nil
}
