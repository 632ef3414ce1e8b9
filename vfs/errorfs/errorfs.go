// Copyright 2020 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package errorfs provides a vfs.FS that injects errors into file operations.
package errorfs

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/structuredlog/buildlog/vfs"
)

// ErrInjected is an error artificially injected for testing fs error paths.
var ErrInjected = errors.New("injected error")

// Op is an enum describing the type of operation.
type Op int

const (
	// OpCreate describes a create file operation.
	OpCreate Op = iota
	// OpOpen describes a file open operation.
	OpOpen
	// OpRemove describes a remove file operation.
	OpRemove
	// OpStat describes a path-based stat operation.
	OpStat
	// OpFileClose describes a close file operation.
	OpFileClose
	// OpFileRead describes a file read operation.
	OpFileRead
	// OpFileWrite describes a file write operation.
	OpFileWrite
	// OpFileStat describes a file stat operation.
	OpFileStat
	// OpFileSync describes a file sync operation.
	OpFileSync
)

// OpKind returns the operation's kind.
func (o Op) OpKind() OpKind {
	switch o {
	case OpOpen, OpStat, OpFileRead, OpFileStat:
		return OpKindRead
	case OpCreate, OpRemove, OpFileClose, OpFileWrite, OpFileSync:
		return OpKindWrite
	default:
		panic(fmt.Sprintf("unrecognized op %v\n", o))
	}
}

// OpKind is an enum describing whether an operation is a read or write
// operation.
type OpKind int

const (
	// OpKindRead describes read operations.
	OpKindRead OpKind = iota
	// OpKindWrite describes write operations.
	OpKindWrite
)

// Injector injects errors into FS operations.
type Injector interface {
	// MaybeError is invoked by an errorfs before an operation is executed. It
	// is passed an enum indicating the type of operation and a path of the
	// subject file.
	MaybeError(op Op, path string) error
}

// InjectorFunc implements the Injector interface for a function with
// MaybeError's signature.
type InjectorFunc func(Op, string) error

// MaybeError implements the Injector interface.
func (f InjectorFunc) MaybeError(op Op, path string) error { return f(op, path) }

// Always returns an injector that always injects an error.
func Always() Injector { return InjectorFunc(func(Op, string) error { return ErrInjected }) }

// OnIndex constructs an injector that returns an error on the (n+1)-th
// invocation of its MaybeError function for which next injects an error.
func OnIndex(index int32, next Injector) *InjectIndex {
	ii := &InjectIndex{next: next}
	ii.index.Store(index)
	return ii
}

// InjectIndex implements Injector, injecting an error at a specific index.
type InjectIndex struct {
	index atomic.Int32
	next  Injector
}

// Index returns the index at which the error will be injected.
func (ii *InjectIndex) Index() int32 { return ii.index.Load() }

// MaybeError implements the Injector interface.
func (ii *InjectIndex) MaybeError(op Op, path string) error {
	if ii.index.Add(-1) != -1 {
		return nil
	}
	return ii.next.MaybeError(op, path)
}

// OnOps returns an injector that defers to next only for the given ops.
func OnOps(next Injector, ops ...Op) Injector {
	return InjectorFunc(func(op Op, path string) error {
		for _, o := range ops {
			if o == op {
				return next.MaybeError(op, path)
			}
		}
		return nil
	})
}

// Reads returns an injector that defers to next only for read operations.
func Reads(next Injector) Injector {
	return InjectorFunc(func(op Op, path string) error {
		if op.OpKind() != OpKindRead {
			return nil
		}
		return next.MaybeError(op, path)
	})
}

// Writes returns an injector that defers to next only for write operations.
func Writes(next Injector) Injector {
	return InjectorFunc(func(op Op, path string) error {
		if op.OpKind() != OpKindWrite {
			return nil
		}
		return next.MaybeError(op, path)
	})
}

// FS implements vfs.FS, injecting errors into its operations.
type FS struct {
	fs  vfs.FS
	inj Injector
}

var _ vfs.FS = (*FS)(nil)

// Wrap wraps an existing vfs.FS implementation, returning a new vfs.FS
// implementation that shadows operations to the provided FS. It uses the
// provided Injector for deciding when to inject errors. If an error is
// injected, FS propagates the error instead of shadowing the operation.
func Wrap(fs vfs.FS, inj Injector) *FS {
	return &FS{fs: fs, inj: inj}
}

// Create implements FS.Create.
func (fs *FS) Create(name string) (vfs.File, error) {
	if err := fs.inj.MaybeError(OpCreate, name); err != nil {
		return nil, err
	}
	f, err := fs.fs.Create(name)
	if err != nil {
		return nil, err
	}
	return &errorFile{name: name, file: f, inj: fs.inj}, nil
}

// Open implements FS.Open.
func (fs *FS) Open(name string) (vfs.File, error) {
	if err := fs.inj.MaybeError(OpOpen, name); err != nil {
		return nil, err
	}
	f, err := fs.fs.Open(name)
	if err != nil {
		return nil, err
	}
	return &errorFile{name: name, file: f, inj: fs.inj}, nil
}

// Remove implements FS.Remove.
func (fs *FS) Remove(name string) error {
	if err := fs.inj.MaybeError(OpRemove, name); err != nil {
		return err
	}
	return fs.fs.Remove(name)
}

// Stat implements FS.Stat.
func (fs *FS) Stat(name string) (os.FileInfo, error) {
	if err := fs.inj.MaybeError(OpStat, name); err != nil {
		return nil, err
	}
	return fs.fs.Stat(name)
}

// PathBase implements FS.PathBase.
func (fs *FS) PathBase(p string) string {
	return fs.fs.PathBase(p)
}

type errorFile struct {
	name string
	file vfs.File
	inj  Injector
}

func (f *errorFile) Close() error {
	// Close always releases the underlying file, even if an error is
	// injected.
	err := f.inj.MaybeError(OpFileClose, f.name)
	return errors.CombineErrors(err, f.file.Close())
}

func (f *errorFile) Read(p []byte) (int, error) {
	if err := f.inj.MaybeError(OpFileRead, f.name); err != nil {
		return 0, err
	}
	return f.file.Read(p)
}

func (f *errorFile) Write(p []byte) (int, error) {
	if err := f.inj.MaybeError(OpFileWrite, f.name); err != nil {
		return 0, err
	}
	return f.file.Write(p)
}

func (f *errorFile) Stat() (os.FileInfo, error) {
	if err := f.inj.MaybeError(OpFileStat, f.name); err != nil {
		return nil, err
	}
	return f.file.Stat()
}

func (f *errorFile) Sync() error {
	if err := f.inj.MaybeError(OpFileSync, f.name); err != nil {
		return err
	}
	return f.file.Sync()
}
