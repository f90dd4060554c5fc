// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package content supplies raw document content to the routes that render it.
package content

import (
	"errors"
	"io/fs"
	"os"
)

// Store loads a named document. A missing document is reported as an empty
// string with a nil error; only unexpected failures return an error.
type Store interface {
	Load(name string) (string, error)
}

var _ Store = (*FSStore)(nil)

// FSStore reads documents from a file system on every call, so edits are
// picked up without a restart.
type FSStore struct {
	fsys fs.FS
}

// NewFSStore creates a store backed by fsys.
func NewFSStore(fsys fs.FS) *FSStore {
	return &FSStore{fsys: fsys}
}

// NewDirStore creates a store backed by the directory dir.
func NewDirStore(dir string) *FSStore {
	return NewFSStore(os.DirFS(dir))
}

// Load implements Store.
func (s *FSStore) Load(name string) (string, error) {
	b, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return string(b), nil
}
