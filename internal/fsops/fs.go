// Package fsops provides filesystem operations behind a small interface.
//
// All file mutations in gitecho (the pre-push hook file, capture artifacts)
// go through FS so that command logic stays testable without touching disk.
// Writes are atomic via temp file + rename.
package fsops

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// FS provides an abstraction for the filesystem operations gitecho needs.
type FS interface {
	// ReadFile reads the entire contents of a file.
	ReadFile(path string) ([]byte, error)

	// AtomicWrite writes data to path atomically using temp file + rename.
	AtomicWrite(path string, data []byte, perm os.FileMode) error

	// Remove removes a file.
	Remove(path string) error

	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string, perm os.FileMode) error
}

// RealFS implements FS using actual OS operations.
type RealFS struct{}

// NewRealFS creates a new RealFS.
func NewRealFS() *RealFS {
	return &RealFS{}
}

// ReadFile reads the entire contents of a file.
func (fs *RealFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// AtomicWrite writes data to path atomically.
// The data is written to a temp file in the same directory, synced, and
// renamed over the destination so readers never observe a partial write.
func (fs *RealFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".gitecho-tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		cleanup()
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// Remove removes a file.
func (fs *RealFS) Remove(path string) error {
	return os.Remove(path)
}

// MkdirAll creates a directory and all parent directories.
func (fs *RealFS) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// FakeFS implements FS with an in-memory file map for testing.
type FakeFS struct {
	// Files maps path -> content. Mutated by writes and removes.
	Files map[string][]byte

	// Perms records the permission passed to the last AtomicWrite per path.
	Perms map[string]os.FileMode

	// Removed records every path passed to Remove, in order, including
	// paths that did not exist.
	Removed []string

	// MkdirCalls records every path passed to MkdirAll, in order.
	MkdirCalls []string

	// ReadErr, if set, is returned by ReadFile for every path.
	ReadErr error

	// WriteErr, if set, is returned by AtomicWrite for every path.
	WriteErr error
}

// NewFakeFS creates a new FakeFS.
func NewFakeFS() *FakeFS {
	return &FakeFS{
		Files: make(map[string][]byte),
		Perms: make(map[string]os.FileMode),
	}
}

// ReadFile returns the in-memory content for path.
func (fs *FakeFS) ReadFile(path string) ([]byte, error) {
	if fs.ReadErr != nil {
		return nil, fs.ReadErr
	}
	data, ok := fs.Files[path]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// AtomicWrite stores the content in memory.
func (fs *FakeFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	if fs.WriteErr != nil {
		return fs.WriteErr
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	fs.Files[path] = buf
	fs.Perms[path] = perm
	return nil
}

// Remove deletes the path from the in-memory map and records the call.
func (fs *FakeFS) Remove(path string) error {
	fs.Removed = append(fs.Removed, path)
	if _, ok := fs.Files[path]; !ok {
		return &os.PathError{Op: "remove", Path: path, Err: os.ErrNotExist}
	}
	delete(fs.Files, path)
	return nil
}

// MkdirAll records the call; the in-memory map needs no directories.
func (fs *FakeFS) MkdirAll(path string, perm os.FileMode) error {
	fs.MkdirCalls = append(fs.MkdirCalls, path)
	return nil
}

// Paths returns the stored paths in sorted order.
func (fs *FakeFS) Paths() []string {
	paths := make([]string, 0, len(fs.Files))
	for p := range fs.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
