// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"os"
	"path/filepath"
	"sort"
	"sync"
)

type (
	// FileEntry is a regular file selected for the archive. Its content is
	// read lazily, at most once.
	FileEntry struct {
		// Path is the normalized source path.
		Path string

		read    sync.Once
		raw     []byte
		readErr error
	}

	// SymlinkEntry is a symbolic link selected for the archive. Target is the
	// literal link text, never resolved.
	SymlinkEntry struct {
		Path   string
		Target string
	}

	// Set accumulates the entries of one generation. It is owned by a single
	// resolver and discarded once the script has been emitted.
	Set struct {
		files    []*FileEntry
		symlinks []SymlinkEntry
		dirs     map[string]struct{}
		seen     map[string]struct{}
	}
)

// Bytes returns the file content, reading it from disk on first use.
func (f *FileEntry) Bytes() ([]byte, error) {
	f.read.Do(func() {
		data, err := os.ReadFile(f.Path)
		if err != nil {
			f.readErr = &InputResolutionError{Path: f.Path, Err: err}
			return
		}
		f.raw = data
	})
	return f.raw, f.readErr
}

// NewSet returns an empty entry set.
func NewSet() *Set {
	return &Set{
		dirs: make(map[string]struct{}),
		seen: make(map[string]struct{}),
	}
}

// Contains reports whether path was already classified as a file, a symlink
// or a traversed directory. Directories recorded only as parents of other
// entries do not count, so classifying them later still walks them.
func (s *Set) Contains(path string) bool {
	_, ok := s.seen[path]
	return ok
}

func (s *Set) addFile(path string) {
	s.seen[path] = struct{}{}
	s.files = append(s.files, &FileEntry{Path: path})
	s.addParent(path)
}

func (s *Set) addSymlink(path, target string) {
	s.seen[path] = struct{}{}
	s.symlinks = append(s.symlinks, SymlinkEntry{Path: path, Target: target})
	s.addParent(path)
}

func (s *Set) markTraversed(path string) {
	s.seen[path] = struct{}{}
}

func (s *Set) addParent(path string) {
	s.dirs[filepath.Dir(path)] = struct{}{}
}

// Files returns the file entries in discovery order.
func (s *Set) Files() []*FileEntry { return s.files }

// Symlinks returns the symlink entries in discovery order.
func (s *Set) Symlinks() []SymlinkEntry { return s.symlinks }

// Directories returns the derived directory set, sorted lexically.
func (s *Set) Directories() []string {
	dirs := make([]string, 0, len(s.dirs))
	for dir := range s.dirs {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}

// Empty reports whether nothing was selected.
func (s *Set) Empty() bool {
	return len(s.files) == 0 && len(s.symlinks) == 0 && len(s.dirs) == 0
}
