// Package snapshot models a rooted, read-only view over a live directory
// tree. Entries are descriptors, not handles: every enumeration re-reads
// the filesystem, so two calls may observe different results if the tree
// changes between them. Callers must not enumerate a tree they are
// concurrently modifying.
package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tp-go/internal/tp"
)

// DirectoryEntry is a read-only descriptor of one folder. The entry opened
// with a nil root is the snapshot root: the unique authority every
// descendant's relative path resolves against.
type DirectoryEntry struct {
	absPath  string
	relPath  string
	basename string
	created  string
	modified string

	// root points at the snapshot root; for the root entry it points at
	// itself. The reference is never used to mutate the root.
	root *DirectoryEntry
}

// NewTreeSnapshot roots a snapshot at path. It holds no live handles; the
// returned entry is torn down by garbage collection alone.
func NewTreeSnapshot(path string) (*DirectoryEntry, error) {
	return Open(path, nil)
}

// Open describes the folder at path. root is the snapshot root the entry
// belongs to, or nil when the entry is itself the root. Fails with
// ErrNotADirectory if path is not an existing folder.
func Open(path string, root *DirectoryEntry) (*DirectoryEntry, error) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", tp.ErrNotADirectory, path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	d := &DirectoryEntry{
		absPath:  filepath.ToSlash(abs),
		basename: filepath.Base(abs),
		created:  createdTimestamp(info),
		modified: info.ModTime().UTC().Format(timeFormat),
	}

	if root == nil {
		d.root = d
		d.relPath = ""
	} else {
		d.root = root
		rel, err := root.relativeTo(abs)
		if err != nil {
			return nil, err
		}
		d.relPath = rel
	}

	return d, nil
}

// Path returns the absolute path with forward-slash separators.
func (d *DirectoryEntry) Path() string { return d.absPath }

// RelPath returns the path relative to the snapshot root. It is the empty
// string only for the root itself.
func (d *DirectoryEntry) RelPath() string { return d.relPath }

// Basename returns the folder's base name.
func (d *DirectoryEntry) Basename() string { return d.basename }

// Created returns the creation timestamp as UTC ISO-8601 with trailing Z.
func (d *DirectoryEntry) Created() string { return d.created }

// Modified returns the modification timestamp as UTC ISO-8601 with trailing Z.
func (d *DirectoryEntry) Modified() string { return d.modified }

// Root returns the snapshot root this entry belongs to.
func (d *DirectoryEntry) Root() *DirectoryEntry { return d.root }

// IsRoot reports whether this entry is the snapshot root.
func (d *DirectoryEntry) IsRoot() bool { return d.root == d }

// Files returns the folder's immediate regular files, in directory
// enumeration order. The listing is recomputed from the live filesystem on
// every call.
func (d *DirectoryEntry) Files() ([]*FileEntry, error) {
	return d.enumerateFiles(false)
}

// RFiles returns every regular file in the subtree, pre-order: a folder's
// own files always precede those of its (lexicographically sorted)
// subfolders. Relative paths and indices are computed against the snapshot
// root, never the immediate parent.
func (d *DirectoryEntry) RFiles() ([]*FileEntry, error) {
	return d.enumerateFiles(true)
}

// Dirs returns the folder's immediate subfolders in lexicographic order.
func (d *DirectoryEntry) Dirs() ([]*DirectoryEntry, error) {
	return d.enumerateDirs(false)
}

// RDirs returns every subfolder in the subtree, pre-order: a folder's own
// subfolders always precede its grandchildren.
func (d *DirectoryEntry) RDirs() ([]*DirectoryEntry, error) {
	return d.enumerateDirs(true)
}

func (d *DirectoryEntry) enumerateFiles(recursive bool) ([]*FileEntry, error) {
	var files []*FileEntry
	err := walkFolders(d.absPath, recursive, func(listing folderListing) error {
		for _, path := range listing.files {
			entry, err := newFileEntry(path, len(files), d.root)
			if err != nil {
				return err
			}
			files = append(files, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (d *DirectoryEntry) enumerateDirs(recursive bool) ([]*DirectoryEntry, error) {
	var dirs []*DirectoryEntry
	err := walkFolders(d.absPath, recursive, func(listing folderListing) error {
		for _, path := range listing.subdirs {
			entry, err := Open(path, d.root)
			if err != nil {
				return err
			}
			dirs = append(dirs, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dirs, nil
}

// relativeTo computes abs relative to the snapshot root, normalized to
// forward slashes.
func (d *DirectoryEntry) relativeTo(abs string) (string, error) {
	rel, err := filepath.Rel(filepath.FromSlash(d.root.absPath), abs)
	if err != nil {
		return "", fmt.Errorf("computing path relative to %s: %w", d.root.absPath, err)
	}
	rel = filepath.ToSlash(rel)
	if rel == "." {
		rel = ""
	}
	if strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("path escapes snapshot root: %s", abs)
	}
	return rel, nil
}
