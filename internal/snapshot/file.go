package snapshot

import (
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"tp-go/internal/tp"
)

// timeFormat renders timestamps as UTC ISO-8601 with a trailing Z, the form
// downstream metadata renderers embed verbatim.
const timeFormat = "2006-01-02T15:04:05Z"

// fallbackMIMEType is reported when the extension maps to nothing.
const fallbackMIMEType = "application/octet-stream"

// FileEntry is a read-only descriptor of one file discovered under a tree
// snapshot. It is never mutated after construction; checksums are computed
// on first request and memoized per algorithm.
type FileEntry struct {
	absPath  string
	relPath  string
	basename string
	created  string
	modified string
	size     int64
	mimeType string
	index    int

	checksums map[tp.Algorithm]string
}

// newFileEntry describes the file at path. index is the file's position
// within the sequence that discovered it; root is the snapshot root against
// which the relative path is computed.
func newFileEntry(path string, index int, root *DirectoryEntry) (*FileEntry, error) {
	info, err := statRegular(path)
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	rel, err := root.relativeTo(abs)
	if err != nil {
		return nil, err
	}

	return &FileEntry{
		absPath:   filepath.ToSlash(abs),
		relPath:   rel,
		basename:  filepath.Base(abs),
		created:   createdTimestamp(info),
		modified:  info.ModTime().UTC().Format(timeFormat),
		size:      info.Size(),
		mimeType:  guessMIMEType(abs),
		index:     index,
		checksums: make(map[tp.Algorithm]string),
	}, nil
}

// Path returns the absolute path with forward-slash separators.
func (f *FileEntry) Path() string { return f.absPath }

// RelPath returns the path relative to the snapshot root, always with
// forward-slash separators regardless of host platform.
func (f *FileEntry) RelPath() string { return f.relPath }

// Basename returns the file's base name.
func (f *FileEntry) Basename() string { return f.basename }

// Created returns the creation timestamp as UTC ISO-8601 with trailing Z.
func (f *FileEntry) Created() string { return f.created }

// Modified returns the modification timestamp as UTC ISO-8601 with trailing Z.
func (f *FileEntry) Modified() string { return f.modified }

// Size returns the file size in bytes.
func (f *FileEntry) Size() int64 { return f.size }

// MIMEType returns the best-effort MIME type guessed from the filename
// extension. File contents are never inspected.
func (f *FileEntry) MIMEType() string { return f.mimeType }

// Index returns the file's position within the sequence that produced it.
func (f *FileEntry) Index() int { return f.index }

// Checksum returns the hex digest of the file under the given algorithm.
// The digest is computed at most once per algorithm per entry; repeated
// calls return the memoized value. The file is read in bounded chunks, so
// arbitrarily large files hash with constant working memory.
func (f *FileEntry) Checksum(algorithm tp.Algorithm) (string, error) {
	if digest, ok := f.checksums[algorithm]; ok {
		return digest, nil
	}

	digest, err := tp.SumFile(algorithm, f.absPath)
	if err != nil {
		return "", err
	}

	f.checksums[algorithm] = digest
	return digest, nil
}

// statRegular stats path and verifies it is an existing regular file.
func statRegular(path string) (fs.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", tp.ErrNotFound, path)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: not a regular file: %s", tp.ErrNotFound, path)
	}
	return info, nil
}

// createdTimestamp formats the platform creation time, falling back to the
// modification time where stat data is unavailable.
func createdTimestamp(info fs.FileInfo) string {
	if t, ok := createdAt(info); ok {
		return t.UTC().Format(timeFormat)
	}
	return info.ModTime().UTC().Format(timeFormat)
}

// guessMIMEType maps the filename extension to a MIME type, stripping any
// parameters the platform table attaches (e.g. "; charset=utf-8").
func guessMIMEType(path string) string {
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		return fallbackMIMEType
	}
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	return mimeType
}
