package tp

import "io/fs"

// FilesystemManager abstracts the filesystem operations the packaging layer
// performs, so tests can substitute an implementation that forces individual
// moves to fail.
type FilesystemManager interface {
	// IsDir reports whether path resolves to an existing folder.
	IsDir(path string) bool

	// List returns the immediate entries of dir, sorted by filename.
	List(dir string) ([]fs.DirEntry, error)

	// Move relocates src to dst. Both are full paths; dst must not exist.
	Move(src, dst string) error

	// MakeDir creates a single folder. The parent must already exist.
	MakeDir(path string) error

	// RemoveDirIfEmpty removes path only when it contains no entries.
	// Removing a non-empty folder is not an error; it is a no-op.
	RemoveDirIfEmpty(path string) error
}
