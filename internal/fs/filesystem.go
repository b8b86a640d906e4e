// Package fs is the real-filesystem implementation of the packaging layer's
// filesystem interface.
package fs

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"tp-go/internal/tp"
)

// OSFilesystemManager performs actual filesystem operations using the os
// package. All operations are blocking and run in the calling goroutine.
type OSFilesystemManager struct{}

// NewOSFilesystemManager creates a filesystem manager that operates on the
// real filesystem.
func NewOSFilesystemManager() *OSFilesystemManager {
	return &OSFilesystemManager{}
}

// IsDir reports whether path resolves to an existing folder.
func (m *OSFilesystemManager) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// List returns the immediate entries of dir, sorted by filename.
func (m *OSFilesystemManager) List(dir string) ([]fs.DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}
	return entries, nil
}

// MakeDir creates a single folder. The parent must already exist.
func (m *OSFilesystemManager) MakeDir(path string) error {
	if err := os.Mkdir(path, 0755); err != nil {
		return fmt.Errorf("making folder: %w", err)
	}
	return nil
}

// Move relocates src to dst, preferring an atomic rename and falling back
// to copy-and-delete when src and dst live on different devices.
func (m *OSFilesystemManager) Move(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}

	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) || !errors.Is(linkErr.Err, syscall.EXDEV) {
		return fmt.Errorf("moving %s: %w", src, err)
	}

	if err := copyTree(src, dst); err != nil {
		return fmt.Errorf("copying %s across devices: %w", src, err)
	}
	if err := os.RemoveAll(src); err != nil {
		return fmt.Errorf("removing %s after copy: %w", src, err)
	}
	return nil
}

// RemoveDirIfEmpty removes path only when it contains no entries. A
// non-empty folder is left alone without error.
func (m *OSFilesystemManager) RemoveDirIfEmpty(path string) error {
	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("reading directory: %w", err)
	}
	if len(entries) != 0 {
		return nil
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("removing folder: %w", err)
	}
	return nil
}

// copyTree duplicates a file or folder tree from src to dst, preserving
// permissions.
func copyTree(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return copyFile(src, dst, info.Mode())
	}

	if err := os.Mkdir(dst, info.Mode().Perm()); err != nil {
		return err
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := copyTree(filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string, mode fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, mode.Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}

// Compile-time check that OSFilesystemManager implements the interface.
var _ tp.FilesystemManager = (*OSFilesystemManager)(nil)
