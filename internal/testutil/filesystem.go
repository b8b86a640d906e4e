package testutil

import (
	"fmt"
	"io/fs"
	"path/filepath"

	tpfs "tp-go/internal/fs"
	"tp-go/internal/tp"
)

// FaultyFilesystemManager wraps the real filesystem manager and forces
// moves of selected items to fail, so tests can exercise per-item failure
// containment without OS-level tricks.
type FaultyFilesystemManager struct {
	real      *tpfs.OSFilesystemManager
	failMoves map[string]bool // keyed by source basename
}

// NewFaultyFilesystemManager creates a manager that fails any Move whose
// source basename appears in failBasenames.
func NewFaultyFilesystemManager(failBasenames ...string) *FaultyFilesystemManager {
	failMoves := make(map[string]bool, len(failBasenames))
	for _, name := range failBasenames {
		failMoves[name] = true
	}
	return &FaultyFilesystemManager{
		real:      tpfs.NewOSFilesystemManager(),
		failMoves: failMoves,
	}
}

func (m *FaultyFilesystemManager) IsDir(path string) bool { return m.real.IsDir(path) }

func (m *FaultyFilesystemManager) List(dir string) ([]fs.DirEntry, error) { return m.real.List(dir) }

func (m *FaultyFilesystemManager) MakeDir(path string) error { return m.real.MakeDir(path) }

func (m *FaultyFilesystemManager) Move(src, dst string) error {
	if m.failMoves[filepath.Base(src)] {
		return fmt.Errorf("injected move failure: %s", src)
	}
	return m.real.Move(src, dst)
}

func (m *FaultyFilesystemManager) RemoveDirIfEmpty(path string) error {
	return m.real.RemoveDirIfEmpty(path)
}

// Compile-time check
var _ tp.FilesystemManager = (*FaultyFilesystemManager)(nil)
