package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// HotFolder describes a test hot folder to build on disk. Paths in Files
// are relative to the hot folder root and use forward slashes; Dirs lists
// folders to create even when no file lands in them.
type HotFolder struct {
	Files map[string]string // relative path -> content
	Dirs  []string
}

// BuildHotFolder materializes a hot folder under a temp directory and
// returns its path.
func BuildHotFolder(t *testing.T, hf HotFolder) string {
	t.Helper()

	root := t.TempDir()

	for _, dir := range hf.Dirs {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(dir)), 0755); err != nil {
			t.Fatalf("creating folder %s: %v", dir, err)
		}
	}

	for rel, content := range hf.Files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("creating parent of %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("writing %s: %v", rel, err)
		}
	}

	return root
}

// StandardHotFolder builds the canonical complete hot folder for account:
// a pst file, one mime file, one eaxs file and one metadata file.
func StandardHotFolder(t *testing.T, account string) string {
	t.Helper()

	return BuildHotFolder(t, HotFolder{
		Files: map[string]string{
			"pst/" + account + ".pst":                     "pst-bytes!",
			"mime/" + account + "/msg_0001.eml":           "mime message",
			"eaxs/" + account + "/" + account + "__e.xml": "<eaxs/>",
			"metadata/" + account + "/events.log":         "event",
		},
	})
}
