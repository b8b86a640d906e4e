package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tp-go/internal/tp"
)

const emptySHA256 = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

func snapshotWithFile(t *testing.T, name string, content []byte) (*DirectoryEntry, *FileEntry) {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, name), content, 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	root, err := NewTreeSnapshot(dir)
	if err != nil {
		t.Fatalf("NewTreeSnapshot() error = %v", err)
	}
	files, err := root.Files()
	if err != nil {
		t.Fatalf("Files() error = %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("len(Files()) = %d, want 1", len(files))
	}
	return root, files[0]
}

func TestNewFileEntry_Errors(t *testing.T) {
	dir := t.TempDir()
	root, err := NewTreeSnapshot(dir)
	if err != nil {
		t.Fatalf("NewTreeSnapshot() error = %v", err)
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := newFileEntry(filepath.Join(dir, "nope.txt"), 0, root)
		if !errors.Is(err, tp.ErrNotFound) {
			t.Errorf("newFileEntry() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("folder instead of file", func(t *testing.T) {
		_, err := newFileEntry(dir, 0, root)
		if !errors.Is(err, tp.ErrNotFound) {
			t.Errorf("newFileEntry() error = %v, want ErrNotFound", err)
		}
	})
}

func TestFileEntry_Metadata(t *testing.T) {
	_, f := snapshotWithFile(t, "report.txt", []byte("ten bytes!"))

	if f.Basename() != "report.txt" {
		t.Errorf("Basename() = %q, want %q", f.Basename(), "report.txt")
	}
	if f.RelPath() != "report.txt" {
		t.Errorf("RelPath() = %q, want %q", f.RelPath(), "report.txt")
	}
	if f.Size() != 10 {
		t.Errorf("Size() = %d, want 10", f.Size())
	}
	if !strings.HasPrefix(f.MIMEType(), "text/plain") {
		t.Errorf("MIMEType() = %q, want text/plain", f.MIMEType())
	}

	for name, ts := range map[string]string{"created": f.Created(), "modified": f.Modified()} {
		if !strings.HasSuffix(ts, "Z") {
			t.Errorf("%s timestamp %q lacks trailing Z", name, ts)
		}
		if _, err := time.Parse(timeFormat, ts); err != nil {
			t.Errorf("%s timestamp %q is not ISO-8601: %v", name, ts, err)
		}
	}
}

func TestFileEntry_MIMETypeFallback(t *testing.T) {
	tests := []struct {
		name string
		file string
		want string
	}{
		{"unknown extension", "acct.pst", "application/octet-stream"},
		{"no extension", "README", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, f := snapshotWithFile(t, tt.file, []byte("x"))
			if f.MIMEType() != tt.want {
				t.Errorf("MIMEType() = %q, want %q", f.MIMEType(), tt.want)
			}
		})
	}
}

func TestFileEntry_Checksum(t *testing.T) {
	t.Run("empty file has well-known digest", func(t *testing.T) {
		_, f := snapshotWithFile(t, "empty.dat", nil)

		got, err := f.Checksum(tp.SHA256)
		if err != nil {
			t.Fatalf("Checksum() error = %v", err)
		}
		if got != emptySHA256 {
			t.Errorf("Checksum() = %q, want %q", got, emptySHA256)
		}
	})

	t.Run("memoized per algorithm", func(t *testing.T) {
		_, f := snapshotWithFile(t, "memo.dat", nil)

		first, err := f.Checksum(tp.SHA256)
		if err != nil {
			t.Fatalf("Checksum() error = %v", err)
		}

		// Rewrite the file; the memoized digest must not change.
		if err := os.WriteFile(filepath.FromSlash(f.Path()), []byte("different"), 0644); err != nil {
			t.Fatal(err)
		}

		second, err := f.Checksum(tp.SHA256)
		if err != nil {
			t.Fatalf("Checksum() second call error = %v", err)
		}
		if first != second {
			t.Errorf("Checksum() recomputed: %q vs %q", first, second)
		}
	})

	t.Run("unsupported algorithm", func(t *testing.T) {
		_, f := snapshotWithFile(t, "x.dat", []byte("x"))
		if _, err := f.Checksum(tp.Algorithm("MD5")); !errors.Is(err, tp.ErrUnsupportedAlgorithm) {
			t.Errorf("Checksum() error = %v, want ErrUnsupportedAlgorithm", err)
		}
	})

	t.Run("unreadable file", func(t *testing.T) {
		_, f := snapshotWithFile(t, "gone.dat", []byte("x"))
		if err := os.Remove(filepath.FromSlash(f.Path())); err != nil {
			t.Fatal(err)
		}
		if _, err := f.Checksum(tp.SHA256); !errors.Is(err, tp.ErrUnreadable) {
			t.Errorf("Checksum() error = %v, want ErrUnreadable", err)
		}
	})
}
