package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
)

// folderListing holds the immediate contents of one visited folder, split
// into regular files and subfolders, each lexicographically sorted.
type folderListing struct {
	path    string
	files   []string
	subdirs []string
}

// walkFolders is the single traversal primitive behind every enumeration
// mode. It visits path, then — when recursive — each subfolder in sorted
// order, always reporting a folder's own children before descending into
// grandchildren (pre-order). The filesystem is re-read on every call, so
// the view is only as stable as the tree underneath it.
func walkFolders(path string, recursive bool, visit func(listing folderListing) error) error {
	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("reading directory %s: %w", path, err)
	}

	listing := folderListing{path: path}
	for _, entry := range entries {
		child := filepath.Join(path, entry.Name())
		switch {
		case entry.IsDir():
			listing.subdirs = append(listing.subdirs, child)
		case entry.Type().IsRegular():
			listing.files = append(listing.files, child)
		}
	}

	if err := visit(listing); err != nil {
		return err
	}

	if recursive {
		for _, subdir := range listing.subdirs {
			if err := walkFolders(subdir, true, visit); err != nil {
				return err
			}
		}
	}

	return nil
}
