//go:build !unix

package snapshot

import (
	"io/fs"
	"time"
)

func createdAt(info fs.FileInfo) (time.Time, bool) {
	return time.Time{}, false
}
