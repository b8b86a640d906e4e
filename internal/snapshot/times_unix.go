//go:build unix

package snapshot

import (
	"io/fs"
	"syscall"
	"time"
)

// createdAt extracts the inode change time from Unix stat data. Birth time
// is not available on most Unix filesystems, so ctime is the closest stable
// stand-in for a creation timestamp.
func createdAt(info fs.FileInfo) (time.Time, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(stat.Ctim.Sec, stat.Ctim.Nsec), true
}
