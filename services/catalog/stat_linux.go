//go:build linux

package catalog

import (
	"io/fs"
	"syscall"
	"time"
)

// changeTime extracts the inode change time when the platform exposes it,
// falling back to the modification time.
func changeTime(info fs.FileInfo) time.Time {
	if stat, ok := info.Sys().(*syscall.Stat_t); ok && stat != nil {
		return time.Unix(stat.Ctim.Sec, stat.Ctim.Nsec)
	}
	return info.ModTime()
}
