package wasi

import (
	"os"
	"sync/atomic"
	"time"
)

const unknownDevice = (1 << 64) - 1

var fileCookie uint64

// fileStatUnknown synthesizes stat results for hosts without a native stat
// structure. Inode numbers are fabricated from a process-wide counter, so
// they are unique but not stable across calls.
func fileStatUnknown(info os.FileInfo) FileStat {
	modTime := info.ModTime()
	return FileStat{
		Dev:        unknownDevice,
		Inode:      atomic.AddUint64(&fileCookie, 1),
		Mode:       info.Mode(),
		LinkCount:  1,
		Size:       uint64(info.Size()),
		AccessTime: modTime,
		ModTime:    modTime,
		ChangeTime: modTime,
	}
}

// fillTimes completes a (possibly partial) pair of timestamps for a
// set-times operation, reading the current values for whichever of the pair
// the caller left nil.
func fillTimes(stat func() (FileStat, error), accessTime, modTime *time.Time) (time.Time, time.Time, error) {
	if accessTime != nil && modTime != nil {
		return *accessTime, *modTime, nil
	}

	info, err := stat()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	atime, mtime := info.AccessTime, info.ModTime
	if accessTime != nil {
		atime = *accessTime
	}
	if modTime != nil {
		mtime = *modTime
	}
	return atime, mtime, nil
}
