// +build !aix,!darwin,!dragonfly,!freebsd,!linux,!netbsd,!openbsd,!solaris

package wasi

import (
	"os"
	"time"
)

const oNofollow = 0

func setStatusFlags(f *os.File, flags int) error {
	return errNotSup
}

func futimes(f *os.File, accessTime, modTime *time.Time) error {
	atime, mtime, err := fillTimes(func() (FileStat, error) {
		info, err := f.Stat()
		if err != nil {
			return FileStat{}, err
		}
		return fileStat(info), nil
	}, accessTime, modTime)
	if err != nil {
		return err
	}
	return os.Chtimes(f.Name(), atime, mtime)
}

func utimes(path string, accessTime, modTime *time.Time, followSymlinks bool) error {
	if !followSymlinks {
		return errNotSup
	}
	atime, mtime, err := fillTimes(func() (FileStat, error) {
		info, err := os.Stat(path)
		if err != nil {
			return FileStat{}, err
		}
		return fileStat(info), nil
	}, accessTime, modTime)
	if err != nil {
		return err
	}
	return os.Chtimes(path, atime, mtime)
}
