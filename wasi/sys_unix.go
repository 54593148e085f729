// +build aix darwin dragonfly freebsd linux netbsd openbsd solaris

package wasi

import (
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

const oNofollow = syscall.O_NOFOLLOW

// setStatusFlags applies the mutable subset of fdflags to an open file via
// fcntl(F_SETFL). Only append and nonblock can change after open.
func setStatusFlags(f *os.File, flags int) error {
	osFlags := 0
	if flags&int(F_Append) != 0 {
		osFlags |= unix.O_APPEND
	}
	if flags&int(F_Nonblock) != 0 {
		osFlags |= unix.O_NONBLOCK
	}
	_, err := unix.FcntlInt(f.Fd(), unix.F_SETFL, osFlags)
	return err
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

	return unix.Futimes(int(f.Fd()), []unix.Timeval{
		unix.NsecToTimeval(atime.UnixNano()),
		unix.NsecToTimeval(mtime.UnixNano()),
	})
}

func utimes(path string, accessTime, modTime *time.Time, followSymlinks bool) error {
	atime, mtime, err := fillTimes(func() (FileStat, error) {
		var info os.FileInfo
		var err error
		if followSymlinks {
			info, err = os.Stat(path)
		} else {
			info, err = os.Lstat(path)
		}
		if err != nil {
			return FileStat{}, err
		}
		return fileStat(info), nil
	}, accessTime, modTime)
	if err != nil {
		return err
	}

	flags := 0
	if !followSymlinks {
		flags = unix.AT_SYMLINK_NOFOLLOW
	}
	return unix.UtimesNanoAt(unix.AT_FDCWD, path, []unix.Timespec{
		unix.NsecToTimespec(atime.UnixNano()),
		unix.NsecToTimespec(mtime.UnixNano()),
	}, flags)
}
