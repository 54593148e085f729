// +build linux

package wasi

import (
	"os"

	"golang.org/x/sys/unix"
)

func fadvise(f *os.File, offset, length uint64, advice int) error {
	return unix.Fadvise(int(f.Fd()), int64(offset), int64(length), advice)
}

func fdatasync(f *os.File) error {
	return unix.Fdatasync(int(f.Fd()))
}

func fallocate(f *os.File, offset, length uint64) error {
	return unix.Fallocate(int(f.Fd()), 0, int64(offset), int64(length))
}
