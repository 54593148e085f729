// +build !linux

package wasi

import (
	"os"
)

func fadvise(f *os.File, offset, length uint64, advice int) error {
	// Advisory only; ignoring it is a legal implementation.
	return nil
}

func fdatasync(f *os.File) error {
	return f.Sync()
}

// fallocate emulates posix_fallocate on hosts without a native call: the
// file is grown if the requested range extends past its current size.
// Already-covered ranges are left alone, which loses the disk-space
// guarantee but preserves the observable size semantics.
func fallocate(f *os.File, offset, length uint64) error {
	info, err := f.Stat()
	if err != nil {
		return err
	}
	want := offset + length
	if want > uint64(info.Size()) {
		return f.Truncate(int64(want))
	}
	return nil
}
