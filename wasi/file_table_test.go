package wasi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closeCountFile struct {
	ErrFile
	closed int
}

func (f *closeCountFile) Close() error {
	f.closed++
	return nil
}

func allocateOpen(t *testing.T, table *fileTable, file File, rights, inherit wasiRights) wasiFd {
	fd, f, errno := table.allocate(rights, inherit)
	require.Equal(t, wasiErrno(wasiErrnoSuccess), errno)
	f.open, f.f = true, file
	table.releaseFile(fd, f)
	return fd
}

func TestFileTableAllocateLowest(t *testing.T) {
	var table fileTable
	table.mustAllocateFile(ErrFile(0), 0, FileRights, 0)
	table.mustAllocateFile(ErrFile(0), 1, FileRights, 0)
	table.mustAllocateFile(ErrFile(0), 2, FileRights, 0)

	fd1 := allocateOpen(t, &table, ErrFile(0), FileRights, 0)
	fd2 := allocateOpen(t, &table, ErrFile(0), FileRights, 0)
	assert.Equal(t, wasiFd(3), fd1)
	assert.Equal(t, wasiFd(4), fd2)

	// The lowest free descriptor is reused after a close.
	require.Equal(t, wasiErrno(wasiErrnoSuccess), closeFd(&table, fd1))
	fd3 := allocateOpen(t, &table, ErrFile(0), FileRights, 0)
	assert.Equal(t, fd1, fd3)
}

func TestFileTableStdioReserved(t *testing.T) {
	var table fileTable

	// Even with 0-2 unallocated, dynamic allocation starts at 3.
	fd := allocateOpen(t, &table, ErrFile(0), FileRights, 0)
	assert.Equal(t, wasiFd(3), fd)
}

func closeFd(table *fileTable, fd wasiFd) wasiErrno {
	f, errno := table.acquireFile(fd, 0)
	if errno != wasiErrnoSuccess {
		return errno
	}
	f.f.Close()
	f.open = false
	return table.releaseFile(fd, f)
}

func TestFileTableClose(t *testing.T) {
	var table fileTable
	file := &closeCountFile{}

	fd := allocateOpen(t, &table, file, FileRights, 0)
	require.Equal(t, wasiErrno(wasiErrnoSuccess), closeFd(&table, fd))
	assert.Equal(t, 1, file.closed)

	_, errno := table.getFile(fd, 0)
	assert.Equal(t, wasiErrno(wasiErrnoBadf), errno)

	assert.Equal(t, wasiErrno(wasiErrnoBadf), closeFd(&table, fd))
	assert.Equal(t, 1, file.closed)
}

func TestFileTableRights(t *testing.T) {
	var table fileTable
	fd := allocateOpen(t, &table, ErrFile(0), wasiRightsFdRead, wasiRightsFdRead)

	_, errno := table.getFile(fd, wasiRightsFdRead)
	assert.Equal(t, wasiErrno(wasiErrnoSuccess), errno)

	// Missing rights are notcapable, not badf.
	_, errno = table.getFile(fd, wasiRightsFdWrite)
	assert.Equal(t, wasiErrno(wasiErrnoNotcapable), errno)

	_, errno = table.getFile(wasiFd(100), wasiRightsFdWrite)
	assert.Equal(t, wasiErrno(wasiErrnoBadf), errno)
}

func TestFileTableSetRightsShrinkOnly(t *testing.T) {
	var table fileTable
	fd := allocateOpen(t, &table, ErrFile(0), wasiRightsFdRead|wasiRightsFdWrite, wasiRightsFdRead)

	assert.Equal(t, wasiErrno(wasiErrnoNotcapable), table.setRights(fd, wasiRightsFdRead|wasiRightsFdSeek, 0))
	assert.Equal(t, wasiErrno(wasiErrnoNotcapable), table.setRights(fd, wasiRightsFdRead, wasiRightsFdRead|wasiRightsFdWrite))

	require.Equal(t, wasiErrno(wasiErrnoSuccess), table.setRights(fd, wasiRightsFdRead, 0))

	// Dropped rights do not come back.
	assert.Equal(t, wasiErrno(wasiErrnoNotcapable), table.setRights(fd, wasiRightsFdRead|wasiRightsFdWrite, 0))

	_, errno := table.getFile(fd, wasiRightsFdWrite)
	assert.Equal(t, wasiErrno(wasiErrnoNotcapable), errno)
}

func TestFileTableRenumber(t *testing.T) {
	var table fileTable
	src := &closeCountFile{}
	dst := &closeCountFile{}

	from := allocateOpen(t, &table, src, wasiRightsFdRead, 0)
	to := allocateOpen(t, &table, dst, wasiRightsFdWrite, 0)

	require.Equal(t, wasiErrno(wasiErrnoSuccess), table.renumber(from, to))

	// The old resource at the target is closed, the source is moved, and
	// the source descriptor is freed.
	assert.Equal(t, 1, dst.closed)
	assert.Equal(t, 0, src.closed)

	f, errno := table.getFile(to, wasiRightsFdRead)
	require.Equal(t, wasiErrno(wasiErrnoSuccess), errno)
	assert.Equal(t, File(src), f)

	_, errno = table.getFile(from, 0)
	assert.Equal(t, wasiErrno(wasiErrnoBadf), errno)
}

func TestFileTableRenumberUnallocatedTarget(t *testing.T) {
	var table fileTable
	src := &closeCountFile{}

	from := allocateOpen(t, &table, src, wasiRightsFdRead, 0)
	to := wasiFd(77)

	require.Equal(t, wasiErrno(wasiErrnoSuccess), table.renumber(from, to))

	f, errno := table.getFile(to, wasiRightsFdRead)
	require.Equal(t, wasiErrno(wasiErrnoSuccess), errno)
	assert.Equal(t, File(src), f)

	// The vacated slot is available for reuse.
	fd := allocateOpen(t, &table, ErrFile(0), 0, 0)
	assert.Equal(t, from, fd)
}

func TestFileTableRenumberErrors(t *testing.T) {
	var table fileTable

	assert.Equal(t, wasiErrno(wasiErrnoBadf), table.renumber(9, 10))

	fd := allocateOpen(t, &table, ErrFile(0), 0, 0)
	assert.Equal(t, wasiErrno(wasiErrnoBadf), table.renumber(fd, maxFiles))

	// Self-renumber of an open descriptor is a no-op.
	assert.Equal(t, wasiErrno(wasiErrnoSuccess), table.renumber(fd, fd))
}

func TestFileTablePreopen(t *testing.T) {
	var table fileTable
	fd, f, errno := table.allocate(FileRights, 0)
	require.Equal(t, wasiErrno(wasiErrnoSuccess), errno)
	f.open, f.preopen, f.f = true, 1, ErrFile(0)
	table.releaseFile(fd, f)

	i, errno := table.getPreopen(fd)
	require.Equal(t, wasiErrno(wasiErrnoSuccess), errno)
	assert.Equal(t, 0, i)

	other := allocateOpen(t, &table, ErrFile(0), 0, 0)
	_, errno = table.getPreopen(other)
	assert.Equal(t, wasiErrno(wasiErrnoBadf), errno)
}
