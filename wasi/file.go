package wasi

import (
	"fmt"
	"os"
	"sync"

	"github.com/willf/bitset"
)

const (
	maxFiles = 1 << 16

	// File descriptors 0-2 are reserved for the stdio streams at setup.
	// Dynamic allocation hands out the lowest free descriptor at or above
	// this bound so that guests observe POSIX-like reuse.
	minUserFd = 3
)

type file struct {
	m    sync.Mutex
	open bool

	// 1-based index into the preopen list; 0 means not a preopen.
	preopen int
	fdflags wasiFdflags

	rights  wasiRights
	inherit wasiRights

	f File

	// readdir cache: the snapshot of entries being paged out to the guest.
	entries []os.DirEntry
}

// fileTable maps guest file descriptors onto host resources. Slot occupancy
// lives in a bitset guarded by the table mutex; per-descriptor state is
// guarded by the descriptor's own mutex so I/O on distinct descriptors does
// not serialize.
//
// Lock order: t.m is never held while blocking on f.m, except in renumber,
// which relies on no goroutine taking t.m while holding an f.m.
type fileTable struct {
	m     sync.Mutex
	slots bitset.BitSet
	files []*file
}

// allocate reserves the lowest free descriptor at or above minUserFd and
// returns its entry locked. The caller must populate the entry, mark it open,
// and hand it to releaseFile; entries left closed are returned to the free
// pool.
func (t *fileTable) allocate(rights, inherit wasiRights) (wasiFd, *file, wasiErrno) {
	t.m.Lock()

	slot, ok := t.slots.NextClear(minUserFd)
	if !ok {
		slot = uint(len(t.files))
		if slot < minUserFd {
			slot = minUserFd
		}
	}
	if slot >= maxFiles {
		t.m.Unlock()
		return wasiFd(0), nil, wasiErrnoNfile
	}
	for uint(len(t.files)) <= slot {
		t.files = append(t.files, &file{})
	}
	t.slots.Set(slot)

	f := t.files[slot]
	t.m.Unlock()

	f.m.Lock()
	f.rights, f.inherit = rights, inherit
	return wasiFd(slot), f, wasiErrnoSuccess
}

// mustAllocateFile binds f to a specific descriptor. It is only used during
// setup to install the stdio streams and preopens at their well-known
// descriptors.
func (t *fileTable) mustAllocateFile(f File, fd wasiFd, rights, inherit wasiRights) {
	t.m.Lock()
	defer t.m.Unlock()

	if t.slots.Test(uint(fd)) {
		panic(fmt.Errorf("file descriptor %d is already allocated", fd))
	}
	for uint(len(t.files)) <= uint(fd) {
		t.files = append(t.files, &file{})
	}
	t.slots.Set(uint(fd))

	wf := t.files[fd]
	wf.open, wf.rights, wf.inherit, wf.f = true, rights, inherit, f
}

// acquireFile returns the entry for fd locked, after checking that it is open
// and that its rights are a superset of the requested rights. Missing rights
// report errno::notcapable, which is distinct from the errno::badf returned
// for descriptors that are not open at all.
func (t *fileTable) acquireFile(fd wasiFd, rights wasiRights) (*file, wasiErrno) {
	t.m.Lock()
	if uint(fd) >= uint(len(t.files)) {
		t.m.Unlock()
		return nil, wasiErrnoBadf
	}
	f := t.files[fd]
	t.m.Unlock()

	f.m.Lock()
	if !f.open {
		f.m.Unlock()
		return nil, wasiErrnoBadf
	}
	if f.rights&rights != rights {
		f.m.Unlock()
		return nil, wasiErrnoNotcapable
	}
	return f, wasiErrnoSuccess
}

// releaseFile unlocks an acquired entry. If the entry was marked closed while
// held, its slot is returned to the free pool.
func (t *fileTable) releaseFile(fd wasiFd, f *file) wasiErrno {
	if f.open {
		f.m.Unlock()
		return wasiErrnoSuccess
	}

	f.preopen, f.fdflags, f.rights, f.inherit, f.f, f.entries = 0, 0, 0, 0, nil, nil
	f.m.Unlock()

	t.m.Lock()
	t.slots.Clear(uint(fd))
	t.m.Unlock()
	return wasiErrnoSuccess
}

func (t *fileTable) getFile(fd wasiFd, rights wasiRights) (File, wasiErrno) {
	f, errno := t.acquireFile(fd, rights)
	if errno != wasiErrnoSuccess {
		return nil, errno
	}
	defer f.m.Unlock()

	return f.f, wasiErrnoSuccess
}

func (t *fileTable) getDirectory(fd wasiFd, rights wasiRights) (Directory, wasiErrno) {
	f, errno := t.acquireFile(fd, rights)
	if errno != wasiErrnoSuccess {
		return nil, errno
	}
	defer f.m.Unlock()

	d, ok := f.f.(Directory)
	if !ok {
		return nil, wasiErrnoNotdir
	}

	return d, wasiErrnoSuccess
}

func (t *fileTable) getSocket(fd wasiFd, rights wasiRights) (Socket, wasiErrno) {
	f, errno := t.acquireFile(fd, rights)
	if errno != wasiErrnoSuccess {
		return nil, errno
	}
	defer f.m.Unlock()

	s, ok := f.f.(Socket)
	if !ok {
		return nil, wasiErrnoNotsock
	}

	return s, wasiErrnoSuccess
}

func (t *fileTable) getPreopen(fd wasiFd) (int, wasiErrno) {
	f, errno := t.acquireFile(fd, 0)
	if errno != wasiErrnoSuccess {
		return 0, errno
	}
	defer f.m.Unlock()

	if f.preopen == 0 {
		return 0, wasiErrnoBadf
	}
	return f.preopen - 1, wasiErrnoSuccess
}

// renumber atomically moves the resource at from to the descriptor to. If to
// is open, its resource is closed first; if to has never been allocated, the
// table grows to cover it. After a successful renumber, from is unallocated.
func (t *fileTable) renumber(from, to wasiFd) wasiErrno {
	if from == to {
		_, errno := t.getFile(from, 0)
		return errno
	}
	if uint(to) >= maxFiles {
		return wasiErrnoBadf
	}

	t.m.Lock()
	defer t.m.Unlock()

	if uint(from) >= uint(len(t.files)) {
		return wasiErrnoBadf
	}
	src := t.files[from]
	src.m.Lock()
	if !src.open {
		src.m.Unlock()
		return wasiErrnoBadf
	}

	for uint(len(t.files)) <= uint(to) {
		t.files = append(t.files, &file{})
	}
	dst := t.files[to]
	dst.m.Lock()

	if dst.open && dst.f != nil {
		// Close errors are swallowed: the renumber itself succeeds and the
		// previous resource is gone either way.
		dst.f.Close()
	}

	dst.open, dst.preopen, dst.fdflags = true, src.preopen, src.fdflags
	dst.rights, dst.inherit, dst.f, dst.entries = src.rights, src.inherit, src.f, src.entries
	t.slots.Set(uint(to))
	dst.m.Unlock()

	src.open, src.preopen, src.fdflags = false, 0, 0
	src.rights, src.inherit, src.f, src.entries = 0, 0, nil, nil
	t.slots.Clear(uint(from))
	src.m.Unlock()

	return wasiErrnoSuccess
}

// setRights narrows the rights associated with fd. Rights only ever shrink:
// a request that includes a right the descriptor does not currently hold is
// rejected with errno::notcapable.
func (t *fileTable) setRights(fd wasiFd, rights, inherit wasiRights) wasiErrno {
	f, errno := t.acquireFile(fd, 0)
	if errno != wasiErrnoSuccess {
		return errno
	}
	defer t.releaseFile(fd, f)

	if rights&^f.rights != 0 || inherit&^f.inherit != 0 {
		return wasiErrnoNotcapable
	}
	f.rights, f.inherit = rights, inherit
	return wasiErrnoSuccess
}
