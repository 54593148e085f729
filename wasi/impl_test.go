package wasi

import (
	"bytes"
	"io/ioutil"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgavlin/wasihost/vm"
)

// guest drives the snapshot_preview1 module the way an instrumented guest
// would: arguments are passed through the flat wire convention and all data
// is exchanged through a real linear memory.
type guest struct {
	t      *testing.T
	memory *vm.Memory
	mod    vm.Module
}

func newGuest(t *testing.T, opts *Options) *guest {
	memory := vm.NewMemory(1, 4)
	mod, err := Instantiate("wasi_snapshot_preview1", &memory, opts)
	require.NoError(t, err)
	return &guest{t: t, memory: &memory, mod: mod}
}

func (g *guest) call(name string, args ...uint64) uint32 {
	fn, err := g.mod.GetFunction(name)
	require.NoError(g.t, err)

	results := make([]uint64, len(fn.Signature().Results))
	fn.Call(args, results)
	if len(results) == 0 {
		return 0
	}
	return uint32(results[0])
}

func (g *guest) bytes(addr, length uint32) []byte {
	return g.memory.Bytes()[addr : addr+length]
}

func (g *guest) str(addr uint32, s string) (uint32, uint32) {
	copy(g.memory.Bytes()[addr:], s)
	return addr, uint32(len(s))
}

func (g *guest) u32(addr uint32) uint32 {
	return le.Uint32(g.memory.Bytes()[addr:])
}

func (g *guest) u64(addr uint32) uint64 {
	return le.Uint64(g.memory.Bytes()[addr:])
}

func (g *guest) storeIovec(addr, buf, length uint32) {
	le.PutUint32(g.memory.Bytes()[addr:], buf)
	le.PutUint32(g.memory.Bytes()[addr+4:], length)
}

// iovec stores s at buf and an iovec describing it at addr.
func (g *guest) iovec(addr, buf uint32, s string) {
	copy(g.memory.Bytes()[buf:], s)
	g.storeIovec(addr, buf, uint32(len(s)))
}

func (g *guest) pathOpen(dirfd uint32, path string, oflags uint32, rightsBase, rightsInherit uint64, fdflags uint32) (uint32, uint32) {
	p, n := g.str(0x400, path)
	errno := g.call("path_open",
		uint64(dirfd), uint64(wasiLookupflagsSymlinkFollow), uint64(p), uint64(n),
		uint64(oflags), rightsBase, rightsInherit, uint64(fdflags), 0x440)
	return g.u32(0x440), errno
}

func testPreopen(t *testing.T) (string, *Options) {
	dir, err := ioutil.TempDir("", "wasihost")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	return dir, &Options{
		Preopen: []Preopen{
			{FSPath: dir, Path: "/data", Rights: AllRights, Inherit: AllRights},
		},
	}
}

func TestArgsEnviron(t *testing.T) {
	g := newGuest(t, &Options{
		Args: []string{"prog", "x"},
		Env:  map[string]string{"B": "2", "A": "1"},
	})

	require.EqualValues(t, wasiErrnoSuccess, g.call("args_sizes_get", 0x64, 0x68))
	assert.Equal(t, uint32(2), g.u32(0x64))
	assert.Equal(t, uint32(7), g.u32(0x68))

	require.EqualValues(t, wasiErrnoSuccess, g.call("args_get", 0x78, 0xa0))
	assert.Equal(t, uint32(0xa0), g.u32(0x78))
	assert.Equal(t, []byte("prog\x00"), g.bytes(g.u32(0x78), 5))
	assert.Equal(t, []byte("x\x00"), g.bytes(g.u32(0x7c), 2))

	require.EqualValues(t, wasiErrnoSuccess, g.call("environ_sizes_get", 0x64, 0x68))
	assert.Equal(t, uint32(2), g.u32(0x64))
	assert.Equal(t, uint32(8), g.u32(0x68))

	// Environment entries are sorted by key.
	require.EqualValues(t, wasiErrnoSuccess, g.call("environ_get", 0x78, 0xa0))
	assert.Equal(t, []byte("A=1\x00"), g.bytes(g.u32(0x78), 4))
	assert.Equal(t, []byte("B=2\x00"), g.bytes(g.u32(0x7c), 4))

	// A vector that lands outside memory faults instead of trapping.
	assert.EqualValues(t, wasiErrnoFault, g.call("args_get", uint64(vm.PageSize-2), 0xa0))
}

func TestFdWriteStdout(t *testing.T) {
	var stdout bytes.Buffer
	g := newGuest(t, &Options{Stdin: bytes.NewBuffer(nil), Stdout: &stdout})

	g.iovec(0x40, 0x100, "hello ")
	g.iovec(0x48, 0x120, "world\n")

	require.EqualValues(t, wasiErrnoSuccess, g.call("fd_write", 1, 0x40, 2, 0x20))
	assert.Equal(t, uint32(12), g.u32(0x20))
	assert.Equal(t, "hello world\n", stdout.String())

	// Stdin is not writable.
	assert.EqualValues(t, wasiErrnoInval, g.call("fd_write", 0, 0x40, 2, 0x20))
}

func TestFdReadStdin(t *testing.T) {
	g := newGuest(t, &Options{Stdin: bytes.NewBufferString("abc")})

	g.storeIovec(0x40, 0x100, 8)
	require.EqualValues(t, wasiErrnoSuccess, g.call("fd_read", 0, 0x40, 1, 0x20))
	assert.Equal(t, uint32(3), g.u32(0x20))
	assert.Equal(t, []byte("abc"), g.bytes(0x100, 3))

	// EOF is a zero-length read, not an error.
	require.EqualValues(t, wasiErrnoSuccess, g.call("fd_read", 0, 0x40, 1, 0x20))
	assert.Equal(t, uint32(0), g.u32(0x20))
}

func TestRandomGet(t *testing.T) {
	g := newGuest(t, nil)

	require.EqualValues(t, wasiErrnoSuccess, g.call("random_get", 0x200, 16))
	assert.NotEqual(t, make([]byte, 16), g.bytes(0x200, 16))

	assert.EqualValues(t, wasiErrnoFault, g.call("random_get", uint64(vm.PageSize-8), 16))
}

func TestPrestatDiscovery(t *testing.T) {
	_, opts := testPreopen(t)
	g := newGuest(t, opts)

	require.EqualValues(t, wasiErrnoSuccess, g.call("fd_prestat_get", 3, 0x300))
	assert.Equal(t, byte(wasiPreopentypeDir), g.bytes(0x300, 1)[0])
	assert.Equal(t, uint32(5), g.u32(0x304))

	require.EqualValues(t, wasiErrnoSuccess, g.call("fd_prestat_dir_name", 3, 0x320, 5))
	assert.Equal(t, []byte("/data"), g.bytes(0x320, 5))

	assert.EqualValues(t, wasiErrnoNametoolong, g.call("fd_prestat_dir_name", 3, 0x320, 4))
	assert.EqualValues(t, wasiErrnoBadf, g.call("fd_prestat_get", 9, 0x300))

	// Stdio descriptors are not preopens.
	assert.EqualValues(t, wasiErrnoBadf, g.call("fd_prestat_get", 0, 0x300))
}

func TestFileRoundTrip(t *testing.T) {
	_, opts := testPreopen(t)
	g := newGuest(t, opts)

	fd, errno := g.pathOpen(3, "f.txt", wasiOflagsCreat, uint64(FileRights), 0, 0)
	require.EqualValues(t, wasiErrnoSuccess, errno)
	require.Equal(t, uint32(4), fd)

	g.iovec(0x40, 0x100, "hello world")
	require.EqualValues(t, wasiErrnoSuccess, g.call("fd_write", uint64(fd), 0x40, 1, 0x20))
	require.Equal(t, uint32(11), g.u32(0x20))

	require.EqualValues(t, wasiErrnoSuccess, g.call("fd_tell", uint64(fd), 0x20))
	assert.Equal(t, uint64(11), g.u64(0x20))

	require.EqualValues(t, wasiErrnoSuccess, g.call("fd_seek", uint64(fd), 0, uint64(wasiWhenceSet), 0x20))
	require.Equal(t, uint64(0), g.u64(0x20))

	g.storeIovec(0x40, 0x200, 32)
	require.EqualValues(t, wasiErrnoSuccess, g.call("fd_read", uint64(fd), 0x40, 1, 0x20))
	require.Equal(t, uint32(11), g.u32(0x20))
	assert.Equal(t, []byte("hello world"), g.bytes(0x200, 11))

	// pread at an explicit offset leaves the cursor alone.
	g.storeIovec(0x40, 0x240, 32)
	require.EqualValues(t, wasiErrnoSuccess, g.call("fd_pread", uint64(fd), 0x40, 1, 6, 0x20))
	require.Equal(t, uint32(5), g.u32(0x20))
	assert.Equal(t, []byte("world"), g.bytes(0x240, 5))
	require.EqualValues(t, wasiErrnoSuccess, g.call("fd_tell", uint64(fd), 0x20))
	assert.Equal(t, uint64(11), g.u64(0x20))

	require.EqualValues(t, wasiErrnoSuccess, g.call("fd_filestat_get", uint64(fd), 0x300))
	assert.Equal(t, byte(wasiFiletypeRegularFile), g.bytes(0x300+16, 1)[0])
	assert.Equal(t, uint64(11), g.u64(0x300+32))

	require.EqualValues(t, wasiErrnoSuccess, g.call("fd_filestat_set_size", uint64(fd), 5))
	require.EqualValues(t, wasiErrnoSuccess, g.call("fd_filestat_get", uint64(fd), 0x300))
	assert.Equal(t, uint64(5), g.u64(0x300+32))

	require.EqualValues(t, wasiErrnoSuccess, g.call("fd_close", uint64(fd)))
	assert.EqualValues(t, wasiErrnoBadf, g.call("fd_write", uint64(fd), 0x40, 1, 0x20))

	p, n := g.str(0x400, "f.txt")
	require.EqualValues(t, wasiErrnoSuccess, g.call("path_filestat_get", 3, 1, uint64(p), uint64(n), 0x300))
	assert.Equal(t, uint64(5), g.u64(0x300+32))
}

func TestPathOpenSandbox(t *testing.T) {
	_, opts := testPreopen(t)
	g := newGuest(t, opts)

	_, errno := g.pathOpen(3, "../outside", wasiOflagsCreat, uint64(FileRights), 0, 0)
	assert.EqualValues(t, wasiErrnoNotcapable, errno)

	_, errno = g.pathOpen(3, "/etc/passwd", 0, uint64(FileRights), 0, 0)
	assert.EqualValues(t, wasiErrnoNotcapable, errno)

	_, errno = g.pathOpen(3, "a\x00b", wasiOflagsCreat, uint64(FileRights), 0, 0)
	assert.EqualValues(t, wasiErrnoInval, errno)

	_, errno = g.pathOpen(3, "missing", 0, uint64(FileRights), 0, 0)
	assert.EqualValues(t, wasiErrnoNoent, errno)
}

func TestPathOpenRights(t *testing.T) {
	dir, err := ioutil.TempDir("", "wasihost")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	g := newGuest(t, &Options{
		Preopen: []Preopen{
			{FSPath: dir, Path: "/data", Rights: AllRights, Inherit: ReadOnlyRights},
		},
	})

	// Requested rights beyond the parent's inheriting set are refused.
	_, errno := g.pathOpen(3, "f.txt", wasiOflagsCreat, uint64(wasiRightsFdWrite), 0, 0)
	assert.EqualValues(t, wasiErrnoNotcapable, errno)

	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "f.txt"), []byte("x"), 0600))
	fd, errno := g.pathOpen(3, "f.txt", 0, uint64(wasiRightsFdRead), 0, 0)
	require.EqualValues(t, wasiErrnoSuccess, errno)

	// The opened descriptor carries only what was requested.
	g.iovec(0x40, 0x100, "y")
	assert.EqualValues(t, wasiErrnoNotcapable, g.call("fd_write", uint64(fd), 0x40, 1, 0x20))
}

func TestPathDirectoryOps(t *testing.T) {
	dir, opts := testPreopen(t)
	g := newGuest(t, opts)

	p, n := g.str(0x400, "sub")
	require.EqualValues(t, wasiErrnoSuccess, g.call("path_create_directory", 3, uint64(p), uint64(n)))

	require.EqualValues(t, wasiErrnoSuccess, g.call("path_filestat_get", 3, 0, uint64(p), uint64(n), 0x300))
	assert.Equal(t, byte(wasiFiletypeDirectory), g.bytes(0x300+16, 1)[0])

	info, err := os.Stat(filepath.Join(dir, "sub"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	require.EqualValues(t, wasiErrnoSuccess, g.call("path_remove_directory", 3, uint64(p), uint64(n)))
	assert.EqualValues(t, wasiErrnoNoent, g.call("path_filestat_get", 3, 0, uint64(p), uint64(n), 0x300))

	// Unlinking a directory and removing a file use the matching errno.
	require.EqualValues(t, wasiErrnoSuccess, g.call("path_create_directory", 3, uint64(p), uint64(n)))
	assert.EqualValues(t, wasiErrnoIsdir, g.call("path_unlink_file", 3, uint64(p), uint64(n)))

	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "file"), []byte("x"), 0600))
	fp, fn := g.str(0x420, "file")
	assert.EqualValues(t, wasiErrnoNotdir, g.call("path_remove_directory", 3, uint64(fp), uint64(fn)))
	require.EqualValues(t, wasiErrnoSuccess, g.call("path_unlink_file", 3, uint64(fp), uint64(fn)))
}

func TestPathRename(t *testing.T) {
	dir, opts := testPreopen(t)
	g := newGuest(t, opts)

	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "old"), []byte("x"), 0600))

	op, on := g.str(0x400, "old")
	np, nn := g.str(0x420, "new")
	require.EqualValues(t, wasiErrnoSuccess, g.call("path_rename", 3, uint64(op), uint64(on), 3, uint64(np), uint64(nn)))

	_, err := os.Stat(filepath.Join(dir, "new"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "old"))
	assert.True(t, os.IsNotExist(err))
}

func TestPathSymlinkReadlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires privileges on windows")
	}

	dir, opts := testPreopen(t)
	g := newGuest(t, opts)

	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "target"), []byte("x"), 0600))

	tp, tn := g.str(0x400, "target")
	lp, ln := g.str(0x420, "link")
	require.EqualValues(t, wasiErrnoSuccess, g.call("path_symlink", uint64(tp), uint64(tn), 3, uint64(lp), uint64(ln)))

	require.EqualValues(t, wasiErrnoSuccess, g.call("path_readlink", 3, uint64(lp), uint64(ln), 0x500, 64, 0x20))
	require.Equal(t, uint32(6), g.u32(0x20))
	assert.Equal(t, []byte("target"), g.bytes(0x500, 6))

	// Lookup flags select between the link and its target.
	require.EqualValues(t, wasiErrnoSuccess, g.call("path_filestat_get", 3, 0, uint64(lp), uint64(ln), 0x300))
	assert.Equal(t, byte(wasiFiletypeSymbolicLink), g.bytes(0x300+16, 1)[0])
	require.EqualValues(t, wasiErrnoSuccess, g.call("path_filestat_get", 3, 1, uint64(lp), uint64(ln), 0x300))
	assert.Equal(t, byte(wasiFiletypeRegularFile), g.bytes(0x300+16, 1)[0])
}

func TestPathLink(t *testing.T) {
	dir, opts := testPreopen(t)
	g := newGuest(t, opts)

	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "src"), []byte("x"), 0600))

	sp, sn := g.str(0x400, "src")
	dp, dn := g.str(0x420, "dst")
	require.EqualValues(t, wasiErrnoSuccess, g.call("path_link", 3, 0, uint64(sp), uint64(sn), 3, uint64(dp), uint64(dn)))

	require.EqualValues(t, wasiErrnoSuccess, g.call("path_filestat_get", 3, 0, uint64(dp), uint64(dn), 0x300))
	// Hard link: two names for one inode.
	assert.Equal(t, uint64(2), g.u64(0x300+24))
}

func TestFdReaddir(t *testing.T) {
	dir, opts := testPreopen(t)
	g := newGuest(t, opts)

	for _, name := range []string{"aa", "bb", "cc"} {
		require.NoError(t, ioutil.WriteFile(filepath.Join(dir, name), []byte("x"), 0600))
	}

	fd, errno := g.pathOpen(3, ".", wasiOflagsDirectory, uint64(DirectoryRights|FileRights), 0, 0)
	require.EqualValues(t, wasiErrnoSuccess, errno)

	// Page through the directory one entry at a time: 24-byte header plus
	// a two-byte name per entry.
	var names []string
	cookie := uint64(0)
	for {
		require.EqualValues(t, wasiErrnoSuccess, g.call("fd_readdir", uint64(fd), 0x200, 26, cookie, 0x20))
		n := g.u32(0x20)
		if n == 0 {
			break
		}
		require.Equal(t, uint32(26), n)

		namlen := g.u32(0x200 + 16)
		require.Equal(t, uint32(2), namlen)
		assert.Equal(t, byte(wasiFiletypeRegularFile), g.bytes(0x200+20, 1)[0])
		names = append(names, string(g.bytes(0x200+24, namlen)))

		cookie = g.u64(0x200)
	}
	sort.Strings(names)
	assert.Equal(t, []string{"aa", "bb", "cc"}, names)

	// Cookie 0 restarts the iteration from the first entry even after the
	// directory stream has been fully consumed.
	require.EqualValues(t, wasiErrnoSuccess, g.call("fd_readdir", uint64(fd), 0x200, 256, 0, 0x20))
	first := g.u32(0x20)
	require.Equal(t, uint32(3*26), first)
	require.EqualValues(t, wasiErrnoSuccess, g.call("fd_readdir", uint64(fd), 0x200, 256, 0, 0x20))
	assert.Equal(t, first, g.u32(0x20))

	// A buffer too small for even the header is filled to capacity to
	// signal truncation.
	require.EqualValues(t, wasiErrnoSuccess, g.call("fd_readdir", uint64(fd), 0x200, 10, 0, 0x20))
	assert.Equal(t, uint32(10), g.u32(0x20))

	assert.EqualValues(t, wasiErrnoInval, g.call("fd_readdir", uint64(fd), 0x200, 64, 99, 0x20))
}

func TestFdRenumber(t *testing.T) {
	_, opts := testPreopen(t)
	g := newGuest(t, opts)

	fd, errno := g.pathOpen(3, "f.txt", wasiOflagsCreat, uint64(FileRights), 0, 0)
	require.EqualValues(t, wasiErrnoSuccess, errno)

	require.EqualValues(t, wasiErrnoSuccess, g.call("fd_renumber", uint64(fd), 9))

	g.iovec(0x40, 0x100, "x")
	assert.EqualValues(t, wasiErrnoBadf, g.call("fd_write", uint64(fd), 0x40, 1, 0x20))
	require.EqualValues(t, wasiErrnoSuccess, g.call("fd_write", 9, 0x40, 1, 0x20))
}

func TestFdstat(t *testing.T) {
	_, opts := testPreopen(t)
	g := newGuest(t, opts)

	fd, errno := g.pathOpen(3, "f.txt", wasiOflagsCreat, uint64(wasiRightsFdRead|wasiRightsFdWrite|wasiRightsFdSeek), uint64(wasiRightsFdRead), 0)
	require.EqualValues(t, wasiErrnoSuccess, errno)

	require.EqualValues(t, wasiErrnoSuccess, g.call("fd_fdstat_get", uint64(fd), 0x300))
	assert.Equal(t, byte(wasiFiletypeRegularFile), g.bytes(0x300, 1)[0])
	assert.Equal(t, uint64(wasiRightsFdRead|wasiRightsFdWrite|wasiRightsFdSeek), g.u64(0x300+8))
	assert.Equal(t, uint64(wasiRightsFdRead), g.u64(0x300+16))

	require.EqualValues(t, wasiErrnoSuccess, g.call("fd_fdstat_set_rights", uint64(fd), uint64(wasiRightsFdRead), 0))
	assert.EqualValues(t, wasiErrnoNotcapable, g.call("fd_fdstat_set_rights", uint64(fd), uint64(wasiRightsFdRead|wasiRightsFdWrite), 0))

	require.EqualValues(t, wasiErrnoSuccess, g.call("fd_fdstat_get", uint64(fd), 0x300))
	assert.Equal(t, uint64(wasiRightsFdRead), g.u64(0x300+8))
	assert.Equal(t, uint64(0), g.u64(0x300+16))
}

func TestClocks(t *testing.T) {
	g := newGuest(t, nil)

	require.EqualValues(t, wasiErrnoSuccess, g.call("clock_time_get", wasiClockidRealtime, 0, 0x20))
	now := time.Now().UnixNano()
	assert.InDelta(t, float64(now), float64(g.u64(0x20)), float64(5*time.Second))

	require.EqualValues(t, wasiErrnoSuccess, g.call("clock_time_get", wasiClockidMonotonic, 0, 0x20))
	first := g.u64(0x20)
	require.EqualValues(t, wasiErrnoSuccess, g.call("clock_time_get", wasiClockidMonotonic, 0, 0x28))
	assert.True(t, g.u64(0x28) >= first)

	require.EqualValues(t, wasiErrnoSuccess, g.call("clock_res_get", wasiClockidRealtime, 0x20))
	assert.Equal(t, uint64(1), g.u64(0x20))

	assert.EqualValues(t, wasiErrnoInval, g.call("clock_time_get", 9, 0, 0x20))
}

func TestPollOneoffTimer(t *testing.T) {
	g := newGuest(t, nil)

	// subscription: userdata, then a clock body: monotonic, 20ms relative.
	le.PutUint64(g.memory.Bytes()[0x600:], 0xcafe)
	g.memory.Bytes()[0x608] = wasiEventtypeClock
	le.PutUint32(g.memory.Bytes()[0x610:], wasiClockidMonotonic)
	le.PutUint64(g.memory.Bytes()[0x618:], uint64(20*time.Millisecond))

	start := time.Now()
	require.EqualValues(t, wasiErrnoSuccess, g.call("poll_oneoff", 0x600, 0x700, 1, 0x2f0))
	elapsed := time.Since(start)

	require.Equal(t, uint32(1), g.u32(0x2f0))
	assert.Equal(t, uint64(0xcafe), g.u64(0x700))
	assert.EqualValues(t, wasiErrnoSuccess, le.Uint16(g.memory.Bytes()[0x708:]))
	assert.Equal(t, byte(wasiEventtypeClock), g.memory.Bytes()[0x70a])
	assert.True(t, elapsed >= 20*time.Millisecond, "elapsed %v", elapsed)
}

func TestPollMixedShortTimer(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("poll is not supported on windows")
	}

	// An idle pipe keeps the poll on the fd path; the sub-millisecond timer
	// must still wait out its full timeout before firing.
	pr, pw, err := os.Pipe()
	require.NoError(t, err)
	defer pr.Close()
	defer pw.Close()

	const timeout = 1900 * time.Microsecond
	start := time.Now()
	events, err := NewFS().Poll([]Subscription{
		{Kind: SubscriptionRead, File: NewFile(pr, 0), Userdata: 1},
		{Kind: SubscriptionTimer, Timeout: timeout, Userdata: 2},
	})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, SubscriptionTimer, events[0].Kind)
	assert.Equal(t, uint64(2), events[0].Userdata)
	assert.True(t, time.Since(start) >= timeout)
}

func TestPollOneoffErrors(t *testing.T) {
	g := newGuest(t, nil)

	assert.EqualValues(t, wasiErrnoInval, g.call("poll_oneoff", 0x600, 0x700, 0, 0x2f0))

	// A subscription naming a closed descriptor is reported through its
	// event, not the call's errno.
	le.PutUint64(g.memory.Bytes()[0x600:], 0xf00d)
	g.memory.Bytes()[0x608] = wasiEventtypeFdRead
	le.PutUint32(g.memory.Bytes()[0x610:], 99)

	require.EqualValues(t, wasiErrnoSuccess, g.call("poll_oneoff", 0x600, 0x700, 1, 0x2f0))
	require.Equal(t, uint32(1), g.u32(0x2f0))
	assert.Equal(t, uint64(0xf00d), g.u64(0x700))
	assert.EqualValues(t, wasiErrnoBadf, le.Uint16(g.memory.Bytes()[0x708:]))
}

func TestProcExit(t *testing.T) {
	g := newGuest(t, nil)

	err := Call(func() error {
		g.call("proc_exit", 3)
		return nil
	})
	exit, ok := err.(*ExitError)
	require.True(t, ok)
	assert.Equal(t, 3, exit.Code())
	assert.Equal(t, "exit status 3", exit.Error())

	err = Call(func() error {
		g.call("proc_exit", 0)
		return nil
	})
	assert.NoError(t, err)
}

func TestProcRaise(t *testing.T) {
	g := newGuest(t, nil)

	assert.EqualValues(t, wasiErrnoSuccess, g.call("proc_raise", wasiSignalNone))
	assert.EqualValues(t, wasiErrnoSuccess, g.call("proc_raise", wasiSignalChld))
	assert.EqualValues(t, wasiErrnoNotsup, g.call("proc_raise", wasiSignalStop))
	assert.EqualValues(t, wasiErrnoInval, g.call("proc_raise", 99))

	err := Call(func() error {
		g.call("proc_raise", wasiSignalTerm)
		return nil
	})
	exit, ok := err.(*ExitError)
	require.True(t, ok)
	assert.Equal(t, 128+int(wasiSignalTerm), exit.Code())
}

func TestSchedYield(t *testing.T) {
	g := newGuest(t, nil)
	assert.EqualValues(t, wasiErrnoSuccess, g.call("sched_yield"))
}

func TestSockets(t *testing.T) {
	local, remote := net.Pipe()
	defer remote.Close()

	g := newGuest(t, &Options{Sockets: []Socket{NewSocket(local)}})

	done := make(chan struct{})
	go func() {
		defer close(done)
		remote.Write([]byte("ping"))

		buf := make([]byte, 4)
		remote.Read(buf)
		assert.Equal(t, []byte("pong"), buf)
	}()

	g.storeIovec(0x40, 0x100, 16)
	require.EqualValues(t, wasiErrnoSuccess, g.call("sock_recv", 3, 0x40, 1, 0, 0x20, 0x24))
	require.Equal(t, uint32(4), g.u32(0x20))
	assert.Equal(t, []byte("ping"), g.bytes(0x100, 4))

	g.iovec(0x40, 0x140, "pong")
	require.EqualValues(t, wasiErrnoSuccess, g.call("sock_send", 3, 0x40, 1, 0, 0x20))
	require.Equal(t, uint32(4), g.u32(0x20))
	<-done

	// net.Pipe cannot shut down a single direction.
	assert.EqualValues(t, wasiErrnoNosys, g.call("sock_shutdown", 3, uint64(wasiSdflagsRd|wasiSdflagsWr)))

	assert.EqualValues(t, wasiErrnoInval, g.call("sock_send", 3, 0x40, 1, 1, 0x20))
	assert.EqualValues(t, wasiErrnoInval, g.call("sock_recv", 3, 0x40, 1, 4, 0x20, 0x24))
	assert.EqualValues(t, wasiErrnoNotsock, g.call("sock_recv", 1, 0x40, 1, 0, 0x20, 0x24))
}

func TestFdAdviseAllocate(t *testing.T) {
	_, opts := testPreopen(t)
	g := newGuest(t, opts)

	fd, errno := g.pathOpen(3, "f.txt", wasiOflagsCreat, uint64(FileRights), 0, 0)
	require.EqualValues(t, wasiErrnoSuccess, errno)

	require.EqualValues(t, wasiErrnoSuccess, g.call("fd_advise", uint64(fd), 0, 4096, wasiAdviceSequential))
	assert.EqualValues(t, wasiErrnoInval, g.call("fd_advise", uint64(fd), 0, 4096, 17))

	require.EqualValues(t, wasiErrnoSuccess, g.call("fd_allocate", uint64(fd), 0, 4096))
	require.EqualValues(t, wasiErrnoSuccess, g.call("fd_filestat_get", uint64(fd), 0x300))
	assert.Equal(t, uint64(4096), g.u64(0x300+32))

	require.EqualValues(t, wasiErrnoSuccess, g.call("fd_sync", uint64(fd)))
	require.EqualValues(t, wasiErrnoSuccess, g.call("fd_datasync", uint64(fd)))
}

func TestFdFilestatSetTimes(t *testing.T) {
	_, opts := testPreopen(t)
	g := newGuest(t, opts)

	fd, errno := g.pathOpen(3, "f.txt", wasiOflagsCreat, uint64(FileRights), 0, 0)
	require.EqualValues(t, wasiErrnoSuccess, errno)

	mtime := time.Date(2001, 2, 3, 4, 5, 6, 0, time.UTC)
	require.EqualValues(t, wasiErrnoSuccess, g.call("fd_filestat_set_times",
		uint64(fd), 0, uint64(mtime.UnixNano()), uint64(wasiFstflagsMtim)))

	require.EqualValues(t, wasiErrnoSuccess, g.call("fd_filestat_get", uint64(fd), 0x300))
	assert.Equal(t, uint64(mtime.UnixNano()), g.u64(0x300+48))

	// Setting both an explicit time and "now" for the same timestamp is
	// contradictory.
	assert.EqualValues(t, wasiErrnoInval, g.call("fd_filestat_set_times",
		uint64(fd), 0, 0, uint64(wasiFstflagsMtim|wasiFstflagsMtimNow)))
}
