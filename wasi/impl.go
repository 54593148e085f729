package wasi

import (
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"
)

// TrapExit is panicked by proc_exit to unwind the guest's stack. Resolver and
// Run recover it at the instantiation boundary and convert it to an
// ExitError.
type TrapExit int

type wasiSnapshotPreview1Impl struct {
	wasi *wasiSnapshotPreview1

	start time.Time

	env  []string
	args []string

	fs      FS
	files   fileTable
	preopen []Preopen
}

func newImpl(wasi *wasiSnapshotPreview1, opts *Options) (*wasiSnapshotPreview1Impl, error) {
	env, args := os.Environ(), []string(nil)
	fs, preopen, sockets := NewFS(), []Preopen(nil), []Socket(nil)
	stdin, stdout, stderr := NewFile(os.Stdin, 0), NewFile(os.Stdout, wasiFdflagsAppend), NewFile(os.Stderr, wasiFdflagsAppend)
	if opts != nil {
		env = make([]string, 0, len(opts.Env))
		for k, v := range opts.Env {
			env = append(env, fmt.Sprintf("%s=%s", k, v))
		}
		sort.Strings(env)

		args = opts.Args

		if opts.FS != nil {
			fs = opts.FS
		}
		preopen, sockets = opts.Preopen, opts.Sockets

		if opts.Stdin != nil {
			stdin = NewReader(opts.Stdin)
		}
		if opts.Stdout != nil {
			stdout = NewWriter(opts.Stdout)
		}
		if opts.Stderr != nil {
			stderr = NewWriter(opts.Stderr)
		}
	}

	impl := &wasiSnapshotPreview1Impl{
		wasi:    wasi,
		start:   time.Now(),
		env:     env,
		args:    args,
		fs:      fs,
		preopen: preopen,
	}
	impl.files.mustAllocateFile(stdin, 0, FileRights, 0)
	impl.files.mustAllocateFile(stdout, 1, FileRights, 0)
	impl.files.mustAllocateFile(stderr, 2, FileRights, 0)

	for i, p := range preopen {
		fd, f, errno := impl.files.allocate(wasiRights(p.Rights), wasiRights(p.Inherit))
		if errno != wasiErrnoSuccess {
			return nil, fmt.Errorf("allocating preopen fd: errno %d", errno)
		}

		dir, err := fs.OpenDirectory(p.FSPath)
		if err != nil {
			impl.files.releaseFile(fd, f)
			return nil, err
		}

		f.preopen, f.open, f.f = i+1, true, dir
		impl.files.releaseFile(fd, f)
	}

	// Sockets occupy the descriptors immediately following the preopens.
	for _, s := range sockets {
		fd, f, errno := impl.files.allocate(FileRights, 0)
		if errno != wasiErrnoSuccess {
			return nil, fmt.Errorf("allocating socket fd: errno %d", errno)
		}
		f.open, f.f = true, s
		impl.files.releaseFile(fd, f)
	}

	return impl, nil
}

func (m *wasiSnapshotPreview1Impl) argsGet(pargv, pargvBuf pointer) wasiErrno {
	return m.storeStrings(m.args, pargv, pargvBuf)
}

func (m *wasiSnapshotPreview1Impl) argsSizesGet() (wasiSize, wasiSize, wasiErrno) {
	return sizesGet(m.args)
}

func (m *wasiSnapshotPreview1Impl) environGet(penviron, penvironBuf pointer) wasiErrno {
	return m.storeStrings(m.env, penviron, penvironBuf)
}

func (m *wasiSnapshotPreview1Impl) environSizesGet() (wasiSize, wasiSize, wasiErrno) {
	return sizesGet(m.env)
}

// storeStrings writes the argv/environ two-level encoding: a vector of
// pointers at vec and the NUL-terminated string data at buf. Both regions
// were sized by the guest from the corresponding sizes_get call.
func (m *wasiSnapshotPreview1Impl) storeStrings(strs []string, vec, buf pointer) wasiErrno {
	mem := m.view()
	for i, s := range strs {
		if err := mem.putUint32(buf, vec+uint32(i)*4); err != nil {
			return wasiErrnoFault
		}
		dest, err := mem.bytes(buf, uint32(len(s))+1)
		if err != nil {
			return wasiErrnoFault
		}
		copy(dest, s)
		dest[len(s)] = 0
		buf += uint32(len(s)) + 1
	}
	return wasiErrnoSuccess
}

func sizesGet(strs []string) (wasiSize, wasiSize, wasiErrno) {
	bytes := uint32(0)
	for _, s := range strs {
		bytes += uint32(len(s)) + 1
	}
	return uint32(len(strs)), bytes, wasiErrnoSuccess
}

func (m *wasiSnapshotPreview1Impl) clockResGet(pid wasiClockid) (rv wasiTimestamp, err wasiErrno) {
	switch pid {
	case wasiClockidRealtime, wasiClockidMonotonic:
		return 1, wasiErrnoSuccess
	case wasiClockidProcessCputimeId, wasiClockidThreadCputimeId:
		return cpuClockRes(pid)
	default:
		return 0, wasiErrnoInval
	}
}

func (m *wasiSnapshotPreview1Impl) clockTimeGet(pid wasiClockid, pprecision wasiTimestamp) (rv wasiTimestamp, err wasiErrno) {
	switch pid {
	case wasiClockidRealtime:
		return wasiTimestamp(time.Now().UnixNano()), wasiErrnoSuccess
	case wasiClockidMonotonic:
		return wasiTimestamp(time.Since(m.start)), wasiErrnoSuccess
	case wasiClockidProcessCputimeId, wasiClockidThreadCputimeId:
		return cpuClockTime(pid)
	default:
		return 0, wasiErrnoInval
	}
}

func (m *wasiSnapshotPreview1Impl) fdAdvise(pfd wasiFd, poffset, plen wasiFilesize, padvice wasiAdvice) wasiErrno {
	if padvice > wasiAdviceNoreuse {
		return wasiErrnoInval
	}
	f, errno := m.files.getFile(pfd, wasiRightsFdAdvise)
	if errno != wasiErrnoSuccess {
		return errno
	}
	if err := f.Advise(poffset, plen, int(padvice)); err != nil {
		return fileErrno(err)
	}
	return wasiErrnoSuccess
}

func (m *wasiSnapshotPreview1Impl) fdAllocate(pfd wasiFd, poffset, plen wasiFilesize) wasiErrno {
	f, errno := m.files.getFile(pfd, wasiRightsFdAllocate)
	if errno != wasiErrnoSuccess {
		return errno
	}
	if err := f.Allocate(poffset, plen); err != nil {
		return fileErrno(err)
	}
	return wasiErrnoSuccess
}

func (m *wasiSnapshotPreview1Impl) fdClose(pfd wasiFd) wasiErrno {
	f, errno := m.files.acquireFile(pfd, 0)
	if errno != wasiErrnoSuccess {
		return errno
	}

	err := f.f.Close()
	f.open = false
	m.files.releaseFile(pfd, f)

	if err != nil {
		return fileErrno(err)
	}
	return wasiErrnoSuccess
}

func (m *wasiSnapshotPreview1Impl) fdDatasync(pfd wasiFd) wasiErrno {
	f, errno := m.files.getFile(pfd, wasiRightsFdDatasync)
	if errno != wasiErrnoSuccess {
		return errno
	}
	if err := f.Datasync(); err != nil {
		return fileErrno(err)
	}
	return wasiErrnoSuccess
}

func (m *wasiSnapshotPreview1Impl) fdFdstatGet(pfd wasiFd) (rv wasiFdstat, err wasiErrno) {
	f, errno := m.files.acquireFile(pfd, 0)
	if errno != wasiErrnoSuccess {
		return wasiFdstat{}, errno
	}
	defer m.files.releaseFile(pfd, f)

	stat, serr := f.f.Stat()
	if serr != nil {
		return wasiFdstat{}, fileErrno(serr)
	}

	return wasiFdstat{
		fsFiletype:         filetype(stat.Mode),
		fsFlags:            f.fdflags,
		fsRightsBase:       f.rights,
		fsRightsInheriting: f.inherit,
	}, wasiErrnoSuccess
}

func (m *wasiSnapshotPreview1Impl) fdFdstatSetFlags(pfd wasiFd, pflags wasiFdflags) wasiErrno {
	f, errno := m.files.acquireFile(pfd, wasiRightsFdFdstatSetFlags)
	if errno != wasiErrnoSuccess {
		return errno
	}
	defer m.files.releaseFile(pfd, f)

	if err := f.f.SetFlags(int(pflags)); err != nil {
		return fileErrno(err)
	}
	f.fdflags = pflags
	return wasiErrnoSuccess
}

func (m *wasiSnapshotPreview1Impl) fdFdstatSetRights(pfd wasiFd, pfsRightsBase, pfsRightsInheriting wasiRights) wasiErrno {
	return m.files.setRights(pfd, pfsRightsBase, pfsRightsInheriting)
}

func (m *wasiSnapshotPreview1Impl) fdFilestatGet(pfd wasiFd) (rv wasiFilestat, err wasiErrno) {
	f, errno := m.files.getFile(pfd, wasiRightsFdFilestatGet)
	if errno != wasiErrnoSuccess {
		return wasiFilestat{}, errno
	}
	stat, serr := f.Stat()
	if serr != nil {
		return wasiFilestat{}, fileErrno(serr)
	}
	return filestat(stat.FileStat), wasiErrnoSuccess
}

func (m *wasiSnapshotPreview1Impl) fdFilestatSetSize(pfd wasiFd, psize wasiFilesize) wasiErrno {
	f, errno := m.files.getFile(pfd, wasiRightsFdFilestatSetSize)
	if errno != wasiErrnoSuccess {
		return errno
	}
	if err := f.SetSize(psize); err != nil {
		return fileErrno(err)
	}
	return wasiErrnoSuccess
}

func (m *wasiSnapshotPreview1Impl) fdFilestatSetTimes(pfd wasiFd, patim, pmtim wasiTimestamp, pfstFlags wasiFstflags) wasiErrno {
	atime, mtime, errno := setTimes(patim, pmtim, pfstFlags)
	if errno != wasiErrnoSuccess {
		return errno
	}
	f, errno := m.files.getFile(pfd, wasiRightsFdFilestatSetTimes)
	if errno != wasiErrnoSuccess {
		return errno
	}
	if err := f.SetTimes(atime, mtime); err != nil {
		return fileErrno(err)
	}
	return wasiErrnoSuccess
}

func (m *wasiSnapshotPreview1Impl) fdPread(pfd wasiFd, piovs list, poffset wasiFilesize) (rv wasiSize, err wasiErrno) {
	buffers, errno := m.buffers(piovs)
	if errno != wasiErrnoSuccess {
		return 0, errno
	}
	f, errno := m.files.getFile(pfd, wasiRightsFdRead|wasiRightsFdSeek)
	if errno != wasiErrnoSuccess {
		return 0, errno
	}
	n, rerr := f.Pread(buffers, int64(poffset))
	if rerr != nil && rerr != io.EOF {
		return n, fileErrno(rerr)
	}
	return n, wasiErrnoSuccess
}

func (m *wasiSnapshotPreview1Impl) fdPrestatGet(pfd wasiFd) (rv wasiPrestat, err wasiErrno) {
	i, errno := m.files.getPreopen(pfd)
	if errno != wasiErrnoSuccess {
		return wasiPrestat{}, errno
	}
	return wasiPrestat{
		tag: wasiPreopentypeDir,
		dir: wasiPrestatDir{prNameLen: uint32(len(m.preopen[i].Path))},
	}, wasiErrnoSuccess
}

func (m *wasiSnapshotPreview1Impl) fdPrestatDirName(pfd wasiFd, ppath pointer, ppathLen wasiSize) wasiErrno {
	i, errno := m.files.getPreopen(pfd)
	if errno != wasiErrnoSuccess {
		return errno
	}

	name := m.preopen[i].Path
	if ppathLen < uint32(len(name)) {
		return wasiErrnoNametoolong
	}
	dest, err := m.view().bytes(ppath, uint32(len(name)))
	if err != nil {
		return wasiErrnoFault
	}
	copy(dest, name)
	return wasiErrnoSuccess
}

func (m *wasiSnapshotPreview1Impl) fdPwrite(pfd wasiFd, piovs list, poffset wasiFilesize) (rv wasiSize, err wasiErrno) {
	buffers, errno := m.buffers(piovs)
	if errno != wasiErrnoSuccess {
		return 0, errno
	}
	f, errno := m.files.getFile(pfd, wasiRightsFdWrite|wasiRightsFdSeek)
	if errno != wasiErrnoSuccess {
		return 0, errno
	}
	n, werr := f.Pwrite(buffers, int64(poffset))
	if werr != nil {
		return n, fileErrno(werr)
	}
	return n, wasiErrnoSuccess
}

func (m *wasiSnapshotPreview1Impl) fdRead(pfd wasiFd, piovs list) (rv wasiSize, err wasiErrno) {
	buffers, errno := m.buffers(piovs)
	if errno != wasiErrnoSuccess {
		return 0, errno
	}
	f, errno := m.files.getFile(pfd, wasiRightsFdRead)
	if errno != wasiErrnoSuccess {
		return 0, errno
	}
	n, rerr := f.Readv(buffers)
	if rerr != nil && rerr != io.EOF {
		return n, fileErrno(rerr)
	}
	return n, wasiErrnoSuccess
}

func (m *wasiSnapshotPreview1Impl) fdReaddir(pfd wasiFd, pbuf pointer, pbufLen wasiSize, pcookie wasiDircookie) (rv wasiSize, err wasiErrno) {
	dest, merr := m.view().bytes(pbuf, pbufLen)
	if merr != nil {
		return 0, wasiErrnoFault
	}

	f, errno := m.files.acquireFile(pfd, wasiRightsFdReaddir)
	if errno != wasiErrnoSuccess {
		return 0, errno
	}
	defer m.files.releaseFile(pfd, f)

	dir, ok := f.f.(Directory)
	if !ok {
		return 0, wasiErrnoNotdir
	}

	// Cookie 0 re-snapshots the directory; nonzero cookies page through the
	// snapshot taken by the first call so that entries are not skipped or
	// duplicated if the directory changes mid-iteration.
	if pcookie == 0 || f.entries == nil {
		entries, rerr := dir.ReadDir(-1)
		if rerr != nil && rerr != io.EOF {
			return 0, fileErrno(rerr)
		}
		f.entries = entries
	}
	if pcookie > uint64(len(f.entries)) {
		return 0, wasiErrnoInval
	}

	written := 0
	for i := int(pcookie); i < len(f.entries); i++ {
		entry := f.entries[i]
		name := entry.Name()

		ino := uint64(0)
		if info, ierr := entry.Info(); ierr == nil {
			ino = fileStat(info).Inode
		}

		dirent := wasiDirent{
			dNext:   uint64(i) + 1,
			dIno:    ino,
			dNamlen: uint32(len(name)),
			dType:   filetype(entry.Type()),
		}

		// Entries that do not fit are truncated; a full buffer tells the
		// guest to retry with a larger one or resume from the last cookie.
		header := dirent.encode()
		n := copy(dest[written:], header[:])
		written += n
		if n < len(header) {
			break
		}
		n = copy(dest[written:], name)
		written += n
		if n < len(name) {
			break
		}
	}
	return uint32(written), wasiErrnoSuccess
}

func (m *wasiSnapshotPreview1Impl) fdRenumber(pfd, pto wasiFd) wasiErrno {
	return m.files.renumber(pfd, pto)
}

func (m *wasiSnapshotPreview1Impl) fdSeek(pfd wasiFd, poffset wasiFiledelta, pwhence wasiWhence) (rv wasiFilesize, err wasiErrno) {
	var whence int
	switch pwhence {
	case wasiWhenceSet:
		whence = io.SeekStart
	case wasiWhenceCur:
		whence = io.SeekCurrent
	case wasiWhenceEnd:
		whence = io.SeekEnd
	default:
		return 0, wasiErrnoInval
	}

	f, errno := m.files.getFile(pfd, wasiRightsFdSeek)
	if errno != wasiErrnoSuccess {
		return 0, errno
	}
	offset, serr := f.Seek(poffset, whence)
	if serr != nil {
		return 0, fileErrno(serr)
	}
	return wasiFilesize(offset), wasiErrnoSuccess
}

func (m *wasiSnapshotPreview1Impl) fdSync(pfd wasiFd) wasiErrno {
	f, errno := m.files.getFile(pfd, wasiRightsFdSync)
	if errno != wasiErrnoSuccess {
		return errno
	}
	if err := f.Sync(); err != nil {
		return fileErrno(err)
	}
	return wasiErrnoSuccess
}

func (m *wasiSnapshotPreview1Impl) fdTell(pfd wasiFd) (rv wasiFilesize, err wasiErrno) {
	f, errno := m.files.getFile(pfd, wasiRightsFdTell)
	if errno != wasiErrnoSuccess {
		return 0, errno
	}
	offset, serr := f.Seek(0, io.SeekCurrent)
	if serr != nil {
		return 0, fileErrno(serr)
	}
	return wasiFilesize(offset), wasiErrnoSuccess
}

func (m *wasiSnapshotPreview1Impl) fdWrite(pfd wasiFd, piovs list) (rv wasiSize, err wasiErrno) {
	buffers, errno := m.buffers(piovs)
	if errno != wasiErrnoSuccess {
		return 0, errno
	}
	f, errno := m.files.getFile(pfd, wasiRightsFdWrite)
	if errno != wasiErrnoSuccess {
		return 0, errno
	}
	n, werr := f.Writev(buffers)
	if werr != nil {
		return n, fileErrno(werr)
	}
	return n, wasiErrnoSuccess
}

func (m *wasiSnapshotPreview1Impl) pathCreateDirectory(pfd wasiFd, ppath list) wasiErrno {
	path, errno := m.loadPath(ppath)
	if errno != wasiErrnoSuccess {
		return errno
	}
	dir, errno := m.files.getDirectory(pfd, wasiRightsPathCreateDirectory)
	if errno != wasiErrnoSuccess {
		return errno
	}
	if err := dir.Mkdir(path); err != nil {
		return fileErrno(err)
	}
	return wasiErrnoSuccess
}

func (m *wasiSnapshotPreview1Impl) pathFilestatGet(pfd wasiFd, pflags wasiLookupflags, ppath list) (rv wasiFilestat, err wasiErrno) {
	path, errno := m.loadPath(ppath)
	if errno != wasiErrnoSuccess {
		return wasiFilestat{}, errno
	}
	dir, errno := m.files.getDirectory(pfd, wasiRightsPathFilestatGet)
	if errno != wasiErrnoSuccess {
		return wasiFilestat{}, errno
	}
	stat, serr := dir.FileStat(path, pflags&wasiLookupflagsSymlinkFollow != 0)
	if serr != nil {
		return wasiFilestat{}, fileErrno(serr)
	}
	return filestat(stat), wasiErrnoSuccess
}

func (m *wasiSnapshotPreview1Impl) pathFilestatSetTimes(pfd wasiFd, pflags wasiLookupflags, ppath list, patim, pmtim wasiTimestamp, pfstFlags wasiFstflags) wasiErrno {
	atime, mtime, errno := setTimes(patim, pmtim, pfstFlags)
	if errno != wasiErrnoSuccess {
		return errno
	}
	path, errno := m.loadPath(ppath)
	if errno != wasiErrnoSuccess {
		return errno
	}
	dir, errno := m.files.getDirectory(pfd, wasiRightsPathFilestatSetTimes)
	if errno != wasiErrnoSuccess {
		return errno
	}
	if err := dir.SetFileTimes(path, atime, mtime, pflags&wasiLookupflagsSymlinkFollow != 0); err != nil {
		return fileErrno(err)
	}
	return wasiErrnoSuccess
}

func (m *wasiSnapshotPreview1Impl) pathLink(poldFd wasiFd, poldFlags wasiLookupflags, poldPath list, pnewFd wasiFd, pnewPath list) wasiErrno {
	oldPath, errno := m.loadPath(poldPath)
	if errno != wasiErrnoSuccess {
		return errno
	}
	newPath, errno := m.loadPath(pnewPath)
	if errno != wasiErrnoSuccess {
		return errno
	}
	oldDir, errno := m.files.getDirectory(poldFd, wasiRightsPathLinkSource)
	if errno != wasiErrnoSuccess {
		return errno
	}
	newDir, errno := m.files.getDirectory(pnewFd, wasiRightsPathLinkTarget)
	if errno != wasiErrnoSuccess {
		return errno
	}
	if err := m.fs.Link(oldDir, oldPath, newDir, newPath); err != nil {
		return fileErrno(err)
	}
	return wasiErrnoSuccess
}

func (m *wasiSnapshotPreview1Impl) pathOpen(pfd wasiFd, pdirflags wasiLookupflags, ppath list, poflags wasiOflags, pfsRightsBase, pfsRightsInheriting wasiRights, pfdflags wasiFdflags) (rv wasiFd, err wasiErrno) {
	path, errno := m.loadPath(ppath)
	if errno != wasiErrnoSuccess {
		return 0, errno
	}

	requiredRights := wasiRights(wasiRightsPathOpen)
	if poflags&wasiOflagsCreat != 0 {
		requiredRights |= wasiRightsPathCreateFile
	}
	if poflags&wasiOflagsTrunc != 0 {
		requiredRights |= wasiRightsPathFilestatSetSize
	}

	f, errno := m.files.acquireFile(pfd, requiredRights)
	if errno != wasiErrnoSuccess {
		return 0, errno
	}
	dir, ok := f.f.(Directory)
	inherit := f.inherit
	m.files.releaseFile(pfd, f)

	if !ok {
		return 0, wasiErrnoNotdir
	}
	// Rights on the new descriptor are capped by the parent's inheriting
	// set.
	if pfsRightsBase&^inherit != 0 || pfsRightsInheriting&^inherit != 0 {
		return 0, wasiErrnoNotcapable
	}

	oflags := poflags
	if strings.HasSuffix(path, "/") {
		oflags |= wasiOflagsDirectory
	}
	opts := OpenOptions{
		OFlags:         int(oflags),
		FDFlags:        int(pfdflags),
		Read:           pfsRightsBase&(wasiRightsFdRead|wasiRightsFdReaddir) != 0,
		Write:          pfsRightsBase&(wasiRightsFdWrite|wasiRightsFdAllocate|wasiRightsFdFilestatSetSize|wasiRightsFdDatasync) != 0,
		FollowSymlinks: pdirflags&wasiLookupflagsSymlinkFollow != 0,
	}

	fd, wasiFile, errno := m.files.allocate(pfsRightsBase, pfsRightsInheriting)
	if errno != wasiErrnoSuccess {
		return 0, errno
	}

	fsFile, ferr := dir.Open(path, opts)
	if ferr != nil {
		m.files.releaseFile(fd, wasiFile)
		return 0, fileErrno(ferr)
	}

	wasiFile.open, wasiFile.fdflags, wasiFile.f = true, pfdflags, fsFile
	m.files.releaseFile(fd, wasiFile)
	return fd, wasiErrnoSuccess
}

func (m *wasiSnapshotPreview1Impl) pathReadlink(pfd wasiFd, ppath list, pbuf pointer, pbufLen wasiSize) (rv wasiSize, err wasiErrno) {
	path, errno := m.loadPath(ppath)
	if errno != wasiErrnoSuccess {
		return 0, errno
	}
	dest, merr := m.view().bytes(pbuf, pbufLen)
	if merr != nil {
		return 0, wasiErrnoFault
	}
	dir, errno := m.files.getDirectory(pfd, wasiRightsPathReadlink)
	if errno != wasiErrnoSuccess {
		return 0, errno
	}
	target, rerr := dir.ReadLink(path)
	if rerr != nil {
		return 0, fileErrno(rerr)
	}
	return uint32(copy(dest, target)), wasiErrnoSuccess
}

func (m *wasiSnapshotPreview1Impl) pathRemoveDirectory(pfd wasiFd, ppath list) wasiErrno {
	path, errno := m.loadPath(ppath)
	if errno != wasiErrnoSuccess {
		return errno
	}
	dir, errno := m.files.getDirectory(pfd, wasiRightsPathRemoveDirectory)
	if errno != wasiErrnoSuccess {
		return errno
	}
	if err := dir.Rmdir(path); err != nil {
		return fileErrno(err)
	}
	return wasiErrnoSuccess
}

func (m *wasiSnapshotPreview1Impl) pathRename(pfd wasiFd, poldPath list, pnewFd wasiFd, pnewPath list) wasiErrno {
	oldPath, errno := m.loadPath(poldPath)
	if errno != wasiErrnoSuccess {
		return errno
	}
	newPath, errno := m.loadPath(pnewPath)
	if errno != wasiErrnoSuccess {
		return errno
	}
	oldDir, errno := m.files.getDirectory(pfd, wasiRightsPathRenameSource)
	if errno != wasiErrnoSuccess {
		return errno
	}
	newDir, errno := m.files.getDirectory(pnewFd, wasiRightsPathRenameTarget)
	if errno != wasiErrnoSuccess {
		return errno
	}
	if err := m.fs.Rename(oldDir, oldPath, newDir, newPath); err != nil {
		return fileErrno(err)
	}
	return wasiErrnoSuccess
}

func (m *wasiSnapshotPreview1Impl) pathSymlink(poldPath list, pfd wasiFd, pnewPath list) wasiErrno {
	// The link target is stored verbatim; it is validated against the
	// sandbox when the link is followed, not when it is created.
	target, merr := m.loadString(poldPath)
	if merr != nil {
		return wasiErrnoFault
	}
	newPath, errno := m.loadPath(pnewPath)
	if errno != wasiErrnoSuccess {
		return errno
	}
	dir, errno := m.files.getDirectory(pfd, wasiRightsPathSymlink)
	if errno != wasiErrnoSuccess {
		return errno
	}
	if err := m.fs.Symlink(target, dir, newPath); err != nil {
		return fileErrno(err)
	}
	return wasiErrnoSuccess
}

func (m *wasiSnapshotPreview1Impl) pathUnlinkFile(pfd wasiFd, ppath list) wasiErrno {
	path, errno := m.loadPath(ppath)
	if errno != wasiErrnoSuccess {
		return errno
	}
	dir, errno := m.files.getDirectory(pfd, wasiRightsPathUnlinkFile)
	if errno != wasiErrnoSuccess {
		return errno
	}
	if err := dir.UnlinkFile(path); err != nil {
		return fileErrno(err)
	}
	return wasiErrnoSuccess
}

func (m *wasiSnapshotPreview1Impl) pollOneoff(pin, pout pointer, pnsubscriptions wasiSize) (rv wasiSize, err wasiErrno) {
	if pnsubscriptions == 0 {
		return 0, wasiErrnoInval
	}

	mem := m.view()

	var subs []Subscription
	var errEvents []wasiEvent
	for i := uint32(0); i < pnsubscriptions; i++ {
		var wasiSub wasiSubscription
		if lerr := wasiSub.load(mem, pin+i*48); lerr != nil {
			return 0, wasiErrnoFault
		}

		switch wasiSub.u.tag {
		case wasiEventtypeClock:
			clock := &wasiSub.u.clock
			sub := Subscription{Kind: SubscriptionTimer, Userdata: wasiSub.userdata}

			switch {
			case clock.id != wasiClockidRealtime && clock.id != wasiClockidMonotonic:
				errEvents = append(errEvents, wasiEvent{
					userdata: wasiSub.userdata,
					error:    wasiErrnoNotsup,
					type_:    wasiSub.u.tag,
				})
				continue
			case clock.flags&wasiSubclockflagsSubscriptionClockAbstime == 0:
				sub.Timeout = time.Duration(clock.timeout)
			case clock.id == wasiClockidRealtime:
				sub.Deadline = time.Unix(0, int64(clock.timeout))
			default:
				sub.Deadline = m.start.Add(time.Duration(clock.timeout))
			}
			subs = append(subs, sub)

		case wasiEventtypeFdRead, wasiEventtypeFdWrite:
			kind, fd := SubscriptionRead, wasiSub.u.fdRead.fileDescriptor
			if wasiSub.u.tag == wasiEventtypeFdWrite {
				kind, fd = SubscriptionWrite, wasiSub.u.fdWrite.fileDescriptor
			}

			f, errno := m.files.getFile(fd, wasiRightsPollFdReadwrite)
			if errno != wasiErrnoSuccess {
				errEvents = append(errEvents, wasiEvent{
					userdata: wasiSub.userdata,
					error:    errno,
					type_:    wasiSub.u.tag,
				})
				continue
			}
			subs = append(subs, Subscription{Kind: kind, File: f, Userdata: wasiSub.userdata})

		default:
			return 0, wasiErrnoInval
		}
	}

	// Failed subscriptions are immediately ready with their error recorded
	// in the corresponding event, so the poll itself is skipped.
	if len(errEvents) != 0 {
		for i, event := range errEvents {
			if serr := event.store(mem, pout+uint32(i)*32); serr != nil {
				return 0, wasiErrnoFault
			}
		}
		return uint32(len(errEvents)), wasiErrnoSuccess
	}

	events, perr := m.fs.Poll(subs)
	if perr != nil {
		return 0, fileErrno(perr)
	}

	for i, event := range events {
		wasiEv := wasiEvent{
			userdata: event.Userdata,
			error:    wasiErrno(event.Error),
		}
		switch event.Kind {
		case SubscriptionTimer:
			wasiEv.type_ = wasiEventtypeClock
		case SubscriptionRead:
			wasiEv.type_ = wasiEventtypeFdRead
		case SubscriptionWrite:
			wasiEv.type_ = wasiEventtypeFdWrite
		}
		wasiEv.fdReadwrite = wasiEventFdReadwrite{
			nbytes: uint64(event.Available),
			flags:  wasiEventrwflags(event.Flags),
		}
		if serr := wasiEv.store(mem, pout+uint32(i)*32); serr != nil {
			return 0, wasiErrnoFault
		}
	}
	return uint32(len(events)), wasiErrnoSuccess
}

func (m *wasiSnapshotPreview1Impl) procExit(prval wasiExitcode) {
	panic(TrapExit(int(int32(prval))))
}

func (m *wasiSnapshotPreview1Impl) procRaise(psig wasiSignal) wasiErrno {
	switch psig {
	case wasiSignalNone:
		return wasiErrnoSuccess
	case wasiSignalChld, wasiSignalCont, wasiSignalUrg, wasiSignalWinch, wasiSignalPwr:
		// Ignored by default.
		return wasiErrnoSuccess
	case wasiSignalStop, wasiSignalTstp, wasiSignalTtin, wasiSignalTtou:
		// There is no one to continue a stopped guest.
		return wasiErrnoNotsup
	default:
		if psig > wasiSignalSys {
			return wasiErrnoInval
		}
		panic(TrapExit(128 + int(psig)))
	}
}

func (m *wasiSnapshotPreview1Impl) schedYield() wasiErrno {
	runtime.Gosched()
	return wasiErrnoSuccess
}

func (m *wasiSnapshotPreview1Impl) randomGet(pbuf pointer, pbufLen wasiSize) wasiErrno {
	dest, err := m.view().bytes(pbuf, pbufLen)
	if err != nil {
		return wasiErrnoFault
	}
	if _, err := rand.Read(dest); err != nil {
		return wasiErrnoIo
	}
	return wasiErrnoSuccess
}

func (m *wasiSnapshotPreview1Impl) sockRecv(pfd wasiFd, priData list, priFlags wasiRiflags) (rv wasiSize, roflags wasiRoflags, err wasiErrno) {
	if priFlags&^(wasiRiflagsRecvPeek|wasiRiflagsRecvWaitall) != 0 {
		return 0, 0, wasiErrnoInval
	}
	buffers, errno := m.buffers(priData)
	if errno != wasiErrnoSuccess {
		return 0, 0, errno
	}
	s, errno := m.files.getSocket(pfd, wasiRightsFdRead)
	if errno != wasiErrnoSuccess {
		return 0, 0, errno
	}
	n, truncated, rerr := s.Recv(buffers, priFlags&wasiRiflagsRecvPeek != 0, priFlags&wasiRiflagsRecvWaitall != 0)
	if rerr != nil && rerr != io.EOF {
		return n, 0, fileErrno(rerr)
	}
	if truncated {
		roflags = wasiRoflagsRecvDataTruncated
	}
	return n, roflags, wasiErrnoSuccess
}

func (m *wasiSnapshotPreview1Impl) sockSend(pfd wasiFd, psiData list, psiFlags wasiSiflags) (rv wasiSize, err wasiErrno) {
	if psiFlags != 0 {
		return 0, wasiErrnoInval
	}
	buffers, errno := m.buffers(psiData)
	if errno != wasiErrnoSuccess {
		return 0, errno
	}
	s, errno := m.files.getSocket(pfd, wasiRightsFdWrite)
	if errno != wasiErrnoSuccess {
		return 0, errno
	}
	n, serr := s.Send(buffers)
	if serr != nil {
		return n, fileErrno(serr)
	}
	return n, wasiErrnoSuccess
}

func (m *wasiSnapshotPreview1Impl) sockShutdown(pfd wasiFd, phow wasiSdflags) wasiErrno {
	if phow == 0 || phow&^(wasiSdflagsRd|wasiSdflagsWr) != 0 {
		return wasiErrnoInval
	}
	s, errno := m.files.getSocket(pfd, wasiRightsSockShutdown)
	if errno != wasiErrnoSuccess {
		return errno
	}
	if err := s.Shutdown(phow&wasiSdflagsRd != 0, phow&wasiSdflagsWr != 0); err != nil {
		return fileErrno(err)
	}
	return wasiErrnoSuccess
}

func (m *wasiSnapshotPreview1Impl) view() memoryView {
	return memoryView{mem: m.wasi.memory}
}

// buffers materializes a guest iovec array as host byte slices aliasing the
// guest's linear memory.
func (m *wasiSnapshotPreview1Impl) buffers(iovs list) ([][]byte, wasiErrno) {
	if iovs.length < 0 {
		return nil, wasiErrnoInval
	}

	mem := m.view()
	buffers := make([][]byte, iovs.length)
	for i := range buffers {
		var vec wasiIovec
		if err := vec.load(mem, iovs.pointer+uint32(i)*8); err != nil {
			return nil, wasiErrnoFault
		}
		b, err := mem.bytes(vec.buf, vec.bufLen)
		if err != nil {
			return nil, wasiErrnoFault
		}
		buffers[i] = b
	}
	return buffers, wasiErrnoSuccess
}

func (m *wasiSnapshotPreview1Impl) loadString(l list) (string, error) {
	if l.length < 0 {
		return "", os.ErrInvalid
	}
	return m.view().readString(l.pointer, uint32(l.length))
}

// loadPath reads a guest-supplied path. Validation and sandboxing happen in
// the filesystem layer; out-of-bounds reads are the only failure here.
func (m *wasiSnapshotPreview1Impl) loadPath(l list) (string, wasiErrno) {
	s, err := m.loadString(l)
	if err == os.ErrInvalid {
		return "", wasiErrnoInval
	}
	if err != nil {
		return "", wasiErrnoFault
	}
	return s, wasiErrnoSuccess
}

// setTimes decodes a pair of fst_flags-qualified timestamps. nil means leave
// the corresponding time untouched.
func setTimes(patim, pmtim wasiTimestamp, flags wasiFstflags) (*time.Time, *time.Time, wasiErrno) {
	if flags&wasiFstflagsAtim != 0 && flags&wasiFstflagsAtimNow != 0 {
		return nil, nil, wasiErrnoInval
	}
	if flags&wasiFstflagsMtim != 0 && flags&wasiFstflagsMtimNow != 0 {
		return nil, nil, wasiErrnoInval
	}

	now := time.Now()

	var atime, mtime *time.Time
	switch {
	case flags&wasiFstflagsAtim != 0:
		t := time.Unix(0, int64(patim))
		atime = &t
	case flags&wasiFstflagsAtimNow != 0:
		atime = &now
	}
	switch {
	case flags&wasiFstflagsMtim != 0:
		t := time.Unix(0, int64(pmtim))
		mtime = &t
	case flags&wasiFstflagsMtimNow != 0:
		mtime = &now
	}
	return atime, mtime, wasiErrnoSuccess
}

func filestat(stat FileStat) wasiFilestat {
	return wasiFilestat{
		dev:      stat.Dev,
		ino:      stat.Inode,
		filetype: filetype(stat.Mode),
		nlink:    stat.LinkCount,
		size:     stat.Size,
		atim:     wasiTimestamp(stat.AccessTime.UnixNano()),
		mtim:     wasiTimestamp(stat.ModTime.UnixNano()),
		ctim:     wasiTimestamp(stat.ChangeTime.UnixNano()),
	}
}

func filetype(mode os.FileMode) wasiFiletype {
	mode = mode & os.ModeType
	switch {
	case mode == 0:
		return wasiFiletypeRegularFile
	case mode&os.ModeDevice != 0:
		if mode&os.ModeCharDevice == 0 {
			return wasiFiletypeBlockDevice
		}
		return wasiFiletypeCharacterDevice
	case mode&os.ModeDir != 0:
		return wasiFiletypeDirectory
	case mode&os.ModeSocket != 0:
		return wasiFiletypeSocketStream
	case mode&os.ModeSymlink != 0:
		return wasiFiletypeSymbolicLink
	default:
		return wasiFiletypeUnknown
	}
}
