package wasi

import (
	"io"
	"os"
	"path"
	"path/filepath"
	"time"
)

const (
	// The application has no advice to give on its behavior with respect to the specified data.
	AdviceNormal = wasiAdviceNormal
	// The application expects to access the specified data sequentially from lower offsets to higher offsets.
	AdviceSequential = wasiAdviceSequential
	// The application expects to access the specified data in a random order.
	AdviceRandom = wasiAdviceRandom
	// The application expects to access the specified data in the near future.
	AdviceWillneed = wasiAdviceWillneed
	// The application expects that it will not access the specified data in the near future.
	AdviceDontneed = wasiAdviceDontneed
	// The application expects to access the specified data once and then not reuse it thereafter.
	AdviceNoreuse = wasiAdviceNoreuse

	// Append mode: Data written to the file is always appended to the file's end.
	F_Append = wasiFdflagsAppend
	// Write according to synchronized I/O data integrity completion. Only the data stored in the file is synchronized.
	F_Dsync = wasiFdflagsDsync
	// Non-blocking mode.
	F_Nonblock = wasiFdflagsNonblock
	// Synchronized read I/O operations.
	F_Rsync = wasiFdflagsRsync
	// Write according to synchronized I/O file integrity completion. In
	// addition to synchronizing the data stored in the file, the implementation
	// may also synchronously update the file's metadata.
	F_Sync = wasiFdflagsSync

	// Create file if it does not exist.
	O_Create = wasiOflagsCreat
	// Fail if not a directory.
	O_Directory = wasiOflagsDirectory
	// Fail if file already exists.
	O_Excl = wasiOflagsExcl
	// Truncate file to size 0.
	O_Trunc = wasiOflagsTrunc

	// The given timeout has expired or deadline has been reached.
	SubscriptionTimer = 0
	// The given file has data available for reading.
	SubscriptionRead = 1
	// The given file has data available for writing.
	SubscriptionWrite = 2

	// The peer of this socket has closed or disconnected.
	EventHangup = wasiEventrwflagsFdReadwriteHangup

	// ErrnoIO indicates that an I/O error occurred during Poll.
	ErrnoIO = wasiErrnoIo
)

type FileStat struct {
	Dev        uint64
	Inode      uint64
	Mode       os.FileMode
	LinkCount  uint64
	Size       uint64
	AccessTime time.Time
	ModTime    time.Time
	ChangeTime time.Time
}

type FDStat struct {
	FileStat

	Flags int
}

type Subscription struct {
	Kind     int
	File     File
	Timeout  time.Duration
	Deadline time.Time
	Userdata uint64
}

type Event struct {
	Kind      int
	Error     int
	Available uint
	Flags     int
	Userdata  uint64
}

// OpenOptions carries the access mode and resolution behavior for
// Directory.Open. Read and Write are derived from the rights requested for
// the new descriptor; FollowSymlinks reflects the caller's lookup flags and
// only applies to the final path component.
type OpenOptions struct {
	OFlags  int
	FDFlags int

	Read           bool
	Write          bool
	FollowSymlinks bool
}

type FS interface {
	OpenDirectory(path string) (Directory, error)
	Link(sourceDir Directory, sourceName string, targetDir Directory, targetName string) error
	Poll(subscriptions []Subscription) ([]Event, error)
	Rename(sourceDir Directory, sourceName string, targetDir Directory, targetName string) error
	Symlink(target string, dir Directory, name string) error
}

type Directory interface {
	File

	FileStat(path string, followSymlinks bool) (FileStat, error)
	Mkdir(path string) error
	Open(path string, opts OpenOptions) (File, error)
	// ReadDir(-1) returns the complete listing on every call; it must not
	// leave the stream positioned at the end for the next caller.
	ReadDir(n int) ([]os.DirEntry, error)
	ReadLink(path string) (string, error)
	Rmdir(path string) error
	SetFileTimes(path string, accessTime *time.Time, modTime *time.Time, followSymlinks bool) error
	UnlinkFile(path string) error
}

type File interface {
	Advise(offset, length uint64, advice int) error
	Allocate(offset, length uint64) error
	Close() error
	Datasync() error
	Pread(buffers [][]byte, offset int64) (uint32, error)
	Pwrite(buffers [][]byte, offset int64) (uint32, error)
	Readv(buffers [][]byte) (uint32, error)
	Seek(offset int64, whence int) (int64, error)
	SetFlags(flags int) error
	SetSize(size uint64) error
	SetTimes(accessTime *time.Time, modTime *time.Time) error
	Stat() (FDStat, error)
	Sync() error
	Writev(buffers [][]byte) (uint32, error)
}

// ErrFile is a File whose operations all fail with os.ErrInvalid. It serves
// as the embedded base for partial File implementations.
type ErrFile int

var _ = File(ErrFile(0))

func (ErrFile) Advise(offset, length uint64, advice int) error {
	return os.ErrInvalid
}

func (ErrFile) Allocate(offset, length uint64) error {
	return os.ErrInvalid
}

func (ErrFile) Close() error {
	return nil
}

func (ErrFile) Datasync() error {
	return os.ErrInvalid
}

func (ErrFile) Pread(buffers [][]byte, offset int64) (uint32, error) {
	return 0, os.ErrInvalid
}

func (ErrFile) Pwrite(buffers [][]byte, offset int64) (uint32, error) {
	return 0, os.ErrInvalid
}

func (ErrFile) Readv(buffers [][]byte) (uint32, error) {
	return 0, os.ErrInvalid
}

func (ErrFile) Seek(offset int64, whence int) (int64, error) {
	return 0, os.ErrInvalid
}

func (ErrFile) SetFlags(flags int) error {
	return os.ErrInvalid
}

func (ErrFile) SetSize(size uint64) error {
	return os.ErrInvalid
}

func (ErrFile) SetTimes(accessTime *time.Time, modTime *time.Time) error {
	return os.ErrInvalid
}

func (ErrFile) Stat() (FDStat, error) {
	return FDStat{}, os.ErrInvalid
}

func (ErrFile) Sync() error {
	return os.ErrInvalid
}

func (ErrFile) Writev(buffers [][]byte) (uint32, error) {
	return 0, os.ErrInvalid
}

func Pread(r io.ReaderAt, buffers [][]byte, offset int64) (uint32, error) {
	read := uint32(0)
	for _, b := range buffers {
		n, err := r.ReadAt(b, offset)
		read, offset = read+uint32(n), offset+int64(n)

		if err != nil {
			return read, err
		}
	}
	return read, nil
}

func Pwrite(w io.WriterAt, buffers [][]byte, offset int64) (uint32, error) {
	written := uint32(0)
	for _, b := range buffers {
		n, err := w.WriteAt(b, offset)
		written, offset = written+uint32(n), offset+int64(n)

		if err != nil {
			return written, err
		}
	}
	return written, nil
}

func Readv(r io.Reader, buffers [][]byte) (uint32, error) {
	read := uint32(0)
	for _, b := range buffers {
		n, err := r.Read(b)
		read += uint32(n)

		if err != nil {
			return read, err
		}
	}
	return read, nil
}

func Writev(w io.Writer, buffers [][]byte) (uint32, error) {
	written := uint32(0)
	for _, b := range buffers {
		n, err := w.Write(b)
		written += uint32(n)

		if err != nil {
			return written, err
		}
	}
	return written, nil
}

type readerFile struct {
	ErrFile
	r io.Reader
}

// NewReader wraps a plain reader as a stream File. Only Readv is supported;
// all other operations fail.
func NewReader(r io.Reader) File {
	return &readerFile{r: r}
}

func (f *readerFile) Readv(buffers [][]byte) (uint32, error) {
	return Readv(f.r, buffers)
}

func (f *readerFile) Stat() (FDStat, error) {
	return FDStat{FileStat: FileStat{Mode: os.ModeCharDevice | os.ModeDevice}}, nil
}

type writerFile struct {
	ErrFile
	w io.Writer
}

// NewWriter wraps a plain writer as a stream File. Only Writev is supported;
// all other operations fail.
func NewWriter(w io.Writer) File {
	return &writerFile{w: w}
}

func (f *writerFile) Writev(buffers [][]byte) (uint32, error) {
	return Writev(f.w, buffers)
}

func (f *writerFile) Stat() (FDStat, error) {
	return FDStat{FileStat: FileStat{Mode: os.ModeCharDevice | os.ModeDevice}}, nil
}

type osFile struct {
	ErrFile
	f     *os.File
	flags int
}

func NewFile(f *os.File, flags int) File {
	return &osFile{f: f, flags: flags}
}

func (f *osFile) Advise(offset, length uint64, advice int) error {
	return fadvise(f.f, offset, length, advice)
}

func (f *osFile) Allocate(offset, length uint64) error {
	return fallocate(f.f, offset, length)
}

func (f *osFile) Close() error {
	return f.f.Close()
}

func (f *osFile) Datasync() error {
	return fdatasync(f.f)
}

func (f *osFile) Pread(buffers [][]byte, offset int64) (uint32, error) {
	return Pread(f.f, buffers, offset)
}

func (f *osFile) Pwrite(buffers [][]byte, offset int64) (uint32, error) {
	return Pwrite(f.f, buffers, offset)
}

func (f *osFile) Readv(buffers [][]byte) (uint32, error) {
	return Readv(f.f, buffers)
}

func (f *osFile) Seek(offset int64, whence int) (int64, error) {
	return f.f.Seek(offset, whence)
}

func (f *osFile) SetFlags(flags int) error {
	if err := setStatusFlags(f.f, flags); err != nil {
		return err
	}
	f.flags = flags
	return nil
}

func (f *osFile) SetSize(size uint64) error {
	return f.f.Truncate(int64(size))
}

func (f *osFile) SetTimes(accessTime *time.Time, modTime *time.Time) error {
	return futimes(f.f, accessTime, modTime)
}

func (f *osFile) Stat() (FDStat, error) {
	info, err := f.f.Stat()
	if err != nil {
		return FDStat{}, err
	}
	return FDStat{
		FileStat: fileStat(info),
		Flags:    f.flags,
	}, nil
}

func (f *osFile) Sync() error {
	return f.f.Sync()
}

func (f *osFile) Writev(buffers [][]byte) (uint32, error) {
	return Writev(f.f, buffers)
}

// osDirectory is a directory handle confined to a preopen root. root is the
// host path of the preopen; rel is the directory's slash-separated position
// beneath it ("." for the root itself). All path-taking operations sanitize
// the guest path and re-validate symlink expansions against root.
type osDirectory struct {
	osFile

	root string
	rel  string
}

// NewDirectory wraps an opened directory as a preopen root.
func NewDirectory(root string, f *os.File) Directory {
	return &osDirectory{osFile: osFile{f: f}, root: root, rel: "."}
}

func (d *osDirectory) resolve(name string, followFinal bool) (string, error) {
	rel, err := sanitizePath(name)
	if err != nil {
		return "", err
	}
	return confinePath(d.root, path.Join(d.rel, rel), followFinal)
}

// childRel returns the sandbox-relative position of name beneath d, for
// handing to a child directory handle.
func (d *osDirectory) childRel(name string) (string, error) {
	rel, err := sanitizePath(name)
	if err != nil {
		return "", err
	}
	return path.Join(d.rel, rel), nil
}

func (d *osDirectory) FileStat(name string, followSymlinks bool) (FileStat, error) {
	p, err := d.resolve(name, followSymlinks)
	if err != nil {
		return FileStat{}, err
	}

	var info os.FileInfo
	if followSymlinks {
		info, err = os.Stat(p)
	} else {
		info, err = os.Lstat(p)
	}
	if err != nil {
		return FileStat{}, err
	}

	return fileStat(info), nil
}

func (d *osDirectory) Mkdir(name string) error {
	p, err := d.resolve(name, false)
	if err != nil {
		return err
	}
	return os.Mkdir(p, 0700)
}

func (d *osDirectory) Open(name string, opts OpenOptions) (File, error) {
	p, err := d.resolve(name, opts.FollowSymlinks)
	if err != nil {
		return nil, err
	}

	osFlags := 0
	switch {
	case opts.Read && opts.Write:
		osFlags = os.O_RDWR
	case opts.Write:
		osFlags = os.O_WRONLY
	default:
		osFlags = os.O_RDONLY
	}
	if opts.OFlags&int(O_Create) != 0 {
		osFlags |= os.O_CREATE
	}
	if opts.OFlags&int(O_Excl) != 0 {
		osFlags |= os.O_EXCL
	}
	if opts.OFlags&int(O_Trunc) != 0 {
		osFlags |= os.O_TRUNC
	}
	if opts.FDFlags&int(F_Append) != 0 {
		osFlags |= os.O_APPEND
	}
	if opts.FDFlags&int(F_Dsync|F_Rsync|F_Sync) != 0 {
		osFlags |= os.O_SYNC
	}
	if !opts.FollowSymlinks {
		osFlags |= oNofollow
	}

	if opts.OFlags&int(O_Directory) != 0 {
		f, err := os.OpenFile(p, os.O_RDONLY, 0)
		if err != nil {
			return nil, err
		}
		info, err := f.Stat()
		if err != nil {
			f.Close()
			return nil, err
		}
		if !info.IsDir() {
			f.Close()
			return nil, errNotDir
		}
		rel, err := d.childRel(name)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &osDirectory{osFile: osFile{f: f}, root: d.root, rel: rel}, nil
	}

	f, err := os.OpenFile(p, osFlags, 0600)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		rel, err := d.childRel(name)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &osDirectory{osFile: osFile{f: f}, root: d.root, rel: rel}, nil
	}
	return NewFile(f, opts.FDFlags), nil
}

func (d *osDirectory) ReadDir(n int) ([]os.DirEntry, error) {
	if n < 0 {
		// Rewind so a full listing always starts from the first entry; a
		// prior snapshot leaves the stream at EOF.
		if _, err := d.f.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
	}
	return d.f.ReadDir(n)
}

func (d *osDirectory) ReadLink(name string) (string, error) {
	p, err := d.resolve(name, false)
	if err != nil {
		return "", err
	}
	return os.Readlink(p)
}

func (d *osDirectory) Rmdir(name string) error {
	p, err := d.resolve(name, false)
	if err != nil {
		return err
	}
	info, err := os.Lstat(p)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return errNotDir
	}
	return os.Remove(p)
}

func (d *osDirectory) SetFileTimes(name string, accessTime *time.Time, modTime *time.Time, followSymlinks bool) error {
	p, err := d.resolve(name, followSymlinks)
	if err != nil {
		return err
	}
	return utimes(p, accessTime, modTime, followSymlinks)
}

func (d *osDirectory) UnlinkFile(name string) error {
	p, err := d.resolve(name, false)
	if err != nil {
		return err
	}
	info, err := os.Lstat(p)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return errIsDir
	}
	return os.Remove(p)
}

func NewFS() FS {
	return newOSFS()
}

func (*osFS) OpenDirectory(path string) (Directory, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(abs, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if !info.IsDir() {
		f.Close()
		return nil, errNotDir
	}
	return NewDirectory(abs, f), nil
}

func (*osFS) Link(sourceDir Directory, sourceName string, targetDir Directory, targetName string) error {
	source, ok := sourceDir.(*osDirectory)
	if !ok {
		return os.ErrInvalid
	}
	target, ok := targetDir.(*osDirectory)
	if !ok {
		return os.ErrInvalid
	}
	sourcePath, err := source.resolve(sourceName, false)
	if err != nil {
		return err
	}
	targetPath, err := target.resolve(targetName, false)
	if err != nil {
		return err
	}
	return os.Link(sourcePath, targetPath)
}

func (*osFS) Rename(sourceDir Directory, sourceName string, targetDir Directory, targetName string) error {
	source, ok := sourceDir.(*osDirectory)
	if !ok {
		return os.ErrInvalid
	}
	target, ok := targetDir.(*osDirectory)
	if !ok {
		return os.ErrInvalid
	}
	sourcePath, err := source.resolve(sourceName, false)
	if err != nil {
		return err
	}
	targetPath, err := target.resolve(targetName, false)
	if err != nil {
		return err
	}
	return os.Rename(sourcePath, targetPath)
}

func (*osFS) Symlink(target string, dir Directory, name string) error {
	d, ok := dir.(*osDirectory)
	if !ok {
		return os.ErrInvalid
	}
	// The link target is stored verbatim; it is validated against the
	// sandbox root when the link is resolved, not when it is created.
	linkPath, err := d.resolve(name, false)
	if err != nil {
		return err
	}
	return os.Symlink(target, linkPath)
}
