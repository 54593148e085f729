// This file describes the wire-level contract of the WASI snapshot_preview1
// ABI per wasi_snapshot_preview1.witx. Struct layouts have fixed field order,
// width, and little-endian encoding; guest binaries are compiled against
// these exact layouts, so they must not be reordered or repadded.
//
// The interface described here is greatly inspired by [CloudABI]'s clean,
// thoughtfully-designed, capability-oriented, POSIX-style API.
//
// [CloudABI]: https://github.com/NuxiNL/cloudlibc
// [WASI]: https://github.com/WebAssembly/WASI/

package wasi

import (
	"encoding/binary"
)

var le = binary.LittleEndian

// A guest pointer: a 32-bit offset into the guest's linear memory.
type pointer = uint32

// A guest-visible handle.
type handle = uint32

// A (pointer, length) pair describing a guest-memory region or sequence.
type list struct {
	pointer pointer
	length  int32
}

type wasiSize = uint32

// Non-negative file size or length of a region within a file.
type wasiFilesize = uint64

// Timestamp in nanoseconds.
type wasiTimestamp = uint64

// Identifiers for clocks.
type wasiClockid = uint32

// The clock measuring real time. Time value zero corresponds with
// 1970-01-01T00:00:00Z.
const wasiClockidRealtime = 0

// The store-wide monotonic clock. The epoch of this clock is undefined; only
// differences between its values are meaningful.
const wasiClockidMonotonic = 1

// The CPU-time clock associated with the current process.
const wasiClockidProcessCputimeId = 2

// The CPU-time clock associated with the current thread.
const wasiClockidThreadCputimeId = 3

// Error codes returned by functions.
// Not all of these error codes are returned by the functions provided by this
// API; some are used in higher-level library layers, and others are provided
// merely for alignment with POSIX.
type wasiErrno = uint16

// No error occurred. System call completed successfully.
const wasiErrnoSuccess = 0

// Argument list too long.
const wasiErrno2big = 1

// Permission denied.
const wasiErrnoAcces = 2

// Address in use.
const wasiErrnoAddrinuse = 3

// Address not available.
const wasiErrnoAddrnotavail = 4

// Address family not supported.
const wasiErrnoAfnosupport = 5

// Resource unavailable, or operation would block.
const wasiErrnoAgain = 6

// Connection already in progress.
const wasiErrnoAlready = 7

// Bad file descriptor.
const wasiErrnoBadf = 8

// Bad message.
const wasiErrnoBadmsg = 9

// Device or resource busy.
const wasiErrnoBusy = 10

// Operation canceled.
const wasiErrnoCanceled = 11

// No child processes.
const wasiErrnoChild = 12

// Connection aborted.
const wasiErrnoConnaborted = 13

// Connection refused.
const wasiErrnoConnrefused = 14

// Connection reset.
const wasiErrnoConnreset = 15

// Resource deadlock would occur.
const wasiErrnoDeadlk = 16

// Destination address required.
const wasiErrnoDestaddrreq = 17

// Mathematics argument out of domain of function.
const wasiErrnoDom = 18

// Reserved.
const wasiErrnoDquot = 19

// File exists.
const wasiErrnoExist = 20

// Bad address.
const wasiErrnoFault = 21

// File too large.
const wasiErrnoFbig = 22

// Host is unreachable.
const wasiErrnoHostunreach = 23

// Identifier removed.
const wasiErrnoIdrm = 24

// Illegal byte sequence.
const wasiErrnoIlseq = 25

// Operation in progress.
const wasiErrnoInprogress = 26

// Interrupted function.
const wasiErrnoIntr = 27

// Invalid argument.
const wasiErrnoInval = 28

// I/O error.
const wasiErrnoIo = 29

// Socket is connected.
const wasiErrnoIsconn = 30

// Is a directory.
const wasiErrnoIsdir = 31

// Too many levels of symbolic links.
const wasiErrnoLoop = 32

// File descriptor value too large.
const wasiErrnoMfile = 33

// Too many links.
const wasiErrnoMlink = 34

// Message too large.
const wasiErrnoMsgsize = 35

// Reserved.
const wasiErrnoMultihop = 36

// Filename too long.
const wasiErrnoNametoolong = 37

// Network is down.
const wasiErrnoNetdown = 38

// Connection aborted by network.
const wasiErrnoNetreset = 39

// Network unreachable.
const wasiErrnoNetunreach = 40

// Too many files open in system.
const wasiErrnoNfile = 41

// No buffer space available.
const wasiErrnoNobufs = 42

// No such device.
const wasiErrnoNodev = 43

// No such file or directory.
const wasiErrnoNoent = 44

// Executable file format error.
const wasiErrnoNoexec = 45

// No locks available.
const wasiErrnoNolck = 46

// Reserved.
const wasiErrnoNolink = 47

// Not enough space.
const wasiErrnoNomem = 48

// No message of the desired type.
const wasiErrnoNomsg = 49

// Protocol not available.
const wasiErrnoNoprotoopt = 50

// No space left on device.
const wasiErrnoNospc = 51

// Function not supported.
const wasiErrnoNosys = 52

// The socket is not connected.
const wasiErrnoNotconn = 53

// Not a directory or a symbolic link to a directory.
const wasiErrnoNotdir = 54

// Directory not empty.
const wasiErrnoNotempty = 55

// State not recoverable.
const wasiErrnoNotrecoverable = 56

// Not a socket.
const wasiErrnoNotsock = 57

// Not supported, or operation not supported on socket.
const wasiErrnoNotsup = 58

// Inappropriate I/O control operation.
const wasiErrnoNotty = 59

// No such device or address.
const wasiErrnoNxio = 60

// Value too large to be stored in data type.
const wasiErrnoOverflow = 61

// Previous owner died.
const wasiErrnoOwnerdead = 62

// Operation not permitted.
const wasiErrnoPerm = 63

// Broken pipe.
const wasiErrnoPipe = 64

// Protocol error.
const wasiErrnoProto = 65

// Protocol not supported.
const wasiErrnoProtonosupport = 66

// Protocol wrong type for socket.
const wasiErrnoPrototype = 67

// Result too large.
const wasiErrnoRange = 68

// Read-only file system.
const wasiErrnoRofs = 69

// Invalid seek.
const wasiErrnoSpipe = 70

// No such process.
const wasiErrnoSrch = 71

// Reserved.
const wasiErrnoStale = 72

// Connection timed out.
const wasiErrnoTimedout = 73

// Text file busy.
const wasiErrnoTxtbsy = 74

// Cross-device link.
const wasiErrnoXdev = 75

// Extension: Capabilities insufficient.
const wasiErrnoNotcapable = 76

// File descriptor rights, determining which actions may be performed.
type wasiRights = uint64

const wasiRightsFdDatasync = 1 << 0
const wasiRightsFdRead = 1 << 1
const wasiRightsFdSeek = 1 << 2
const wasiRightsFdFdstatSetFlags = 1 << 3
const wasiRightsFdSync = 1 << 4
const wasiRightsFdTell = 1 << 5
const wasiRightsFdWrite = 1 << 6
const wasiRightsFdAdvise = 1 << 7
const wasiRightsFdAllocate = 1 << 8
const wasiRightsPathCreateDirectory = 1 << 9
const wasiRightsPathCreateFile = 1 << 10
const wasiRightsPathLinkSource = 1 << 11
const wasiRightsPathLinkTarget = 1 << 12
const wasiRightsPathOpen = 1 << 13
const wasiRightsFdReaddir = 1 << 14
const wasiRightsPathReadlink = 1 << 15
const wasiRightsPathRenameSource = 1 << 16
const wasiRightsPathRenameTarget = 1 << 17
const wasiRightsPathFilestatGet = 1 << 18
const wasiRightsPathFilestatSetSize = 1 << 19
const wasiRightsPathFilestatSetTimes = 1 << 20
const wasiRightsFdFilestatGet = 1 << 21
const wasiRightsFdFilestatSetSize = 1 << 22
const wasiRightsFdFilestatSetTimes = 1 << 23
const wasiRightsPathSymlink = 1 << 24
const wasiRightsPathRemoveDirectory = 1 << 25
const wasiRightsPathUnlinkFile = 1 << 26
const wasiRightsPollFdReadwrite = 1 << 27
const wasiRightsSockShutdown = 1 << 28

// A file descriptor handle.
type wasiFd = handle

// A region of memory for scatter/gather reads.
type wasiIovec struct {
	// The address of the buffer to be filled.
	buf pointer
	// The length of the buffer to be filled.
	bufLen wasiSize
}

func (v *wasiIovec) layout() (size, align uint32) {
	return 8, 4
}

func (v *wasiIovec) load(mem memoryView, base uint32) error {
	var err error
	if v.buf, err = mem.uint32(base); err != nil {
		return err
	}
	v.bufLen, err = mem.uint32(base + 4)
	return err
}

// Relative offset within a file.
type wasiFiledelta = int64

// The position relative to which to set the offset of the file descriptor.
type wasiWhence = uint8

// Seek relative to start-of-file.
const wasiWhenceSet = 0

// Seek relative to current position.
const wasiWhenceCur = 1

// Seek relative to end-of-file.
const wasiWhenceEnd = 2

// A reference to the offset of a directory entry.
//
// The value 0 signifies the start of the directory.
type wasiDircookie = uint64

// The type for the `dirent::d_namlen` field of `dirent` struct.
type wasiDirnamlen = uint32

// File serial number that is unique within its file system.
type wasiInode = uint64

// The type of a file descriptor or file.
type wasiFiletype = uint8

const wasiFiletypeUnknown = 0
const wasiFiletypeBlockDevice = 1
const wasiFiletypeCharacterDevice = 2
const wasiFiletypeDirectory = 3
const wasiFiletypeRegularFile = 4
const wasiFiletypeSocketDgram = 5
const wasiFiletypeSocketStream = 6
const wasiFiletypeSymbolicLink = 7

// A directory entry.
type wasiDirent struct {
	// The offset of the next directory entry stored in this directory.
	dNext wasiDircookie
	// The serial number of the file referred to by this directory entry.
	dIno wasiInode
	// The length of the name of the directory entry.
	dNamlen wasiDirnamlen
	// The type of the file referred to by this directory entry.
	dType wasiFiletype
}

func (v *wasiDirent) layout() (size, align uint32) {
	return 24, 8
}

// encode serializes the dirent header. fd_readdir may need to truncate an
// entry mid-struct, so the header is built host-side and copied bytewise.
func (v *wasiDirent) encode() [24]byte {
	var b [24]byte
	le.PutUint64(b[0:], v.dNext)
	le.PutUint64(b[8:], v.dIno)
	le.PutUint32(b[16:], v.dNamlen)
	b[20] = v.dType
	return b
}

// File or memory access pattern advisory information.
type wasiAdvice = uint8

const wasiAdviceNormal = 0
const wasiAdviceSequential = 1
const wasiAdviceRandom = 2
const wasiAdviceWillneed = 3
const wasiAdviceDontneed = 4
const wasiAdviceNoreuse = 5

// File descriptor flags.
type wasiFdflags = uint16

// Append mode: Data written to the file is always appended to the file's
// end.
const wasiFdflagsAppend = 1 << 0

// Write according to synchronized I/O data integrity completion. Only the
// data stored in the file is synchronized.
const wasiFdflagsDsync = 1 << 1

// Non-blocking mode.
const wasiFdflagsNonblock = 1 << 2

// Synchronized read I/O operations.
const wasiFdflagsRsync = 1 << 3

// Write according to synchronized I/O file integrity completion.
const wasiFdflagsSync = 1 << 4

// File descriptor attributes.
type wasiFdstat struct {
	// File type.
	fsFiletype wasiFiletype
	// File descriptor flags.
	fsFlags wasiFdflags
	// Rights that apply to this file descriptor.
	fsRightsBase wasiRights
	// Maximum set of rights that may be installed on new file descriptors
	// that are created through this file descriptor, e.g., through
	// `path_open`.
	fsRightsInheriting wasiRights
}

func (v *wasiFdstat) layout() (size, align uint32) {
	return 24, 8
}

func (v *wasiFdstat) store(mem memoryView, base uint32) error {
	if err := mem.putByte(v.fsFiletype, base); err != nil {
		return err
	}
	if err := mem.putUint16(v.fsFlags, base+2); err != nil {
		return err
	}
	if err := mem.putUint64(v.fsRightsBase, base+8); err != nil {
		return err
	}
	return mem.putUint64(v.fsRightsInheriting, base+16)
}

// Identifier for a device containing a file system.
type wasiDevice = uint64

// Which file time attributes to adjust.
type wasiFstflags = uint16

// Adjust the last data access timestamp to the value stored in
// `filestat::atim`.
const wasiFstflagsAtim = 1 << 0

// Adjust the last data access timestamp to the time of clock
// `clockid::realtime`.
const wasiFstflagsAtimNow = 1 << 1

// Adjust the last data modification timestamp to the value stored in
// `filestat::mtim`.
const wasiFstflagsMtim = 1 << 2

// Adjust the last data modification timestamp to the time of clock
// `clockid::realtime`.
const wasiFstflagsMtimNow = 1 << 3

// Flags determining the method of how paths are resolved.
type wasiLookupflags = uint32

// As long as the resolved path corresponds to a symbolic link, it is
// expanded.
const wasiLookupflagsSymlinkFollow = 1 << 0

// Open flags used by `path_open`.
type wasiOflags = uint16

// Create file if it does not exist.
const wasiOflagsCreat = 1 << 0

// Fail if not a directory.
const wasiOflagsDirectory = 1 << 1

// Fail if file already exists.
const wasiOflagsExcl = 1 << 2

// Truncate file to size 0.
const wasiOflagsTrunc = 1 << 3

// Number of hard links to an inode.
type wasiLinkcount = uint64

// File attributes.
type wasiFilestat struct {
	// Device ID of device containing the file.
	dev wasiDevice
	// File serial number.
	ino wasiInode
	// File type.
	filetype wasiFiletype
	// Number of hard links to the file.
	nlink wasiLinkcount
	// For regular files, the file size in bytes. For symbolic links, the
	// length in bytes of the pathname contained in the symbolic link.
	size wasiFilesize
	// Last data access timestamp.
	atim wasiTimestamp
	// Last data modification timestamp.
	mtim wasiTimestamp
	// Last file status change timestamp.
	ctim wasiTimestamp
}

func (v *wasiFilestat) layout() (size, align uint32) {
	return 64, 8
}

func (v *wasiFilestat) store(mem memoryView, base uint32) error {
	if err := mem.putUint64(v.dev, base); err != nil {
		return err
	}
	if err := mem.putUint64(v.ino, base+8); err != nil {
		return err
	}
	if err := mem.putByte(v.filetype, base+16); err != nil {
		return err
	}
	if err := mem.putUint64(v.nlink, base+24); err != nil {
		return err
	}
	if err := mem.putUint64(v.size, base+32); err != nil {
		return err
	}
	if err := mem.putUint64(v.atim, base+40); err != nil {
		return err
	}
	if err := mem.putUint64(v.mtim, base+48); err != nil {
		return err
	}
	return mem.putUint64(v.ctim, base+56)
}

// User-provided value that may be attached to objects that is retained when
// extracted from the implementation.
type wasiUserdata = uint64

// Type of a subscription to an event or its occurrence.
type wasiEventtype = uint8

// The time value of clock `subscription_clock::id` has reached timestamp
// `subscription_clock::timeout`.
const wasiEventtypeClock = 0

// File descriptor `subscription_fd_readwrite::file_descriptor` has data
// available for reading. This event always triggers for regular files.
const wasiEventtypeFdRead = 1

// File descriptor `subscription_fd_readwrite::file_descriptor` has capacity
// available for writing. This event always triggers for regular files.
const wasiEventtypeFdWrite = 2

// The state of the file descriptor subscribed to with `eventtype::fd_read`
// or `eventtype::fd_write`.
type wasiEventrwflags = uint16

// The peer of this socket has closed or disconnected.
const wasiEventrwflagsFdReadwriteHangup = 1 << 0

// The contents of an `event` when type is `eventtype::fd_read` or
// `eventtype::fd_write`.
type wasiEventFdReadwrite struct {
	// The number of bytes available for reading or writing.
	nbytes wasiFilesize
	// The state of the file descriptor.
	flags wasiEventrwflags
}

func (v *wasiEventFdReadwrite) layout() (size, align uint32) {
	return 16, 8
}

func (v *wasiEventFdReadwrite) store(mem memoryView, base uint32) error {
	if err := mem.putUint64(v.nbytes, base); err != nil {
		return err
	}
	return mem.putUint16(v.flags, base+8)
}

// An event that occurred.
type wasiEvent struct {
	// User-provided value that got attached to `subscription::userdata`.
	userdata wasiUserdata
	// If non-zero, an error that occurred while processing the subscription
	// request.
	error wasiErrno
	// The type of event that occurred.
	type_ wasiEventtype
	// The contents of the event, if it is an `eventtype::fd_read` or
	// `eventtype::fd_write`. `eventtype::clock` events ignore this field.
	fdReadwrite wasiEventFdReadwrite
}

func (v *wasiEvent) layout() (size, align uint32) {
	return 32, 8
}

func (v *wasiEvent) store(mem memoryView, base uint32) error {
	if err := mem.putUint64(v.userdata, base); err != nil {
		return err
	}
	if err := mem.putUint16(v.error, base+8); err != nil {
		return err
	}
	if err := mem.putByte(v.type_, base+10); err != nil {
		return err
	}
	return v.fdReadwrite.store(mem, base+16)
}

// Flags determining how to interpret the timestamp provided in
// `subscription_clock::timeout`.
type wasiSubclockflags = uint16

// If set, treat the timestamp provided in `subscription_clock::timeout` as
// an absolute timestamp of clock `subscription_clock::id`. If clear, treat
// it as relative to the current time value of that clock.
const wasiSubclockflagsSubscriptionClockAbstime = 1 << 0

// The contents of a `subscription` when type is `eventtype::clock`.
type wasiSubscriptionClock struct {
	// The clock against which to compare the timestamp.
	id wasiClockid
	// The absolute or relative timestamp.
	timeout wasiTimestamp
	// The amount of time that the implementation may wait additionally to
	// coalesce with other events.
	precision wasiTimestamp
	// Flags specifying whether the timeout is absolute or relative.
	flags wasiSubclockflags
}

func (v *wasiSubscriptionClock) layout() (size, align uint32) {
	return 32, 8
}

func (v *wasiSubscriptionClock) load(mem memoryView, base uint32) error {
	var err error
	if v.id, err = mem.uint32(base); err != nil {
		return err
	}
	if v.timeout, err = mem.uint64(base + 8); err != nil {
		return err
	}
	if v.precision, err = mem.uint64(base + 16); err != nil {
		return err
	}
	v.flags, err = mem.uint16(base + 24)
	return err
}

// The contents of a `subscription` when type is `eventtype::fd_read` or
// `eventtype::fd_write`.
type wasiSubscriptionFdReadwrite struct {
	// The file descriptor on which to wait for it to become ready for
	// reading or writing.
	fileDescriptor wasiFd
}

func (v *wasiSubscriptionFdReadwrite) layout() (size, align uint32) {
	return 4, 4
}

func (v *wasiSubscriptionFdReadwrite) load(mem memoryView, base uint32) error {
	var err error
	v.fileDescriptor, err = mem.uint32(base)
	return err
}

// The contents of a `subscription`.
type wasiSubscriptionU struct {
	tag uint8

	clock   wasiSubscriptionClock
	fdRead  wasiSubscriptionFdReadwrite
	fdWrite wasiSubscriptionFdReadwrite
}

func (v *wasiSubscriptionU) layout() (size, align uint32) {
	return 40, 8
}

func (v *wasiSubscriptionU) load(mem memoryView, base uint32) error {
	var err error
	if v.tag, err = mem.byte(base); err != nil {
		return err
	}
	switch v.tag {
	case wasiEventtypeClock:
		return v.clock.load(mem, base+8)
	case wasiEventtypeFdRead:
		return v.fdRead.load(mem, base+8)
	case wasiEventtypeFdWrite:
		return v.fdWrite.load(mem, base+8)
	}
	return nil
}

// Subscription to an event.
type wasiSubscription struct {
	// User-provided value that is attached to the subscription in the
	// implementation and returned through `event::userdata`.
	userdata wasiUserdata
	// The type of the event to which to subscribe, and its contents.
	u wasiSubscriptionU
}

func (v *wasiSubscription) layout() (size, align uint32) {
	return 48, 8
}

func (v *wasiSubscription) load(mem memoryView, base uint32) error {
	var err error
	if v.userdata, err = mem.uint64(base); err != nil {
		return err
	}
	return v.u.load(mem, base+8)
}

// Exit code generated by a process when exiting.
type wasiExitcode = uint32

// Signal condition.
type wasiSignal = uint8

const wasiSignalNone = 0
const wasiSignalHup = 1
const wasiSignalInt = 2
const wasiSignalQuit = 3
const wasiSignalIll = 4
const wasiSignalTrap = 5
const wasiSignalAbrt = 6
const wasiSignalBus = 7
const wasiSignalFpe = 8
const wasiSignalKill = 9
const wasiSignalUsr1 = 10
const wasiSignalSegv = 11
const wasiSignalUsr2 = 12
const wasiSignalPipe = 13
const wasiSignalAlrm = 14
const wasiSignalTerm = 15
const wasiSignalChld = 16
const wasiSignalCont = 17
const wasiSignalStop = 18
const wasiSignalTstp = 19
const wasiSignalTtin = 20
const wasiSignalTtou = 21
const wasiSignalUrg = 22
const wasiSignalXcpu = 23
const wasiSignalXfsz = 24
const wasiSignalVtalrm = 25
const wasiSignalProf = 26
const wasiSignalWinch = 27
const wasiSignalPoll = 28
const wasiSignalPwr = 29
const wasiSignalSys = 30

// Flags provided to `sock_recv`.
type wasiRiflags = uint16

// Returns the message without removing it from the socket's receive queue.
const wasiRiflagsRecvPeek = 1 << 0

// On byte-stream sockets, block until the full amount of data can be
// returned.
const wasiRiflagsRecvWaitall = 1 << 1

// Flags returned by `sock_recv`.
type wasiRoflags = uint16

// Returned by `sock_recv`: Message data has been truncated.
const wasiRoflagsRecvDataTruncated = 1 << 0

// Flags provided to `sock_send`. As there are currently no flags defined, it
// must be set to zero.
type wasiSiflags = uint16

// Which channels on a socket to shut down.
type wasiSdflags = uint8

// Disables further receive operations.
const wasiSdflagsRd = 1 << 0

// Disables further send operations.
const wasiSdflagsWr = 1 << 1

// Identifiers for preopened capabilities.
type wasiPreopentype = uint8

// A pre-opened directory.
const wasiPreopentypeDir = 0

// The contents of a $prestat when type is `preopentype::dir`.
type wasiPrestatDir struct {
	// The length of the directory name for use with `fd_prestat_dir_name`.
	prNameLen wasiSize
}

func (v *wasiPrestatDir) layout() (size, align uint32) {
	return 4, 4
}

func (v *wasiPrestatDir) store(mem memoryView, base uint32) error {
	return mem.putUint32(v.prNameLen, base)
}

// Information about a pre-opened capability.
type wasiPrestat struct {
	tag uint8

	dir wasiPrestatDir
}

func (v *wasiPrestat) layout() (size, align uint32) {
	return 8, 4
}

func (v *wasiPrestat) store(mem memoryView, base uint32) error {
	if err := mem.putByte(v.tag, base); err != nil {
		return err
	}
	switch v.tag {
	case wasiPreopentypeDir:
		return v.dir.store(mem, base+4)
	}
	return nil
}

func alignTo(size, align uint32) uint32 {
	return size + align - 1 - ((size + align - 1) % align)
}
